package ooxml

import (
	"strings"

	"github.com/ppiankov/apa7/internal/model"
)

// PageNumberHeader builds a header part holding one right-aligned paragraph
// with a PAGE field, set in the directive's font.
func PageNumberHeader(d model.Directive) *Node {
	doc := &Node{Type: DocumentNode}
	doc.AppendChild(&Node{Type: ProcInstNode, Name: "xml", Data: `version="1.0" encoding="UTF-8" standalone="yes"`})
	hdr := NewElement("w:hdr", "xmlns:w", NSW, "xmlns:r", NSR)
	doc.AppendChild(hdr)

	p := NewElement("w:p")
	pPr := p.Ensure("w:pPr")
	pPr.Replace(Val("w:jc", string(model.AlignRight)))
	ApplyFont(pPr.Ensure("w:rPr"), d)

	field := func(child *Node) *Node {
		r := NewElement("w:r")
		ApplyFont(r.Ensure("w:rPr"), d)
		r.AppendChild(child)
		return r
	}
	instr := NewElement("w:instrText")
	instr.SetText(" PAGE ")
	num := NewElement("w:t")
	num.SetText("1")

	p.AppendChild(field(NewElement("w:fldChar", "w:fldCharType", "begin")))
	p.AppendChild(field(instr))
	p.AppendChild(field(NewElement("w:fldChar", "w:fldCharType", "separate")))
	p.AppendChild(field(num))
	p.AppendChild(field(NewElement("w:fldChar", "w:fldCharType", "end")))
	hdr.AppendChild(p)
	return doc
}

// HasPageField reports whether a part contains a PAGE field, either as a
// simple field or as a complex field instruction.
func HasPageField(n *Node) bool {
	found := false
	n.Walk(func(c *Node) bool {
		if found || c.Type != ElementNode {
			return !found
		}
		var instr string
		switch c.Name {
		case "w:fldSimple":
			instr = c.AttrOr("w:instr", "")
		case "w:instrText":
			for _, t := range c.Children {
				instr += t.Data
			}
		default:
			return true
		}
		fields := strings.Fields(instr)
		found = len(fields) > 0 && strings.EqualFold(fields[0], "PAGE")
		return false
	})
	return found
}
