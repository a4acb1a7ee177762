package ooxml

import "strconv"

// Helpers for editing WordprocessingML paragraphs, runs and tables.

// ParagraphStyle returns the style id of a w:p, or "".
func ParagraphStyle(p *Node) string {
	return p.Child("w:pPr").Child("w:pStyle").attrVal()
}

// SetParagraphStyle sets the style id of a w:p.
func SetParagraphStyle(p *Node, id string) {
	p.Ensure("w:pPr").Replace(Val("w:pStyle", id))
}

func (n *Node) attrVal() string {
	if n == nil {
		return ""
	}
	return n.AttrOr("w:val", "")
}

// Val creates an element carrying only a w:val attribute.
func Val(name, val string) *Node {
	return NewElement(name, "w:val", val)
}

// OnOff creates a toggle property (w:b, w:i...). Off is written explicitly
// so the run overrides whatever its style says.
func OnOff(name string, on bool) *Node {
	if on {
		return NewElement(name)
	}
	return Val(name, "0")
}

// IsOn reports whether a toggle property is present and not switched off.
func IsOn(props *Node, name string) bool {
	el := props.Child(name)
	if el == nil {
		return false
	}
	switch el.AttrOr("w:val", "1") {
	case "0", "false", "off":
		return false
	}
	return true
}

// Twips formats a twip value for an attribute.
func Twips(v int) string {
	return strconv.Itoa(v)
}

// Runs returns the runs of a paragraph in document order, including runs
// nested in hyperlinks, smart tags and insertions. Runs in deletions are
// not returned.
func Runs(p *Node) []*Node {
	var runs []*Node
	p.Walk(func(n *Node) bool {
		if n.Type != ElementNode || n == p {
			return true
		}
		switch n.Name {
		case "w:r":
			runs = append(runs, n)
			return false
		case "w:del", "w:pPr", "w:moveFrom":
			return false
		}
		return true
	})
	return runs
}

// BodyParagraphs returns the paragraphs that are direct children of
// w:body, the ones a reader sees as document text outside tables.
func BodyParagraphs(body *Node) []*Node {
	return body.Elements("w:p")
}

// BodyTables returns the top-level tables of the body.
func BodyTables(body *Node) []*Node {
	return body.Elements("w:tbl")
}

// TableRows returns the rows of a table.
func TableRows(tbl *Node) []*Node {
	return tbl.Elements("w:tr")
}

// RowCells returns the cells of a row.
func RowCells(tr *Node) []*Node {
	return tr.Elements("w:tc")
}

// NewRun creates a run with the given text.
func NewRun(text string) *Node {
	r := NewElement("w:r")
	t := NewElement("w:t")
	t.SetText(text)
	r.AppendChild(t)
	return r
}
