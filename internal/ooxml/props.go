package ooxml

import (
	"strconv"

	"github.com/ppiankov/apa7/internal/model"
)

// Property elements built from a formatting directive. The same builders
// serve direct paragraph formatting and style definitions, so a template
// style and a post-processed paragraph carry identical markup.

// Spacing builds w:spacing for a directive. Line defaults to single.
func Spacing(d model.Directive) *Node {
	line := d.Line
	if line == 0 {
		line = model.LineSingle
	}
	return NewElement("w:spacing",
		"w:before", Twips(d.SpaceBefore),
		"w:after", Twips(d.SpaceAfter),
		"w:line", Twips(line),
		"w:lineRule", "auto",
	)
}

// Indent builds w:ind for a directive. A hanging indent wins over a
// first-line indent; a paragraph without either gets an explicit
// w:firstLine="0" so no inherited indent survives.
func Indent(d model.Directive) *Node {
	ind := NewElement("w:ind", "w:left", Twips(d.LeftIndent))
	if d.RightIndent != 0 {
		ind.SetAttr("w:right", Twips(d.RightIndent))
	}
	if d.Hanging > 0 {
		ind.SetAttr("w:hanging", Twips(d.Hanging))
	} else {
		ind.SetAttr("w:firstLine", Twips(d.FirstLine))
	}
	return ind
}

// Justification builds w:jc, or nil when the directive leaves alignment alone.
func Justification(d model.Directive) *Node {
	if d.Alignment == "" {
		return nil
	}
	return Val("w:jc", string(d.Alignment))
}

// Fonts builds w:rFonts naming one font for every script slot. Theme font
// attributes are dropped because they take precedence over named fonts.
func Fonts(font string) *Node {
	return NewElement("w:rFonts",
		"w:ascii", font,
		"w:hAnsi", font,
		"w:eastAsia", font,
		"w:cs", font,
	)
}

// ApplyFont sets font family and size on run properties.
func ApplyFont(rPr *Node, d model.Directive) {
	rPr.Replace(Fonts(d.Font))
	hp := strconv.Itoa(d.HalfPoints())
	rPr.Replace(Val("w:sz", hp))
	rPr.Replace(Val("w:szCs", hp))
}

// ApplyEmphasis sets bold and italic on run properties as the directive
// says, switching them off explicitly otherwise.
func ApplyEmphasis(rPr *Node, d model.Directive) {
	rPr.Replace(OnOff("w:b", d.Bold))
	rPr.Replace(OnOff("w:i", d.Italic))
}

// ApplyParagraph sets spacing, indentation and alignment on paragraph
// properties.
func ApplyParagraph(pPr *Node, d model.Directive) {
	pPr.Replace(Spacing(d))
	pPr.Replace(Indent(d))
	if jc := Justification(d); jc != nil {
		pPr.Replace(jc)
	}
}

// Black builds a w:color element forcing black text.
func Black() *Node {
	return Val("w:color", "000000")
}
