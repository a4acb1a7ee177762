package template

import (
	"strconv"

	"github.com/ppiankov/apa7/internal/model"
	"github.com/ppiankov/apa7/internal/ooxml"
)

// headingLevels maps heading roles onto their outline level.
var headingLevels = map[model.Role]int{
	model.RoleHeading1: 1,
	model.RoleHeading2: 2,
	model.RoleHeading3: 3,
	model.RoleHeading4: 4,
	model.RoleHeading5: 5,
}

// converterStyles are the remaining paragraph styles pandoc assigns by id.
// Each borrows the directive of the role it reads as.
var converterStyles = []struct {
	binding model.StyleBinding
	role    model.Role
	adjust  func(d *model.Directive)
}{
	{paragraphStyle("Subtitle", "Subtitle", "Title"), model.RoleTitle, regular},
	{paragraphStyle("Author", "Author", "Normal"), model.RoleTitle, regular},
	{paragraphStyle("Date", "Date", "Normal"), model.RoleTitle, regular},
	{paragraphStyle("AbstractTitle", "Abstract Title", "Normal"), model.RoleTitle, nil},
	{paragraphStyle("Abstract", "Abstract", "Normal"), model.RoleFirstParagraph, nil},
	{paragraphStyle("TableCaption", "Table Caption", "Caption"), model.RoleCaption, nil},
	{paragraphStyle("ImageCaption", "Image Caption", "Caption"), model.RoleCaption, nil},
	{paragraphStyle("Figure", "Figure", "Normal"), model.RoleFirstParagraph, nil},
	{paragraphStyle("CaptionedFigure", "Captioned Figure", "Figure"), model.RoleFirstParagraph, nil},
	{paragraphStyle("DefinitionTerm", "Definition Term", "Normal"), model.RoleFirstParagraph, nil},
	{paragraphStyle("Definition", "Definition", "Normal"), model.RoleFirstParagraph, nil},
	{paragraphStyle("FootnoteText", "footnote text", "Normal"), model.RoleFirstParagraph, single},
	{paragraphStyle("TOCHeading", "TOC Heading", "Normal"), model.RoleHeading1, nil},
}

func paragraphStyle(id, name, basedOn string) model.StyleBinding {
	return model.StyleBinding{ID: id, Name: name, Type: "paragraph", BasedOn: basedOn}
}

func regular(d *model.Directive) { d.Bold = false }

func single(d *model.Directive) { d.Line = model.LineSingle }

// buildStyles renders word/styles.xml for a rule set. Normal carries the
// body directive; every bound role gets its own style, once per style id, followed by the
// converter's other paragraph styles.
func buildStyles(rules *model.RuleSet) *ooxml.Node {
	doc := newPart()
	root := ooxml.NewElement("w:styles", "xmlns:w", ooxml.NSW, "xmlns:r", ooxml.NSR)
	doc.AppendChild(root)

	body := rules.MustDirective(model.RoleBody)
	root.AppendChild(docDefaults(body))

	normal := model.StyleBinding{ID: "Normal", Name: "Normal", Type: "paragraph"}
	root.AppendChild(styleElement(normal, body, 0, true))

	seen := map[string]bool{"Normal": true}
	for _, role := range model.RequiredRoles {
		b := rules.Bindings[role]
		if seen[b.ID] {
			continue
		}
		seen[b.ID] = true
		root.AppendChild(styleElement(b, rules.MustDirective(role), headingLevels[role], false))
	}

	for _, cs := range converterStyles {
		if seen[cs.binding.ID] {
			continue
		}
		seen[cs.binding.ID] = true
		d := rules.MustDirective(cs.role)
		if cs.adjust != nil {
			cs.adjust(&d)
		}
		root.AppendChild(styleElement(cs.binding, d, 0, false))
	}

	root.AppendChild(defaultParagraphFont())
	root.AppendChild(tableNormal())
	root.AppendChild(tableStyle(rules.Borders))
	return doc
}

func docDefaults(d model.Directive) *ooxml.Node {
	rPr := ooxml.NewElement("w:rPr")
	ooxml.ApplyFont(rPr, d)
	rPr.Replace(ooxml.Black())
	rPr.Replace(ooxml.NewElement("w:lang", "w:val", "en-US", "w:eastAsia", "en-US", "w:bidi", "ar-SA"))

	pPr := ooxml.NewElement("w:pPr")
	pPr.Replace(ooxml.Spacing(d))

	rDef := ooxml.NewElement("w:rPrDefault")
	rDef.AppendChild(rPr)
	pDef := ooxml.NewElement("w:pPrDefault")
	pDef.AppendChild(pPr)

	defaults := ooxml.NewElement("w:docDefaults")
	defaults.AppendChild(rDef)
	defaults.AppendChild(pDef)
	return defaults
}

// styleElement renders one style definition. level is the heading level,
// 0 for non-headings.
func styleElement(b model.StyleBinding, d model.Directive, level int, isDefault bool) *ooxml.Node {
	st := ooxml.NewElement("w:style", "w:type", b.Type)
	if isDefault {
		st.SetAttr("w:default", "1")
	}
	st.SetAttr("w:styleId", b.ID)

	st.Insert(ooxml.Val("w:name", b.Name))
	if b.BasedOn != "" {
		st.Insert(ooxml.Val("w:basedOn", b.BasedOn))
	}
	if level > 0 {
		st.Insert(ooxml.Val("w:next", "FirstParagraph"))
		st.Insert(ooxml.Val("w:uiPriority", strconv.Itoa(9)))
	}
	st.Insert(ooxml.NewElement("w:qFormat"))

	if b.Type == "paragraph" {
		pPr := st.Ensure("w:pPr")
		if level > 0 {
			pPr.Insert(ooxml.NewElement("w:keepNext"))
			pPr.Insert(ooxml.NewElement("w:keepLines"))
			pPr.Insert(ooxml.Val("w:outlineLvl", strconv.Itoa(level-1)))
		}
		ooxml.ApplyParagraph(pPr, d)
	}

	rPr := st.Ensure("w:rPr")
	ooxml.ApplyFont(rPr, d)
	if !d.CharacterOnly {
		ooxml.ApplyEmphasis(rPr, d)
		rPr.Replace(ooxml.Black())
	}
	return st
}

func defaultParagraphFont() *ooxml.Node {
	st := ooxml.NewElement("w:style", "w:type", "character", "w:default", "1", "w:styleId", "DefaultParagraphFont")
	st.Insert(ooxml.Val("w:name", "Default Paragraph Font"))
	st.Insert(ooxml.Val("w:uiPriority", "1"))
	st.Insert(ooxml.NewElement("w:semiHidden"))
	st.Insert(ooxml.NewElement("w:unhideWhenUsed"))
	return st
}

func tableNormal() *ooxml.Node {
	st := ooxml.NewElement("w:style", "w:type", "table", "w:default", "1", "w:styleId", "TableNormal")
	st.Insert(ooxml.Val("w:name", "Normal Table"))
	st.Insert(ooxml.Val("w:uiPriority", "99"))
	st.Insert(ooxml.NewElement("w:semiHidden"))
	st.Insert(ooxml.NewElement("w:unhideWhenUsed"))

	tblPr := st.Ensure("w:tblPr")
	tblPr.Replace(ooxml.NewElement("w:tblInd", "w:w", "0", "w:type", "dxa"))
	mar := ooxml.NewElement("w:tblCellMar")
	mar.AppendChild(ooxml.NewElement("w:top", "w:w", "0", "w:type", "dxa"))
	mar.AppendChild(ooxml.NewElement("w:left", "w:w", "108", "w:type", "dxa"))
	mar.AppendChild(ooxml.NewElement("w:bottom", "w:w", "0", "w:type", "dxa"))
	mar.AppendChild(ooxml.NewElement("w:right", "w:w", "108", "w:type", "dxa"))
	tblPr.Replace(mar)
	return st
}

// tableStyle is the "Table" style the converter assigns to every table:
// a rule above and below, none between columns.
func tableStyle(b model.Borders) *ooxml.Node {
	st := ooxml.NewElement("w:style", "w:type", "table", "w:styleId", "Table")
	st.Insert(ooxml.Val("w:name", "Table"))
	st.Insert(ooxml.Val("w:basedOn", "TableNormal"))
	st.Insert(ooxml.NewElement("w:qFormat"))

	size := strconv.Itoa(b.Outer)
	borders := ooxml.NewElement("w:tblBorders")
	borders.AppendChild(ooxml.NewElement("w:top", "w:val", "single", "w:sz", size, "w:space", "0", "w:color", b.Color))
	borders.AppendChild(ooxml.NewElement("w:bottom", "w:val", "single", "w:sz", size, "w:space", "0", "w:color", b.Color))
	st.Ensure("w:tblPr").Replace(borders)
	return st
}
