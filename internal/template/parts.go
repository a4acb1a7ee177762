package template

import (
	"github.com/ppiankov/apa7/internal/model"
	"github.com/ppiankov/apa7/internal/ooxml"
)

const prolog = `version="1.0" encoding="UTF-8" standalone="yes"`

func newPart() *ooxml.Node {
	doc := &ooxml.Node{Type: ooxml.DocumentNode}
	doc.AppendChild(&ooxml.Node{Type: ooxml.ProcInstNode, Name: "xml", Data: prolog})
	return doc
}

const headerPart = "word/header1.xml"

const contentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/><Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/><Override PartName="/word/settings.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.settings+xml"/><Override PartName="/word/header1.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.header+xml"/><Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/><Override PartName="/docProps/app.xml" ContentType="application/vnd.openxmlformats-officedocument.extended-properties+xml"/></Types>`

const settings = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:settings xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:defaultTabStop w:val="720"/><w:characterSpacingControl w:val="doNotCompress"/><w:compat><w:compatSetting w:name="compatibilityMode" w:uri="http://schemas.microsoft.com/office/word" w:val="15"/></w:compat></w:settings>`

const coreProps = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"><dc:title>APA7 Reference Template</dc:title><dc:creator>apa7</dc:creator></cp:coreProperties>`

const appProps = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties"><Application>apa7</Application></Properties>`

// sample lists one paragraph per style so every style is in use.
var sample = []struct {
	role model.Role
	text string
}{
	{model.RoleTitle, "APA7 Reference Template"},
	{model.RoleHeading1, "Abstract"},
	{model.RoleFirstParagraph, "Abstract body text. No first-line indent. Double-spaced."},
	{model.RoleHeading1, "Introduction"},
	{model.RoleFirstParagraph, "First paragraph after a heading, without indent."},
	{model.RoleBody, "Body paragraph with 0.5-inch first-line indent. Double-spaced. Times New Roman 12pt."},
	{model.RoleHeading2, "Participants"},
	{model.RoleFirstParagraph, "Body paragraph under Heading 2."},
	{model.RoleHeading3, "Materials"},
	{model.RoleFirstParagraph, "Body paragraph under Heading 3."},
	{model.RoleHeading4, "Level four heading."},
	{model.RoleHeading5, "Level five heading."},
	{model.RoleBlockQuote, "Block quote text indented 0.5 inch on both sides."},
	{model.RoleCompact, "Compact list item."},
	{model.RoleCode, `sample_variable = "hello world"`},
	{model.RoleCaption, "Figure 1"},
	{model.RoleHeading1, "References"},
	{model.RoleReference, "Author, A. A. (2024). Title of work: Subtitle. Publisher. https://doi.org/10.0000/example"},
}

// buildDocument renders the sample document with the APA page setup and a
// default header holding the page number.
func buildDocument(rules *model.RuleSet, headerID string) *ooxml.Node {
	doc := newPart()
	root := ooxml.NewElement("w:document", "xmlns:w", ooxml.NSW, "xmlns:r", ooxml.NSR)
	doc.AppendChild(root)
	body := ooxml.NewElement("w:body")
	root.AppendChild(body)

	for _, s := range sample {
		p := ooxml.NewElement("w:p")
		ooxml.SetParagraphStyle(p, rules.Bindings[s.role].ID)
		p.AppendChild(ooxml.NewRun(s.text))
		body.AppendChild(p)
	}

	inline := ooxml.NewElement("w:p")
	ooxml.SetParagraphStyle(inline, rules.Bindings[model.RoleBody].ID)
	inline.AppendChild(ooxml.NewRun("Inline code such as "))
	code := ooxml.NewRun("main()")
	code.Ensure("w:rPr").Replace(ooxml.Val("w:rStyle", rules.Bindings[model.RoleVerbatimChar].ID))
	inline.AppendChild(code)
	inline.AppendChild(ooxml.NewRun(" keeps its font."))
	body.AppendChild(inline)

	page := rules.Page
	sp := ooxml.NewElement("w:sectPr")
	sp.Insert(ooxml.NewElement("w:headerReference", "w:type", "default", "r:id", headerID))
	sp.Insert(ooxml.NewElement("w:pgSz", "w:w", ooxml.Twips(page.Width), "w:h", ooxml.Twips(page.Height)))
	m := ooxml.Twips(page.Margin)
	sp.Insert(ooxml.NewElement("w:pgMar",
		"w:top", m,
		"w:right", m,
		"w:bottom", m,
		"w:left", m,
		"w:header", ooxml.Twips(page.Header),
		"w:footer", ooxml.Twips(page.Footer),
		"w:gutter", "0",
	))
	sp.Insert(ooxml.NewElement("w:cols", "w:space", "720"))
	body.AppendChild(sp)
	return doc
}
