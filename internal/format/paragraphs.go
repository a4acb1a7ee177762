package format

import (
	"strings"

	"github.com/ppiankov/apa7/internal/model"
	"github.com/ppiankov/apa7/internal/ooxml"
)

// walkState carries what the paragraph walk has seen so far.
type walkState struct {
	section      section
	afterHeading bool // previous formatted paragraph was a heading or title
	afterLabel   bool // previous formatted paragraph was a table or figure label
}

// formatParagraphs walks the top-level paragraphs in document order and
// applies the directive of each paragraph's role. Code and empty body
// paragraphs are skipped and do not affect the state of the walk. An empty
// heading still counts as a heading.
func (f *Formatter) formatParagraphs(doc *ooxml.Document, report *model.Report) {
	styles := doc.Styles()
	var st walkState
	for _, p := range ooxml.BodyParagraphs(doc.Body()) {
		f.formatParagraph(p, styles, &st, report)
	}
}

func (f *Formatter) formatParagraph(p *ooxml.Node, styles *ooxml.Styles, st *walkState, report *model.Report) {
	k, level := classify(p, styles)
	if k == kindCode {
		report.Skipped++
		return
	}

	text := strings.TrimSpace(p.Text())
	if text == "" && k != kindHeading {
		report.Skipped++
		return
	}

	switch k {
	case kindHeading:
		role := headingRole(level)
		f.applyHeading(p, f.rules.MustDirective(role), styles)
		report.Count(role)
		st.section = sectionFor(text)
		st.afterHeading, st.afterLabel = true, false
		return

	case kindTitle:
		d := f.rules.MustDirective(model.RoleTitle)
		if !isPaperTitle(p, styles) {
			d.Bold = false
		}
		f.applyHeading(p, d, styles)
		report.Count(model.RoleTitle)
		st.section = sectionFor(text)
		st.afterHeading, st.afterLabel = true, false
		return

	case kindBlockQuote:
		f.applyDirective(p, f.rules.MustDirective(model.RoleBlockQuote), styles, false)
		report.Count(model.RoleBlockQuote)

	case kindList:
		numbered := p.Child("w:pPr").Child("w:numPr") != nil
		f.applyDirective(p, f.rules.MustDirective(model.RoleCompact), styles, numbered)
		report.Count(model.RoleCompact)

	case kindCaption:
		f.applyDirective(p, f.rules.MustDirective(model.RoleCaption), styles, false)
		report.Count(model.RoleCaption)
		report.Unindented++

	case kindAbstract:
		f.applyDirective(p, f.rules.MustDirective(model.RoleFirstParagraph), styles, false)
		report.Count(model.RoleBody)
		report.Unindented++

	default:
		f.formatBody(p, text, styles, st, report)
	}

	if emphasiseMarker(p) {
		report.MarkersEmphasised++
	}
	if f.opts.LabelEmphasis && standaloneLabel.MatchString(plain(text)) {
		setEmphasis(p, styles, true, false)
		report.LabelsEmphasised++
	}

	st.afterHeading = false
	st.afterLabel = isLabel(text)
}

// formatBody applies the section rules to a body paragraph. References take
// a hanging indent. Abstract paragraphs are flush. Elsewhere a paragraph is
// indented unless it follows a heading or a label, or opens with a label,
// a note or a keywords line.
func (f *Formatter) formatBody(p *ooxml.Node, text string, styles *ooxml.Styles, st *walkState, report *model.Report) {
	switch st.section {
	case sectionReferences:
		f.applyDirective(p, f.rules.MustDirective(model.RoleReference), styles, false)
		report.Count(model.RoleReference)
		report.Unindented++
		return
	case sectionAbstract:
		f.applyDirective(p, f.rules.MustDirective(model.RoleFirstParagraph), styles, false)
		report.Count(model.RoleBody)
		report.Unindented++
		return
	}

	if st.afterHeading || st.afterLabel || isFlush(text) {
		f.applyDirective(p, f.rules.MustDirective(model.RoleFirstParagraph), styles, false)
		report.Count(model.RoleFirstParagraph)
		report.Unindented++
		return
	}
	f.applyDirective(p, f.rules.MustDirective(model.RoleBody), styles, false)
	report.Count(model.RoleBody)
	report.Indented++
}

// applyDirective sets paragraph and run formatting. keepIndent leaves
// w:ind alone, for numbered list items whose indent comes from numbering.
// Inline code runs keep their font.
func (f *Formatter) applyDirective(p *ooxml.Node, d model.Directive, styles *ooxml.Styles, keepIndent bool) {
	pPr := p.Ensure("w:pPr")
	pPr.Replace(ooxml.Spacing(d))
	if !keepIndent {
		pPr.Replace(ooxml.Indent(d))
	}
	if jc := ooxml.Justification(d); jc != nil {
		pPr.Replace(jc)
	}
	ooxml.ApplyFont(pPr.Ensure("w:rPr"), d)

	for _, r := range ooxml.Runs(p) {
		if isCodeRun(r, styles) {
			continue
		}
		ooxml.ApplyFont(r.Ensure("w:rPr"), d)
	}
}

// applyHeading formats a heading: its directive, then bold and italic as
// the level requires, in black.
func (f *Formatter) applyHeading(p *ooxml.Node, d model.Directive, styles *ooxml.Styles) {
	f.applyDirective(p, d, styles, false)
	for _, r := range ooxml.Runs(p) {
		if isCodeRun(r, styles) {
			continue
		}
		rPr := r.Ensure("w:rPr")
		ooxml.ApplyEmphasis(rPr, d)
		rPr.Replace(ooxml.Black())
	}
}

// setEmphasis sets bold and italic on every text run of a paragraph.
func setEmphasis(p *ooxml.Node, styles *ooxml.Styles, bold, italic bool) {
	for _, r := range ooxml.Runs(p) {
		if isCodeRun(r, styles) {
			continue
		}
		ooxml.ApplyEmphasis(r.Ensure("w:rPr"), model.Directive{Bold: bold, Italic: italic})
	}
}

// isPaperTitle reports whether a title block paragraph is set in bold: the
// title itself or the abstract label, not a subtitle, author or date line.
func isPaperTitle(p *ooxml.Node, styles *ooxml.Styles) bool {
	name := fold(styles.Name(ooxml.ParagraphStyle(p)))
	return name == "title" || name == "abstract title"
}
