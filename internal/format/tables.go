package format

import (
	"strconv"
	"strings"

	"github.com/ppiankov/apa7/internal/model"
	"github.com/ppiankov/apa7/internal/ooxml"
)

// cellPadding is the APA cell margin in twips: 2pt above and below, 3pt
// left and right.
var cellPadding = struct{ vertical, horizontal int }{model.Points(2), model.Points(3)}

// formatTables gives every top-level table APA rules: a line above the
// table, a line below the header row and a line below the last row, with
// no vertical rules.
func (f *Formatter) formatTables(doc *ooxml.Document, report *model.Report) {
	styles := doc.Styles()
	for _, tbl := range ooxml.BodyTables(doc.Body()) {
		f.formatTable(tbl, styles)
		report.Tables++
		if f.opts.LabelEmphasis && emphasiseTableTitle(tbl, styles) {
			report.LabelsEmphasised++
		}
	}
}

func (f *Formatter) formatTable(tbl *ooxml.Node, styles *ooxml.Styles) {
	tblPr := tbl.Ensure("w:tblPr")
	tblPr.Replace(noBorders("w:tblBorders"))
	if f.opts.TableCellStyling {
		tblPr.Replace(margins("w:tblCellMar"))
	}

	// column alignment set by the converter is kept
	d := f.rules.MustDirective(model.RoleTableCell)
	d.Alignment = ""

	rows := ooxml.TableRows(tbl)
	last := len(rows) - 1
	for i, tr := range rows {
		for _, tc := range ooxml.RowCells(tr) {
			tcPr := tc.Ensure("w:tcPr")
			tcPr.Replace(f.cellBorders(i == 0, i == last))
			if f.opts.TableCellStyling {
				tcPr.Replace(ooxml.NewElement("w:shd", "w:val", "clear", "w:color", "auto", "w:fill", "auto"))
			}
			for _, p := range tc.Elements("w:p") {
				f.applyDirective(p, d, styles, false)
				if f.opts.TableCellStyling && i == 0 {
					setBold(p, styles)
				}
			}
		}
	}
}

// cellBorders builds the borders of one cell. Only horizontal rules are
// drawn: above the header row, below it, and below the last row.
func (f *Formatter) cellBorders(header, lastRow bool) *ooxml.Node {
	b := f.rules.Borders
	tcb := ooxml.NewElement("w:tcBorders")

	top, bottom := none("w:top"), none("w:bottom")
	if header {
		top = line("w:top", b.Outer, b.Color)
		bottom = line("w:bottom", b.Header, b.Color)
	}
	if lastRow {
		bottom = line("w:bottom", b.Outer, b.Color)
	}
	tcb.AppendChild(top)
	tcb.AppendChild(none("w:left"))
	tcb.AppendChild(bottom)
	tcb.AppendChild(none("w:right"))
	tcb.AppendChild(none("w:insideH"))
	tcb.AppendChild(none("w:insideV"))
	return tcb
}

func noBorders(container string) *ooxml.Node {
	el := ooxml.NewElement(container)
	for _, side := range []string{"w:top", "w:left", "w:bottom", "w:right", "w:insideH", "w:insideV"} {
		el.AppendChild(none(side))
	}
	return el
}

func none(side string) *ooxml.Node {
	return ooxml.NewElement(side, "w:val", "nil")
}

func line(side string, size int, color string) *ooxml.Node {
	return ooxml.NewElement(side,
		"w:val", "single",
		"w:sz", strconv.Itoa(size),
		"w:space", "0",
		"w:color", color,
	)
}

func margins(container string) *ooxml.Node {
	v, h := ooxml.Twips(cellPadding.vertical), ooxml.Twips(cellPadding.horizontal)
	el := ooxml.NewElement(container)
	el.AppendChild(ooxml.NewElement("w:top", "w:w", v, "w:type", "dxa"))
	el.AppendChild(ooxml.NewElement("w:left", "w:w", h, "w:type", "dxa"))
	el.AppendChild(ooxml.NewElement("w:bottom", "w:w", v, "w:type", "dxa"))
	el.AppendChild(ooxml.NewElement("w:right", "w:w", h, "w:type", "dxa"))
	return el
}

func setBold(p *ooxml.Node, styles *ooxml.Styles) {
	for _, r := range ooxml.Runs(p) {
		if isCodeRun(r, styles) {
			continue
		}
		r.Ensure("w:rPr").Replace(ooxml.OnOff("w:b", true))
	}
}

// emphasiseTableTitle italicises the title line of a table that is laid
// out as a label paragraph, a title paragraph and then the table.
func emphasiseTableTitle(tbl *ooxml.Node, styles *ooxml.Styles) bool {
	title := previousParagraph(tbl)
	if title == nil {
		return false
	}
	label := previousParagraph(title)
	if label == nil {
		return false
	}
	titleText := plain(title.Text())
	if titleText == "" || isLabel(titleText) {
		return false
	}
	if !standaloneLabel.MatchString(plain(label.Text())) || !isTableLabel(label.Text()) {
		return false
	}
	setEmphasis(title, styles, false, true)
	return true
}

func isTableLabel(text string) bool {
	return strings.HasPrefix(fold(text), "table")
}

// previousParagraph returns the element sibling right before n when it is
// a paragraph.
func previousParagraph(n *ooxml.Node) *ooxml.Node {
	parent := n.Parent
	if parent == nil {
		return nil
	}
	var prev *ooxml.Node
	for _, c := range parent.Elements("") {
		if c == n {
			break
		}
		prev = c
	}
	if prev.IsElement("w:p") {
		return prev
	}
	return nil
}
