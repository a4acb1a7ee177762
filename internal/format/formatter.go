// Package format post-processes a converted .docx so it follows APA 7th
// edition rules the converter cannot express on its own.
package format

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ppiankov/apa7/internal/model"
	"github.com/ppiankov/apa7/internal/ooxml"
)

// Options switches the optional rules on or off.
type Options struct {
	PageNumbers      bool // insert a PAGE field in the default header
	LabelEmphasis    bool // bold table labels, italic table titles
	TableCellStyling bool // cell padding, cleared shading, bold header row
	StrictStyles     bool // fail on paragraphs that use undefined styles
}

// OptionsFromConfig builds options from the format configuration.
func OptionsFromConfig(cfg model.FormatConfig) Options {
	return Options{
		PageNumbers:      cfg.PageNumbers,
		LabelEmphasis:    cfg.LabelEmphasis,
		TableCellStyling: cfg.TableCellPadding,
		StrictStyles:     cfg.StrictStyles,
	}
}

// Formatter applies a rule set to converted documents. It is stateless
// between calls and safe for concurrent use.
type Formatter struct {
	rules  *model.RuleSet
	opts   Options
	logger *slog.Logger
}

// NewFormatter creates a formatter. A nil logger discards log output.
func NewFormatter(rules *model.RuleSet, opts Options, logger *slog.Logger) (*Formatter, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Formatter{rules: rules, opts: opts, logger: logger}, nil
}

// WithLogger returns a copy of the formatter that logs to logger.
func (f *Formatter) WithLogger(logger *slog.Logger) *Formatter {
	c := *f
	c.logger = logger
	return &c
}

// FormatFile reads the converted document at in, applies every rule and
// writes the result to out. in and out may name the same file. Nothing is
// written when formatting fails.
func (f *Formatter) FormatFile(in, out string) (*model.Report, error) {
	pkg, err := ooxml.Open(in)
	if err != nil {
		return nil, err
	}
	report, err := f.apply(pkg, in, out)
	if err != nil {
		return nil, err
	}
	if err := pkg.Save(out); err != nil {
		return nil, fmt.Errorf("save %s: %w", out, err)
	}
	f.logger.Info("formatted document",
		"input", in,
		"output", out,
		"paragraphs", report.Indented+report.Unindented,
		"tables", report.Tables,
		"duration", report.Duration,
	)
	return report, nil
}

// Apply formats a package in place. Applying it twice yields the same
// document as applying it once.
func (f *Formatter) Apply(pkg *ooxml.Package) (*model.Report, error) {
	return f.apply(pkg, "", "")
}

func (f *Formatter) apply(pkg *ooxml.Package, in, out string) (*model.Report, error) {
	started := time.Now()
	report := model.NewReport(in, out)

	doc, err := ooxml.LoadDocument(pkg)
	if err != nil {
		return nil, err
	}

	// 1. Check the styles the rules depend on
	if err := f.checkStyles(doc, report); err != nil {
		return nil, err
	}

	// 2. Strip structural markers
	report.BookmarksRemoved = removeBookmarks(doc.Body())

	// 3. Paragraphs: font, spacing, indentation, headings, markers
	f.formatParagraphs(doc, report)

	// 4. Tables
	f.formatTables(doc, report)

	// 5. Page geometry
	report.Sections = f.applyMargins(doc)

	// 6. Running head page number
	if f.opts.PageNumbers {
		inserted, err := f.ensurePageNumbers(doc)
		if err != nil {
			return nil, fmt.Errorf("page numbers: %w", err)
		}
		report.PageNumbers = inserted
	}

	report.LabelsBold = f.opts.LabelEmphasis

	doc.Commit()
	report.Finish(started)

	f.logger.Debug("applied rules",
		"bookmarks_removed", report.BookmarksRemoved,
		"markers", report.MarkersEmphasised,
		"labels", report.LabelsEmphasised,
		"sections", report.Sections,
		"warnings", len(report.Warnings),
	)
	return report, nil
}
