package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ppiankov/apa7/internal/model"
)

// Renderer prints build summaries for a terminal.
type Renderer struct {
	w       io.Writer
	title   lipgloss.Style
	label   lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
	muted   lipgloss.Style
}

// NewRenderer creates a renderer for w. Colours are dropped when w is not
// a terminal.
func NewRenderer(w io.Writer) *Renderer {
	r := lipgloss.NewRenderer(w)
	return &Renderer{
		w:       w,
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")),
		label:   r.NewStyle().Width(20),
		success: r.NewStyle().Foreground(lipgloss.Color("#16A34A")),
		warning: r.NewStyle().Foreground(lipgloss.Color("#CA8A04")),
		failure: r.NewStyle().Foreground(lipgloss.Color("#DC2626")),
		muted:   r.NewStyle().Foreground(lipgloss.Color("#6C7086")),
	}
}

func (r *Renderer) line(label string, value any) {
	fmt.Fprintf(r.w, "  %s%v\n", r.label.Render(label), value)
}

// RenderTemplate prints the outcome of template generation.
func (r *Renderer) RenderTemplate(path string) {
	fmt.Fprintln(r.w, r.success.Render("✓ APA7 reference document created -> "+path))
}

// RenderResult prints the outcome of one build.
func (r *Renderer) RenderResult(res *Result) {
	fmt.Fprintln(r.w, r.success.Render(fmt.Sprintf("✓ %s written -> %s", strings.ToUpper(string(res.Target)), res.Output)))
	if res.TemplateGenerated {
		fmt.Fprintln(r.w, r.muted.Render("  generated style template "+res.Template))
	}
	if res.Report != nil {
		r.RenderReport(res.Report)
	}
}

// RenderReport prints what post-processing changed and what is left to do
// by hand.
func (r *Renderer) RenderReport(rep *model.Report) {
	fmt.Fprintln(r.w)
	fmt.Fprintln(r.w, r.title.Render("APA7 formatting applied -> "+rep.Output))
	r.line("Paragraphs", total(rep.Paragraphs))
	r.line("Indented", rep.Indented)
	r.line("Flush", rep.Unindented)
	r.line("Left untouched", rep.Skipped)
	r.line("Tables", rep.Tables)
	r.line("Anchors removed", rep.BookmarksRemoved)
	r.line("Markers italicised", rep.MarkersEmphasised)
	r.line("Labels emphasised", rep.LabelsEmphasised)
	r.line("Page numbers", yesNo(rep.PageNumbers))

	if len(rep.Paragraphs) > 0 {
		roles := make([]string, 0, len(rep.Paragraphs))
		for role := range rep.Paragraphs {
			roles = append(roles, string(role))
		}
		sort.Strings(roles)
		parts := make([]string, len(roles))
		for i, role := range roles {
			parts[i] = fmt.Sprintf("%s=%d", role, rep.Paragraphs[model.Role(role)])
		}
		fmt.Fprintln(r.w, r.muted.Render("  "+strings.Join(parts, " ")))
	}

	for _, w := range rep.Warnings {
		fmt.Fprintln(r.w, r.warning.Render("  ! "+w))
	}

	if len(rep.ManualSteps) > 0 {
		fmt.Fprintln(r.w)
		fmt.Fprintln(r.w, "Manual steps still required in Word:")
		for i, step := range rep.ManualSteps {
			fmt.Fprintf(r.w, "  %d. %s\n", i+1, step)
		}
	}
}

// RenderBatch prints one line per document and a closing count.
func (r *Renderer) RenderBatch(items []BatchItem) {
	failed := 0
	for _, it := range items {
		if it.Err != nil {
			failed++
			fmt.Fprintln(r.w, r.failure.Render(fmt.Sprintf("✗ %s: %v", it.Input, it.Err)))
			continue
		}
		fmt.Fprintln(r.w, r.success.Render(fmt.Sprintf("✓ %s -> %s", it.Input, it.Output)))
	}
	fmt.Fprintln(r.w)
	summary := fmt.Sprintf("%d formatted, %d failed", len(items)-failed, failed)
	if failed > 0 {
		fmt.Fprintln(r.w, r.failure.Render(summary))
		return
	}
	fmt.Fprintln(r.w, r.title.Render(summary))
}

// RenderError prints a build failure, used while watching.
func (r *Renderer) RenderError(err error) {
	fmt.Fprintln(r.w, r.failure.Render("✗ "+err.Error()))
}

// WriteJSON writes v as indented JSON to path, or to stdout when path is "-".
func WriteJSON(v any, path string, stdout io.Writer) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	data = append(data, '\n')

	if path == "-" {
		_, err = stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func total(m map[model.Role]int) int {
	n := 0
	for _, v := range m {
		n += v
	}
	return n
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
