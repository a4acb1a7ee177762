package model

import "time"

// Report records what a post-processing run changed.
type Report struct {
	RunID       string        `json:"run_id,omitempty"`
	Input       string        `json:"input"`
	Output      string        `json:"output"`
	FormattedAt time.Time     `json:"formatted_at"`
	Duration    time.Duration `json:"duration"`

	Paragraphs        map[Role]int `json:"paragraphs"`         // formatted paragraphs per role
	Indented          int          `json:"indented"`           // body paragraphs given a first-line indent
	Unindented        int          `json:"unindented"`         // body paragraphs left flush
	Skipped           int          `json:"skipped"`            // code and empty paragraphs left untouched
	Tables            int          `json:"tables"`             // tables normalised
	BookmarksRemoved  int          `json:"bookmarks_removed"`  // structural markers stripped
	MarkersEmphasised int          `json:"markers_emphasised"` // Note./Keywords: markers italicised
	LabelsEmphasised  int          `json:"labels_emphasised"`  // Table N labels and titles
	Sections          int          `json:"sections"`           // sections given APA margins
	PageNumbers       bool         `json:"page_numbers"`       // PAGE field inserted in header
	LabelsBold        bool         `json:"labels_bold"`        // standalone table and figure labels set in bold

	Warnings    []string `json:"warnings,omitempty"`
	ManualSteps []string `json:"manual_steps"`
}

// NewReport creates an empty report for a run.
func NewReport(input, output string) *Report {
	return &Report{
		Input:       input,
		Output:      output,
		FormattedAt: time.Now().UTC(),
		Paragraphs:  make(map[Role]int),
	}
}

// Count records one formatted paragraph for a role.
func (r *Report) Count(role Role) {
	r.Paragraphs[role]++
}

// Warn records a non-fatal observation.
func (r *Report) Warn(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

// Finish fills in the manual steps that formatting cannot do.
func (r *Report) Finish(started time.Time) {
	r.Duration = time.Since(started)
	r.ManualSteps = ManualSteps(r.PageNumbers, r.LabelsBold)
}

// ManualSteps lists what still needs to be done by hand in Word.
func ManualSteps(pageNumbersInserted, labelsBold bool) []string {
	var steps []string
	if !pageNumbersInserted {
		steps = append(steps, "Page numbers: Insert > Page Number > Top of Page > Plain Number 3")
	}
	steps = append(steps, "Title page: verify name, course, instructor, institution, date")
	if !labelsBold {
		steps = append(steps, "Figure labels: change italic 'Figure N' text to bold")
	}
	return append(steps, "Note lines: confirm only 'Note.' is italic, not the full sentence")
}
