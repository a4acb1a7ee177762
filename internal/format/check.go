package format

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ppiankov/apa7/internal/model"
	"github.com/ppiankov/apa7/internal/ooxml"
)

// requiredStyles must be defined by every document the formatter accepts.
// Their absence means the document was not produced from an APA template.
var requiredStyles = []string{"Normal", "heading 1", "heading 2", "heading 3"}

// checkStyles fails when a required style is missing. In strict mode a
// paragraph that names an undefined style also fails the run; otherwise it
// is reported as a warning.
func (f *Formatter) checkStyles(doc *ooxml.Document, report *model.Report) error {
	styles := doc.Styles()

	var missing []string
	for _, name := range requiredStyles {
		if _, ok := styles.ByName(name); !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s (regenerate the template with `apa7 template`)",
			model.ErrStyleMissing, strings.Join(missing, ", "))
	}

	undefined := make(map[string]bool)
	for _, p := range doc.Body().Descendants("w:p") {
		id := ooxml.ParagraphStyle(p)
		if id == "" {
			continue
		}
		if _, ok := styles.ByID(id); !ok {
			undefined[id] = true
		}
	}
	if len(undefined) == 0 {
		return nil
	}

	ids := make([]string, 0, len(undefined))
	for id := range undefined {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	if f.opts.StrictStyles {
		return fmt.Errorf("%w: paragraphs use undefined styles: %s",
			model.ErrStyleMissing, strings.Join(ids, ", "))
	}
	for _, id := range ids {
		report.Warn(fmt.Sprintf("paragraph style %q is not defined", id))
	}
	return nil
}
