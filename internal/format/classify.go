package format

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/ppiankov/apa7/internal/model"
	"github.com/ppiankov/apa7/internal/ooxml"
)

// section is the part of the paper a paragraph belongs to.
type section int

const (
	sectionBody section = iota
	sectionAbstract
	sectionReferences
)

func (s section) String() string {
	switch s {
	case sectionAbstract:
		return "abstract"
	case sectionReferences:
		return "references"
	}
	return "body"
}

// kind is the structural kind of a paragraph, derived from its style.
type kind int

const (
	kindBody kind = iota
	kindHeading
	kindTitle // title block: Title, Subtitle, Author, Date
	kindAbstract
	kindBlockQuote
	kindList
	kindCaption
	kindCode
)

// markers are the words that open a table note or keyword line.
const markers = `Note[.:]|Keywords?:`

var (
	// labelPattern matches table and figure labels ("Table 1", "Figure 12").
	labelPattern = regexp.MustCompile(`(?i)^(table|figure)\s+\d+`)

	// flushPattern matches paragraphs that never take a first-line indent:
	// labels and lines opening with a marker.
	flushPattern = regexp.MustCompile(`^((?i:table|figure)\s+\d+|` + markers + `)`)

	// markerPattern matches the leading marker that is set in italics.
	markerPattern = regexp.MustCompile(`^(` + markers + `)`)

	// standaloneLabel matches a paragraph that is nothing but a label.
	standaloneLabel = regexp.MustCompile(`(?i)^(table|figure)\s+\d+\.?$`)
)

// fold normalises text for caseless comparison. NFKC maps no-break spaces
// and compatibility forms onto their plain equivalents first.
func fold(s string) string {
	return cases.Fold().String(norm.NFKC.String(strings.TrimSpace(s)))
}

// plain normalises text for pattern matching without changing case.
func plain(s string) string {
	return strings.TrimSpace(norm.NFKC.String(s))
}

var (
	abstractTitles   = []string{"abstract"}
	referencesTitles = []string{"references", "reference list", "bibliography", "works cited"}
)

// sectionFor returns the section a heading opens.
func sectionFor(heading string) section {
	h := fold(heading)
	for _, t := range abstractTitles {
		if h == t {
			return sectionAbstract
		}
	}
	for _, t := range referencesTitles {
		if h == t {
			return sectionReferences
		}
	}
	return sectionBody
}

// isLabel reports whether text starts with a table or figure label.
func isLabel(text string) bool {
	return labelPattern.MatchString(plain(text))
}

// isFlush reports whether text must never be indented.
func isFlush(text string) bool {
	return flushPattern.MatchString(plain(text))
}

// styleKeywords map substrings of a style name onto a paragraph kind.
// Checked in order; the first match wins.
var styleKeywords = []struct {
	keyword string
	kind    kind
}{
	{"source code", kindCode},
	{"sourcecode", kindCode},
	{"code", kindCode},
	{"verbatim", kindCode},
	{"subtitle", kindTitle},
	{"title", kindTitle},
	{"author", kindTitle},
	{"date", kindTitle},
	{"abstract", kindAbstract},
	{"block text", kindBlockQuote},
	{"blocktext", kindBlockQuote},
	{"quote", kindBlockQuote},
	{"compact", kindList},
	{"list", kindList},
	{"caption", kindCaption},
}

// classify returns the kind of a paragraph and, for headings, its level.
func classify(p *ooxml.Node, styles *ooxml.Styles) (kind, int) {
	id := ooxml.ParagraphStyle(p)
	if id == "" {
		if def, ok := styles.DefaultParagraph(); ok {
			id = def.ID
		}
	}
	if id == "" {
		return kindBody, 0
	}
	if lvl := styles.HeadingLevel(id); lvl > 0 {
		return kindHeading, lvl
	}
	name := fold(styles.Name(id))
	for _, sk := range styleKeywords {
		if strings.Contains(name, sk.keyword) || strings.Contains(fold(id), sk.keyword) {
			return sk.kind, 0
		}
	}
	if p.Child("w:pPr").Child("w:numPr") != nil {
		return kindList, 0
	}
	return kindBody, 0
}

// isCodeRun reports whether a run carries an inline code character style.
func isCodeRun(r *ooxml.Node, styles *ooxml.Styles) bool {
	id := r.Child("w:rPr").Child("w:rStyle").AttrOr("w:val", "")
	if id == "" {
		return false
	}
	name := fold(styles.Name(id))
	return strings.Contains(name, "verbatim") || strings.Contains(name, "code") ||
		strings.HasSuffix(name, "tok")
}

// headingRole maps a heading level onto its role. Levels past five use the
// fifth-level format.
func headingRole(level int) model.Role {
	if level > 5 {
		level = 5
	}
	return model.HeadingRole(level)
}
