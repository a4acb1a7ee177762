package ooxml

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/ppiankov/apa7/internal/model"
)

// stylesXML represents the structure of word/styles.xml
type stylesXML struct {
	XMLName xml.Name      `xml:"styles"`
	Styles  []styleDefXML `xml:"style"`
}

// styleDefXML represents a style definition.
type styleDefXML struct {
	Type    string `xml:"type,attr"` // paragraph, character, table, numbering
	StyleID string `xml:"styleId,attr"`
	Default string `xml:"default,attr"`
	Name    valXML `xml:"name"`
	BasedOn valXML `xml:"basedOn"`
	PPr     pPrXML `xml:"pPr"`
}

type valXML struct {
	Val string `xml:"val,attr"`
}

type pPrXML struct {
	OutlineLvl *valXML `xml:"outlineLvl"`
}

// Style is a resolved style definition.
type Style struct {
	ID      string
	Name    string
	Type    string
	BasedOn string
	Default bool
	Outline int // outline level + 1, 0 when the style sets none
}

// Styles indexes the style definitions of a document.
type Styles struct {
	byID   map[string]Style
	byName map[string]Style
	order  []string
}

// ParseStyles parses word/styles.xml.
func ParseStyles(data []byte) (*Styles, error) {
	var raw stylesXML
	if err := xml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: styles: %v", model.ErrInvalidDocument, err)
	}

	s := &Styles{
		byID:   make(map[string]Style, len(raw.Styles)),
		byName: make(map[string]Style, len(raw.Styles)),
	}
	for _, def := range raw.Styles {
		st := Style{
			ID:      def.StyleID,
			Name:    def.Name.Val,
			Type:    def.Type,
			BasedOn: def.BasedOn.Val,
			Default: def.Default == "1" || def.Default == "true",
		}
		if def.PPr.OutlineLvl != nil {
			if lvl, err := strconv.Atoi(def.PPr.OutlineLvl.Val); err == nil {
				st.Outline = lvl + 1
			}
		}
		if st.Name == "" {
			st.Name = st.ID
		}
		s.byID[st.ID] = st
		s.byName[normalizeStyleName(st.Name)] = st
		s.order = append(s.order, st.ID)
	}
	return s, nil
}

// LoadStyles reads the style part of a package. A package without one
// yields an empty index.
func LoadStyles(p *Package) (*Styles, error) {
	data, ok := p.Part(StylesPart)
	if !ok {
		return &Styles{byID: map[string]Style{}, byName: map[string]Style{}}, nil
	}
	return ParseStyles(data)
}

func normalizeStyleName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Len returns the number of styles.
func (s *Styles) Len() int {
	return len(s.byID)
}

// ByID returns the style with the given id.
func (s *Styles) ByID(id string) (Style, bool) {
	st, ok := s.byID[id]
	return st, ok
}

// ByName returns the style with the given display name, compared
// case-insensitively ("heading 1" matches "Heading 1").
func (s *Styles) ByName(name string) (Style, bool) {
	st, ok := s.byName[normalizeStyleName(name)]
	return st, ok
}

// Name returns the display name of a style id, or the id itself when the
// style is not defined.
func (s *Styles) Name(id string) string {
	if st, ok := s.byID[id]; ok {
		return st.Name
	}
	return id
}

// DefaultParagraph returns the default paragraph style.
func (s *Styles) DefaultParagraph() (Style, bool) {
	for _, id := range s.order {
		st := s.byID[id]
		if st.Type == "paragraph" && st.Default {
			return st, true
		}
	}
	return s.ByName("Normal")
}

// HeadingLevel returns the heading level (1-9) of a style id, or 0.
// Names of the form "heading N" win; otherwise an outline level set on the
// style or one of its ancestors is used.
func (s *Styles) HeadingLevel(id string) int {
	seen := make(map[string]bool)
	for cur := id; cur != "" && !seen[cur]; {
		seen[cur] = true
		st, ok := s.byID[cur]
		if !ok {
			return headingLevelFromName(cur)
		}
		if lvl := headingLevelFromName(st.Name); lvl > 0 {
			return lvl
		}
		if st.Outline > 0 && st.Outline <= 9 {
			return st.Outline
		}
		cur = st.BasedOn
	}
	return 0
}

func headingLevelFromName(name string) int {
	n := normalizeStyleName(name)
	n = strings.TrimPrefix(n, "heading")
	n = strings.TrimSpace(n)
	if n == normalizeStyleName(name) {
		return 0
	}
	lvl, err := strconv.Atoi(n)
	if err != nil || lvl < 1 || lvl > 9 {
		return 0
	}
	return lvl
}
