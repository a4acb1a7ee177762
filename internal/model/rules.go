package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// Role is a structural role a paragraph, run or table can play in a paper.
type Role string

const (
	RoleHeading1       Role = "heading1"
	RoleHeading2       Role = "heading2"
	RoleHeading3       Role = "heading3"
	RoleHeading4       Role = "heading4"
	RoleHeading5       Role = "heading5"
	RoleTitle          Role = "title"           // paper title block
	RoleBody           Role = "body"            // Normal and Body Text
	RoleFirstParagraph Role = "first_paragraph" // first paragraph after a heading
	RoleCompact        Role = "compact"         // tight lists
	RoleBlockQuote     Role = "block_quote"
	RoleReference      Role = "reference" // reference list entry
	RoleCaption        Role = "caption"
	RoleTableCell      Role = "table_cell"
	RoleCode           Role = "code"
	RoleVerbatimChar   Role = "verbatim_char" // inline code, character style
)

// HeadingRole returns the heading role for a level, or "" when the level
// has no APA heading.
func HeadingRole(level int) Role {
	switch level {
	case 1:
		return RoleHeading1
	case 2:
		return RoleHeading2
	case 3:
		return RoleHeading3
	case 4:
		return RoleHeading4
	case 5:
		return RoleHeading5
	}
	return ""
}

// Alignment values map directly onto w:jc values.
type Alignment string

const (
	AlignLeft    Alignment = "left"
	AlignCenter  Alignment = "center"
	AlignRight   Alignment = "right"
	AlignJustify Alignment = "both"
)

// Twips per unit. A twip is 1/20 of a point.
const (
	TwipsPerInch  = 1440
	TwipsPerPoint = 20
)

// Line spacing values for w:spacing/@w:line with lineRule=auto (240 = single).
const (
	LineSingle = 240
	LineDouble = 480
)

// Inches converts inches to twips.
func Inches(in float64) int {
	return int(in*TwipsPerInch + 0.5*sign(in))
}

// Points converts points to twips.
func Points(pt float64) int {
	return int(pt*TwipsPerPoint + 0.5*sign(pt))
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

// Directive is the formatting applied to one role.
// Indents and spacing are twips; Size is points.
type Directive struct {
	Font          string    `yaml:"font" json:"font"`
	Size          float64   `yaml:"size" json:"size"`
	Bold          bool      `yaml:"bold,omitempty" json:"bold,omitempty"`
	Italic        bool      `yaml:"italic,omitempty" json:"italic,omitempty"`
	Alignment     Alignment `yaml:"alignment,omitempty" json:"alignment,omitempty"`
	Line          int       `yaml:"line,omitempty" json:"line,omitempty"`
	SpaceBefore   int       `yaml:"space_before,omitempty" json:"space_before,omitempty"`
	SpaceAfter    int       `yaml:"space_after,omitempty" json:"space_after,omitempty"`
	LeftIndent    int       `yaml:"left_indent,omitempty" json:"left_indent,omitempty"`
	RightIndent   int       `yaml:"right_indent,omitempty" json:"right_indent,omitempty"`
	FirstLine     int       `yaml:"first_line,omitempty" json:"first_line,omitempty"`
	Hanging       int       `yaml:"hanging,omitempty" json:"hanging,omitempty"`
	CharacterOnly bool      `yaml:"character_only,omitempty" json:"character_only,omitempty"`
}

// HalfPoints returns the font size in the half-point unit used by w:sz.
func (d Directive) HalfPoints() int {
	return int(d.Size*2 + 0.5)
}

// StyleBinding ties a role to the named style the converter emits for it.
type StyleBinding struct {
	ID      string `yaml:"id" json:"id"`
	Name    string `yaml:"name" json:"name"`
	Type    string `yaml:"type" json:"type"` // paragraph or character
	BasedOn string `yaml:"based_on,omitempty" json:"based_on,omitempty"`
}

// Borders holds the line widths (eighths of a point) of APA table rules.
type Borders struct {
	Outer  int    `yaml:"outer" json:"outer"`   // top of table and below last row
	Header int    `yaml:"header" json:"header"` // below header row
	Color  string `yaml:"color" json:"color"`
}

// Page is the page geometry, in twips.
type Page struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
	Margin int `yaml:"margin" json:"margin"`
	Header int `yaml:"header" json:"header"`
	Footer int `yaml:"footer" json:"footer"`
}

// RuleSet is the complete set of formatting rules for one paper.
// Each role maps to exactly one directive.
type RuleSet struct {
	Directives map[Role]Directive    `yaml:"directives" json:"directives"`
	Bindings   map[Role]StyleBinding `yaml:"bindings" json:"bindings"`

	FirstLineIndent int     `yaml:"first_line_indent" json:"first_line_indent"`
	HangingIndent   int     `yaml:"hanging_indent" json:"hanging_indent"`
	Page            Page    `yaml:"page" json:"page"`
	Borders         Borders `yaml:"borders" json:"borders"`
}

// RequiredRoles are the roles every rule set must define.
var RequiredRoles = []Role{
	RoleBody, RoleFirstParagraph, RoleCompact, RoleBlockQuote, RoleTitle,
	RoleHeading1, RoleHeading2, RoleHeading3, RoleHeading4, RoleHeading5,
	RoleReference, RoleCaption, RoleTableCell, RoleCode, RoleVerbatimChar,
}

const (
	BodyFont = "Times New Roman"
	CodeFont = "Courier New"
	BodySize = 12
	CodeSize = 10
)

// DefaultRuleSet returns the APA 7th edition student paper rules.
func DefaultRuleSet() *RuleSet {
	return NewRuleSet(BodyFont, BodySize, Inches(0.5), Inches(0.5), Inches(1))
}

// NewRuleSet builds the APA rule table for a body font, size, indent widths
// and page margin.
func NewRuleSet(font string, size float64, firstLine, hanging, margin int) *RuleSet {
	body := Directive{Font: font, Size: size, Alignment: AlignLeft, Line: LineDouble}

	with := func(mut func(d *Directive)) Directive {
		d := body
		mut(&d)
		return d
	}

	rs := &RuleSet{
		Directives: map[Role]Directive{
			RoleBody:           with(func(d *Directive) { d.FirstLine = firstLine }),
			RoleFirstParagraph: body,
			RoleCompact:        body,
			RoleBlockQuote: with(func(d *Directive) {
				d.LeftIndent = Inches(0.5)
				d.RightIndent = Inches(0.5)
			}),
			RoleTitle:    with(func(d *Directive) { d.Bold = true; d.Alignment = AlignCenter }),
			RoleHeading1: with(func(d *Directive) { d.Bold = true; d.Alignment = AlignCenter }),
			RoleHeading2: with(func(d *Directive) { d.Bold = true }),
			RoleHeading3: with(func(d *Directive) { d.Bold = true; d.Italic = true }),
			RoleHeading4: with(func(d *Directive) { d.Bold = true; d.FirstLine = firstLine }),
			RoleHeading5: with(func(d *Directive) { d.Bold = true; d.Italic = true; d.FirstLine = firstLine }),
			RoleReference: with(func(d *Directive) {
				d.LeftIndent = hanging
				d.Hanging = hanging
			}),
			RoleCaption: body,
			RoleTableCell: with(func(d *Directive) {
				d.Line = LineSingle
				d.SpaceBefore = Points(2)
				d.SpaceAfter = Points(2)
			}),
			RoleCode: {
				Font:       CodeFont,
				Size:       CodeSize,
				Alignment:  AlignLeft,
				Line:       LineSingle,
				LeftIndent: Inches(0.5),
			},
			RoleVerbatimChar: {Font: CodeFont, Size: CodeSize, CharacterOnly: true},
		},
		Bindings: map[Role]StyleBinding{
			RoleBody:           {ID: "BodyText", Name: "Body Text", Type: "paragraph", BasedOn: "Normal"},
			RoleFirstParagraph: {ID: "FirstParagraph", Name: "First Paragraph", Type: "paragraph", BasedOn: "BodyText"},
			RoleCompact:        {ID: "Compact", Name: "Compact", Type: "paragraph", BasedOn: "BodyText"},
			RoleBlockQuote:     {ID: "BlockText", Name: "Block Text", Type: "paragraph", BasedOn: "BodyText"},
			RoleTitle:          {ID: "Title", Name: "Title", Type: "paragraph", BasedOn: "Normal"},
			RoleHeading1:       {ID: "Heading1", Name: "heading 1", Type: "paragraph", BasedOn: "Normal"},
			RoleHeading2:       {ID: "Heading2", Name: "heading 2", Type: "paragraph", BasedOn: "Normal"},
			RoleHeading3:       {ID: "Heading3", Name: "heading 3", Type: "paragraph", BasedOn: "Normal"},
			RoleHeading4:       {ID: "Heading4", Name: "heading 4", Type: "paragraph", BasedOn: "Normal"},
			RoleHeading5:       {ID: "Heading5", Name: "heading 5", Type: "paragraph", BasedOn: "Normal"},
			RoleReference:      {ID: "Bibliography", Name: "Bibliography", Type: "paragraph", BasedOn: "Normal"},
			RoleCaption:        {ID: "Caption", Name: "Caption", Type: "paragraph", BasedOn: "Normal"},
			RoleTableCell:      {ID: "Compact", Name: "Compact", Type: "paragraph", BasedOn: "BodyText"},
			RoleCode:           {ID: "SourceCode", Name: "Source Code", Type: "paragraph", BasedOn: "Normal"},
			RoleVerbatimChar:   {ID: "VerbatimChar", Name: "Verbatim Char", Type: "character"},
		},
		FirstLineIndent: firstLine,
		HangingIndent:   hanging,
		Page: Page{
			Width:  Inches(8.5),
			Height: Inches(11),
			Margin: margin,
			Header: Inches(0.5),
			Footer: Inches(0.5),
		},
		Borders: Borders{Outer: 8, Header: 8, Color: "000000"},
	}
	return rs
}

// Directive returns the directive for a role.
func (rs *RuleSet) Directive(role Role) (Directive, bool) {
	d, ok := rs.Directives[role]
	return d, ok
}

// MustDirective returns the directive for a role and panics when the rule
// set was not validated.
func (rs *RuleSet) MustDirective(role Role) Directive {
	d, ok := rs.Directives[role]
	if !ok {
		panic(fmt.Sprintf("rule set has no directive for %q", role))
	}
	return d
}

// Validate checks that every required role has a usable directive.
func (rs *RuleSet) Validate() error {
	if rs == nil {
		return fmt.Errorf("%w: nil rule set", ErrInvalidRules)
	}
	for _, role := range RequiredRoles {
		d, ok := rs.Directives[role]
		if !ok {
			return fmt.Errorf("%w: no directive for role %q", ErrInvalidRules, role)
		}
		if d.Size <= 0 {
			return fmt.Errorf("%w: role %q has font size %.1f", ErrInvalidRules, role, d.Size)
		}
		if d.Font == "" {
			return fmt.Errorf("%w: role %q has no font", ErrInvalidRules, role)
		}
		if _, ok := rs.Bindings[role]; !ok {
			return fmt.Errorf("%w: role %q is not bound to a style", ErrInvalidRules, role)
		}
	}
	if rs.HangingIndent <= 0 {
		return fmt.Errorf("%w: hanging indent must be positive", ErrInvalidRules)
	}
	if rs.FirstLineIndent < 0 {
		return fmt.Errorf("%w: first-line indent must not be negative", ErrInvalidRules)
	}
	return nil
}

// Roles returns the roles defined by the rule set in a stable order.
func (rs *RuleSet) Roles() []Role {
	roles := make([]Role, 0, len(rs.Directives))
	for role := range rs.Directives {
		roles = append(roles, role)
	}
	sort.Slice(roles, func(i, j int) bool { return roles[i] < roles[j] })
	return roles
}

// Fingerprint returns a stable hash of the rule set. Two rule sets with the
// same fingerprint produce identical templates.
func (rs *RuleSet) Fingerprint() (string, error) {
	// yaml.v3 sorts map keys, so the encoding is stable
	data, err := yaml.Marshal(rs)
	if err != nil {
		return "", fmt.Errorf("marshal rule set: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
