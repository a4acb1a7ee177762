package ooxml_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/apa7/internal/model"
	"github.com/ppiankov/apa7/internal/ooxml"
	"github.com/ppiankov/apa7/internal/ooxml/ooxmltest"
)

func TestParseStyles(t *testing.T) {
	styles, err := ooxml.ParseStyles([]byte(ooxmltest.Styles(ooxmltest.PandocStyles)))
	require.NoError(t, err)

	st, ok := styles.ByName("Heading 1")
	require.True(t, ok, "names compare case-insensitively")
	assert.Equal(t, "Heading1", st.ID)
	assert.Equal(t, "Normal", st.BasedOn)

	def, ok := styles.DefaultParagraph()
	require.True(t, ok)
	assert.Equal(t, "Normal", def.ID)

	assert.Equal(t, "Verbatim Char", styles.Name("VerbatimChar"))
	assert.Equal(t, "Unknown", styles.Name("Unknown"))
}

func TestStyles_HeadingLevel(t *testing.T) {
	defs := ooxmltest.PandocStyles + `
<w:style w:type="paragraph" w:styleId="Custom"><w:name w:val="My Heading"/><w:basedOn w:val="Heading2"/></w:style>
<w:style w:type="paragraph" w:styleId="Outline"><w:name w:val="Outline Only"/><w:pPr><w:outlineLvl w:val="3"/></w:pPr></w:style>
<w:style w:type="paragraph" w:styleId="LoopA"><w:name w:val="Loop A"/><w:basedOn w:val="LoopB"/></w:style>
<w:style w:type="paragraph" w:styleId="LoopB"><w:name w:val="Loop B"/><w:basedOn w:val="LoopA"/></w:style>`
	styles, err := ooxml.ParseStyles([]byte(ooxmltest.Styles(defs)))
	require.NoError(t, err)

	tests := []struct {
		id   string
		want int
	}{
		{"Heading1", 1},
		{"Heading3", 3},
		{"Custom", 2},
		{"Outline", 4},
		{"BodyText", 0},
		{"LoopA", 0},
		{"Heading7", 7}, // undefined id that names a heading
		{"", 0},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			assert.Equal(t, tt.want, styles.HeadingLevel(tt.id))
		})
	}
}

func TestParseStyles_Invalid(t *testing.T) {
	_, err := ooxml.ParseStyles([]byte("<w:styles"))
	assert.ErrorIs(t, err, model.ErrInvalidDocument)
}

func TestLoadStyles_MissingPart(t *testing.T) {
	pkg := ooxml.New()
	styles, err := ooxml.LoadStyles(pkg)
	require.NoError(t, err)
	assert.Equal(t, 0, styles.Len())
}
