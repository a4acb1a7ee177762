package template_test

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ppiankov/apa7/internal/cache"
	"github.com/ppiankov/apa7/internal/format"
	"github.com/ppiankov/apa7/internal/model"
	"github.com/ppiankov/apa7/internal/ooxml"
	"github.com/ppiankov/apa7/internal/ooxml/ooxmltest"
	"github.com/ppiankov/apa7/internal/template"
)

func styleNode(t *testing.T, pkg *ooxml.Package, id string) *ooxml.Node {
	t.Helper()
	doc, err := pkg.XML(ooxml.StylesPart)
	require.NoError(t, err)
	for _, st := range doc.Root().Elements("w:style") {
		if st.AttrOr("w:styleId", "") == id {
			return st
		}
	}
	t.Fatalf("style %s not found", id)
	return nil
}

func generate(t *testing.T) *ooxml.Package {
	t.Helper()
	data, err := template.Generate(model.DefaultRuleSet())
	require.NoError(t, err)
	pkg, err := ooxml.Read(data)
	require.NoError(t, err)
	return pkg
}

func TestGenerate_Deterministic(t *testing.T) {
	first, err := template.Generate(model.DefaultRuleSet())
	require.NoError(t, err)
	second, err := template.Generate(model.DefaultRuleSet())
	require.NoError(t, err)
	assert.True(t, bytes.Equal(first, second))
}

func TestGenerate_Parts(t *testing.T) {
	pkg := generate(t)
	for _, name := range []string{
		ooxml.ContentTypesPart, ooxml.PackageRelsPart, ooxml.DocumentPart,
		ooxml.DocumentRelsPart, ooxml.StylesPart, ooxml.SettingsPart,
		ooxml.CorePropsPart, ooxml.AppPropsPart, "word/header1.xml",
	} {
		assert.True(t, pkg.Has(name), name)
	}

	rels, err := pkg.Relationships("", ooxml.RelTypeOfficeDocument)
	require.NoError(t, err)
	assert.Contains(t, rels, "rId1")
	assert.Equal(t, ooxml.DocumentPart, rels["rId1"])
}

func TestGenerate_EveryBindingHasAStyle(t *testing.T) {
	pkg := generate(t)
	styles, err := ooxml.LoadStyles(pkg)
	require.NoError(t, err)

	rules := model.DefaultRuleSet()
	for role, b := range rules.Bindings {
		st, ok := styles.ByID(b.ID)
		require.True(t, ok, "role %s", role)
		assert.Equal(t, b.Name, st.Name)
		assert.Equal(t, b.Type, st.Type)
	}

	normal, ok := styles.DefaultParagraph()
	require.True(t, ok)
	assert.Equal(t, "Normal", normal.ID)
	for lvl := 1; lvl <= 5; lvl++ {
		assert.Equal(t, lvl, styles.HeadingLevel(rules.Bindings[model.HeadingRole(lvl)].ID))
	}
}

func TestGenerate_HeadingStyles(t *testing.T) {
	pkg := generate(t)

	h1 := styleNode(t, pkg, "Heading1")
	assert.Equal(t, "center", h1.Child("w:pPr").Child("w:jc").AttrOr("w:val", ""))
	assert.True(t, ooxml.IsOn(h1.Child("w:rPr"), "w:b"))
	assert.False(t, ooxml.IsOn(h1.Child("w:rPr"), "w:i"))
	assert.Equal(t, "000000", h1.Child("w:rPr").Child("w:color").AttrOr("w:val", ""))
	assert.Nil(t, h1.Child("w:pPr").Child("w:pBdr"))

	h3 := styleNode(t, pkg, "Heading3")
	assert.True(t, ooxml.IsOn(h3.Child("w:rPr"), "w:b"))
	assert.True(t, ooxml.IsOn(h3.Child("w:rPr"), "w:i"))
}

func TestGenerate_ParagraphStyles(t *testing.T) {
	pkg := generate(t)

	bib := styleNode(t, pkg, "Bibliography").Child("w:pPr").Child("w:ind")
	assert.Equal(t, "720", bib.AttrOr("w:left", ""))
	assert.Equal(t, "720", bib.AttrOr("w:hanging", ""))

	normal := styleNode(t, pkg, "Normal")
	assert.Equal(t, "1", normal.AttrOr("w:default", ""))
	assert.Equal(t, "720", normal.Child("w:pPr").Child("w:ind").AttrOr("w:firstLine", ""))
	assert.Equal(t, "480", normal.Child("w:pPr").Child("w:spacing").AttrOr("w:line", ""))

	first := styleNode(t, pkg, "FirstParagraph")
	assert.Equal(t, "0", first.Child("w:pPr").Child("w:ind").AttrOr("w:firstLine", ""))

	code := styleNode(t, pkg, "SourceCode")
	assert.Equal(t, model.CodeFont, code.Child("w:rPr").Child("w:rFonts").AttrOr("w:ascii", ""))
	assert.Equal(t, "20", code.Child("w:rPr").Child("w:sz").AttrOr("w:val", ""))
	assert.Equal(t, "240", code.Child("w:pPr").Child("w:spacing").AttrOr("w:line", ""))

	verbatim := styleNode(t, pkg, "VerbatimChar")
	assert.Equal(t, "character", verbatim.AttrOr("w:type", ""))
	assert.Nil(t, verbatim.Child("w:pPr"))
}

func TestGenerate_PageSetup(t *testing.T) {
	doc, err := ooxml.LoadDocument(generate(t))
	require.NoError(t, err)

	sp := doc.FinalSection()
	assert.Equal(t, "12240", sp.Child("w:pgSz").AttrOr("w:w", ""))
	assert.Equal(t, "15840", sp.Child("w:pgSz").AttrOr("w:h", ""))
	for _, side := range []string{"w:top", "w:right", "w:bottom", "w:left"} {
		assert.Equal(t, "1440", sp.Child("w:pgMar").AttrOr(side, ""), side)
	}
	require.Len(t, sp.Elements("w:headerReference"), 1)
}

func TestGenerate_PassesFormatter(t *testing.T) {
	pkg := generate(t)
	f, err := format.NewFormatter(model.DefaultRuleSet(), format.OptionsFromConfig(model.DefaultConfig().Format), nil)
	require.NoError(t, err)

	report, err := f.Apply(pkg)
	require.NoError(t, err)
	assert.True(t, report.PageNumbers, "the template header already shows page numbers")
	assert.Equal(t, 1, report.Skipped, "the code sample is left alone")
}

func TestGenerate_DefinesConverterStyles(t *testing.T) {
	ids := []string{
		"Title", "Subtitle", "Author", "Date", "AbstractTitle", "Abstract",
		"TableCaption", "ImageCaption", "Figure", "CaptionedFigure",
		"DefinitionTerm", "Definition", "FootnoteText", "TOCHeading",
		"FirstParagraph", "BodyText", "Compact", "BlockText", "Bibliography",
	}

	stylesXML, ok := generate(t).Part(ooxml.StylesPart)
	require.True(t, ok)

	var body strings.Builder
	body.WriteString(ooxmltest.P("Heading1", "Introduction"))
	for _, id := range ids {
		body.WriteString(ooxmltest.P(id, "Text in "+id+"."))
	}
	data := ooxmltest.BuildWithStylesPart(t, body.String(), string(stylesXML))
	pkg, err := ooxml.Read(data)
	require.NoError(t, err)

	f, err := format.NewFormatter(model.DefaultRuleSet(), format.OptionsFromConfig(model.DefaultConfig().Format), nil)
	require.NoError(t, err)
	report, err := f.Apply(pkg)
	require.NoError(t, err, "strict style check passes on converter output")
	assert.Empty(t, report.Warnings)

	subtitle := styleNode(t, pkg, "Subtitle")
	assert.False(t, ooxml.IsOn(subtitle.Child("w:rPr"), "w:b"))
	assert.Equal(t, "center", subtitle.Child("w:pPr").Child("w:jc").AttrOr("w:val", ""))
	assert.Equal(t, "Caption", styleNode(t, pkg, "TableCaption").Child("w:basedOn").AttrOr("w:val", ""))
	assert.Equal(t, "240", styleNode(t, pkg, "FootnoteText").Child("w:pPr").Child("w:spacing").AttrOr("w:line", ""))
}

func TestGenerate_InvalidRules(t *testing.T) {
	rules := model.DefaultRuleSet()
	delete(rules.Bindings, model.RoleCaption)
	_, err := template.Generate(rules)
	assert.ErrorIs(t, err, model.ErrInvalidRules)
}

func TestFingerprint(t *testing.T) {
	a, err := template.Fingerprint(model.DefaultRuleSet())
	require.NoError(t, err)
	b, err := template.Fingerprint(model.DefaultRuleSet())
	require.NoError(t, err)
	assert.Equal(t, a, b)

	other := model.NewRuleSet("Georgia", 11, model.Inches(0.5), model.Inches(0.5), model.Inches(1))
	c, err := template.Fingerprint(other)
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestGenerator_UsesCache(t *testing.T) {
	mem := cache.NewMemory(time.Hour)
	g := template.NewGenerator(model.DefaultRuleSet(), mem, nil)

	first, cached, err := g.Bytes()
	require.NoError(t, err)
	assert.False(t, cached)

	second, cached, err := g.Bytes()
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, first, second)
}

func TestGenerator_DiscardsCorruptEntry(t *testing.T) {
	rules := model.DefaultRuleSet()
	fp, err := template.Fingerprint(rules)
	require.NoError(t, err)

	mem := cache.NewMemory(time.Hour)
	require.NoError(t, mem.Set(cache.TemplateKey(fp), []byte("garbage"), 0))

	data, cached, err := template.NewGenerator(rules, mem, nil).Bytes()
	require.NoError(t, err)
	assert.False(t, cached)
	_, err = ooxml.Read(data)
	assert.NoError(t, err)
}

func TestGenerator_WriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reference.docx")
	g := template.NewGenerator(model.DefaultRuleSet(), nil, nil)
	require.NoError(t, g.WriteFile(path))

	pkg, err := ooxml.Open(path)
	require.NoError(t, err)
	assert.True(t, pkg.Has(ooxml.StylesPart))
}
