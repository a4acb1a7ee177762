package ooxml

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func childNames(n *Node) []string {
	var out []string
	for _, c := range n.Elements("") {
		out = append(out, c.Name)
	}
	return out
}

func TestEnsure_SchemaOrder(t *testing.T) {
	pPr := NewElement("w:pPr")
	pPr.Ensure("w:jc")
	pPr.Ensure("w:pStyle")
	pPr.Ensure("w:rPr")
	pPr.Ensure("w:spacing")
	pPr.Ensure("w:ind")

	assert.Equal(t, []string{"w:pStyle", "w:spacing", "w:ind", "w:jc", "w:rPr"}, childNames(pPr))
}

func TestEnsure_ReturnsExisting(t *testing.T) {
	rPr := NewElement("w:rPr")
	b := rPr.Ensure("w:b")
	assert.Same(t, b, rPr.Ensure("w:b"))
	assert.Len(t, rPr.Elements("w:b"), 1)
}

func TestReplace_RemovesDuplicates(t *testing.T) {
	rPr := NewElement("w:rPr")
	rPr.AppendChild(NewElement("w:sz", "w:val", "20"))
	rPr.AppendChild(NewElement("w:sz", "w:val", "22"))
	rPr.AppendChild(NewElement("w:rFonts"))

	rPr.Replace(Val("w:sz", "24"))

	assert.Equal(t, []string{"w:rFonts", "w:sz"}, childNames(rPr))
	assert.Equal(t, "24", rPr.Child("w:sz").AttrOr("w:val", ""))
}

func TestEnsure_PropertiesBeforeContent(t *testing.T) {
	r := NewElement("w:r")
	r.AppendChild(NewElement("w:t"))
	r.Ensure("w:rPr")
	assert.Equal(t, []string{"w:rPr", "w:t"}, childNames(r))

	p := NewElement("w:p")
	p.AppendChild(NewElement("w:r"))
	p.AppendChild(NewElement("w:hyperlink"))
	p.Ensure("w:pPr")
	assert.Equal(t, []string{"w:pPr", "w:r", "w:hyperlink"}, childNames(p))
}

func TestEnsure_UnknownChildrenKeptInPlace(t *testing.T) {
	rPr := NewElement("w:rPr")
	rPr.AppendChild(NewElement("w14:ligatures"))
	rPr.AppendChild(NewElement("w:lang"))

	rPr.Ensure("w:sz")
	assert.Equal(t, []string{"w14:ligatures", "w:sz", "w:lang"}, childNames(rPr))
}

func TestInsert_KeepsSiblings(t *testing.T) {
	sp := NewElement("w:sectPr")
	sp.AppendChild(NewElement("w:pgSz"))
	sp.Insert(NewElement("w:headerReference", "w:type", "first"))
	sp.Insert(NewElement("w:headerReference", "w:type", "default"))

	assert.Equal(t, []string{"w:headerReference", "w:headerReference", "w:pgSz"}, childNames(sp))
}
