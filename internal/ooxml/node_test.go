package ooxml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, s string) *Node {
	t.Helper()
	doc, err := Parse([]byte(s))
	require.NoError(t, err)
	return doc.Root()
}

func TestNode_Text(t *testing.T) {
	p := mustParse(t, `<w:p xmlns:w="urn:w">`+
		`<w:pPr><w:rPr><w:b/></w:rPr></w:pPr>`+
		`<w:r><w:t>Hello</w:t><w:tab/><w:t>world</w:t></w:r>`+
		`<w:r><w:br/><w:t>again</w:t></w:r>`+
		`<w:del><w:r><w:delText>gone</w:delText></w:r></w:del>`+
		`<w:r><w:instrText> PAGE </w:instrText></w:r>`+
		`</w:p>`)

	assert.Equal(t, "Hello\tworld\nagain", p.Text())
}

func TestNode_SetTextPreservesSpace(t *testing.T) {
	el := NewElement("w:t")
	el.SetText("plain")
	_, ok := el.Attr("xml:space")
	assert.False(t, ok)

	el.SetText(" padded ")
	assert.Equal(t, "preserve", el.AttrOr("xml:space", ""))
	assert.Equal(t, " padded ", el.Text())
}

func TestNode_TreeEditing(t *testing.T) {
	root := NewElement("root")
	a := NewElement("a")
	c := NewElement("c")
	root.AppendChild(a)
	root.AppendChild(c)
	b := NewElement("b")
	root.InsertAfter(a, b)

	names := func() []string {
		var out []string
		for _, el := range root.Elements("") {
			out = append(out, el.Name)
		}
		return out
	}
	assert.Equal(t, []string{"a", "b", "c"}, names())

	// appending an attached node moves it
	root.AppendChild(a)
	assert.Equal(t, []string{"b", "c", "a"}, names())

	b.Remove()
	assert.Nil(t, b.Parent)
	assert.Equal(t, []string{"c", "a"}, names())

	root.AppendChild(NewElement("a"))
	assert.Equal(t, 2, root.RemoveElements("a"))
	assert.Equal(t, []string{"c"}, names())
}

func TestNode_Clone(t *testing.T) {
	orig := mustParse(t, `<w:r xmlns:w="urn:w"><w:rPr><w:i/></w:rPr><w:t>x</w:t></w:r>`)
	cp := orig.Clone()

	assert.Nil(t, cp.Parent)
	cp.Child("w:t").SetText("y")
	assert.Equal(t, "x", orig.Text())
	assert.Equal(t, "y", cp.Text())
	assert.Same(t, cp, cp.Child("w:rPr").Parent)
}

func TestNode_NilSafeLookups(t *testing.T) {
	var n *Node
	assert.Nil(t, n.Child("w:pPr"))
	assert.Nil(t, n.Elements("w:p"))
	assert.Equal(t, "dflt", n.AttrOr("w:val", "dflt"))
	assert.False(t, n.IsElement("w:p"))
}

func TestNode_Descendants(t *testing.T) {
	body := mustParse(t, `<w:body xmlns:w="urn:w"><w:p/><w:tbl><w:tr><w:tc><w:p/></w:tc></w:tr></w:tbl><w:p/></w:body>`)
	assert.Len(t, body.Descendants("w:p"), 3)
	assert.Len(t, body.Elements("w:p"), 2)
}
