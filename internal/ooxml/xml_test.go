package ooxml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_RoundTrip(t *testing.T) {
	input := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\r\n" +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
		`<w:body><w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr>` +
		`<w:r><w:t xml:space="preserve"> Fish &amp; Chips &lt;3 </w:t></w:r></w:p>` +
		`<!-- note --><w:sectPr/></w:body></w:document>`

	doc, err := Parse([]byte(input))
	require.NoError(t, err)

	assert.Equal(t, input, string(Marshal(doc)))
}

func TestParse_KeepsPrefixes(t *testing.T) {
	doc, err := Parse([]byte(`<w:document xmlns:w="urn:w" xmlns:r="urn:r"><w:body r:id="rId1"/></w:document>`))
	require.NoError(t, err)

	root := doc.Root()
	assert.Equal(t, "w:document", root.Name)
	body := root.Child("w:body")
	require.NotNil(t, body)
	assert.Equal(t, "rId1", body.AttrOr("r:id", ""))
}

func TestParse_EscapesAttributes(t *testing.T) {
	doc, err := Parse([]byte(`<a v="x &quot;y&quot; &amp; z"/>`))
	require.NoError(t, err)
	assert.Equal(t, `x "y" & z`, doc.Root().AttrOr("v", ""))
	assert.Equal(t, `<a v="x &quot;y&quot; &amp; z"/>`, string(Marshal(doc)))
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"mismatched", "<a><b></a></b>"},
		{"unclosed", "<a><b>"},
		{"text only", "hello"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestMarshal_IsFixedPoint(t *testing.T) {
	input := `<w:p xmlns:w="urn:w"><w:r><w:t>a</w:t><w:tab/><w:t>b</w:t></w:r></w:p>`
	doc, err := Parse([]byte(input))
	require.NoError(t, err)
	once := Marshal(doc)

	again, err := Parse(once)
	require.NoError(t, err)
	assert.Equal(t, string(once), string(Marshal(again)))
}
