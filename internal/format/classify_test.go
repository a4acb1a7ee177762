package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSectionFor(t *testing.T) {
	tests := []struct {
		heading string
		want    section
	}{
		{"Abstract", sectionAbstract},
		{"  ABSTRACT ", sectionAbstract},
		{"References", sectionReferences},
		{"Reference List", sectionReferences},
		{"Introduction", sectionBody},
		{"Abstract Thinking", sectionBody},
	}
	for _, tt := range tests {
		t.Run(tt.heading, func(t *testing.T) {
			assert.Equal(t, tt.want, sectionFor(tt.heading))
		})
	}
}

func TestIsFlush(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"Table 1", true},
		{"figure 12 shows", true},
		{"Note. Values are means.", true},
		{"Note: values are means.", true},
		{"note. lowercase prose", false},
		{"Keywords: apa, style", true},
		{"Keyword: apa", true},
		{"Tables are useful.", false},
		{"The Note. is here", false},
		{"Figure A", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, isFlush(tt.text))
		})
	}
}

func TestIsLabel(t *testing.T) {
	assert.True(t, isLabel("Table 3"))
	assert.True(t, isLabel("Figure 2"))
	assert.False(t, isLabel("Note. Table 3"))
	assert.True(t, standaloneLabel.MatchString("Table 3"))
	assert.False(t, standaloneLabel.MatchString("Table 3 Results"))
}

func TestLeadingSpace(t *testing.T) {
	assert.Equal(t, 0, leadingSpace("Note."))
	assert.Equal(t, 2, leadingSpace("  Note."))
	assert.Equal(t, 3, leadingSpace("   "))
}
