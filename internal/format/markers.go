package format

import (
	"github.com/ppiankov/apa7/internal/ooxml"
)

// removeBookmarks strips bookmark start and end markers. Converters emit one
// per heading; they carry no visible content.
func removeBookmarks(body *ooxml.Node) int {
	removed := 0
	for _, name := range []string{"w:bookmarkStart", "w:bookmarkEnd"} {
		for _, n := range body.Descendants(name) {
			n.Remove()
			removed++
		}
	}
	return removed
}

// emphasiseMarker sets the leading "Note." or "Keywords:" marker of a
// paragraph in italics and leaves the rest of the paragraph untouched.
// Runs are split at the marker boundary when needed. It reports whether a
// marker was found and emphasised.
func emphasiseMarker(p *ooxml.Node) bool {
	text := p.Text()
	lead := leadingSpace(text)
	m := markerPattern.FindString(text[lead:])
	if m == "" {
		return false
	}
	return italiciseSpan(p, lead, lead+len(m))
}

func leadingSpace(s string) int {
	for i, r := range s {
		switch r {
		case ' ', '\t', '\n', '\u00a0':
			continue
		}
		return i
	}
	return len(s)
}

// italiciseSpan italicises the text between byte offsets start and end of
// the paragraph text. Only runs holding a single w:t can be split; a span
// crossing any other run is left alone.
func italiciseSpan(p *ooxml.Node, start, end int) bool {
	type segment struct {
		run        *ooxml.Node
		start, end int
	}

	var segs []segment
	pos := 0
	for _, r := range ooxml.Runs(p) {
		n := len(r.Text())
		segs = append(segs, segment{run: r, start: pos, end: pos + n})
		pos += n
	}

	// split at both boundaries first so the span maps onto whole runs
	for _, boundary := range []int{start, end} {
		for i, s := range segs {
			if boundary <= s.start || boundary >= s.end {
				continue
			}
			tail, ok := splitRun(s.run, boundary-s.start)
			if !ok {
				return false
			}
			segs[i].end = boundary
			segs = append(segs[:i+1], append([]segment{{run: tail, start: boundary, end: s.end}}, segs[i+1:]...)...)
			break
		}
	}

	changed := false
	for _, s := range segs {
		if s.start >= start && s.end <= end && s.end > s.start {
			s.run.Ensure("w:rPr").Replace(ooxml.OnOff("w:i", true))
			changed = true
		}
	}
	return changed
}

// splitRun splits a run holding a single w:t at a byte offset of its text.
// The run keeps the head; a copy with the same properties holding the tail
// is inserted after it and returned.
func splitRun(r *ooxml.Node, offset int) (*ooxml.Node, bool) {
	var t *ooxml.Node
	for _, c := range r.Elements("") {
		switch c.Name {
		case "w:rPr":
		case "w:t":
			if t != nil {
				return nil, false
			}
			t = c
		default:
			return nil, false
		}
	}
	if t == nil {
		return nil, false
	}
	text := t.Text()
	if offset <= 0 || offset >= len(text) {
		return nil, false
	}

	tail := r.Clone()
	t.SetText(text[:offset])
	tail.Child("w:t").SetText(text[offset:])
	r.Parent.InsertAfter(r, tail)
	return tail, true
}
