package extractor

import (
	"sort"
	"strings"
)

// Bounds is a half-open byte range [Start, End).
type Bounds struct {
	Start int
	End   int
}

// Len returns the number of bytes covered.
func (b Bounds) Len() int {
	return b.End - b.Start
}

// Buffer is a mutable text buffer edited by byte offsets.
type Buffer struct {
	text string
}

// NewBuffer creates a buffer holding text.
func NewBuffer(text string) *Buffer {
	return &Buffer{text: text}
}

// String returns the current text.
func (b *Buffer) String() string {
	return b.text
}

// Len returns the current length in bytes.
func (b *Buffer) Len() int {
	return len(b.text)
}

// Remove deletes spans, given as offsets into the current text, and returns the
// resulting length. Spans may come in any order; overlapping spans are merged and
// out-of-range offsets are clamped.
func (b *Buffer) Remove(spans []Bounds) int {
	if len(spans) == 0 {
		return len(b.text)
	}

	sorted := make([]Bounds, len(spans))
	copy(sorted, spans)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	var sb strings.Builder
	sb.Grow(len(b.text))
	last := 0
	for _, span := range sorted {
		start, end := b.clamp(span.Start), b.clamp(span.End)
		if end < start {
			continue
		}
		if start > last {
			sb.WriteString(b.text[last:start])
		}
		if end > last {
			last = end
		}
	}
	sb.WriteString(b.text[last:])

	b.text = sb.String()
	return len(b.text)
}

// InsertAt inserts text at offset and returns the resulting length.
func (b *Buffer) InsertAt(offset int, text string) int {
	offset = b.clamp(offset)
	b.text = b.text[:offset] + text + b.text[offset:]
	return len(b.text)
}

func (b *Buffer) clamp(offset int) int {
	if offset < 0 {
		return 0
	}
	if offset > len(b.text) {
		return len(b.text)
	}
	return offset
}
