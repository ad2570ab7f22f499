package internal

import "sort"

// Span is a formatting attribute attached to the half-open rune range
// [Start, End) of a text.
type Span struct {
	Start int    `json:"start" yaml:"start"`
	End   int    `json:"end" yaml:"end"`
	Style string `json:"style" yaml:"style"`
}

// Buffer is a mutable rune buffer carrying formatting spans. Replacing a
// region moves the spans along with the text around it.
type Buffer struct {
	runes []rune
	spans []Span
}

// NewBuffer copies text and spans into a new buffer
func NewBuffer(text []rune, spans []Span) *Buffer {
	b := &Buffer{
		runes: make([]rune, len(text)),
		spans: make([]Span, len(spans)),
	}
	copy(b.runes, text)
	copy(b.spans, spans)
	return b
}

// Len returns the buffer length in runes
func (b *Buffer) Len() int {
	return len(b.runes)
}

// Replace swaps the runes in [start, end) for text.
//
// Span endpoints at or before start stay put, endpoints at or after end
// shift by the length delta, and endpoints strictly inside the region are
// clamped: starts to start, ends to the end of the inserted text. Spans
// left with no width are dropped.
func (b *Buffer) Replace(start, end int, text []rune) {
	delta := len(text) - (end - start)

	out := make([]rune, 0, len(b.runes)+delta)
	out = append(out, b.runes[:start]...)
	out = append(out, text...)
	out = append(out, b.runes[end:]...)
	b.runes = out

	if len(b.spans) == 0 {
		return
	}

	insertedEnd := start + len(text)
	kept := b.spans[:0]
	for _, s := range b.spans {
		s.Start = moveEndpoint(s.Start, start, end, delta, start)
		s.End = moveEndpoint(s.End, start, end, delta, insertedEnd)
		if s.End > s.Start {
			kept = append(kept, s)
		}
	}
	b.spans = kept
}

func moveEndpoint(p, start, end, delta, inside int) int {
	switch {
	case p <= start:
		return p
	case p >= end:
		return p + delta
	default:
		return inside
	}
}

// Runes returns a copy of the buffer contents
func (b *Buffer) Runes() []rune {
	out := make([]rune, len(b.runes))
	copy(out, b.runes)
	return out
}

// String returns the buffer contents as a string
func (b *Buffer) String() string {
	return string(b.runes)
}

// Spans returns a copy of the spans ordered by start, then by end descending
// so enclosing spans come before the spans they contain.
func (b *Buffer) Spans() []Span {
	out := make([]Span, len(b.spans))
	copy(out, b.spans)
	SortSpans(out)
	return out
}

// SortSpans orders spans by start, then by end descending. The sort is
// stable so equal ranges keep their original order.
func SortSpans(spans []Span) {
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].Start != spans[j].Start {
			return spans[i].Start < spans[j].Start
		}
		return spans[i].End > spans[j].End
	})
}
