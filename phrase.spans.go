package phrase

import (
	"github.com/itsatony/go-phrase/internal"
)

// Span is a formatting attribute (e.g. "b" for bold) covering the half-open
// rune range [Start, End) of a text.
type Span = internal.Span

// SpannedText is text carrying formatting spans. Offsets count runes, not bytes.
type SpannedText struct {
	Text  string `json:"text" yaml:"text"`
	Spans []Span `json:"spans,omitempty" yaml:"spans,omitempty"`
}

// Plain wraps text with no spans.
func Plain(text string) SpannedText {
	return SpannedText{Text: text}
}

// String returns the text without formatting.
func (s SpannedText) String() string {
	return s.Text
}

// Len returns the text length in runes.
func (s SpannedText) Len() int {
	return len([]rune(s.Text))
}

// Slice returns the runes of [start, end) as a string, clamped to the text.
func (s SpannedText) Slice(start, end int) string {
	runes := []rune(s.Text)
	start = clamp(start, 0, len(runes))
	end = clamp(end, start, len(runes))
	return string(runes[start:end])
}

// normalizedSpans drops spans that are empty or outside the text, clamps
// the rest and orders them outermost first.
func (s SpannedText) normalizedSpans() []Span {
	n := s.Len()
	out := make([]Span, 0, len(s.Spans))
	for _, sp := range s.Spans {
		sp.Start = clamp(sp.Start, 0, n)
		sp.End = clamp(sp.End, 0, n)
		if sp.End <= sp.Start || sp.Style == "" {
			continue
		}
		out = append(out, sp)
	}
	internal.SortSpans(out)
	return out
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
