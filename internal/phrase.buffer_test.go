package internal

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestBuffer_Replace_Text(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		start    int
		end      int
		text     string
		expected string
	}{
		{name: "grow at start", input: "{a} tail", start: 0, end: 3, text: "hello", expected: "hello tail"},
		{name: "shrink in middle", input: "x{long_key}y", start: 1, end: 11, text: "-", expected: "x-y"},
		{name: "replace with empty", input: "a{b}c", start: 1, end: 4, text: "", expected: "ac"},
		{name: "replace at end", input: "ab{{", start: 2, end: 4, text: "{", expected: "ab{"},
		{name: "multibyte", input: "é{k}ü", start: 1, end: 4, text: "ñ", expected: "éñü"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := NewBuffer([]rune(tt.input), nil)
			buf.Replace(tt.start, tt.end, []rune(tt.text))
			assert.Equal(t, tt.expected, buf.String())
			assert.Equal(t, len([]rune(tt.expected)), buf.Len())
		})
	}
}

func TestBuffer_Replace_Spans(t *testing.T) {
	// "Hi {name}, bye" with the key region at [3, 9)
	tests := []struct {
		name     string
		spans    []Span
		expected []Span
	}{
		{
			name:     "span before region untouched",
			spans:    []Span{{Start: 0, End: 2, Style: "b"}},
			expected: []Span{{Start: 0, End: 2, Style: "b"}},
		},
		{
			name:     "span ending at region start untouched",
			spans:    []Span{{Start: 0, End: 3, Style: "b"}},
			expected: []Span{{Start: 0, End: 3, Style: "b"}},
		},
		{
			name:     "span after region shifted",
			spans:    []Span{{Start: 11, End: 14, Style: "i"}},
			expected: []Span{{Start: 8, End: 11, Style: "i"}},
		},
		{
			name:     "span exactly covering region follows value",
			spans:    []Span{{Start: 3, End: 9, Style: "b"}},
			expected: []Span{{Start: 3, End: 6, Style: "b"}},
		},
		{
			name:     "span enclosing region grows and shrinks with it",
			spans:    []Span{{Start: 0, End: 14, Style: "u"}},
			expected: []Span{{Start: 0, End: 11, Style: "u"}},
		},
		{
			name:     "span starting inside region clamps to region start",
			spans:    []Span{{Start: 5, End: 12, Style: "s"}},
			expected: []Span{{Start: 3, End: 9, Style: "s"}},
		},
		{
			name:     "span ending inside region clamps to value end",
			spans:    []Span{{Start: 1, End: 5, Style: "s"}},
			expected: []Span{{Start: 1, End: 6, Style: "s"}},
		},
		{
			name:     "span strictly inside region collapses onto value",
			spans:    []Span{{Start: 4, End: 6, Style: "em"}},
			expected: []Span{{Start: 3, End: 6, Style: "em"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := NewBuffer([]rune("Hi {name}, bye"), tt.spans)
			buf.Replace(3, 9, []rune("Bob"))
			assert.Equal(t, "Hi Bob, bye", buf.String())
			if diff := cmp.Diff(tt.expected, buf.Spans()); diff != "" {
				t.Errorf("spans mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuffer_Replace_DropsCollapsedSpans(t *testing.T) {
	buf := NewBuffer([]rune("a{b}c"), []Span{
		{Start: 1, End: 4, Style: "b"},
		{Start: 0, End: 5, Style: "i"},
	})
	buf.Replace(1, 4, nil)

	assert.Equal(t, "ac", buf.String())
	assert.Equal(t, []Span{{Start: 0, End: 2, Style: "i"}}, buf.Spans())
}

func TestBuffer_CopiesInput(t *testing.T) {
	text := []rune("abc")
	spans := []Span{{Start: 0, End: 1, Style: "b"}}
	buf := NewBuffer(text, spans)

	buf.Replace(0, 1, []rune("zz"))

	assert.Equal(t, "abc", string(text))
	assert.Equal(t, Span{Start: 0, End: 1, Style: "b"}, spans[0])
	assert.Equal(t, []rune("zzbc"), buf.Runes())
}

func TestSortSpans(t *testing.T) {
	spans := []Span{
		{Start: 2, End: 3, Style: "a"},
		{Start: 0, End: 1, Style: "b"},
		{Start: 0, End: 4, Style: "c"},
		{Start: 0, End: 4, Style: "d"},
	}
	SortSpans(spans)

	want := []Span{
		{Start: 0, End: 4, Style: "c"},
		{Start: 0, End: 4, Style: "d"},
		{Start: 0, End: 1, Style: "b"},
		{Start: 2, End: 3, Style: "a"},
	}
	if diff := cmp.Diff(want, spans); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}
