package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func expand(t *testing.T, pattern string, delims Delimiters, values map[string]string) (string, []Token, []Expansion) {
	t.Helper()
	source := []rune(pattern)
	tokens, _, err := NewLexer(source, delims, zap.NewNop()).Tokenize()
	require.NoError(t, err)

	buf := NewBuffer(source, nil)
	expansions := NewFormatter(delims, zap.NewNop()).Expand(buf, tokens, values)
	return buf.String(), tokens, expansions
}

func TestFormatter_Expand(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		values   map[string]string
		expected string
	}{
		{
			name:     "hello world",
			pattern:  "{greeting} {who}!",
			values:   map[string]string{"greeting": "Hello", "who": "World"},
			expected: "Hello World!",
		},
		{
			name:     "escape collapses",
			pattern:  "{{literal",
			expected: "{literal",
		},
		{
			name:     "escape before key",
			pattern:  "{{{b}",
			values:   map[string]string{"b": "x"},
			expected: "{x",
		},
		{
			name:     "repeated key",
			pattern:  "{x}-{x}-{x}",
			values:   map[string]string{"x": "abc"},
			expected: "abc-abc-abc",
		},
		{
			name:     "value longer than placeholder shifts later tokens",
			pattern:  "{a}{{{b}",
			values:   map[string]string{"a": "0123456789", "b": "z"},
			expected: "0123456789{z",
		},
		{
			name:     "value shorter than placeholder",
			pattern:  "[{long_key_name}] {{ {k}",
			values:   map[string]string{"long_key_name": "", "k": "v"},
			expected: "[] { v",
		},
		{
			name:     "value containing brackets is not re-expanded",
			pattern:  "{a}{b}",
			values:   map[string]string{"a": "{b}", "b": "{{"},
			expected: "{b}{{",
		},
		{
			name:     "url",
			pattern:  "{host}/{name}/?{action}={action_value}",
			values:   map[string]string{"host": "https://github.com", "name": "pddstudio", "action": "isAwesome", "action_value": "true"},
			expected: "https://github.com/pddstudio/?isAwesome=true",
		},
		{
			name:     "multibyte values",
			pattern:  "ä{k}ö{{",
			values:   map[string]string{"k": "日本"},
			expected: "ä日本ö{",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, _ := expand(t, tt.pattern, DefaultDelimiters(), tt.values)
			assert.Equal(t, tt.expected, out)
		})
	}
}

func TestFormatter_Expand_Delimiters(t *testing.T) {
	out, _, _ := expand(t, "<<a> <b>", Delimiters{Open: '<', Close: '>'}, map[string]string{"b": "B"})
	assert.Equal(t, "<a> B", out)

	out, _, _ = expand(t, "((x) (y)", Delimiters{Open: '(', Close: ')'}, map[string]string{"y": "1"})
	assert.Equal(t, "(x) 1", out)
}

func TestFormatter_Expansions(t *testing.T) {
	out, tokens, expansions := expand(t, "ab{x}{{c{y}", DefaultDelimiters(), map[string]string{"x": "XXXX", "y": ""})
	assert.Equal(t, "abXXXX{c", out)
	require.Len(t, expansions, len(tokens))

	assert.Equal(t, []Expansion{
		{Start: 0, Length: 2}, // ab
		{Start: 2, Length: 4}, // {x}
		{Start: 6, Length: 1}, // {{
		{Start: 7, Length: 1}, // c
		{Start: 8, Length: 0}, // {y}
	}, expansions)

	// effective lengths sum to the output length and each start is the
	// prefix sum of its predecessors
	total := 0
	for _, e := range expansions {
		assert.Equal(t, total, e.Start)
		total += e.Length
	}
	assert.Equal(t, len([]rune(out)), total)
}

func TestFormatter_PreservesSpansOutsideKeys(t *testing.T) {
	source := []rune("Hi {name}, welcome to {place}!")
	tokens, _, err := NewLexer(source, DefaultDelimiters(), nil).Tokenize()
	require.NoError(t, err)

	spans := []Span{
		{Start: 0, End: 2, Style: "b"},   // Hi
		{Start: 11, End: 18, Style: "i"}, // welcome
		{Start: 22, End: 29, Style: "u"}, // {place}
	}
	buf := NewBuffer(source, spans)
	NewFormatter(DefaultDelimiters(), nil).Expand(buf, tokens, map[string]string{"name": "Ann", "place": "Oslo"})

	out := buf.String()
	assert.Equal(t, "Hi Ann, welcome to Oslo!", out)

	got := buf.Spans()
	require.Len(t, got, 3)
	runes := []rune(out)
	assert.Equal(t, "Hi", string(runes[got[0].Start:got[0].End]))
	assert.Equal(t, "welcome", string(runes[got[1].Start:got[1].End]))
	assert.Equal(t, "Oslo", string(runes[got[2].Start:got[2].End]))
}
