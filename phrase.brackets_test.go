package phrase

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestBracket_Delimiters(t *testing.T) {
	tests := []struct {
		bracket Bracket
		name    string
		open    rune
		close   rune
	}{
		{BracketCurly, BracketNameCurly, '{', '}'},
		{BracketRound, BracketNameRound, '(', ')'},
		{BracketAngle, BracketNameAngle, '<', '>'},
		{BracketSquare, BracketNameSquare, '[', ']'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.bracket.Valid())
			assert.Equal(t, tt.name, tt.bracket.String())
			assert.Equal(t, tt.open, tt.bracket.Open())
			assert.Equal(t, tt.close, tt.bracket.Close())
		})
	}
	assert.Len(t, Brackets(), 4)
}

func TestBracket_Invalid(t *testing.T) {
	b := Bracket(-1)
	assert.False(t, b.Valid())
	assert.Equal(t, BracketNameCurly, b.String())
	assert.Equal(t, '{', b.Open())

	_, err := b.MarshalText()
	assert.True(t, errors.Is(err, ErrUnknownBracket))
}

func TestParseBracket(t *testing.T) {
	tests := []struct {
		input string
		want  Bracket
	}{
		{"curly", BracketCurly},
		{"ROUND", BracketRound},
		{" angle ", BracketAngle},
		{"square", BracketSquare},
		{"{", BracketCurly},
		{"(", BracketRound},
		{"<", BracketAngle},
		{"[", BracketSquare},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseBracket(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseBracket("braces")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownBracket))
	assert.Equal(t, "braces", metadata(t, err, MetaKeyBracket))
}

func TestBracket_TextEncoding(t *testing.T) {
	type doc struct {
		Bracket Bracket `json:"bracket" yaml:"bracket"`
	}

	data, err := json.Marshal(doc{Bracket: BracketSquare})
	require.NoError(t, err)
	assert.JSONEq(t, `{"bracket":"square"}`, string(data))

	var fromJSON doc
	require.NoError(t, json.Unmarshal([]byte(`{"bracket":"angle"}`), &fromJSON))
	assert.Equal(t, BracketAngle, fromJSON.Bracket)

	var fromYAML doc
	require.NoError(t, yaml.Unmarshal([]byte("bracket: round\n"), &fromYAML))
	assert.Equal(t, BracketRound, fromYAML.Bracket)

	var bad doc
	assert.Error(t, yaml.Unmarshal([]byte("bracket: wavy\n"), &bad))
}
