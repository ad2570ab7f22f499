package phrase

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type count int

type label string

type point struct{ x, y int }

func TestCanonicalText(t *testing.T) {
	n := 5
	pn := &n

	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"string", "abc", "abc"},
		{"empty string", "", ""},
		{"bytes", []byte("raw"), "raw"},
		{"true", true, "true"},
		{"false", false, "false"},
		{"int", -12, "-12"},
		{"int8", int8(-8), "-8"},
		{"int64", int64(1) << 40, "1099511627776"},
		{"uint", uint(7), "7"},
		{"uint8", uint8(255), "255"},
		{"uint64", uint64(18446744073709551615), "18446744073709551615"},
		{"float64", 3.25, "3.25"},
		{"float64 whole", 2.0, "2"},
		{"float64 small", 0.000001, "0.000001"},
		{"float32", float32(0.1), "0.1"},
		{"stringer", time.Duration(90) * time.Second, "1m30s"},
		{"error", errors.New("boom"), "boom"},
		{"spanned", SpannedText{Text: "styled", Spans: []Span{{Start: 0, End: 1, Style: StyleBold}}}, "styled"},
		{"named int", count(3), "3"},
		{"named string", label("x"), "x"},
		{"pointer", pn, "5"},
		{"struct", point{1, 2}, "{1 2}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CanonicalText(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanonicalText_Absent(t *testing.T) {
	var ptr *int
	var m map[string]int
	var f func()
	var err error

	for name, v := range map[string]any{
		"nil":         nil,
		"nil pointer": ptr,
		"nil map":     m,
		"nil func":    f,
		"nil error":   err,
	} {
		t.Run(name, func(t *testing.T) {
			_, got := CanonicalText(v)
			require.Error(t, got)
			assert.True(t, errors.Is(got, ErrNullValue))
		})
	}
}

func TestJoinValues(t *testing.T) {
	text, index, err := joinValues([]int{1, 2}, "")
	require.NoError(t, err)
	assert.Equal(t, "1 2", text)
	assert.Equal(t, -1, index)

	_, index, err = joinValues("nope", ",")
	assert.ErrorIs(t, err, ErrNotASequence)
	assert.Equal(t, -1, index)

	var nilPtr *string
	_, index, err = joinValues([]any{"a", "b", nilPtr}, ",")
	assert.ErrorIs(t, err, ErrNullValue)
	assert.Equal(t, 2, index)
}

func TestIsSequence(t *testing.T) {
	assert.True(t, isSequence([]string{}))
	assert.True(t, isSequence([3]int{}))
	assert.False(t, isSequence([]byte("x")))
	assert.False(t, isSequence("x"))
	assert.False(t, isSequence(nil))
	assert.False(t, isSequence(map[string]int{}))
}
