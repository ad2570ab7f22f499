package internal

import "fmt"

// Position represents a location in the source pattern
type Position struct {
	Offset int // Rune offset from start
	Line   int // 1-indexed line number
	Column int // 1-indexed column number
}

// String returns a human-readable position string
func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

// Token is one unit of the parsed pattern. The token slice partitions the
// pattern: summing SourceLength over it yields the pattern length in runes.
type Token struct {
	Kind     TokenKind
	Length   int    // rune count of a text run; unused for other kinds
	Key      string // key name without brackets; only for TokenKindKey
	Position Position
}

// SourceLength returns the number of pattern runes the token spans
func (t Token) SourceLength() int {
	switch t.Kind {
	case TokenKindEscape:
		return LenEscape
	case TokenKindKey:
		return len(t.Key) + LenKeyBrackets
	default:
		return t.Length
	}
}

// String returns a human-readable representation of the token
func (t Token) String() string {
	switch t.Kind {
	case TokenKindKey:
		return fmt.Sprintf("Token{%s: %q @ %s}", t.Kind, t.Key, t.Position)
	case TokenKindText:
		return fmt.Sprintf("Token{%s: %d @ %s}", t.Kind, t.Length, t.Position)
	default:
		return fmt.Sprintf("Token{%s @ %s}", t.Kind, t.Position)
	}
}

// NewTextToken creates a text run token of the given rune length
func NewTextToken(length int, pos Position) Token {
	return Token{
		Kind:     TokenKindText,
		Length:   length,
		Position: pos,
	}
}

// NewEscapeToken creates a token for a doubled open delimiter
func NewEscapeToken(pos Position) Token {
	return Token{
		Kind:     TokenKindEscape,
		Position: pos,
	}
}

// NewKeyToken creates a key placeholder token
func NewKeyToken(key string, pos Position) Token {
	return Token{
		Kind:     TokenKindKey,
		Key:      key,
		Position: pos,
	}
}
