package internal

// TokenKind identifies the shape of a token in the chain
type TokenKind int

// Token kind constants
const (
	TokenKindText TokenKind = iota
	TokenKindEscape
	TokenKindKey
)

// Token kind string names for debugging
const (
	TokenKindNameText   = "TEXT"
	TokenKindNameEscape = "ESCAPE"
	TokenKindNameKey    = "KEY"
)

// String returns the string representation of the token kind
func (k TokenKind) String() string {
	switch k {
	case TokenKindText:
		return TokenKindNameText
	case TokenKindEscape:
		return TokenKindNameEscape
	case TokenKindKey:
		return TokenKindNameKey
	default:
		return TokenKindNameText
	}
}

// ErrorKind classifies lexer failures
type ErrorKind int

// Lexer error kinds
const (
	ErrorKindUnexpectedChar ErrorKind = iota
	ErrorKindMissingClose
	ErrorKindEmptyKey
)

// Character constants
const (
	CharEOF        = rune(0)
	CharNewline    = '\n'
	CharUnderscore = '_'
)

// Source spans of the fixed-width tokens
const (
	LenEscape       = 2 // two open delimiters
	LenEscapeOutput = 1 // collapses to one
	LenKeyBrackets  = 2 // open + close around a key
)

// Log message constants
const (
	LogMsgLexerCreated   = "lexer created"
	LogMsgTokenizerStart = "starting tokenization"
	LogMsgTokenizerEnd   = "tokenization complete"
	LogMsgTokenizerError = "tokenization failed"
	LogMsgExpandStart    = "starting expansion"
	LogMsgExpandEnd      = "expansion complete"
)

// Log field names
const (
	LogFieldSource = "source_length"
	LogFieldTokens = "token_count"
	LogFieldKeys   = "key_count"
	LogFieldOutput = "output_length"
	LogFieldLine   = "line"
	LogFieldColumn = "column"
	LogFieldError  = "error"
)

// Error message constants for lexer
const (
	ErrMsgUnexpectedChar = "unexpected character after open bracket; expected key"
	ErrMsgMissingClose   = "missing closing bracket"
	ErrMsgEmptyKey       = "empty key"
)
