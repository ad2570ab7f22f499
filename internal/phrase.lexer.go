package internal

import (
	"strings"

	"go.uber.org/zap"
)

// Delimiters is the open/close rune pair that surrounds keys
type Delimiters struct {
	Open  rune
	Close rune
}

// DefaultDelimiters returns the curly bracket pair
func DefaultDelimiters() Delimiters {
	return Delimiters{Open: '{', Close: '}'}
}

// Lexer scans a pattern once, left to right, with one rune of lookahead.
// It is a hand-written recognizer: each token kind has its own scan method
// that starts at the current rune and consumes exactly its span.
type Lexer struct {
	source []rune
	delims Delimiters
	pos    int // Current rune position
	line   int // Current line (1-indexed)
	column int // Current column (1-indexed)
	keys   []string
	seen   map[string]struct{}
	logger *zap.Logger
}

// NewLexer creates a lexer for the given pattern and delimiter pair
func NewLexer(source []rune, delims Delimiters, logger *zap.Logger) *Lexer {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgLexerCreated, zap.Int(LogFieldSource, len(source)))
	return &Lexer{
		source: source,
		delims: delims,
		line:   1,
		column: 1,
		seen:   make(map[string]struct{}),
		logger: logger,
	}
}

// Tokenize consumes the whole pattern and returns the token chain together
// with the declared keys in order of first appearance.
func (l *Lexer) Tokenize() ([]Token, []string, error) {
	l.logger.Debug(LogMsgTokenizerStart)
	var tokens []Token

	for !l.isAtEnd() {
		if l.peek() != l.delims.Open {
			tokens = append(tokens, l.scanText())
			continue
		}

		next := l.lookahead()
		switch {
		case next == l.delims.Open:
			tokens = append(tokens, l.scanEscape())
		case isKeyStart(next):
			tok, err := l.scanKey()
			if err != nil {
				l.logFailure(err)
				return nil, nil, err
			}
			tokens = append(tokens, tok)
		case next == l.delims.Close:
			// open immediately followed by close: "{}"
			err := l.newError(ErrorKindEmptyKey, next)
			l.logFailure(err)
			return nil, nil, err
		default:
			err := l.newErrorAt(ErrorKindUnexpectedChar, next, l.lookaheadPosition())
			l.logFailure(err)
			return nil, nil, err
		}
	}

	l.logger.Debug(LogMsgTokenizerEnd,
		zap.Int(LogFieldTokens, len(tokens)),
		zap.Int(LogFieldKeys, len(l.keys)))
	return tokens, l.keys, nil
}

// scanText consumes a maximal run up to the next open delimiter or the end
func (l *Lexer) scanText() Token {
	start := l.currentPosition()
	for !l.isAtEnd() && l.peek() != l.delims.Open {
		l.advance()
	}
	return NewTextToken(l.pos-start.Offset, start)
}

// scanEscape consumes two open delimiters
func (l *Lexer) scanEscape() Token {
	pos := l.currentPosition()
	l.advance()
	l.advance()
	return NewEscapeToken(pos)
}

// scanKey parses "{some_key}"
func (l *Lexer) scanKey() (Token, error) {
	pos := l.currentPosition()
	l.advance() // open delimiter

	var sb strings.Builder
	for !l.isAtEnd() && isKeyChar(l.peek()) {
		sb.WriteRune(l.advance())
	}

	if sb.Len() == 0 {
		return Token{}, l.newError(ErrorKindEmptyKey, l.peek())
	}
	if l.isAtEnd() || l.peek() != l.delims.Close {
		return Token{}, l.newError(ErrorKindMissingClose, l.peek())
	}
	l.advance() // close delimiter

	key := sb.String()
	if _, ok := l.seen[key]; !ok {
		l.seen[key] = struct{}{}
		l.keys = append(l.keys, key)
	}
	return NewKeyToken(key, pos), nil
}

// Helper methods

func (l *Lexer) currentPosition() Position {
	return Position{
		Offset: l.pos,
		Line:   l.line,
		Column: l.column,
	}
}

func (l *Lexer) lookaheadPosition() Position {
	pos := l.currentPosition()
	pos.Offset++
	if l.peek() == CharNewline {
		pos.Line++
		pos.Column = 1
	} else {
		pos.Column++
	}
	return pos
}

func (l *Lexer) isAtEnd() bool {
	return l.pos >= len(l.source)
}

func (l *Lexer) peek() rune {
	if l.isAtEnd() {
		return CharEOF
	}
	return l.source[l.pos]
}

// lookahead returns the rune after the current one without advancing
func (l *Lexer) lookahead() rune {
	if l.pos+1 >= len(l.source) {
		return CharEOF
	}
	return l.source[l.pos+1]
}

// advance consumes and returns the current rune. Consuming past the end
// would be a lexer bug, so it is a no-op there.
func (l *Lexer) advance() rune {
	if l.isAtEnd() {
		return CharEOF
	}
	ch := l.source[l.pos]
	l.pos++
	if ch == CharNewline {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	return ch
}

func (l *Lexer) logFailure(err error) {
	l.logger.Debug(LogMsgTokenizerError,
		zap.Int(LogFieldLine, l.line),
		zap.Int(LogFieldColumn, l.column),
		zap.String(LogFieldError, err.Error()))
}

// Character classification helpers

func isKeyStart(ch rune) bool {
	return ch >= 'a' && ch <= 'z'
}

func isKeyChar(ch rune) bool {
	return isKeyStart(ch) || ch == CharUnderscore
}

// Error helpers

func (l *Lexer) newError(kind ErrorKind, ch rune) error {
	return l.newErrorAt(kind, ch, l.currentPosition())
}

func (l *Lexer) newErrorAt(kind ErrorKind, ch rune, pos Position) error {
	return &LexerError{
		Kind:     kind,
		Char:     ch,
		Position: pos,
	}
}

// LexerError represents a syntax error with position.
// Char is the offending rune, or CharEOF at the end of input.
type LexerError struct {
	Kind     ErrorKind
	Char     rune
	Position Position
}

// Message returns the constant message for the error kind
func (e *LexerError) Message() string {
	switch e.Kind {
	case ErrorKindMissingClose:
		return ErrMsgMissingClose
	case ErrorKindEmptyKey:
		return ErrMsgEmptyKey
	default:
		return ErrMsgUnexpectedChar
	}
}

func (e *LexerError) Error() string {
	return e.Message() + " at " + e.Position.String()
}
