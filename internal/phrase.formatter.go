package internal

import (
	"go.uber.org/zap"
)

// Expansion records where a token landed in the output: its resolved start
// offset and its effective (post-substitution) length.
type Expansion struct {
	Start  int
	Length int
}

// Formatter expands a token chain into a buffer
type Formatter struct {
	delims Delimiters
	logger *zap.Logger
}

// NewFormatter creates a formatter for the given delimiter pair
func NewFormatter(delims Delimiters, logger *zap.Logger) *Formatter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Formatter{
		delims: delims,
		logger: logger,
	}
}

// Expand rewrites buf in place, visiting tokens strictly in chain order.
//
// The buffer must start as a copy of the pattern the tokens were lexed from.
// Each token's start offset is the running sum of the effective lengths of
// every token before it, so it is resolved only after all predecessors have
// been substituted. values must hold a value for every key token; callers
// check that before expanding.
func (f *Formatter) Expand(buf *Buffer, tokens []Token, values map[string]string) []Expansion {
	f.logger.Debug(LogMsgExpandStart, zap.Int(LogFieldTokens, len(tokens)))

	expansions := make([]Expansion, len(tokens))
	offset := 0
	for i, tok := range tokens {
		length := tok.SourceLength()
		switch tok.Kind {
		case TokenKindEscape:
			buf.Replace(offset, offset+LenEscape, []rune{f.delims.Open})
			length = LenEscapeOutput
		case TokenKindKey:
			value := []rune(values[tok.Key])
			buf.Replace(offset, offset+tok.SourceLength(), value)
			length = len(value)
		}
		// text runs are already in place
		expansions[i] = Expansion{Start: offset, Length: length}
		offset += length
	}

	f.logger.Debug(LogMsgExpandEnd, zap.Int(LogFieldOutput, buf.Len()))
	return expansions
}
