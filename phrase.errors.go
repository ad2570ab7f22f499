package phrase

import (
	"errors"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/itsatony/go-cuserr"

	"github.com/itsatony/go-phrase/internal"
)

// Sentinel errors. Every error returned by this package wraps exactly one of
// these, so callers can branch with errors.Is and read the details from the
// *cuserr.CustomError metadata.
var (
	// Syntax errors, returned while parsing a pattern
	ErrUnexpectedCharacter   = errors.New(ErrMsgUnexpectedCharacter)
	ErrMissingClosingBracket = errors.New(ErrMsgMissingClosingBracket)
	ErrEmptyKey              = errors.New(ErrMsgEmptyKey)

	// Usage errors, returned while binding or formatting
	ErrUnknownKey     = errors.New(ErrMsgUnknownKey)
	ErrNullValue      = errors.New(ErrMsgNullValue)
	ErrMissingKeys    = errors.New(ErrMsgMissingKeys)
	ErrNotASequence   = errors.New(ErrMsgNotASequence)
	ErrUnbalancedTags = errors.New(ErrMsgUnbalancedTags)

	// Config errors
	ErrUnknownBracket = errors.New(ErrMsgUnknownBracket)
	ErrInvalidConfig  = errors.New(ErrMsgInvalidConfig)
)

// Position represents a location in the source pattern
type Position = internal.Position

// IsSyntaxError reports whether err is one of the parse-time errors
func IsSyntaxError(err error) bool {
	return errors.Is(err, ErrUnexpectedCharacter) ||
		errors.Is(err, ErrMissingClosingBracket) ||
		errors.Is(err, ErrEmptyKey)
}

// IsUsageError reports whether err is one of the bind/format-time errors
func IsUsageError(err error) bool {
	return errors.Is(err, ErrUnknownKey) ||
		errors.Is(err, ErrNullValue) ||
		errors.Is(err, ErrMissingKeys) ||
		errors.Is(err, ErrNotASequence)
}

// NewSyntaxError converts a lexer failure into a syntax error with position context
func NewSyntaxError(lexErr *internal.LexerError) error {
	var sentinel error
	var msg string
	switch lexErr.Kind {
	case internal.ErrorKindMissingClose:
		sentinel, msg = ErrMissingClosingBracket, ErrMsgMissingClosingBracket
	case internal.ErrorKindEmptyKey:
		sentinel, msg = ErrEmptyKey, ErrMsgEmptyKey
	default:
		sentinel, msg = ErrUnexpectedCharacter, ErrMsgUnexpectedCharacter
	}
	return cuserr.WrapStdError(sentinel, ErrCodeSyntax, msg).
		WithMetadata(MetaKeyLine, strconv.Itoa(lexErr.Position.Line)).
		WithMetadata(MetaKeyColumn, strconv.Itoa(lexErr.Position.Column)).
		WithMetadata(MetaKeyOffset, strconv.Itoa(lexErr.Position.Offset)).
		WithMetadata(MetaKeyChar, describeChar(lexErr.Char))
}

// NewUnknownKeyError creates an error for binding a key the pattern does not declare
func NewUnknownKeyError(key string) error {
	return cuserr.WrapStdError(ErrUnknownKey, ErrCodeUsage, ErrMsgUnknownKey).
		WithMetadata(MetaKeyKey, key)
}

// NewNullValueError creates an error for binding an absent value
func NewNullValueError(key string) error {
	return cuserr.WrapStdError(ErrNullValue, ErrCodeUsage, ErrMsgNullValue).
		WithMetadata(MetaKeyKey, key)
}

// NewNullElementError creates an error for an absent element inside an array binding
func NewNullElementError(key string, index int) error {
	return cuserr.WrapStdError(ErrNullValue, ErrCodeUsage, ErrMsgNullValue).
		WithMetadata(MetaKeyKey, key).
		WithMetadata(MetaKeyIndex, strconv.Itoa(index))
}

// NewMissingKeysError creates an error naming every unbound key, sorted
func NewMissingKeysError(missing []string) error {
	sorted := append([]string(nil), missing...)
	sort.Strings(sorted)
	return cuserr.WrapStdError(ErrMissingKeys, ErrCodeUsage, ErrMsgMissingKeys+": "+strings.Join(sorted, ", ")).
		WithMetadata(MetaKeyMissingKeys, strings.Join(sorted, ","))
}

// NewNotASequenceError creates an error for an array binding with a non-sequence value
func NewNotASequenceError(key string, value any) error {
	typeName := "<nil>"
	if t := reflect.TypeOf(value); t != nil {
		typeName = t.String()
	}
	return cuserr.WrapStdError(ErrNotASequence, ErrCodeUsage, ErrMsgNotASequence).
		WithMetadata(MetaKeyKey, key).
		WithMetadata(MetaKeyType, typeName)
}

// NewUnbalancedTagsError creates an error for a tag whose start and end counts differ
func NewUnbalancedTagsError(tag string, starts, ends int) error {
	return cuserr.WrapStdError(ErrUnbalancedTags, ErrCodeUsage, ErrMsgUnbalancedTags).
		WithMetadata(MetaKeyTag, tag).
		WithMetadata(MetaKeyStartCount, strconv.Itoa(starts)).
		WithMetadata(MetaKeyEndCount, strconv.Itoa(ends))
}

// NewUnknownBracketError creates an error for an unrecognized bracket profile name
func NewUnknownBracketError(name string) error {
	return cuserr.WrapStdError(ErrUnknownBracket, ErrCodeConfig, ErrMsgUnknownBracket).
		WithMetadata(MetaKeyBracket, name)
}

// NewConfigError creates an error for config loading failures
func NewConfigError(msg string, path string, cause error) error {
	return cuserr.WrapStdError(errors.Join(ErrInvalidConfig, cause), ErrCodeConfig, msg).
		WithMetadata(MetaKeyPath, path)
}

// MissingKeys extracts the missing key names from an ErrMissingKeys error
func MissingKeys(err error) []string {
	if !errors.Is(err, ErrMissingKeys) {
		return nil
	}
	var customErr *cuserr.CustomError
	if !errors.As(err, &customErr) {
		return nil
	}
	raw, ok := customErr.GetMetadata(MetaKeyMissingKeys)
	if !ok || raw == "" {
		return nil
	}
	return strings.Split(raw, ",")
}

// SyntaxErrorPosition extracts the line and column of a syntax error.
func SyntaxErrorPosition(err error) (Position, bool) {
	if !IsSyntaxError(err) {
		return Position{}, false
	}
	var customErr *cuserr.CustomError
	if !errors.As(err, &customErr) {
		return Position{}, false
	}
	var pos Position
	for key, dst := range map[string]*int{
		MetaKeyLine:   &pos.Line,
		MetaKeyColumn: &pos.Column,
		MetaKeyOffset: &pos.Offset,
	} {
		raw, ok := customErr.GetMetadata(key)
		if !ok {
			return Position{}, false
		}
		n, convErr := strconv.Atoi(raw)
		if convErr != nil {
			return Position{}, false
		}
		*dst = n
	}
	return pos, true
}

func describeChar(ch rune) string {
	if ch == internal.CharEOF {
		return CharDescEndOfInput
	}
	return string(ch)
}
