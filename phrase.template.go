package phrase

import (
	"errors"
	"sort"

	"go.uber.org/zap"

	"github.com/itsatony/go-phrase/internal"
)

// Template is a parsed pattern together with its bindings.
//
// The token chain is built once, in the constructor, and never changes.
// Bindings may be replaced and Format called again any number of times;
// every successful bind invalidates the formatted cache.
//
// A Template is not safe for concurrent use. Use Clone to get an
// independent instance per goroutine.
type Template struct {
	pattern  []rune
	spans    []Span
	bracket  Bracket
	tokens   []internal.Token
	keys     []string
	declared map[string]struct{}
	values   map[string]string
	cached   *SpannedText
	logger   *zap.Logger
}

// From parses pattern and returns a Template ready for binding.
// A malformed pattern fails here with a syntax error.
func From(pattern string, opts ...Option) (*Template, error) {
	return FromSpanned(Plain(pattern), opts...)
}

// MustFrom is like From but panics on error.
func MustFrom(pattern string, opts ...Option) *Template {
	t, err := From(pattern, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

// FromSpanned parses a pattern carrying formatting spans. Spans outside
// placeholder regions survive formatting and move with the text.
func FromSpanned(pattern SpannedText, opts ...Option) (*Template, error) {
	config := defaultTemplateConfig()
	for _, opt := range opts {
		opt(config)
	}
	logger := config.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	source := []rune(pattern.Text)
	tokens, keys, err := internal.NewLexer(source, config.bracket.delimiters(), logger).Tokenize()
	if err != nil {
		var lexErr *internal.LexerError
		if errors.As(err, &lexErr) {
			err = NewSyntaxError(lexErr)
		}
		logger.Debug(LogMsgTemplateParseFail,
			zap.Int(LogFieldPatternLength, len(source)),
			zap.String(LogFieldBracket, config.bracket.String()),
			zap.Error(err))
		return nil, err
	}

	declared := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		declared[k] = struct{}{}
	}

	logger.Debug(LogMsgTemplateParsed,
		zap.Int(LogFieldPatternLength, len(source)),
		zap.String(LogFieldBracket, config.bracket.String()),
		zap.Int(LogFieldTokens, len(tokens)),
		zap.Strings(LogFieldKeys, keys))

	return &Template{
		pattern:  source,
		spans:    pattern.normalizedSpans(),
		bracket:  config.bracket,
		tokens:   tokens,
		keys:     keys,
		declared: declared,
		values:   make(map[string]string, len(keys)),
		logger:   logger,
	}, nil
}

// Put binds value to key. The value is converted with CanonicalText.
// It fails with ErrUnknownKey when the pattern does not declare key and
// with ErrNullValue when value is absent.
func (t *Template) Put(key string, value any) error {
	if !t.HasKey(key) {
		return NewUnknownKeyError(key)
	}
	text, err := canonicalText(value)
	if err != nil {
		return NewNullValueError(key)
	}
	t.bind(key, text)
	return nil
}

// PutOptional is like Put but does nothing when the pattern does not
// declare key.
func (t *Template) PutOptional(key string, value any) error {
	if !t.HasKey(key) {
		t.logger.Debug(LogMsgOptionalSkipped, zap.String(LogFieldKey, key))
		return nil
	}
	return t.Put(key, value)
}

// PutArray converts every element of values (a slice or array) and binds
// key to the elements joined with separator. An empty separator means
// DefaultSeparator. An empty or nil slice binds the empty string.
func (t *Template) PutArray(key string, values any, separator string) error {
	if !t.HasKey(key) {
		return NewUnknownKeyError(key)
	}
	if values == nil {
		return NewNullValueError(key)
	}
	text, index, err := joinValues(values, separator)
	if err != nil {
		if errors.Is(err, ErrNotASequence) {
			return NewNotASequenceError(key, values)
		}
		return NewNullElementError(key, index)
	}
	t.bind(key, text)
	return nil
}

// PutSlice is the typed form of PutArray.
func PutSlice[T any](t *Template, key string, values []T, separator string) error {
	return t.PutArray(key, values, separator)
}

// PutValues binds every entry of values, in key order. Slices and arrays
// (other than []byte) go through PutArray with separator, everything else
// through Put. It stops at the first error.
func (t *Template) PutValues(values map[string]any, separator string) error {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		v := values[k]
		var err error
		if isSequence(v) {
			err = t.PutArray(k, v, separator)
		} else {
			err = t.Put(k, v)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (t *Template) bind(key, text string) {
	t.values[key] = text
	t.cached = nil
	t.logger.Debug(LogMsgValueBound, zap.String(LogFieldKey, key))
}

// Format substitutes every placeholder and returns the text. It fails with
// ErrMissingKeys, naming every unbound key, when any declared key has no
// value. The result is cached until the next bind.
func (t *Template) Format() (string, error) {
	out, err := t.FormatSpanned()
	if err != nil {
		return "", err
	}
	return out.Text, nil
}

// FormatSpanned is like Format but also returns the pattern's formatting
// spans moved to their positions in the output.
func (t *Template) FormatSpanned() (SpannedText, error) {
	if t.cached != nil {
		t.logger.Debug(LogMsgFormatCacheHit)
		return t.cached.clone(), nil
	}

	if missing := t.Unbound(); len(missing) > 0 {
		t.logger.Debug(LogMsgFormatMissingKeys, zap.Strings(LogFieldMissing, missing))
		return SpannedText{}, NewMissingKeysError(missing)
	}

	buf := internal.NewBuffer(t.pattern, t.spans)
	internal.NewFormatter(t.bracket.delimiters(), t.logger).Expand(buf, t.tokens, t.values)

	out := &SpannedText{Text: buf.String(), Spans: buf.Spans()}
	t.cached = out
	t.logger.Debug(LogMsgFormatted, zap.Int(LogFieldOutputLength, buf.Len()))
	return out.clone(), nil
}

// Unbound returns the declared keys that have no value yet, in order of
// first appearance.
func (t *Template) Unbound() []string {
	var missing []string
	for _, k := range t.keys {
		if _, ok := t.values[k]; !ok {
			missing = append(missing, k)
		}
	}
	return missing
}

// Value returns the text bound to key.
func (t *Template) Value(key string) (string, bool) {
	v, ok := t.values[key]
	return v, ok
}

// Pattern returns the original, unexpanded pattern. It never formats.
func (t *Template) Pattern() string {
	return string(t.pattern)
}

// String returns the original pattern.
func (t *Template) String() string {
	return t.Pattern()
}

// Keys returns the declared keys in order of first appearance.
func (t *Template) Keys() []string {
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

// HasKey reports whether the pattern declares key.
func (t *Template) HasKey(key string) bool {
	_, ok := t.declared[key]
	return ok
}

// Bracket returns the template's bracket profile.
func (t *Template) Bracket() Bracket {
	return t.bracket
}

// Clone returns an independent template sharing the parsed token chain.
// Current bindings are copied; the formatted cache is not.
func (t *Template) Clone() *Template {
	values := make(map[string]string, len(t.values))
	for k, v := range t.values {
		values[k] = v
	}
	return &Template{
		pattern:  t.pattern,
		spans:    t.spans,
		bracket:  t.bracket,
		tokens:   t.tokens,
		keys:     t.keys,
		declared: t.declared,
		values:   values,
		logger:   t.logger,
	}
}

func (s SpannedText) clone() SpannedText {
	out := SpannedText{Text: s.Text}
	if len(s.Spans) > 0 {
		out.Spans = make([]Span, len(s.Spans))
		copy(out.Spans, s.Spans)
	}
	return out
}
