package phrase

// Defaults
const (
	// DefaultSeparator joins array values when no separator is given
	DefaultSeparator = " "
)

// Error code constants for categorization
const (
	ErrCodeSyntax  = "PHRASE_SYNTAX"
	ErrCodeUsage   = "PHRASE_USAGE"
	ErrCodeStorage = "PHRASE_STORAGE"
	ErrCodeConfig  = "PHRASE_CONFIG"
)

// Error message constants - ALL error messages must be constants
const (
	// Syntax errors
	ErrMsgUnexpectedCharacter   = "unexpected character after open bracket; expected key"
	ErrMsgMissingClosingBracket = "missing closing bracket"
	ErrMsgEmptyKey              = "empty key"

	// Usage errors
	ErrMsgUnknownKey     = "unknown key"
	ErrMsgNullValue      = "null value"
	ErrMsgMissingKeys    = "missing keys"
	ErrMsgNotASequence   = "value is not a slice or array"
	ErrMsgUnbalancedTags = "start and end tag counts differ"

	// Config errors
	ErrMsgInvalidConfig  = "invalid config"
	ErrMsgUnknownBracket = "unknown bracket profile"
	ErrMsgConfigRead     = "failed to read config file"
	ErrMsgConfigParse    = "failed to parse config file"
	ErrMsgLogLevel       = "invalid log level"

	// Markup errors
	ErrMsgMarkupParse = "failed to parse markup"
)

// Metadata keys for cuserr.WithMetadata
const (
	MetaKeyLine        = "line"
	MetaKeyColumn      = "column"
	MetaKeyOffset      = "offset"
	MetaKeyChar        = "char"
	MetaKeyKey         = "key"
	MetaKeyMissingKeys = "missing_keys"
	MetaKeyIndex       = "index"
	MetaKeyType        = "type"
	MetaKeyBracket     = "bracket"
	MetaKeyTag         = "tag"
	MetaKeyStartCount  = "start_count"
	MetaKeyEndCount    = "end_count"
	MetaKeyPath        = "path"
	MetaKeyValue       = "value"
	MetaKeyName        = "name"
)

// Character descriptions used in error metadata
const (
	CharDescEndOfInput = "end of input"
)

// Log message constants
const (
	LogMsgTemplateParsed    = "template parsed"
	LogMsgTemplateParseFail = "template parse failed"
	LogMsgValueBound        = "value bound"
	LogMsgOptionalSkipped   = "optional key not declared; skipped"
	LogMsgFormatCacheHit    = "format cache hit"
	LogMsgFormatted         = "template formatted"
	LogMsgFormatMissingKeys = "format failed; missing keys"
	LogMsgTagUnbalanced     = "tag counts differ"
	LogMsgTagFound          = "tag content found"
)

// Log field names
const (
	LogFieldPatternLength = "pattern_length"
	LogFieldBracket       = "bracket"
	LogFieldTokens        = "token_count"
	LogFieldKeys          = "keys"
	LogFieldKey           = "key"
	LogFieldOutputLength  = "output_length"
	LogFieldMissing       = "missing"
	LogFieldError         = "error"
	LogFieldTag           = "tag"
	LogFieldMatches       = "match_count"
	LogFieldProfile       = "profile"
)
