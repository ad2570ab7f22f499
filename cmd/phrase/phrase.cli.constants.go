package main

// Command names
const (
	CmdNameRender   = "render"
	CmdNameKeys     = "keys"
	CmdNameValidate = "validate"
	CmdNameExtract  = "extract"
	CmdNameCatalog  = "catalog"
	CmdNameVersion  = "version"
	CmdNameHelp     = "help"
)

// Catalog subcommand names
const (
	CatalogCmdSave   = "save"
	CatalogCmdGet    = "get"
	CatalogCmdList   = "list"
	CatalogCmdDelete = "delete"
)

// Flag names - long form
const (
	FlagPattern     = "pattern"
	FlagTemplate    = "template"
	FlagName        = "name"
	FlagConfig      = "config"
	FlagSet         = "set"
	FlagDataFile    = "data-file"
	FlagSeparator   = "sep"
	FlagBracket     = "bracket"
	FlagHTML        = "html"
	FlagOutput      = "output"
	FlagInteractive = "interactive"
	FlagFormat      = "format"
	FlagStart       = "start"
	FlagEnd         = "end"
	FlagDescription = "description"
	FlagTag         = "tag"
	FlagPrefix      = "prefix"
	FlagLimit       = "limit"
	FlagOffset      = "offset"
)

// Flag names - short form
const (
	FlagPatternShort     = "p"
	FlagTemplateShort    = "t"
	FlagNameShort        = "n"
	FlagConfigShort      = "c"
	FlagSetShort         = "s"
	FlagDataFileShort    = "f"
	FlagBracketShort     = "b"
	FlagOutputShort      = "o"
	FlagInteractiveShort = "i"
	FlagFormatShort      = "F"
)

// Flag default values
const (
	FlagDefaultOutput    = "-" // stdout
	FlagDefaultFormat    = "text"
	FlagDefaultTagName   = "tag"
	FlagDefaultSeparator = " "
)

// Output formats
const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
)

// Exit codes
const (
	ExitCodeSuccess         = 0
	ExitCodeError           = 1
	ExitCodeUsageError      = 2
	ExitCodeValidationError = 3
	ExitCodeInputError      = 4
)

// Input source indicators
const (
	InputSourceStdin = "-"
)

// Separator between key and value in --set
const (
	SetSeparator = "="
)

// Error messages - ALL must be constants
const (
	ErrMsgUnknownCommand     = "unknown command"
	ErrMsgUnknownSubcommand  = "unknown catalog command"
	ErrMsgInvalidFlags       = "invalid arguments"
	ErrMsgMissingPattern     = "pattern source required (-p, -t or -n)"
	ErrMsgTooManySources     = "only one of -p, -t and -n may be given"
	ErrMsgMissingName        = "phrase name required"
	ErrMsgMissingMarkers     = "start and end markers required"
	ErrMsgInvalidSet         = "invalid --set value, expected key=value"
	ErrMsgInvalidData        = "invalid data file"
	ErrMsgReadFileFailed     = "failed to read file"
	ErrMsgWriteOutputFailed  = "failed to write output"
	ErrMsgParsePatternFailed = "pattern parsing failed"
	ErrMsgMarkupFailed       = "markup parsing failed"
	ErrMsgBindFailed         = "binding value failed"
	ErrMsgFormatFailed       = "formatting failed"
	ErrMsgPromptFailed       = "prompt failed"
	ErrMsgInvalidFormat      = "invalid output format"
	ErrMsgInvalidBracket     = "invalid bracket"
	ErrMsgConfigFailed       = "failed to load config"
	ErrMsgStorageFailed      = "failed to open storage"
	ErrMsgCatalogFailed      = "catalog operation failed"
	ErrMsgExtractFailed      = "tag extraction failed"
	ErrMsgPromptAborted      = "prompt aborted"
)

// Help text templates
const (
	HelpMainUsage = `go-phrase - Phrase templating CLI

Usage:
    phrase <command> [options]

Commands:
    render      Format a pattern with values
    keys        List the keys a pattern declares
    validate    Check a pattern for syntax errors
    extract     Print the text between tag markers
    catalog     Save, get, list and delete stored phrases
    version     Show version information
    help        Show help for a command

Use "phrase help <command>" for more information about a command.`

	HelpRenderUsage = `Format a pattern with values

Usage:
    phrase render [options]

Options:
    -p, --pattern <text>      Pattern text
    -t, --template <file>     Pattern file (use "-" for stdin)
    -n, --name <name>         Stored phrase name (uses --config storage)
    -c, --config <file>       Config file (default: phrase.yaml)
    -s, --set <key=value>     Bind a value (repeatable)
    -f, --data-file <file>    YAML or JSON data file
    --sep <text>              Separator for list values (default: " ")
    -b, --bracket <name>      Bracket profile: curly, square, round, angle
    --html                    Treat the pattern as inline HTML markup
    -i, --interactive         Prompt for every unbound key
    -o, --output <file>       Output file (default: stdout)

Examples:
    phrase render -p 'Hello {name}' -s name=Ann
    phrase render -t welcome.txt -f data.yaml
    phrase render -p '<b>{count}</b> new' --html -s count=3
    phrase render -n welcome -c phrase.yaml -i`

	HelpKeysUsage = `List the keys a pattern declares, in order of first appearance

Usage:
    phrase keys [options]

Options:
    -p, --pattern <text>      Pattern text
    -t, --template <file>     Pattern file (use "-" for stdin)
    -b, --bracket <name>      Bracket profile (default: curly)
    -F, --format <format>     Output format: text, json (default: text)`

	HelpValidateUsage = `Check a pattern for syntax errors

Usage:
    phrase validate [options]

Options:
    -p, --pattern <text>      Pattern text
    -t, --template <file>     Pattern file (use "-" for stdin)
    -b, --bracket <name>      Bracket profile (default: curly)
    -F, --format <format>     Output format: text, json (default: text)

Examples:
    phrase validate -t welcome.txt
    cat welcome.txt | phrase validate -t - -F json`

	HelpExtractUsage = `Print the text between tag markers

Usage:
    phrase extract [options]

Options:
    -t, --template <file>     Input file (use "-" for stdin)
    --start <marker>          Start marker, e.g. "<name>"
    --end <marker>            End marker, e.g. "</name>"
    -n, --name <name>         Tag name used in JSON output (default: tag)
    -F, --format <format>     Output format: text, json (default: text)

Examples:
    phrase extract -t page.html --start '<title>' --end '</title>'`

	HelpCatalogUsage = `Save, get, list and delete stored phrases

Usage:
    phrase catalog <save|get|list|delete> [options]

Options:
    -c, --config <file>       Config file (default: phrase.yaml)
    -n, --name <name>         Phrase name (save, get, delete)
    -p, --pattern <text>      Pattern text (save)
    -t, --template <file>     Pattern file (save)
    -b, --bracket <name>      Bracket profile (save)
    --description <text>      Description (save)
    --tag <tag>               Tag (save: repeatable, list: filter)
    --prefix <text>           Name prefix filter (list)
    --limit <n>               Maximum results (list)
    --offset <n>              Results to skip (list)
    -F, --format <format>     Output format: text, json (get, list)

Examples:
    phrase catalog save -n welcome -p 'Hello {name}' --tag mail
    phrase catalog list --tag mail -F json`

	HelpVersionUsage = `Show version information

Usage:
    phrase version [options]

Options:
    -F, --format <format>   Output format: text, json (default: text)`

	HelpHelpUsage = `Show help for a command

Usage:
    phrase help [command]

Commands:
    render      Show help for render command
    keys        Show help for keys command
    validate    Show help for validate command
    extract     Show help for extract command
    catalog     Show help for catalog command
    version     Show help for version command`
)

// Version output format templates
const (
	VersionTextTemplate = "go-phrase version %s\nCommit: %s\nBranch: %s\nBuilt: %s\nGo: %s"
	VersionUnknown      = "unknown"
)

// Validation output format templates
const (
	ValidationTextSuccess = "Pattern is valid"
	ValidationTextFailure = "Syntax error: %s at line %d, column %d"
)

// Catalog output format templates
const (
	CatalogTextSaved   = "saved %s (%s)"
	CatalogTextDeleted = "deleted %s"
	CatalogTextRow     = "%s\t%s\t%s"
)

// Prompt texts
const (
	PromptMessageFormat = "Value for %s:"
	PromptHelpFormat    = "Bound to every {%s} placeholder"
)

// CLI metadata
const (
	CLIName        = "phrase"
	CLIDescription = "Phrase templating CLI"
)

// File permission constant
const (
	FilePermissions = 0644
)

// Format string constants
const (
	FmtErrorWithDetail = "%s: %s\n"
	FmtErrorWithCause  = "%s: %v\n"
	FmtNewline         = "\n"
)
