package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/itsatony/go-phrase"
)

// renderConfig holds parsed render command configuration
type renderConfig struct {
	source       patternSource
	configPath   string
	sets         multiFlag
	dataFilePath string
	separator    string
	bracket      string
	html         bool
	interactive  bool
	outputPath   string
}

func runRender(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseRenderFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFlags, err)
		return ExitCodeUsageError
	}
	ctx := context.Background()

	config, err := loadConfig(cfg.configPath)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgConfigFailed, err)
		return ExitCodeInputError
	}

	bracket, err := parseBracketFlag(cfg.bracket, config.Bracket)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidBracket, err)
		return ExitCodeUsageError
	}

	// Resolve the pattern text
	var pattern string
	if cfg.source.name != "" {
		stored, code := fetchStored(ctx, config, cfg.source.name, stderr)
		if code != ExitCodeSuccess {
			return code
		}
		pattern = stored.Pattern
		if cfg.bracket == "" {
			bracket = stored.Bracket
		}
	} else {
		pattern, err = cfg.source.read(stdin)
		if err != nil {
			fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
			return ExitCodeInputError
		}
	}

	logger, err := config.NewLogger()
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgConfigFailed, err)
		return ExitCodeInputError
	}
	opts := append(config.TemplateOptions(logger), phrase.WithBracket(bracket))

	tmpl, code := buildTemplate(pattern, cfg.html, opts, stderr)
	if code != ExitCodeSuccess {
		return code
	}

	// Bind values
	values, err := loadValues(cfg.dataFilePath, cfg.sets)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidData, err)
		return ExitCodeInputError
	}
	if err := tmpl.PutValues(declaredValues(tmpl, values), cfg.separator); err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgBindFailed, err)
		return ExitCodeError
	}

	if cfg.interactive {
		bind := func(key, value string) error { return tmpl.Put(key, value) }
		if err := promptUnbound(ctx, newPrompter(), tmpl.Unbound(), bind); err != nil {
			fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgPromptFailed, err)
			return ExitCodeError
		}
	}

	// Format
	var result string
	if cfg.html {
		result, err = tmpl.FormatHTML()
	} else {
		result, err = tmpl.Format()
	}
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgFormatFailed, err)
		if errors.Is(err, phrase.ErrMissingKeys) {
			return ExitCodeValidationError
		}
		return ExitCodeError
	}

	if err := writeOutput(cfg.outputPath, []byte(result), stdout); err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgWriteOutputFailed, err)
		return ExitCodeError
	}

	return ExitCodeSuccess
}

func parseRenderFlags(args []string) (*renderConfig, error) {
	fs := flag.NewFlagSet(CmdNameRender, flag.ContinueOnError)
	fs.SetOutput(io.Discard) // Suppress default error messages

	cfg := &renderConfig{}

	fs.StringVar(&cfg.source.pattern, FlagPattern, "", "")
	fs.StringVar(&cfg.source.pattern, FlagPatternShort, "", "")
	fs.StringVar(&cfg.source.templatePath, FlagTemplate, "", "")
	fs.StringVar(&cfg.source.templatePath, FlagTemplateShort, "", "")
	fs.StringVar(&cfg.source.name, FlagName, "", "")
	fs.StringVar(&cfg.source.name, FlagNameShort, "", "")
	fs.StringVar(&cfg.configPath, FlagConfig, "", "")
	fs.StringVar(&cfg.configPath, FlagConfigShort, "", "")
	fs.Var(&cfg.sets, FlagSet, "")
	fs.Var(&cfg.sets, FlagSetShort, "")
	fs.StringVar(&cfg.dataFilePath, FlagDataFile, "", "")
	fs.StringVar(&cfg.dataFilePath, FlagDataFileShort, "", "")
	fs.StringVar(&cfg.separator, FlagSeparator, FlagDefaultSeparator, "")
	fs.StringVar(&cfg.bracket, FlagBracket, "", "")
	fs.StringVar(&cfg.bracket, FlagBracketShort, "", "")
	fs.BoolVar(&cfg.html, FlagHTML, false, "")
	fs.BoolVar(&cfg.interactive, FlagInteractive, false, "")
	fs.BoolVar(&cfg.interactive, FlagInteractiveShort, false, "")
	fs.StringVar(&cfg.outputPath, FlagOutput, FlagDefaultOutput, "")
	fs.StringVar(&cfg.outputPath, FlagOutputShort, FlagDefaultOutput, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if err := cfg.source.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// buildTemplate parses pattern, as inline markup when html is set
func buildTemplate(pattern string, html bool, opts []phrase.Option, stderr io.Writer) (*phrase.Template, int) {
	if !html {
		tmpl, err := phrase.From(pattern, opts...)
		if err != nil {
			reportSyntaxError(err, stderr)
			return nil, ExitCodeValidationError
		}
		return tmpl, ExitCodeSuccess
	}

	markup, err := phrase.ParseMarkup(pattern)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgMarkupFailed, err)
		return nil, ExitCodeInputError
	}
	tmpl, err := phrase.FromSpanned(markup, opts...)
	if err != nil {
		reportSyntaxError(err, stderr)
		return nil, ExitCodeValidationError
	}
	return tmpl, ExitCodeSuccess
}

// fetchStored loads a phrase from the configured storage
func fetchStored(ctx context.Context, config *phrase.Config, name string, stderr io.Writer) (*phrase.StoredPhrase, int) {
	catalog, err := openCatalog(config)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgStorageFailed, err)
		return nil, ExitCodeInputError
	}
	defer catalog.Close()

	stored, err := catalog.Get(ctx, name)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgCatalogFailed, err)
		return nil, ExitCodeInputError
	}
	return stored, ExitCodeSuccess
}

func reportSyntaxError(err error, stderr io.Writer) {
	if pos, ok := phrase.SyntaxErrorPosition(err); ok {
		fmt.Fprintf(stderr, ValidationTextFailure+FmtNewline, err, pos.Line, pos.Column)
		return
	}
	fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgParsePatternFailed, err)
}
