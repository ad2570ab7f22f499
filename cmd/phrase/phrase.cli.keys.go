package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/itsatony/go-phrase"
)

// keysConfig holds parsed keys command configuration
type keysConfig struct {
	source  patternSource
	bracket string
	format  string
}

// keysOutput represents JSON output for keys
type keysOutput struct {
	Bracket string   `json:"bracket"`
	Keys    []string `json:"keys"`
}

func runKeys(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseKeysFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFlags, err)
		return ExitCodeUsageError
	}

	bracket, err := parseBracketFlag(cfg.bracket, phrase.BracketCurly)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidBracket, err)
		return ExitCodeUsageError
	}

	pattern, err := cfg.source.read(stdin)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
		return ExitCodeInputError
	}

	tmpl, err := phrase.From(pattern, phrase.WithBracket(bracket))
	if err != nil {
		reportSyntaxError(err, stderr)
		return ExitCodeValidationError
	}

	if cfg.format == OutputFormatJSON {
		output := keysOutput{Bracket: bracket.String(), Keys: tmpl.Keys()}
		jsonBytes, _ := json.MarshalIndent(output, "", "  ")
		fmt.Fprintln(stdout, string(jsonBytes))
		return ExitCodeSuccess
	}

	for _, key := range tmpl.Keys() {
		fmt.Fprintln(stdout, key)
	}
	return ExitCodeSuccess
}

func parseKeysFlags(args []string) (*keysConfig, error) {
	fs := flag.NewFlagSet(CmdNameKeys, flag.ContinueOnError)
	fs.SetOutput(io.Discard) // Suppress default error messages

	cfg := &keysConfig{}

	fs.StringVar(&cfg.source.pattern, FlagPattern, "", "")
	fs.StringVar(&cfg.source.pattern, FlagPatternShort, "", "")
	fs.StringVar(&cfg.source.templatePath, FlagTemplate, "", "")
	fs.StringVar(&cfg.source.templatePath, FlagTemplateShort, "", "")
	fs.StringVar(&cfg.bracket, FlagBracket, "", "")
	fs.StringVar(&cfg.bracket, FlagBracketShort, "", "")
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if err := cfg.source.validate(); err != nil {
		return nil, err
	}

	return cfg, validateFormat(cfg.format)
}
