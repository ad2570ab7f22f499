package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"

	"github.com/itsatony/go-phrase"
)

// validateConfig holds parsed validate command configuration
type validateConfig struct {
	source  patternSource
	bracket string
	format  string
}

// validationOutput represents JSON output for validation
type validationOutput struct {
	Valid bool                   `json:"valid"`
	Keys  []string               `json:"keys,omitempty"`
	Error *validationErrorOutput `json:"error,omitempty"`
}

type validationErrorOutput struct {
	Message string `json:"message"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Offset  int    `json:"offset"`
}

func runValidate(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseValidateFlags(args)
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

	output := validationOutput{Valid: true}
	tmpl, err := phrase.From(pattern, phrase.WithBracket(bracket))
	if err != nil {
		pos, ok := phrase.SyntaxErrorPosition(err)
		if !ok {
			fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgParsePatternFailed, err)
			return ExitCodeError
		}
		output.Valid = false
		output.Error = &validationErrorOutput{
			Message: err.Error(),
			Line:    pos.Line,
			Column:  pos.Column,
			Offset:  pos.Offset,
		}
	} else {
		output.Keys = tmpl.Keys()
	}

	if cfg.format == OutputFormatJSON {
		jsonBytes, _ := json.MarshalIndent(output, "", "  ")
		fmt.Fprintln(stdout, string(jsonBytes))
	} else if output.Valid {
		fmt.Fprintln(stdout, ValidationTextSuccess)
	} else {
		fmt.Fprintf(stdout, ValidationTextFailure+FmtNewline,
			output.Error.Message, output.Error.Line, output.Error.Column)
	}

	if !output.Valid {
		return ExitCodeValidationError
	}
	return ExitCodeSuccess
}

func parseValidateFlags(args []string) (*validateConfig, error) {
	fs := flag.NewFlagSet(CmdNameValidate, flag.ContinueOnError)
	fs.SetOutput(io.Discard) // Suppress default error messages

	cfg := &validateConfig{}

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
