package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/itsatony/go-phrase"
)

// extractConfig holds parsed extract command configuration
type extractConfig struct {
	inputPath string
	start     string
	end       string
	name      string
	format    string
}

func runExtract(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := parseExtractFlags(args)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFlags, err)
		return ExitCodeUsageError
	}

	input, err := readInput(cfg.inputPath, stdin)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
		return ExitCodeInputError
	}

	tag := phrase.Tag{Name: cfg.name, Start: cfg.start, End: cfg.end}
	results, err := phrase.FindTags(string(input), tag)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgExtractFailed, err)
		if errors.Is(err, phrase.ErrUnbalancedTags) {
			return ExitCodeValidationError
		}
		return ExitCodeError
	}

	if cfg.format == OutputFormatJSON {
		jsonBytes, _ := json.MarshalIndent(results, "", "  ")
		fmt.Fprintln(stdout, string(jsonBytes))
		return ExitCodeSuccess
	}

	for _, result := range results {
		for _, match := range result.Matches {
			fmt.Fprintln(stdout, match)
		}
	}
	return ExitCodeSuccess
}

func parseExtractFlags(args []string) (*extractConfig, error) {
	fs := flag.NewFlagSet(CmdNameExtract, flag.ContinueOnError)
	fs.SetOutput(io.Discard) // Suppress default error messages

	cfg := &extractConfig{}

	fs.StringVar(&cfg.inputPath, FlagTemplate, InputSourceStdin, "")
	fs.StringVar(&cfg.inputPath, FlagTemplateShort, InputSourceStdin, "")
	fs.StringVar(&cfg.start, FlagStart, "", "")
	fs.StringVar(&cfg.end, FlagEnd, "", "")
	fs.StringVar(&cfg.name, FlagName, FlagDefaultTagName, "")
	fs.StringVar(&cfg.name, FlagNameShort, FlagDefaultTagName, "")
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if cfg.start == "" || cfg.end == "" {
		return nil, errors.New(ErrMsgMissingMarkers)
	}

	return cfg, validateFormat(cfg.format)
}
