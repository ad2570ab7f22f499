package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/itsatony/go-phrase"
)

// catalogConfig holds parsed catalog command configuration
type catalogConfig struct {
	command     string
	configPath  string
	source      patternSource
	bracket     string
	description string
	tags        multiFlag
	prefix      string
	limit       int
	offset      int
	format      string
}

func runCatalog(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprintln(stdout, HelpCatalogUsage)
		return ExitCodeUsageError
	}

	cfg, err := parseCatalogFlags(args[0], args[1:])
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidFlags, err)
		return ExitCodeUsageError
	}

	config, err := loadConfig(cfg.configPath)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgConfigFailed, err)
		return ExitCodeInputError
	}

	catalog, err := openCatalog(config)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgStorageFailed, err)
		return ExitCodeInputError
	}
	defer catalog.Close()

	ctx := context.Background()
	switch cfg.command {
	case CatalogCmdSave:
		return catalogSave(ctx, catalog, cfg, config.Bracket, stdin, stdout, stderr)
	case CatalogCmdGet:
		return catalogGet(ctx, catalog, cfg, stdout, stderr)
	case CatalogCmdList:
		return catalogList(ctx, catalog, cfg, stdout, stderr)
	default:
		return catalogDelete(ctx, catalog, cfg, stdout, stderr)
	}
}

func parseCatalogFlags(command string, args []string) (*catalogConfig, error) {
	switch command {
	case CatalogCmdSave, CatalogCmdGet, CatalogCmdList, CatalogCmdDelete:
	default:
		return nil, fmt.Errorf("%s %q", ErrMsgUnknownSubcommand, command)
	}

	fs := flag.NewFlagSet(CmdNameCatalog+" "+command, flag.ContinueOnError)
	fs.SetOutput(io.Discard) // Suppress default error messages

	cfg := &catalogConfig{command: command}

	fs.StringVar(&cfg.configPath, FlagConfig, "", "")
	fs.StringVar(&cfg.configPath, FlagConfigShort, "", "")
	fs.StringVar(&cfg.source.name, FlagName, "", "")
	fs.StringVar(&cfg.source.name, FlagNameShort, "", "")
	fs.StringVar(&cfg.source.pattern, FlagPattern, "", "")
	fs.StringVar(&cfg.source.pattern, FlagPatternShort, "", "")
	fs.StringVar(&cfg.source.templatePath, FlagTemplate, "", "")
	fs.StringVar(&cfg.source.templatePath, FlagTemplateShort, "", "")
	fs.StringVar(&cfg.bracket, FlagBracket, "", "")
	fs.StringVar(&cfg.bracket, FlagBracketShort, "", "")
	fs.StringVar(&cfg.description, FlagDescription, "", "")
	fs.Var(&cfg.tags, FlagTag, "")
	fs.StringVar(&cfg.prefix, FlagPrefix, "", "")
	fs.IntVar(&cfg.limit, FlagLimit, 0, "")
	fs.IntVar(&cfg.offset, FlagOffset, 0, "")
	fs.StringVar(&cfg.format, FlagFormat, FlagDefaultFormat, "")
	fs.StringVar(&cfg.format, FlagFormatShort, FlagDefaultFormat, "")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if command != CatalogCmdList && cfg.source.name == "" {
		return nil, errors.New(ErrMsgMissingName)
	}
	if command == CatalogCmdSave {
		if cfg.source.pattern == "" && cfg.source.templatePath == "" {
			return nil, errors.New(ErrMsgMissingPattern)
		}
		if cfg.source.pattern != "" && cfg.source.templatePath != "" {
			return nil, errors.New(ErrMsgTooManySources)
		}
	}

	return cfg, validateFormat(cfg.format)
}

func catalogSave(ctx context.Context, catalog *phrase.Catalog, cfg *catalogConfig, fallback phrase.Bracket, stdin io.Reader, stdout, stderr io.Writer) int {
	bracket, err := parseBracketFlag(cfg.bracket, fallback)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgInvalidBracket, err)
		return ExitCodeUsageError
	}

	source := patternSource{pattern: cfg.source.pattern, templatePath: cfg.source.templatePath}
	pattern, err := source.read(stdin)
	if err != nil {
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgReadFileFailed, err)
		return ExitCodeInputError
	}

	stored, err := catalog.Save(ctx, cfg.source.name, pattern, bracket, cfg.description, cfg.tags...)
	if err != nil {
		if phrase.IsSyntaxError(err) {
			reportSyntaxError(err, stderr)
			return ExitCodeValidationError
		}
		fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgCatalogFailed, err)
		return ExitCodeError
	}

	fmt.Fprintf(stdout, CatalogTextSaved+FmtNewline, stored.Name, stored.ID)
	return ExitCodeSuccess
}

func catalogGet(ctx context.Context, catalog *phrase.Catalog, cfg *catalogConfig, stdout, stderr io.Writer) int {
	stored, err := catalog.Get(ctx, cfg.source.name)
	if err != nil {
		return reportCatalogError(err, stderr)
	}

	if cfg.format == OutputFormatJSON {
		jsonBytes, _ := json.MarshalIndent(stored, "", "  ")
		fmt.Fprintln(stdout, string(jsonBytes))
		return ExitCodeSuccess
	}
	fmt.Fprintln(stdout, stored.Pattern)
	return ExitCodeSuccess
}

func catalogList(ctx context.Context, catalog *phrase.Catalog, cfg *catalogConfig, stdout, stderr io.Writer) int {
	query := &phrase.PhraseQuery{
		NamePrefix: cfg.prefix,
		Limit:      cfg.limit,
		Offset:     cfg.offset,
	}
	if len(cfg.tags) > 0 {
		query.Tag = cfg.tags[0]
	}

	phrases, err := catalog.List(ctx, query)
	if err != nil {
		return reportCatalogError(err, stderr)
	}

	if cfg.format == OutputFormatJSON {
		if phrases == nil {
			phrases = []*phrase.StoredPhrase{}
		}
		jsonBytes, _ := json.MarshalIndent(phrases, "", "  ")
		fmt.Fprintln(stdout, string(jsonBytes))
		return ExitCodeSuccess
	}
	for _, p := range phrases {
		fmt.Fprintf(stdout, CatalogTextRow+FmtNewline, p.Name, p.Bracket, p.Pattern)
	}
	return ExitCodeSuccess
}

func catalogDelete(ctx context.Context, catalog *phrase.Catalog, cfg *catalogConfig, stdout, stderr io.Writer) int {
	if err := catalog.Delete(ctx, cfg.source.name); err != nil {
		return reportCatalogError(err, stderr)
	}
	fmt.Fprintf(stdout, CatalogTextDeleted+FmtNewline, cfg.source.name)
	return ExitCodeSuccess
}

func reportCatalogError(err error, stderr io.Writer) int {
	fmt.Fprintf(stderr, FmtErrorWithCause, ErrMsgCatalogFailed, err)
	if errors.Is(err, phrase.ErrPhraseNotFound) {
		return ExitCodeInputError
	}
	return ExitCodeError
}
