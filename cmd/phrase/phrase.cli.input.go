package main

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/itsatony/go-phrase"
	"gopkg.in/yaml.v3"
)

// readInput reads content from a file or stdin
func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == InputSourceStdin {
		return io.ReadAll(stdin)
	}

	return os.ReadFile(path)
}

// writeOutput writes content to a file or stdout
func writeOutput(path string, data []byte, stdout io.Writer) error {
	if path == FlagDefaultOutput {
		_, err := stdout.Write(data)
		return err
	}

	return os.WriteFile(path, data, FilePermissions)
}

// multiFlag collects every occurrence of a repeatable string flag
type multiFlag []string

func (m *multiFlag) String() string {
	return strings.Join(*m, ",")
}

func (m *multiFlag) Set(value string) error {
	*m = append(*m, value)
	return nil
}

// patternSource names where the pattern text comes from: inline, a file or
// the phrase catalog. Exactly one may be set.
type patternSource struct {
	pattern      string
	templatePath string
	name         string
}

func (s *patternSource) validate() error {
	count := 0
	for _, v := range []string{s.pattern, s.templatePath, s.name} {
		if v != "" {
			count++
		}
	}
	switch {
	case count == 0:
		return errors.New(ErrMsgMissingPattern)
	case count > 1:
		return errors.New(ErrMsgTooManySources)
	}
	return nil
}

// read returns inline or file pattern text. Stored phrases are resolved by
// the caller.
func (s *patternSource) read(stdin io.Reader) (string, error) {
	if s.pattern != "" {
		return s.pattern, nil
	}
	data, err := readInput(s.templatePath, stdin)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// parseBracketFlag resolves a --bracket value, falling back when empty
func parseBracketFlag(name string, fallback phrase.Bracket) (phrase.Bracket, error) {
	if name == "" {
		return fallback, nil
	}
	return phrase.ParseBracket(name)
}

func validateFormat(format string) error {
	if format != OutputFormatText && format != OutputFormatJSON {
		return errors.New(ErrMsgInvalidFormat)
	}
	return nil
}

// loadValues merges the data file with the --set pairs, which win
func loadValues(dataFilePath string, sets []string) (map[string]any, error) {
	values := make(map[string]any)

	if dataFilePath != "" {
		data, err := os.ReadFile(dataFilePath)
		if err != nil {
			return nil, err
		}
		// JSON is a subset of YAML, one decoder serves both
		if err := yaml.Unmarshal(data, &values); err != nil {
			return nil, err
		}
		if values == nil {
			values = make(map[string]any)
		}
	}

	for _, set := range sets {
		key, value, ok := strings.Cut(set, SetSeparator)
		if !ok || key == "" {
			return nil, errors.New(ErrMsgInvalidSet)
		}
		values[key] = value
	}

	return values, nil
}

// declaredValues drops the entries the template does not declare
func declaredValues(tmpl *phrase.Template, values map[string]any) map[string]any {
	declared := make(map[string]any, len(values))
	for k, v := range values {
		if tmpl.HasKey(k) {
			declared[k] = v
		}
	}
	return declared
}

// loadConfig reads the config file, the default path when empty
func loadConfig(path string) (*phrase.Config, error) {
	if path == "" {
		path = phrase.DefaultConfigFile
	}
	return phrase.LoadConfig(path)
}

// openCatalog opens the configured storage behind a catalog
func openCatalog(config *phrase.Config) (*phrase.Catalog, error) {
	logger, err := config.NewLogger()
	if err != nil {
		return nil, err
	}
	storage, err := config.OpenStorage()
	if err != nil {
		return nil, err
	}
	return phrase.NewCatalog(storage, phrase.WithCatalogLogger(logger))
}
