package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsatony/go-phrase"
)

// writeCatalogConfig points a config file at a fresh SQLite database
func writeCatalogConfig(t *testing.T, driver string) string {
	t.Helper()
	dir := t.TempDir()
	dsn := filepath.Join(dir, "phrases.db")
	if driver == phrase.StorageDriverNameFilesystem {
		dsn = filepath.Join(dir, "phrases")
	}
	content := fmt.Sprintf("bracket: curly\nstorage:\n  driver: %s\n  dsn: %s\n", driver, dsn)
	path := filepath.Join(dir, phrase.DefaultConfigFile)
	require.NoError(t, os.WriteFile(path, []byte(content), FilePermissions))
	return path
}

var storedPhraseIgnore = cmpopts.IgnoreFields(phrase.StoredPhrase{}, "ID", "CreatedAt", "UpdatedAt")

func TestCatalog_Lifecycle(t *testing.T) {
	for _, driver := range []string{phrase.StorageDriverNameSQLite, phrase.StorageDriverNameFilesystem} {
		t.Run(driver, func(t *testing.T) {
			config := writeCatalogConfig(t, driver)

			exitCode, stdout, stderr := runCLI(t, "", CmdNameCatalog, CatalogCmdSave, "-c", config,
				"-n", "greet", "-p", "Hi [who]", "-b", "square", "--description", "hello", "--tag", "mail", "--tag", "intro")
			require.Equal(t, ExitCodeSuccess, exitCode, stderr)
			assert.Contains(t, stdout, "saved greet")

			exitCode, stdout, _ = runCLI(t, "", CmdNameCatalog, CatalogCmdGet, "-c", config, "-n", "greet")
			require.Equal(t, ExitCodeSuccess, exitCode)
			assert.Equal(t, "Hi [who]\n", stdout)

			exitCode, stdout, _ = runCLI(t, "", CmdNameCatalog, CatalogCmdGet, "-c", config, "-n", "greet", "-F", OutputFormatJSON)
			require.Equal(t, ExitCodeSuccess, exitCode)
			var got phrase.StoredPhrase
			require.NoError(t, json.Unmarshal([]byte(stdout), &got))
			want := phrase.StoredPhrase{
				Name:        "greet",
				Pattern:     "Hi [who]",
				Bracket:     phrase.BracketSquare,
				Description: "hello",
				Tags:        []string{"mail", "intro"},
			}
			if diff := cmp.Diff(want, got, storedPhraseIgnore); diff != "" {
				t.Errorf("stored phrase mismatch (-want +got):\n%s", diff)
			}
			assert.NotEmpty(t, got.ID)

			// the stored bracket wins over the config's curly default
			exitCode, stdout, stderr = runCLI(t, "", CmdNameRender, "-c", config, "-n", "greet", "-s", "who=Ann")
			require.Equal(t, ExitCodeSuccess, exitCode, stderr)
			assert.Equal(t, "Hi Ann", stdout)

			exitCode, stdout, _ = runCLI(t, "", CmdNameCatalog, CatalogCmdDelete, "-c", config, "-n", "greet")
			require.Equal(t, ExitCodeSuccess, exitCode)
			assert.Contains(t, stdout, "deleted greet")

			exitCode, _, stderr = runCLI(t, "", CmdNameCatalog, CatalogCmdGet, "-c", config, "-n", "greet")
			assert.Equal(t, ExitCodeInputError, exitCode)
			assert.Contains(t, stderr, ErrMsgCatalogFailed)

			exitCode, _, _ = runCLI(t, "", CmdNameRender, "-c", config, "-n", "greet")
			assert.Equal(t, ExitCodeInputError, exitCode)
		})
	}
}

func TestCatalog_List(t *testing.T) {
	config := writeCatalogConfig(t, phrase.StorageDriverNameSQLite)

	saves := [][]string{
		{"-n", "order_new", "-p", "Order {id}", "--tag", "orders"},
		{"-n", "order_shipped", "-p", "Shipped {id}", "--tag", "orders"},
		{"-n", "welcome", "-p", "Hi {name}"},
	}
	for _, save := range saves {
		args := append([]string{CmdNameCatalog, CatalogCmdSave, "-c", config}, save...)
		exitCode, _, stderr := runCLI(t, "", args...)
		require.Equal(t, ExitCodeSuccess, exitCode, stderr)
	}

	exitCode, stdout, _ := runCLI(t, "", CmdNameCatalog, CatalogCmdList, "-c", config)
	require.Equal(t, ExitCodeSuccess, exitCode)
	assert.Equal(t, "order_new\tcurly\tOrder {id}\norder_shipped\tcurly\tShipped {id}\nwelcome\tcurly\tHi {name}\n", stdout)

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"by tag", []string{"--tag", "orders"}, []string{"order_new", "order_shipped"}},
		{"by prefix", []string{"--prefix", "wel"}, []string{"welcome"}},
		{"paged", []string{"--limit", "1", "--offset", "1"}, []string{"order_shipped"}},
		{"nothing", []string{"--prefix", "zzz"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{CmdNameCatalog, CatalogCmdList, "-c", config, "-F", OutputFormatJSON}, tt.args...)
			exitCode, stdout, _ := runCLI(t, "", args...)
			require.Equal(t, ExitCodeSuccess, exitCode)

			var phrases []phrase.StoredPhrase
			require.NoError(t, json.Unmarshal([]byte(stdout), &phrases))
			names := make([]string, 0, len(phrases))
			for _, p := range phrases {
				names = append(names, p.Name)
			}
			if diff := cmp.Diff(tt.want, names); diff != "" {
				t.Errorf("listed names mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCatalog_SaveFromFile(t *testing.T) {
	config := writeCatalogConfig(t, phrase.StorageDriverNameSQLite)
	patternPath := filepath.Join(t.TempDir(), "p.txt")
	require.NoError(t, os.WriteFile(patternPath, []byte("(a) and (b)"), FilePermissions))

	exitCode, _, stderr := runCLI(t, "", CmdNameCatalog, CatalogCmdSave, "-c", config,
		"-n", "pair", "-t", patternPath, "-b", "round")
	require.Equal(t, ExitCodeSuccess, exitCode, stderr)

	exitCode, stdout, stderr := runCLI(t, "", CmdNameRender, "-c", config, "-n", "pair", "-s", "a=1", "-s", "b=2")
	require.Equal(t, ExitCodeSuccess, exitCode, stderr)
	assert.Equal(t, "1 and 2", stdout)
}

func TestCatalog_Errors(t *testing.T) {
	config := writeCatalogConfig(t, phrase.StorageDriverNameSQLite)
	badConfig := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(badConfig, []byte("bracket: wavy\n"), FilePermissions))

	tests := []struct {
		name     string
		args     []string
		exitCode int
		stderr   string
	}{
		{"unknown subcommand", []string{"rename"}, ExitCodeUsageError, ErrMsgUnknownSubcommand},
		{"get without name", []string{CatalogCmdGet, "-c", config}, ExitCodeUsageError, ErrMsgMissingName},
		{"save without pattern", []string{CatalogCmdSave, "-c", config, "-n", "x"}, ExitCodeUsageError, ErrMsgMissingPattern},
		{"save with two sources", []string{CatalogCmdSave, "-c", config, "-n", "x", "-p", "a", "-t", "b"}, ExitCodeUsageError, ErrMsgTooManySources},
		{"bad format", []string{CatalogCmdList, "-c", config, "-F", "xml"}, ExitCodeUsageError, ErrMsgInvalidFormat},
		{"bad config", []string{CatalogCmdList, "-c", badConfig}, ExitCodeInputError, ErrMsgConfigFailed},
		{"bad bracket", []string{CatalogCmdSave, "-c", config, "-n", "x", "-p", "a", "-b", "wavy"}, ExitCodeUsageError, ErrMsgInvalidBracket},
		{"syntax error", []string{CatalogCmdSave, "-c", config, "-n", "x", "-p", "{Oops}"}, ExitCodeValidationError, "line 1, column 2"},
		{"delete missing", []string{CatalogCmdDelete, "-c", config, "-n", "absent"}, ExitCodeInputError, ErrMsgCatalogFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{CmdNameCatalog}, tt.args...)
			exitCode, _, stderr := runCLI(t, "", args...)

			assert.Equal(t, tt.exitCode, exitCode)
			assert.Contains(t, stderr, tt.stderr)
		})
	}
}

func TestCatalog_NoArgsShowsUsage(t *testing.T) {
	exitCode, stdout, _ := runCLI(t, "", CmdNameCatalog)

	assert.Equal(t, ExitCodeUsageError, exitCode)
	assert.Contains(t, stdout, HelpCatalogUsage)
}
