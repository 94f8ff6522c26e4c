package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"bookmemo/internal/config"
	"bookmemo/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(apiURL string) *config.Config {
	return &config.Config{
		APIURL:      apiURL,
		SessionPath: "/check-login-status",
		LogLevel:    "error",
		Email:       testutil.Email,
		Password:    testutil.Password,
		Dev: config.Dev{
			Addr:            "127.0.0.1:0",
			Secret:          "dev-secret",
			UserAgent:       "bookmemo-test",
			RPS:             1,
			SeedBooks:       3,
			SeedRandom:      1,
			ShutdownTimeout: time.Second,
		},
	}
}

// execute runs the CLI non-interactively and returns stdout and stderr.
func execute(t *testing.T, cfg *config.Config, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand(&RootOptions{
		Config:      cfg,
		Interactive: func() bool { return false },
	})
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand(testConfig("http://localhost:8000"))
	require.NotNil(t, cmd)
	assert.Equal(t, "bookmemo", cmd.Use)
	assert.Contains(t, cmd.Long, "book library")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand(testConfig("http://localhost:8000"))
	commands := [][]string{
		{"tui"},
		{"books", "list"},
		{"books", "add"},
		{"books", "rm"},
		{"memos", "list"},
		{"memos", "add"},
		{"memos", "rm"},
		{"login"},
		{"signup"},
		{"devserver"},
	}

	for _, path := range commands {
		t.Run(path[len(path)-1], func(t *testing.T) {
			subCmd, _, err := cmd.Find(path)
			require.NoError(t, err, "Command %v should exist", path)
			require.NotNil(t, subCmd)
			assert.Equal(t, path[len(path)-1], subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cfg := testConfig("http://api.example")
	cmd := NewRootCommand(cfg)

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)

	apiFlag := cmd.PersistentFlags().Lookup("api-url")
	require.NotNil(t, apiFlag)
	assert.Equal(t, "http://api.example", apiFlag.DefValue)
}

func TestBooksRemoveFlags(t *testing.T) {
	cmd := NewRootCommand(testConfig("http://localhost:8000"))
	rmCmd, _, err := cmd.Find([]string{"books", "rm"})
	require.NoError(t, err)

	yesFlag := rmCmd.Flags().Lookup("yes")
	require.NotNil(t, yesFlag)
	assert.Equal(t, "y", yesFlag.Shorthand)
	assert.Equal(t, "false", yesFlag.DefValue)
}

func TestInvalidFormat(t *testing.T) {
	_, _, err := execute(t, testConfig("http://localhost:8000"), "--format", "yaml", "books", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestParsePage(t *testing.T) {
	for _, s := range []string{"/", "/login", "/create-account", "/library"} {
		p, err := parsePage(s)
		require.NoError(t, err)
		assert.Equal(t, s, string(p))
	}
	_, err := parsePage("/nowhere")
	assert.Error(t, err)
}

func TestTUI_NeedsTerminal(t *testing.T) {
	_, stderr, err := execute(t, testConfig("http://localhost:8000"), "tui")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, stderr, "needs a terminal")
}
