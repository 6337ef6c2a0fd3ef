package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/havrydotdev/treelox/config"
	eval "github.com/havrydotdev/treelox/evaluator"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "golox.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	return path
}

func TestDefault(t *testing.T) {
	cfg := config.Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, eval.DivisionIEEE, cfg.DivisionPolicy())
	assert.Equal(t, eval.DefaultMaxDepth, cfg.MaxCallDepth)
	assert.Equal(t, slog.LevelWarn, cfg.Level())
	assert.Equal(t, "> ", cfg.Prompt)
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
division: error
max_call_depth: 64
log_level: debug
prompt: "lox> "
dump_ast: true
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, eval.DivisionError, cfg.DivisionPolicy())
	assert.Equal(t, 64, cfg.MaxCallDepth)
	assert.Equal(t, slog.LevelDebug, cfg.Level())
	assert.Equal(t, "lox> ", cfg.Prompt)
	assert.True(t, cfg.DumpAST)
	assert.Equal(t, ".golox_history", cfg.HistoryFile)
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := config.Load(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadRejects(t *testing.T) {
	tests := map[string]string{
		"bad division":  "division: sideways\n",
		"zero depth":    "max_call_depth: 0\n",
		"bad level":     "log_level: chatty\n",
		"unknown field": "colour: blue\n",
		"not yaml":      "division: [\n",
	}

	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := config.Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
