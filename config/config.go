// Package config loads the YAML settings shared by the golox command and
// the interpreter session.
package config

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	eval "github.com/havrydotdev/treelox/evaluator"
)

const (
	DivisionIEEE  = "ieee"
	DivisionError = "error"
)

type Config struct {
	Division     string `yaml:"division"`
	MaxCallDepth int    `yaml:"max_call_depth"`
	LogLevel     string `yaml:"log_level"`
	Prompt       string `yaml:"prompt"`
	HistoryFile  string `yaml:"history_file"`
	DumpAST      bool   `yaml:"dump_ast"`
}

func Default() Config {
	return Config{
		Division:     DivisionIEEE,
		MaxCallDepth: eval.DefaultMaxDepth,
		LogLevel:     "warn",
		Prompt:       "> ",
		HistoryFile:  ".golox_history",
	}
}

// Load reads path over the defaults. Unknown keys are rejected, and an
// empty file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	file, err := os.Open(path)
	if err != nil {
		return cfg, errors.Wrap(err, "config: open")
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, errors.Wrapf(err, "config: parse %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, errors.Wrapf(err, "config: %s", path)
	}

	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Division {
	case DivisionIEEE, DivisionError:
	default:
		return errors.Errorf("division must be %q or %q, got %q", DivisionIEEE, DivisionError, c.Division)
	}

	if c.MaxCallDepth < 1 {
		return errors.Errorf("max_call_depth must be positive, got %d", c.MaxCallDepth)
	}

	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}

	return nil
}

// Level is the slog level named by LogLevel, falling back to warn.
func (c Config) Level() slog.Level {
	lvl, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelWarn
	}

	return lvl
}

func (c Config) DivisionPolicy() eval.DivisionPolicy {
	if c.Division == DivisionError {
		return eval.DivisionError
	}

	return eval.DivisionIEEE
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning", "":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}

	return 0, errors.Errorf("unknown log_level %q", s)
}
