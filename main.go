package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/pkg/errors"

	"github.com/havrydotdev/treelox/config"
	interp "github.com/havrydotdev/treelox/interpreter"
)

const (
	exitOK      = 0
	exitUsage   = 64
	exitCompile = 65
	exitNoInput = 66
	exitRuntime = 70
)

func main() {
	var (
		configPath string
		dumpAST    bool
		logLevel   string
	)

	flag.StringVar(&configPath, "config", "", "YAML config file")
	flag.BoolVar(&dumpAST, "ast", false, "print the parsed program before running it")
	flag.StringVar(&logLevel, "log-level", "", "debug, info, warn or error")
	flag.Usage = func() {
		fmt.Fprintln(flag.CommandLine.Output(), "Usage: golox [flags] [script]")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := loadConfig(configPath, dumpAST, logLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUsage)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	session := interp.New(cfg, os.Stdout, os.Stderr, logger)

	switch args := flag.Args(); len(args) {
	case 0:
		os.Exit(runREPL(session, cfg))
	case 1:
		os.Exit(runFile(session, args[0]))
	default:
		flag.Usage()
		os.Exit(exitUsage)
	}
}

func loadConfig(path string, dumpAST bool, logLevel string) (config.Config, error) {
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
	}

	if dumpAST {
		cfg.DumpAST = true
	}

	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	return cfg, cfg.Validate()
}

func runFile(session *interp.Session, path string) int {
	err := session.RunFile(path)
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, interp.ErrCompile):
		return exitCompile
	case errors.Is(err, interp.ErrRuntime):
		return exitRuntime
	}

	fmt.Fprintf(os.Stderr, "golox: %v\n", err)
	return exitNoInput
}

func runREPL(session *interp.Session, cfg config.Config) int {
	fmt.Println("Welcome to GoLox (version 0.0.1)!")

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := historyPath(cfg.HistoryFile)
	if histPath != "" {
		if f, err := os.Open(histPath); err == nil {
			_, _ = ln.ReadHistory(f)
			_ = f.Close()
		}
	}

	for {
		line, err := ln.Prompt(cfg.Prompt)
		if errors.Is(err, io.EOF) {
			fmt.Println()
			break
		}

		if err != nil {
			// Ctrl+C drops the current line
			continue
		}

		if strings.TrimSpace(line) == "" {
			continue
		}

		ln.AppendHistory(line)

		// diagnostics are already on stderr
		_ = session.RunLine(line)
	}

	if histPath != "" {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}

	return exitOK
}

func historyPath(name string) string {
	if name == "" {
		return ""
	}

	if filepath.IsAbs(name) {
		return name
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	return filepath.Join(home, name)
}
