// Package interp wires the pipeline together: scan, parse, resolve and
// interpret, stopping at the first stage that reports an error.
package interp

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/pkg/errors"

	"github.com/havrydotdev/treelox/ast"
	"github.com/havrydotdev/treelox/config"
	"github.com/havrydotdev/treelox/diag"
	eval "github.com/havrydotdev/treelox/evaluator"
	"github.com/havrydotdev/treelox/parser"
	"github.com/havrydotdev/treelox/resolver"
	"github.com/havrydotdev/treelox/scanner"
)

var (
	ErrCompile = errors.New("compile error")
	ErrRuntime = errors.New("runtime error")
)

type Session struct {
	cfg    config.Config
	out    io.Writer
	log    *slog.Logger
	diags  *diag.Collector
	runner *eval.Interpreter
}

// New builds a session printing program output to stdout and diagnostics
// to stderr. A nil logger discards.
func New(cfg config.Config, stdout, stderr io.Writer, logger *slog.Logger) *Session {
	if stdout == nil {
		stdout = io.Discard
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	diags := diag.New(stderr, logger)

	return &Session{
		cfg:   cfg,
		out:   stdout,
		log:   logger,
		diags: diags,
		runner: eval.New(
			eval.WithOutput(stdout),
			eval.WithDiagnostics(diags),
			eval.WithLogger(logger),
			eval.WithDivision(cfg.DivisionPolicy()),
			eval.WithMaxDepth(cfg.MaxCallDepth),
		),
	}
}

func (s *Session) Diagnostics() *diag.Collector {
	return s.diags
}

func (s *Session) Run(source string) error {
	tokens := scanner.New(source, s.diags).Scan()
	s.log.Debug("scanned", slog.Int("tokens", len(tokens)))

	prog := parser.New(tokens, s.diags).Parse()
	if s.diags.HadError() {
		return ErrCompile
	}

	if s.cfg.DumpAST {
		fmt.Fprintln(s.out, ast.PrintProgram(prog))
	}

	table := resolver.New(s.diags).Resolve(prog)
	if s.diags.HadError() {
		return ErrCompile
	}

	s.log.Debug("resolved",
		slog.Int("statements", len(prog.Stmts)),
		slog.Int("locals", table.Len()))

	if err := s.runner.Interpret(prog, table); err != nil {
		return errors.Wrap(ErrRuntime, err.Error())
	}

	return nil
}

func (s *Session) RunFile(path string) error {
	source, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "read %s", path)
	}

	return s.Run(string(source))
}

// RunLine runs one REPL entry. Errors from earlier lines are forgotten,
// definitions are kept.
func (s *Session) RunLine(line string) error {
	s.diags.Reset()

	return s.Run(line)
}
