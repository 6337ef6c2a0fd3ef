// Package diag collects the errors reported by every stage of the pipeline
// and renders them to a single writer.
package diag

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/havrydotdev/treelox/token"
)

type Stage int

const (
	Scan Stage = iota
	Parse
	Resolve
	Runtime
)

func (s Stage) String() string {
	switch s {
	case Scan:
		return "scan"
	case Parse:
		return "parse"
	case Resolve:
		return "resolve"
	case Runtime:
		return "runtime"
	}

	return "unknown"
}

// Error is one reported problem. Token is nil for errors that are not tied
// to a particular token, such as lexical errors.
type Error struct {
	Stage   Stage
	Line    int
	Token   *token.Token
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("[line %d] Error: %s", e.Line, e.Message)
}

type Collector struct {
	out    io.Writer
	log    *slog.Logger
	errors []*Error
}

// New returns a collector writing rendered errors to out. Both arguments
// may be nil.
func New(out io.Writer, logger *slog.Logger) *Collector {
	if out == nil {
		out = io.Discard
	}

	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Collector{out: out, log: logger}
}

func (c *Collector) Report(stage Stage, line int, message string) *Error {
	return c.add(&Error{Stage: stage, Line: line, Message: message})
}

func (c *Collector) ReportAt(stage Stage, tok token.Token, message string) *Error {
	return c.add(&Error{Stage: stage, Line: tok.Line, Token: &tok, Message: message})
}

func (c *Collector) add(err *Error) *Error {
	c.errors = append(c.errors, err)
	c.log.Debug("diagnostic",
		slog.String("stage", err.Stage.String()),
		slog.Int("line", err.Line),
		slog.String("message", err.Message))

	fmt.Fprintln(c.out, err.Error())

	return err
}

// HadError reports whether anything was reported since the last Reset.
func (c *Collector) HadError() bool {
	return len(c.errors) > 0
}

func (c *Collector) HadRuntimeError() bool {
	for _, err := range c.errors {
		if err.Stage == Runtime {
			return true
		}
	}

	return false
}

func (c *Collector) Errors() []*Error {
	return c.errors
}

func (c *Collector) Reset() {
	c.errors = nil
}
