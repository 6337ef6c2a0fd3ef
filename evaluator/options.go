package eval

import (
	"io"
	"log/slog"
	"time"

	"github.com/havrydotdev/treelox/diag"
)

type DivisionPolicy int

const (
	// DivisionIEEE lets x/0 produce inf, -inf or nan.
	DivisionIEEE DivisionPolicy = iota
	// DivisionError turns x/0 into a runtime error.
	DivisionError
)

const DefaultMaxDepth = 1024

type Option func(*Interpreter)

func WithOutput(w io.Writer) Option {
	return func(in *Interpreter) { in.out = w }
}

func WithDiagnostics(c *diag.Collector) Option {
	return func(in *Interpreter) { in.diags = c }
}

func WithLogger(l *slog.Logger) Option {
	return func(in *Interpreter) { in.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(in *Interpreter) { in.clock = now }
}

func WithDivision(p DivisionPolicy) Option {
	return func(in *Interpreter) { in.division = p }
}

// WithMaxDepth bounds nested calls; values below 1 keep the default.
func WithMaxDepth(n int) Option {
	return func(in *Interpreter) {
		if n > 0 {
			in.maxDepth = n
		}
	}
}
