package eval

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/pkg/errors"

	"github.com/havrydotdev/treelox/ast"
	"github.com/havrydotdev/treelox/diag"
	env "github.com/havrydotdev/treelox/environment"
	"github.com/havrydotdev/treelox/resolver"
	"github.com/havrydotdev/treelox/token"
)

// unit is one parsed and resolved program. Functions remember the unit
// they were declared in, so code from earlier REPL lines keeps working.
type unit struct {
	arena  *ast.Arena
	locals *resolver.Table
}

// result is what executing a statement produced: either it completed
// normally or a return is unwinding to the nearest call.
type result struct {
	returning bool
	value     Value
}

var normal = result{}

type Interpreter struct {
	globals     *env.Env[Value]
	environment *env.Env[Value]
	unit        *unit

	out      io.Writer
	diags    *diag.Collector
	log      *slog.Logger
	clock    func() time.Time
	division DivisionPolicy
	maxDepth int
	depth    int
}

func New(opts ...Option) *Interpreter {
	globals := newGlobals()

	in := &Interpreter{
		globals:     globals,
		environment: globals,
		out:         os.Stdout,
		clock:       time.Now,
		maxDepth:    DefaultMaxDepth,
	}

	for _, opt := range opts {
		opt(in)
	}

	if in.log == nil {
		in.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if in.diags == nil {
		in.diags = diag.New(os.Stderr, in.log)
	}

	return in
}

func (in *Interpreter) Globals() *env.Env[Value] {
	return in.globals
}

// Interpret runs the top-level statements in order. The first runtime
// error is reported, stops the run and is returned. Globals survive
// between calls.
func (in *Interpreter) Interpret(prog *ast.Program, locals *resolver.Table) error {
	in.unit = &unit{arena: prog.Arena, locals: locals}
	in.environment = in.globals
	in.depth = 0

	for _, stmt := range prog.Stmts {
		res, err := in.execute(stmt)
		if err != nil {
			in.report(err)
			return err
		}

		if res.returning {
			break
		}
	}

	return nil
}

func (in *Interpreter) report(err error) {
	var rerr *RuntimeError
	if errors.As(err, &rerr) {
		in.diags.ReportAt(diag.Runtime, rerr.Token, rerr.Message)
	} else {
		in.diags.Report(diag.Runtime, 0, err.Error())
	}

	in.log.Warn("runtime error", slog.String("error", err.Error()))
}

func (in *Interpreter) execute(id ast.StmtID) (result, error) {
	switch s := in.unit.arena.Stmt(id).(type) {
	case ast.ExprStmt:
		_, err := in.evaluate(s.Expr)
		return normal, err
	case ast.Print:
		v, err := in.evaluate(s.Expr)
		if err != nil {
			return normal, err
		}

		fmt.Fprintln(in.out, v.String())
		return normal, nil
	case ast.Var:
		var value Value = Nil{}
		if s.Init != ast.NoExpr {
			v, err := in.evaluate(s.Init)
			if err != nil {
				return normal, err
			}

			value = v
		}

		in.environment.Define(s.Name.Lexeme, value)
		return normal, nil
	case ast.Block:
		return in.executeBlock(s.Stmts, env.NewChild(in.environment))
	case ast.If:
		cond, err := in.evaluate(s.Cond)
		if err != nil {
			return normal, err
		}

		if isTruthy(cond) {
			return in.execute(s.Then)
		} else if s.Else != ast.NoStmt {
			return in.execute(s.Else)
		}

		return normal, nil
	case ast.While:
		for {
			c, err := in.evaluate(s.Cond)
			if err != nil {
				return normal, err
			}

			if !isTruthy(c) {
				return normal, nil
			}

			res, err := in.execute(s.Body)
			if err != nil || res.returning {
				return res, err
			}
		}
	case ast.Function:
		in.environment.Define(s.Name.Lexeme, &Function{decl: s, unit: in.unit, closure: in.environment})
		return normal, nil
	case ast.Return:
		var value Value = Nil{}
		if s.Value != ast.NoExpr {
			v, err := in.evaluate(s.Value)
			if err != nil {
				return normal, err
			}

			value = v
		}

		return result{returning: true, value: value}, nil
	}

	return normal, errors.Errorf("internal error: unknown statement %d", id)
}

// executeBlock always restores the previous scope, whether the block
// finishes, returns or fails.
func (in *Interpreter) executeBlock(stmts []ast.StmtID, environment *env.Env[Value]) (result, error) {
	prev := in.environment
	in.environment = environment
	defer func() { in.environment = prev }()

	for _, stmt := range stmts {
		res, err := in.execute(stmt)
		if err != nil || res.returning {
			return res, err
		}
	}

	return normal, nil
}

func (in *Interpreter) evaluate(id ast.ExprID) (Value, error) {
	switch e := in.unit.arena.Expr(id).(type) {
	case ast.Literal:
		return literal(e), nil
	case ast.Grouping:
		return in.evaluate(e.Inner)
	case ast.Unary:
		return in.unary(e)
	case ast.Binary:
		return in.binary(e)
	case ast.Logical:
		left, err := in.evaluate(e.Left)
		if err != nil {
			return nil, err
		}

		if e.Op.Kind == token.Or {
			if isTruthy(left) {
				return left, nil
			}
		} else if !isTruthy(left) {
			return left, nil
		}

		return in.evaluate(e.Right)
	case ast.Variable:
		return in.lookUp(id, e.Name)
	case ast.Assign:
		value, err := in.evaluate(e.Value)
		if err != nil {
			return nil, err
		}

		if err := in.assign(id, e.Name, value); err != nil {
			return nil, err
		}

		return value, nil
	case ast.Call:
		return in.call(e)
	}

	return nil, errors.Errorf("internal error: unknown expression %d", id)
}

func literal(l ast.Literal) Value {
	switch l.Kind {
	case ast.LitTrue:
		return Bool(true)
	case ast.LitFalse:
		return Bool(false)
	case ast.LitNumber:
		return Number(l.Number)
	case ast.LitString:
		return String(l.Str)
	}

	return Nil{}
}

// lookUp uses the resolved distance for locals and goes straight to the
// globals for everything else.
func (in *Interpreter) lookUp(id ast.ExprID, name token.Token) (Value, error) {
	var (
		v   Value
		err error
	)

	if distance, ok := in.unit.locals.Distance(id); ok {
		v, err = in.environment.GetAt(distance, name.Lexeme)
	} else {
		v, err = in.globals.Get(name.Lexeme)
	}

	if err != nil {
		return nil, scopeErr(name, err)
	}

	return v, nil
}

func (in *Interpreter) assign(id ast.ExprID, name token.Token, value Value) error {
	var err error
	if distance, ok := in.unit.locals.Distance(id); ok {
		err = in.environment.AssignAt(distance, name.Lexeme, value)
	} else {
		err = in.globals.Assign(name.Lexeme, value)
	}

	if err != nil {
		return scopeErr(name, err)
	}

	return nil
}

func scopeErr(name token.Token, err error) error {
	if errors.Is(err, env.ErrUndefined) {
		return runtimeErr(name, "Undefined variable '%s'.", name.Lexeme)
	}

	return runtimeErr(name, "Internal error resolving '%s': %v", name.Lexeme, err)
}

func (in *Interpreter) unary(e ast.Unary) (Value, error) {
	right, err := in.evaluate(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Op.Kind {
	case token.Minus:
		n, ok := right.(Number)
		if !ok {
			return nil, runtimeErr(e.Op, "Operand must be a number.")
		}

		return -n, nil
	case token.Bang:
		return Bool(!isTruthy(right)), nil
	}

	return nil, runtimeErr(e.Op, "Unexpected operator %s.", e.Op.Lexeme)
}

func (in *Interpreter) binary(e ast.Binary) (Value, error) {
	l, err := in.evaluate(e.Left)
	if err != nil {
		return nil, err
	}

	r, err := in.evaluate(e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Op.Kind {
	case token.EqualEqual:
		return Bool(isEqual(l, r)), nil
	case token.BangEqual:
		return Bool(!isEqual(l, r)), nil
	case token.Plus:
		switch lv := l.(type) {
		case Number:
			if rv, ok := r.(Number); ok {
				return lv + rv, nil
			}
		case String:
			if rv, ok := r.(String); ok {
				return lv + rv, nil
			}
		}

		return nil, runtimeErr(e.Op, "Operands must be two numbers or two strings.")
	}

	lv, rv, err := checkNums(e.Op, l, r)
	if err != nil {
		return nil, err
	}

	switch e.Op.Kind {
	case token.Greater:
		return Bool(lv > rv), nil
	case token.GreaterEqual:
		return Bool(lv >= rv), nil
	case token.Less:
		return Bool(lv < rv), nil
	case token.LessEqual:
		return Bool(lv <= rv), nil
	case token.Minus:
		return Number(lv - rv), nil
	case token.Star:
		return Number(lv * rv), nil
	case token.Slash:
		if rv == 0 && in.division == DivisionError {
			return nil, runtimeErr(e.Op, "Division by zero.")
		}

		return Number(lv / rv), nil
	}

	return nil, runtimeErr(e.Op, "Unexpected operator %s.", e.Op.Lexeme)
}

func (in *Interpreter) call(e ast.Call) (Value, error) {
	callee, err := in.evaluate(e.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]Value, 0, len(e.Args))
	for _, arg := range e.Args {
		v, err := in.evaluate(arg)
		if err != nil {
			return nil, err
		}

		args = append(args, v)
	}

	fun, ok := callee.(Callable)
	if !ok {
		return nil, runtimeErr(e.Paren, "Can only call functions; %s is not callable.", callee.Kind())
	}

	if len(args) != fun.Arity() {
		return nil, runtimeErr(e.Paren, "Expected %d arguments but got %d.", fun.Arity(), len(args))
	}

	if in.depth >= in.maxDepth {
		return nil, runtimeErr(e.Paren, "Stack overflow.")
	}

	in.depth++
	defer func() { in.depth-- }()

	in.log.Debug("call",
		slog.String("callee", fun.String()),
		slog.Int("args", len(args)),
		slog.Int("depth", in.depth))

	v, err := fun.Call(in, args)
	if err != nil {
		var rerr *RuntimeError
		if !errors.As(err, &rerr) {
			return nil, runtimeErr(e.Paren, "%v", err)
		}

		return nil, err
	}

	in.log.Debug("return",
		slog.String("callee", fun.String()),
		slog.String("value", v.String()))

	return v, nil
}
