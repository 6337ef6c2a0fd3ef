package eval

import (
	"github.com/havrydotdev/treelox/ast"
	env "github.com/havrydotdev/treelox/environment"
)

type Callable interface {
	Value
	Arity() int
	Call(in *Interpreter, args []Value) (Value, error)
}

type NativeFun struct {
	name  string
	arity int
	call  func(in *Interpreter, args []Value) (Value, error)
}

// Function is a user-defined function together with the scope it was
// declared in and the program it came from.
type Function struct {
	decl    ast.Function
	unit    *unit
	closure *env.Env[Value]
}

func NewNativeFun(name string, arity int, call func(in *Interpreter, args []Value) (Value, error)) *NativeFun {
	return &NativeFun{name, arity, call}
}

func (*NativeFun) Kind() Kind { return KindCallable }

func (*NativeFun) String() string { return "<native fn>" }

func (c *NativeFun) Name() string {
	return c.name
}

func (c *NativeFun) Arity() int {
	return c.arity
}

func (c *NativeFun) Call(in *Interpreter, args []Value) (Value, error) {
	return c.call(in, args)
}

func (*Function) Kind() Kind { return KindCallable }

func (f *Function) String() string {
	return "<fn " + f.decl.Name.Lexeme + ">"
}

func (f *Function) Arity() int {
	return len(f.decl.Params)
}

// Call runs the body in a fresh scope whose parent is the closure, never
// the caller's scope.
func (f *Function) Call(in *Interpreter, args []Value) (Value, error) {
	environment := env.NewChild(f.closure)
	for i, param := range f.decl.Params {
		environment.Define(param.Lexeme, args[i])
	}

	prev := in.unit
	in.unit = f.unit
	defer func() { in.unit = prev }()

	res, err := in.executeBlock(f.decl.Body, environment)
	if err != nil {
		return nil, err
	}

	if res.returning {
		return res.value, nil
	}

	return Nil{}, nil
}
