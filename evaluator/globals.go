package eval

import (
	env "github.com/havrydotdev/treelox/environment"
)

// clock returns whole seconds since the Unix epoch.
func newClock() Callable {
	return NewNativeFun("clock", 0, func(in *Interpreter, args []Value) (Value, error) {
		return Number(float64(in.clock().Unix())), nil
	})
}

func newGlobals() *env.Env[Value] {
	global := env.New[Value]()
	global.Define("clock", newClock())

	return global
}
