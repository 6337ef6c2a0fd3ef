package eval

import (
	"fmt"

	"github.com/havrydotdev/treelox/token"
)

// RuntimeError aborts the current Interpret call. Token locates the
// operator, name or paren that failed.
type RuntimeError struct {
	Token   token.Token
	Message string
}

func (e *RuntimeError) Error() string {
	return e.Message
}

func runtimeErr(tok token.Token, format string, args ...any) *RuntimeError {
	return &RuntimeError{Token: tok, Message: fmt.Sprintf(format, args...)}
}

// nil and false are falsy, everything else is truthy
func isTruthy(value Value) bool {
	switch v := value.(type) {
	case nil, Nil:
		return false
	case Bool:
		return bool(v)
	}

	return true
}

// isEqual never coerces: values of different kinds are unequal, and
// callables compare by identity.
func isEqual(left, right Value) bool {
	return left == right
}

func checkNums(op token.Token, left, right Value) (float64, float64, error) {
	l, okl := left.(Number)
	r, okr := right.(Number)
	if !okl || !okr {
		return 0, 0, runtimeErr(op, "Operands must be numbers.")
	}

	return float64(l), float64(r), nil
}
