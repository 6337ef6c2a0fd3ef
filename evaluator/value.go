package eval

import (
	"math"
	"strconv"
)

type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindString
	KindCallable
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindCallable:
		return "function"
	}

	return "unknown"
}

// Value is a runtime value. The set of implementations is closed: Nil,
// Bool, Number, String and the Callables in callable.go. String returns
// the form written by print.
type Value interface {
	Kind() Kind
	String() string
}

type (
	Nil    struct{}
	Bool   bool
	Number float64
	String string
)

func (Nil) Kind() Kind    { return KindNil }
func (Bool) Kind() Kind   { return KindBool }
func (Number) Kind() Kind { return KindNumber }
func (String) Kind() Kind { return KindString }

func (Nil) String() string { return "nil" }

func (b Bool) String() string {
	return strconv.FormatBool(bool(b))
}

func (n Number) String() string {
	f := float64(n)
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (s String) String() string { return string(s) }
