package env

import (
	"github.com/pkg/errors"
)

var (
	ErrUndefined = errors.New("undefined variable")
	ErrDepth     = errors.New("scope distance out of range")
)

// Env is one scope in the chain. A child only knows its outer scope, so a
// closure holding an Env keeps every enclosing scope alive with it.
type Env[V any] struct {
	outer *Env[V]

	values map[string]V
}

func New[V any]() *Env[V] {
	return &Env[V]{values: make(map[string]V), outer: nil}
}

func NewChild[V any](outer *Env[V]) *Env[V] {
	return &Env[V]{values: make(map[string]V), outer: outer}
}

func (e *Env[V]) Enclosing() *Env[V] {
	return e.outer
}

func (e *Env[V]) Len() int {
	return len(e.values)
}

// Define binds name in this scope, replacing an earlier binding.
func (e *Env[V]) Define(name string, value V) {
	e.values[name] = value
}

func (e *Env[V]) Assign(name string, value V) error {
	for env := e; env != nil; env = env.outer {
		if _, ok := env.values[name]; ok {
			env.values[name] = value
			return nil
		}
	}

	return errors.Wrapf(ErrUndefined, "'%s'", name)
}

func (e *Env[V]) Get(name string) (V, error) {
	for env := e; env != nil; env = env.outer {
		if val, ok := env.values[name]; ok {
			return val, nil
		}
	}

	var zero V
	return zero, errors.Wrapf(ErrUndefined, "'%s'", name)
}

func (e *Env[V]) Ancestor(distance int) (*Env[V], error) {
	env := e
	for i := 0; i < distance; i++ {
		if env.outer == nil {
			return nil, errors.Wrapf(ErrDepth, "distance %d, chain ends after %d", distance, i)
		}

		env = env.outer
	}

	return env, nil
}

// GetAt reads name from exactly the scope distance hops up, without
// searching further.
func (e *Env[V]) GetAt(distance int, name string) (V, error) {
	var zero V

	env, err := e.Ancestor(distance)
	if err != nil {
		return zero, err
	}

	val, ok := env.values[name]
	if !ok {
		return zero, errors.Wrapf(ErrUndefined, "'%s' at distance %d", name, distance)
	}

	return val, nil
}

func (e *Env[V]) AssignAt(distance int, name string, value V) error {
	env, err := e.Ancestor(distance)
	if err != nil {
		return err
	}

	env.values[name] = value
	return nil
}
