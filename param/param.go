// Package param provides parameter marks: per-method sets of argument
// positions that carry a requirement, plus validation of call arguments
// against them.
//
// Definition-time code marks positions with Registry.Require; call-time
// code hands its arguments to Registry.Check, which reports the marked
// positions whose arguments are absent.
package param

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"unique"
)

var (
	// ErrNilType is returned when a nil reflect.Type is used as a target.
	ErrNilType = errors.New("nil type")

	// ErrUnknownMethod is returned when the named method does not exist in
	// the exported method set of the target type or its pointer type.
	ErrUnknownMethod = errors.New("unknown method")

	// ErrInvalidPosition is returned for negative parameter positions.
	ErrInvalidPosition = errors.New("invalid parameter position")
)

// MissingArgumentError reports marked positions whose arguments were absent
// in a checked call.
type MissingArgumentError struct {
	Method    string
	Positions []int
}

func (e *MissingArgumentError) Error() string {
	return fmt.Sprintf("method %s: missing required arguments at positions %v", e.Method, e.Positions)
}

// methodKey identifies a method. Names are interned so keys compare without
// string comparison.
type methodKey struct {
	typ  reflect.Type
	name unique.Handle[string]
}

// Registry records required parameter positions per (receiver type, method).
// Pointer receiver types are normalized to their element, so *T and T
// address the same marks.
//
// Registry is safe for concurrent use.
type Registry struct {
	mu sync.RWMutex
	m  map[methodKey]*Marks
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		m: make(map[methodKey]*Marks),
	}
}

// Require marks parameter positions of the named method as required.
// The method must exist in the exported method set of t or *t. Positions
// accumulate across calls.
func (r *Registry) Require(t reflect.Type, method string, positions ...int) error {
	k, err := makeMethodKey(t, method)
	if err != nil {
		return err
	}
	for _, p := range positions {
		if p < 0 {
			return fmt.Errorf("%w: %d", ErrInvalidPosition, p)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	marks, ok := r.m[k]
	if !ok {
		marks = NewMarks()
		r.m[k] = marks
	}
	for _, p := range positions {
		marks.Mark(p)
	}
	return nil
}

// Marks returns a copy of the mark set for the named method. The second
// result reports whether any positions are recorded.
func (r *Registry) Marks(t reflect.Type, method string) (*Marks, bool) {
	k, err := makeMethodKey(t, method)
	if err != nil {
		return nil, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	marks, ok := r.m[k]
	if !ok {
		return nil, false
	}
	return marks.Clone(), true
}

// Check validates call arguments against the marks recorded for the named
// method. An argument is absent if the position is beyond the argument list,
// or the value is nil (typed nil pointers included). Methods without marks
// pass vacuously.
//
// A failed check returns a *MissingArgumentError listing the absent
// positions in ascending order.
func (r *Registry) Check(t reflect.Type, method string, args ...any) error {
	k, err := makeMethodKey(t, method)
	if err != nil {
		return err
	}

	r.mu.RLock()
	marks, ok := r.m[k]
	var snapshot *Marks
	if ok {
		snapshot = marks.Clone()
	}
	r.mu.RUnlock()

	if !ok {
		return nil
	}

	var missing []int
	for p := range snapshot.Iterator() {
		if p >= len(args) || absent(args[p]) {
			missing = append(missing, p)
		}
	}
	if len(missing) > 0 {
		return &MissingArgumentError{
			Method:    fmt.Sprintf("%s.%s", k.typ, method),
			Positions: missing,
		}
	}
	return nil
}

// Len reports the number of methods with recorded marks.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.m)
}

func makeMethodKey(t reflect.Type, method string) (methodKey, error) {
	if t == nil {
		return methodKey{}, ErrNilType
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if !hasMethod(t, method) {
		return methodKey{}, fmt.Errorf("%w: %s.%s", ErrUnknownMethod, t, method)
	}
	return methodKey{typ: t, name: unique.Make(method)}, nil
}

func hasMethod(t reflect.Type, method string) bool {
	if _, ok := t.MethodByName(method); ok {
		return true
	}
	_, ok := reflect.PointerTo(t).MethodByName(method)
	return ok
}

func absent(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
