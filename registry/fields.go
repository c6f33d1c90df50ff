package registry

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"unique"
)

var (
	// ErrNotStruct is returned when a field annotation targets a
	// non-struct type.
	ErrNotStruct = errors.New("not a struct type")

	// ErrUnknownField is returned when the named field does not exist on
	// the target struct.
	ErrUnknownField = errors.New("unknown field")
)

// fieldKey identifies a struct field. Names are interned so keys compare
// without string comparison.
type fieldKey struct {
	typ  reflect.Type
	name unique.Handle[string]
}

// Fields associates values of type V with struct fields, keyed by
// (struct type, field name). Pointer types are normalized to their struct
// element, so *T and T address the same annotations.
//
// Fields is safe for concurrent use.
type Fields[V any] struct {
	mu sync.RWMutex
	m  map[fieldKey]V
}

// NewFields creates an empty field registry.
func NewFields[V any]() *Fields[V] {
	return &Fields[V]{
		m: make(map[fieldKey]V),
	}
}

// Set stores or overwrites the annotation for the named field of t. The
// field must exist on the struct, promoted fields included.
func (r *Fields[V]) Set(t reflect.Type, field string, value V) error {
	k, err := makeFieldKey(t, field)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[k] = value
	return nil
}

// Get returns the annotation for the named field of t. The second result
// reports presence. Get never fails; invalid targets report absent.
func (r *Fields[V]) Get(t reflect.Type, field string) (V, bool) {
	var zero V
	k, err := makeFieldKey(t, field)
	if err != nil {
		return zero, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.m[k]
	return v, ok
}

// Has reports whether the named field of t carries an annotation.
func (r *Fields[V]) Has(t reflect.Type, field string) bool {
	_, ok := r.Get(t, field)
	return ok
}

// Delete removes the annotation for the named field of t if present,
// reporting whether removal occurred.
func (r *Fields[V]) Delete(t reflect.Type, field string) bool {
	k, err := makeFieldKey(t, field)
	if err != nil {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.m[k]
	delete(r.m, k)
	return ok
}

// Len reports the number of annotated fields.
func (r *Fields[V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.m)
}

// Range calls f for each annotation, stopping if f returns false. f runs
// outside the registry's lock on a snapshot.
func (r *Fields[V]) Range(f func(t reflect.Type, field string, value V) bool) {
	type pair struct {
		key   fieldKey
		value V
	}

	r.mu.RLock()
	pairs := make([]pair, 0, len(r.m))
	for k, v := range r.m {
		pairs = append(pairs, pair{key: k, value: v})
	}
	r.mu.RUnlock()

	for _, p := range pairs {
		if !f(p.key.typ, p.key.name.Value(), p.value) {
			return
		}
	}
}

func makeFieldKey(t reflect.Type, field string) (fieldKey, error) {
	if t == nil {
		return fieldKey{}, ErrNilType
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return fieldKey{}, fmt.Errorf("%w: %s", ErrNotStruct, t)
	}
	if _, ok := t.FieldByName(field); !ok {
		return fieldKey{}, fmt.Errorf("%w: %s.%s", ErrUnknownField, t, field)
	}
	return fieldKey{typ: t, name: unique.Make(field)}, nil
}

// SetField stores the annotation for the named field of struct type T.
func SetField[T any, V any](r *Fields[V], field string, value V) error {
	return r.Set(reflect.TypeFor[T](), field, value)
}

// GetField returns the annotation for the named field of struct type T.
func GetField[T any, V any](r *Fields[V], field string) (V, bool) {
	return r.Get(reflect.TypeFor[T](), field)
}

// HasField reports whether the named field of struct type T carries an
// annotation.
func HasField[T any, V any](r *Fields[V], field string) bool {
	return r.Has(reflect.TypeFor[T](), field)
}

// DeleteField removes the annotation for the named field of struct type T.
func DeleteField[T any, V any](r *Fields[V], field string) bool {
	return r.Delete(reflect.TypeFor[T](), field)
}
