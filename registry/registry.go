// Package registry provides annotation tables keyed by Go types and struct
// fields.
//
// Unlike the identity stores in the root package, registries hold strong
// keys: type descriptors are immortal, so entries live until deleted and
// named entries can be exported and re-imported across process runs.
package registry

import (
	"errors"
	"reflect"
	"sync"
)

// ErrNilType is returned when a nil reflect.Type is used as a key.
var ErrNilType = errors.New("nil type")

// Types associates values of type V with Go types. A type maps to at most
// one value at a time (last write wins).
//
// Types is safe for concurrent use.
type Types[V any] struct {
	mu sync.RWMutex
	m  map[reflect.Type]V
}

// NewTypes creates an empty type registry.
func NewTypes[V any]() *Types[V] {
	return &Types[V]{
		m: make(map[reflect.Type]V),
	}
}

// Set stores or overwrites the annotation for t.
func (r *Types[V]) Set(t reflect.Type, value V) error {
	if t == nil {
		return ErrNilType
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[t] = value
	return nil
}

// Get returns the annotation stored for t. The second result reports
// presence.
func (r *Types[V]) Get(t reflect.Type) (V, bool) {
	var zero V
	if t == nil {
		return zero, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.m[t]
	return v, ok
}

// Has reports whether an annotation exists for t.
func (r *Types[V]) Has(t reflect.Type) bool {
	_, ok := r.Get(t)
	return ok
}

// Delete removes the annotation for t if present, reporting whether removal
// occurred.
func (r *Types[V]) Delete(t reflect.Type) bool {
	if t == nil {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.m[t]
	delete(r.m, t)
	return ok
}

// Len reports the number of annotated types.
func (r *Types[V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.m)
}

// Clear removes all annotations.
func (r *Types[V]) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m = make(map[reflect.Type]V)
}

// Range calls f for each annotation, stopping if f returns false. f runs
// outside the registry's lock on a snapshot.
func (r *Types[V]) Range(f func(t reflect.Type, value V) bool) {
	type pair struct {
		t     reflect.Type
		value V
	}

	r.mu.RLock()
	pairs := make([]pair, 0, len(r.m))
	for t, v := range r.m {
		pairs = append(pairs, pair{t: t, value: v})
	}
	r.mu.RUnlock()

	for _, p := range pairs {
		if !f(p.t, p.value) {
			return
		}
	}
}

// Export returns a snapshot of all entries for named types, keyed by the
// package-path-qualified type name. Unnamed types (slices, maps, anonymous
// structs) are skipped: they have no stable name to round-trip.
func (r *Types[V]) Export() map[string]V {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]V, len(r.m))
	for t, v := range r.m {
		if name := typeName(t); name != "" {
			out[name] = v
		}
	}
	return out
}

// Import applies entries to types already present in the registry, matching
// by exported name. Entries naming unknown types are ignored. It returns the
// number of entries applied.
//
// Import cannot create entries for new types: a name alone does not identify
// a live reflect.Type.
func (r *Types[V]) Import(entries map[string]V) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	applied := 0
	for t := range r.m {
		name := typeName(t)
		if name == "" {
			continue
		}
		if v, ok := entries[name]; ok {
			r.m[t] = v
			applied++
		}
	}
	return applied
}

func typeName(t reflect.Type) string {
	if t.Name() == "" {
		return ""
	}
	if pkg := t.PkgPath(); pkg != "" {
		return pkg + "." + t.Name()
	}
	return t.Name()
}

// SetOf stores the annotation for type T.
func SetOf[T any, V any](r *Types[V], value V) error {
	return r.Set(reflect.TypeFor[T](), value)
}

// GetOf returns the annotation for type T.
func GetOf[T any, V any](r *Types[V]) (V, bool) {
	return r.Get(reflect.TypeFor[T]())
}

// HasOf reports whether type T carries an annotation.
func HasOf[T any, V any](r *Types[V]) bool {
	return r.Has(reflect.TypeFor[T]())
}

// DeleteOf removes the annotation for type T.
func DeleteOf[T any, V any](r *Types[V]) bool {
	return r.Delete(reflect.TypeFor[T]())
}
