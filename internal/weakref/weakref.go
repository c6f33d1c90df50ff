// Package weakref builds weak, identity-comparable handles for heap objects
// whose static type is not known to the caller.
//
// # Identity Model
//
// A Handle stands for one allocation. Handles made from the same pointer
// compare equal; handles made from distinct allocations never do, even if
// one object is reclaimed and its address is later reused — the runtime
// backs each live object with its own indirection, so handles are immune to
// address recycling.
//
// # Safety Model
//
// The package views an arbitrary pointer as *struct{} to feed it to the
// runtime's weak and cleanup machinery. The view is used for identity only
// and is never dereferenced. Keys must point at the start of an object
// allocated by the Go runtime (new, composite literal address, escaping
// local); zero-size objects are rejected because the runtime may give
// distinct zero-size allocations the same address.
package weakref

import (
	"errors"
	"fmt"
	"reflect"
	"runtime"
	"unsafe"
	"weak"
)

var (
	// ErrNilKey is returned when the key is nil or a typed nil pointer.
	ErrNilKey = errors.New("weakref: nil key")
	// ErrZeroSizeKey is returned when the key points to a zero-size object.
	ErrZeroSizeKey = errors.New("weakref: zero-size objects have no stable identity")
)

// KindError reports a key whose dynamic kind cannot carry reference identity.
//
// Maps, channels, funcs and slices are rejected alongside scalars: their
// header objects are runtime-internal and cannot be referenced weakly with
// defined behavior.
type KindError struct {
	Kind reflect.Kind
}

func (e *KindError) Error() string {
	return fmt.Sprintf("weakref: key kind %s is not a plain pointer", e.Kind)
}

// Handle is a weak reference to a heap object, usable as a map key.
//
// The zero Handle references nothing and compares unequal to every Handle
// returned by Make.
type Handle struct {
	p weak.Pointer[struct{}]
}

// Make returns the Handle for key.
//
// key must be a non-nil pointer to a non-zero-size object. Any other value
// fails with ErrNilKey, ErrZeroSizeKey or a *KindError.
func Make(key any) (Handle, error) {
	p, err := base(key)
	if err != nil {
		return Handle{}, err
	}
	return Handle{p: weak.Make(p)}, nil
}

// Alive reports whether the referenced object has not been reclaimed yet.
func (h Handle) Alive() bool {
	return h.p.Value() != nil
}

// OnReclaim arranges for f to run on the runtime's cleanup goroutine some
// time after key's object becomes unreachable. The returned cleanup cancels
// the call if it has not started.
//
// f must not retain key (directly or through captures), or the object can
// never become unreachable and f never runs.
func OnReclaim(key any, f func()) (runtime.Cleanup, error) {
	p, err := base(key)
	if err != nil {
		return runtime.Cleanup{}, err
	}
	return runtime.AddCleanup(p, func(struct{}) { f() }, struct{}{}), nil
}

// base validates key and returns its allocation viewed as *struct{}.
func base(key any) (*struct{}, error) {
	if key == nil {
		return nil, ErrNilKey
	}

	rv := reflect.ValueOf(key)
	if rv.Kind() != reflect.Pointer {
		return nil, &KindError{Kind: rv.Kind()}
	}
	if rv.IsNil() {
		return nil, ErrNilKey
	}
	if rv.Type().Elem().Size() == 0 {
		return nil, ErrZeroSizeKey
	}

	// Identity-only view of the allocation; never dereferenced.
	return (*struct{})(rv.UnsafePointer()), nil //nolint:gosec // required to hand untyped pointers to weak/runtime
}
