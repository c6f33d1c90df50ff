// Package accessor provides composable get/set pairs. Decorations derive
// new accessors that delegate to the original, so behavior is added by
// construction rather than by replacing anything in place.
package accessor

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrImmutableWrite is returned when a write reaches a read-only accessor.
var ErrImmutableWrite = errors.New("immutable write rejected")

// Accessor couples a named getter and setter for a value of type T.
type Accessor[T any] interface {
	// Name identifies the accessor in errors and logs.
	Name() string

	// Get returns the current value.
	Get() T

	// Set replaces the current value.
	Set(value T) error
}

// Var is a mutex-guarded variable exposed through the Accessor interface.
type Var[T any] struct {
	name string

	mu    sync.RWMutex
	value T
}

// NewVar creates a Var holding initial.
func NewVar[T any](name string, initial T) *Var[T] {
	return &Var[T]{
		name:  name,
		value: initial,
	}
}

// Name implements Accessor.
func (v *Var[T]) Name() string { return v.name }

// Get implements Accessor.
func (v *Var[T]) Get() T {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.value
}

// Set implements Accessor.
func (v *Var[T]) Set(value T) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.value = value
	return nil
}

// Pair builds an accessor from explicit get and set functions, for state
// that lives outside the accessor. A nil set makes the accessor read-only.
func Pair[T any](name string, get func() T, set func(T) error) Accessor[T] {
	return &pair[T]{name: name, get: get, set: set}
}

type pair[T any] struct {
	name string
	get  func() T
	set  func(T) error
}

func (p *pair[T]) Name() string { return p.name }

func (p *pair[T]) Get() T { return p.get() }

func (p *pair[T]) Set(value T) error {
	if p.set == nil {
		return fmt.Errorf("%w: %s", ErrImmutableWrite, p.name)
	}
	return p.set(value)
}

// Readonly derives an accessor whose Set always fails with an error matching
// ErrImmutableWrite. Reads delegate to a.
func Readonly[T any](a Accessor[T]) Accessor[T] {
	return &readonly[T]{a: a}
}

type readonly[T any] struct {
	a Accessor[T]
}

func (r *readonly[T]) Name() string { return r.a.Name() }

func (r *readonly[T]) Get() T { return r.a.Get() }

func (r *readonly[T]) Set(T) error {
	return fmt.Errorf("%w: %s", ErrImmutableWrite, r.a.Name())
}

// Logged derives an accessor that logs reads and writes. If logger is nil,
// slog.Default() is used.
func Logged[T any](a Accessor[T], logger *slog.Logger) Accessor[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &logged[T]{a: a, logger: logger}
}

type logged[T any] struct {
	a      Accessor[T]
	logger *slog.Logger
}

func (l *logged[T]) Name() string { return l.a.Name() }

func (l *logged[T]) Get() T {
	value := l.a.Get()
	l.logger.Debug("accessor read", "name", l.a.Name(), "value", value)
	return value
}

func (l *logged[T]) Set(value T) error {
	err := l.a.Set(value)
	if err != nil {
		l.logger.Error("accessor write rejected", "name", l.a.Name(), "error", err)
	} else {
		l.logger.Debug("accessor write", "name", l.a.Name(), "value", value)
	}
	return err
}
