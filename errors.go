package decor

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/hupe1980/decor/internal/weakref"
)

var (
	// ErrInvalidKeyKind is returned when a key cannot carry reference
	// identity: a nil key, a non-pointer key, or a pointer to a zero-size
	// object.
	ErrInvalidKeyKind = errors.New("invalid key kind")
)

// ErrInvalidKey describes why a key was rejected.
//
// It always matches ErrInvalidKeyKind via errors.Is. The original underlying
// error (if any) can be accessed via errors.Unwrap.
type ErrInvalidKey struct {
	Kind   reflect.Kind // reflect.Invalid for nil interface keys
	Reason string
	cause  error
}

func (e *ErrInvalidKey) Error() string {
	if e.Kind == reflect.Invalid {
		return e.Reason
	}
	return fmt.Sprintf("key of kind %s: %s", e.Kind, e.Reason)
}

func (e *ErrInvalidKey) Unwrap() error { return e.cause }

func invalidKeyError(kind reflect.Kind, reason string, cause error) error {
	return fmt.Errorf("%w: %w", ErrInvalidKeyKind, &ErrInvalidKey{Kind: kind, Reason: reason, cause: cause})
}

func translateKeyError(err error) error {
	if err == nil {
		return nil
	}

	var ke *weakref.KindError
	if errors.As(err, &ke) {
		return invalidKeyError(ke.Kind, "key must be a non-nil pointer", err)
	}
	if errors.Is(err, weakref.ErrNilKey) {
		return invalidKeyError(reflect.Invalid, "nil key", err)
	}
	if errors.Is(err, weakref.ErrZeroSizeKey) {
		return invalidKeyError(reflect.Pointer, "zero-size objects have no stable identity", err)
	}

	return err
}
