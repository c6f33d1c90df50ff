package decor

import (
	"context"
	"reflect"
	"runtime"
	"sync"
	"weak"
)

// entry pairs a stored value with the cleanup that removes it once the key
// is collected.
type entry[V any] struct {
	value   V
	cleanup runtime.Cleanup
}

// Store associates values of type V with owning objects of type *K, keyed
// by reference identity. Keys are held weakly: an association never keeps
// its key alive, and it is discarded automatically once the key becomes
// unreachable. A key maps to at most one value at a time (last write wins).
//
// Store is safe for concurrent use.
type Store[K any, V any] struct {
	mu      sync.RWMutex
	entries map[weak.Pointer[K]]entry[V]

	// Distinct zero-size allocations may share an address, so identity is
	// undefined for them and such keys are rejected up front.
	zeroSize bool
	keyKind  reflect.Kind

	metricsCollector MetricsCollector
	logger           *Logger
}

// NewStore creates an empty identity-keyed store.
func NewStore[K any, V any](optFns ...Option) *Store[K, V] {
	o := applyOptions(optFns)
	t := reflect.TypeFor[K]()

	return &Store[K, V]{
		entries:          make(map[weak.Pointer[K]]entry[V]),
		zeroSize:         t.Size() == 0,
		keyKind:          t.Kind(),
		metricsCollector: o.metricsCollector,
		logger:           o.logger,
	}
}

// Set stores or overwrites the association for key. It fails only with an
// error matching ErrInvalidKeyKind: a nil key, or a key of a zero-size type.
func (s *Store[K, V]) Set(key *K, value V) error {
	err := s.set(key, value)
	s.metricsCollector.RecordSet(err)
	s.logger.LogSet(context.Background(), err)
	return err
}

func (s *Store[K, V]) set(key *K, value V) error {
	if err := s.checkKey(key); err != nil {
		return err
	}
	h := weak.Make(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[h]; ok {
		e.value = value
		s.entries[h] = e
		return nil
	}
	s.entries[h] = entry[V]{
		value:   value,
		cleanup: runtime.AddCleanup(key, s.reclaim, h),
	}
	return nil
}

// Get returns the value stored for key. The second result reports presence,
// so a stored zero value is distinguishable from absence. Get never fails;
// lookups with invalid keys report absent.
func (s *Store[K, V]) Get(key *K) (V, bool) {
	var zero V
	if key == nil || s.zeroSize {
		s.metricsCollector.RecordGet(false)
		return zero, false
	}

	s.mu.RLock()
	e, ok := s.entries[weak.Make(key)]
	s.mu.RUnlock()

	s.metricsCollector.RecordGet(ok)
	if !ok {
		return zero, false
	}
	return e.value, true
}

// GetOrSet returns the existing value for key if present. Otherwise it
// stores value and returns it. The loaded result is true if the value was
// already present.
func (s *Store[K, V]) GetOrSet(key *K, value V) (V, bool, error) {
	if err := s.checkKey(key); err != nil {
		s.metricsCollector.RecordSet(err)
		s.logger.LogSet(context.Background(), err)
		var zero V
		return zero, false, err
	}
	h := weak.Make(key)

	s.mu.Lock()
	if e, ok := s.entries[h]; ok {
		s.mu.Unlock()
		s.metricsCollector.RecordGet(true)
		return e.value, true, nil
	}
	s.entries[h] = entry[V]{
		value:   value,
		cleanup: runtime.AddCleanup(key, s.reclaim, h),
	}
	s.mu.Unlock()

	s.metricsCollector.RecordSet(nil)
	s.logger.LogSet(context.Background(), nil)
	return value, false, nil
}

// Has reports whether an association exists for key.
func (s *Store[K, V]) Has(key *K) bool {
	_, ok := s.Get(key)
	return ok
}

// Delete removes the association for key if present, reporting whether
// removal occurred. Deleting is optional: entries expire with their keys
// either way.
func (s *Store[K, V]) Delete(key *K) bool {
	removed := s.delete(key)
	s.metricsCollector.RecordDelete(removed)
	s.logger.LogDelete(context.Background(), removed)
	return removed
}

func (s *Store[K, V]) delete(key *K) bool {
	if key == nil || s.zeroSize {
		return false
	}
	h := weak.Make(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[h]
	if !ok {
		return false
	}
	e.cleanup.Stop()
	delete(s.entries, h)
	return true
}

// Len reports the number of stored associations. Entries whose keys were
// collected are removed shortly after collection, so Len may briefly count
// entries awaiting reclamation.
func (s *Store[K, V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Range calls f for each association whose key is still live, stopping if f
// returns false. f runs outside the store's lock on a snapshot, so
// concurrent mutations are not reflected.
func (s *Store[K, V]) Range(f func(key *K, value V) bool) {
	type pair struct {
		key   *K
		value V
	}

	s.mu.RLock()
	pairs := make([]pair, 0, len(s.entries))
	for h, e := range s.entries {
		if k := h.Value(); k != nil {
			pairs = append(pairs, pair{key: k, value: e.value})
		}
	}
	s.mu.RUnlock()

	for _, p := range pairs {
		if !f(p.key, p.value) {
			return
		}
	}
}

func (s *Store[K, V]) checkKey(key *K) error {
	if key == nil {
		return invalidKeyError(reflect.Invalid, "nil key", nil)
	}
	if s.zeroSize {
		return invalidKeyError(s.keyKind, "zero-size objects have no stable identity", nil)
	}
	return nil
}

// reclaim removes the entry for a collected key. The runtime invokes it on
// a cleanup goroutine sometime after the key becomes unreachable.
func (s *Store[K, V]) reclaim(h weak.Pointer[K]) {
	s.mu.Lock()
	_, ok := s.entries[h]
	if ok {
		delete(s.entries, h)
	}
	remaining := len(s.entries)
	s.mu.Unlock()

	if ok {
		s.metricsCollector.RecordReclaim()
		s.logger.LogReclaim(context.Background(), remaining)
	}
}
