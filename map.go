package decor

import (
	"context"
	"runtime"
	"sync"

	"github.com/hupe1980/decor/internal/weakref"
)

type mapEntry[V any] struct {
	value   V
	cleanup runtime.Cleanup
}

// Map is the dynamically keyed counterpart of Store for callers that cannot
// commit to a single key type. Any non-nil plain pointer works as a key;
// keys of other kinds (numbers, strings, maps, channels, funcs, nil) are
// rejected with an error matching ErrInvalidKeyKind, since identity
// semantics require reference identity.
//
// Like Store, keys are held weakly and compared by identity, and Map is
// safe for concurrent use. Unlike Store, iteration cannot yield keys: the
// store retains only an untyped weak view of each key.
type Map[V any] struct {
	mu      sync.RWMutex
	entries map[weakref.Handle]mapEntry[V]

	metricsCollector MetricsCollector
	logger           *Logger
}

// NewMap creates an empty dynamically keyed store.
func NewMap[V any](optFns ...Option) *Map[V] {
	o := applyOptions(optFns)

	return &Map[V]{
		entries:          make(map[weakref.Handle]mapEntry[V]),
		metricsCollector: o.metricsCollector,
		logger:           o.logger,
	}
}

// Set stores or overwrites the association for key. It fails only with an
// error matching ErrInvalidKeyKind.
func (m *Map[V]) Set(key any, value V) error {
	err := m.set(key, value)
	m.metricsCollector.RecordSet(err)
	m.logger.LogSet(context.Background(), err)
	return err
}

func (m *Map[V]) set(key any, value V) error {
	h, err := weakref.Make(key)
	if err != nil {
		return translateKeyError(err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.entries[h]; ok {
		e.value = value
		m.entries[h] = e
		return nil
	}
	c, err := weakref.OnReclaim(key, func() { m.reclaim(h) })
	if err != nil {
		return translateKeyError(err)
	}
	m.entries[h] = mapEntry[V]{value: value, cleanup: c}
	return nil
}

// Get returns the value stored for key. The second result reports presence.
// Get never fails; lookups with invalid keys report absent.
func (m *Map[V]) Get(key any) (V, bool) {
	var zero V
	h, err := weakref.Make(key)
	if err != nil {
		m.metricsCollector.RecordGet(false)
		return zero, false
	}

	m.mu.RLock()
	e, ok := m.entries[h]
	m.mu.RUnlock()

	m.metricsCollector.RecordGet(ok)
	if !ok {
		return zero, false
	}
	return e.value, true
}

// GetOrSet returns the existing value for key if present. Otherwise it
// stores value and returns it. The loaded result is true if the value was
// already present.
func (m *Map[V]) GetOrSet(key any, value V) (V, bool, error) {
	var zero V
	h, err := weakref.Make(key)
	if err != nil {
		err = translateKeyError(err)
		m.metricsCollector.RecordSet(err)
		m.logger.LogSet(context.Background(), err)
		return zero, false, err
	}

	m.mu.Lock()
	if e, ok := m.entries[h]; ok {
		m.mu.Unlock()
		m.metricsCollector.RecordGet(true)
		return e.value, true, nil
	}
	c, err := weakref.OnReclaim(key, func() { m.reclaim(h) })
	if err != nil {
		m.mu.Unlock()
		err = translateKeyError(err)
		m.metricsCollector.RecordSet(err)
		m.logger.LogSet(context.Background(), err)
		return zero, false, err
	}
	m.entries[h] = mapEntry[V]{value: value, cleanup: c}
	m.mu.Unlock()

	m.metricsCollector.RecordSet(nil)
	m.logger.LogSet(context.Background(), nil)
	return value, false, nil
}

// Has reports whether an association exists for key.
func (m *Map[V]) Has(key any) bool {
	_, ok := m.Get(key)
	return ok
}

// Delete removes the association for key if present, reporting whether
// removal occurred.
func (m *Map[V]) Delete(key any) bool {
	removed := m.delete(key)
	m.metricsCollector.RecordDelete(removed)
	m.logger.LogDelete(context.Background(), removed)
	return removed
}

func (m *Map[V]) delete(key any) bool {
	h, err := weakref.Make(key)
	if err != nil {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[h]
	if !ok {
		return false
	}
	e.cleanup.Stop()
	delete(m.entries, h)
	return true
}

// Len reports the number of stored associations, including entries whose
// keys were collected but not yet reclaimed.
func (m *Map[V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Range calls f for each value whose key is still live, stopping if f
// returns false. Keys are not recoverable from the store's weak handles, so
// iteration yields values only. f runs outside the store's lock on a
// snapshot.
func (m *Map[V]) Range(f func(value V) bool) {
	m.mu.RLock()
	values := make([]V, 0, len(m.entries))
	for h, e := range m.entries {
		if h.Alive() {
			values = append(values, e.value)
		}
	}
	m.mu.RUnlock()

	for _, v := range values {
		if !f(v) {
			return
		}
	}
}

// reclaim removes the entry for a collected key. The runtime invokes it on
// a cleanup goroutine sometime after the key becomes unreachable.
func (m *Map[V]) reclaim(h weakref.Handle) {
	m.mu.Lock()
	_, ok := m.entries[h]
	if ok {
		delete(m.entries, h)
	}
	remaining := len(m.entries)
	m.mu.Unlock()

	if ok {
		m.metricsCollector.RecordReclaim()
		m.logger.LogReclaim(context.Background(), remaining)
	}
}
