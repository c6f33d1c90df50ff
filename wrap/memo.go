package wrap

import (
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/hupe1980/decor"
)

// Memo returns a memoized version of fn keyed by argument identity. Results
// are held in an identity store with weakly held keys, so a cached entry
// lives exactly as long as its argument and memoization never keeps an
// argument alive.
//
// Concurrent calls with the same argument share a single execution of fn.
// Failed calls are not cached. Arguments that cannot carry identity (nil
// pointers, zero-size objects) are computed on every call.
func Memo[K any, V any](fn func(*K) (V, error)) func(*K) (V, error) {
	store := decor.NewStore[K, V]()
	var group singleflight.Group

	return func(key *K) (V, error) {
		if v, ok := store.Get(key); ok {
			return v, nil
		}

		// The caller's argument keeps key alive for the duration of the
		// flight, so its address is a stable dedup key here.
		v, err, _ := group.Do(fmt.Sprintf("%p", key), func() (any, error) {
			if v, ok := store.Get(key); ok {
				return v, nil
			}
			v, err := fn(key)
			if err != nil {
				return nil, err
			}
			_ = store.Set(key, v) // invalid keys simply stay uncached
			return v, nil
		})
		if err != nil {
			var zero V
			return zero, err
		}
		return v.(V), nil
	}
}
