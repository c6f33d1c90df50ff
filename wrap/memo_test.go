package wrap

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

type user struct {
	name string
}

func TestMemoCachesPerIdentity(t *testing.T) {
	var executions atomic.Int32

	expensive := Memo(func(u *user) (string, error) {
		executions.Add(1)
		return strings.ToUpper(u.name), nil
	})

	a := &user{name: "ada"}
	b := &user{name: "ada"} // structural twin, distinct identity

	got, err := expensive(a)
	require.NoError(t, err)
	assert.Equal(t, "ADA", got)

	_, err = expensive(a)
	require.NoError(t, err)
	assert.Equal(t, int32(1), executions.Load(), "same identity must hit the cache")

	_, err = expensive(b)
	require.NoError(t, err)
	assert.Equal(t, int32(2), executions.Load(), "distinct identity must recompute")
}

func TestMemoDoesNotCacheErrors(t *testing.T) {
	var executions atomic.Int32
	boom := errors.New("boom")

	flaky := Memo(func(u *user) (string, error) {
		if executions.Add(1) == 1 {
			return "", boom
		}
		return u.name, nil
	})

	u := &user{name: "grace"}

	_, err := flaky(u)
	assert.ErrorIs(t, err, boom)

	got, err := flaky(u)
	require.NoError(t, err)
	assert.Equal(t, "grace", got)
	assert.Equal(t, int32(2), executions.Load())
}

func TestMemoNilKeyUncached(t *testing.T) {
	var executions atomic.Int32

	f := Memo(func(*user) (int, error) {
		return int(executions.Add(1)), nil
	})

	first, err := f(nil)
	require.NoError(t, err)
	second, err := f(nil)
	require.NoError(t, err)

	assert.Equal(t, 1, first)
	assert.Equal(t, 2, second, "nil keys must be computed on every call")
}

func TestMemoSingleFlight(t *testing.T) {
	var executions atomic.Int32

	slow := Memo(func(u *user) (string, error) {
		executions.Add(1)
		time.Sleep(20 * time.Millisecond)
		return u.name, nil
	})

	u := &user{name: "shared"}

	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			got, err := slow(u)
			if err != nil {
				return err
			}
			if got != "shared" {
				return fmt.Errorf("unexpected result %q", got)
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int32(1), executions.Load(), "concurrent callers must share one execution")
}
