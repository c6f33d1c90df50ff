package weakref

import (
	"reflect"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// payload is larger than the runtime's tiny allocation classes, so every
// value gets its own block and reclamation is observable per object.
type payload struct {
	name   string
	buffer [32]byte
}

func TestMakeRejectsUnsupportedKinds(t *testing.T) {
	tests := []struct {
		name string
		key  any
		kind reflect.Kind
	}{
		{name: "int", key: 42, kind: reflect.Int},
		{name: "string", key: "user", kind: reflect.String},
		{name: "struct value", key: payload{}, kind: reflect.Struct},
		{name: "map", key: map[string]int{}, kind: reflect.Map},
		{name: "slice", key: []int{1}, kind: reflect.Slice},
		{name: "func", key: func() {}, kind: reflect.Func},
		{name: "chan", key: make(chan int), kind: reflect.Chan},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Make(tt.key)

			var kindErr *KindError
			require.ErrorAs(t, err, &kindErr)
			assert.Equal(t, tt.kind, kindErr.Kind)
		})
	}
}

func TestMakeRejectsNilKeys(t *testing.T) {
	_, err := Make(nil)
	assert.ErrorIs(t, err, ErrNilKey)

	_, err = Make((*payload)(nil))
	assert.ErrorIs(t, err, ErrNilKey)
}

func TestMakeRejectsZeroSizeKeys(t *testing.T) {
	_, err := Make(&struct{}{})
	assert.ErrorIs(t, err, ErrZeroSizeKey)

	_, err = Make(&[0]int{})
	assert.ErrorIs(t, err, ErrZeroSizeKey)
}

func TestHandleIdentity(t *testing.T) {
	a := &payload{name: "a"}
	b := &payload{name: "a"}

	ha1, err := Make(a)
	require.NoError(t, err)

	ha2, err := Make(a)
	require.NoError(t, err)

	hb, err := Make(b)
	require.NoError(t, err)

	assert.Equal(t, ha1, ha2, "handles for one object must compare equal")
	assert.NotEqual(t, ha1, hb, "structurally equal objects keep distinct handles")
	assert.NotEqual(t, Handle{}, ha1)
}

func TestHandleAliveTracksReclamation(t *testing.T) {
	key := &payload{name: "held"}

	h, err := Make(key)
	require.NoError(t, err)

	runtime.GC()
	assert.True(t, h.Alive(), "handle must stay alive while the key is reachable")

	runtime.KeepAlive(key)

	waitReclaimed(t, h)
}

func TestOnReclaimFires(t *testing.T) {
	fired := make(chan struct{})

	func() {
		key := &payload{name: "transient"}
		_, err := OnReclaim(key, func() { close(fired) })
		require.NoError(t, err)
		runtime.KeepAlive(key)
	}()

	for i := 0; i < 100; i++ {
		runtime.GC()
		select {
		case <-fired:
			return
		case <-time.After(time.Millisecond):
		}
	}

	t.Fatal("cleanup did not run after the key became unreachable")
}

func TestOnReclaimStop(t *testing.T) {
	var fired atomic.Bool

	func() {
		key := &payload{name: "canceled"}
		cleanup, err := OnReclaim(key, func() { fired.Store(true) })
		require.NoError(t, err)
		cleanup.Stop()
		runtime.KeepAlive(key)
	}()

	for i := 0; i < 20; i++ {
		runtime.GC()
		time.Sleep(time.Millisecond)
	}

	assert.False(t, fired.Load(), "stopped cleanup must not run")
}

func TestOnReclaimValidation(t *testing.T) {
	_, err := OnReclaim(nil, func() {})
	assert.ErrorIs(t, err, ErrNilKey)

	_, err = OnReclaim(7, func() {})

	var kindErr *KindError
	assert.ErrorAs(t, err, &kindErr)
}

func waitReclaimed(t *testing.T, h Handle) {
	t.Helper()

	for i := 0; i < 100; i++ {
		runtime.GC()
		if !h.Alive() {
			return
		}
		time.Sleep(time.Millisecond)
	}

	t.Fatal("handle still alive after the referent became unreachable")
}
