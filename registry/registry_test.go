package registry

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type UserController struct{ ID int }

type OrderController struct{ ID int }

func TestTypesSetGet(t *testing.T) {
	r := NewTypes[string]()

	// 1. Annotate UserController
	err := r.Set(reflect.TypeFor[UserController](), "/users")
	require.NoError(t, err)

	path, ok := r.Get(reflect.TypeFor[UserController]())
	assert.True(t, ok)
	assert.Equal(t, "/users", path)

	// 2. Unregistered type reports absent
	_, ok = r.Get(reflect.TypeFor[OrderController]())
	assert.False(t, ok)

	// 3. Last write wins
	err = r.Set(reflect.TypeFor[UserController](), "/v2/users")
	require.NoError(t, err)

	path, _ = r.Get(reflect.TypeFor[UserController]())
	assert.Equal(t, "/v2/users", path)
	assert.Equal(t, 1, r.Len())

	// 4. Delete reports removal
	assert.True(t, r.Delete(reflect.TypeFor[UserController]()))
	assert.False(t, r.Delete(reflect.TypeFor[UserController]()))
	assert.False(t, r.Has(reflect.TypeFor[UserController]()))
}

func TestTypesNilType(t *testing.T) {
	r := NewTypes[string]()

	err := r.Set(nil, "x")
	assert.ErrorIs(t, err, ErrNilType)

	_, ok := r.Get(nil)
	assert.False(t, ok)
	assert.False(t, r.Delete(nil))
}

func TestTypesOfHelpers(t *testing.T) {
	r := NewTypes[string]()

	require.NoError(t, SetOf[UserController](r, "/users"))

	path, ok := GetOf[UserController](r)
	assert.True(t, ok)
	assert.Equal(t, "/users", path)

	assert.True(t, HasOf[UserController](r))
	assert.False(t, HasOf[OrderController](r))

	assert.True(t, DeleteOf[UserController](r))
	assert.False(t, HasOf[UserController](r))
}

func TestTypesClear(t *testing.T) {
	r := NewTypes[int]()

	require.NoError(t, SetOf[UserController](r, 1))
	require.NoError(t, SetOf[OrderController](r, 2))
	require.Equal(t, 2, r.Len())

	r.Clear()
	assert.Equal(t, 0, r.Len())
	assert.False(t, HasOf[UserController](r))
}

func TestTypesRange(t *testing.T) {
	r := NewTypes[string]()

	require.NoError(t, SetOf[UserController](r, "/users"))
	require.NoError(t, SetOf[OrderController](r, "/orders"))

	seen := make(map[reflect.Type]string)
	r.Range(func(typ reflect.Type, value string) bool {
		seen[typ] = value
		return true
	})
	assert.Len(t, seen, 2)
	assert.Equal(t, "/users", seen[reflect.TypeFor[UserController]()])

	// Early stop visits exactly one entry.
	count := 0
	r.Range(func(reflect.Type, string) bool {
		count++
		return false
	})
	assert.Equal(t, 1, count)
}

func TestTypesExportImport(t *testing.T) {
	r := NewTypes[string]()

	require.NoError(t, SetOf[UserController](r, "/users"))
	require.NoError(t, SetOf[OrderController](r, "/orders"))
	// Unnamed types are registrable but not exportable.
	require.NoError(t, r.Set(reflect.TypeOf([]int(nil)), "unnamed"))

	exported := r.Export()
	require.Len(t, exported, 2)

	userName := reflect.TypeFor[UserController]().PkgPath() + ".UserController"
	assert.Equal(t, "/users", exported[userName])

	// Import applies only to types already registered.
	fresh := NewTypes[string]()
	require.NoError(t, SetOf[UserController](fresh, ""))

	applied := fresh.Import(exported)
	assert.Equal(t, 1, applied)

	path, ok := GetOf[UserController](fresh)
	assert.True(t, ok)
	assert.Equal(t, "/users", path)

	_, ok = GetOf[OrderController](fresh)
	assert.False(t, ok, "import must not invent entries for unregistered types")
}
