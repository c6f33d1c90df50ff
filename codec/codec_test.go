package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestByName(t *testing.T) {
	c, ok := ByName("json")
	require.True(t, ok)
	assert.Equal(t, "json", c.Name())

	c, ok = ByName("go-json")
	require.True(t, ok)
	assert.Equal(t, "go-json", c.Name())

	_, ok = ByName("msgpack")
	assert.False(t, ok)
}

func TestDefaultIsRegistered(t *testing.T) {
	c, ok := ByName(Default.Name())
	require.True(t, ok)
	assert.Equal(t, Default.Name(), c.Name())
}

func TestCodecsAgree(t *testing.T) {
	value := map[string]string{"app.UserController": "/users"}

	data := MustMarshal(JSON{}, value)

	var decoded map[string]string
	require.NoError(t, GoJSON{}.Unmarshal(data, &decoded))
	assert.Equal(t, value, decoded, "codecs must interoperate on the same bytes")
}
