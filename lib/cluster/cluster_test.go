package cluster

import (
	"testing"

	"github.com/kvclabs/dkc/lib/provider"
	"github.com/kvclabs/dkc/lib/provider/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig("cluster.yaml")

	assert.Equal(t, "cluster.yaml", cfg.Path)
	assert.Equal(t, DefaultControlPort, cfg.Port)
	assert.NotEmpty(t, cfg.CUK)
	assert.True(t, cfg.Rejoin)
	assert.True(t, cfg.RetryRejoinForever)
	assert.True(t, cfg.CleanupOnClose)

	// every facade gets its own client identifier
	assert.NotEqual(t, cfg.CUK, NewConfig("cluster.yaml").CUK)
}

func TestNewValidation(t *testing.T) {
	_, err := NewWithProvider(Config{}, memory.New())
	require.Error(t, err)
	assert.Equal(t, provider.RetCInvalidArgument, provider.CodeOf(err))

	_, err = NewWithProvider(NewConfig("cluster.yaml"), nil)
	require.Error(t, err)
	assert.Equal(t, provider.RetCInvalidArgument, provider.CodeOf(err))
}

func TestFacadeRoundTrip(t *testing.T) {
	c, err := NewWithProvider(NewConfig("cluster.yaml"), memory.New())
	require.NoError(t, err)

	require.NoError(t, c.Set("greeting", "hello"))

	v, found, err := c.Get("greeting")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "hello", v)

	_, found, err = c.Get("missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Remove("greeting"))
	_, found, err = c.Get("greeting")
	require.NoError(t, err)
	assert.False(t, found)

	// removing a missing key is a backend failure, not a silent miss
	err = c.Remove("greeting")
	require.Error(t, err)
	assert.Equal(t, provider.RetCOperationFailed, provider.CodeOf(err))
}

func TestFacadeSubkeys(t *testing.T) {
	c, err := NewWithProvider(NewConfig("cluster.yaml"), memory.New())
	require.NoError(t, err)

	require.NoError(t, c.Set("parent", "v"))
	for _, k := range []string{"a", "b"} {
		require.NoError(t, c.Set(k, "v-"+k))
	}
	require.NoError(t, c.SetSubkeys("parent", []string{"a", "b"}))

	sks, found, err := c.GetSubkeys("parent")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"a", "b"}, sks)

	require.NoError(t, c.ClearSubkeys("parent"))

	_, found, err = c.GetSubkeys("parent")
	require.NoError(t, err)
	assert.False(t, found)

	_, found, err = c.Get("a")
	require.NoError(t, err)
	assert.False(t, found, "subkey entries are deleted by clear")
}

func TestSeverityAndStackNames(t *testing.T) {
	assert.Equal(t, "dump", SeverityDump.String())
	assert.Equal(t, "silent", SeveritySilent.String())
	assert.Equal(t, "store", StackStore.String())
	assert.Contains(t, StackAll.loggers(), "transport/rpc")
	assert.Equal(t, []string{"cluster", "session", "command"}, StackClient.loggers())
}
