package credentials

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(url string) *ServerConfig {
	return &ServerConfig{
		ServerURL:    url,
		ClientID:     "receiver",
		ClientSecret: "secret",
		Scopes:       []string{"playback"},
	}
}

func TestStore_GetUnknown(t *testing.T) {
	store := NewStore[*ServerConfig]()

	cfg, ok := store.Get("media-1")
	assert.False(t, ok)
	assert.Nil(t, cfg)
	assert.Equal(t, 0, store.Len())
}

func TestStore_Add(t *testing.T) {
	store := NewStore[*ServerConfig]()
	original := testConfig("https://media-1.example.com")
	replacement := testConfig("https://other.example.com")

	require.True(t, store.Add("media-1", original))

	got, ok := store.Get("media-1")
	require.True(t, ok)
	assert.Same(t, original, got)

	// A second add must not overwrite the existing entry
	assert.False(t, store.Add("media-1", replacement))

	got, ok = store.Get("media-1")
	require.True(t, ok)
	assert.Same(t, original, got)
	assert.Equal(t, 1, store.Len())
}

func TestStore_Update(t *testing.T) {
	t.Run("absent entry is not created", func(t *testing.T) {
		store := NewStore[*ServerConfig]()

		assert.False(t, store.Update("media-1", testConfig("https://media-1.example.com")))

		_, ok := store.Get("media-1")
		assert.False(t, ok)
		assert.Equal(t, 0, store.Len())
	})

	t.Run("existing entry is replaced", func(t *testing.T) {
		store := NewStore[*ServerConfig]()
		replacement := testConfig("https://media-2.example.com")

		require.True(t, store.Add("media-1", testConfig("https://media-1.example.com")))
		assert.True(t, store.Update("media-1", replacement))

		got, ok := store.Get("media-1")
		require.True(t, ok)
		assert.Same(t, replacement, got)
	})
}

func TestStore_Remove(t *testing.T) {
	store := NewStore[*ServerConfig]()
	require.True(t, store.Add("media-1", testConfig("https://media-1.example.com")))

	assert.True(t, store.Remove("media-1"))
	_, ok := store.Get("media-1")
	assert.False(t, ok)

	assert.False(t, store.Remove("media-1"))
	assert.False(t, store.Remove("never-added"))
}

func TestStore_ZeroValueIsStorable(t *testing.T) {
	store := NewStore[*ServerConfig]()

	require.True(t, store.Add("media-1", nil))

	cfg, ok := store.Get("media-1")
	assert.True(t, ok)
	assert.Nil(t, cfg)

	// The nil entry still counts as present
	assert.False(t, store.Add("media-1", testConfig("https://media-1.example.com")))
	assert.True(t, store.Remove("media-1"))
}

func TestStore_ValuesReturnedUnchanged(t *testing.T) {
	store := NewStore[ServerConfig]()
	cfg := ServerConfig{
		ServerURL: "https://media-1.example.com",
		Extra:     map[string]string{"region": "eu"},
	}

	require.True(t, store.Add("media-1", cfg))

	got, ok := store.Get("media-1")
	require.True(t, ok)
	assert.Equal(t, cfg, got)
}

func TestStore_ServerIDs(t *testing.T) {
	store := NewStore[string]()
	for _, id := range []string{"zeta", "alpha", "mid"} {
		require.True(t, store.Add(id, id+"-config"))
	}

	assert.Equal(t, []string{"alpha", "mid", "zeta"}, store.ServerIDs())
	assert.Equal(t, 3, store.Len())
	assert.Empty(t, NewStore[string]().ServerIDs())
}

func TestSeed(t *testing.T) {
	store := NewStore[ServerConfig]()
	require.True(t, store.Add("existing", ServerConfig{ServerURL: "https://existing.example.com"}))

	rejected := Seed(store, map[string]ServerConfig{
		"existing": {ServerURL: "https://duplicate.example.com"},
		"media-1":  {ServerURL: "https://media-1.example.com"},
		"media-2":  {ServerURL: "https://media-2.example.com"},
	})

	assert.Equal(t, []string{"existing"}, rejected)
	assert.Equal(t, []string{"existing", "media-1", "media-2"}, store.ServerIDs())

	got, ok := store.Get("existing")
	require.True(t, ok)
	assert.Equal(t, "https://existing.example.com", got.ServerURL)
}

func TestServerConfig_HasSecret(t *testing.T) {
	assert.True(t, testConfig("https://media-1.example.com").HasSecret())
	assert.False(t, ServerConfig{}.HasSecret())
}
