package credstore

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/berea-app/berea/api/schemas"
)

func setupStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "creds", "credentials.json")
	store, err := Open(path)
	require.NoError(t, err)
	return store
}

// -- Test Cases: Load/Save Round Trip --

func TestStore_MissingFileIsEmptySet(t *testing.T) {
	store := setupStore(t)

	creds, err := store.Load()

	require.NoError(t, err)
	assert.False(t, creds.HasAnyProviderKey())
	assert.Empty(t, creds.ESV)
}

func TestStore_SaveLoadRoundTrip(t *testing.T) {
	store := setupStore(t)
	want := Credentials{
		Gemini:            "gm-key",
		ESV:               "esv-key",
		PreferredProvider: schemas.ProviderGemini,
	}

	require.NoError(t, store.Save(want))

	got, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestStore_SaveRestrictsPermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permission bits")
	}
	store := setupStore(t)
	require.NoError(t, store.Save(Credentials{Groq: "gq-key"}))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestStore_CorruptFile(t *testing.T) {
	store := setupStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(store.Path()), 0o700))
	require.NoError(t, os.WriteFile(store.Path(), []byte("{not json"), 0o600))

	_, err := store.Load()

	assert.Error(t, err)
}

// -- Test Cases: Credential Set --

func TestCredentials_KeyAccess(t *testing.T) {
	creds := Credentials{Groq: "a", OpenRouter: "b", Gemini: "c", Claude: "d"}

	assert.Equal(t, "a", creds.Key(schemas.ProviderGroq))
	assert.Equal(t, "b", creds.Key(schemas.ProviderOpenRouter))
	assert.Equal(t, "c", creds.Key(schemas.ProviderGemini))
	assert.Equal(t, "d", creds.Key(schemas.ProviderClaude))
	assert.Empty(t, creds.Key(schemas.ProviderError))
}

func TestCredentials_SetKey(t *testing.T) {
	var creds Credentials

	require.NoError(t, creds.SetKey(schemas.ProviderClaude, "ck"))
	assert.Equal(t, "ck", creds.Claude)

	assert.Error(t, creds.SetKey("ollama", "x"))
}

func TestCredentials_HasAnyProviderKey(t *testing.T) {
	assert.False(t, Credentials{ESV: "only-esv"}.HasAnyProviderKey())
	assert.True(t, Credentials{OpenRouter: "or"}.HasAnyProviderKey())
}
