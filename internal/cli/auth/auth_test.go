package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestKeyringStore(t *testing.T) {
	keyring.MockInit()
	store := KeyringStore{}

	_, err := store.LoadToken("http://localhost:8080")
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	require.NoError(t, store.SaveToken("http://localhost:8080/", "tok"))

	token, err := store.LoadToken("http://localhost:8080")
	require.NoError(t, err)
	assert.Equal(t, "tok", token, "trailing slash does not change the key")

	_, err = store.LoadToken("http://other:8080")
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	require.NoError(t, store.DeleteToken("http://localhost:8080"))
	require.NoError(t, store.DeleteToken("http://localhost:8080"), "deleting twice is fine")

	_, err = store.LoadToken("http://localhost:8080")
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}
