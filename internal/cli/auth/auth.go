package auth

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"
)

const service = "stockroom-cli"

// ErrNotLoggedIn is returned when no session token is stored for a server.
var ErrNotLoggedIn = errors.New("not logged in. Please run 'stockroom login' first")

// TokenStore persists session tokens per server. Tests swap in an in-memory store.
type TokenStore interface {
	SaveToken(serverURL, token string) error
	LoadToken(serverURL string) (string, error)
	DeleteToken(serverURL string) error
}

// KeyringStore keeps session tokens in the OS keychain/credential manager.
type KeyringStore struct{}

// Default is the store the CLI uses outside tests.
var Default TokenStore = KeyringStore{}

// keyFor returns a unique keyring key for a server's session token
func keyFor(serverURL string) string {
	return "session-" + strings.TrimRight(serverURL, "/")
}

func (KeyringStore) SaveToken(serverURL, token string) error {
	if err := keyring.Set(service, keyFor(serverURL), token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

func (KeyringStore) LoadToken(serverURL string) (string, error) {
	token, err := keyring.Get(service, keyFor(serverURL))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotLoggedIn
		}
		return "", fmt.Errorf("failed to load token: %w", err)
	}
	return token, nil
}

func (KeyringStore) DeleteToken(serverURL string) error {
	if err := keyring.Delete(service, keyFor(serverURL)); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete token: %w", err)
	}
	return nil
}
