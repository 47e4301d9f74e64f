package commands

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/stockroom-dev/stockroom/internal/admins"
	"github.com/stockroom-dev/stockroom/internal/cli/auth"
	"github.com/stockroom-dev/stockroom/internal/config"
	"github.com/stockroom-dev/stockroom/internal/database"
	"github.com/stockroom-dev/stockroom/internal/database/dbtest"
	"github.com/stockroom-dev/stockroom/internal/server"
)

// mockTokenStore is a simple in-memory token store for testing
type mockTokenStore struct {
	tokens map[string]string
}

func newMockTokenStore() *mockTokenStore {
	return &mockTokenStore{tokens: make(map[string]string)}
}

func (m *mockTokenStore) SaveToken(serverURL, token string) error {
	m.tokens[serverURL] = token
	return nil
}

func (m *mockTokenStore) LoadToken(serverURL string) (string, error) {
	token, exists := m.tokens[serverURL]
	if !exists {
		return "", auth.ErrNotLoggedIn
	}
	return token, nil
}

func (m *mockTokenStore) DeleteToken(serverURL string) error {
	delete(m.tokens, serverURL)
	return nil
}

// scriptedPrompter answers prompts from a fixed queue. An empty queue
// behaves like a non-interactive stdin.
type scriptedPrompter struct {
	answers []string
	asked   []string
}

func (p *scriptedPrompter) next(label string) (string, error) {
	p.asked = append(p.asked, label)
	if len(p.answers) == 0 {
		return "", ErrNonInteractive
	}
	a := p.answers[0]
	p.answers = p.answers[1:]
	return a, nil
}

func (p *scriptedPrompter) Text(label string) (string, error)     { return p.next(label) }
func (p *scriptedPrompter) Password(label string) (string, error) { return p.next(label) }

type testCLI struct {
	opts   *Options
	out    *bytes.Buffer
	tokens *mockTokenStore
	prompt *scriptedPrompter

	// serverDB backs the server started by startServer.
	serverDB *gorm.DB
}

// newTestCLI builds Options against a temp config file and a temp SQLite database.
func newTestCLI(t *testing.T) *testCLI {
	t.Helper()
	t.Setenv(envUserName, "")
	t.Setenv(envPassword, "")

	dir := t.TempDir()
	dbURL := filepath.Join(dir, "stockroom.sqlite")

	out := &bytes.Buffer{}
	tokens := newMockTokenStore()
	prompt := &scriptedPrompter{}

	return &testCLI{
		opts: &Options{
			ConfigPath: filepath.Join(dir, "config.yaml"),
			Tokens:     tokens,
			Prompt:     prompt,
			Out:        out,
			Logger:     zerolog.Nop(),
			OpenDB: func() (*gorm.DB, error) {
				return database.Open(config.DatabaseConfig{URL: dbURL}, zerolog.Nop())
			},
		},
		out:    out,
		tokens: tokens,
		prompt: prompt,
	}
}

// startServer runs a real API server with one admin and points the CLI at it.
func (c *testCLI) startServer(t *testing.T) string {
	t.Helper()

	db := dbtest.New(t)
	c.serverDB = db
	_, err := admins.NewService(db, zerolog.Nop()).Create(context.Background(), "admin", "correct-password")
	require.NoError(t, err)

	cfg := &config.Config{
		Environment: config.EnvTest,
		HTTP:        config.HTTPConfig{Port: "0"},
		Auth:        config.AuthConfig{JWTSecret: "cli-test-secret"},
	}
	srv, err := server.New(cfg, db, zerolog.Nop(), "test")
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	c.opts.Server = ts.URL
	return ts.URL
}

var errBoom = errors.New("boom")

type failingTokenStore struct{ mockTokenStore }

func (failingTokenStore) LoadToken(string) (string, error) { return "", errBoom }
