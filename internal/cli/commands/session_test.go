package commands

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockroom-dev/stockroom/internal/models"
)

func TestLogin_WithFlags(t *testing.T) {
	cli := newTestCLI(t)
	serverURL := cli.startServer(t)

	require.NoError(t, runLogin(context.Background(), cli.opts, "admin", "correct-password"))

	assert.Contains(t, cli.out.String(), "Login successful")
	assert.Contains(t, cli.out.String(), "User: admin")
	assert.NotEmpty(t, cli.tokens.tokens[serverURL])
	assert.Empty(t, cli.prompt.asked)
}

func TestLogin_FromEnvironment(t *testing.T) {
	cli := newTestCLI(t)
	serverURL := cli.startServer(t)
	t.Setenv(envUserName, "admin")
	t.Setenv(envPassword, "correct-password")

	require.NoError(t, runLogin(context.Background(), cli.opts, "", ""))
	assert.NotEmpty(t, cli.tokens.tokens[serverURL])
}

func TestLogin_Prompts(t *testing.T) {
	cli := newTestCLI(t)
	serverURL := cli.startServer(t)
	cli.prompt.answers = []string{"admin", "correct-password"}

	require.NoError(t, runLogin(context.Background(), cli.opts, "", ""))
	assert.Equal(t, []string{"Username", "Password"}, cli.prompt.asked)
	assert.NotEmpty(t, cli.tokens.tokens[serverURL])
}

func TestLogin_NonInteractive(t *testing.T) {
	cli := newTestCLI(t)
	cli.startServer(t)

	err := runLogin(context.Background(), cli.opts, "admin", "")
	require.Error(t, err)
	assert.Equal(t, "password is required in non-interactive mode (use --password flag or STOCKROOM_PASSWORD env var)", err.Error())
}

func TestLogin_InvalidCredentials(t *testing.T) {
	cli := newTestCLI(t)
	cli.startServer(t)

	err := runLogin(context.Background(), cli.opts, "admin", "wrong")
	require.Error(t, err)
	assert.Equal(t, "login failed: Invalid credentials", err.Error())
	assert.Empty(t, cli.tokens.tokens)
}

func TestWhoamiAndLogout(t *testing.T) {
	cli := newTestCLI(t)
	serverURL := cli.startServer(t)
	ctx := context.Background()

	require.NoError(t, runWhoami(ctx, cli.opts))
	assert.Contains(t, cli.out.String(), "Not logged in")

	require.NoError(t, runLogin(ctx, cli.opts, "admin", "correct-password"))
	cli.out.Reset()

	require.NoError(t, runWhoami(ctx, cli.opts))
	assert.Contains(t, cli.out.String(), "admin (")
	assert.Contains(t, cli.out.String(), serverURL)
	assert.Contains(t, cli.out.String(), "Admin since:")

	cli.out.Reset()
	require.NoError(t, runLogout(ctx, cli.opts))
	assert.Contains(t, cli.out.String(), "Logged out")
	assert.NotContains(t, cli.tokens.tokens, serverURL)

	cli.out.Reset()
	require.NoError(t, runLogout(ctx, cli.opts))
	assert.Contains(t, cli.out.String(), "Not logged in")
}

func TestWhoami_StaleTokenIsDropped(t *testing.T) {
	cli := newTestCLI(t)
	serverURL := cli.startServer(t)
	cli.tokens.tokens[serverURL] = "not-a-jwt"

	require.NoError(t, runWhoami(context.Background(), cli.opts))
	assert.Contains(t, cli.out.String(), "session expired")
	assert.NotContains(t, cli.tokens.tokens, serverURL)
}

func TestWhoami_UnreachableServerKeepsToken(t *testing.T) {
	cli := newTestCLI(t)
	ts := httptest.NewServer(http.NotFoundHandler())
	serverURL := ts.URL
	ts.Close()

	cli.opts.Server = serverURL
	cli.tokens.tokens[serverURL] = "still-valid-token"

	err := runWhoami(context.Background(), cli.opts)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to reach "+serverURL)
	assert.NotContains(t, cli.out.String(), "session expired")
	assert.Equal(t, "still-valid-token", cli.tokens.tokens[serverURL])
}

func TestWhoami_DeletedAdminDropsToken(t *testing.T) {
	cli := newTestCLI(t)
	serverURL := cli.startServer(t)
	ctx := context.Background()

	require.NoError(t, runLogin(ctx, cli.opts, "admin", "correct-password"))
	cli.out.Reset()

	// The token verifies, but the record behind it is gone.
	require.NoError(t, cli.serverDB.Where("user_name = ?", "admin").Delete(&models.Admin{}).Error)

	require.NoError(t, runWhoami(ctx, cli.opts))
	assert.Contains(t, cli.out.String(), "session expired")
	assert.NotContains(t, cli.tokens.tokens, serverURL)
}

func TestWhoami_TokenStoreError(t *testing.T) {
	cli := newTestCLI(t)
	cli.startServer(t)
	cli.opts.Tokens = &failingTokenStore{}

	assert.ErrorIs(t, runWhoami(context.Background(), cli.opts), errBoom)
}
