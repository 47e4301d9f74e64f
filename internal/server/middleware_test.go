package server

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stockroom-dev/stockroom/internal/auth"
	"github.com/stockroom-dev/stockroom/internal/config"
)

func TestIsProtectedPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/dashboard", true},
		{"/dashboard/sales", true},
		{"/products", true},
		{"/products/42/edit", true},
		{"/inventory", true},
		{"/expenses/2024", true},
		{"/users", true},
		{"/settings", true},
		{"/api", true},
		{"/api/products", true},
		{"/", false},
		{"/login", false},
		{"/health", false},
		{"/productsfeed", false},
		{"/dashboards", false},
		{"/assets/app.js", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, isProtectedPath(tt.path))
		})
	}
}

func TestRouteGate(t *testing.T) {
	env := newTestEnv(t)
	garbage := &http.Cookie{Name: auth.CookieName, Value: "not-a-jwt"}

	tests := []struct {
		name         string
		method       string
		path         string
		cookie       *http.Cookie
		wantRedirect bool
	}{
		{name: "dashboard without cookie", method: http.MethodGet, path: "/dashboard", wantRedirect: true},
		{name: "nested page without cookie", method: http.MethodGet, path: "/products/42", wantRedirect: true},
		{name: "api without cookie", method: http.MethodGet, path: "/api/auth/me", wantRedirect: true},
		{name: "unclean path without cookie", method: http.MethodGet, path: "/api/../settings", wantRedirect: true},
		{name: "empty cookie counts as absent", method: http.MethodGet, path: "/inventory", cookie: &http.Cookie{Name: auth.CookieName, Value: ""}, wantRedirect: true},
		{name: "login endpoint is public", method: http.MethodPost, path: PathLogin},
		{name: "logout endpoint is public", method: http.MethodPost, path: PathLogout},
		{name: "check endpoint is public", method: http.MethodGet, path: PathCheck},
		{name: "login page is not gated", method: http.MethodGet, path: LoginPage},
		{name: "health is not gated", method: http.MethodGet, path: "/health"},
		{name: "similar prefix is not gated", method: http.MethodGet, path: "/usersettings"},
		{name: "any cookie passes the gate", method: http.MethodGet, path: "/dashboard", cookie: garbage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cookies []*http.Cookie
			if tt.cookie != nil {
				cookies = append(cookies, tt.cookie)
			}

			rec := env.do(t, tt.method, tt.path, "", cookies...)
			if tt.wantRedirect {
				assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
				assert.Equal(t, LoginPage, rec.Header().Get("Location"))
			} else {
				assert.NotEqual(t, http.StatusTemporaryRedirect, rec.Code)
				assert.Empty(t, rec.Header().Get("Location"))
			}
		})
	}
}

func TestRouteGate_PresentButInvalidCookieIsCaughtDownstream(t *testing.T) {
	env := newTestEnv(t)
	garbage := &http.Cookie{Name: auth.CookieName, Value: "not-a-jwt"}

	rec := env.do(t, http.MethodGet, "/api/auth/me", "", garbage)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = env.do(t, http.MethodGet, PathCheck, "", garbage)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServeWeb(t *testing.T) {
	webDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(webDir, "index.html"), []byte("<html>shell</html>"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(webDir, "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(webDir, "assets", "app.js"), []byte("console.log(1)"), 0o644))

	env := newTestEnv(t, func(c *config.Config) { c.HTTP.WebDir = webDir })
	cookie := env.validCookie(t)

	rec := env.do(t, http.MethodGet, LoginPage, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "shell")

	rec = env.do(t, http.MethodGet, "/assets/app.js", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "console.log")

	rec = env.do(t, http.MethodGet, "/dashboard", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "shell")

	rec = env.do(t, http.MethodGet, "/api/unknown", "", cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Not found"}`, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/../../etc/passwd", "")
	assert.NotContains(t, rec.Body.String(), "root:")
}

func TestServeWeb_NoWebDir(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/dashboard", "", env.validCookie(t))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
