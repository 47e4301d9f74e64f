package server

import (
	"errors"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/stockroom-dev/stockroom/internal/auth"
)

const (
	PathLogin  = "/api/auth/login"
	PathLogout = "/api/auth/logout"
	PathCheck  = "/api/auth/check"

	// LoginPage is where the gate sends requests without a session cookie.
	LoginPage = "/login"

	identityKey = "identity"
)

var (
	ErrMissingToken = errors.New("missing session cookie")
	ErrInvalidToken = errors.New("invalid token")
)

// protectedPrefixes are gated; each matches itself and everything below it.
var protectedPrefixes = []string{
	"/dashboard",
	"/products",
	"/inventory",
	"/expenses",
	"/users",
	"/settings",
	"/api",
}

// publicPaths pass the gate without a cookie.
var publicPaths = map[string]bool{
	PathLogin:  true,
	PathLogout: true,
	PathCheck:  true,
}

func isProtectedPath(p string) bool {
	for _, prefix := range protectedPrefixes {
		if p == prefix || strings.HasPrefix(p, prefix+"/") {
			return true
		}
	}
	return false
}

func setIdentity(c *gin.Context, id auth.Identity) {
	c.Set(identityKey, id)
}

// GetIdentity returns the identity stored by RequireSession.
func GetIdentity(c *gin.Context) (auth.Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return auth.Identity{}, false
	}
	id, ok := v.(auth.Identity)
	return id, ok
}

func respondWithError(c *gin.Context, log zerolog.Logger, statusCode int, err error, message string) {
	log.Warn().Err(err).Str("path", c.Request.URL.Path).Msg(message)
	c.AbortWithStatusJSON(statusCode, gin.H{"error": message})
}

// RouteGate redirects requests for protected paths to the login page when no
// session cookie is present. It only checks presence: signature and expiry
// are verified by RequireSession and the check endpoint.
func RouteGate(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := path.Clean("/" + c.Request.URL.Path)

		if publicPaths[p] || !isProtectedPath(p) {
			c.Next()
			return
		}

		if _, ok := auth.TokenFrom(c.Request); !ok {
			log.Debug().Str("path", p).Msg("No session cookie, redirecting to login")
			c.Redirect(http.StatusTemporaryRedirect, LoginPage)
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireSession verifies the session token and stores the identity in the context.
func RequireSession(tokens *auth.TokenService, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := auth.TokenFrom(c.Request)
		if !ok {
			respondWithError(c, log, http.StatusUnauthorized, ErrMissingToken, "Unauthorized")
			return
		}

		id, err := tokens.Verify(token)
		if err != nil {
			log.Debug().Err(err).Msg("Session token rejected")
			respondWithError(c, log, http.StatusUnauthorized, ErrInvalidToken, "Unauthorized")
			return
		}

		setIdentity(c, id)
		c.Next()
	}
}
