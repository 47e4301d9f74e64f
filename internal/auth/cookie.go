package auth

import (
	"net/http"
	"time"
)

// CookieName is the cookie carrying the session token.
const CookieName = "token"

// CookieStore writes and clears the session cookie. Attributes are fixed at
// construction; only Secure varies, and only by deployment environment.
type CookieStore struct {
	secure bool
	maxAge time.Duration
}

// NewCookieStore returns a store whose cookies live for maxAge and carry the
// Secure flag when secure is true.
func NewCookieStore(secure bool, maxAge time.Duration) *CookieStore {
	if maxAge <= 0 {
		maxAge = SessionTTL
	}
	return &CookieStore{secure: secure, maxAge: maxAge}
}

// Attach sets the session cookie to token.
func (s *CookieStore) Attach(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// Clear overwrites the session cookie with an empty, already-expired one.
func (s *CookieStore) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
	})
}

// TokenFrom returns the session token on r, if any.
func TokenFrom(r *http.Request) (string, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}
