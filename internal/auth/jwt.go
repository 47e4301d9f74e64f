package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionTTL is how long an issued session token stays valid.
const SessionTTL = 2 * time.Hour

var (
	// ErrSecretNotConfigured means no signing secret was supplied. It is a
	// configuration error: the server refuses to start without one.
	ErrSecretNotConfigured = errors.New("JWT secret not configured")

	// ErrInvalidToken covers every verification failure: bad signature,
	// malformed token, wrong algorithm, expired, missing identity claims.
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Claims is the signed payload of a session token.
type Claims struct {
	AdminID  string `json:"adminId"`
	UserName string `json:"userName"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies stateless session tokens. The zero value
// refuses to sign anything.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// TokenOption customises a TokenService.
type TokenOption func(*TokenService)

// WithTTL overrides the token lifetime.
func WithTTL(ttl time.Duration) TokenOption {
	return func(s *TokenService) { s.ttl = ttl }
}

// WithClock overrides the time source used for iat/exp and for verification.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

// NewTokenService returns a service signing with secret (HS256).
func NewTokenService(secret string, opts ...TokenOption) (*TokenService, error) {
	if secret == "" {
		return nil, ErrSecretNotConfigured
	}

	s := &TokenService{
		secret: []byte(secret),
		ttl:    SessionTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// TTL returns the lifetime given to issued tokens.
func (s *TokenService) TTL() time.Duration {
	if s.ttl == 0 {
		return SessionTTL
	}
	return s.ttl
}

func (s *TokenService) clock() time.Time {
	if s.now == nil {
		return time.Now()
	}
	return s.now()
}

// Issue signs a token carrying id that expires after TTL.
func (s *TokenService) Issue(id Identity) (string, error) {
	if s == nil || len(s.secret) == 0 {
		return "", ErrSecretNotConfigured
	}

	now := s.clock()
	claims := Claims{
		AdminID:  id.AdminID,
		UserName: id.UserName,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.TTL())),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature and expiry and returns the identity the token
// was issued for. All failures are reported as ErrInvalidToken; the
// underlying parse error is wrapped for logging.
func (s *TokenService) Verify(tokenString string) (Identity, error) {
	if s == nil || len(s.secret) == 0 {
		return Identity{}, ErrSecretNotConfigured
	}
	if tokenString == "" {
		return Identity{}, ErrInvalidToken
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.clock),
	)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return Identity{}, ErrInvalidToken
	}
	if claims.AdminID == "" || claims.UserName == "" {
		return Identity{}, fmt.Errorf("%w: missing identity claims", ErrInvalidToken)
	}

	return Identity{AdminID: claims.AdminID, UserName: claims.UserName}, nil
}
