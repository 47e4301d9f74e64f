// Package authstate holds the client-side view of the admin session: whether
// the user is signed in, who they are, and whether the first check is still
// in flight. A Context is created once per client and passed explicitly to
// whatever needs it.
package authstate

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/stockroom-dev/stockroom/internal/cli/client"
)

const (
	DashboardPath = "/dashboard"
	LoginPath     = "/login"
)

// User is the signed-in identity as seen by the client.
type User struct {
	AdminID  string `json:"adminId"`
	UserName string `json:"userName"`
}

// State is a snapshot of the client's session view.
type State struct {
	IsAuthenticated bool
	User            *User
	Loading         bool
}

// API is the subset of the HTTP client the auth context talks to.
type API interface {
	Check(ctx context.Context) (*client.CheckResponse, error)
	Login(ctx context.Context, userName, password string) (*client.LoginResponse, error)
	Logout(ctx context.Context) error
}

// Navigator moves the client to another route.
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string)

func (f NavigatorFunc) Navigate(path string) { f(path) }

// Access is the route-protection decision for the current state.
type Access int

const (
	AccessPending Access = iota
	AccessDenied
	AccessAllowed
)

func (a Access) String() string {
	switch a {
	case AccessPending:
		return "pending"
	case AccessDenied:
		return "denied"
	case AccessAllowed:
		return "allowed"
	default:
		return "unknown"
	}
}

// Context is the client auth state container.
type Context struct {
	api    API
	nav    Navigator
	logger zerolog.Logger

	mu    sync.RWMutex
	state State
}

// New returns a Context in the loading state. Call Hydrate once to resolve it.
func New(api API, nav Navigator, logger zerolog.Logger) *Context {
	if nav == nil {
		nav = NavigatorFunc(func(string) {})
	}
	return &Context{
		api:    api,
		nav:    nav,
		logger: logger.With().Str("component", "authstate").Logger(),
		state:  State{Loading: true},
	}
}

// State returns a copy of the current state.
func (c *Context) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := c.state
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

// Hydrate asks the server whether the stored session is valid. Transport
// failures resolve to unauthenticated.
func (c *Context) Hydrate(ctx context.Context) State {
	resp, err := c.api.Check(ctx)
	if err != nil {
		c.logger.Warn().Err(err).Msg("Session check failed")
		c.set(State{})
		return c.State()
	}

	if !resp.Authenticated || resp.User == nil {
		c.set(State{})
		return c.State()
	}

	c.set(State{
		IsAuthenticated: true,
		User:            &User{AdminID: resp.User.AdminID, UserName: resp.User.UserName},
	})
	return c.State()
}

// Login submits credentials. On success the state is authenticated and the
// client moves to the dashboard. On failure the returned error carries the
// server's message and the state is left as it was.
func (c *Context) Login(ctx context.Context, userName, password string) error {
	resp, err := c.api.Login(ctx, userName, password)
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			return errors.New(apiErr.Message)
		}
		return err
	}

	c.set(State{
		IsAuthenticated: true,
		User:            &User{AdminID: resp.Admin.AdminID, UserName: resp.Admin.UserName},
	})
	c.logger.Info().Str("username", resp.Admin.UserName).Msg("Signed in")
	c.nav.Navigate(DashboardPath)
	return nil
}

// Logout ends the session. Server errors are logged and the local state is
// cleared regardless.
func (c *Context) Logout(ctx context.Context) {
	if err := c.api.Logout(ctx); err != nil {
		c.logger.Error().Err(err).Msg("Logout request failed")
	}

	c.set(State{})
	c.nav.Navigate(LoginPath)
}

// Protect decides whether a protected view may render. A denied decision
// also sends the client to the login page.
func (c *Context) Protect() Access {
	s := c.State()
	switch {
	case s.Loading:
		return AccessPending
	case !s.IsAuthenticated:
		c.nav.Navigate(LoginPath)
		return AccessDenied
	default:
		return AccessAllowed
	}
}

func (c *Context) set(s State) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}
