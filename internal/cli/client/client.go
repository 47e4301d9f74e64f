package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"
)

const (
	sessionCookieName = "token"

	pathLogin  = "/api/auth/login"
	pathLogout = "/api/auth/logout"
	pathCheck  = "/api/auth/check"
	pathMe     = "/api/auth/me"
)

// ErrNotAuthenticated is returned when the server has no valid session for the client.
var ErrNotAuthenticated = errors.New("not authenticated")

// APIError carries the status and the server's error message for a failed call.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed (status %d)", e.StatusCode)
	}
	return e.Message
}

// Client represents an HTTP client for the Stockroom API. The session cookie
// lives in its cookie jar, the same way a browser keeps it.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	jar        http.CookieJar
}

// New creates a new API client for the server at baseURL
func New(baseURL string) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server URL %q: scheme must be http or https", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	c := &Client{baseURL: u, jar: jar}
	c.SetHTTPClient(&http.Client{Timeout: 30 * time.Second})
	return c, nil
}

// SetHTTPClient sets a custom HTTP client. The client's jar is kept, and
// redirects are not followed so a gate redirect surfaces as an error.
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	hc := *httpClient
	hc.Jar = c.jar
	hc.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	c.httpClient = &hc
}

// BaseURL returns the server URL the client talks to
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// SessionToken returns the session cookie value held in the jar, or "".
func (c *Client) SessionToken() string {
	for _, ck := range c.jar.Cookies(c.baseURL) {
		if ck.Name == sessionCookieName {
			return ck.Value
		}
	}
	return ""
}

// SetSessionToken seeds the jar with a previously saved session token.
func (c *Client) SetSessionToken(token string) {
	c.jar.SetCookies(c.baseURL, []*http.Cookie{{
		Name:  sessionCookieName,
		Value: token,
		Path:  "/",
	}})
}

// User is the identity the server returns for a session.
type User struct {
	AdminID  string `json:"adminId"`
	UserName string `json:"userName"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

// LoginResponse represents the login response
type LoginResponse struct {
	Success bool `json:"success"`
	Admin   User `json:"admin"`
}

// CheckResponse represents the session check response
type CheckResponse struct {
	Authenticated bool  `json:"authenticated"`
	User          *User `json:"user,omitempty"`
}

// AdminDetail is the stored record returned by /api/auth/me
type AdminDetail struct {
	AdminID   string    `json:"adminId"`
	UserName  string    `json:"userName"`
	CreatedAt time.Time `json:"createdAt"`
}

// Login authenticates with the server. On success the session cookie is in the jar.
func (c *Client) Login(ctx context.Context, userName, password string) (*LoginResponse, error) {
	resp, err := c.do(ctx, http.MethodPost, pathLogin, LoginRequest{UserName: userName, Password: password})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, readAPIError(resp)
	}

	var loginResp LoginResponse
	if err := json.NewDecoder(resp.Body).Decode(&loginResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &loginResp, nil
}

// Logout asks the server to clear the session cookie
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.do(ctx, http.MethodPost, pathLogout, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return readAPIError(resp)
	}
	return nil
}

// Check reports whether the jar holds a valid session. A 401 is not an
// error, it is an unauthenticated answer.
func (c *Client) Check(ctx context.Context) (*CheckResponse, error) {
	resp, err := c.do(ctx, http.MethodGet, pathCheck, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var check CheckResponse
		if err := json.NewDecoder(resp.Body).Decode(&check); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		return &check, nil
	case http.StatusUnauthorized:
		return &CheckResponse{Authenticated: false}, nil
	default:
		return nil, readAPIError(resp)
	}
}

// Me fetches the stored admin record for the current session
func (c *Client) Me(ctx context.Context) (*AdminDetail, error) {
	resp, err := c.do(ctx, http.MethodGet, pathMe, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusTemporaryRedirect:
		return nil, ErrNotAuthenticated
	default:
		return nil, readAPIError(resp)
	}

	var detail AdminDetail
	if err := json.NewDecoder(resp.Body).Decode(&detail); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &detail, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	return resp, nil
}

func readAPIError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return &APIError{StatusCode: resp.StatusCode, Message: payload.Error}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
}
