// Package client is the Go consumer of the OphtalmoPro API: it implements the
// authentication contract (login, "who am I", authenticated checks) and the
// user-administration operations the front-end panel relies on. The bearer
// token obtained at login is attached to every subsequent request.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"

	"github.com/pkg/errors"

	"github.com/jbkamdem/ophtalmopro/core"
	"github.com/jbkamdem/ophtalmopro/core/user"
)

type (
	// AuthError signals invalid credentials, an inactive account or a
	// missing/expired token.
	AuthError struct {
		Message string
	}

	// APIError carries a backend rejection; its message is surfaced verbatim
	// to the operator.
	APIError struct {
		StatusCode int
		Message    string
	}
)

func (e *AuthError) Error() string { return e.Message }
func (e *APIError) Error() string  { return e.Message }

type Client struct {
	baseURL string
	http    *http.Client
	logger  core.Logger

	mu      sync.RWMutex
	token   string
	current *user.User // set after a successful Login/Me
}

func New(baseURL string, logger core.Logger, httpClient ...*http.Client) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    http.DefaultClient,
		logger:  logger,
	}
	if len(httpClient) > 0 && httpClient[0] != nil {
		c.http = httpClient[0]
	}
	return c
}

// Login exchanges credentials for a bearer token and remembers it.
func (c *Client) Login(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	var resp struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/login", body, &resp); err != nil {
		if apiErr, ok := errors.Cause(err).(*APIError); ok {
			return &AuthError{Message: apiErr.Message}
		}
		return &AuthError{Message: "Échec de la connexion. Vérifiez vos identifiants."}
	}

	c.mu.Lock()
	c.token = resp.Token
	c.current = nil
	c.mu.Unlock()
	return nil
}

// Me returns the authenticated user.
func (c *Client) Me(ctx context.Context) (user.User, error) {
	if c.Token() == "" {
		return user.User{}, &AuthError{Message: "not authenticated"}
	}
	var usr user.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &usr); err != nil {
		// transport failures count as "not authenticated" too
		if apiErr, ok := errors.Cause(err).(*APIError); ok {
			return user.User{}, &AuthError{Message: apiErr.Message}
		}
		return user.User{}, &AuthError{Message: "not authenticated"}
	}

	c.mu.Lock()
	c.current = &usr
	c.mu.Unlock()
	return usr, nil
}

// IsAuthenticated never fails: any error (missing token, expired token,
// unreachable service) is treated as "not authenticated".
func (c *Client) IsAuthenticated(ctx context.Context) bool {
	if c.Token() == "" {
		return false
	}
	_, err := c.Me(ctx)
	return err == nil
}

// Token returns the current bearer token, or "" when logged out.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Logout drops the token; subsequent guarded navigations redirect to /login.
func (c *Client) Logout() {
	c.mu.Lock()
	c.token = ""
	c.current = nil
	c.mu.Unlock()
}

// CurrentUser returns the last user loaded by Me, if any.
func (c *Client) CurrentUser() (user.User, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == nil {
		return user.User{}, false
	}
	return *c.current, true
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "marshalling request body")
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return errors.Wrap(err, "building request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "sending request")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		var payload struct {
			Error string `json:"error"`
		}
		msg := http.StatusText(resp.StatusCode)
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
			msg = payload.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if out != nil && resp.StatusCode != http.StatusNoContent {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return errors.Wrap(err, "decoding response body")
		}
	}
	return nil
}
