// Package client implements the account service contract over JSON/HTTP.
// The session credential is a cookie issued at login and carried ambiently
// by the jar on every subsequent call; no operation other than Authenticate
// and Register ever sees a raw secret.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/nfrund/accountctl/internal/classify"
	"github.com/nfrund/accountctl/internal/domain"
)

// DefaultTimeout bounds every request. The original system waited forever;
// that gap is closed here explicitly rather than inherited.
const DefaultTimeout = 10 * time.Second

const identityCacheKey = "identity:current"

// Client talks to the account service. It implements domain.AccountService.
type Client struct {
	http    *http.Client
	baseURL string
	cache   *cache.Cache
}

// Option customizes a Client.
type Option func(*Client)

// WithTimeout overrides the default request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.http.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client entirely. The caller is
// responsible for attaching a cookie jar if session calls are needed.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New creates a Client for the service at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	c := &Client{
		http: &http.Client{
			Timeout: DefaultTimeout,
			Jar:     jar,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		cache:   cache.New(5*time.Minute, 10*time.Minute),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// errorBody is the failure envelope the service uses on every route.
type errorBody struct {
	Error string `json:"error"`
}

// userEnvelope wraps the identity on authenticate and register responses.
type userEnvelope struct {
	User domain.Identity `json:"user"`
}

// Authenticate exchanges credentials for an identity and a session cookie.
// The identifier is sent as an email when it contains "@", as a username
// otherwise.
func (c *Client) Authenticate(ctx context.Context, identifier, secret string) (*domain.Identity, error) {
	creds := domain.Credentials{Identifier: identifier, Secret: secret}

	body := map[string]string{"password": creds.Secret}
	if creds.IsEmail() {
		body["email"] = creds.Identifier
		slog.Debug("attempting login", "identifier_kind", "email")
	} else {
		body["username"] = creds.Identifier
		slog.Debug("attempting login", "identifier_kind", "username")
	}

	var env userEnvelope
	if err := c.do(ctx, http.MethodPost, "/login", body, &env); err != nil {
		return nil, err
	}

	c.cache.Set(identityCacheKey, env.User, cache.DefaultExpiration)
	return &env.User, nil
}

// Register creates a new account. It does not log the new account in; the
// caller authenticates separately.
func (c *Client) Register(ctx context.Context, displayName, email, secret string) error {
	body := map[string]string{
		"name":     displayName,
		"email":    email,
		"password": secret,
	}
	return c.do(ctx, http.MethodPost, "/register", body, nil)
}

// CurrentProfile returns the identity of the active session. Results are
// cached until the next mutation so repeated profile screens don't re-fetch.
func (c *Client) CurrentProfile(ctx context.Context) (*domain.Identity, error) {
	if x, found := c.cache.Get(identityCacheKey); found {
		identity := x.(domain.Identity)
		return &identity, nil
	}

	var identity domain.Identity
	if err := c.do(ctx, http.MethodGet, "/me", nil, &identity); err != nil {
		return nil, err
	}

	c.cache.Set(identityCacheKey, identity, cache.DefaultExpiration)
	return &identity, nil
}

// UpdateProfile replaces the profile fields of the account with the given
// id. Empty fields in the update are left unchanged by the service.
func (c *Client) UpdateProfile(ctx context.Context, id string, update domain.ProfileUpdate) (*domain.Identity, error) {
	var identity domain.Identity
	if err := c.do(ctx, http.MethodPut, "/user/"+id, update, &identity); err != nil {
		return nil, err
	}

	c.cache.Set(identityCacheKey, identity, cache.DefaultExpiration)
	return &identity, nil
}

// DeleteAccount irreversibly deletes the account with the given id. The id
// must match the session owner.
func (c *Client) DeleteAccount(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodDelete, "/user/"+id, nil, nil); err != nil {
		return err
	}
	c.cache.Delete(identityCacheKey)
	return nil
}

// EndSession invalidates the session server-side. Callers treat this as
// best-effort cleanup; see session.Manager.Logout.
func (c *Client) EndSession(ctx context.Context) error {
	c.cache.Delete(identityCacheKey)
	return c.do(ctx, http.MethodPost, "/logout", nil, nil)
}

// do performs one request/response cycle. Transport failures become
// NetworkError; non-2xx responses are classified into the domain taxonomy.
func (c *Client) do(ctx context.Context, method, path string, body, response any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &domain.NetworkError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var failure errorBody
		if err := json.NewDecoder(resp.Body).Decode(&failure); err != nil {
			failure.Error = ""
		}
		classified := classify.Classify(resp.StatusCode, failure.Error)
		slog.Debug("request failed", "method", method, "path", path,
			"status", resp.StatusCode, "message", failure.Error)
		return classified
	}

	if response == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(response); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

var _ domain.AccountService = (*Client)(nil)
