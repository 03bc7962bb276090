package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/zerobalance/internal/client/models"
	"github.com/dmitrijs2005/zerobalance/internal/common"
	"github.com/dmitrijs2005/zerobalance/internal/logging"
)

const maxBodySize = 1 << 20

var ErrInvalidBaseURL = errors.New("invalid API base URL")

// Request is one API call. Token, when set, is attached instead of the
// client's TokenSource. Public requests never carry a credential.
type Request struct {
	Method string
	Path   string
	Body   any
	Token  string
	Public bool
}

// HTTPClient implements Client over the backend's REST/JSON API.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	log        logging.Logger
}

var _ Client = (*HTTPClient)(nil)

type Option func(*HTTPClient)

// WithHTTPClient sets the underlying http.Client. Its transport is wrapped,
// the passed value itself is left untouched.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.httpClient = hc }
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *HTTPClient) { c.tokens = ts }
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) { c.log = l }
}

// NewHTTPClient creates a client for the API rooted at baseURL, which must
// be an absolute http(s) URL.
func NewHTTPClient(baseURL string, opts ...Option) (*HTTPClient, error) {
	u, err := url.Parse(baseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidBaseURL, baseURL)
	}

	c := &HTTPClient{baseURL: strings.TrimRight(baseURL, "/")}
	for _, opt := range opts {
		opt(c)
	}
	c.log = logging.OrNop(c.log).With("component", "api_client")

	hc := http.Client{}
	if c.httpClient != nil {
		hc = *c.httpClient
	}
	hc.Transport = newTransport(hc.Transport, c.log)
	c.httpClient = &hc

	return c, nil
}

func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// Do performs r and decodes a 2xx JSON body into out (when out is non-nil).
// Every failure is returned as *HTTPError.
func (c *HTTPClient) Do(ctx context.Context, r Request, out any) error {
	var token string
	if !r.Public {
		token = r.Token
		if token == "" && c.tokens != nil {
			token, _ = c.tokens.Token()
		}
	}

	req, err := c.newRequest(ctx, r, token)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return newNetworkError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return newNetworkError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newStatusError(resp.StatusCode, body, token != "")
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &HTTPError{Status: resp.StatusCode, Body: body, Kind: ErrServer, Err: err}
	}
	if v, ok := out.(interface{ validate() error }); ok {
		if err := v.validate(); err != nil {
			return &HTTPError{Status: resp.StatusCode, Body: body, Kind: ErrServer, Err: err}
		}
	}
	return nil
}

// newRequest builds the outgoing request and attaches token, if any.
func (c *HTTPClient) newRequest(ctx context.Context, r Request, token string) (*http.Request, error) {
	var body io.Reader
	if r.Body != nil {
		b, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, c.baseURL+r.Path, body)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(common.AuthorizationHeader, common.BearerScheme+" "+token)
	}
	return req, nil
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type updateProfileRequest struct {
	Name string `json:"name"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type authEnvelope struct {
	models.AuthResponse
}

func (e *authEnvelope) validate() error {
	if e.Token == "" || e.User == nil {
		return errors.New("auth response without token or user")
	}
	return nil
}

type userEnvelope struct {
	User *models.User `json:"user"`
}

func (e *userEnvelope) validate() error {
	if e.User == nil {
		return errors.New("response without user")
	}
	return nil
}

type profileEnvelope struct {
	Profile *models.Profile `json:"profile"`
	Message string          `json:"message"`
}

func (e *profileEnvelope) validate() error {
	if e.Profile == nil {
		return errors.New("response without profile")
	}
	return nil
}

type statsEnvelope struct {
	Stats *models.ProfileStats `json:"stats"`
}

func (e *statsEnvelope) validate() error {
	if e.Stats == nil {
		return errors.New("response without stats")
	}
	return nil
}

type messageEnvelope struct {
	Message string `json:"message"`
}

type healthEnvelope struct {
	models.Health
}

func (e *healthEnvelope) validate() error {
	if e.Status != "ok" {
		return fmt.Errorf("health status %q", e.Status)
	}
	return nil
}

func (c *HTTPClient) Signup(ctx context.Context, name, email string, password []byte) (*models.AuthResponse, error) {
	var out authEnvelope
	req := Request{
		Method: http.MethodPost,
		Path:   "/api/auth/signup",
		Public: true,
		Body:   signupRequest{Name: name, Email: email, Password: string(password)},
	}
	if err := c.Do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out.AuthResponse, nil
}

func (c *HTTPClient) Login(ctx context.Context, email string, password []byte) (*models.AuthResponse, error) {
	var out authEnvelope
	req := Request{
		Method: http.MethodPost,
		Path:   "/api/auth/login",
		Public: true,
		Body:   loginRequest{Email: email, Password: string(password)},
	}
	if err := c.Do(ctx, req, &out); err != nil {
		return nil, err
	}
	return &out.AuthResponse, nil
}

func (c *HTTPClient) Me(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrNotAuthenticated
	}
	var out userEnvelope
	if err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/api/auth/me", Token: token}, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

func (c *HTTPClient) GetProfile(ctx context.Context) (*models.Profile, error) {
	var out profileEnvelope
	if err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/api/profile"}, &out); err != nil {
		return nil, err
	}
	return out.Profile, nil
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, name string) (*models.Profile, string, error) {
	var out profileEnvelope
	req := Request{Method: http.MethodPut, Path: "/api/profile", Body: updateProfileRequest{Name: name}}
	if err := c.Do(ctx, req, &out); err != nil {
		return nil, "", err
	}
	return out.Profile, out.Message, nil
}

func (c *HTTPClient) ChangePassword(ctx context.Context, current, next []byte) (string, error) {
	var out messageEnvelope
	req := Request{
		Method: http.MethodPut,
		Path:   "/api/profile/password",
		Body:   changePasswordRequest{CurrentPassword: string(current), NewPassword: string(next)},
	}
	if err := c.Do(ctx, req, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *HTTPClient) GetProfileStats(ctx context.Context) (*models.ProfileStats, error) {
	var out statsEnvelope
	if err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/api/profile/stats"}, &out); err != nil {
		return nil, err
	}
	return out.Stats, nil
}

func (c *HTTPClient) Health(ctx context.Context) (*models.Health, error) {
	var out healthEnvelope
	if err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/", Public: true}, &out); err != nil {
		return nil, err
	}
	return &out.Health, nil
}

// Ping probes the backend health endpoint.
func (c *HTTPClient) Ping(ctx context.Context) error {
	_, err := c.Health(ctx)
	return err
}

func (c *HTTPClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
