package eero

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/eero-exporter/eero-exporter/internal/tree"
)

// Defaults for the public eero cloud API.
const (
	DefaultEndpoint  = "https://api-user.e2ro.com/2.2"
	DefaultTimeout   = 10 * time.Second
	DefaultUserAgent = "eero-exporter"

	sessionCookie = "s"
	refreshError  = "error.session.refresh"
)

// ErrAuthRequired means the stored session is missing or has been rejected
// and an operator must run the interactive login again.
var ErrAuthRequired = errors.New("eero: session requires interactive login")

// APIError is a non-auth failure reported by the API or the transport layer
// below it.
type APIError struct {
	Status  int
	Code    int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("eero: status %d (code %d): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("eero: status %d (code %d)", e.Status, e.Code)
}

// CredentialStore persists the session token. SetToken must not return
// until the token is durable.
type CredentialStore interface {
	Token() (string, bool)
	SetToken(token string) error
}

// Options configures a Client. Zero values take the package defaults.
type Options struct {
	Endpoint  string
	Timeout   time.Duration
	UserAgent string

	// HTTPClient overrides the client built from Timeout; used in tests.
	HTTPClient *http.Client
}

// Client talks to the eero cloud API on behalf of one stored session.
type Client struct {
	base  *url.URL
	http  *http.Client
	store CredentialStore
}

// New builds a Client. The endpoint must be an absolute URL.
func New(store CredentialStore, opts Options) (*Client, error) {
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	base, err := url.Parse(strings.TrimRight(endpoint, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("eero: parse endpoint %q: %w", endpoint, err)
	}
	if !base.IsAbs() {
		return nil, fmt.Errorf("eero: endpoint %q is not absolute", endpoint)
	}

	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	hc = withUserAgent(hc, ua)

	return &Client{base: base, http: hc, store: store}, nil
}

// NeedsLogin reports whether no session token is stored.
func (c *Client) NeedsLogin() bool {
	_, ok := c.store.Token()
	return !ok
}

// Account returns the account document; account.networks.data lists the
// networks with their url, name and nickname_label.
func (c *Client) Account(ctx context.Context) (tree.Node, error) {
	return c.get(ctx, "account")
}

// Network returns the detail document for a network resource url such as
// /2.2/networks/42.
func (c *Client) Network(ctx context.Context, networkURL string) (tree.Node, error) {
	return c.get(ctx, networkURL)
}

// Devices returns the client devices known to a network.
func (c *Client) Devices(ctx context.Context, networkURL string) ([]tree.Node, error) {
	data, err := c.get(ctx, strings.TrimRight(networkURL, "/")+"/devices")
	if err != nil {
		return nil, err
	}
	return data.List(), nil
}

// Login starts an interactive login for an email address or phone number and
// returns the unverified user token. The verification code is delivered out
// of band.
func (c *Client) Login(ctx context.Context, identifier string) (string, error) {
	data, err := c.do(ctx, http.MethodPost, "login", map[string]string{"login": identifier}, "")
	if err != nil {
		return "", err
	}
	tok, ok := data.Get("user_token").String()
	if !ok || tok == "" {
		return "", fmt.Errorf("eero: login response has no user_token")
	}
	return tok, nil
}

// VerifyLogin confirms a login with the code sent to the user and persists
// the now-valid user token as the session.
func (c *Client) VerifyLogin(ctx context.Context, userToken, code string) error {
	if _, err := c.do(ctx, http.MethodPost, "login/verify", map[string]string{"code": code}, userToken); err != nil {
		return err
	}
	if err := c.store.SetToken(userToken); err != nil {
		return fmt.Errorf("eero: persist session: %w", err)
	}
	return nil
}

// Refresh exchanges the current session for a new one and persists it
// before returning.
func (c *Client) Refresh(ctx context.Context) error {
	tok, ok := c.store.Token()
	if !ok {
		return ErrAuthRequired
	}
	data, err := c.do(ctx, http.MethodPost, "login/refresh", nil, tok)
	if err != nil {
		return err
	}
	fresh, ok := data.Get("user_token").String()
	if !ok || fresh == "" {
		return fmt.Errorf("eero: refresh response has no user_token")
	}
	if err := c.store.SetToken(fresh); err != nil {
		return fmt.Errorf("eero: persist refreshed session: %w", err)
	}
	slog.Info("eero: session refreshed")
	return nil
}

// get performs an authenticated GET, refreshing the session once if the API
// asks for it.
func (c *Client) get(ctx context.Context, path string) (tree.Node, error) {
	tok, ok := c.store.Token()
	if !ok {
		return tree.Node{}, ErrAuthRequired
	}
	data, err := c.do(ctx, http.MethodGet, path, nil, tok)
	if !errors.Is(err, errNeedsRefresh) {
		return data, err
	}

	if err := c.Refresh(ctx); err != nil {
		if errors.Is(err, errNeedsRefresh) {
			return tree.Node{}, ErrAuthRequired
		}
		return tree.Node{}, err
	}
	tok, _ = c.store.Token()
	data, err = c.do(ctx, http.MethodGet, path, nil, tok)
	if errors.Is(err, errNeedsRefresh) {
		return tree.Node{}, ErrAuthRequired
	}
	return data, err
}

var errNeedsRefresh = errors.New("eero: session needs refresh")

// do sends one request and unwraps the {"meta": ..., "data": ...} envelope.
func (c *Client) do(ctx context.Context, method, path string, body any, token string) (tree.Node, error) {
	ref, err := url.Parse(path)
	if err != nil {
		return tree.Node{}, fmt.Errorf("eero: parse path %q: %w", path, err)
	}
	target := c.base.ResolveReference(ref)

	var rd io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return tree.Node{}, fmt.Errorf("eero: encode request: %w", err)
		}
		rd = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), rd)
	if err != nil {
		return tree.Node{}, fmt.Errorf("eero: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookie, Value: token})
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return tree.Node{}, fmt.Errorf("eero: %s %s: %w", method, target.Path, err)
	}
	defer resp.Body.Close()

	env, decodeErr := tree.Decode(resp.Body)
	meta := env.Get("meta")
	code, _ := meta.Get("code").Float()
	msg, _ := meta.Get("error").String()

	if resp.StatusCode == http.StatusUnauthorized || int(code) == http.StatusUnauthorized {
		switch msg {
		case refreshError:
			return tree.Node{}, errNeedsRefresh
		case "":
			return tree.Node{}, ErrAuthRequired
		}
		return tree.Node{}, fmt.Errorf("%w: %s", ErrAuthRequired, msg)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 || (code != 0 && (code < 200 || code >= 300)) {
		return tree.Node{}, &APIError{Status: resp.StatusCode, Code: int(code), Message: msg}
	}
	if decodeErr != nil {
		return tree.Node{}, fmt.Errorf("eero: %s %s: %w", method, target.Path, decodeErr)
	}
	return env.Get("data"), nil
}

// uaRoundTripper stamps the User-Agent on every outgoing request.
type uaRoundTripper struct {
	base http.RoundTripper
	ua   string
}

func (t *uaRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.ua)
	return t.base.RoundTrip(req)
}

func withUserAgent(hc *http.Client, ua string) *http.Client {
	base := hc.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	out := *hc
	out.Transport = &uaRoundTripper{base: base, ua: ua}
	return &out
}
