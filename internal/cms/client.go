package cms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"bibliotec-gateway/internal/domain"
	"bibliotec-gateway/internal/logger"
)

// currentUserPath is the endpoint whose 403 responses carry session
// semantics (see Do).
const currentUserPath = "/api/users/me"

var cmsRetriesTotal = promauto.NewCounter(prometheus.CounterOpts{
	Name: "bg_cms_retries_total",
	Help: "Total number of retried CMS requests.",
})

// Credential is the explicit authorization context for one CMS call. A
// session token wins; without one the client falls back to the static token
// configured for the role. Nothing is read from ambient storage mid-request.
type Credential struct {
	Token string
	Role  domain.Role
}

// Anonymous is the credential for unauthenticated calls (login, register).
var Anonymous = Credential{}

// Client issues REST requests to the CMS backend.
type Client struct {
	httpClient *http.Client
	baseURL    string
	roleTokens map[string]string
	attempts   int
	retryDelay time.Duration
	timeout    time.Duration
}

// New creates a CMS client.
// baseURL is the CMS root (no trailing slash required).
// timeout bounds each request attempt; attempts and retryDelay control the
// bounded retry of idempotent requests.
func New(baseURL string, timeout time.Duration, attempts int, retryDelay time.Duration, roleTokens map[string]string) *Client {
	return &Client{
		httpClient: &http.Client{
			Transport: &http.Transport{MaxIdleConnsPerHost: 10},
		},
		baseURL:    strings.TrimRight(baseURL, "/"),
		roleTokens: roleTokens,
		attempts:   attempts,
		retryDelay: retryDelay,
		timeout:    timeout,
	}
}

// Get issues a GET and retries transient failures up to the configured
// attempt count with a fixed delay.
func (c *Client) Get(ctx context.Context, path string, query url.Values, cred Credential) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, query, nil, cred, true)
}

// Post issues a POST with the body wrapped in the CMS {"data": ...}
// envelope. Mutations are never retried.
func (c *Client) Post(ctx context.Context, path string, body any, cred Credential) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, path, nil, map[string]any{"data": body}, cred, false)
}

// PostRaw issues a POST with the body as-is (auth endpoints take no
// envelope).
func (c *Client) PostRaw(ctx context.Context, path string, body any, cred Credential) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPost, path, nil, body, cred, false)
}

// Put issues a PUT with the body wrapped in the {"data": ...} envelope.
func (c *Client) Put(ctx context.Context, path string, body any, cred Credential) (json.RawMessage, error) {
	return c.do(ctx, http.MethodPut, path, nil, map[string]any{"data": body}, cred, false)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string, cred Credential) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil, nil, cred, false)
	return err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, cred Credential, retryable bool) (json.RawMessage, error) {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	attempts := 1
	if retryable {
		attempts = c.attempts
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if attempt > 1 {
			cmsRetriesTotal.Inc()
			logger.Warn("retrying CMS request", "method", method, "path", path, "attempt", attempt, "error", lastErr)
			select {
			case <-time.After(c.retryDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		raw, err := c.once(ctx, method, reqURL, path, payload, cred)
		if err == nil {
			return raw, nil
		}
		lastErr = err

		httpErr, ok := err.(*HTTPError)
		if ok && !retryableStatus(httpErr.StatusCode) {
			return nil, err
		}
		if !ok && (err == ErrSessionExpired || err == ErrPermission) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("cms request failed after %d attempts: %w", attempts, lastErr)
}

// once performs a single attempt with its own timeout.
func (c *Client) once(ctx context.Context, method, reqURL, path string, payload []byte, cred Credential) (json.RawMessage, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var bodyReader io.Reader = http.NoBody
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(reqCtx, method, reqURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if token := c.token(cred); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	logger.BackendCall(method, path)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.BackendResult(method, path, 0, err)
		return nil, fmt.Errorf("cms request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		logger.BackendResult(method, path, resp.StatusCode, err)
		return nil, fmt.Errorf("read cms response: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		logger.BackendResult(method, path, resp.StatusCode, nil)
		return raw, nil
	}

	err = c.statusError(path, resp.StatusCode, raw)
	logger.BackendResult(method, path, resp.StatusCode, err)
	return nil, err
}

// statusError maps a non-2xx response to the error taxonomy. A rejected
// token on the current-user endpoint means the session itself is dead; any
// other 403 is a plain permission failure and must not clear the session.
func (c *Client) statusError(path string, status int, body []byte) error {
	message := errorMessage(body)

	if status == http.StatusUnauthorized {
		return ErrSessionExpired
	}
	if status == http.StatusForbidden {
		if path == currentUserPath && tokenRejected(message) {
			return ErrSessionExpired
		}
		return ErrPermission
	}

	return &HTTPError{StatusCode: status, Message: message, Body: body}
}

// token resolves the bearer token for a credential: session token first,
// then the static fallback for the role.
func (c *Client) token(cred Credential) string {
	if cred.Token != "" {
		return cred.Token
	}
	if cred.Role == "" {
		return ""
	}
	return c.roleTokens[strings.ToLower(string(cred.Role))]
}
