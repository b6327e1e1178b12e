package nemo

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	apperrors "nemoctl/internal/shared/errors"
	"nemoctl/internal/shared/logger"
)

// Client is the NEMO REST API client. All list and create traffic of the
// toolset goes through it, one request in flight at a time.
type Client struct {
	baseURL       string
	token         string
	httpClient    *http.Client
	retryAttempts uint64
	retryDelay    time.Duration
	log           logger.Interface
}

// Option is a function that configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(client *Client) {
		client.httpClient.Timeout = d
	}
}

// WithRetry bounds the transient-error retry loop.
func WithRetry(attempts int, baseDelay time.Duration) Option {
	return func(client *Client) {
		if attempts > 0 {
			client.retryAttempts = uint64(attempts)
		}
		if baseDelay > 0 {
			client.retryDelay = baseDelay
		}
	}
}

// WithLogger sets the logger used for retry warnings.
func WithLogger(log logger.Interface) Option {
	return func(client *Client) {
		client.log = log
	}
}

// NewClient creates a new NEMO API client.
//
// Parameters:
//   - baseURL: the API base URL (e.g. "https://nemo-plan.stanford.edu/api")
//   - token: the NEMO API token, sent as "Authorization: Token <token>"
func NewClient(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		retryAttempts: 3,
		retryDelay:    time.Second,
		log:           logger.NewLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListAll fetches every page of a collection and aggregates the raw records.
// Both DRF envelopes ({count, next, results}) and bare-array responses are
// handled; an empty page terminates.
func (c *Client) ListAll(ctx context.Context, path string) ([]json.RawMessage, error) {
	var all []json.RawMessage
	page := 1

	for {
		var raw json.RawMessage
		pageURL := c.baseURL + path
		if page > 1 {
			pageURL += "?" + url.Values{"page": {strconv.Itoa(page)}}.Encode()
		}
		if err := c.doRequest(ctx, http.MethodGet, pageURL, nil, &raw); err != nil {
			if apperrors.IsAuth(err) || len(all) == 0 {
				return nil, err
			}
			// Keep what was downloaded so far; the caller decides whether
			// a partial snapshot is usable.
			c.log.Warnw("page download failed, returning partial results",
				"path", path, "page", page, "error", err)
			return all, err
		}

		trimmed := bytes.TrimSpace(raw)
		if len(trimmed) > 0 && trimmed[0] == '[' {
			var items []json.RawMessage
			if err := json.Unmarshal(trimmed, &items); err != nil {
				return nil, apperrors.NewInternalError("failed to parse list response", err.Error())
			}
			return append(all, items...), nil
		}

		var envelope listEnvelope
		if err := json.Unmarshal(trimmed, &envelope); err != nil {
			return nil, apperrors.NewInternalError("failed to parse paginated response", err.Error())
		}
		if len(envelope.Results) == 0 {
			return all, nil
		}
		all = append(all, envelope.Results...)

		if envelope.Next == nil || *envelope.Next == "" {
			return all, nil
		}
		page++
	}
}

// Create POSTs a new resource and decodes the API's echo of it, which
// carries the assigned ID.
func (c *Client) Create(ctx context.Context, path string, payload any, result any) error {
	return c.doRequest(ctx, http.MethodPost, c.baseURL+path, payload, result)
}

// Ping issues a single-page GET to verify connectivity and the token before
// a run starts.
func (c *Client) Ping(ctx context.Context, path string) error {
	var raw json.RawMessage
	return c.doRequest(ctx, http.MethodGet, c.baseURL+path, nil, &raw)
}

// doRequest performs an HTTP request with bounded retry on transient
// failures and decodes the response.
func (c *Client) doRequest(ctx context.Context, method, url string, body any, result any) error {
	var reqBody []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return apperrors.NewInternalError("marshal request", err.Error())
		}
		reqBody = data
	}

	backoff := retry.WithMaxRetries(c.retryAttempts, retry.NewFibonacci(c.retryDelay))

	attempt := 0
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := c.once(ctx, method, url, reqBody, result)
		if err != nil && apperrors.IsTransient(err) {
			c.log.Warnw("transient API failure, retrying",
				"method", method, "url", url, "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		return err
	})
}

func (c *Client) once(ctx context.Context, method, url string, body []byte, result any) error {
	var reqBody io.Reader
	if body != nil {
		reqBody = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return apperrors.NewInternalError("create request", err.Error())
	}

	req.Header.Set("Authorization", "Token "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewTransientError("send request", err.Error())
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.NewTransientError("read response", err.Error())
	}

	if err := statusError(resp.StatusCode, respBody); err != nil {
		return err
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return apperrors.NewInternalError("decode response", err.Error())
		}
	}
	return nil
}

// statusError maps an HTTP status to the migration error taxonomy. The raw
// body is preserved so operators see the API's own message in run logs.
func statusError(status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}

	detail := strings.TrimSpace(string(body))
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return apperrors.NewAuthError(fmt.Sprintf("authentication failed: HTTP %d, check your NEMO token", status), detail)
	case status == http.StatusConflict:
		return apperrors.NewConflictError("resource already exists", detail)
	case status >= 500:
		return apperrors.NewTransientError(fmt.Sprintf("server error: HTTP %d", status), detail)
	default:
		return apperrors.NewRemoteValidationError(fmt.Sprintf("request rejected: HTTP %d", status), detail)
	}
}
