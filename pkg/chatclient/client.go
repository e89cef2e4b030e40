// Package chatclient talks to the chat server: it posts new messages and
// fetches the full history.
package chatclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/txn2/termchat/pkg/chatapi/types"
)

const (
	// DefaultURL is the server address used when none is configured
	DefaultURL = "http://127.0.0.1:32123"

	// DefaultTimeout bounds every request
	DefaultTimeout = 5 * time.Second

	requestIDHeader = "X-Request-ID"
	maxErrorBody    = 512
)

// Client wraps http.Client with the chat server's base URL
type Client struct {
	client  *http.Client
	baseURL string
	timeout time.Duration
}

// Option configures a Client
type Option func(*Client)

// WithTimeout sets the per-request deadline. Zero or less disables it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// New creates a client for the server at baseURL (scheme, host and an
// optional path prefix).
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid server url %q", baseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Errorf("invalid server url %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, errors.Errorf("invalid server url %q: missing host", baseURL)
	}

	c := &Client{
		client:  &http.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the normalized server URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Send posts text as a new message and returns the server's echo of it.
func (c *Client) Send(ctx context.Context, text string) (string, error) {
	endpoint := c.baseURL + "/"
	body, err := c.do(ctx, OpSend, http.MethodPost, endpoint, []byte(text))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// FetchHistory returns the full log in server order.
func (c *Client) FetchHistory(ctx context.Context) ([]types.Message, error) {
	endpoint := c.baseURL + "/"
	body, err := c.do(ctx, OpFetch, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var messages []types.Message
	if err := json.Unmarshal(body, &messages); err != nil {
		return nil, &TransportError{
			Op:  OpFetch,
			URL: endpoint,
			Err: errors.Wrap(err, "decode history"),
		}
	}
	if messages == nil {
		messages = []types.Message{}
	}
	return messages, nil
}

// Health queries the server's health endpoint.
func (c *Client) Health(ctx context.Context) (*types.HealthResponse, error) {
	endpoint := c.baseURL + "/api/health"
	body, err := c.do(ctx, OpHealth, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var health types.HealthResponse
	if err := json.Unmarshal(body, &health); err != nil {
		return nil, &TransportError{
			Op:  OpHealth,
			URL: endpoint,
			Err: errors.Wrap(err, "decode health"),
		}
	}
	return &health, nil
}

func (c *Client) do(ctx context.Context, op, method, endpoint string, payload []byte) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return nil, &TransportError{Op: op, URL: endpoint, Err: errors.Wrap(err, "build request")}
	}

	requestID := uuid.NewString()
	req.Header.Set(requestIDHeader, requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	} else {
		req.Header.Set("Accept", "application/json")
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &TransportError{Op: op, URL: endpoint, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: op, URL: endpoint, StatusCode: resp.StatusCode, Err: errors.Wrap(err, "read response")}
	}

	log.WithFields(log.Fields{
		"request_id": requestID,
		"status":     resp.StatusCode,
		"latency":    time.Since(start),
	}).Debugf("chat client %s %s", method, endpoint)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := strings.TrimSpace(string(body))
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		return nil, &TransportError{
			Op:         op,
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Body:       snippet,
			Err:        errors.Errorf("unexpected status %s", resp.Status),
		}
	}
	return body, nil
}
