// SPDX-License-Identifier: MPL-2.0

package platformapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
)

const (
	// DefaultBaseURL is the production API endpoint.
	DefaultBaseURL = "https://api.heroku.com"

	// DefaultAccept selects version 3 of the API.
	DefaultAccept = "application/vnd.heroku+json; version=3"

	// DefaultRange asks collection endpoints for the single most recent item.
	DefaultRange = "id ..; order=desc, max=1"

	// DefaultTimeout bounds each request, including reading the body.
	DefaultTimeout = 30 * time.Second

	// maxJSONResponseBytes is the upper bound on a (decompressed) response body (10 MB).
	maxJSONResponseBytes = 10 << 20
)

// gzipMagic is the two-byte header every gzip stream starts with.
var gzipMagic = []byte{0x1f, 0x8b}

type (
	// Client issues authenticated GET requests against the platform API.
	Client struct {
		httpClient *http.Client
		baseURL    string
		token      string
		accept     string
		rangeHdr   string
		userAgent  string
		timeout    time.Duration
	}

	// ClientOption configures a Client during construction.
	ClientOption func(*Client)

	// apiError is the JSON wire format for error bodies.
	apiError struct {
		ID      string `json:"id"`
		Message string `json:"message"`
	}
)

// WithHTTPClient sets a custom HTTP client, useful for tests or proxy configurations.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithBaseURL overrides the API base URL, primarily for test servers.
func WithBaseURL(base string) ClientOption {
	return func(cl *Client) {
		cl.baseURL = strings.TrimRight(base, "/")
	}
}

// WithToken sets the bearer credential sent with every request.
func WithToken(token string) ClientOption {
	return func(cl *Client) {
		cl.token = token
	}
}

// WithAccept overrides the Accept header that selects the API version.
func WithAccept(accept string) ClientOption {
	return func(cl *Client) {
		if accept != "" {
			cl.accept = accept
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) ClientOption {
	return func(cl *Client) {
		cl.userAgent = ua
	}
}

// WithTimeout bounds each request. Zero or negative keeps the default.
func WithTimeout(d time.Duration) ClientOption {
	return func(cl *Client) {
		if d > 0 {
			cl.timeout = d
		}
	}
}

// NewClient creates a Client with defaults for the production API.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		baseURL:    DefaultBaseURL,
		accept:     DefaultAccept,
		rangeHdr:   DefaultRange,
		userAgent:  "surrogate/dev",
		timeout:    DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Request fetches path and returns the decoded JSON value. Numbers are kept
// as json.Number so callers can render them without float rounding.
func (c *Client) Request(ctx context.Context, path string) (any, error) {
	var v any
	if err := c.Get(ctx, path, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// Get fetches path and decodes the JSON body into out.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	status, body, err := c.fetch(ctx, path)
	if err != nil {
		return err
	}

	switch {
	case status == http.StatusNotFound:
		apiErr := parseAPIError(body)
		return &NotFoundError{Path: path, Message: apiErr.Message}
	case status < 200 || status > 299:
		apiErr := parseAPIError(body)
		return &StatusError{Path: path, StatusCode: status, ID: apiErr.ID, Message: apiErr.Message}
	}

	if err := decodeJSON(body, out); err != nil {
		return &DecodeError{Path: path, Err: err}
	}
	return nil
}

// fetch performs the request and returns the status and the inflated body.
func (c *Client) fetch(ctx context.Context, path string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, http.NoBody)
	if err != nil {
		return 0, nil, &TransportError{Path: path, Err: fmt.Errorf("creating request: %w", err)}
	}

	req.Header.Set("Accept", c.accept)
	req.Header.Set("Range", c.rangeHdr)
	req.Header.Set("User-Agent", c.userAgent)
	// Setting Accept-Encoding ourselves disables the transport's transparent
	// decompression; bodies are sniffed and inflated in inflate.
	req.Header.Set("Accept-Encoding", "gzip")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, &TransportError{Path: path, Err: err}
	}
	defer func() { _ = resp.Body.Close() }() // read-only response body

	raw, err := readBounded(resp.Body)
	if err != nil {
		if errors.Is(err, errBodyTooLarge) {
			return 0, nil, &DecodeError{Path: path, Err: err}
		}
		return 0, nil, &TransportError{Path: path, Err: fmt.Errorf("reading body: %w", err)}
	}

	body, err := inflate(raw)
	if err != nil {
		return 0, nil, &DecodeError{Path: path, Err: err}
	}

	return resp.StatusCode, body, nil
}

var errBodyTooLarge = fmt.Errorf("response exceeds %d bytes", maxJSONResponseBytes)

func readBounded(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxJSONResponseBytes+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxJSONResponseBytes {
		return nil, errBodyTooLarge
	}
	return data, nil
}

// inflate decompresses body when it starts with the gzip magic header and
// returns it unchanged otherwise.
func inflate(body []byte) ([]byte, error) {
	if !bytes.HasPrefix(body, gzipMagic) {
		return body, nil
	}

	zr, err := gzip.NewReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("opening gzip stream: %w", err)
	}
	defer func() { _ = zr.Close() }()

	data, err := readBounded(zr)
	if err != nil {
		return nil, fmt.Errorf("inflating gzip stream: %w", err)
	}
	return data, nil
}

// decodeJSON decodes exactly one JSON value from body into out.
func decodeJSON(body []byte, out any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errors.New("unexpected data after JSON value")
	}
	return nil
}

// parseAPIError extracts the id/message pair from an error body. Bodies
// that are not JSON objects yield a zero value.
func parseAPIError(body []byte) apiError {
	var e apiError
	_ = json.Unmarshal(body, &e) //nolint:errcheck // Best-effort error body parsing.
	return e
}
