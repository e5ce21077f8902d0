// Package fetch retrieves remote resources over HTTP GET and decodes them
// according to the response's declared media type.
package fetch

import (
	"context"
	"time"

	"github.com/samvad-hq/soccer-hub/pkg/httpclient"
)

const (
	// DefaultMaxRetries is the number of extra attempts after the first one.
	DefaultMaxRetries = 3
	// DefaultTimeout bounds each individual attempt.
	DefaultTimeout = 10 * time.Second
)

// Client performs negotiated GET requests. It keeps no per-call state and is
// safe for concurrent use.
type Client struct {
	transport  httpclient.Client
	decoders   *Registry
	maxRetries int
	timeout    time.Duration
	log        Logger
}

// Option configures a Client.
type Option func(*Client)

// WithMaxRetries sets how many extra attempts follow the first one.
// Negative values are ignored.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.maxRetries = n
		}
	}
}

// WithTimeout sets the per-attempt timeout. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithTransport replaces the default resty-backed transport.
func WithTransport(t httpclient.Client) Option {
	return func(c *Client) { c.transport = t }
}

// WithDecoders replaces the default decoder registry.
func WithDecoders(r *Registry) Option {
	return func(c *Client) { c.decoders = r }
}

// WithLogger sets the logger used for attempt diagnostics.
func WithLogger(l Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a Client. Without options it allows DefaultMaxRetries retries
// and a DefaultTimeout per attempt.
func New(opts ...Option) *Client {
	c := &Client{
		maxRetries: DefaultMaxRetries,
		timeout:    DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.transport == nil {
		c.transport = httpclient.NewRestyClient(c.timeout)
	}
	if c.decoders == nil {
		c.decoders = DefaultRegistry()
	}
	if c.log == nil {
		c.log = noopLogger{}
	}
	return c
}

// Fetch GETs url with the given headers and query params and returns the
// decoded body.
//
// Headers are validated before anything is sent. A transport failure or a
// malformed body ends the call at once. A non-2xx status, or a 2xx whose body
// decodes to null (including unknown media types), is retried immediately
// until the retry budget of extra attempts have been spent.
func (c *Client) Fetch(ctx context.Context, url string, headers []Header, params []Param) (Value, error) {
	hdrs, err := buildHeaders(headers)
	if err != nil {
		return nil, &Error{Kind: ErrInvalidHeader, URL: url, Err: err}
	}
	query := buildParams(params)
	if ctx == nil {
		ctx = context.Background()
	}

	retries := 0
	for attempt := 1; ; attempt++ {
		resp, err := c.get(ctx, url, hdrs, query)
		if err != nil {
			return nil, &Error{Kind: ErrTransport, URL: url, Attempts: attempt, Err: err}
		}

		status := resp.StatusCode()
		mediaType := PrimaryMediaType(resp.Header("Content-Type"))
		c.log.DebugObj("fetch attempt completed", "fetch_attempt", map[string]any{
			"url":        url,
			"attempt":    attempt,
			"status":     status,
			"media_type": mediaType,
		})

		if status >= 200 && status < 300 {
			value, err := c.decode(mediaType, resp.Body())
			if err != nil {
				return nil, &Error{Kind: ErrDecode, URL: url, Attempts: attempt, StatusCode: status, MediaType: mediaType, Err: err}
			}
			if value != nil {
				return value, nil
			}
		}

		if retries >= c.maxRetries {
			return nil, &Error{Kind: ErrMaxRetriesExceeded, URL: url, Attempts: attempt, StatusCode: status, MediaType: mediaType}
		}
		retries++
		c.log.WarnObj("fetch attempt unusable; retrying", "fetch_retry", map[string]any{
			"url":        url,
			"attempt":    attempt,
			"status":     status,
			"media_type": mediaType,
			"retry":      retries,
		})
	}
}

func (c *Client) get(ctx context.Context, url string, headers, params map[string]string) (httpclient.Response, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	return c.transport.Get(attemptCtx, url, headers, params)
}

// decode yields nil for media types with no registered decoder.
func (c *Client) decode(mediaType string, body []byte) (Value, error) {
	dec, ok := c.decoders.Lookup(mediaType)
	if !ok {
		return nil, nil
	}
	return dec(body)
}
