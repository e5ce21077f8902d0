package httpclient

import "context"

// Response is a minimal HTTP response contract.
type Response interface {
	Body() []byte
	StatusCode() int
	Header(name string) string
}

// Client abstracts HTTP calls so callers can inject mocks or different transports.
// Query params are merged into any query string already present in url.
type Client interface {
	Get(ctx context.Context, url string, headers, params map[string]string) (Response, error)
}
