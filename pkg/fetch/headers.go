package fetch

import (
	"fmt"
	"net/http"

	"golang.org/x/net/http/httpguts"
)

// Header is a single request header pair.
type Header struct {
	Name  string
	Value string
}

// Param is a single query parameter pair.
type Param struct {
	Key   string
	Value string
}

// buildHeaders validates every pair and collapses names case-insensitively.
// It stops at the first invalid pair.
func buildHeaders(headers []Header) (map[string]string, error) {
	out := make(map[string]string, len(headers))
	for i, h := range headers {
		if h.Name == "" || h.Value == "" {
			return nil, fmt.Errorf("header[%d]: name and value must not be empty", i)
		}
		if !httpguts.ValidHeaderFieldName(h.Name) {
			return nil, fmt.Errorf("header[%d]: invalid name %q", i, h.Name)
		}
		if !httpguts.ValidHeaderFieldValue(h.Value) {
			return nil, fmt.Errorf("header[%d] %s: invalid value", i, h.Name)
		}
		out[http.CanonicalHeaderKey(h.Name)] = h.Value
	}
	return out, nil
}

// buildParams collapses duplicate keys to their last value.
func buildParams(params []Param) map[string]string {
	if len(params) == 0 {
		return nil
	}
	out := make(map[string]string, len(params))
	for _, p := range params {
		out[p.Key] = p.Value
	}
	return out
}
