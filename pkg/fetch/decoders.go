package fetch

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Media types understood by the default registry.
const (
	MediaTypeJSON = "application/json"
	MediaTypeXML  = "application/xml"
	MediaTypeForm = "application/x-www-form-urlencoded"
	MediaTypeText = "text/plain"
	MediaTypeCSV  = "text/csv"
	MediaTypeHTML = "text/html"
)

// Value is a decoded response body: nil, bool, float64, string,
// map[string]any or []any, nested arbitrarily.
type Value = any

// Decoder turns a buffered body into a Value. A nil Value with a nil error
// means the body decoded to null.
type Decoder func(body []byte) (Value, error)

// Registry maps primary media types to decoders.
type Registry struct {
	mu       sync.RWMutex
	decoders map[string]Decoder
}

// NewRegistry builds a registry from the given media type to decoder map.
func NewRegistry(decoders map[string]Decoder) *Registry {
	r := &Registry{decoders: make(map[string]Decoder)}
	for mt, d := range decoders {
		r.Register(mt, d)
	}
	return r
}

// DefaultRegistry wires up the built-in decoders.
//
// application/xml is routed to the JSON decoder, so real XML bodies fail with
// ErrDecode. Callers relying on XML must register their own decoder.
func DefaultRegistry() *Registry {
	return NewRegistry(map[string]Decoder{
		MediaTypeJSON: DecodeJSON,
		MediaTypeXML:  DecodeJSON,
		MediaTypeForm: DecodeForm,
		MediaTypeText: DecodeText,
		MediaTypeCSV:  DecodeCSV,
		MediaTypeHTML: DecodeText,
	})
}

// Register associates a decoder with a media type, replacing any previous one.
func (r *Registry) Register(mediaType string, d Decoder) {
	key := PrimaryMediaType(mediaType)
	if key == "" || d == nil {
		return
	}
	r.mu.Lock()
	r.decoders[key] = d
	r.mu.Unlock()
}

// Lookup returns the decoder registered for the primary media type of contentType.
func (r *Registry) Lookup(contentType string) (Decoder, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.decoders[PrimaryMediaType(contentType)]
	return d, ok
}

// PrimaryMediaType returns the lower-cased media type before any ";" parameters.
func PrimaryMediaType(contentType string) string {
	mt, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(mt))
}

// DecodeJSON parses body as a single JSON document.
func DecodeJSON(body []byte) (Value, error) {
	var v any
	if err := json.Unmarshal(lossyUTF8(body), &v); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	return v, nil
}

// DecodeForm parses an urlencoded body into a flat map of strings. Pairs are
// split on '&' and the first '='; nothing is dropped and repeated keys keep
// their last value.
func DecodeForm(body []byte) (Value, error) {
	out := make(map[string]any)
	for _, pair := range bytes.Split(body, []byte("&")) {
		if len(pair) == 0 {
			continue
		}
		name, value, _ := bytes.Cut(pair, []byte("="))
		out[formUnescape(name)] = formUnescape(value)
	}
	return out, nil
}

// formUnescape decodes '+' and valid %XX escapes. Malformed escapes are kept
// verbatim and invalid UTF-8 is replaced.
func formUnescape(raw []byte) string {
	buf := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		switch c := raw[i]; {
		case c == '+':
			buf = append(buf, ' ')
		case c == '%' && i+2 < len(raw) && isHex(raw[i+1]) && isHex(raw[i+2]):
			buf = append(buf, unhex(raw[i+1])<<4|unhex(raw[i+2]))
			i += 2
		default:
			buf = append(buf, c)
		}
	}
	return string(lossyUTF8(buf))
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}

// DecodeText returns the body as a string.
func DecodeText(body []byte) (Value, error) {
	return string(lossyUTF8(body)), nil
}

// DecodeCSV reads a header row and returns one map per record keyed by column
// name. Stray quotes inside fields are accepted. Records that still fail to
// parse, including ones with the wrong field count, are skipped.
func DecodeCSV(body []byte) (Value, error) {
	r := csv.NewReader(bytes.NewReader(lossyUTF8(body)))
	r.LazyQuotes = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return []any{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}

	rows := make([]any, 0)
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				continue
			}
			return nil, fmt.Errorf("read csv: %w", err)
		}
		row := make(map[string]any, len(header))
		for i, name := range header {
			row[name] = record[i]
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func lossyUTF8(body []byte) []byte {
	return bytes.ToValidUTF8(body, []byte("\uFFFD"))
}
