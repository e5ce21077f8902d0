package fetch

import (
	"errors"
	"fmt"
)

// Sentinel kinds for errors.Is checks against *Error.
var (
	// ErrInvalidHeader is returned when a header pair is empty or not valid HTTP syntax.
	// No request is sent.
	ErrInvalidHeader = errors.New("invalid header")

	// ErrTransport is returned when the request could not be completed at the network level.
	ErrTransport = errors.New("transport error")

	// ErrDecode is returned when a body with a recognized media type fails to parse.
	ErrDecode = errors.New("decode error")

	// ErrMaxRetriesExceeded is returned when every attempt produced a non-2xx status
	// or a null decode result.
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
)

// Error describes a failed Fetch call.
type Error struct {
	Kind       error
	URL        string
	Attempts   int
	StatusCode int // last status seen, 0 if none
	MediaType  string
	Err        error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("fetch %s: %v", e.URL, e.Kind)
	if e.Attempts > 0 {
		msg += fmt.Sprintf(" after %d attempt(s)", e.Attempts)
	}
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (last status %d)", e.StatusCode)
	}
	if e.MediaType != "" {
		msg += fmt.Sprintf(" (media type %q)", e.MediaType)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is reports whether target is the error's kind.
func (e *Error) Is(target error) bool { return target == e.Kind }

func (e *Error) Unwrap() error { return e.Err }
