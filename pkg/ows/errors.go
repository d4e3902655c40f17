package ows

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrDecodeFailed means a 2xx body could not be decoded into the expected
	// result.
	ErrDecodeFailed = errors.New("ows: decode failed")
	// ErrTransport means no response was received (dial, DNS, TLS, timeout,
	// or the body could not be read).
	ErrTransport = errors.New("ows: transport error")
	// ErrIO is a local file failure while persisting a result.
	ErrIO = errors.New("ows: io error")
	// ErrInvalidQuery is returned before any I/O when query parameters fail
	// validation.
	ErrInvalidQuery = errors.New("ows: invalid query")
)

// RequestFailedError is a response with a non-2xx status. The body is never
// parsed.
type RequestFailedError struct {
	Service    string
	StatusCode int
}

func (e *RequestFailedError) Error() string {
	svc := e.Service
	if svc == "" {
		svc = "ows"
	}
	return fmt.Sprintf("%s request failed with status %d %s", svc, e.StatusCode, http.StatusText(e.StatusCode))
}

// StatusCode extracts the HTTP status from err when it is, or wraps, a
// RequestFailedError.
func StatusCode(err error) (int, bool) {
	var rf *RequestFailedError
	if errors.As(err, &rf) {
		return rf.StatusCode, true
	}
	return 0, false
}

// Retryable reports whether a caller may reasonably retry: transport errors
// and 5xx responses are; decode, validation, io and 4xx errors are not.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if code, ok := StatusCode(err); ok {
		return code >= 500
	}
	return errors.Is(err, ErrTransport)
}
