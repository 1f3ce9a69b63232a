package model

import (
	"fmt"
)

// HTTPError is returned when the inference server answers with a non-2xx status.
// Body holds the raw response so callers can surface it as failure details.
type HTTPError struct {
	StatusCode int
	Body       []byte
}

func (e *HTTPError) Error() string {
	if len(e.Body) > 0 {
		return fmt.Sprintf("HTTP %d: %s", e.StatusCode, truncate(string(e.Body), 200))
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

// TransportError wraps a failure to reach the server at all: connection refused,
// DNS, timeouts. Timeouts are not reported as a separate type.
type TransportError struct {
	Op  string // "GET" or "POST"
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// UpstreamShapeError means a response arrived but lacked the fields we need,
// e.g. no choices[0].message.content.
type UpstreamShapeError struct {
	Reason string
	Body   []byte
}

func (e *UpstreamShapeError) Error() string {
	return "unexpected completion response: " + e.Reason
}

// ParseError means the assistant text could not be interpreted as the task's
// expected output.
type ParseError struct {
	Task string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s output: %v", e.Task, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// RequestError is returned for completion options that fail validation before
// anything is sent.
type RequestError struct {
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("invalid completion request: %v", e.Err)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
