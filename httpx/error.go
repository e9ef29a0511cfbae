package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Error is a failed request: either a transport failure (StatusCode 0) or a non-2xx response.
//
// URL never carries the query string or user info; providers that pass credentials as query
// parameters must not leak them through error text or logs.
type Error struct {
	Method string
	URL    string

	// StatusCode is 0 when the request failed before receiving a response.
	StatusCode int

	// RequestID is taken from the response, or from the request when the response has none.
	RequestID string

	// RetryAfter is parsed from Retry-After when present.
	RetryAfter time.Duration

	// RawBody is a truncated copy of a non-2xx response body.
	RawBody []byte

	// Cause is the underlying transport error, or the status text for non-2xx responses.
	Cause error

	// Retryable is set for transport faults that may clear on retry (see Fault.Transient).
	Retryable bool
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	var b strings.Builder
	if m := strings.TrimSpace(e.Method); m != "" {
		b.WriteString(strings.ToUpper(m))
		b.WriteString(" ")
	}
	if e.URL != "" {
		b.WriteString(e.URL)
		b.WriteString(": ")
	}
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, "http %d", e.StatusCode)
		if t := http.StatusText(e.StatusCode); t != "" {
			b.WriteString(" ")
			b.WriteString(t)
		}
	} else {
		b.WriteString("request failed")
	}
	if e.RequestID != "" {
		b.WriteString(" request_id=")
		b.WriteString(e.RequestID)
	}
	if e.Cause != nil && e.StatusCode == 0 {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Cause }

// Fault classifies the error.
func (e *Error) Fault() Fault { return Classify(e) }

// AsError extracts *Error.
func AsError(err error) (*Error, bool) {
	var he *Error
	if errors.As(err, &he) {
		return he, true
	}
	return nil, false
}

func IsRetryable(err error) bool {
	he, ok := AsError(err)
	return ok && he.Retryable
}

func IsHTTPStatus(err error, code int) bool {
	he, ok := AsError(err)
	return ok && he.StatusCode == code
}

// RedactURL renders u without user info, query string or fragment.
func RedactURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	c := *u
	c.User = nil
	c.RawQuery = ""
	c.ForceQuery = false
	c.Fragment = ""
	c.RawFragment = ""
	return c.String()
}

// redactError rewrites the URL of the *url.Error returned by http.Client so the query string
// does not end up in the error text. Other errors are returned unchanged.
func redactError(err error) error {
	ue, ok := err.(*url.Error)
	if !ok {
		return err
	}
	u, perr := url.Parse(ue.URL)
	if perr != nil {
		return &url.Error{Op: ue.Op, URL: "<invalid url>", Err: ue.Err}
	}
	return &url.Error{Op: ue.Op, URL: RedactURL(u), Err: ue.Err}
}
