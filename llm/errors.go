package llm

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorKind string

const (
	// KindConfiguration covers missing or malformed credentials and unsupported providers.
	KindConfiguration ErrorKind = "configuration"
	// KindTransient covers network faults worth retrying (see Fault).
	KindTransient ErrorKind = "transient"
	// KindProtocol covers non-2xx responses and unexpected response shapes.
	KindProtocol ErrorKind = "protocol"
	KindCanceled ErrorKind = "canceled"
	// KindUnclassified is a pass-through for anything else.
	KindUnclassified ErrorKind = "unclassified"
)

// Fault narrows a transient error (or a status error) down to its category.
type Fault string

const (
	FaultNone      Fault = ""
	FaultTimeout   Fault = "timeout"
	FaultConnReset Fault = "connection_reset"
	FaultDNS       Fault = "dns"
	FaultStatus    Fault = "http_status"
)

// Error is the provider-agnostic error container returned by adapters.
type Error struct {
	Provider string
	Kind     ErrorKind
	Fault    Fault

	HTTPStatus int
	// Code is the provider specific error code, if the body carried one.
	Code    string
	Message string

	// Raw is an optional raw error payload (e.g. the HTTP response body).
	Raw []byte

	Cause error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := e.Message
	if msg == "" && e.Cause != nil {
		msg = e.Cause.Error()
	}
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Provider != "" {
		return fmt.Sprintf("%s: %s", e.Provider, msg)
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// Retryable reports whether the retry policy may try the operation again.
func (e *Error) Retryable() bool {
	if e == nil || e.Kind != KindTransient {
		return false
	}
	switch e.Fault {
	case FaultTimeout, FaultConnReset, FaultDNS:
		return true
	default:
		return false
	}
}

var (
	// ErrNoSettings is returned when no model settings are configured at all.
	ErrNoSettings = &Error{Kind: KindConfiguration, Message: "no model settings configured"}
	// ErrMissingAPIKey is returned when the settings carry an empty API key.
	ErrMissingAPIKey = &Error{Kind: KindConfiguration, Message: "please configure an API key in the settings first"}
)

// ConfigError builds a configuration error for provider.
func ConfigError(provider ProviderID, format string, args ...any) *Error {
	return &Error{Provider: string(provider), Kind: KindConfiguration, Message: fmt.Sprintf(format, args...)}
}

// ProtocolError builds an error for an unexpected response shape.
func ProtocolError(provider ProviderID, msg string, raw []byte, cause error) *Error {
	return &Error{
		Provider: string(provider),
		Kind:     KindProtocol,
		Message:  msg,
		Raw:      append([]byte(nil), raw...),
		Cause:    cause,
	}
}

func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func IsKind(err error, kind ErrorKind) bool {
	e, ok := AsError(err)
	return ok && e.Kind == kind
}

func IsConfiguration(err error) bool { return IsKind(err, KindConfiguration) }

func IsTransient(err error) bool {
	e, ok := AsError(err)
	return ok && e.Retryable()
}

// Describe turns an error into the user-facing message for its category:
// timeouts, DNS failures and HTTP status errors get a fixed phrasing, everything
// else keeps its own message.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	e, ok := AsError(err)
	if !ok {
		return err.Error()
	}
	switch e.Fault {
	case FaultTimeout:
		return "request timed out, please try again later"
	case FaultDNS:
		return "cannot resolve API host, check the network connection or the API endpoint"
	case FaultStatus:
		text := strings.TrimSpace(http.StatusText(e.HTTPStatus))
		if e.Message != "" && e.Message != text {
			return fmt.Sprintf("server responded with status %d %s: %s", e.HTTPStatus, text, e.Message)
		}
		return fmt.Sprintf("server responded with status %d %s", e.HTTPStatus, text)
	}
	if e.Message != "" {
		return e.Message
	}
	return err.Error()
}

// Translate returns err with its message replaced by Describe(err). Errors that are not
// *Error, or carry no Fault, are returned as-is.
func Translate(err error) error {
	e, ok := AsError(err)
	if !ok || e.Fault == FaultNone {
		return err
	}
	out := *e
	out.Message = Describe(e)
	if out.Cause == nil {
		out.Cause = e
	}
	return &out
}
