package httpx

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// Fault is the category of a failed request.
type Fault int

const (
	FaultNone Fault = iota
	FaultCanceled
	FaultTimeout
	FaultConnReset
	FaultDNS
	FaultStatus
)

func (f Fault) String() string {
	switch f {
	case FaultCanceled:
		return "canceled"
	case FaultTimeout:
		return "timeout"
	case FaultConnReset:
		return "connection_reset"
	case FaultDNS:
		return "dns"
	case FaultStatus:
		return "http_status"
	default:
		return "none"
	}
}

// Transient reports whether the fault is a network condition that may clear on retry.
func (f Fault) Transient() bool {
	return f == FaultTimeout || f == FaultConnReset || f == FaultDNS
}

// Classify maps an error returned by Client.Do/DoStatus (or anything wrapping one) to a Fault.
func Classify(err error) Fault {
	if err == nil {
		return FaultNone
	}

	var he *Error
	if errors.As(err, &he) && he.StatusCode != 0 {
		return FaultStatus
	}

	// DNS before timeout: a resolver timeout is still a name resolution failure.
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return FaultDNS
	}

	if errors.Is(err, context.Canceled) {
		return FaultCanceled
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return FaultTimeout
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return FaultTimeout
	}

	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.ECONNABORTED) || errors.Is(err, syscall.EPIPE) {
		return FaultConnReset
	}
	// Some transports only surface the text.
	if strings.Contains(strings.ToLower(err.Error()), "connection reset") {
		return FaultConnReset
	}
	return FaultNone
}

func parseRetryAfter(resp *http.Response, now time.Time) (time.Duration, bool) {
	if resp == nil {
		return 0, false
	}
	v := strings.TrimSpace(resp.Header.Get("Retry-After"))
	if v == "" {
		return 0, false
	}
	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second, true
	}
	if t, err := http.ParseTime(v); err == nil {
		d := t.Sub(now)
		if d < 0 {
			d = 0
		}
		return d, true
	}
	return 0, false
}
