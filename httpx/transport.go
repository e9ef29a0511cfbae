package httpx

import (
	"net"
	"net/http"
	"time"
)

// Transport defaults for chat completion traffic: few hosts, long-lived keep-alive connections
// and slow first bytes from models that think before answering.
const (
	dialTimeout           = 5 * time.Second
	keepAlive             = 30 * time.Second
	tlsHandshakeTimeout   = 5 * time.Second
	responseHeaderTimeout = 60 * time.Second
	idleConnTimeout       = 90 * time.Second
	maxIdleConnsPerHost   = 16
)

// DefaultTransport returns a clone of http.DefaultTransport tuned with the values above.
// ResponseHeaderTimeout bounds the wait for a stream to start; the stream body itself is
// bounded only by the request context.
func DefaultTransport() *http.Transport {
	base, _ := http.DefaultTransport.(*http.Transport)
	if base == nil {
		return &http.Transport{ResponseHeaderTimeout: responseHeaderTimeout}
	}
	t := base.Clone()
	t.DialContext = (&net.Dialer{Timeout: dialTimeout, KeepAlive: keepAlive}).DialContext
	t.TLSHandshakeTimeout = tlsHandshakeTimeout
	t.ResponseHeaderTimeout = responseHeaderTimeout
	t.IdleConnTimeout = idleConnTimeout
	t.MaxIdleConnsPerHost = maxIdleConnsPerHost
	t.ForceAttemptHTTP2 = true
	return t
}
