package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// RequestOption configures a single request built by Client.NewRequest.
type RequestOption interface{ apply(*requestConfig) }

type requestOptionFunc func(*requestConfig)

func (f requestOptionFunc) apply(c *requestConfig) { f(c) }

type requestConfig struct {
	header http.Header
	query  url.Values

	timeout time.Duration

	// body is replayable: NewRequest sets GetBody from it.
	body        []byte
	bodyErr     error
	contentType string
	accept      string

	bearerToken string
}

func WithHeader(key, value string) RequestOption {
	return requestOptionFunc(func(c *requestConfig) {
		if c.header == nil {
			c.header = make(http.Header)
		}
		c.header.Set(key, value)
	})
}

func WithHeaders(h http.Header) RequestOption {
	return requestOptionFunc(func(c *requestConfig) {
		if len(h) == 0 {
			return
		}
		if c.header == nil {
			c.header = make(http.Header)
		}
		for k, vv := range h {
			for _, v := range vv {
				c.header.Add(k, v)
			}
		}
	})
}

func WithQuery(values url.Values) RequestOption {
	return requestOptionFunc(func(c *requestConfig) {
		for k, vv := range values {
			for _, v := range vv {
				c.addQuery(k, v)
			}
		}
	})
}

func WithQueryParam(key, value string) RequestOption {
	return requestOptionFunc(func(c *requestConfig) { c.addQuery(key, value) })
}

func (c *requestConfig) addQuery(k, v string) {
	if c.query == nil {
		c.query = make(url.Values)
	}
	c.query.Add(k, v)
}

// WithRequestTimeout sets a per-request deadline upper bound.
// If the request context already has a deadline, the earlier one wins.
func WithRequestTimeout(d time.Duration) RequestOption {
	return requestOptionFunc(func(c *requestConfig) { c.timeout = d })
}

// WithBodyBytes sets a raw request body.
func WithBodyBytes(b []byte) RequestOption {
	return requestOptionFunc(func(c *requestConfig) {
		c.body = append([]byte(nil), b...)
		c.bodyErr = nil
	})
}

// WithJSON sets the request body to the JSON encoding of v. Encoding errors surface from
// NewRequest.
func WithJSON(v any) RequestOption {
	return requestOptionFunc(func(c *requestConfig) {
		b, err := json.Marshal(v)
		c.body, c.bodyErr = b, err
		c.contentType = "application/json"
	})
}

// WithAccept sets the Accept header unless the request headers already carry one.
func WithAccept(mime string) RequestOption {
	return requestOptionFunc(func(c *requestConfig) { c.accept = mime })
}

func WithBearerToken(token string) RequestOption {
	return requestOptionFunc(func(c *requestConfig) { c.bearerToken = token })
}

type requestTimeoutKey struct{}

func requestTimeout(ctx context.Context) time.Duration {
	if ctx == nil {
		return 0
	}
	d, _ := ctx.Value(requestTimeoutKey{}).(time.Duration)
	return d
}

// NewRequest builds a request for path, which is either absolute or relative to the base URL.
func (c *Client) NewRequest(ctx context.Context, method, path string, opts ...RequestOption) (*http.Request, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rc := requestConfig{}
	for _, o := range opts {
		if o != nil {
			o.apply(&rc)
		}
	}
	if rc.bodyErr != nil {
		return nil, rc.bodyErr
	}

	u, err := c.resolveURL(path, rc.query)
	if err != nil {
		return nil, err
	}
	if rc.timeout > 0 {
		ctx = context.WithValue(ctx, requestTimeoutKey{}, rc.timeout)
	}

	var body io.Reader
	if rc.body != nil {
		body = bytes.NewReader(rc.body)
	}
	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(method), u.String(), body)
	if err != nil {
		return nil, err
	}
	if rc.body != nil {
		b := rc.body
		req.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(b)), nil
		}
	}
	c.applyHeaders(req, &rc)
	return req, nil
}

// applyHeaders layers client defaults, request headers, then the derived headers that are
// only set when still absent.
func (c *Client) applyHeaders(req *http.Request, rc *requestConfig) {
	for k, vv := range c.defaultHeaders {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	for k, vv := range rc.header {
		req.Header[http.CanonicalHeaderKey(k)] = append([]string(nil), vv...)
	}

	setIfEmpty := func(k, v string) {
		if v != "" && req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}
	setIfEmpty("Content-Type", rc.contentType)
	setIfEmpty("Accept", rc.accept)
	setIfEmpty("User-Agent", c.userAgent)
	if rc.bearerToken != "" {
		setIfEmpty("Authorization", "Bearer "+rc.bearerToken)
	}
	if c.requestID.Header != "" && c.requestID.New != nil {
		setIfEmpty(c.requestID.Header, strings.TrimSpace(c.requestID.New()))
	}
}
