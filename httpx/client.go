package httpx

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Client struct {
	httpClient *http.Client

	baseURL *url.URL

	timeout        time.Duration
	defaultHeaders http.Header
	userAgent      string

	maxErrBody int64

	requestID RequestIDConfig

	rateLimiter RateLimiter
	before      []BeforeHook
	after       []AfterHook
}

// New constructs a Client from DefaultConfig() plus the provided options.
func New(opts ...Option) (*Client, error) {
	cfg := DefaultConfig()
	for _, o := range opts {
		if o != nil {
			o.apply(&cfg)
		}
	}
	return NewWithConfig(cfg)
}

func NewWithConfig(cfg Config) (*Client, error) {
	var bu *url.URL
	if strings.TrimSpace(cfg.BaseURL) != "" {
		u, err := url.Parse(strings.TrimSpace(cfg.BaseURL))
		if err != nil {
			return nil, err
		}
		if u.Scheme == "" || u.Host == "" {
			return nil, &url.Error{Op: "parse", URL: cfg.BaseURL, Err: errors.New("base url must be absolute")}
		}
		// Normalize so relative paths resolve as expected (treat BaseURL path as a prefix).
		if u.Path != "" && !strings.HasSuffix(u.Path, "/") {
			u.Path += "/"
		}
		bu = u
	}

	rt := cfg.Transport
	if rt == nil {
		rt = DefaultTransport()
	}

	maxErrBody := cfg.MaxErrorBodyBytes
	if maxErrBody == 0 {
		maxErrBody = DefaultMaxErrorBodyBytes
	}

	// Clone headers to avoid caller mutation.
	hdr := make(http.Header)
	for k, vv := range cfg.DefaultHeaders {
		for _, v := range vv {
			hdr.Add(k, v)
		}
	}

	c := &Client{
		httpClient:     &http.Client{Transport: rt},
		baseURL:        bu,
		timeout:        cfg.Timeout,
		defaultHeaders: hdr,
		userAgent:      cfg.UserAgent,
		maxErrBody:     maxErrBody,
		requestID:      cfg.RequestID,
		rateLimiter:    cfg.RateLimiter,
	}
	if c.requestID.New == nil && c.requestID.Header != "" {
		c.requestID.New = DefaultRequestID
	}
	return c, nil
}

// WithHooks adds hooks executed around every request.
func (c *Client) WithHooks(before []BeforeHook, after []AfterHook) *Client {
	c.before = append(c.before, before...)
	c.after = append(c.after, after...)
	return c
}

func (c *Client) resolveURL(path string, q url.Values) (*url.URL, error) {
	p := strings.TrimSpace(path)
	if p == "" {
		return nil, errors.New("empty url/path")
	}
	u, err := url.Parse(p)
	if err != nil {
		return nil, err
	}
	if u.IsAbs() {
		u2 := *u
		if q != nil {
			qq := u2.Query()
			for k, vv := range q {
				for _, v := range vv {
					qq.Add(k, v)
				}
			}
			u2.RawQuery = qq.Encode()
		}
		return &u2, nil
	}
	if c.baseURL == nil {
		return nil, errors.New("relative path requires BaseURL")
	}
	// Treat leading "/" as a relative path when BaseURL is set, so BaseURL with a path
	// prefix (e.g. https://host/api/v1) works with "/users" as expected.
	if strings.HasPrefix(u.Path, "/") {
		u2 := *u
		u2.Path = strings.TrimPrefix(u2.Path, "/")
		u = &u2
	}
	u2 := c.baseURL.ResolveReference(u)
	if q != nil {
		qq := u2.Query()
		for k, vv := range q {
			for _, v := range vv {
				qq.Add(k, v)
			}
		}
		u2.RawQuery = qq.Encode()
	}
	return u2, nil
}

func earliestDeadline(base context.Context, timeouts ...time.Duration) (time.Time, bool) {
	now := time.Now()
	var earliest time.Time
	for _, d := range timeouts {
		if d <= 0 {
			continue
		}
		dd := now.Add(d)
		if earliest.IsZero() || dd.Before(earliest) {
			earliest = dd
		}
	}
	if dl, ok := base.Deadline(); ok {
		if earliest.IsZero() || dl.Before(earliest) {
			earliest = dl
		}
	}
	if earliest.IsZero() {
		return time.Time{}, false
	}
	return earliest, true
}

// Do executes the request once. It mirrors net/http semantics:
// - transport errors are returned as error
// - non-2xx responses are returned as resp with nil error
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.do(req, false)
}

// DoStatus executes the request and converts non-2xx responses and transport failures into *Error.
// For non-2xx responses it reads up to MaxErrorBodyBytes from the body and then closes it.
//
// A successful response's body stays open and is bound to the request deadline; callers that
// stream must read it before the deadline expires.
func (c *Client) DoStatus(req *http.Request) (*http.Response, error) {
	return c.do(req, true)
}

func (c *Client) do(req *http.Request, statusAsError bool) (*http.Response, error) {
	if req == nil {
		return nil, errors.New("nil request")
	}
	ctx := req.Context()
	cancel := context.CancelFunc(func() {})
	if dl, ok := earliestDeadline(ctx, c.timeout, requestTimeout(ctx)); ok {
		if existing, has := ctx.Deadline(); !has || dl.Before(existing) {
			ctx, cancel = context.WithDeadline(ctx, dl)
		}
	}
	req = req.Clone(ctx)

	if c.rateLimiter != nil {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			cancel()
			return nil, c.transportError(req, err)
		}
	}
	for _, h := range c.before {
		if h == nil {
			continue
		}
		if err := h(req); err != nil {
			cancel()
			return nil, err
		}
	}

	t0 := time.Now()
	resp, err := c.httpClient.Do(req)
	dur := time.Since(t0)
	err = redactError(err)

	for _, h := range c.after {
		if h != nil {
			h(req, resp, err, dur)
		}
	}

	if err != nil {
		cancel()
		// http.Client may return a non-nil resp alongside an error (e.g. redirect issues).
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
		if !statusAsError {
			return nil, err
		}
		return nil, c.transportError(req, err)
	}

	if resp.StatusCode < 400 || !statusAsError {
		// Keep the deadline alive until the caller is done with the body.
		resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
		return resp, nil
	}
	defer cancel()
	return responseToError(req, resp, c.requestID.Header, c.maxErrBody)
}

func (c *Client) transportError(req *http.Request, err error) *Error {
	return &Error{
		Method:    req.Method,
		URL:       RedactURL(req.URL),
		RequestID: strings.TrimSpace(req.Header.Get(c.requestID.Header)),
		Cause:     err,
		Retryable: Classify(err).Transient(),
	}
}

type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}

func responseToError(req *http.Request, resp *http.Response, requestIDHeader string, maxErrBody int64) (*http.Response, error) {
	if resp.Body != nil {
		defer resp.Body.Close()
	}

	var raw []byte
	if resp.Body != nil && maxErrBody != 0 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBody))
		raw = b
	}

	// Expose the captured bytes to the caller (debuggability) but avoid holding open sockets.
	resp.Body = io.NopCloser(bytes.NewReader(raw))

	rid := ""
	if requestIDHeader != "" {
		rid = strings.TrimSpace(resp.Header.Get(requestIDHeader))
		if rid == "" {
			rid = strings.TrimSpace(req.Header.Get(requestIDHeader))
		}
	}
	ra, _ := parseRetryAfter(resp, time.Now())

	return resp, &Error{
		Method:     req.Method,
		URL:        RedactURL(req.URL),
		StatusCode: resp.StatusCode,
		RequestID:  rid,
		RetryAfter: ra,
		RawBody:    raw,
		Cause:      errors.New(http.StatusText(resp.StatusCode)),
	}
}
