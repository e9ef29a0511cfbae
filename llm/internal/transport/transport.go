// Package transport is the HTTP layer shared by the provider adapters. It binds an httpx.Client
// to the retry policy and converts transport and status failures into *llm.Error.
package transport

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bebetterst/lightAIchat/httpx"
	"github.com/bebetterst/lightAIchat/llm"
	"github.com/bebetterst/lightAIchat/llm/retry"
	"github.com/bebetterst/lightAIchat/version"
)

const (
	// CompletionTimeout bounds a non-streaming completion call.
	CompletionTimeout = 60 * time.Second
	// TokenTimeout bounds a credential exchange call.
	TokenTimeout = 30 * time.Second
)

// maxBodyBytes caps how much of a successful non-streaming response is buffered.
const maxBodyBytes = 16 << 20

type Client struct {
	provider llm.ProviderID
	http     *httpx.Client
	retry    retry.Policy
	logger   *slog.Logger
}

type Options struct {
	// HTTP is the underlying client. When nil, one is built with the default transport.
	HTTP   *httpx.Client
	Retry  *retry.Policy
	Logger *slog.Logger
}

func New(provider llm.ProviderID, opts Options) (*Client, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("provider", string(provider)))

	hc := opts.HTTP
	if hc == nil {
		c, err := NewHTTPClient(logger)
		if err != nil {
			return nil, err
		}
		hc = c
	}

	pol := retry.Default()
	if opts.Retry != nil {
		pol = *opts.Retry
	}
	if pol.Logger == nil {
		pol.Logger = logger
	}

	return &Client{provider: provider, http: hc, retry: pol, logger: logger}, nil
}

// NewHTTPClient builds the httpx client used when none is injected.
func NewHTTPClient(logger *slog.Logger, opts ...httpx.Option) (*httpx.Client, error) {
	base := []httpx.Option{httpx.WithUserAgent(version.UserAgent())}
	c, err := httpx.New(append(base, opts...)...)
	if err != nil {
		return nil, err
	}
	hdr := httpx.DefaultRequestIDConfig().Header
	return c.WithHooks(nil, []httpx.AfterHook{httpx.LoggingHooks(logger, hdr)}), nil
}

func (c *Client) Provider() llm.ProviderID { return c.provider }

func (c *Client) Logger() *slog.Logger { return c.logger }

// Request describes one provider call.
type Request struct {
	Method string
	URL    string
	// Body is JSON encoded when non-nil.
	Body   any
	Bearer string
	Query  url.Values
	Header http.Header
	// Timeout bounds each attempt. Zero leaves only the caller's context.
	Timeout time.Duration
}

func (r Request) options(accept string) []httpx.RequestOption {
	opts := []httpx.RequestOption{httpx.WithQuery(r.Query), httpx.WithHeaders(r.Header), httpx.WithAccept(accept)}
	if r.Body != nil {
		opts = append(opts, httpx.WithJSON(r.Body))
	}
	if r.Bearer != "" {
		opts = append(opts, httpx.WithBearerToken(r.Bearer))
	}
	if r.Timeout > 0 {
		opts = append(opts, httpx.WithRequestTimeout(r.Timeout))
	}
	return opts
}

func (r Request) method() string {
	if r.Method == "" {
		return http.MethodPost
	}
	return r.Method
}

// Do performs r under the retry policy and returns the raw 2xx body.
func (c *Client) Do(ctx context.Context, r Request) ([]byte, error) {
	return retry.DoValue(ctx, c.retry, func(ctx context.Context) ([]byte, error) {
		return c.once(ctx, r)
	})
}

// DoJSON is Do followed by decoding the body into out. A body that is not valid JSON is a
// protocol error.
func (c *Client) DoJSON(ctx context.Context, r Request, out any) ([]byte, error) {
	raw, err := c.Do(ctx, r)
	if err != nil {
		return raw, err
	}
	if err := httpx.DecodeJSON(raw, out); err != nil {
		return raw, llm.ProtocolError(c.provider, "malformed response body", raw, err)
	}
	return raw, nil
}

func (c *Client) once(ctx context.Context, r Request) ([]byte, error) {
	req, err := c.http.NewRequest(ctx, r.method(), r.URL, r.options("application/json")...)
	if err != nil {
		return nil, c.mapError(err)
	}
	resp, err := c.http.DoStatus(req)
	if err != nil {
		return nil, c.mapError(err)
	}
	raw, err := httpx.ReadBody(resp, maxBodyBytes)
	if errors.Is(err, httpx.ErrBodyTooLarge) {
		return nil, llm.ProtocolError(c.provider, "response body too large", nil, err)
	}
	if err != nil {
		return nil, c.mapError(err)
	}
	return raw, nil
}

// Open performs r under the retry policy and returns the open body of the 2xx response.
// Retrying stops once the response headers arrived; failures while reading the body are the
// caller's to surface.
func (c *Client) Open(ctx context.Context, r Request) (io.ReadCloser, error) {
	return retry.DoValue(ctx, c.retry, func(ctx context.Context) (io.ReadCloser, error) {
		req, err := c.http.NewRequest(ctx, r.method(), r.URL, r.options("text/event-stream")...)
		if err != nil {
			return nil, c.mapError(err)
		}
		resp, err := c.http.DoStatus(req)
		if err != nil {
			return nil, c.mapError(err)
		}
		return resp.Body, nil
	})
}

// MapError converts err into an *llm.Error for this client's provider.
func (c *Client) MapError(err error) error { return c.mapError(err) }

func (c *Client) mapError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := llm.AsError(err); ok {
		return err
	}
	p := string(c.provider)
	switch httpx.Classify(err) {
	case httpx.FaultStatus:
		he, _ := httpx.AsError(err)
		code, msg := ParseErrorEnvelope(he.RawBody)
		if msg == "" {
			msg = http.StatusText(he.StatusCode)
		}
		return &llm.Error{
			Provider:   p,
			Kind:       llm.KindProtocol,
			Fault:      llm.FaultStatus,
			HTTPStatus: he.StatusCode,
			Code:       code,
			Message:    msg,
			Raw:        append([]byte(nil), he.RawBody...),
			Cause:      err,
		}
	case httpx.FaultTimeout:
		return &llm.Error{Provider: p, Kind: llm.KindTransient, Fault: llm.FaultTimeout, Message: "request deadline exceeded", Cause: err}
	case httpx.FaultConnReset:
		return &llm.Error{Provider: p, Kind: llm.KindTransient, Fault: llm.FaultConnReset, Message: "connection reset", Cause: err}
	case httpx.FaultDNS:
		return &llm.Error{Provider: p, Kind: llm.KindTransient, Fault: llm.FaultDNS, Message: "name resolution failed", Cause: err}
	case httpx.FaultCanceled:
		return &llm.Error{Provider: p, Kind: llm.KindCanceled, Message: "request canceled", Cause: err}
	}
	return &llm.Error{Provider: p, Kind: llm.KindUnclassified, Cause: err}
}

// ParseErrorEnvelope extracts a provider error code and message from a JSON error body.
// It understands the OpenAI style {"error":{...}}, the OAuth {"error","error_description"} pair,
// the flat {"code","message"} shape, the baidu {"error_code","error_msg"} shape and the xunfei
// {"header":{"code","message"}} shape.
func ParseErrorEnvelope(raw []byte) (code, message string) {
	var env struct {
		Error     json.RawMessage `json:"error"`
		Code      any             `json:"code"`
		Message   string          `json:"message"`
		ErrorCode any             `json:"error_code"`
		ErrorMsg  string          `json:"error_msg"`
		ErrorDesc string          `json:"error_description"`
		Header    *struct {
			Code    any    `json:"code"`
			Message string `json:"message"`
		} `json:"header"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", ""
	}

	if len(env.Error) > 0 {
		var nested struct {
			Message string `json:"message"`
			Code    any    `json:"code"`
			Type    string `json:"type"`
		}
		if err := json.Unmarshal(env.Error, &nested); err == nil && nested.Message != "" {
			return firstNonEmpty(stringify(nested.Code), nested.Type), nested.Message
		}
		var flat string
		if err := json.Unmarshal(env.Error, &flat); err == nil && flat != "" {
			if env.ErrorDesc != "" {
				return flat, env.ErrorDesc
			}
			return stringify(env.Code), flat
		}
	}
	if env.ErrorMsg != "" {
		return stringify(env.ErrorCode), env.ErrorMsg
	}
	if env.Header != nil && env.Header.Message != "" {
		return stringify(env.Header.Code), env.Header.Message
	}
	if env.Message != "" {
		return stringify(env.Code), env.Message
	}
	return "", ""
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		b, _ := json.Marshal(x)
		return strings.Trim(string(b), `"`)
	}
}

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if v != "" {
			return v
		}
	}
	return ""
}
