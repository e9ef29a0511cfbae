// Package xunfei implements llm.Adapter for iFlytek Spark over its HTTP envelope protocol.
//
// The API key is "APPID:API_SECRET". The request wraps the conversation in a
// header/parameter/payload envelope and carries it as a single newline-joined
// "role: content" transcript, which is what the endpoint accepts.
package xunfei

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/bebetterst/lightAIchat/httpx"
	"github.com/bebetterst/lightAIchat/llm"
	"github.com/bebetterst/lightAIchat/llm/internal/transport"
	"github.com/bebetterst/lightAIchat/llm/retry"
)

const defaultUID = "user"

const (
	probeShapeOK  = "API key format is valid; credentials are verified on the first real request"
	probeShapeBad = "iFlytek Spark API key format is invalid, expected appid.apiKey.apiSecret"
)

type Option func(*Provider) error

type Provider struct {
	desc llm.Descriptor

	trOpts transport.Options
	tr     *transport.Client
}

func WithHTTPClient(c *httpx.Client) Option {
	return func(p *Provider) error {
		p.trOpts.HTTP = c
		return nil
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Provider) error {
		if logger != nil {
			p.trOpts.Logger = logger
		}
		return nil
	}
}

func WithRetry(pol retry.Policy) Option {
	return func(p *Provider) error {
		p.trOpts.Retry = &pol
		return nil
	}
}

func New(opts ...Option) (*Provider, error) {
	desc, _ := llm.DescriptorOf(llm.ProviderXunfei)
	p := &Provider{desc: desc}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	tr, err := transport.New(llm.ProviderXunfei, p.trOpts)
	if err != nil {
		return nil, err
	}
	p.tr = tr
	return p, nil
}

func (p *Provider) Descriptor() llm.Descriptor { return p.desc }

// Complete always performs one blocking request; onProgress is not invoked.
func (p *Provider) Complete(ctx context.Context, conv llm.Conversation, s llm.Settings, _ llm.ProgressFunc) (string, error) {
	appID, secret, err := SplitKey(s.APIKey)
	if err != nil {
		return "", err
	}

	req := envelope{
		Header: header{AppID: appID, UID: defaultUID},
		Parameter: parameter{Chat: chatParameter{
			Domain:      s.Model(),
			Temperature: s.Temperature,
			MaxTokens:   s.MaxTokens,
		}},
		Payload: requestPayload{Message: message{Text: conv.Transcript()}},
	}

	var resp response
	raw, err := p.tr.DoJSON(ctx, transport.Request{
		Method:  http.MethodPost,
		URL:     llm.Resolve(llm.ProviderXunfei, s.APIEndpoint),
		Body:    req,
		Bearer:  secret,
		Timeout: transport.CompletionTimeout,
	}, &resp)
	if err != nil {
		return "", err
	}
	if resp.Header != nil && resp.Header.Code != 0 {
		e := llm.ProtocolError(llm.ProviderXunfei, firstNonEmpty(resp.Header.Message, "provider returned an error"), raw, nil)
		e.Code = resp.Header.codeString()
		return "", e
	}
	if resp.Payload == nil || resp.Payload.Text == nil {
		return "", llm.ProtocolError(llm.ProviderXunfei, "response has no payload.text", raw, nil)
	}
	return resp.Payload.Text.Content, nil
}

// Probe only checks the key shape (appid.apiKey.apiSecret); no request is sent.
func (p *Provider) Probe(_ context.Context, s llm.Settings) llm.ProbeResult {
	if !ValidProbeKey(s.APIKey) {
		return llm.ProbeFailed(probeShapeBad)
	}
	return llm.ProbeOK(probeShapeOK)
}

// ValidProbeKey reports whether key has exactly three non-empty dot-separated segments.
func ValidProbeKey(key string) bool {
	parts := strings.Split(strings.TrimSpace(key), ".")
	if len(parts) != 3 {
		return false
	}
	for _, p := range parts {
		if p == "" {
			return false
		}
	}
	return true
}

// SplitKey splits "APPID:API_SECRET" on ':' and takes the first two segments. Anything after a
// second ':' is ignored, so "id:secret:note" authenticates with "secret".
func SplitKey(key string) (appID, secret string, err error) {
	parts := strings.Split(strings.TrimSpace(key), ":")
	if len(parts) >= 2 {
		appID, secret = strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	}
	if appID == "" || secret == "" {
		return "", "", llm.ConfigError(llm.ProviderXunfei, "malformed API key, expected APPID:API_SECRET")
	}
	return appID, secret, nil
}

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if v != "" {
			return v
		}
	}
	return ""
}
