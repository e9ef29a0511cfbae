// Package baidu implements llm.Adapter for Baidu Wenxin (ERNIE).
//
// The API key is a compound "API_KEY:SECRET_KEY". Every logical request first exchanges it for
// an access token at the OAuth endpoint, then calls the completion endpoint with the token as a
// query parameter. Tokens are not cached.
package baidu

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/bebetterst/lightAIchat/httpx"
	"github.com/bebetterst/lightAIchat/llm"
	"github.com/bebetterst/lightAIchat/llm/internal/transport"
	"github.com/bebetterst/lightAIchat/llm/retry"
)

// DefaultTokenURL is the OAuth client-credentials endpoint.
const DefaultTokenURL = "https://aip.baidubce.com/oauth/2.0/token"

type Option func(*Provider) error

type Provider struct {
	desc     llm.Descriptor
	tokenURL string

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

// WithTokenURL overrides the OAuth endpoint.
func WithTokenURL(u string) Option {
	return func(p *Provider) error {
		if strings.TrimSpace(u) == "" {
			return fmt.Errorf("baidu: empty token url")
		}
		p.tokenURL = u
		return nil
	}
}

func New(opts ...Option) (*Provider, error) {
	desc, _ := llm.DescriptorOf(llm.ProviderBaidu)
	p := &Provider{desc: desc, tokenURL: DefaultTokenURL}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}
	tr, err := transport.New(llm.ProviderBaidu, p.trOpts)
	if err != nil {
		return nil, err
	}
	p.tr = tr
	return p, nil
}

func (p *Provider) Descriptor() llm.Descriptor { return p.desc }

func (p *Provider) Complete(ctx context.Context, conv llm.Conversation, s llm.Settings, onProgress llm.ProgressFunc) (string, error) {
	id, secret, err := SplitKey(s.APIKey)
	if err != nil {
		return "", err
	}
	token, err := p.accessToken(ctx, id, secret)
	if err != nil {
		return "", err
	}

	msgs := make([]wireMessage, 0, len(conv))
	for _, m := range conv {
		msgs = append(msgs, wireMessage{Role: string(m.Role), Content: m.Content})
	}
	req := chatRequest{
		Model:       s.Model(),
		Messages:    msgs,
		Temperature: s.Temperature,
		MaxTokens:   s.MaxTokens,
		Stream:      s.Stream && onProgress != nil,
	}
	call := transport.Request{
		Method: http.MethodPost,
		URL:    llm.Resolve(llm.ProviderBaidu, s.APIEndpoint),
		Body:   req,
		Query:  url.Values{"access_token": {token}},
	}

	if req.Stream {
		body, err := p.tr.Open(ctx, call)
		if err != nil {
			return "", err
		}
		return llm.Consume(newStream(p.tr, body), false, onProgress)
	}

	call.Timeout = transport.CompletionTimeout
	var resp chatResponse
	raw, err := p.tr.DoJSON(ctx, call, &resp)
	if err != nil {
		return "", err
	}
	if resp.ErrorCode != 0 {
		return "", vendorError(resp, raw)
	}
	return resp.Result, nil
}

// Probe performs the token exchange only; a successful exchange counts as connectivity.
func (p *Provider) Probe(ctx context.Context, s llm.Settings) llm.ProbeResult {
	id, secret, err := SplitKey(s.APIKey)
	if err == nil {
		_, err = p.accessToken(ctx, id, secret)
	}
	if err != nil {
		return llm.ProbeFailed(fmt.Sprintf("%s connection failed: %s", p.desc.Name, llm.Describe(err)))
	}
	return llm.ProbeOK("connection succeeded")
}

func (p *Provider) accessToken(ctx context.Context, id, secret string) (string, error) {
	var tok tokenResponse
	raw, err := p.tr.DoJSON(ctx, transport.Request{
		Method: http.MethodPost,
		URL:    p.tokenURL,
		Query: url.Values{
			"grant_type":    {"client_credentials"},
			"client_id":     {id},
			"client_secret": {secret},
		},
		Timeout: transport.TokenTimeout,
	}, &tok)
	if err != nil {
		return "", err
	}
	if tok.AccessToken == "" {
		msg := "token response carries no access_token"
		if tok.ErrorDescription != "" {
			msg = tok.ErrorDescription
		}
		e := llm.ProtocolError(llm.ProviderBaidu, msg, nil, nil)
		e.Code = tok.Error
		p.tr.Logger().Debug("token exchange rejected", slog.String("code", tok.Error), slog.Int("bytes", len(raw)))
		return "", e
	}
	return tok.AccessToken, nil
}

// SplitKey splits a compound "API_KEY:SECRET_KEY" on the first ':'.
func SplitKey(key string) (id, secret string, err error) {
	id, secret, _ = strings.Cut(strings.TrimSpace(key), ":")
	id, secret = strings.TrimSpace(id), strings.TrimSpace(secret)
	if id == "" || secret == "" {
		return "", "", llm.ConfigError(llm.ProviderBaidu, "malformed API key, expected API_KEY:SECRET_KEY")
	}
	return id, secret, nil
}

func vendorError(resp chatResponse, raw []byte) error {
	msg := resp.ErrorMsg
	if msg == "" {
		msg = "provider returned an error"
	}
	e := llm.ProtocolError(llm.ProviderBaidu, msg, raw, nil)
	e.Code = strconv.Itoa(resp.ErrorCode)
	return e
}
