// Package openai_compat implements llm.Adapter for vendors that speak the OpenAI chat
// completions protocol. The openai, deepseek and compatible packages configure it per vendor.
package openai_compat

import (
	"context"
	"net/http"
	"strings"

	"github.com/bebetterst/lightAIchat/llm"
	"github.com/bebetterst/lightAIchat/llm/internal/transport"
)

const (
	probeContent   = "Hello"
	probeMaxTokens = 5

	probeSucceeded = "connection succeeded"
)

type Provider struct {
	desc      llm.Descriptor
	probeMode ProbeMode
	hooks     Hooks

	trOpts transport.Options
	tr     *transport.Client
}

// New returns the adapter for provider id. The descriptor (defaults and capabilities) comes from
// llm.DescriptorOf and may be adjusted with options.
func New(id llm.ProviderID, opts ...Option) (*Provider, error) {
	desc, ok := llm.DescriptorOf(id)
	if !ok {
		return nil, llm.ConfigError(id, "unsupported provider")
	}
	p := &Provider{desc: desc}
	for _, opt := range opts {
		if err := opt(p); err != nil {
			return nil, err
		}
	}

	tr, err := transport.New(id, p.trOpts)
	if err != nil {
		return nil, err
	}
	p.tr = tr
	return p, nil
}

func (p *Provider) Descriptor() llm.Descriptor { return p.desc }

func (p *Provider) Complete(ctx context.Context, conv llm.Conversation, s llm.Settings, onProgress llm.ProgressFunc) (string, error) {
	base, err := p.endpoint(s)
	if err != nil {
		return "", err
	}

	req := p.buildRequest(conv, s)
	stream := s.Stream && onProgress != nil && p.desc.SupportsStreaming
	req.Stream = stream
	if p.hooks.PatchRequest != nil {
		p.hooks.PatchRequest(&req)
	}

	call := transport.Request{
		Method: http.MethodPost,
		URL:    llm.ChatCompletionsURL(base),
		Body:   req,
		Bearer: s.APIKey,
		Header: p.headers(),
	}

	if stream {
		body, err := p.tr.Open(ctx, call)
		if err != nil {
			return "", err
		}
		return llm.Consume(newStream(p.tr, body), p.desc.SupportsReasoningSplit, onProgress)
	}

	call.Timeout = transport.CompletionTimeout
	var resp chatCompletionResponse
	raw, err := p.tr.DoJSON(ctx, call, &resp)
	if err != nil {
		return "", err
	}
	if resp.Error != nil {
		return "", chunkError(p.desc.ID, resp.Error, raw)
	}
	if len(resp.Choices) == 0 {
		return "", llm.ProtocolError(p.desc.ID, "response contains no choices", raw, nil)
	}

	msg := resp.Choices[0].Message
	if p.desc.SupportsReasoningSplit {
		return llm.ComposeReasoning(msg.ReasoningContent, msg.Content), nil
	}
	return msg.Content, nil
}

func (p *Provider) Probe(ctx context.Context, s llm.Settings) llm.ProbeResult {
	base, err := p.endpoint(s)
	if err != nil {
		return probeFailure(p.desc.Name, err)
	}

	switch p.probeMode {
	case ProbeListModels:
		var out modelList
		_, err = p.tr.DoJSON(ctx, transport.Request{
			Method:  http.MethodGet,
			URL:     llm.ModelsURL(base),
			Bearer:  s.APIKey,
			Header:  p.headers(),
			Timeout: transport.CompletionTimeout,
		}, &out)
	default:
		var out chatCompletionResponse
		_, err = p.tr.DoJSON(ctx, transport.Request{
			Method: http.MethodPost,
			URL:    llm.ChatCompletionsURL(base),
			Body: ChatCompletionRequest{
				Model:     p.model(s),
				Messages:  []WireMessage{{Role: string(llm.RoleUser), Content: probeContent}},
				MaxTokens: probeMaxTokens,
			},
			Bearer:  s.APIKey,
			Header:  p.headers(),
			Timeout: transport.CompletionTimeout,
		}, &out)
		if err == nil && out.Error != nil {
			err = chunkError(p.desc.ID, out.Error, nil)
		}
	}
	if err != nil {
		p.tr.Logger().Debug("probe failed", "err", err)
		return probeFailure(p.desc.Name, err)
	}
	return llm.ProbeOK(probeSucceeded)
}

func (p *Provider) endpoint(s llm.Settings) (string, error) {
	if strings.TrimSpace(s.APIKey) == "" {
		return "", llm.ErrMissingAPIKey
	}
	base := llm.Resolve(p.desc.ID, s.APIEndpoint)
	if base == "" {
		return "", llm.ConfigError(p.desc.ID, "no API endpoint configured")
	}
	return base, nil
}

func (p *Provider) model(s llm.Settings) string {
	if m := strings.TrimSpace(s.ModelName); m != "" {
		return m
	}
	return llm.DefaultModel(p.desc.ID)
}

func (p *Provider) buildRequest(conv llm.Conversation, s llm.Settings) ChatCompletionRequest {
	msgs := make([]WireMessage, 0, len(conv))
	for _, m := range conv {
		msgs = append(msgs, WireMessage{Role: string(m.Role), Content: m.Content})
	}
	temp := s.Temperature
	return ChatCompletionRequest{
		Model:       p.model(s),
		Messages:    msgs,
		Temperature: &temp,
		MaxTokens:   s.MaxTokens,
	}
}

func (p *Provider) headers() http.Header {
	h := make(http.Header)
	h.Set("Content-Type", "application/json")
	if p.hooks.PatchHeaders != nil {
		p.hooks.PatchHeaders(h)
	}
	return h
}
