package openai_compat

import (
	"log/slog"
	"net/http"

	"github.com/bebetterst/lightAIchat/httpx"
	"github.com/bebetterst/lightAIchat/llm/retry"
)

type Option func(*Provider) error

// ProbeMode selects how Probe checks connectivity.
type ProbeMode int

const (
	// ProbeCanary sends a tiny chat completion ("Hello", max_tokens 5).
	ProbeCanary ProbeMode = iota
	// ProbeListModels lists the models visible to the key.
	ProbeListModels
)

type Hooks struct {
	PatchHeaders func(h http.Header)

	// PatchRequest allows mutating the final wire request before it is encoded.
	// This is the escape hatch for vendors that need extra fields.
	PatchRequest func(req *ChatCompletionRequest)
}

func WithHooks(h Hooks) Option {
	return func(p *Provider) error {
		prev := p.hooks
		p.hooks.PatchHeaders = chainHeaders(prev.PatchHeaders, h.PatchHeaders)
		p.hooks.PatchRequest = chainPatchRequest(prev.PatchRequest, h.PatchRequest)
		return nil
	}
}

// WithReasoningSplit routes reasoning_content through llm.Splitter instead of dropping it.
func WithReasoningSplit(on bool) Option {
	return func(p *Provider) error {
		p.desc.SupportsReasoningSplit = on
		return nil
	}
}

func WithProbeMode(m ProbeMode) Option {
	return func(p *Provider) error {
		p.probeMode = m
		return nil
	}
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

func chainHeaders(a, b func(http.Header)) func(http.Header) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(h http.Header) {
		a(h)
		b(h)
	}
}

func chainPatchRequest(a, b func(*ChatCompletionRequest)) func(*ChatCompletionRequest) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(r *ChatCompletionRequest) {
		a(r)
		b(r)
	}
}
