// Package compatible covers the vendors that expose an OpenAI-compatible endpoint without
// needing anything beyond endpoint and model defaults: Alibaba DashScope (compatible mode),
// SiliconFlow and Volcano Ark.
package compatible

import (
	"strings"

	"github.com/bebetterst/lightAIchat/llm"
	"github.com/bebetterst/lightAIchat/llm/providers/openai_compat"
)

// Option configures a compatible-family adapter.
type Option = openai_compat.Option

var (
	WithHTTPClient = openai_compat.WithHTTPClient
	WithLogger     = openai_compat.WithLogger
	WithRetry      = openai_compat.WithRetry
	WithHooks      = openai_compat.WithHooks
)

// Providers lists the ids served by this package.
func Providers() []llm.ProviderID {
	return []llm.ProviderID{llm.ProviderAlibaba, llm.ProviderGuiji, llm.ProviderVolcano}
}

// Supports reports whether id belongs to the compatible family.
func Supports(id llm.ProviderID) bool {
	for _, p := range Providers() {
		if p == id {
			return true
		}
	}
	return false
}

// New returns the adapter for one member of the family.
func New(id llm.ProviderID, opts ...Option) (*openai_compat.Provider, error) {
	if !Supports(id) {
		return nil, llm.ConfigError(id, "not an OpenAI-compatible provider")
	}
	base := []Option{openai_compat.WithProbeMode(openai_compat.ProbeCanary)}
	if id == llm.ProviderAlibaba {
		base = append(base, openai_compat.WithHooks(openai_compat.Hooks{PatchRequest: dashScopeThinking}))
	}
	return openai_compat.New(id, append(base, opts...)...)
}

// dashScopeThinking turns off thinking mode for blocking Qwen3 calls; DashScope only allows it
// on streamed requests.
func dashScopeThinking(req *openai_compat.ChatCompletionRequest) {
	if req.Stream || req.EnableThinking != nil {
		return
	}
	if strings.HasPrefix(strings.ToLower(req.Model), "qwen3") {
		off := false
		req.EnableThinking = &off
	}
}
