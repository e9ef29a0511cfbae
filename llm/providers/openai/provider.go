package openai

import (
	"github.com/bebetterst/lightAIchat/llm"
	"github.com/bebetterst/lightAIchat/llm/providers/openai_compat"
)

// Option configures the OpenAI adapter.
type Option = openai_compat.Option

var (
	WithHTTPClient = openai_compat.WithHTTPClient
	WithLogger     = openai_compat.WithLogger
	WithRetry      = openai_compat.WithRetry
	WithHooks      = openai_compat.WithHooks
)

// New returns the OpenAI adapter. Probing lists the models visible to the key.
func New(opts ...Option) (*openai_compat.Provider, error) {
	return openai_compat.New(llm.ProviderOpenAI, append([]Option{
		openai_compat.WithProbeMode(openai_compat.ProbeListModels),
	}, opts...)...)
}
