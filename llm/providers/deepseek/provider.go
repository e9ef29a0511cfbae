package deepseek

import (
	"github.com/bebetterst/lightAIchat/llm"
	"github.com/bebetterst/lightAIchat/llm/providers/openai_compat"
)

// New returns the DeepSeek adapter.
//
// DeepSeek streams the chain of thought in reasoning_content; it is kept apart from the answer
// and rendered through llm.Splitter. The API rejects non-alternating turns, so the dispatcher
// normalizes conversations before they get here (see Descriptor().RequiresNormalization).
func New(opts ...Option) (*openai_compat.Provider, error) {
	return openai_compat.New(llm.ProviderDeepSeek, append([]Option{
		openai_compat.WithReasoningSplit(true),
		openai_compat.WithProbeMode(openai_compat.ProbeCanary),
	}, opts...)...)
}
