package llm

import "context"

// ProviderID is the canonical identifier of a model provider.
type ProviderID string

const (
	ProviderOpenAI   ProviderID = "openai"
	ProviderDeepSeek ProviderID = "deepseek"
	ProviderBaidu    ProviderID = "baidu"
	ProviderXunfei   ProviderID = "xunfei"
	ProviderAlibaba  ProviderID = "alibaba"
	ProviderGuiji    ProviderID = "guiji"
	ProviderVolcano  ProviderID = "volcano"
)

// Providers lists every supported provider in a stable order.
func Providers() []ProviderID {
	return []ProviderID{
		ProviderOpenAI,
		ProviderDeepSeek,
		ProviderBaidu,
		ProviderXunfei,
		ProviderAlibaba,
		ProviderGuiji,
		ProviderVolcano,
	}
}

func (p ProviderID) Known() bool {
	_, ok := descriptors[p]
	return ok
}

func (p ProviderID) String() string { return string(p) }

// Descriptor describes the static capabilities of a provider adapter.
type Descriptor struct {
	ID              ProviderID `json:"id" yaml:"id"`
	Name            string     `json:"name" yaml:"name"`
	DefaultEndpoint string     `json:"defaultEndpoint" yaml:"defaultEndpoint"`
	DefaultModel    string     `json:"defaultModel" yaml:"defaultModel"`
	// Models lists the model names offered for selection, DefaultModel first.
	Models          []string   `json:"models" yaml:"models"`

	SupportsStreaming      bool `json:"supportsStreaming" yaml:"supportsStreaming"`
	SupportsReasoningSplit bool `json:"supportsReasoningSplit" yaml:"supportsReasoningSplit"`
	SupportsTokenExchange  bool `json:"supportsTokenExchange" yaml:"supportsTokenExchange"`

	// RequiresNormalization is set for vendors that reject non-alternating or
	// assistant-first message sequences.
	RequiresNormalization bool `json:"requiresNormalization" yaml:"requiresNormalization"`
}

// Adapter translates the uniform completion contract to one vendor's wire protocol.
//
// Implementations are expected to:
//   - treat Settings and Conversation as read-only
//   - invoke onProgress (when non-nil) sequentially with cumulative text only
//   - return an *Error (or wrap one) for provider, transport and configuration failures
//   - surface no partial result on failure
//   - honor ctx cancellation
type Adapter interface {
	Descriptor() Descriptor
	Complete(ctx context.Context, conv Conversation, s Settings, onProgress ProgressFunc) (string, error)

	// Probe validates credentials and connectivity. It never returns an error; failures
	// are captured in the result.
	Probe(ctx context.Context, s Settings) ProbeResult
}
