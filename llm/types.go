package llm

import (
	"strings"
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a conversation.
//
// ReasoningContent holds the "thinking" text a previous assistant turn produced, if any. It is
// kept for display by callers and is never sent back to a provider.
type Message struct {
	Role             Role       `json:"role" mapstructure:"role"`
	Content          string     `json:"content" mapstructure:"content"`
	Timestamp        *time.Time `json:"timestamp,omitempty" mapstructure:"timestamp"`
	ReasoningContent string     `json:"reasoningContent,omitempty" mapstructure:"reasoningContent"`
}

func User(text string) Message      { return Message{Role: RoleUser, Content: text} }
func Assistant(text string) Message { return Message{Role: RoleAssistant, Content: text} }

// Conversation is an ordered sequence of messages in turn order.
type Conversation []Message

// Clone returns a copy that shares no backing array with c.
func (c Conversation) Clone() Conversation {
	if c == nil {
		return nil
	}
	out := make(Conversation, len(c))
	copy(out, c)
	return out
}

// Transcript flattens the conversation into newline-joined "role: content" lines.
func (c Conversation) Transcript() string {
	lines := make([]string, 0, len(c))
	for _, m := range c {
		lines = append(lines, string(m.Role)+": "+m.Content)
	}
	return strings.Join(lines, "\n")
}

// Settings is the model configuration snapshot used for a single dispatch.
//
// The caller owns it; adapters treat it as read-only. APIKey is opaque here: some providers
// expect a compound key (see the baidu and xunfei adapters).
type Settings struct {
	Provider    ProviderID `json:"provider" mapstructure:"provider"`
	APIKey      string     `json:"apiKey" mapstructure:"apiKey"`
	APIEndpoint string     `json:"apiEndpoint,omitempty" mapstructure:"apiEndpoint"`
	ModelName   string     `json:"modelName" mapstructure:"modelName"`
	Temperature float64    `json:"temperature" mapstructure:"temperature"`
	MaxTokens   int        `json:"maxTokens" mapstructure:"maxTokens"`
	Stream      bool       `json:"stream" mapstructure:"stream"`

	SupportedFileTypes []string `json:"supportedFileTypes,omitempty" mapstructure:"supportedFileTypes"`
}

// Endpoint returns the explicit endpoint or the provider default.
func (s Settings) Endpoint() string { return Resolve(s.Provider, s.APIEndpoint) }

// Model returns the explicit model name or the provider default.
func (s Settings) Model() string {
	if m := strings.TrimSpace(s.ModelName); m != "" {
		return m
	}
	return DefaultModel(s.Provider)
}

// Validate reports configuration problems that make a dispatch pointless.
//
// A zero MaxTokens is accepted and means "provider default".
func (s Settings) Validate() error {
	if strings.TrimSpace(s.APIKey) == "" {
		return ErrMissingAPIKey
	}
	if !s.Provider.Known() {
		return &Error{Provider: string(s.Provider), Kind: KindConfiguration, Message: "unsupported provider"}
	}
	if s.Temperature < 0 {
		return &Error{Provider: string(s.Provider), Kind: KindConfiguration, Message: "temperature must be >= 0"}
	}
	if s.MaxTokens < 0 {
		return &Error{Provider: string(s.Provider), Kind: KindConfiguration, Message: "maxTokens must not be negative"}
	}
	return nil
}

// ProbeResult is the outcome of a connectivity check.
type ProbeResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func ProbeOK(msg string) ProbeResult { return ProbeResult{Success: true, Message: msg} }

func ProbeFailed(msg string) ProbeResult { return ProbeResult{Success: false, Message: msg} }

// ProgressFunc receives the cumulative text produced so far.
//
// Each call carries a string that extends the previous one; it never shrinks.
type ProgressFunc func(cumulative string)
