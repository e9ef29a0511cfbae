package deepseek

import "github.com/bebetterst/lightAIchat/llm/providers/openai_compat"

// Option configures the DeepSeek adapter.
type Option = openai_compat.Option

// Re-export common OpenAI-compatible options.
var (
	WithHTTPClient = openai_compat.WithHTTPClient
	WithLogger     = openai_compat.WithLogger
	WithRetry      = openai_compat.WithRetry
	WithHooks      = openai_compat.WithHooks
)
