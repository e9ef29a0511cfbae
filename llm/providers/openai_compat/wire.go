package openai_compat

// WireMessage is one message as sent to and received from the API.
type WireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`

	ReasoningContent string `json:"reasoning_content,omitempty"`
}

// ChatCompletionRequest is the body of POST {base}/chat/completions.
type ChatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []WireMessage `json:"messages"`
	Temperature *float64      `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Stream      bool          `json:"stream,omitempty"`

	// EnableThinking toggles DashScope's thinking mode. Nil leaves the vendor default.
	EnableThinking *bool `json:"enable_thinking,omitempty"`
}

type wireError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    any    `json:"code"`
}

type chatCompletionResponse struct {
	ID      string                 `json:"id"`
	Model   string                 `json:"model"`
	Choices []chatCompletionChoice `json:"choices"`
	Error   *wireError             `json:"error,omitempty"`
}

type chatCompletionChoice struct {
	Index        int         `json:"index"`
	Message      WireMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type chatCompletionChunk struct {
	ID      string                      `json:"id"`
	Choices []chatCompletionChunkChoice `json:"choices"`
	Error   *wireError                  `json:"error,omitempty"`
}

type chatCompletionChunkChoice struct {
	Index        int                 `json:"index"`
	Delta        chatCompletionDelta `json:"delta"`
	FinishReason string              `json:"finish_reason"`
}

type chatCompletionDelta struct {
	Role             string `json:"role,omitempty"`
	Content          string `json:"content,omitempty"`
	ReasoningContent string `json:"reasoning_content,omitempty"`
}

type modelList struct {
	Object string `json:"object"`
	Data   []struct {
		ID string `json:"id"`
	} `json:"data"`
}
