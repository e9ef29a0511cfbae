package baidu

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model,omitempty"`
	Messages    []wireMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Stream      bool          `json:"stream,omitempty"`
}

// chatResponse is both the blocking response and one streamed chunk.
type chatResponse struct {
	ID          string `json:"id"`
	Result      string `json:"result"`
	IsEnd       bool   `json:"is_end"`
	IsTruncated bool   `json:"is_truncated"`

	ErrorCode int    `json:"error_code"`
	ErrorMsg  string `json:"error_msg"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`

	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}
