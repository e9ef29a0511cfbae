package openai_compat

import (
	"encoding/json"
	"fmt"

	"github.com/bebetterst/lightAIchat/llm"
)

// chunkError maps an error object delivered inside a 200 response (or an SSE event).
func chunkError(provider llm.ProviderID, e *wireError, raw []byte) error {
	msg := e.Message
	if msg == "" {
		msg = "provider returned an error"
	}
	return &llm.Error{
		Provider: string(provider),
		Kind:     llm.KindProtocol,
		Code:     firstNonEmpty(stringify(e.Code), e.Type),
		Message:  msg,
		Raw:      append([]byte(nil), raw...),
	}
}

func probeFailure(name string, err error) llm.ProbeResult {
	return llm.ProbeFailed(fmt.Sprintf("%s connection failed: %s", name, llm.Describe(err)))
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		b, _ := json.Marshal(x)
		return string(b)
	}
}

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if v != "" {
			return v
		}
	}
	return ""
}
