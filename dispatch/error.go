package dispatch

import (
	"errors"

	"github.com/bebetterst/lightAIchat/llm"
)

const failurePrefix = "AI response failed: "

// Error 是 Dispatch 对外暴露的统一错误形态，无论底层是哪个 provider。
// 通过 errors.As / llm.AsError 仍可取到底层 *llm.Error。
type Error struct {
	Provider llm.ProviderID
	Reason   string
	Cause    error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return failurePrefix + e.Reason
}

func (e *Error) Unwrap() error { return e.Cause }

func wrap(provider llm.ProviderID, err error) *Error {
	return &Error{Provider: provider, Reason: err.Error(), Cause: err}
}

// AsError 提取 *Error。
func AsError(err error) (*Error, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de, true
	}
	return nil, false
}
