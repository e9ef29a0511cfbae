package dispatch

import (
	"fmt"
	"log/slog"

	"github.com/bebetterst/lightAIchat/httpx"
	"github.com/bebetterst/lightAIchat/llm"
	"github.com/bebetterst/lightAIchat/llm/providers/baidu"
	"github.com/bebetterst/lightAIchat/llm/providers/compatible"
	"github.com/bebetterst/lightAIchat/llm/providers/deepseek"
	"github.com/bebetterst/lightAIchat/llm/providers/openai"
	"github.com/bebetterst/lightAIchat/llm/providers/openai_compat"
	"github.com/bebetterst/lightAIchat/llm/providers/xunfei"
	"github.com/bebetterst/lightAIchat/llm/retry"
)

// Deps 是构建各 provider 适配器时共享的依赖，零值可用。
type Deps struct {
	// HTTP 为所有适配器共享的 httpx 客户端（连接池、限流器）；为空时各适配器自建。
	HTTP *httpx.Client
	// Retry 覆盖默认重试策略（3 次、线性 1s 退避）。
	Retry  *retry.Policy
	Logger *slog.Logger
}

// Registry 是 provider id 到适配器的封闭映射。
// 新增一个 provider = 在 llm 中新增一个 ProviderID + 一个适配器 + 在 NewRegistry 中注册。
type Registry struct {
	adapters map[llm.ProviderID]llm.Adapter
}

// NewRegistry 为 llm.Providers() 中的每个 provider 构建一个适配器。
func NewRegistry(deps Deps) (*Registry, error) {
	var (
		compatOpts []openai_compat.Option
		baiduOpts  []baidu.Option
		xunfeiOpts []xunfei.Option
	)
	if deps.HTTP != nil {
		compatOpts = append(compatOpts, openai_compat.WithHTTPClient(deps.HTTP))
		baiduOpts = append(baiduOpts, baidu.WithHTTPClient(deps.HTTP))
		xunfeiOpts = append(xunfeiOpts, xunfei.WithHTTPClient(deps.HTTP))
	}
	if deps.Logger != nil {
		compatOpts = append(compatOpts, openai_compat.WithLogger(deps.Logger))
		baiduOpts = append(baiduOpts, baidu.WithLogger(deps.Logger))
		xunfeiOpts = append(xunfeiOpts, xunfei.WithLogger(deps.Logger))
	}
	if deps.Retry != nil {
		compatOpts = append(compatOpts, openai_compat.WithRetry(*deps.Retry))
		baiduOpts = append(baiduOpts, baidu.WithRetry(*deps.Retry))
		xunfeiOpts = append(xunfeiOpts, xunfei.WithRetry(*deps.Retry))
	}

	var adapters []llm.Adapter
	add := func(a llm.Adapter, err error) error {
		if err != nil {
			return err
		}
		adapters = append(adapters, a)
		return nil
	}

	if err := add(openai.New(compatOpts...)); err != nil {
		return nil, err
	}
	if err := add(deepseek.New(compatOpts...)); err != nil {
		return nil, err
	}
	for _, id := range compatible.Providers() {
		if err := add(compatible.New(id, compatOpts...)); err != nil {
			return nil, err
		}
	}
	if err := add(baidu.New(baiduOpts...)); err != nil {
		return nil, err
	}
	if err := add(xunfei.New(xunfeiOpts...)); err != nil {
		return nil, err
	}

	reg, err := NewRegistryOf(adapters...)
	if err != nil {
		return nil, err
	}
	for _, id := range llm.Providers() {
		if _, ok := reg.adapters[id]; !ok {
			return nil, fmt.Errorf("dispatch: no adapter registered for %s", id)
		}
	}
	return reg, nil
}

// NewRegistryOf 用给定的适配器构建注册表，主要用于测试注入。
func NewRegistryOf(adapters ...llm.Adapter) (*Registry, error) {
	r := &Registry{adapters: make(map[llm.ProviderID]llm.Adapter, len(adapters))}
	for _, a := range adapters {
		if a == nil {
			continue
		}
		id := a.Descriptor().ID
		if _, dup := r.adapters[id]; dup {
			return nil, fmt.Errorf("dispatch: duplicate adapter for %s", id)
		}
		r.adapters[id] = a
	}
	return r, nil
}

// Lookup 返回 id 对应的适配器。
// nil 的 Registry 视为空注册表。
func (r *Registry) Lookup(id llm.ProviderID) (llm.Adapter, bool) {
	if r == nil {
		return nil, false
	}
	a, ok := r.adapters[id]
	return a, ok
}

// Descriptors 按 llm.Providers() 的顺序返回已注册适配器的描述。
func (r *Registry) Descriptors() []llm.Descriptor {
	if r == nil {
		return nil
	}
	out := make([]llm.Descriptor, 0, len(r.adapters))
	for _, id := range llm.Providers() {
		if a, ok := r.adapters[id]; ok {
			out = append(out, a.Descriptor())
		}
	}
	return out
}
