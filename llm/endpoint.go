package llm

import "strings"

const chatCompletionsPath = "/chat/completions"

var descriptors = map[ProviderID]Descriptor{
	ProviderOpenAI: {
		ID:                ProviderOpenAI,
		Name:              "OpenAI",
		DefaultEndpoint:   "https://api.openai.com/v1",
		DefaultModel:      "gpt-4o-mini",
		Models:            []string{"gpt-4o-mini"},
		SupportsStreaming: true,
	},
	ProviderDeepSeek: {
		ID:                     ProviderDeepSeek,
		Name:                   "DeepSeek",
		DefaultEndpoint:        "https://api.deepseek.com/v1",
		DefaultModel:           "deepseek-chat",
		Models:                 []string{"deepseek-chat", "deepseek-reasoner"},
		SupportsStreaming:      true,
		SupportsReasoningSplit: true,
		RequiresNormalization:  true,
	},
	ProviderBaidu: {
		ID:                    ProviderBaidu,
		Name:                  "Baidu Wenxin",
		DefaultEndpoint:       "https://aip.baidubce.com/rpc/2.0/ai_custom/v1/wenxinworkshop/chat/completions",
		DefaultModel:          "ernie-4.0-8k",
		Models:                []string{"ernie-4.0-8k"},
		SupportsStreaming:     true,
		SupportsTokenExchange: true,
		RequiresNormalization: true,
	},
	ProviderXunfei: {
		ID:              ProviderXunfei,
		Name:            "iFlytek Spark",
		DefaultEndpoint: "https://spark-api.xf-yun.com/v1.1/chat",
		DefaultModel:    "generalv3.5",
		Models:          []string{"generalv3.5"},
	},
	ProviderAlibaba: {
		ID:                     ProviderAlibaba,
		Name:                   "Alibaba DashScope",
		DefaultEndpoint:        "https://dashscope.aliyuncs.com/compatible-mode/v1",
		DefaultModel:           "qwq-32b",
		Models:                 []string{"qwq-32b", "deepseek-r1", "deepseek-v3"},
		SupportsStreaming:      true,
		SupportsReasoningSplit: true,
	},
	ProviderGuiji: {
		ID:                     ProviderGuiji,
		Name:                   "SiliconFlow",
		DefaultEndpoint:        "https://api.siliconflow.cn/v1",
		DefaultModel:           "Qwen/QwQ-32B",
		Models:                 []string{"Qwen/QwQ-32B", "deepseek-ai/DeepSeek-R1", "deepseek-ai/DeepSeek-V3", "internlm/internlm2_5-20b-chat"},
		SupportsStreaming:      true,
		SupportsReasoningSplit: true,
	},
	ProviderVolcano: {
		ID:                     ProviderVolcano,
		Name:                   "Volcano Ark",
		DefaultEndpoint:        "https://ark.cn-beijing.volces.com/api/v3",
		DefaultModel:           "doubao-1-5-pro-256k-250115",
		Models:                 []string{"doubao-1-5-pro-256k-250115", "doubao-1-5-vision-pro-32k-250115", "deepseek-r1-250120"},
		SupportsStreaming:      true,
		SupportsReasoningSplit: true,
	},
}

// Resolve returns the base URL for a provider. A non-empty explicit endpoint always wins;
// unknown providers resolve to "" and callers must treat that as a configuration error.
func Resolve(id ProviderID, explicit string) string {
	if e := strings.TrimSpace(explicit); e != "" {
		return e
	}
	return descriptors[id].DefaultEndpoint
}

// DefaultModel returns the provider's default model name, or "" for unknown providers.
func DefaultModel(id ProviderID) string {
	return descriptors[id].DefaultModel
}

// DescriptorOf returns the static descriptor of a provider.
func DescriptorOf(id ProviderID) (Descriptor, bool) {
	d, ok := descriptors[id]
	return d.clone(), ok
}

// Descriptors returns all descriptors in Providers() order.
func Descriptors() []Descriptor {
	ids := Providers()
	out := make([]Descriptor, 0, len(ids))
	for _, id := range ids {
		out = append(out, descriptors[id].clone())
	}
	return out
}

func (d Descriptor) clone() Descriptor {
	d.Models = append([]string(nil), d.Models...)
	return d
}

// ChatCompletionsURL appends "/chat/completions" to base unless it is already a
// completion URL, so overrides may name either the API root or the full endpoint.
func ChatCompletionsURL(base string) string {
	b := strings.TrimRight(strings.TrimSpace(base), "/")
	if b == "" || strings.HasSuffix(b, chatCompletionsPath) {
		return b
	}
	return b + chatCompletionsPath
}

// ModelsURL returns the model listing URL for an OpenAI-style base.
func ModelsURL(base string) string {
	b := strings.TrimRight(strings.TrimSpace(base), "/")
	b = strings.TrimSuffix(b, chatCompletionsPath)
	if b == "" {
		return ""
	}
	return b + "/models"
}
