package llm

import "testing"

func TestResolve_ExplicitWins(t *testing.T) {
	for _, id := range append(Providers(), ProviderID("nope")) {
		if got := Resolve(id, "https://proxy.example/v1"); got != "https://proxy.example/v1" {
			t.Fatalf("Resolve(%q)=%q", id, got)
		}
	}
}

func TestResolve_Defaults(t *testing.T) {
	if got := Resolve(ProviderVolcano, ""); got != "https://ark.cn-beijing.volces.com/api/v3" {
		t.Fatalf("volcano=%q", got)
	}
	if got := Resolve(ProviderAlibaba, "   "); got != "https://dashscope.aliyuncs.com/compatible-mode/v1" {
		t.Fatalf("alibaba=%q", got)
	}
	if got := DefaultModel(ProviderGuiji); got != "Qwen/QwQ-32B" {
		t.Fatalf("guiji model=%q", got)
	}
}

func TestResolve_UnknownProvider(t *testing.T) {
	if got := Resolve("nope", ""); got != "" {
		t.Fatalf("Resolve=%q", got)
	}
	if got := DefaultModel("nope"); got != "" {
		t.Fatalf("DefaultModel=%q", got)
	}
	if ProviderID("nope").Known() {
		t.Fatalf("unknown provider reported as known")
	}
}

func TestChatCompletionsURL(t *testing.T) {
	cases := map[string]string{
		"https://api.deepseek.com/v1":                   "https://api.deepseek.com/v1/chat/completions",
		"https://api.deepseek.com/v1/":                  "https://api.deepseek.com/v1/chat/completions",
		"https://api.siliconflow.cn/v1/chat/completions": "https://api.siliconflow.cn/v1/chat/completions",
		"": "",
	}
	for in, want := range cases {
		if got := ChatCompletionsURL(in); got != want {
			t.Fatalf("ChatCompletionsURL(%q)=%q want %q", in, got, want)
		}
	}
	if got := ModelsURL("https://api.openai.com/v1/chat/completions"); got != "https://api.openai.com/v1/models" {
		t.Fatalf("ModelsURL=%q", got)
	}
}

func TestSettings_Defaults(t *testing.T) {
	s := Settings{Provider: ProviderDeepSeek, APIKey: "k"}
	if s.Model() != "deepseek-chat" {
		t.Fatalf("Model=%q", s.Model())
	}
	if s.Endpoint() != "https://api.deepseek.com/v1" {
		t.Fatalf("Endpoint=%q", s.Endpoint())
	}
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate() err=%v", err)
	}
	s.APIKey = " "
	if err := s.Validate(); !IsConfiguration(err) {
		t.Fatalf("Validate() err=%v", err)
	}
}

func TestDescriptors_ModelCatalog(t *testing.T) {
	for _, d := range Descriptors() {
		if len(d.Models) == 0 || d.Models[0] != d.DefaultModel {
			t.Fatalf("%s: models %v should start with %q", d.ID, d.Models, d.DefaultModel)
		}
	}
	d, _ := DescriptorOf(ProviderDeepSeek)
	if len(d.Models) != 2 || d.Models[1] != "deepseek-reasoner" {
		t.Fatalf("deepseek models=%v", d.Models)
	}

	d.Models[0] = "changed"
	if again, _ := DescriptorOf(ProviderDeepSeek); again.Models[0] != "deepseek-chat" {
		t.Fatalf("descriptor table mutated through a returned copy: %v", again.Models)
	}
}
