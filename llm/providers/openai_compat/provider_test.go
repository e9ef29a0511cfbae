package openai_compat

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bebetterst/lightAIchat/httpx"
	"github.com/bebetterst/lightAIchat/llm"
	"github.com/bebetterst/lightAIchat/llm/retry"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func noDelay() retry.Policy {
	p := retry.Default()
	p.Delay = func(int) time.Duration { return 0 }
	return p
}

func sseBody(events ...string) string {
	var b strings.Builder
	for _, e := range events {
		b.WriteString("data: ")
		b.WriteString(e)
		b.WriteString("\n\n")
	}
	b.WriteString("data: [DONE]\n\n")
	return b.String()
}

func settingsFor(id llm.ProviderID, endpoint string) llm.Settings {
	return llm.Settings{
		Provider:    id,
		APIKey:      "sk-test",
		APIEndpoint: endpoint,
		Temperature: 0.7,
		MaxTokens:   256,
		Stream:      true,
	}
}

func TestComplete_StreamTextDelta(t *testing.T) {
	var got ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path=%s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("authorization=%q", r.Header.Get("Authorization"))
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, sseBody(
			`{"id":"s1","choices":[{"index":0,"delta":{"role":"assistant"}}]}`,
			`{"id":"s1","choices":[{"index":0,"delta":{"content":"Hello"}}]}`,
			`{"id":"s1","choices":[{"index":0,"delta":{"content":" world"}}]}`,
			`{"id":"s1","choices":[{"index":0,"delta":{},"finish_reason":"stop"}]}`,
		))
	}))
	t.Cleanup(srv.Close)

	p, err := New(llm.ProviderOpenAI, WithRetry(noDelay()))
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}

	var progress []string
	out, err := p.Complete(context.Background(), llm.Conversation{llm.User("hi")}, settingsFor(llm.ProviderOpenAI, srv.URL+"/v1"), func(s string) {
		progress = append(progress, s)
	})
	if err != nil {
		t.Fatalf("Complete() err=%v", err)
	}
	if out != "Hello world" {
		t.Fatalf("out=%q", out)
	}
	if len(progress) != 2 || progress[0] != "Hello" || progress[1] != "Hello world" {
		t.Fatalf("progress=%q", progress)
	}
	if !got.Stream || got.Model != "gpt-4o-mini" || got.MaxTokens != 256 {
		t.Fatalf("request=%+v", got)
	}
	if got.Temperature == nil || *got.Temperature != 0.7 {
		t.Fatalf("temperature=%v", got.Temperature)
	}
}

func TestComplete_StreamReasoningSplit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, sseBody(
			`{"choices":[{"delta":{"reasoning_content":"think"}}]}`,
			`{"choices":[{"delta":{"content":"ans"}}]}`,
			`{"choices":[{"delta":{"reasoning_content":"more"}}]}`,
		))
	}))
	t.Cleanup(srv.Close)

	p, err := New(llm.ProviderDeepSeek, WithRetry(noDelay()))
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	var last string
	out, err := p.Complete(context.Background(), llm.Conversation{llm.User("q")}, settingsFor(llm.ProviderDeepSeek, srv.URL), func(s string) { last = s })
	if err != nil {
		t.Fatalf("Complete() err=%v", err)
	}
	want := `<div class="reasoning-content">thinkmore</div>` + "\n\nans"
	if out != want || last != want {
		t.Fatalf("out=%q last=%q", out, last)
	}
}

func TestComplete_ReasoningDroppedWithoutSplit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, sseBody(
			`{"choices":[{"delta":{"reasoning_content":"think"}}]}`,
			`{"choices":[{"delta":{"content":"ans"}}]}`,
		))
	}))
	t.Cleanup(srv.Close)

	p, err := New(llm.ProviderDeepSeek, WithReasoningSplit(false), WithRetry(noDelay()))
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	out, err := p.Complete(context.Background(), llm.Conversation{llm.User("q")}, settingsFor(llm.ProviderDeepSeek, srv.URL), func(string) {})
	if err != nil || out != "ans" {
		t.Fatalf("out=%q err=%v", out, err)
	}
}

func TestComplete_NonStreamingWhenNoCallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ChatCompletionRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Stream {
			t.Errorf("unexpected streaming request")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"id":"c1","choices":[{"index":0,"message":{"role":"assistant","content":"done","reasoning_content":"why"},"finish_reason":"stop"}]}`)
	}))
	t.Cleanup(srv.Close)

	p, err := New(llm.ProviderVolcano, WithRetry(noDelay()))
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	out, err := p.Complete(context.Background(), llm.Conversation{llm.User("q")}, settingsFor(llm.ProviderVolcano, srv.URL+"/chat/completions"), nil)
	if err != nil {
		t.Fatalf("Complete() err=%v", err)
	}
	if want := llm.ComposeReasoning("why", "done"); out != want {
		t.Fatalf("out=%q want %q", out, want)
	}
}

func TestComplete_MidStreamErrorDiscardsPartial(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "data: "+`{"choices":[{"delta":{"content":"par"}}]}`+"\n\n")
		_, _ = io.WriteString(w, "data: "+`{"error":{"message":"overloaded","type":"server_error"}}`+"\n\n")
	}))
	t.Cleanup(srv.Close)

	p, err := New(llm.ProviderGuiji, WithRetry(noDelay()))
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	out, err := p.Complete(context.Background(), llm.Conversation{llm.User("q")}, settingsFor(llm.ProviderGuiji, srv.URL), func(string) {})
	if err == nil || out != "" {
		t.Fatalf("out=%q err=%v", out, err)
	}
	if !strings.Contains(err.Error(), "overloaded") {
		t.Fatalf("err=%v", err)
	}
}

func TestComplete_MissingKeyMakesNoRequest(t *testing.T) {
	var n int32
	hc, _ := httpx.New(httpx.WithTransport(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		atomic.AddInt32(&n, 1)
		return nil, io.EOF
	})))
	p, err := New(llm.ProviderAlibaba, WithHTTPClient(hc))
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	s := settingsFor(llm.ProviderAlibaba, "")
	s.APIKey = "  "
	_, err = p.Complete(context.Background(), llm.Conversation{llm.User("q")}, s, nil)
	if !llm.IsConfiguration(err) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if atomic.LoadInt32(&n) != 0 {
		t.Fatalf("no request expected")
	}
}

func TestComplete_PatchRequestHook(t *testing.T) {
	var raw map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewDecoder(r.Body).Decode(&raw)
		if r.Header.Get("X-Test") != "1" {
			t.Errorf("missing patched header")
		}
		_, _ = io.WriteString(w, `{"choices":[{"message":{"content":"ok"}}]}`)
	}))
	t.Cleanup(srv.Close)

	p, err := New(llm.ProviderAlibaba,
		WithRetry(noDelay()),
		WithHooks(Hooks{
			PatchHeaders: func(h http.Header) { h.Set("X-Test", "1") },
			PatchRequest: func(r *ChatCompletionRequest) {
				off := false
				r.EnableThinking = &off
			},
		}),
	)
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	s := settingsFor(llm.ProviderAlibaba, srv.URL)
	s.Stream = false
	if _, err := p.Complete(context.Background(), llm.Conversation{llm.User("q")}, s, nil); err != nil {
		t.Fatalf("Complete() err=%v", err)
	}
	if v, ok := raw["enable_thinking"].(bool); !ok || v {
		t.Fatalf("enable_thinking=%v", raw["enable_thinking"])
	}
	if raw["model"] != "qwq-32b" {
		t.Fatalf("model=%v", raw["model"])
	}
}

func TestProbe_Canary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ChatCompletionRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.MaxTokens != 5 || len(req.Messages) != 1 || req.Messages[0].Content != "Hello" {
			t.Errorf("unexpected canary %+v", req)
		}
		if r.Header.Get("Authorization") == "Bearer bad" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"error":{"message":"invalid key"}}`)
			return
		}
		_, _ = io.WriteString(w, `{"choices":[{"message":{"content":"Hi"}}]}`)
	}))
	t.Cleanup(srv.Close)

	p, err := New(llm.ProviderDeepSeek, WithRetry(noDelay()))
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	s := settingsFor(llm.ProviderDeepSeek, srv.URL)
	if res := p.Probe(context.Background(), s); !res.Success || res.Message != "connection succeeded" {
		t.Fatalf("probe=%+v", res)
	}
	s.APIKey = "bad"
	res := p.Probe(context.Background(), s)
	if res.Success {
		t.Fatalf("expected failure")
	}
	if want := "DeepSeek connection failed: server responded with status 401 Unauthorized: invalid key"; res.Message != want {
		t.Fatalf("message=%q want %q", res.Message, want)
	}
}

func TestProbe_ListModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/v1/models" {
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
		_, _ = io.WriteString(w, `{"object":"list","data":[{"id":"gpt-4o-mini"}]}`)
	}))
	t.Cleanup(srv.Close)

	p, err := New(llm.ProviderOpenAI, WithProbeMode(ProbeListModels), WithRetry(noDelay()))
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	if res := p.Probe(context.Background(), settingsFor(llm.ProviderOpenAI, srv.URL+"/v1")); !res.Success {
		t.Fatalf("probe=%+v", res)
	}
}
