package openai

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/bebetterst/lightAIchat/httpx"
	"github.com/bebetterst/lightAIchat/llm"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func TestOpenAI_DefaultEndpointAndProbe(t *testing.T) {
	var paths []string
	hc, err := httpx.New(httpx.WithTransport(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		paths = append(paths, r.Method+" "+r.URL.Host+r.URL.Path)
		body := `{"choices":[{"message":{"content":"pong"}}]}`
		if r.Method == http.MethodGet {
			body = `{"object":"list","data":[]}`
		}
		return &http.Response{
			StatusCode: http.StatusOK,
			Body:       io.NopCloser(strings.NewReader(body)),
			Header:     make(http.Header),
			Request:    r,
		}, nil
	})))
	if err != nil {
		t.Fatalf("httpx.New() err=%v", err)
	}

	p, err := New(WithHTTPClient(hc))
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	if p.Descriptor().ID != llm.ProviderOpenAI || p.Descriptor().SupportsReasoningSplit {
		t.Fatalf("descriptor=%+v", p.Descriptor())
	}

	s := llm.Settings{Provider: llm.ProviderOpenAI, APIKey: "sk", Temperature: 0.2}
	out, err := p.Complete(context.Background(), llm.Conversation{llm.User("ping")}, s, nil)
	if err != nil || out != "pong" {
		t.Fatalf("out=%q err=%v", out, err)
	}
	if res := p.Probe(context.Background(), s); !res.Success {
		t.Fatalf("probe=%+v", res)
	}

	want := []string{"POST api.openai.com/v1/chat/completions", "GET api.openai.com/v1/models"}
	if strings.Join(paths, ",") != strings.Join(want, ",") {
		t.Fatalf("paths=%v", paths)
	}
}

func TestOpenAI_ProbeFailureMessage(t *testing.T) {
	hc, _ := httpx.New(httpx.WithTransport(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusUnauthorized,
			Body:       io.NopCloser(strings.NewReader(`{"error":{"message":"Incorrect API key provided","code":"invalid_api_key"}}`)),
			Header:     make(http.Header),
			Request:    r,
		}, nil
	})))
	p, err := New(WithHTTPClient(hc))
	if err != nil {
		t.Fatalf("New() err=%v", err)
	}
	res := p.Probe(context.Background(), llm.Settings{Provider: llm.ProviderOpenAI, APIKey: "bad"})
	if res.Success || !strings.HasPrefix(res.Message, "OpenAI connection failed: ") {
		t.Fatalf("probe=%+v", res)
	}
	if !strings.Contains(res.Message, "Incorrect API key provided") {
		t.Fatalf("message=%q", res.Message)
	}
}
