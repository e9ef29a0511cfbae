package llm

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Retryable(t *testing.T) {
	cases := []struct {
		err  *Error
		want bool
	}{
		{&Error{Kind: KindTransient, Fault: FaultTimeout}, true},
		{&Error{Kind: KindTransient, Fault: FaultConnReset}, true},
		{&Error{Kind: KindTransient, Fault: FaultDNS}, true},
		{&Error{Kind: KindProtocol, Fault: FaultStatus, HTTPStatus: 500}, false},
		{&Error{Kind: KindConfiguration}, false},
	}
	for _, c := range cases {
		if got := c.err.Retryable(); got != c.want {
			t.Fatalf("%+v Retryable()=%v", c.err, got)
		}
	}
}

func TestTranslate(t *testing.T) {
	timeout := &Error{Provider: "deepseek", Kind: KindTransient, Fault: FaultTimeout, Message: "context deadline exceeded"}
	if got := Translate(timeout).Error(); !strings.Contains(got, "request timed out") {
		t.Fatalf("timeout=%q", got)
	}

	dns := &Error{Kind: KindTransient, Fault: FaultDNS}
	if got := Translate(dns).Error(); !strings.Contains(got, "cannot resolve API host") {
		t.Fatalf("dns=%q", got)
	}

	status := &Error{Kind: KindProtocol, Fault: FaultStatus, HTTPStatus: 502}
	if got := Translate(status).Error(); !strings.Contains(got, "server responded with status 502 Bad Gateway") {
		t.Fatalf("status=%q", got)
	}
	tr, ok := AsError(Translate(status))
	if !ok || tr.HTTPStatus != 502 {
		t.Fatalf("translated error lost fields: %+v", tr)
	}

	plain := errors.New("boom")
	if got := Translate(plain); got != plain {
		t.Fatalf("unclassified error should pass through, got %v", got)
	}
	cfg := ConfigError(ProviderBaidu, "bad key")
	if got := Translate(cfg); got != error(cfg) {
		t.Fatalf("configuration error should pass through, got %v", got)
	}
}
