package httpx

import (
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestDecodeJSON(t *testing.T) {
	var v struct{ A int }
	if err := DecodeJSON([]byte(" {\"A\":1}\n "), &v); err != nil || v.A != 1 {
		t.Fatalf("decode: %v %+v", err, v)
	}
	if err := DecodeJSON([]byte(`{"A":1}{"A":2}`), &v); err == nil {
		t.Fatalf("expected error for trailing value")
	}
	if err := DecodeJSON([]byte(`{"A":1}]`), &v); err == nil {
		t.Fatalf("expected error for trailing garbage")
	}
	if err := DecodeJSON([]byte(`not json`), &v); err == nil {
		t.Fatalf("expected syntax error")
	}
}

func TestReadBody(t *testing.T) {
	resp := func(s string) *http.Response {
		return &http.Response{Body: io.NopCloser(strings.NewReader(s))}
	}

	raw, err := ReadBody(resp("hello"), 5)
	if err != nil || string(raw) != "hello" {
		t.Fatalf("ReadBody = %q, %v", raw, err)
	}
	if _, err := ReadBody(resp("hello!"), 5); !errors.Is(err, ErrBodyTooLarge) {
		t.Fatalf("expected ErrBodyTooLarge, got %v", err)
	}
	raw, err = ReadBody(resp("unbounded"), 0)
	if err != nil || string(raw) != "unbounded" {
		t.Fatalf("ReadBody = %q, %v", raw, err)
	}
	if _, err := ReadBody(nil, 1); err == nil {
		t.Fatalf("expected error for nil response")
	}
}
