package llm

import (
	"errors"
	"strings"
	"testing"
)

func TestConsume_AnswerProgressIsMonotonic(t *testing.T) {
	s := &sliceStream{deltas: []Delta{{Text: "Hel"}, {Text: "lo"}, {Text: ", world"}}}
	var seen []string
	out, err := Consume(s, false, func(c string) { seen = append(seen, c) })
	if err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if out != "Hello, world" {
		t.Fatalf("out = %q", out)
	}
	for i := 1; i < len(seen); i++ {
		if !strings.HasPrefix(seen[i], seen[i-1]) {
			t.Fatalf("progress shrank: %q -> %q", seen[i-1], seen[i])
		}
	}
	if seen[len(seen)-1] != out {
		t.Fatalf("last progress %q != final %q", seen[len(seen)-1], out)
	}
	if !s.closed {
		t.Fatalf("stream not closed")
	}
}

func TestConsume_ReasoningSplit(t *testing.T) {
	deltas := []Delta{{Reasoning: "Let me "}, {Reasoning: "think"}, {Text: "42"}}

	out, err := Consume(&sliceStream{deltas: append([]Delta(nil), deltas...)}, true, nil)
	if err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if want := ReasoningOpen + "Let me think" + ReasoningClose + "\n\n42"; out != want {
		t.Fatalf("out = %q, want %q", out, want)
	}

	out, err = Consume(&sliceStream{deltas: deltas}, false, nil)
	if err != nil {
		t.Fatalf("Consume: %v", err)
	}
	if out != "42" {
		t.Fatalf("reasoning should be dropped when split is off, got %q", out)
	}
}

func TestConsume_ErrorDiscardsPartial(t *testing.T) {
	boom := errors.New("boom")
	s := &sliceStream{deltas: []Delta{{Text: "partial"}}, err: boom}
	out, err := Consume(s, false, func(string) {})
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if out != "" {
		t.Fatalf("partial output leaked: %q", out)
	}
	if !s.closed {
		t.Fatalf("stream not closed")
	}
}
