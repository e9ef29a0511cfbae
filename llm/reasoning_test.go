package llm

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func TestSplitter_Interleaved(t *testing.T) {
	var s Splitter
	s.AddReasoning("a")
	s.AddAnswer("x")
	s.AddReasoning("b")
	s.AddAnswer("y")

	want := ReasoningOpen + "ab" + ReasoningClose + "\n\nxy"
	if got := s.Compose(); got != want {
		t.Fatalf("Compose()=%q want %q", got, want)
	}
}

func TestSplitter_NoReasoning(t *testing.T) {
	var s Splitter
	s.AddAnswer("x")
	s.AddReasoning("")
	s.AddAnswer("y")
	if got := s.Compose(); got != "xy" {
		t.Fatalf("Compose()=%q", got)
	}
}

type sliceStream struct {
	deltas []Delta
	err    error
	closed bool
}

func (s *sliceStream) Recv() (Delta, error) {
	if s.closed {
		return Delta{}, ErrStreamClosed
	}
	if len(s.deltas) == 0 {
		if s.err != nil {
			return Delta{}, s.err
		}
		return Delta{}, io.EOF
	}
	d := s.deltas[0]
	s.deltas = s.deltas[1:]
	return d, nil
}

func (s *sliceStream) Close() error {
	s.closed = true
	return nil
}

func TestConsume_ProgressIsMonotonic(t *testing.T) {
	st := &sliceStream{deltas: []Delta{{Text: "Hel"}, {}, {Text: "lo"}, {Text: " world"}}}

	var emitted []string
	got, err := Consume(st, false, func(s string) { emitted = append(emitted, s) })
	if err != nil {
		t.Fatalf("Consume() err=%v", err)
	}
	if got != "Hello world" {
		t.Fatalf("Consume()=%q", got)
	}
	if !st.closed {
		t.Fatalf("stream not closed")
	}
	for i := 1; i < len(emitted); i++ {
		if !strings.HasPrefix(emitted[i], emitted[i-1]) {
			t.Fatalf("emission %d %q does not extend %q", i, emitted[i], emitted[i-1])
		}
	}
	if emitted[len(emitted)-1] != got {
		t.Fatalf("last emission %q != result %q", emitted[len(emitted)-1], got)
	}
}

func TestConsume_ReasoningComposition(t *testing.T) {
	st := &sliceStream{deltas: []Delta{{Reasoning: "a"}, {Reasoning: "b"}, {Text: "x"}, {Text: "y"}}}

	var last string
	got, err := Consume(st, true, func(s string) { last = s })
	if err != nil {
		t.Fatalf("Consume() err=%v", err)
	}
	want := ComposeReasoning("ab", "xy")
	if got != want || last != want {
		t.Fatalf("got=%q last=%q want %q", got, last, want)
	}

	st = &sliceStream{deltas: []Delta{{Reasoning: "a"}, {Text: "x"}}}
	got, _ = Consume(st, false, nil)
	if got != "x" {
		t.Fatalf("reasoning should be dropped, got %q", got)
	}
}

func TestConsume_FailureDiscardsPartial(t *testing.T) {
	boom := errors.New("connection lost")
	st := &sliceStream{deltas: []Delta{{Text: "partial"}}, err: boom}

	var seen []string
	got, err := Consume(st, false, func(s string) { seen = append(seen, s) })
	if !errors.Is(err, boom) {
		t.Fatalf("err=%v", err)
	}
	if got != "" {
		t.Fatalf("partial result leaked: %q", got)
	}
	if len(seen) != 1 || seen[0] != "partial" {
		t.Fatalf("seen=%v", seen)
	}
}
