package llm

import "strings"

const (
	ReasoningOpen  = `<div class="reasoning-content">`
	ReasoningClose = `</div>`
)

// Splitter accumulates reasoning and answer fragments of one completion independently and
// composes the display string.
//
// A Splitter belongs to a single call; it is not safe for concurrent use.
type Splitter struct {
	reasoning strings.Builder
	answer    strings.Builder
}

func (s *Splitter) AddReasoning(fragment string) { s.reasoning.WriteString(fragment) }

func (s *Splitter) AddAnswer(fragment string) { s.answer.WriteString(fragment) }

func (s *Splitter) Reasoning() string { return s.reasoning.String() }

func (s *Splitter) Answer() string { return s.answer.String() }

// Compose returns the reasoning wrapped in ReasoningOpen/ReasoningClose followed by a blank line
// and the answer, or just the answer while no reasoning has arrived. The same rule applies to
// intermediate progress and to the final value.
func (s *Splitter) Compose() string {
	return ComposeReasoning(s.reasoning.String(), s.answer.String())
}

// ComposeReasoning applies the Splitter composition rule to complete strings.
func ComposeReasoning(reasoning, answer string) string {
	if reasoning == "" {
		return answer
	}
	return ReasoningOpen + reasoning + ReasoningClose + "\n\n" + answer
}
