package openai_compat

import (
	"encoding/json"
	"errors"
	"io"

	"github.com/bebetterst/lightAIchat/llm"
	"github.com/bebetterst/lightAIchat/llm/internal/sse"
	"github.com/bebetterst/lightAIchat/llm/internal/transport"
)

// stream adapts an OpenAI-style SSE body to llm.Stream.
type stream struct {
	tr   *transport.Client
	body io.ReadCloser
	dec  *sse.Decoder

	closed bool
	done   bool
}

func newStream(tr *transport.Client, body io.ReadCloser) *stream {
	return &stream{tr: tr, body: body, dec: sse.NewDecoder(body)}
}

func (s *stream) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.body.Close()
}

func (s *stream) Recv() (llm.Delta, error) {
	for {
		if s.closed {
			return llm.Delta{}, llm.ErrStreamClosed
		}
		if s.done {
			return llm.Delta{}, io.EOF
		}

		data, err := s.dec.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				// Some providers close the connection without sending [DONE].
				s.done = true
				return llm.Delta{}, io.EOF
			}
			return llm.Delta{}, llm.Translate(s.tr.MapError(err))
		}
		if sse.IsDone(data) {
			s.done = true
			return llm.Delta{}, io.EOF
		}

		var chunk chatCompletionChunk
		if err := json.Unmarshal(data, &chunk); err != nil {
			return llm.Delta{}, llm.ProtocolError(s.tr.Provider(), "failed to decode stream chunk", data, err)
		}
		if chunk.Error != nil {
			return llm.Delta{}, chunkError(s.tr.Provider(), chunk.Error, data)
		}
		if len(chunk.Choices) == 0 {
			continue
		}

		d := chunk.Choices[0].Delta
		delta := llm.Delta{Text: d.Content, Reasoning: d.ReasoningContent}
		if delta.Empty() {
			continue
		}
		return delta, nil
	}
}
