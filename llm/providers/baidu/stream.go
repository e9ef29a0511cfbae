package baidu

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"

	"github.com/bebetterst/lightAIchat/llm"
	"github.com/bebetterst/lightAIchat/llm/internal/sse"
	"github.com/bebetterst/lightAIchat/llm/internal/transport"
)

// stream reads Wenxin SSE chunks ({"result": "...", "is_end": bool}).
//
// Failures are reported as a plain JSON body instead of an event stream, with status 200.
type stream struct {
	tr   *transport.Client
	body io.ReadCloser
	br   *bufio.Reader
	dec  *sse.Decoder

	started bool
	done    bool
	pending string
}

func newStream(tr *transport.Client, body io.ReadCloser) *stream {
	br := bufio.NewReader(body)
	return &stream{tr: tr, body: body, br: br, dec: sse.NewDecoder(br)}
}

func (s *stream) Close() error { return s.body.Close() }

func (s *stream) Recv() (llm.Delta, error) {
	if !s.started {
		s.started = true
		if err := s.checkPlainBody(); err != nil {
			return llm.Delta{}, err
		}
	}
	if s.pending != "" {
		d := llm.Delta{Text: s.pending}
		s.pending = ""
		return d, nil
	}
	for {
		if s.done {
			return llm.Delta{}, io.EOF
		}
		data, err := s.dec.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				s.done = true
				return llm.Delta{}, io.EOF
			}
			return llm.Delta{}, llm.Translate(s.tr.MapError(err))
		}

		var chunk chatResponse
		if err := json.Unmarshal(data, &chunk); err != nil {
			return llm.Delta{}, llm.ProtocolError(llm.ProviderBaidu, "failed to decode stream chunk", data, err)
		}
		if chunk.ErrorCode != 0 {
			return llm.Delta{}, vendorError(chunk, data)
		}
		s.done = chunk.IsEnd
		if chunk.Result == "" {
			continue
		}
		return llm.Delta{Text: chunk.Result}, nil
	}
}

// checkPlainBody handles a body that is a single JSON object instead of an event stream:
// either a vendor error or a complete answer.
func (s *stream) checkPlainBody() error {
	for {
		b, err := s.br.Peek(1)
		if err != nil {
			return nil
		}
		switch b[0] {
		case ' ', '\t', '\r', '\n':
			_, _ = s.br.ReadByte()
			continue
		case '{':
		default:
			return nil
		}

		raw, err := io.ReadAll(s.br)
		if err != nil {
			return llm.Translate(s.tr.MapError(err))
		}
		var resp chatResponse
		if err := json.Unmarshal(raw, &resp); err != nil {
			return llm.ProtocolError(llm.ProviderBaidu, "unexpected response body", raw, err)
		}
		if resp.ErrorCode != 0 {
			return vendorError(resp, raw)
		}
		s.done = true
		s.pending = resp.Result
		return nil
	}
}
