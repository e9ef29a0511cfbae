package llm

import (
	"errors"
	"io"
)

// Stream yields Delta values until io.EOF.
//
// Implementations should return io.EOF once the stream finishes normally.
type Stream interface {
	Recv() (Delta, error)
	Close() error
}

// Delta is one incremental fragment of a streamed completion.
type Delta struct {
	Text      string
	Reasoning string
}

func (d Delta) Empty() bool { return d.Text == "" && d.Reasoning == "" }

var ErrStreamClosed = errors.New("llm: stream closed")

// Consume drains stream, pushing the cumulative composed text to onProgress after every
// received chunk, and returns the final text.
//
// When splitReasoning is false, reasoning fragments are dropped and only the answer is
// accumulated. On any error the partial buffer is discarded and "" is returned together with
// the error. The stream is always closed.
func Consume(stream Stream, splitReasoning bool, onProgress ProgressFunc) (string, error) {
	defer stream.Close()

	var acc Splitter
	for {
		d, err := stream.Recv()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return "", err
		}
		if splitReasoning {
			acc.AddReasoning(d.Reasoning)
		}
		acc.AddAnswer(d.Text)
		if onProgress != nil {
			onProgress(acc.Compose())
		}
	}
	return acc.Compose(), nil
}
