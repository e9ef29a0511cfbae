// Package sse decodes text/event-stream bodies into data payloads.
package sse

import (
	"bufio"
	"bytes"
	"io"
)

// Done is the sentinel payload OpenAI-style servers send as the last event.
const Done = "[DONE]"

type Decoder struct {
	r *bufio.Reader
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReaderSize(r, 64*1024)}
}

// Next returns the next event's data payload.
//
// Multiple `data:` lines of one event are joined with `\n`. Comment lines and fields other
// than data are skipped. A trailing event without a blank line is still returned before io.EOF.
func (d *Decoder) Next() ([]byte, error) {
	var dataLines [][]byte
	for {
		line, err := d.r.ReadBytes('\n')
		if err != nil {
			line = bytes.TrimRight(line, "\r\n")
			if len(line) > 0 {
				dataLines = appendDataLine(dataLines, line)
			}
			if len(dataLines) > 0 {
				return bytes.Join(dataLines, []byte("\n")), nil
			}
			return nil, err
		}

		line = bytes.TrimRight(line, "\r\n")
		if len(line) == 0 {
			if len(dataLines) == 0 {
				continue
			}
			return bytes.Join(dataLines, []byte("\n")), nil
		}
		if line[0] == ':' {
			continue
		}
		dataLines = appendDataLine(dataLines, line)
	}
}

// IsDone reports whether payload is the end-of-stream sentinel.
func IsDone(payload []byte) bool {
	return string(bytes.TrimSpace(payload)) == Done
}

func appendDataLine(dst [][]byte, line []byte) [][]byte {
	if !bytes.HasPrefix(line, []byte("data:")) {
		return dst
	}
	val := line[len("data:"):]
	if len(val) > 0 && val[0] == ' ' {
		val = val[1:]
	}
	return append(dst, append([]byte(nil), val...))
}
