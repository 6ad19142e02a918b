package ollama

import (
	"bufio"
	"bytes"
	"errors"
	"io"

	"github.com/tidwall/gjson"
)

// ErrMalformedLine is returned by Decoder.Next for a complete line that is not valid JSON.
var ErrMalformedLine = errors.New("malformed stream line")

// Line is one decoded line of the /api/chat stream.
type Line struct {
	Content string
	Done    bool
	// Err is the server reported failure, if any.
	Err string
}

// Decoder reads newline delimited JSON objects. Reads from the underlying
// reader may end in the middle of a line; such a fragment is buffered until
// the rest of the line arrives.
type Decoder struct {
	r *bufio.Reader
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReader(r)}
}

// Next returns the next non-blank line. It returns io.EOF once the reader is
// exhausted. A trailing line without a newline is still decoded.
// ErrMalformedLine is not fatal, the caller may keep reading.
func (d *Decoder) Next() (Line, error) {
	for {
		raw, err := d.r.ReadBytes('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return Line{}, err
		}

		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 {
			if err != nil {
				return Line{}, io.EOF
			}
			continue
		}

		return parseLine(raw)
	}
}

func parseLine(raw []byte) (Line, error) {
	if !gjson.ValidBytes(raw) {
		return Line{}, ErrMalformedLine
	}
	res := gjson.ParseBytes(raw)
	if !res.IsObject() {
		return Line{}, ErrMalformedLine
	}
	return Line{
		Content: res.Get("message.content").String(),
		Done:    res.Get("done").Bool(),
		Err:     res.Get("error").String(),
	}, nil
}
