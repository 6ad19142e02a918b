package ollama

import (
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeAll(t *testing.T, r io.Reader) ([]Line, int) {
	t.Helper()
	dec := NewDecoder(r)
	var lines []Line
	var malformed int
	for {
		line, err := dec.Next()
		if errors.Is(err, io.EOF) {
			return lines, malformed
		}
		if errors.Is(err, ErrMalformedLine) {
			malformed++
			continue
		}
		require.NoError(t, err)
		lines = append(lines, line)
	}
}

func TestDecoder(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		want          []Line
		wantMalformed int
	}{
		{
			name: "content and done",
			input: `{"message":{"role":"assistant","content":"The"},"done":false}` + "\n" +
				`{"message":{"role":"assistant","content":" sky"},"done":false}` + "\n" +
				`{"message":{"role":"assistant","content":""},"done":true}` + "\n",
			want: []Line{{Content: "The"}, {Content: " sky"}, {Done: true}},
		},
		{
			name:  "blank lines are ignored",
			input: "\n\n" + `{"message":{"content":"a"}}` + "\r\n\n",
			want:  []Line{{Content: "a"}},
		},
		{
			name:  "trailing line without newline",
			input: `{"message":{"content":"a"}}` + "\n" + `{"done":true}`,
			want:  []Line{{Content: "a"}, {Done: true}},
		},
		{
			name:          "malformed lines are reported and skipped",
			input:         `{"message":{"content":"a"}}` + "\n" + `{"message":` + "\n" + `[1,2]` + "\n" + `{"message":{"content":"b"}}` + "\n",
			want:          []Line{{Content: "a"}, {Content: "b"}},
			wantMalformed: 2,
		},
		{
			name:  "server error",
			input: `{"error":"model 'nope' not found"}` + "\n",
			want:  []Line{{Err: "model 'nope' not found"}},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, malformed := decodeAll(t, strings.NewReader(tt.input))
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantMalformed, malformed)
		})
	}
}

func TestDecoder_LinesSplitAcrossReads(t *testing.T) {
	input := `{"message":{"content":"Hello"},"done":false}` + "\n" + `{"message":{"content":", world"},"done":true}` + "\n"

	// OneByteReader delivers a single byte per Read, so every line arrives in pieces.
	got, malformed := decodeAll(t, iotest.OneByteReader(strings.NewReader(input)))
	assert.Zero(t, malformed)
	assert.Equal(t, []Line{{Content: "Hello"}, {Content: ", world", Done: true}}, got)
}

func TestDecoder_ReadError(t *testing.T) {
	boom := errors.New("connection reset")
	dec := NewDecoder(io.MultiReader(strings.NewReader(`{"message":{"content":"a"}}`+"\n"), iotest.ErrReader(boom)))

	line, err := dec.Next()
	require.NoError(t, err)
	assert.Equal(t, "a", line.Content)

	_, err = dec.Next()
	assert.ErrorIs(t, err, boom)
}
