package synth

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"time"

	"github.com/casualjim/lynx/api"
	"github.com/fogfish/opts"
)

const (
	defaultPreviewDelay = 50 * time.Millisecond
	previewRunes        = 50
	sliceRunes          = 10
)

var _ Synthesizer = (*Preview)(nil)

// Preview is a placeholder synthesizer. It reports how many participants it
// saw and quotes the beginning of their combined output.
type Preview struct {
	delay time.Duration
}

// Delay is the pause before every slice of the preview text.
var Delay = opts.ForName[Preview, time.Duration]("delay")

func NewPreview(options ...opts.Option[Preview]) *Preview {
	p := &Preview{delay: defaultPreviewDelay}
	if err := opts.Apply(p, options); err != nil {
		panic(err)
	}
	return p
}

// Text returns the summary that Synthesize streams after its header.
func (p *Preview) Text(outputs *api.Outputs) string {
	combined := []rune(strings.Join(outputs.Texts(), " | "))
	if len(combined) > previewRunes {
		combined = combined[:previewRunes]
	}
	return "Consensus found across models. Combined analysis: " + string(combined) + "..."
}

func (p *Preview) Synthesize(ctx context.Context, outputs *api.Outputs) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if !yield(fmt.Sprintf("Synthesis based on %d models: ", outputs.Len()), nil) {
			return
		}

		text := []rune(p.Text(outputs))
		for start := 0; start < len(text); start += sliceRunes {
			if err := sleep(ctx, p.delay); err != nil {
				yield("", err)
				return
			}
			end := min(start+sliceRunes, len(text))
			if !yield(string(text[start:end]), nil) {
				return
			}
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
