// Package synth turns the accumulated outputs of an orchestration run into a
// streamed summary.
//
// A Synthesizer only ever runs after every participant finished, so it sees
// the complete text of each one. Fragments are yielded as they become
// available; a non-nil error ends the synthesis.
package synth

import (
	"context"
	"iter"

	"github.com/casualjim/lynx/api"
)

type Synthesizer interface {
	Synthesize(ctx context.Context, outputs *api.Outputs) iter.Seq2[string, error]
}

// Func adapts a plain function to the Synthesizer interface.
type Func func(ctx context.Context, outputs *api.Outputs) iter.Seq2[string, error]

func (f Func) Synthesize(ctx context.Context, outputs *api.Outputs) iter.Seq2[string, error] {
	return f(ctx, outputs)
}
