package synth

import (
	"context"
	"fmt"
	"iter"
	"strings"

	"github.com/casualjim/lynx/api"
	"github.com/casualjim/lynx/provider"
	"github.com/fogfish/opts"
)

const defaultInstructions = `Several assistants answered the same question.
Write one concise answer that combines what they agree on and points out where they disagree.`

var _ Synthesizer = (*Provider)(nil)

// Provider summarizes by streaming a prompt built from the outputs through
// another provider.
type Provider struct {
	provider     provider.Provider
	instructions string
}

// Instructions replaces the text placed before the collected answers.
var Instructions = opts.ForName[Provider, string]("instructions")

func NewProvider(p provider.Provider, options ...opts.Option[Provider]) *Provider {
	s := &Provider{provider: p, instructions: defaultInstructions}
	if err := opts.Apply(s, options); err != nil {
		panic(err)
	}
	return s
}

// Prompt renders the summarization prompt for outputs.
func (s *Provider) Prompt(outputs *api.Outputs) string {
	var b strings.Builder
	b.WriteString(s.instructions)
	for id, text := range outputs.All() {
		fmt.Fprintf(&b, "\n\n### %s\n%s", id, strings.TrimSpace(text))
	}
	return b.String()
}

func (s *Provider) Synthesize(ctx context.Context, outputs *api.Outputs) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if s.provider == nil {
			yield("", fmt.Errorf("synth: no provider configured"))
			return
		}
		for fragment, err := range s.provider.Stream(ctx, s.Prompt(outputs)) {
			if err != nil {
				yield("", fmt.Errorf("synth: %s: %w", s.provider.ID(), err))
				return
			}
			if fragment == "" {
				continue
			}
			if !yield(fragment, nil) {
				return
			}
		}
	}
}
