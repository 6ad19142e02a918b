package main

import (
	"context"
	"iter"

	"github.com/casualjim/lynx"
	"github.com/casualjim/lynx/events"
	"github.com/casualjim/lynx/internal/console"
	"github.com/spf13/cobra"
)

func newChatCmd(ro *rootOptions) *cobra.Command {
	var (
		providers []string
		synthesis bool
		plain     bool
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Ask prompts interactively, one per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := newApp(ro.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			ids := providers
			if len(ids) == 0 {
				ids = a.orchestrator.Registry().IDs()
			}
			ask := func(ctx context.Context, prompt string) (iter.Seq[events.Event], error) {
				return a.orchestrator.Orchestrate(ctx, lynx.Request{
					Prompt:           prompt,
					ProviderIDs:      ids,
					IncludeSynthesis: synthesis,
				})
			}

			if plain {
				return console.REPL(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), ask, nil)
			}
			renderer, err := console.DefaultRenderer()
			if err != nil {
				return err
			}
			return console.REPL(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), ask, renderer)
		},
	}

	cmd.Flags().StringSliceVarP(&providers, "provider", "p", nil, "Provider id to ask, repeatable (default: all)")
	cmd.Flags().BoolVarP(&synthesis, "synthesis", "s", false, "Append a synthesized summary to every answer")
	cmd.Flags().BoolVar(&plain, "plain", false, "Print the synthesis without markdown rendering")
	return cmd
}
