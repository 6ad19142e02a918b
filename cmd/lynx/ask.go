package main

import (
	"fmt"
	"strings"

	"github.com/casualjim/lynx"
	"github.com/casualjim/lynx/events"
	"github.com/casualjim/lynx/internal/console"
	"github.com/spf13/cobra"
)

type askOptions struct {
	providers []string
	synthesis bool
	jsonOut   bool
	plain     bool
}

func newAskCmd(ro *rootOptions) *cobra.Command {
	ao := &askOptions{}

	cmd := &cobra.Command{
		Use:   "ask <prompt>",
		Short: "Ask every selected provider and stream the answers",
		Example: `  lynx ask "Why is the sky blue?"
  lynx ask -p gpt4 -p local --synthesis "Explain monads"
  lynx ask --json "Hi" | jq .`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(ro.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			ids := ao.providers
			if len(ids) == 0 {
				ids = a.orchestrator.Registry().IDs()
			}

			ctx := cmd.Context()
			seq, err := a.orchestrator.Orchestrate(ctx, lynx.Request{
				Prompt:           strings.Join(args, " "),
				ProviderIDs:      ids,
				IncludeSynthesis: ao.synthesis,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if ao.jsonOut {
				for event := range seq {
					data, err := events.ToJSON(event)
					if err != nil {
						return err
					}
					fmt.Fprintln(out, string(data))
				}
				return nil
			}

			if ao.plain {
				return console.Stream(ctx, out, seq, nil)
			}
			renderer, err := console.DefaultRenderer()
			if err != nil {
				return err
			}
			return console.Stream(ctx, out, seq, renderer)
		},
	}

	cmd.Flags().StringSliceVarP(&ao.providers, "provider", "p", nil, "Provider id to ask, repeatable (default: all)")
	cmd.Flags().BoolVarP(&ao.synthesis, "synthesis", "s", false, "Append a synthesized summary")
	cmd.Flags().BoolVar(&ao.jsonOut, "json", false, "Print events as JSON lines")
	cmd.Flags().BoolVar(&ao.plain, "plain", false, "Print the synthesis without markdown rendering")
	return cmd
}
