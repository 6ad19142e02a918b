package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/casualjim/lynx/provider"
	"github.com/spf13/cobra"
)

func newProvidersCmd(ro *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List the configured providers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			registry, err := ro.cfg.Registry()
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNAME\tLOCAL")
			for p := range registry.All() {
				fmt.Fprintf(tw, "%s\t%s\t%t\n", p.ID(), p.Name(), provider.Describe(p).IsLocal)
			}
			return tw.Flush()
		},
	}
}
