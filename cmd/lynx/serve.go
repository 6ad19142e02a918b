package main

import (
	"github.com/casualjim/lynx/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func newServeCmd(ro *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the streaming chat API",
		Long: `Serve the HTTP API.

  POST /chat       stream a run as server-sent events
  GET  /providers  list the configured providers
  GET  /healthz    liveness probe`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				ro.cfg.Server.Addr = addr
			}

			a, err := newApp(ro.cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			gin.SetMode(gin.ReleaseMode)
			router := server.DefineRoutes(a.orchestrator, ro.cfg.Server.CORSOrigins)
			return server.Run(cmd.Context(), ro.cfg.Server.Addr, router)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config, :3000)")
	return cmd
}
