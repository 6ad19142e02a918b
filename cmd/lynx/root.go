package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/casualjim/lynx/internal/config"
	"github.com/phsym/zeroslog"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	logLevel   string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	ro := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "lynx",
		Short: "Fan one prompt out to many models and stream their answers side by side",
		Long: `Lynx sends a prompt to several language model providers at once and
interleaves their streamed replies as they arrive. Once every provider has
finished it can append a synthesized summary of all answers.

Providers are described in lynx.yaml (see --config). Without configuration a
set of mock providers is available for trying things out.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(ro.configPath)
			if err != nil {
				return err
			}
			if ro.logLevel != "" {
				cfg.Log.Level = ro.logLevel
			}
			if err := setupLogging(cmd.ErrOrStderr(), cfg.Log.Level); err != nil {
				return err
			}
			ro.cfg = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&ro.configPath, "config", "c", "", "Path to the configuration file (default: ./lynx.yaml)")
	cmd.PersistentFlags().StringVar(&ro.logLevel, "log-level", "", "Log level: debug, info, warn or error")

	cmd.AddCommand(newServeCmd(ro))
	cmd.AddCommand(newAskCmd(ro))
	cmd.AddCommand(newChatCmd(ro))
	cmd.AddCommand(newProvidersCmd(ro))
	cmd.AddCommand(newSchemaCmd())
	return cmd
}

// setupLogging routes slog through a zerolog console writer.
func setupLogging(w io.Writer, level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	if w == nil {
		w = os.Stderr
	}
	output := zerolog.ConsoleWriter{Out: w, TimeFormat: time.Stamp}
	log := zerolog.New(output).With().Timestamp().Logger()
	slog.SetDefault(slog.New(
		zeroslog.NewHandler(log, &zeroslog.HandlerOptions{Level: lvl}),
	))
	return nil
}
