package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/casualjim/lynx"
	"github.com/casualjim/lynx/internal/broker"
	"github.com/casualjim/lynx/internal/config"
	"github.com/casualjim/lynx/pkg/natsx"
	"github.com/casualjim/lynx/pkg/slogx"
	"github.com/casualjim/lynx/synth"
	"github.com/fogfish/opts"
	"github.com/nats-io/nats.go"
)

// app is an orchestrator wired from configuration together with the
// resources it holds.
type app struct {
	orchestrator *lynx.Orchestrator
	closers      []func()
}

func newApp(cfg *config.Config) (*app, error) {
	registry, err := cfg.Registry()
	if err != nil {
		return nil, err
	}

	a := &app{}
	var options []opts.Option[lynx.Orchestrator]

	if id := cfg.Synthesis.Provider; id != "" {
		judge, ok := registry.Get(id)
		if !ok {
			return nil, fmt.Errorf("synthesis provider %q is not configured", id)
		}
		options = append(options, lynx.WithSynthesizer(synth.NewProvider(judge)))
	} else {
		options = append(options, lynx.WithSynthesizer(synth.NewPreview(synth.Delay(cfg.Synthesis.Delay))))
	}

	if cfg.NATS.Enabled() {
		b, err := a.connectNATS(cfg.NATS)
		if err != nil {
			a.Close()
			return nil, err
		}
		options = append(options, lynx.WithPublisher(b))
	}

	a.orchestrator = lynx.New(registry, options...)
	return a, nil
}

func (a *app) connectNATS(cfg config.NATSConfig) (broker.Broker, error) {
	url := cfg.URL
	if cfg.Embedded {
		ns, err := natsx.RunServer("127.0.0.1", cfg.Port)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, ns.Shutdown)
		url = ns.ClientURL()
		slog.Info("started embedded NATS server", slog.String("url", url))
	}

	nc, err := natsx.NewClient(url)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", url, err)
	}
	a.closers = append(a.closers, func() {
		if err := nc.Flush(); err != nil && !errors.Is(err, nats.ErrConnectionClosed) {
			slog.Warn("failed to flush NATS connection", slogx.Error(err))
		}
		nc.Close()
	})
	return broker.NATS(nc), nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
