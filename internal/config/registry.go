package config

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/casualjim/lynx/provider"
	"github.com/casualjim/lynx/provider/mock"
	"github.com/casualjim/lynx/provider/ollama"
	"github.com/casualjim/lynx/provider/openai"
	"github.com/fogfish/opts"
	"github.com/openai/openai-go/option"
)

const (
	KindMock   = "mock"
	KindOllama = "ollama"
	KindOpenAI = "openai"
)

var ErrUnknownKind = errors.New("unknown provider kind")

// Build creates the provider a configuration entry describes.
func (pc ProviderConfig) Build() (p provider.Provider, err error) {
	if pc.ID == "" {
		return nil, fmt.Errorf("%w: provider id is required", provider.ErrInvalidProvider)
	}
	defer func() {
		// option constructors panic on invalid values
		if rec := recover(); rec != nil {
			p, err = nil, fmt.Errorf("provider %s: %v", pc.ID, rec)
		}
	}()

	switch pc.Kind {
	case KindMock, "":
		return pc.buildMock(), nil
	case KindOllama:
		if pc.Model == "" {
			return nil, fmt.Errorf("provider %s: model is required", pc.ID)
		}
		return pc.buildOllama(), nil
	case KindOpenAI:
		if pc.Model == "" {
			return nil, fmt.Errorf("provider %s: model is required", pc.ID)
		}
		return pc.buildOpenAI(), nil
	default:
		return nil, fmt.Errorf("%w %q for provider %s", ErrUnknownKind, pc.Kind, pc.ID)
	}
}

func (pc ProviderConfig) displayName() string {
	if pc.Name != "" {
		return pc.Name
	}
	return pc.ID
}

func (pc ProviderConfig) buildMock() *mock.Provider {
	options := []opts.Option[mock.Provider]{
		mock.Name(pc.displayName()),
		mock.Delay(pc.Delay),
		mock.Local(pc.Local),
	}
	if len(pc.Fragments) > 0 {
		options = append(options, mock.Fragments(pc.Fragments[0], pc.Fragments[1:]...))
	}
	if pc.FailAfter != nil {
		options = append(options, mock.FailAfter(*pc.FailAfter, "injected failure"))
	}
	return mock.New(pc.ID, options...)
}

func (pc ProviderConfig) buildOllama() *ollama.Provider {
	options := []opts.Option[ollama.Provider]{
		ollama.Name(pc.displayName()),
		ollama.MaxMalformedLines(pc.MaxMalformedLines),
		// streams may legitimately run for minutes; only connection setup is bounded
		ollama.HTTPClient(&http.Client{Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			ResponseHeaderTimeout: 2 * time.Minute,
		}}),
	}
	if pc.BaseURL != "" {
		options = append(options, ollama.BaseURL(pc.BaseURL))
	}
	return ollama.New(pc.ID, pc.Model, options...)
}

func (pc ProviderConfig) buildOpenAI() *openai.Provider {
	options := []opts.Option[openai.Provider]{
		openai.Name(pc.displayName()),
		openai.Local(pc.Local),
	}
	if pc.Temperature > 0 {
		options = append(options, openai.Temperature(pc.Temperature))
	}
	var reqOpts []option.RequestOption
	if pc.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(pc.BaseURL))
	}
	if pc.APIKey != "" {
		reqOpts = append(reqOpts, option.WithAPIKey(pc.APIKey))
	}
	if len(reqOpts) > 0 {
		options = append(options, openai.RequestOptions(reqOpts[0], reqOpts[1:]...))
	}
	return openai.New(pc.ID, pc.Model, options...)
}

// Registry builds every configured provider.
func (c *Config) Registry() (*provider.Registry, error) {
	providers := make([]provider.Provider, 0, len(c.Providers))
	for _, pc := range c.Providers {
		p, err := pc.Build()
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	return provider.NewRegistry(providers...)
}
