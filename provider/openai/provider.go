package openai

import (
	"context"
	"fmt"
	"iter"

	"github.com/casualjim/lynx/provider"
	"github.com/fogfish/opts"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

var _ provider.Provider = (*Provider)(nil)

type Provider struct {
	id          string
	name        string
	model       string
	local       bool
	temperature float64
	reqOpts     []option.RequestOption
	client      *openai.Client
}

var (
	Name        = opts.ForName[Provider, string]("name")
	Local       = opts.ForName[Provider, bool]("local")
	Temperature = opts.ForName[Provider, float64]("temperature")
)

// RequestOptions configures the underlying client (base URL, API key, HTTP client).
func RequestOptions(opt option.RequestOption, extra ...option.RequestOption) opts.Option[Provider] {
	return opts.Type[Provider](func(p *Provider) error {
		p.reqOpts = append(p.reqOpts, opt)
		p.reqOpts = append(p.reqOpts, extra...)
		return nil
	})
}

// New creates a provider that serves id with the given chat model.
func New(id, model string, options ...opts.Option[Provider]) *Provider {
	p := &Provider{
		id:          id,
		name:        id,
		model:       model,
		temperature: 0.1,
	}
	if err := opts.Apply(p, options); err != nil {
		panic(err)
	}
	p.client = openai.NewClient(p.reqOpts...)
	return p
}

func (p *Provider) ID() string    { return p.id }
func (p *Provider) Name() string  { return p.name }
func (p *Provider) Model() string { return p.model }

func (p *Provider) Metadata() provider.Metadata {
	return provider.Metadata{IsLocal: p.local}
}

func (p *Provider) buildRequest(prompt string) openai.ChatCompletionNewParams {
	return openai.ChatCompletionNewParams{
		Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
			openai.UserMessageParts(openai.TextPart(prompt)),
		}),
		Model:       openai.F(p.model),
		N:           openai.Int(1),
		Temperature: openai.Float(p.temperature),
	}
}

func (p *Provider) Stream(ctx context.Context, prompt string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		strm := p.client.Chat.Completions.NewStreaming(ctx, p.buildRequest(prompt))
		defer strm.Close()

		for strm.Next() {
			chunk := strm.Current()
			if len(chunk.Choices) == 0 {
				continue
			}
			content := chunk.Choices[0].Delta.Content
			if content == "" {
				continue
			}
			if !yield(content, nil) {
				return
			}
		}

		if err := strm.Err(); err != nil {
			yield("", fmt.Errorf("openai: %w", err))
		}
	}
}
