// Package ollama streams replies from a local Ollama server through its
// native /api/chat endpoint, which answers with newline delimited JSON.
package ollama

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"net/http"
	"strings"

	"github.com/casualjim/lynx/pkg/slogx"
	"github.com/casualjim/lynx/provider"
	"github.com/fogfish/opts"
	json "github.com/goccy/go-json"
	"github.com/tidwall/gjson"
)

const DefaultBaseURL = "http://localhost:11434"

var _ provider.Provider = (*Provider)(nil)

type Provider struct {
	id           string
	name         string
	model        string
	baseURL      string
	client       *http.Client
	maxMalformed int
}

var (
	Name       = opts.ForName[Provider, string]("name")
	BaseURL    = opts.ForName[Provider, string]("baseURL")
	HTTPClient = opts.ForName[Provider, *http.Client]("client")
	// MaxMalformedLines fails the stream once more than n lines could not be
	// parsed. Zero, the default, skips malformed lines without limit.
	MaxMalformedLines = opts.ForName[Provider, int]("maxMalformed")
)

// New creates a provider that serves id by running model on an Ollama server.
func New(id, model string, options ...opts.Option[Provider]) *Provider {
	p := &Provider{
		id:      id,
		name:    id,
		model:   model,
		baseURL: DefaultBaseURL,
		client:  http.DefaultClient,
	}
	if err := opts.Apply(p, options); err != nil {
		panic(err)
	}
	p.baseURL = strings.TrimRight(p.baseURL, "/")
	return p
}

func (p *Provider) ID() string    { return p.id }
func (p *Provider) Name() string  { return p.name }
func (p *Provider) Model() string { return p.model }

func (p *Provider) Metadata() provider.Metadata {
	return provider.Metadata{IsLocal: true}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
}

func (p *Provider) Stream(ctx context.Context, prompt string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		ctx, cancel := context.WithCancel(ctx)
		defer cancel()

		body, err := p.open(ctx, prompt)
		if err != nil {
			yield("", fmt.Errorf("ollama: %w", err))
			return
		}
		defer body.Close()

		dec := NewDecoder(body)
		var malformed int
		for {
			line, err := dec.Next()
			switch {
			case errors.Is(err, io.EOF):
				return
			case errors.Is(err, ErrMalformedLine):
				malformed++
				slog.DebugContext(ctx, "skipping malformed stream line", slogx.ProviderID(p.id), slog.Int("count", malformed))
				if p.maxMalformed > 0 && malformed > p.maxMalformed {
					yield("", fmt.Errorf("ollama: %d malformed stream lines", malformed))
					return
				}
				continue
			case err != nil:
				yield("", fmt.Errorf("ollama: reading stream: %w", err))
				return
			}

			if line.Err != "" {
				yield("", fmt.Errorf("ollama: %s", line.Err))
				return
			}
			if line.Content != "" {
				if !yield(line.Content, nil) {
					return
				}
			}
			if line.Done {
				return
			}
		}
	}
}

func (p *Provider) open(ctx context.Context, prompt string) (io.ReadCloser, error) {
	payload, err := json.Marshal(chatRequest{
		Model:    p.model,
		Messages: []chatMessage{{Role: "user", Content: prompt}},
		Stream:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/api/chat", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/x-ndjson")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		msg := strings.TrimSpace(string(excerpt))
		if reported := gjson.GetBytes(excerpt, "error"); reported.Exists() {
			msg = reported.String()
		}
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, msg)
	}
	return resp.Body, nil
}
