package strategy

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/casualjim/lynx/api"
	"github.com/casualjim/lynx/provider"
	"github.com/casualjim/lynx/provider/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func testRegistry(t *testing.T) *provider.Registry {
	t.Helper()
	reg, err := provider.NewRegistry(
		mock.New("gpt4", mock.Name("GPT-4")),
		mock.New("claude", mock.Name("Claude 3")),
		mock.New("local", mock.Name("Local Llama"), mock.Local(true)),
	)
	require.NoError(t, err)
	return reg
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func ids(providers []provider.Provider) []string {
	out := make([]string, 0, len(providers))
	for _, p := range providers {
		out = append(out, p.ID())
	}
	return out
}

func TestManual_SelectProviders(t *testing.T) {
	reg := testRegistry(t)

	tests := []struct {
		name string
		ids  []string
		want []string
	}{
		{name: "request order wins over registration order", ids: []string{"local", "gpt4"}, want: []string{"local", "gpt4"}},
		{name: "duplicates are kept", ids: []string{"gpt4", "gpt4"}, want: []string{"gpt4", "gpt4"}},
		{name: "unknown ids are skipped", ids: []string{"gpt4", "unknown", "claude"}, want: []string{"gpt4", "claude"}},
		{name: "all unknown", ids: []string{"unknown", "other"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Manual{}.SelectProviders(context.Background(), api.Request{Prompt: "Hi", ProviderIDs: tt.ids}, reg)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestManual_WarnsOnUnknown(t *testing.T) {
	logs := captureLogs(t)
	reg := testRegistry(t)

	got := Manual{}.SelectProviders(context.Background(), api.Request{Prompt: "Hi", ProviderIDs: []string{"unknown"}}, reg)
	assert.Empty(t, got)

	lines := strings.Split(strings.TrimSpace(logs.String()), "\n")
	require.Len(t, lines, 1)
	record := gjson.Parse(lines[0])
	assert.Equal(t, "WARN", record.Get("level").String())
	assert.Equal(t, "unknown", record.Get("provider_id").String())
}

func TestManual_Idempotent(t *testing.T) {
	reg := testRegistry(t)
	req := api.Request{Prompt: "Hi", ProviderIDs: []string{"claude", "unknown", "gpt4", "claude"}}

	first := Manual{}.SelectProviders(context.Background(), req, reg)
	second := Manual{}.SelectProviders(context.Background(), req, reg)
	assert.Equal(t, ids(first), ids(second))
	for i := range first {
		assert.Same(t, first[i], second[i])
	}
}

func TestManual_NilRegistry(t *testing.T) {
	got := Manual{}.SelectProviders(context.Background(), api.Request{Prompt: "Hi", ProviderIDs: []string{"gpt4"}}, nil)
	assert.Empty(t, got)
}

func TestFunc(t *testing.T) {
	reg := testRegistry(t)
	everything := Func(func(_ context.Context, _ api.Request, registry *provider.Registry) []provider.Provider {
		var all []provider.Provider
		for p := range registry.All() {
			all = append(all, p)
		}
		return all
	})

	got := everything.SelectProviders(context.Background(), api.Request{Prompt: "Hi", ProviderIDs: []string{"gpt4"}}, reg)
	assert.Equal(t, []string{"gpt4", "claude", "local"}, ids(got))
}

func TestLocalOnly(t *testing.T) {
	reg := testRegistry(t)

	got := LocalOnly(Manual{}).SelectProviders(context.Background(), api.Request{Prompt: "Hi", ProviderIDs: []string{"gpt4", "local", "claude"}}, reg)
	assert.Equal(t, []string{"local"}, ids(got))
}
