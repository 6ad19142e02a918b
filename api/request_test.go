package api

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     Request
		wantErr error
	}{
		{name: "valid", req: Request{Prompt: "Hi", ProviderIDs: []string{"fast"}}},
		{name: "duplicates are allowed", req: Request{Prompt: "Hi", ProviderIDs: []string{"fast", "fast"}}},
		{name: "unknown ids are not a validation concern", req: Request{Prompt: "Hi", ProviderIDs: []string{"unknown"}}},
		{name: "empty prompt", req: Request{ProviderIDs: []string{"fast"}}, wantErr: ErrEmptyPrompt},
		{name: "blank prompt", req: Request{Prompt: " \n\t", ProviderIDs: []string{"fast"}}, wantErr: ErrEmptyPrompt},
		{name: "nil provider ids", req: Request{Prompt: "Hi"}, wantErr: ErrNoProviders},
		{name: "empty provider ids", req: Request{Prompt: "Hi", ProviderIDs: []string{}}, wantErr: ErrNoProviders},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrInvalidRequest)
		})
	}
}

func TestRequest_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    Request
		wantErr bool
	}{
		{
			name: "provider ids",
			body: `{"prompt":"Hi","providerIds":["fast","slow"],"includeSynthesis":true}`,
			want: Request{Prompt: "Hi", ProviderIDs: []string{"fast", "slow"}, IncludeSynthesis: true},
		},
		{
			name: "model ids alias",
			body: `{"prompt":"Hi","modelIds":["gpt4","local"]}`,
			want: Request{Prompt: "Hi", ProviderIDs: []string{"gpt4", "local"}},
		},
		{
			name: "provider ids win over the alias",
			body: `{"prompt":"Hi","providerIds":["a"],"modelIds":["b"]}`,
			want: Request{Prompt: "Hi", ProviderIDs: []string{"a"}},
		},
		{name: "malformed", body: `{"prompt":`, wantErr: true},
		{name: "wrong type", body: `{"prompt":42}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got Request
			err := json.Unmarshal([]byte(tt.body), &got)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
