package slogx

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestAttrs(t *testing.T) {
	tests := []struct {
		name      string
		gotKey    string
		gotValue  string
		wantKey   string
		wantValue string
	}{
		{
			name:      "error",
			gotKey:    Error(errors.New("boom")).Key,
			gotValue:  Error(errors.New("boom")).Value.String(),
			wantKey:   "error",
			wantValue: "boom",
		},
		{
			name:      "nil error",
			gotKey:    Error(nil).Key,
			gotValue:  Error(nil).Value.String(),
			wantKey:   "error",
			wantValue: "<nil>",
		},
		{
			name:      "logger name",
			gotKey:    LoggerName("mux").Key,
			gotValue:  LoggerName("mux").Value.String(),
			wantKey:   KeyLoggerName,
			wantValue: "mux",
		},
		{
			name:      "provider id",
			gotKey:    ProviderID("fast").Key,
			gotValue:  ProviderID("fast").Value.String(),
			wantKey:   KeyProviderID,
			wantValue: "fast",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantKey, tt.gotKey)
			assert.Equal(t, tt.wantValue, tt.gotValue)
		})
	}
}

func TestRunID(t *testing.T) {
	id := uuid.New()
	attr := RunID(id)
	assert.Equal(t, KeyRunID, attr.Key)
	assert.Equal(t, id.String(), attr.Value.String())
}
