package slogx

import (
	"log/slog"

	"github.com/google/uuid"
)

const (
	// KeyLoggerName is the attribute key carrying the component name.
	KeyLoggerName = "logger"
	// KeyProviderID is the attribute key carrying a provider identifier.
	KeyProviderID = "provider_id"
	// KeyRunID is the attribute key carrying an orchestration run identifier.
	KeyRunID = "run_id"
)

// Error returns a slog.Attr representing the provided error.
// The attribute key is "error" and the value is the error's message.
//
// Parameters:
//   - err: The error to be converted into a slog.Attr.
//
// Returns:
//   - slog.Attr: An attribute with the key "error" and the error's message as the value.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "<nil>")
	}
	return slog.String("error", err.Error())
}

// LoggerName creates a slog.Attr with the provided component name.
// The attribute key is defined by KeyLoggerName.
func LoggerName(name string) slog.Attr {
	return slog.String(KeyLoggerName, name)
}

// ProviderID creates a slog.Attr identifying the provider a record is about.
func ProviderID(id string) slog.Attr {
	return slog.String(KeyProviderID, id)
}

// RunID creates a slog.Attr identifying the orchestration run a record belongs to.
func RunID(id uuid.UUID) slog.Attr {
	return slog.String(KeyRunID, id.String())
}
