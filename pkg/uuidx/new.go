package uuidx

import "github.com/google/uuid"

// Generator produces the identifier assigned to an orchestration run.
type Generator func() uuid.UUID

// New generates a time-ordered (version 7) UUID.
// It panics if the random source fails.
func New() uuid.UUID {
	return uuid.Must(uuid.NewV7())
}

// NewString returns New formatted in its canonical string form.
func NewString() string {
	return New().String()
}

// Fixed returns a Generator that always yields id.
func Fixed(id uuid.UUID) Generator {
	return func() uuid.UUID { return id }
}
