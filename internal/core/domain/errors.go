package domain

import "errors"

// Sentinel errors shared across services. Callers match them with errors.Is;
// the web adapter translates them into HTTP status codes.
var (
	// ErrNotFound signals that a referenced ID does not resolve to a record.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidInput signals criteria or fields outside documented bounds.
	// It is always raised before any mutation occurs.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCollaborator signals that an external collaborator (AI provider,
	// CVE registry) failed or returned garbage.
	ErrCollaborator = errors.New("collaborator failure")
)
