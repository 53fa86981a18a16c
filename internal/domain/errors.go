package domain

import "errors"

// Error kinds surfaced by the services. Handlers map them onto HTTP
// statuses; everything else becomes a generic 500.
var (
	// ErrValidation marks missing or malformed caller input.
	ErrValidation = errors.New("invalid input")

	// ErrSessionNotFound marks an unknown or expired chat session.
	ErrSessionNotFound = errors.New("session not found or expired")

	// ErrEngineUnavailable marks an unreachable or failing upstream engine.
	ErrEngineUnavailable = errors.New("engine unavailable")

	// ErrMalformedOutput marks engine output that failed to parse into the
	// structure the prompt asked for.
	ErrMalformedOutput = errors.New("malformed engine output")
)
