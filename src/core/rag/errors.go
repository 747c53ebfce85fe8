package rag

import (
	"context"
	"errors"
	"net"
)

var (
	// ErrInvalidConfiguration reports bad chunk, overlap or k values.
	// Fatal at startup, never retried.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrEmbeddingUnavailable reports that the embedding endpoint could
	// not be reached
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrEmbeddingTimeout reports that an embedding call exceeded its
	// deadline
	ErrEmbeddingTimeout = errors.New("embedding request timed out")

	// ErrGenerationUnavailable reports that the completion endpoint could
	// not be reached
	ErrGenerationUnavailable = errors.New("generation service unavailable")

	// ErrGenerationTimeout reports that a completion call exceeded its
	// deadline
	ErrGenerationTimeout = errors.New("generation request timed out")

	// ErrNotReady reports a query against an orchestrator that has not
	// reached the ready state
	ErrNotReady = errors.New("orchestrator is not ready")

	// ErrIndexNotFound reports a cache miss. Recovered locally by
	// rebuilding, never surfaced to the end user.
	ErrIndexNotFound = errors.New("index not found")
)

// Retryable reports whether an error is a transient model-endpoint failure
// the caller may retry.
func Retryable(err error) bool {
	return errors.Is(err, ErrEmbeddingUnavailable) ||
		errors.Is(err, ErrEmbeddingTimeout) ||
		errors.Is(err, ErrGenerationUnavailable) ||
		errors.Is(err, ErrGenerationTimeout)
}

// isTimeout distinguishes deadline expiry from other transport failures.
func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
