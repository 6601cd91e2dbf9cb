package interview

import "errors"

var (
	// ErrSessionNotFound means no live or persisted session matches the id.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSubmissionInFlight means a submission for the current question has
	// not resolved yet; the new one is ignored.
	ErrSubmissionInFlight = errors.New("submission already in flight")

	// ErrService wraps a scoring/summary/record-store failure. Session
	// state is left untouched so the caller can retry.
	ErrService = errors.New("external service failure")

	// ErrServiceTimeout is the bounded-wait variant of ErrService.
	ErrServiceTimeout = errors.New("external service timeout")
)
