package session

import "errors"

var (
	// ErrInvalidInput means the question set handed to a new session is unusable.
	ErrInvalidInput = errors.New("invalid question set")

	// ErrOutOfSequence means a mutation was attempted on a completed session.
	ErrOutOfSequence = errors.New("session already completed")

	// ErrCorruptSession means a restored snapshot failed invariant checks.
	// The only safe recovery is a full reset.
	ErrCorruptSession = errors.New("corrupt session snapshot")
)
