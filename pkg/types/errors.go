package types

import (
	"errors"
	"fmt"
)

// Classification labels the outcome of a single wager attempt.
type Classification int

const (
	Success Classification = iota
	RetryableFailure
	RateLimited
	FatalInsufficientBalance
	FatalInvalidCredentials
	FatalOther
	NetworkTimeout
	NetworkError
)

func (c Classification) String() string {
	switch c {
	case Success:
		return "success"
	case RetryableFailure:
		return "retryable_failure"
	case RateLimited:
		return "rate_limited"
	case FatalInsufficientBalance:
		return "fatal_insufficient_balance"
	case FatalInvalidCredentials:
		return "fatal_invalid_credentials"
	case FatalOther:
		return "fatal_other"
	case NetworkTimeout:
		return "network_timeout"
	case NetworkError:
		return "network_error"
	default:
		return fmt.Sprintf("classification(%d)", int(c))
	}
}

// IsFatal reports whether the classification must never be retried.
func (c Classification) IsFatal() bool {
	return c == FatalInsufficientBalance || c == FatalInvalidCredentials || c == FatalOther
}

// IsRetryable reports whether the classification is eligible for backoff and retry.
func (c Classification) IsRetryable() bool {
	switch c {
	case RetryableFailure, RateLimited, NetworkTimeout, NetworkError:
		return true
	default:
		return false
	}
}

var (
	// ErrMissingCredentials is returned by Start when either token is absent.
	ErrMissingCredentials = errors.New("missing credentials")

	// ErrSessionRunning is returned by Start while a session is already running.
	ErrSessionRunning = errors.New("session already running")

	// ErrSessionDraining is returned by Start while a stopped session still has a wager in flight.
	ErrSessionDraining = errors.New("previous session still resolving its last wager")

	// ErrBetNotFound is returned by lookups when the remote has no such bet.
	ErrBetNotFound = errors.New("bet not found")
)

// WagerError is the terminal failure of a wager after classification and retries.
type WagerError struct {
	Kind     Classification
	Status   int // last HTTP status, 0 when no response was received
	Attempts int
	Message  string // first remote error message or truncated body
	Err      error
}

func (e *WagerError) Error() string {
	detail := e.Message
	if detail == "" && e.Err != nil {
		detail = e.Err.Error()
	}
	if e.Status != 0 {
		return fmt.Sprintf("wager failed after %d attempt(s): %s (HTTP %d): %s", e.Attempts, e.Kind, e.Status, detail)
	}
	return fmt.Sprintf("wager failed after %d attempt(s): %s: %s", e.Attempts, e.Kind, detail)
}

func (e *WagerError) Unwrap() error {
	return e.Err
}

// HaltsSession reports whether the failure must stop the betting loop.
// FatalOther is terminal for the wager but not for the session.
func (e *WagerError) HaltsSession() bool {
	return e.Kind == FatalInsufficientBalance || e.Kind == FatalInvalidCredentials
}
