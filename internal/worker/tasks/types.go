package tasks

import (
	"fmt"

	"github.com/hibiken/asynq"
)

const (
	TypeForward = "relay:forward"
	TypePing    = "relay:ping"
)

type TargetRejectedError struct {
	StatusCode int
}

func (e *TargetRejectedError) Error() string {
	return fmt.Sprintf("target answered %d", e.StatusCode)
}

// Retryable reports whether the target may accept the same call later.
func (e *TargetRejectedError) Retryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}

type skipRetryError struct {
	err error
}

// SkipRetry marks err as permanent, asynq archives the task instead of retrying it.
// err stays reachable through errors.Is and errors.As.
func SkipRetry(err error) error {
	return &skipRetryError{err: err}
}

func (e *skipRetryError) Error() string {
	return e.err.Error() + ": " + asynq.SkipRetry.Error()
}

func (e *skipRetryError) Unwrap() error {
	return e.err
}

func (e *skipRetryError) Is(target error) bool {
	return target == asynq.SkipRetry //nolint:errorlint
}
