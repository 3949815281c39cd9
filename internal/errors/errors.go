// Package errors defines the failure vocabulary of the relay.
//
// Every internal incident is reported as a *RelayError. Incidents raised while a
// task executes carry KindTask. A task error is still a relay error: every check
// that accepts a relay error accepts a task error too.
package errors

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
)

var (
	Is = errors.Is
	As = errors.As
)

type Kind int

const (
	KindRelay Kind = iota
	KindTask
)

func (k Kind) String() string {
	if k == KindTask {
		return "task"
	}
	return "relay"
}

// Sentinels for errors.Is. ErrRelay matches every RelayError, ErrTask only the
// ones raised during task execution.
var (
	ErrRelay = &RelayError{kind: KindRelay, message: "relay error"}
	ErrTask  = &RelayError{kind: KindTask, message: "task error"}
)

// RelayError is immutable once built. The cause is kept as given and is
// reachable through Unwrap.
type RelayError struct {
	kind    Kind
	message string
	cause   error
}

func New(message string) *RelayError {
	return &RelayError{kind: KindRelay, message: message}
}

func Errorf(format string, args ...any) *RelayError {
	return New(fmt.Sprintf(format, args...))
}

func Wrap(cause error, message string) *RelayError {
	return &RelayError{kind: KindRelay, message: message, cause: cause}
}

func NewTask(message string) *RelayError {
	return &RelayError{kind: KindTask, message: message}
}

func TaskErrorf(format string, args ...any) *RelayError {
	return NewTask(fmt.Sprintf(format, args...))
}

func WrapTask(cause error, message string) *RelayError {
	return &RelayError{kind: KindTask, message: message, cause: cause}
}

func (e *RelayError) Error() string {
	if e.cause == nil {
		return e.message
	}
	return e.message + ": " + e.cause.Error()
}

// Message returns the message given at construction, without the cause.
func (e *RelayError) Message() string {
	return e.message
}

// Unwrap returns the cause given at construction, nil when there is none.
func (e *RelayError) Unwrap() error {
	return e.cause
}

func (e *RelayError) Kind() Kind {
	return e.kind
}

func (e *RelayError) IsTask() bool {
	return e.kind == KindTask
}

func (e *RelayError) Is(target error) bool {
	switch target {
	case ErrRelay:
		return true
	case ErrTask:
		return e.kind == KindTask
	}
	return false
}

// Format prints the whole cause chain with %+v, one cause per line.
func (e *RelayError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			_, _ = fmt.Fprintf(s, "%s error: %s", e.kind, e.message)
			if e.cause != nil {
				_, _ = fmt.Fprintf(s, "\ncaused by: %+v", e.cause)
			}
			return
		}
		_, _ = io.WriteString(s, e.Error())
	case 's':
		_, _ = io.WriteString(s, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	}
}

// AsRelayError returns the outermost RelayError of err's chain, whatever its kind.
func AsRelayError(err error) (*RelayError, bool) {
	var relayErr *RelayError
	if errors.As(err, &relayErr) {
		return relayErr, true
	}
	return nil, false
}

// AsTaskError returns the outermost task RelayError of err's chain.
func AsTaskError(err error) (*RelayError, bool) {
	for err != nil {
		relayErr, ok := AsRelayError(err)
		if !ok {
			return nil, false
		}
		if relayErr.kind == KindTask {
			return relayErr, true
		}
		err = relayErr.cause
	}
	return nil, false
}

func IsRelayError(err error) bool {
	_, ok := AsRelayError(err)
	return ok
}

func IsTaskError(err error) bool {
	_, ok := AsTaskError(err)
	return ok
}

// KindOf returns the kind of the outermost RelayError of err's chain.
func KindOf(err error) (Kind, bool) {
	relayErr, ok := AsRelayError(err)
	if !ok {
		return KindRelay, false
	}
	return relayErr.kind, true
}
