// Package incident records failures of the relay so they can be looked up after the fact.
package incident

import (
	"time"

	relayerrors "github.com/linkit/relay/internal/errors"
)

type Source string

const (
	SourceRelay  Source = "relay"
	SourceWorker Source = "worker"
	SourceHTTP   Source = "http"
)

type Incident struct {
	ID        string    `boil:"id" json:"id" msgpack:"id"`
	Kind      string    `boil:"kind" json:"kind" msgpack:"kind"`
	Message   string    `boil:"message" json:"message" msgpack:"message"`
	Cause     string    `boil:"cause" json:"cause,omitempty" msgpack:"cause"`
	Source    Source    `boil:"source" json:"source" msgpack:"source"`
	TaskType  string    `boil:"task_type" json:"task_type,omitempty" msgpack:"task_type"`
	TaskID    string    `boil:"task_id" json:"task_id,omitempty" msgpack:"task_id"`
	CreatedAt time.Time `boil:"created_at" json:"created_at" msgpack:"created_at"`
}

// FromError classifies err. Errors outside the relay vocabulary are recorded
// as relay incidents carrying their full text.
func FromError(err error, source Source) Incident {
	inc := Incident{
		Kind:    relayerrors.KindRelay.String(),
		Message: err.Error(),
		Source:  source,
	}
	relayErr, ok := relayerrors.AsRelayError(err)
	if !ok {
		return inc
	}
	inc.Kind = relayErr.Kind().String()
	inc.Message = relayErr.Message()
	if cause := relayErr.Unwrap(); cause != nil {
		inc.Cause = cause.Error()
	}
	return inc
}

type ReportOption func(*Incident)

func WithSource(source Source) ReportOption {
	return func(i *Incident) {
		i.Source = source
	}
}

func WithTask(taskType string, taskID string) ReportOption {
	return func(i *Incident) {
		i.TaskType = taskType
		i.TaskID = taskID
	}
}
