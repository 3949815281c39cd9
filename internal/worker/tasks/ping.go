package tasks

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gofrs/uuid"
	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"

	"github.com/linkit/relay/internal/authorization"
	"github.com/linkit/relay/internal/authorization/attributes"
	"github.com/linkit/relay/internal/dic"
	relayerrors "github.com/linkit/relay/internal/errors"
	relayhttp "github.com/linkit/relay/internal/http"
	"github.com/linkit/relay/internal/logger"
	"github.com/linkit/relay/internal/observability"
	"github.com/linkit/relay/internal/worker/queues"
)

type PingInput struct {
	TraceID string `json:"trace_id,omitempty"`
	Target  string `json:"target"`
}

func NewPingTask(ctx context.Context, target string) (*asynq.Task, error) {
	payload, err := json.Marshal(PingInput{
		TraceID: observability.GetTraceIDFromContext(ctx),
		Target:  target,
	})
	if err != nil {
		return nil, relayerrors.Wrap(err, "unable to serialize ping task")
	}
	taskID, err := uuid.NewV4()
	if err != nil {
		return nil, relayerrors.Wrap(err, "unable to generate a task id")
	}
	return asynq.NewTask(
		TypePing,
		payload,
		asynq.TaskID(taskID.String()),
		asynq.MaxRetry(2),
		asynq.Timeout(10*time.Second),
		asynq.Queue(queues.QueueDefault),
		asynq.Retention(time.Hour),
	), nil
}

func HandlePing(ctx context.Context, task *asynq.Task) error {
	log := dic.GetService[logger.Logger]()
	httpClient := dic.GetService[relayhttp.Client]()
	checker := dic.GetService[authorization.AuthorizationChecker]()

	var input PingInput
	if err := json.Unmarshal(task.Payload(), &input); err != nil {
		return relayerrors.WrapTask(SkipRetry(err), "unable to deserialize task input")
	}

	target, err := parseTarget(checker, input.Target, attributes.CanPing)
	if err != nil {
		return relayerrors.WrapTask(err, "invalid ping target")
	}

	reqCtx := relayhttp.WithAttribute(ctx, attributes.CanPing)
	request, err := http.NewRequestWithContext(reqCtx, http.MethodGet, target.String(), nil)
	if err != nil {
		return relayerrors.WrapTask(SkipRetry(err), "unable to build ping request")
	}
	started := time.Now()
	response, err := httpClient.Do(request)
	if relayerrors.Is(err, relayhttp.ErrRedirectNotAllowed) {
		return relayerrors.WrapTask(SkipRetry(err), "target redirected outside allowed hosts")
	}
	if err != nil {
		return relayerrors.WrapTask(err, "unable to reach target")
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return relayerrors.WrapTask(&TargetRejectedError{StatusCode: response.StatusCode}, "target is unhealthy")
	}

	log.WithFields(logrus.Fields{
		"target":  target.String(),
		"latency": time.Since(started).String(),
	}).Info("target is healthy")
	return nil
}
