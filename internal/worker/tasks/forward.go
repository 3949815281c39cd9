package tasks

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	"github.com/hibiken/asynq"
	"github.com/pkg/errors"
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

var ErrTargetNotAllowed = errors.New("target is not allowed")

type ForwardInput struct {
	TraceID string            `json:"trace_id,omitempty"`
	Target  string            `json:"target"`
	Method  string            `json:"method,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    json.RawMessage   `json:"body,omitempty"`
}

func NewForwardTask(ctx context.Context, input ForwardInput) (*asynq.Task, error) {
	input.TraceID = observability.GetTraceIDFromContext(ctx)
	payload, err := json.Marshal(input)
	if err != nil {
		return nil, relayerrors.Wrap(err, "unable to serialize forward task")
	}
	taskID, err := uuid.NewV4()
	if err != nil {
		return nil, relayerrors.Wrap(err, "unable to generate a task id")
	}
	return asynq.NewTask(
		TypeForward,
		payload,
		asynq.TaskID(taskID.String()),
		asynq.MaxRetry(5),
		asynq.Timeout(30*time.Second),
		asynq.Queue(queues.QueueForward),
		asynq.Retention(24*time.Hour),
	), nil
}

func parseTarget(checker authorization.AuthorizationChecker, raw string, attr attributes.Attribute) (*url.URL, error) {
	target, err := url.Parse(raw)
	if err != nil {
		return nil, SkipRetry(err)
	}
	if !checker.IsGranted(target, attr) {
		return nil, SkipRetry(ErrTargetNotAllowed)
	}
	return target, nil
}

func HandleForward(ctx context.Context, task *asynq.Task) error {
	log := dic.GetService[logger.Logger]()
	httpClient := dic.GetService[relayhttp.Client]()
	checker := dic.GetService[authorization.AuthorizationChecker]()

	var input ForwardInput
	if err := json.Unmarshal(task.Payload(), &input); err != nil {
		return relayerrors.WrapTask(SkipRetry(err), "unable to deserialize task input")
	}

	target, err := parseTarget(checker, input.Target, attributes.CanForward)
	if err != nil {
		return relayerrors.WrapTask(err, "invalid forward target")
	}

	method := strings.ToUpper(input.Method)
	if method == "" {
		method = http.MethodPost
	}
	reqCtx := relayhttp.WithAttribute(ctx, attributes.CanForward)
	request, err := http.NewRequestWithContext(reqCtx, method, target.String(), bytes.NewReader(input.Body))
	if err != nil {
		return relayerrors.WrapTask(SkipRetry(err), "unable to build forward request")
	}
	request.Header.Set("Content-Type", "application/json")
	for name, value := range input.Headers {
		request.Header.Set(name, value)
	}

	span := observability.StartSpan(ctx, "forward.request", map[string]any{"target": target.Host})
	response, err := httpClient.Do(request)
	if errors.Is(err, relayhttp.ErrRedirectNotAllowed) {
		return relayerrors.WrapTask(SkipRetry(err), "target redirected outside allowed hosts")
	}
	observability.FinishSpan(span)
	if err != nil {
		return relayerrors.WrapTask(err, "unable to reach target")
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		rejected := &TargetRejectedError{StatusCode: response.StatusCode}
		if rejected.Retryable() {
			return relayerrors.WrapTask(rejected, "target did not accept payload")
		}
		return relayerrors.WrapTask(SkipRetry(rejected), "target did not accept payload")
	}

	log.WithFields(logrus.Fields{
		"target": target.String(),
		"status": response.StatusCode,
	}).Info("payload forwarded")
	return nil
}
