package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
	"github.com/pkg/errors"

	"github.com/linkit/relay/internal/dic"
	relayerrors "github.com/linkit/relay/internal/errors"
	"github.com/linkit/relay/internal/incident"
	"github.com/linkit/relay/internal/metrics"
	"github.com/linkit/relay/internal/observability"
)

const (
	OutcomeSucceeded = "succeeded"
	OutcomeFailed    = "failed"
	OutcomeArchived  = "archived"
)

type TraceableTask struct {
	TraceID string `json:"trace_id"`
}
type TaskHandler func(ctx context.Context, t *asynq.Task) error

// Wrap applies the middlewares every task handler runs with.
func Wrap(handler TaskHandler) TaskHandler {
	return TracingHandler(ErrorHandler(RecoverHandler(handler)))
}

// taskHub returns the sentry hub bound to ctx, binding a clone of the global one
// when there is none. Tasks run concurrently and must not share a scope.
func taskHub(ctx context.Context) (context.Context, *sentry.Hub) {
	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		return ctx, hub
	}
	hub := sentry.CurrentHub().Clone()
	return sentry.SetHubOnContext(ctx, hub), hub
}

// ErrorHandler reports failed tasks as incidents. Every error leaving it is a
// task error, and keeps asynq.SkipRetry in its chain when the handler asked for it.
func ErrorHandler(handler TaskHandler) TaskHandler {
	reporter := dic.GetService[incident.Reporter]()
	meter := dic.GetService[metrics.Meter]()
	return func(ctx context.Context, task *asynq.Task) error {
		ctx, hub := taskHub(ctx)
		hub.ConfigureScope(func(scope *sentry.Scope) {
			scope.SetContext("task", map[string]interface{}{
				"task_type": task.Type(),
				"payload":   string(task.Payload()),
			})
			scope.SetTag("task_type", task.Type())
		})
		err := handler(ctx, task)
		if err == nil {
			meter.TaskProcessed(task.Type(), OutcomeSucceeded)
			return nil
		}

		if !relayerrors.IsTaskError(err) {
			err = relayerrors.WrapTask(err, fmt.Sprintf("background task '%s' failed", task.Type()))
		}
		taskID, _ := asynq.GetTaskID(ctx)
		reporter.Report(
			ctx,
			err,
			incident.WithSource(incident.SourceWorker),
			incident.WithTask(task.Type(), taskID),
		)

		if errors.Is(err, asynq.SkipRetry) {
			meter.TaskProcessed(task.Type(), OutcomeArchived)
		} else {
			meter.TaskProcessed(task.Type(), OutcomeFailed)
		}
		return err
	}
}

// RecoverHandler turns a panic raised by handler into a task error.
func RecoverHandler(handler TaskHandler) TaskHandler {
	return func(ctx context.Context, task *asynq.Task) (err error) {
		defer func() {
			if recovered := recover(); recovered != nil {
				err = relayerrors.WrapTask(
					errors.Errorf("%v", recovered),
					fmt.Sprintf("background task '%s' panicked", task.Type()),
				)
			}
		}()
		return handler(ctx, task)
	}
}

func TracingHandler(handler TaskHandler) TaskHandler {
	return func(ctx context.Context, task *asynq.Task) error {
		traceTask := TraceableTask{}
		_ = json.Unmarshal(task.Payload(), &traceTask)
		ctx, _ = taskHub(ctx)
		tx := observability.StartTransaction(
			ctx,
			task.Type(),
			sentry.OpName("worker"),
			sentry.ContinueFromTrace(traceTask.TraceID),
		)
		err := handler(tx.Context(), task) //nolint:contextcheck
		observability.FinishSpan(tx)
		return err
	}
}
