package worker_test

import (
	"context"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/hibiken/asynq"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/linkit/relay/internal/dic"
	relayerrors "github.com/linkit/relay/internal/errors"
	"github.com/linkit/relay/internal/incident"
	incidentmocks "github.com/linkit/relay/internal/incident/mocks"
	"github.com/linkit/relay/internal/metrics"
	metricsmocks "github.com/linkit/relay/internal/metrics/mocks"
	"github.com/linkit/relay/internal/worker"
	"github.com/linkit/relay/internal/worker/tasks"
)

func TestErrorHandler(t *testing.T) {
	tests := []struct {
		name      string
		handler   worker.TaskHandler
		outcome   string
		err       string
		skipRetry bool
	}{
		{
			name:    "task succeeded",
			handler: func(context.Context, *asynq.Task) error { return nil },
			outcome: worker.OutcomeSucceeded,
		},
		{
			name: "plain error becomes a task error",
			handler: func(context.Context, *asynq.Task) error {
				return errors.New("database is down")
			},
			outcome: worker.OutcomeFailed,
			err:     "background task 'relay:ping' failed: database is down",
		},
		{
			name: "relay error becomes a task error",
			handler: func(context.Context, *asynq.Task) error {
				return relayerrors.New("unable to enqueue task")
			},
			outcome: worker.OutcomeFailed,
			err:     "background task 'relay:ping' failed: unable to enqueue task",
		},
		{
			name: "task error is kept as is",
			handler: func(context.Context, *asynq.Task) error {
				return relayerrors.WrapTask(&tasks.TargetRejectedError{StatusCode: 503}, "target is unhealthy")
			},
			outcome: worker.OutcomeFailed,
			err:     "target is unhealthy: target answered 503",
		},
		{
			name: "skip retry is preserved",
			handler: func(context.Context, *asynq.Task) error {
				return relayerrors.WrapTask(
					tasks.SkipRetry(&tasks.TargetRejectedError{StatusCode: 404}),
					"target did not accept payload",
				)
			},
			outcome:   worker.OutcomeArchived,
			err:       "target did not accept payload: target answered 404: skip retry for the task",
			skipRetry: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dic.ResetContainer()
			defer dic.ResetContainer()

			reporter := incidentmocks.NewReporter(t)
			meter := metricsmocks.NewMeter(t)
			meter.On("TaskProcessed", tasks.TypePing, tt.outcome).Once()
			if tt.err != "" {
				reporter.On(
					"Report",
					mock.Anything,
					mock.MatchedBy(func(err error) bool { return relayerrors.IsTaskError(err) }),
					mock.Anything,
					mock.Anything,
				).Return(incident.Incident{}).Once()
			}
			require.NoError(t, dic.Register[incident.Reporter](reporter))
			require.NoError(t, dic.Register[metrics.Meter](meter))

			err := worker.ErrorHandler(tt.handler)(context.Background(), asynq.NewTask(tasks.TypePing, nil))
			if tt.err == "" {
				require.NoError(t, err)
				return
			}
			require.EqualError(t, err, tt.err)
			taskErr, ok := relayerrors.AsRelayError(err)
			require.True(t, ok)
			assert.True(t, taskErr.IsTask())
			assert.Equal(t, tt.skipRetry, errors.Is(err, asynq.SkipRetry))
		})
	}
}

func TestRecoverHandler(t *testing.T) {
	handler := worker.RecoverHandler(func(context.Context, *asynq.Task) error {
		panic("nil map")
	})

	err := handler(context.Background(), asynq.NewTask(tasks.TypeForward, nil))

	require.EqualError(t, err, "background task 'relay:forward' panicked: nil map")
	assert.True(t, relayerrors.IsTaskError(err))
}

func TestWrap(t *testing.T) {
	dic.ResetContainer()
	defer dic.ResetContainer()

	reporter := incidentmocks.NewReporter(t)
	reporter.On("Report", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(incident.Incident{}).Once()
	meter := metricsmocks.NewMeter(t)
	meter.On("TaskProcessed", tasks.TypeForward, worker.OutcomeFailed).Once()
	require.NoError(t, dic.Register[incident.Reporter](reporter))
	require.NoError(t, dic.Register[metrics.Meter](meter))

	handler := worker.Wrap(func(context.Context, *asynq.Task) error {
		panic("boom")
	})
	err := handler(context.Background(), asynq.NewTask(tasks.TypeForward, []byte(`{"trace_id":""}`)))

	require.Error(t, err)
	assert.True(t, relayerrors.IsTaskError(err))
}

func scopeTags(hub *sentry.Hub) map[string]string {
	return hub.Scope().ApplyToEvent(sentry.NewEvent(), nil).Tags
}

func TestErrorHandler_ScopesSentryPerTask(t *testing.T) {
	dic.ResetContainer()
	defer dic.ResetContainer()

	meter := metricsmocks.NewMeter(t)
	meter.On("TaskProcessed", mock.Anything, worker.OutcomeSucceeded).Twice()
	require.NoError(t, dic.Register[incident.Reporter](incidentmocks.NewReporter(t)))
	require.NoError(t, dic.Register[metrics.Meter](meter))

	seen := map[string]*sentry.Hub{}
	handler := worker.ErrorHandler(func(ctx context.Context, task *asynq.Task) error {
		hub := sentry.GetHubFromContext(ctx)
		require.NotNil(t, hub)
		assert.NotSame(t, sentry.CurrentHub(), hub)
		assert.Equal(t, task.Type(), scopeTags(hub)["task_type"])
		seen[task.Type()] = hub
		return nil
	})

	require.NoError(t, handler(context.Background(), asynq.NewTask(tasks.TypeForward, nil)))
	require.NoError(t, handler(context.Background(), asynq.NewTask(tasks.TypePing, nil)))

	assert.NotSame(t, seen[tasks.TypeForward], seen[tasks.TypePing])
	assert.Equal(t, tasks.TypeForward, scopeTags(seen[tasks.TypeForward])["task_type"])
	assert.NotContains(t, scopeTags(sentry.CurrentHub()), "task_type")
}
