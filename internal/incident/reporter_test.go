package incident_test

import (
	"context"
	"testing"
	"time"

	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/linkit/relay/internal/cache"
	relayerrors "github.com/linkit/relay/internal/errors"
	"github.com/linkit/relay/internal/incident"
	"github.com/linkit/relay/internal/incident/mocks"
	loggermocks "github.com/linkit/relay/internal/logger/mocks"
	"github.com/linkit/relay/internal/metrics"
)

func newMemoryCache(t *testing.T) cache.Cache[incident.Incident] {
	t.Helper()
	c, err := cache.CreateMemoryCache[incident.Incident](16, cache.OptionDefaultTTL(time.Minute))
	require.NoError(t, err)
	return c
}

func TestReporter_Report(t *testing.T) {
	log := loggermocks.NewNullLogger()
	meter := metrics.NewRegistry()
	repo := mocks.NewRepository(t)
	repo.On("Save", mock.Anything, mock.MatchedBy(func(inc *incident.Incident) bool {
		return inc.Kind == "task" && inc.TaskType == "relay:forward"
	})).Return(nil)

	rep := incident.NewReporter(log, meter, repo, newMemoryCache(t))

	cause := errors.New("503 Service Unavailable")
	inc := rep.Report(
		context.TODO(),
		relayerrors.WrapTask(cause, "target rejected payload"),
		incident.WithSource(incident.SourceWorker),
		incident.WithTask("relay:forward", "task-1"),
	)

	_, err := uuid.FromString(inc.ID)
	require.NoError(t, err)
	assert.Equal(t, "task", inc.Kind)
	assert.Equal(t, "target rejected payload", inc.Message)
	assert.Equal(t, "503 Service Unavailable", inc.Cause)
	assert.Equal(t, incident.SourceWorker, inc.Source)
	assert.Equal(t, "task-1", inc.TaskID)
	assert.False(t, inc.CreatedAt.IsZero())

	count, err := testutil.GatherAndCount(meter.GetRegistry(), "relay_incidents_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	entry := log.Hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.ErrorLevel, entry.Level)
	assert.Equal(t, "relay incident", entry.Message)
	assert.Equal(t, inc.ID, entry.Data["incident"])

	cached, err := rep.Get(context.TODO(), inc.ID)
	require.NoError(t, err)
	assert.Equal(t, inc, *cached)
}

func TestReporter_ReportStorageFailure(t *testing.T) {
	log := loggermocks.NewNullLogger()
	repo := mocks.NewRepository(t)
	repo.On("Save", mock.Anything, mock.Anything).
		Return(relayerrors.Wrap(errors.New("connection refused"), "unable to save incident"))

	rep := incident.NewReporter(log, metrics.NewRegistry(), repo, newMemoryCache(t))
	original := relayerrors.New("disk full")
	inc := rep.Report(context.TODO(), original)

	assert.Equal(t, "relay", inc.Kind)
	assert.Equal(t, "disk full", inc.Message)
	assert.Equal(t, incident.SourceRelay, inc.Source)

	entry := log.Hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "unable to persist incident", entry.Message)
}

func TestReporter_Get(t *testing.T) {
	id := uuid.Must(uuid.NewV4()).String()
	stored := &incident.Incident{ID: id, Kind: "relay", Message: "disk full", Source: incident.SourceHTTP}

	t.Run("invalid id", func(t *testing.T) {
		rep := incident.NewReporter(loggermocks.NewNullLogger(), metrics.NewRegistry(), mocks.NewRepository(t), newMemoryCache(t))
		_, err := rep.Get(context.TODO(), "not-an-uuid")
		require.ErrorIs(t, err, incident.ErrNotFound)
	})

	t.Run("cache miss falls back to repository once", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		repo.On("Get", mock.Anything, id).Once().Return(stored, nil)
		rep := incident.NewReporter(loggermocks.NewNullLogger(), metrics.NewRegistry(), repo, newMemoryCache(t))

		got, err := rep.Get(context.TODO(), id)
		require.NoError(t, err)
		assert.Equal(t, stored, got)

		got, err = rep.Get(context.TODO(), id)
		require.NoError(t, err)
		assert.Equal(t, stored, got)
	})

	t.Run("not found", func(t *testing.T) {
		repo := mocks.NewRepository(t)
		repo.On("Get", mock.Anything, id).Return(nil, incident.ErrNotFound)
		rep := incident.NewReporter(loggermocks.NewNullLogger(), metrics.NewRegistry(), repo, newMemoryCache(t))

		_, err := rep.Get(context.TODO(), id)
		require.ErrorIs(t, err, incident.ErrNotFound)
	})
}

func TestReporter_ReportWithoutID(t *testing.T) {
	log := loggermocks.NewNullLogger()
	meter := metrics.NewRegistry()
	repo := mocks.NewRepository(t)
	incidents := newMemoryCache(t)
	rep := incident.NewReporter(log, meter, repo, incidents)
	incident.WithIDGenerator(rep, func() (uuid.UUID, error) {
		return uuid.Nil, errors.New("entropy source exhausted")
	})

	first := rep.Report(context.TODO(), relayerrors.New("disk full"), incident.WithSource(incident.SourceHTTP))
	second := rep.Report(context.TODO(), relayerrors.New("disk still full"), incident.WithSource(incident.SourceHTTP))

	assert.Empty(t, first.ID)
	assert.Empty(t, second.ID)
	assert.Equal(t, "disk still full", second.Message)
	repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	_, err := incidents.Get(context.TODO(), uuid.Nil.String())
	require.ErrorIs(t, err, cache.ErrMiss)

	count, err := testutil.GatherAndCount(meter.GetRegistry(), "relay_incidents_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	var idFailures int
	for _, entry := range log.Hook.AllEntries() {
		if entry.Message == "unable to generate an incident id" {
			idFailures++
		}
	}
	assert.Equal(t, 2, idFailures)
}
