package metrics_test

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linkit/relay/internal/metrics"
)

func TestRegistry(t *testing.T) {
	meter := metrics.NewRegistry()

	meter.IncidentReported("task", "worker")
	meter.IncidentReported("task", "worker")
	meter.IncidentReported("relay", "worker")
	meter.IncidentReported("relay", "http")
	meter.TaskProcessed("relay:forward", "failed")

	count, err := testutil.GatherAndCount(meter.GetRegistry(), "relay_incidents_total")
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	expected := `
# HELP relay_incidents_total Incidents reported, by error kind and source.
# TYPE relay_incidents_total counter
relay_incidents_total{kind="relay",source="http"} 1
relay_incidents_total{kind="relay",source="worker"} 1
relay_incidents_total{kind="task",source="worker"} 2
`
	require.NoError(t, testutil.GatherAndCompare(meter.GetRegistry(), strings.NewReader(expected), "relay_incidents_total"))

	count, err = testutil.GatherAndCount(meter.GetRegistry(), "relay_tasks_processed_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
