package incident_test

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	relayerrors "github.com/linkit/relay/internal/errors"
	"github.com/linkit/relay/internal/incident"
)

func TestFromError(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		expected incident.Incident
	}{
		{
			name: "relay error without cause",
			err:  relayerrors.New("disk full"),
			expected: incident.Incident{
				Kind:    "relay",
				Message: "disk full",
				Source:  incident.SourceRelay,
			},
		},
		{
			name: "relay error with cause",
			err:  relayerrors.Wrap(errors.New("connection refused"), "unable to reach redis"),
			expected: incident.Incident{
				Kind:    "relay",
				Message: "unable to reach redis",
				Cause:   "connection refused",
				Source:  incident.SourceRelay,
			},
		},
		{
			name: "task error wrapped by context",
			err:  fmt.Errorf("attempt 2: %w", relayerrors.NewTask("task timed out")),
			expected: incident.Incident{
				Kind:    "task",
				Message: "task timed out",
				Source:  incident.SourceRelay,
			},
		},
		{
			name: "error outside the relay vocabulary",
			err:  errors.Wrap(errors.New("EOF"), "unable to read"),
			expected: incident.Incident{
				Kind:    "relay",
				Message: "unable to read: EOF",
				Source:  incident.SourceRelay,
			},
		},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, incident.FromError(tt.err, incident.SourceRelay))
		})
	}
}

func TestReportOptions(t *testing.T) {
	inc := incident.FromError(relayerrors.NewTask("boom"), incident.SourceRelay)
	incident.WithSource(incident.SourceWorker)(&inc)
	incident.WithTask("relay:forward", "abc")(&inc)

	assert.Equal(t, incident.SourceWorker, inc.Source)
	assert.Equal(t, "relay:forward", inc.TaskType)
	assert.Equal(t, "abc", inc.TaskID)
}
