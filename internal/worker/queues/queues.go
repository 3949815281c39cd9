package queues

const (
	QueueForward = "relay:forward"
	QueueDefault = "relay:default"
)

// Priorities weights the queues served by the worker.
var Priorities = map[string]int{ //nolint:gochecknoglobals
	QueueForward: 6,
	QueueDefault: 3,
}
