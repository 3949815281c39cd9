package routes

const (
	HealthRoute      string = "health"
	ForwardTaskRoute string = "forward_task"
	PingTaskRoute    string = "ping_task"
	IncidentRoute    string = "incident"
	MetricsRoute     string = "metrics"
	SigningKeyRoute  string = "signing_key"
)
