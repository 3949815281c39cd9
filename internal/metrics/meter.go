package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const namespace = "relay"

//go:generate mockery --name Meter
type Meter interface {
	IncidentReported(kind string, source string)
	TaskProcessed(taskType string, outcome string)
	GetRegistry() *prometheus.Registry
}

type metricRegistry struct {
	registry  *prometheus.Registry
	incidents *prometheus.CounterVec
	tasks     *prometheus.CounterVec
}

func NewRegistry() *metricRegistry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	mr := &metricRegistry{
		registry: reg,
		incidents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "incidents_total",
			Help:      "Incidents reported, by error kind and source.",
		}, []string{"kind", "source"}),
		tasks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tasks_processed_total",
			Help:      "Tasks handled by the worker, by type and outcome.",
		}, []string{"type", "outcome"}),
	}
	reg.MustRegister(mr.incidents, mr.tasks)
	return mr
}

func (r *metricRegistry) IncidentReported(kind string, source string) {
	r.incidents.WithLabelValues(kind, source).Inc()
}

func (r *metricRegistry) TaskProcessed(taskType string, outcome string) {
	r.tasks.WithLabelValues(taskType, outcome).Inc()
}

func (r *metricRegistry) GetRegistry() *prometheus.Registry {
	return r.registry
}
