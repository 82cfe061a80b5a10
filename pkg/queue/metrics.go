package queue

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus collectors for a queue.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	TasksPushed    prometheus.Counter
	TasksCompleted prometheus.Counter
	TasksFailed    prometheus.Counter
	Running        prometheus.Gauge
	Backlog        prometheus.Gauge
	TaskLatency    prometheus.Histogram
}

// NewMetrics creates queue metrics. They are not registered; see Register.
func NewMetrics(namespace, subsystem string) *Metrics {
	return &Metrics{
		TasksPushed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "tasks_pushed_total",
			Help:      "Total number of tasks admitted to the queue",
		}),
		TasksCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "tasks_completed_total",
			Help:      "Total number of tasks completed without error",
		}),
		TasksFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "tasks_failed_total",
			Help:      "Total number of tasks completed with an error",
		}),
		Running: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "running_tasks",
			Help:      "Current number of tasks in flight",
		}),
		Backlog: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "backlog_tasks",
			Help:      "Current number of tasks waiting to start",
		}),
		TaskLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "task_duration_seconds",
			Help:      "Time from dispatch to completion of a task",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

// Collectors returns all collectors held by m
func (m *Metrics) Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.TasksPushed,
		m.TasksCompleted,
		m.TasksFailed,
		m.Running,
		m.Backlog,
		m.TaskLatency,
	}
}

// Register registers all collectors with reg
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range m.Collectors() {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) observePush(n, backlog int) {
	if m == nil {
		return
	}
	m.TasksPushed.Add(float64(n))
	m.Backlog.Set(float64(backlog))
}

func (m *Metrics) observeDispatch(running, backlog int) {
	if m == nil {
		return
	}
	m.Running.Set(float64(running))
	m.Backlog.Set(float64(backlog))
}

func (m *Metrics) observeCompletion(latency time.Duration, err error, running int) {
	if m == nil {
		return
	}
	if err != nil {
		m.TasksFailed.Inc()
	} else {
		m.TasksCompleted.Inc()
	}
	m.Running.Set(float64(running))
	m.TaskLatency.Observe(latency.Seconds())
}

func (m *Metrics) observeBacklog(backlog int) {
	if m == nil {
		return
	}
	m.Backlog.Set(float64(backlog))
}
