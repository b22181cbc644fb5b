package task

import "github.com/prometheus/client_golang/prometheus"

var (
	tasksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "classifid",
			Subsystem: "task",
			Name:      "tasks_total",
			Help:      "Total number of tasks processed by type and outcome",
		},
		[]string{"type", "outcome"},
	)

	queueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "classifid",
			Subsystem: "task",
			Name:      "queue_depth",
			Help:      "Tasks currently waiting in the runner queue",
		},
	)
)

func init() {
	prometheus.MustRegister(tasksTotal, queueDepth)
}

func observeTask(taskType string, ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	tasksTotal.WithLabelValues(taskType, outcome).Inc()
}
