package gitproxy

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricGitOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fluxly",
		Subsystem: "gitproxy",
		Name:      "operation_total",
		Help:      "Total number of classified Git operations forwarded",
	}, []string{"operation"})

	metricUpstreamFailures = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "fluxly",
		Subsystem: "gitproxy",
		Name:      "upstream_failure_total",
		Help:      "Total number of failed upstream fetches",
	})
)
