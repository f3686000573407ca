package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_errors_total",
			Help: "Total number of occurred errors.",
		},
		[]string{"type"},
	)
	MutationsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_mutations_total",
			Help: "Total number of optimistic mutations by kind and outcome.",
		},
		[]string{"kind", "outcome"},
	)
	RollbacksCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pipeline_rollbacks_total",
			Help: "Total number of optimistic mutations that were rolled back.",
		},
	)
	InjectedFaultsCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pipeline_injected_faults_total",
			Help: "Total number of faults injected by the simulated backend.",
		},
	)
	ReconcileDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pipeline_mutation_reconcile_duration_seconds",
			Help:    "Time from optimistic apply until a mutation reaches a terminal state.",
			Buckets: []float64{0.2, 0.5, 1, 2, 5},
		},
	)
)

func StartMetricsServer(port int) {

	prometheus.MustRegister(ErrorsCounter)
	prometheus.MustRegister(MutationsCounter)
	prometheus.MustRegister(RollbacksCounter)
	prometheus.MustRegister(InjectedFaultsCounter)
	prometheus.MustRegister(ReconcileDuration)

	http.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Fatal(http.ListenAndServe(fmt.Sprintf(":%d", port), nil))
	}()
}
