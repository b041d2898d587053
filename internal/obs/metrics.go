package obs

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Core state-transition metrics
var (
	transitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "core_state_transitions_total",
			Help: "Total number of applied state transitions.",
		},
		[]string{"entity", "event"},
	)

	transitionFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "core_state_transition_failures_total",
			Help: "Total number of rejected state transitions.",
		},
		[]string{"entity", "event"},
	)

	qualityScores = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "core_metadata_quality_score",
			Help:    "Distribution of computed weighted quality scores.",
			Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
	)
)

// Init registers the core metrics with the default registry.
func Init() {
	prometheus.MustRegister(transitionsTotal, transitionFailures, qualityScores)
}

// RecordTransition counts one applied state transition.
func RecordTransition(entity, event string) {
	transitionsTotal.WithLabelValues(entity, event).Inc()
}

// RecordTransitionFailure counts one rejected state transition.
func RecordTransitionFailure(entity, event string) {
	transitionFailures.WithLabelValues(entity, event).Inc()
}

// ObserveQualityScore records one computed weighted quality score.
func ObserveQualityScore(score float64) {
	qualityScores.Observe(score)
}
