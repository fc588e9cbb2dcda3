package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	decisions     *prometheus.CounterVec
	evalErrors    *prometheus.CounterVec
	publishErrors *prometheus.CounterVec
	lotSize       *prometheus.HistogramVec
	openPositions prometheus.Gauge
	cycleDuration prometheus.Histogram
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		decisions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradecore_decisions_total",
				Help: "Decisions made, by instrument and outcome (admitted or rejection reason)",
			},
			[]string{"instrument", "outcome"},
		),
		evalErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradecore_evaluation_errors_total",
				Help: "Per-instrument evaluation failures (data quality, missing history)",
			},
			[]string{"instrument"},
		),
		publishErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradecore_publish_errors_total",
				Help: "Failures while publishing or persisting decisions",
			},
			[]string{"sink"},
		),
		lotSize: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tradecore_admitted_lot_size",
				Help:    "Lot sizes of admitted trade intents",
				Buckets: []float64{0.01, 0.05, 0.1, 0.2, 0.3, 0.5, 1},
			},
			[]string{"instrument"},
		),
		openPositions: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "tradecore_open_positions",
				Help: "Open position count as of the last cycle",
			},
		),
		cycleDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "tradecore_cycle_duration_seconds",
				Help:    "Full evaluation cycle duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

// RecordDecision records one decision outcome for an instrument.
func (r *Recorder) RecordDecision(instrument, outcome string) {
	r.decisions.WithLabelValues(instrument, outcome).Inc()
}

// RecordCycleDuration records one full cycle's wall time.
func (r *Recorder) RecordCycleDuration(seconds float64) {
	r.cycleDuration.Observe(seconds)
}

// RecordEvalError records a per-instrument evaluation failure.
func (r *Recorder) RecordEvalError(instrument string) {
	r.evalErrors.WithLabelValues(instrument).Inc()
}

// RecordLotSize records the lot size of an admitted intent.
func (r *Recorder) RecordLotSize(instrument string, lots float64) {
	r.lotSize.WithLabelValues(instrument).Observe(lots)
}

// SetOpenPositions sets the open-position gauge.
func (r *Recorder) SetOpenPositions(n int) {
	r.openPositions.Set(float64(n))
}

// RecordPublishError records a failure in a decision sink.
func (r *Recorder) RecordPublishError(sink string) {
	r.publishErrors.WithLabelValues(sink).Inc()
}
