// Package metrics exposes Prometheus collectors for the prediction pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pipeline stages used as the "stage" label on failures.
const (
	StageUpload     = "upload"
	StagePreprocess = "preprocess"
	StageInference  = "inference"
	StagePersist    = "persist"
	StageHistory    = "history"
)

var (
	predictionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cancerscan_predictions_total",
		Help: "Total number of recorded predictions by result.",
	}, []string{"result"})

	failuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cancerscan_request_failures_total",
		Help: "Total number of failed requests by pipeline stage.",
	}, []string{"stage"})

	publishFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cancerscan_publish_failures_total",
		Help: "Total number of prediction events that could not be published.",
	})

	inferenceDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "cancerscan_inference_duration_seconds",
		Help:    "Duration of a single model forward pass.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5},
	})

	modelLoaded = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "cancerscan_model_loaded",
		Help: "1 once the classifier is loaded and serving.",
	})
)

func RecordPrediction(result string) {
	predictionsTotal.WithLabelValues(result).Inc()
}

func RecordFailure(stage string) {
	failuresTotal.WithLabelValues(stage).Inc()
}

func RecordPublishFailure() {
	publishFailuresTotal.Inc()
}

func ObserveInference(d time.Duration) {
	inferenceDuration.Observe(d.Seconds())
}

// SetModelLoaded flips the model gauge.
func SetModelLoaded(loaded bool) {
	if loaded {
		modelLoaded.Set(1)
		return
	}
	modelLoaded.Set(0)
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
