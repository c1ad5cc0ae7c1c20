// Package metrics provides Prometheus metrics collection for the
// learning assistant service. It defines the instruments exposed on
// the metrics endpoint for monitoring predictions, training runs,
// gap detection, chatbot traffic, and HTTP serving.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus instruments for the service.
type Metrics struct {
	// Prediction metrics
	PredictionsTotal     prometheus.Counter   // Total number of predictions served
	PredictionFailures   prometheus.Counter   // Total number of failed predictions
	PredictionLatency    prometheus.Histogram // End-to-end prediction latency in seconds
	PredictionConfidence prometheus.Histogram // Distribution of prediction confidence

	// Training metrics
	TrainingsTotal   prometheus.Counter   // Total number of training runs
	TrainingDuration prometheus.Histogram // Training duration in seconds
	ModelAccuracy    prometheus.Gauge     // Held-out accuracy of the current model
	ModelAge         prometheus.Gauge     // Age of the current model in seconds

	// Analysis metrics
	GapsDetected prometheus.Counter // Total number of learning gaps emitted

	// Chatbot metrics
	ChatMessages prometheus.Counter // Total number of chatbot messages handled
	LLMFallbacks prometheus.Counter // Times the LLM relay fell back to templates

	// Serving metrics
	HTTPRequests prometheus.Counter // Total number of HTTP requests served
	ErrorsTotal  prometheus.Counter // Total number of errors encountered
}

// New creates and registers all metrics using the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry creates metrics with a custom registry (useful for
// testing without touching the global Prometheus registry).
func NewWithRegistry(registerer prometheus.Registerer) *Metrics {
	factory := promauto.With(registerer)
	return &Metrics{
		PredictionsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "predictions_total",
			Help: "Total number of predictions served",
		}),
		PredictionFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "prediction_failures_total",
			Help: "Total number of failed predictions",
		}),
		PredictionLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "prediction_latency_seconds",
			Help:    "End-to-end prediction latency in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		}),
		PredictionConfidence: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "prediction_confidence",
			Help:    "Distribution of prediction confidence scores",
			Buckets: prometheus.LinearBuckets(0.1, 0.1, 9),
		}),
		TrainingsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "trainings_total",
			Help: "Total number of training runs",
		}),
		TrainingDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "training_duration_seconds",
			Help:    "Training duration in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		ModelAccuracy: factory.NewGauge(prometheus.GaugeOpts{
			Name: "model_accuracy",
			Help: "Held-out accuracy of the current model",
		}),
		ModelAge: factory.NewGauge(prometheus.GaugeOpts{
			Name: "model_age_seconds",
			Help: "Age of the current model in seconds",
		}),
		GapsDetected: factory.NewCounter(prometheus.CounterOpts{
			Name: "gaps_detected_total",
			Help: "Total number of learning gaps emitted",
		}),
		ChatMessages: factory.NewCounter(prometheus.CounterOpts{
			Name: "chat_messages_total",
			Help: "Total number of chatbot messages handled",
		}),
		LLMFallbacks: factory.NewCounter(prometheus.CounterOpts{
			Name: "llm_fallbacks_total",
			Help: "Times the LLM relay fell back to template responses",
		}),
		HTTPRequests: factory.NewCounter(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests served",
		}),
		ErrorsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total number of errors encountered",
		}),
	}
}
