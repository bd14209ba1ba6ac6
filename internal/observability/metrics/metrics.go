// Package metrics exposes cipherkit counters and latency histograms in the
// Prometheus exposition format.
package metrics

import (
	"context"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/RowanDark/cipherkit/internal/observability/tracing"
)

const namespace = "cipherkit"

var (
	registry = prometheus.NewRegistry()
	factory  = promauto.With(registry)

	totalRequests uint64

	rpcRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rpc_requests_total",
		Help:      "Total number of requests handled, by component and method.",
	}, []string{"component", "method"})

	rpcErrors = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rpc_errors_total",
		Help:      "Total number of failed requests, by component, method and code.",
	}, []string{"component", "method", "code"})

	rpcLatency = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "rpc_duration_seconds",
		Help:      "Latency of request handlers, by component, method and code.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"component", "method", "code"})

	operations = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "operations_total",
		Help:      "Cipher operations executed, by operation and outcome.",
	}, []string{"operation", "outcome"})

	attackDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "analysis",
		Name:      "attack_duration_seconds",
		Help:      "Time spent on ciphertext-only attacks, by attack kind.",
		Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"kind"})

	keyLengths = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "analysis",
		Name:      "estimated_key_length",
		Help:      "Distribution of estimated Vigenère key lengths.",
		Buckets:   prometheus.LinearBuckets(1, 1, 20),
	})

	detections = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "analysis",
		Name:      "detections_total",
		Help:      "Top detector verdicts, by cipher family.",
	}, []string{"cipher"})

	recipes = factory.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "recipes",
		Help:      "Number of stored recipes.",
	})
)

func init() {
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// Registry returns the registry holding every cipherkit collector.
func Registry() *prometheus.Registry {
	return registry
}

// Handler exposes the registry as an http.Handler compatible with Prometheus.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// RecordRPCRequest increments the request counter for a component and method.
func RecordRPCRequest(component, method string) {
	rpcRequests.WithLabelValues(component, method).Inc()
	atomic.AddUint64(&totalRequests, 1)
}

// RecordRPCError increments the error counter for a component, method, and error code.
func RecordRPCError(component, method, code string) {
	rpcErrors.WithLabelValues(component, method, code).Inc()
}

// ObserveRPCLatency records the duration spent serving a method and tags it by
// status code. The trace ID on ctx, if any, is attached as an exemplar.
func ObserveRPCLatency(ctx context.Context, component, method, code string, dur time.Duration) {
	observer := rpcLatency.WithLabelValues(component, method, code)
	if traceID := tracing.TraceIDFromContext(ctx); traceID != "" {
		if eo, ok := observer.(prometheus.ExemplarObserver); ok {
			eo.ObserveWithExemplar(dur.Seconds(), prometheus.Labels{"trace_id": traceID})
			return
		}
	}
	observer.Observe(dur.Seconds())
}

// RecordOperation counts one execution of a registered cipher operation.
func RecordOperation(operation string, err error) {
	operations.WithLabelValues(normalise(operation), outcome(err)).Inc()
}

// ObserveAttack records how long an attack of the given kind took.
func ObserveAttack(kind string, dur time.Duration) {
	attackDuration.WithLabelValues(normalise(kind)).Observe(dur.Seconds())
}

// ObserveKeyLength records an estimated Vigenère key length.
func ObserveKeyLength(length int) {
	keyLengths.Observe(float64(length))
}

// RecordDetection counts the top verdict of a detection run.
func RecordDetection(cipher string) {
	detections.WithLabelValues(normalise(cipher)).Inc()
}

// SetRecipeCount updates the stored recipe gauge.
func SetRecipeCount(n int) {
	recipes.Set(float64(n))
}

// TotalRequests returns the total number of requests served since process start.
func TotalRequests() uint64 {
	return atomic.LoadUint64(&totalRequests)
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func normalise(label string) string {
	label = strings.TrimSpace(strings.ToLower(label))
	if label == "" {
		return "unspecified"
	}
	return label
}
