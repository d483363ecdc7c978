package liquids3

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	lserrors "github.com/BinaryBirds/liquid-s3-driver/errors"
)

// storageMetrics holds the Prometheus collectors for one driver instance.
// Registering two instances with the same registry panics on the duplicate
// collectors; wrap the registry with prometheus.WrapRegistererWith to give
// each instance distinguishing labels.
type storageMetrics struct {
	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	errors     *prometheus.CounterVec
}

// newStorageMetrics registers the driver collectors with reg.
func newStorageMetrics(reg prometheus.Registerer) *storageMetrics {
	factory := promauto.With(reg)

	return &storageMetrics{
		operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "liquid_s3_operations_total",
				Help: "Total number of storage operations",
			},
			[]string{"operation", "status"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "liquid_s3_operation_duration_seconds",
				Help:    "Duration of storage operations in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1.0, 2.0, 5.0, 10.0},
			},
			[]string{"operation"},
		),
		errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "liquid_s3_operation_errors_total",
				Help: "Total number of failed storage operations by reason",
			},
			[]string{"operation", "reason"},
		),
	}
}

// observe records one finished operation. Safe on a nil receiver so call
// sites don't branch on whether metrics are configured.
func (m *storageMetrics) observe(op string, start time.Time, err error) {
	if m == nil {
		return
	}

	status := "success"
	if err != nil {
		status = "error"
		m.errors.WithLabelValues(op, classifyError(err)).Inc()
	}
	m.operations.WithLabelValues(op, status).Inc()
	m.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// classifyError maps an operation error onto a bounded reason label.
func classifyError(err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	case lserrors.IsKeyNotExists(err):
		return "not_found"
	case lserrors.IsBucketNotFound(err):
		return "bucket_not_found"
	case lserrors.IsAccessDenied(err):
		return "access_denied"
	case lserrors.IsInvalidInput(err):
		return "invalid_input"
	case lserrors.IsPartialFailure(err):
		return "partial_failure"
	}

	errStr := err.Error()
	switch {
	case strings.Contains(errStr, "NoSuchKey") || strings.Contains(errStr, "NotFound"):
		return "not_found"
	case strings.Contains(errStr, "SlowDown") || strings.Contains(errStr, "RequestLimitExceeded"):
		return "throttled"
	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "no such host"):
		return "network_error"
	default:
		return "unknown"
	}
}
