package instrumentation

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric attribute keys - using constants for consistency and DRY
const (
	// Common attributes (reused across metrics)
	attrMethod    = "method"
	attrPath      = "path"
	attrStatus    = "status"
	attrOperation = "operation"
	attrNamespace = "namespace"
	attrResult    = "result"
	attrContext   = "context_type"
)

// Metrics provides methods for recording observability metrics.
type Metrics struct {
	// HTTP metrics
	httpRequestsTotal   metric.Int64Counter
	httpRequestDuration metric.Float64Histogram

	// Kubernetes operation metrics
	k8sOperationsTotal   metric.Int64Counter
	k8sOperationDuration metric.Float64Histogram

	// Workload metrics
	deploymentRestartsTotal metric.Int64Counter
	logFetchesTotal         metric.Int64Counter
	clusterHealthTotal      metric.Int64Counter

	// Configuration
	// detailedLabels controls whether high-cardinality labels (namespace)
	// are included in Kubernetes operation metrics
	detailedLabels bool
}

// NewMetrics creates a new Metrics instance with all metrics initialized.
// The detailedLabels parameter controls whether high-cardinality labels are included.
func NewMetrics(meter metric.Meter, detailedLabels bool) (*Metrics, error) {
	m := &Metrics{
		detailedLabels: detailedLabels,
	}

	var err error

	// HTTP Metrics
	m.httpRequestsTotal, err = meter.Int64Counter(
		"http_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_requests_total counter: %w", err)
	}

	m.httpRequestDuration, err = meter.Float64Histogram(
		"http_request_duration_seconds",
		metric.WithDescription("HTTP request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_request_duration_seconds histogram: %w", err)
	}

	// Kubernetes Operation Metrics
	m.k8sOperationsTotal, err = meter.Int64Counter(
		"kubernetes_operations_total",
		metric.WithDescription("Total number of Kubernetes operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes_operations_total counter: %w", err)
	}

	m.k8sOperationDuration, err = meter.Float64Histogram(
		"kubernetes_operation_duration_seconds",
		metric.WithDescription("Kubernetes operation duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.01, 0.1, 0.5, 1.0, 2.5, 5.0, 10.0),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes_operation_duration_seconds histogram: %w", err)
	}

	// Workload Metrics
	m.deploymentRestartsTotal, err = meter.Int64Counter(
		"deployment_restarts_total",
		metric.WithDescription("Total number of rollout restarts issued"),
		metric.WithUnit("{restart}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create deployment_restarts_total counter: %w", err)
	}

	m.logFetchesTotal, err = meter.Int64Counter(
		"deployment_log_fetches_total",
		metric.WithDescription("Total number of deployment log retrievals"),
		metric.WithUnit("{fetch}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create deployment_log_fetches_total counter: %w", err)
	}

	m.clusterHealthTotal, err = meter.Int64Counter(
		"cluster_health_checks_total",
		metric.WithDescription("Total number of cluster health evaluations"),
		metric.WithUnit("{check}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create cluster_health_checks_total counter: %w", err)
	}

	return m, nil
}

// RecordHTTPRequest records an HTTP request with method, path, status code, and duration.
func (m *Metrics) RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration) {
	if m == nil || m.httpRequestsTotal == nil || m.httpRequestDuration == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrMethod, method),
		attribute.String(attrPath, path),
		attribute.String(attrStatus, strconv.Itoa(statusCode)),
	}

	m.httpRequestsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.httpRequestDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordK8sOperation records a Kubernetes operation with operation type, namespace,
// status, and duration.
//
// CARDINALITY NOTE: When detailedLabels is false (default), only operation and status
// labels are recorded to avoid cardinality explosion in large clusters.
// When detailedLabels is true, namespace is also included.
// For large clusters with >1000 namespaces, keep detailedLabels disabled and use
// traces for per-namespace debugging instead.
func (m *Metrics) RecordK8sOperation(ctx context.Context, operation, namespace, status string, duration time.Duration) {
	if m == nil || m.k8sOperationsTotal == nil || m.k8sOperationDuration == nil {
		return // Instrumentation not initialized
	}

	// Always include operation and status (low cardinality)
	attrs := []attribute.KeyValue{
		attribute.String(attrOperation, operation),
		attribute.String(attrStatus, status),
	}

	// Only add high-cardinality labels if explicitly enabled
	if m.detailedLabels {
		attrs = append(attrs, attribute.String(attrNamespace, namespace))
	}

	m.k8sOperationsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.k8sOperationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(attrs...))
}

// RecordDeploymentRestart records a rollout restart attempt.
// Result should be one of: "success", "error"
func (m *Metrics) RecordDeploymentRestart(ctx context.Context, kubeContext, result string) {
	if m == nil || m.deploymentRestartsTotal == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrResult, result),
		attribute.String(attrContext, ClassifyContextName(kubeContext)),
	}

	m.deploymentRestartsTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordLogFetch records a deployment log retrieval attempt.
// Result should be one of: "success", "error"
func (m *Metrics) RecordLogFetch(ctx context.Context, kubeContext, result string) {
	if m == nil || m.logFetchesTotal == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrResult, result),
		attribute.String(attrContext, ClassifyContextName(kubeContext)),
	}

	m.logFetchesTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordClusterHealthCheck records a cluster health evaluation with the
// resulting overall status ("Healthy", "Degraded", "Unhealthy").
func (m *Metrics) RecordClusterHealthCheck(ctx context.Context, kubeContext, status string) {
	if m == nil || m.clusterHealthTotal == nil {
		return // Instrumentation not initialized
	}

	attrs := []attribute.KeyValue{
		attribute.String(attrStatus, status),
		attribute.String(attrContext, ClassifyContextName(kubeContext)),
	}

	m.clusterHealthTotal.Add(ctx, 1, metric.WithAttributes(attrs...))
}
