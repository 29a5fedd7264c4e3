// Package instrumentation provides OpenTelemetry instrumentation for the
// mcp-workloads server.
//
// This package enables production-grade observability through:
//   - OpenTelemetry metrics for HTTP requests and Kubernetes workload operations
//   - Distributed tracing for tool invocations and Kubernetes API calls
//   - Prometheus metrics export via /metrics endpoint
//   - OTLP export support for modern observability platforms
//
// # Metrics
//
// The package exposes the following metric categories:
//
// Server/HTTP Metrics:
//   - http_requests_total: Counter of HTTP requests by method, path, and status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//
// Kubernetes Operation Metrics:
//   - kubernetes_operations_total: Counter of K8s operations by operation and status
//   - kubernetes_operation_duration_seconds: Histogram of K8s operation durations
//
// Workload Metrics:
//   - deployment_restarts_total: Counter of deployment rollout restarts by context type and result
//   - deployment_log_fetches_total: Counter of deployment log fetches by context type and result
//   - cluster_health_checks_total: Counter of cluster health checks by context type and status
//
// # Cardinality Considerations
//
// Workload metrics are labeled with a classified context type rather than the
// raw kubeconfig context name (see ClassifyContextName). Namespace labels on
// operation metrics are only recorded when METRICS_DETAILED_LABELS is set,
// since clusters with many namespaces can otherwise blow up series counts.
//
// # Tracing
//
// Distributed tracing spans are created for:
//   - HTTP request handling
//   - MCP tool invocations
//   - Kubernetes API calls
//
// # Configuration
//
// Instrumentation can be configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: Metrics exporter type (prometheus, otlp, stdout, default: prometheus)
//   - TRACING_EXPORTER: Tracing exporter type (otlp, stdout, none, default: none)
//   - METRICS_DETAILED_LABELS: Include namespace labels on operation metrics (default: false)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_SERVICE_NAME: Service name (default: mcp-workloads)
//
// # Example Usage
//
//	// Initialize instrumentation
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.Config{
//		ServiceName:    "mcp-workloads",
//		ServiceVersion: "0.1.0",
//		Enabled:        true,
//	})
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	// Get metrics recorder
//	recorder := provider.Metrics()
//
//	// Record an HTTP request
//	recorder.RecordHTTPRequest(ctx, "POST", "/mcp", 200, time.Since(start))
//
//	// Record a deployment restart
//	recorder.RecordDeploymentRestart(ctx, "prod-eu-01", instrumentation.StatusSuccess)
package instrumentation
