package tools

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"go.opentelemetry.io/otel/attribute"

	"github.com/opsgate/mcp-workloads/internal/instrumentation"
	"github.com/opsgate/mcp-workloads/internal/server"
)

// WrapWithTelemetry wraps a tool handler with tracing and metrics.
// The wrapper automatically captures:
//   - A span per tool invocation ("tool.<name>") with workload attributes
//     extracted from the request arguments
//   - Invocation timing, recorded as a Kubernetes operation metric
//   - Success/error status from both the Go error and the MCP result
//
// If no instrumentation provider is configured, the handler is called
// without any recording.
func WrapWithTelemetry(
	toolName string,
	operation string,
	handler ToolHandler,
	sc *server.ServerContext,
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		provider := sc.InstrumentationProvider()
		if provider == nil || !provider.Enabled() {
			return handler(ctx, request, sc)
		}

		args := request.GetArguments()
		namespace, _ := args["namespace"].(string)

		attrs := buildSpanAttributes(args, operation, sc)
		spanCtx, span := instrumentation.StartToolSpan(ctx, toolName, attrs...)
		defer span.End()

		start := time.Now()
		result, err := handler(spanCtx, request, sc)
		duration := time.Since(start)

		status := instrumentation.StatusSuccess
		switch {
		case err != nil:
			status = instrumentation.StatusError
			instrumentation.SetSpanError(span, err)
		case result != nil && result.IsError:
			// MCP tool errors are returned in the result, not as Go errors.
			status = instrumentation.StatusError
			if msg := resultErrorText(result); msg != "" {
				instrumentation.AddSpanEvent(span, "tool.error",
					attribute.String("error.message", msg))
			}
		default:
			instrumentation.SetSpanSuccess(span)
		}

		provider.Metrics().RecordK8sOperation(spanCtx, operation, namespace, status, duration)

		return result, err
	}
}

// WorkloadMetrics returns the instrumentation metrics recorder for the server
// context. The returned value may be nil when instrumentation is disabled;
// the recorder's methods are safe to call on a nil receiver.
func WorkloadMetrics(sc *server.ServerContext) *instrumentation.Metrics {
	provider := sc.InstrumentationProvider()
	if provider == nil || !provider.Enabled() {
		return nil
	}
	return provider.Metrics()
}

// buildSpanAttributes extracts span attributes from tool request arguments.
func buildSpanAttributes(args map[string]interface{}, operation string, sc *server.ServerContext) []attribute.KeyValue {
	builder := instrumentation.NewSpanAttributeBuilder().
		WithOperation(operation).
		WithDryRun(sc.Config().DryRun)

	if kubeContext, ok := args["kubeContext"].(string); ok && kubeContext != "" {
		builder.WithKubeContext(kubeContext)
	}
	if namespace, ok := args["namespace"].(string); ok {
		builder.WithNamespace(namespace)
	}
	if deployment, ok := args["deploymentName"].(string); ok {
		builder.WithDeployment(deployment)
	}
	if pod, ok := args["podName"].(string); ok {
		builder.WithPod(pod)
	}

	return builder.Build()
}

// resultErrorText extracts the error message from an MCP error result.
func resultErrorText(result *mcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return ""
	}
	if textContent, ok := result.Content[0].(mcp.TextContent); ok {
		return textContent.Text
	}
	return ""
}
