package deployment

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/opsgate/mcp-workloads/internal/instrumentation"
	"github.com/opsgate/mcp-workloads/internal/k8s"
	"github.com/opsgate/mcp-workloads/internal/server"
	"github.com/opsgate/mcp-workloads/internal/tools"
	"github.com/opsgate/mcp-workloads/internal/tools/output"
)

const defaultLogWindowHours = 1

// ListDeploymentsResponse is the JSON payload returned by workloads_list_deployments.
type ListDeploymentsResponse struct {
	Deployments []k8s.DeploymentInfo      `json:"deployments"`
	Count       int                       `json:"count"`
	Truncation  *output.TruncationWarning `json:"truncation,omitempty"`
}

// DeploymentLogsResponse is the JSON payload returned by workloads_deployment_logs.
type DeploymentLogsResponse struct {
	Deployment    string            `json:"deployment"`
	Namespace     string            `json:"namespace"`
	Logs          map[string]string `json:"logs"`
	TruncatedPods []string          `json:"truncatedPods,omitempty"`
}

// handleListDeployments handles deployment list operations
func handleListDeployments(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	kubeContext, _ := args["kubeContext"].(string)

	namespace, _ := args["namespace"].(string)
	if namespace == "" {
		namespace = sc.Config().DefaultNamespace
	}

	maxItems := 0
	if maxItemsFloat, ok := args["maxItems"].(float64); ok {
		maxItems = int(maxItemsFloat)
	}

	deployments, err := sc.K8sClient().ListDeployments(ctx, kubeContext, namespace)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list deployments: %v", err)), nil
	}

	limit := output.EffectiveLimit(maxItems, sc.Config().MaxItems)
	capped, warning := output.TruncateItems(deployments, limit)

	response := ListDeploymentsResponse{
		Deployments: capped,
		Count:       len(capped),
		Truncation:  warning,
	}

	jsonData, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal deployments: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

// handleRestartDeployment handles deployment rollout restarts
func handleRestartDeployment(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if result := tools.CheckMutatingOperation(sc, "restart"); result != nil {
		return result, nil
	}

	args := request.GetArguments()

	kubeContext, _ := args["kubeContext"].(string)

	namespace, _ := args["namespace"].(string)
	if namespace == "" {
		namespace = sc.Config().DefaultNamespace
	}

	deploymentName, ok := args["deploymentName"].(string)
	if !ok || deploymentName == "" {
		return mcp.NewToolResultError("deploymentName is required"), nil
	}

	result, err := sc.K8sClient().RestartDeployment(ctx, kubeContext, namespace, deploymentName)
	if err != nil {
		tools.WorkloadMetrics(sc).RecordDeploymentRestart(ctx, kubeContext, instrumentation.StatusError)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to restart deployment: %v", err)), nil
	}

	// The client reports not-found and patch failures through the result
	// rather than as errors.
	if !result.Success {
		tools.WorkloadMetrics(sc).RecordDeploymentRestart(ctx, kubeContext, instrumentation.StatusError)
		return mcp.NewToolResultError(result.Message), nil
	}

	sc.Metrics().IncrementDeploymentRestarts()
	tools.WorkloadMetrics(sc).RecordDeploymentRestart(ctx, kubeContext, instrumentation.StatusSuccess)

	jsonData, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal restart result: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}

// handleDeploymentLogs handles log retrieval across all pods of a deployment
func handleDeploymentLogs(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	kubeContext, _ := args["kubeContext"].(string)

	namespace, _ := args["namespace"].(string)
	if namespace == "" {
		namespace = sc.Config().DefaultNamespace
	}

	deploymentName, ok := args["deploymentName"].(string)
	if !ok || deploymentName == "" {
		return mcp.NewToolResultError("deploymentName is required"), nil
	}

	hours := float64(defaultLogWindowHours)
	if hoursFloat, ok := args["hours"].(float64); ok && hoursFloat > 0 {
		hours = hoursFloat
	}
	sinceSeconds := int64(hours * 3600)

	var tailLines *int64
	if tailLinesFloat, ok := args["tailLines"].(float64); ok {
		tailLinesInt := int64(tailLinesFloat)
		tailLines = &tailLinesInt
	}

	maxBytesPerPod := 0
	if maxBytesFloat, ok := args["maxBytesPerPod"].(float64); ok {
		maxBytesPerPod = int(maxBytesFloat)
	}

	opts := k8s.DeploymentLogOptions{
		SinceSeconds: &sinceSeconds,
		TailLines:    tailLines,
	}

	result, err := sc.K8sClient().DeploymentLogs(ctx, kubeContext, namespace, deploymentName, opts)
	if err != nil {
		sc.Metrics().IncrementLogFetchFailures()
		tools.WorkloadMetrics(sc).RecordLogFetch(ctx, kubeContext, instrumentation.StatusError)
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get deployment logs: %v", err)), nil
	}

	// Not-found deployments and deployments with no pods come back as an
	// unsuccessful result with a nil error.
	if !result.Success {
		sc.Metrics().IncrementLogFetchFailures()
		tools.WorkloadMetrics(sc).RecordLogFetch(ctx, kubeContext, instrumentation.StatusError)
		return mcp.NewToolResultError(result.Message), nil
	}

	tools.WorkloadMetrics(sc).RecordLogFetch(ctx, kubeContext, instrumentation.StatusSuccess)

	response := DeploymentLogsResponse{
		Deployment: result.Deployment,
		Namespace:  result.Namespace,
		Logs:       make(map[string]string, len(result.Logs)),
	}

	for podName, logs := range result.Logs {
		capped, truncated := output.TruncateLogs(logs, maxBytesPerPod)
		response.Logs[podName] = capped
		if truncated {
			response.TruncatedPods = append(response.TruncatedPods, podName)
		}
	}
	sort.Strings(response.TruncatedPods)

	jsonData, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal deployment logs: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}
