package contexttools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/opsgate/mcp-workloads/internal/k8s"
	"github.com/opsgate/mcp-workloads/internal/server"
	"github.com/opsgate/mcp-workloads/internal/tools"
)

// ListContextsResponse is the JSON envelope returned by workloads_list_contexts.
type ListContextsResponse struct {
	Contexts []k8s.ContextInfo `json:"contexts"`
	Count    int               `json:"count"`
}

// handleListContexts lists all contexts defined in the kubeconfig.
func handleListContexts(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	contexts, err := sc.K8sClient().ListContexts(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list contexts: %v", err)), nil
	}

	response := ListContextsResponse{
		Contexts: contexts,
		Count:    len(contexts),
	}

	data, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal contexts: %v", err)), nil
	}

	return mcp.NewToolResultText(string(data)), nil
}

// handleGetCurrentContext returns the currently active kubeconfig context.
func handleGetCurrentContext(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	current, err := sc.K8sClient().GetCurrentContext(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get current context: %v", err)), nil
	}

	data, err := json.MarshalIndent(current, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal context: %v", err)), nil
	}

	return mcp.NewToolResultText(string(data)), nil
}

// handleSwitchContext switches the active kubeconfig context. This is a
// mutating operation and is gated by the server's safety settings.
func handleSwitchContext(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	if result := tools.CheckMutatingOperation(sc, "switch-context"); result != nil {
		return result, nil
	}

	args := request.GetArguments()

	contextName, ok := args["contextName"].(string)
	if !ok || contextName == "" {
		return mcp.NewToolResultError("contextName parameter is required"), nil
	}

	if sc.Config().DryRun {
		return mcp.NewToolResultText(fmt.Sprintf("Dry run: would switch to context: %s", contextName)), nil
	}

	if err := sc.K8sClient().SwitchContext(ctx, contextName); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to switch context: %v", err)), nil
	}

	sc.Logger().Info("switched kube context", "context", contextName)

	return mcp.NewToolResultText(fmt.Sprintf("Successfully switched to context: %s", contextName)), nil
}
