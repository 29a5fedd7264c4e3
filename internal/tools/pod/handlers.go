package pod

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/opsgate/mcp-workloads/internal/k8s"
	"github.com/opsgate/mcp-workloads/internal/server"
	"github.com/opsgate/mcp-workloads/internal/tools/output"
)

// ListPodsResponse is the JSON payload returned by workloads_list_pods.
type ListPodsResponse struct {
	Pods       []k8s.PodInfo             `json:"pods"`
	Count      int                       `json:"count"`
	Truncation *output.TruncationWarning `json:"truncation,omitempty"`
}

// handleListPods handles pod list operations
func handleListPods(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()

	kubeContext, _ := args["kubeContext"].(string)
	allNamespaces, _ := args["allNamespaces"].(bool)
	labelSelector, _ := args["labelSelector"].(string)

	namespace, _ := args["namespace"].(string)
	if namespace == "" && !allNamespaces {
		namespace = sc.Config().DefaultNamespace
	}

	maxItems := 0
	if maxItemsFloat, ok := args["maxItems"].(float64); ok {
		maxItems = int(maxItemsFloat)
	}

	opts := k8s.ListOptions{
		LabelSelector: labelSelector,
		AllNamespaces: allNamespaces,
	}

	pods, err := sc.K8sClient().ListPods(ctx, kubeContext, namespace, opts)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list pods: %v", err)), nil
	}

	limit := output.EffectiveLimit(maxItems, sc.Config().MaxItems)
	capped, warning := output.TruncateItems(pods, limit)

	response := ListPodsResponse{
		Pods:       capped,
		Count:      len(capped),
		Truncation: warning,
	}

	jsonData, err := json.MarshalIndent(response, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to marshal pods: %v", err)), nil
	}

	return mcp.NewToolResultText(string(jsonData)), nil
}
