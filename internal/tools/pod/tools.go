package pod

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/opsgate/mcp-workloads/internal/instrumentation"
	"github.com/opsgate/mcp-workloads/internal/server"
	"github.com/opsgate/mcp-workloads/internal/tools"
)

// RegisterPodTools registers all pod tools with the MCP server
func RegisterPodTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// workloads_list_pods tool
	listPodsOpts := []mcp.ToolOption{
		mcp.WithDescription("List pods in a namespace with status, IP, readiness, and restart counts"),
	}
	listPodsOpts = append(listPodsOpts, tools.AddKubeContextParam()...)
	listPodsOpts = append(listPodsOpts,
		mcp.WithString("namespace",
			mcp.Description("Namespace to list pods from (optional, uses the server default namespace)"),
		),
		mcp.WithBoolean("allNamespaces",
			mcp.Description("List pods across all namespaces (default: false)"),
		),
		mcp.WithString("labelSelector",
			mcp.Description("Label selector to filter pods (e.g., 'app=nginx') (optional)"),
		),
		mcp.WithNumber("maxItems",
			mcp.Description("Maximum number of pods to return (optional, default: 100)"),
		),
	)
	listPodsTool := mcp.NewTool("workloads_list_pods", listPodsOpts...)

	s.AddTool(listPodsTool, tools.WrapWithTelemetry("workloads_list_pods", instrumentation.OperationList, handleListPods, sc))

	return nil
}
