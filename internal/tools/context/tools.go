package contexttools

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/opsgate/mcp-workloads/internal/instrumentation"
	"github.com/opsgate/mcp-workloads/internal/server"
	"github.com/opsgate/mcp-workloads/internal/tools"
)

// RegisterContextTools registers all kubeconfig context tools with the MCP server
func RegisterContextTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// workloads_list_contexts tool
	listContextsTool := mcp.NewTool("workloads_list_contexts",
		mcp.WithDescription("List all available Kubernetes contexts from the kubeconfig"),
	)

	s.AddTool(listContextsTool, tools.WrapWithTelemetry("workloads_list_contexts", instrumentation.OperationList, handleListContexts, sc))

	// workloads_current_context tool
	currentContextTool := mcp.NewTool("workloads_current_context",
		mcp.WithDescription("Get the currently active Kubernetes context"),
	)

	s.AddTool(currentContextTool, tools.WrapWithTelemetry("workloads_current_context", instrumentation.OperationList, handleGetCurrentContext, sc))

	// workloads_switch_context tool
	switchContextTool := mcp.NewTool("workloads_switch_context",
		mcp.WithDescription("Switch the active Kubernetes context"),
		mcp.WithString("contextName",
			mcp.Required(),
			mcp.Description("Name of the Kubernetes context to switch to"),
		),
	)

	s.AddTool(switchContextTool, tools.WrapWithTelemetry("workloads_switch_context", "switch-context", handleSwitchContext, sc))

	return nil
}
