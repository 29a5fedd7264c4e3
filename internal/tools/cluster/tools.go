package cluster

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/opsgate/mcp-workloads/internal/instrumentation"
	"github.com/opsgate/mcp-workloads/internal/server"
	"github.com/opsgate/mcp-workloads/internal/tools"
)

// RegisterClusterTools registers all cluster tools with the MCP server
func RegisterClusterTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// workloads_cluster_health tool
	healthOpts := []mcp.ToolOption{
		mcp.WithDescription("Check the health status of cluster nodes and components"),
	}
	healthOpts = append(healthOpts, tools.AddKubeContextParam()...)
	healthTool := mcp.NewTool("workloads_cluster_health", healthOpts...)

	s.AddTool(healthTool, tools.WrapWithTelemetry("workloads_cluster_health", instrumentation.OperationHealth, handleGetClusterHealth, sc))

	return nil
}
