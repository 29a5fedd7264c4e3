package deployment

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/opsgate/mcp-workloads/internal/instrumentation"
	"github.com/opsgate/mcp-workloads/internal/server"
	"github.com/opsgate/mcp-workloads/internal/tools"
)

// RegisterDeploymentTools registers all deployment tools with the MCP server
func RegisterDeploymentTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// workloads_list_deployments tool
	listOpts := []mcp.ToolOption{
		mcp.WithDescription("List deployments in a namespace with replica counts, images, age, and health"),
	}
	listOpts = append(listOpts, tools.AddKubeContextParam()...)
	listOpts = append(listOpts,
		mcp.WithString("namespace",
			mcp.Description("Namespace to list deployments from (optional, uses the server default namespace)"),
		),
		mcp.WithNumber("maxItems",
			mcp.Description("Maximum number of deployments to return (optional, default: 100)"),
		),
	)
	listTool := mcp.NewTool("workloads_list_deployments", listOpts...)

	s.AddTool(listTool, tools.WrapWithTelemetry("workloads_list_deployments", instrumentation.OperationList, handleListDeployments, sc))

	// workloads_restart_deployment tool
	restartOpts := []mcp.ToolOption{
		mcp.WithDescription("Trigger a rolling restart of a deployment (kubectl rollout restart)"),
	}
	restartOpts = append(restartOpts, tools.AddKubeContextParam()...)
	restartOpts = append(restartOpts,
		mcp.WithString("namespace",
			mcp.Description("Namespace of the deployment (optional, uses the server default namespace)"),
		),
		mcp.WithString("deploymentName",
			mcp.Required(),
			mcp.Description("Name of the deployment to restart"),
		),
	)
	restartTool := mcp.NewTool("workloads_restart_deployment", restartOpts...)

	s.AddTool(restartTool, tools.WrapWithTelemetry("workloads_restart_deployment", instrumentation.OperationRestart, handleRestartDeployment, sc))

	// workloads_deployment_logs tool
	logsOpts := []mcp.ToolOption{
		mcp.WithDescription("Fetch recent logs from every pod of a deployment, keyed by pod name"),
	}
	logsOpts = append(logsOpts, tools.AddKubeContextParam()...)
	logsOpts = append(logsOpts,
		mcp.WithString("namespace",
			mcp.Description("Namespace of the deployment (optional, uses the server default namespace)"),
		),
		mcp.WithString("deploymentName",
			mcp.Required(),
			mcp.Description("Name of the deployment to fetch logs from"),
		),
		mcp.WithNumber("hours",
			mcp.Description("How far back to fetch logs, in hours (optional, default: 1)"),
		),
		mcp.WithNumber("tailLines",
			mcp.Description("Number of lines from the end of each pod's logs (optional)"),
		),
		mcp.WithNumber("maxBytesPerPod",
			mcp.Description("Per-pod byte budget for log output (optional, default: 64KB)"),
		),
	)
	logsTool := mcp.NewTool("workloads_deployment_logs", logsOpts...)

	s.AddTool(logsTool, tools.WrapWithTelemetry("workloads_deployment_logs", instrumentation.OperationLogs, handleDeploymentLogs, sc))

	return nil
}
