// Package k8s provides interfaces and types for Kubernetes workload operations.
//
// This package defines the core Client interface that abstracts the Kubernetes
// operations needed by the MCP tools. The interface is designed to support:
//
//   - Multi-cluster operations through context parameters
//   - Workload status reporting (pods, deployments)
//   - Deployment lifecycle actions (rolling restarts, aggregated logs)
//   - Cluster management (health checks)
//
// The interfaces are broken down into focused concerns:
//
//   - ContextManager: Kubernetes context operations
//   - PodManager: pod listing and log streaming
//   - DeploymentManager: deployment status, restarts, and log aggregation
//   - ClusterManager: cluster-level operations
//
// All operations support multi-cluster scenarios by accepting kubeContext
// parameters, enabling the MCP server to work with multiple Kubernetes
// clusters simultaneously.
//
// Example usage:
//
//	// List deployments with replica status and health
//	deployments, err := client.ListDeployments(ctx, "production", "default")
//	if err != nil {
//		return err
//	}
//
//	// Trigger a rolling restart
//	result, err := client.RestartDeployment(ctx, "production", "default", "frontend")
//	if err != nil {
//		return err
//	}
//
//	// Fetch the last hour of logs from every pod in a deployment
//	sinceSeconds := int64(3600)
//	logs, err := client.DeploymentLogs(ctx, "production", "default", "frontend",
//		DeploymentLogOptions{SinceSeconds: &sinceSeconds})
//	if err != nil {
//		return err
//	}
package k8s
