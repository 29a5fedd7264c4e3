package k8s

import (
	"context"
	"io"

	corev1 "k8s.io/api/core/v1"
)

// Client defines the interface for Kubernetes workload operations.
// It supports multi-cluster operations by accepting kubecontext parameters
// and provides the functionality needed by all MCP tools.
type Client interface {
	// Context Management Operations
	ContextManager

	// Pod Operations
	PodManager

	// Deployment Operations
	DeploymentManager

	// Cluster Operations
	ClusterManager
}

// ContextManager handles Kubernetes context operations.
type ContextManager interface {
	// ListContexts returns all available Kubernetes contexts.
	ListContexts(ctx context.Context) ([]ContextInfo, error)

	// GetCurrentContext returns the currently active context.
	GetCurrentContext(ctx context.Context) (*ContextInfo, error)

	// SwitchContext changes the active Kubernetes context.
	SwitchContext(ctx context.Context, contextName string) error
}

// PodManager handles pod-level operations.
type PodManager interface {
	// ListPods returns status information for pods in a namespace.
	ListPods(ctx context.Context, kubeContext, namespace string, opts ListOptions) ([]PodInfo, error)

	// GetLogs retrieves logs from a pod container.
	GetLogs(ctx context.Context, kubeContext, namespace, podName, containerName string, opts LogOptions) (io.ReadCloser, error)
}

// DeploymentManager handles deployment-level operations.
type DeploymentManager interface {
	// ListDeployments returns status information for deployments in a namespace.
	ListDeployments(ctx context.Context, kubeContext, namespace string) ([]DeploymentInfo, error)

	// RestartDeployment triggers a rolling restart of a deployment, the
	// equivalent of "kubectl rollout restart deployment/<name>".
	RestartDeployment(ctx context.Context, kubeContext, namespace, name string) (*RestartResult, error)

	// DeploymentLogs fetches logs from every pod belonging to a deployment.
	DeploymentLogs(ctx context.Context, kubeContext, namespace, name string, opts DeploymentLogOptions) (*DeploymentLogsResult, error)
}

// ClusterManager handles cluster-level operations.
type ClusterManager interface {
	// GetClusterHealth returns the health status of the cluster.
	GetClusterHealth(ctx context.Context, kubeContext string) (*ClusterHealth, error)
}

// ContextInfo represents information about a Kubernetes context.
type ContextInfo struct {
	Name      string `json:"name"`
	Cluster   string `json:"cluster"`
	User      string `json:"user"`
	Namespace string `json:"namespace"`
	Current   bool   `json:"current"`
}

// ListOptions provides configuration for list operations.
type ListOptions struct {
	LabelSelector string `json:"labelSelector,omitempty"`
	FieldSelector string `json:"fieldSelector,omitempty"`
	AllNamespaces bool   `json:"allNamespaces,omitempty"`
}

// PodInfo contains status information for a single pod.
type PodInfo struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace"`
	Status    string `json:"status"`
	IP        string `json:"ip,omitempty"`
	Ready     string `json:"ready"`
	Restarts  int32  `json:"restarts"`
	Node      string `json:"node,omitempty"`
}

// DeploymentInfo contains status information for a single deployment.
type DeploymentInfo struct {
	Name              string   `json:"name"`
	Namespace         string   `json:"namespace"`
	ReadyReplicas     int32    `json:"readyReplicas"`
	TotalReplicas     int32    `json:"totalReplicas"`
	AvailableReplicas int32    `json:"availableReplicas"`
	UpToDateReplicas  int32    `json:"upToDateReplicas"`
	Images            []string `json:"images"`
	AgeMinutes        float64  `json:"ageMinutes"`
	IsHealthy         bool     `json:"isHealthy"`
}

// RestartResult describes the outcome of a deployment restart request.
type RestartResult struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Deployment string `json:"deployment"`
	Namespace  string `json:"namespace"`
	RestartedAt string `json:"restartedAt,omitempty"`
}

// DeploymentLogOptions configures log retrieval for a whole deployment.
type DeploymentLogOptions struct {
	// SinceSeconds limits logs to the given window before now.
	SinceSeconds *int64 `json:"sinceSeconds,omitempty"`

	// TailLines limits the output to the last N lines per pod.
	TailLines *int64 `json:"tailLines,omitempty"`
}

// DeploymentLogsResult maps pod names to their logs. Pods whose logs could
// not be fetched carry an error description instead of log content.
type DeploymentLogsResult struct {
	Success    bool              `json:"success"`
	Message    string            `json:"message"`
	Logs       map[string]string `json:"logs"`
	Deployment string            `json:"deployment"`
	Namespace  string            `json:"namespace"`
}

// LogOptions configures log retrieval for a single pod.
type LogOptions struct {
	Previous     bool   `json:"previous,omitempty"`
	Timestamps   bool   `json:"timestamps,omitempty"`
	SinceSeconds *int64 `json:"sinceSeconds,omitempty"`
	TailLines    *int64 `json:"tailLines,omitempty"`
}

// ClusterHealth represents the health status of a Kubernetes cluster.
type ClusterHealth struct {
	Status     string            `json:"status"`
	Components []ComponentHealth `json:"components"`
	Nodes      []NodeHealth      `json:"nodes"`
}

// ComponentHealth represents the health of a cluster component.
type ComponentHealth struct {
	Name    string `json:"name"`
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NodeHealth represents the health of a cluster node.
type NodeHealth struct {
	Name       string                 `json:"name"`
	Ready      bool                   `json:"ready"`
	Conditions []corev1.NodeCondition `json:"conditions"`
}
