package k8s

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// ClusterManager implementation

// GetClusterHealth returns the health status of the cluster.
func (c *kubernetesClient) GetClusterHealth(ctx context.Context, kubeContext string) (*ClusterHealth, error) {
	if err := c.isOperationAllowed("cluster-health"); err != nil {
		return nil, err
	}

	c.logOperation("get-cluster-health", kubeContext, "", "", "")

	clientset, err := c.getClientset(kubeContext)
	if err != nil {
		return nil, err
	}

	health := &ClusterHealth{
		Status:     "Unknown",
		Components: []ComponentHealth{},
		Nodes:      []NodeHealth{},
	}

	// Check cluster version/connectivity
	version, err := clientset.Discovery().ServerVersion()
	if err != nil {
		health.Status = "Unhealthy"
		health.Components = append(health.Components, ComponentHealth{
			Name:    "API Server",
			Status:  "Unhealthy",
			Message: fmt.Sprintf("Failed to get server version: %v", err),
		})
		return health, nil
	}

	// API Server is healthy if we can get version
	health.Components = append(health.Components, ComponentHealth{
		Name:    "API Server",
		Status:  "Healthy",
		Message: fmt.Sprintf("Version: %s", version.String()),
	})

	// Check component statuses (if available)
	componentStatuses, err := clientset.CoreV1().ComponentStatuses().List(ctx, metav1.ListOptions{})
	if err != nil {
		if c.config.Logger != nil {
			c.config.Logger.Warn("failed to get component statuses", "error", err)
		}
	} else {
		for _, component := range componentStatuses.Items {
			componentHealth := ComponentHealth{
				Name:   component.Name,
				Status: "Unknown",
			}

			for _, condition := range component.Conditions {
				if condition.Type == corev1.ComponentHealthy {
					if condition.Status == corev1.ConditionTrue {
						componentHealth.Status = "Healthy"
					} else {
						componentHealth.Status = "Unhealthy"
						componentHealth.Message = condition.Message
					}
					break
				}
			}

			health.Components = append(health.Components, componentHealth)
		}
	}

	// Check node health
	nodes, err := clientset.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		if c.config.Logger != nil {
			c.config.Logger.Warn("failed to get nodes", "error", err)
		}
	} else {
		for _, node := range nodes.Items {
			nodeHealth := NodeHealth{
				Name:       node.Name,
				Ready:      false,
				Conditions: node.Status.Conditions,
			}

			for _, condition := range node.Status.Conditions {
				if condition.Type == corev1.NodeReady {
					nodeHealth.Ready = condition.Status == corev1.ConditionTrue
					break
				}
			}

			health.Nodes = append(health.Nodes, nodeHealth)
		}
	}

	// Determine overall cluster health
	health.Status = calculateOverallHealth(health.Components, health.Nodes)

	return health, nil
}

// calculateOverallHealth determines the overall cluster health based on components and nodes.
func calculateOverallHealth(components []ComponentHealth, nodes []NodeHealth) string {
	// Check if any critical components are unhealthy
	criticalComponents := map[string]bool{
		"etcd":                    true,
		"kube-apiserver":          true,
		"kube-controller-manager": true,
		"kube-scheduler":          true,
	}

	for _, component := range components {
		if criticalComponents[component.Name] && component.Status == "Unhealthy" {
			return "Unhealthy"
		}
	}

	// Check if majority of nodes are ready
	if len(nodes) > 0 {
		readyNodes := 0
		for _, node := range nodes {
			if node.Ready {
				readyNodes++
			}
		}

		// If less than half the nodes are ready, cluster is degraded
		if readyNodes < len(nodes)/2 {
			return "Degraded"
		}
	}

	// Check if any components are unhealthy
	for _, component := range components {
		if component.Status == "Unhealthy" {
			return "Degraded"
		}
	}

	return "Healthy"
}
