package k8s

import (
	"context"
	"fmt"
	"io"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// PodManager implementation

// ListPods returns status information for pods in a namespace. With
// opts.AllNamespaces set, pods from every namespace are returned and the
// namespace argument is ignored.
func (c *kubernetesClient) ListPods(ctx context.Context, kubeContext, namespace string, opts ListOptions) ([]PodInfo, error) {
	if err := c.isOperationAllowed("list"); err != nil {
		return nil, err
	}

	if !opts.AllNamespaces {
		if err := c.isNamespaceRestricted(namespace); err != nil {
			return nil, err
		}
	}

	c.logOperation("list-pods", kubeContext, namespace, "pod", "")

	clientset, err := c.getClientset(kubeContext)
	if err != nil {
		return nil, err
	}

	listNamespace := namespace
	if opts.AllNamespaces {
		listNamespace = metav1.NamespaceAll
	}

	podList, err := clientset.CoreV1().Pods(listNamespace).List(ctx, metav1.ListOptions{
		LabelSelector: opts.LabelSelector,
		FieldSelector: opts.FieldSelector,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list pods in namespace %q: %w", listNamespace, err)
	}

	pods := make([]PodInfo, 0, len(podList.Items))
	for _, pod := range podList.Items {
		pods = append(pods, podStatusInfo(&pod))
	}

	return pods, nil
}

// podStatusInfo extracts the per-pod status fields reported by list operations.
func podStatusInfo(pod *corev1.Pod) PodInfo {
	var ready int
	var restarts int32
	for _, cs := range pod.Status.ContainerStatuses {
		if cs.Ready {
			ready++
		}
		restarts += cs.RestartCount
	}

	return PodInfo{
		Name:      pod.Name,
		Namespace: pod.Namespace,
		Status:    string(pod.Status.Phase),
		IP:        pod.Status.PodIP,
		Ready:     fmt.Sprintf("%d/%d", ready, len(pod.Spec.Containers)),
		Restarts:  restarts,
		Node:      pod.Spec.NodeName,
	}
}

// GetLogs retrieves logs from a pod container.
func (c *kubernetesClient) GetLogs(ctx context.Context, kubeContext, namespace, podName, containerName string, opts LogOptions) (io.ReadCloser, error) {
	if err := c.isOperationAllowed("logs"); err != nil {
		return nil, err
	}

	if err := c.isNamespaceRestricted(namespace); err != nil {
		return nil, err
	}

	c.logOperation("get-logs", kubeContext, namespace, "pod", podName)

	clientset, err := c.getClientset(kubeContext)
	if err != nil {
		return nil, err
	}

	logOpts := &corev1.PodLogOptions{
		Container:  containerName,
		Previous:   opts.Previous,
		Timestamps: opts.Timestamps,
	}

	if opts.SinceSeconds != nil {
		logOpts.SinceSeconds = opts.SinceSeconds
	}

	if opts.TailLines != nil {
		logOpts.TailLines = opts.TailLines
	}

	req := clientset.CoreV1().Pods(namespace).GetLogs(podName, logOpts)

	logs, err := req.Stream(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get logs for pod %s/%s: %w", namespace, podName, err)
	}

	return logs, nil
}
