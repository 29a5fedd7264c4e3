package k8s

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	appsv1 "k8s.io/api/apps/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
)

// maxConcurrentLogFetches bounds the parallel per-pod log requests issued
// for a single deployment so large deployments do not exhaust the API
// server rate limit.
const maxConcurrentLogFetches = 4

// DeploymentManager implementation

// ListDeployments returns status information for deployments in a namespace.
func (c *kubernetesClient) ListDeployments(ctx context.Context, kubeContext, namespace string) ([]DeploymentInfo, error) {
	if err := c.isOperationAllowed("list"); err != nil {
		return nil, err
	}

	if err := c.isNamespaceRestricted(namespace); err != nil {
		return nil, err
	}

	c.logOperation("list-deployments", kubeContext, namespace, "deployment", "")

	clientset, err := c.getClientset(kubeContext)
	if err != nil {
		return nil, err
	}

	deploymentList, err := clientset.AppsV1().Deployments(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list deployments in namespace %q: %w", namespace, err)
	}

	deployments := make([]DeploymentInfo, 0, len(deploymentList.Items))
	for _, deployment := range deploymentList.Items {
		deployments = append(deployments, deploymentStatusInfo(&deployment, time.Now()))
	}

	return deployments, nil
}

// deploymentStatusInfo extracts the status fields reported for a deployment.
func deploymentStatusInfo(deployment *appsv1.Deployment, now time.Time) DeploymentInfo {
	var images []string
	for _, container := range deployment.Spec.Template.Spec.Containers {
		images = append(images, container.Image)
	}

	// Age in minutes, rounded to one decimal for readability.
	var ageMinutes float64
	if !deployment.CreationTimestamp.IsZero() {
		ageMinutes = now.Sub(deployment.CreationTimestamp.Time).Minutes()
		ageMinutes = math.Round(ageMinutes*10) / 10
	}

	var totalReplicas int32
	if deployment.Spec.Replicas != nil {
		totalReplicas = *deployment.Spec.Replicas
	}

	ready := deployment.Status.ReadyReplicas
	available := deployment.Status.AvailableReplicas

	// A deployment is healthy when every desired replica is both ready
	// and available.
	isHealthy := ready == totalReplicas && available == totalReplicas

	return DeploymentInfo{
		Name:              deployment.Name,
		Namespace:         deployment.Namespace,
		ReadyReplicas:     ready,
		TotalReplicas:     totalReplicas,
		AvailableReplicas: available,
		UpToDateReplicas:  deployment.Status.UpdatedReplicas,
		Images:            images,
		AgeMinutes:        ageMinutes,
		IsHealthy:         isHealthy,
	}
}

// restartPatch is the strategic merge patch that stamps the kubectl restart
// annotation onto the pod template.
type restartPatch struct {
	Spec struct {
		Template struct {
			Metadata struct {
				Annotations map[string]string `json:"annotations"`
			} `json:"metadata"`
		} `json:"template"`
	} `json:"spec"`
}

// RestartDeployment triggers a rolling restart by patching the pod template
// with a fresh restartedAt annotation, the same mechanism kubectl uses for
// "rollout restart".
func (c *kubernetesClient) RestartDeployment(ctx context.Context, kubeContext, namespace, name string) (*RestartResult, error) {
	if err := c.isOperationAllowed("restart"); err != nil {
		return nil, err
	}

	if err := c.isNamespaceRestricted(namespace); err != nil {
		return nil, err
	}

	c.logOperation("restart-deployment", kubeContext, namespace, "deployment", name)

	clientset, err := c.getClientset(kubeContext)
	if err != nil {
		return nil, err
	}

	// Verify the deployment exists before patching so the caller gets a
	// clear not-found message rather than a patch failure.
	if _, err := clientset.AppsV1().Deployments(namespace).Get(ctx, name, metav1.GetOptions{}); err != nil {
		if apierrors.IsNotFound(err) {
			return &RestartResult{
				Success:    false,
				Message:    fmt.Sprintf("Deployment %q not found in namespace %q", name, namespace),
				Deployment: name,
				Namespace:  namespace,
			}, nil
		}
		return nil, fmt.Errorf("failed to get deployment %s/%s: %w", namespace, name, err)
	}

	restartedAt := time.Now().UTC().Format(time.RFC3339)

	var patch restartPatch
	patch.Spec.Template.Metadata.Annotations = map[string]string{
		RestartedAtAnnotation: restartedAt,
	}

	patchBytes, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal restart patch: %w", err)
	}

	patchOpts := metav1.PatchOptions{}
	if c.dryRun {
		patchOpts.DryRun = []string{metav1.DryRunAll}
	}

	if _, err := clientset.AppsV1().Deployments(namespace).Patch(ctx, name, types.StrategicMergePatchType, patchBytes, patchOpts); err != nil {
		return &RestartResult{
			Success:    false,
			Message:    fmt.Sprintf("Failed to restart deployment %q: %v", name, err),
			Deployment: name,
			Namespace:  namespace,
		}, nil
	}

	return &RestartResult{
		Success:     true,
		Message:     fmt.Sprintf("Deployment %q in namespace %q rollout restart initiated", name, namespace),
		Deployment:  name,
		Namespace:   namespace,
		RestartedAt: restartedAt,
	}, nil
}

// DeploymentLogs fetches logs from every pod belonging to a deployment.
// Pods are discovered via the deployment's label selector, and log fetches
// run concurrently. A failure to read one pod's logs does not fail the
// whole operation; the error text is recorded in that pod's slot instead.
func (c *kubernetesClient) DeploymentLogs(ctx context.Context, kubeContext, namespace, name string, opts DeploymentLogOptions) (*DeploymentLogsResult, error) {
	if err := c.isOperationAllowed("logs"); err != nil {
		return nil, err
	}

	if err := c.isNamespaceRestricted(namespace); err != nil {
		return nil, err
	}

	c.logOperation("deployment-logs", kubeContext, namespace, "deployment", name)

	clientset, err := c.getClientset(kubeContext)
	if err != nil {
		return nil, err
	}

	deployment, err := clientset.AppsV1().Deployments(namespace).Get(ctx, name, metav1.GetOptions{})
	if err != nil {
		if apierrors.IsNotFound(err) {
			return &DeploymentLogsResult{
				Success:    false,
				Message:    fmt.Sprintf("Deployment %q not found in namespace %q", name, namespace),
				Logs:       map[string]string{},
				Deployment: name,
				Namespace:  namespace,
			}, nil
		}
		return nil, fmt.Errorf("failed to get deployment %s/%s: %w", namespace, name, err)
	}

	// Resolve the deployment's pods via its selector labels.
	labelSelector := metav1.FormatLabelSelector(&metav1.LabelSelector{
		MatchLabels: deployment.Spec.Selector.MatchLabels,
	})

	pods, err := clientset.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{
		LabelSelector: labelSelector,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list pods for deployment %s/%s: %w", namespace, name, err)
	}

	if len(pods.Items) == 0 {
		return &DeploymentLogsResult{
			Success:    false,
			Message:    fmt.Sprintf("No pods found for deployment %q in namespace %q", name, namespace),
			Logs:       map[string]string{},
			Deployment: name,
			Namespace:  namespace,
		}, nil
	}

	logOpts := LogOptions{
		SinceSeconds: opts.SinceSeconds,
		TailLines:    opts.TailLines,
	}

	var (
		mu   sync.Mutex
		logs = make(map[string]string, len(pods.Items))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLogFetches)

	for _, pod := range pods.Items {
		podName := pod.Name
		g.Go(func() error {
			content, err := c.readPodLogs(gctx, kubeContext, namespace, podName, logOpts)
			if err != nil {
				// Isolate per-pod failures so one broken pod does not
				// hide logs from the rest of the deployment.
				content = fmt.Sprintf("Error retrieving logs: %v", err)
			}

			mu.Lock()
			logs[podName] = content
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &DeploymentLogsResult{
		Success:    true,
		Message:    fmt.Sprintf("Retrieved logs for %d pods in deployment %q", len(logs), name),
		Logs:       logs,
		Deployment: name,
		Namespace:  namespace,
	}, nil
}

// readPodLogs reads a pod's log stream fully into a string.
func (c *kubernetesClient) readPodLogs(ctx context.Context, kubeContext, namespace, podName string, opts LogOptions) (string, error) {
	stream, err := c.GetLogs(ctx, kubeContext, namespace, podName, "", opts)
	if err != nil {
		return "", err
	}
	defer stream.Close()

	data, err := io.ReadAll(stream)
	if err != nil {
		return "", fmt.Errorf("failed to read log stream for pod %s/%s: %w", namespace, podName, err)
	}

	return string(data), nil
}
