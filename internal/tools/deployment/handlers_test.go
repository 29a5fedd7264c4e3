package deployment

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsgate/mcp-workloads/internal/k8s"
	"github.com/opsgate/mcp-workloads/internal/server"
)

// fakeClient stubs deployment operations for handler tests.
type fakeClient struct {
	k8s.Client

	deployments []k8s.DeploymentInfo
	listErr     error

	restartResult *k8s.RestartResult
	restartErr    error

	logsResult *k8s.DeploymentLogsResult
	logsErr    error

	gotKubeContext string
	gotNamespace   string
	gotName        string
	gotLogOpts     k8s.DeploymentLogOptions
}

func (f *fakeClient) ListDeployments(ctx context.Context, kubeContext, namespace string) ([]k8s.DeploymentInfo, error) {
	f.gotKubeContext = kubeContext
	f.gotNamespace = namespace
	return f.deployments, f.listErr
}

func (f *fakeClient) RestartDeployment(ctx context.Context, kubeContext, namespace, name string) (*k8s.RestartResult, error) {
	f.gotKubeContext = kubeContext
	f.gotNamespace = namespace
	f.gotName = name
	return f.restartResult, f.restartErr
}

func (f *fakeClient) DeploymentLogs(ctx context.Context, kubeContext, namespace, name string, opts k8s.DeploymentLogOptions) (*k8s.DeploymentLogsResult, error) {
	f.gotKubeContext = kubeContext
	f.gotNamespace = namespace
	f.gotName = name
	f.gotLogOpts = opts
	return f.logsResult, f.logsErr
}

type testLogger struct{}

func (l *testLogger) Info(msg string, args ...interface{})   {}
func (l *testLogger) Debug(msg string, args ...interface{})  {}
func (l *testLogger) Warn(msg string, args ...interface{})   {}
func (l *testLogger) Error(msg string, args ...interface{})  {}
func (l *testLogger) With(args ...interface{}) server.Logger { return l }

func newTestContext(t *testing.T, client k8s.Client, opts ...server.Option) *server.ServerContext {
	t.Helper()

	base := []server.Option{
		server.WithK8sClient(client),
		server.WithLogger(&testLogger{}),
	}
	sc, err := server.NewServerContext(context.Background(), append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func toolRequest(args map[string]interface{}) mcp.CallToolRequest {
	request := mcp.CallToolRequest{}
	request.Params.Arguments = args
	return request
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text
}

func TestHandleListDeployments(t *testing.T) {
	client := &fakeClient{
		deployments: []k8s.DeploymentInfo{
			{Name: "web", Namespace: "default", ReadyReplicas: 3, TotalReplicas: 3, AvailableReplicas: 3, IsHealthy: true},
			{Name: "worker", Namespace: "default", ReadyReplicas: 1, TotalReplicas: 2, IsHealthy: false},
		},
	}
	sc := newTestContext(t, client)

	result, err := handleListDeployments(context.Background(), toolRequest(map[string]interface{}{
		"namespace": "default",
	}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)

	var response ListDeploymentsResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))

	assert.Equal(t, 2, response.Count)
	assert.True(t, response.Deployments[0].IsHealthy)
	assert.False(t, response.Deployments[1].IsHealthy)
	assert.Nil(t, response.Truncation)
}

func TestHandleListDeployments_DefaultNamespace(t *testing.T) {
	client := &fakeClient{}
	sc := newTestContext(t, client)

	_, err := handleListDeployments(context.Background(), toolRequest(nil), sc)
	require.NoError(t, err)

	assert.Equal(t, sc.Config().DefaultNamespace, client.gotNamespace)
}

func TestHandleListDeployments_Truncation(t *testing.T) {
	deployments := make([]k8s.DeploymentInfo, 4)
	for i := range deployments {
		deployments[i] = k8s.DeploymentInfo{Name: "web", Namespace: "default"}
	}
	client := &fakeClient{deployments: deployments}
	sc := newTestContext(t, client)

	result, err := handleListDeployments(context.Background(), toolRequest(map[string]interface{}{
		"maxItems": float64(2),
	}), sc)
	require.NoError(t, err)

	var response ListDeploymentsResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))

	assert.Equal(t, 2, response.Count)
	require.NotNil(t, response.Truncation)
	assert.Equal(t, 4, response.Truncation.Total)
}

func TestHandleListDeployments_ListError(t *testing.T) {
	client := &fakeClient{listErr: errors.New("forbidden")}
	sc := newTestContext(t, client)

	result, err := handleListDeployments(context.Background(), toolRequest(nil), sc)
	require.NoError(t, err)

	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "Failed to list deployments")
}

func TestHandleRestartDeployment(t *testing.T) {
	client := &fakeClient{
		restartResult: &k8s.RestartResult{
			Success:    true,
			Message:    "deployment web restarted",
			Deployment: "web",
			Namespace:  "default",
		},
	}
	sc := newTestContext(t, client)

	result, err := handleRestartDeployment(context.Background(), toolRequest(map[string]interface{}{
		"deploymentName": "web",
	}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)

	assert.Equal(t, "web", client.gotName)
	assert.Equal(t, sc.Config().DefaultNamespace, client.gotNamespace)
	assert.Contains(t, resultText(t, result), "restarted")

	restarts, _, _ := sc.Metrics().GetMetrics()
	assert.Equal(t, int64(1), restarts)
}

func TestHandleRestartDeployment_RequiresName(t *testing.T) {
	sc := newTestContext(t, &fakeClient{})

	result, err := handleRestartDeployment(context.Background(), toolRequest(nil), sc)
	require.NoError(t, err)

	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "deploymentName is required")
}

func TestHandleRestartDeployment_BlockedWhenNotWhitelisted(t *testing.T) {
	client := &fakeClient{}
	sc := newTestContext(t, client,
		server.WithAllowedOperations([]string{"list", "logs"}),
		server.WithNonDestructiveMode(true),
	)

	result, err := handleRestartDeployment(context.Background(), toolRequest(map[string]interface{}{
		"deploymentName": "web",
	}), sc)
	require.NoError(t, err)

	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "non-destructive mode")
	assert.Empty(t, client.gotName, "restart should not reach the client when blocked")
}

func TestHandleRestartDeployment_RestartError(t *testing.T) {
	client := &fakeClient{restartErr: errors.New("deployment not found")}
	sc := newTestContext(t, client)

	result, err := handleRestartDeployment(context.Background(), toolRequest(map[string]interface{}{
		"deploymentName": "missing",
	}), sc)
	require.NoError(t, err)

	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "not found")

	restarts, _, _ := sc.Metrics().GetMetrics()
	assert.Zero(t, restarts, "failed restarts should not count")
}

func TestHandleRestartDeployment_UnsuccessfulResult(t *testing.T) {
	client := &fakeClient{
		restartResult: &k8s.RestartResult{
			Success:    false,
			Message:    `Deployment "missing" not found in namespace "default"`,
			Deployment: "missing",
			Namespace:  "default",
		},
	}
	sc := newTestContext(t, client)

	result, err := handleRestartDeployment(context.Background(), toolRequest(map[string]interface{}{
		"deploymentName": "missing",
	}), sc)
	require.NoError(t, err)

	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "not found")

	restarts, _, _ := sc.Metrics().GetMetrics()
	assert.Zero(t, restarts, "unsuccessful restarts should not count")
}

func TestHandleDeploymentLogs(t *testing.T) {
	client := &fakeClient{
		logsResult: &k8s.DeploymentLogsResult{
			Success:    true,
			Deployment: "web",
			Namespace:  "default",
			Logs: map[string]string{
				"web-abc": "log line 1\nlog line 2\n",
				"web-def": "Error fetching logs: container restarting",
			},
		},
	}
	sc := newTestContext(t, client)

	result, err := handleDeploymentLogs(context.Background(), toolRequest(map[string]interface{}{
		"deploymentName": "web",
	}), sc)
	require.NoError(t, err)
	require.False(t, result.IsError)

	var response DeploymentLogsResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))

	assert.Equal(t, "web", response.Deployment)
	assert.Len(t, response.Logs, 2)
	assert.Contains(t, response.Logs["web-abc"], "log line 1")
	assert.Empty(t, response.TruncatedPods)

	// Default window is one hour.
	require.NotNil(t, client.gotLogOpts.SinceSeconds)
	assert.Equal(t, int64(3600), *client.gotLogOpts.SinceSeconds)
}

func TestHandleDeploymentLogs_CustomWindowAndTail(t *testing.T) {
	client := &fakeClient{
		logsResult: &k8s.DeploymentLogsResult{Success: true, Deployment: "web", Namespace: "default", Logs: map[string]string{}},
	}
	sc := newTestContext(t, client)

	_, err := handleDeploymentLogs(context.Background(), toolRequest(map[string]interface{}{
		"deploymentName": "web",
		"hours":          float64(6),
		"tailLines":      float64(200),
	}), sc)
	require.NoError(t, err)

	require.NotNil(t, client.gotLogOpts.SinceSeconds)
	assert.Equal(t, int64(6*3600), *client.gotLogOpts.SinceSeconds)
	require.NotNil(t, client.gotLogOpts.TailLines)
	assert.Equal(t, int64(200), *client.gotLogOpts.TailLines)
}

func TestHandleDeploymentLogs_TruncatesPerPod(t *testing.T) {
	bigLogs := strings.Repeat("very long log line with padding\n", 1000)
	client := &fakeClient{
		logsResult: &k8s.DeploymentLogsResult{
			Success:    true,
			Deployment: "web",
			Namespace:  "default",
			Logs: map[string]string{
				"web-abc": bigLogs,
				"web-def": "short\n",
			},
		},
	}
	sc := newTestContext(t, client)

	result, err := handleDeploymentLogs(context.Background(), toolRequest(map[string]interface{}{
		"deploymentName": "web",
		"maxBytesPerPod": float64(1024),
	}), sc)
	require.NoError(t, err)

	var response DeploymentLogsResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &response))

	assert.Equal(t, []string{"web-abc"}, response.TruncatedPods)
	assert.Contains(t, response.Logs["web-abc"], "[log output truncated:")
	assert.Equal(t, "short\n", response.Logs["web-def"])
}

func TestHandleDeploymentLogs_FetchError(t *testing.T) {
	client := &fakeClient{logsErr: errors.New("no pods found for deployment web")}
	sc := newTestContext(t, client)

	result, err := handleDeploymentLogs(context.Background(), toolRequest(map[string]interface{}{
		"deploymentName": "web",
	}), sc)
	require.NoError(t, err)

	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "no pods found")

	_, logFailures, _ := sc.Metrics().GetMetrics()
	assert.Equal(t, int64(1), logFailures)
}

func TestHandleDeploymentLogs_UnsuccessfulResult(t *testing.T) {
	client := &fakeClient{
		logsResult: &k8s.DeploymentLogsResult{
			Success:    false,
			Message:    `No pods found for deployment "web" in namespace "default"`,
			Logs:       map[string]string{},
			Deployment: "web",
			Namespace:  "default",
		},
	}
	sc := newTestContext(t, client)

	result, err := handleDeploymentLogs(context.Background(), toolRequest(map[string]interface{}{
		"deploymentName": "web",
	}), sc)
	require.NoError(t, err)

	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "No pods found")

	_, logFailures, _ := sc.Metrics().GetMetrics()
	assert.Equal(t, int64(1), logFailures)
}

func TestHandleDeploymentLogs_RequiresName(t *testing.T) {
	sc := newTestContext(t, &fakeClient{})

	result, err := handleDeploymentLogs(context.Background(), toolRequest(nil), sc)
	require.NoError(t, err)

	assert.True(t, result.IsError)
	assert.Contains(t, resultText(t, result), "deploymentName is required")
}
