package deployment

import (
	"testing"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterDeploymentTools(t *testing.T) {
	sc := newTestContext(t, &fakeClient{})

	mcpSrv := mcpserver.NewMCPServer("test", "0.0.1",
		mcpserver.WithToolCapabilities(true),
	)

	err := RegisterDeploymentTools(mcpSrv, sc)
	require.NoError(t, err)

	tools := mcpSrv.ListTools()
	assert.Contains(t, tools, "workloads_list_deployments")
	assert.Contains(t, tools, "workloads_restart_deployment")
	assert.Contains(t, tools, "workloads_deployment_logs")
}
