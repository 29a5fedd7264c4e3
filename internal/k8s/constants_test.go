package k8s

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestServiceAccountPaths(t *testing.T) {
	assert.Equal(t, "/var/run/secrets/kubernetes.io/serviceaccount/token", DefaultTokenPath)
	assert.Equal(t, "/var/run/secrets/kubernetes.io/serviceaccount/ca.crt", DefaultCACertPath)
	assert.Equal(t, "/var/run/secrets/kubernetes.io/serviceaccount/namespace", DefaultNamespacePath)
}

func TestDestructiveOperations(t *testing.T) {
	// Restarts rewrite the pod template and must be guarded by
	// non-destructive mode alongside the other mutating verbs.
	assert.Contains(t, destructiveOperations, "restart")
	assert.Contains(t, destructiveOperations, "delete")
	assert.Contains(t, destructiveOperations, "patch")
	assert.Contains(t, destructiveOperations, "scale")

	assert.NotContains(t, destructiveOperations, "list")
	assert.NotContains(t, destructiveOperations, "logs")
	assert.NotContains(t, destructiveOperations, "cluster-health")
}

func TestRestartedAtAnnotation(t *testing.T) {
	// The annotation key must match what kubectl writes so restarts issued
	// here and via kubectl are indistinguishable to the controller.
	assert.Equal(t, "kubectl.kubernetes.io/restartedAt", RestartedAtAnnotation)
}
