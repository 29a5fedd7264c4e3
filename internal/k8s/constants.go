package k8s

const (
	// Service account paths - default Kubernetes in-cluster locations
	DefaultServiceAccountPath = "/var/run/secrets/kubernetes.io/serviceaccount"
	DefaultTokenPath          = DefaultServiceAccountPath + "/token"
	DefaultCACertPath         = DefaultServiceAccountPath + "/ca.crt"
	DefaultNamespacePath      = DefaultServiceAccountPath + "/namespace"

	// Default performance settings
	DefaultQPSLimit   = 20.0
	DefaultBurstLimit = 30
	DefaultTimeout    = 30 // seconds

	// In-cluster context name
	InClusterContext = "in-cluster"

	// RestartedAtAnnotation is the pod template annotation kubectl sets to
	// trigger a rolling restart. Writing a fresh timestamp changes the pod
	// template hash and makes the deployment controller roll all pods.
	RestartedAtAnnotation = "kubectl.kubernetes.io/restartedAt"
)

// destructiveOperations are blocked when non-destructive mode is enabled,
// unless dry-run is enabled or the operation is explicitly whitelisted.
var destructiveOperations = []string{"restart", "delete", "patch", "scale"}
