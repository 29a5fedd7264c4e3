package k8s

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
	clientcmdapi "k8s.io/client-go/tools/clientcmd/api"
)

// kubernetesClient implements the Client interface using client-go.
type kubernetesClient struct {
	// Configuration
	config *ClientConfig

	// Client cache for multi-cluster support
	mu          sync.RWMutex
	clientsets  map[string]kubernetes.Interface // Context name -> clientset
	restConfigs map[string]*rest.Config         // Context name -> rest config

	// Kubeconfig management
	kubeconfigData *clientcmdapi.Config
	currentContext string

	// Safety settings
	nonDestructiveMode   bool
	dryRun               bool
	allowedOperations    []string
	restrictedNamespaces []string

	// Performance settings
	qpsLimit   float32
	burstLimit int
	timeout    time.Duration
}

// ClientConfig holds configuration for the Kubernetes client.
type ClientConfig struct {
	// Kubeconfig settings
	KubeconfigPath string
	Context        string

	// Authentication mode
	InCluster bool // Use in-cluster service account authentication instead of kubeconfig

	// Safety settings
	NonDestructiveMode   bool
	DryRun               bool
	AllowedOperations    []string
	RestrictedNamespaces []string

	// Performance settings
	QPSLimit   float32
	BurstLimit int
	Timeout    time.Duration

	// Logging
	Logger Logger
}

// Logger is the minimal logging interface the client depends on.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// NewClient creates a new Kubernetes client with the given configuration.
func NewClient(config *ClientConfig) (*kubernetesClient, error) {
	if config == nil {
		return nil, fmt.Errorf("client configuration is required")
	}

	// Set defaults
	if config.QPSLimit == 0 {
		config.QPSLimit = DefaultQPSLimit
	}
	if config.BurstLimit == 0 {
		config.BurstLimit = DefaultBurstLimit
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultTimeout * time.Second
	}

	client := &kubernetesClient{
		config:               config,
		clientsets:           make(map[string]kubernetes.Interface),
		restConfigs:          make(map[string]*rest.Config),
		nonDestructiveMode:   config.NonDestructiveMode,
		dryRun:               config.DryRun,
		allowedOperations:    config.AllowedOperations,
		restrictedNamespaces: config.RestrictedNamespaces,
		qpsLimit:             config.QPSLimit,
		burstLimit:           config.BurstLimit,
		timeout:              config.Timeout,
	}

	if config.InCluster {
		// In-cluster mode: use service account authentication
		client.currentContext = InClusterContext

		if err := client.validateInClusterEnvironment(); err != nil {
			return nil, fmt.Errorf("in-cluster authentication not available: %w", err)
		}

		if config.Logger != nil {
			config.Logger.Info("Using in-cluster authentication")
		}
	} else {
		// Kubeconfig mode: load kubeconfig
		if err := client.loadKubeconfig(); err != nil {
			return nil, fmt.Errorf("failed to load kubeconfig: %w", err)
		}

		// Set current context
		if config.Context != "" {
			client.currentContext = config.Context
		} else {
			client.currentContext = client.kubeconfigData.CurrentContext
		}

		// Validate current context exists
		if _, exists := client.kubeconfigData.Contexts[client.currentContext]; !exists && client.currentContext != "" {
			return nil, fmt.Errorf("context %q does not exist in kubeconfig", client.currentContext)
		}

		if config.Logger != nil {
			config.Logger.Info("Using kubeconfig authentication", "context", client.currentContext)
		}
	}

	return client, nil
}

// validateInClusterEnvironment checks if the required in-cluster authentication files are present.
func (c *kubernetesClient) validateInClusterEnvironment() error {
	if _, err := os.Stat(DefaultTokenPath); os.IsNotExist(err) {
		return fmt.Errorf("service account token not found at %s", DefaultTokenPath)
	}

	if _, err := os.Stat(DefaultCACertPath); os.IsNotExist(err) {
		return fmt.Errorf("service account CA certificate not found at %s", DefaultCACertPath)
	}

	if _, err := os.Stat(DefaultNamespacePath); os.IsNotExist(err) {
		return fmt.Errorf("service account namespace not found at %s", DefaultNamespacePath)
	}

	return nil
}

// loadKubeconfig loads the kubeconfig from the specified path or default locations.
func (c *kubernetesClient) loadKubeconfig() error {
	{
		kconf := os.Getenv("KUBECONFIG")
		if strings.HasPrefix(kconf, "~/") {
			uhd, _ := os.UserHomeDir()
			kconf = filepath.Join(uhd, kconf[2:])
		}

		if kconf != "" && c.config.KubeconfigPath == "" {
			c.config.KubeconfigPath = kconf
		}
	}

	loadingRules := clientcmd.NewDefaultClientConfigLoadingRules()
	if c.config.KubeconfigPath != "" {
		loadingRules.ExplicitPath = c.config.KubeconfigPath
	}

	config := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(
		loadingRules,
		&clientcmd.ConfigOverrides{},
	)

	rawConfig, err := config.RawConfig()
	if err != nil {
		return fmt.Errorf("failed to load kubeconfig: %w", err)
	}
	c.kubeconfigData = &rawConfig

	return nil
}

// getRestConfig returns a rest.Config for the specified context.
func (c *kubernetesClient) getRestConfig(contextName string) (*rest.Config, error) {
	// Use current context if none specified
	if contextName == "" {
		contextName = c.currentContext
	}

	c.mu.RLock()
	if restConfig, exists := c.restConfigs[contextName]; exists {
		c.mu.RUnlock()
		return restConfig, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	return c.getRestConfigLocked(contextName)
}

// getRestConfigLocked returns a rest.Config for the specified context.
// Caller must hold the write lock.
func (c *kubernetesClient) getRestConfigLocked(contextName string) (*rest.Config, error) {
	if contextName == "" {
		contextName = c.currentContext
	}

	// Double-check the cache under the write lock
	if restConfig, exists := c.restConfigs[contextName]; exists {
		return restConfig, nil
	}

	var restConfig *rest.Config
	var err error

	if c.config.InCluster {
		restConfig, err = rest.InClusterConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to create in-cluster rest config: %w", err)
		}
	} else {
		loadingRules := clientcmd.NewDefaultClientConfigLoadingRules()
		if c.config.KubeconfigPath != "" {
			loadingRules.ExplicitPath = c.config.KubeconfigPath
		}

		contextConfig := clientcmd.NewNonInteractiveDeferredLoadingClientConfig(
			loadingRules,
			&clientcmd.ConfigOverrides{
				CurrentContext: contextName,
			},
		)

		restConfig, err = contextConfig.ClientConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to create rest config for context %q: %w", contextName, err)
		}
	}

	// Apply performance settings
	restConfig.QPS = c.qpsLimit
	restConfig.Burst = c.burstLimit
	restConfig.Timeout = c.timeout

	c.restConfigs[contextName] = restConfig

	if c.config.Logger != nil {
		c.config.Logger.Debug("created rest config", "context", contextName)
	}

	return restConfig, nil
}

// getClientset returns a Kubernetes clientset for the specified context.
func (c *kubernetesClient) getClientset(contextName string) (kubernetes.Interface, error) {
	// Use current context if none specified
	if contextName == "" {
		contextName = c.currentContext
	}

	c.mu.RLock()
	if clientset, exists := c.clientsets[contextName]; exists {
		c.mu.RUnlock()
		return clientset, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// Double-check after acquiring write lock
	if clientset, exists := c.clientsets[contextName]; exists {
		return clientset, nil
	}

	restConfig, err := c.getRestConfigLocked(contextName)
	if err != nil {
		return nil, err
	}

	clientset, err := kubernetes.NewForConfig(restConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create clientset for context %q: %w", contextName, err)
	}

	c.clientsets[contextName] = clientset

	return clientset, nil
}

// isOperationAllowed checks if an operation is allowed based on configuration.
func (c *kubernetesClient) isOperationAllowed(operation string) error {
	// Check if operation is in allowed list (if specified)
	whitelisted := false
	if len(c.allowedOperations) > 0 {
		for _, allowedOp := range c.allowedOperations {
			if allowedOp == operation {
				whitelisted = true
				break
			}
		}
		if !whitelisted {
			return fmt.Errorf("operation %q is not allowed", operation)
		}
	}

	// Non-destructive mode blocks destructive operations unless the
	// operation is explicitly whitelisted or the call is a dry run.
	if c.nonDestructiveMode && !whitelisted && !c.dryRun {
		for _, destructiveOp := range destructiveOperations {
			if destructiveOp == operation {
				return fmt.Errorf("destructive operation %q is not allowed in non-destructive mode", operation)
			}
		}
	}

	return nil
}

// isNamespaceRestricted checks if a namespace is restricted.
func (c *kubernetesClient) isNamespaceRestricted(namespace string) error {
	for _, restrictedNs := range c.restrictedNamespaces {
		if restrictedNs == namespace {
			return fmt.Errorf("access to namespace %q is restricted", namespace)
		}
	}
	return nil
}

// logOperation logs an operation for debugging and audit purposes.
func (c *kubernetesClient) logOperation(operation, kubeContext, namespace, resource, name string) {
	if c.config.Logger != nil {
		c.config.Logger.Debug("kubernetes operation",
			"operation", operation,
			"context", kubeContext,
			"namespace", namespace,
			"resource", resource,
			"name", name,
		)
	}
}

// ContextManager implementation

// ListContexts returns all available Kubernetes contexts.
func (c *kubernetesClient) ListContexts(ctx context.Context) ([]ContextInfo, error) {
	c.logOperation("list-contexts", "", "", "", "")

	if c.config.InCluster {
		// In-cluster mode: return single simulated context
		return []ContextInfo{
			{
				Name:      InClusterContext,
				Cluster:   InClusterContext,
				User:      "serviceaccount",
				Namespace: c.getInClusterNamespace(),
				Current:   true,
			},
		}, nil
	}

	var contexts []ContextInfo

	for contextName, contextInfo := range c.kubeconfigData.Contexts {
		contexts = append(contexts, ContextInfo{
			Name:      contextName,
			Cluster:   contextInfo.Cluster,
			User:      contextInfo.AuthInfo,
			Namespace: contextInfo.Namespace,
			Current:   contextName == c.currentContext,
		})
	}

	return contexts, nil
}

// GetCurrentContext returns the currently active context.
func (c *kubernetesClient) GetCurrentContext(ctx context.Context) (*ContextInfo, error) {
	c.logOperation("get-current-context", c.currentContext, "", "", "")

	if c.config.InCluster {
		return &ContextInfo{
			Name:      InClusterContext,
			Cluster:   InClusterContext,
			User:      "serviceaccount",
			Namespace: c.getInClusterNamespace(),
			Current:   true,
		}, nil
	}

	contextInfo, exists := c.kubeconfigData.Contexts[c.currentContext]
	if !exists {
		return nil, fmt.Errorf("current context %q does not exist", c.currentContext)
	}

	return &ContextInfo{
		Name:      c.currentContext,
		Cluster:   contextInfo.Cluster,
		User:      contextInfo.AuthInfo,
		Namespace: contextInfo.Namespace,
		Current:   true,
	}, nil
}

// SwitchContext changes the active Kubernetes context.
func (c *kubernetesClient) SwitchContext(ctx context.Context, contextName string) error {
	c.logOperation("switch-context", contextName, "", "", "")

	if c.config.InCluster {
		// In-cluster mode: only the simulated context exists
		if contextName != InClusterContext {
			return fmt.Errorf("cannot switch context in in-cluster mode: only %q context is available", InClusterContext)
		}
		return nil
	}

	if _, exists := c.kubeconfigData.Contexts[contextName]; !exists {
		return fmt.Errorf("context %q does not exist in kubeconfig", contextName)
	}

	c.mu.Lock()
	c.currentContext = contextName
	c.mu.Unlock()

	if c.config.Logger != nil {
		c.config.Logger.Info("switched kubernetes context", "context", contextName)
	}

	return nil
}

// getInClusterNamespace reads the namespace from the service account namespace file.
func (c *kubernetesClient) getInClusterNamespace() string {
	data, err := os.ReadFile(DefaultNamespacePath)
	if err != nil {
		// Fallback to default namespace if we can't read the file
		return "default"
	}
	return string(data)
}
