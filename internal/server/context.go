package server

import (
	"context"
	"sync"
	"time"

	"github.com/opsgate/mcp-workloads/internal/instrumentation"
	"github.com/opsgate/mcp-workloads/internal/k8s"
	"github.com/opsgate/mcp-workloads/internal/logging"
)

// DefaultShutdownTimeout bounds graceful shutdown of the HTTP transports
// and the metrics server.
const DefaultShutdownTimeout = 30 * time.Second

// ServerContext encapsulates all dependencies needed by the MCP server
// and provides a clean abstraction for dependency injection and lifecycle management.
type ServerContext struct {
	// Core dependencies
	k8sClient k8s.Client
	logger    Logger
	config    *Config

	// OpenTelemetry instrumentation (optional)
	instrumentationProvider *instrumentation.Provider

	// Metrics tracking
	metrics *Metrics

	// Context management
	ctx    context.Context
	cancel context.CancelFunc

	// Lifecycle management
	mu       sync.RWMutex
	shutdown bool
}

// Metrics tracks operational metrics for monitoring
type Metrics struct {
	// Workload operation metrics
	DeploymentRestarts int64 // Rollout restarts issued
	LogFetchFailures   int64 // Pod log retrievals that failed
	HealthChecks       int64 // Cluster health evaluations performed

	mu sync.RWMutex
}

// NewMetrics creates a new Metrics instance
func NewMetrics() *Metrics {
	return &Metrics{}
}

// IncrementDeploymentRestarts increments the rollout restart counter
func (m *Metrics) IncrementDeploymentRestarts() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeploymentRestarts++
}

// IncrementLogFetchFailures increments the failed log retrieval counter
func (m *Metrics) IncrementLogFetchFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LogFetchFailures++
}

// IncrementHealthChecks increments the cluster health check counter
func (m *Metrics) IncrementHealthChecks() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.HealthChecks++
}

// GetMetrics returns a snapshot of current metrics
func (m *Metrics) GetMetrics() (restarts, logFailures, healthChecks int64) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.DeploymentRestarts, m.LogFetchFailures, m.HealthChecks
}

// NewServerContext creates a new ServerContext with default values.
// Use the provided functional options to customize the context.
func NewServerContext(ctx context.Context, opts ...Option) (*ServerContext, error) {
	// Create a cancellable context
	serverCtx, cancel := context.WithCancel(ctx)

	// Initialize with defaults
	sc := &ServerContext{
		ctx:     serverCtx,
		cancel:  cancel,
		config:  NewDefaultConfig(),
		logger:  NewDefaultLogger(),
		metrics: NewMetrics(),
	}

	// Apply functional options
	for _, opt := range opts {
		if err := opt(sc); err != nil {
			cancel()
			return nil, err
		}
	}

	// Validate required dependencies
	if err := sc.validate(); err != nil {
		cancel()
		return nil, err
	}

	return sc, nil
}

// Context returns the server context for cancellation and deadlines.
func (sc *ServerContext) Context() context.Context {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.ctx
}

// K8sClient returns the Kubernetes client interface.
func (sc *ServerContext) K8sClient() k8s.Client {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.k8sClient
}

// Metrics returns the metrics tracker.
func (sc *ServerContext) Metrics() *Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// InstrumentationProvider returns the OpenTelemetry provider, or nil when
// instrumentation is disabled.
func (sc *ServerContext) InstrumentationProvider() *instrumentation.Provider {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.instrumentationProvider
}

// Logger returns the logger interface.
func (sc *ServerContext) Logger() Logger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.logger
}

// Config returns the server configuration.
func (sc *ServerContext) Config() *Config {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.config
}

// Shutdown gracefully shuts down the server context.
// This cancels the context and releases any resources.
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.logger.Info("Shutting down server context")

	// Cancel the context
	if sc.cancel != nil {
		sc.cancel()
	}

	// Mark as shutdown
	sc.shutdown = true

	sc.logger.Info("Server context shutdown complete")
	return nil
}

// IsShutdown returns true if the server context has been shutdown.
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// validate ensures all required dependencies are set.
func (sc *ServerContext) validate() error {
	if sc.k8sClient == nil {
		return ErrMissingK8sClient
	}
	if sc.logger == nil {
		return ErrMissingLogger
	}
	if sc.config == nil {
		return ErrMissingConfig
	}
	return nil
}

// Logger is the structured logging contract used by the server. It is an
// alias of the shared interface in the logging package so any slog-backed
// adapter can be injected directly.
type Logger = logging.Logger

// Config holds the server configuration.
type Config struct {
	// Server settings
	ServerName string `json:"serverName"`
	Version    string `json:"version"`

	// Kubernetes settings
	DefaultNamespace string `json:"defaultNamespace"`
	KubeConfigPath   string `json:"kubeConfigPath"`
	DefaultContext   string `json:"defaultContext"`

	// Non-destructive mode settings
	NonDestructiveMode bool `json:"nonDestructiveMode"`
	DryRun             bool `json:"dryRun"`

	// Logging settings
	LogLevel  string `json:"logLevel"`
	LogFormat string `json:"logFormat"`

	// Security settings
	AllowedOperations    []string `json:"allowedOperations"`
	RestrictedNamespaces []string `json:"restrictedNamespaces"`

	// MaxItems caps list tool output server-wide. Zero means requests are
	// only bounded by the per-request maxItems argument and the absolute cap.
	MaxItems int `json:"maxItems"`
}

// DefaultAllowedOperations returns the operation whitelist applied when none
// is configured. Restart is included so the primary remediation flow works
// out of the box; deployments can narrow the list with --allowed-operations.
func DefaultAllowedOperations() []string {
	return []string{"list", "logs", "cluster-health", "restart"}
}

// NewDefaultConfig creates a configuration with sensible defaults. No
// namespaces are restricted by default: cluster health checks need to see
// kube-system, so restrictions are strictly opt-in.
func NewDefaultConfig() *Config {
	return &Config{
		ServerName:         "mcp-workloads",
		Version:            "0.1.0",
		DefaultNamespace:   "default",
		NonDestructiveMode: true,
		DryRun:             false,
		LogLevel:           "info",
		LogFormat:          "json",
		AllowedOperations:  DefaultAllowedOperations(),
	}
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}

	clone := *c

	// Deep copy slices
	if c.AllowedOperations != nil {
		clone.AllowedOperations = make([]string, len(c.AllowedOperations))
		copy(clone.AllowedOperations, c.AllowedOperations)
	}

	if c.RestrictedNamespaces != nil {
		clone.RestrictedNamespaces = make([]string, len(c.RestrictedNamespaces))
		copy(clone.RestrictedNamespaces, c.RestrictedNamespaces)
	}

	return &clone
}
