package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/opsgate/mcp-workloads/internal/instrumentation"
	"github.com/opsgate/mcp-workloads/internal/k8s"
	"github.com/opsgate/mcp-workloads/internal/logging"
	"github.com/opsgate/mcp-workloads/internal/server"
	"github.com/opsgate/mcp-workloads/internal/tools/cluster"
	contexttools "github.com/opsgate/mcp-workloads/internal/tools/context"
	"github.com/opsgate/mcp-workloads/internal/tools/deployment"
	"github.com/opsgate/mcp-workloads/internal/tools/pod"
)

// Transport type constants for the MCP server.
const (
	transportStdio          = "stdio"
	transportSSE            = "sse"
	transportStreamableHTTP = "streamable-http"
)

// serverName identifies this MCP server to clients.
const serverName = "mcp-workloads"

// newServeCmd creates the Cobra command for starting the MCP server.
func newServeCmd() *cobra.Command {
	var (
		config               ServeConfig
		allowedOperations    []string
		restrictedNamespaces []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP workloads server",
		Long: `Start the MCP workloads server to provide tools for inspecting and
operating Kubernetes workloads via the Model Context Protocol.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - sse: Server-Sent Events over HTTP
  - streamable-http: Streamable HTTP transport

Authentication modes:
  - Kubeconfig (default): Uses standard kubeconfig file authentication
  - In-cluster: Uses service account token when running inside a Kubernetes pod

By default the server runs in read-only mode: listing pods and deployments,
fetching logs, and checking cluster health are allowed, while deployment
restarts and context switches are blocked unless --read-only=false is set
or the operation is whitelisted via --allowed-operations.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			loadServeEnvVars(cmd, &config)
			return runServe(config, allowedOperations, restrictedNamespaces)
		},
	}

	// Kubernetes client flags
	cmd.Flags().StringVar(&config.KubeconfigPath, "kubeconfig", "", "Path to the kubeconfig file (defaults to KUBECONFIG or ~/.kube/config)")
	cmd.Flags().StringVar(&config.KubeContext, "kube-context", "", "Kubeconfig context to use by default")
	cmd.Flags().StringVar(&config.DefaultNamespace, "default-namespace", "default", "Namespace used when a tool call omits one")
	cmd.Flags().BoolVar(&config.ReadOnly, "read-only", true, "Enable read-only mode (default: true)")
	cmd.Flags().BoolVar(&config.DryRun, "dry-run", false, "Enable dry run mode (default: false)")
	cmd.Flags().Float32Var(&config.QPSLimit, "qps-limit", 20.0, "QPS limit for Kubernetes API calls (default: 20.0)")
	cmd.Flags().IntVar(&config.BurstLimit, "burst-limit", 30, "Burst limit for Kubernetes API calls (default: 30)")
	cmd.Flags().DurationVar(&config.Timeout, "timeout", 30*time.Second, "Timeout for Kubernetes API calls")
	cmd.Flags().BoolVar(&config.DebugMode, "debug", false, "Enable debug logging (default: false)")
	cmd.Flags().BoolVar(&config.InCluster, "in-cluster", false, "Use in-cluster authentication (service account token) instead of kubeconfig (default: false)")
	cmd.Flags().StringSliceVar(&allowedOperations, "allowed-operations", nil, "Operations permitted even in read-only mode (overrides the default list: list,logs,cluster-health,restart)")
	cmd.Flags().StringSliceVar(&restrictedNamespaces, "restricted-namespaces", nil, "Namespaces that tools are not allowed to touch")
	cmd.Flags().IntVar(&config.MaxItems, "max-items", 0, "Server-wide cap on items returned by list tools (0 = per-request limit only)")

	// Transport flags
	cmd.Flags().StringVar(&config.Transport, "transport", transportStdio, "Transport type: stdio, sse, or streamable-http")
	cmd.Flags().StringVar(&config.HTTPAddr, "http-addr", ":8080", "HTTP server address (for sse and streamable-http transports)")
	cmd.Flags().StringVar(&config.SSEEndpoint, "sse-endpoint", "/sse", "SSE endpoint path (for sse transport)")
	cmd.Flags().StringVar(&config.MessageEndpoint, "message-endpoint", "/message", "Message endpoint path (for sse transport)")
	cmd.Flags().StringVar(&config.HTTPEndpoint, "http-endpoint", "/mcp", "HTTP endpoint path (for streamable-http transport)")
	cmd.Flags().StringVar(&config.MetricsAddr, "metrics-addr", server.DefaultMetricsAddr, "Address for the dedicated Prometheus metrics server")

	return cmd
}

// newLogger builds the process-wide slog logger. Stdio transport must keep
// stdout clean for MCP framing, so logs always go to stderr.
func newLogger(debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	return slog.New(handler)
}

// runServe contains the main server logic with support for multiple transports.
func runServe(config ServeConfig, allowedOperations, restrictedNamespaces []string) error {
	logger := newLogger(config.DebugMode)
	slog.SetDefault(logger)
	adapter := logging.NewSlogAdapter(logger)

	// The server-side tool gate and the client-side operation gate must see
	// the same whitelist, so the default list is resolved once here.
	if len(allowedOperations) == 0 {
		allowedOperations = server.DefaultAllowedOperations()
	}

	k8sConfig := &k8s.ClientConfig{
		KubeconfigPath:       config.KubeconfigPath,
		Context:              config.KubeContext,
		InCluster:            config.InCluster,
		NonDestructiveMode:   config.ReadOnly,
		DryRun:               config.DryRun,
		AllowedOperations:    allowedOperations,
		RestrictedNamespaces: restrictedNamespaces,
		QPSLimit:             config.QPSLimit,
		BurstLimit:           config.BurstLimit,
		Timeout:              config.Timeout,
		Logger:               adapter,
	}

	k8sClient, err := k8s.NewClient(k8sConfig)
	if err != nil {
		return fmt.Errorf("failed to create Kubernetes client: %w", err)
	}

	// Setup graceful shutdown - listen for both SIGINT and SIGTERM
	shutdownCtx, cancel := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Initialize OpenTelemetry instrumentation provider
	instrumentationConfig := instrumentation.DefaultConfig()
	instrumentationConfig.ServiceVersion = rootCmd.Version
	instrumentationProvider, err := instrumentation.NewProvider(shutdownCtx, instrumentationConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		if shutdownErr := instrumentationProvider.Shutdown(context.Background()); shutdownErr != nil {
			if config.Transport != transportStdio {
				logger.Error("error during instrumentation shutdown", logging.Err(shutdownErr))
			}
		}
	}()

	if instrumentationProvider.Enabled() {
		logger.Info("OpenTelemetry instrumentation enabled",
			"metrics_exporter", instrumentationConfig.MetricsExporter,
			"tracing_exporter", instrumentationConfig.TracingExporter)
	}

	serverContextOptions := []server.Option{
		server.WithK8sClient(k8sClient),
		server.WithLogger(adapter),
		server.WithServerName(serverName),
		server.WithNonDestructiveMode(config.ReadOnly),
		server.WithDryRun(config.DryRun),
		server.WithInstrumentationProvider(instrumentationProvider),
		server.WithAllowedOperations(allowedOperations),
	}
	if config.DefaultNamespace != "" {
		serverContextOptions = append(serverContextOptions, server.WithDefaultNamespace(config.DefaultNamespace))
	}
	if config.DebugMode {
		serverContextOptions = append(serverContextOptions, server.WithLogLevel("debug"))
	}
	if len(restrictedNamespaces) > 0 {
		serverContextOptions = append(serverContextOptions, server.WithRestrictedNamespaces(restrictedNamespaces))
	}
	if config.MaxItems > 0 {
		serverContextOptions = append(serverContextOptions, server.WithMaxItems(config.MaxItems))
	}

	serverContext, err := server.NewServerContext(shutdownCtx, serverContextOptions...)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			// Only log shutdown errors for non-stdio transports to avoid output interference
			if config.Transport != transportStdio {
				logger.Error("error during server context shutdown", logging.Err(err))
			}
		}
	}()

	// Create MCP server
	mcpSrv := mcpserver.NewMCPServer(serverName, rootCmd.Version,
		mcpserver.WithToolCapabilities(true),
	)

	// Register all tool categories
	if err := pod.RegisterPodTools(mcpSrv, serverContext); err != nil {
		return fmt.Errorf("failed to register pod tools: %w", err)
	}

	if err := deployment.RegisterDeploymentTools(mcpSrv, serverContext); err != nil {
		return fmt.Errorf("failed to register deployment tools: %w", err)
	}

	if err := cluster.RegisterClusterTools(mcpSrv, serverContext); err != nil {
		return fmt.Errorf("failed to register cluster tools: %w", err)
	}

	if err := contexttools.RegisterContextTools(mcpSrv, serverContext); err != nil {
		return fmt.Errorf("failed to register context tools: %w", err)
	}

	// The dedicated metrics server only runs for HTTP transports; stdio
	// deployments are short-lived client subprocesses.
	var metricsServer *server.MetricsServer
	if config.Transport != transportStdio && instrumentationProvider.Enabled() {
		metricsServer, err = startMetricsServer(config.MetricsAddr, instrumentationProvider)
		if err != nil {
			return fmt.Errorf("failed to start metrics server: %w", err)
		}
		defer func() {
			stopCtx, stopCancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
			defer stopCancel()
			if err := metricsServer.Shutdown(stopCtx); err != nil {
				logger.Error("error shutting down metrics server", logging.Err(err))
			}
		}()
	}

	// Start the appropriate server based on transport type
	switch config.Transport {
	case transportStdio:
		// Don't print startup messages for stdio mode as they interfere with MCP framing
		return runStdioServer(mcpSrv)
	case transportSSE:
		return runSSEServer(mcpSrv, shutdownCtx, config)
	case transportStreamableHTTP:
		return runStreamableHTTPServer(mcpSrv, shutdownCtx, config, instrumentationProvider, serverContext)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: stdio, sse, streamable-http)", config.Transport)
	}
}

// startMetricsServer starts the dedicated metrics server on a separate port.
// This isolates Prometheus metrics from the main application traffic.
func startMetricsServer(addr string, provider *instrumentation.Provider) (*server.MetricsServer, error) {
	metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
		Addr:                    addr,
		InstrumentationProvider: provider,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics server: %w", err)
	}

	// Start metrics server in background
	go func() {
		if err := metricsServer.Start(); err != nil && err != http.ErrServerClosed {
			slog.Error("metrics server error", logging.Err(err))
		}
	}()

	slog.Info("metrics server started", "addr", addr, "endpoint", "/metrics")
	return metricsServer, nil
}
