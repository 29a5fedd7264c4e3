package cmd

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

// ServeConfig holds all configuration for the serve command.
type ServeConfig struct {
	// Transport settings
	Transport string
	HTTPAddr  string

	// Endpoint paths
	SSEEndpoint     string
	MessageEndpoint string
	HTTPEndpoint    string

	// Metrics server
	MetricsAddr string

	// Kubernetes client settings
	KubeconfigPath   string
	KubeContext      string
	DefaultNamespace string
	ReadOnly         bool
	DryRun           bool
	QPSLimit         float32
	BurstLimit       int
	Timeout          time.Duration
	DebugMode        bool
	InCluster        bool

	// Output settings
	MaxItems int
}

// loadEnvIfEmpty loads an environment variable into a string pointer if it's empty.
func loadEnvIfEmpty(target *string, envKey string) {
	if *target == "" {
		*target = os.Getenv(envKey)
	}
}

// parseDurationEnv parses a duration from an environment variable value.
// Returns the parsed duration and true if successful, or zero and false if parsing fails.
// Logs a warning if the value is present but invalid.
func parseDurationEnv(value, envName string) (time.Duration, bool) {
	if value == "" {
		return 0, false
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Warning: invalid duration for %s=%q: %v", envName, value, err)
		return 0, false
	}
	return d, true
}

// parseIntEnv parses an integer from an environment variable value.
// Returns the parsed int and true if successful, or zero and false if parsing fails.
// Logs a warning if the value is present but invalid.
func parseIntEnv(value, envName string) (int, bool) {
	if value == "" {
		return 0, false
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Warning: invalid integer for %s=%q: %v", envName, value, err)
		return 0, false
	}
	return n, true
}

// loadServeEnvVars fills in settings from the environment for flags the
// user did not set explicitly. Flags always win over environment variables.
func loadServeEnvVars(cmd *cobra.Command, config *ServeConfig) {
	loadEnvIfEmpty(&config.KubeconfigPath, "KUBECONFIG")
	loadEnvIfEmpty(&config.KubeContext, "MCP_WORKLOADS_CONTEXT")
	loadEnvIfEmpty(&config.MetricsAddr, "MCP_WORKLOADS_METRICS_ADDR")

	if !cmd.Flags().Changed("default-namespace") {
		if ns := os.Getenv("MCP_WORKLOADS_NAMESPACE"); ns != "" {
			config.DefaultNamespace = ns
		}
	}
	if !cmd.Flags().Changed("timeout") {
		if d, ok := parseDurationEnv(os.Getenv("MCP_WORKLOADS_TIMEOUT"), "MCP_WORKLOADS_TIMEOUT"); ok {
			config.Timeout = d
		}
	}
	if !cmd.Flags().Changed("burst-limit") {
		if n, ok := parseIntEnv(os.Getenv("MCP_WORKLOADS_BURST_LIMIT"), "MCP_WORKLOADS_BURST_LIMIT"); ok {
			config.BurstLimit = n
		}
	}
}
