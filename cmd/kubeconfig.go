package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/opsgate/mcp-workloads/internal/kubeconfig"
)

// newKubeconfigCmd creates the Cobra command group for kubeconfig maintenance.
func newKubeconfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "kubeconfig",
		Short: "Repair and verify kubeconfig control-plane endpoints",
		Long: `Repair and verify the control-plane endpoints recorded in a kubeconfig.

When a single-node cluster's machine changes its IP address (DHCP lease
renewal, moving networks), every cluster entry in the kubeconfig still
points at the old address and kubectl hangs. The repair subcommand rewrites
the host of each cluster's server URL, keeping the original scheme and
port, and the verify subcommand confirms the API server is reachable again.`,
	}

	cmd.AddCommand(newKubeconfigRepairCmd())
	cmd.AddCommand(newKubeconfigVerifyCmd())

	return cmd
}

// defaultKubeconfigPath resolves the kubeconfig to operate on: the --kubeconfig
// flag, then KUBECONFIG, then ~/.kube/config.
func defaultKubeconfigPath(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	if env := os.Getenv("KUBECONFIG"); env != "" {
		return env
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".kube", "config")
}

func newKubeconfigRepairCmd() *cobra.Command {
	var (
		kubeconfigPath string
		host           string
		ifaceName      string
		verify         bool
		timeout        time.Duration
	)

	cmd := &cobra.Command{
		Use:   "repair",
		Short: "Rewrite cluster server hosts to the machine's current address",
		Long: `Rewrite the host of every cluster server URL in the kubeconfig.

Without --host, the primary interface address of this machine is detected
and used; --interface picks the address of a specific network interface
instead. Schemes and ports are preserved; only the host changes. With
--verify, the repaired endpoint is probed afterwards.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultKubeconfigPath(kubeconfigPath)
			if path == "" {
				return fmt.Errorf("could not determine kubeconfig path, use --kubeconfig")
			}

			if host == "" && ifaceName != "" {
				detected, err := kubeconfig.DetectInterfaceIP(ifaceName)
				if err != nil {
					return fmt.Errorf("repair failed: %w", err)
				}
				host = detected
			}

			result, err := kubeconfig.Repair(path, host)
			if err != nil {
				return fmt.Errorf("repair failed: %w", err)
			}

			if len(result.Changes) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No changes needed: all cluster endpoints already point at %s\n", result.Host)
			} else {
				for _, change := range result.Changes {
					fmt.Fprintf(cmd.OutOrStdout(), "Cluster %s: %s -> %s\n", change.Cluster, change.OldServer, change.NewServer)
				}
			}

			if !verify {
				return nil
			}

			verifyResult, err := kubeconfig.Verify(cmd.Context(), path, kubeconfig.VerifyOptions{Timeout: timeout})
			if err != nil {
				return fmt.Errorf("endpoint repaired but verification failed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Verified %s: API server healthy, %d pods visible\n", verifyResult.Host, verifyResult.PodCount)
			return nil
		},
	}

	cmd.Flags().StringVar(&kubeconfigPath, "kubeconfig", "", "Path to the kubeconfig file (defaults to KUBECONFIG or ~/.kube/config)")
	cmd.Flags().StringVar(&host, "host", "", "New host for all cluster endpoints (defaults to the machine's primary interface address)")
	cmd.Flags().StringVar(&ifaceName, "interface", "", "Network interface whose address becomes the new host (ignored when --host is set)")
	cmd.Flags().BoolVar(&verify, "verify", false, "Probe the repaired endpoint after rewriting")
	cmd.Flags().DurationVar(&timeout, "timeout", kubeconfig.DefaultVerifyTimeout, "Timeout for endpoint verification")

	return cmd
}

func newKubeconfigVerifyCmd() *cobra.Command {
	var (
		kubeconfigPath string
		contextName    string
		timeout        time.Duration
		jsonOutput     bool
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check that the kubeconfig's API server endpoint is reachable",
		Long: `Check that the kubeconfig's control-plane endpoint is reachable by
querying the API server's /healthz and listing pods across all namespaces.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := defaultKubeconfigPath(kubeconfigPath)
			if path == "" {
				return fmt.Errorf("could not determine kubeconfig path, use --kubeconfig")
			}

			result, err := kubeconfig.Verify(cmd.Context(), path, kubeconfig.VerifyOptions{
				Context: contextName,
				Timeout: timeout,
			})
			if err != nil {
				return fmt.Errorf("verification failed: %w", err)
			}

			if jsonOutput {
				data, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal result: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Verified %s: API server healthy, %d pods visible\n", result.Host, result.PodCount)
			return nil
		},
	}

	cmd.Flags().StringVar(&kubeconfigPath, "kubeconfig", "", "Path to the kubeconfig file (defaults to KUBECONFIG or ~/.kube/config)")
	cmd.Flags().StringVar(&contextName, "context", "", "Kubeconfig context to verify (defaults to the current context)")
	cmd.Flags().DurationVar(&timeout, "timeout", kubeconfig.DefaultVerifyTimeout, "Timeout for endpoint verification")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the verification result as JSON")

	return cmd
}
