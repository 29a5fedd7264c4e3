// Package cmd provides the command-line interface for mcp-workloads.
//
// This package implements a Cobra-based CLI with multiple subcommands:
//   - serve: Starts the MCP server (default behavior when no subcommand is provided)
//   - kubeconfig: Repairs and verifies kubeconfig control-plane endpoints
//   - version: Displays the application version
//   - self-update: Updates the binary to the latest version from GitHub releases
//
// The CLI runs the serve command when no subcommand is specified, so the
// binary can be used directly as an MCP stdio server.
//
// Command Structure:
//
//	mcp-workloads [flags]                  # Starts the MCP server (default)
//	mcp-workloads serve [flags]            # Explicitly starts the MCP server
//	mcp-workloads kubeconfig repair        # Rewrites cluster endpoint hosts
//	mcp-workloads kubeconfig verify        # Probes the cluster endpoint
//	mcp-workloads version                  # Shows version information
//	mcp-workloads self-update              # Updates to latest release
//	mcp-workloads help [command]           # Shows help information
//
// The serve command supports multiple transport options:
//   - stdio: Standard input/output (default) - for command-line integration
//   - sse: Server-Sent Events over HTTP - for web-based clients
//   - streamable-http: Streamable HTTP transport - for HTTP-based integration
//
// Transport Configuration Examples:
//
//	mcp-workloads serve --transport stdio            # Default STDIO transport
//	mcp-workloads serve --transport sse --http-addr :8080 --sse-endpoint /sse
//	mcp-workloads serve --transport streamable-http --http-addr :9000 --http-endpoint /mcp
//
// The serve command also supports configuration flags for controlling
// Kubernetes client behavior, including read-only mode, dry-run mode, and
// API rate limiting settings.
package cmd
