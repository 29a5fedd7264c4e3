// Package logging provides structured logging utilities for the mcp-workloads application.
//
// This package centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Structured logging with slog
//   - Host/URL sanitization for security
//   - Consistent attribute naming across the codebase
//
// # Usage Patterns
//
// Create a logger with standard attributes:
//
//	logger := logging.WithOperation(slog.Default(), "deployment.restart")
//	logger.Info("restarting deployment",
//	    logging.Namespace("default"),
//	    logging.Deployment("frontend"))
//
// Sanitize sensitive data before logging:
//
//	logger.Info("endpoint verified",
//	    logging.Host(apiServer))
//
// # Security Considerations
//
// This package is designed with security in mind:
//   - API server URLs have IP addresses redacted to prevent topology leakage
//   - Credentials and tokens are never logged directly
package logging
