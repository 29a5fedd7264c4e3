// Package output provides response truncation for MCP tool output.
//
// Queries against busy clusters can return far more data than an LLM context
// window (typically 128K-200K tokens) can absorb. This package caps item
// counts and log sizes with clear warning messages when truncation occurs.
//
// # Key Features
//
// Item Truncation: Limits the number of resources returned per query with a
// [TruncationWarning] describing how many items were dropped. Per-query
// limits are bounded by absolute maximums.
//
// Log Truncation: Caps per-pod log output at a byte budget, keeping the most
// recent lines and prepending an explicit truncation notice.
//
// # Usage Example
//
//	pods, warning := output.TruncateItems(pods, maxItems)
//	logs, truncated := output.TruncateLogs(logs, output.DefaultMaxLogBytes)
package output
