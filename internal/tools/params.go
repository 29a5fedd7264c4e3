package tools

import (
	mcp "github.com/mark3labs/mcp-go/mcp"
)

// AddKubeContextParam returns the shared kubeContext tool option. Every tool
// that talks to a cluster accepts an optional kubeContext so callers can
// target any context from the kubeconfig without switching first.
//
// Usage in tool registration:
//
//	opts := []mcp.ToolOption{
//	    mcp.WithDescription("..."),
//	}
//	opts = append(opts, tools.AddKubeContextParam()...)
//	opts = append(opts, /* tool-specific params */...)
//	tool := mcp.NewTool("tool_name", opts...)
func AddKubeContextParam() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("kubeContext",
			mcp.Description("Kubernetes context to use (optional, uses current context if not specified)"),
		),
	}
}
