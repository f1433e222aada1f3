// Package tools exposes the GitLab REST API as MCP tools. Every tool is
// a thin wrapper around one HTTP call: arguments are validated against
// the declared schema, forwarded to the configured GitLab instance and
// the JSON resource representation is mirrored back to the caller.
package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/BharadwajVedula1256/gitlab-mcp/pkg/config"
	"github.com/BharadwajVedula1256/gitlab-mcp/pkg/gitlab"
)

// Tool pairs an MCP tool definition with its handler.
type Tool interface {
	// Handle returns the underlying MCP tool definition.
	Handle() mcp.Tool

	// Handler processes one tool request and returns its result.
	Handler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// Handler is the function shape shared by every tool in the system.
type Handler func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)

// funcTool adapts a bare handler function to the Tool interface.
type funcTool struct {
	handle mcp.Tool
	fn     Handler
}

func newTool(handle mcp.Tool, fn Handler) Tool {
	return funcTool{handle: handle, fn: fn}
}

func (t funcTool) Handle() mcp.Tool {
	return t.handle
}

func (t funcTool) Handler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return t.fn(ctx, request)
}

// Toolset owns the config store and API client shared by all GitLab
// tools.
type Toolset struct {
	store  *config.Store
	client *gitlab.Client
}

// NewToolset builds the full GitLab toolset over the given store and
// client.
func NewToolset(store *config.Store, client *gitlab.Client) *Toolset {
	return &Toolset{store: store, client: client}
}

// All returns every tool in the set, configuration tools first.
func (ts *Toolset) All() []Tool {
	var all []Tool
	for _, group := range [][]Tool{
		ts.configTools(),
		ts.branchTools(),
		ts.commitTools(),
		ts.fileTools(),
		ts.repositoryTools(),
		ts.issueTools(),
		ts.mergeRequestTools(),
		ts.approvalTools(),
		ts.projectTools(),
		ts.searchTools(),
	} {
		all = append(all, group...)
	}
	return all
}

// Register adds every tool to the MCP server.
func (ts *Toolset) Register(s *server.MCPServer) {
	for _, tool := range ts.All() {
		s.AddTool(tool.Handle(), tool.Handler)
	}
}
