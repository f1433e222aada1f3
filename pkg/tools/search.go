package tools

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mark3labs/mcp-go/mcp"
)

var searchScopes = []string{"projects", "issues", "merge_requests", "milestones",
	"snippet_titles", "wiki_blobs", "commits", "blobs", "users", "notes"}

// Search tools, backed by the search API:
// https://docs.gitlab.com/ee/api/search.html
func (ts *Toolset) searchTools() []Tool {
	return []Tool{
		newTool(mcp.NewTool("gitlab_global_search",
			mcp.WithDescription("Search across all of GitLab in the given scope."),
			mcp.WithString("scope", mcp.Required(), mcp.Description("Search scope"), mcp.Enum(searchScopes...)),
			mcp.WithString("search", mcp.Required(), mcp.Description("Search query")),
			mcp.WithString("state", mcp.Description("Filter issues or merge requests by state"), mcp.Enum("opened", "closed", "merged")),
			mcp.WithBoolean("confidential", mcp.Description("Filter issues by confidentiality")),
			mcp.WithString("order_by", mcp.Description("Ordering field; only created_at is supported"), mcp.Enum("created_at")),
			mcp.WithString("sort", mcp.Description("Sort order"), mcp.Enum("asc", "desc")),
		), ts.handleGlobalSearch),

		newTool(mcp.NewTool("gitlab_search_within_group",
			mcp.WithDescription("Search within a group in the given scope."),
			mcp.WithString("group_id", mcp.Required(), mcp.Description("Group ID or URL-encoded path")),
			mcp.WithString("scope", mcp.Required(), mcp.Description("Search scope"), mcp.Enum(searchScopes...)),
			mcp.WithString("search", mcp.Required(), mcp.Description("Search query")),
			mcp.WithString("state", mcp.Description("Filter issues or merge requests by state"), mcp.Enum("opened", "closed", "merged")),
			mcp.WithBoolean("confidential", mcp.Description("Filter issues by confidentiality")),
			mcp.WithString("order_by", mcp.Description("Ordering field; only created_at is supported"), mcp.Enum("created_at")),
			mcp.WithString("sort", mcp.Description("Sort order"), mcp.Enum("asc", "desc")),
		), ts.handleGroupSearch),

		newTool(mcp.NewTool("gitlab_search_within_project",
			mcp.WithDescription("Search within a project in the given scope."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithString("scope", mcp.Required(), mcp.Description("Search scope"), mcp.Enum(searchScopes...)),
			mcp.WithString("search", mcp.Required(), mcp.Description("Search query")),
			mcp.WithString("ref", mcp.Description("Branch or tag to search in, for blobs and commits")),
			mcp.WithString("state", mcp.Description("Filter issues or merge requests by state"), mcp.Enum("opened", "closed", "merged")),
			mcp.WithBoolean("confidential", mcp.Description("Filter issues by confidentiality")),
			mcp.WithString("order_by", mcp.Description("Ordering field; only created_at is supported"), mcp.Enum("created_at")),
			mcp.WithString("sort", mcp.Description("Sort order"), mcp.Enum("asc", "desc")),
		), ts.handleProjectSearch),
	}
}

func (ts *Toolset) searchQuery(request mcp.CallToolRequest, extra ...string) (url.Values, error) {
	scope, err := reqString(request, "scope")
	if err != nil {
		return nil, err
	}
	term, err := reqString(request, "search")
	if err != nil {
		return nil, err
	}
	keys := append([]string{"state", "confidential", "order_by", "sort"}, extra...)
	query := queryFrom(request, keys...)
	query.Set("scope", scope)
	query.Set("search", term)
	return query, nil
}

func (ts *Toolset) handleGlobalSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := ts.searchQuery(request)
	if err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodGet, "/search", query, nil)
}

func (ts *Toolset) handleGroupSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	group, err := reqID(request, "group_id")
	if err != nil {
		return errResult(err), nil
	}
	query, err := ts.searchQuery(request)
	if err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodGet, "/groups/"+group+"/search", query, nil)
}

func (ts *Toolset) handleProjectSearch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, err := reqID(request, "project_id")
	if err != nil {
		return errResult(err), nil
	}
	query, err := ts.searchQuery(request, "ref")
	if err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodGet, "/projects/"+project+"/search", query, nil)
}
