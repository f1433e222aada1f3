package tools

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mark3labs/mcp-go/mcp"
)

// Branch management tools, backed by the repository branches API:
// https://docs.gitlab.com/ee/api/branches.html
func (ts *Toolset) branchTools() []Tool {
	return []Tool{
		newTool(mcp.NewTool("gitlab_list_branches",
			mcp.WithDescription("List branches of a GitLab project, sorted alphabetically."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithString("regex", mcp.Description("Return branches matching a re2 regular expression")),
			mcp.WithString("search", mcp.Description("Return branches containing the search string; ^term and term$ anchor the match")),
		), ts.handleListBranches),

		newTool(mcp.NewTool("gitlab_get_single_branch",
			mcp.WithDescription("Get details of a single project branch, including protection status and head commit."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithString("branch", mcp.Required(), mcp.Description("Branch name")),
		), ts.handleGetBranch),

		newTool(mcp.NewTool("gitlab_create_branch",
			mcp.WithDescription("Create a new branch in a project from an existing ref."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithString("branch", mcp.Required(), mcp.Description("Name of the new branch")),
			mcp.WithString("ref", mcp.Required(), mcp.Description("Branch name or commit SHA to branch from")),
		), ts.handleCreateBranch),

		newTool(mcp.NewTool("gitlab_delete_branch",
			mcp.WithDescription("Delete a project branch."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithString("branch", mcp.Required(), mcp.Description("Branch name to delete")),
		), ts.handleDeleteBranch),
	}
}

func (ts *Toolset) handleListBranches(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, err := reqID(request, "project_id")
	if err != nil {
		return errResult(err), nil
	}
	query := queryFrom(request, "regex", "search")
	return ts.call(ctx, http.MethodGet, "/projects/"+project+"/repository/branches", query, nil)
}

func (ts *Toolset) handleGetBranch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, err := reqID(request, "project_id")
	if err != nil {
		return errResult(err), nil
	}
	branch, err := reqString(request, "branch")
	if err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodGet, "/projects/"+project+"/repository/branches/"+url.PathEscape(branch), nil, nil)
}

func (ts *Toolset) handleCreateBranch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, err := reqID(request, "project_id")
	if err != nil {
		return errResult(err), nil
	}
	branch, err := reqString(request, "branch")
	if err != nil {
		return errResult(err), nil
	}
	ref, err := reqString(request, "ref")
	if err != nil {
		return errResult(err), nil
	}
	query := url.Values{}
	query.Set("branch", branch)
	query.Set("ref", ref)
	return ts.call(ctx, http.MethodPost, "/projects/"+project+"/repository/branches", query, nil)
}

func (ts *Toolset) handleDeleteBranch(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, err := reqID(request, "project_id")
	if err != nil {
		return errResult(err), nil
	}
	branch, err := reqString(request, "branch")
	if err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodDelete, "/projects/"+project+"/repository/branches/"+url.PathEscape(branch), nil, nil)
}
