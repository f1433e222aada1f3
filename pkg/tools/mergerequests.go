package tools

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/BharadwajVedula1256/gitlab-mcp/pkg/gitlab"
)

var mrListFilters = []string{"state", "order_by", "sort", "milestone", "view",
	"labels", "with_labels_details", "with_merge_status_recheck",
	"created_after", "created_before", "updated_after", "updated_before",
	"scope", "author_id", "author_username", "assignee_id", "reviewer_id",
	"reviewer_username", "my_reaction_emoji", "source_branch", "target_branch",
	"search", "wip", "environment", "deployed_after", "deployed_before",
	"per_page", "page"}

// Merge request tools, backed by the merge requests API:
// https://docs.gitlab.com/ee/api/merge_requests.html
func (ts *Toolset) mergeRequestTools() []Tool {
	listFilterOptions := func(extra ...mcp.ToolOption) []mcp.ToolOption {
		opts := []mcp.ToolOption{
			mcp.WithString("state", mcp.Description("Merge request state"), mcp.Enum("opened", "closed", "locked", "merged", "all")),
			mcp.WithString("labels", mcp.Description("Comma-separated label names")),
			mcp.WithString("milestone", mcp.Description("Milestone title")),
			mcp.WithString("scope", mcp.Description("Scope of merge requests"), mcp.Enum("created_by_me", "assigned_to_me", "all")),
			mcp.WithNumber("author_id", mcp.Description("Filter by author user ID")),
			mcp.WithString("author_username", mcp.Description("Filter by author username")),
			mcp.WithNumber("assignee_id", mcp.Description("Filter by assignee user ID")),
			mcp.WithNumber("reviewer_id", mcp.Description("Filter by reviewer user ID")),
			mcp.WithString("reviewer_username", mcp.Description("Filter by reviewer username")),
			mcp.WithString("source_branch", mcp.Description("Filter by source branch")),
			mcp.WithString("target_branch", mcp.Description("Filter by target branch")),
			mcp.WithString("search", mcp.Description("Search by title and description")),
			mcp.WithString("wip", mcp.Description("Filter by draft status"), mcp.Enum("yes", "no")),
			mcp.WithString("view", mcp.Description("Return simple representations"), mcp.Enum("simple")),
			mcp.WithString("created_after", mcp.Description("Created after this ISO 8601 date")),
			mcp.WithString("created_before", mcp.Description("Created before this ISO 8601 date")),
			mcp.WithString("updated_after", mcp.Description("Updated after this ISO 8601 date")),
			mcp.WithString("updated_before", mcp.Description("Updated before this ISO 8601 date")),
			mcp.WithString("order_by", mcp.Description("Ordering field"), mcp.Enum("created_at", "updated_at", "title")),
			mcp.WithString("sort", mcp.Description("Sort order"), mcp.Enum("asc", "desc")),
			mcp.WithNumber("per_page", mcp.Description("Results per page")),
			mcp.WithNumber("page", mcp.Description("Page number")),
		}
		return append(extra, opts...)
	}

	tools := []Tool{
		newTool(mcp.NewTool("list_gitlab_merge_requests",
			listFilterOptions(mcp.WithDescription("List merge requests visible to the authenticated user across all of GitLab."))...,
		), ts.handleListMergeRequests),

		newTool(mcp.NewTool("list_gitlab_project_merge_requests",
			listFilterOptions(
				mcp.WithDescription("List merge requests of a project."),
				mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			)...,
		), ts.handleListProjectMergeRequests),

		newTool(mcp.NewTool("list_gitlab_group_merge_requests",
			listFilterOptions(
				mcp.WithDescription("List merge requests of a group and its projects."),
				mcp.WithString("group_id", mcp.Required(), mcp.Description("Group ID or URL-encoded path")),
			)...,
		), ts.handleListGroupMergeRequests),

		newTool(mcp.NewTool("get_gitlab_single_merge_request",
			mcp.WithDescription("Get a single project merge request."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithNumber("merge_request_iid", mcp.Required(), mcp.Description("Project-level merge request IID")),
			mcp.WithBoolean("render_html", mcp.Description("Include rendered HTML for title and description")),
			mcp.WithBoolean("include_diverged_commits_count", mcp.Description("Include commits behind the target branch")),
			mcp.WithBoolean("include_rebase_in_progress", mcp.Description("Include whether a rebase is in progress")),
		), ts.handleGetMergeRequest),

		newTool(mcp.NewTool("create_gitlab_merge_request",
			mcp.WithDescription("Create a merge request."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithString("source_branch", mcp.Required(), mcp.Description("Source branch")),
			mcp.WithString("target_branch", mcp.Required(), mcp.Description("Target branch")),
			mcp.WithString("title", mcp.Required(), mcp.Description("Merge request title")),
			mcp.WithString("description", mcp.Description("Merge request description")),
			mcp.WithNumber("assignee_id", mcp.Description("User ID to assign")),
			mcp.WithString("labels", mcp.Description("Comma-separated label names")),
			mcp.WithNumber("milestone_id", mcp.Description("Milestone ID")),
			mcp.WithNumber("target_project_id", mcp.Description("Target project ID, for cross-fork merge requests")),
			mcp.WithBoolean("remove_source_branch", mcp.Description("Delete the source branch on merge")),
			mcp.WithBoolean("allow_collaboration", mcp.Description("Allow commits from members who can merge to the target branch")),
			mcp.WithBoolean("squash", mcp.Description("Squash commits on merge")),
		), ts.handleCreateMergeRequest),

		newTool(mcp.NewTool("update_gitlab_merge_request",
			mcp.WithDescription("Update a merge request, including closing or reopening it."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithNumber("merge_request_iid", mcp.Required(), mcp.Description("Project-level merge request IID")),
			mcp.WithString("title", mcp.Description("New title")),
			mcp.WithString("description", mcp.Description("New description")),
			mcp.WithString("target_branch", mcp.Description("New target branch")),
			mcp.WithString("state_event", mcp.Description("State transition"), mcp.Enum("close", "reopen")),
			mcp.WithString("labels", mcp.Description("Comma-separated label names replacing the current set")),
			mcp.WithString("add_labels", mcp.Description("Comma-separated label names to add")),
			mcp.WithString("remove_labels", mcp.Description("Comma-separated label names to remove")),
			mcp.WithNumber("assignee_id", mcp.Description("User ID to assign; 0 unassigns")),
			mcp.WithNumber("milestone_id", mcp.Description("Milestone ID; 0 removes the milestone")),
			mcp.WithBoolean("remove_source_branch", mcp.Description("Delete the source branch on merge")),
			mcp.WithBoolean("squash", mcp.Description("Squash commits on merge")),
			mcp.WithBoolean("discussion_locked", mcp.Description("Lock or unlock the discussion")),
			mcp.WithBoolean("allow_collaboration", mcp.Description("Allow commits from members who can merge to the target branch")),
		), ts.handleUpdateMergeRequest),

		newTool(mcp.NewTool("delete_gitlab_merge_request",
			mcp.WithDescription("Delete a merge request. Only for administrators and project owners."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithNumber("merge_request_iid", mcp.Required(), mcp.Description("Project-level merge request IID")),
		), ts.handleDeleteMergeRequest),

		newTool(mcp.NewTool("merge_gitlab_merge_request",
			mcp.WithDescription("Merge a merge request."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithNumber("merge_request_iid", mcp.Required(), mcp.Description("Project-level merge request IID")),
			mcp.WithString("merge_commit_message", mcp.Description("Custom merge commit message")),
			mcp.WithString("squash_commit_message", mcp.Description("Custom squash commit message")),
			mcp.WithBoolean("squash", mcp.Description("Squash commits before merging")),
			mcp.WithBoolean("should_remove_source_branch", mcp.Description("Delete the source branch after merging")),
			mcp.WithBoolean("merge_when_pipeline_succeeds", mcp.Description("Merge automatically once the pipeline succeeds")),
			mcp.WithString("sha", mcp.Description("Only merge if the source branch head matches this SHA")),
		), ts.handleMergeMergeRequest),

		newTool(mcp.NewTool("rebase_gitlab_merge_request",
			mcp.WithDescription("Rebase the source branch of a merge request onto its target branch."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithNumber("merge_request_iid", mcp.Required(), mcp.Description("Project-level merge request IID")),
			mcp.WithBoolean("skip_ci", mcp.Description("Do not trigger a new pipeline for the rebase")),
		), ts.handleRebaseMergeRequest),

		newTool(mcp.NewTool("get_gitlab_single_merge_request_diff_version",
			mcp.WithDescription("Get a single diff version of a merge request."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithNumber("merge_request_iid", mcp.Required(), mcp.Description("Project-level merge request IID")),
			mcp.WithNumber("version_id", mcp.Required(), mcp.Description("Diff version ID")),
			mcp.WithBoolean("unidiff", mcp.Description("Return diffs in unified diff format")),
		), ts.handleMergeRequestDiffVersion),

		newTool(mcp.NewTool("create_gitlab_merge_request_dependency",
			mcp.WithDescription("Block a merge request on another merge request."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithNumber("merge_request_iid", mcp.Required(), mcp.Description("Project-level merge request IID")),
			mcp.WithNumber("blocking_merge_request_id", mcp.Required(), mcp.Description("ID of the merge request that blocks this one")),
		), ts.handleCreateMergeRequestDependency),

		newTool(mcp.NewTool("delete_gitlab_merge_request_dependency",
			mcp.WithDescription("Remove a block relationship from a merge request."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithNumber("merge_request_iid", mcp.Required(), mcp.Description("Project-level merge request IID")),
			mcp.WithNumber("block_id", mcp.Required(), mcp.Description("ID of the block relationship")),
		), ts.handleDeleteMergeRequestDependency),

		newTool(mcp.NewTool("set_gitlab_merge_request_time_estimate",
			mcp.WithDescription("Set the time estimate of a merge request."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithNumber("merge_request_iid", mcp.Required(), mcp.Description("Project-level merge request IID")),
			mcp.WithString("duration", mcp.Required(), mcp.Description("Human-readable duration, e.g. 3h30m")),
		), ts.handleMergeRequestTimeEstimate),

		newTool(mcp.NewTool("add_gitlab_merge_request_spent_time",
			mcp.WithDescription("Add spent time to a merge request."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithNumber("merge_request_iid", mcp.Required(), mcp.Description("Project-level merge request IID")),
			mcp.WithString("duration", mcp.Required(), mcp.Description("Human-readable duration, e.g. 3h30m")),
			mcp.WithString("summary", mcp.Description("Summary of how the time was spent")),
		), ts.handleMergeRequestAddSpentTime),
	}

	// Sub-resource reads and parameterless actions share one handler
	// shape, the same way the issue tools do.
	subresources := []struct {
		name        string
		description string
		method      string
		suffix      string
	}{
		{"list_gitlab_merge_request_participants", "List users participating in a merge request.", http.MethodGet, "/participants"},
		{"list_gitlab_merge_request_dependencies", "List merge requests blocking a merge request.", http.MethodGet, "/blocks"},
		{"list_gitlab_merge_request_blockees", "List merge requests blocked by a merge request.", http.MethodGet, "/blockees"},
		{"list_gitlab_merge_request_reviewers", "List reviewers of a merge request.", http.MethodGet, "/reviewers"},
		{"list_gitlab_merge_request_commits", "List commits of a merge request.", http.MethodGet, "/commits"},
		{"list_gitlab_merge_request_diffs", "List diffs of the files changed in a merge request.", http.MethodGet, "/diffs"},
		{"list_gitlab_merge_request_pipelines", "List pipelines of a merge request.", http.MethodGet, "/pipelines"},
		{"create_gitlab_merge_request_pipeline", "Create a new pipeline for a merge request.", http.MethodPost, "/pipelines"},
		{"get_gitlab_merge_request_merge_ref", "Get the merged result ref of a merge request.", http.MethodGet, "/merge_ref"},
		{"cancel_gitlab_merge_when_pipeline_succeeds", "Cancel merge-when-pipeline-succeeds on a merge request.", http.MethodPost, "/cancel_merge_when_pipeline_succeeds"},
		{"list_gitlab_issues_that_close_on_merge", "List issues that close when the merge request is merged.", http.MethodGet, "/closes_issues"},
		{"list_gitlab_merge_request_related_issues", "List issues related to a merge request.", http.MethodGet, "/related_issues"},
		{"subscribe_to_gitlab_merge_request", "Subscribe the authenticated user to merge request notifications.", http.MethodPost, "/subscribe"},
		{"unsubscribe_from_gitlab_merge_request", "Unsubscribe the authenticated user from merge request notifications.", http.MethodPost, "/unsubscribe"},
		{"create_gitlab_merge_request_todo", "Create a to-do item for the authenticated user on a merge request.", http.MethodPost, "/todo"},
		{"get_gitlab_merge_request_diff_versions", "List diff versions of a merge request.", http.MethodGet, "/versions"},
		{"get_gitlab_merge_request_raw_diffs", "Get the raw diffs of a merge request.", http.MethodGet, "/raw_diffs"},
		{"reset_gitlab_merge_request_time_estimate", "Reset the time estimate of a merge request to zero.", http.MethodPost, "/reset_time_estimate"},
		{"reset_gitlab_merge_request_spent_time", "Reset the spent time of a merge request to zero.", http.MethodPost, "/reset_spent_time"},
		{"get_gitlab_merge_request_time_stats", "Get time tracking statistics of a merge request.", http.MethodGet, "/time_stats"},
	}
	for _, sub := range subresources {
		tools = append(tools, newTool(mcp.NewTool(sub.name,
			mcp.WithDescription(sub.description),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithNumber("merge_request_iid", mcp.Required(), mcp.Description("Project-level merge request IID")),
		), ts.mergeRequestAction(sub.method, sub.suffix)))
	}

	return tools
}

// mergeRequestPath resolves the project and merge request IID shared by
// most merge request tools.
func mergeRequestPath(request mcp.CallToolRequest, suffix string) (string, error) {
	project, err := reqID(request, "project_id")
	if err != nil {
		return "", err
	}
	iid, err := reqInt(request, "merge_request_iid")
	if err != nil {
		return "", err
	}
	return "/projects/" + project + "/merge_requests/" + strconv.Itoa(iid) + suffix, nil
}

func (ts *Toolset) mergeRequestAction(method, suffix string) Handler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := mergeRequestPath(request, suffix)
		if err != nil {
			return errResult(err), nil
		}
		if suffix == "/raw_diffs" {
			return ts.callRaw(ctx, method, path, nil)
		}
		return ts.call(ctx, method, path, nil, nil)
	}
}

func (ts *Toolset) handleListMergeRequests(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return ts.call(ctx, http.MethodGet, "/merge_requests", queryFrom(request, mrListFilters...), nil)
}

func (ts *Toolset) handleListProjectMergeRequests(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, err := reqID(request, "project_id")
	if err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodGet, "/projects/"+project+"/merge_requests", queryFrom(request, mrListFilters...), nil)
}

func (ts *Toolset) handleListGroupMergeRequests(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	group, err := reqID(request, "group_id")
	if err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodGet, "/groups/"+group+"/merge_requests", queryFrom(request, mrListFilters...), nil)
}

func (ts *Toolset) handleGetMergeRequest(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := mergeRequestPath(request, "")
	if err != nil {
		return errResult(err), nil
	}
	query := queryFrom(request, "render_html", "include_diverged_commits_count", "include_rebase_in_progress")
	return ts.call(ctx, http.MethodGet, path, query, nil)
}

func (ts *Toolset) handleCreateMergeRequest(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, err := reqID(request, "project_id")
	if err != nil {
		return errResult(err), nil
	}
	payload := payloadFrom(request, "description", "assignee_id", "labels",
		"milestone_id", "target_project_id", "remove_source_branch",
		"allow_collaboration", "squash")
	for _, key := range []string{"source_branch", "target_branch", "title"} {
		val, err := reqString(request, key)
		if err != nil {
			return errResult(err), nil
		}
		payload[key] = val
	}
	return ts.call(ctx, http.MethodPost, "/projects/"+project+"/merge_requests", nil, payload)
}

func (ts *Toolset) handleUpdateMergeRequest(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := mergeRequestPath(request, "")
	if err != nil {
		return errResult(err), nil
	}
	payload := payloadFrom(request, "title", "description", "target_branch",
		"state_event", "labels", "add_labels", "remove_labels", "assignee_id",
		"milestone_id", "remove_source_branch", "squash", "discussion_locked",
		"allow_collaboration")
	if len(payload) == 0 {
		return errResult(&gitlab.ArgumentError{Name: "merge_request_iid", Reason: "requires at least one field to update"}), nil
	}
	return ts.call(ctx, http.MethodPut, path, nil, payload)
}

func (ts *Toolset) handleDeleteMergeRequest(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := mergeRequestPath(request, "")
	if err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodDelete, path, nil, nil)
}

func (ts *Toolset) handleMergeMergeRequest(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := mergeRequestPath(request, "/merge")
	if err != nil {
		return errResult(err), nil
	}
	payload := payloadFrom(request, "merge_commit_message", "squash_commit_message",
		"squash", "should_remove_source_branch", "merge_when_pipeline_succeeds", "sha")
	return ts.call(ctx, http.MethodPut, path, nil, payload)
}

func (ts *Toolset) handleRebaseMergeRequest(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := mergeRequestPath(request, "/rebase")
	if err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodPut, path, nil, payloadFrom(request, "skip_ci"))
}

func (ts *Toolset) handleMergeRequestDiffVersion(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	version, err := reqInt(request, "version_id")
	if err != nil {
		return errResult(err), nil
	}
	path, err := mergeRequestPath(request, "/versions/"+strconv.Itoa(version))
	if err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodGet, path, queryFrom(request, "unidiff"), nil)
}

func (ts *Toolset) handleCreateMergeRequestDependency(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := mergeRequestPath(request, "/blocks")
	if err != nil {
		return errResult(err), nil
	}
	blocking, err := reqInt(request, "blocking_merge_request_id")
	if err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodPost, path, nil, map[string]any{"blocking_merge_request_id": blocking})
}

func (ts *Toolset) handleDeleteMergeRequestDependency(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	block, err := reqInt(request, "block_id")
	if err != nil {
		return errResult(err), nil
	}
	path, err := mergeRequestPath(request, "/blocks/"+strconv.Itoa(block))
	if err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodDelete, path, nil, nil)
}

func (ts *Toolset) handleMergeRequestTimeEstimate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := mergeRequestPath(request, "/time_estimate")
	if err != nil {
		return errResult(err), nil
	}
	duration, err := reqString(request, "duration")
	if err != nil {
		return errResult(err), nil
	}
	query := url.Values{}
	query.Set("duration", duration)
	return ts.call(ctx, http.MethodPost, path, query, nil)
}

func (ts *Toolset) handleMergeRequestAddSpentTime(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := mergeRequestPath(request, "/add_spent_time")
	if err != nil {
		return errResult(err), nil
	}
	duration, err := reqString(request, "duration")
	if err != nil {
		return errResult(err), nil
	}
	query := queryFrom(request, "summary")
	query.Set("duration", duration)
	return ts.call(ctx, http.MethodPost, path, query, nil)
}
