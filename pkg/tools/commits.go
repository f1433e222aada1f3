package tools

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mark3labs/mcp-go/mcp"
)

// Commit history tools, backed by the commits API:
// https://docs.gitlab.com/ee/api/commits.html
func (ts *Toolset) commitTools() []Tool {
	return []Tool{
		newTool(mcp.NewTool("list_gitlab_repository_commits",
			mcp.WithDescription("List repository commits for a project, newest first."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithString("ref_name", mcp.Description("Branch, tag or commit range to list from")),
			mcp.WithString("since", mcp.Description("Only commits after this ISO 8601 date")),
			mcp.WithString("until", mcp.Description("Only commits before this ISO 8601 date")),
			mcp.WithString("path", mcp.Description("Only commits touching this file path")),
			mcp.WithString("author", mcp.Description("Only commits by this author")),
			mcp.WithBoolean("all", mcp.Description("Retrieve commits from every ref")),
			mcp.WithBoolean("with_stats", mcp.Description("Include addition/deletion stats per commit")),
			mcp.WithBoolean("first_parent", mcp.Description("Follow only the first parent on merge commits")),
			mcp.WithBoolean("trailers", mcp.Description("Parse and include Git trailers")),
			mcp.WithString("order", mcp.Description("Commit ordering"), mcp.Enum("default", "topo")),
			mcp.WithNumber("per_page", mcp.Description("Results per page")),
			mcp.WithNumber("page", mcp.Description("Page number")),
		), ts.handleListCommits),

		newTool(mcp.NewTool("create_gitlab_commit",
			mcp.WithDescription("Create a commit with multiple file actions (create, update, move, delete, chmod) in one call."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithString("branch", mcp.Required(), mcp.Description("Branch to commit to")),
			mcp.WithString("commit_message", mcp.Required(), mcp.Description("Commit message")),
			mcp.WithString("actions", mcp.Description("JSON array of file actions, each with action, file_path and content fields")),
			mcp.WithString("start_branch", mcp.Description("Start the new branch from this branch")),
			mcp.WithString("start_sha", mcp.Description("Start the new branch from this commit SHA")),
			mcp.WithString("start_project", mcp.Description("Project ID or path to start the new branch from")),
			mcp.WithString("author_email", mcp.Description("Commit author email")),
			mcp.WithString("author_name", mcp.Description("Commit author name")),
			mcp.WithBoolean("force", mcp.Description("Overwrite the target branch with a new commit based on start_branch or start_sha")),
			mcp.WithBoolean("stats", mcp.Description("Include commit stats in the response")),
		), ts.handleCreateCommit),

		newTool(mcp.NewTool("get_gitlab_single_commit",
			mcp.WithDescription("Get a single commit by SHA or ref name."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithString("sha", mcp.Required(), mcp.Description("Commit SHA or ref name")),
			mcp.WithBoolean("stats", mcp.Description("Include commit stats")),
		), ts.handleGetCommit),

		newTool(mcp.NewTool("get_gitlab_commit_references",
			mcp.WithDescription("List the branches and tags a commit is pushed to."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithString("sha", mcp.Required(), mcp.Description("Commit SHA")),
			mcp.WithString("type", mcp.Description("Scope of references"), mcp.Enum("branch", "tag", "all")),
		), ts.handleCommitRefs),

		newTool(mcp.NewTool("get_gitlab_commit_sequence",
			mcp.WithDescription("Get the sequence number of a commit in the project, counting from the commit itself."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithString("sha", mcp.Required(), mcp.Description("Commit SHA")),
			mcp.WithBoolean("first_parent", mcp.Description("Follow only the first parent on merge commits")),
		), ts.handleCommitSequence),

		newTool(mcp.NewTool("cherry_pick_gitlab_commit",
			mcp.WithDescription("Cherry-pick a commit onto a target branch."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithString("sha", mcp.Required(), mcp.Description("Commit SHA to cherry-pick")),
			mcp.WithString("branch", mcp.Required(), mcp.Description("Target branch name")),
			mcp.WithBoolean("dry_run", mcp.Description("Check whether the commit applies cleanly without committing")),
			mcp.WithString("message", mcp.Description("Custom commit message for the new commit")),
		), ts.handleCherryPick),

		newTool(mcp.NewTool("revert_gitlab_commit",
			mcp.WithDescription("Revert a commit on a target branch."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithString("sha", mcp.Required(), mcp.Description("Commit SHA to revert")),
			mcp.WithString("branch", mcp.Required(), mcp.Description("Target branch name")),
			mcp.WithBoolean("dry_run", mcp.Description("Check whether the revert applies cleanly without committing")),
		), ts.handleRevertCommit),

		newTool(mcp.NewTool("get_gitlab_commit_diff",
			mcp.WithDescription("Get the diff of a commit."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithString("sha", mcp.Required(), mcp.Description("Commit SHA")),
			mcp.WithBoolean("unidiff", mcp.Description("Return diffs in unified diff format")),
		), ts.handleCommitDiff),

		newTool(mcp.NewTool("get_gitlab_commit_comments",
			mcp.WithDescription("List comments on a commit."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithString("sha", mcp.Required(), mcp.Description("Commit SHA")),
		), ts.handleCommitComments),

		newTool(mcp.NewTool("post_gitlab_commit_comment",
			mcp.WithDescription("Add a comment to a commit, optionally anchored to a file line."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithString("sha", mcp.Required(), mcp.Description("Commit SHA")),
			mcp.WithString("note", mcp.Required(), mcp.Description("Comment text")),
			mcp.WithString("path", mcp.Description("File path to anchor the comment to")),
			mcp.WithNumber("line", mcp.Description("Line number in the file")),
			mcp.WithString("line_type", mcp.Description("Line type"), mcp.Enum("new", "old")),
		), ts.handlePostCommitComment),

		newTool(mcp.NewTool("get_gitlab_commit_discussions",
			mcp.WithDescription("List discussion threads on a commit."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithString("sha", mcp.Required(), mcp.Description("Commit SHA")),
		), ts.handleCommitDiscussions),

		newTool(mcp.NewTool("list_gitlab_commit_statuses",
			mcp.WithDescription("List CI statuses of a commit."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithString("sha", mcp.Required(), mcp.Description("Commit SHA")),
			mcp.WithString("ref", mcp.Description("Branch or tag to filter by")),
			mcp.WithString("stage", mcp.Description("CI stage to filter by")),
			mcp.WithString("name", mcp.Description("Job name to filter by")),
			mcp.WithNumber("pipeline_id", mcp.Description("Pipeline ID to filter by")),
			mcp.WithBoolean("all", mcp.Description("Include all statuses instead of the latest per job")),
			mcp.WithString("order_by", mcp.Description("Ordering field"), mcp.Enum("id", "pipeline_id")),
			mcp.WithString("sort", mcp.Description("Sort order"), mcp.Enum("asc", "desc")),
			mcp.WithNumber("per_page", mcp.Description("Results per page")),
			mcp.WithNumber("page", mcp.Description("Page number")),
		), ts.handleCommitStatuses),

		newTool(mcp.NewTool("set_gitlab_commit_pipeline_status",
			mcp.WithDescription("Post a CI status on a commit."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithString("sha", mcp.Required(), mcp.Description("Commit SHA")),
			mcp.WithString("state", mcp.Required(), mcp.Description("Status state"), mcp.Enum("pending", "running", "success", "failed", "canceled")),
			mcp.WithString("ref", mcp.Description("Branch or tag the status applies to")),
			mcp.WithString("name", mcp.Description("Status name or label")),
			mcp.WithString("context", mcp.Description("Alias for name")),
			mcp.WithString("target_url", mcp.Description("URL to link from the status")),
			mcp.WithString("description", mcp.Description("Short status description")),
			mcp.WithNumber("coverage", mcp.Description("Total code coverage")),
			mcp.WithNumber("pipeline_id", mcp.Description("Pipeline ID to set the status on")),
		), ts.handleSetCommitStatus),

		newTool(mcp.NewTool("list_gitlab_commit_merge_requests",
			mcp.WithDescription("List merge requests associated with a commit."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithString("sha", mcp.Required(), mcp.Description("Commit SHA")),
			mcp.WithString("state", mcp.Description("Merge request state to filter by"), mcp.Enum("opened", "closed", "locked", "merged")),
		), ts.handleCommitMergeRequests),

		newTool(mcp.NewTool("get_gitlab_commit_signature",
			mcp.WithDescription("Get the GPG/X.509/SSH signature of a signed commit."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithString("sha", mcp.Required(), mcp.Description("Commit SHA")),
		), ts.handleCommitSignature),
	}
}

// commitPath resolves the two path arguments shared by most commit
// tools.
func commitPath(request mcp.CallToolRequest, suffix string) (string, error) {
	project, err := reqID(request, "project_id")
	if err != nil {
		return "", err
	}
	sha, err := reqString(request, "sha")
	if err != nil {
		return "", err
	}
	return "/projects/" + project + "/repository/commits/" + url.PathEscape(sha) + suffix, nil
}

func (ts *Toolset) handleListCommits(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, err := reqID(request, "project_id")
	if err != nil {
		return errResult(err), nil
	}
	query := queryFrom(request, "ref_name", "since", "until", "path", "author",
		"all", "with_stats", "first_parent", "trailers", "order", "per_page", "page")
	return ts.call(ctx, http.MethodGet, "/projects/"+project+"/repository/commits", query, nil)
}

func (ts *Toolset) handleCreateCommit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, err := reqID(request, "project_id")
	if err != nil {
		return errResult(err), nil
	}
	branch, err := reqString(request, "branch")
	if err != nil {
		return errResult(err), nil
	}
	message, err := reqString(request, "commit_message")
	if err != nil {
		return errResult(err), nil
	}
	actions, err := jsonArrayArg(request, "actions")
	if err != nil {
		return errResult(err), nil
	}

	payload := payloadFrom(request, "start_branch", "start_sha", "start_project",
		"author_email", "author_name", "force", "stats")
	payload["branch"] = branch
	payload["commit_message"] = message
	payload["actions"] = actions
	return ts.call(ctx, http.MethodPost, "/projects/"+project+"/repository/commits", nil, payload)
}

func (ts *Toolset) handleGetCommit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := commitPath(request, "")
	if err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodGet, path, queryFrom(request, "stats"), nil)
}

func (ts *Toolset) handleCommitRefs(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := commitPath(request, "/refs")
	if err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodGet, path, queryFrom(request, "type"), nil)
}

func (ts *Toolset) handleCommitSequence(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := commitPath(request, "/sequence")
	if err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodGet, path, queryFrom(request, "first_parent"), nil)
}

func (ts *Toolset) handleCherryPick(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := commitPath(request, "/cherry_pick")
	if err != nil {
		return errResult(err), nil
	}
	branch, err := reqString(request, "branch")
	if err != nil {
		return errResult(err), nil
	}
	payload := payloadFrom(request, "dry_run", "message")
	payload["branch"] = branch
	return ts.call(ctx, http.MethodPost, path, nil, payload)
}

func (ts *Toolset) handleRevertCommit(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := commitPath(request, "/revert")
	if err != nil {
		return errResult(err), nil
	}
	branch, err := reqString(request, "branch")
	if err != nil {
		return errResult(err), nil
	}
	payload := payloadFrom(request, "dry_run")
	payload["branch"] = branch
	return ts.call(ctx, http.MethodPost, path, nil, payload)
}

func (ts *Toolset) handleCommitDiff(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := commitPath(request, "/diff")
	if err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodGet, path, queryFrom(request, "unidiff"), nil)
}

func (ts *Toolset) handleCommitComments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := commitPath(request, "/comments")
	if err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodGet, path, nil, nil)
}

func (ts *Toolset) handlePostCommitComment(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := commitPath(request, "/comments")
	if err != nil {
		return errResult(err), nil
	}
	note, err := reqString(request, "note")
	if err != nil {
		return errResult(err), nil
	}
	payload := payloadFrom(request, "path", "line", "line_type")
	payload["note"] = note
	return ts.call(ctx, http.MethodPost, path, nil, payload)
}

func (ts *Toolset) handleCommitDiscussions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := commitPath(request, "/discussions")
	if err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodGet, path, nil, nil)
}

func (ts *Toolset) handleCommitStatuses(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := commitPath(request, "/statuses")
	if err != nil {
		return errResult(err), nil
	}
	query := queryFrom(request, "ref", "stage", "name", "pipeline_id", "all",
		"order_by", "sort", "per_page", "page")
	return ts.call(ctx, http.MethodGet, path, query, nil)
}

func (ts *Toolset) handleSetCommitStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, err := reqID(request, "project_id")
	if err != nil {
		return errResult(err), nil
	}
	sha, err := reqString(request, "sha")
	if err != nil {
		return errResult(err), nil
	}
	state, err := reqString(request, "state")
	if err != nil {
		return errResult(err), nil
	}
	payload := payloadFrom(request, "ref", "name", "context", "target_url",
		"description", "coverage", "pipeline_id")
	payload["state"] = state
	return ts.call(ctx, http.MethodPost, "/projects/"+project+"/statuses/"+url.PathEscape(sha), nil, payload)
}

func (ts *Toolset) handleCommitMergeRequests(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := commitPath(request, "/merge_requests")
	if err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodGet, path, queryFrom(request, "state"), nil)
}

func (ts *Toolset) handleCommitSignature(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := commitPath(request, "/signature")
	if err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodGet, path, nil, nil)
}
