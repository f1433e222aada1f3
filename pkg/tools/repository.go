package tools

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/BharadwajVedula1256/gitlab-mcp/pkg/gitlab"
)

// Repository metadata tools, backed by the repositories API:
// https://docs.gitlab.com/ee/api/repositories.html
func (ts *Toolset) repositoryTools() []Tool {
	return []Tool{
		newTool(mcp.NewTool("list_gitlab_repository_tree",
			mcp.WithDescription("List files and directories in a repository tree."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithString("ref", mcp.Description("Branch, tag or commit SHA; defaults to the default branch")),
			mcp.WithString("path", mcp.Description("Subdirectory path to list")),
			mcp.WithBoolean("recursive", mcp.Description("Descend into subdirectories")),
			mcp.WithString("pagination", mcp.Description("Pagination method"), mcp.Enum("keyset", "none")),
			mcp.WithString("page_token", mcp.Description("Keyset pagination token from a previous page")),
			mcp.WithNumber("per_page", mcp.Description("Results per page")),
		), ts.handleRepositoryTree),

		newTool(mcp.NewTool("get_gitlab_blob",
			mcp.WithDescription("Get blob metadata and base64-encoded content by SHA."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithString("sha", mcp.Required(), mcp.Description("Blob SHA")),
		), ts.handleBlob),

		newTool(mcp.NewTool("get_raw_gitlab_blob",
			mcp.WithDescription("Get raw blob content by SHA."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithString("sha", mcp.Required(), mcp.Description("Blob SHA")),
		), ts.handleRawBlob),

		newTool(mcp.NewTool("get_gitlab_file_archive",
			mcp.WithDescription("Download a repository archive (tar.gz, zip, ...) at an optional ref and path."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithString("format", mcp.Description("Archive format"), mcp.Enum("tar.gz", "tar.bz2", "tbz", "tbz2", "tb2", "bz2", "tar", "zip")),
			mcp.WithString("sha", mcp.Description("Commit SHA or ref to archive; defaults to the default branch head")),
			mcp.WithString("path", mcp.Description("Subpath of the repository to include")),
		), ts.handleArchive),

		newTool(mcp.NewTool("compare_gitlab_refs",
			mcp.WithDescription("Compare two branches, tags or commits."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithString("from", mcp.Required(), mcp.Description("Source branch, tag or commit SHA")),
			mcp.WithString("to", mcp.Required(), mcp.Description("Target branch, tag or commit SHA")),
			mcp.WithNumber("from_project_id", mcp.Description("Project to compare from, for fork comparisons")),
			mcp.WithBoolean("straight", mcp.Description("Compare with the straight diff instead of the merge base")),
			mcp.WithBoolean("unidiff", mcp.Description("Return diffs in unified diff format")),
		), ts.handleCompare),

		newTool(mcp.NewTool("get_gitlab_contributors",
			mcp.WithDescription("List repository contributors with commit counts."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithString("ref", mcp.Description("Branch, tag or commit SHA; defaults to the default branch")),
			mcp.WithString("order_by", mcp.Description("Ordering field"), mcp.Enum("name", "email", "commits")),
			mcp.WithString("sort", mcp.Description("Sort order"), mcp.Enum("asc", "desc")),
		), ts.handleContributors),

		newTool(mcp.NewTool("get_gitlab_merge_base",
			mcp.WithDescription("Find the common ancestor of two or more refs."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithString("refs", mcp.Required(), mcp.Description("JSON array of refs, e.g. [\"main\", \"feature\"]")),
		), ts.handleMergeBase),

		newTool(mcp.NewTool("generate_gitlab_changelog_data",
			mcp.WithDescription("Generate changelog data for a version without committing it."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithString("version", mcp.Required(), mcp.Description("Version to generate the changelog for, following semantic versioning")),
			mcp.WithString("config_file", mcp.Description("Path of the changelog configuration file")),
			mcp.WithString("date", mcp.Description("Release date and time, ISO 8601")),
			mcp.WithString("from", mcp.Description("Start commit SHA of the changelog range")),
			mcp.WithString("to", mcp.Description("End commit SHA of the changelog range")),
			mcp.WithString("trailer", mcp.Description("Git trailer used to include commits")),
		), ts.handleGenerateChangelog),

		newTool(mcp.NewTool("add_gitlab_changelog_data",
			mcp.WithDescription("Generate changelog data for a version and commit it to a changelog file."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithString("version", mcp.Required(), mcp.Description("Version to generate the changelog for, following semantic versioning")),
			mcp.WithString("branch", mcp.Description("Branch to commit the changelog to")),
			mcp.WithString("config_file", mcp.Description("Path of the changelog configuration file")),
			mcp.WithString("date", mcp.Description("Release date and time, ISO 8601")),
			mcp.WithString("file", mcp.Description("File to commit the changes to, default CHANGELOG.md")),
			mcp.WithString("from", mcp.Description("Start commit SHA of the changelog range")),
			mcp.WithString("to", mcp.Description("End commit SHA of the changelog range")),
			mcp.WithString("message", mcp.Description("Commit message")),
			mcp.WithString("trailer", mcp.Description("Git trailer used to include commits")),
		), ts.handleAddChangelog),

		newTool(mcp.NewTool("update_gitlab_submodule_reference",
			mcp.WithDescription("Update a submodule reference to a new commit on a branch."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithString("submodule", mcp.Required(), mcp.Description("Submodule path, URL-encoded")),
			mcp.WithString("branch", mcp.Required(), mcp.Description("Branch to commit to")),
			mcp.WithString("commit_sha", mcp.Required(), mcp.Description("Commit SHA to point the submodule to")),
			mcp.WithString("commit_message", mcp.Description("Commit message")),
		), ts.handleUpdateSubmodule),
	}
}

func (ts *Toolset) handleRepositoryTree(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, err := reqID(request, "project_id")
	if err != nil {
		return errResult(err), nil
	}
	query := queryFrom(request, "ref", "path", "recursive", "pagination", "page_token", "per_page")
	return ts.call(ctx, http.MethodGet, "/projects/"+project+"/repository/tree", query, nil)
}

func (ts *Toolset) handleBlob(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, err := reqID(request, "project_id")
	if err != nil {
		return errResult(err), nil
	}
	sha, err := reqString(request, "sha")
	if err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodGet, "/projects/"+project+"/repository/blobs/"+url.PathEscape(sha), nil, nil)
}

func (ts *Toolset) handleRawBlob(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, err := reqID(request, "project_id")
	if err != nil {
		return errResult(err), nil
	}
	sha, err := reqString(request, "sha")
	if err != nil {
		return errResult(err), nil
	}
	return ts.callRaw(ctx, http.MethodGet, "/projects/"+project+"/repository/blobs/"+url.PathEscape(sha)+"/raw", nil)
}

func (ts *Toolset) handleArchive(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, err := reqID(request, "project_id")
	if err != nil {
		return errResult(err), nil
	}
	format := optString(request, "format")
	if format == "" {
		format = "tar.gz"
	}
	query := queryFrom(request, "sha", "path")
	return ts.callRaw(ctx, http.MethodGet, "/projects/"+project+"/repository/archive."+format, query)
}

func (ts *Toolset) handleCompare(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, err := reqID(request, "project_id")
	if err != nil {
		return errResult(err), nil
	}
	from, err := reqString(request, "from")
	if err != nil {
		return errResult(err), nil
	}
	to, err := reqString(request, "to")
	if err != nil {
		return errResult(err), nil
	}
	query := queryFrom(request, "from_project_id", "straight", "unidiff")
	query.Set("from", from)
	query.Set("to", to)
	return ts.call(ctx, http.MethodGet, "/projects/"+project+"/repository/compare", query, nil)
}

func (ts *Toolset) handleContributors(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, err := reqID(request, "project_id")
	if err != nil {
		return errResult(err), nil
	}
	query := queryFrom(request, "ref", "order_by", "sort")
	return ts.call(ctx, http.MethodGet, "/projects/"+project+"/repository/contributors", query, nil)
}

func (ts *Toolset) handleMergeBase(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, err := reqID(request, "project_id")
	if err != nil {
		return errResult(err), nil
	}
	refs, err := jsonArrayArg(request, "refs")
	if err != nil {
		return errResult(err), nil
	}
	if len(refs) < 2 {
		return errResult(&gitlab.ArgumentError{Name: "refs", Reason: "needs at least two refs"}), nil
	}
	query := url.Values{}
	for _, ref := range refs {
		s, ok := ref.(string)
		if !ok {
			return errResult(&gitlab.ArgumentError{Name: "refs", Reason: "must contain only strings"}), nil
		}
		query.Add("refs[]", s)
	}
	return ts.call(ctx, http.MethodGet, "/projects/"+project+"/repository/merge_base", query, nil)
}

func (ts *Toolset) handleGenerateChangelog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, err := reqID(request, "project_id")
	if err != nil {
		return errResult(err), nil
	}
	version, err := reqString(request, "version")
	if err != nil {
		return errResult(err), nil
	}
	query := queryFrom(request, "config_file", "date", "from", "to", "trailer")
	query.Set("version", version)
	return ts.call(ctx, http.MethodGet, "/projects/"+project+"/repository/changelog", query, nil)
}

func (ts *Toolset) handleAddChangelog(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, err := reqID(request, "project_id")
	if err != nil {
		return errResult(err), nil
	}
	version, err := reqString(request, "version")
	if err != nil {
		return errResult(err), nil
	}
	payload := payloadFrom(request, "branch", "config_file", "date", "file", "from", "to", "message", "trailer")
	payload["version"] = version
	return ts.call(ctx, http.MethodPost, "/projects/"+project+"/repository/changelog", nil, payload)
}

func (ts *Toolset) handleUpdateSubmodule(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, err := reqID(request, "project_id")
	if err != nil {
		return errResult(err), nil
	}
	submodule, err := reqString(request, "submodule")
	if err != nil {
		return errResult(err), nil
	}
	branch, err := reqString(request, "branch")
	if err != nil {
		return errResult(err), nil
	}
	commitSHA, err := reqString(request, "commit_sha")
	if err != nil {
		return errResult(err), nil
	}
	payload := payloadFrom(request, "commit_message")
	payload["branch"] = branch
	payload["commit_sha"] = commitSHA
	return ts.call(ctx, http.MethodPut, "/projects/"+project+"/repository/submodules/"+url.PathEscape(submodule), nil, payload)
}
