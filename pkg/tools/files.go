package tools

import (
	"context"
	"net/http"
	"net/url"

	"github.com/mark3labs/mcp-go/mcp"
)

// Repository file tools, backed by the repository files API:
// https://docs.gitlab.com/ee/api/repository_files.html
func (ts *Toolset) fileTools() []Tool {
	return []Tool{
		newTool(mcp.NewTool("create_gitlab_file",
			mcp.WithDescription("Create a new file in a repository with a single commit."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithString("file_path", mcp.Required(), mcp.Description("Path of the new file, e.g. docs/intro.md")),
			mcp.WithString("branch", mcp.Required(), mcp.Description("Branch to commit to")),
			mcp.WithString("content", mcp.Required(), mcp.Description("File content")),
			mcp.WithString("commit_message", mcp.Required(), mcp.Description("Commit message")),
			mcp.WithString("encoding", mcp.Description("Content encoding"), mcp.Enum("text", "base64")),
			mcp.WithString("author_email", mcp.Description("Commit author email")),
			mcp.WithString("author_name", mcp.Description("Commit author name")),
			mcp.WithString("start_branch", mcp.Description("Start a new branch from this branch")),
			mcp.WithBoolean("execute_filemode", mcp.Description("Enable the execute flag on the file")),
		), ts.handleCreateFile),

		newTool(mcp.NewTool("update_gitlab_file",
			mcp.WithDescription("Update an existing repository file with a single commit."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithString("file_path", mcp.Required(), mcp.Description("Path of the file to update")),
			mcp.WithString("branch", mcp.Required(), mcp.Description("Branch to commit to")),
			mcp.WithString("content", mcp.Required(), mcp.Description("New file content")),
			mcp.WithString("commit_message", mcp.Required(), mcp.Description("Commit message")),
			mcp.WithString("encoding", mcp.Description("Content encoding"), mcp.Enum("text", "base64")),
			mcp.WithString("author_email", mcp.Description("Commit author email")),
			mcp.WithString("author_name", mcp.Description("Commit author name")),
			mcp.WithString("last_commit_id", mcp.Description("Last known commit SHA of the file, for conflict detection")),
			mcp.WithString("start_branch", mcp.Description("Start a new branch from this branch")),
			mcp.WithBoolean("execute_filemode", mcp.Description("Enable the execute flag on the file")),
		), ts.handleUpdateFile),

		newTool(mcp.NewTool("delete_gitlab_file",
			mcp.WithDescription("Delete a repository file with a single commit."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithString("file_path", mcp.Required(), mcp.Description("Path of the file to delete")),
			mcp.WithString("branch", mcp.Required(), mcp.Description("Branch to commit to")),
			mcp.WithString("commit_message", mcp.Required(), mcp.Description("Commit message")),
			mcp.WithString("author_email", mcp.Description("Commit author email")),
			mcp.WithString("author_name", mcp.Description("Commit author name")),
			mcp.WithString("last_commit_id", mcp.Description("Last known commit SHA of the file, for conflict detection")),
			mcp.WithString("start_branch", mcp.Description("Start a new branch from this branch")),
		), ts.handleDeleteFile),

		newTool(mcp.NewTool("get_raw_gitlab_file",
			mcp.WithDescription("Get the raw content of a repository file at a given ref."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithString("file_path", mcp.Required(), mcp.Description("Path of the file")),
			mcp.WithString("ref", mcp.Required(), mcp.Description("Branch, tag or commit SHA")),
			mcp.WithBoolean("lfs", mcp.Description("Resolve LFS pointers to the actual file content")),
		), ts.handleRawFile),

		newTool(mcp.NewTool("get_gitlab_file_metadata_and_content",
			mcp.WithDescription("Get file metadata together with base64-encoded content."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithString("file_path", mcp.Required(), mcp.Description("Path of the file")),
			mcp.WithString("ref", mcp.Required(), mcp.Description("Branch, tag or commit SHA")),
		), ts.handleFileInfo),

		newTool(mcp.NewTool("get_gitlab_file_blame",
			mcp.WithDescription("Get blame information for a repository file."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithString("file_path", mcp.Required(), mcp.Description("Path of the file")),
			mcp.WithString("ref", mcp.Required(), mcp.Description("Branch, tag or commit SHA")),
			mcp.WithNumber("range_start", mcp.Description("First line of the blame range")),
			mcp.WithNumber("range_end", mcp.Description("Last line of the blame range")),
		), ts.handleFileBlame),
	}
}

// filePath resolves the project and file path arguments shared by the
// file tools. The file path is a single URL-encoded path segment.
func filePath(request mcp.CallToolRequest, suffix string) (string, error) {
	project, err := reqID(request, "project_id")
	if err != nil {
		return "", err
	}
	file, err := reqString(request, "file_path")
	if err != nil {
		return "", err
	}
	return "/projects/" + project + "/repository/files/" + url.PathEscape(file) + suffix, nil
}

func (ts *Toolset) handleCreateFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := filePath(request, "")
	if err != nil {
		return errResult(err), nil
	}
	payload, err := fileCommitPayload(request, "content", "commit_message")
	if err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodPost, path, nil, payload)
}

func (ts *Toolset) handleUpdateFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := filePath(request, "")
	if err != nil {
		return errResult(err), nil
	}
	payload, err := fileCommitPayload(request, "content", "commit_message")
	if err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodPut, path, nil, payload)
}

func (ts *Toolset) handleDeleteFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := filePath(request, "")
	if err != nil {
		return errResult(err), nil
	}
	payload, err := fileCommitPayload(request, "commit_message")
	if err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodDelete, path, nil, payload)
}

// fileCommitPayload assembles the shared commit body for file writes:
// the listed required fields plus the optional commit attributes.
func fileCommitPayload(request mcp.CallToolRequest, required ...string) (map[string]any, error) {
	payload := payloadFrom(request, "encoding", "author_email", "author_name",
		"last_commit_id", "start_branch", "execute_filemode")
	branch, err := reqString(request, "branch")
	if err != nil {
		return nil, err
	}
	payload["branch"] = branch
	for _, key := range required {
		val, err := reqString(request, key)
		if err != nil {
			return nil, err
		}
		payload[key] = val
	}
	return payload, nil
}

func (ts *Toolset) handleRawFile(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := filePath(request, "/raw")
	if err != nil {
		return errResult(err), nil
	}
	ref, err := reqString(request, "ref")
	if err != nil {
		return errResult(err), nil
	}
	query := queryFrom(request, "lfs")
	query.Set("ref", ref)
	return ts.callRaw(ctx, http.MethodGet, path, query)
}

func (ts *Toolset) handleFileInfo(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := filePath(request, "")
	if err != nil {
		return errResult(err), nil
	}
	ref, err := reqString(request, "ref")
	if err != nil {
		return errResult(err), nil
	}
	query := url.Values{}
	query.Set("ref", ref)
	return ts.call(ctx, http.MethodGet, path, query, nil)
}

func (ts *Toolset) handleFileBlame(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := filePath(request, "/blame")
	if err != nil {
		return errResult(err), nil
	}
	ref, err := reqString(request, "ref")
	if err != nil {
		return errResult(err), nil
	}
	query := url.Values{}
	query.Set("ref", ref)
	if start, ok := request.Params.Arguments["range_start"].(float64); ok {
		query.Set("range[start]", formatNumber(start))
	}
	if end, ok := request.Params.Arguments["range_end"].(float64); ok {
		query.Set("range[end]", formatNumber(end))
	}
	return ts.call(ctx, http.MethodGet, path, query, nil)
}
