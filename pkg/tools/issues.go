package tools

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/BharadwajVedula1256/gitlab-mcp/pkg/gitlab"
)

// Issue tracking tools, backed by the issues API:
// https://docs.gitlab.com/ee/api/issues.html
func (ts *Toolset) issueTools() []Tool {
	return []Tool{
		newTool(mcp.NewTool("list_issues",
			mcp.WithDescription("List issues visible to the authenticated user across all of GitLab."),
			mcp.WithString("state", mcp.Description("Issue state"), mcp.Enum("opened", "closed")),
			mcp.WithString("labels", mcp.Description("Comma-separated label names; an issue must have all of them")),
			mcp.WithString("milestone", mcp.Description("Milestone title")),
			mcp.WithString("scope", mcp.Description("Scope of issues"), mcp.Enum("created_by_me", "assigned_to_me", "all")),
			mcp.WithNumber("author_id", mcp.Description("Filter by author user ID")),
			mcp.WithString("author_username", mcp.Description("Filter by author username")),
			mcp.WithNumber("assignee_id", mcp.Description("Filter by assignee user ID")),
			mcp.WithString("assignee_username", mcp.Description("Filter by assignee username")),
			mcp.WithString("my_reaction_emoji", mcp.Description("Filter by issues the user reacted to with this emoji")),
			mcp.WithString("search", mcp.Description("Search issues by title and description")),
			mcp.WithString("in", mcp.Description("Fields the search applies to, e.g. title,description")),
			mcp.WithString("issue_type", mcp.Description("Issue type"), mcp.Enum("issue", "incident", "test_case", "task")),
			mcp.WithBoolean("confidential", mcp.Description("Filter confidential issues")),
			mcp.WithString("created_after", mcp.Description("Created after this ISO 8601 date")),
			mcp.WithString("created_before", mcp.Description("Created before this ISO 8601 date")),
			mcp.WithString("updated_after", mcp.Description("Updated after this ISO 8601 date")),
			mcp.WithString("updated_before", mcp.Description("Updated before this ISO 8601 date")),
			mcp.WithString("due_date", mcp.Description("Due date filter, e.g. overdue, week, month")),
			mcp.WithString("order_by", mcp.Description("Ordering field")),
			mcp.WithString("sort", mcp.Description("Sort order"), mcp.Enum("asc", "desc")),
			mcp.WithBoolean("with_labels_details", mcp.Description("Include full label details")),
			mcp.WithNumber("per_page", mcp.Description("Results per page")),
			mcp.WithNumber("page", mcp.Description("Page number")),
		), ts.handleListIssues),

		newTool(mcp.NewTool("list_project_issues",
			mcp.WithDescription("List issues of a project."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithString("state", mcp.Description("Issue state"), mcp.Enum("opened", "closed")),
			mcp.WithString("labels", mcp.Description("Comma-separated label names; an issue must have all of them")),
			mcp.WithString("milestone", mcp.Description("Milestone title")),
			mcp.WithString("scope", mcp.Description("Scope of issues"), mcp.Enum("created_by_me", "assigned_to_me", "all")),
			mcp.WithNumber("author_id", mcp.Description("Filter by author user ID")),
			mcp.WithNumber("assignee_id", mcp.Description("Filter by assignee user ID")),
			mcp.WithString("search", mcp.Description("Search issues by title and description")),
			mcp.WithString("issue_type", mcp.Description("Issue type"), mcp.Enum("issue", "incident", "test_case", "task")),
			mcp.WithBoolean("confidential", mcp.Description("Filter confidential issues")),
			mcp.WithString("created_after", mcp.Description("Created after this ISO 8601 date")),
			mcp.WithString("created_before", mcp.Description("Created before this ISO 8601 date")),
			mcp.WithString("updated_after", mcp.Description("Updated after this ISO 8601 date")),
			mcp.WithString("updated_before", mcp.Description("Updated before this ISO 8601 date")),
			mcp.WithString("due_date", mcp.Description("Due date filter, e.g. overdue, week, month")),
			mcp.WithString("order_by", mcp.Description("Ordering field")),
			mcp.WithString("sort", mcp.Description("Sort order"), mcp.Enum("asc", "desc")),
			mcp.WithBoolean("with_labels_details", mcp.Description("Include full label details")),
			mcp.WithNumber("per_page", mcp.Description("Results per page")),
			mcp.WithNumber("page", mcp.Description("Page number")),
		), ts.handleListProjectIssues),

		newTool(mcp.NewTool("get_single_issue",
			mcp.WithDescription("Get a single issue by its global ID."),
			mcp.WithNumber("issue_id", mcp.Required(), mcp.Description("Global issue ID")),
		), ts.handleGetIssue),

		newTool(mcp.NewTool("create_new_issue",
			mcp.WithDescription("Create a new issue in a project."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithString("title", mcp.Required(), mcp.Description("Issue title")),
			mcp.WithString("description", mcp.Description("Issue description")),
			mcp.WithString("labels", mcp.Description("Comma-separated label names")),
			mcp.WithNumber("assignee_id", mcp.Description("User ID to assign the issue to")),
			mcp.WithNumber("milestone_id", mcp.Description("Milestone ID")),
			mcp.WithString("due_date", mcp.Description("Due date, YYYY-MM-DD")),
			mcp.WithBoolean("confidential", mcp.Description("Create as confidential")),
			mcp.WithString("issue_type", mcp.Description("Issue type"), mcp.Enum("issue", "incident", "test_case", "task")),
			mcp.WithNumber("epic_id", mcp.Description("Epic ID to attach the issue to")),
			mcp.WithNumber("weight", mcp.Description("Issue weight")),
		), ts.handleCreateIssue),

		newTool(mcp.NewTool("edit_issue",
			mcp.WithDescription("Update an existing project issue, including closing or reopening it."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithNumber("issue_iid", mcp.Required(), mcp.Description("Project-level issue IID")),
			mcp.WithString("title", mcp.Description("New title")),
			mcp.WithString("description", mcp.Description("New description")),
			mcp.WithString("state_event", mcp.Description("State transition"), mcp.Enum("close", "reopen")),
			mcp.WithString("labels", mcp.Description("Comma-separated label names replacing the current set")),
			mcp.WithString("add_labels", mcp.Description("Comma-separated label names to add")),
			mcp.WithString("remove_labels", mcp.Description("Comma-separated label names to remove")),
			mcp.WithNumber("milestone_id", mcp.Description("Milestone ID")),
			mcp.WithString("due_date", mcp.Description("Due date, YYYY-MM-DD")),
			mcp.WithBoolean("confidential", mcp.Description("Set confidentiality")),
			mcp.WithBoolean("discussion_locked", mcp.Description("Lock or unlock the discussion")),
			mcp.WithString("issue_type", mcp.Description("Issue type"), mcp.Enum("issue", "incident", "test_case", "task")),
			mcp.WithNumber("epic_id", mcp.Description("Epic ID")),
			mcp.WithNumber("weight", mcp.Description("Issue weight")),
		), ts.handleEditIssue),

		newTool(mcp.NewTool("delete_issue",
			mcp.WithDescription("Delete a project issue. Only for administrators and project owners."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithNumber("issue_iid", mcp.Required(), mcp.Description("Project-level issue IID")),
		), ts.handleDeleteIssue),

		newTool(mcp.NewTool("reorder_issue",
			mcp.WithDescription("Reorder an issue relative to other issues on a board."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithNumber("issue_iid", mcp.Required(), mcp.Description("Project-level issue IID")),
			mcp.WithNumber("move_after_id", mcp.Description("Global ID of the issue to place this issue after")),
			mcp.WithNumber("move_before_id", mcp.Description("Global ID of the issue to place this issue before")),
		), ts.handleReorderIssue),

		newTool(mcp.NewTool("move_issue",
			mcp.WithDescription("Move an issue to a different project."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithNumber("issue_iid", mcp.Required(), mcp.Description("Project-level issue IID")),
			mcp.WithNumber("to_project_id", mcp.Required(), mcp.Description("ID of the destination project")),
		), ts.handleMoveIssue),

		newTool(mcp.NewTool("clone_issue",
			mcp.WithDescription("Clone an issue to a different project."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithNumber("issue_iid", mcp.Required(), mcp.Description("Project-level issue IID")),
			mcp.WithNumber("to_project_id", mcp.Required(), mcp.Description("ID of the destination project")),
			mcp.WithBoolean("with_notes", mcp.Description("Clone the issue together with its notes")),
		), ts.handleCloneIssue),

		newTool(mcp.NewTool("subscribe_to_issue",
			mcp.WithDescription("Subscribe the authenticated user to issue notifications."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithNumber("issue_iid", mcp.Required(), mcp.Description("Project-level issue IID")),
		), ts.issueAction(http.MethodPost, "/subscribe")),

		newTool(mcp.NewTool("unsubscribe_from_issue",
			mcp.WithDescription("Unsubscribe the authenticated user from issue notifications."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithNumber("issue_iid", mcp.Required(), mcp.Description("Project-level issue IID")),
		), ts.issueAction(http.MethodPost, "/unsubscribe")),

		newTool(mcp.NewTool("create_todo_on_issue",
			mcp.WithDescription("Create a to-do item for the authenticated user on an issue."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithNumber("issue_iid", mcp.Required(), mcp.Description("Project-level issue IID")),
		), ts.issueAction(http.MethodPost, "/todo")),

		newTool(mcp.NewTool("set_issue_time_estimate",
			mcp.WithDescription("Set the time estimate of an issue."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithNumber("issue_iid", mcp.Required(), mcp.Description("Project-level issue IID")),
			mcp.WithString("duration", mcp.Required(), mcp.Description("Human-readable duration, e.g. 3h30m")),
		), ts.handleIssueTimeEstimate),

		newTool(mcp.NewTool("reset_issue_time_estimate",
			mcp.WithDescription("Reset the time estimate of an issue to zero."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithNumber("issue_iid", mcp.Required(), mcp.Description("Project-level issue IID")),
		), ts.issueAction(http.MethodPost, "/reset_time_estimate")),

		newTool(mcp.NewTool("add_spent_time_for_issue",
			mcp.WithDescription("Add spent time to an issue."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithNumber("issue_iid", mcp.Required(), mcp.Description("Project-level issue IID")),
			mcp.WithString("duration", mcp.Required(), mcp.Description("Human-readable duration, e.g. 3h30m")),
			mcp.WithString("summary", mcp.Description("Summary of how the time was spent")),
		), ts.handleIssueAddSpentTime),

		newTool(mcp.NewTool("reset_spent_time_for_issue",
			mcp.WithDescription("Reset the spent time of an issue to zero."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithNumber("issue_iid", mcp.Required(), mcp.Description("Project-level issue IID")),
		), ts.issueAction(http.MethodPost, "/reset_spent_time")),

		newTool(mcp.NewTool("get_issue_time_tracking_stats",
			mcp.WithDescription("Get time tracking statistics of an issue."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithNumber("issue_iid", mcp.Required(), mcp.Description("Project-level issue IID")),
		), ts.issueAction(http.MethodGet, "/time_stats")),

		newTool(mcp.NewTool("list_related_merge_requests_for_issue",
			mcp.WithDescription("List merge requests related to an issue."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithNumber("issue_iid", mcp.Required(), mcp.Description("Project-level issue IID")),
		), ts.issueAction(http.MethodGet, "/related_merge_requests")),

		newTool(mcp.NewTool("list_merge_requests_closing_issue",
			mcp.WithDescription("List merge requests that close the issue when merged."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithNumber("issue_iid", mcp.Required(), mcp.Description("Project-level issue IID")),
		), ts.issueAction(http.MethodGet, "/closed_by")),

		newTool(mcp.NewTool("list_issue_participants",
			mcp.WithDescription("List users participating in an issue."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithNumber("issue_iid", mcp.Required(), mcp.Description("Project-level issue IID")),
		), ts.issueAction(http.MethodGet, "/participants")),

		newTool(mcp.NewTool("list_issue_state_events",
			mcp.WithDescription("List state change events of an issue."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithNumber("issue_iid", mcp.Required(), mcp.Description("Project-level issue IID")),
		), ts.issueAction(http.MethodGet, "/resource_state_events")),

		newTool(mcp.NewTool("promote_issue_to_epic",
			mcp.WithDescription("Promote an issue to an epic. Premium and Ultimate only."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithNumber("issue_iid", mcp.Required(), mcp.Description("Project-level issue IID")),
			mcp.WithString("comment", mcp.Description("Comment to add to the issue along with the promotion")),
		), ts.handlePromoteIssue),

		newTool(mcp.NewTool("get_issue_user_agent_details",
			mcp.WithDescription("Get the user agent and IP details of the issue creator. Only for administrators."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithNumber("issue_iid", mcp.Required(), mcp.Description("Project-level issue IID")),
		), ts.issueAction(http.MethodGet, "/user_agent_detail")),

		newTool(mcp.NewTool("list_incident_metric_images",
			mcp.WithDescription("List metric images of an incident."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithNumber("issue_iid", mcp.Required(), mcp.Description("Incident IID")),
		), ts.issueAction(http.MethodGet, "/metric_images")),

		newTool(mcp.NewTool("update_incident_metric_image",
			mcp.WithDescription("Update the URL or description of an incident metric image."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithNumber("issue_iid", mcp.Required(), mcp.Description("Incident IID")),
			mcp.WithNumber("image_id", mcp.Required(), mcp.Description("Metric image ID")),
			mcp.WithString("url", mcp.Description("New URL to associate with the image")),
			mcp.WithString("url_text", mcp.Description("New description for the image or URL")),
		), ts.handleUpdateMetricImage),

		newTool(mcp.NewTool("delete_incident_metric_image",
			mcp.WithDescription("Delete a metric image from an incident."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithNumber("issue_iid", mcp.Required(), mcp.Description("Incident IID")),
			mcp.WithNumber("image_id", mcp.Required(), mcp.Description("Metric image ID")),
		), ts.handleDeleteMetricImage),
	}
}

// issuePath resolves the project and issue IID shared by most issue
// tools.
func issuePath(request mcp.CallToolRequest, suffix string) (string, error) {
	project, err := reqID(request, "project_id")
	if err != nil {
		return "", err
	}
	iid, err := reqInt(request, "issue_iid")
	if err != nil {
		return "", err
	}
	return "/projects/" + project + "/issues/" + strconv.Itoa(iid) + suffix, nil
}

// issueAction builds a handler for the many issue sub-resource
// endpoints that take no parameters beyond the issue address.
func (ts *Toolset) issueAction(method, suffix string) Handler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := issuePath(request, suffix)
		if err != nil {
			return errResult(err), nil
		}
		return ts.call(ctx, method, path, nil, nil)
	}
}

var issueListFilters = []string{"state", "labels", "milestone", "scope",
	"author_id", "author_username", "assignee_id", "assignee_username",
	"my_reaction_emoji", "search", "in", "issue_type", "confidential",
	"created_after", "created_before", "updated_after", "updated_before",
	"due_date", "order_by", "sort", "with_labels_details", "per_page", "page"}

func (ts *Toolset) handleListIssues(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return ts.call(ctx, http.MethodGet, "/issues", queryFrom(request, issueListFilters...), nil)
}

func (ts *Toolset) handleListProjectIssues(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, err := reqID(request, "project_id")
	if err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodGet, "/projects/"+project+"/issues", queryFrom(request, issueListFilters...), nil)
}

func (ts *Toolset) handleGetIssue(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := reqInt(request, "issue_id")
	if err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodGet, "/issues/"+strconv.Itoa(id), nil, nil)
}

func (ts *Toolset) handleCreateIssue(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, err := reqID(request, "project_id")
	if err != nil {
		return errResult(err), nil
	}
	title, err := reqString(request, "title")
	if err != nil {
		return errResult(err), nil
	}
	payload := payloadFrom(request, "description", "labels", "assignee_id",
		"milestone_id", "due_date", "confidential", "issue_type", "epic_id", "weight")
	payload["title"] = title
	return ts.call(ctx, http.MethodPost, "/projects/"+project+"/issues", nil, payload)
}

func (ts *Toolset) handleEditIssue(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := issuePath(request, "")
	if err != nil {
		return errResult(err), nil
	}
	payload := payloadFrom(request, "title", "description", "state_event",
		"labels", "add_labels", "remove_labels", "milestone_id", "due_date",
		"confidential", "discussion_locked", "issue_type", "epic_id", "weight")
	if len(payload) == 0 {
		return errResult(&gitlab.ArgumentError{Name: "issue_iid", Reason: "requires at least one field to update"}), nil
	}
	return ts.call(ctx, http.MethodPut, path, nil, payload)
}

func (ts *Toolset) handleDeleteIssue(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := issuePath(request, "")
	if err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodDelete, path, nil, nil)
}

func (ts *Toolset) handleReorderIssue(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := issuePath(request, "/reorder")
	if err != nil {
		return errResult(err), nil
	}
	query := queryFrom(request, "move_after_id", "move_before_id")
	if len(query) == 0 {
		return errResult(&gitlab.ArgumentError{Name: "move_after_id", Reason: "or move_before_id is required"}), nil
	}
	return ts.call(ctx, http.MethodPut, path, query, nil)
}

func (ts *Toolset) handleMoveIssue(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := issuePath(request, "/move")
	if err != nil {
		return errResult(err), nil
	}
	target, err := reqInt(request, "to_project_id")
	if err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodPost, path, nil, map[string]any{"to_project_id": target})
}

func (ts *Toolset) handleCloneIssue(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := issuePath(request, "/clone")
	if err != nil {
		return errResult(err), nil
	}
	target, err := reqInt(request, "to_project_id")
	if err != nil {
		return errResult(err), nil
	}
	query := queryFrom(request, "with_notes")
	query.Set("to_project_id", strconv.Itoa(target))
	return ts.call(ctx, http.MethodPost, path, query, nil)
}

func (ts *Toolset) handleIssueTimeEstimate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := issuePath(request, "/time_estimate")
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

// Promotion happens through the notes API: posting a note whose body
// carries the /promote quick action converts the issue into an epic.
func (ts *Toolset) handlePromoteIssue(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := issuePath(request, "/notes")
	if err != nil {
		return errResult(err), nil
	}
	body := "/promote"
	if comment := optString(request, "comment"); comment != "" {
		body = comment + "\n\n/promote"
	}
	query := url.Values{}
	query.Set("body", body)
	return ts.call(ctx, http.MethodPost, path, query, nil)
}

func metricImagePath(request mcp.CallToolRequest) (string, error) {
	id, err := reqInt(request, "image_id")
	if err != nil {
		return "", err
	}
	return issuePath(request, "/metric_images/"+strconv.Itoa(id))
}

func (ts *Toolset) handleUpdateMetricImage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := metricImagePath(request)
	if err != nil {
		return errResult(err), nil
	}
	payload := payloadFrom(request, "url", "url_text")
	if len(payload) == 0 {
		return errResult(&gitlab.ArgumentError{Name: "url", Reason: "or url_text is required"}), nil
	}
	return ts.call(ctx, http.MethodPut, path, nil, payload)
}

func (ts *Toolset) handleDeleteMetricImage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := metricImagePath(request)
	if err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodDelete, path, nil, nil)
}

func (ts *Toolset) handleIssueAddSpentTime(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := issuePath(request, "/add_spent_time")
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
