package tools

import (
	"context"
	"net/http"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/BharadwajVedula1256/gitlab-mcp/pkg/gitlab"
)

var projectListFilters = []string{"archived", "id_after", "id_before",
	"imported", "last_activity_after", "last_activity_before", "membership",
	"min_access_level", "order_by", "owned", "search", "search_namespaces",
	"simple", "sort", "starred", "statistics", "topic", "topic_id",
	"updated_after", "updated_before", "visibility", "with_custom_attributes",
	"with_issues_enabled", "with_merge_requests_enabled",
	"with_programming_language", "active", "per_page", "page"}

// Keys shared by project creation and editing. Both endpoints accept far
// more attributes than these; this covers the documented common set.
var projectAttributeKeys = []string{"name", "path", "description",
	"visibility", "default_branch", "import_url", "topics", "lfs_enabled",
	"merge_method", "squash_option", "remove_source_branch_after_merge",
	"auto_devops_enabled", "build_git_strategy", "build_timeout",
	"ci_config_path", "shared_runners_enabled", "group_runners_enabled",
	"public_jobs", "only_allow_merge_if_pipeline_succeeds",
	"only_allow_merge_if_all_discussions_are_resolved",
	"autoclose_referenced_issues", "resolve_outdated_diff_discussions",
	"request_access_enabled", "emails_enabled", "merge_pipelines_enabled",
	"merge_trains_enabled", "container_registry_access_level",
	"issues_access_level", "merge_requests_access_level", "wiki_access_level",
	"snippets_access_level", "builds_access_level"}

func projectAttributeOptions(extra ...mcp.ToolOption) []mcp.ToolOption {
	opts := []mcp.ToolOption{
		mcp.WithString("description", mcp.Description("Project description")),
		mcp.WithString("visibility", mcp.Description("Project visibility"), mcp.Enum("private", "internal", "public")),
		mcp.WithString("default_branch", mcp.Description("Default branch name")),
		mcp.WithString("import_url", mcp.Description("URL of a repository to import")),
		mcp.WithString("topics", mcp.Description("JSON array of topic names")),
		mcp.WithString("merge_method", mcp.Description("Merge method"), mcp.Enum("merge", "rebase_merge", "ff")),
		mcp.WithString("squash_option", mcp.Description("Squash option"), mcp.Enum("never", "always", "default_on", "default_off")),
		mcp.WithBoolean("remove_source_branch_after_merge", mcp.Description("Delete source branches after merge by default")),
		mcp.WithBoolean("lfs_enabled", mcp.Description("Enable Git LFS")),
		mcp.WithBoolean("auto_devops_enabled", mcp.Description("Enable Auto DevOps")),
		mcp.WithString("build_git_strategy", mcp.Description("Git strategy for builds"), mcp.Enum("fetch", "clone")),
		mcp.WithNumber("build_timeout", mcp.Description("Maximum job duration in seconds")),
		mcp.WithString("ci_config_path", mcp.Description("Path to the CI/CD configuration file")),
		mcp.WithBoolean("shared_runners_enabled", mcp.Description("Enable shared runners")),
		mcp.WithBoolean("group_runners_enabled", mcp.Description("Enable group runners")),
		mcp.WithBoolean("public_jobs", mcp.Description("Make job logs and artifacts publicly visible")),
		mcp.WithBoolean("only_allow_merge_if_pipeline_succeeds", mcp.Description("Require a passing pipeline to merge")),
		mcp.WithBoolean("only_allow_merge_if_all_discussions_are_resolved", mcp.Description("Require resolved discussions to merge")),
		mcp.WithBoolean("autoclose_referenced_issues", mcp.Description("Automatically close referenced issues on default branch merges")),
		mcp.WithBoolean("resolve_outdated_diff_discussions", mcp.Description("Resolve outdated diff discussions on push")),
		mcp.WithBoolean("request_access_enabled", mcp.Description("Allow users to request access")),
		mcp.WithBoolean("emails_enabled", mcp.Description("Enable email notifications")),
		mcp.WithBoolean("merge_pipelines_enabled", mcp.Description("Enable merged results pipelines")),
		mcp.WithBoolean("merge_trains_enabled", mcp.Description("Enable merge trains")),
	}
	return append(extra, opts...)
}

// Project tools, backed by the projects API:
// https://docs.gitlab.com/ee/api/projects.html
func (ts *Toolset) projectTools() []Tool {
	listFilterOptions := func(extra ...mcp.ToolOption) []mcp.ToolOption {
		opts := []mcp.ToolOption{
			mcp.WithBoolean("archived", mcp.Description("Limit by archived status")),
			mcp.WithBoolean("membership", mcp.Description("Limit to projects the current user is a member of")),
			mcp.WithBoolean("owned", mcp.Description("Limit to projects explicitly owned by the current user")),
			mcp.WithBoolean("starred", mcp.Description("Limit to projects starred by the current user")),
			mcp.WithBoolean("simple", mcp.Description("Return limited fields per project")),
			mcp.WithBoolean("statistics", mcp.Description("Include project statistics")),
			mcp.WithNumber("min_access_level", mcp.Description("Limit by minimum access level")),
			mcp.WithString("order_by", mcp.Description("Ordering field"), mcp.Enum("id", "name", "path", "created_at", "updated_at", "last_activity_at")),
			mcp.WithString("sort", mcp.Description("Sort order"), mcp.Enum("asc", "desc")),
			mcp.WithString("search", mcp.Description("Search by project name")),
			mcp.WithString("topic", mcp.Description("Comma-separated topic names")),
			mcp.WithString("visibility", mcp.Description("Limit by visibility"), mcp.Enum("private", "internal", "public")),
			mcp.WithString("updated_after", mcp.Description("Updated after this ISO 8601 date")),
			mcp.WithString("updated_before", mcp.Description("Updated before this ISO 8601 date")),
			mcp.WithBoolean("with_issues_enabled", mcp.Description("Limit to projects with issues enabled")),
			mcp.WithBoolean("with_merge_requests_enabled", mcp.Description("Limit to projects with merge requests enabled")),
			mcp.WithString("with_programming_language", mcp.Description("Limit to projects using this programming language")),
			mcp.WithNumber("per_page", mcp.Description("Results per page")),
			mcp.WithNumber("page", mcp.Description("Page number")),
		}
		return append(extra, opts...)
	}

	return []Tool{
		newTool(mcp.NewTool("get_single_project",
			mcp.WithDescription("Get a single project."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithBoolean("license", mcp.Description("Include project license data")),
			mcp.WithBoolean("statistics", mcp.Description("Include project statistics")),
			mcp.WithBoolean("with_custom_attributes", mcp.Description("Include custom attributes")),
		), ts.handleGetProject),

		newTool(mcp.NewTool("list_projects",
			listFilterOptions(
				mcp.WithDescription("List projects owned by a user."),
				mcp.WithString("user_id", mcp.Required(), mcp.Description("User ID or username")),
			)...,
		), ts.handleListUserProjects),

		newTool(mcp.NewTool("list_user_contributed_projects",
			mcp.WithDescription("List projects a user has contributed to."),
			mcp.WithString("user_id", mcp.Required(), mcp.Description("User ID or username")),
			mcp.WithString("order_by", mcp.Description("Ordering field"), mcp.Enum("id", "name", "path", "created_at", "updated_at", "last_activity_at")),
			mcp.WithString("sort", mcp.Description("Sort order"), mcp.Enum("asc", "desc")),
			mcp.WithBoolean("simple", mcp.Description("Return limited fields per project")),
		), ts.handleListContributedProjects),

		newTool(mcp.NewTool("search_projects_by_name",
			mcp.WithDescription("Search all visible projects by name."),
			mcp.WithString("search", mcp.Required(), mcp.Description("Search string")),
			mcp.WithString("order_by", mcp.Description("Ordering field"), mcp.Enum("id", "name", "path", "created_at", "updated_at", "last_activity_at")),
			mcp.WithString("sort", mcp.Description("Sort order"), mcp.Enum("asc", "desc")),
		), ts.handleSearchProjects),

		newTool(mcp.NewTool("list_project_users",
			mcp.WithDescription("List users of a project."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithString("search", mcp.Description("Search by user name, username or email")),
			mcp.WithString("skip_users", mcp.Description("JSON array of user IDs to exclude")),
		), ts.handleListProjectUsers),

		newTool(mcp.NewTool("list_project_groups",
			mcp.WithDescription("List ancestor groups of a project."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithString("search", mcp.Description("Search by group name")),
			mcp.WithNumber("shared_min_access_level", mcp.Description("Limit shared groups by minimum access level")),
			mcp.WithBoolean("shared_visible_only", mcp.Description("Limit to shared groups the user can see")),
			mcp.WithString("skip_groups", mcp.Description("JSON array of group IDs to exclude")),
			mcp.WithBoolean("with_shared", mcp.Description("Include groups the project is shared with")),
		), ts.handleListProjectGroups),

		newTool(mcp.NewTool("list_project_shareable_groups",
			mcp.WithDescription("List groups a project can be shared with."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithString("search", mcp.Description("Search by group name")),
		), ts.handleListShareableGroups),

		newTool(mcp.NewTool("list_project_invited_groups",
			mcp.WithDescription("List groups invited to a project."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithString("search", mcp.Description("Search by group name")),
			mcp.WithNumber("min_access_level", mcp.Description("Limit by minimum access level")),
			mcp.WithString("relation", mcp.Description("JSON array of relations to filter by, direct or inherited")),
			mcp.WithBoolean("with_custom_attributes", mcp.Description("Include custom attributes")),
		), ts.handleListInvitedGroups),

		newTool(mcp.NewTool("list_project_languages",
			mcp.WithDescription("Get the programming language distribution of a project."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
		), ts.projectAction(http.MethodGet, "/languages"),
		),

		newTool(mcp.NewTool("create_project",
			projectAttributeOptions(
				mcp.WithDescription("Create a project for the authenticated user. Provide a name, a path, or both."),
				mcp.WithString("name", mcp.Description("Project name, required when path is omitted")),
				mcp.WithString("path", mcp.Description("Repository path, required when name is omitted")),
				mcp.WithNumber("namespace_id", mcp.Description("Namespace to create the project in, defaults to the user's namespace")),
				mcp.WithBoolean("initialize_with_readme", mcp.Description("Create an initial commit with a README")),
			)...,
		), ts.handleCreateProject),

		newTool(mcp.NewTool("create_project_for_user",
			projectAttributeOptions(
				mcp.WithDescription("Create a project owned by another user. Available only to administrators."),
				mcp.WithNumber("user_id", mcp.Required(), mcp.Description("Owner user ID")),
				mcp.WithString("name", mcp.Required(), mcp.Description("Project name")),
				mcp.WithString("path", mcp.Description("Repository path, defaults to the name")),
				mcp.WithNumber("namespace_id", mcp.Description("Namespace to create the project in")),
				mcp.WithBoolean("initialize_with_readme", mcp.Description("Create an initial commit with a README")),
			)...,
		), ts.handleCreateProjectForUser),

		newTool(mcp.NewTool("edit_project",
			projectAttributeOptions(
				mcp.WithDescription("Update attributes of a project."),
				mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
				mcp.WithString("name", mcp.Description("New project name")),
				mcp.WithString("path", mcp.Description("New repository path")),
			)...,
		), ts.handleEditProject),

		newTool(mcp.NewTool("remove_project_avatar",
			mcp.WithDescription("Remove the avatar image of a project."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
		), ts.handleRemoveProjectAvatar),

		newTool(mcp.NewTool("import_project_members",
			mcp.WithDescription("Copy members from one project into another."),
			mcp.WithString("target_project_id", mcp.Required(), mcp.Description("Project receiving the members, ID or URL-encoded path")),
			mcp.WithString("source_project_id", mcp.Required(), mcp.Description("Project to copy members from, ID or URL-encoded path")),
		), ts.handleImportProjectMembers),

		newTool(mcp.NewTool("archive_project",
			mcp.WithDescription("Archive a project."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
		), ts.projectAction(http.MethodPost, "/archive")),

		newTool(mcp.NewTool("unarchive_project",
			mcp.WithDescription("Unarchive a project."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
		), ts.projectAction(http.MethodPost, "/unarchive")),

		newTool(mcp.NewTool("delete_project",
			mcp.WithDescription("Delete a project, or schedule it for deletion on Premium and Ultimate."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithString("full_path", mcp.Description("Full project path, required with permanently_remove")),
			mcp.WithBoolean("permanently_remove", mcp.Description("Immediately delete a project already marked for deletion")),
		), ts.handleDeleteProject),

		newTool(mcp.NewTool("restore_project",
			mcp.WithDescription("Restore a project marked for deletion."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
		), ts.projectAction(http.MethodPost, "/restore")),

		newTool(mcp.NewTool("transfer_project",
			mcp.WithDescription("Transfer a project to a new namespace."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithString("namespace", mcp.Required(), mcp.Description("ID or path of the target namespace")),
		), ts.handleTransferProject),

		newTool(mcp.NewTool("list_transfer_locations",
			mcp.WithDescription("List namespaces a project can be transferred to."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithString("search", mcp.Description("Search by group name")),
		), ts.handleListTransferLocations),

		newTool(mcp.NewTool("share_project_with_group",
			mcp.WithDescription("Share a project with a group."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithNumber("group_id", mcp.Required(), mcp.Description("Group ID to share with")),
			mcp.WithNumber("group_access", mcp.Required(), mcp.Description("Access level to grant the group")),
			mcp.WithString("expires_at", mcp.Description("Share expiration date, ISO 8601")),
		), ts.handleShareProject),

		newTool(mcp.NewTool("unshare_project_from_group",
			mcp.WithDescription("Remove a group share from a project."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithNumber("group_id", mcp.Required(), mcp.Description("Group ID to unshare from")),
		), ts.handleUnshareProject),

		newTool(mcp.NewTool("start_project_housekeeping",
			mcp.WithDescription("Start a housekeeping task for a project repository."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithString("task", mcp.Description("Housekeeping task"), mcp.Enum("prune", "eager")),
		), ts.handleHousekeeping),

		newTool(mcp.NewTool("get_repository_storage_path",
			mcp.WithDescription("Get the repository storage path of a project. Available only to administrators."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
		), ts.projectAction(http.MethodGet, "/storage")),
	}
}

func projectPath(request mcp.CallToolRequest, suffix string) (string, error) {
	project, err := reqID(request, "project_id")
	if err != nil {
		return "", err
	}
	return "/projects/" + project + suffix, nil
}

func (ts *Toolset) projectAction(method, suffix string) Handler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		path, err := projectPath(request, suffix)
		if err != nil {
			return errResult(err), nil
		}
		return ts.call(ctx, method, path, nil, nil)
	}
}

func (ts *Toolset) handleGetProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := projectPath(request, "")
	if err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodGet, path, queryFrom(request, "license", "statistics", "with_custom_attributes"), nil)
}

func (ts *Toolset) handleListUserProjects(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	user, err := reqID(request, "user_id")
	if err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodGet, "/users/"+user+"/projects", queryFrom(request, projectListFilters...), nil)
}

func (ts *Toolset) handleListContributedProjects(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	user, err := reqID(request, "user_id")
	if err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodGet, "/users/"+user+"/contributed_projects", queryFrom(request, "order_by", "sort", "simple"), nil)
}

func (ts *Toolset) handleSearchProjects(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	search, err := reqString(request, "search")
	if err != nil {
		return errResult(err), nil
	}
	query := queryFrom(request, "order_by", "sort")
	query.Set("search", search)
	return ts.call(ctx, http.MethodGet, "/projects", query, nil)
}

func (ts *Toolset) handleListProjectUsers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := projectPath(request, "/users")
	if err != nil {
		return errResult(err), nil
	}
	query := queryFrom(request, "search")
	if err := appendArrayQuery(request, query, "skip_users"); err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodGet, path, query, nil)
}

func (ts *Toolset) handleListProjectGroups(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := projectPath(request, "/groups")
	if err != nil {
		return errResult(err), nil
	}
	query := queryFrom(request, "search", "shared_min_access_level", "shared_visible_only", "with_shared")
	if err := appendArrayQuery(request, query, "skip_groups"); err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodGet, path, query, nil)
}

func (ts *Toolset) handleListShareableGroups(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := projectPath(request, "/share_locations")
	if err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodGet, path, queryFrom(request, "search"), nil)
}

func (ts *Toolset) handleListInvitedGroups(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := projectPath(request, "/invited_groups")
	if err != nil {
		return errResult(err), nil
	}
	query := queryFrom(request, "search", "min_access_level", "with_custom_attributes")
	if err := appendArrayQuery(request, query, "relation"); err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodGet, path, query, nil)
}

func (ts *Toolset) handleCreateProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	payload, err := projectPayload(request)
	if err != nil {
		return errResult(err), nil
	}
	if payload["name"] == nil && payload["path"] == nil {
		return errResult(&gitlab.ArgumentError{Name: "name", Reason: "or path is required"}), nil
	}
	return ts.call(ctx, http.MethodPost, "/projects", nil, payload)
}

func (ts *Toolset) handleCreateProjectForUser(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	user, err := reqInt(request, "user_id")
	if err != nil {
		return errResult(err), nil
	}
	if _, err := reqString(request, "name"); err != nil {
		return errResult(err), nil
	}
	payload, err := projectPayload(request)
	if err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodPost, "/projects/user/"+strconv.Itoa(user), nil, payload)
}

func (ts *Toolset) handleEditProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := projectPath(request, "")
	if err != nil {
		return errResult(err), nil
	}
	payload, err := projectPayload(request)
	if err != nil {
		return errResult(err), nil
	}
	if len(payload) == 0 {
		return errResult(&gitlab.ArgumentError{Name: "project_id", Reason: "requires at least one attribute to update"}), nil
	}
	return ts.call(ctx, http.MethodPut, path, nil, payload)
}

// An explicit empty avatar value tells the server to drop the current
// image, so the body is built by hand rather than through projectPayload.
func (ts *Toolset) handleRemoveProjectAvatar(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := projectPath(request, "")
	if err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodPut, path, nil, map[string]any{"avatar": ""})
}

// projectPayload builds the body shared by project create and edit. The
// namespace and readme flags only apply on creation and are simply absent
// otherwise.
func projectPayload(request mcp.CallToolRequest) (map[string]any, error) {
	payload := payloadFrom(request, projectAttributeKeys...)
	payload = mergePayload(payload, payloadFrom(request, "namespace_id", "initialize_with_readme"))
	if _, ok := payload["topics"]; ok {
		topics, err := jsonArrayArg(request, "topics")
		if err != nil {
			return nil, err
		}
		payload["topics"] = topics
	}
	return payload, nil
}

func mergePayload(dst, src map[string]any) map[string]any {
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// appendArrayQuery adds a JSON array argument as repeated query values.
func appendArrayQuery(request mcp.CallToolRequest, query map[string][]string, key string) error {
	if _, ok := request.Params.Arguments[key]; !ok {
		return nil
	}
	items, err := jsonArrayArg(request, key)
	if err != nil {
		return err
	}
	for _, item := range items {
		query[key] = append(query[key], formatQueryValue(item))
	}
	return nil
}

func formatQueryValue(item any) string {
	if f, ok := item.(float64); ok {
		return formatNumber(f)
	}
	if s, ok := item.(string); ok {
		return s
	}
	return ""
}

func (ts *Toolset) handleImportProjectMembers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	target, err := reqID(request, "target_project_id")
	if err != nil {
		return errResult(err), nil
	}
	source, err := reqID(request, "source_project_id")
	if err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodPost, "/projects/"+target+"/import_project_members/"+source, nil, nil)
}

func (ts *Toolset) handleDeleteProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := projectPath(request, "")
	if err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodDelete, path, queryFrom(request, "full_path", "permanently_remove"), nil)
}

func (ts *Toolset) handleTransferProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := projectPath(request, "/transfer")
	if err != nil {
		return errResult(err), nil
	}
	namespace, err := reqString(request, "namespace")
	if err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodPut, path, nil, map[string]any{"namespace": namespace})
}

func (ts *Toolset) handleListTransferLocations(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := projectPath(request, "/transfer_locations")
	if err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodGet, path, queryFrom(request, "search"), nil)
}

func (ts *Toolset) handleShareProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := projectPath(request, "/share")
	if err != nil {
		return errResult(err), nil
	}
	group, err := reqInt(request, "group_id")
	if err != nil {
		return errResult(err), nil
	}
	access, err := reqInt(request, "group_access")
	if err != nil {
		return errResult(err), nil
	}
	payload := map[string]any{"group_id": group, "group_access": access}
	if expires := optString(request, "expires_at"); expires != "" {
		payload["expires_at"] = expires
	}
	return ts.call(ctx, http.MethodPost, path, nil, payload)
}

func (ts *Toolset) handleUnshareProject(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	group, err := reqInt(request, "group_id")
	if err != nil {
		return errResult(err), nil
	}
	path, err := projectPath(request, "/share/"+strconv.Itoa(group))
	if err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodDelete, path, nil, nil)
}

func (ts *Toolset) handleHousekeeping(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := projectPath(request, "/housekeeping")
	if err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodPost, path, queryFrom(request, "task"), nil)
}
