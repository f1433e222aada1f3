package tools

import (
	"context"
	"net/http"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/BharadwajVedula1256/gitlab-mcp/pkg/gitlab"
)

// Approval tools, covering project approval configuration and
// approval rules at project, merge request and group level:
// https://docs.gitlab.com/ee/api/merge_request_approvals.html
func (ts *Toolset) approvalTools() []Tool {
	return []Tool{
		newTool(mcp.NewTool("approve_gitlab_merge_request",
			mcp.WithDescription("Approve a merge request as the authenticated user."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithNumber("merge_request_iid", mcp.Required(), mcp.Description("Project-level merge request IID")),
			mcp.WithString("approval_password", mcp.Description("Current user's password, when re-authentication is required to approve")),
			mcp.WithString("sha", mcp.Description("Only approve if the source branch head matches this SHA")),
		), ts.handleApproveMergeRequest),

		newTool(mcp.NewTool("reset_gitlab_merge_request_approvals",
			mcp.WithDescription("Clear all approvals of a merge request."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithNumber("merge_request_iid", mcp.Required(), mcp.Description("Project-level merge request IID")),
		), ts.mergeRequestAction(http.MethodPut, "/reset_approvals")),

		newTool(mcp.NewTool("get_gitlab_merge_request_approval_details",
			mcp.WithDescription("Get the approval status of a merge request."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithNumber("merge_request_iid", mcp.Required(), mcp.Description("Project-level merge request IID")),
		), ts.mergeRequestAction(http.MethodGet, "/approvals")),

		newTool(mcp.NewTool("get_gitlab_merge_request_approval_state",
			mcp.WithDescription("Get the approval rules and their satisfaction state for a merge request."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithNumber("merge_request_iid", mcp.Required(), mcp.Description("Project-level merge request IID")),
		), ts.mergeRequestAction(http.MethodGet, "/approval_state")),

		newTool(mcp.NewTool("get_gitlab_approval_configuration",
			mcp.WithDescription("Get the approval configuration of a project."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
		), ts.handleGetApprovalConfiguration),

		newTool(mcp.NewTool("update_gitlab_approval_configuration",
			mcp.WithDescription("Update the approval configuration of a project."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithNumber("approvals_before_merge", mcp.Description("Number of required approvals")),
			mcp.WithBoolean("reset_approvals_on_push", mcp.Description("Reset approvals on a new push")),
			mcp.WithBoolean("disable_overriding_approvers_per_merge_request", mcp.Description("Prevent overriding approvers per merge request")),
			mcp.WithBoolean("merge_requests_author_approval", mcp.Description("Allow authors to approve their own merge requests")),
			mcp.WithBoolean("merge_requests_disable_committers_approval", mcp.Description("Prevent committers from approving")),
			mcp.WithBoolean("require_password_to_approve", mcp.Description("Require a password to approve")),
			mcp.WithBoolean("require_reauthentication_to_approve", mcp.Description("Require re-authentication to approve")),
			mcp.WithBoolean("selective_code_owner_removals", mcp.Description("Reset approvals from Code Owners whose files changed")),
		), ts.handleUpdateApprovalConfiguration),

		newTool(mcp.NewTool("list_gitlab_project_approval_rules",
			mcp.WithDescription("List the approval rules of a project."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithNumber("per_page", mcp.Description("Results per page")),
			mcp.WithNumber("page", mcp.Description("Page number")),
		), ts.handleListProjectApprovalRules),

		newTool(mcp.NewTool("get_gitlab_project_approval_rule",
			mcp.WithDescription("Get a single approval rule of a project."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithNumber("approval_rule_id", mcp.Required(), mcp.Description("Approval rule ID")),
		), ts.handleGetProjectApprovalRule),

		newTool(mcp.NewTool("create_gitlab_project_approval_rule",
			mcp.WithDescription("Create an approval rule for a project."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithString("name", mcp.Required(), mcp.Description("Approval rule name")),
			mcp.WithNumber("approvals_required", mcp.Required(), mcp.Description("Number of required approvals")),
			mcp.WithString("rule_type", mcp.Description("Rule type"), mcp.Enum("any_approver", "regular")),
			mcp.WithString("report_type", mcp.Description("Report type for report_approver rules"), mcp.Enum("license_scanning", "code_coverage")),
			mcp.WithString("user_ids", mcp.Description("JSON array of approver user IDs")),
			mcp.WithString("group_ids", mcp.Description("JSON array of approver group IDs")),
			mcp.WithString("usernames", mcp.Description("JSON array of approver usernames")),
			mcp.WithString("protected_branch_ids", mcp.Description("JSON array of protected branch IDs scoping the rule")),
			mcp.WithBoolean("applies_to_all_protected_branches", mcp.Description("Apply the rule to all protected branches")),
		), ts.handleCreateProjectApprovalRule),

		newTool(mcp.NewTool("update_gitlab_project_approval_rule",
			mcp.WithDescription("Update an approval rule of a project. Listed approvers replace the current sets."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithNumber("approval_rule_id", mcp.Required(), mcp.Description("Approval rule ID")),
			mcp.WithString("name", mcp.Description("New rule name")),
			mcp.WithNumber("approvals_required", mcp.Description("New number of required approvals")),
			mcp.WithString("user_ids", mcp.Description("JSON array of approver user IDs")),
			mcp.WithString("group_ids", mcp.Description("JSON array of approver group IDs")),
			mcp.WithString("usernames", mcp.Description("JSON array of approver usernames")),
			mcp.WithString("protected_branch_ids", mcp.Description("JSON array of protected branch IDs scoping the rule")),
			mcp.WithBoolean("applies_to_all_protected_branches", mcp.Description("Apply the rule to all protected branches")),
			mcp.WithBoolean("remove_hidden_groups", mcp.Description("Remove hidden groups from the rule")),
		), ts.handleUpdateProjectApprovalRule),

		newTool(mcp.NewTool("delete_gitlab_project_approval_rule",
			mcp.WithDescription("Delete an approval rule of a project."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithNumber("approval_rule_id", mcp.Required(), mcp.Description("Approval rule ID")),
		), ts.handleDeleteProjectApprovalRule),

		newTool(mcp.NewTool("list_gitlab_merge_request_approval_rules",
			mcp.WithDescription("List the approval rules applying to a merge request."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithNumber("merge_request_iid", mcp.Required(), mcp.Description("Project-level merge request IID")),
			mcp.WithNumber("per_page", mcp.Description("Results per page")),
			mcp.WithNumber("page", mcp.Description("Page number")),
		), ts.handleListMergeRequestApprovalRules),

		newTool(mcp.NewTool("get_gitlab_merge_request_approval_rule",
			mcp.WithDescription("Get a single approval rule of a merge request."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithNumber("merge_request_iid", mcp.Required(), mcp.Description("Project-level merge request IID")),
			mcp.WithNumber("approval_rule_id", mcp.Required(), mcp.Description("Approval rule ID")),
		), ts.handleGetMergeRequestApprovalRule),

		newTool(mcp.NewTool("create_gitlab_merge_request_approval_rule",
			mcp.WithDescription("Create an approval rule for a merge request."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithNumber("merge_request_iid", mcp.Required(), mcp.Description("Project-level merge request IID")),
			mcp.WithString("name", mcp.Required(), mcp.Description("Approval rule name")),
			mcp.WithNumber("approvals_required", mcp.Required(), mcp.Description("Number of required approvals")),
			mcp.WithNumber("approval_project_rule_id", mcp.Description("Project approval rule ID to copy approvers from")),
			mcp.WithString("user_ids", mcp.Description("JSON array of approver user IDs")),
			mcp.WithString("group_ids", mcp.Description("JSON array of approver group IDs")),
			mcp.WithString("usernames", mcp.Description("JSON array of approver usernames")),
		), ts.handleCreateMergeRequestApprovalRule),

		newTool(mcp.NewTool("update_gitlab_merge_request_approval_rule",
			mcp.WithDescription("Update an approval rule of a merge request. Listed approvers replace the current sets."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithNumber("merge_request_iid", mcp.Required(), mcp.Description("Project-level merge request IID")),
			mcp.WithNumber("approval_rule_id", mcp.Required(), mcp.Description("Approval rule ID")),
			mcp.WithString("name", mcp.Description("New rule name")),
			mcp.WithNumber("approvals_required", mcp.Description("New number of required approvals")),
			mcp.WithString("user_ids", mcp.Description("JSON array of approver user IDs")),
			mcp.WithString("group_ids", mcp.Description("JSON array of approver group IDs")),
			mcp.WithString("usernames", mcp.Description("JSON array of approver usernames")),
			mcp.WithBoolean("remove_hidden_groups", mcp.Description("Remove hidden groups from the rule")),
		), ts.handleUpdateMergeRequestApprovalRule),

		newTool(mcp.NewTool("delete_gitlab_merge_request_approval_rule",
			mcp.WithDescription("Delete an approval rule of a merge request."),
			mcp.WithString("project_id", mcp.Required(), mcp.Description("Project ID or URL-encoded path")),
			mcp.WithNumber("merge_request_iid", mcp.Required(), mcp.Description("Project-level merge request IID")),
			mcp.WithNumber("approval_rule_id", mcp.Required(), mcp.Description("Approval rule ID")),
		), ts.handleDeleteMergeRequestApprovalRule),

		newTool(mcp.NewTool("list_gitlab_group_approval_rules",
			mcp.WithDescription("List the approval rules of a group."),
			mcp.WithString("group_id", mcp.Required(), mcp.Description("Group ID or URL-encoded path")),
			mcp.WithNumber("per_page", mcp.Description("Results per page")),
			mcp.WithNumber("page", mcp.Description("Page number")),
		), ts.handleListGroupApprovalRules),

		newTool(mcp.NewTool("create_gitlab_group_approval_rule",
			mcp.WithDescription("Create an approval rule applying to all projects of a group."),
			mcp.WithString("group_id", mcp.Required(), mcp.Description("Group ID or URL-encoded path")),
			mcp.WithString("name", mcp.Required(), mcp.Description("Approval rule name")),
			mcp.WithNumber("approvals_required", mcp.Required(), mcp.Description("Number of required approvals")),
			mcp.WithString("rule_type", mcp.Description("Rule type"), mcp.Enum("any_approver", "regular")),
			mcp.WithString("user_ids", mcp.Description("JSON array of approver user IDs")),
			mcp.WithString("group_ids", mcp.Description("JSON array of approver group IDs")),
		), ts.handleCreateGroupApprovalRule),

		newTool(mcp.NewTool("update_gitlab_group_approval_rule",
			mcp.WithDescription("Update an approval rule of a group. Listed approvers replace the current sets."),
			mcp.WithString("group_id", mcp.Required(), mcp.Description("Group ID or URL-encoded path")),
			mcp.WithNumber("approval_rule_id", mcp.Required(), mcp.Description("Approval rule ID")),
			mcp.WithString("name", mcp.Description("New rule name")),
			mcp.WithNumber("approvals_required", mcp.Description("New number of required approvals")),
			mcp.WithString("user_ids", mcp.Description("JSON array of approver user IDs")),
			mcp.WithString("group_ids", mcp.Description("JSON array of approver group IDs")),
		), ts.handleUpdateGroupApprovalRule),
	}
}

// approvalRulePayload collects the array-valued approver arguments, which
// arrive as JSON arrays or strings containing them.
func approvalRulePayload(request mcp.CallToolRequest, scalarKeys []string, arrayKeys []string) (map[string]any, error) {
	payload := payloadFrom(request, scalarKeys...)
	for _, key := range arrayKeys {
		if _, ok := request.Params.Arguments[key]; !ok {
			continue
		}
		items, err := jsonArrayArg(request, key)
		if err != nil {
			return nil, err
		}
		payload[key] = items
	}
	return payload, nil
}

func (ts *Toolset) handleApproveMergeRequest(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := mergeRequestPath(request, "/approve")
	if err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodPost, path, nil, payloadFrom(request, "approval_password", "sha"))
}

func (ts *Toolset) handleGetApprovalConfiguration(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, err := reqID(request, "project_id")
	if err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodGet, "/projects/"+project+"/approvals", nil, nil)
}

func (ts *Toolset) handleUpdateApprovalConfiguration(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, err := reqID(request, "project_id")
	if err != nil {
		return errResult(err), nil
	}
	payload := payloadFrom(request, "approvals_before_merge",
		"reset_approvals_on_push", "disable_overriding_approvers_per_merge_request",
		"merge_requests_author_approval", "merge_requests_disable_committers_approval",
		"require_password_to_approve", "require_reauthentication_to_approve",
		"selective_code_owner_removals")
	if len(payload) == 0 {
		return errResult(&gitlab.ArgumentError{Name: "project_id", Reason: "requires at least one configuration field to update"}), nil
	}
	return ts.call(ctx, http.MethodPost, "/projects/"+project+"/approvals", nil, payload)
}

func (ts *Toolset) handleListProjectApprovalRules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, err := reqID(request, "project_id")
	if err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodGet, "/projects/"+project+"/approval_rules", queryFrom(request, "per_page", "page"), nil)
}

func (ts *Toolset) handleGetProjectApprovalRule(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := projectApprovalRulePath(request)
	if err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodGet, path, nil, nil)
}

func (ts *Toolset) handleCreateProjectApprovalRule(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project, err := reqID(request, "project_id")
	if err != nil {
		return errResult(err), nil
	}
	payload, err := requiredRuleFields(request)
	if err != nil {
		return errResult(err), nil
	}
	extra, err := approvalRulePayload(request,
		[]string{"rule_type", "report_type", "applies_to_all_protected_branches"},
		[]string{"user_ids", "group_ids", "usernames", "protected_branch_ids"})
	if err != nil {
		return errResult(err), nil
	}
	for k, v := range extra {
		payload[k] = v
	}
	return ts.call(ctx, http.MethodPost, "/projects/"+project+"/approval_rules", nil, payload)
}

func (ts *Toolset) handleUpdateProjectApprovalRule(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := projectApprovalRulePath(request)
	if err != nil {
		return errResult(err), nil
	}
	payload, err := approvalRulePayload(request,
		[]string{"name", "approvals_required", "applies_to_all_protected_branches", "remove_hidden_groups"},
		[]string{"user_ids", "group_ids", "usernames", "protected_branch_ids"})
	if err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodPut, path, nil, payload)
}

func (ts *Toolset) handleDeleteProjectApprovalRule(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := projectApprovalRulePath(request)
	if err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodDelete, path, nil, nil)
}

func (ts *Toolset) handleListMergeRequestApprovalRules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := mergeRequestPath(request, "/approval_rules")
	if err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodGet, path, queryFrom(request, "per_page", "page"), nil)
}

func (ts *Toolset) handleGetMergeRequestApprovalRule(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := mergeRequestApprovalRulePath(request)
	if err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodGet, path, nil, nil)
}

func (ts *Toolset) handleCreateMergeRequestApprovalRule(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := mergeRequestPath(request, "/approval_rules")
	if err != nil {
		return errResult(err), nil
	}
	payload, err := requiredRuleFields(request)
	if err != nil {
		return errResult(err), nil
	}
	extra, err := approvalRulePayload(request,
		[]string{"approval_project_rule_id"},
		[]string{"user_ids", "group_ids", "usernames"})
	if err != nil {
		return errResult(err), nil
	}
	for k, v := range extra {
		payload[k] = v
	}
	return ts.call(ctx, http.MethodPost, path, nil, payload)
}

func (ts *Toolset) handleUpdateMergeRequestApprovalRule(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := mergeRequestApprovalRulePath(request)
	if err != nil {
		return errResult(err), nil
	}
	payload, err := approvalRulePayload(request,
		[]string{"name", "approvals_required", "remove_hidden_groups"},
		[]string{"user_ids", "group_ids", "usernames"})
	if err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodPut, path, nil, payload)
}

func (ts *Toolset) handleDeleteMergeRequestApprovalRule(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := mergeRequestApprovalRulePath(request)
	if err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodDelete, path, nil, nil)
}

func (ts *Toolset) handleListGroupApprovalRules(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	group, err := reqID(request, "group_id")
	if err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodGet, "/groups/"+group+"/approval_rules", queryFrom(request, "per_page", "page"), nil)
}

func (ts *Toolset) handleCreateGroupApprovalRule(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	group, err := reqID(request, "group_id")
	if err != nil {
		return errResult(err), nil
	}
	payload, err := requiredRuleFields(request)
	if err != nil {
		return errResult(err), nil
	}
	extra, err := approvalRulePayload(request,
		[]string{"rule_type"},
		[]string{"user_ids", "group_ids"})
	if err != nil {
		return errResult(err), nil
	}
	for k, v := range extra {
		payload[k] = v
	}
	return ts.call(ctx, http.MethodPost, "/groups/"+group+"/approval_rules", nil, payload)
}

func (ts *Toolset) handleUpdateGroupApprovalRule(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	group, err := reqID(request, "group_id")
	if err != nil {
		return errResult(err), nil
	}
	rule, err := reqInt(request, "approval_rule_id")
	if err != nil {
		return errResult(err), nil
	}
	payload, err := approvalRulePayload(request,
		[]string{"name", "approvals_required"},
		[]string{"user_ids", "group_ids"})
	if err != nil {
		return errResult(err), nil
	}
	return ts.call(ctx, http.MethodPut, "/groups/"+group+"/approval_rules/"+strconv.Itoa(rule), nil, payload)
}

func projectApprovalRulePath(request mcp.CallToolRequest) (string, error) {
	project, err := reqID(request, "project_id")
	if err != nil {
		return "", err
	}
	rule, err := reqInt(request, "approval_rule_id")
	if err != nil {
		return "", err
	}
	return "/projects/" + project + "/approval_rules/" + strconv.Itoa(rule), nil
}

func mergeRequestApprovalRulePath(request mcp.CallToolRequest) (string, error) {
	rule, err := reqInt(request, "approval_rule_id")
	if err != nil {
		return "", err
	}
	return mergeRequestPath(request, "/approval_rules/"+strconv.Itoa(rule))
}

// requiredRuleFields extracts the name and approvals_required pair shared
// by every rule creation endpoint.
func requiredRuleFields(request mcp.CallToolRequest) (map[string]any, error) {
	name, err := reqString(request, "name")
	if err != nil {
		return nil, err
	}
	required, err := reqInt(request, "approvals_required")
	if err != nil {
		return nil, err
	}
	return map[string]any{"name": name, "approvals_required": required}, nil
}
