package tools

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/BharadwajVedula1256/gitlab-mcp/pkg/config"
	"github.com/BharadwajVedula1256/gitlab-mcp/pkg/gitlab"
)

func (ts *Toolset) configTools() []Tool {
	return []Tool{
		newTool(mcp.NewTool("configure_gitlab",
			mcp.WithDescription("Configure GitLab API credentials at runtime. Call this before using other GitLab tools if no token was provided via environment variables."),
			mcp.WithString("api_url",
				mcp.Description("GitLab API base URL. Default: "+config.DefaultAPIURL),
			),
			mcp.WithString("token",
				mcp.Required(),
				mcp.Description("GitLab Personal Access Token. Create one at https://gitlab.com/-/user_settings/personal_access_tokens"),
			),
		), ts.handleConfigure),

		newTool(mcp.NewTool("check_gitlab_config",
			mcp.WithDescription("Check the current GitLab configuration status. Reports the API URL, whether a token is set and a redacted form of the token."),
		), ts.handleCheckConfig),
	}
}

func (ts *Toolset) handleConfigure(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	token, err := reqString(request, "token")
	if err != nil {
		return errResult(err), nil
	}

	status, err := ts.store.Configure(optString(request, "api_url"), token)
	if err != nil {
		if errors.Is(err, config.ErrEmptyToken) {
			return errResult(&gitlab.ArgumentError{Name: "token", Reason: "must not be empty"}), nil
		}
		return errResult(err), nil
	}

	log.Info("GitLab credentials configured", "api_url", status.APIURL, "token", status.Token)
	return statusResult(status)
}

func (ts *Toolset) handleCheckConfig(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return statusResult(ts.store.Check())
}

func statusResult(status config.Status) (*mcp.CallToolResult, error) {
	payload, err := json.Marshal(status)
	if err != nil {
		return errResult(&gitlab.InternalError{Op: "encode status", Err: err}), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}
