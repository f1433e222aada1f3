package tools

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/require"

	"github.com/BharadwajVedula1256/gitlab-mcp/pkg/config"
	"github.com/BharadwajVedula1256/gitlab-mcp/pkg/gitlab"
)

// stubTransport records requests and plays back a canned response so
// tool handlers can be exercised without a GitLab instance.
type stubTransport struct {
	calls  int
	last   *http.Request
	status int
	body   string
}

func (s *stubTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	s.calls++
	s.last = req
	status := s.status
	if status == 0 {
		status = http.StatusOK
	}
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(s.body)),
		Header:     make(http.Header),
	}, nil
}

func newToolset(t *testing.T, transport *stubTransport) (*Toolset, *config.Store) {
	t.Helper()
	t.Setenv("GITLAB_API", "")
	t.Setenv("GITLAB_TOKEN", "")
	store := config.NewStore()
	client := gitlab.NewClientWithHTTP(store, &http.Client{Transport: transport})
	return NewToolset(store, client), store
}

func newRequest(name string, args map[string]any) mcp.CallToolRequest {
	request := mcp.CallToolRequest{}
	request.Params.Name = name
	request.Params.Arguments = args
	return request
}

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	content, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return content.Text
}

func findTool(ts *Toolset, name string) Tool {
	for _, tool := range ts.All() {
		if tool.Handle().Name == name {
			return tool
		}
	}
	return nil
}

func TestToolsetCatalog(t *testing.T) {
	Convey("Given the full toolset", t, func() {
		ts, _ := newToolset(t, &stubTransport{})
		all := ts.All()

		Convey("Tool names are unique", func() {
			seen := map[string]bool{}
			for _, tool := range all {
				name := tool.Handle().Name
				So(seen[name], ShouldBeFalse)
				seen[name] = true
			}
		})

		Convey("The configuration tools come first", func() {
			So(all[0].Handle().Name, ShouldEqual, "configure_gitlab")
			So(all[1].Handle().Name, ShouldEqual, "check_gitlab_config")
		})

		Convey("Each category contributes its tools", func() {
			for _, name := range []string{
				"gitlab_list_branches",
				"create_gitlab_commit",
				"get_gitlab_file_metadata_and_content",
				"list_gitlab_repository_tree",
				"list_issues",
				"promote_issue_to_epic",
				"list_incident_metric_images",
				"list_gitlab_merge_requests",
				"approve_gitlab_merge_request",
				"create_project",
				"gitlab_global_search",
			} {
				So(findTool(ts, name), ShouldNotBeNil)
			}
		})
	})
}

func TestConfigureFlow(t *testing.T) {
	Convey("Given an unconfigured toolset", t, func() {
		transport := &stubTransport{body: `[]`}
		ts, _ := newToolset(t, transport)
		ctx := context.Background()

		Convey("Tool calls fail fast without touching the network", func() {
			result, err := findTool(ts, "gitlab_list_branches").Handler(ctx,
				newRequest("gitlab_list_branches", map[string]any{"project_id": "group/app"}))
			So(err, ShouldBeNil)
			So(result.IsError, ShouldBeTrue)
			So(textOf(t, result), ShouldStartWith, "not_configured:")
			So(transport.calls, ShouldEqual, 0)
		})

		Convey("check_gitlab_config reports the unconfigured state", func() {
			result, err := findTool(ts, "check_gitlab_config").Handler(ctx,
				newRequest("check_gitlab_config", nil))
			So(err, ShouldBeNil)

			var status config.Status
			So(json.Unmarshal([]byte(textOf(t, result)), &status), ShouldBeNil)
			So(status.Configured, ShouldBeFalse)
			So(status.APIURL, ShouldEqual, config.DefaultAPIURL)
		})

		Convey("configure_gitlab without a token is an invalid argument", func() {
			result, err := findTool(ts, "configure_gitlab").Handler(ctx,
				newRequest("configure_gitlab", map[string]any{}))
			So(err, ShouldBeNil)
			So(result.IsError, ShouldBeTrue)
			So(textOf(t, result), ShouldStartWith, "invalid_argument:")
		})

		Convey("After configure_gitlab the same call reaches the API", func() {
			result, err := findTool(ts, "configure_gitlab").Handler(ctx,
				newRequest("configure_gitlab", map[string]any{
					"api_url": "https://gitlab.example.com/api/v4",
					"token":   "glpat-abcdef123456",
				}))
			So(err, ShouldBeNil)
			So(result.IsError, ShouldBeFalse)

			var status config.Status
			So(json.Unmarshal([]byte(textOf(t, result)), &status), ShouldBeNil)
			So(status.Configured, ShouldBeTrue)
			So(status.Token, ShouldEqual, "****3456")
			So(status.Token, ShouldNotContainSubstring, "glpat")

			listResult, err := findTool(ts, "gitlab_list_branches").Handler(ctx,
				newRequest("gitlab_list_branches", map[string]any{"project_id": "group/app"}))
			So(err, ShouldBeNil)
			So(listResult.IsError, ShouldBeFalse)
			So(transport.calls, ShouldEqual, 1)
			So(transport.last.URL.String(), ShouldEqual,
				"https://gitlab.example.com/api/v4/projects/group%2Fapp/repository/branches")
			So(transport.last.Header.Get("PRIVATE-TOKEN"), ShouldEqual, "glpat-abcdef123456")
		})
	})
}

func TestHandlerArgumentValidation(t *testing.T) {
	Convey("Given a configured toolset", t, func() {
		transport := &stubTransport{body: `{}`}
		ts, store := newToolset(t, transport)
		_, err := store.Configure("", "test-token-1234")
		So(err, ShouldBeNil)
		ctx := context.Background()

		Convey("A missing required argument never reaches the network", func() {
			result, err := findTool(ts, "gitlab_get_single_branch").Handler(ctx,
				newRequest("gitlab_get_single_branch", map[string]any{"project_id": "group/app"}))
			So(err, ShouldBeNil)
			So(result.IsError, ShouldBeTrue)
			So(textOf(t, result), ShouldStartWith, "invalid_argument:")
			So(textOf(t, result), ShouldContainSubstring, `"branch"`)
			So(transport.calls, ShouldEqual, 0)
		})

		Convey("A numeric project ID is accepted where a path is", func() {
			_, err := findTool(ts, "gitlab_list_branches").Handler(ctx,
				newRequest("gitlab_list_branches", map[string]any{"project_id": float64(42)}))
			So(err, ShouldBeNil)
			So(transport.last.URL.Path, ShouldEqual, "/api/v4/projects/42/repository/branches")
		})

		Convey("An update with no fields to change is rejected", func() {
			result, err := findTool(ts, "update_gitlab_merge_request").Handler(ctx,
				newRequest("update_gitlab_merge_request", map[string]any{
					"project_id":        "group/app",
					"merge_request_iid": float64(3),
				}))
			So(err, ShouldBeNil)
			So(result.IsError, ShouldBeTrue)
			So(textOf(t, result), ShouldStartWith, "invalid_argument:")
			So(transport.calls, ShouldEqual, 0)
		})
	})
}

func TestRemoteErrorRendering(t *testing.T) {
	Convey("Given a toolset whose API answers with an error", t, func() {
		transport := &stubTransport{status: http.StatusForbidden, body: `{"message":"403 Forbidden"}`}
		ts, store := newToolset(t, transport)
		_, err := store.Configure("", "test-token-1234")
		So(err, ShouldBeNil)

		Convey("The status code and provider message are surfaced", func() {
			result, err := findTool(ts, "gitlab_delete_branch").Handler(context.Background(),
				newRequest("gitlab_delete_branch", map[string]any{
					"project_id": "group/app",
					"branch":     "old-branch",
				}))
			So(err, ShouldBeNil)
			So(result.IsError, ShouldBeTrue)
			So(textOf(t, result), ShouldEqual, "remote_error[403]: 403 Forbidden")
		})
	})
}

func TestIncidentAndAvatarTools(t *testing.T) {
	Convey("Given a configured toolset", t, func() {
		transport := &stubTransport{body: `{}`}
		ts, store := newToolset(t, transport)
		_, err := store.Configure("", "test-token-1234")
		So(err, ShouldBeNil)
		ctx := context.Background()

		Convey("promote_issue_to_epic posts a note carrying the quick action", func() {
			result, err := findTool(ts, "promote_issue_to_epic").Handler(ctx,
				newRequest("promote_issue_to_epic", map[string]any{
					"project_id": float64(7),
					"issue_iid":  float64(12),
					"comment":    "belongs at epic level",
				}))
			So(err, ShouldBeNil)
			So(result.IsError, ShouldBeFalse)
			So(transport.last.Method, ShouldEqual, http.MethodPost)
			So(transport.last.URL.Path, ShouldEqual, "/api/v4/projects/7/issues/12/notes")
			So(transport.last.URL.Query().Get("body"), ShouldEqual, "belongs at epic level\n\n/promote")
		})

		Convey("Without a comment the note body is the quick action alone", func() {
			_, err := findTool(ts, "promote_issue_to_epic").Handler(ctx,
				newRequest("promote_issue_to_epic", map[string]any{
					"project_id": float64(7),
					"issue_iid":  float64(12),
				}))
			So(err, ShouldBeNil)
			So(transport.last.URL.Query().Get("body"), ShouldEqual, "/promote")
		})

		Convey("update_incident_metric_image needs at least one attribute", func() {
			result, err := findTool(ts, "update_incident_metric_image").Handler(ctx,
				newRequest("update_incident_metric_image", map[string]any{
					"project_id": float64(7),
					"issue_iid":  float64(12),
					"image_id":   float64(3),
				}))
			So(err, ShouldBeNil)
			So(result.IsError, ShouldBeTrue)
			So(textOf(t, result), ShouldStartWith, "invalid_argument:")
			So(transport.calls, ShouldEqual, 0)
		})

		Convey("update_incident_metric_image sends the new attributes", func() {
			result, err := findTool(ts, "update_incident_metric_image").Handler(ctx,
				newRequest("update_incident_metric_image", map[string]any{
					"project_id": float64(7),
					"issue_iid":  float64(12),
					"image_id":   float64(3),
					"url_text":   "CPU during the incident",
				}))
			So(err, ShouldBeNil)
			So(result.IsError, ShouldBeFalse)
			So(transport.last.Method, ShouldEqual, http.MethodPut)
			So(transport.last.URL.Path, ShouldEqual, "/api/v4/projects/7/issues/12/metric_images/3")

			sent, err := io.ReadAll(transport.last.Body)
			So(err, ShouldBeNil)
			So(string(sent), ShouldContainSubstring, `"url_text":"CPU during the incident"`)
		})

		Convey("remove_project_avatar sends an explicit empty avatar value", func() {
			result, err := findTool(ts, "remove_project_avatar").Handler(ctx,
				newRequest("remove_project_avatar", map[string]any{"project_id": "group/app"}))
			So(err, ShouldBeNil)
			So(result.IsError, ShouldBeFalse)
			So(transport.last.Method, ShouldEqual, http.MethodPut)
			So(transport.last.URL.EscapedPath(), ShouldEqual, "/api/v4/projects/group%2Fapp")

			sent, err := io.ReadAll(transport.last.Body)
			So(err, ShouldBeNil)
			So(string(sent), ShouldEqual, `{"avatar":""}`)
		})
	})
}

func TestDispatchedPaths(t *testing.T) {
	Convey("Given a configured toolset", t, func() {
		transport := &stubTransport{body: `{}`}
		ts, store := newToolset(t, transport)
		_, err := store.Configure("https://gl.example.com/api/v4", "test-token-1234")
		So(err, ShouldBeNil)
		ctx := context.Background()

		cases := []struct {
			tool   string
			args   map[string]any
			method string
			path   string
		}{
			{
				tool:   "get_gitlab_single_merge_request",
				args:   map[string]any{"project_id": float64(7), "merge_request_iid": float64(12)},
				method: http.MethodGet,
				path:   "/api/v4/projects/7/merge_requests/12",
			},
			{
				tool:   "merge_gitlab_merge_request",
				args:   map[string]any{"project_id": float64(7), "merge_request_iid": float64(12), "squash": true},
				method: http.MethodPut,
				path:   "/api/v4/projects/7/merge_requests/12/merge",
			},
			{
				tool:   "subscribe_to_gitlab_merge_request",
				args:   map[string]any{"project_id": float64(7), "merge_request_iid": float64(12)},
				method: http.MethodPost,
				path:   "/api/v4/projects/7/merge_requests/12/subscribe",
			},
			{
				tool:   "approve_gitlab_merge_request",
				args:   map[string]any{"project_id": float64(7), "merge_request_iid": float64(12)},
				method: http.MethodPost,
				path:   "/api/v4/projects/7/merge_requests/12/approve",
			},
			{
				tool:   "archive_project",
				args:   map[string]any{"project_id": "group/app"},
				method: http.MethodPost,
				path:   "/api/v4/projects/group%2Fapp/archive",
			},
			{
				tool:   "unshare_project_from_group",
				args:   map[string]any{"project_id": float64(7), "group_id": float64(55)},
				method: http.MethodDelete,
				path:   "/api/v4/projects/7/share/55",
			},
			{
				tool:   "get_issue_user_agent_details",
				args:   map[string]any{"project_id": float64(7), "issue_iid": float64(12)},
				method: http.MethodGet,
				path:   "/api/v4/projects/7/issues/12/user_agent_detail",
			},
			{
				tool:   "delete_incident_metric_image",
				args:   map[string]any{"project_id": float64(7), "issue_iid": float64(12), "image_id": float64(3)},
				method: http.MethodDelete,
				path:   "/api/v4/projects/7/issues/12/metric_images/3",
			},
		}

		for _, tc := range cases {
			tc := tc
			Convey("Tool "+tc.tool+" hits "+tc.path, func() {
				result, err := findTool(ts, tc.tool).Handler(ctx, newRequest(tc.tool, tc.args))
				So(err, ShouldBeNil)
				So(result.IsError, ShouldBeFalse)
				So(transport.last.Method, ShouldEqual, tc.method)
				So(transport.last.URL.EscapedPath(), ShouldEqual, tc.path)
			})
		}
	})
}
