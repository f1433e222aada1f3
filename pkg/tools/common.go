package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/BharadwajVedula1256/gitlab-mcp/pkg/gitlab"
)

// call performs one JSON API request and renders the outcome as a tool
// result. Transport and API failures become error results, never Go
// errors, so the server stays available after any single tool failure.
func (ts *Toolset) call(ctx context.Context, method, path string, query url.Values, body any) (*mcp.CallToolResult, error) {
	raw, err := ts.client.Do(ctx, method, path, query, body)
	if err != nil {
		return errResult(err), nil
	}
	return mcp.NewToolResultText(string(raw)), nil
}

// callRaw is call for endpoints that return plain text (raw blobs,
// diffs, archives).
func (ts *Toolset) callRaw(ctx context.Context, method, path string, query url.Values) (*mcp.CallToolResult, error) {
	data, err := ts.client.DoRaw(ctx, method, path, query)
	if err != nil {
		return errResult(err), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// errResult maps the error taxonomy onto prefixed tool error strings.
func errResult(err error) *mcp.CallToolResult {
	var (
		argErr   *gitlab.ArgumentError
		remote   *gitlab.RemoteError
		internal *gitlab.InternalError
	)
	switch {
	case errors.Is(err, gitlab.ErrNotConfigured):
		return mcp.NewToolResultError("not_configured: " + err.Error())
	case errors.As(err, &argErr):
		return mcp.NewToolResultError("invalid_argument: " + err.Error())
	case errors.As(err, &remote):
		switch {
		case remote.Timeout:
			return mcp.NewToolResultError("remote_error[timeout]: " + remote.Message)
		case remote.Unreachable:
			return mcp.NewToolResultError("remote_error[unreachable]: " + remote.Message)
		default:
			return mcp.NewToolResultError(fmt.Sprintf("remote_error[%d]: %s", remote.StatusCode, remote.Message))
		}
	case errors.As(err, &internal):
		return mcp.NewToolResultError("internal_error: " + err.Error())
	default:
		return mcp.NewToolResultError("internal_error: " + err.Error())
	}
}

// reqString extracts a required non-empty string argument.
func reqString(request mcp.CallToolRequest, key string) (string, error) {
	val, ok := request.Params.Arguments[key]
	if !ok || val == nil {
		return "", &gitlab.ArgumentError{Name: key, Reason: "is required"}
	}
	s, ok := val.(string)
	if !ok {
		return "", &gitlab.ArgumentError{Name: key, Reason: "must be a string"}
	}
	if s == "" {
		return "", &gitlab.ArgumentError{Name: key, Reason: "must not be empty"}
	}
	return s, nil
}

// optString extracts an optional string argument, empty when absent.
func optString(request mcp.CallToolRequest, key string) string {
	s, _ := request.Params.Arguments[key].(string)
	return s
}

// reqID extracts a required project/group identifier that may arrive as
// a number or as a path string. Path strings are URL-encoded so they can
// be embedded as a single path segment.
func reqID(request mcp.CallToolRequest, key string) (string, error) {
	val, ok := request.Params.Arguments[key]
	if !ok || val == nil {
		return "", &gitlab.ArgumentError{Name: key, Reason: "is required"}
	}
	switch v := val.(type) {
	case string:
		if v == "" {
			return "", &gitlab.ArgumentError{Name: key, Reason: "must not be empty"}
		}
		return url.PathEscape(v), nil
	case float64:
		return strconv.FormatInt(int64(v), 10), nil
	default:
		return "", &gitlab.ArgumentError{Name: key, Reason: "must be a project path or numeric ID"}
	}
}

// reqInt extracts a required integer argument. JSON numbers arrive as
// float64.
func reqInt(request mcp.CallToolRequest, key string) (int, error) {
	val, ok := request.Params.Arguments[key]
	if !ok || val == nil {
		return 0, &gitlab.ArgumentError{Name: key, Reason: "is required"}
	}
	f, ok := val.(float64)
	if !ok {
		return 0, &gitlab.ArgumentError{Name: key, Reason: "must be a number"}
	}
	return int(f), nil
}

// jsonArrayArg extracts a required array argument that may arrive as a
// JSON array or as a string containing one.
func jsonArrayArg(request mcp.CallToolRequest, key string) ([]any, error) {
	val, ok := request.Params.Arguments[key]
	if !ok || val == nil {
		return nil, &gitlab.ArgumentError{Name: key, Reason: "is required"}
	}
	switch v := val.(type) {
	case []any:
		return v, nil
	case string:
		var items []any
		if err := json.Unmarshal([]byte(v), &items); err != nil {
			return nil, &gitlab.ArgumentError{Name: key, Reason: "must be a JSON array"}
		}
		return items, nil
	default:
		return nil, &gitlab.ArgumentError{Name: key, Reason: "must be a JSON array"}
	}
}

// queryFrom copies the named optional arguments into query parameters
// verbatim. Arrays become repeated parameters, matching GitLab's
// key[]=value convention when the key is declared that way.
func queryFrom(request mcp.CallToolRequest, keys ...string) url.Values {
	query := url.Values{}
	for _, key := range keys {
		val, ok := request.Params.Arguments[key]
		if !ok || val == nil {
			continue
		}
		switch v := val.(type) {
		case string:
			if v != "" {
				query.Set(key, v)
			}
		case bool:
			query.Set(key, strconv.FormatBool(v))
		case float64:
			query.Set(key, formatNumber(v))
		case []any:
			for _, item := range v {
				query.Add(key, fmt.Sprint(item))
			}
		default:
			query.Set(key, fmt.Sprint(v))
		}
	}
	return query
}

// payloadFrom copies the named optional arguments into a JSON body,
// passing values through untouched. Empty strings are treated as absent.
func payloadFrom(request mcp.CallToolRequest, keys ...string) map[string]any {
	payload := map[string]any{}
	for _, key := range keys {
		val, ok := request.Params.Arguments[key]
		if !ok || val == nil {
			continue
		}
		if s, isString := val.(string); isString && s == "" {
			continue
		}
		payload[key] = val
	}
	return payload
}

func formatNumber(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
