// Package gitlab is a thin client for the GitLab REST API v4. Each call
// reads the current credentials from the config store, performs exactly
// one HTTP request and translates failures into the error taxonomy in
// errors.go. There is no retry, caching or pagination aggregation.
package gitlab

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/BharadwajVedula1256/gitlab-mcp/pkg/config"
)

// DefaultTimeout bounds every API call.
const DefaultTimeout = 30 * time.Second

// Client performs authenticated requests against the configured GitLab
// instance.
type Client struct {
	store *config.Store
	httpc *http.Client
}

// NewClient builds a client with the default bounded-timeout transport.
func NewClient(store *config.Store) *Client {
	return NewClientWithHTTP(store, &http.Client{Timeout: DefaultTimeout})
}

// NewClientWithHTTP builds a client over a caller-supplied HTTP client.
// Used by tests to substitute a stub transport.
func NewClientWithHTTP(store *config.Store, httpc *http.Client) *Client {
	return &Client{store: store, httpc: httpc}
}

// Do performs one JSON API call. The path is appended to the configured
// base URL, query parameters are passed through verbatim and a non-nil
// body is sent as JSON. The response body is returned undecoded so tools
// can mirror the resource representation back to the caller.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	data, err := c.send(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		// 204-style responses (deletes, subscriptions) have no body.
		return json.RawMessage(`{"status":"success"}`), nil
	}
	if !json.Valid(data) {
		return nil, &InternalError{Op: "decode response", Err: errors.New("response body is not valid JSON")}
	}
	return json.RawMessage(data), nil
}

// DoRaw performs one API call against an endpoint that returns plain
// text rather than JSON, such as raw file contents or raw diffs.
func (c *Client) DoRaw(ctx context.Context, method, path string, query url.Values) ([]byte, error) {
	return c.send(ctx, method, path, query, nil)
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	settings := c.store.Snapshot()
	if !settings.Configured() {
		return nil, ErrNotConfigured
	}

	endpoint := strings.TrimRight(settings.APIURL, "/") + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, &InternalError{Op: "encode request body", Err: err}
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, &InternalError{Op: "build request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("PRIVATE-TOKEN", settings.Token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	requestID := uuid.NewString()
	log.Debug("gitlab request", "id", requestID, "method", method, "path", path)

	resp, err := c.httpc.Do(req)
	if err != nil {
		log.Debug("gitlab transport failure", "id", requestID, "err", err)
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &InternalError{Op: "read response", Err: err}
	}

	log.Debug("gitlab response", "id", requestID, "status", resp.StatusCode)

	if resp.StatusCode >= 400 {
		return nil, remoteError(resp.StatusCode, data)
	}
	return data, nil
}

// remoteError extracts the provider's message from an error body when it
// is parseable; otherwise the raw body is surfaced for diagnosis.
func remoteError(status int, body []byte) error {
	message := strings.TrimSpace(string(body))
	var payload struct {
		Message any    `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Error != "":
			message = payload.Error
		case payload.Message != nil:
			message = fmt.Sprint(payload.Message)
		}
	}
	return &RemoteError{StatusCode: status, Message: message}
}

func transportError(err error) error {
	remote := &RemoteError{Message: err.Error()}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		remote.Timeout = true
	} else {
		remote.Unreachable = true
	}
	return remote
}
