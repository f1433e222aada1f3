package gitlab

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/require"

	"github.com/BharadwajVedula1256/gitlab-mcp/pkg/config"
)

func configuredStore(t *testing.T, apiURL string) *config.Store {
	t.Helper()
	t.Setenv("GITLAB_API", "")
	t.Setenv("GITLAB_TOKEN", "")
	store := config.NewStore()
	_, err := store.Configure(apiURL, "test-token-1234")
	require.NoError(t, err)
	return store
}

func TestClientDo(t *testing.T) {
	Convey("Given a configured client against a stub GitLab", t, func() {
		var calls atomic.Int64
		var gotToken, gotPath, gotQuery string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			gotToken = r.Header.Get("PRIVATE-TOKEN")
			gotPath = r.URL.Path
			gotQuery = r.URL.RawQuery
			switch r.URL.Path {
			case "/projects/42":
				w.Write([]byte(`{"id":42,"name":"demo"}`))
			case "/projects/42/issues/7":
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(`{"message":"404 Issue Not Found"}`))
			case "/projects/42/unsubscribe":
				w.WriteHeader(http.StatusNoContent)
			case "/broken":
				w.Write([]byte(`<html>not json</html>`))
			}
		}))
		defer srv.Close()

		client := NewClient(configuredStore(t, srv.URL))
		ctx := context.Background()

		Convey("A 2xx JSON response is passed through undecoded", func() {
			raw, err := client.Do(ctx, http.MethodGet, "/projects/42", url.Values{"statistics": {"true"}}, nil)
			So(err, ShouldBeNil)
			So(string(raw), ShouldEqual, `{"id":42,"name":"demo"}`)
			So(gotToken, ShouldEqual, "test-token-1234")
			So(gotPath, ShouldEqual, "/projects/42")
			So(gotQuery, ShouldEqual, "statistics=true")
		})

		Convey("A 404 surfaces as a remote error with the provider message", func() {
			_, err := client.Do(ctx, http.MethodGet, "/projects/42/issues/7", nil, nil)
			var remote *RemoteError
			So(errors.As(err, &remote), ShouldBeTrue)
			So(remote.StatusCode, ShouldEqual, http.StatusNotFound)
			So(remote.Message, ShouldEqual, "404 Issue Not Found")
			So(remote.Timeout, ShouldBeFalse)
			So(remote.Unreachable, ShouldBeFalse)
		})

		Convey("An empty 204 body becomes a synthetic success document", func() {
			raw, err := client.Do(ctx, http.MethodPost, "/projects/42/unsubscribe", nil, nil)
			So(err, ShouldBeNil)
			So(string(raw), ShouldEqual, `{"status":"success"}`)
		})

		Convey("A non-JSON success body is an internal error", func() {
			_, err := client.Do(ctx, http.MethodGet, "/broken", nil, nil)
			var internal *InternalError
			So(errors.As(err, &internal), ShouldBeTrue)
		})

		Convey("DoRaw returns the body verbatim", func() {
			data, err := client.DoRaw(ctx, http.MethodGet, "/broken", nil)
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, `<html>not json</html>`)
		})
	})
}

func TestClientNotConfigured(t *testing.T) {
	t.Setenv("GITLAB_API", "")
	t.Setenv("GITLAB_TOKEN", "")

	Convey("Given a client with no token configured", t, func() {
		var calls atomic.Int64
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
		}))
		defer srv.Close()

		client := NewClient(config.NewStore())

		Convey("Do fails before any network activity", func() {
			_, err := client.Do(context.Background(), http.MethodGet, "/projects", nil, nil)
			So(errors.Is(err, ErrNotConfigured), ShouldBeTrue)
			So(calls.Load(), ShouldEqual, 0)
		})
	})
}

func TestClientTransportErrors(t *testing.T) {
	Convey("Given a server that never answers in time", t, func() {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-release
		}))
		defer srv.Close()
		defer close(release)

		client := NewClient(configuredStore(t, srv.URL))

		Convey("A context deadline maps to the timeout subtype", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 0)
			defer cancel()

			_, err := client.Do(ctx, http.MethodGet, "/projects", nil, nil)
			var remote *RemoteError
			So(errors.As(err, &remote), ShouldBeTrue)
			So(remote.Timeout, ShouldBeTrue)
			So(remote.StatusCode, ShouldEqual, 0)
		})
	})

	Convey("Given an endpoint nothing listens on", t, func() {
		client := NewClient(configuredStore(t, "http://127.0.0.1:1"))

		Convey("A connection refusal maps to the unreachable subtype", func() {
			_, err := client.Do(context.Background(), http.MethodGet, "/projects", nil, nil)
			var remote *RemoteError
			So(errors.As(err, &remote), ShouldBeTrue)
			So(remote.Unreachable, ShouldBeTrue)
			So(remote.Timeout, ShouldBeFalse)
		})
	})
}
