package config

import (
	"fmt"
	"sync"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestStore(t *testing.T) {
	t.Setenv("GITLAB_API", "")
	t.Setenv("GITLAB_TOKEN", "")

	Convey("Given a fresh store", t, func() {
		store := NewStore()

		Convey("Check reports the default API URL and no token", func() {
			status := store.Check()
			So(status.APIURL, ShouldEqual, DefaultAPIURL)
			So(status.Configured, ShouldBeFalse)
			So(status.Token, ShouldBeEmpty)
		})

		Convey("Configure with a token marks the store configured", func() {
			status, err := store.Configure("", "glpat-abcdef123456")
			So(err, ShouldBeNil)
			So(status.Configured, ShouldBeTrue)
			So(status.APIURL, ShouldEqual, DefaultAPIURL)
			So(status.Token, ShouldEqual, "****3456")

			Convey("And the snapshot carries the raw token", func() {
				snap := store.Snapshot()
				So(snap.Token, ShouldEqual, "glpat-abcdef123456")
				So(snap.Configured(), ShouldBeTrue)
			})
		})

		Convey("Configure with a custom API URL overrides the default", func() {
			status, err := store.Configure("https://gitlab.example.com/api/v4", "secret-token")
			So(err, ShouldBeNil)
			So(status.APIURL, ShouldEqual, "https://gitlab.example.com/api/v4")
		})

		Convey("Configure with an empty token fails and keeps prior state", func() {
			_, err := store.Configure("", "first-token")
			So(err, ShouldBeNil)

			_, err = store.Configure("https://other.example.com", "")
			So(err, ShouldEqual, ErrEmptyToken)

			snap := store.Snapshot()
			So(snap.Token, ShouldEqual, "first-token")
			So(snap.APIURL, ShouldEqual, DefaultAPIURL)
		})

		Convey("Reconfiguration replaces earlier credentials", func() {
			_, err := store.Configure("", "first-token")
			So(err, ShouldBeNil)
			_, err = store.Configure("", "second-token")
			So(err, ShouldBeNil)
			So(store.Snapshot().Token, ShouldEqual, "second-token")
		})
	})
}

func TestSnapshotUnderConcurrentConfigure(t *testing.T) {
	t.Setenv("GITLAB_API", "")
	t.Setenv("GITLAB_TOKEN", "")

	Convey("Given concurrent configure and snapshot calls", t, func() {
		store := NewStore()
		pairs := map[string]string{}
		for i := 0; i < 8; i++ {
			pairs[fmt.Sprintf("https://gl%d.example.com/api/v4", i)] = fmt.Sprintf("token-%d", i)
		}

		var wg sync.WaitGroup
		for apiURL, token := range pairs {
			wg.Add(1)
			go func(apiURL, token string) {
				defer wg.Done()
				_, _ = store.Configure(apiURL, token)
			}(apiURL, token)
		}

		snapshots := make(chan Settings, 64)
		for i := 0; i < 64; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				snapshots <- store.Snapshot()
			}()
		}
		wg.Wait()
		close(snapshots)

		Convey("Every snapshot holds a matched URL and token pair", func() {
			for snap := range snapshots {
				if snap.Token == "" {
					continue // observed the initial state
				}
				So(pairs[snap.APIURL], ShouldEqual, snap.Token)
			}
		})
	})
}

func TestMaskToken(t *testing.T) {
	Convey("Given tokens of various lengths", t, func() {
		Convey("Long tokens keep their last four characters", func() {
			So(MaskToken("glpat-abcdef123456"), ShouldEqual, "****3456")
		})

		Convey("Short tokens are fully masked", func() {
			So(MaskToken("abc"), ShouldEqual, "****")
			So(MaskToken("1234567"), ShouldEqual, "****")
		})

		Convey("An empty token is fully masked", func() {
			So(MaskToken(""), ShouldEqual, "****")
		})
	})
}
