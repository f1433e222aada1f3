// Package config holds the process-wide GitLab connection settings.
//
// Settings are seeded once from the environment at startup and can be
// replaced at runtime through the configure_gitlab tool. Every tool
// handler reads a snapshot of the current settings, so a concurrent
// reconfiguration never produces a mixed URL/token pair.
package config

import (
	"errors"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

// DefaultAPIURL is used when no API URL is supplied via environment or
// the configure tool.
const DefaultAPIURL = "https://gitlab.com/api/v4"

// ErrEmptyToken is returned by Configure when the token argument is
// missing or blank. The previous settings are left untouched.
var ErrEmptyToken = errors.New("token is required")

// Settings is the immutable value handed to tool handlers.
type Settings struct {
	APIURL string
	Token  string
}

// Configured reports whether a token is present. The API URL always has
// a value (the default at minimum), so the token is the deciding field.
func (s Settings) Configured() bool {
	return s.Token != ""
}

// Status is the redacted view of the current settings returned by the
// configure_gitlab and check_gitlab_config tools. The raw token never
// appears here.
type Status struct {
	APIURL     string `json:"api_url"`
	Configured bool   `json:"configured"`
	Token      string `json:"token,omitempty"`
	Message    string `json:"message"`
}

// Store guards the mutable settings cell.
type Store struct {
	mu       sync.RWMutex
	settings Settings
}

// NewStore builds a store seeded from the GITLAB_API and GITLAB_TOKEN
// environment variables. A missing GITLAB_API falls back to the public
// gitlab.com endpoint; a missing GITLAB_TOKEN leaves the store
// unconfigured until Configure is called.
func NewStore() *Store {
	v := viper.New()
	v.SetDefault("api_url", DefaultAPIURL)
	_ = v.BindEnv("api_url", "GITLAB_API")
	_ = v.BindEnv("token", "GITLAB_TOKEN")

	return &Store{settings: Settings{
		APIURL: v.GetString("api_url"),
		Token:  v.GetString("token"),
	}}
}

// Configure replaces the stored token and, when apiURL is non-empty, the
// API base URL. An empty token fails with ErrEmptyToken and leaves the
// prior settings unchanged.
func (s *Store) Configure(apiURL, token string) (Status, error) {
	if strings.TrimSpace(token) == "" {
		return Status{}, ErrEmptyToken
	}

	s.mu.Lock()
	if apiURL != "" {
		s.settings.APIURL = apiURL
	}
	s.settings.Token = token
	current := s.settings
	s.mu.Unlock()

	return statusFor(current), nil
}

// Check returns the redacted view of the current settings.
func (s *Store) Check() Status {
	return statusFor(s.Snapshot())
}

// Snapshot returns a consistent copy of the settings for one tool call.
func (s *Store) Snapshot() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings
}

func statusFor(settings Settings) Status {
	status := Status{
		APIURL:     settings.APIURL,
		Configured: settings.Configured(),
	}
	if status.Configured {
		status.Token = MaskToken(settings.Token)
		status.Message = "GitLab credentials configured. GitLab tools are ready to use."
	} else {
		status.Message = "GitLab token not set. Run configure_gitlab with your personal access token first."
	}
	return status
}

// MaskToken redacts a token for display. Tokens of eight characters or
// more keep their last four characters; anything shorter is fully
// masked.
func MaskToken(token string) string {
	if len(token) >= 8 {
		return "****" + token[len(token)-4:]
	}
	return "****"
}
