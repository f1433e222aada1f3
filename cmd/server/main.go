// Command server runs the GitLab MCP server over stdio.
package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/server"

	"github.com/BharadwajVedula1256/gitlab-mcp/pkg/config"
	"github.com/BharadwajVedula1256/gitlab-mcp/pkg/gitlab"
	"github.com/BharadwajVedula1256/gitlab-mcp/pkg/tools"
)

func main() {
	// Stdout belongs to the MCP transport, so all logging goes to
	// stderr.
	log.SetOutput(os.Stderr)
	if os.Getenv("GITLAB_MCP_DEBUG") != "" {
		log.SetLevel(log.DebugLevel)
	}

	store := config.NewStore()
	if status := store.Check(); status.Configured {
		log.Info("gitlab credentials loaded from environment", "api_url", status.APIURL)
	} else {
		log.Info("gitlab credentials not set, waiting for configure_gitlab")
	}

	mcpServer := server.NewMCPServer(
		"GitLab MCP Server",
		"1.0.0",
		server.WithResourceCapabilities(false, false),
		server.WithLogging(),
	)

	client := gitlab.NewClient(store)
	tools.NewToolset(store, client).Register(mcpServer)

	log.Info("server started, waiting for requests")
	if err := server.ServeStdio(mcpServer); err != nil {
		log.Fatal("server error", "error", err)
	}
}
