// Package liteserver is the lightweight MCP surface: three typed tools
// with small JSON answers, served through the official MCP Go SDK.
package liteserver

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Setup creates the lite MCP server with all tool registrations.
func Setup(h *Handler, version string) *mcp.Server {
	srv := mcp.NewServer(
		&mcp.Implementation{
			Name:    "devdash-lite",
			Version: version,
		},
		&mcp.ServerOptions{
			Instructions: `Lightweight view of the user's local projects. Every answer is compact JSON.

- lite_list_projects: one row per project (name, has_git, dirty, last_commit_days, favorite)
- lite_scan_directory: files and folders of one project, optionally filtered by extension
- lite_git_info: Git summary of one project

Projects are addressed by folder name inside the scan directory.`,
		},
	)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "lite_list_projects",
		Description: "List projects with Git state and favorite flag. last_commit_days is -1 when unknown.",
	}, h.HandleList)

	mcp.AddTool(srv, &mcp.Tool{
		Name: "lite_scan_directory",
		Description: `List files and folders of a project up to a depth (default 2).

Hidden entries and dependency or build folders are skipped.
include_extensions keeps only matching files, e.g. [".go", ".md"].`,
	}, h.HandleScan)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "lite_git_info",
		Description: "Git summary of one project: has_git, dirty, last_commit_days.",
	}, h.HandleGit)

	return srv
}
