// Package server wires all dashboard components and creates the MCP
// server instance.
//
// This is the composition root: it creates concrete implementations and
// injects them into the tools, prompts and resources. No business logic
// lives here, only wiring.
package server

import (
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/HendryAvila/devdash/internal/config"
	"github.com/HendryAvila/devdash/internal/dashboard"
	"github.com/HendryAvila/devdash/internal/ignore"
	"github.com/HendryAvila/devdash/internal/project"
	"github.com/HendryAvila/devdash/internal/prompts"
	"github.com/HendryAvila/devdash/internal/resources"
	"github.com/HendryAvila/devdash/internal/store"
	"github.com/HendryAvila/devdash/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Bootstrap builds the dashboard service from configuration. The
// returned cleanup function closes the metadata store and must be called
// on shutdown (typically via defer). It is always non-nil.
func Bootstrap(cfg *config.Config, logger *slog.Logger) (*dashboard.Service, func(), error) {
	if logger == nil {
		logger = slog.Default()
	}

	manager, err := project.NewManager(project.Options{
		Root: cfg.ScanDir,
		Ignore: ignore.NewMatcher(ignore.Options{
			Patterns:         cfg.Ignore.Patterns,
			RespectGitignore: cfg.Ignore.RespectGitignore,
		}),
		AllowedEditors: cfg.Editor.Allowed,
		DefaultEditor:  cfg.Editor.Default,
		Logger:         logger,
	})
	if err != nil {
		return nil, noop, fmt.Errorf("opening scan directory: %w", err)
	}

	storeCfg := store.DefaultConfig()
	storeCfg.DBPath = cfg.Store.DBPath
	st, err := store.New(storeCfg)
	if err != nil {
		return nil, noop, fmt.Errorf("opening metadata store: %w", err)
	}
	logger.Debug("metadata store ready", "path", st.Path())

	cleanup := func() {
		if err := st.Close(); err != nil {
			logger.Warn("metadata store close", "error", err)
		}
	}
	return dashboard.New(manager, st, logger), cleanup, nil
}

// New creates the MCP server with all tools, prompts and resources
// registered.
func New(svc *dashboard.Service) *server.MCPServer {
	s := server.NewMCPServer(
		"devdash",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	registerProjectTools(s, svc)
	registerCurationTools(s, svc)
	registerMaintenanceTools(s, svc)

	// --- Register prompts ---

	reviewPrompt := prompts.NewReviewPrompt()
	s.AddPrompt(reviewPrompt.Definition(), reviewPrompt.Handle)

	projectPrompt := prompts.NewProjectPrompt()
	s.AddPrompt(projectPrompt.Definition(), projectPrompt.Handle)

	// --- Register resources ---

	resourceHandler := resources.NewHandler(svc)
	s.AddResource(resourceHandler.WorkspaceResource(), resourceHandler.HandleWorkspace)

	return s
}

// noop is the cleanup returned when nothing was opened.
func noop() {}

// registerProjectTools registers the read-only project and search tools.
func registerProjectTools(s *server.MCPServer, svc *dashboard.Service) {
	listTool := tools.NewListProjectsTool(svc)
	s.AddTool(listTool.Definition(), listTool.Handle)

	infoTool := tools.NewProjectInfoTool(svc)
	s.AddTool(infoTool.Definition(), infoTool.Handle)

	filesTool := tools.NewProjectFilesTool(svc)
	s.AddTool(filesTool.Definition(), filesTool.Handle)

	// --- Search ---
	langTool := tools.NewSearchLanguageTool(svc)
	s.AddTool(langTool.Definition(), langTool.Handle)

	tagSearch := tools.NewSearchTagTool(svc)
	s.AddTool(tagSearch.Definition(), tagSearch.Handle)

	allTags := tools.NewAllTagsTool(svc)
	s.AddTool(allTags.Definition(), allTags.Handle)

	// --- Git & diagnostics ---
	modifiedTool := tools.NewModifiedProjectsTool(svc)
	s.AddTool(modifiedTool.Definition(), modifiedTool.Handle)

	batchTool := tools.NewBatchGitStatusTool(svc)
	s.AddTool(batchTool.Definition(), batchTool.Handle)

	readmeTool := tools.NewNoReadmeTool(svc)
	s.AddTool(readmeTool.Definition(), readmeTool.Handle)

	summaryTool := tools.NewWorkspaceSummaryTool(svc)
	s.AddTool(summaryTool.Definition(), summaryTool.Handle)
}

// registerCurationTools registers favorites and tags.
func registerCurationTools(s *server.MCPServer, svc *dashboard.Service) {
	toggleTool := tools.NewToggleFavoriteTool(svc)
	s.AddTool(toggleTool.Definition(), toggleTool.Handle)

	favTool := tools.NewListFavoritesTool(svc)
	s.AddTool(favTool.Definition(), favTool.Handle)

	notesTool := tools.NewFavoriteNotesTool(svc)
	s.AddTool(notesTool.Definition(), notesTool.Handle)

	addTag := tools.NewAddTagTool(svc)
	s.AddTool(addTag.Definition(), addTag.Handle)

	removeTag := tools.NewRemoveTagTool(svc)
	s.AddTool(removeTag.Definition(), removeTag.Handle)

	projectTags := tools.NewProjectTagsTool(svc)
	s.AddTool(projectTags.Definition(), projectTags.Handle)
}

// registerMaintenanceTools registers editor, cache, export and insight tools.
func registerMaintenanceTools(s *server.MCPServer, svc *dashboard.Service) {
	editorTool := tools.NewOpenEditorTool(svc)
	s.AddTool(editorTool.Definition(), editorTool.Handle)

	vscodeTool := tools.NewOpenVSCodeTool(svc)
	s.AddTool(vscodeTool.Definition(), vscodeTool.Handle)

	cacheTool := tools.NewClearCacheTool(svc)
	s.AddTool(cacheTool.Definition(), cacheTool.Handle)

	exportTool := tools.NewExportTool(svc)
	s.AddTool(exportTool.Definition(), exportTool.Handle)

	statsTool := tools.NewStatisticsTool(svc)
	s.AddTool(statsTool.Definition(), statsTool.Handle)

	suggestTool := tools.NewSuggestTool(svc)
	s.AddTool(suggestTool.Definition(), suggestTool.Handle)
}

// serverInstructions tells the AI how to use the dashboard tools.
func serverInstructions() string {
	return `You have access to devdash, a dashboard over the user's local project folders.

## WHAT IS A PROJECT
Every immediate child folder of the scan directory that contains a README.md.
Projects are addressed by folder name. Paths outside the scan directory are rejected.

## READ THE WORKSPACE
- list_projects: every project with languages, Git status, favorite flag and tags
- get_project_info / get_project_files: one project in depth
- analyze_workspace_summary: counts and health at a glance
- batch_git_status / get_modified_projects: uncommitted work
- find_projects_without_readme: folders the dashboard cannot see

## CURATE
- toggle_project_favorite, list_favorites, update_favorite_notes
- add_project_tag, remove_project_tag, get_project_tags, get_all_tags, search_projects_by_tag

## ACT
- open_in_editor only launches editors on the configured allowlist
- suggest_next_actions turns the current state into a short to-do list

Project data is always read from disk. Favorites and tags live in a local SQLite store.`
}
