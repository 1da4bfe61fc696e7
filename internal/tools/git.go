package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/devdash/internal/dashboard"
	"github.com/HendryAvila/devdash/internal/project"
)

// ModifiedProjectsTool handles the get_modified_projects MCP tool.
type ModifiedProjectsTool struct {
	svc *dashboard.Service
}

// NewModifiedProjectsTool creates a ModifiedProjectsTool.
func NewModifiedProjectsTool(svc *dashboard.Service) *ModifiedProjectsTool {
	return &ModifiedProjectsTool{svc: svc}
}

// Definition returns the MCP tool definition for get_modified_projects.
func (t *ModifiedProjectsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_modified_projects",
		mcp.WithDescription("List projects whose Git working tree has uncommitted changes."),
	)
}

// Handle processes the get_modified_projects tool call.
func (t *ModifiedProjectsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := t.svc.Manager().Modified(ctx)
	if err != nil {
		return nil, fmt.Errorf("probing projects: %w", err)
	}
	if len(list) == 0 {
		return mcp.NewToolResultText("All Git projects are clean."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Modified Projects (%d)\n\n", len(list))
	for _, m := range list {
		fmt.Fprintf(&sb, "- **%s**: %s\n", m.Name, m.GitDetail)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// BatchGitStatusTool handles the batch_git_status MCP tool.
type BatchGitStatusTool struct {
	svc *dashboard.Service
}

// NewBatchGitStatusTool creates a BatchGitStatusTool.
func NewBatchGitStatusTool(svc *dashboard.Service) *BatchGitStatusTool {
	return &BatchGitStatusTool{svc: svc}
}

// Definition returns the MCP tool definition for batch_git_status.
func (t *BatchGitStatusTool) Definition() mcp.Tool {
	return mcp.NewTool("batch_git_status",
		mcp.WithDescription(
			"Probe every project and group them by Git status: Clean, Modified, NotARepo, Error.",
		),
	)
}

// Handle processes the batch_git_status tool call.
func (t *BatchGitStatusTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	groups, err := t.svc.Manager().BatchGitStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("probing projects: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("## Git Status\n\n")
	for _, kind := range project.StatusKinds {
		names := groups[kind]
		if len(names) == 0 {
			fmt.Fprintf(&sb, "- **%s** (0)\n", kind)
			continue
		}
		fmt.Fprintf(&sb, "- **%s** (%d): %s\n", kind, len(names), strings.Join(names, ", "))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// NoReadmeTool handles the find_projects_without_readme MCP tool.
type NoReadmeTool struct {
	svc *dashboard.Service
}

// NewNoReadmeTool creates a NoReadmeTool.
func NewNoReadmeTool(svc *dashboard.Service) *NoReadmeTool {
	return &NoReadmeTool{svc: svc}
}

// Definition returns the MCP tool definition for find_projects_without_readme.
func (t *NoReadmeTool) Definition() mcp.Tool {
	return mcp.NewTool("find_projects_without_readme",
		mcp.WithDescription(
			"List folders in the scan directory that have no README.md and are therefore "+
				"not recognized as projects.",
		),
	)
}

// Handle processes the find_projects_without_readme tool call.
func (t *NoReadmeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names, err := t.svc.Manager().WithoutReadme()
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return mcp.NewToolResultText("Every folder has a README.md."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Folders without README.md (%d)\n\n", len(names))
	for _, n := range names {
		fmt.Fprintf(&sb, "- %s\n", n)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// WorkspaceSummaryTool handles the analyze_workspace_summary MCP tool.
type WorkspaceSummaryTool struct {
	svc *dashboard.Service
}

// NewWorkspaceSummaryTool creates a WorkspaceSummaryTool.
func NewWorkspaceSummaryTool(svc *dashboard.Service) *WorkspaceSummaryTool {
	return &WorkspaceSummaryTool{svc: svc}
}

// Definition returns the MCP tool definition for analyze_workspace_summary.
func (t *WorkspaceSummaryTool) Definition() mcp.Tool {
	return mcp.NewTool("analyze_workspace_summary",
		mcp.WithDescription(
			"One-shot overview of the workspace: project count, most used languages, "+
				"Git health and folders missing a README.",
		),
	)
}

// Handle processes the analyze_workspace_summary tool call.
func (t *WorkspaceSummaryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := t.svc.Statistics(ctx)
	if err != nil {
		return nil, fmt.Errorf("computing statistics: %w", err)
	}
	return mcp.NewToolResultText(workspaceSummary(t.svc.Manager().Root(), stats)), nil
}

func workspaceSummary(root string, stats *dashboard.Statistics) string {
	var sb strings.Builder
	sb.WriteString("## Workspace Summary\n\n")
	fmt.Fprintf(&sb, "- **Scan directory**: %s\n", root)
	fmt.Fprintf(&sb, "- **Projects**: %d\n", stats.TotalProjects)
	fmt.Fprintf(&sb, "- **Favorites**: %d\n", stats.FavoritesCount)
	fmt.Fprintf(&sb, "- **Folders without README**: %d\n", stats.FoldersWithoutReadme)

	sb.WriteString("\n### Git\n\n")
	fmt.Fprintf(&sb, "- %s: %d\n", project.StatusClean, stats.GitStatus.Clean)
	fmt.Fprintf(&sb, "- %s: %d\n", project.StatusModified, stats.GitStatus.Modified)
	fmt.Fprintf(&sb, "- %s: %d\n", project.StatusNotARepo, stats.GitStatus.NotGit)
	fmt.Fprintf(&sb, "- %s: %d\n", project.StatusError, stats.GitStatus.Errors)

	sb.WriteString("\n### Top Languages\n\n")
	if len(stats.TopLanguages) == 0 {
		sb.WriteString("_No source files detected._\n")
	}
	for _, lc := range stats.TopLanguages {
		fmt.Fprintf(&sb, "- %s: %d project(s)\n", lc.Language, lc.ProjectCount)
	}
	return sb.String()
}
