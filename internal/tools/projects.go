package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/devdash/internal/dashboard"
)

// DefaultFilesDepth is the tree depth used by get_project_files.
const DefaultFilesDepth = 2

// ListProjectsTool handles the list_projects MCP tool.
type ListProjectsTool struct {
	svc *dashboard.Service
}

// NewListProjectsTool creates a ListProjectsTool.
func NewListProjectsTool(svc *dashboard.Service) *ListProjectsTool {
	return &ListProjectsTool{svc: svc}
}

// Definition returns the MCP tool definition for list_projects.
func (t *ListProjectsTool) Definition() mcp.Tool {
	return mcp.NewTool("list_projects",
		mcp.WithDescription(
			"List every project in the scan directory (folders with a README.md) "+
				"with description, languages, Git status, favorite flag and tags.",
		),
	)
}

// Handle processes the list_projects tool call.
func (t *ListProjectsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	views, err := t.svc.Projects(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	if len(views) == 0 {
		return mcp.NewToolResultText("No projects found."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Projects (%d)\n\n", len(views))
	for _, v := range views {
		star := ""
		if v.IsFavorite {
			star = " ★"
		}
		fmt.Fprintf(&sb, "### %s%s\n", v.Name, star)
		fmt.Fprintf(&sb, "%s\n\n", v.Description)
		fmt.Fprintf(&sb, "- **Languages**: %s\n", languageLine(v.Languages))
		fmt.Fprintf(&sb, "- **Git**: %s\n", v.GitStatus.Detail)
		fmt.Fprintf(&sb, "- **Tags**: %s\n\n", tagList(v.Tags))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// ProjectInfoTool handles the get_project_info MCP tool.
type ProjectInfoTool struct {
	svc *dashboard.Service
}

// NewProjectInfoTool creates a ProjectInfoTool.
func NewProjectInfoTool(svc *dashboard.Service) *ProjectInfoTool {
	return &ProjectInfoTool{svc: svc}
}

// Definition returns the MCP tool definition for get_project_info.
func (t *ProjectInfoTool) Definition() mcp.Tool {
	return mcp.NewTool("get_project_info",
		mcp.WithDescription(
			"Full metadata for one project: languages, Git status, dependencies, "+
				"favorite flag, tags and when it was last scanned.",
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Folder name of the project inside the scan directory"),
		),
	)
}

// Handle processes the get_project_info tool call.
func (t *ProjectInfoTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, errRes := requiredString(req, "name")
	if errRes != nil {
		return errRes, nil
	}

	v, err := t.svc.Project(ctx, name)
	if err != nil {
		return domainError(err)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## %s\n\n", v.Name)
	fmt.Fprintf(&sb, "%s\n\n", v.Description)
	fmt.Fprintf(&sb, "- **Path**: %s\n", v.Path)
	fmt.Fprintf(&sb, "- **Languages**: %s\n", languageLine(v.Languages))
	fmt.Fprintf(&sb, "- **Git**: %s (%s)\n", v.GitStatus.Kind, v.GitStatus.Detail)
	fmt.Fprintf(&sb, "- **Favorite**: %t\n", v.IsFavorite)
	fmt.Fprintf(&sb, "- **Tags**: %s\n", tagList(v.Tags))
	if v.CacheAgeSeconds != nil {
		fmt.Fprintf(&sb, "- **Last scanned**: %d seconds ago\n", *v.CacheAgeSeconds)
	}

	if len(v.Dependencies) > 0 {
		sb.WriteString("\n### Dependencies\n\n")
		for _, eco := range sortedKeys(v.Dependencies) {
			deps := v.Dependencies[eco]
			if len(deps) == 0 {
				fmt.Fprintf(&sb, "- **%s**: none\n", eco)
				continue
			}
			fmt.Fprintf(&sb, "- **%s**: %s\n", eco, strings.Join(deps, ", "))
		}
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// ProjectFilesTool handles the get_project_files MCP tool.
type ProjectFilesTool struct {
	svc *dashboard.Service
}

// NewProjectFilesTool creates a ProjectFilesTool.
func NewProjectFilesTool(svc *dashboard.Service) *ProjectFilesTool {
	return &ProjectFilesTool{svc: svc}
}

// Definition returns the MCP tool definition for get_project_files.
func (t *ProjectFilesTool) Definition() mcp.Tool {
	return mcp.NewTool("get_project_files",
		mcp.WithDescription(
			"Directory tree of a project as JSON. Folders come first, "+
				"hidden entries and dependency or build folders are left out.",
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Folder name of the project inside the scan directory"),
		),
		mcp.WithNumber("depth",
			mcp.Description(fmt.Sprintf("How many levels to descend (default: %d)", DefaultFilesDepth)),
		),
	)
}

// Handle processes the get_project_files tool call.
func (t *ProjectFilesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, errRes := requiredString(req, "name")
	if errRes != nil {
		return errRes, nil
	}
	depth := intArg(req, "depth", DefaultFilesDepth)

	tree, err := t.svc.Manager().Tree(name, depth)
	if err != nil {
		return domainError(err)
	}
	if tree == nil {
		return mcp.NewToolResultError("depth must not be negative"), nil
	}

	block, err := jsonBlock(tree)
	if err != nil {
		return nil, err
	}
	note := ""
	if tree.Partial {
		note = "\n_Some folders could not be read; the listing is partial._\n"
	}
	return mcp.NewToolResultText(fmt.Sprintf("## Files of %s\n\n%s%s", name, block, note)), nil
}
