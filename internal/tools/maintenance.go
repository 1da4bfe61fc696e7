package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/devdash/internal/dashboard"
)

// OpenEditorTool handles the open_in_editor MCP tool.
type OpenEditorTool struct {
	svc *dashboard.Service
}

// NewOpenEditorTool creates an OpenEditorTool.
func NewOpenEditorTool(svc *dashboard.Service) *OpenEditorTool {
	return &OpenEditorTool{svc: svc}
}

// Definition returns the MCP tool definition for open_in_editor.
func (t *OpenEditorTool) Definition() mcp.Tool {
	return mcp.NewTool("open_in_editor",
		mcp.WithDescription(
			"Open a project folder in a local editor. Only editors on the configured allowlist can be launched.",
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Folder name of the project"),
		),
		mcp.WithString("editor",
			mcp.Description(fmt.Sprintf("Editor command (default: %s)", t.svc.Manager().DefaultEditor())),
		),
	)
}

// Handle processes the open_in_editor tool call.
func (t *OpenEditorTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, errRes := requiredString(req, "name")
	if errRes != nil {
		return errRes, nil
	}
	editor := req.GetString("editor", t.svc.Manager().DefaultEditor())

	if err := t.svc.Manager().OpenInEditor(ctx, name, editor); err != nil {
		if res, goErr := domainError(err); goErr == nil {
			return res, nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to open editor: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Opened %s in %s.", name, editor)), nil
}

// OpenVSCodeTool handles the open_in_vscode MCP tool, a shortcut for
// open_in_editor with the code command.
type OpenVSCodeTool struct {
	editor *OpenEditorTool
}

// NewOpenVSCodeTool creates an OpenVSCodeTool.
func NewOpenVSCodeTool(svc *dashboard.Service) *OpenVSCodeTool {
	return &OpenVSCodeTool{editor: NewOpenEditorTool(svc)}
}

// Definition returns the MCP tool definition for open_in_vscode.
func (t *OpenVSCodeTool) Definition() mcp.Tool {
	return mcp.NewTool("open_in_vscode",
		mcp.WithDescription("Open a project folder in VS Code."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Folder name of the project"),
		),
	)
}

// Handle processes the open_in_vscode tool call.
func (t *OpenVSCodeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := map[string]any{"editor": "code"}
	if name, ok := req.GetArguments()["name"]; ok {
		args["name"] = name
	}
	forwarded := mcp.CallToolRequest{}
	forwarded.Params.Arguments = args
	return t.editor.Handle(ctx, forwarded)
}

// ClearCacheTool handles the clear_old_cache MCP tool.
type ClearCacheTool struct {
	svc *dashboard.Service
}

// NewClearCacheTool creates a ClearCacheTool.
func NewClearCacheTool(svc *dashboard.Service) *ClearCacheTool {
	return &ClearCacheTool{svc: svc}
}

// Definition returns the MCP tool definition for clear_old_cache.
func (t *ClearCacheTool) Definition() mcp.Tool {
	return mcp.NewTool("clear_old_cache",
		mcp.WithDescription("Delete cached project snapshots older than a number of days."),
		mcp.WithNumber("max_age_days",
			mcp.Description(fmt.Sprintf("Maximum snapshot age in days (default: %d)", dashboard.DefaultCacheMaxAgeDays)),
		),
	)
}

// Handle processes the clear_old_cache tool call.
func (t *ClearCacheTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days := intArg(req, "max_age_days", dashboard.DefaultCacheMaxAgeDays)
	if days <= 0 {
		days = dashboard.DefaultCacheMaxAgeDays
	}

	n, err := t.svc.ClearCache(days)
	if err != nil {
		return nil, fmt.Errorf("clearing cache: %w", err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Removed %d snapshot(s) older than %d day(s).", n, days)), nil
}

// ExportTool handles the export_favorites_and_tags MCP tool.
type ExportTool struct {
	svc *dashboard.Service
}

// NewExportTool creates an ExportTool.
func NewExportTool(svc *dashboard.Service) *ExportTool {
	return &ExportTool{svc: svc}
}

// Definition returns the MCP tool definition for export_favorites_and_tags.
func (t *ExportTool) Definition() mcp.Tool {
	return mcp.NewTool("export_favorites_and_tags",
		mcp.WithDescription(
			"Export favorites and tags as JSON. The output can be imported again through the REST API.",
		),
	)
}

// Handle processes the export_favorites_and_tags tool call.
func (t *ExportTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	data, err := t.svc.Export()
	if err != nil {
		return nil, fmt.Errorf("exporting: %w", err)
	}
	block, err := jsonBlock(data)
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(fmt.Sprintf(
		"## Export\n\n%d favorite(s), %d tag assignment(s).\n\n%s",
		len(data.Favorites), len(data.Tags), block,
	)), nil
}
