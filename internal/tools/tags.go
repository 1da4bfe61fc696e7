package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/devdash/internal/dashboard"
)

// AddTagTool handles the add_project_tag MCP tool.
type AddTagTool struct {
	svc *dashboard.Service
}

// NewAddTagTool creates an AddTagTool.
func NewAddTagTool(svc *dashboard.Service) *AddTagTool {
	return &AddTagTool{svc: svc}
}

// Definition returns the MCP tool definition for add_project_tag.
func (t *AddTagTool) Definition() mcp.Tool {
	return mcp.NewTool("add_project_tag",
		mcp.WithDescription(
			"Tag a project. Tags are trimmed and lowercased; adding an existing tag is a no-op.",
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Folder name of the project"),
		),
		mcp.WithString("tag",
			mcp.Required(),
			mcp.Description("Tag to add, e.g. 'backend' or 'archived'"),
		),
	)
}

// Handle processes the add_project_tag tool call.
func (t *AddTagTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, errRes := requiredString(req, "name")
	if errRes != nil {
		return errRes, nil
	}
	tag, errRes := requiredString(req, "tag")
	if errRes != nil {
		return errRes, nil
	}

	tags, err := t.svc.AddTag(name, tag)
	if err != nil {
		return domainError(err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Tags of %s: %s", name, tagList(tags))), nil
}

// RemoveTagTool handles the remove_project_tag MCP tool.
type RemoveTagTool struct {
	svc *dashboard.Service
}

// NewRemoveTagTool creates a RemoveTagTool.
func NewRemoveTagTool(svc *dashboard.Service) *RemoveTagTool {
	return &RemoveTagTool{svc: svc}
}

// Definition returns the MCP tool definition for remove_project_tag.
func (t *RemoveTagTool) Definition() mcp.Tool {
	return mcp.NewTool("remove_project_tag",
		mcp.WithDescription("Remove a tag from a project."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Folder name of the project"),
		),
		mcp.WithString("tag",
			mcp.Required(),
			mcp.Description("Tag to remove"),
		),
	)
}

// Handle processes the remove_project_tag tool call.
func (t *RemoveTagTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, errRes := requiredString(req, "name")
	if errRes != nil {
		return errRes, nil
	}
	tag, errRes := requiredString(req, "tag")
	if errRes != nil {
		return errRes, nil
	}

	tags, err := t.svc.RemoveTag(name, tag)
	if err != nil {
		return domainError(err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Tags of %s: %s", name, tagList(tags))), nil
}

// ProjectTagsTool handles the get_project_tags MCP tool.
type ProjectTagsTool struct {
	svc *dashboard.Service
}

// NewProjectTagsTool creates a ProjectTagsTool.
func NewProjectTagsTool(svc *dashboard.Service) *ProjectTagsTool {
	return &ProjectTagsTool{svc: svc}
}

// Definition returns the MCP tool definition for get_project_tags.
func (t *ProjectTagsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_project_tags",
		mcp.WithDescription("List the tags of a project, newest first."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Folder name of the project"),
		),
	)
}

// Handle processes the get_project_tags tool call.
func (t *ProjectTagsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, errRes := requiredString(req, "name")
	if errRes != nil {
		return errRes, nil
	}

	tags, err := t.svc.Tags(name)
	if err != nil {
		return nil, fmt.Errorf("reading tags: %w", err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Tags of %s: %s", name, tagList(tags))), nil
}
