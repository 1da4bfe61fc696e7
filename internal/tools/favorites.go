package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/devdash/internal/dashboard"
)

// ToggleFavoriteTool handles the toggle_project_favorite MCP tool.
type ToggleFavoriteTool struct {
	svc *dashboard.Service
}

// NewToggleFavoriteTool creates a ToggleFavoriteTool.
func NewToggleFavoriteTool(svc *dashboard.Service) *ToggleFavoriteTool {
	return &ToggleFavoriteTool{svc: svc}
}

// Definition returns the MCP tool definition for toggle_project_favorite.
func (t *ToggleFavoriteTool) Definition() mcp.Tool {
	return mcp.NewTool("toggle_project_favorite",
		mcp.WithDescription(
			"Star or unstar a project. Calling it on a favorite removes the star.",
		),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Folder name of the project"),
		),
		mcp.WithString("notes",
			mcp.Description("Optional notes stored with the favorite when it is added"),
		),
	)
}

// Handle processes the toggle_project_favorite tool call.
func (t *ToggleFavoriteTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, errRes := requiredString(req, "name")
	if errRes != nil {
		return errRes, nil
	}

	fav, err := t.svc.ToggleFavorite(name, req.GetString("notes", ""))
	if err != nil {
		return domainError(err)
	}
	if fav {
		return mcp.NewToolResultText(fmt.Sprintf("★ %s added to favorites.", name)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%s removed from favorites.", name)), nil
}

// ListFavoritesTool handles the list_favorites MCP tool.
type ListFavoritesTool struct {
	svc *dashboard.Service
}

// NewListFavoritesTool creates a ListFavoritesTool.
func NewListFavoritesTool(svc *dashboard.Service) *ListFavoritesTool {
	return &ListFavoritesTool{svc: svc}
}

// Definition returns the MCP tool definition for list_favorites.
func (t *ListFavoritesTool) Definition() mcp.Tool {
	return mcp.NewTool("list_favorites",
		mcp.WithDescription("List favorite projects in display order with their notes."),
	)
}

// Handle processes the list_favorites tool call.
func (t *ListFavoritesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	favs, err := t.svc.Favorites()
	if err != nil {
		return nil, fmt.Errorf("listing favorites: %w", err)
	}
	if len(favs) == 0 {
		return mcp.NewToolResultText("No favorites yet."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Favorites (%d)\n\n", len(favs))
	for i, f := range favs {
		fmt.Fprintf(&sb, "%d. **%s** (added %s)", i+1, f.Name, since(f.AddedAt))
		if !f.Exists {
			sb.WriteString(" _missing from scan directory_")
		}
		sb.WriteString("\n")
		if f.Description != "" {
			fmt.Fprintf(&sb, "   %s\n", f.Description)
		}
		if f.Notes != nil {
			fmt.Fprintf(&sb, "   Notes: %s\n", *f.Notes)
		}
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// FavoriteNotesTool handles the update_favorite_notes MCP tool.
type FavoriteNotesTool struct {
	svc *dashboard.Service
}

// NewFavoriteNotesTool creates a FavoriteNotesTool.
func NewFavoriteNotesTool(svc *dashboard.Service) *FavoriteNotesTool {
	return &FavoriteNotesTool{svc: svc}
}

// Definition returns the MCP tool definition for update_favorite_notes.
func (t *FavoriteNotesTool) Definition() mcp.Tool {
	return mcp.NewTool("update_favorite_notes",
		mcp.WithDescription("Replace the notes of a favorite project. Empty notes clear them."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Folder name of a favorite project"),
		),
		mcp.WithString("notes",
			mcp.Description("New notes"),
		),
	)
}

// Handle processes the update_favorite_notes tool call.
func (t *FavoriteNotesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, errRes := requiredString(req, "name")
	if errRes != nil {
		return errRes, nil
	}

	if err := t.svc.UpdateFavoriteNotes(name, req.GetString("notes", "")); err != nil {
		return domainError(err)
	}
	return mcp.NewToolResultText(fmt.Sprintf("Notes of %s updated.", name)), nil
}
