package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/devdash/internal/dashboard"
	"github.com/HendryAvila/devdash/internal/project"
)

// SearchLanguageTool handles the search_projects_by_language MCP tool.
type SearchLanguageTool struct {
	svc *dashboard.Service
}

// NewSearchLanguageTool creates a SearchLanguageTool.
func NewSearchLanguageTool(svc *dashboard.Service) *SearchLanguageTool {
	return &SearchLanguageTool{svc: svc}
}

// Definition returns the MCP tool definition for search_projects_by_language.
func (t *SearchLanguageTool) Definition() mcp.Tool {
	return mcp.NewTool("search_projects_by_language",
		mcp.WithDescription(
			"Find projects that use a language, ordered by that language's share of the code. "+
				"Labels are exact and case-sensitive (e.g. 'Go', 'Python', 'TypeScript').",
		),
		mcp.WithString("language",
			mcp.Required(),
			mcp.Description("Language label, e.g. 'Go' or 'JavaScript'"),
		),
	)
}

// Handle processes the search_projects_by_language tool call.
func (t *SearchLanguageTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	lang, errRes := requiredString(req, "language")
	if errRes != nil {
		return errRes, nil
	}

	matches, err := t.svc.SearchByLanguage(ctx, lang)
	if err != nil {
		return nil, fmt.Errorf("searching by language: %w", err)
	}
	if len(matches) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No projects use %s.", lang)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Projects using %s (%d)\n\n", lang, len(matches))
	for _, m := range matches {
		fmt.Fprintf(&sb, "- **%s** (%d%%): %s\n", m.Name, m.LanguagePercentage, m.Description)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// SearchTagTool handles the search_projects_by_tag MCP tool.
type SearchTagTool struct {
	svc *dashboard.Service
}

// NewSearchTagTool creates a SearchTagTool.
func NewSearchTagTool(svc *dashboard.Service) *SearchTagTool {
	return &SearchTagTool{svc: svc}
}

// Definition returns the MCP tool definition for search_projects_by_tag.
func (t *SearchTagTool) Definition() mcp.Tool {
	return mcp.NewTool("search_projects_by_tag",
		mcp.WithDescription("Find projects carrying a tag. Tags are matched case-insensitively."),
		mcp.WithString("tag",
			mcp.Required(),
			mcp.Description("Tag to look for"),
		),
	)
}

// Handle processes the search_projects_by_tag tool call.
func (t *SearchTagTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tag, errRes := requiredString(req, "tag")
	if errRes != nil {
		return errRes, nil
	}

	found, err := t.svc.SearchByTag(tag)
	if err != nil {
		return domainError(err)
	}
	if len(found) == 0 {
		return mcp.NewToolResultText(fmt.Sprintf("No projects tagged %q.", tag)), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Projects tagged %q (%d)\n\n", tag, len(found))
	writeSummaries(&sb, found)
	return mcp.NewToolResultText(sb.String()), nil
}

// AllTagsTool handles the get_all_tags MCP tool.
type AllTagsTool struct {
	svc *dashboard.Service
}

// NewAllTagsTool creates an AllTagsTool.
func NewAllTagsTool(svc *dashboard.Service) *AllTagsTool {
	return &AllTagsTool{svc: svc}
}

// Definition returns the MCP tool definition for get_all_tags.
func (t *AllTagsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_all_tags",
		mcp.WithDescription("List every tag in use with the number of projects carrying it."),
	)
}

// Handle processes the get_all_tags tool call.
func (t *AllTagsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tags, err := t.svc.AllTags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}
	if len(tags) == 0 {
		return mcp.NewToolResultText("No tags yet."), nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "## Tags (%d)\n\n", len(tags))
	for _, tc := range tags {
		fmt.Fprintf(&sb, "- **%s**: %d project(s)\n", tc.Tag, tc.Count)
	}
	return mcp.NewToolResultText(sb.String()), nil
}

func writeSummaries(sb *strings.Builder, list []project.Summary) {
	for _, s := range list {
		fmt.Fprintf(sb, "- **%s**: %s\n", s.Name, s.Description)
	}
}
