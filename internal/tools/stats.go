package tools

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/devdash/internal/dashboard"
)

// StatisticsTool handles the get_dashboard_statistics MCP tool.
type StatisticsTool struct {
	svc *dashboard.Service
}

// NewStatisticsTool creates a StatisticsTool.
func NewStatisticsTool(svc *dashboard.Service) *StatisticsTool {
	return &StatisticsTool{svc: svc}
}

// Definition returns the MCP tool definition for get_dashboard_statistics.
func (t *StatisticsTool) Definition() mcp.Tool {
	return mcp.NewTool("get_dashboard_statistics",
		mcp.WithDescription(
			"Dashboard statistics: project and favorite counts, Git health, "+
				"tag usage, cached snapshots and scan history.",
		),
	)
}

// Handle processes the get_dashboard_statistics tool call.
func (t *StatisticsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := t.svc.Statistics(ctx)
	if err != nil {
		return nil, fmt.Errorf("computing statistics: %w", err)
	}
	db := stats.DatabaseStats

	var sb strings.Builder
	sb.WriteString("## Dashboard Statistics\n\n")
	fmt.Fprintf(&sb, "- **Projects**: %s\n", humanize.Comma(int64(stats.TotalProjects)))
	fmt.Fprintf(&sb, "- **Favorites**: %d\n", stats.FavoritesCount)
	fmt.Fprintf(&sb, "- **Modified**: %d\n", stats.GitStatus.Modified)
	fmt.Fprintf(&sb, "- **Without README**: %d\n", stats.FoldersWithoutReadme)

	sb.WriteString("\n### Store\n\n")
	fmt.Fprintf(&sb, "- **Tagged projects**: %d\n", db.TaggedProjects)
	fmt.Fprintf(&sb, "- **Unique tags**: %d\n", db.UniqueTags)
	fmt.Fprintf(&sb, "- **Cached snapshots**: %d\n", db.CachedProjects)
	fmt.Fprintf(&sb, "- **Scans**: %s\n", humanize.Comma(int64(db.TotalScans)))
	if db.LastScan != nil {
		fmt.Fprintf(&sb, "- **Last scan**: %s\n", since(*db.LastScan))
	} else {
		sb.WriteString("- **Last scan**: never\n")
	}

	if len(stats.TopLanguages) > 0 {
		names := make([]string, len(stats.TopLanguages))
		for i, lc := range stats.TopLanguages {
			names[i] = fmt.Sprintf("%s (%d)", lc.Language, lc.ProjectCount)
		}
		fmt.Fprintf(&sb, "\n**Top languages**: %s\n", strings.Join(names, ", "))
	}
	return mcp.NewToolResultText(sb.String()), nil
}

// SuggestTool handles the suggest_next_actions MCP tool.
type SuggestTool struct {
	svc *dashboard.Service
}

// NewSuggestTool creates a SuggestTool.
func NewSuggestTool(svc *dashboard.Service) *SuggestTool {
	return &SuggestTool{svc: svc}
}

// Definition returns the MCP tool definition for suggest_next_actions.
func (t *SuggestTool) Definition() mcp.Tool {
	return mcp.NewTool("suggest_next_actions",
		mcp.WithDescription(
			"Suggest follow-up actions: commit pending changes, add missing READMEs, "+
				"organize favorites, clear old cache.",
		),
	)
}

// Handle processes the suggest_next_actions tool call.
func (t *SuggestTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	suggestions, err := t.svc.Suggestions(ctx)
	if err != nil {
		return nil, fmt.Errorf("computing suggestions: %w", err)
	}
	return mcp.NewToolResultText(RenderSuggestions(suggestions)), nil
}

// RenderSuggestions formats suggestions as a markdown list.
func RenderSuggestions(suggestions []dashboard.Suggestion) string {
	var sb strings.Builder
	sb.WriteString("## Suggested Next Actions\n\n")
	for _, s := range suggestions {
		fmt.Fprintf(&sb, "- **%s**: %s\n", s.Kind, s.Message)
		for _, item := range s.Items {
			fmt.Fprintf(&sb, "  - %s\n", item)
		}
	}
	return sb.String()
}
