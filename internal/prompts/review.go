// Package prompts implements MCP prompt handlers for the dashboard.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to run a sequence of dashboard tools. Unlike tools
// (which the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// ReviewPrompt handles the dashboard-review MCP prompt.
type ReviewPrompt struct{}

// NewReviewPrompt creates a ReviewPrompt.
func NewReviewPrompt() *ReviewPrompt {
	return &ReviewPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *ReviewPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("dashboard-review",
		mcp.WithPromptDescription(
			"Review the whole workspace: uncommitted work, missing READMEs, "+
				"favorites and what to do next.",
		),
	)
}

// Handle processes the dashboard-review prompt request.
func (p *ReviewPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "Workspace review",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Please review my local projects.\n\n" +
						"1. Run `analyze_workspace_summary` and give me the overall picture\n" +
						"2. Run `get_modified_projects` and list what still needs a commit\n" +
						"3. Run `find_projects_without_readme` and point out folders that are invisible to the dashboard\n" +
						"4. Run `list_favorites` and flag favorites that no longer exist\n" +
						"5. Finish with `suggest_next_actions` and turn the result into a short checklist",
				),
			},
		},
	}, nil
}
