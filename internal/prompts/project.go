package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// ProjectPrompt handles the project-deep-dive MCP prompt.
type ProjectPrompt struct{}

// NewProjectPrompt creates a ProjectPrompt.
func NewProjectPrompt() *ProjectPrompt {
	return &ProjectPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *ProjectPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("project-deep-dive",
		mcp.WithPromptDescription(
			"Walk through one project: metadata, dependencies, file layout and tags.",
		),
		mcp.WithArgument("project_name",
			mcp.ArgumentDescription("Folder name of the project"),
			mcp.RequiredArgument(),
		),
	)
}

// Handle processes the project-deep-dive prompt request.
func (p *ProjectPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	name := req.Params.Arguments["project_name"]
	if name == "" {
		return nil, fmt.Errorf("project_name is required")
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Deep dive: %s", name),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"Tell me about my project '%s'.\n\n"+
						"1. Run `get_project_info` with name='%s' and summarize languages, Git state and dependencies\n"+
						"2. Run `get_project_files` with name='%s' and describe how the code is laid out\n"+
						"3. Run `get_project_tags` and propose tags that are missing, using `add_project_tag` only after I confirm\n"+
						"4. If the working tree is modified, remind me what is uncommitted",
					name, name, name,
				)),
			},
		},
	}, nil
}
