// Package resources implements MCP resource handlers for the dashboard.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (devdash://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/devdash/internal/dashboard"
)

// WorkspaceSummaryURI addresses the workspace summary resource.
const WorkspaceSummaryURI = "devdash://workspace/summary"

// Handler manages dashboard resource endpoints.
type Handler struct {
	svc *dashboard.Service
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(svc *dashboard.Service) *Handler {
	return &Handler{svc: svc}
}

// WorkspaceSummary is the payload of the workspace summary resource.
type WorkspaceSummary struct {
	ScanDir     string                 `json:"scan_dir"`
	Statistics  *dashboard.Statistics  `json:"statistics"`
	Suggestions []dashboard.Suggestion `json:"suggestions"`
}

// WorkspaceResource returns the MCP resource definition for the summary.
func (h *Handler) WorkspaceResource() mcp.Resource {
	return mcp.NewResource(
		WorkspaceSummaryURI,
		"Workspace Summary",
		mcp.WithResourceDescription("Project counts, language usage, Git health and suggested actions"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleWorkspace returns the workspace summary as JSON.
func (h *Handler) HandleWorkspace(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	stats, err := h.svc.Statistics(ctx)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	suggestions, err := h.svc.Suggestions(ctx)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}

	data, err := json.MarshalIndent(WorkspaceSummary{
		ScanDir:     h.svc.Manager().Root(),
		Statistics:  stats,
		Suggestions: suggestions,
	}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling summary: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
