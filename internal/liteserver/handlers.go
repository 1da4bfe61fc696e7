package liteserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/HendryAvila/devdash/internal/dashboard"
	"github.com/HendryAvila/devdash/internal/project"
)

// DefaultScanDepth is used by lite_scan_directory when depth is not set.
const DefaultScanDepth = 2

// GitInfo is the lightweight Git summary returned by the lite tools.
// LastCommitDays is -1 when there is no readable commit.
type GitInfo struct {
	HasGit         bool   `json:"has_git"`
	Dirty          bool   `json:"dirty"`
	LastCommitDays int    `json:"last_commit_days"`
	Status         string `json:"status,omitempty"`
}

// ProjectEntry is one row of lite_list_projects.
type ProjectEntry struct {
	Name string `json:"name"`
	GitInfo
	Favorite bool `json:"favorite"`
}

// ScanResult is the flattened listing returned by lite_scan_directory.
// Paths are slash-separated and relative to the project folder.
type ScanResult struct {
	Files             []string `json:"files"`
	Folders           []string `json:"folders"`
	ExtensionsPresent []string `json:"extensions_present"`
	Partial           bool     `json:"partial,omitempty"`
}

// ListArgs defines the input parameters for lite_list_projects (none).
type ListArgs struct{}

// ScanArgs defines the input parameters for lite_scan_directory.
type ScanArgs struct {
	Name              string   `json:"name" jsonschema:"Folder name of the project inside the scan directory"`
	Depth             int      `json:"depth,omitempty" jsonschema:"How many levels to descend (default 2)"`
	IncludeExtensions []string `json:"include_extensions,omitempty" jsonschema:"Only list files with these extensions, e.g. .go or .py"`
}

// GitArgs defines the input parameters for lite_git_info.
type GitArgs struct {
	Name string `json:"name" jsonschema:"Folder name of the project inside the scan directory"`
}

// Handler holds the dependencies for the lite tools.
type Handler struct {
	Dashboard *dashboard.Service
	Logger    *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// HandleList processes a lite_list_projects request.
func (h *Handler) HandleList(ctx context.Context, req *mcp.CallToolRequest, args ListArgs) (*mcp.CallToolResult, any, error) {
	start := h.now()
	m := h.Dashboard.Manager()

	list, err := m.List()
	if err != nil {
		h.Logger.Error("lite_list_projects failed", "error", err)
		return errorResult(fmt.Sprintf("Listing error: %v", err)), nil, nil
	}
	favs, err := h.Dashboard.Favorites()
	if err != nil {
		h.Logger.Error("lite_list_projects favorites failed", "error", err)
		return errorResult(fmt.Sprintf("Favorites error: %v", err)), nil, nil
	}
	starred := make(map[string]bool, len(favs))
	for _, f := range favs {
		starred[f.Name] = true
	}

	entries := make([]ProjectEntry, 0, len(list))
	for _, p := range list {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		info, err := h.gitInfo(ctx, p.Name)
		if err != nil {
			h.Logger.Warn("lite_list_projects skipping project", "project", p.Name, "error", err)
			continue
		}
		entries = append(entries, ProjectEntry{Name: p.Name, GitInfo: info, Favorite: starred[p.Name]})
	}

	h.Logger.Info("lite_list_projects", "projects", len(entries), "elapsed", time.Since(start))
	return jsonResult(entries)
}

// HandleScan processes a lite_scan_directory request.
func (h *Handler) HandleScan(ctx context.Context, req *mcp.CallToolRequest, args ScanArgs) (*mcp.CallToolResult, any, error) {
	name := strings.TrimSpace(args.Name)
	if name == "" {
		return errorResult("Error: name parameter is required"), nil, nil
	}
	depth := args.Depth
	if depth <= 0 {
		depth = DefaultScanDepth
	}

	tree, err := h.Dashboard.Manager().Tree(name, depth)
	if err != nil {
		return domainResult(err), nil, nil
	}

	include := make(map[string]bool, len(args.IncludeExtensions))
	for _, ext := range args.IncludeExtensions {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		include[ext] = true
	}

	res := flatten(tree, include)
	h.Logger.Info("lite_scan_directory",
		"project", name,
		"depth", depth,
		"files", len(res.Files),
		"folders", len(res.Folders),
	)
	return jsonResult(res)
}

// HandleGit processes a lite_git_info request.
func (h *Handler) HandleGit(ctx context.Context, req *mcp.CallToolRequest, args GitArgs) (*mcp.CallToolResult, any, error) {
	name := strings.TrimSpace(args.Name)
	if name == "" {
		return errorResult("Error: name parameter is required"), nil, nil
	}
	info, err := h.gitInfo(ctx, name)
	if err != nil {
		return domainResult(err), nil, nil
	}
	return jsonResult(info)
}

func (h *Handler) gitInfo(ctx context.Context, name string) (GitInfo, error) {
	m := h.Dashboard.Manager()
	dir, err := m.Resolve(name)
	if err != nil {
		return GitInfo{}, err
	}

	info := GitInfo{LastCommitDays: -1}
	if !project.HasGit(dir) {
		return info, nil
	}
	info.HasGit = true

	st, err := m.Probe(ctx, name)
	if err != nil {
		return GitInfo{}, err
	}
	info.Status = string(st.Kind)
	info.Dirty = st.Kind == project.StatusModified

	if when, ok := m.LastCommit(ctx, name); ok {
		days := int(h.now().Sub(when).Hours() / 24)
		if days < 0 {
			days = 0
		}
		info.LastCommitDays = days
	}
	return info, nil
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// flatten turns a tree into relative file and folder lists. Files are
// kept only when include is empty or holds their extension; folders are
// always listed.
func flatten(root *project.TreeNode, include map[string]bool) ScanResult {
	res := ScanResult{Files: []string{}, Folders: []string{}, ExtensionsPresent: []string{}}
	seen := map[string]bool{}

	var walk func(n *project.TreeNode, prefix string)
	walk = func(n *project.TreeNode, prefix string) {
		if n.Partial {
			res.Partial = true
		}
		for _, c := range n.Children {
			rel := path.Join(prefix, c.Name)
			if c.Type == project.NodeFolder {
				res.Folders = append(res.Folders, rel)
				walk(c, rel)
				continue
			}
			ext := strings.ToLower(path.Ext(c.Name))
			if len(include) > 0 && !include[ext] {
				continue
			}
			res.Files = append(res.Files, rel)
			if ext != "" && !seen[ext] {
				seen[ext] = true
				res.ExtensionsPresent = append(res.ExtensionsPresent, ext)
			}
		}
	}
	if root != nil {
		walk(root, "")
	}
	sort.Strings(res.ExtensionsPresent)
	return res
}

func jsonResult(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, nil, fmt.Errorf("encoding result: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil, nil
}

func errorResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
		IsError: true,
	}
}

func domainResult(err error) *mcp.CallToolResult {
	if errors.Is(err, project.ErrInvalidPath) {
		return errorResult("Error: invalid project path: access denied")
	}
	return errorResult(fmt.Sprintf("Error: %v", err))
}
