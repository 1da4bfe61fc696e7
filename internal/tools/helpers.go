// Package tools implements the MCP tool handlers of the dashboard.
//
// Each tool follows the same shape:
// - A struct holding the dashboard service, injected via constructor
// - Definition() returns the mcp.Tool schema
// - Handle() processes the request and returns a markdown result
//
// Caller mistakes (unknown project, path escapes, blank tags) come back
// as tool errors. Only broken infrastructure is returned as a Go error.
package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/devdash/internal/project"
	"github.com/HendryAvila/devdash/internal/store"
)

// intArg extracts an integer argument from a tool request, returning
// defaultVal if the key is missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// requiredString returns a trimmed string argument or a tool error.
func requiredString(req mcp.CallToolRequest, key string) (string, *mcp.CallToolResult) {
	v := strings.TrimSpace(req.GetString(key, ""))
	if v == "" {
		return "", mcp.NewToolResultError(fmt.Sprintf("'%s' is required", key))
	}
	return v, nil
}

// domainError turns caller errors into tool errors and passes anything
// else through as a Go error.
func domainError(err error) (*mcp.CallToolResult, error) {
	switch {
	case errors.Is(err, project.ErrInvalidPath):
		return mcp.NewToolResultError("invalid project path: access denied"), nil
	case errors.Is(err, project.ErrNotFound), errors.Is(err, store.ErrNotFound):
		return mcp.NewToolResultError(err.Error()), nil
	case errors.Is(err, store.ErrEmptyTag),
		errors.Is(err, project.ErrEditorNotAllowed),
		errors.Is(err, project.ErrEditorNotFound):
		return mcp.NewToolResultError(err.Error()), nil
	}
	return nil, err
}

// jsonBlock renders v as a fenced JSON block.
func jsonBlock(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding result: %w", err)
	}
	return "```json\n" + string(data) + "\n```\n", nil
}

// since renders a stored timestamp relative to now ("3 hours ago").
// Unparseable values are shown as-is.
func since(ts string) string {
	t, err := store.ParseTime(ts)
	if err != nil {
		return ts
	}
	return humanize.RelTime(t, time.Now(), "ago", "from now")
}

// languageLine renders a language breakdown as "Go 60%, Python 40%",
// largest share first.
func languageLine(langs map[string]int) string {
	if len(langs) == 0 {
		return "none detected"
	}
	type entry struct {
		label string
		pct   int
	}
	entries := make([]entry, 0, len(langs))
	for l, p := range langs {
		entries = append(entries, entry{l, p})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].pct != entries[j].pct {
			return entries[i].pct > entries[j].pct
		}
		return entries[i].label < entries[j].label
	})
	parts := make([]string, len(entries))
	for i, e := range entries {
		parts[i] = fmt.Sprintf("%s %d%%", e.label, e.pct)
	}
	return strings.Join(parts, ", ")
}

func tagList(tags []string) string {
	if len(tags) == 0 {
		return "none"
	}
	return strings.Join(tags, ", ")
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
