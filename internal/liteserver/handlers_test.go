package liteserver

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/HendryAvila/devdash/internal/dashboard"
	"github.com/HendryAvila/devdash/internal/project"
	"github.com/HendryAvila/devdash/internal/store"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

// fakeGit reports api as modified with a commit three days old and
// every other project as clean without history.
type fakeGit struct{}

func (fakeGit) Probe(_ context.Context, path string) project.GitStatus {
	if filepath.Base(path) == "api" {
		return project.GitStatus{Kind: project.StatusModified, Detail: "1 file(s) changed"}
	}
	return project.GitStatus{Kind: project.StatusClean, Detail: "clean"}
}

func (fakeGit) LastCommit(_ context.Context, path string) (time.Time, bool) {
	if filepath.Base(path) == "api" {
		return testNow.Add(-3*24*time.Hour - time.Hour), true
	}
	return time.Time{}, false
}

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("# x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newTestHandler(t *testing.T) *Handler {
	t.Helper()
	root := t.TempDir()
	for _, f := range []string{
		"api/README.md", "api/.git/HEAD", "api/main.go", "api/cmd/run.go", "api/cmd/deep/x.go",
		"api/node_modules/pkg/index.js",
		"docs/README.md", "docs/guide.md", "docs/Makefile",
	} {
		writeFile(t, filepath.Join(root, f))
	}

	m, err := project.NewManager(project.Options{Root: root, Prober: fakeGit{}})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	st, err := store.New(store.Config{DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	svc := dashboard.New(m, st, nil)
	if _, err := svc.ToggleFavorite("docs", ""); err != nil {
		t.Fatalf("ToggleFavorite: %v", err)
	}
	return &Handler{
		Dashboard: svc,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:       func() time.Time { return testNow },
	}
}

func textOf(t *testing.T, r *mcp.CallToolResult) string {
	t.Helper()
	if r == nil || len(r.Content) == 0 {
		t.Fatal("empty result")
	}
	return r.Content[0].(*mcp.TextContent).Text
}

func decodeResult[T any](t *testing.T, r *mcp.CallToolResult) T {
	t.Helper()
	if r.IsError {
		t.Fatalf("unexpected error result: %s", textOf(t, r))
	}
	var v T
	if err := json.Unmarshal([]byte(textOf(t, r)), &v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

// --- lite_list_projects ---

func Test_HandleList(t *testing.T) {
	h := newTestHandler(t)

	result, _, err := h.HandleList(context.Background(), nil, ListArgs{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := decodeResult[[]ProjectEntry](t, result)

	want := []ProjectEntry{
		{Name: "api", GitInfo: GitInfo{HasGit: true, Dirty: true, LastCommitDays: 3, Status: "Modified"}},
		{Name: "docs", GitInfo: GitInfo{LastCommitDays: -1}, Favorite: true},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("entries = %+v, want %+v", got, want)
	}
}

// --- lite_scan_directory ---

func Test_HandleScan(t *testing.T) {
	h := newTestHandler(t)

	result, _, err := h.HandleScan(context.Background(), nil, ScanArgs{Name: "api"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := decodeResult[ScanResult](t, result)

	if !reflect.DeepEqual(got.Folders, []string{"cmd", "cmd/deep"}) {
		t.Errorf("folders = %v", got.Folders)
	}
	// depth 2 stops before cmd/deep/x.go; hidden and ignored folders are skipped.
	if !reflect.DeepEqual(got.Files, []string{"cmd/run.go", "main.go", "README.md"}) {
		t.Errorf("files = %v", got.Files)
	}
	if !reflect.DeepEqual(got.ExtensionsPresent, []string{".go", ".md"}) {
		t.Errorf("extensions = %v", got.ExtensionsPresent)
	}
}

func Test_HandleScan_ExtensionFilter(t *testing.T) {
	h := newTestHandler(t)

	result, _, _ := h.HandleScan(context.Background(), nil, ScanArgs{Name: "docs", IncludeExtensions: []string{"md"}})
	got := decodeResult[ScanResult](t, result)
	if !reflect.DeepEqual(got.Files, []string{"guide.md", "README.md"}) {
		t.Errorf("files = %v", got.Files)
	}
}

func Test_HandleScan_Errors(t *testing.T) {
	h := newTestHandler(t)

	tests := []struct {
		name string
		args ScanArgs
		want string
	}{
		{"EmptyName", ScanArgs{}, "name parameter is required"},
		{"Escape", ScanArgs{Name: "../etc"}, "access denied"},
		{"Missing", ScanArgs{Name: "ghost"}, "not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, _, err := h.HandleScan(context.Background(), nil, tt.args)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !result.IsError {
				t.Fatal("expected IsError=true")
			}
			if text := textOf(t, result); !strings.Contains(text, tt.want) {
				t.Errorf("text = %q, want substring %q", text, tt.want)
			}
		})
	}
}

// --- lite_git_info ---

func Test_HandleGit(t *testing.T) {
	h := newTestHandler(t)

	result, _, _ := h.HandleGit(context.Background(), nil, GitArgs{Name: "api"})
	got := decodeResult[GitInfo](t, result)
	if !got.HasGit || !got.Dirty || got.LastCommitDays != 3 {
		t.Errorf("git info = %+v", got)
	}

	result, _, _ = h.HandleGit(context.Background(), nil, GitArgs{Name: "docs"})
	got = decodeResult[GitInfo](t, result)
	if got.HasGit || got.Dirty || got.LastCommitDays != -1 {
		t.Errorf("git info for non-repo = %+v", got)
	}
}

// --- flatten ---

func Test_Flatten_NilTree(t *testing.T) {
	res := flatten(nil, nil)
	if len(res.Files) != 0 || len(res.Folders) != 0 || res.Files == nil {
		t.Errorf("flatten(nil) = %+v", res)
	}
}

// --- Setup ---

func Test_Setup(t *testing.T) {
	if srv := Setup(newTestHandler(t), "test"); srv == nil {
		t.Fatal("Setup returned nil server")
	}
}
