package resources

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/devdash/internal/dashboard"
	"github.com/HendryAvila/devdash/internal/project"
	"github.com/HendryAvila/devdash/internal/store"
)

type cleanProber struct{}

func (cleanProber) Probe(context.Context, string) project.GitStatus {
	return project.GitStatus{Kind: project.StatusClean, Detail: "clean"}
}

func newTestHandler(t *testing.T) (*Handler, string) {
	t.Helper()
	root := t.TempDir()
	for _, f := range []string{"alpha/README.md", "alpha/main.go", "beta/README.md", "beta/app.py", "junk/a.txt"} {
		path := filepath.Join(root, f)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte("# "+filepath.Dir(f)+"\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	m, err := project.NewManager(project.Options{Root: root, Prober: cleanProber{}})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	st, err := store.New(store.Config{DataDir: t.TempDir()})
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	return NewHandler(dashboard.New(m, st, nil)), m.Root()
}

func TestWorkspaceResource_Definition(t *testing.T) {
	h, _ := newTestHandler(t)
	res := h.WorkspaceResource()
	if res.URI != WorkspaceSummaryURI {
		t.Errorf("URI = %q, want %q", res.URI, WorkspaceSummaryURI)
	}
	if res.MIMEType != "application/json" {
		t.Errorf("MIMEType = %q", res.MIMEType)
	}
}

func TestHandleWorkspace(t *testing.T) {
	h, root := newTestHandler(t)

	req := mcp.ReadResourceRequest{}
	req.Params.URI = WorkspaceSummaryURI
	contents, err := h.HandleWorkspace(context.Background(), req)
	if err != nil {
		t.Fatalf("HandleWorkspace: %v", err)
	}
	if len(contents) != 1 {
		t.Fatalf("contents = %d, want 1", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("content type = %T", contents[0])
	}

	var got WorkspaceSummary
	if err := json.Unmarshal([]byte(tc.Text), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, tc.Text)
	}
	if got.ScanDir != root {
		t.Errorf("scan_dir = %q, want %q", got.ScanDir, root)
	}
	if got.Statistics.TotalProjects != 2 || got.Statistics.GitStatus.Clean != 2 {
		t.Errorf("statistics = %+v", got.Statistics)
	}
	if got.Statistics.FoldersWithoutReadme != 1 {
		t.Errorf("folders without readme = %d, want 1", got.Statistics.FoldersWithoutReadme)
	}
	if len(got.Suggestions) == 0 || got.Suggestions[0].Kind != dashboard.SuggestReadme {
		t.Errorf("suggestions = %+v", got.Suggestions)
	}
}
