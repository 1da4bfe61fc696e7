package project

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestList_RequiresReadmeAndSorts(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "beta", "README.md"), "# Beta")
	writeFile(t, filepath.Join(root, "Alpha", "README.md"), "no heading")
	writeFile(t, filepath.Join(root, "gamma", "main.go"), "")
	writeFile(t, filepath.Join(root, "loose.txt"), "")

	got, err := newTestManager(t, root, nil).List()
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(got) != 2 || got[0].Name != "Alpha" || got[1].Name != "beta" {
		t.Fatalf("List() = %+v, want [Alpha beta]", got)
	}
	if got[0].Description != NoDescription || got[1].Description != "Beta" {
		t.Errorf("descriptions = %q, %q", got[0].Description, got[1].Description)
	}
	if got[1].Path != filepath.Join(root, "beta") {
		t.Errorf("path = %q", got[1].Path)
	}
}

func TestInfo_FooScenario(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "foo", "README.md"), "# Foo Project\n")
	writeFile(t, filepath.Join(root, "foo", "app.py"), "print('hi')\n")

	m, err := NewManager(Options{Root: root})
	if err != nil {
		t.Fatalf("NewManager() error: %v", err)
	}
	got, err := m.Info(context.Background(), "foo")
	if err != nil {
		t.Fatalf("Info() error: %v", err)
	}

	if got.Description != "Foo Project" {
		t.Errorf("Description = %q, want %q", got.Description, "Foo Project")
	}
	if len(got.Languages) != 2 || got.Languages["Python"] != 50 || got.Languages["Markdown"] != 50 {
		t.Errorf("Languages = %v, want Python:50 Markdown:50", got.Languages)
	}
	if got.HasGit {
		t.Error("HasGit = true, want false")
	}
	want := GitStatus{Kind: StatusNotARepo, Detail: "not a repository"}
	if got.GitStatus != want {
		t.Errorf("GitStatus = %+v, want %+v", got.GitStatus, want)
	}
	if len(got.Dependencies) != 0 {
		t.Errorf("Dependencies = %v, want empty", got.Dependencies)
	}
}

func TestInfo_Errors(t *testing.T) {
	root := filepath.Join(t.TempDir(), "root")
	mkdir(t, root)
	m := newTestManager(t, root, nil)

	_, err := m.Info(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Info(missing) error = %v, want ErrNotFound", err)
	}

	_, err = m.Info(context.Background(), "../root")
	if !errors.Is(err, ErrNotFound) || !errors.Is(err, ErrInvalidPath) {
		t.Errorf("Info(../root) error = %v, want ErrNotFound and ErrInvalidPath", err)
	}
}

func TestTree_ValidatesName(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "p", "README.md"), "")
	m := newTestManager(t, root, nil)

	if _, err := m.Tree("../x", 2); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("Tree(../x) error = %v, want ErrInvalidPath", err)
	}
	if _, err := m.Tree("nope", 2); !errors.Is(err, ErrNotFound) {
		t.Errorf("Tree(nope) error = %v, want ErrNotFound", err)
	}
	tree, err := m.Tree("p", 2)
	if err != nil || tree == nil || len(tree.Children) != 1 {
		t.Errorf("Tree(p) = %+v, %v", tree, err)
	}
	tree, err = m.Tree("p", -1)
	if err != nil || tree != nil {
		t.Errorf("Tree(p, -1) = %+v, %v; want nil, nil", tree, err)
	}
}

func TestBatchGitStatus_FakeProber(t *testing.T) {
	root := t.TempDir()
	for _, n := range []string{"a", "b", "c"} {
		writeFile(t, filepath.Join(root, n, "README.md"), "# "+n)
	}
	prober := &fakeProber{byName: map[string]GitStatus{
		"a": {Kind: StatusClean, Detail: "no changes"},
		"b": {Kind: StatusModified, Detail: "2 file(s) changed"},
	}}

	got, err := newTestManager(t, root, prober).BatchGitStatus(context.Background())
	if err != nil {
		t.Fatalf("BatchGitStatus() error: %v", err)
	}
	assertGroups(t, got, map[StatusKind][]string{
		StatusClean:    {"a"},
		StatusModified: {"b"},
		StatusNotARepo: {"c"},
		StatusError:    {},
	})
	if prober.calls != 3 {
		t.Errorf("prober calls = %d, want 3", prober.calls)
	}
}

func TestModified(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "clean", "README.md"), "# Clean")
	writeFile(t, filepath.Join(root, "dirty", "README.md"), "# Dirty")
	prober := &fakeProber{byName: map[string]GitStatus{
		"clean": {Kind: StatusClean, Detail: "no changes"},
		"dirty": {Kind: StatusModified, Detail: "3 file(s) changed"},
	}}

	got, err := newTestManager(t, root, prober).Modified(context.Background())
	if err != nil {
		t.Fatalf("Modified() error: %v", err)
	}
	if len(got) != 1 || got[0].Name != "dirty" || got[0].GitDetail != "3 file(s) changed" {
		t.Errorf("Modified() = %+v", got)
	}
}

func TestSearchByLanguage(t *testing.T) {
	root := t.TempDir()
	// go-heavy: README + 3 go files -> Go 75
	writeFile(t, filepath.Join(root, "go-heavy", "README.md"), "")
	for _, f := range []string{"a.go", "b.go", "c.go"} {
		writeFile(t, filepath.Join(root, "go-heavy", f), "")
	}
	// go-half and also-half: README + 1 go file -> Go 50
	writeFile(t, filepath.Join(root, "go-half", "README.md"), "")
	writeFile(t, filepath.Join(root, "go-half", "main.go"), "")
	writeFile(t, filepath.Join(root, "also-half", "README.md"), "")
	writeFile(t, filepath.Join(root, "also-half", "main.go"), "")
	writeFile(t, filepath.Join(root, "python", "README.md"), "")
	writeFile(t, filepath.Join(root, "python", "x.py"), "")

	got, err := newTestManager(t, root, nil).SearchByLanguage(context.Background(), "Go")
	if err != nil {
		t.Fatalf("SearchByLanguage() error: %v", err)
	}
	var names []string
	for _, m := range got {
		names = append(names, m.Name)
	}
	if strings.Join(names, ",") != "go-heavy,also-half,go-half" {
		t.Errorf("order = %v, want [go-heavy also-half go-half]", names)
	}
	if got[0].LanguagePercentage != 75 {
		t.Errorf("go-heavy pct = %d, want 75", got[0].LanguagePercentage)
	}

	none, err := newTestManager(t, root, nil).SearchByLanguage(context.Background(), "Rust")
	if err != nil || none == nil || len(none) != 0 {
		t.Errorf("SearchByLanguage(Rust) = %v, %v; want empty", none, err)
	}
}

func TestWithoutReadme(t *testing.T) {
	root := t.TempDir()
	mkdir(t, filepath.Join(root, "zeta"))
	mkdir(t, filepath.Join(root, "Beta"))
	mkdir(t, filepath.Join(root, "alpha"))
	mkdir(t, filepath.Join(root, "node_modules"))
	mkdir(t, filepath.Join(root, ".git"))
	mkdir(t, filepath.Join(root, ".cache"))
	writeFile(t, filepath.Join(root, "has", "README.md"), "")
	writeFile(t, filepath.Join(root, "file.txt"), "")

	got, err := newTestManager(t, root, nil).WithoutReadme()
	if err != nil {
		t.Fatalf("WithoutReadme() error: %v", err)
	}
	// Only the static set is excluded; hidden names are reported.
	want := ".cache,Beta,alpha,zeta"
	if strings.Join(got, ",") != want {
		t.Errorf("WithoutReadme() = %v, want %s", got, want)
	}
}

func TestInfo_SymlinkedProjectInsideRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "real", "README.md"), "# Real\n")
	writeFile(t, filepath.Join(root, "real", "main.py"), "")
	if err := os.Symlink(filepath.Join(root, "real"), filepath.Join(root, "link")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	m := newTestManager(t, root, nil)
	direct, err := m.Info(context.Background(), "real")
	if err != nil {
		t.Fatalf("Info(real) error: %v", err)
	}
	link, err := m.Info(context.Background(), "link")
	if err != nil {
		t.Fatalf("Info(link) error: %v", err)
	}
	if len(link.Languages) != 2 || link.Languages["Python"] != direct.Languages["Python"] {
		t.Errorf("link Languages = %v, want %v", link.Languages, direct.Languages)
	}
	if link.Description != "Real" {
		t.Errorf("link Description = %q, want Real", link.Description)
	}

	tree, err := m.Tree("link", 1)
	if err != nil {
		t.Fatalf("Tree(link) error: %v", err)
	}
	if len(tree.Children) != 2 {
		t.Errorf("link tree children = %d, want 2", len(tree.Children))
	}
}

func TestOpenInEditor(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "p", "README.md"), "")

	var gotEditor, gotPath string
	launch := func(_ context.Context, editor, path string) error {
		gotEditor, gotPath = editor, path
		return nil
	}
	m, err := NewManager(Options{Root: root, Prober: &fakeProber{}, Launcher: launch})
	if err != nil {
		t.Fatalf("NewManager() error: %v", err)
	}

	if err := m.OpenInEditor(context.Background(), "p", ""); err != nil {
		t.Fatalf("OpenInEditor() error: %v", err)
	}
	if gotEditor != DefaultEditor || gotPath != filepath.Join(m.Root(), "p") {
		t.Errorf("launched %q on %q", gotEditor, gotPath)
	}

	if err := m.OpenInEditor(context.Background(), "p", "rm"); !errors.Is(err, ErrEditorNotAllowed) {
		t.Errorf("OpenInEditor(rm) error = %v, want ErrEditorNotAllowed", err)
	}
	if err := m.OpenInEditor(context.Background(), "../p", "code"); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("OpenInEditor(../p) error = %v, want ErrInvalidPath", err)
	}
	for _, term := range []string{"vim", "nvim"} {
		if err := m.OpenInEditor(context.Background(), "p", term); !errors.Is(err, ErrEditorNotAllowed) {
			t.Errorf("OpenInEditor(%s) error = %v, want ErrEditorNotAllowed by default", term, err)
		}
	}
}

func TestOpenInEditor_ConfiguredDefault(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "p", "README.md"), "")

	var gotEditor string
	m, err := NewManager(Options{
		Root:           root,
		Prober:         &fakeProber{},
		AllowedEditors: []string{"zed", "nvim"},
		DefaultEditor:  "zed",
		Launcher: func(_ context.Context, editor, _ string) error {
			gotEditor = editor
			return nil
		},
	})
	if err != nil {
		t.Fatalf("NewManager() error: %v", err)
	}
	if m.DefaultEditor() != "zed" {
		t.Errorf("DefaultEditor() = %q, want zed", m.DefaultEditor())
	}

	if err := m.OpenInEditor(context.Background(), "p", ""); err != nil {
		t.Fatalf("OpenInEditor() error: %v", err)
	}
	if gotEditor != "zed" {
		t.Errorf("launched %q, want zed", gotEditor)
	}
	if err := m.OpenInEditor(context.Background(), "p", "code"); !errors.Is(err, ErrEditorNotAllowed) {
		t.Errorf("code is not on the allowlist, got %v", err)
	}
}
