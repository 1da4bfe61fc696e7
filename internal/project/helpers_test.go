package project

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

// writeFile creates path (and its parents) with content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func mkdir(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
}

// fakeProber returns canned statuses keyed by project directory name.
type fakeProber struct {
	byName map[string]GitStatus
	calls  int
}

func (f *fakeProber) Probe(_ context.Context, projectPath string) GitStatus {
	f.calls++
	if st, ok := f.byName[filepath.Base(projectPath)]; ok {
		return st
	}
	return GitStatus{Kind: StatusNotARepo, Detail: "not a repository"}
}

// newTestManager creates a Manager over root with a fake prober.
func newTestManager(t *testing.T, root string, prober StatusProber) *Manager {
	t.Helper()
	if prober == nil {
		prober = &fakeProber{}
	}
	m, err := NewManager(Options{Root: root, Prober: prober})
	if err != nil {
		t.Fatalf("NewManager() error: %v", err)
	}
	return m
}
