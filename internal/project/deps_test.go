package project

import (
	"fmt"
	"path/filepath"
	"strings"
	"testing"
)

func TestExtractDependencies_Requirements(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "requirements.txt"), "# pinned\nflask==3.0\n\n  requests>=2  \n# dev\npytest\n")

	got := ExtractDependencies(dir)
	want := []string{"flask==3.0", "requests>=2", "pytest"}
	if strings.Join(got["python"], ",") != strings.Join(want, ",") {
		t.Errorf("python = %v, want %v", got["python"], want)
	}
}

func TestExtractDependencies_PackageJSONKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "package.json"), `{
  "name": "web",
  "dependencies": {"zod": "^3", "react": "^18", "axios": "^1"},
  "devDependencies": {"vitest": "^1"}
}`)

	got := ExtractDependencies(dir)["node"]
	want := "zod,react,axios"
	if strings.Join(got, ",") != want {
		t.Errorf("node = %v, want %s", got, want)
	}
}

func TestExtractDependencies_PackageJSONEdgeCases(t *testing.T) {
	tests := []struct {
		name    string
		content string
		present bool
	}{
		{"no dependencies object", `{"name": "x"}`, true},
		{"malformed", `{"dependencies": {`, false},
		{"dependencies not an object", `{"dependencies": ["a"]}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, "package.json"), tt.content)
			got, ok := ExtractDependencies(dir)["node"]
			if ok != tt.present {
				t.Fatalf("node present = %v, want %v (got %v)", ok, tt.present, got)
			}
			if ok && len(got) != 0 {
				t.Errorf("node = %v, want empty", got)
			}
		})
	}
}

func TestExtractDependencies_GoMod(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "go.mod"), `module example.com/app

go 1.22

require (
	github.com/go-chi/chi/v5 v5.2.1
	golang.org/x/text v0.14.0 // indirect
	gopkg.in/yaml.v3 v3.0.1
)
`)

	got := ExtractDependencies(dir)["go"]
	want := "github.com/go-chi/chi/v5,gopkg.in/yaml.v3"
	if strings.Join(got, ",") != want {
		t.Errorf("go = %v, want %s", got, want)
	}
}

func TestExtractDependencies_Cap(t *testing.T) {
	dir := t.TempDir()
	var b strings.Builder
	for i := 0; i < 15; i++ {
		fmt.Fprintf(&b, "pkg%d\n", i)
	}
	writeFile(t, filepath.Join(dir, "requirements.txt"), b.String())

	got := ExtractDependencies(dir)["python"]
	if len(got) != MaxDependencies {
		t.Fatalf("len = %d, want %d", len(got), MaxDependencies)
	}
	if got[0] != "pkg0" || got[9] != "pkg9" {
		t.Errorf("got %v, want first ten in order", got)
	}
}

func TestExtractDependencies_NoManifests(t *testing.T) {
	got := ExtractDependencies(t.TempDir())
	if got == nil || len(got) != 0 {
		t.Errorf("got %v, want empty map", got)
	}
}
