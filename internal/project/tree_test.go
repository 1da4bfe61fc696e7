package project

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func childNames(n *TreeNode) []string {
	names := make([]string, len(n.Children))
	for i, c := range n.Children {
		names[i] = c.Name
	}
	return names
}

func TestBuild_NegativeDepth(t *testing.T) {
	if got := NewTreeBuilder(nil, nil).Build(t.TempDir(), -1); got != nil {
		t.Errorf("Build(-1) = %+v, want nil", got)
	}
}

func TestBuild_ZeroDepthHasNoChildren(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "")
	mkdir(t, filepath.Join(dir, "sub"))

	got := NewTreeBuilder(nil, nil).Build(dir, 0)
	if got == nil {
		t.Fatal("Build(0) = nil")
	}
	if got.Type != NodeFolder || got.Name != filepath.Base(dir) {
		t.Errorf("root = %+v", got)
	}
	if got.Children == nil || len(got.Children) != 0 {
		t.Errorf("children = %v, want empty list", got.Children)
	}
}

func TestBuild_OrderingAndFiltering(t *testing.T) {
	dir := t.TempDir()
	mkdir(t, filepath.Join(dir, "b"))
	mkdir(t, filepath.Join(dir, "A"))
	mkdir(t, filepath.Join(dir, "node_modules"))
	mkdir(t, filepath.Join(dir, ".git"))
	writeFile(t, filepath.Join(dir, "z.txt"), "")
	writeFile(t, filepath.Join(dir, "B.md"), "")
	writeFile(t, filepath.Join(dir, ".env"), "")
	writeFile(t, filepath.Join(dir, "b", "inner.go"), "")

	got := NewTreeBuilder(nil, nil).Build(dir, 1)
	want := "A,b,B.md,z.txt"
	if strings.Join(childNames(got), ",") != want {
		t.Fatalf("children = %v, want %s", childNames(got), want)
	}

	b := got.Children[1]
	if b.Type != NodeFolder || len(b.Children) != 0 {
		t.Errorf("b at depth limit = %+v, want folder with no children", b)
	}
	if got.Children[2].Type != NodeFile {
		t.Errorf("B.md type = %s, want file", got.Children[2].Type)
	}
}

func TestBuild_Recurses(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "src", "pkg", "deep.go"), "")
	writeFile(t, filepath.Join(dir, "src", "main.go"), "")

	got := NewTreeBuilder(nil, nil).Build(dir, 2)
	src := got.Children[0]
	if strings.Join(childNames(src), ",") != "pkg,main.go" {
		t.Errorf("src children = %v, want [pkg main.go]", childNames(src))
	}
	if pkg := src.Children[0]; len(pkg.Children) != 0 {
		t.Errorf("pkg children = %v, want none at depth limit", childNames(pkg))
	}
}

func TestBuild_UnreadableFolderIsPartial(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	dir := t.TempDir()
	locked := filepath.Join(dir, "locked")
	writeFile(t, filepath.Join(locked, "x.go"), "")
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	got := NewTreeBuilder(nil, nil).Build(dir, 3)
	if len(got.Children) != 1 {
		t.Fatalf("children = %v, want [locked]", childNames(got))
	}
	if l := got.Children[0]; !l.Partial || len(l.Children) != 0 {
		t.Errorf("locked = %+v, want partial with no children", l)
	}
}

func TestTreeNode_MarshalJSON(t *testing.T) {
	root := &TreeNode{
		Name: "p",
		Type: NodeFolder,
		Children: []*TreeNode{
			{Name: "empty", Type: NodeFolder},
			{Name: "f.go", Type: NodeFile},
		},
	}
	data, err := json.Marshal(root)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"name":"p","type":"folder","children":[{"name":"empty","type":"folder","children":[]},{"name":"f.go","type":"file"}]}`
	if string(data) != want {
		t.Errorf("json = %s\nwant   %s", data, want)
	}
}
