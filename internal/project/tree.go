package project

import (
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/HendryAvila/devdash/internal/ignore"
)

// TreeBuilder produces depth-bounded directory trees.
type TreeBuilder struct {
	ignore *ignore.Matcher
	logger *slog.Logger
}

// NewTreeBuilder creates a TreeBuilder. A nil matcher applies the static
// ignore rules only.
func NewTreeBuilder(m *ignore.Matcher, logger *slog.Logger) *TreeBuilder {
	if logger == nil {
		logger = slog.Default()
	}
	return &TreeBuilder{ignore: m, logger: logger}
}

// Build returns the tree rooted at path. A negative depth yields nil and
// depth 0 yields the root with no children. Folders come before files,
// each group sorted case-insensitively.
func (b *TreeBuilder) Build(path string, maxDepth int) *TreeNode {
	if maxDepth < 0 {
		return nil
	}
	return b.build(b.ignore.Scope(path), path, maxDepth)
}

func (b *TreeBuilder) build(scope *ignore.Scope, path string, depth int) *TreeNode {
	node := &TreeNode{
		Name:     filepath.Base(path),
		Type:     NodeFolder,
		Children: []*TreeNode{},
	}
	if depth == 0 {
		return node
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		b.logger.Debug("tree: cannot list directory", "path", path, "error", err)
		node.Partial = true
		return node
	}

	var folders, files []*TreeNode
	for _, e := range entries {
		full := filepath.Join(path, e.Name())
		isDir := isDirEntry(full, e)
		if scope.SkipEntry(full, isDir) {
			continue
		}
		if isDir {
			folders = append(folders, b.build(scope, full, depth-1))
			continue
		}
		files = append(files, &TreeNode{Name: e.Name(), Type: NodeFile})
	}

	sortNodes(folders)
	sortNodes(files)
	node.Children = append(node.Children, folders...)
	node.Children = append(node.Children, files...)
	return node
}

// isDirEntry follows symlinks so a link to a directory lists as a folder.
func isDirEntry(full string, e os.DirEntry) bool {
	if e.IsDir() {
		return true
	}
	if e.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(full)
	return err == nil && info.IsDir()
}

func sortNodes(nodes []*TreeNode) {
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := strings.ToLower(nodes[i].Name), strings.ToLower(nodes[j].Name)
		if a != b {
			return a < b
		}
		return nodes[i].Name < nodes[j].Name
	})
}
