// Package ignore decides which directory entries the scanner skips.
//
// The base rule set is static: a fixed list of directory names
// (version-control metadata, dependency caches, build output, editor
// config) plus anything whose name starts with a dot. A Matcher can
// extend it with user glob patterns and, per project, with the rules of
// that project's .gitignore. Both extensions are off unless configured.
package ignore

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	gitignore "github.com/denormal/go-gitignore"
)

// Dirs is the static ignore set.
var Dirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"__pycache__":  true,
	"venv":         true,
	".venv":        true,
	"env":          true,
	"dist":         true,
	"build":        true,
	"target":       true,
	".next":        true,
	".nuxt":        true,
	"vendor":       true,
	"bin":          true,
	"obj":          true,
	".idea":        true,
	".vscode":      true,
}

// IsIgnoredName reports whether name belongs to the static ignore set.
func IsIgnoredName(name string) bool {
	return Dirs[name]
}

// IsHidden reports whether name carries the hidden-file marker.
func IsHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}

// Options configures the optional extensions of the static rule set.
type Options struct {
	// Patterns are doublestar globs matched against the slash-separated
	// path relative to the project root, and against the base name.
	Patterns []string
	// RespectGitignore loads <project>/.gitignore for each scope.
	RespectGitignore bool
}

// Matcher holds the process-wide ignore configuration. A nil *Matcher
// applies the static rules only.
type Matcher struct {
	patterns         []string
	respectGitignore bool
}

// NewMatcher creates a Matcher. Invalid glob patterns are dropped.
func NewMatcher(opts Options) *Matcher {
	m := &Matcher{respectGitignore: opts.RespectGitignore}
	for _, p := range opts.Patterns {
		p = strings.TrimSpace(p)
		if p == "" || !doublestar.ValidatePattern(p) {
			continue
		}
		m.patterns = append(m.patterns, p)
	}
	return m
}

// Patterns returns the active extra patterns.
func (m *Matcher) Patterns() []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.patterns...)
}

// Scope binds the matcher to one project root. The returned Scope is
// never nil.
func (m *Matcher) Scope(root string) *Scope {
	s := &Scope{root: root}
	if m == nil {
		return s
	}
	s.patterns = m.patterns
	if m.respectGitignore {
		s.git = loadGitignore(root)
	}
	return s
}

// Scope answers skip questions for paths below a single project root.
type Scope struct {
	root     string
	patterns []string
	git      gitignore.GitIgnore
}

// SkipDir reports whether traversal should prune the directory at path.
func (s *Scope) SkipDir(path string) bool {
	name := filepath.Base(path)
	if IsIgnoredName(name) || IsHidden(name) {
		return true
	}
	return s.extra(path, true)
}

// SkipFile reports whether a file is excluded from classification. The
// static set never excludes files; only configured extensions do.
func (s *Scope) SkipFile(path string) bool {
	return s.extra(path, false)
}

// SkipEntry is the rule used for tree listings: hidden entries and
// static-set names are dropped whether they are files or folders.
func (s *Scope) SkipEntry(path string, isDir bool) bool {
	name := filepath.Base(path)
	if IsIgnoredName(name) || IsHidden(name) {
		return true
	}
	return s.extra(path, isDir)
}

func (s *Scope) extra(path string, isDir bool) bool {
	if s == nil || (len(s.patterns) == 0 && s.git == nil) {
		return false
	}

	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		rel = path
	}
	rel = filepath.ToSlash(rel)
	base := filepath.Base(path)

	for _, p := range s.patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(p, base); ok {
			return true
		}
	}

	if s.git != nil {
		if match := s.git.Relative(rel, isDir); match != nil && match.Ignore() {
			return true
		}
	}
	return false
}

// loadGitignore returns nil when the project has no readable .gitignore.
func loadGitignore(root string) gitignore.GitIgnore {
	f, err := os.Open(filepath.Join(root, ".gitignore"))
	if err != nil {
		return nil
	}
	defer func() { _ = f.Close() }()

	return gitignore.New(f, root, nil)
}
