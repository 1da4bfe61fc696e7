package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/HendryAvila/devdash/internal/ignore"
)

// Options configures a Manager. Only Root is required.
type Options struct {
	Root           string
	Prober         StatusProber
	Ignore         *ignore.Matcher
	Launcher       Launcher
	AllowedEditors []string
	DefaultEditor  string // replaces the package DefaultEditor when set
	Logger         *slog.Logger
}

// Manager aggregates project metadata from the scan root. Every call
// reads the filesystem again; nothing is cached here.
type Manager struct {
	validator  *Validator
	classifier *Classifier
	trees      *TreeBuilder
	prober     StatusProber
	launcher   Launcher
	editors    map[string]bool
	editor     string
	logger     *slog.Logger
}

// NewManager creates a Manager rooted at opts.Root.
func NewManager(opts Options) (*Manager, error) {
	v, err := NewValidator(opts.Root)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	prober := opts.Prober
	if prober == nil {
		prober = NewGitProbe(nil)
	}
	launcher := opts.Launcher
	if launcher == nil {
		launcher = ExecLauncher
	}
	allowed := opts.AllowedEditors
	if len(allowed) == 0 {
		allowed = DefaultAllowedEditors
	}
	editor := opts.DefaultEditor
	if editor == "" {
		editor = DefaultEditor
	}
	editors := make(map[string]bool, len(allowed))
	for _, e := range allowed {
		editors[e] = true
	}

	return &Manager{
		validator:  v,
		classifier: NewClassifier(opts.Ignore, logger),
		trees:      NewTreeBuilder(opts.Ignore, logger),
		prober:     prober,
		launcher:   launcher,
		editors:    editors,
		editor:     editor,
		logger:     logger,
	}, nil
}

// DefaultEditor returns the editor used when a caller names none.
func (m *Manager) DefaultEditor() string {
	return m.editor
}

// Root returns the absolute scan root.
func (m *Manager) Root() string {
	return m.validator.Root()
}

// Resolve validates name and returns its absolute path.
func (m *Manager) Resolve(name string) (string, error) {
	return m.validator.Validate(name)
}

// List returns every immediate child directory of the root that holds a
// README.md, sorted case-insensitively by name.
func (m *Manager) List() ([]Summary, error) {
	entries, err := os.ReadDir(m.Root())
	if err != nil {
		return nil, fmt.Errorf("listing scan root: %w", err)
	}

	list := []Summary{}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		path := filepath.Join(m.Root(), e.Name())
		if !HasReadme(path) {
			continue
		}
		list = append(list, Summary{
			Name:        e.Name(),
			Path:        path,
			Description: ReadDescription(path),
		})
	}
	sort.SliceStable(list, func(i, j int) bool {
		a, b := strings.ToLower(list[i].Name), strings.ToLower(list[j].Name)
		if a != b {
			return a < b
		}
		return list[i].Name < list[j].Name
	})
	return list, nil
}

// Info composes the full record for one project. Any validation failure
// matches ErrNotFound; escapes additionally match ErrInvalidPath.
func (m *Manager) Info(ctx context.Context, name string) (*Project, error) {
	path, err := m.validator.Validate(name)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	return &Project{
		Name:         name,
		Path:         path,
		Description:  ReadDescription(path),
		Languages:    m.classifier.Classify(path).Languages,
		GitStatus:    m.prober.Probe(ctx, path),
		HasGit:       HasGit(path),
		Dependencies: ExtractDependencies(path),
	}, nil
}

// Classify returns the full language classification of one project.
func (m *Manager) Classify(name string) (Classification, error) {
	path, err := m.validator.Validate(name)
	if err != nil {
		return Classification{}, err
	}
	return m.classifier.Classify(path), nil
}

// Tree returns the directory tree of a project. A negative depth yields
// a nil tree and no error.
func (m *Manager) Tree(name string, depth int) (*TreeNode, error) {
	path, err := m.validator.Validate(name)
	if err != nil {
		return nil, err
	}
	return m.trees.Build(path, depth), nil
}

// SearchByLanguage returns projects whose distribution contains label,
// highest percentage first. Ties keep name order.
func (m *Manager) SearchByLanguage(ctx context.Context, label string) ([]LanguageMatch, error) {
	projects, err := m.List()
	if err != nil {
		return nil, err
	}

	matches := []LanguageMatch{}
	for _, p := range projects {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pct, ok := m.classifier.Classify(p.Path).Languages[label]
		if !ok {
			continue
		}
		matches = append(matches, LanguageMatch{Summary: p, LanguagePercentage: pct})
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].LanguagePercentage > matches[j].LanguagePercentage
	})
	return matches, nil
}

// BatchGitStatus probes every project and groups names by status kind.
// All four kinds are always present.
func (m *Manager) BatchGitStatus(ctx context.Context) (map[StatusKind][]string, error) {
	projects, err := m.List()
	if err != nil {
		return nil, err
	}

	groups := make(map[StatusKind][]string, len(StatusKinds))
	for _, k := range StatusKinds {
		groups[k] = []string{}
	}
	for _, p := range projects {
		st := m.prober.Probe(ctx, p.Path)
		groups[st.Kind] = append(groups[st.Kind], p.Name)
	}
	return groups, nil
}

// Modified returns the projects whose working tree has changes.
func (m *Manager) Modified(ctx context.Context) ([]ModifiedProject, error) {
	projects, err := m.List()
	if err != nil {
		return nil, err
	}

	list := []ModifiedProject{}
	for _, p := range projects {
		st := m.prober.Probe(ctx, p.Path)
		if st.Kind != StatusModified {
			continue
		}
		list = append(list, ModifiedProject{Summary: p, GitDetail: st.Detail})
	}
	return list, nil
}

// WithoutReadme returns the child directories that lack a README.md,
// excluding the static ignore set.
func (m *Manager) WithoutReadme() ([]string, error) {
	entries, err := os.ReadDir(m.Root())
	if err != nil {
		return nil, fmt.Errorf("listing scan root: %w", err)
	}

	names := []string{}
	for _, e := range entries {
		if !e.IsDir() || ignore.IsIgnoredName(e.Name()) {
			continue
		}
		if HasReadme(filepath.Join(m.Root(), e.Name())) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// LastCommit returns the HEAD commit time of a project when the prober
// can report one.
func (m *Manager) LastCommit(ctx context.Context, name string) (time.Time, bool) {
	lc, ok := m.prober.(CommitReader)
	if !ok {
		return time.Time{}, false
	}
	path, err := m.validator.Validate(name)
	if err != nil {
		return time.Time{}, false
	}
	return lc.LastCommit(ctx, path)
}

// Probe returns the Git status of a single project.
func (m *Manager) Probe(ctx context.Context, name string) (GitStatus, error) {
	path, err := m.validator.Validate(name)
	if err != nil {
		return GitStatus{}, err
	}
	return m.prober.Probe(ctx, path), nil
}

// OpenInEditor launches editor on the project directory. An empty editor
// means the configured default.
func (m *Manager) OpenInEditor(ctx context.Context, name, editor string) error {
	if editor == "" {
		editor = m.editor
	}
	if !m.editors[editor] {
		return fmt.Errorf("%w: %s", ErrEditorNotAllowed, editor)
	}
	path, err := m.validator.Validate(name)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, DefaultProbeTimeout)
	defer cancel()

	if err := m.launcher(ctx, editor, path); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return errors.New("editor command timeout")
		}
		return err
	}
	m.logger.Info("opened project in editor", "project", name, "editor", editor)
	return nil
}
