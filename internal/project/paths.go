package project

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Validator confines project lookups to a single scan root.
type Validator struct {
	root     string
	resolved string
}

// NewValidator resolves root to an absolute path. The root must exist and
// be a directory.
func NewValidator(root string) (*Validator, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving scan root %q: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("scan root %q: %w", abs, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan root %q is not a directory", abs)
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return nil, fmt.Errorf("resolving scan root %q: %w", abs, err)
	}
	return &Validator{root: abs, resolved: resolved}, nil
}

// Root returns the absolute scan root.
func (v *Validator) Root() string {
	return v.root
}

// Validate maps a project name to its absolute path below the root.
//
// The lexical check runs first, so a name that escapes the root fails
// with ErrInvalidPath whether or not the target exists. Symlinks are
// then resolved and the check is repeated, which blocks links that
// point outside the root.
func (v *Validator) Validate(name string) (string, error) {
	target := filepath.Join(v.root, name)
	if !isDescendant(v.root, target) {
		return "", fmt.Errorf("%w: %q", ErrInvalidPath, name)
	}

	if _, err := os.Lstat(target); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		return "", fmt.Errorf("checking project %q: %w", name, err)
	}

	resolved, err := filepath.EvalSymlinks(target)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %q", ErrNotFound, name)
		}
		return "", fmt.Errorf("resolving project %q: %w", name, err)
	}
	if !isDescendant(v.resolved, resolved) {
		return "", fmt.Errorf("%w: %q resolves outside the scan root", ErrInvalidPath, name)
	}

	return target, nil
}

// isDescendant reports whether p lies strictly below root.
func isDescendant(root, p string) bool {
	rel, err := filepath.Rel(root, p)
	if err != nil {
		return false
	}
	if rel == "." || rel == ".." {
		return false
	}
	return !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
