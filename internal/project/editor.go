package project

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// DefaultEditor is launched when the caller names none.
const DefaultEditor = "code"

// DefaultAllowedEditors is the editor allowlist used when the
// configuration does not provide one. Terminal editors are left out:
// the launcher has no terminal to hand them.
var DefaultAllowedEditors = []string{"code", "cursor", "subl", "zed", "idea", "goland", "pycharm"}

var (
	// ErrEditorNotFound means the editor binary is not on PATH.
	ErrEditorNotFound = errors.New("editor not found")
	// ErrEditorNotAllowed means the editor is not in the allowlist.
	ErrEditorNotAllowed = errors.New("editor not allowed")
)

// Launcher opens path in editor.
type Launcher func(ctx context.Context, editor, path string) error

// ExecLauncher runs editor with path as its only argument and waits for
// the launcher process to exit, bounded by ctx. GUI editor launchers
// hand off to a running instance and return at once.
func ExecLauncher(ctx context.Context, editor, path string) error {
	bin, err := exec.LookPath(editor)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrEditorNotFound, editor)
	}
	out, err := exec.CommandContext(ctx, bin, path).CombinedOutput()
	if err != nil {
		return fmt.Errorf("running %s: %w (%s)", editor, err, out)
	}
	return nil
}
