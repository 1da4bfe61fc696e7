package project

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// DefaultProbeTimeout bounds each git invocation.
const DefaultProbeTimeout = 5 * time.Second

// StatusProber classifies the working tree state of a project directory.
type StatusProber interface {
	Probe(ctx context.Context, projectPath string) GitStatus
}

// CommitReader is implemented by probers that can date the last commit.
type CommitReader interface {
	LastCommit(ctx context.Context, projectPath string) (time.Time, bool)
}

// CommandRunner runs name with args in dir and returns its stdout.
type CommandRunner func(ctx context.Context, dir, name string, args ...string) ([]byte, error)

// ExecRunner runs commands as child processes. Optional locks are
// disabled so git never rewrites the index while answering a probe.
func ExecRunner(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), "GIT_OPTIONAL_LOCKS=0")
	return cmd.Output()
}

// HasGit reports whether path contains a .git directory.
func HasGit(path string) bool {
	info, err := os.Stat(filepath.Join(path, ".git"))
	return err == nil && info.IsDir()
}

// GitProbe is the StatusProber backed by the git CLI.
type GitProbe struct {
	run     CommandRunner
	timeout time.Duration
}

// NewGitProbe creates a GitProbe. A nil runner uses ExecRunner.
func NewGitProbe(run CommandRunner) *GitProbe {
	if run == nil {
		run = ExecRunner
	}
	return &GitProbe{run: run, timeout: DefaultProbeTimeout}
}

// WithTimeout returns a copy of the probe using d per invocation.
func (p *GitProbe) WithTimeout(d time.Duration) *GitProbe {
	cp := *p
	cp.timeout = d
	return &cp
}

// Probe runs `git status --porcelain` in projectPath. Directories without
// a .git directory are reported as NotARepo without spawning anything.
func (p *GitProbe) Probe(ctx context.Context, projectPath string) GitStatus {
	if !HasGit(projectPath) {
		return GitStatus{Kind: StatusNotARepo, Detail: "not a repository"}
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	out, err := p.run(ctx, projectPath, "git", "status", "--porcelain")
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return GitStatus{Kind: StatusError, Detail: "timeout"}
	}
	if err != nil {
		return GitStatus{Kind: StatusError, Detail: "status check failed"}
	}

	n := countLines(out)
	if n == 0 {
		return GitStatus{Kind: StatusClean, Detail: "no changes"}
	}
	return GitStatus{Kind: StatusModified, Detail: fmt.Sprintf("%d file(s) changed", n)}
}

// LastCommit returns the committer time of HEAD. ok is false when the
// directory is not a repository, has no commits, or git fails.
func (p *GitProbe) LastCommit(ctx context.Context, projectPath string) (t time.Time, ok bool) {
	if !HasGit(projectPath) {
		return time.Time{}, false
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	out, err := p.run(ctx, projectPath, "git", "log", "-1", "--format=%ct")
	if err != nil {
		return time.Time{}, false
	}
	secs, err := strconv.ParseInt(strings.TrimSpace(string(out)), 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.Unix(secs, 0).UTC(), true
}

func countLines(out []byte) int {
	n := 0
	for _, line := range bytes.Split(out, []byte("\n")) {
		if len(bytes.TrimSpace(line)) > 0 {
			n++
		}
	}
	return n
}
