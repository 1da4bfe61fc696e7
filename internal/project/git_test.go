package project

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"testing"
	"time"
)

// countingRunner returns a runner that records calls and replies with
// the given output and error.
func countingRunner(out string, err error) (CommandRunner, *int) {
	calls := 0
	return func(_ context.Context, _, _ string, _ ...string) ([]byte, error) {
		calls++
		return []byte(out), err
	}, &calls
}

func repoDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	mkdir(t, filepath.Join(dir, ".git"))
	return dir
}

func TestProbe_NotARepoSpawnsNothing(t *testing.T) {
	run, calls := countingRunner("", nil)
	p := NewGitProbe(run)

	got := p.Probe(context.Background(), t.TempDir())
	want := GitStatus{Kind: StatusNotARepo, Detail: "not a repository"}
	if got != want {
		t.Errorf("Probe() = %+v, want %+v", got, want)
	}
	if *calls != 0 {
		t.Errorf("runner called %d times, want 0", *calls)
	}
}

func TestProbe_GitFileIsNotARepo(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".git"), "gitdir: elsewhere")
	run, calls := countingRunner("", nil)

	got := NewGitProbe(run).Probe(context.Background(), dir)
	if got.Kind != StatusNotARepo || *calls != 0 {
		t.Errorf("Probe() = %+v with %d calls, want NotARepo with 0", got, *calls)
	}
}

func TestProbe_Outputs(t *testing.T) {
	tests := []struct {
		name string
		out  string
		err  error
		want GitStatus
	}{
		{"clean", "", nil, GitStatus{StatusClean, "no changes"}},
		{"whitespace only", "\n\n", nil, GitStatus{StatusClean, "no changes"}},
		{"two changes", " M a.go\n?? b.go\n", nil, GitStatus{StatusModified, "2 file(s) changed"}},
		{"one change no newline", "M  x", nil, GitStatus{StatusModified, "1 file(s) changed"}},
		{"failure", "", errors.New("exit status 128"), GitStatus{StatusError, "status check failed"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run, calls := countingRunner(tt.out, tt.err)
			got := NewGitProbe(run).Probe(context.Background(), repoDir(t))
			if got != tt.want {
				t.Errorf("Probe() = %+v, want %+v", got, tt.want)
			}
			if *calls != 1 {
				t.Errorf("runner called %d times, want 1", *calls)
			}
		})
	}
}

func TestProbe_Timeout(t *testing.T) {
	slow := func(ctx context.Context, _, _ string, _ ...string) ([]byte, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	p := NewGitProbe(slow).WithTimeout(20 * time.Millisecond)

	got := p.Probe(context.Background(), repoDir(t))
	want := GitStatus{Kind: StatusError, Detail: "timeout"}
	if got != want {
		t.Errorf("Probe() = %+v, want %+v", got, want)
	}
}

func TestProbe_PassesArguments(t *testing.T) {
	dir := repoDir(t)
	var gotDir, gotName string
	var gotArgs []string
	run := func(_ context.Context, d, name string, args ...string) ([]byte, error) {
		gotDir, gotName, gotArgs = d, name, args
		return nil, nil
	}
	NewGitProbe(run).Probe(context.Background(), dir)

	if gotDir != dir || gotName != "git" {
		t.Errorf("ran %q in %q, want git in %q", gotName, gotDir, dir)
	}
	if len(gotArgs) != 2 || gotArgs[0] != "status" || gotArgs[1] != "--porcelain" {
		t.Errorf("args = %v, want [status --porcelain]", gotArgs)
	}
}

func TestLastCommit(t *testing.T) {
	run, _ := countingRunner("1700000000\n", nil)
	got, ok := NewGitProbe(run).LastCommit(context.Background(), repoDir(t))
	if !ok {
		t.Fatal("LastCommit() ok = false, want true")
	}
	if want := time.Unix(1700000000, 0).UTC(); !got.Equal(want) {
		t.Errorf("LastCommit() = %v, want %v", got, want)
	}

	bad, _ := countingRunner("fatal: no commits", nil)
	if _, ok := NewGitProbe(bad).LastCommit(context.Background(), repoDir(t)); ok {
		t.Error("LastCommit() ok = true for unparsable output")
	}

	none, calls := countingRunner("1", nil)
	if _, ok := NewGitProbe(none).LastCommit(context.Background(), t.TempDir()); ok || *calls != 0 {
		t.Errorf("LastCommit() on non-repo: ok=%v calls=%d, want false/0", ok, *calls)
	}
}

// TestBatchGitStatus_RealGit runs the batch scenario against real
// repositories when a git binary is available.
func TestBatchGitStatus_RealGit(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	root := t.TempDir()

	git := func(dir string, args ...string) {
		t.Helper()
		base := []string{"-c", "user.name=devdash", "-c", "user.email=devdash@example.com", "-c", "commit.gpgsign=false"}
		cmd := exec.Command("git", append(base, args...)...)
		cmd.Dir = dir
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, out)
		}
	}

	a := filepath.Join(root, "a")
	writeFile(t, filepath.Join(a, "README.md"), "# A")
	git(a, "init", "-q")
	git(a, "add", ".")
	git(a, "commit", "-q", "-m", "init")

	b := filepath.Join(root, "b")
	writeFile(t, filepath.Join(b, "README.md"), "# B")
	writeFile(t, filepath.Join(b, "one.txt"), "1")
	writeFile(t, filepath.Join(b, "two.txt"), "2")
	git(b, "init", "-q")
	git(b, "add", ".")
	git(b, "commit", "-q", "-m", "init")
	writeFile(t, filepath.Join(b, "one.txt"), "changed")
	writeFile(t, filepath.Join(b, "two.txt"), "changed")

	writeFile(t, filepath.Join(root, "c", "README.md"), "# C")

	m := newTestManager(t, root, NewGitProbe(nil))
	got, err := m.BatchGitStatus(context.Background())
	if err != nil {
		t.Fatalf("BatchGitStatus() error: %v", err)
	}
	assertGroups(t, got, map[StatusKind][]string{
		StatusClean:    {"a"},
		StatusModified: {"b"},
		StatusNotARepo: {"c"},
		StatusError:    {},
	})

	st, err := m.Probe(context.Background(), "b")
	if err != nil {
		t.Fatalf("Probe(b) error: %v", err)
	}
	if st.Detail != "2 file(s) changed" {
		t.Errorf("Probe(b).Detail = %q, want %q", st.Detail, "2 file(s) changed")
	}
	if _, ok := m.LastCommit(context.Background(), "a"); !ok {
		t.Error("LastCommit(a) ok = false, want true")
	}
}

func assertGroups(t *testing.T, got, want map[StatusKind][]string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d groups, want %d: %v", len(got), len(want), got)
	}
	for kind, names := range want {
		g, ok := got[kind]
		if !ok {
			t.Errorf("missing group %s", kind)
			continue
		}
		if g == nil {
			t.Errorf("group %s is nil, want empty slice", kind)
		}
		if len(g) != len(names) {
			t.Errorf("group %s = %v, want %v", kind, g, names)
			continue
		}
		for i := range names {
			if g[i] != names[i] {
				t.Errorf("group %s = %v, want %v", kind, g, names)
				break
			}
		}
	}
}
