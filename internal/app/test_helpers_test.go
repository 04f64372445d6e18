package app

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/andyballingall/clang-checks/internal/config"
	"github.com/andyballingall/clang-checks/internal/repo"
	"github.com/andyballingall/clang-checks/internal/tool"
)

type MockManager struct {
	mock.Mock
}

func (m *MockManager) Check(ctx context.Context, opts CheckOptions) error {
	args := m.Called(ctx, opts)
	return args.Error(0)
}

func (m *MockManager) Watch(ctx context.Context, opts CheckOptions, readyChan chan<- struct{}) error {
	args := m.Called(ctx, opts, readyChan)
	return args.Error(0)
}

// MockGitter is a test mock for the repo.Gitter interface.
type MockGitter struct {
	RootFunc      func() (string, error)
	MergeBaseFunc func(ref string) (repo.Revision, error)
	DiffFunc      func(rev repo.Revision) ([]string, error)

	mu    sync.Mutex
	calls []string
}

func (m *MockGitter) record(call string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, call)
}

func (m *MockGitter) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.calls)
}

func (m *MockGitter) Root(_ context.Context) (string, error) {
	m.record("Root")
	if m.RootFunc != nil {
		return m.RootFunc()
	}
	return "/repo", nil
}

func (m *MockGitter) MergeBase(_ context.Context, ref string) (repo.Revision, error) {
	m.record("MergeBase " + ref)
	if m.MergeBaseFunc != nil {
		return m.MergeBaseFunc(ref)
	}
	return "abc123", nil
}

func (m *MockGitter) Diff(_ context.Context, rev repo.Revision) ([]string, error) {
	m.record("Diff " + rev.String())
	if m.DiffFunc != nil {
		return m.DiffFunc(rev)
	}
	return nil, nil
}

// fakeFinder resolves every tool to a fixed binary.
type fakeFinder struct {
	bin       tool.Binary
	err       error
	explicit  string
	fallbacks []string
}

func (f *fakeFinder) Find(explicit, name string, fallbacks ...string) (tool.Binary, error) {
	f.explicit = explicit
	f.fallbacks = fallbacks
	if f.err != nil {
		return tool.Binary{}, f.err
	}
	b := f.bin
	b.Name = name
	return b, nil
}

// scriptedRunner answers --version with version and any other invocation
// (whose last argument is the checked file) with outputs[file].
type scriptedRunner struct {
	version string
	outputs map[string]string

	mu    sync.Mutex
	files []string
	args  [][]string
}

func (r *scriptedRunner) Run(_ context.Context, _ string, args ...string) (*tool.Output, error) {
	if len(args) == 1 && args[0] == "--version" {
		return &tool.Output{Stdout: r.version}, nil
	}
	file := args[len(args)-1]
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files = append(r.files, file)
	r.args = append(r.args, args)
	return &tool.Output{Stdout: r.outputs[file]}, nil
}

func (r *scriptedRunner) Files() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.files)
}

// syncBuffer is a bytes.Buffer safe for concurrent use.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// testEnv holds a CLIManager and the fakes behind it.
type testEnv struct {
	root   string
	cfg    *config.Config
	finder *fakeFinder
	runner *scriptedRunner
	gitter *MockGitter
	stdout *syncBuffer
	stderr *syncBuffer
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	root := t.TempDir()
	te := &testEnv{
		root:   root,
		cfg:    config.Default(),
		finder: &fakeFinder{bin: tool.Binary{Path: "/usr/bin/fake"}},
		runner: &scriptedRunner{outputs: map[string]string{}},
		stdout: &syncBuffer{},
		stderr: &syncBuffer{},
	}
	te.gitter = &MockGitter{RootFunc: func() (string, error) { return root, nil }}
	return te
}

func (te *testEnv) manager(p Program) *CLIManager {
	ll := &slog.LevelVar{}
	logger := slog.New(&consoleHandler{w: te.stderr, level: ll})
	return NewCLIManager(logger, p, te.cfg, te.finder, te.runner, te.gitter, te.root, "", te.stdout)
}

// addFile writes a file under root. formatted is what the fake formatter
// prints for it; diagnostics is what the fake analyzer prints.
func (te *testEnv) addFile(t *testing.T, rel, content, output string) string {
	t.Helper()
	path := filepath.Join(te.root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	te.runner.outputs[path] = output
	return path
}

// changed makes the mock gitter report paths as changed.
func (te *testEnv) changed(paths ...string) {
	te.gitter.DiffFunc = func(repo.Revision) ([]string, error) { return paths, nil }
}

// writeFakeTool writes an executable shell script standing in for clang-format
// or clang-tidy and returns its path. The formatter strips trailing blanks; the
// analyzer reports any line containing BAD.
func writeFakeTool(t *testing.T, dir, name, version string) string {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	var script strings.Builder
	script.WriteString("#!/bin/sh\n")
	script.WriteString(`if [ "$1" = "--version" ]; then` + "\n")
	if name == "clang-tidy" {
		script.WriteString("  echo 'LLVM (http://llvm.org/):'\n")
		script.WriteString("  echo '  LLVM version " + version + "'\n")
	} else {
		script.WriteString("  echo 'clang-format version " + version + "'\n")
	}
	script.WriteString("  exit 0\nfi\n")
	script.WriteString("for last; do :; done\n")
	if name == "clang-tidy" {
		script.WriteString(`grep -n BAD "$last" | sed "s|^\([0-9]*\):.*|$last:\1:1: warning: bad code [fake-check]|"` + "\n")
		script.WriteString("exit 0\n")
	} else {
		script.WriteString(`sed 's/[[:space:]]*$//' "$last"` + "\n")
	}

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(script.String()), 0o755)) //nolint:gosec // test script must be executable
	return path
}

// gitRun runs git in dir.
func gitRun(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "git %v: %s", args, out)
}

// newRepo creates a repository with a develop branch and a feature branch
// checked out, and returns its root.
func newRepo(t *testing.T) string {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	dir := t.TempDir()
	gitRun(t, dir, "init", "-q")
	gitRun(t, dir, "config", "user.email", "dev@example.com")
	gitRun(t, dir, "config", "user.name", "Dev")
	gitRun(t, dir, "config", "commit.gpgsign", "false")
	gitRun(t, dir, "checkout", "-q", "-b", "develop")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("readme\n"), 0o600))
	gitRun(t, dir, "add", "-A")
	gitRun(t, dir, "commit", "-q", "-m", "initial")
	gitRun(t, dir, "checkout", "-q", "-b", "feature")

	root, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	return root
}
