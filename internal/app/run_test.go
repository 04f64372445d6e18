package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andyballingall/clang-checks/internal/fs"
	"github.com/andyballingall/clang-checks/internal/repo"
	"github.com/andyballingall/clang-checks/internal/tool"
)

// commitFiles writes files into root and commits them on the current branch.
func commitFiles(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	gitRun(t, root, "add", "-A")
	gitRun(t, root, "commit", "-q", "-m", "change")
}

func runEnv(t *testing.T) fs.MapEnvProvider {
	t.Helper()
	return fs.MapEnvProvider{LogEnvVar: filepath.Join(t.TempDir(), "checks.log")}
}

func TestRun(t *testing.T) {
	t.Parallel()

	t.Run("help", func(t *testing.T) {
		t.Parallel()
		var stdout, stderr bytes.Buffer
		err := Run(context.Background(), FormatProgram, []string{"clang-format-check", "--help"},
			&stdout, &stderr, runEnv(t))
		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "clang-format-check runs clang-format")
		assert.Empty(t, stderr.String())
	})

	t.Run("not a repository", func(t *testing.T) {
		t.Parallel()
		var stdout, stderr bytes.Buffer
		err := Run(context.Background(), FormatProgram, []string{"clang-format-check", "-C", t.TempDir()},
			&stdout, &stderr, runEnv(t))
		var gitErr *repo.GitError
		require.ErrorAs(t, err, &gitErr)
		assert.Contains(t, stderr.String(), "Error:")
	})

	t.Run("formatter reports dirty files", func(t *testing.T) {
		t.Parallel()
		root := newRepo(t)
		commitFiles(t, root, map[string]string{
			"src/clean.cpp": "int a;\n",
			"src/dirty.h":   "int b;   \n",
			"notes.txt":     "trailing   \n",
		})
		fake := writeFakeTool(t, t.TempDir(), "clang-format", "3.9.1")

		var stdout, stderr bytes.Buffer
		err := Run(context.Background(), FormatProgram,
			[]string{"clang-format-check", "-C", root, "-c", fake, "--nocolour"},
			&stdout, &stderr, runEnv(t))

		var dirty *DirtyFilesError
		require.ErrorAs(t, err, &dirty)
		assert.Equal(t, 1, dirty.Dirty)
		assert.Equal(t, 2, dirty.Total)
		out := stdout.String()
		assert.Contains(t, out, "Found formatting changes for file: "+filepath.Join(root, "src", "dirty.h"))
		assert.Contains(t, out, "--- a/src/dirty.h")
		assert.Contains(t, out, "-int b;\n")
		assert.Contains(t, out, "+int b;")
		assert.NotContains(t, out, "clean.cpp:")
		assert.NotContains(t, out, "notes.txt")
		assert.Contains(t, stderr.String(), "Error: 1 of 2 files failed the clang-format check")
	})

	t.Run("formatter passes clean files", func(t *testing.T) {
		t.Parallel()
		root := newRepo(t)
		commitFiles(t, root, map[string]string{"main.c": "int main(void) { return 0; }\n"})
		fake := writeFakeTool(t, t.TempDir(), "clang-format", "3.8.0")

		var stdout, stderr bytes.Buffer
		err := Run(context.Background(), FormatProgram,
			[]string{"clang-format-check", "-C", root, "-c", fake, "--vcs", "go-git"},
			&stdout, &stderr, runEnv(t))
		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "clang-format summary: 1 checked, 1 clean, 0 dirty")
	})

	t.Run("relative arguments follow the directory flag", func(t *testing.T) {
		t.Parallel()
		root := newRepo(t)
		commitFiles(t, root, map[string]string{"src/a.cpp": "int a;   \n"})
		require.NoError(t, os.Mkdir(filepath.Join(root, "tools"), 0o755))
		writeFakeTool(t, filepath.Join(root, "tools"), "clang-format", "3.8.0")

		var stdout, stderr bytes.Buffer
		err := Run(context.Background(), FormatProgram,
			[]string{"clang-format-check", "-C", root, "-c", "tools/clang-format", "src/a.cpp"},
			&stdout, &stderr, runEnv(t))
		var dirty *DirtyFilesError
		require.ErrorAs(t, err, &dirty, "stderr: %s", stderr.String())
		assert.Equal(t, 1, dirty.Total)
		assert.Contains(t, stdout.String(), "Found formatting changes for file: "+filepath.Join(root, "src", "a.cpp"))
		assert.Contains(t, stdout.String(), filepath.Join(root, "tools", "clang-format")+" --style=file -i")
	})

	t.Run("no changes", func(t *testing.T) {
		t.Parallel()
		root := newRepo(t)
		fake := writeFakeTool(t, t.TempDir(), "clang-format", "10.0.0")

		var stdout, stderr bytes.Buffer
		err := Run(context.Background(), FormatProgram,
			[]string{"clang-format-check", "-C", root, "-c", fake},
			&stdout, &stderr, runEnv(t))
		require.NoError(t, err)
		assert.Empty(t, stdout.String())
		assert.Contains(t, stderr.String(), "No changed files, exiting")
	})

	t.Run("version too old", func(t *testing.T) {
		t.Parallel()
		root := newRepo(t)
		fake := writeFakeTool(t, t.TempDir(), "clang-format", "3.7.0")

		var stdout, stderr bytes.Buffer
		err := Run(context.Background(), FormatProgram,
			[]string{"clang-format-check", "-C", root, "-c", fake},
			&stdout, &stderr, runEnv(t))
		var tooOld *tool.VersionTooOldError
		require.ErrorAs(t, err, &tooOld)
		assert.Contains(t, stderr.String(), "Incorrect version of clang-format: got 3.7.0 but at least 3.8.0 is required")
	})

	t.Run("invalid config", func(t *testing.T) {
		t.Parallel()
		root := newRepo(t)
		require.NoError(t, os.WriteFile(filepath.Join(root, ".clang-checks.yml"), []byte("colour: red\n"), 0o600))
		fake := writeFakeTool(t, t.TempDir(), "clang-format", "3.8.0")

		var stdout, stderr bytes.Buffer
		err := Run(context.Background(), FormatProgram,
			[]string{"clang-format-check", "-C", root, "-c", fake},
			&stdout, &stderr, runEnv(t))
		require.Error(t, err)
		assert.Contains(t, stderr.String(), "Error:")
	})

	t.Run("analyzer reports diagnostics", func(t *testing.T) {
		t.Parallel()
		root := newRepo(t)
		commitFiles(t, root, map[string]string{
			"src/good.cpp": "int good;\n",
			"src/bad.cpp":  "int BAD;\n",
			"src/bad.h":    "int BAD;\n",
		})
		fake := writeFakeTool(t, t.TempDir(), "clang-tidy", "3.8.0")

		var stdout, stderr bytes.Buffer
		err := Run(context.Background(), TidyProgram,
			[]string{"clang-tidy-check", "-C", root, "-c", fake, "--print-output", "--nocolour"},
			&stdout, &stderr, runEnv(t))

		var dirty *DirtyFilesError
		require.ErrorAs(t, err, &dirty)
		assert.Equal(t, 1, dirty.Dirty)
		assert.Equal(t, 2, dirty.Total)
		out := stdout.String()
		assert.Contains(t, out, "Found clang-tidy diagnostics for file: "+filepath.Join(root, "src", "bad.cpp"))
		assert.Contains(t, out, "1:1: warning: bad code [fake-check]")
		assert.NotContains(t, out, "bad.h")
	})

	t.Run("watch stops when cancelled", func(t *testing.T) {
		t.Parallel()
		root := newRepo(t)
		fake := writeFakeTool(t, t.TempDir(), "clang-format", "3.8.0")

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		stdout, stderr := &syncBuffer{}, &syncBuffer{}
		env := runEnv(t)
		done := make(chan error, 1)
		go func() {
			done <- Run(ctx, FormatProgram, []string{"clang-format-check", "-C", root, "-c", fake, "-w"},
				stdout, stderr, env)
		}()

		require.Eventually(t, func() bool {
			return strings.Contains(stderr.String(), "Watching for changes")
		}, 5*time.Second, 20*time.Millisecond)
		cancel()

		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Fatal("watch did not stop")
		}
		assert.Contains(t, stderr.String(), "Interrupted by user")
	})
}
