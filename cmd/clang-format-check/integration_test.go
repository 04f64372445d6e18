// Package main provides integration tests for the clang-format-check CLI.
package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"testing"

	"github.com/rogpeppe/go-internal/testscript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andyballingall/clang-checks/internal/app"
)

var binaryPath string

var (
	errBuild  error
	buildOnce sync.Once
)

func ensureBinary() error {
	buildOnce.Do(func() {
		tmpDir, err := os.MkdirTemp("", "clang-format-check-integration-test-*")
		if err != nil {
			errBuild = fmt.Errorf("failed to create temp dir: %w", err)
			return
		}

		binaryName := "clang-format-check"
		if runtime.GOOS == "windows" {
			binaryName += ".exe"
		}
		binaryPath = filepath.Join(tmpDir, binaryName)

		cmd := exec.CommandContext(context.Background(), "go", "build", "-o", binaryPath, ".")
		if bOutput, bErr := cmd.CombinedOutput(); bErr != nil {
			errBuild = fmt.Errorf("failed to build binary: %w\nOutput: %s", bErr, string(bOutput))
		}
	})
	return errBuild
}

func TestMain(m *testing.M) {
	testscript.Main(m, map[string]func(){
		"clang-format-check": func() {
			ctx := context.Background()
			if err := app.Run(ctx, app.FormatProgram, os.Args, os.Stdout, os.Stderr, nil); err != nil {
				os.Exit(1)
			}
		},
	})
}

func TestScripts(t *testing.T) {
	t.Parallel()
	testscript.Run(t, testscript.Params{
		Dir: "testdata/script",
		Setup: func(env *testscript.Env) error {
			// Give the log file a writable cache directory outside the checked tree.
			env.Setenv("HOME", filepath.Join(env.WorkDir, ".home"))
			return nil
		},
	})
}

func TestBinary(t *testing.T) {
	t.Parallel()
	if err := ensureBinary(); err != nil {
		t.Fatal(err)
	}

	t.Run("help", func(t *testing.T) {
		t.Parallel()
		cmd := exec.CommandContext(context.Background(), binaryPath, "--help")
		var stdout bytes.Buffer
		cmd.Stdout = &stdout
		require.NoError(t, cmd.Run())
		assert.Contains(t, stdout.String(), "Usage:")
		assert.Contains(t, stdout.String(), "--clang-format-path")
	})

	t.Run("outside a repository", func(t *testing.T) {
		t.Parallel()
		cmd := exec.CommandContext(context.Background(), binaryPath, "-C", t.TempDir())
		var stderr bytes.Buffer
		cmd.Stderr = &stderr
		err := cmd.Run()
		var exitErr *exec.ExitError
		require.True(t, errors.As(err, &exitErr), "expected exit error, got %v", err)
		assert.Equal(t, 1, exitErr.ExitCode())
		assert.Contains(t, stderr.String(), "Error:")
	})
}
