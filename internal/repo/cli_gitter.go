package repo

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
)

// CLIGitter is the concrete implementation of Gitter using the git CLI.
type CLIGitter struct {
	dir string
}

// NewCLIGitter creates a CLIGitter running git in dir ("" for the current directory).
func NewCLIGitter(dir string) *CLIGitter {
	return &CLIGitter{dir: dir}
}

// git runs a git subcommand and returns its stdout.
func (g *CLIGitter) git(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", &GitError{Op: args[0], Output: stderr.String(), Err: err}
	}
	return stdout.String(), nil
}

// Root finds the top-level directory of the git repository.
func (g *CLIGitter) Root(ctx context.Context) (string, error) {
	out, err := g.git(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(out), nil
}

// MergeBase finds the common ancestor of HEAD and ref.
func (g *CLIGitter) MergeBase(ctx context.Context, ref string) (Revision, error) {
	out, err := g.git(ctx, "merge-base", "HEAD", ref)
	if err != nil {
		return "", err
	}
	return Revision(strings.TrimSpace(out)), nil
}

// Diff lists files changed between rev and the working tree.
func (g *CLIGitter) Diff(ctx context.Context, rev Revision) ([]string, error) {
	// -z keeps unusual file names unquoted; --diff-filter=d drops deletions.
	out, err := g.git(ctx, "diff", "--name-only", "-z", "--diff-filter=d", rev.String(), "--")
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, p := range strings.Split(out, "\x00") {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths, nil
}
