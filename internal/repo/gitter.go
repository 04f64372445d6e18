// Package repo answers version-control questions: where the working tree lives
// and which files changed since a branch point.
package repo

import (
	"context"
	"errors"
	"os/exec"
)

// DefaultBaseBranch is the reference branch changes are measured against.
const DefaultBaseBranch = "develop"

// Revision represents a specific git point-in-time (branch, tag or hash).
type Revision string

func (r Revision) String() string { return string(r) }

// Change is a file reported as changed by version control.
type Change struct {
	Path    string // Absolute path on disk
	RelPath string // Slash-separated path relative to the repository root
}

// Gitter defines the version-control queries the checkers need.
type Gitter interface {
	// Root returns the absolute top-level directory of the working tree.
	Root(ctx context.Context) (string, error)

	// MergeBase returns the best common ancestor of HEAD and ref.
	MergeBase(ctx context.Context, ref string) (Revision, error)

	// Diff lists slash-separated, root-relative paths of files which differ between
	// rev and the working tree, in path order. Deleted files are not reported.
	Diff(ctx context.Context, rev Revision) ([]string, error)
}

// Backend names a Gitter implementation.
type Backend string

const (
	BackendCLI   Backend = "cli"
	BackendGoGit Backend = "go-git"
)

// NewGitter returns the Gitter for backend, operating on the repository containing dir.
func NewGitter(backend Backend, dir string) (Gitter, error) {
	switch backend {
	case BackendCLI, "":
		return NewCLIGitter(dir), nil
	case BackendGoGit:
		return NewGoGitter(dir), nil
	default:
		return nil, &UnknownBackendError{Backend: backend}
	}
}

// DiscoverRoot finds the top-level directory of the repository containing dir.
// With no backend the git CLI is asked first, and go-git is used when no git
// binary is installed.
func DiscoverRoot(ctx context.Context, backend Backend, dir string) (string, error) {
	if backend != "" {
		g, err := NewGitter(backend, dir)
		if err != nil {
			return "", err
		}
		return g.Root(ctx)
	}
	return discoverRoot(ctx, NewCLIGitter(dir), NewGoGitter(dir))
}

func discoverRoot(ctx context.Context, primary, fallback Gitter) (string, error) {
	root, err := primary.Root(ctx)
	if errors.Is(err, exec.ErrNotFound) {
		return fallback.Root(ctx)
	}
	return root, err
}
