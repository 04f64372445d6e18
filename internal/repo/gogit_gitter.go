package repo

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"

	"github.com/andyballingall/clang-checks/internal/fs"
)

// GoGitter implements Gitter in pure Go with go-git, for machines without a git binary.
type GoGitter struct {
	dir string

	once    sync.Once
	repo    *git.Repository
	openErr error
}

// NewGoGitter creates a GoGitter for the repository containing dir.
func NewGoGitter(dir string) *GoGitter {
	if dir == "" {
		dir = "."
	}
	return &GoGitter{dir: dir}
}

func (g *GoGitter) open() (*git.Repository, error) {
	g.once.Do(func() {
		g.repo, g.openErr = git.PlainOpenWithOptions(g.dir, &git.PlainOpenOptions{DetectDotGit: true})
		if g.openErr != nil {
			g.openErr = &GitError{Op: "open", Err: g.openErr}
		}
	})
	return g.repo, g.openErr
}

// Root returns the working tree root.
func (g *GoGitter) Root(_ context.Context) (string, error) {
	r, err := g.open()
	if err != nil {
		return "", err
	}
	wt, err := r.Worktree()
	if err != nil {
		return "", &GitError{Op: "worktree", Err: err}
	}
	return fs.CanonicalPath(wt.Filesystem.Root())
}

// MergeBase finds the common ancestor of HEAD and ref.
func (g *GoGitter) MergeBase(_ context.Context, ref string) (Revision, error) {
	r, err := g.open()
	if err != nil {
		return "", err
	}

	head, err := g.headCommit(r)
	if err != nil {
		return "", err
	}

	baseHash, err := r.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return "", &GitError{Op: "merge-base", Err: err}
	}
	base, err := r.CommitObject(*baseHash)
	if err != nil {
		return "", &GitError{Op: "merge-base", Err: err}
	}

	bases, err := head.MergeBase(base)
	if err != nil {
		return "", &GitError{Op: "merge-base", Err: err}
	}
	if len(bases) == 0 {
		return "", &GitError{Op: "merge-base", Err: errors.New("no common ancestor with " + ref)}
	}
	return Revision(bases[0].Hash.String()), nil
}

// Diff lists files changed between rev and the working tree: committed changes
// from rev to HEAD plus staged and unstaged modifications. Untracked files are
// not included, matching "git diff <rev>".
func (g *GoGitter) Diff(_ context.Context, rev Revision) ([]string, error) {
	r, err := g.open()
	if err != nil {
		return nil, err
	}

	baseHash, err := r.ResolveRevision(plumbing.Revision(rev))
	if err != nil {
		return nil, &GitError{Op: "diff", Err: err}
	}
	base, err := r.CommitObject(*baseHash)
	if err != nil {
		return nil, &GitError{Op: "diff", Err: err}
	}
	head, err := g.headCommit(r)
	if err != nil {
		return nil, err
	}

	baseTree, err := base.Tree()
	if err != nil {
		return nil, &GitError{Op: "diff", Err: err}
	}
	headTree, err := head.Tree()
	if err != nil {
		return nil, &GitError{Op: "diff", Err: err}
	}

	changes, err := object.DiffTree(baseTree, headTree)
	if err != nil {
		return nil, &GitError{Op: "diff", Err: err}
	}

	changed := make(map[string]bool)
	for _, c := range changes {
		action, aErr := c.Action()
		if aErr != nil {
			return nil, &GitError{Op: "diff", Err: aErr}
		}
		if action == merkletrie.Delete {
			continue
		}
		changed[c.To.Name] = true
	}

	wt, err := r.Worktree()
	if err != nil {
		return nil, &GitError{Op: "worktree", Err: err}
	}
	status, err := wt.Status()
	if err != nil {
		return nil, &GitError{Op: "status", Err: err}
	}
	for path, st := range status {
		switch {
		case st.Worktree == git.Deleted || st.Staging == git.Deleted:
			delete(changed, path)
		case st.Worktree == git.Untracked:
			// "git diff <rev>" ignores untracked files
		case st.Worktree != git.Unmodified || st.Staging != git.Unmodified:
			changed[path] = true
		}
	}

	paths := make([]string, 0, len(changed))
	for p := range changed {
		paths = append(paths, p)
	}
	slices.Sort(paths)
	return paths, nil
}

func (g *GoGitter) headCommit(r *git.Repository) (*object.Commit, error) {
	ref, err := r.Head()
	if err != nil {
		return nil, &GitError{Op: "rev-parse HEAD", Err: err}
	}
	c, err := r.CommitObject(ref.Hash())
	if err != nil {
		return nil, &GitError{Op: "rev-parse HEAD", Err: err}
	}
	return c, nil
}
