package repo

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/IGLOU-EU/go-wildcard/v2"

	"github.com/andyballingall/clang-checks/internal/fs"
)

// Filter selects which changed files a checker looks at.
type Filter struct {
	// Include is matched against the root-relative path. Nil matches everything.
	Include *regexp.Regexp
	// Exclude holds wildcard patterns ("third_party/*"); a match drops the file.
	Exclude []string
}

// Match reports whether the root-relative, slash-separated relPath passes the filter.
func (f Filter) Match(relPath string) bool {
	if f.Include != nil && !f.Include.MatchString(relPath) {
		return false
	}
	for _, pattern := range f.Exclude {
		if wildcard.Match(pattern, relPath) {
			return false
		}
	}
	return true
}

// ChangedFiles returns the files matching filter which changed since the common
// ancestor of HEAD and baseRef, in the order version control reports them.
func ChangedFiles(ctx context.Context, g Gitter, baseRef string, filter Filter) ([]Change, error) {
	root, err := g.Root(ctx)
	if err != nil {
		return nil, err
	}

	base, err := g.MergeBase(ctx, baseRef)
	if err != nil {
		return nil, err
	}

	paths, err := g.Diff(ctx, base)
	if err != nil {
		return nil, err
	}

	var changes []Change
	for _, p := range paths {
		if !filter.Match(p) {
			continue
		}
		// git reports paths relative to the repo root; resolve them so they work
		// regardless of the current directory.
		changes = append(changes, Change{
			Path:    filepath.Join(root, filepath.FromSlash(p)),
			RelPath: p,
		})
	}
	return changes, nil
}

// ExplicitFiles turns user-supplied paths into Changes relative to root,
// dropping any which do not pass filter. Relative paths are taken from dir,
// or from the current directory when dir is empty.
func ExplicitFiles(root, dir string, paths []string, filter Filter) ([]Change, error) {
	var changes []Change
	for _, p := range paths {
		path := p
		if dir != "" && !filepath.IsAbs(path) {
			path = filepath.Join(dir, path)
		}
		abs, err := fs.Abs(path)
		if err != nil {
			return nil, err
		}
		rel, err := fs.Rel(root, abs)
		if err != nil {
			return nil, err
		}
		if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return nil, &OutsideRepositoryError{Path: p, Root: root}
		}
		rel = filepath.ToSlash(rel)
		if !filter.Match(rel) {
			continue
		}
		changes = append(changes, Change{Path: abs, RelPath: rel})
	}
	return changes, nil
}
