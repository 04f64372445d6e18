package fs

import (
	"path/filepath"
)

// PathResolver provides path resolution operations.
type PathResolver interface {
	// CanonicalPath returns the canonical, absolute path by resolving symlinks.
	CanonicalPath(path string) (string, error)
	// Abs returns the absolute path.
	Abs(path string) (string, error)
	// Rel returns target relative to base, resolving symlinks on both sides first
	// so that /tmp and /private/tmp style aliases compare equal.
	Rel(base, target string) (string, error)
}

// StandardPathResolver is the default implementation using standard library functions.
type StandardPathResolver struct{}

// NewPathResolver creates a new StandardPathResolver.
func NewPathResolver() *StandardPathResolver {
	return &StandardPathResolver{}
}

// CanonicalPath returns the canonical, absolute path by resolving symlinks.
func (r *StandardPathResolver) CanonicalPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	return filepath.EvalSymlinks(abs)
}

// Abs returns the absolute path.
func (r *StandardPathResolver) Abs(path string) (string, error) {
	return filepath.Abs(path)
}

// Rel returns target relative to base. Paths which cannot be canonicalised
// (e.g. a file which no longer exists) are compared in their absolute form.
func (r *StandardPathResolver) Rel(base, target string) (string, error) {
	b, err := r.CanonicalPath(base)
	if err != nil {
		if b, err = r.Abs(base); err != nil {
			return "", err
		}
	}
	t, err := r.CanonicalPath(target)
	if err != nil {
		if t, err = r.canonicalParent(target); err != nil {
			return "", err
		}
	}
	return filepath.Rel(b, t)
}

// canonicalParent resolves the directory of path and re-attaches the base name.
func (r *StandardPathResolver) canonicalParent(path string) (string, error) {
	abs, err := r.Abs(path)
	if err != nil {
		return "", err
	}
	dir, err := r.CanonicalPath(filepath.Dir(abs))
	if err != nil {
		return abs, nil //nolint:nilerr // fall back to the plain absolute path
	}
	return filepath.Join(dir, filepath.Base(abs)), nil
}
