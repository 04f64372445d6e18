package repo

import (
	"fmt"
	"strings"
)

// GitError is returned when a version-control query fails.
type GitError struct {
	Op     string
	Output string
	Err    error
}

func (e *GitError) Error() string {
	out := strings.TrimSpace(e.Output)
	if out == "" {
		return fmt.Sprintf("git %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("git %s failed: %v (output: %s)", e.Op, e.Err, out)
}

func (e *GitError) Unwrap() error {
	return e.Err
}

// UnknownBackendError is returned for an unsupported VCS backend name.
type UnknownBackendError struct {
	Backend Backend
}

func (e *UnknownBackendError) Error() string {
	return fmt.Sprintf("unknown vcs backend '%s' (expected '%s' or '%s')", e.Backend, BackendCLI, BackendGoGit)
}

// OutsideRepositoryError is returned for an explicit file outside the working tree.
type OutsideRepositoryError struct {
	Path string
	Root string
}

func (e *OutsideRepositoryError) Error() string {
	return fmt.Sprintf("%s is outside the repository at %s", e.Path, e.Root)
}
