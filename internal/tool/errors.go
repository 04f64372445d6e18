package tool

import (
	"fmt"
	"strings"
)

// BinaryNotFoundError is returned when no usable executable could be located.
type BinaryNotFoundError struct {
	Name     string
	Tried    []string
	Explicit bool // True when the user named a specific path
}

func (e *BinaryNotFoundError) Error() string {
	if e.Explicit && len(e.Tried) > 0 {
		return fmt.Sprintf("%s is not an executable %s binary", e.Tried[0], e.Name)
	}
	return fmt.Sprintf("could not find %s on PATH (tried: %s)", e.Name, strings.Join(e.Tried, ", "))
}

// VersionParseError is returned when a tool's --version output does not contain
// a recognisable version.
type VersionParseError struct {
	Text   string
	Reason string
}

func (e *VersionParseError) Error() string {
	return fmt.Sprintf("cannot parse version from %q: %s", e.Text, e.Reason)
}

// VersionTooOldError is returned when a tool is older than the minimum supported version.
type VersionTooOldError struct {
	Name string
	Got  Version
	Want Version
}

func (e *VersionTooOldError) Error() string {
	return fmt.Sprintf("Incorrect version of %s: got %s but at least %s is required", e.Name, e.Got, e.Want)
}

// InvocationError is returned when a subprocess could not be started at all.
// A tool which starts and exits non-zero is not an InvocationError.
type InvocationError struct {
	Path string
	Args []string
	Err  error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("failed to run %s: %v", e.Path, e.Err)
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}
