package check

import (
	"fmt"
	"strings"
)

// FileReadError is returned when a changed file cannot be read, for example
// because it was removed after the change set was computed.
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("cannot read %s: %v", e.Path, e.Err)
}

func (e *FileReadError) Unwrap() error {
	return e.Err
}

// ToolFailedError is returned when a tool exits non-zero without producing any
// output to compare, which means it failed rather than found problems.
type ToolFailedError struct {
	Tool     string
	Path     string
	ExitCode int
	Stderr   string
}

func (e *ToolFailedError) Error() string {
	msg := fmt.Sprintf("%s exited with status %d on %s", e.Tool, e.ExitCode, e.Path)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

// InvalidCompileDatabaseError is returned for a compile_commands.json which is not valid JSON.
type InvalidCompileDatabaseError struct {
	Path string
}

func (e *InvalidCompileDatabaseError) Error() string {
	return fmt.Sprintf("%s is not a valid compilation database", e.Path)
}
