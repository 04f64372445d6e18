package app

import "fmt"

// DirtyFilesError is returned when at least one checked file failed.
type DirtyFilesError struct {
	Tool  string
	Dirty int
	Total int
}

func (e *DirtyFilesError) Error() string {
	return fmt.Sprintf("%d of %d files failed the %s check", e.Dirty, e.Total, e.Tool)
}
