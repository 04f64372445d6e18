// Package check runs one external tool against one file and decides whether
// the file is clean.
package check

import (
	"context"
	"time"

	"github.com/andyballingall/clang-checks/internal/repo"
	"github.com/andyballingall/clang-checks/internal/tool"
)

// Result is the outcome of checking a single file.
type Result struct {
	Change repo.Change
	Clean  bool
	Output string // Unified diff (formatter) or diagnostics (analyzer); empty when clean
	Hint   string // Command which fixes the file, if the tool offers one
}

// Checker checks individual files with an external tool.
type Checker interface {
	// Binary returns the tool the checker invokes.
	Binary() tool.Binary
	// Check inspects one file. An error means the check itself could not be
	// carried out; a dirty file is reported through Result.Clean.
	Check(ctx context.Context, c repo.Change) (Result, error)
}

// Report aggregates the results of a run.
type Report struct {
	Tool      tool.Binary
	Version   tool.Version
	Results   []Result
	StartTime time.Time
	EndTime   time.Time
}

// NewReport starts a report for bin.
func NewReport(bin tool.Binary, v tool.Version) *Report {
	return &Report{Tool: bin, Version: v, StartTime: time.Now()}
}

// Add records a result.
func (r *Report) Add(res Result) {
	r.Results = append(r.Results, res)
}

// Finish stamps the end time.
func (r *Report) Finish() {
	r.EndTime = time.Now()
}

// Clean is the logical AND of every result; vacuously true for an empty report.
func (r *Report) Clean() bool {
	for _, res := range r.Results {
		if !res.Clean {
			return false
		}
	}
	return true
}

// Dirty returns the results which failed, in check order.
func (r *Report) Dirty() []Result {
	var dirty []Result
	for _, res := range r.Results {
		if !res.Clean {
			dirty = append(dirty, res)
		}
	}
	return dirty
}
