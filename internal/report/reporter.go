// Package report renders check results for people (text) and machines (JSON).
package report

import (
	"fmt"
	"io"

	"github.com/andyballingall/clang-checks/internal/check"
)

// Reporter renders check results. FileChecked is called as each file finishes;
// Write is called once with the complete report.
type Reporter interface {
	FileChecked(w io.Writer, res check.Result) error
	Write(w io.Writer, r *check.Report) error
}

// Format names an output format.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// Notice is the wording used for a file which failed a check.
type Notice struct {
	// Found precedes the file path, e.g. "Found formatting changes for file:".
	Found string
	// OutputHeader, if set, is printed before the tool output.
	OutputHeader string
	// Diff marks the output as a unified diff: each line is trimmed and
	// coloured, and the block is followed by a blank line.
	Diff bool
}

var (
	FormatNotice = Notice{
		Found:        "Found formatting changes for file:",
		OutputHeader: "Suggested changes:",
		Diff:         true,
	}
	TidyNotice = Notice{
		Found: "Found clang-tidy diagnostics for file:",
	}
)

// Options configures a Reporter.
type Options struct {
	Notice     Notice
	ShowOutput bool // print the diff or diagnostics of dirty files
	Verbose    bool // list every checked file in the summary
	UseColour  bool
}

// New returns the Reporter for format.
func New(format Format, opts Options) (Reporter, error) {
	switch format {
	case FormatText, "":
		return &TextReporter{Options: opts}, nil
	case FormatJSON:
		return &JSONReporter{}, nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}
