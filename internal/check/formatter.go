package check

import (
	"context"
	"fmt"
	"os"

	"github.com/andyballingall/clang-checks/internal/repo"
	"github.com/andyballingall/clang-checks/internal/tool"
)

// DefaultStyle makes clang-format use the nearest .clang-format file.
const DefaultStyle = "file"

// Formatter checks files against clang-format's output.
type Formatter struct {
	bin      tool.Binary
	runner   tool.Runner
	style    string
	readFile func(name string) ([]byte, error)
}

var _ Checker = (*Formatter)(nil)

// NewFormatter creates a Formatter invoking bin with the given --style value.
func NewFormatter(bin tool.Binary, r tool.Runner, style string) *Formatter {
	if style == "" {
		style = DefaultStyle
	}
	return &Formatter{bin: bin, runner: r, style: style, readFile: os.ReadFile}
}

func (f *Formatter) Binary() tool.Binary {
	return f.bin
}

// FixCommand is the command which reformats path in place.
func (f *Formatter) FixCommand(path string) string {
	return fmt.Sprintf("%s --style=%s -i %s", f.bin.Path, f.style, path)
}

// Check compares the file with clang-format's rendering of it. The file on disk
// is never modified.
func (f *Formatter) Check(ctx context.Context, c repo.Change) (Result, error) {
	original, err := f.readFile(c.Path)
	if err != nil {
		return Result{}, &FileReadError{Path: c.Path, Err: err}
	}

	out, err := f.runner.Run(ctx, f.bin.Path, "--style="+f.style, c.Path)
	if err != nil {
		return Result{}, err
	}
	if out.ExitCode != 0 && out.Stdout == "" && len(original) > 0 {
		return Result{}, &ToolFailedError{Tool: f.bin.Name, Path: c.Path, ExitCode: out.ExitCode, Stderr: out.Stderr}
	}

	diff, err := UnifiedDiff(string(original), out.Stdout, c.RelPath)
	if err != nil {
		return Result{}, err
	}

	res := Result{Change: c, Clean: diff == "", Output: diff}
	if !res.Clean {
		res.Hint = f.FixCommand(c.Path)
	}
	return res, nil
}
