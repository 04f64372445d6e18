package check

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/andyballingall/clang-checks/internal/repo"
	"github.com/andyballingall/clang-checks/internal/tool"
)

const (
	// DefaultBuildDir is where the compilation database is expected, relative to the repo root.
	DefaultBuildDir = "build"

	// emptyConfig overrides any .clang-tidy file so that only inline
	// NOLINT-style suppressions apply.
	emptyConfig = "-config={}"
)

// Analyzer checks files with clang-tidy. Any diagnostic output makes a file dirty.
type Analyzer struct {
	bin       tool.Binary
	runner    tool.Runner
	buildDir  string
	extraArgs []string
	db        *CompileDatabase
	logger    *slog.Logger
}

var _ Checker = (*Analyzer)(nil)

// NewAnalyzer creates an Analyzer which points clang-tidy at buildDir.
func NewAnalyzer(bin tool.Binary, r tool.Runner, buildDir string, extraArgs []string, logger *slog.Logger) *Analyzer {
	return &Analyzer{
		bin:       bin,
		runner:    r,
		buildDir:  buildDir,
		extraArgs: extraArgs,
		logger:    logger,
	}
}

// LoadCompileDatabase reads the build directory's compile_commands.json so that
// files without a compile command can be reported. A missing database is logged
// and otherwise ignored.
func (a *Analyzer) LoadCompileDatabase() {
	db, err := LoadCompileDatabase(a.buildDir)
	if err != nil {
		a.logger.Warn("compilation database unavailable; clang-tidy will guess compile flags",
			"buildDir", a.buildDir, "error", err)
		return
	}
	a.logger.Debug("loaded compilation database", "buildDir", a.buildDir, "entries", db.Len())
	a.db = db
}

func (a *Analyzer) Binary() tool.Binary {
	return a.bin
}

// Args returns the clang-tidy arguments for path.
func (a *Analyzer) Args(path string) []string {
	args := []string{"-p=" + a.buildDir, emptyConfig}
	args = append(args, a.extraArgs...)
	return append(args, path)
}

// Check runs clang-tidy on the file. Only stdout counts as diagnostics; the
// "N warnings generated." chatter on stderr is logged at debug level.
func (a *Analyzer) Check(ctx context.Context, c repo.Change) (Result, error) {
	if _, err := os.Stat(c.Path); err != nil {
		return Result{}, &FileReadError{Path: c.Path, Err: err}
	}

	if a.db != nil && !a.db.Has(c.Path) {
		a.logger.Warn("no compile command for file", "file", c.RelPath, "buildDir", a.buildDir)
	}

	out, err := a.runner.Run(ctx, a.bin.Path, a.Args(c.Path)...)
	if err != nil {
		return Result{}, err
	}
	if s := strings.TrimSpace(out.Stderr); s != "" {
		a.logger.Debug("clang-tidy stderr", "file", c.RelPath, "stderr", s)
	}

	// Any stdout at all, even blank lines, fails the file.
	if out.ExitCode != 0 && out.Stdout == "" {
		return Result{}, &ToolFailedError{Tool: a.bin.Name, Path: c.Path, ExitCode: out.ExitCode, Stderr: out.Stderr}
	}

	return Result{
		Change: c,
		Clean:  out.Stdout == "",
		Output: strings.TrimRight(out.Stdout, "\r\n"),
	}, nil
}

// BuildDir resolves the analyzer build directory: dir itself when absolute,
// otherwise relative to the repository root.
func BuildDir(root, dir string) string {
	if dir == "" {
		dir = DefaultBuildDir
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(root, dir)
}
