package app

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/andyballingall/clang-checks/internal/check"
	"github.com/andyballingall/clang-checks/internal/config"
	"github.com/andyballingall/clang-checks/internal/repo"
	"github.com/andyballingall/clang-checks/internal/report"
	"github.com/andyballingall/clang-checks/internal/tool"
	"github.com/andyballingall/clang-checks/internal/watch"
)

// CheckOptions are the per-invocation settings of a check.
type CheckOptions struct {
	// ToolPath overrides binary discovery when set.
	ToolPath string
	// Files are checked instead of the changed set when given.
	Files      []string
	Format     report.Format
	ShowOutput bool
	Verbose    bool
	UseColour  bool
}

// Manager defines the business logic shared by the checker commands.
type Manager interface {
	// Check runs the tool over every changed file once.
	Check(ctx context.Context, opts CheckOptions) error
	// Watch re-checks files as they are saved until ctx is cancelled. If
	// readyChan is non-nil it is signalled once the watcher is running.
	Watch(ctx context.Context, opts CheckOptions, readyChan chan<- struct{}) error
}

// Ensure the interface is satisfied.
var _ Manager = (*LazyManager)(nil)

// LazyManager acts as a placeholder for a real Manager implementation, allowing
// for deferred initialization of dependencies.
type LazyManager struct {
	inner Manager
}

func (l *LazyManager) SetInner(m Manager) {
	l.inner = m
}

// HasInner returns true if the inner manager has been set.
// This is used by PersistentPreRunE to skip initialization if already configured (e.g., in tests).
func (l *LazyManager) HasInner() bool {
	return l.inner != nil
}

func (l *LazyManager) check() Manager {
	if l.inner == nil {
		panic("LazyManager accessed before initialization; check command wiring.")
	}
	return l.inner
}

func (l *LazyManager) Check(ctx context.Context, opts CheckOptions) error {
	return l.check().Check(ctx, opts)
}

func (l *LazyManager) Watch(ctx context.Context, opts CheckOptions, readyChan chan<- struct{}) error {
	return l.check().Watch(ctx, opts, readyChan)
}

// BinaryFinder locates the external tool.
type BinaryFinder interface {
	Find(explicit, name string, fallbacks ...string) (tool.Binary, error)
}

// Ensure the interface is satisfied.
var _ Manager = (*CLIManager)(nil)

// CLIManager is the concrete implementation of the Manager interface.
type CLIManager struct {
	logger         *slog.Logger
	program        Program
	cfg            *config.Config
	finder         BinaryFinder
	runner         tool.Runner
	gitter         repo.Gitter
	root           string
	// workDir is where relative file arguments are resolved; empty means the current directory.
	workDir        string
	reporterWriter io.Writer
}

func NewCLIManager(
	l *slog.Logger,
	p Program,
	cfg *config.Config,
	f BinaryFinder,
	r tool.Runner,
	g repo.Gitter,
	root string,
	workDir string,
	w io.Writer,
) *CLIManager {
	return &CLIManager{
		logger:         l,
		program:        p,
		cfg:            cfg,
		finder:         f,
		runner:         r,
		gitter:         g,
		root:           root,
		workDir:        workDir,
		reporterWriter: w,
	}
}

// Check locates the tool, verifies its version, works out which files to
// check and checks them in order. Dirty files yield a *DirtyFilesError.
func (m *CLIManager) Check(ctx context.Context, opts CheckOptions) error {
	bin, version, err := m.prepare(ctx, opts)
	if err != nil {
		return err
	}

	changes, err := m.changes(ctx, opts.Files)
	if err != nil {
		return err
	}

	reporter, err := report.New(opts.Format, m.reportOptions(opts))
	if err != nil {
		return err
	}
	rep := check.NewReport(bin, version)

	if len(changes) == 0 {
		m.logger.Info("No changed files, exiting")
		rep.Finish()
		return reporter.Write(m.reporterWriter, rep)
	}

	checker := m.newChecker(bin)
	for _, c := range changes {
		m.logger.Debug("checking file", "file", c.RelPath)
		res, cErr := checker.Check(ctx, c)
		if cErr != nil {
			return cErr
		}
		rep.Add(res)
		if rErr := reporter.FileChecked(m.reporterWriter, res); rErr != nil {
			return rErr
		}
	}
	rep.Finish()

	if err = reporter.Write(m.reporterWriter, rep); err != nil {
		return err
	}

	if dirty := rep.Dirty(); len(dirty) > 0 {
		return &DirtyFilesError{Tool: bin.Name, Dirty: len(dirty), Total: len(rep.Results)}
	}
	return nil
}

// Watch checks each matching file as it is saved. Failures are reported and
// the watch carries on; it ends cleanly when ctx is cancelled.
func (m *CLIManager) Watch(ctx context.Context, opts CheckOptions, readyChan chan<- struct{}) error {
	bin, version, err := m.prepare(ctx, opts)
	if err != nil {
		return err
	}

	reporter, err := report.New(opts.Format, m.reportOptions(opts))
	if err != nil {
		return err
	}

	checker := m.newChecker(bin)
	handle := func(wctx context.Context, c repo.Change) error {
		res, cErr := checker.Check(wctx, c)
		if cErr != nil {
			if wctx.Err() != nil {
				return wctx.Err()
			}
			m.logger.Error("Check failed", "file", c.RelPath, "error", cErr)
			return nil
		}
		if res.Clean {
			m.logger.Info("File is clean", "file", c.RelPath)
		}

		rep := check.NewReport(bin, version)
		rep.Add(res)
		rep.Finish()
		if rErr := reporter.FileChecked(m.reporterWriter, res); rErr != nil {
			return rErr
		}
		if opts.Format == report.FormatJSON {
			return reporter.Write(m.reporterWriter, rep)
		}
		return nil
	}

	skip := []string{check.BuildDir(m.root, m.cfg.Tidy.BuildDir)}
	w := watch.New(m.root, m.filter(), skip, m.logger)

	// Forward watcher Ready signal if caller wants notification
	if readyChan != nil {
		go func() {
			select {
			case <-w.Ready:
				readyChan <- struct{}{}
			case <-ctx.Done():
			}
		}()
	}

	err = w.Watch(ctx, handle)
	if errors.Is(err, context.Canceled) {
		m.logger.Info("Interrupted by user")
		return nil
	}
	return err
}

// prepare resolves the tool binary and checks its version.
func (m *CLIManager) prepare(ctx context.Context, opts CheckOptions) (tool.Binary, tool.Version, error) {
	bin, err := m.finder.Find(opts.ToolPath, m.program.Tool, m.fallbackNames()...)
	if err != nil {
		return tool.Binary{}, tool.Version{}, err
	}

	version, err := tool.CheckVersion(ctx, m.runner, bin, m.program.VersionRule, m.minVersion())
	if err != nil {
		return tool.Binary{}, tool.Version{}, err
	}
	m.logger.Debug("using tool", "path", bin.Path, "version", version)
	return bin, version, nil
}

// changes returns the files to check: the explicit files if any were given,
// otherwise everything changed since the merge-base with the base branch.
func (m *CLIManager) changes(ctx context.Context, files []string) ([]repo.Change, error) {
	if len(files) > 0 {
		return repo.ExplicitFiles(m.root, m.workDir, files, m.filter())
	}
	return repo.ChangedFiles(ctx, m.gitter, m.cfg.BaseBranch, m.filter())
}

func (m *CLIManager) newChecker(bin tool.Binary) check.Checker {
	if !m.program.analyzer {
		return check.NewFormatter(bin, m.runner, m.cfg.Format.Style)
	}
	a := check.NewAnalyzer(bin, m.runner, check.BuildDir(m.root, m.cfg.Tidy.BuildDir), m.cfg.Tidy.ExtraArgs, m.logger)
	a.LoadCompileDatabase()
	return a
}

func (m *CLIManager) filter() repo.Filter {
	f := repo.Filter{Include: m.cfg.Format.FilterRegexp(), Exclude: m.cfg.Exclude}
	if m.program.analyzer {
		f.Include = m.cfg.Tidy.FilterRegexp()
	}
	return f
}

func (m *CLIManager) minVersion() tool.Version {
	if m.program.analyzer {
		return m.cfg.Tidy.MinVersionRequired()
	}
	return m.cfg.Format.MinVersionRequired()
}

func (m *CLIManager) fallbackNames() []string {
	names := m.cfg.Format.FallbackNames
	if m.program.analyzer {
		names = m.cfg.Tidy.FallbackNames
	}
	if len(names) == 0 {
		return tool.VersionedNames(m.program.Tool)
	}
	return names
}

func (m *CLIManager) reportOptions(opts CheckOptions) report.Options {
	return report.Options{
		Notice:     m.program.Notice,
		ShowOutput: opts.ShowOutput,
		Verbose:    opts.Verbose,
		UseColour:  opts.UseColour,
	}
}
