package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/andyballingall/clang-checks/internal/fs"
)

const (
	// LogDir is the directory under the user cache directory holding log files.
	LogDir = "clang-checks"
	// LogFile is used in the repository root when there is no cache directory.
	LogFile   = ".clang-checks.log"
	LogEnvVar = "CLANG_CHECKS_LOG_FILE"
)

// setupLogger configures a logger that writes structured logs to a file
// and clean, human-readable logs to the console. Unless LogEnvVar names
// another file, each repository logs to <cacheDir>/clang-checks/<name>.log.
func setupLogger(
	stderr io.Writer, logLevel *slog.LevelVar, root, cacheDir string, env fs.EnvProvider,
) (*slog.Logger, io.Closer, error) {
	// 1. Determine log file path
	logPath := env.Get(LogEnvVar)
	var err error
	if logPath == "" {
		logPath = defaultLogPath(root, cacheDir)
		if cacheDir != "" {
			err = os.MkdirAll(filepath.Dir(logPath), 0o755)
		}
	}

	// 2. Open log file
	var f *os.File
	if err == nil {
		f, err = os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	}
	var logCloser io.Closer
	var fileHandler slog.Handler

	if err == nil {
		logCloser = f
		fileHandler = slog.NewJSONHandler(f, &slog.HandlerOptions{
			Level: slog.LevelDebug, // File always gets full debug info
		})
	}

	// 3. Create console handler
	consoleHandler := &consoleHandler{
		w:     stderr,
		level: logLevel,
	}

	// 4. Combine handlers
	var handlers []slog.Handler
	if fileHandler != nil {
		handlers = append(handlers, fileHandler)
	}
	handlers = append(handlers, consoleHandler)

	multi := &multiHandler{
		handlers: handlers,
	}

	return slog.New(multi), logCloser, err
}

type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

//nolint:gocritic // slog.Record is passed by value in the interface
func (m *multiHandler) Handle(ctx context.Context, record slog.Record) error {
	for _, h := range m.handlers {
		if h.Enabled(ctx, record.Level) {
			if err := h.Handle(ctx, record); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	newHandlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		newHandlers[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: newHandlers}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	newHandlers := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		newHandlers[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: newHandlers}
}

type consoleHandler struct {
	w     io.Writer
	level *slog.LevelVar
	attrs []slog.Attr
}

func (c *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= c.level.Level()
}

//nolint:gocritic // slog.Record is passed by value in the interface
func (c *consoleHandler) Handle(_ context.Context, record slog.Record) error {
	// Clean output for the console
	switch {
	case record.Level >= slog.LevelError:
		fmt.Fprintf(c.w, "Error: %s", record.Message)
	case record.Level >= slog.LevelWarn:
		fmt.Fprintf(c.w, "Warning: %s", record.Message)
	default:
		fmt.Fprint(c.w, record.Message)
	}

	// Show attributes added via WithAttrs
	for _, a := range c.attrs {
		c.formatAttr(a)
	}

	// Show attributes from the record
	record.Attrs(func(a slog.Attr) bool {
		c.formatAttr(a)
		return true
	})

	fmt.Fprintln(c.w)
	return nil
}

// formatAttr prints errors and the file a record is about at every level;
// other attributes only appear when debugging.
func (c *consoleHandler) formatAttr(a slog.Attr) {
	switch {
	case a.Key == "error" || a.Key == "err":
		fmt.Fprintf(c.w, ": %v", a.Value)
	case a.Key == "file":
		fmt.Fprintf(c.w, " [%v]", a.Value)
	case c.level.Level() <= slog.LevelDebug:
		fmt.Fprintf(c.w, " %s=%v", a.Key, a.Value)
	}
}

func (c *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &consoleHandler{
		w:     c.w,
		level: c.level,
		attrs: append(c.attrs, attrs...),
	}
}

func (c *consoleHandler) WithGroup(_ string) slog.Handler {
	// Grouping not deeply supported in this simple console output for now
	return c
}

// defaultLogPath names the log file for the repository at root.
func defaultLogPath(root, cacheDir string) string {
	if cacheDir == "" {
		return filepath.Join(root, LogFile)
	}
	name := "clang-checks"
	if root != "" {
		name = filepath.Base(root)
	}
	return filepath.Join(cacheDir, LogDir, name+".log")
}
