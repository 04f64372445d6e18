package report

import (
	"io"
	"os"

	"golang.org/x/term"

	"github.com/andyballingall/clang-checks/internal/fs"
)

// UseColour decides whether output written to w should be coloured. Colour is
// used only for terminals, and never when disabled or when NO_COLOR is set.
func UseColour(w io.Writer, env fs.EnvProvider, disabled bool) bool {
	if disabled {
		return false
	}
	if env != nil && env.Get("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
