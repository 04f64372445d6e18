// Package tool locates, versions and runs the external clang tools.
package tool

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
)

// Binary identifies a resolved external executable.
type Binary struct {
	Name string // Program name, e.g. "clang-format"
	Path string // Path used to invoke it
}

func (b Binary) String() string {
	return b.Path
}

// Finder resolves program names to executables.
type Finder struct {
	// dir is the base for relative explicit paths; empty means the current directory.
	dir      string
	lookPath func(file string) (string, error)
	stat     func(name string) (os.FileInfo, error)
}

// NewFinder creates a Finder which searches the process PATH and resolves
// relative explicit paths against dir.
func NewFinder(dir string) *Finder {
	return &Finder{dir: dir, lookPath: exec.LookPath, stat: os.Stat}
}

// Find returns the binary to use for name. An explicit path always wins and must
// be executable; otherwise name and then each fallback is looked up on PATH.
func (f *Finder) Find(explicit, name string, fallbacks ...string) (Binary, error) {
	if explicit != "" {
		path := explicit
		if f.dir != "" && !filepath.IsAbs(path) {
			path = filepath.Join(f.dir, path)
		}
		if !f.isExecutable(path) {
			return Binary{}, &BinaryNotFoundError{Name: name, Tried: []string{explicit}, Explicit: true}
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return Binary{}, err
		}
		return Binary{Name: name, Path: abs}, nil
	}

	candidates := append([]string{name}, fallbacks...)
	for _, c := range candidates {
		if p, err := f.lookPath(c); err == nil {
			return Binary{Name: name, Path: p}, nil
		}
	}
	return Binary{}, &BinaryNotFoundError{Name: name, Tried: candidates}
}

func (f *Finder) isExecutable(path string) bool {
	info, err := f.stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}

// VersionedNames returns the names distributions commonly install versioned
// LLVM tools under, newest first (clang-format-21 ... clang-format-3.8).
func VersionedNames(name string) []string {
	var names []string
	for major := 21; major >= 7; major-- {
		names = append(names, fmt.Sprintf("%s-%d", name, major))
	}
	for _, v := range []string{"6.0", "5.0", "4.0", "3.9", "3.8"} {
		names = append(names, fmt.Sprintf("%s-%s", name, v))
	}
	return names
}
