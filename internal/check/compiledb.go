package check

import (
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"

	"github.com/andyballingall/clang-checks/internal/fs"
)

// CompileDatabaseFile is the file clang tools read compile commands from.
const CompileDatabaseFile = "compile_commands.json"

// CompileDatabase is the set of source files named in a compile_commands.json.
// Entries are indexed by their cleaned path and, where it resolves, their
// symlink-free path.
type CompileDatabase struct {
	files   map[string]bool
	entries int
}

// LoadCompileDatabase reads buildDir/compile_commands.json.
func LoadCompileDatabase(buildDir string) (*CompileDatabase, error) {
	path := filepath.Join(buildDir, CompileDatabaseFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !gjson.ValidBytes(data) || !gjson.ParseBytes(data).IsArray() {
		return nil, &InvalidCompileDatabaseError{Path: path}
	}

	db := &CompileDatabase{files: make(map[string]bool)}
	seen := make(map[string]bool)
	gjson.ParseBytes(data).ForEach(func(_, entry gjson.Result) bool {
		file := entry.Get("file").String()
		if file == "" {
			return true
		}
		if !filepath.IsAbs(file) {
			file = filepath.Join(entry.Get("directory").String(), file)
		}
		file = filepath.Clean(file)
		if seen[file] {
			return true
		}
		seen[file] = true
		db.entries++
		db.files[file] = true
		if canonical, cErr := fs.CanonicalPath(file); cErr == nil {
			db.files[canonical] = true
		}
		return true
	})
	return db, nil
}

// Len returns the number of distinct files in the database.
func (db *CompileDatabase) Len() int {
	return db.entries
}

// Has reports whether path has a compile command, comparing both the plain
// and the symlink-resolved form.
func (db *CompileDatabase) Has(path string) bool {
	if db.files[filepath.Clean(path)] {
		return true
	}
	canonical, err := fs.CanonicalPath(path)
	return err == nil && db.files[canonical]
}
