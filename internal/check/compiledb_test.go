package check

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCompileDatabase(t *testing.T, buildDir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(buildDir, CompileDatabaseFile), []byte(content), 0o600))
}

func TestLoadCompileDatabase(t *testing.T) {
	t.Parallel()

	t.Run("relative and absolute entries", func(t *testing.T) {
		t.Parallel()
		buildDir := t.TempDir()
		writeCompileDatabase(t, buildDir, `[
			{"directory": "/repo/build", "file": "../src/a.cpp", "arguments": ["c++", "-c", "../src/a.cpp"]},
			{"directory": "/repo/build", "file": "/repo/src/b.cpp", "command": "c++ -c /repo/src/b.cpp"},
			{"directory": "/repo/build", "file": "/repo/src/b.cpp", "command": "c++ -DX -c /repo/src/b.cpp"},
			{"directory": "/repo/build"}
		]`)

		db, err := LoadCompileDatabase(buildDir)
		require.NoError(t, err)
		assert.Equal(t, 2, db.Len())
		assert.True(t, db.Has("/repo/src/a.cpp"))
		assert.True(t, db.Has("/repo/src/b.cpp"))
		assert.False(t, db.Has("/repo/src/c.cpp"))
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := LoadCompileDatabase(t.TempDir())
		require.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("not json", func(t *testing.T) {
		t.Parallel()
		buildDir := t.TempDir()
		writeCompileDatabase(t, buildDir, `[{"file": `)

		_, err := LoadCompileDatabase(buildDir)
		var invalid *InvalidCompileDatabaseError
		require.ErrorAs(t, err, &invalid)
	})

	t.Run("not an array", func(t *testing.T) {
		t.Parallel()
		buildDir := t.TempDir()
		writeCompileDatabase(t, buildDir, `{"file": "a.cpp"}`)

		_, err := LoadCompileDatabase(buildDir)
		var invalid *InvalidCompileDatabaseError
		require.ErrorAs(t, err, &invalid)
	})
}

func TestCompileDatabase_HasResolvesSymlinks(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "target")
	require.NoError(t, os.Mkdir(target, 0o755))
	src := filepath.Join(target, "a.cpp")
	require.NoError(t, os.WriteFile(src, []byte("int a;\n"), 0o600))
	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink(target, link))

	buildDir := t.TempDir()
	writeCompileDatabase(t, buildDir, `[{"directory": "`+link+`", "file": "a.cpp"}]`)

	db, err := LoadCompileDatabase(buildDir)
	require.NoError(t, err)

	canonical, err := filepath.EvalSymlinks(src)
	require.NoError(t, err)
	assert.True(t, db.Has(canonical))
}

func TestCompileDatabase_EntriesResolvedAtLoad(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	target := filepath.Join(dir, "target")
	require.NoError(t, os.Mkdir(target, 0o755))
	src := filepath.Join(target, "a.cpp")
	require.NoError(t, os.WriteFile(src, []byte("int a;\n"), 0o600))
	link := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink(target, link))

	buildDir := t.TempDir()
	writeCompileDatabase(t, buildDir, `[
		{"directory": "`+link+`", "file": "a.cpp"},
		{"directory": "`+target+`", "file": "a.cpp"}
	]`)

	db, err := LoadCompileDatabase(buildDir)
	require.NoError(t, err)
	assert.Equal(t, 2, db.Len())

	canonical, err := filepath.EvalSymlinks(src)
	require.NoError(t, err)

	// Lookups no longer touch the database entries on disk.
	require.NoError(t, os.Remove(link))
	assert.True(t, db.Has(canonical))
	assert.True(t, db.Has(filepath.Join(link, "a.cpp")))
}
