package app

import (
	"github.com/andyballingall/clang-checks/internal/report"
	"github.com/andyballingall/clang-checks/internal/tool"
)

// Program describes one of the checker commands.
type Program struct {
	// Name is the command name, e.g. "clang-format-check".
	Name string
	// Tool is the external binary the command wraps.
	Tool string
	// PathFlag is the long name of the flag overriding the tool path.
	PathFlag string
	Short    string
	Long     string
	// VersionRule locates the version in the tool's --version output.
	VersionRule tool.VersionRule
	Notice      report.Notice

	analyzer bool
}

var FormatProgram = Program{
	Name:     "clang-format-check",
	Tool:     "clang-format",
	PathFlag: "clang-format-path",
	Short:    "Check changed C/C++ files against clang-format",
	Long: `clang-format-check runs clang-format on every C/C++ source and header file
changed since the merge-base with the base branch (develop by default) and
prints a unified diff for each file whose formatting differs. Files are never
modified. The exit status is 1 if any file needs reformatting.`,
	// clang-format version 3.8.0 (tags/RELEASE_380/final)
	VersionRule: tool.VersionRule{Line: 0, Field: 2},
	Notice:      report.FormatNotice,
}

var TidyProgram = Program{
	Name:     "clang-tidy-check",
	Tool:     "clang-tidy",
	PathFlag: "clang-tidy-path",
	Short:    "Lint changed C/C++ source files with clang-tidy",
	Long: `clang-tidy-check runs clang-tidy on every C/C++ source file changed since the
merge-base with the base branch (develop by default). Headers are linted through
the sources which include them. Any diagnostic output fails the file, and the
exit status is 1 if any file fails.`,
	// LLVM (http://llvm.org/):
	//   LLVM version 3.8.0
	VersionRule: tool.VersionRule{Line: 1, Field: 2},
	Notice:      report.TidyNotice,
	analyzer:    true,
}
