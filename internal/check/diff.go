package check

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// diffContext is the number of unchanged lines shown around each hunk.
const diffContext = 3

// UnifiedDiff returns a git-style unified diff turning original into formatted,
// with "a/<relPath>" and "b/<relPath>" headers. Only line content is compared:
// line terminators (LF, CRLF, a missing final newline) do not produce changes.
// An empty string means the texts are equivalent.
func UnifiedDiff(original, formatted, relPath string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLines(original),
		B:        splitLines(formatted),
		FromFile: "a/" + relPath,
		ToFile:   "b/" + relPath,
		Context:  diffContext,
	})
}

// splitLines breaks s into lines, each re-terminated with "\n" as difflib expects.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, "\n")
	if raw[len(raw)-1] == "" {
		raw = raw[:len(raw)-1]
	}
	lines := make([]string, len(raw))
	for i, l := range raw {
		lines[i] = strings.TrimSuffix(l, "\r") + "\n"
	}
	return lines
}
