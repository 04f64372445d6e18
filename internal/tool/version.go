package tool

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/mod/semver"
)

// Version is a dotted numeric tool version (major, minor, patch).
type Version [3]uint64

var versionPrefix = regexp.MustCompile(`^v?(\d+)(?:\.(\d+))?(?:\.(\d+))?`)

// ParseVersion reads a leading dotted version from s. Missing minor or patch
// components default to zero and any suffix (e.g. "-1ubuntu1") is ignored.
func ParseVersion(s string) (Version, error) {
	s = strings.TrimSpace(s)
	m := versionPrefix.FindStringSubmatch(s)
	if m == nil {
		return Version{}, &VersionParseError{Text: s, Reason: "no leading dotted version number"}
	}

	var v Version
	for i, part := range m[1:] {
		if part == "" {
			continue
		}
		n, err := strconv.ParseUint(part, 10, 64)
		if err != nil {
			return Version{}, &VersionParseError{Text: s, Reason: err.Error()}
		}
		v[i] = n
	}
	return v, nil
}

// MustParseVersion is like ParseVersion but panics on error. For constants only.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Major returns the major version.
func (v Version) Major() uint64 {
	return v[0]
}

// Minor returns the minor version.
func (v Version) Minor() uint64 {
	return v[1]
}

// Patch returns the patch version.
func (v Version) Patch() uint64 {
	return v[2]
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v[0], v[1], v[2])
}

// Compare returns -1, 0 or +1 as v is older than, equal to, or newer than o.
func (v Version) Compare(o Version) int {
	return semver.Compare("v"+v.String(), "v"+o.String())
}

// Less reports whether v is strictly older than o.
func (v Version) Less(o Version) bool {
	return v.Compare(o) < 0
}

// VersionRule says where a tool prints its version in its --version output.
// On the given line, the token after the word "version" is used; lines without
// that word fall back to the whitespace-separated field at index Field. When
// neither yields a version, every line is searched for "version <x.y.z>", as
// newer LLVM releases print the version on the first line.
type VersionRule struct {
	Line  int
	Field int
}

// Extract finds and parses the version in output.
func (r VersionRule) Extract(output string) (Version, error) {
	lines := strings.Split(strings.ReplaceAll(output, "\r\n", "\n"), "\n")
	v, err := r.fromLine(lines)
	if err == nil {
		return v, nil
	}
	if r.Line < len(lines) && versionToken(lines[r.Line]) != "" {
		return Version{}, err
	}
	for _, line := range lines {
		if token := versionToken(line); token != "" {
			if v, pErr := ParseVersion(token); pErr == nil {
				return v, nil
			}
		}
	}
	return Version{}, err
}

func (r VersionRule) fromLine(lines []string) (Version, error) {
	if r.Line >= len(lines) || strings.TrimSpace(lines[r.Line]) == "" {
		return Version{}, &VersionParseError{
			Text:   strings.TrimSpace(strings.Join(lines, "\n")),
			Reason: fmt.Sprintf("expected version on line %d", r.Line+1),
		}
	}

	token := versionToken(lines[r.Line])
	if token == "" {
		fields := strings.Fields(lines[r.Line])
		if r.Field >= len(fields) {
			return Version{}, &VersionParseError{
				Text:   lines[r.Line],
				Reason: fmt.Sprintf("expected version in field %d", r.Field+1),
			}
		}
		token = fields[r.Field]
	}
	return ParseVersion(token)
}

// versionToken returns the token following the word "version" in line, if any.
func versionToken(line string) string {
	fields := strings.Fields(line)
	for i, f := range fields {
		if strings.EqualFold(f, "version") && i+1 < len(fields) {
			return fields[i+1]
		}
	}
	return ""
}

// CheckVersion runs "<bin> --version", extracts the version with rule and
// fails with a *VersionTooOldError if it is older than minimum.
func CheckVersion(ctx context.Context, r Runner, bin Binary, rule VersionRule, minimum Version) (Version, error) {
	out, err := r.Run(ctx, bin.Path, "--version")
	if err != nil {
		return Version{}, err
	}

	v, err := rule.Extract(out.Stdout)
	if err != nil {
		return Version{}, fmt.Errorf("%s --version: %w", bin.Name, err)
	}

	if v.Less(minimum) {
		return v, &VersionTooOldError{Name: bin.Name, Got: v, Want: minimum}
	}
	return v, nil
}
