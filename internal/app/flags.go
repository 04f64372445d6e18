package app

import (
	"fmt"

	"github.com/andyballingall/clang-checks/internal/repo"
	"github.com/andyballingall/clang-checks/internal/report"
)

// formatValue implements pflag.Value to provide a custom type name in help text
// and validation for output formats.
type formatValue report.Format

func (f *formatValue) String() string {
	return string(*f)
}

func (f *formatValue) Set(v string) error {
	if v != string(report.FormatJSON) && v != string(report.FormatText) {
		return fmt.Errorf("must be 'text' or 'json'")
	}
	*f = formatValue(v)
	return nil
}

func (f *formatValue) Type() string {
	return "<format>"
}

// vcsValue selects the version control backend.
type vcsValue repo.Backend

func (v *vcsValue) String() string {
	return string(*v)
}

func (v *vcsValue) Set(s string) error {
	if s != string(repo.BackendCLI) && s != string(repo.BackendGoGit) {
		return fmt.Errorf("must be '%s' or '%s'", repo.BackendCLI, repo.BackendGoGit)
	}
	*v = vcsValue(s)
	return nil
}

func (v *vcsValue) Type() string {
	return "<backend>"
}

// pathValue implements pflag.Value to provide a custom type name in help text.
type pathValue string

func (p *pathValue) String() string {
	return string(*p)
}

func (p *pathValue) Set(v string) error {
	*p = pathValue(v)
	return nil
}

func (p *pathValue) Type() string {
	return "<path>"
}
