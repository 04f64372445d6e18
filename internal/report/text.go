package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/andyballingall/clang-checks/internal/check"
)

// TextReporter prints a notice for every dirty file as it is found, and a
// short summary at the end.
type TextReporter struct {
	Options
}

// cs returns s rendered with attrs if colourisation is enabled.
func (tr *TextReporter) cs(s string, attrs ...color.Attribute) string {
	c := color.New(attrs...)
	if tr.UseColour {
		c.EnableColor()
	} else {
		c.DisableColor()
	}
	return c.Sprint(s)
}

func (tr *TextReporter) FileChecked(w io.Writer, res check.Result) error {
	if res.Clean {
		return nil
	}

	fmt.Fprintf(w, "%s %s\n", tr.cs(tr.Notice.Found, color.FgYellow), res.Change.Path)
	if res.Hint != "" {
		fmt.Fprintf(w, "To fix, run \"%s\"\n", res.Hint)
	}

	if !tr.ShowOutput || res.Output == "" {
		return nil
	}
	if tr.Notice.OutputHeader != "" {
		fmt.Fprintln(w, tr.Notice.OutputHeader)
	}
	if !tr.Notice.Diff {
		fmt.Fprintln(w, res.Output)
		return nil
	}
	for _, line := range strings.Split(strings.TrimSuffix(res.Output, "\n"), "\n") {
		fmt.Fprintln(w, tr.diffLine(strings.TrimSpace(line)))
	}
	fmt.Fprintln(w)
	return nil
}

func (tr *TextReporter) diffLine(line string) string {
	switch {
	case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
		return tr.cs(line, color.Bold)
	case strings.HasPrefix(line, "@@"):
		return tr.cs(line, color.FgCyan)
	case strings.HasPrefix(line, "+"):
		return tr.cs(line, color.FgGreen)
	case strings.HasPrefix(line, "-"):
		return tr.cs(line, color.FgRed)
	default:
		return line
	}
}

// Write prints the summary. Nothing is printed when no file was checked.
func (tr *TextReporter) Write(w io.Writer, r *check.Report) error {
	if len(r.Results) == 0 {
		return nil
	}

	if tr.Verbose {
		tbl := table.NewWriter()
		tbl.SetOutputMirror(w)
		tbl.AppendHeader(table.Row{"File", "Result"})
		for _, res := range r.Results {
			result := tr.cs("clean", color.FgGreen)
			if !res.Clean {
				result = tr.cs("dirty", color.FgRed)
			}
			tbl.AppendRow(table.Row{res.Change.RelPath, result})
		}
		tbl.Render()
	}

	dirty := len(r.Dirty())
	stats := fmt.Sprintf("%d checked, %d clean, %d dirty", len(r.Results), len(r.Results)-dirty, dirty)
	statsColour := color.FgGreen
	if dirty > 0 {
		statsColour = color.FgRed
	}
	fmt.Fprintf(w, "%s %s (%s)\n",
		tr.cs(r.Tool.Name+" summary:", color.Bold),
		tr.cs(stats, statsColour),
		r.EndTime.Sub(r.StartTime).Round(time.Millisecond))
	return nil
}
