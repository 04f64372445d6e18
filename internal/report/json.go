package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/andyballingall/clang-checks/internal/check"
)

// JSONReporter writes the whole report as a single JSON document at the end.
type JSONReporter struct{}

type jsonFile struct {
	Path    string `json:"path"`
	RelPath string `json:"relPath"`
	Clean   bool   `json:"clean"`
	Output  string `json:"output,omitempty"`
	Fix     string `json:"fix,omitempty"`
}

type jsonOutput struct {
	Tool      string `json:"tool"`
	ToolPath  string `json:"toolPath"`
	Version   string `json:"version"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Duration  string `json:"duration"`
	Clean     bool   `json:"clean"`
	Stats     struct {
		Checked int `json:"checked"`
		Clean   int `json:"clean"`
		Dirty   int `json:"dirty"`
	} `json:"stats"`
	Files []jsonFile `json:"files"`
}

// FileChecked does nothing; results are only written as part of the final document.
func (jr *JSONReporter) FileChecked(io.Writer, check.Result) error {
	return nil
}

func (jr *JSONReporter) Write(w io.Writer, r *check.Report) error {
	out := jsonOutput{
		Tool:      r.Tool.Name,
		ToolPath:  r.Tool.Path,
		Version:   r.Version.String(),
		StartTime: r.StartTime.Format(time.RFC3339),
		EndTime:   r.EndTime.Format(time.RFC3339),
		Duration:  r.EndTime.Sub(r.StartTime).String(),
		Clean:     r.Clean(),
		Files:     make([]jsonFile, 0, len(r.Results)),
	}

	for _, res := range r.Results {
		out.Files = append(out.Files, jsonFile{
			Path:    res.Change.Path,
			RelPath: res.Change.RelPath,
			Clean:   res.Clean,
			Output:  res.Output,
			Fix:     res.Hint,
		})
		if res.Clean {
			out.Stats.Clean++
		} else {
			out.Stats.Dirty++
		}
	}
	out.Stats.Checked = len(r.Results)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
