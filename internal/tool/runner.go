package tool

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
)

// Output is the captured result of a finished subprocess.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner executes external commands to completion.
type Runner interface {
	// Run invokes name with args (no shell) and waits for it to exit. A non-zero
	// exit status is reported in Output.ExitCode, not as an error; the error is
	// reserved for commands which could not be run at all.
	Run(ctx context.Context, name string, args ...string) (*Output, error)
}

// ExecRunner is the Runner backed by os/exec.
type ExecRunner struct {
	// Dir is the working directory of each command. Empty means the current directory.
	Dir string
}

// NewExecRunner creates an ExecRunner running commands in dir.
func NewExecRunner(dir string) *ExecRunner {
	return &ExecRunner{Dir: dir}
}

func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (*Output, error) {
	var stdout, stderr bytes.Buffer

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = r.Dir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}

	out := &Output{Stdout: stdout.String(), Stderr: stderr.String()}
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, &InvocationError{Path: name, Args: args, Err: err}
		}
		out.ExitCode = exitErr.ExitCode()
	}
	return out, nil
}
