package javamodules

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// ToolError reports a failed external tool invocation, keeping the full
// command line and the tool's diagnostic output for the caller to show.
type ToolError struct {
	Args   []string
	Output string
	Err    error
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%s failed: %v", e.Args[0], e.Err)
	if e.Output != "" {
		msg += "\n" + e.Output
	}
	return msg + "\ncommand: " + strings.Join(e.Args, " ")
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// RunTool runs an external tool and captures its stderr. On failure the
// returned error is a *ToolError carrying the command line and the
// trimmed diagnostic output.
func RunTool(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return &ToolError{
			Args:   append([]string{name}, args...),
			Output: strings.TrimSpace(stderr.String()),
			Err:    err,
		}
	}
	return nil
}
