// Package latex invokes the external typesetting toolchain.
package latex

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"time"
)

// ToolError reports a tool invocation that exited non-zero.
type ToolError struct {
	Tool     string
	ExitCode int
	Output   []byte // combined stdout+stderr, tail only
}

func (e *ToolError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Tool, e.ExitCode)
}

// outputTail limits how much tool output a ToolError carries. LaTeX logs the
// full page layout on stdout; only the end is useful in a failure record.
const outputTail = 4096

// Runner executes the typesetting and bibliography tools. Every invocation
// runs with the subprocess working directory set explicitly, so the
// orchestrator process never changes its own directory and the override
// cannot leak past the call.
type Runner struct {
	LatexCmd  string
	BibtexCmd string

	// Timeout bounds a single tool invocation. Zero means unbounded.
	Timeout time.Duration

	Log *slog.Logger
}

func NewRunner(latexCmd, bibtexCmd string, timeout time.Duration, log *slog.Logger) *Runner {
	return &Runner{
		LatexCmd:  latexCmd,
		BibtexCmd: bibtexCmd,
		Timeout:   timeout,
		Log:       log,
	}
}

// Pass runs one non-interactive, synctex-enabled typesetting pass over
// filename inside dir.
func (r *Runner) Pass(ctx context.Context, dir, filename string) error {
	return r.run(ctx, dir, r.LatexCmd, "-synctex=1", "-interaction=nonstopmode", filename)
}

// Bibliography runs the bibliography processor on the document stem inside
// dir. Callers treat a failure here as advisory: bibtex legitimately exits
// non-zero on documents with no citations.
func (r *Runner) Bibliography(ctx context.Context, dir, stem string) error {
	return r.run(ctx, dir, r.BibtexCmd, stem)
}

func (r *Runner) run(ctx context.Context, dir, tool string, args ...string) error {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, tool, args...)
	cmd.Dir = dir

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	start := time.Now()
	err := cmd.Run()
	if r.Log != nil {
		r.Log.Debug("tool finished",
			"tool", tool,
			"dir", dir,
			"duration_ms", time.Since(start).Milliseconds(),
			"ok", err == nil,
		)
	}
	if err == nil {
		return nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s in %s: %w", tool, dir, ctxErr)
	}
	if exitErr, ok := err.(*exec.ExitError); ok {
		return &ToolError{
			Tool:     tool,
			ExitCode: exitErr.ExitCode(),
			Output:   tail(out.Bytes(), outputTail),
		}
	}
	// Tool missing or not executable.
	return fmt.Errorf("run %s: %w", tool, err)
}

func tail(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[len(b)-n:]
}
