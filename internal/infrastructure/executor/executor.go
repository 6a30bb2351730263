// Package executor runs validated commands through the host shell.
package executor

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	"github.com/doeshing/aihelp/internal/domain"
	"github.com/doeshing/aihelp/internal/ports"
)

// waitDelay bounds how long output pipes are drained after the shell is
// killed, since background children may keep them open.
const waitDelay = 2 * time.Second

// LocalExecutor runs commands with "<shell> -c".
type LocalExecutor struct {
	shell string
}

// NewLocalExecutor builds an executor. An empty shell means /bin/sh.
func NewLocalExecutor(shell string) *LocalExecutor {
	if shell == "" {
		shell = fallbackShell
	}
	return &LocalExecutor{shell: shell}
}

// Execute implements ports.CommandExecutor. A non-zero exit is returned as
// *domain.ExecutionError alongside the captured outcome. Context expiry is
// returned as the wrapped context error so callers can tell it apart.
func (e *LocalExecutor) Execute(ctx context.Context, command string) (domain.ExecutionOutcome, error) {
	c := exec.CommandContext(ctx, e.shell, "-c", command)
	c.WaitDelay = waitDelay
	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	start := time.Now()
	err := c.Run()

	outcome := domain.ExecutionOutcome{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		outcome.ExitCode = -1
		return outcome, fmt.Errorf("run command: %w", ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		outcome.ExitCode = exitErr.ExitCode()
		return outcome, &domain.ExecutionError{ExitCode: outcome.ExitCode, Stderr: outcome.Stderr, Err: err}
	}
	if err != nil {
		outcome.ExitCode = -1
		return outcome, &domain.ExecutionError{ExitCode: -1, Stderr: outcome.Stderr, Err: err}
	}
	return outcome, nil
}

var _ ports.CommandExecutor = (*LocalExecutor)(nil)
