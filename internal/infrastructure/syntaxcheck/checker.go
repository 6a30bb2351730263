// Package syntaxcheck verifies that generated text parses as a shell command
// line. Nothing is ever executed: the shell engine runs "<shell> -n -c" and
// the builtin engine parses in-process.
package syntaxcheck

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"mvdan.cc/sh/v3/syntax"

	"github.com/doeshing/aihelp/internal/domain"
	"github.com/doeshing/aihelp/internal/ports"
)

// New picks the engine. The shell engine degrades to the builtin parser when
// the shell binary cannot be found.
func New(engine, shell string) ports.SyntaxChecker {
	if engine == domain.SyntaxEngineBuiltin {
		return NewBuiltinChecker(shell)
	}
	if _, err := exec.LookPath(shell); err != nil {
		return NewBuiltinChecker(shell)
	}
	return NewShellChecker(shell)
}

// ShellChecker asks the shell's own parser, in no-exec mode.
type ShellChecker struct {
	shell string
}

// NewShellChecker builds a checker around the given shell binary.
func NewShellChecker(shell string) *ShellChecker {
	return &ShellChecker{shell: shell}
}

// Engine implements ports.SyntaxChecker.
func (c *ShellChecker) Engine() string {
	return domain.SyntaxEngineShell + " (" + c.shell + ")"
}

// Check implements ports.SyntaxChecker.
func (c *ShellChecker) Check(ctx context.Context, command string) error {
	cmd := exec.CommandContext(ctx, c.shell, "-n", "-c", command)
	cmd.WaitDelay = time.Second
	var stderr bytes.Buffer
	cmd.Stdout = io.Discard
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return fmt.Errorf("%s -n interrupted: %w", c.shell, ctxErr)
	}
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		diagnostic := strings.TrimSpace(stderr.String())
		if diagnostic == "" {
			diagnostic = fmt.Sprintf("%s -n exited with status %d", c.shell, exitErr.ExitCode())
		}
		return &domain.SyntaxError{Diagnostic: diagnostic}
	}
	return fmt.Errorf("run %s -n: %w", c.shell, err)
}

// BuiltinChecker parses with mvdan.cc/sh in the dialect matching the shell.
type BuiltinChecker struct {
	variant syntax.LangVariant
}

// NewBuiltinChecker builds an in-process checker. Bash-family shells get the
// bash dialect, mksh gets MirBSD Korn, everything else POSIX.
func NewBuiltinChecker(shell string) *BuiltinChecker {
	return &BuiltinChecker{variant: variantFor(shell)}
}

// Engine implements ports.SyntaxChecker.
func (c *BuiltinChecker) Engine() string {
	return domain.SyntaxEngineBuiltin + " (" + c.variant.String() + ")"
}

// Check implements ports.SyntaxChecker.
func (c *BuiltinChecker) Check(ctx context.Context, command string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	parser := syntax.NewParser(syntax.Variant(c.variant))
	if _, err := parser.Parse(strings.NewReader(command), ""); err != nil {
		return &domain.SyntaxError{Diagnostic: err.Error()}
	}
	return nil
}

func variantFor(shell string) syntax.LangVariant {
	switch filepath.Base(shell) {
	case "bash", "zsh":
		return syntax.LangBash
	case "mksh":
		return syntax.LangMirBSDKorn
	default:
		return syntax.LangPOSIX
	}
}

var (
	_ ports.SyntaxChecker = (*ShellChecker)(nil)
	_ ports.SyntaxChecker = (*BuiltinChecker)(nil)
)
