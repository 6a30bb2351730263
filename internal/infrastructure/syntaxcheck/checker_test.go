package syntaxcheck

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/doeshing/aihelp/internal/domain"
)

var validCommands = []string{
	"/bin/ls /tmp",
	"ls -la | grep go",
	"mkdir -p /tmp/a && cd /tmp/a && touch b",
	"for f in *.txt; do echo \"$f\"; done",
	"echo 'quoted ( paren'",
}

var invalidCommands = []string{
	"echo 'unterminated",
	"if true; then echo x",
	"ls |",
	"echo (",
	"fi",
}

func checkers(t *testing.T) map[string]interface {
	Check(context.Context, string) error
} {
	t.Helper()
	out := map[string]interface {
		Check(context.Context, string) error
	}{
		"builtin": NewBuiltinChecker("bash"),
	}
	if bash, err := exec.LookPath("bash"); err == nil {
		out["shell"] = NewShellChecker(bash)
	} else {
		t.Log("bash not on PATH; shell engine skipped")
	}
	return out
}

func TestCheckAcceptsValidCommands(t *testing.T) {
	for name, checker := range checkers(t) {
		for _, command := range validCommands {
			if err := checker.Check(context.Background(), command); err != nil {
				t.Fatalf("%s: Check(%q) error: %v", name, command, err)
			}
		}
	}
}

func TestCheckRejectsInvalidCommandsWithDiagnostic(t *testing.T) {
	for name, checker := range checkers(t) {
		for _, command := range invalidCommands {
			err := checker.Check(context.Background(), command)
			var syntaxErr *domain.SyntaxError
			if !errors.As(err, &syntaxErr) {
				t.Fatalf("%s: Check(%q) = %v, expected SyntaxError", name, command, err)
			}
			if strings.TrimSpace(syntaxErr.Diagnostic) == "" {
				t.Fatalf("%s: Check(%q) returned empty diagnostic", name, command)
			}
		}
	}
}

func TestCheckDoesNotExecute(t *testing.T) {
	dir := t.TempDir()
	marker := filepath.Join(dir, "marker")

	for name, checker := range checkers(t) {
		command := "touch " + marker + " && mkdir " + filepath.Join(dir, "created")
		if err := checker.Check(context.Background(), command); err != nil {
			t.Fatalf("%s: Check error: %v", name, err)
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 0 {
			t.Fatalf("%s: syntax check modified the filesystem: %v", name, entries)
		}
	}
}

func TestCheckHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for name, checker := range checkers(t) {
		err := checker.Check(ctx, "ls")
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("%s: expected context.Canceled, got %v", name, err)
		}
	}
}

func TestNewFallsBackToBuiltinWithoutShell(t *testing.T) {
	checker := New(domain.SyntaxEngineShell, "/definitely/not/a/shell")
	if _, ok := checker.(*BuiltinChecker); !ok {
		t.Fatalf("expected BuiltinChecker fallback, got %T", checker)
	}
	if !strings.HasPrefix(checker.Engine(), domain.SyntaxEngineBuiltin) {
		t.Fatalf("unexpected engine %q", checker.Engine())
	}
}

func TestNewHonoursBuiltinEngine(t *testing.T) {
	if _, ok := New(domain.SyntaxEngineBuiltin, "bash").(*BuiltinChecker); !ok {
		t.Fatal("expected BuiltinChecker")
	}
}

func TestVariantFor(t *testing.T) {
	tests := map[string]string{
		"/bin/bash": "bash",
		"zsh":       "bash",
		"mksh":      "mksh",
		"/bin/sh":   "posix",
		"dash":      "posix",
	}
	for shell, want := range tests {
		if got := variantFor(shell).String(); got != want {
			t.Fatalf("variantFor(%s) = %s, want %s", shell, got, want)
		}
	}
}
