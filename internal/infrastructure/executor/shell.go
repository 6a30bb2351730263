package executor

import (
	"os/exec"
	"path/filepath"
)

const fallbackShell = "/bin/sh"

// ResolveShell looks the configured shell up on PATH and falls back to
// /bin/sh. The same binary is used for the syntax check and for execution.
func ResolveShell(name string) string {
	if name == "" {
		return fallbackShell
	}
	if filepath.IsAbs(name) {
		return name
	}
	if resolved, err := exec.LookPath(name); err == nil {
		return resolved
	}
	return fallbackShell
}
