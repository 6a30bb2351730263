// Package commandlog keeps the append-only record of commands that were about
// to run. Entries are written before execution, never rewritten or rotated.
package commandlog

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/doeshing/aihelp/internal/domain"
	"github.com/doeshing/aihelp/internal/pkg/filesystem"
	"github.com/doeshing/aihelp/internal/ports"
)

// DefaultPath is the log location when settings do not override it.
const DefaultPath = "~/.aihelp_command_log"

// FileLogger implements ports.ExecutionLogger on a plain text file.
type FileLogger struct {
	path string
	now  func() time.Time
	// initErr is the failure of the last Init. Log stays quiet while it is
	// set so one broken path yields one warning per run.
	initErr error
}

// NewFileLogger creates a logger for path; "~" is expanded.
func NewFileLogger(path string) *FileLogger {
	if path == "" {
		path = DefaultPath
	}
	return &FileLogger{path: filesystem.ExpandPath(path), now: time.Now}
}

// Path implements ports.ExecutionLogger.
func (l *FileLogger) Path() string {
	return l.path
}

// Init creates the log with its header line when it does not exist yet.
func (l *FileLogger) Init(enabled bool) error {
	if !enabled {
		return nil
	}
	l.initErr = l.create()
	return l.initErr
}

func (l *FileLogger) create() error {
	if err := os.MkdirAll(filepath.Dir(l.path), domain.DirectoryPermissions); err != nil {
		return &domain.LogIOError{Path: l.path, Err: err}
	}

	file, err := os.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, domain.LogFilePermissions)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return &domain.LogIOError{Path: l.path, Err: err}
	}
	defer file.Close()

	if _, err := fmt.Fprintln(file, domain.LogHeader); err != nil {
		return &domain.LogIOError{Path: l.path, Err: err}
	}
	return nil
}

// Log appends one timestamped entry. It is a no-op after a failed Init,
// which has already been reported.
func (l *FileLogger) Log(command string, enabled bool) error {
	if !enabled || l.initErr != nil {
		return nil
	}
	entry := domain.LogEntry{Timestamp: l.now(), Command: command}

	file, err := os.OpenFile(l.path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, domain.LogFilePermissions)
	if err != nil {
		return &domain.LogIOError{Path: l.path, Err: err}
	}
	defer file.Close()

	if err := lockFile(file); err != nil {
		return &domain.LogIOError{Path: l.path, Err: fmt.Errorf("lock: %w", err)}
	}
	defer unlockFile(file)

	if _, err := fmt.Fprintln(file, entry.Line()); err != nil {
		return &domain.LogIOError{Path: l.path, Err: err}
	}
	return nil
}

var _ ports.ExecutionLogger = (*FileLogger)(nil)
