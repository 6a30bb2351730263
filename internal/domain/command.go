package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// CommandRequest captures one invocation's intent. It is built once and never mutated.
type CommandRequest struct {
	Prompt         string
	Model          string
	LoggingEnabled bool
}

// GeneratedCommand is the completion client's answer to a CommandRequest.
type GeneratedCommand struct {
	Text    string
	Request CommandRequest
}

// IsEmpty reports whether the model returned nothing usable.
func (g GeneratedCommand) IsEmpty() bool {
	return strings.TrimSpace(g.Text) == ""
}

// IsSentinel reports whether the model asked for more information.
func (g GeneratedCommand) IsSentinel() bool {
	return strings.TrimSpace(g.Text) == InsufficientInformationSentinel
}

// ExecutionOutcome wraps details from the command executor.
type ExecutionOutcome struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Display returns stdout with trailing whitespace removed.
func (o ExecutionOutcome) Display() string {
	return strings.TrimRightFunc(o.Stdout, unicode.IsSpace)
}

// LogEntry is a single line of the command log.
type LogEntry struct {
	Timestamp time.Time
	Command   string
}

// Line renders the entry without a trailing newline.
func (e LogEntry) Line() string {
	return fmt.Sprintf("%s: %s", e.Timestamp.Format(LogTimestampFormat), e.Command)
}

// PathActionKind describes what the filesystem preparer did with a path.
type PathActionKind string

const (
	PathCreated     PathActionKind = "created"
	PathUnreachable PathActionKind = "unreachable"
	PathFailed      PathActionKind = "failed"
)

// PathAction records one decision taken for a missing path, in scan order.
type PathAction struct {
	Kind   PathActionKind
	Path   string
	Parent string
	Err    error
}

// PrepareReport lists the actions taken for missing absolute paths.
type PrepareReport struct {
	Actions []PathAction
}

// Created returns the paths that were created.
func (r PrepareReport) Created() []string {
	return r.paths(PathCreated)
}

// Unreachable returns the paths whose parent directory is missing.
func (r PrepareReport) Unreachable() []string {
	return r.paths(PathUnreachable)
}

func (r PrepareReport) paths(kind PathActionKind) []string {
	var out []string
	for _, action := range r.Actions {
		if action.Kind == kind {
			out = append(out, action.Path)
		}
	}
	return out
}
