// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the command pipeline and its
// adapters (infrastructure). Each pipeline stage is an interface here so the
// orchestrator can be exercised with stubs and the adapters can be swapped
// (for example the shell-backed syntax checker versus the in-process parser).
package ports

import (
	"context"

	"github.com/doeshing/aihelp/internal/domain"
)

// ConfigStore persists the default model between invocations.
// Implementations typically read from ~/.aihelp_config.json.
type ConfigStore interface {
	Load(context.Context) (domain.Config, error)
	Save(context.Context, domain.Config) error
	Path() string
}

// CompletionClient turns a natural-language request into command text.
// It is an opaque single request/response call to a remote model.
type CompletionClient interface {
	Generate(context.Context, domain.CommandRequest) (domain.GeneratedCommand, error)
}

// CommandValidator applies the denylist and path-sanity check.
type CommandValidator interface {
	Validate(command string) domain.ValidationResult
}

// SyntaxChecker verifies a command parses without running it.
type SyntaxChecker interface {
	Check(ctx context.Context, command string) error
	Engine() string
}

// FilesystemPreparer creates missing absolute paths named by a command.
type FilesystemPreparer interface {
	Prepare(command string) (domain.PrepareReport, error)
}

// ExecutionLogger appends commands to the per-user command log.
type ExecutionLogger interface {
	Init(enabled bool) error
	Log(command string, enabled bool) error
	Path() string
}

// CommandExecutor runs shell commands in the configured shell environment.
type CommandExecutor interface {
	Execute(ctx context.Context, command string) (domain.ExecutionOutcome, error)
}

// HistoryRepository stores one record per pipeline run.
type HistoryRepository interface {
	Save(domain.HistoryRecord) error
	Records(limit int, search string) ([]domain.HistoryRecord, error)
	Clear() error
	ExportJSON(dest string) error
	Path() string
}

// Reporter renders user-facing pipeline events. Every method prints at most
// a few lines; diagnostics belong to Logger.
type Reporter interface {
	UsingModel(model string)
	PathCreated(path string)
	PathUnreachable(path, parent string)
	PathFailed(path string, err error)
	Executing(command string)
	ExecutionFailed(err *domain.ExecutionError)
	Result(output string)
	Aborted(err error)
	Warning(err error)
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
