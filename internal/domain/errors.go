package domain

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrCredentialMissing is matched by every *CredentialMissingError.
	ErrCredentialMissing = errors.New("credential missing")
	// ErrGenerationEmpty means the model returned no text.
	ErrGenerationEmpty = errors.New("the model returned an empty response")
	// ErrInsufficientInformation means the model replied with the sentinel.
	ErrInsufficientInformation = errors.New(InsufficientInformationSentinel)
)

// CredentialMissingError is fatal: the process exits before any pipeline work.
type CredentialMissingError struct {
	EnvVar string
}

func (e *CredentialMissingError) Error() string {
	return fmt.Sprintf("%s environment variable is not set", e.EnvVar)
}

func (e *CredentialMissingError) Is(target error) bool {
	return target == ErrCredentialMissing
}

// ConfigIOError reports a config file that could not be read or written.
// Callers fall back to the default configuration.
type ConfigIOError struct {
	Op   string
	Path string
	Err  error
}

func (e *ConfigIOError) Error() string {
	return fmt.Sprintf("config %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ConfigIOError) Unwrap() error { return e.Err }

// SafetyRejectedError names the denylisted substring or path that rejected a command.
type SafetyRejectedError struct {
	Kind      RejectionKind
	Reason    string
	Offending string
}

func (e *SafetyRejectedError) Error() string {
	if e.Kind == RejectPath {
		return fmt.Sprintf("Invalid file path detected: %s", e.Offending)
	}
	return fmt.Sprintf("Potentially dangerous command detected: %s", e.Offending)
}

// SyntaxError carries the shell parser diagnostic.
type SyntaxError struct {
	Diagnostic string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("Bash command validation error: %s", e.Diagnostic)
}

// LogIOError is reported but never stops the pipeline.
type LogIOError struct {
	Path string
	Err  error
}

func (e *LogIOError) Error() string {
	return fmt.Sprintf("command log %s: %v", e.Path, e.Err)
}

func (e *LogIOError) Unwrap() error { return e.Err }

// ExecutionError describes a command that ran and failed, or could not start.
type ExecutionError struct {
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ExecutionError) Error() string {
	if e.ExitCode > 0 {
		return fmt.Sprintf("Error executing command: exit status %d", e.ExitCode)
	}
	return fmt.Sprintf("Error executing command: %v", e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

// TimeoutError reports a blocking stage that ran out of time.
type TimeoutError struct {
	Stage string
	Limit time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s timed out after %s", e.Stage, e.Limit)
}

// Pipeline stage names used in TimeoutError.
const (
	StageGenerate = "generation"
	StageSyntax   = "syntax check"
	StageExecute  = "execution"
)
