package domain

import "time"

// PipelineState enumerates the orchestrator states.
type PipelineState string

const (
	StateInit           PipelineState = "init"
	StateGenerating     PipelineState = "generating"
	StateSafetyChecking PipelineState = "safety_checking"
	StateSyntaxChecking PipelineState = "syntax_checking"
	StatePreparingPaths PipelineState = "preparing_paths"
	StateLogging        PipelineState = "logging"
	StateExecuting      PipelineState = "executing"
	StateReporting      PipelineState = "reporting"
	StateDone           PipelineState = "done"
	StateAborted        PipelineState = "aborted"
)

// PipelineResult is the canonical result of one invocation.
type PipelineResult struct {
	ID        string
	Request   CommandRequest
	Command   string
	State     PipelineState
	AbortedIn PipelineState
	Err       error
	Prepared  PrepareReport
	Outcome   *ExecutionOutcome
	StartedAt time.Time
	Duration  time.Duration
}

// Aborted reports whether the pipeline stopped before executing.
func (r PipelineResult) Aborted() bool {
	return r.State == StateAborted
}
