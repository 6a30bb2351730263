package domain

import "time"

// HistoryRecord captures one pipeline run.
type HistoryRecord struct {
	ID         string        `json:"id"`
	Timestamp  time.Time     `json:"timestamp"`
	Prompt     string        `json:"prompt"`
	Command    string        `json:"command"`
	Model      string        `json:"model"`
	State      PipelineState `json:"state"`
	AbortedIn  PipelineState `json:"aborted_in,omitempty"`
	Error      string        `json:"error,omitempty"`
	ExitCode   int           `json:"exit_code"`
	DurationMS int64         `json:"duration_ms"`
}

// NewHistoryRecord flattens a pipeline result. The text of a command refused
// by the safety check is not kept; the error still names what matched.
func NewHistoryRecord(result PipelineResult) HistoryRecord {
	rec := HistoryRecord{
		ID:         result.ID,
		Timestamp:  result.StartedAt,
		Prompt:     result.Request.Prompt,
		Command:    result.Command,
		Model:      result.Request.Model,
		State:      result.State,
		AbortedIn:  result.AbortedIn,
		DurationMS: result.Duration.Milliseconds(),
	}
	if result.Aborted() && result.AbortedIn == StateSafetyChecking {
		rec.Command = ""
	}
	if result.Err != nil {
		rec.Error = result.Err.Error()
	}
	if result.Outcome != nil {
		rec.ExitCode = result.Outcome.ExitCode
	}
	return rec
}
