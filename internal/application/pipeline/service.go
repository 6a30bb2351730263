// Package pipeline sequences one invocation: generate, check safety, check
// syntax, prepare paths, log, execute, report. The first failing stage ends
// the run; nothing is retried.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/doeshing/aihelp/internal/domain"
	"github.com/doeshing/aihelp/internal/ports"
)

// Service orchestrates the command lifecycle end-to-end.
type Service struct {
	Client     ports.CompletionClient
	Validator  ports.CommandValidator
	Syntax     ports.SyntaxChecker
	Preparer   ports.FilesystemPreparer
	CommandLog ports.ExecutionLogger
	Executor   ports.CommandExecutor
	History    ports.HistoryRepository // optional
	Reporter   ports.Reporter
	Logger     ports.Logger
	Timeouts   domain.TimeoutSettings

	// Overridable in tests.
	NewID func() string
	Now   func() time.Time
}

// Run processes a single request. Failures are reported through Reporter and
// recorded on the result; Run itself only errors when misconfigured.
func (s *Service) Run(ctx context.Context, req domain.CommandRequest) (domain.PipelineResult, error) {
	if s.Client == nil || s.Validator == nil || s.Syntax == nil || s.Preparer == nil ||
		s.CommandLog == nil || s.Executor == nil || s.Reporter == nil || s.Logger == nil {
		return domain.PipelineResult{}, errors.New("pipeline.Service dependencies not satisfied")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	run := &runState{
		result: domain.PipelineResult{
			ID:        s.newID(),
			Request:   req,
			State:     domain.StateInit,
			StartedAt: s.now(),
		},
	}
	s.execute(ctx, run)

	run.result.Duration = s.now().Sub(run.result.StartedAt)
	s.record(run.result)
	return run.result, nil
}

type runState struct {
	result domain.PipelineResult
}

func (r *runState) enter(state domain.PipelineState) {
	r.result.State = state
}

func (r *runState) abort(err error) {
	r.result.AbortedIn = r.result.State
	r.result.State = domain.StateAborted
	r.result.Err = err
}

func (s *Service) execute(ctx context.Context, run *runState) {
	req := run.result.Request
	timeouts := s.Timeouts
	s.Reporter.UsingModel(req.Model)

	if err := s.CommandLog.Init(req.LoggingEnabled); err != nil {
		s.Reporter.Warning(err)
	}

	run.enter(domain.StateGenerating)
	generated, err := s.generate(ctx, req, timeouts.Generate)
	if err != nil {
		s.fail(run, err)
		return
	}
	command := generated.Text
	run.result.Command = command
	s.Logger.Debug("command generated", map[string]interface{}{"command": command})

	run.enter(domain.StateSafetyChecking)
	if verdict := s.Validator.Validate(command); !verdict.Valid {
		s.fail(run, verdict.Err())
		return
	}

	run.enter(domain.StateSyntaxChecking)
	if err := s.checkSyntax(ctx, command, timeouts.Syntax); err != nil {
		s.fail(run, err)
		return
	}

	run.enter(domain.StatePreparingPaths)
	report, err := s.Preparer.Prepare(command)
	if err != nil {
		s.Reporter.Warning(err)
	}
	run.result.Prepared = report
	s.reportPaths(report)

	run.enter(domain.StateLogging)
	if err := s.CommandLog.Log(command, req.LoggingEnabled); err != nil {
		s.Reporter.Warning(err)
	}

	run.enter(domain.StateExecuting)
	s.Reporter.Executing(command)
	outcome, err := s.run(ctx, command, timeouts.Execute)
	run.result.Outcome = &outcome
	if err != nil {
		s.fail(run, err)
		return
	}

	run.enter(domain.StateReporting)
	if output := outcome.Display(); output != "" {
		s.Reporter.Result(output)
	}
	run.enter(domain.StateDone)
}

func (s *Service) generate(ctx context.Context, req domain.CommandRequest, limit time.Duration) (domain.GeneratedCommand, error) {
	stageCtx, cancel := withLimit(ctx, limit)
	defer cancel()

	generated, err := s.Client.Generate(stageCtx, req)
	if err != nil {
		return generated, stageError(stageCtx, domain.StageGenerate, limit, err)
	}
	switch {
	case generated.IsEmpty():
		return generated, domain.ErrGenerationEmpty
	case generated.IsSentinel():
		return generated, domain.ErrInsufficientInformation
	}
	return generated, nil
}

func (s *Service) checkSyntax(ctx context.Context, command string, limit time.Duration) error {
	stageCtx, cancel := withLimit(ctx, limit)
	defer cancel()

	if err := s.Syntax.Check(stageCtx, command); err != nil {
		return stageError(stageCtx, domain.StageSyntax, limit, err)
	}
	return nil
}

func (s *Service) run(ctx context.Context, command string, limit time.Duration) (domain.ExecutionOutcome, error) {
	stageCtx, cancel := withLimit(ctx, limit)
	defer cancel()

	outcome, err := s.Executor.Execute(stageCtx, command)
	if err != nil {
		return outcome, stageError(stageCtx, domain.StageExecute, limit, err)
	}
	return outcome, nil
}

func (s *Service) reportPaths(report domain.PrepareReport) {
	for _, action := range report.Actions {
		switch action.Kind {
		case domain.PathCreated:
			s.Reporter.PathCreated(action.Path)
		case domain.PathUnreachable:
			s.Reporter.PathUnreachable(action.Path, action.Parent)
		case domain.PathFailed:
			s.Reporter.PathFailed(action.Path, action.Err)
		}
	}
}

func (s *Service) fail(run *runState, err error) {
	s.Logger.Debug("pipeline aborted", map[string]interface{}{
		"stage": string(run.result.State),
		"error": err.Error(),
	})
	run.abort(err)

	var execErr *domain.ExecutionError
	if errors.As(err, &execErr) {
		s.Reporter.ExecutionFailed(execErr)
		return
	}
	s.Reporter.Aborted(err)
}

func (s *Service) record(result domain.PipelineResult) {
	if s.History == nil {
		return
	}
	if err := s.History.Save(domain.NewHistoryRecord(result)); err != nil {
		s.Logger.Warn("history save failed", map[string]interface{}{
			"path":  s.History.Path(),
			"error": err.Error(),
		})
	}
}

func (s *Service) newID() string {
	if s.NewID != nil {
		return s.NewID()
	}
	return uuid.NewString()
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// withLimit applies limit when positive; zero leaves ctx unbounded.
func withLimit(ctx context.Context, limit time.Duration) (context.Context, context.CancelFunc) {
	if limit <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, limit)
}

// stageError converts an expired stage deadline into *domain.TimeoutError.
// Cancellation by the caller is passed through unchanged.
func stageError(stageCtx context.Context, stage string, limit time.Duration, err error) error {
	if errors.Is(stageCtx.Err(), context.DeadlineExceeded) {
		return &domain.TimeoutError{Stage: stage, Limit: limit}
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s cancelled: %w", stage, err)
	}
	return err
}
