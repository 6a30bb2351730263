package pipeline

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/doeshing/aihelp/internal/domain"
	"github.com/doeshing/aihelp/internal/pkg/logger"
)

type fakeClient struct {
	text     string
	err      error
	block    bool
	requests []domain.CommandRequest
}

func (f *fakeClient) Generate(ctx context.Context, req domain.CommandRequest) (domain.GeneratedCommand, error) {
	f.requests = append(f.requests, req)
	if f.block {
		<-ctx.Done()
		return domain.GeneratedCommand{}, ctx.Err()
	}
	return domain.GeneratedCommand{Text: f.text, Request: req}, f.err
}

type fakeValidator struct {
	calls  []string
	result domain.ValidationResult
}

func (f *fakeValidator) Validate(command string) domain.ValidationResult {
	f.calls = append(f.calls, command)
	return f.result
}

type fakeSyntax struct {
	calls []string
	err   error
	block bool
}

func (f *fakeSyntax) Check(ctx context.Context, command string) error {
	f.calls = append(f.calls, command)
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	return f.err
}

func (f *fakeSyntax) Engine() string { return "fake" }

type fakePreparer struct {
	calls  []string
	report domain.PrepareReport
}

func (f *fakePreparer) Prepare(command string) (domain.PrepareReport, error) {
	f.calls = append(f.calls, command)
	return f.report, nil
}

type fakeCommandLog struct {
	inits   []bool
	entries []string
	err     error
}

func (f *fakeCommandLog) Init(enabled bool) error {
	f.inits = append(f.inits, enabled)
	return nil
}

func (f *fakeCommandLog) Log(command string, enabled bool) error {
	if enabled {
		f.entries = append(f.entries, command)
	}
	return f.err
}

func (f *fakeCommandLog) Path() string { return "/fake/log" }

type fakeExecutor struct {
	calls   []string
	outcome domain.ExecutionOutcome
	err     error
	sleep   time.Duration
}

func (f *fakeExecutor) Execute(ctx context.Context, command string) (domain.ExecutionOutcome, error) {
	f.calls = append(f.calls, command)
	if f.sleep > 0 {
		select {
		case <-ctx.Done():
			return domain.ExecutionOutcome{ExitCode: -1}, ctx.Err()
		case <-time.After(f.sleep):
		}
	}
	return f.outcome, f.err
}

type fakeHistory struct {
	saved []domain.HistoryRecord
}

func (f *fakeHistory) Save(rec domain.HistoryRecord) error {
	f.saved = append(f.saved, rec)
	return nil
}

func (f *fakeHistory) Records(int, string) ([]domain.HistoryRecord, error) {
	return f.saved, nil
}

func (f *fakeHistory) Clear() error {
	f.saved = nil
	return nil
}

func (f *fakeHistory) ExportJSON(string) error { return nil }

func (f *fakeHistory) Path() string { return "/fake/history" }

// recordingReporter keeps one line per event in the order they happened.
type recordingReporter struct {
	lines []string
}

func (r *recordingReporter) add(format string, args ...interface{}) {
	r.lines = append(r.lines, fmt.Sprintf(format, args...))
}

func (r *recordingReporter) UsingModel(model string) {
	r.add("model %s", model)
}

func (r *recordingReporter) PathCreated(path string) {
	r.add("created %s", path)
}

func (r *recordingReporter) PathUnreachable(path, parent string) {
	r.add("unreachable %s (%s)", path, parent)
}

func (r *recordingReporter) PathFailed(path string, err error) {
	r.add("failed %s", path)
}

func (r *recordingReporter) Executing(command string) {
	r.add("executing %s", command)
}

func (r *recordingReporter) ExecutionFailed(err *domain.ExecutionError) {
	r.add("exec failed %d %s", err.ExitCode, strings.TrimSpace(err.Stderr))
}

func (r *recordingReporter) Result(output string) {
	r.add("result %s", output)
}

func (r *recordingReporter) Aborted(err error) {
	r.add("aborted %v", err)
}

func (r *recordingReporter) Warning(err error) {
	r.add("warning %v", err)
}

type fixture struct {
	client    *fakeClient
	validator *fakeValidator
	syntax    *fakeSyntax
	preparer  *fakePreparer
	log       *fakeCommandLog
	executor  *fakeExecutor
	history   *fakeHistory
	reporter  *recordingReporter
	service   *Service
}

func newFixture(reply string) *fixture {
	f := &fixture{
		client:    &fakeClient{text: reply},
		validator: &fakeValidator{result: domain.Accepted()},
		syntax:    &fakeSyntax{},
		preparer:  &fakePreparer{},
		log:       &fakeCommandLog{},
		executor:  &fakeExecutor{},
		history:   &fakeHistory{},
		reporter:  &recordingReporter{},
	}
	f.service = &Service{
		Client:     f.client,
		Validator:  f.validator,
		Syntax:     f.syntax,
		Preparer:   f.preparer,
		CommandLog: f.log,
		Executor:   f.executor,
		History:    f.history,
		Reporter:   f.reporter,
		Logger:     logger.Discard(),
		Timeouts: domain.TimeoutSettings{
			Generate: time.Second,
			Syntax:   time.Second,
			Execute:  time.Second,
		},
		NewID: func() string { return "run-1" },
	}
	return f
}
