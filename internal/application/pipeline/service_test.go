package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/doeshing/aihelp/internal/domain"
	"github.com/doeshing/aihelp/internal/infrastructure/commandlog"
	"github.com/doeshing/aihelp/internal/infrastructure/executor"
	"github.com/doeshing/aihelp/internal/infrastructure/paths"
	"github.com/doeshing/aihelp/internal/infrastructure/security"
	"github.com/doeshing/aihelp/internal/infrastructure/syntaxcheck"
	"github.com/doeshing/aihelp/internal/pkg/logger"
)

func request(logging bool) domain.CommandRequest {
	return domain.CommandRequest{Prompt: "do something", Model: "test-model", LoggingEnabled: logging}
}

func TestRunSuccess(t *testing.T) {
	f := newFixture("/bin/ls /tmp")
	f.executor.outcome = domain.ExecutionOutcome{Stdout: "a\nb\n"}

	result, err := f.service.Run(context.Background(), request(true))
	if err != nil {
		t.Fatal(err)
	}
	if result.State != domain.StateDone || result.Err != nil {
		t.Fatalf("state=%s err=%v", result.State, result.Err)
	}
	want := []string{"model test-model", "executing /bin/ls /tmp", "result a\nb"}
	if diff := cmp.Diff(want, f.reporter.lines); diff != "" {
		t.Fatalf("report mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"/bin/ls /tmp"}, f.log.entries); diff != "" {
		t.Fatalf("log mismatch (-want +got):\n%s", diff)
	}
	if len(f.history.saved) != 1 || f.history.saved[0].ID != "run-1" || f.history.saved[0].State != domain.StateDone {
		t.Fatalf("unexpected history %+v", f.history.saved)
	}
}

func TestRunNoOutputOmitsResultLine(t *testing.T) {
	f := newFixture("true")
	f.executor.outcome = domain.ExecutionOutcome{Stdout: "\n  \n"}

	if _, err := f.service.Run(context.Background(), request(false)); err != nil {
		t.Fatal(err)
	}
	want := []string{"model test-model", "executing true"}
	if diff := cmp.Diff(want, f.reporter.lines); diff != "" {
		t.Fatalf("report mismatch (-want +got):\n%s", diff)
	}
}

func TestRunSentinelAbortsBeforeChecks(t *testing.T) {
	f := newFixture(domain.InsufficientInformationSentinel)

	result, _ := f.service.Run(context.Background(), request(true))
	if !errors.Is(result.Err, domain.ErrInsufficientInformation) {
		t.Fatalf("err = %v", result.Err)
	}
	if result.AbortedIn != domain.StateGenerating {
		t.Fatalf("aborted in %s", result.AbortedIn)
	}
	if len(f.validator.calls)+len(f.syntax.calls)+len(f.executor.calls) != 0 {
		t.Fatal("no check or execution expected after sentinel")
	}
}

func TestRunEmptyResponseAborts(t *testing.T) {
	f := newFixture("   ")

	result, _ := f.service.Run(context.Background(), request(false))
	if !errors.Is(result.Err, domain.ErrGenerationEmpty) {
		t.Fatalf("err = %v", result.Err)
	}
	if len(f.validator.calls) != 0 {
		t.Fatal("validator should not run")
	}
}

func TestRunGenerationErrorAborts(t *testing.T) {
	f := newFixture("")
	f.client.err = errors.New("completion request: 401 Unauthorized: Invalid API Key")

	result, _ := f.service.Run(context.Background(), request(false))
	if result.AbortedIn != domain.StateGenerating || result.Err == nil {
		t.Fatalf("unexpected result %+v", result)
	}
	last := f.reporter.lines[len(f.reporter.lines)-1]
	if !strings.Contains(last, "Invalid API Key") {
		t.Fatalf("error not surfaced: %q", last)
	}
}

func TestRunGenerationTimeout(t *testing.T) {
	f := newFixture("")
	f.client.block = true
	f.service.Timeouts.Generate = 20 * time.Millisecond

	result, _ := f.service.Run(context.Background(), request(false))
	var timeoutErr *domain.TimeoutError
	if !errors.As(result.Err, &timeoutErr) || timeoutErr.Stage != domain.StageGenerate {
		t.Fatalf("expected generation TimeoutError, got %v", result.Err)
	}
}

func TestRunSafetyRejectionSkipsEverythingAfter(t *testing.T) {
	f := newFixture("rm -rf /")
	f.validator.result = domain.Rejected(domain.RejectDenylist, "rm -rf", "rm -rf")

	result, _ := f.service.Run(context.Background(), request(true))
	var rejected *domain.SafetyRejectedError
	if !errors.As(result.Err, &rejected) || rejected.Offending != "rm -rf" {
		t.Fatalf("expected rejection naming rm -rf, got %v", result.Err)
	}
	if result.AbortedIn != domain.StateSafetyChecking {
		t.Fatalf("aborted in %s", result.AbortedIn)
	}
	if len(f.syntax.calls) != 0 || len(f.preparer.calls) != 0 || len(f.executor.calls) != 0 {
		t.Fatal("nothing should run after a safety rejection")
	}
	if len(f.log.entries) != 0 {
		t.Fatalf("rejected command was logged: %v", f.log.entries)
	}
	if f.history.saved[0].AbortedIn != domain.StateSafetyChecking {
		t.Fatalf("history should record abort stage, got %+v", f.history.saved[0])
	}
	if f.history.saved[0].Command != "" {
		t.Fatalf("rejected command text kept in history: %q", f.history.saved[0].Command)
	}
	if f.history.saved[0].Prompt == "" {
		t.Fatal("history should keep the prompt of a rejected run")
	}
}

func TestRunSyntaxTimeout(t *testing.T) {
	f := newFixture("echo hi")
	f.syntax.block = true
	f.service.Timeouts.Syntax = 20 * time.Millisecond

	result, _ := f.service.Run(context.Background(), request(true))
	var timeoutErr *domain.TimeoutError
	if !errors.As(result.Err, &timeoutErr) || timeoutErr.Stage != domain.StageSyntax {
		t.Fatalf("expected syntax check TimeoutError, got %v", result.Err)
	}
	if timeoutErr.Limit != 20*time.Millisecond {
		t.Fatalf("limit = %s", timeoutErr.Limit)
	}
	if result.AbortedIn != domain.StateSyntaxChecking {
		t.Fatalf("aborted in %s", result.AbortedIn)
	}
	if len(f.preparer.calls) != 0 || len(f.log.entries) != 0 || len(f.executor.calls) != 0 {
		t.Fatal("nothing should run after a syntax check timeout")
	}
}

func TestRunSyntaxErrorAborts(t *testing.T) {
	f := newFixture("echo 'oops")
	f.syntax.err = &domain.SyntaxError{Diagnostic: "unexpected EOF"}

	result, _ := f.service.Run(context.Background(), request(true))
	var syntaxErr *domain.SyntaxError
	if !errors.As(result.Err, &syntaxErr) {
		t.Fatalf("expected SyntaxError, got %v", result.Err)
	}
	if len(f.preparer.calls) != 0 || len(f.executor.calls) != 0 || len(f.log.entries) != 0 {
		t.Fatal("nothing should run after a syntax failure")
	}
}

func TestRunReportsPathActionsAndLogWarnings(t *testing.T) {
	f := newFixture("touch /x/y")
	f.preparer.report = domain.PrepareReport{Actions: []domain.PathAction{
		{Kind: domain.PathCreated, Path: "/x"},
		{Kind: domain.PathUnreachable, Path: "/q/r", Parent: "/q"},
	}}
	f.log.err = &domain.LogIOError{Path: "/fake/log", Err: errors.New("read-only")}

	result, _ := f.service.Run(context.Background(), request(true))
	if result.State != domain.StateDone {
		t.Fatalf("state = %s, err = %v", result.State, result.Err)
	}
	want := []string{
		"model test-model",
		"created /x",
		"unreachable /q/r (/q)",
		"warning command log /fake/log: read-only",
		"executing touch /x/y",
	}
	if diff := cmp.Diff(want, f.reporter.lines); diff != "" {
		t.Fatalf("report mismatch (-want +got):\n%s", diff)
	}
}

func TestRunExecutionFailure(t *testing.T) {
	f := newFixture("false")
	f.executor.outcome = domain.ExecutionOutcome{ExitCode: 1, Stderr: "boom\n"}
	f.executor.err = &domain.ExecutionError{ExitCode: 1, Stderr: "boom\n"}

	result, _ := f.service.Run(context.Background(), request(false))
	if result.AbortedIn != domain.StateExecuting {
		t.Fatalf("aborted in %s", result.AbortedIn)
	}
	want := []string{"model test-model", "executing false", "exec failed 1 boom"}
	if diff := cmp.Diff(want, f.reporter.lines); diff != "" {
		t.Fatalf("report mismatch (-want +got):\n%s", diff)
	}
	if f.history.saved[0].ExitCode != 1 {
		t.Fatalf("history exit code = %d", f.history.saved[0].ExitCode)
	}
}

func TestRunExecutionTimeout(t *testing.T) {
	f := newFixture("sleep 10")
	f.executor.sleep = time.Second
	f.service.Timeouts.Execute = 20 * time.Millisecond

	result, _ := f.service.Run(context.Background(), request(false))
	var timeoutErr *domain.TimeoutError
	if !errors.As(result.Err, &timeoutErr) || timeoutErr.Stage != domain.StageExecute {
		t.Fatalf("expected execution TimeoutError, got %v", result.Err)
	}
}

func TestRunMissingDependencies(t *testing.T) {
	if _, err := (&Service{}).Run(context.Background(), request(false)); err == nil {
		t.Fatal("expected error for unconfigured service")
	}
}

func realService(t *testing.T, reply string) (*Service, *fakeClient, string) {
	t.Helper()
	validator, err := security.NewValidator("", "/")
	if err != nil {
		t.Fatal(err)
	}
	logPath := filepath.Join(t.TempDir(), "command_log")
	client := &fakeClient{text: reply}
	return &Service{
		Client:     client,
		Validator:  validator,
		Syntax:     syntaxcheck.NewBuiltinChecker("bash"),
		Preparer:   paths.NewPreparer(nil),
		CommandLog: commandlog.NewFileLogger(logPath),
		Executor:   executor.NewLocalExecutor("/bin/sh"),
		Reporter:   &recordingReporter{},
		Logger:     logger.Discard(),
		Timeouts:   domain.TimeoutSettings{Generate: time.Second, Syntax: time.Second, Execute: 10 * time.Second},
	}, client, logPath
}

func TestRunEndToEndListsTmp(t *testing.T) {
	service, _, logPath := realService(t, "/bin/ls /tmp")

	result, err := service.Run(context.Background(), request(true))
	if err != nil {
		t.Fatal(err)
	}
	if result.State != domain.StateDone {
		t.Fatalf("state=%s err=%v", result.State, result.Err)
	}
	if result.Outcome == nil || result.Outcome.ExitCode != 0 {
		t.Fatalf("unexpected outcome %+v", result.Outcome)
	}
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 || lines[0] != domain.LogHeader || !strings.HasSuffix(lines[1], ": /bin/ls /tmp") {
		t.Fatalf("unexpected log %q", lines)
	}
}

func TestRunEndToEndRejectsRmRf(t *testing.T) {
	service, _, logPath := realService(t, "rm -rf /")

	result, _ := service.Run(context.Background(), request(true))
	var rejected *domain.SafetyRejectedError
	if !errors.As(result.Err, &rejected) || rejected.Offending != "rm -rf" {
		t.Fatalf("expected rm -rf rejection, got %v", result.Err)
	}
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(data)) != domain.LogHeader {
		t.Fatalf("log should contain only the header, got %q", data)
	}
}

func TestRunEndToEndUnwritableLogWarnsOnce(t *testing.T) {
	service, _, _ := realService(t, "echo hi")
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	service.CommandLog = commandlog.NewFileLogger(filepath.Join(blocker, "command_log"))

	result, _ := service.Run(context.Background(), request(true))
	if result.State != domain.StateDone {
		t.Fatalf("log failure must not stop the run: state=%s err=%v", result.State, result.Err)
	}
	reporter := service.Reporter.(*recordingReporter)
	warnings := 0
	for _, line := range reporter.lines {
		if strings.HasPrefix(line, "warning ") {
			warnings++
		}
	}
	if warnings != 1 {
		t.Fatalf("expected one warning, got %q", reporter.lines)
	}
}
