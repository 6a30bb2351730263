package doctor

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/doeshing/aihelp/internal/domain"
	"github.com/doeshing/aihelp/internal/ports"
)

// Denylister exposes the active deny substrings.
type Denylister interface {
	Denylist() []string
}

// Service runs environment diagnostics.
type Service struct {
	Settings domain.Settings

	// ConfigPath, Config and ConfigErr describe the load done at startup.
	// The file is not read again.
	ConfigPath string
	Config     domain.Config
	ConfigErr  error

	Syntax     ports.SyntaxChecker
	Validator  Denylister
	CommandLog ports.ExecutionLogger
	// History opens the history store on demand. A nil func or a nil store
	// means history is unavailable.
	History func() ports.HistoryRepository

	// Getenv defaults to os.Getenv.
	Getenv func(string) string
}

// Run executes checks and returns a report. Individual failures are reported
// as checks, never as an error.
func (s *Service) Run(ctx context.Context) domain.HealthReport {
	checks := []domain.HealthCheck{
		s.credentialCheck(),
		s.configCheck(),
		s.shellCheck(),
		s.syntaxCheck(ctx),
		s.commandLogCheck(),
		s.guardrailCheck(),
		s.historyCheck(),
	}
	return domain.HealthReport{Checks: checks}
}

func (s *Service) credentialCheck() domain.HealthCheck {
	getenv := s.Getenv
	if getenv == nil {
		getenv = os.Getenv
	}
	name := s.Settings.CredentialEnv
	if strings.TrimSpace(getenv(name)) == "" {
		return fail("API key", name+" is not set")
	}
	return ok("API key", name+" is set")
}

func (s *Service) configCheck() domain.HealthCheck {
	model := s.Config.ResolveModel("")
	if s.ConfigErr != nil {
		return warn("Config file", fmt.Sprintf("%v (using %s)", s.ConfigErr, model))
	}
	return ok("Config file", fmt.Sprintf("%s, default model %s", s.ConfigPath, model))
}

func (s *Service) shellCheck() domain.HealthCheck {
	shell := s.Settings.Shell
	path, err := exec.LookPath(shell)
	if err != nil {
		return warn("Shell", fmt.Sprintf("%s not found, commands run with /bin/sh", shell))
	}
	return ok("Shell", path)
}

func (s *Service) syntaxCheck(ctx context.Context) domain.HealthCheck {
	if s.Syntax == nil {
		return fail("Syntax checker", "not initialized")
	}
	if err := s.Syntax.Check(ctx, "true"); err != nil {
		return fail("Syntax checker", fmt.Sprintf("%s: %v", s.Syntax.Engine(), err))
	}
	return ok("Syntax checker", s.Syntax.Engine())
}

func (s *Service) commandLogCheck() domain.HealthCheck {
	if s.CommandLog == nil {
		return warn("Command log", "not initialized")
	}
	path := s.CommandLog.Path()
	file, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0)
	if err == nil {
		file.Close()
		return ok("Command log", path)
	}
	if !errors.Is(err, os.ErrNotExist) {
		return warn("Command log", fmt.Sprintf("%s not writable: %v", path, err))
	}
	if info, statErr := os.Stat(filepath.Dir(path)); statErr != nil || !info.IsDir() {
		return warn("Command log", fmt.Sprintf("directory for %s is missing", path))
	}
	return ok("Command log", path+" (created on first --log run)")
}

func (s *Service) guardrailCheck() domain.HealthCheck {
	if s.Validator == nil {
		return fail("Guardrail", "validator not initialized")
	}
	details := fmt.Sprintf("%d deny substrings", len(s.Validator.Denylist()))
	if rules := s.Settings.RulesFile; rules != "" {
		if _, err := os.Stat(rules); err == nil {
			details += ", rules from " + rules
		}
	}
	return ok("Guardrail", details)
}

func (s *Service) historyCheck() domain.HealthCheck {
	if !s.Settings.History.Enabled {
		return warn("History", "disabled")
	}
	var store ports.HistoryRepository
	if s.History != nil {
		store = s.History()
	}
	if store == nil {
		return warn("History", "store unavailable")
	}
	if _, err := store.Records(1, ""); err != nil {
		return warn("History", fmt.Sprintf("%s: %v", store.Path(), err))
	}
	return ok("History", store.Path())
}

func ok(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthOK, Details: details}
}

func warn(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthWarn, Details: details}
}

func fail(name, details string) domain.HealthCheck {
	return domain.HealthCheck{Name: name, Status: domain.HealthError, Details: details}
}
