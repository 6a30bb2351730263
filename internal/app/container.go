package app

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"

	"github.com/doeshing/aihelp/internal/application/doctor"
	"github.com/doeshing/aihelp/internal/application/pipeline"
	"github.com/doeshing/aihelp/internal/domain"
	"github.com/doeshing/aihelp/internal/infrastructure/ai"
	"github.com/doeshing/aihelp/internal/infrastructure/commandlog"
	"github.com/doeshing/aihelp/internal/infrastructure/config"
	"github.com/doeshing/aihelp/internal/infrastructure/executor"
	"github.com/doeshing/aihelp/internal/infrastructure/history"
	"github.com/doeshing/aihelp/internal/infrastructure/paths"
	"github.com/doeshing/aihelp/internal/infrastructure/security"
	"github.com/doeshing/aihelp/internal/infrastructure/settings"
	"github.com/doeshing/aihelp/internal/infrastructure/syntaxcheck"
	"github.com/doeshing/aihelp/internal/pkg/logger"
	"github.com/doeshing/aihelp/internal/ports"
)

// Options tune BuildContainer.
type Options struct {
	Verbose      bool
	SettingsPath string
	// Diagnostics defaults to stderr.
	Diagnostics io.Writer
}

// ClientFactory builds the completion client once a run is requested.
type ClientFactory func(domain.Settings, ports.Logger) (ports.CompletionClient, error)

// Container wires up application services with infrastructure adapters.
// The config file is read exactly once, here.
type Container struct {
	Settings    domain.Settings
	Logger      ports.Logger
	ConfigStore ports.ConfigStore
	Config      domain.Config
	// ConfigErr is the non-fatal load failure, if any; Config holds defaults then.
	ConfigErr error

	Validator     *security.Validator
	Syntax        ports.SyntaxChecker
	Preparer      ports.FilesystemPreparer
	CommandLog    ports.ExecutionLogger
	Executor      ports.CommandExecutor
	DoctorService *doctor.Service
	ClientFactory ClientFactory

	// HistoryStore is filled by History on first use. A store set beforehand
	// is used as is.
	HistoryStore ports.HistoryRepository
	historyOnce  sync.Once
}

// BuildContainer constructs the dependency graph. Nothing here requires the
// API key; that is checked by Pipeline.
func BuildContainer(ctx context.Context, opts Options) (*Container, error) {
	out := opts.Diagnostics
	if out == nil {
		out = os.Stderr
	}
	log := logger.New(opts.Verbose, out)

	loader := settings.NewLoader(opts.SettingsPath)
	cfgSettings, err := loader.Load()
	if err != nil {
		if cfgSettings.Endpoint == "" {
			return nil, err
		}
		log.Warn("settings file ignored", map[string]interface{}{"path": loader.Path(), "error": err.Error()})
	}

	store := config.NewFileStore(cfgSettings.ConfigFile)
	cfg, cfgErr := store.Load(ctx)

	validator, err := security.NewValidator(cfgSettings.RulesFile, cfgSettings.PathRoot)
	if err != nil {
		log.Warn("guardrail rules ignored", map[string]interface{}{"path": cfgSettings.RulesFile, "error": err.Error()})
		if validator, err = security.NewValidator("", cfgSettings.PathRoot); err != nil {
			return nil, err
		}
	}

	shell := executor.ResolveShell(cfgSettings.Shell)
	syntax := syntaxcheck.New(cfgSettings.SyntaxEngine, shell)
	log.Debug("runtime resolved", map[string]interface{}{
		"shell":  shell,
		"syntax": syntax.Engine(),
		"config": store.Path(),
	})

	commandLog := commandlog.NewFileLogger(cfgSettings.LogFile)

	c := &Container{
		Settings:      cfgSettings,
		Logger:        log,
		ConfigStore:   store,
		Config:        cfg,
		ConfigErr:     cfgErr,
		Validator:     validator,
		Syntax:        syntax,
		Preparer:      paths.NewPreparer(log),
		CommandLog:    commandLog,
		Executor:      executor.NewLocalExecutor(shell),
		ClientFactory: defaultClientFactory,
	}
	c.DoctorService = &doctor.Service{
		Settings:   cfgSettings,
		ConfigPath: store.Path(),
		Config:     cfg,
		ConfigErr:  cfgErr,
		Syntax:     syntax,
		Validator:  validator,
		CommandLog: commandLog,
		History:    c.History,
	}
	return c, nil
}

// History opens the history store the first time it is needed, so model
// flags and help never touch the database. It returns nil when history is
// disabled.
func (c *Container) History() ports.HistoryRepository {
	c.historyOnce.Do(func() {
		if c.HistoryStore != nil || !c.Settings.History.Enabled {
			return
		}
		store, err := history.Open(c.Settings.History.Path)
		if err != nil && c.Logger != nil {
			c.Logger.Warn("history fallback", map[string]interface{}{"error": err.Error()})
		}
		c.HistoryStore = store
	})
	return c.HistoryStore
}

func defaultClientFactory(s domain.Settings, log ports.Logger) (ports.CompletionClient, error) {
	return ai.NewClient(s, &http.Client{}, log)
}

// Pipeline builds the orchestrator. It fails with *domain.CredentialMissingError
// before any pipeline work when the API key is absent.
func (c *Container) Pipeline(reporter ports.Reporter) (*pipeline.Service, error) {
	if c.ClientFactory == nil {
		return nil, errors.New("completion client factory unavailable")
	}
	client, err := c.ClientFactory(c.Settings, c.Logger)
	if err != nil {
		return nil, err
	}
	return &pipeline.Service{
		Client:     client,
		Validator:  c.Validator,
		Syntax:     c.Syntax,
		Preparer:   c.Preparer,
		CommandLog: c.CommandLog,
		Executor:   c.Executor,
		History:    c.History(),
		Reporter:   reporter,
		Logger:     c.Logger,
		Timeouts:   c.Settings.Timeouts,
	}, nil
}

// Close releases handles held by adapters. A history store that was never
// opened is left alone.
func (c *Container) Close() error {
	if closer, ok := c.HistoryStore.(history.Closer); ok {
		return closer.Close()
	}
	return nil
}
