package domain

import "time"

// Settings are runtime knobs layered from embedded defaults, the optional
// settings.yaml and AIHELP_* environment variables.
type Settings struct {
	Endpoint      string          `mapstructure:"endpoint"`
	CredentialEnv string          `mapstructure:"credential_env"`
	MaxTokens     int             `mapstructure:"max_tokens"`
	Shell         string          `mapstructure:"shell"`
	SyntaxEngine  string          `mapstructure:"syntax_engine"`
	PathRoot      string          `mapstructure:"path_root"`
	ConfigFile    string          `mapstructure:"config_file"`
	LogFile       string          `mapstructure:"log_file"`
	RulesFile     string          `mapstructure:"rules_file"`
	Timeouts      TimeoutSettings `mapstructure:"timeouts"`
	History       HistorySettings `mapstructure:"history"`
}

// TimeoutSettings bounds every blocking stage.
type TimeoutSettings struct {
	Generate time.Duration `mapstructure:"generate"`
	Syntax   time.Duration `mapstructure:"syntax"`
	Execute  time.Duration `mapstructure:"execute"`
}

// HistorySettings controls the run history store.
type HistorySettings struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Syntax engines.
const (
	SyntaxEngineShell   = "shell"
	SyntaxEngineBuiltin = "builtin"
)

// WithDefaults fills zero values so callers never see an unusable setting.
func (s Settings) WithDefaults() Settings {
	if s.Endpoint == "" {
		s.Endpoint = DefaultEndpoint
	}
	if s.CredentialEnv == "" {
		s.CredentialEnv = DefaultCredentialEnv
	}
	if s.MaxTokens <= 0 {
		s.MaxTokens = DefaultMaxTokens
	}
	if s.Shell == "" {
		s.Shell = "bash"
	}
	if s.SyntaxEngine == "" {
		s.SyntaxEngine = SyntaxEngineShell
	}
	if s.PathRoot == "" {
		s.PathRoot = "/"
	}
	if s.Timeouts.Generate <= 0 {
		s.Timeouts.Generate = DefaultGenerateTimeout
	}
	if s.Timeouts.Syntax <= 0 {
		s.Timeouts.Syntax = DefaultSyntaxTimeout
	}
	if s.Timeouts.Execute <= 0 {
		s.Timeouts.Execute = DefaultExecuteTimeout
	}
	return s
}
