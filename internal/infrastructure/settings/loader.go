// Package settings layers runtime settings from the embedded defaults, an
// optional user settings.yaml and AIHELP_* environment variables.
package settings

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"github.com/doeshing/aihelp/assets"
	"github.com/doeshing/aihelp/internal/domain"
	"github.com/doeshing/aihelp/internal/pkg/filesystem"
)

const (
	envPrefix       = "AIHELP"
	envSettingsPath = "AIHELP_SETTINGS"
	appDirName      = "aihelp"
)

// Loader reads domain.Settings.
type Loader struct {
	overridePath string
}

// NewLoader builds a loader. An empty path selects AIHELP_SETTINGS, then
// $XDG_CONFIG_HOME/aihelp/settings.yaml.
func NewLoader(path string) *Loader {
	return &Loader{overridePath: path}
}

// Path returns the user settings file consulted by Load.
func (l *Loader) Path() string {
	if l.overridePath != "" {
		return filesystem.ExpandPath(l.overridePath)
	}
	if custom := os.Getenv(envSettingsPath); custom != "" {
		return filesystem.ExpandPath(custom)
	}
	return filepath.Join(xdg.ConfigHome, appDirName, "settings.yaml")
}

// Load merges every layer. A broken user file is reported, and the embedded
// defaults plus environment still apply.
func (l *Loader) Load() (domain.Settings, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	if err := v.ReadConfig(bytes.NewReader(assets.DefaultSettingsYAML)); err != nil {
		return domain.Settings{}, fmt.Errorf("embedded settings: %w", err)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	mergeErr := mergeUserFile(v, l.Path())

	var s domain.Settings
	if err := v.Unmarshal(&s); err != nil {
		return domain.Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	return resolvePaths(s.WithDefaults()), mergeErr
}

func mergeUserFile(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read settings %s: %w", path, err)
	}
	if err := v.MergeConfig(bytes.NewReader(data)); err != nil {
		return fmt.Errorf("parse settings %s: %w", path, err)
	}
	return nil
}

func resolvePaths(s domain.Settings) domain.Settings {
	s.ConfigFile = filesystem.ExpandPath(s.ConfigFile)
	s.LogFile = filesystem.ExpandPath(s.LogFile)
	if s.RulesFile == "" {
		s.RulesFile = filepath.Join(xdg.ConfigHome, appDirName, "guardrail.yaml")
	}
	s.RulesFile = filesystem.ExpandPath(s.RulesFile)
	if s.History.Path == "" {
		s.History.Path = filepath.Join(xdg.DataHome, appDirName, "history.db")
	}
	s.History.Path = filesystem.ExpandPath(s.History.Path)
	return s
}
