package assets

import (
	_ "embed"
)

// DefaultSettingsYAML contains the embedded default runtime settings.
//
//go:embed defaults/settings.yaml
var DefaultSettingsYAML []byte
