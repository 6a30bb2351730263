package config

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/doeshing/aihelp/internal/domain"
	"github.com/doeshing/aihelp/internal/pkg/filesystem"
	"github.com/doeshing/aihelp/internal/ports"
)

// DefaultPath is where the default model is persisted.
const DefaultPath = "~/.aihelp_config.json"

// FileStore keeps the Config as a JSON object in the user's home directory.
type FileStore struct {
	path string
}

// NewFileStore builds a store. An empty path selects DefaultPath.
func NewFileStore(path string) *FileStore {
	if path == "" {
		path = DefaultPath
	}
	return &FileStore{path: filesystem.ExpandPath(path)}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load implements ports.ConfigStore.
// A missing file yields the default config. A broken file yields the default
// config together with a *domain.ConfigIOError so the caller can warn and go on.
func (s *FileStore) Load(context.Context) (domain.Config, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.DefaultConfig(), nil
		}
		return domain.DefaultConfig(), &domain.ConfigIOError{Op: "read", Path: s.path, Err: err}
	}

	var cfg domain.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return domain.DefaultConfig(), &domain.ConfigIOError{Op: "parse", Path: s.path, Err: err}
	}
	return cfg.Normalize(), nil
}

// Save implements ports.ConfigStore. The file is rewritten whole through a
// temporary sibling and a rename.
func (s *FileStore) Save(_ context.Context, cfg domain.Config) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return &domain.ConfigIOError{Op: "encode", Path: s.path, Err: err}
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".aihelp_config-*.json")
	if err != nil {
		return &domain.ConfigIOError{Op: "write", Path: s.path, Err: err}
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return &domain.ConfigIOError{Op: "write", Path: s.path, Err: err}
	}
	if err := tmp.Chmod(domain.SecureFilePermissions); err != nil {
		tmp.Close()
		return &domain.ConfigIOError{Op: "write", Path: s.path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		return &domain.ConfigIOError{Op: "write", Path: s.path, Err: err}
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return &domain.ConfigIOError{Op: "write", Path: s.path, Err: err}
	}
	return nil
}

var _ ports.ConfigStore = (*FileStore)(nil)
