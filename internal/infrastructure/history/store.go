// Package history records every pipeline run, independent of the command log.
// SQLite is preferred; a JSONL file takes over when the database cannot be opened.
package history

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/doeshing/aihelp/internal/domain"
	"github.com/doeshing/aihelp/internal/pkg/filesystem"
	"github.com/doeshing/aihelp/internal/ports"
)

// Open returns a SQLite store at path. When SQLite is unusable it returns a
// JSONL store next to it together with the reason, which callers may log.
func Open(path string) (ports.HistoryRepository, error) {
	path = filesystem.ExpandPath(path)
	store, err := NewSQLiteStore(path)
	if err == nil {
		return store, nil
	}
	fallback := NewFileStore(strings.TrimSuffix(path, filepath.Ext(path)) + ".jsonl")
	return fallback, fmt.Errorf("history database unavailable, using %s: %w", fallback.Path(), err)
}

// Closer is implemented by stores holding open handles.
type Closer interface {
	Close() error
}

func writeJSONLines(w io.Writer, records []domain.HistoryRecord) error {
	enc := json.NewEncoder(w)
	for _, rec := range records {
		if err := enc.Encode(rec); err != nil {
			return err
		}
	}
	return nil
}

func exportFile(dest string, records []domain.HistoryRecord) error {
	dest = filesystem.ExpandPath(dest)
	if err := os.MkdirAll(filepath.Dir(dest), domain.DirectoryPermissions); err != nil {
		return err
	}
	file, err := os.Create(dest)
	if err != nil {
		return err
	}
	if err := writeJSONLines(file, records); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
