// Package paths creates directories a generated command expects to exist.
//
// The scan is a heuristic: any whitespace-delimited word that is entirely an
// absolute path counts, so a token meant as a file will become a directory.
package paths

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/doeshing/aihelp/internal/domain"
	"github.com/doeshing/aihelp/internal/ports"
)

var absolutePathToken = regexp.MustCompile(`^/[\w/.-]+$`)

// Preparer implements ports.FilesystemPreparer on the local filesystem.
type Preparer struct {
	logger ports.Logger
}

// NewPreparer builds a preparer. logger may be nil.
func NewPreparer(logger ports.Logger) *Preparer {
	return &Preparer{logger: logger}
}

// Tokens returns the distinct absolute-path words of command, in order.
func Tokens(command string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, word := range strings.Fields(command) {
		if !absolutePathToken.MatchString(word) {
			continue
		}
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		out = append(out, word)
	}
	return out
}

// Prepare implements ports.FilesystemPreparer. Failures are recorded in the
// report; the returned error is reserved for an unusable command string and is
// always nil today.
func (p *Preparer) Prepare(command string) (domain.PrepareReport, error) {
	var report domain.PrepareReport
	for _, token := range Tokens(command) {
		if _, err := os.Stat(token); err == nil || !errors.Is(err, fs.ErrNotExist) {
			continue
		}

		parent := filepath.Dir(token)
		if info, err := os.Stat(parent); err != nil || !info.IsDir() {
			report.Actions = append(report.Actions, domain.PathAction{
				Kind:   domain.PathUnreachable,
				Path:   token,
				Parent: parent,
			})
			continue
		}

		if err := os.MkdirAll(token, domain.DirectoryPermissions); err != nil {
			p.debug("mkdir failed", map[string]interface{}{"path": token, "error": err.Error()})
			report.Actions = append(report.Actions, domain.PathAction{
				Kind: domain.PathFailed,
				Path: token,
				Err:  fmt.Errorf("create %s: %w", token, err),
			})
			continue
		}
		p.debug("directory created", map[string]interface{}{"path": token})
		report.Actions = append(report.Actions, domain.PathAction{Kind: domain.PathCreated, Path: token})
	}
	return report, nil
}

func (p *Preparer) debug(msg string, fields map[string]interface{}) {
	if p.logger != nil {
		p.logger.Debug(msg, fields)
	}
}

var _ ports.FilesystemPreparer = (*Preparer)(nil)
