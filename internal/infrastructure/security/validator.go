// Package security implements the command validator: a substring denylist
// followed by an absolute-path sanity check.
//
// Both checks are plain string heuristics. Equivalent shell spellings slip
// past them, so the validator is a best-effort filter rather than a sandbox.
package security

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/doeshing/aihelp/internal/domain"
	"github.com/doeshing/aihelp/internal/ports"
)

// builtinDenylist is checked in this order before any user rule.
var builtinDenylist = []string{
	"rm -rf",
	"mkfs",
	"dd if=",
	"> /dev/sda",
	"| sh",
	"| bash",
	"> /dev/null",
}

var absolutePathToken = regexp.MustCompile(`/[\w/.-]+`)

// Validator implements the CommandValidator port.
type Validator struct {
	denylist []string
	root     string
}

// RulesFile is the YAML schema of the optional guardrail file.
type RulesFile struct {
	DenySubstrings []string `yaml:"deny_substrings"`
}

// NewValidator loads extra deny substrings from rulesPath (a missing file is
// fine) and appends them after the built-in list. Paths must stay under root.
func NewValidator(rulesPath, root string) (*Validator, error) {
	rules, err := loadRules(rulesPath)
	if err != nil {
		return nil, err
	}

	denylist := append([]string(nil), builtinDenylist...)
	for _, entry := range rules.DenySubstrings {
		if strings.TrimSpace(entry) == "" {
			continue
		}
		denylist = append(denylist, entry)
	}

	return &Validator{denylist: denylist, root: normalizeRoot(root)}, nil
}

// Validate implements ports.CommandValidator.
func (v *Validator) Validate(command string) domain.ValidationResult {
	for _, dangerous := range v.denylist {
		if strings.Contains(command, dangerous) {
			return domain.Rejected(domain.RejectDenylist, dangerous, dangerous)
		}
	}

	for _, token := range absolutePathToken.FindAllString(command, -1) {
		if !v.within(path.Clean(token)) {
			return domain.Rejected(domain.RejectPath, "path escapes "+v.root, token)
		}
	}

	return domain.Accepted()
}

// Denylist returns the effective substrings in check order.
func (v *Validator) Denylist() []string {
	return append([]string(nil), v.denylist...)
}

// Root returns the directory every absolute path must stay under.
func (v *Validator) Root() string {
	return v.root
}

func (v *Validator) within(cleaned string) bool {
	if v.root == "/" {
		return strings.HasPrefix(cleaned, "/")
	}
	return cleaned == v.root || strings.HasPrefix(cleaned, v.root+"/")
}

func normalizeRoot(root string) string {
	root = strings.TrimSpace(root)
	if root == "" {
		return "/"
	}
	return path.Clean("/" + root)
}

func loadRules(rulesPath string) (RulesFile, error) {
	var rules RulesFile
	if rulesPath == "" {
		return rules, nil
	}
	data, err := os.ReadFile(rulesPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return rules, nil
		}
		return RulesFile{}, fmt.Errorf("read guardrail rules: %w", err)
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return RulesFile{}, fmt.Errorf("parse guardrail rules %s: %w", rulesPath, err)
	}
	return rules, nil
}

var _ ports.CommandValidator = (*Validator)(nil)
