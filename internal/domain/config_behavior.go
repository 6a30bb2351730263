package domain

import (
	"fmt"
	"strings"
)

// ResolveModel picks the model for a single invocation.
// An explicit override wins, then the saved default, then DefaultModelID.
func (c Config) ResolveModel(override string) string {
	if model := strings.TrimSpace(override); model != "" {
		return model
	}
	if model := strings.TrimSpace(c.DefaultModel); model != "" {
		return model
	}
	return DefaultModelID
}

// SetDefaultModel changes the saved default model.
// Returns an error if the identifier is blank.
func (c *Config) SetDefaultModel(model string) error {
	model = strings.TrimSpace(model)
	if model == "" {
		return fmt.Errorf("cannot set default model: identifier is empty")
	}
	c.DefaultModel = model
	return nil
}

// ResetDefaultModel restores DefaultModelID.
func (c *Config) ResetDefaultModel() {
	c.DefaultModel = DefaultModelID
}

// Normalize fills fields left empty by a hand-edited file.
func (c Config) Normalize() Config {
	if strings.TrimSpace(c.DefaultModel) == "" {
		c.DefaultModel = DefaultModelID
	}
	return c
}
