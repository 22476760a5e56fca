// Package config loads the configuration file shared with the GUI
// companion application. The bridge is read-only with respect to this file:
// writes are the GUI's responsibility.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Well-known tool names gated by the enable map.
const (
	ToolPrompt = "prompt"
	ToolMemo   = "memo"

	fileName = "config.json"
	appDir   = "review-bridge"
)

// StaticConfig is the subset of the shared configuration file the bridge
// cares about: which tools are enabled.
type StaticConfig struct {
	Tools map[string]bool `json:"tools"`
}

// Default returns the configuration used when no file exists or it fails to
// parse, so the bridge remains usable.
func Default() *StaticConfig {
	return &StaticConfig{
		Tools: map[string]bool{
			ToolPrompt: true,
			ToolMemo:   true,
		},
	}
}

// Path returns the default location of config.json in the platform's user
// configuration directory.
func Path() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDir, fileName), nil
}

// Read loads and parses path. On any failure (missing file, unreadable,
// malformed JSON) it returns Default() alongside the error, so callers can
// log and keep serving with defaults rather than fail the whole process.
func Read(path string) (*StaticConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), err
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return Default(), err
	}
	if cfg.Tools == nil {
		cfg.Tools = map[string]bool{}
	}
	return cfg, nil
}

// IsEnabled reports whether the named tool should be advertised. The prompt
// tool is non-disableable by policy, regardless of what the file says.
// Unknown tool names default to enabled, matching the original's
// unwrap_or(true) fallback.
func (c *StaticConfig) IsEnabled(tool string) bool {
	if tool == ToolPrompt {
		return true
	}
	if c == nil || c.Tools == nil {
		return true
	}
	enabled, ok := c.Tools[tool]
	if !ok {
		return true
	}
	return enabled
}
