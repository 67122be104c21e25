// Package config loads the settings of the agent-rules hook.
//
// Settings are layered: built-in defaults, then an optional YAML settings
// file, then AGENT_RULES_* environment variables. A double underscore in an
// environment variable name separates nested keys, so AGENT_RULES_LOG__LEVEL
// sets log.level.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "AGENT_RULES_"

var ErrInvalidSettings = errors.New("invalid settings")

type Settings struct {
	// RulesFile is an explicit rules file. When empty, the rules file is
	// looked up in the agent's working directory.
	RulesFile       string    `koanf:"rules_file"`
	RuleFileNames   []string  `koanf:"rule_file_names"`
	DefaultDecision string    `koanf:"default_decision"`
	CommandTools    []string  `koanf:"command_tools"`
	PathArguments   []string  `koanf:"path_arguments"`
	Log             LogConfig `koanf:"log"`
}

type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

func defaults() map[string]any {
	return map[string]any{
		"rule_file_names":  []string{"agent-rules.yaml", "agent-rules.yml"},
		"default_decision": "ask",
		"command_tools":    []string{"Bash", "bash", "run_in_terminal"},
		"path_arguments":   []string{"path", "file_path", "filePath", "notebook_path", "paths", "replacements"},
		"log.level":        "warn",
		"log.format":       "text",
	}
}

// DefaultPath returns the settings file used when none is given.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "agent-rules", "config.yaml")
}

// Load builds the settings. A missing settings file is not an error; an
// unreadable or malformed one is.
func Load(path string) (*Settings, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load settings file %s: %w", path, err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat settings file %s: %w", path, err)
		}
	}

	// AGENT_RULES_DEFAULT_DECISION -> default_decision
	// AGENT_RULES_LOG__LEVEL -> log.level
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, envPrefix)),
			"__", ".",
		)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	var s Settings
	if err := k.Unmarshal("", &s); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks values that the hook cannot run safely without.
func (s *Settings) Validate() error {
	switch s.DefaultDecision {
	case "ask", "deny":
	default:
		return fmt.Errorf("%w: default_decision must be ask or deny, got %q", ErrInvalidSettings, s.DefaultDecision)
	}
	if len(s.RuleFileNames) == 0 {
		return fmt.Errorf("%w: rule_file_names cannot be empty", ErrInvalidSettings)
	}
	for _, name := range s.RuleFileNames {
		if name == "" || strings.ContainsAny(name, `/\`) {
			return fmt.Errorf("%w: invalid rule file name %q", ErrInvalidSettings, name)
		}
	}
	switch s.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log.format must be text or json, got %q", ErrInvalidSettings, s.Log.Format)
	}
	return nil
}
