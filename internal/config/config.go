// Package config loads and validates the harbor project configuration.
//
// The canonical file is harbor.json in the project root. A harbor.yaml is
// accepted as an alternative for projects that prefer YAML; when both exist,
// harbor.json wins. Writes always emit harbor.json.
//
// Environment overrides (applied after the file):
//
//	HARBOR_DOMAIN    — overrides the domain
//	HARBOR_USE_SUDO  — "true"/"1" forces sudo for hosts-file updates
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/harborctl/harbor/internal/model"
)

const (
	// FileJSON is the canonical configuration file name.
	FileJSON = "harbor.json"
	// FileYAML is the alternative YAML configuration file name.
	FileYAML = "harbor.yaml"
)

// ErrNotFound is returned when neither harbor.json nor harbor.yaml exists.
var ErrNotFound = errors.New("no harbor configuration found")

// Exists reports whether a configuration file is present in the current
// directory.
func Exists() bool {
	if _, err := os.Stat(FileJSON); err == nil {
		return true
	}
	if _, err := os.Stat(FileYAML); err == nil {
		return true
	}
	return false
}

// Read loads the configuration from harbor.json, falling back to
// harbor.yaml. Returns ErrNotFound when neither file exists.
func Read() (model.Config, error) {
	var cfg model.Config

	if data, err := os.ReadFile(FileJSON); err == nil {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return model.Config{}, fmt.Errorf("parsing %s: %w", FileJSON, err)
		}
		applyEnv(&cfg)
		return cfg, nil
	} else if !os.IsNotExist(err) {
		return model.Config{}, fmt.Errorf("reading %s: %w", FileJSON, err)
	}

	if data, err := os.ReadFile(FileYAML); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return model.Config{}, fmt.Errorf("parsing %s: %w", FileYAML, err)
		}
		applyEnv(&cfg)
		return cfg, nil
	} else if !os.IsNotExist(err) {
		return model.Config{}, fmt.Errorf("reading %s: %w", FileYAML, err)
	}

	return model.Config{}, ErrNotFound
}

// Write persists the configuration to harbor.json.
func Write(cfg model.Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(FileJSON, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", FileJSON, err)
	}
	return nil
}

// applyEnv applies environment overrides onto cfg. Env always wins.
func applyEnv(cfg *model.Config) {
	if v := os.Getenv("HARBOR_DOMAIN"); v != "" {
		cfg.Domain = v
	}
	if v := os.Getenv("HARBOR_USE_SUDO"); v == "true" || v == "1" {
		cfg.UseSudo = true
	}
}
