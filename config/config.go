// Package config loads jjsum's startup configuration from a YAML file.
// Flags take precedence; config values only fill in what the user did not
// set explicitly, which is why every field is a pointer.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const defaultConfigRelPath = "jjsum/config.yaml"

// Config holds the optional startup settings.
type Config struct {
	JJBinary *string `yaml:"jj-binary"`
	Watch    *bool   `yaml:"watch"`
	LogFile  *string `yaml:"log-file"`
	LogLevel *string `yaml:"log-level"`
}

type resolvedPath struct {
	Path     string
	Required bool
	Enabled  bool
}

func resolveConfigPath(configHome, explicitPath string, noConfig bool) resolvedPath {
	if noConfig {
		return resolvedPath{Enabled: false}
	}
	if explicitPath != "" {
		return resolvedPath{Path: explicitPath, Required: true, Enabled: true}
	}
	return resolvedPath{
		Path:    filepath.Join(configHome, defaultConfigRelPath),
		Enabled: true,
	}
}

// Load reads the config file. A missing default file is fine; an explicitly
// requested file must exist.
func Load(configHome, explicitPath string, noConfig bool) (Config, error) {
	path := resolveConfigPath(configHome, explicitPath, noConfig)
	if !path.Enabled {
		return Config{}, nil
	}
	return readConfig(path.Path, path.Required)
}

func readConfig(path string, required bool) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("read config %q: %w", path, err)
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var cfg Config
	if err := decoder.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("parse config %q: %w", path, err)
	}

	if err := validateConfig(path, cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateConfig(path string, cfg Config) error {
	if cfg.LogLevel != nil {
		switch *cfg.LogLevel {
		case "debug", "info", "warn", "warning", "error":
		default:
			return fmt.Errorf("invalid config value for key %q in %q: %q", "log-level", path, *cfg.LogLevel)
		}
	}
	return nil
}
