package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ludo-technologies/distclust/domain"
	"github.com/pelletier/go-toml/v2"
)

// TomlConfigLoader handles .distclust.toml discovery and loading
type TomlConfigLoader struct{}

// NewTomlConfigLoader creates a new TOML configuration loader
func NewTomlConfigLoader() *TomlConfigLoader {
	return &TomlConfigLoader{}
}

// LoadConfig loads the nearest .distclust.toml above startDir, or the
// defaults when there is none.
func (l *TomlConfigLoader) LoadConfig(startDir string) (*Config, error) {
	configPath := l.FindConfigFileFromPath(startDir)
	if configPath == "" {
		return DefaultConfig(), nil
	}
	return l.LoadFile(configPath)
}

// LoadFile parses a TOML file and merges it over the defaults.
// Unknown keys are rejected so typos do not go unnoticed.
func (l *TomlConfigLoader) LoadFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	defer f.Close()

	var fileCfg Config
	dec := toml.NewDecoder(f)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&fileCfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	cfg := DefaultConfig()
	cfg.merge(&fileCfg)
	return cfg, nil
}

// FindConfigFileFromPath walks up from startDir (the working directory
// when empty) and returns the first .distclust.toml found, or "".
func (l *TomlConfigLoader) FindConfigFileFromPath(startDir string) string {
	dir := startDir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return ""
		}
		dir = wd
	}
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}

	for {
		configPath := filepath.Join(dir, domain.DefaultConfigFileName)
		if info, err := os.Stat(configPath); err == nil && !info.IsDir() {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}
