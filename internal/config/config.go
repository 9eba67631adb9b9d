package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ludo-technologies/distclust/domain"
	"github.com/spf13/viper"
)

// Config represents the distclust configuration file
type Config struct {
	// Clustering holds the linkage parameters
	Clustering ClusteringConfig `mapstructure:"clustering" toml:"clustering" yaml:"clustering"`

	// Input holds default input paths
	Input InputConfig `mapstructure:"input" toml:"input" yaml:"input"`

	// Output holds output formatting configuration
	Output OutputConfig `mapstructure:"output" toml:"output" yaml:"output"`
}

// ClusteringConfig is the [clustering] section. Pointer booleans
// distinguish "unset" from false.
type ClusteringConfig struct {
	Method    string  `mapstructure:"method" toml:"method" yaml:"method"`
	Cutoff    float64 `mapstructure:"cutoff" toml:"cutoff" yaml:"cutoff"`
	Strict    *bool   `mapstructure:"strict" toml:"strict" yaml:"strict"`
	EarlyStop *bool   `mapstructure:"early_stop" toml:"early_stop" yaml:"early_stop"`
}

// InputConfig is the [input] section
type InputConfig struct {
	Paths []string `mapstructure:"paths" toml:"paths" yaml:"paths"`
}

// OutputConfig is the [output] section
type OutputConfig struct {
	Format     string `mapstructure:"format" toml:"format" yaml:"format"`
	Sort       *bool  `mapstructure:"sort" toml:"sort" yaml:"sort"`
	ShowMerges *bool  `mapstructure:"show_merges" toml:"show_merges" yaml:"show_merges"`
	Path       string `mapstructure:"path" toml:"path" yaml:"path"`
}

// DefaultConfig returns the built-in configuration. Cutoff has no default.
func DefaultConfig() *Config {
	return &Config{
		Clustering: ClusteringConfig{
			Method:    string(domain.DefaultClusterMethod),
			Strict:    domain.BoolPtr(false),
			EarlyStop: domain.BoolPtr(domain.DefaultEarlyStop),
		},
		Output: OutputConfig{
			Format:     string(domain.OutputFormatText),
			ShowMerges: domain.BoolPtr(false),
		},
	}
}

// LoadConfig loads configuration from configPath, or from the nearest
// .distclust.toml when configPath is empty, then applies DISTCLUST_*
// environment overrides. Missing files yield the defaults.
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = NewTomlConfigLoader().FindConfigFileFromPath("")
	}

	cfg := DefaultConfig()
	if configPath != "" {
		loaded, err := LoadConfigFile(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := ApplyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadConfigFile reads one file. TOML goes through go-toml; YAML and JSON
// through viper.
func LoadConfigFile(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return NewTomlConfigLoader().LoadFile(path)
	case ".yaml", ".yml", ".json":
		return loadWithViper(path)
	default:
		return nil, fmt.Errorf("unsupported config file type: %s", path)
	}
}

func loadWithViper(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var fileCfg Config
	if err := v.Unmarshal(&fileCfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg := DefaultConfig()
	cfg.merge(&fileCfg)
	return cfg, nil
}

// merge copies every value set in other over c
func (c *Config) merge(other *Config) {
	if other.Clustering.Method != "" {
		c.Clustering.Method = other.Clustering.Method
	}
	if other.Clustering.Cutoff != 0 {
		c.Clustering.Cutoff = other.Clustering.Cutoff
	}
	if other.Clustering.Strict != nil {
		c.Clustering.Strict = other.Clustering.Strict
	}
	if other.Clustering.EarlyStop != nil {
		c.Clustering.EarlyStop = other.Clustering.EarlyStop
	}

	if len(other.Input.Paths) > 0 {
		c.Input.Paths = other.Input.Paths
	}

	if other.Output.Format != "" {
		c.Output.Format = other.Output.Format
	}
	if other.Output.Sort != nil {
		c.Output.Sort = other.Output.Sort
	}
	if other.Output.ShowMerges != nil {
		c.Output.ShowMerges = other.Output.ShowMerges
	}
	if other.Output.Path != "" {
		c.Output.Path = other.Output.Path
	}
}

// Validate validates the configuration values. A zero cutoff is allowed
// here since it may still come from the command line.
func (c *Config) Validate() error {
	switch domain.ClusterMethod(c.Clustering.Method) {
	case domain.ClusterMethodSingle, domain.ClusterMethodComplete:
	default:
		return fmt.Errorf("clustering.method must be single or complete, got %q", c.Clustering.Method)
	}

	if c.Clustering.Cutoff < 0 {
		return fmt.Errorf("clustering.cutoff must be greater than 0, got %v", c.Clustering.Cutoff)
	}

	switch domain.OutputFormat(c.Output.Format) {
	case domain.OutputFormatText, domain.OutputFormatJSON, domain.OutputFormatYAML, domain.OutputFormatCSV:
	default:
		return fmt.Errorf("output.format must be text, json, yaml or csv, got %q", c.Output.Format)
	}

	return nil
}
