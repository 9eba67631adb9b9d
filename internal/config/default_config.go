package config

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/template"

	"github.com/ludo-technologies/distclust/domain"
	"github.com/pelletier/go-toml/v2"
)

// defaultConfigTmpl contains the embedded default configuration template
//
//go:embed default_config.toml.tmpl
var defaultConfigTmpl string

// DefaultConfigValues holds the values used to render the default config template.
type DefaultConfigValues struct {
	Method       string
	Cutoff       string // TOML float literal, empty when unset
	Strict       bool
	EarlyStop    bool
	OutputFormat string
	EnvPrefix    string
}

func newDefaultConfigValues(cutoff float64) DefaultConfigValues {
	return DefaultConfigValues{
		Method:       string(domain.DefaultClusterMethod),
		Cutoff:       tomlFloat(cutoff),
		Strict:       false,
		EarlyStop:    domain.DefaultEarlyStop,
		OutputFormat: string(domain.OutputFormatText),
		EnvPrefix:    domain.EnvPrefix,
	}
}

func tomlFloat(f float64) string {
	if f <= 0 {
		return ""
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// GenerateDefaultConfigTOML renders the default config template. There is
// no built-in cutoff; a non-positive cutoff leaves the key commented out.
func GenerateDefaultConfigTOML(cutoff float64) (string, error) {
	tmpl, err := template.New("default_config").Parse(defaultConfigTmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse default config template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, newDefaultConfigValues(cutoff)); err != nil {
		return "", fmt.Errorf("failed to render default config template: %w", err)
	}

	// the rendered file must load back cleanly
	var check Config
	if err := toml.Unmarshal(buf.Bytes(), &check); err != nil {
		return "", fmt.Errorf("default config template is not valid TOML: %w", err)
	}

	return buf.String(), nil
}

// WriteDefaultConfig writes a commented .distclust.toml to path. Existing
// files are only replaced when force is set.
func WriteDefaultConfig(path string, cutoff float64, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}

	content, err := GenerateDefaultConfigTOML(cutoff)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
