package config

import (
	"fmt"
	"strings"

	"github.com/ludo-technologies/distclust/domain"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// envKeys are the settings that can be overridden from the environment,
// each read from DISTCLUST_<KEY>.
var envKeys = []string{"method", "cutoff", "strict", "early_stop", "format", "sort"}

// EnvVar returns the environment variable name for key.
func EnvVar(key string) string {
	return domain.EnvPrefix + "_" + strings.ToUpper(key)
}

// ApplyEnv overrides cfg with DISTCLUST_* environment variables.
// Empty variables are ignored.
func ApplyEnv(cfg *Config) error {
	v := viper.New()
	v.SetEnvPrefix(domain.EnvPrefix)
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return err
		}
	}

	if v.IsSet("method") {
		cfg.Clustering.Method = strings.ToLower(v.GetString("method"))
	}
	if v.IsSet("cutoff") {
		cutoff, err := cast.ToFloat64E(v.Get("cutoff"))
		if err != nil {
			return fmt.Errorf("%s: %w", EnvVar("cutoff"), err)
		}
		cfg.Clustering.Cutoff = cutoff
	}
	if v.IsSet("format") {
		cfg.Output.Format = strings.ToLower(v.GetString("format"))
	}

	for key, target := range map[string]**bool{
		"strict":     &cfg.Clustering.Strict,
		"early_stop": &cfg.Clustering.EarlyStop,
		"sort":       &cfg.Output.Sort,
	} {
		if !v.IsSet(key) {
			continue
		}
		b, err := cast.ToBoolE(v.Get(key))
		if err != nil {
			return fmt.Errorf("%s: %w", EnvVar(key), err)
		}
		*target = domain.BoolPtr(b)
	}
	return nil
}
