package service

import (
	"github.com/ludo-technologies/distclust/domain"
	"github.com/ludo-technologies/distclust/internal/config"
)

// ClusterConfigurationLoaderImpl implements the ClusterConfigurationLoader
// interface. With a flag tracker, request values only override the config
// when their flag was typed; without one, any non-zero request value wins.
type ClusterConfigurationLoaderImpl struct {
	flagTracker *config.FlagTracker
}

// NewClusterConfigurationLoader creates a configuration loader for library
// and server use
func NewClusterConfigurationLoader() *ClusterConfigurationLoaderImpl {
	return &ClusterConfigurationLoaderImpl{}
}

// NewClusterConfigurationLoaderWithFlags creates a loader that respects
// explicitly set command-line flags
func NewClusterConfigurationLoaderWithFlags(tracker *config.FlagTracker) *ClusterConfigurationLoaderImpl {
	return &ClusterConfigurationLoaderImpl{flagTracker: tracker}
}

// LoadConfig loads configuration from the specified path, then applies
// DISTCLUST_* environment overrides
func (cl *ClusterConfigurationLoaderImpl) LoadConfig(path string) (*domain.ClusterRequest, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, domain.NewConfigError("failed to load config from "+path, err)
	}
	return cl.configToRequest(cfg), nil
}

// LoadDefaultConfig loads the nearest .distclust.toml, falling back to the
// built-in defaults
func (cl *ClusterConfigurationLoaderImpl) LoadDefaultConfig() *domain.ClusterRequest {
	cfg, err := config.LoadConfig(cl.FindDefaultConfigFile())
	if err != nil {
		cfg = config.DefaultConfig()
		// keep environment overrides even when the file is unusable
		if config.ApplyEnv(cfg) != nil {
			cfg = config.DefaultConfig()
		}
	}
	return cl.configToRequest(cfg)
}

// FindDefaultConfigFile searches for .distclust.toml from the working directory up
func (cl *ClusterConfigurationLoaderImpl) FindDefaultConfigFile() string {
	return config.NewTomlConfigLoader().FindConfigFileFromPath("")
}

// MergeConfig merges CLI flags with configuration file
func (cl *ClusterConfigurationLoaderImpl) MergeConfig(base *domain.ClusterRequest, override *domain.ClusterRequest) *domain.ClusterRequest {
	if base == nil {
		return override
	}
	if override == nil {
		return base
	}

	merged := *base

	// Paths and inline input come from arguments, never from flags tracked here
	if len(override.Paths) > 0 {
		merged.Paths = override.Paths
	}
	if override.Input != nil {
		merged.Input = override.Input
		merged.InputName = override.InputName
	}
	if override.OutputWriter != nil {
		merged.OutputWriter = override.OutputWriter
	}
	if override.ConfigPath != "" {
		merged.ConfigPath = override.ConfigPath
	}
	merged.Verbose = merged.Verbose || override.Verbose

	if cl.explicit(override.Method != "", "method") {
		merged.Method = override.Method
	}
	if cl.explicit(override.Cutoff > 0, "cutoff") {
		merged.Cutoff = override.Cutoff
	}
	if cl.explicit(override.Strict != nil, "strict") && override.Strict != nil {
		merged.Strict = override.Strict
	}
	if cl.explicit(override.EarlyStop != nil, "no-early-stop") && override.EarlyStop != nil {
		merged.EarlyStop = override.EarlyStop
	}
	if cl.explicit(override.Sort != nil, "sort", "no-sort") && override.Sort != nil {
		merged.Sort = override.Sort
	}
	if cl.explicit(override.ShowMerges, "merges") {
		merged.ShowMerges = override.ShowMerges
	}
	if cl.explicit(override.OutputFormat != "" && override.OutputFormat != domain.OutputFormatText,
		"json", "yaml", "csv", "format") && override.OutputFormat != "" {
		merged.OutputFormat = override.OutputFormat
	}
	if cl.explicit(override.OutputPath != "", "output") {
		merged.OutputPath = override.OutputPath
	}

	return &merged
}

// explicit reports whether an override applies: one of flagNames was set
// when flags are tracked, otherwise the caller's zero-value test.
func (cl *ClusterConfigurationLoaderImpl) explicit(nonZero bool, flagNames ...string) bool {
	if cl.flagTracker == nil {
		return nonZero
	}
	return cl.flagTracker.AnySet(flagNames...)
}

// configToRequest converts a Config to domain.ClusterRequest
func (cl *ClusterConfigurationLoaderImpl) configToRequest(cfg *config.Config) *domain.ClusterRequest {
	if cfg == nil {
		return domain.DefaultClusterRequest()
	}

	return &domain.ClusterRequest{
		Paths:        cfg.Input.Paths,
		Method:       domain.ClusterMethod(cfg.Clustering.Method),
		Cutoff:       cfg.Clustering.Cutoff,
		Strict:       cfg.Clustering.Strict,
		EarlyStop:    cfg.Clustering.EarlyStop,
		OutputFormat: domain.OutputFormat(cfg.Output.Format),
		OutputPath:   cfg.Output.Path,
		Sort:         cfg.Output.Sort,
		ShowMerges:   domain.BoolValue(cfg.Output.ShowMerges, false),
	}
}
