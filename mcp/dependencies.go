package mcp

import (
	"strings"

	"github.com/ludo-technologies/distclust/app"
	"github.com/ludo-technologies/distclust/internal/logging"
	"github.com/ludo-technologies/distclust/service"
	"go.uber.org/zap"
)

// Dependencies aggregates the shared services required by MCP handlers.
type Dependencies struct {
	configPath string
	logger     *zap.Logger
}

// NewDependencies constructs the dependency set. An empty configPath
// triggers .distclust.toml discovery on every call.
func NewDependencies(configPath string, logger *zap.Logger) *Dependencies {
	return &Dependencies{
		configPath: configPath,
		logger:     logging.OrNop(logger),
	}
}

// ConfigPath returns the configured config file path (may be empty to trigger discovery).
func (d *Dependencies) ConfigPath() string {
	return d.configPath
}

// Logger returns the server logger
func (d *Dependencies) Logger() *zap.Logger {
	return d.logger
}

// BuildClusterUseCase assembles a fresh ClusterUseCase. Stdin carries the
// JSON-RPC stream, so the resolver is given an empty reader instead.
func (d *Dependencies) BuildClusterUseCase() (*app.ClusterUseCase, error) {
	resolver := service.NewInputResolver(strings.NewReader(""))
	return app.NewClusterUseCaseBuilder().
		WithService(service.NewClusterService(resolver, service.NoopProgressManager{}, d.logger)).
		WithInputResolver(resolver).
		WithFormatter(service.NewClusterFormatter()).
		WithConfigLoader(service.NewClusterConfigurationLoader()).
		WithLogger(d.logger).
		Build()
}
