package app

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ludo-technologies/distclust/domain"
	"github.com/ludo-technologies/distclust/internal/logging"
	svc "github.com/ludo-technologies/distclust/service"
	"go.uber.org/zap"
)

// ClusterUseCase orchestrates the clustering workflow: configuration,
// validation, input resolution, clustering and output
type ClusterUseCase struct {
	service      domain.ClusterService
	resolver     domain.InputResolver
	formatter    domain.ClusterOutputFormatter
	configLoader domain.ClusterConfigurationLoader
	output       domain.ReportWriter
	summary      io.Writer
	logger       *zap.Logger
}

// NewClusterUseCase creates a new clustering use case
func NewClusterUseCase(
	service domain.ClusterService,
	resolver domain.InputResolver,
	formatter domain.ClusterOutputFormatter,
	configLoader domain.ClusterConfigurationLoader,
) *ClusterUseCase {
	return &ClusterUseCase{
		service:      service,
		resolver:     resolver,
		formatter:    formatter,
		configLoader: configLoader,
		output:       svc.NewFileOutputWriter(nil),
		summary:      os.Stderr,
		logger:       zap.NewNop(),
	}
}

// prepare merges configuration before validation so callers may leave the
// cutoff at zero and rely on the config file or environment to supply it.
func (uc *ClusterUseCase) prepare(req domain.ClusterRequest) (domain.ClusterRequest, error) {
	finalReq, err := uc.loadAndMergeConfig(req)
	if err != nil {
		return req, keepCode(err, func(err error) error {
			return domain.NewConfigError("failed to load configuration", err)
		})
	}

	if finalReq.Input == nil && len(finalReq.Paths) == 0 {
		uc.logger.Debug("no input paths given, reading stdin")
		finalReq.Paths = []string{domain.StdinPath}
	}

	if err := uc.validateRequest(finalReq); err != nil {
		return req, keepCode(err, func(err error) error {
			return domain.NewInvalidInputError("invalid request", err)
		})
	}

	sources, err := ResolveInputs(uc.resolver, finalReq)
	if err != nil {
		return req, keepCode(err, func(err error) error {
			return domain.NewFileNotFoundError("failed to resolve inputs", err)
		})
	}
	if sources != nil {
		finalReq.Paths = sources
	}

	uc.logger.Debug("request prepared",
		zap.String("method", string(finalReq.Method)),
		zap.Float64("cutoff", finalReq.Cutoff),
		zap.String("format", string(finalReq.OutputFormat)),
		zap.Strings("sources", finalReq.Paths))
	return finalReq, nil
}

// Execute performs the complete clustering workflow and writes the result
func (uc *ClusterUseCase) Execute(ctx context.Context, req domain.ClusterRequest) error {
	finalReq, err := uc.prepare(req)
	if err != nil {
		return err
	}
	if finalReq.OutputWriter == nil && finalReq.OutputPath == "" {
		return domain.NewInvalidInputError("invalid request", fmt.Errorf("output writer or output path is required"))
	}

	response, err := uc.cluster(ctx, finalReq)
	if err != nil {
		return err
	}

	var out io.Writer
	if finalReq.OutputPath == "" {
		out = finalReq.OutputWriter
	}
	if err := uc.output.Write(out, finalReq.OutputPath, finalReq.OutputFormat, func(w io.Writer) error {
		return uc.formatter.Write(response, finalReq.OutputFormat, w)
	}); err != nil {
		return keepCode(err, func(err error) error {
			return domain.NewOutputError("failed to write output", err)
		})
	}

	if finalReq.ShowSummary && uc.summary != nil {
		fmt.Fprint(uc.summary, svc.FormatSummary(response.Summary))
	}

	return nil
}

// ClusterAndReturn clusters the request's input and returns the response
// without formatting
func (uc *ClusterUseCase) ClusterAndReturn(ctx context.Context, req domain.ClusterRequest) (*domain.ClusterResponse, error) {
	finalReq, err := uc.prepare(req)
	if err != nil {
		return nil, err
	}
	return uc.cluster(ctx, finalReq)
}

func (uc *ClusterUseCase) cluster(ctx context.Context, req domain.ClusterRequest) (*domain.ClusterResponse, error) {
	response, err := uc.service.Cluster(ctx, req)
	if err != nil {
		return nil, keepCode(err, func(err error) error {
			return domain.NewAnalysisError("clustering failed", err)
		})
	}

	s := response.Summary
	uc.logger.Info("clustering complete",
		zap.Int("labels", s.Labels),
		zap.Int("clusters", s.Clusters),
		zap.Int("singletons", s.Singletons),
		zap.Int("largest", s.LargestCluster),
		zap.Float64("mean_size", s.MeanSize),
		zap.Float64("median_size", s.MedianSize),
		zap.Int("records", s.RecordsRead),
		zap.Int("merges", s.Merges),
		zap.Bool("early_stopped", s.EarlyStopped))
	return response, nil
}

// validateRequest validates the clustering request
func (uc *ClusterUseCase) validateRequest(req domain.ClusterRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	if req.Method != domain.ClusterMethodComplete && domain.BoolValue(req.Strict, false) {
		uc.logger.Warn("--strict only applies to complete linkage; single linkage is always cutoff-exclusive")
	}
	return nil
}

// loadAndMergeConfig loads configuration from file and merges with request
func (uc *ClusterUseCase) loadAndMergeConfig(req domain.ClusterRequest) (domain.ClusterRequest, error) {
	if uc.configLoader == nil {
		return req, nil
	}

	var configReq *domain.ClusterRequest
	var err error

	if req.ConfigPath != "" {
		configReq, err = uc.configLoader.LoadConfig(req.ConfigPath)
		if err != nil {
			return req, err
		}
	} else {
		configReq = uc.configLoader.LoadDefaultConfig()
	}

	if configReq != nil {
		merged := uc.configLoader.MergeConfig(configReq, &req)
		return *merged, nil
	}

	return req, nil
}

// ClusterUseCaseBuilder provides a builder pattern for creating ClusterUseCase
type ClusterUseCaseBuilder struct {
	service      domain.ClusterService
	resolver     domain.InputResolver
	formatter    domain.ClusterOutputFormatter
	configLoader domain.ClusterConfigurationLoader
	output       domain.ReportWriter
	summary      io.Writer
	logger       *zap.Logger
}

// NewClusterUseCaseBuilder creates a new builder
func NewClusterUseCaseBuilder() *ClusterUseCaseBuilder {
	return &ClusterUseCaseBuilder{}
}

// WithService sets the clustering service
func (b *ClusterUseCaseBuilder) WithService(service domain.ClusterService) *ClusterUseCaseBuilder {
	b.service = service
	return b
}

// WithInputResolver sets the input resolver
func (b *ClusterUseCaseBuilder) WithInputResolver(resolver domain.InputResolver) *ClusterUseCaseBuilder {
	b.resolver = resolver
	return b
}

// WithFormatter sets the output formatter
func (b *ClusterUseCaseBuilder) WithFormatter(formatter domain.ClusterOutputFormatter) *ClusterUseCaseBuilder {
	b.formatter = formatter
	return b
}

// WithConfigLoader sets the configuration loader
func (b *ClusterUseCaseBuilder) WithConfigLoader(configLoader domain.ClusterConfigurationLoader) *ClusterUseCaseBuilder {
	b.configLoader = configLoader
	return b
}

// WithOutputWriter sets the report writer
func (b *ClusterUseCaseBuilder) WithOutputWriter(output domain.ReportWriter) *ClusterUseCaseBuilder {
	b.output = output
	return b
}

// WithSummaryWriter sets where the run summary goes when requested
func (b *ClusterUseCaseBuilder) WithSummaryWriter(w io.Writer) *ClusterUseCaseBuilder {
	b.summary = w
	return b
}

// WithLogger sets the logger
func (b *ClusterUseCaseBuilder) WithLogger(logger *zap.Logger) *ClusterUseCaseBuilder {
	b.logger = logger
	return b
}

// Build creates the ClusterUseCase with the configured dependencies
func (b *ClusterUseCaseBuilder) Build() (*ClusterUseCase, error) {
	if b.service == nil {
		return nil, fmt.Errorf("cluster service is required")
	}
	if b.formatter == nil {
		return nil, fmt.Errorf("output formatter is required")
	}

	uc := NewClusterUseCase(
		b.service,
		b.resolver,
		b.formatter,
		b.configLoader,
	)
	if b.output != nil {
		uc.output = b.output
	}
	if b.summary != nil {
		uc.summary = b.summary
	}
	uc.logger = logging.OrNop(b.logger)
	return uc, nil
}
