package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ludo-technologies/distclust/domain"
	"github.com/ludo-technologies/distclust/internal/linkage"
	"github.com/ludo-technologies/distclust/internal/logging"
	"github.com/ludo-technologies/distclust/internal/version"
	"go.uber.org/zap"
)

// ClusterServiceImpl implements the ClusterService interface
type ClusterServiceImpl struct {
	resolver domain.InputResolver
	progress domain.ProgressManager
	logger   *zap.Logger
}

// NewClusterService creates a clustering service. Nil dependencies fall back
// to stdin-aware file resolution, no progress and no logging.
func NewClusterService(resolver domain.InputResolver, progress domain.ProgressManager, logger *zap.Logger) *ClusterServiceImpl {
	if resolver == nil {
		resolver = NewInputResolver(nil)
	}
	if progress == nil {
		progress = NoopProgressManager{}
	}
	return &ClusterServiceImpl{
		resolver: resolver,
		progress: progress,
		logger:   logging.OrNop(logger),
	}
}

// Cluster reads the request's input as one record stream and clusters it
func (s *ClusterServiceImpl) Cluster(ctx context.Context, req domain.ClusterRequest) (*domain.ClusterResponse, error) {
	cfg := linkage.Config{
		Method:    linkage.Method(req.Method),
		Cutoff:    req.Cutoff,
		Strict:    domain.BoolValue(req.Strict, false),
		EarlyStop: domain.BoolValue(req.EarlyStop, domain.DefaultEarlyStop),
	}
	engine, err := linkage.NewEngine(cfg)
	if err != nil {
		return nil, domain.NewInvalidInputError("invalid clustering parameters", err)
	}

	stream, sources, err := s.openStream(ctx, req)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	s.logger.Debug("clustering started",
		zap.String("method", string(cfg.Method)),
		zap.Float64("cutoff", cfg.Cutoff),
		zap.Stringer("admission", s.admissionPolicy(cfg)),
		zap.Bool("early_stop", cfg.EarlyStop),
		zap.Strings("sources", sources))

	started := time.Now()
	s.progress.Start()
	result, err := linkage.Run(engine, stream)
	s.progress.Complete(err == nil)
	if err != nil {
		return nil, s.mapError(err, stream.Source())
	}

	s.logger.Debug("clustering finished",
		zap.String("engine", engine.Name()),
		zap.Int("records", result.RecordsRead),
		zap.Int("edges", result.EdgesAdmitted),
		zap.Int("clusters", result.Clusters),
		zap.Int("merges", len(result.Merges)),
		zap.Duration("elapsed", time.Since(started)))
	if result.EarlyStopped {
		s.logger.Warn("single linkage stopped early, later records were not read (use --no-early-stop to read all input)",
			zap.Int("records", result.RecordsRead),
			zap.Int("declared", result.SelfPairs))
	}

	return s.buildResponse(req, cfg, result, sources), nil
}

func (s *ClusterServiceImpl) admissionPolicy(cfg linkage.Config) linkage.CutoffPolicy {
	if cfg.Method == linkage.MethodComplete {
		return linkage.CompleteLinkageAdmission(cfg.Cutoff, cfg.Strict).Policy
	}
	return linkage.SingleLinkageAdmission(cfg.Cutoff).Policy
}

func (s *ClusterServiceImpl) openStream(ctx context.Context, req domain.ClusterRequest) (*recordStream, []string, error) {
	if req.Input != nil {
		name := req.InputName
		if name == "" {
			name = "<input>"
		}
		s.progress.Initialize(-1)
		return newReaderStream(ctx, name, req.Input, s.progress), []string{name}, nil
	}

	sources, err := s.resolver.Resolve(req.Paths)
	if err != nil {
		return nil, nil, err
	}

	var total int64
	for _, src := range sources {
		size := s.resolver.Size(src)
		if size < 0 {
			total = -1
			break
		}
		total += size
	}
	s.progress.Initialize(total)

	return newRecordStream(ctx, s.resolver, s.progress, sources), sources, nil
}

// mapError converts engine and reader failures into domain errors
func (s *ClusterServiceImpl) mapError(err error, source string) error {
	switch {
	case domain.ErrorCode(err) != "":
		return err
	case errors.Is(err, linkage.ErrMalformedRecord):
		return domain.NewMalformedRecordError(source, err)
	case errors.Is(err, linkage.ErrInvariantViolation):
		s.logger.Error("clustering invariant violated", zap.Error(err))
		return domain.NewInvariantViolationError(err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return domain.NewAnalysisError("clustering cancelled", err)
	default:
		return domain.NewAnalysisError(fmt.Sprintf("failed to read %s", source), err)
	}
}

func (s *ClusterServiceImpl) buildResponse(req domain.ClusterRequest, cfg linkage.Config, result *linkage.Result, sources []string) *domain.ClusterResponse {
	sorted := req.ShouldSort()
	assignments := result.Assignments
	if sorted {
		assignments = result.Sorted()
	}

	out := make([]domain.ClusterAssignment, len(assignments))
	for i, a := range assignments {
		out[i] = domain.ClusterAssignment{Label: a.Label, ClusterID: a.ClusterID}
	}

	var merges []domain.MergeStep
	if req.ShowMerges {
		merges = make([]domain.MergeStep, len(result.Merges))
		for i, m := range result.Merges {
			merges[i] = domain.MergeStep{
				Step:     i + 1,
				Survivor: m.Survivor,
				Absorbed: m.Absorbed,
				Distance: m.Distance,
				Size:     m.Size,
			}
		}
	}

	return &domain.ClusterResponse{
		Method:      req.Method,
		Cutoff:      cfg.Cutoff,
		Strict:      cfg.Method == linkage.MethodComplete && cfg.Strict,
		Sorted:      sorted,
		Assignments: out,
		Merges:      merges,
		Summary:     Summarize(result),
		Sources:     sources,
		GeneratedAt: time.Now().Format(time.RFC3339),
		Version:     version.Short(),
	}
}
