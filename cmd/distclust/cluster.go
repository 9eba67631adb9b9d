package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/ludo-technologies/distclust/app"
	"github.com/ludo-technologies/distclust/domain"
	"github.com/ludo-technologies/distclust/internal/config"
	"github.com/ludo-technologies/distclust/internal/logging"
	"github.com/ludo-technologies/distclust/service"
	"github.com/spf13/cobra"
)

// ClusterCommand holds the flags of the clustering command
type ClusterCommand struct {
	inputs      []string
	output      string
	cutoff      float64
	method      string
	strict      bool
	noEarlyStop bool
	sort        bool
	noSort      bool
	merges      bool
	summary     bool

	// Output format flags (only one should be set)
	json   bool
	yaml   bool
	csv    bool
	format string

	configFile string
	verbose    bool
}

// NewClusterCommand creates a new clustering command
func NewClusterCommand() *ClusterCommand {
	return &ClusterCommand{method: string(domain.DefaultClusterMethod)}
}

// CreateCobraCommand creates the cobra command for clustering
func (c *ClusterCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "distclust [paths...]",
		Short: "Cluster labels from a list of pairwise distances",
		Long: `distclust reads "label1 label2 distance" lines and groups the labels with
single linkage (connected components of pairs closer than the cutoff) or
complete linkage (every pair in a cluster within the cutoff).

A line "x x 0" declares label x. Blank lines and lines starting with # are
skipped, unless they form a valid record such as "#12 A 0.1". Files are read in order as one stream; "-" or no path reads stdin.

Output:
  single linkage    "id<TAB>label" sorted by id then label, ids from 0
  complete linkage  "label id" in cluster order, ids from 1

Examples:
  # Single linkage over a mash/dnadist style distance list
  distclust --cutoff 0.03 distances.txt

  # Complete linkage, original flag form
  distclust --input distances.txt --output clusters.txt --cutoff 0.03 --method complete

  # Several files and a glob, JSON report with the merge history
  distclust -m complete --cutoff 0.05 --merges --json 'runs/**/*.dist'

  # Read from a pipe
  mash dist ref.msh query.msh | cut -f1-3 | distclust --cutoff 0.05 -`,
		Args: cobra.ArbitraryArgs,
		RunE: c.run,
	}

	cmd.Flags().StringSliceVarP(&c.inputs, "input", "i", nil, "Input file, glob or - for stdin (repeatable)")
	cmd.Flags().StringVarP(&c.output, "output", "o", "", "Write clusters to this file instead of stdout")
	cmd.Flags().Float64Var(&c.cutoff, "cutoff", 0, "Distance cutoff (required unless set in config)")
	cmd.Flags().StringVarP(&c.method, "method", "m", string(domain.DefaultClusterMethod), "Linkage method (single|complete)")
	cmd.Flags().BoolVar(&c.strict, "strict", false, "Complete linkage: reject distances equal to the cutoff")
	cmd.Flags().BoolVar(&c.noEarlyStop, "no-early-stop", false, "Single linkage: read the whole input even once as many labels are clustered as declared")
	cmd.Flags().BoolVar(&c.sort, "sort", false, "Sort output by cluster id and label")
	cmd.Flags().BoolVar(&c.noSort, "no-sort", false, "Keep cluster enumeration order")
	cmd.Flags().BoolVar(&c.merges, "merges", false, "Include the complete-linkage merge history")
	cmd.Flags().BoolVar(&c.summary, "summary", false, "Print run statistics to stderr")

	cmd.Flags().BoolVar(&c.json, "json", false, "Output JSON")
	cmd.Flags().BoolVar(&c.yaml, "yaml", false, "Output YAML")
	cmd.Flags().BoolVar(&c.csv, "csv", false, "Output CSV (label,cluster_id)")
	cmd.Flags().StringVar(&c.format, "format", "", "Output format (text|json|yaml|csv)")

	cmd.Flags().StringVarP(&c.configFile, "config", "c", "", "Configuration file path (.toml, .yaml or .json)")

	return cmd
}

// buildRequest maps flags onto a request. Values of flags the user did not
// set are ignored later by the flag-aware config loader.
func (c *ClusterCommand) buildRequest(cmd *cobra.Command, args []string) (domain.ClusterRequest, error) {
	format, err := c.outputFormat(cmd)
	if err != nil {
		return domain.ClusterRequest{}, err
	}

	req := domain.ClusterRequest{
		Paths:        append(append([]string{}, args...), c.inputs...),
		Method:       domain.ClusterMethod(strings.ToLower(c.method)),
		Cutoff:       c.cutoff,
		Strict:       domain.BoolPtr(c.strict),
		EarlyStop:    domain.BoolPtr(!c.noEarlyStop),
		OutputFormat: format,
		OutputWriter: cmd.OutOrStdout(),
		OutputPath:   c.output,
		ShowMerges:   c.merges,
		ShowSummary:  c.summary,
		ConfigPath:   c.configFile,
		Verbose:      c.verbose,
	}

	switch {
	case c.sort && c.noSort:
		return req, fmt.Errorf("--sort and --no-sort cannot be combined")
	case c.sort:
		req.Sort = domain.BoolPtr(true)
	case c.noSort:
		req.Sort = domain.BoolPtr(false)
	}

	return req, nil
}

func (c *ClusterCommand) outputFormat(cmd *cobra.Command) (domain.OutputFormat, error) {
	resolver := service.NewOutputFormatResolver()
	format, _, err := resolver.Determine(c.json, c.csv, c.yaml)
	if err != nil {
		return "", err
	}
	if !cmd.Flags().Changed("format") {
		return format, nil
	}
	if c.json || c.csv || c.yaml {
		return "", fmt.Errorf("--format cannot be combined with --json, --yaml or --csv")
	}
	return resolver.Parse(c.format)
}

func (c *ClusterCommand) run(cmd *cobra.Command, args []string) error {
	req, err := c.buildRequest(cmd, args)
	if err != nil {
		return err
	}

	logger := logging.New(c.verbose, cmd.ErrOrStderr())
	defer func() { _ = logger.Sync() }()

	progress := service.NewProgressManager()
	progress.SetWriter(cmd.ErrOrStderr())
	defer progress.Close()

	resolver := service.NewInputResolver(cmd.InOrStdin())
	tracker := config.NewFlagTrackerFromFlagSet(cmd.Flags())

	useCase, err := app.NewClusterUseCaseBuilder().
		WithService(service.NewClusterService(resolver, progress, logger)).
		WithInputResolver(resolver).
		WithFormatter(service.NewClusterFormatter()).
		WithConfigLoader(service.NewClusterConfigurationLoaderWithFlags(tracker)).
		WithOutputWriter(service.NewFileOutputWriter(cmd.ErrOrStderr())).
		WithSummaryWriter(cmd.ErrOrStderr()).
		WithLogger(logger).
		Build()
	if err != nil {
		return fmt.Errorf("failed to create cluster use case: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return useCase.Execute(ctx, req)
}
