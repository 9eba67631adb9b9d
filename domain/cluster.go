package domain

import (
	"context"
	"io"
)

// ClusterMethod selects the linkage strategy
type ClusterMethod string

const (
	ClusterMethodSingle   ClusterMethod = "single"
	ClusterMethodComplete ClusterMethod = "complete"
)

// ClusterRequest represents a request to cluster a distance list
type ClusterRequest struct {
	// Input files, globs or "-" for stdin. Files are read in order as one stream.
	Paths []string
	// Input overrides Paths when set (used by the MCP server and tests)
	Input     io.Reader
	InputName string

	// Clustering parameters
	Method ClusterMethod
	Cutoff float64
	// Strict rejects distances equal to the cutoff (complete linkage only)
	Strict *bool
	// EarlyStop stops single linkage once as many labels are clustered as self-declared
	EarlyStop *bool

	// Output configuration
	OutputFormat OutputFormat
	OutputWriter io.Writer
	OutputPath   string
	// Sort orders assignments by (cluster id, label). nil picks the
	// conventional order for the method.
	Sort        *bool
	ShowMerges  bool
	ShowSummary bool

	// Configuration
	ConfigPath string
	Verbose    bool
}

// ClusterAssignment maps one label to its cluster id
type ClusterAssignment struct {
	Label     string `json:"label" yaml:"label" csv:"label"`
	ClusterID int    `json:"cluster_id" yaml:"cluster_id" csv:"cluster_id"`
}

// MergeStep records one complete-linkage merge
type MergeStep struct {
	Step     int     `json:"step" yaml:"step"`
	Survivor string  `json:"survivor" yaml:"survivor"`
	Absorbed string  `json:"absorbed" yaml:"absorbed"`
	Distance float64 `json:"distance" yaml:"distance"`
	Size     int     `json:"size" yaml:"size"`
}

// ClusterSummary holds descriptive statistics of a clustering run
type ClusterSummary struct {
	Labels           int     `json:"labels" yaml:"labels"`
	Clusters         int     `json:"clusters" yaml:"clusters"`
	Singletons       int     `json:"singletons" yaml:"singletons"`
	LargestCluster   int     `json:"largest_cluster" yaml:"largest_cluster"`
	MeanSize         float64 `json:"mean_size" yaml:"mean_size"`
	MedianSize       float64 `json:"median_size" yaml:"median_size"`
	SizeStdDev       float64 `json:"size_stddev" yaml:"size_stddev"`
	RecordsRead      int     `json:"records_read" yaml:"records_read"`
	SelfPairs        int     `json:"self_pairs" yaml:"self_pairs"`
	EdgesAdmitted    int     `json:"edges_admitted" yaml:"edges_admitted"`
	Merges           int     `json:"merges" yaml:"merges"`
	MaxMergeDistance float64 `json:"max_merge_distance" yaml:"max_merge_distance"`
	EarlyStopped     bool    `json:"early_stopped" yaml:"early_stopped"`
}

// ClusterResponse represents the complete clustering result
type ClusterResponse struct {
	Method      ClusterMethod       `json:"method" yaml:"method"`
	Cutoff      float64             `json:"cutoff" yaml:"cutoff"`
	Strict      bool                `json:"strict" yaml:"strict"`
	Sorted      bool                `json:"sorted" yaml:"sorted"`
	Assignments []ClusterAssignment `json:"assignments" yaml:"assignments"`
	Merges      []MergeStep         `json:"merges,omitempty" yaml:"merges,omitempty"`
	Summary     ClusterSummary      `json:"summary" yaml:"summary"`

	// Metadata
	Sources     []string `json:"sources" yaml:"sources"`
	GeneratedAt string   `json:"generated_at" yaml:"generated_at"`
	Version     string   `json:"version" yaml:"version"`
}

// ClusterService defines the core business logic for clustering
type ClusterService interface {
	// Cluster reads every record of the request's input and clusters it
	Cluster(ctx context.Context, req ClusterRequest) (*ClusterResponse, error)
}

// ClusterConfigurationLoader defines the interface for loading clustering configuration
type ClusterConfigurationLoader interface {
	// LoadConfig loads configuration from the specified path
	LoadConfig(path string) (*ClusterRequest, error)

	// LoadDefaultConfig loads the default configuration
	LoadDefaultConfig() *ClusterRequest

	// MergeConfig merges CLI flags with configuration file
	MergeConfig(base *ClusterRequest, override *ClusterRequest) *ClusterRequest
}

// ClusterOutputFormatter defines the interface for formatting clustering results
type ClusterOutputFormatter interface {
	// Format formats the response according to the specified format
	Format(response *ClusterResponse, format OutputFormat) (string, error)

	// Write writes the formatted output to the writer
	Write(response *ClusterResponse, format OutputFormat, writer io.Writer) error
}

// InputResolver expands request paths into readable sources
type InputResolver interface {
	// Resolve expands globs and validates paths. "-" stands for stdin.
	Resolve(paths []string) ([]string, error)

	// Open opens one resolved source for reading
	Open(source string) (io.ReadCloser, error)

	// Size returns the byte size of a source, or -1 when unknown
	Size(source string) int64
}

// DefaultClusterRequest returns a ClusterRequest with default values
func DefaultClusterRequest() *ClusterRequest {
	return &ClusterRequest{
		Method:       DefaultClusterMethod,
		Cutoff:       0, // required
		Strict:       BoolPtr(false),
		EarlyStop:    BoolPtr(DefaultEarlyStop),
		OutputFormat: OutputFormatText,
		ShowMerges:   false,
	}
}

// SortsByDefault reports whether the method's conventional output is sorted
func (m ClusterMethod) SortsByDefault() bool {
	return m == ClusterMethodSingle
}

// ShouldSort resolves the effective sort order for the request
func (req *ClusterRequest) ShouldSort() bool {
	return BoolValue(req.Sort, req.Method.SortsByDefault())
}

// Validate validates the cluster request
func (req *ClusterRequest) Validate() error {
	if req.Input == nil && len(req.Paths) == 0 {
		return NewInvalidInputError("at least one input path must be specified", nil)
	}

	validMethods := map[ClusterMethod]bool{
		ClusterMethodSingle:   true,
		ClusterMethodComplete: true,
	}
	if !validMethods[req.Method] {
		return NewInvalidInputError("invalid method (expected single or complete): "+string(req.Method), nil)
	}

	if !(req.Cutoff > 0) {
		return NewInvalidInputError("cutoff must be greater than 0", nil)
	}

	validFormats := map[OutputFormat]bool{
		OutputFormatText: true,
		OutputFormatJSON: true,
		OutputFormatYAML: true,
		OutputFormatCSV:  true,
	}
	if !validFormats[req.OutputFormat] {
		return NewUnsupportedFormatError(string(req.OutputFormat))
	}

	return nil
}
