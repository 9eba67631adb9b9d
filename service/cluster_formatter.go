package service

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ludo-technologies/distclust/domain"
)

// ClusterFormatterImpl implements the ClusterOutputFormatter interface
type ClusterFormatterImpl struct{}

// NewClusterFormatter creates a new clustering output formatter
func NewClusterFormatter() *ClusterFormatterImpl {
	return &ClusterFormatterImpl{}
}

// Format formats the clustering response according to the specified format
func (f *ClusterFormatterImpl) Format(response *domain.ClusterResponse, format domain.OutputFormat) (string, error) {
	if response == nil {
		return "", domain.NewOutputError("nothing to format", nil)
	}
	switch format {
	case domain.OutputFormatText:
		return f.formatText(response), nil
	case domain.OutputFormatJSON:
		return EncodeJSON(response)
	case domain.OutputFormatYAML:
		return EncodeYAML(response)
	case domain.OutputFormatCSV:
		return f.formatCSV(response)
	default:
		return "", domain.NewUnsupportedFormatError(string(format))
	}
}

// Write writes the formatted output to the writer
func (f *ClusterFormatterImpl) Write(response *domain.ClusterResponse, format domain.OutputFormat, writer io.Writer) error {
	formatted, err := f.Format(response, format)
	if err != nil {
		return err
	}
	_, err = io.WriteString(writer, formatted)
	return err
}

// formatText renders the conventional line format of each method. Single
// linkage prints "id<TAB>label", complete linkage prints "label id". Merge
// history, when present, follows as '#' comment lines.
func (f *ClusterFormatterImpl) formatText(response *domain.ClusterResponse) string {
	var builder strings.Builder

	for _, a := range response.Assignments {
		id := strconv.Itoa(a.ClusterID)
		if response.Method == domain.ClusterMethodComplete {
			builder.WriteString(a.Label + " " + id + "\n")
		} else {
			builder.WriteString(id + "\t" + a.Label + "\n")
		}
	}

	if len(response.Merges) > 0 {
		builder.WriteString("# merges: step survivor absorbed distance size\n")
		for _, m := range response.Merges {
			builder.WriteString(fmt.Sprintf("# %d %s %s %s %d\n",
				m.Step, m.Survivor, m.Absorbed, strconv.FormatFloat(m.Distance, 'g', -1, 64), m.Size))
		}
	}

	return builder.String()
}

func (f *ClusterFormatterImpl) formatCSV(response *domain.ClusterResponse) (string, error) {
	if len(response.Assignments) == 0 {
		return "label,cluster_id\n", nil
	}
	return EncodeCSV(response.Assignments)
}

// FormatSummary renders the run statistics for verbose CLI output
func FormatSummary(summary domain.ClusterSummary) string {
	var builder strings.Builder
	line := func(label string, value interface{}) {
		builder.WriteString(fmt.Sprintf("%18s: %v\n", label, value))
	}

	line("Labels", summary.Labels)
	line("Clusters", summary.Clusters)
	line("Singletons", summary.Singletons)
	line("Largest Cluster", summary.LargestCluster)
	line("Mean Size", fmt.Sprintf("%.2f", summary.MeanSize))
	line("Median Size", fmt.Sprintf("%.2f", summary.MedianSize))
	line("Size Std Dev", fmt.Sprintf("%.2f", summary.SizeStdDev))
	line("Records Read", summary.RecordsRead)
	line("Self Pairs", summary.SelfPairs)
	line("Edges Admitted", summary.EdgesAdmitted)
	if summary.Merges > 0 {
		line("Merges", summary.Merges)
		line("Max Merge Dist", strconv.FormatFloat(summary.MaxMergeDistance, 'g', -1, 64))
	}
	if summary.EarlyStopped {
		line("Early Stopped", true)
	}
	return builder.String()
}
