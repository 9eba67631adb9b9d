package service

import (
	"sort"

	"github.com/ludo-technologies/distclust/domain"
	"github.com/ludo-technologies/distclust/internal/linkage"
	"gonum.org/v1/gonum/stat"
)

// Summarize computes descriptive statistics for a clustering result.
// The median is the empirical 0.5 quantile of the cluster sizes.
func Summarize(result *linkage.Result) domain.ClusterSummary {
	summary := domain.ClusterSummary{
		Labels:        len(result.Assignments),
		Clusters:      result.Clusters,
		RecordsRead:   result.RecordsRead,
		SelfPairs:     result.SelfPairs,
		EdgesAdmitted: result.EdgesAdmitted,
		Merges:        len(result.Merges),
		EarlyStopped:  result.EarlyStopped,
	}

	for _, m := range result.Merges {
		if m.Distance > summary.MaxMergeDistance {
			summary.MaxMergeDistance = m.Distance
		}
	}

	sizes := clusterSizes(result)
	if len(sizes) == 0 {
		return summary
	}

	for _, size := range sizes {
		if size == 1 {
			summary.Singletons++
		}
	}
	summary.LargestCluster = int(sizes[len(sizes)-1])
	summary.MeanSize = stat.Mean(sizes, nil)
	summary.MedianSize = stat.Quantile(0.5, stat.Empirical, sizes, nil)
	if len(sizes) > 1 {
		summary.SizeStdDev = stat.StdDev(sizes, nil)
	}
	return summary
}

// clusterSizes returns the member count of each cluster in ascending order
func clusterSizes(result *linkage.Result) []float64 {
	counts := make(map[int]int)
	for _, a := range result.Assignments {
		counts[a.ClusterID]++
	}
	sizes := make([]float64, 0, len(counts))
	for _, n := range counts {
		sizes = append(sizes, float64(n))
	}
	sort.Float64s(sizes)
	return sizes
}
