package service

import (
	"testing"

	"github.com/ludo-technologies/distclust/internal/linkage"
	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	t.Run("cluster size statistics", func(t *testing.T) {
		result := &linkage.Result{
			Assignments: []linkage.Assignment{
				{Label: "a", ClusterID: 0},
				{Label: "b", ClusterID: 0},
				{Label: "c", ClusterID: 0},
				{Label: "d", ClusterID: 1},
				{Label: "e", ClusterID: 2},
			},
			Clusters:      3,
			RecordsRead:   7,
			SelfPairs:     2,
			EdgesAdmitted: 3,
		}

		summary := Summarize(result)
		assert.Equal(t, 5, summary.Labels)
		assert.Equal(t, 3, summary.Clusters)
		assert.Equal(t, 2, summary.Singletons)
		assert.Equal(t, 3, summary.LargestCluster)
		assert.InDelta(t, 5.0/3.0, summary.MeanSize, 1e-9)
		assert.InDelta(t, 1.0, summary.MedianSize, 1e-9)
		// sample standard deviation of {1, 1, 3}
		assert.InDelta(t, 1.1547005, summary.SizeStdDev, 1e-6)
		assert.Equal(t, 7, summary.RecordsRead)
		assert.Equal(t, 2, summary.SelfPairs)
		assert.Equal(t, 3, summary.EdgesAdmitted)
	})

	t.Run("merge statistics", func(t *testing.T) {
		result := &linkage.Result{
			Assignments: []linkage.Assignment{{Label: "a", ClusterID: 1}, {Label: "b", ClusterID: 1}},
			Clusters:    1,
			Merges: []linkage.Merge{
				{Survivor: "a", Absorbed: "b", Distance: 0.02, Size: 2},
			},
		}
		summary := Summarize(result)
		assert.Equal(t, 1, summary.Merges)
		assert.InDelta(t, 0.02, summary.MaxMergeDistance, 1e-12)
		assert.Zero(t, summary.SizeStdDev)
		assert.InDelta(t, 2.0, summary.MedianSize, 1e-9)
	})

	t.Run("empty result", func(t *testing.T) {
		summary := Summarize(&linkage.Result{EarlyStopped: true})
		assert.Zero(t, summary.Labels)
		assert.Zero(t, summary.MeanSize)
		assert.True(t, summary.EarlyStopped)
	})
}
