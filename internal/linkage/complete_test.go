package linkage

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runComplete(t *testing.T, records []Record, cutoff float64, strict bool) *Result {
	t.Helper()
	res, err := Run(NewCompleteLinkage(cutoff, strict), NewSliceSource(records))
	require.NoError(t, err)
	return res
}

func feed(t *testing.T, e *CompleteLinkage, records []Record) {
	t.Helper()
	for _, r := range records {
		done, err := e.Add(r)
		require.NoError(t, err)
		require.False(t, done)
	}
}

func TestCompleteLinkageDropsPairWithMissingDistance(t *testing.T) {
	res := runComplete(t, []Record{
		rec("A", "B", 0.1),
		rec("B", "C", 0.1),
		rec("A", "C", 0.3),
	}, 0.2, false)

	assert.Equal(t, []Assignment{
		{Label: "A", ClusterID: 1},
		{Label: "B", ClusterID: 1},
		{Label: "C", ClusterID: 2},
	}, res.Assignments)
	assert.Equal(t, 2, res.Clusters)
	require.Len(t, res.Merges, 1)
	assert.Equal(t, Merge{Survivor: "A", Absorbed: "B", Distance: 0.1, Size: 2}, res.Merges[0])
}

func TestCompleteLinkageDroppedPairLeavesNoCandidate(t *testing.T) {
	e := NewCompleteLinkage(0.2, false)
	feed(t, e, []Record{
		rec("A", "B", 0.1),
		rec("B", "C", 0.1),
		rec("A", "C", 0.3),
	})

	more, err := e.step()
	require.NoError(t, err)
	require.True(t, more)

	a, c := e.handles["A"], e.handles["C"]
	assert.Empty(t, e.candidates)
	assert.Empty(t, e.neighbors[a])
	assert.Empty(t, e.neighbors[c])
	assert.Nil(t, e.clusters[e.handles["B"]])

	more, err = e.step()
	require.NoError(t, err)
	assert.False(t, more)
}

func TestCompleteLinkageCutoffPolicy(t *testing.T) {
	records := []Record{rec("A", "B", 0.2)}

	t.Run("inclusive by default", func(t *testing.T) {
		res := runComplete(t, records, 0.2, false)
		assert.Equal(t, 1, res.Clusters)
		assert.Equal(t, 1, res.EdgesAdmitted)
	})

	t.Run("strict rejects the cutoff", func(t *testing.T) {
		res := runComplete(t, records, 0.2, true)
		assert.Equal(t, 2, res.Clusters)
		assert.Equal(t, 0, res.EdgesAdmitted)
		assert.Equal(t, []Assignment{{"A", 1}, {"B", 2}}, res.Assignments)
	})
}

func TestCompleteLinkageClique(t *testing.T) {
	res := runComplete(t, []Record{
		rec("w", "x", 0.10),
		rec("w", "y", 0.12),
		rec("w", "z", 0.14),
		rec("x", "y", 0.11),
		rec("x", "z", 0.13),
		rec("y", "z", 0.15),
	}, 0.2, false)

	assert.Equal(t, 1, res.Clusters)
	require.Len(t, res.Merges, 3)
	assert.Equal(t, Merge{Survivor: "w", Absorbed: "x", Distance: 0.10, Size: 2}, res.Merges[0])
	assert.Equal(t, Merge{Survivor: "w", Absorbed: "y", Distance: 0.12, Size: 3}, res.Merges[1])
	assert.Equal(t, Merge{Survivor: "w", Absorbed: "z", Distance: 0.15, Size: 4}, res.Merges[2])
}

func TestCompleteLinkageTieBreak(t *testing.T) {
	// (b, c) and (a, d) tie at 0.1; (a, d) is the smaller pair and merges first,
	// which leaves b and c without a defined distance to the new cluster.
	res := runComplete(t, []Record{
		rec("b", "c", 0.1),
		rec("d", "a", 0.1),
		rec("a", "b", 0.15),
	}, 0.5, false)

	require.Len(t, res.Merges, 2)
	assert.Equal(t, "a", res.Merges[0].Survivor)
	assert.Equal(t, "d", res.Merges[0].Absorbed)
	assert.Equal(t, "b", res.Merges[1].Survivor)
	assert.Equal(t, "c", res.Merges[1].Absorbed)
}

func TestCompleteLinkageDuplicatePairs(t *testing.T) {
	t.Run("later admitted distance wins", func(t *testing.T) {
		res := runComplete(t, []Record{rec("A", "B", 0.1), rec("B", "A", 0.15)}, 0.5, false)
		require.Len(t, res.Merges, 1)
		assert.Equal(t, 0.15, res.Merges[0].Distance)
	})

	t.Run("rejected duplicate keeps the admitted distance", func(t *testing.T) {
		res := runComplete(t, []Record{rec("A", "B", 0.1), rec("A", "B", 0.9)}, 0.5, false)
		require.Len(t, res.Merges, 1)
		assert.Equal(t, 0.1, res.Merges[0].Distance)
	})
}

func TestCompleteLinkageIDsFollowFirstAppearance(t *testing.T) {
	// A absorbs M and its cluster takes A's place in the enumeration.
	res := runComplete(t, []Record{
		rec("Z", "Z", 0),
		rec("M", "M", 0),
		rec("A", "M", 0.1),
	}, 0.5, false)

	assert.Equal(t, []Assignment{
		{Label: "Z", ClusterID: 1},
		{Label: "A", ClusterID: 2},
		{Label: "M", ClusterID: 2},
	}, res.Assignments)
	assert.Equal(t, 2, res.SelfPairs)
}

func TestCompleteLinkageRejectsAddAfterClustering(t *testing.T) {
	e := NewCompleteLinkage(0.5, false)
	feed(t, e, []Record{rec("A", "B", 0.1)})
	_, err := e.Result()
	require.NoError(t, err)

	_, err = e.Add(rec("C", "D", 0.1))
	assert.Error(t, err)
	_, err = e.Result()
	assert.Error(t, err)
}

func TestCompleteLinkageMergeOfAbsorbedClusterIsInvariantViolation(t *testing.T) {
	e := NewCompleteLinkage(0.5, false)
	feed(t, e, []Record{rec("A", "B", 0.1), rec("B", "C", 0.2)})

	a, b := e.handles["A"], e.handles["B"]
	require.NoError(t, e.merge(a, b, 0.1))

	err := e.merge(a, b, 0.1)
	assert.True(t, errors.Is(err, ErrInvariantViolation))
}

// checkInvariants verifies engine state between merges.
func checkInvariants(t *testing.T, e *CompleteLinkage) {
	t.Helper()

	owner := make(map[int]int)
	for h, r := range e.clusters {
		if r == nil {
			assert.Nil(t, e.neighbors[h], "absorbed cluster %s keeps neighbors", e.labels[h])
			continue
		}
		for _, m := range r.members {
			prev, dup := owner[m]
			require.False(t, dup, "label %s in clusters %d and %d", e.labels[m], prev, h)
			owner[m] = h
		}
		for other := range e.neighbors[h] {
			require.NotNil(t, e.clusters[other], "neighbor %s of %s was absorbed", e.labels[other], e.labels[h])
			_, back := e.neighbors[other][h]
			assert.True(t, back, "adjacency %s-%s is one-sided", e.labels[h], e.labels[other])
			_, ok := e.candidates[keyOf(h, other)]
			assert.True(t, ok, "adjacency %s-%s has no candidate", e.labels[h], e.labels[other])
		}
	}
	assert.Len(t, owner, len(e.labels))

	for k, cand := range e.candidates {
		rlo, rhi := e.clusters[k.lo], e.clusters[k.hi]
		require.NotNil(t, rlo)
		require.NotNil(t, rhi)
		d, ok := e.completeDistance(rlo, rhi)
		require.True(t, ok)
		assert.Equal(t, d, cand.distance)
	}
}

func randomDistances(rng *rand.Rand, n int, density float64) []Record {
	var records []Record
	for i := 0; i < n; i++ {
		records = append(records, rec(fmt.Sprintf("L%02d", i), fmt.Sprintf("L%02d", i), 0))
		for j := i + 1; j < n; j++ {
			if rng.Float64() > density {
				continue
			}
			// coarse values force ties
			d := float64(1+rng.Intn(12)) / 20
			records = append(records, rec(fmt.Sprintf("L%02d", i), fmt.Sprintf("L%02d", j), d))
		}
	}
	rng.Shuffle(len(records), func(i, j int) { records[i], records[j] = records[j], records[i] })
	return records
}

func TestCompleteLinkageInvariantsHoldAfterEveryMerge(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 25; trial++ {
		e := NewCompleteLinkage(0.4, false)
		feed(t, e, randomDistances(rng, 3+rng.Intn(15), 0.7))

		checkInvariants(t, e)
		last := -1.0
		for {
			more, err := e.step()
			require.NoError(t, err)
			if !more {
				break
			}
			checkInvariants(t, e)

			m := e.merges[len(e.merges)-1]
			assert.GreaterOrEqual(t, m.Distance, last, "merge distances must not decrease")
			assert.Less(t, m.Survivor, m.Absorbed)
			last = m.Distance
		}
	}
}

// referenceCompleteLinkage is a direct quadratic-scan rendition used as an oracle.
func referenceCompleteLinkage(records []Record, cutoff float64, strict bool) ([][]string, []Merge) {
	admission := CompleteLinkageAdmission(cutoff, strict)
	dist := make(map[[2]string]float64)
	var clusters [][]string
	seen := make(map[string]bool)

	for _, r := range records {
		for _, l := range []string{r.Label1, r.Label2} {
			if !seen[l] {
				seen[l] = true
				clusters = append(clusters, []string{l})
			}
		}
		if e, ok := admission.Admit(r); ok {
			dist[[2]string{e.A, e.B}] = e.Distance
		}
	}

	lookup := func(a, b string) (float64, bool) {
		if b < a {
			a, b = b, a
		}
		d, ok := dist[[2]string{a, b}]
		return d, ok
	}
	linkage := func(x, y []string) (float64, bool) {
		worst := 0.0
		for _, a := range x {
			for _, b := range y {
				d, ok := lookup(a, b)
				if !ok {
					return 0, false
				}
				if d > worst {
					worst = d
				}
			}
		}
		return worst, true
	}
	// a cluster's id is its smallest member, since the smaller id always survives
	id := func(c []string) string {
		smallest := c[0]
		for _, l := range c[1:] {
			if l < smallest {
				smallest = l
			}
		}
		return smallest
	}

	var merges []Merge
	for {
		bi, bj := -1, -1
		var best float64
		for i := range clusters {
			for j := i + 1; j < len(clusters); j++ {
				d, ok := linkage(clusters[i], clusters[j])
				if !ok {
					continue
				}
				lo, hi := id(clusters[i]), id(clusters[j])
				if hi < lo {
					lo, hi = hi, lo
				}
				if bi >= 0 {
					blo, bhi := id(clusters[bi]), id(clusters[bj])
					if blo > bhi {
						blo, bhi = bhi, blo
					}
					if d > best || (d == best && (lo > blo || (lo == blo && hi > bhi))) {
						continue
					}
				}
				bi, bj, best = i, j, d
			}
		}
		if bi < 0 {
			break
		}
		if id(clusters[bj]) < id(clusters[bi]) {
			bi, bj = bj, bi
		}
		merged := append(append([]string(nil), clusters[bi]...), clusters[bj]...)
		merges = append(merges, Merge{
			Survivor: id(clusters[bi]),
			Absorbed: id(clusters[bj]),
			Distance: best,
			Size:     len(merged),
		})
		clusters[bi] = merged
		clusters = append(clusters[:bj], clusters[bj+1:]...)
	}
	return clusters, merges
}

func TestCompleteLinkageMatchesReference(t *testing.T) {
	rng := rand.New(rand.NewSource(2024))

	for trial := 0; trial < 40; trial++ {
		records := randomDistances(rng, 2+rng.Intn(14), 0.8)
		cutoff := 0.3 + rng.Float64()*0.3
		strict := trial%2 == 1

		wantGroups, wantMerges := referenceCompleteLinkage(records, cutoff, strict)
		res := runComplete(t, records, cutoff, strict)

		assert.Equal(t, canonicalGroups(wantGroups), canonicalGroups(res.Groups()), "trial %d", trial)
		assert.Equal(t, wantMerges, res.Merges, "trial %d", trial)
	}
}

func TestCompleteLinkageMemberOrderFollowsMerges(t *testing.T) {
	res := runComplete(t, []Record{
		rec("c", "c", 0),
		rec("b", "b", 0),
		rec("a", "a", 0),
		rec("b", "c", 0.1),
		rec("a", "b", 0.2),
		rec("a", "c", 0.2),
	}, 0.5, false)

	groups := res.Groups()
	require.Len(t, groups, 1)
	// b survives the first merge and absorbs c; a then absorbs {b, c}.
	assert.Equal(t, []string{"a", "b", "c"}, groups[0])
	assert.True(t, sort.StringsAreSorted(groups[0]))
}
