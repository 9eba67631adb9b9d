package linkage

import (
	"sort"
)

// Partition lists final clusters in enumeration order. Each inner slice holds
// the member labels of one cluster.
type Partition [][]string

// Assignment maps a label to its normalized cluster id.
type Assignment struct {
	Label     string
	ClusterID int
}

// Merge records one complete-linkage merge step.
type Merge struct {
	Survivor string
	Absorbed string
	Distance float64
	Size     int // members in the surviving cluster after the merge
}

// Result is the normalized output of an engine run.
type Result struct {
	Method      Method
	Assignments []Assignment
	Clusters    int
	Merges      []Merge

	RecordsRead   int
	SelfPairs     int
	EdgesAdmitted int
	EarlyStopped  bool
}

// Normalize renumbers the clusters of p to firstID..firstID+k-1 in
// enumeration order. Empty clusters are skipped.
func Normalize(p Partition, firstID int) []Assignment {
	total := 0
	for _, members := range p {
		total += len(members)
	}
	out := make([]Assignment, 0, total)
	id := firstID
	for _, members := range p {
		if len(members) == 0 {
			continue
		}
		for _, label := range members {
			out = append(out, Assignment{Label: label, ClusterID: id})
		}
		id++
	}
	return out
}

// Labels returns the labels in assignment order.
func (r *Result) Labels() []string {
	labels := make([]string, len(r.Assignments))
	for i, a := range r.Assignments {
		labels[i] = a.Label
	}
	return labels
}

// ClusterIDs returns the cluster ids parallel to Labels.
func (r *Result) ClusterIDs() []int {
	ids := make([]int, len(r.Assignments))
	for i, a := range r.Assignments {
		ids[i] = a.ClusterID
	}
	return ids
}

// Sorted returns a copy of the assignments ordered by (ClusterID, Label).
func (r *Result) Sorted() []Assignment {
	return SortAssignments(r.Assignments)
}

// SortAssignments returns a copy of a ordered by (ClusterID, Label).
func SortAssignments(a []Assignment) []Assignment {
	sorted := make([]Assignment, len(a))
	copy(sorted, a)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].ClusterID != sorted[j].ClusterID {
			return sorted[i].ClusterID < sorted[j].ClusterID
		}
		return sorted[i].Label < sorted[j].Label
	})
	return sorted
}

// Groups rebuilds the partition from the assignments, one slice per id in
// ascending id order. Members keep assignment order.
func (r *Result) Groups() [][]string {
	index := make(map[int]int)
	var groups [][]string
	ids := make([]int, 0)
	for _, a := range r.Assignments {
		if _, ok := index[a.ClusterID]; !ok {
			index[a.ClusterID] = len(groups)
			groups = append(groups, nil)
			ids = append(ids, a.ClusterID)
		}
		i := index[a.ClusterID]
		groups[i] = append(groups[i], a.Label)
	}
	order := make([]int, len(ids))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return ids[order[i]] < ids[order[j]] })
	out := make([][]string, len(groups))
	for i, k := range order {
		out[i] = groups[k]
	}
	return out
}
