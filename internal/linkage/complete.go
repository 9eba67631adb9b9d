package linkage

import (
	"container/heap"
	"fmt"
	"sort"
)

// pairKey identifies an unordered handle pair, lo < hi.
type pairKey struct {
	lo, hi int
}

func keyOf(a, b int) pairKey {
	if b < a {
		a, b = b, a
	}
	return pairKey{lo: a, hi: b}
}

type candidate struct {
	distance float64
	gen      uint64
}

// clusterRecord is an arena slot. Its id is the label of the slot's handle.
type clusterRecord struct {
	members []int
}

// CompleteLinkage merges the pair of live clusters with the smallest
// complete-linkage distance until no admissible pair remains. Ties are broken
// by the lexicographically smallest (id, id) pair; the smaller id survives.
type CompleteLinkage struct {
	admission Admission

	handles map[string]int
	labels  []string // handle -> label

	original   map[pairKey]float64 // admitted singleton distances, fixed after ingestion
	clusters   []*clusterRecord    // nil once absorbed
	candidates map[pairKey]candidate
	neighbors  []map[int]struct{}

	queue      candidateHeap
	queueReady bool
	gen        uint64

	merges    []Merge
	records   int
	selfPairs int
	edges     int
	finished  bool
}

// NewCompleteLinkage creates a complete-linkage engine. strict rejects
// distances equal to the cutoff.
func NewCompleteLinkage(cutoff float64, strict bool) *CompleteLinkage {
	return &CompleteLinkage{
		admission:  CompleteLinkageAdmission(cutoff, strict),
		handles:    make(map[string]int),
		original:   make(map[pairKey]float64),
		candidates: make(map[pairKey]candidate),
	}
}

// Name returns the strategy name
func (c *CompleteLinkage) Name() string { return "Complete Linkage" }

// Add implements Engine. Complete linkage needs the whole input, so it
// never reports done.
func (c *CompleteLinkage) Add(rec Record) (bool, error) {
	if c.queueReady || c.finished {
		return true, fmt.Errorf("complete linkage: Add called after clustering started")
	}
	c.records++
	a := c.handle(rec.Label1)
	b := c.handle(rec.Label2)

	if rec.IsSelfPair() {
		c.selfPairs++
		return false, nil
	}
	if _, ok := c.admission.Admit(rec); !ok {
		return false, nil
	}
	c.edges++
	c.original[keyOf(a, b)] = rec.Distance
	c.setCandidate(a, b, rec.Distance)
	return false, nil
}

func (c *CompleteLinkage) handle(label string) int {
	if h, ok := c.handles[label]; ok {
		return h
	}
	h := len(c.labels)
	c.handles[label] = h
	c.labels = append(c.labels, label)
	c.clusters = append(c.clusters, &clusterRecord{members: []int{h}})
	c.neighbors = append(c.neighbors, make(map[int]struct{}))
	return h
}

func (c *CompleteLinkage) setCandidate(a, b int, distance float64) {
	c.gen++
	k := keyOf(a, b)
	c.candidates[k] = candidate{distance: distance, gen: c.gen}
	c.neighbors[a][b] = struct{}{}
	c.neighbors[b][a] = struct{}{}
	if c.queueReady {
		heap.Push(&c.queue, c.entry(k, distance, c.gen))
	}
}

func (c *CompleteLinkage) dropCandidate(a, b int) {
	delete(c.candidates, keyOf(a, b))
	if c.neighbors[a] != nil {
		delete(c.neighbors[a], b)
	}
	if c.neighbors[b] != nil {
		delete(c.neighbors[b], a)
	}
}

// entry orders the pair canonically by cluster id.
func (c *CompleteLinkage) entry(k pairKey, distance float64, gen uint64) candidateEntry {
	a, b := k.lo, k.hi
	if c.labels[b] < c.labels[a] {
		a, b = b, a
	}
	return candidateEntry{a: a, b: b, idA: c.labels[a], idB: c.labels[b], distance: distance, gen: gen}
}

func (c *CompleteLinkage) initQueue() {
	c.queue = make(candidateHeap, 0, len(c.candidates))
	for k, cand := range c.candidates {
		c.queue = append(c.queue, c.entry(k, cand.distance, cand.gen))
	}
	heap.Init(&c.queue)
	c.queueReady = true
}

// step performs the next merge. It returns false when no candidate is left.
func (c *CompleteLinkage) step() (bool, error) {
	if !c.queueReady {
		c.initQueue()
	}
	for c.queue.Len() > 0 {
		top := heap.Pop(&c.queue).(candidateEntry)
		cand, ok := c.candidates[keyOf(top.a, top.b)]
		if !ok || cand.gen != top.gen {
			continue
		}
		return true, c.merge(top.a, top.b, cand.distance)
	}
	return false, nil
}

// merge folds c2 into c1.
func (c *CompleteLinkage) merge(c1, c2 int, distance float64) error {
	r1, r2 := c.clusters[c1], c.clusters[c2]
	if r1 == nil || r2 == nil {
		return fmt.Errorf("%w: candidate (%s, %s) references an absorbed cluster",
			ErrInvariantViolation, c.labels[c1], c.labels[c2])
	}
	_, ab := c.neighbors[c1][c2]
	_, ba := c.neighbors[c2][c1]
	if !ab || !ba {
		return fmt.Errorf("%w: candidate (%s, %s) is not adjacent",
			ErrInvariantViolation, c.labels[c1], c.labels[c2])
	}

	c.dropCandidate(c1, c2)

	affected := make([]int, 0, len(c.neighbors[c1])+len(c.neighbors[c2]))
	for other := range c.neighbors[c1] {
		affected = append(affected, other)
	}
	for other := range c.neighbors[c2] {
		if _, dup := c.neighbors[c1][other]; !dup {
			affected = append(affected, other)
		}
	}
	sort.Ints(affected)

	r1.members = append(r1.members, r2.members...)
	c.clusters[c2] = nil

	for _, other := range affected {
		c.dropCandidate(c1, other)
		c.dropCandidate(c2, other)
		ro := c.clusters[other]
		if ro == nil {
			return fmt.Errorf("%w: neighbor %s of (%s, %s) was already absorbed",
				ErrInvariantViolation, c.labels[other], c.labels[c1], c.labels[c2])
		}
		if d, ok := c.completeDistance(r1, ro); ok {
			c.setCandidate(c1, other, d)
		}
	}
	c.neighbors[c2] = nil

	c.merges = append(c.merges, Merge{
		Survivor: c.labels[c1],
		Absorbed: c.labels[c2],
		Distance: distance,
		Size:     len(r1.members),
	})
	return nil
}

// completeDistance is the largest original distance over every member pair.
// It is undefined when any pair was never admitted.
func (c *CompleteLinkage) completeDistance(x, y *clusterRecord) (float64, bool) {
	maxDist := 0.0
	for _, m := range x.members {
		for _, n := range y.members {
			d, ok := c.original[keyOf(m, n)]
			if !ok {
				return 0, false
			}
			if d > maxDist {
				maxDist = d
			}
		}
	}
	return maxDist, true
}

// Result implements Engine. Clusters are numbered from 1 in order of their
// id's first appearance in the input.
func (c *CompleteLinkage) Result() (*Result, error) {
	if c.finished {
		return nil, fmt.Errorf("complete linkage: Result called twice")
	}
	for {
		more, err := c.step()
		if err != nil {
			return nil, err
		}
		if !more {
			break
		}
	}
	c.finished = true

	partition := make(Partition, 0)
	for _, r := range c.clusters {
		if r == nil {
			continue
		}
		members := make([]string, len(r.members))
		for i, h := range r.members {
			members[i] = c.labels[h]
		}
		partition = append(partition, members)
	}

	return &Result{
		Method:        MethodComplete,
		Assignments:   Normalize(partition, MethodComplete.FirstClusterID()),
		Clusters:      len(partition),
		Merges:        c.merges,
		RecordsRead:   c.records,
		SelfPairs:     c.selfPairs,
		EdgesAdmitted: c.edges,
	}, nil
}
