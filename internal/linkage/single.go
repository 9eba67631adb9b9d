package linkage

import (
	"fmt"
)

// SingleLinkage clusters labels into the connected components of the graph
// of admitted edges. Records are processed as they arrive.
type SingleLinkage struct {
	admission Admission
	earlyStop bool

	clusterOf map[string]int
	members   [][]string // cluster id -> labels, nil once absorbed

	seen     map[string]struct{}
	observed []string // labels in first-seen order

	known map[string]struct{} // labels declared by self pairs

	records   int
	selfPairs int
	edges     int
	stopped   bool
	finished  bool
}

// NewSingleLinkage creates a cutoff-exclusive single-linkage engine.
func NewSingleLinkage(cutoff float64, earlyStop bool) *SingleLinkage {
	return &SingleLinkage{
		admission: SingleLinkageAdmission(cutoff),
		earlyStop: earlyStop,
		clusterOf: make(map[string]int),
		seen:      make(map[string]struct{}),
		known:     make(map[string]struct{}),
	}
}

// Name returns the strategy name
func (s *SingleLinkage) Name() string { return "Single Linkage" }

// Add implements Engine.
func (s *SingleLinkage) Add(rec Record) (bool, error) {
	if s.finished {
		return true, fmt.Errorf("single linkage: Add called after Result")
	}
	if s.stopped {
		return true, nil
	}
	if s.complete() {
		s.stopped = true
		return true, nil
	}

	s.records++
	s.observe(rec.Label1)
	s.observe(rec.Label2)

	if rec.IsSelfPair() {
		s.selfPairs++
		s.declare(rec.Label1)
	} else if edge, ok := s.admission.Admit(rec); ok {
		s.edges++
		s.link(edge.A, edge.B)
	}
	return false, nil
}

// complete reports whether early termination may fire before the next
// record: at least one label was declared and as many labels are declared
// as have joined a cluster. Only the counts are compared.
func (s *SingleLinkage) complete() bool {
	return s.earlyStop && len(s.known) > 0 && len(s.known) == len(s.clusterOf)
}

func (s *SingleLinkage) observe(label string) {
	if _, ok := s.seen[label]; ok {
		return
	}
	s.seen[label] = struct{}{}
	s.observed = append(s.observed, label)
}

func (s *SingleLinkage) declare(label string) {
	s.known[label] = struct{}{}
}

// assign places an unassigned label into cluster id.
func (s *SingleLinkage) assign(label string, id int) {
	s.clusterOf[label] = id
	s.members[id] = append(s.members[id], label)
}

func (s *SingleLinkage) newCluster() int {
	s.members = append(s.members, nil)
	return len(s.members) - 1
}

func (s *SingleLinkage) link(a, b string) {
	ca, okA := s.clusterOf[a]
	cb, okB := s.clusterOf[b]

	switch {
	case !okA && !okB:
		id := s.newCluster()
		s.assign(a, id)
		s.assign(b, id)
	case okA && !okB:
		s.assign(b, ca)
	case !okA && okB:
		s.assign(a, cb)
	case ca == cb:
		// already connected
	default:
		survivor, absorbed := ca, cb
		if absorbed < survivor {
			survivor, absorbed = absorbed, survivor
		}
		for _, label := range s.members[absorbed] {
			s.clusterOf[label] = survivor
		}
		s.members[survivor] = append(s.members[survivor], s.members[absorbed]...)
		s.members[absorbed] = nil
	}
}

// Result implements Engine. Labels that never joined a cluster become
// singletons in the order they were first seen.
func (s *SingleLinkage) Result() (*Result, error) {
	if s.finished {
		return nil, fmt.Errorf("single linkage: Result called twice")
	}
	s.finished = true

	for _, label := range s.observed {
		if _, ok := s.clusterOf[label]; !ok {
			s.assign(label, s.newCluster())
		}
	}

	partition := make(Partition, 0, len(s.members))
	for id, members := range s.members {
		if members == nil {
			continue
		}
		for _, label := range members {
			if s.clusterOf[label] != id {
				return nil, fmt.Errorf("%w: label %q listed in cluster %d but mapped to %d",
					ErrInvariantViolation, label, id, s.clusterOf[label])
			}
		}
		partition = append(partition, members)
	}

	assignments := Normalize(partition, MethodSingle.FirstClusterID())
	return &Result{
		Method:        MethodSingle,
		Assignments:   assignments,
		Clusters:      len(partition),
		RecordsRead:   s.records,
		SelfPairs:     s.selfPairs,
		EdgesAdmitted: s.edges,
		EarlyStopped:  s.stopped,
	}, nil
}
