package linkage

// CutoffPolicy decides whether a distance exactly at the cutoff is admitted.
type CutoffPolicy int

const (
	// CutoffExclusive admits d < cutoff. Single linkage always uses it.
	CutoffExclusive CutoffPolicy = iota
	// CutoffInclusive admits d <= cutoff. Default for complete linkage.
	CutoffInclusive
)

// String returns the policy name
func (p CutoffPolicy) String() string {
	switch p {
	case CutoffExclusive:
		return "exclusive"
	case CutoffInclusive:
		return "inclusive"
	default:
		return "unknown"
	}
}

// Edge is an admitted, canonical pair with A < B.
type Edge struct {
	A        string
	B        string
	Distance float64
}

// NewEdge orders the labels so the smaller one comes first.
func NewEdge(label1, label2 string, distance float64) Edge {
	if label2 < label1 {
		label1, label2 = label2, label1
	}
	return Edge{A: label1, B: label2, Distance: distance}
}

// Admission filters records against a cutoff.
type Admission struct {
	Cutoff float64
	Policy CutoffPolicy
}

// SingleLinkageAdmission is always cutoff-exclusive.
func SingleLinkageAdmission(cutoff float64) Admission {
	return Admission{Cutoff: cutoff, Policy: CutoffExclusive}
}

// CompleteLinkageAdmission is cutoff-inclusive unless strict is set.
func CompleteLinkageAdmission(cutoff float64, strict bool) Admission {
	if strict {
		return Admission{Cutoff: cutoff, Policy: CutoffExclusive}
	}
	return Admission{Cutoff: cutoff, Policy: CutoffInclusive}
}

// Admits reports whether distance passes the cutoff.
func (a Admission) Admits(distance float64) bool {
	if a.Policy == CutoffInclusive {
		return distance <= a.Cutoff
	}
	return distance < a.Cutoff
}

// Admit returns the canonical edge for rec, or false for self pairs and
// distances outside the cutoff.
func (a Admission) Admit(rec Record) (Edge, bool) {
	if rec.IsSelfPair() || !a.Admits(rec.Distance) {
		return Edge{}, false
	}
	return NewEdge(rec.Label1, rec.Label2, rec.Distance), true
}

// AdmitRaw parses distanceText and admits the resulting record.
// Parse failures are returned; rejection is not an error.
func (a Admission) AdmitRaw(label1, label2, distanceText string) (Edge, bool, error) {
	d, err := ParseDistance(distanceText)
	if err != nil {
		return Edge{}, false, err
	}
	e, ok := a.Admit(Record{Label1: label1, Label2: label2, Distance: d})
	return e, ok, nil
}
