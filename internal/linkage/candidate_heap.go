package linkage

// candidateEntry is a heap snapshot of a candidate. It is stale once the
// candidate's generation moves on or the candidate is dropped.
type candidateEntry struct {
	a, b     int    // handles, labels[a] < labels[b]
	idA, idB string // cluster ids for tie-breaking
	distance float64
	gen      uint64
}

// candidateHeap orders entries by distance, then by canonical pair.
type candidateHeap []candidateEntry

func (h candidateHeap) Len() int { return len(h) }
func (h candidateHeap) Less(i, j int) bool {
	if h[i].distance != h[j].distance {
		return h[i].distance < h[j].distance
	}
	if h[i].idA != h[j].idA {
		return h[i].idA < h[j].idA
	}
	return h[i].idB < h[j].idB
}
func (h candidateHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }
func (h *candidateHeap) Push(x any)   { *h = append(*h, x.(candidateEntry)) }
func (h *candidateHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
