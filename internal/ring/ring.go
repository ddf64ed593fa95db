// Package ring implements the fixed-capacity sample buffer backing each
// metric's sliding-window history. The buffer evicts its oldest entry once
// full, so it always holds the most recent Cap() samples.
//
// Ring is not safe for concurrent use; callers guard each instance with the
// lock that also guards the metric's current-value cell.
package ring

// Ring is a fixed-capacity circular buffer for float64 samples.
type Ring struct {
	data  []float64
	head  int
	count int
}

// New creates a ring with the given capacity. Capacities below 1 are raised
// to 1 so that a ring can always hold at least the latest sample.
func New(capacity int) *Ring {
	if capacity <= 0 {
		capacity = 1
	}
	return &Ring{data: make([]float64, capacity)}
}

// Push appends a sample at the tail, evicting the oldest entry if the ring
// is at capacity. O(1).
func (r *Ring) Push(v float64) {
	r.data[r.head] = v
	r.head = (r.head + 1) % len(r.data)
	if r.count < len(r.data) {
		r.count++
	}
}

// Len returns the number of held samples.
func (r *Ring) Len() int { return r.count }

// Cap returns the fixed capacity.
func (r *Ring) Cap() int { return len(r.data) }

// Last returns the most recent sample, or 0 if the ring is empty.
func (r *Ring) Last() float64 {
	if r.count == 0 {
		return 0
	}
	idx := r.head - 1
	if idx < 0 {
		idx = len(r.data) - 1
	}
	return r.data[idx]
}

// Snapshot returns held samples in chronological order (oldest first),
// as a fresh slice. Returns nil when empty.
func (r *Ring) Snapshot() []float64 {
	if r.count == 0 {
		return nil
	}
	result := make([]float64, r.count)
	start := r.head - r.count
	if start < 0 {
		start += len(r.data)
	}
	for i := range r.count {
		result[i] = r.data[(start+i)%len(r.data)]
	}
	return result
}

// TailNewestFirst returns the min(n, Len()) most recent samples, newest
// first, as a fresh slice. It never mutates the ring. Returns nil when n <= 0
// or the ring is empty.
func (r *Ring) TailNewestFirst(n int) []float64 {
	if n <= 0 || r.count == 0 {
		return nil
	}
	if n > r.count {
		n = r.count
	}
	result := make([]float64, n)
	idx := r.head - 1
	if idx < 0 {
		idx = len(r.data) - 1
	}
	for i := range n {
		result[i] = r.data[idx]
		idx--
		if idx < 0 {
			idx = len(r.data) - 1
		}
	}
	return result
}

// Reset clears all samples.
func (r *Ring) Reset() {
	r.head = 0
	r.count = 0
}
