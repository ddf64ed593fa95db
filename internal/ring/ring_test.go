package ring

import (
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestNew_ClampsCapacity(t *testing.T) {
	for _, capacity := range []int{-5, 0} {
		r := New(capacity)
		if r.Cap() != 1 {
			t.Errorf("New(%d).Cap() = %d, want 1", capacity, r.Cap())
		}
	}
}

func TestPush_EvictsOldest(t *testing.T) {
	r := New(3)
	for _, v := range []float64{10, 20, 30, 40} {
		r.Push(v)
	}

	if r.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", r.Len())
	}

	got := r.Snapshot()
	want := []float64{20, 30, 40}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Snapshot() = %v, want %v", got, want)
			break
		}
	}
}

func TestTailNewestFirst(t *testing.T) {
	tests := []struct {
		name   string
		cap    int
		pushes []float64
		n      int
		want   []float64
	}{
		{
			name:   "empty ring returns nil",
			cap:    5,
			pushes: nil,
			n:      10,
			want:   nil,
		},
		{
			name:   "n larger than held count returns all held",
			cap:    5,
			pushes: []float64{1, 2, 3},
			n:      10,
			want:   []float64{3, 2, 1},
		},
		{
			name:   "n smaller than held count returns newest n",
			cap:    3,
			pushes: []float64{10, 20, 30, 40},
			n:      2,
			want:   []float64{40, 30},
		},
		{
			name:   "n zero returns nil",
			cap:    3,
			pushes: []float64{1, 2},
			n:      0,
			want:   nil,
		},
		{
			name:   "wrapped ring preserves order",
			cap:    4,
			pushes: []float64{1, 2, 3, 4, 5, 6},
			n:      4,
			want:   []float64{6, 5, 4, 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(tt.cap)
			for _, v := range tt.pushes {
				r.Push(v)
			}

			got := r.TailNewestFirst(tt.n)
			if len(got) != len(tt.want) {
				t.Fatalf("TailNewestFirst(%d) = %v, want %v", tt.n, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("TailNewestFirst(%d) = %v, want %v", tt.n, got, tt.want)
					break
				}
			}
		})
	}
}

func TestTailNewestFirst_DoesNotMutate(t *testing.T) {
	r := New(4)
	for _, v := range []float64{1, 2, 3} {
		r.Push(v)
	}

	first := r.TailNewestFirst(3)
	second := r.TailNewestFirst(3)

	if len(first) != len(second) {
		t.Fatalf("repeated reads differ in length: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("repeated reads differ: %v vs %v", first, second)
			break
		}
	}
	if r.Len() != 3 {
		t.Errorf("Len() changed after reads: %d", r.Len())
	}

	// Mutating the returned slice must not touch ring state.
	first[0] = -1
	if r.Last() != 3 {
		t.Errorf("Last() = %v after mutating snapshot, want 3", r.Last())
	}
}

func TestLast(t *testing.T) {
	r := New(2)
	if r.Last() != 0 {
		t.Errorf("Last() on empty ring = %v, want 0", r.Last())
	}

	r.Push(11)
	r.Push(22)
	r.Push(33)
	if r.Last() != 33 {
		t.Errorf("Last() = %v, want 33", r.Last())
	}
}

func TestReset(t *testing.T) {
	r := New(3)
	r.Push(1)
	r.Push(2)
	r.Reset()

	if r.Len() != 0 {
		t.Errorf("Len() after Reset = %d, want 0", r.Len())
	}
	if r.Snapshot() != nil {
		t.Errorf("Snapshot() after Reset = %v, want nil", r.Snapshot())
	}
}

// TestCapacityInvariant_PropertyBased verifies that for any push sequence the
// ring never holds more than its capacity, and that once full, every push
// evicts exactly the single oldest entry.
func TestCapacityInvariant_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("len never exceeds capacity", prop.ForAll(
		func(capacity int, samples []float64) bool {
			r := New(capacity)
			for _, v := range samples {
				r.Push(v)
				if r.Len() > r.Cap() {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 16),
		gen.SliceOf(gen.Float64Range(0, 100)),
	))

	properties.Property("full ring keeps the newest Cap() samples", prop.ForAll(
		func(capacity int, samples []float64) bool {
			r := New(capacity)
			for _, v := range samples {
				r.Push(v)
			}

			held := r.Snapshot()
			expectLen := min(len(samples), capacity)
			if len(held) != expectLen {
				return false
			}
			// Held contents must equal the tail of the push sequence.
			tail := samples[len(samples)-expectLen:]
			for i := range held {
				if held[i] != tail[i] {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 16),
		gen.SliceOf(gen.Float64Range(0, 100)),
	))

	properties.Property("tail is the reverse of push order", prop.ForAll(
		func(capacity int, samples []float64, n int) bool {
			r := New(capacity)
			for _, v := range samples {
				r.Push(v)
			}

			tail := r.TailNewestFirst(n)
			chrono := r.Snapshot()
			if len(tail) > len(chrono) {
				return false
			}
			for i, v := range tail {
				if v != chrono[len(chrono)-1-i] {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 16),
		gen.SliceOf(gen.Float64Range(0, 100)),
		gen.IntRange(0, 32),
	))

	properties.TestingRun(t)
}
