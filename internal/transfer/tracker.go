package transfer

import "sync"

// tracker accumulates per-segment progress into transfer-wide totals. One
// mutex guards every mutation and the snapshot read, so a reader never sees a
// half-updated sum across segments.
type tracker struct {
	mu         sync.Mutex
	progress   []int64
	rates      []float64
	downloaded int64
	rate       float64
}

func newTracker(segments int) *tracker {
	return &tracker{
		progress: make([]int64, segments),
		rates:    make([]float64, segments),
	}
}

// ReportIncrement adds a segment's bytes since its last report along with its
// current instantaneous rate.
func (t *tracker) ReportIncrement(index int, bytesDelta int64, rate float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.progress[index] += bytesDelta
	t.rates[index] = rate
	t.recompute()
}

// ReportAbsolute overwrites a segment's progress with its final byte count,
// reconciling any drift from incremental reporting. The segment's rate is
// zeroed since it is no longer transferring.
func (t *tracker) ReportAbsolute(index int, totalBytes int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.progress[index] = totalBytes
	t.rates[index] = 0
	t.recompute()
}

// Snapshot returns the summed bytes transferred and instantaneous rate.
func (t *tracker) Snapshot() (int64, float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.downloaded, t.rate
}

func (t *tracker) recompute() {
	var bytes int64
	var rate float64
	for i := range t.progress {
		bytes += t.progress[i]
		rate += t.rates[i]
	}
	t.downloaded = bytes
	t.rate = rate
}
