package stats

import (
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// maxTrackedMs caps recorded values; anything slower lands in the top bucket.
const maxTrackedMs = int64(time.Hour / time.Millisecond)

// SafeHistogram is a thread-safe wrapper around hdrhistogram
type SafeHistogram struct {
	hist *hdrhistogram.Histogram
	mu   sync.Mutex
}

func NewSafeHistogram() *SafeHistogram {
	// 1ms to 1h, 3 significant figures
	h := hdrhistogram.New(1, maxTrackedMs, 3)
	return &SafeHistogram{hist: h}
}

// RecordValues records n occurrences of a time in milliseconds
func (h *SafeHistogram) RecordValues(ms, n int64) error {
	if ms < 0 {
		ms = 0
	}
	if ms > maxTrackedMs {
		ms = maxTrackedMs
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hist.RecordValues(ms, n)
}

// RecordValue records a time in milliseconds
func (h *SafeHistogram) RecordValue(ms int64) error {
	return h.RecordValues(ms, 1)
}

func (h *SafeHistogram) ValueAtQuantile(q float64) int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hist.ValueAtQuantile(q)
}

func (h *SafeHistogram) Mean() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hist.Mean()
}

func (h *SafeHistogram) Min() int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hist.Min()
}

func (h *SafeHistogram) Max() int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hist.Max()
}

func (h *SafeHistogram) TotalCount() int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.hist.TotalCount()
}

// Merge adds every value recorded in other to h.
func (h *SafeHistogram) Merge(other *SafeHistogram) {
	other.mu.Lock()
	snap := other.hist.Export()
	other.mu.Unlock()

	h.mu.Lock()
	defer h.mu.Unlock()
	h.hist.Merge(hdrhistogram.Import(snap))
}

func (h *SafeHistogram) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hist.Reset()
}
