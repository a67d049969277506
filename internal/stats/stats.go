package stats

import (
	"sync/atomic"

	"jtlq/internal/sample"
)

// Stats holds real-time aggregated metrics
type Stats struct {
	Requests uint64
	Success  uint64
	Fail     uint64
	Bytes    uint64

	// Milliseconds, as written to the elapsed and Latency columns
	Elapsed *SafeHistogram
	Latency *SafeHistogram
}

// Snapshot is a point-in-time copy for progress output
type Snapshot struct {
	Requests uint64
	Success  uint64
	Fail     uint64
	Bytes    uint64

	P50ElapsedMs int64
	P90ElapsedMs int64
	P99ElapsedMs int64
	MaxElapsedMs int64
	AvgLatencyMs float64
}

func NewStats() *Stats {
	return &Stats{
		Elapsed: NewSafeHistogram(),
		Latency: NewSafeHistogram(),
	}
}

// Add counts res. Statistical results count as SampleCount samples.
func (s *Stats) Add(res *sample.Result) {
	n := uint64(res.Samples())
	errs := uint64(res.Errors())
	atomic.AddUint64(&s.Requests, n)
	atomic.AddUint64(&s.Fail, errs)
	atomic.AddUint64(&s.Success, n-errs)
	atomic.AddUint64(&s.Bytes, uint64(res.Bytes))

	s.Elapsed.RecordValues(res.Elapsed, int64(n))
	s.Latency.RecordValues(res.Latency, int64(n))
}

func (s *Stats) ErrorRate() float64 {
	reqs := atomic.LoadUint64(&s.Requests)
	if reqs == 0 {
		return 0
	}
	fails := atomic.LoadUint64(&s.Fail)
	return (float64(fails) / float64(reqs)) * 100
}

func (s *Stats) Snapshot() Snapshot {
	return Snapshot{
		Requests:     atomic.LoadUint64(&s.Requests),
		Success:      atomic.LoadUint64(&s.Success),
		Fail:         atomic.LoadUint64(&s.Fail),
		Bytes:        atomic.LoadUint64(&s.Bytes),
		P50ElapsedMs: s.Elapsed.ValueAtQuantile(50),
		P90ElapsedMs: s.Elapsed.ValueAtQuantile(90),
		P99ElapsedMs: s.Elapsed.ValueAtQuantile(99),
		MaxElapsedMs: s.Elapsed.Max(),
		AvgLatencyMs: s.Latency.Mean(),
	}
}

func (s *Stats) Reset() {
	atomic.StoreUint64(&s.Requests, 0)
	atomic.StoreUint64(&s.Success, 0)
	atomic.StoreUint64(&s.Fail, 0)
	atomic.StoreUint64(&s.Bytes, 0)
	s.Elapsed.Reset()
	s.Latency.Reset()
}
