package runner

import (
	"time"

	"jtlq/internal/sample"
	"jtlq/internal/stats"
)

type Config struct {
	URL        string
	Method     string
	Body       string
	BodyTmpl   *BodyTemplate // Renders Body per request when set
	Headers    map[string]string
	Label      string // Defaults to the URL path
	TargetRPS  int
	SteadyDur  int
	RampUp     int
	RampDown   int
	TimeoutSec int

	// Open-Loop (RPS) vs Closed-Loop (Users)
	Mode      string        // "rps" or "users"
	NumUsers  int           // For "users" mode
	ThinkTime time.Duration // For "users" mode
}

// TotalDuration is ramp up, steady state and ramp down together.
func (c Config) TotalDuration() time.Duration {
	return time.Duration(c.RampUp+c.SteadyDur+c.RampDown) * time.Second
}

// Sink receives every finished sample. The runner never calls Write
// concurrently.
type Sink interface {
	Write(res *sample.Result) error
}

// StatsSnapshot is sent over the channel
type StatsSnapshot struct {
	stats.Snapshot
	Inflight int64
}

// StatsUpdateChan is the channel type
type StatsUpdateChan chan StatsSnapshot
