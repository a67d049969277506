package runner

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"jtlq/internal/sample"
	"jtlq/internal/stats"
)

type Runner struct {
	Cfg    Config
	Stats  *stats.Stats
	Client *http.Client

	// Sink is optional. Writes are serialized by mu.
	Sink    Sink
	mu      sync.Mutex
	sinkErr error

	inflight int64
	arrivals int64
	seq      int64
	hostname string

	// Event Channel
	Updates StatsUpdateChan
}

func NewRunner(cfg Config, sink Sink, updates StatsUpdateChan) *Runner {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.MaxIdleConns = 2000
	t.MaxConnsPerHost = 2000
	t.MaxIdleConnsPerHost = 2000
	t.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}

	client := &http.Client{
		Timeout:   time.Duration(cfg.TimeoutSec) * time.Second,
		Transport: t,
	}

	if updates == nil {
		// Avoid nil panics if not provided
		updates = make(StatsUpdateChan, 10)
	}
	if cfg.Method == "" {
		cfg.Method = http.MethodGet
	}
	host, _ := os.Hostname()

	return &Runner{
		Cfg:      cfg,
		Stats:    stats.NewStats(),
		Client:   client,
		Sink:     sink,
		hostname: host,
		Updates:  updates,
	}
}

// StartTickLoop starts a goroutine that pushes stats updates
func (r *Runner) StartTickLoop(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.sendUpdate()
			}
		}
	}()
}

func (r *Runner) sendUpdate() {
	s := StatsSnapshot{
		Snapshot: r.Stats.Snapshot(),
		Inflight: atomic.LoadInt64(&r.inflight),
	}

	// Non-blocking send
	select {
	case r.Updates <- s:
	default:
		// Drop update if channel full, UI acts as backpressure
	}
}

// Run drives load until the configured duration passes or ctx is done.
// It returns the first error the sink reported.
func (r *Runner) Run(ctx context.Context) error {
	r.StartTickLoop(ctx, 200*time.Millisecond)

	if r.Cfg.Mode == "users" {
		r.runUsers(ctx)
	} else {
		r.runRPS(ctx)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.sinkErr
}

func (r *Runner) runUsers(ctx context.Context) {
	var wg sync.WaitGroup
	start := time.Now()
	totalDur := r.Cfg.TotalDuration()

	for i := 0; i < r.Cfg.NumUsers; i++ {
		wg.Add(1)
		thread := fmt.Sprintf("Users 1-%d", i+1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				default:
					if time.Since(start) > totalDur {
						return
					}
					r.executeRequest(ctx, thread)
					if r.Cfg.ThinkTime > 0 {
						time.Sleep(r.Cfg.ThinkTime)
					}
				}
			}
		}()
	}
	wg.Wait()
}

func (r *Runner) runRPS(ctx context.Context) {
	start := time.Now()
	totalDur := r.Cfg.TotalDuration()

	var wg sync.WaitGroup
	defer wg.Wait()
	nextRequestTime := start

	for {
		select {
		case <-ctx.Done():
			return
		default:
			now := time.Now()
			elapsed := now.Sub(start).Seconds()

			if elapsed >= totalDur.Seconds() {
				return
			}

			targetRPS := r.getCurrentRPS(elapsed)
			if targetRPS <= 0.1 {
				time.Sleep(100 * time.Millisecond)
				nextRequestTime = time.Now()
				continue
			}

			period := time.Duration(float64(time.Second) / targetRPS)

			if nextRequestTime.After(now) {
				time.Sleep(nextRequestTime.Sub(now))
			}

			wg.Add(1)
			thread := fmt.Sprintf("Arrivals 1-%d", atomic.AddInt64(&r.arrivals, 1))
			go func() {
				defer wg.Done()
				r.executeRequest(ctx, thread)
			}()

			nextRequestTime = nextRequestTime.Add(period)

			if time.Since(nextRequestTime) > 1*time.Second {
				nextRequestTime = time.Now()
			}
		}
	}
}

func (r *Runner) label() string {
	if r.Cfg.Label != "" {
		return r.Cfg.Label
	}
	if u, err := url.Parse(r.Cfg.URL); err == nil && u.Path != "" {
		return u.Path
	}
	return r.Cfg.URL
}

// executeRequest sends one request and records its sample. It returns
// nil when ctx ended the request.
func (r *Runner) executeRequest(ctx context.Context, thread string) *sample.Result {
	threads := int(atomic.AddInt64(&r.inflight, 1))
	defer atomic.AddInt64(&r.inflight, -1)

	res := sample.New(sample.Plain)
	res.Label = r.label()
	res.ThreadName = thread
	res.GroupThreads = threads
	res.AllThreads = threads
	res.URL = r.Cfg.URL
	res.Hostname = r.hostname

	requestID := uuid.NewString()
	start := time.Now()
	res.TimeStamp = start.UnixMilli()

	text := r.Cfg.Body
	if r.Cfg.BodyTmpl != nil {
		var err error
		text, err = r.Cfg.BodyTmpl.Render(RequestData{
			Thread:    thread,
			RequestID: requestID,
			Seq:       atomic.AddInt64(&r.seq, 1),
		})
		if err != nil {
			r.fail(res, start, err)
			return res
		}
	}
	var body io.Reader
	if text != "" {
		body = strings.NewReader(text)
	}

	req, err := http.NewRequestWithContext(ctx, r.Cfg.Method, r.Cfg.URL, body)
	if err != nil {
		r.fail(res, start, err)
		return res
	}
	req.Header.Set("X-Request-ID", requestID)
	for k, v := range r.Cfg.Headers {
		req.Header.Set(k, v)
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			// Cut off by shutdown, not a failed sample.
			return nil
		}
		r.fail(res, start, err)
		return res
	}
	// Headers are in: that is the latency.
	res.Latency = time.Since(start).Milliseconds()

	n, _ := io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	res.Elapsed = time.Since(start).Milliseconds()

	res.Bytes = int(n)
	res.ResponseCode = strconv.Itoa(resp.StatusCode)
	res.ResponseMessage = http.StatusText(resp.StatusCode)
	res.DataType, res.DataEncoding = contentType(resp.Header.Get("Content-Type"))
	res.Success = resp.StatusCode >= 200 && resp.StatusCode < 300
	if !res.Success {
		res.Assertions = append(res.Assertions, sample.AssertionResult{
			Name:           "Response Code",
			Failure:        true,
			FailureMessage: fmt.Sprintf("expected 2xx but got %d", resp.StatusCode),
		})
	}

	r.record(res)
	return res
}

func (r *Runner) fail(res *sample.Result, start time.Time, err error) {
	res.Elapsed = time.Since(start).Milliseconds()
	res.Latency = res.Elapsed
	res.ResponseCode = "Non HTTP response code"
	res.ResponseMessage = err.Error()
	res.DataType = "text"
	r.record(res)
}

func (r *Runner) record(res *sample.Result) {
	r.Stats.Add(res)
	if r.Sink == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sinkErr != nil {
		return
	}
	if err := r.Sink.Write(res); err != nil {
		slog.Error("writing sample failed, no further samples will be saved", "err", err)
		r.sinkErr = err
	}
}

// contentType maps a Content-Type header to a data type ("text" or
// "bin") and its charset.
func contentType(header string) (dataType, charset string) {
	if header == "" {
		return "", ""
	}
	mediaType, params, err := mime.ParseMediaType(header)
	if err != nil {
		return "bin", ""
	}
	dataType = "bin"
	if strings.HasPrefix(mediaType, "text/") || strings.HasSuffix(mediaType, "json") ||
		strings.HasSuffix(mediaType, "xml") || mediaType == "application/javascript" {
		dataType = "text"
	}
	return dataType, params["charset"]
}

func (r *Runner) getCurrentRPS(elapsedSec float64) float64 {
	cfg := r.Cfg
	if elapsedSec < float64(cfg.RampUp) {
		if cfg.RampUp == 0 {
			return float64(cfg.TargetRPS)
		}
		return float64(cfg.TargetRPS) * (elapsedSec / float64(cfg.RampUp))
	}
	steadyEnd := float64(cfg.RampUp + cfg.SteadyDur)
	if elapsedSec < steadyEnd {
		return float64(cfg.TargetRPS)
	}
	totalDur := float64(cfg.RampUp + cfg.SteadyDur + cfg.RampDown)
	if elapsedSec < totalDur {
		if cfg.RampDown == 0 {
			return 0
		}
		remaining := totalDur - elapsedSec
		return float64(cfg.TargetRPS) * (remaining / float64(cfg.RampDown))
	}
	return 0
}

func (r *Runner) GetInflight() int64 {
	return atomic.LoadInt64(&r.inflight)
}
