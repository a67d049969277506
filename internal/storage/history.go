package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"jtlq/internal/stats"
)

// MaxItems is how many history entries are kept, newest first.
const MaxItems = 100

type HistoryItem struct {
	ID        string     `json:"id"`
	Timestamp time.Time  `json:"timestamp"`
	Source    string     `json:"source"` // result file path
	Origin    string     `json:"origin"` // "run" or "summary"
	Summary   RunSummary `json:"summary"`
}

type RunSummary struct {
	TotalRequests int64   `json:"total_requests"`
	Success       int64   `json:"success"`
	Fail          int64   `json:"fail"`
	Labels        int     `json:"labels"`
	AvgElapsedMs  float64 `json:"avg_elapsed_ms"`
	P90ElapsedMs  int64   `json:"p90_elapsed_ms"`
	P99ElapsedMs  int64   `json:"p99_elapsed_ms"`
	Throughput    float64 `json:"throughput"`
}

// NewItem summarizes a results table read from source.
func NewItem(source, origin string, t *stats.Table) HistoryItem {
	total := t.Total()
	return HistoryItem{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Source:    source,
		Origin:    origin,
		Summary: RunSummary{
			TotalRequests: total.Samples,
			Success:       total.Samples - total.Errors,
			Fail:          total.Errors,
			Labels:        len(t.Rows()),
			AvgElapsedMs:  total.Elapsed.Mean(),
			P90ElapsedMs:  total.Elapsed.ValueAtQuantile(90),
			P99ElapsedMs:  total.Elapsed.ValueAtQuantile(99),
			Throughput:    total.Throughput(),
		},
	}
}

type Store struct {
	mu       sync.RWMutex
	filePath string
	items    []HistoryItem
}

// DefaultDir is ~/.jtlq.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".jtlq"), nil
}

// NewStore opens the history kept in dir, creating dir if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("history dir: %w", err)
	}

	s := &Store{
		filePath: filepath.Join(dir, "history.json"),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read history: %w", err)
	}

	if err := json.Unmarshal(data, &s.items); err != nil {
		// A corrupt file only costs the old entries.
		slog.Warn("ignoring unreadable history", "path", s.filePath, "err", err)
		s.items = nil
	}
	return nil
}

func (s *Store) Save(item HistoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Add to beginning
	s.items = append([]HistoryItem{item}, s.items...)
	if len(s.items) > MaxItems {
		s.items = s.items[:MaxItems]
	}

	data, err := json.MarshalIndent(s.items, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(s.filePath, data, 0644)
}

func (s *Store) List() []HistoryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Return copy
	res := make([]HistoryItem, len(s.items))
	copy(res, s.items)
	return res
}

func (s *Store) Get(id string) *HistoryItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, item := range s.items {
		if item.ID == id {
			return &item
		}
	}
	return nil
}
