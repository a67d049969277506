package live

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"jtlq/internal/runner"
	"jtlq/internal/tui/components"
	"jtlq/internal/tui/styles"
)

// Model shows a run in progress from the runner's stats snapshots.
type Model struct {
	Stats    runner.StatsSnapshot
	Progress progress.Model

	RpsLine     components.Sparkline
	ElapsedLine components.Sparkline

	Target     string
	OutFile    string
	StartTime  time.Time
	Duration   time.Duration
	LastUpdate time.Time
	LastReqs   uint64

	Width  int
	Height int
}

func NewModel(cfg runner.Config, outFile string) Model {
	return Model{
		Progress:    progress.New(progress.WithDefaultGradient()),
		RpsLine:     components.NewSparkline(40, "Samples/s", styles.Active),
		ElapsedLine: components.NewSparkline(40, "Elapsed P90 (ms)", styles.Warn),
		Target:      cfg.URL,
		OutFile:     outFile,
		StartTime:   time.Now(),
		Duration:    cfg.TotalDuration(),
		LastUpdate:  time.Now(),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case runner.StatsSnapshot:
		now := time.Now()
		dt := max(now.Sub(m.LastUpdate).Seconds(), 0.01)

		rps := float64(msg.Requests-m.LastReqs) / dt
		m.RpsLine.Add(int64(rps))
		m.ElapsedLine.Add(msg.P90ElapsedMs)

		m.Stats = msg
		m.LastReqs = msg.Requests
		m.LastUpdate = now

		pct := 1.0
		if m.Duration > 0 {
			pct = min(float64(time.Since(m.StartTime))/float64(m.Duration), 1.0)
		}
		return m, m.Progress.SetPercent(pct)

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Progress.Width = msg.Width - 4

		half := max(msg.Width/2-4, 10)
		m.RpsLine.Width = half
		m.ElapsedLine.Width = half
		return m, nil

	case progress.FrameMsg:
		prog, cmd := m.Progress.Update(msg)
		m.Progress = prog.(progress.Model)
		return m, cmd
	}

	return m, nil
}

func (m Model) errorRate() float64 {
	if m.Stats.Requests == 0 {
		return 0
	}
	return float64(m.Stats.Fail) / float64(m.Stats.Requests) * 100
}

func (m Model) View() string {
	s := strings.Builder{}

	s.WriteString(styles.Title.Render("Running " + m.Target))
	s.WriteString("\n")
	if m.OutFile != "" {
		s.WriteString(styles.Subtle.Render("saving samples to " + m.OutFile))
	}
	s.WriteString("\n\n")

	errRate := m.errorRate()
	col1 := fmt.Sprintf("REQ: %d\nINF: %d", m.Stats.Requests, m.Stats.Inflight)
	col2 := fmt.Sprintf("ERR: %.2f%%\nFAIL: %d", errRate, m.Stats.Fail)
	col3 := fmt.Sprintf("LAT: %.2f ms\nKB: %d", m.Stats.AvgLatencyMs, m.Stats.Bytes/1024)

	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		styles.Box.Render(col1),
		styles.Box.Render(styles.ErrorRate(errRate).Render(col2)),
		styles.Box.Render(col3),
	))
	s.WriteString("\n\n")

	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
		styles.Box.Render(m.RpsLine.View()),
		styles.Box.Render(m.ElapsedLine.View()),
	))
	s.WriteString("\n\n")

	elapsed := fmt.Sprintf(
		"P50: %d ms  |  P90: %d ms  |  P99: %d ms  |  Max: %d ms",
		m.Stats.P50ElapsedMs,
		m.Stats.P90ElapsedMs,
		m.Stats.P99ElapsedMs,
		m.Stats.MaxElapsedMs,
	)
	s.WriteString(styles.Box.Width(max(m.Width-4, 20)).Render(elapsed))
	s.WriteString("\n\n")

	s.WriteString(m.Progress.View())
	s.WriteString("\n\n")
	s.WriteString(styles.RenderKey("Ctrl+C", "Stop"))

	return s.String()
}
