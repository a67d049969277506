package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"jtlq/internal/csvsave"
	"jtlq/internal/resultfile"
	"jtlq/internal/storage"
	"jtlq/internal/tui/components"
	"jtlq/internal/tui/history"
	"jtlq/internal/tui/result"
	"jtlq/internal/tui/styles"
)

type ClearStatusMsg struct{}

func clearStatusCmd() tea.Cmd {
	return tea.Tick(3*time.Second, func(_ time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}

// View Enum
type ViewID int

const (
	ViewSamples ViewID = iota
	ViewSummary
	ViewHistory
)

// Model browses one decoded results file.
type Model struct {
	File  *resultfile.File
	Store *storage.Store

	Samples table.Model
	Elapsed components.Sparkline
	Summary result.Model
	History history.Model

	Width  int
	Height int

	CurrentView ViewID
	MenuItems   []string

	StatusMsg string
}

func NewModel(f *resultfile.File, store *storage.Store) Model {
	m := Model{
		File:        f,
		Store:       store,
		Samples:     samplesTable(f),
		Elapsed:     components.NewSparkline(60, "Elapsed (ms) over the file", styles.Warn),
		Summary:     result.NewModel(f.Table),
		History:     history.NewModel(store),
		CurrentView: ViewSamples,
		MenuItems:   []string{"[1] Samples", "[2] Summary", "[3] History"},
	}
	m.fillElapsed()
	return m
}

func samplesTable(f *resultfile.File) table.Model {
	names := f.Config.Columns()
	columns := make([]table.Column, len(names))
	for i, name := range names {
		columns[i] = table.Column{Title: name, Width: min(max(len(name), 8), 24)}
	}

	rows := make([]table.Row, len(f.Results))
	for i, res := range f.Results {
		rows[i] = table.Row(csvsave.Fields(res, f.Config))
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	t.SetStyles(styles.Table())
	return t
}

func (m *Model) fillElapsed() {
	vals := make([]int64, len(m.File.Results))
	for i, res := range m.File.Results {
		vals[i] = res.Elapsed
	}
	m.Elapsed.Fill(vals)
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case ClearStatusMsg:
		m.StatusMsg = ""
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "1":
			m.CurrentView = ViewSamples
			return m, nil
		case "2":
			m.CurrentView = ViewSummary
			return m, nil
		case "3":
			m.History.Refresh()
			m.CurrentView = ViewHistory
			return m, nil
		case "tab", "right":
			m.CurrentView = (m.CurrentView + 1) % 3
			return m, nil
		case "shift+tab", "left":
			m.CurrentView = (m.CurrentView + 2) % 3
			return m, nil
		case "ctrl+s":
			m.saveHistory()
			return m, clearStatusCmd()
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		contentHeight := m.Height - 6

		m.Samples.SetWidth(m.Width - 6)
		m.Samples.SetHeight(max(contentHeight-6, 3))
		m.Elapsed.Width = max(m.Width-10, 10)
		m.fillElapsed()

		inner := tea.WindowSizeMsg{Width: m.Width, Height: contentHeight}
		m.Summary, _ = m.Summary.Update(inner)
		m.History, _ = m.History.Update(inner)
		return m, nil
	}

	var cmd tea.Cmd
	switch m.CurrentView {
	case ViewSamples:
		m.Samples, cmd = m.Samples.Update(msg)
	case ViewSummary:
		m.Summary, cmd = m.Summary.Update(msg)
	case ViewHistory:
		m.History, cmd = m.History.Update(msg)
	}
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m *Model) saveHistory() {
	if m.Store == nil {
		m.StatusMsg = "History is unavailable."
		return
	}
	item := storage.NewItem(m.File.Path, "view", m.File.Table)
	if err := m.Store.Save(item); err != nil {
		m.StatusMsg = fmt.Sprintf("Error saving history: %v", err)
		return
	}
	m.StatusMsg = "Summary saved to history."
	m.History.Refresh()
}

// detail describes the sample under the cursor.
func (m Model) detail() string {
	i := m.Samples.Cursor()
	if i < 0 || i >= len(m.File.Results) {
		return ""
	}
	res := m.File.Results[i]
	status := styles.Success.Render("OK")
	if !res.Success {
		status = styles.Error.Render("FAIL")
	}
	return fmt.Sprintf("%s  %s  %s %s  %s",
		status, res.Label, res.ResponseCode, res.ResponseMessage, styles.Subtle.Render(res.ThreadName))
}

func (m Model) samplesView() string {
	s := strings.Builder{}
	header := fmt.Sprintf("%s  %d samples", m.File.Path, len(m.File.Results))
	if !m.File.HasHeader {
		header += "  (no header, default columns)"
	}
	s.WriteString(styles.Title.Render(header))
	s.WriteString("\n")
	if m.File.NumBad > 0 {
		s.WriteString(styles.Warn.Render(fmt.Sprintf("%d lines could not be decoded", m.File.NumBad)))
		s.WriteString("\n")
	}
	s.WriteString(m.Samples.View())
	s.WriteString("\n")
	s.WriteString(m.detail())
	s.WriteString("\n\n")
	s.WriteString(m.Elapsed.View())
	return s.String()
}

func (m Model) View() string {
	if m.Width == 0 {
		return "Loading..."
	}

	nav := strings.Builder{}
	for i, item := range m.MenuItems {
		if ViewID(i) == m.CurrentView {
			nav.WriteString(styles.TabActive.Render(item))
		} else {
			nav.WriteString(styles.TabBase.Render(item))
		}
	}
	navBar := styles.FooterBase.Width(m.Width).Render(nav.String())

	contentStr := ""
	switch m.CurrentView {
	case ViewSamples:
		contentStr = m.samplesView()
	case ViewSummary:
		contentStr = m.Summary.View()
	case ViewHistory:
		contentStr = m.History.View()
	}
	content := styles.Panel.Width(m.Width - 2).Height(m.Height - 5).Render(contentStr)

	keys := []string{
		styles.RenderKey("Tab", "View"),
		styles.RenderKey("↑/↓", "Move"),
		styles.RenderKey("Ctrl+S", "Save summary"),
		styles.RenderKey("Q", "Quit"),
	}
	footer := styles.FooterBase.Width(m.Width).Render(strings.Join(keys, "   "))

	if m.StatusMsg != "" {
		status := styles.Box.BorderForeground(styles.ColorHighlight).Render(m.StatusMsg)
		return lipgloss.JoinVertical(lipgloss.Left, navBar, content, status, footer)
	}
	return lipgloss.JoinVertical(lipgloss.Left, navBar, content, footer)
}
