package history

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"jtlq/internal/storage"
	"jtlq/internal/tui/styles"
)

type Model struct {
	Store *storage.Store
	Table table.Model

	Width  int
	Height int
}

func NewModel(store *storage.Store) Model {
	columns := []table.Column{
		{Title: "Time", Width: 20},
		{Title: "Source", Width: 30},
		{Title: "From", Width: 8},
		{Title: "Samples", Width: 10},
		{Title: "Fail", Width: 8},
		{Title: "P99 (ms)", Width: 10},
		{Title: "Thru/s", Width: 10},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	t.SetStyles(styles.Table())

	m := Model{
		Store: store,
		Table: t,
	}
	m.Refresh()
	return m
}

func (m *Model) Refresh() {
	if m.Store == nil {
		return
	}
	items := m.Store.List()
	rows := make([]table.Row, len(items))

	for i, item := range items {
		rows[i] = table.Row{
			item.Timestamp.Format(time.DateTime),
			item.Source,
			item.Origin,
			fmt.Sprintf("%d", item.Summary.TotalRequests),
			fmt.Sprintf("%d", item.Summary.Fail),
			fmt.Sprintf("%d", item.Summary.P99ElapsedMs),
			fmt.Sprintf("%.2f", item.Summary.Throughput),
		}
	}
	m.Table.SetRows(rows)
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Table.SetWidth(msg.Width - 4)
		m.Table.SetHeight(max(msg.Height-6, 3))
	}

	m.Table, cmd = m.Table.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.Store == nil {
		return styles.Subtle.Render("History is unavailable.")
	}
	if len(m.Table.Rows()) == 0 {
		return styles.Subtle.Render("No history yet. Press ctrl+s on a file to save its summary.")
	}
	return m.Table.View()
}
