package result

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"jtlq/internal/stats"
	"jtlq/internal/tui/styles"
)

// Model is the per-label aggregate report of a results file.
type Model struct {
	Table *stats.Table
	Grid  table.Model

	Width  int
	Height int
}

func NewModel(t *stats.Table) Model {
	columns := []table.Column{
		{Title: "Label", Width: 24},
		{Title: "Samples", Width: 9},
		{Title: "Avg", Width: 8},
		{Title: "Min", Width: 7},
		{Title: "P90", Width: 7},
		{Title: "P99", Width: 7},
		{Title: "Max", Width: 7},
		{Title: "Error %", Width: 8},
		{Title: "Thru/s", Width: 9},
		{Title: "KB", Width: 9},
	}

	g := table.New(
		table.WithColumns(columns),
		table.WithRows(Rows(t)),
		table.WithFocused(true),
		table.WithHeight(10),
	)
	g.SetStyles(styles.Table())

	return Model{Table: t, Grid: g}
}

// Rows renders every label row and the total, last.
func Rows(t *stats.Table) []table.Row {
	var rows []table.Row
	for _, r := range t.Rows() {
		rows = append(rows, row(r))
	}
	return append(rows, row(t.Total()))
}

func row(r *stats.Row) table.Row {
	return table.Row{
		r.Label,
		fmt.Sprintf("%d", r.Samples),
		fmt.Sprintf("%.0f", r.Elapsed.Mean()),
		fmt.Sprintf("%d", r.Elapsed.Min()),
		fmt.Sprintf("%d", r.Elapsed.ValueAtQuantile(90)),
		fmt.Sprintf("%d", r.Elapsed.ValueAtQuantile(99)),
		fmt.Sprintf("%d", r.Elapsed.Max()),
		fmt.Sprintf("%.2f", r.ErrorRate()),
		fmt.Sprintf("%.2f", r.Throughput()),
		fmt.Sprintf("%.1f", float64(r.Bytes)/1024),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Grid.SetWidth(msg.Width - 4)
		m.Grid.SetHeight(max(msg.Height-8, 3))
	}
	var cmd tea.Cmd
	m.Grid, cmd = m.Grid.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	s := strings.Builder{}
	total := m.Table.Total()

	s.WriteString(styles.Active.Render("Aggregate (elapsed, ms)"))
	s.WriteString("  ")
	s.WriteString(styles.ErrorRate(total.ErrorRate()).Render(
		fmt.Sprintf("%d samples, %.2f%% errors", total.Samples, total.ErrorRate())))
	s.WriteString("\n\n")
	s.WriteString(m.Grid.View())
	return s.String()
}
