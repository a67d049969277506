package app

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"jtlq/internal/runner"
	"jtlq/internal/tui/live"
)

type StatsMsg runner.StatsSnapshot

type runDoneMsg struct{ err error }

// RunModel drives a runner and shows its progress until it finishes.
type RunModel struct {
	Runner  *runner.Runner
	Updates runner.StatsUpdateChan
	Live    live.Model

	ctx    context.Context
	cancel context.CancelFunc

	Err  error
	Done bool
}

func NewRunModel(ctx context.Context, r *runner.Runner, outFile string) RunModel {
	ctx, cancel := context.WithCancel(ctx)
	return RunModel{
		Runner:  r,
		Updates: r.Updates,
		Live:    live.NewModel(r.Cfg, outFile),
		ctx:     ctx,
		cancel:  cancel,
	}
}

func (m RunModel) Init() tea.Cmd {
	r, ctx := m.Runner, m.ctx
	return tea.Batch(
		func() tea.Msg { return runDoneMsg{r.Run(ctx)} },
		waitForUpdate(m.Updates),
	)
}

func waitForUpdate(sub runner.StatsUpdateChan) tea.Cmd {
	return func() tea.Msg {
		return StatsMsg(<-sub)
	}
}

func (m RunModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			// Stop sending; runDoneMsg follows once in-flight requests drain.
			m.cancel()
		}
		return m, nil

	case runDoneMsg:
		m.Done = true
		m.Err = msg.err
		m.cancel()
		return m, tea.Quit

	case StatsMsg:
		var cmd tea.Cmd
		m.Live, cmd = m.Live.Update(runner.StatsSnapshot(msg))
		return m, tea.Batch(cmd, waitForUpdate(m.Updates))
	}

	var cmd tea.Cmd
	m.Live, cmd = m.Live.Update(msg)
	return m, cmd
}

func (m RunModel) View() string {
	return m.Live.View()
}
