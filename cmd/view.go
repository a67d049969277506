package cmd

import (
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"jtlq/internal/resultfile"
	"jtlq/internal/tui/app"
	"jtlq/internal/tui/styles"
)

var viewCmd = &cobra.Command{
	Use:   "view FILE",
	Short: "Browse a results file in the terminal UI",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := saveConfig()
		if err != nil {
			return err
		}
		f, err := resultfile.Load(args[0], defaults, true)
		if err != nil {
			return err
		}
		store, err := openStore()
		if err != nil {
			// The browser works without history.
			slog.Warn("history unavailable", "err", err)
		}

		p := tea.NewProgram(app.NewModel(f, store), tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("running view: %w", err)
		}
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved summaries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		items := store.List()
		out := cmd.OutOrStdout()
		if len(items) == 0 {
			fmt.Fprintln(out, styles.Subtle.Render("No history yet."))
			return nil
		}

		t := table.New().
			Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(styles.ColorBorder)).
			Headers("Time", "Source", "From", "Samples", "Fail", "Avg", "P99", "Thru/s").
			StyleFunc(func(row, col int) lipgloss.Style {
				s := lipgloss.NewStyle().Padding(0, 1)
				if row == table.HeaderRow {
					return s.Foreground(styles.ColorPrimary).Bold(true)
				}
				return s
			})
		for _, item := range items {
			s := item.Summary
			t.Row(
				item.Timestamp.Format(time.DateTime),
				item.Source,
				item.Origin,
				fmt.Sprintf("%d", s.TotalRequests),
				fmt.Sprintf("%d", s.Fail),
				fmt.Sprintf("%.0f", s.AvgElapsedMs),
				fmt.Sprintf("%d", s.P99ElapsedMs),
				fmt.Sprintf("%.2f", s.Throughput),
			)
		}
		fmt.Fprintln(out, t.Render())
		return nil
	},
}
