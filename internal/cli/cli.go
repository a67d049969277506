package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"jtlq/internal/resultfile"
	"jtlq/internal/runner"
	"jtlq/internal/stats"
	"jtlq/internal/tui/styles"
)

const rule = "======================================================================"

// Start runs r headless, printing a progress line to out until the run
// ends, then the run summary.
func Start(ctx context.Context, r *runner.Runner, outFile string, out io.Writer) error {
	printHeader(out, r.Cfg, outFile)

	done := make(chan error, 1)
	startTime := time.Now()
	go func() { done <- r.Run(ctx) }()

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	totalDuration := r.Cfg.TotalDuration()
	for {
		select {
		case <-r.Updates:
			// Drain updates
		case err := <-done:
			printSummary(out, r.Stats.Snapshot(), time.Since(startTime))
			return err
		case <-ticker.C:
			elapsed := time.Since(startTime)
			snap := r.Stats.Snapshot()
			rps := float64(snap.Requests) / max(elapsed.Seconds(), 0.001)

			pct := 1.0
			if totalDuration > 0 {
				pct = min(elapsed.Seconds()/totalDuration.Seconds(), 1.0)
			}
			if elapsed >= totalDuration {
				fmt.Fprintf(out, "\r%s %3.0f%% | %s/%s | Draining: %d requests...                ",
					progressBar(1.0, 20), 100.0,
					elapsed.Round(time.Second), totalDuration,
					r.GetInflight())
				continue
			}
			fmt.Fprintf(out, "\r%s %3.0f%% | %s/%s | Inf: %3d | RPS: %.1f | OK: %d | Err: %d",
				progressBar(pct, 20), pct*100,
				elapsed.Round(time.Second), totalDuration,
				r.GetInflight(),
				rps,
				snap.Success,
				snap.Fail,
			)
		}
	}
}

func printHeader(out io.Writer, cfg runner.Config, outFile string) {
	fmt.Fprintf(out, "\nSTARTING RUN\n%s\n", rule)
	fmt.Fprintf(out, "Target URL : %s\n", cfg.URL)
	fmt.Fprintf(out, "Method     : %s\n", cfg.Method)
	if cfg.Mode == "users" {
		fmt.Fprintf(out, "Users      : %d\n", cfg.NumUsers)
	} else {
		fmt.Fprintf(out, "Target RPS : %d\n", cfg.TargetRPS)
	}
	fmt.Fprintf(out, "Duration   : %ds (Steady) + %ds (RampUp) + %ds (RampDown)\n", cfg.SteadyDur, cfg.RampUp, cfg.RampDown)
	if outFile != "" {
		fmt.Fprintf(out, "Results    : %s\n", outFile)
	}
	fmt.Fprintf(out, "%s\n\n", rule)
}

func progressBar(pct float64, width int) string {
	filled := max(0, min(int(pct*float64(width)), width))
	return "[" + strings.Repeat("█", filled) + strings.Repeat("-", width-filled) + "]"
}

func printSummary(out io.Writer, snap stats.Snapshot, totalTime time.Duration) {
	rps := float64(snap.Requests) / max(totalTime.Seconds(), 0.001)

	fmt.Fprintf(out, "\n\nRUN RESULTS\n%s\n", rule)
	fmt.Fprintf(out, "Total Duration : %s\n", totalTime.Round(time.Second))
	fmt.Fprintf(out, "Samples        : %d\n", snap.Requests)
	fmt.Fprintf(out, "Success        : %d\n", snap.Success)
	fmt.Fprintf(out, "Failures       : %d\n", snap.Fail)
	fmt.Fprintf(out, "Actual RPS     : %.2f\n", rps)
	fmt.Fprintf(out, "\nELAPSED (ms)\n")
	fmt.Fprintf(out, "   P50 : %d\n", snap.P50ElapsedMs)
	fmt.Fprintf(out, "   P90 : %d\n", snap.P90ElapsedMs)
	fmt.Fprintf(out, "   P99 : %d\n", snap.P99ElapsedMs)
	fmt.Fprintf(out, "   Max : %d\n", snap.MaxElapsedMs)
	fmt.Fprintf(out, "   Avg latency : %.2f\n", snap.AvgLatencyMs)
	fmt.Fprintf(out, "%s\n", rule)
}

// SummaryRows is the aggregate report, one row per label then TOTAL.
func SummaryRows(t *stats.Table) [][]string {
	var rows [][]string
	for _, r := range append(t.Rows(), t.Total()) {
		rows = append(rows, []string{
			r.Label,
			fmt.Sprintf("%d", r.Samples),
			fmt.Sprintf("%.0f", r.Elapsed.Mean()),
			fmt.Sprintf("%d", r.Elapsed.Min()),
			fmt.Sprintf("%d", r.Elapsed.ValueAtQuantile(50)),
			fmt.Sprintf("%d", r.Elapsed.ValueAtQuantile(90)),
			fmt.Sprintf("%d", r.Elapsed.ValueAtQuantile(99)),
			fmt.Sprintf("%d", r.Elapsed.Max()),
			fmt.Sprintf("%.2f%%", r.ErrorRate()),
			fmt.Sprintf("%.2f", r.Throughput()),
		})
	}
	return rows
}

var summaryHeaders = []string{"Label", "Samples", "Avg", "Min", "P50", "P90", "P99", "Max", "Error %", "Thru/s"}

// PrintSummary writes the aggregate report of a loaded results file.
func PrintSummary(out io.Writer, f *resultfile.File) {
	rows := SummaryRows(f.Table)
	labels := f.Table.Rows()
	last := len(rows) - 1

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(styles.ColorBorder)).
		Headers(summaryHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := lipgloss.NewStyle().Padding(0, 1)
			switch {
			case row == table.HeaderRow:
				return s.Foreground(styles.ColorPrimary).Bold(true)
			case row == last:
				return s.Bold(true)
			case col == 8 && row < len(labels) && labels[row].ErrorRate() > 0:
				return s.Inherit(styles.ErrorRate(labels[row].ErrorRate()))
			}
			return s
		})

	fmt.Fprintln(out, styles.Title.Render(f.Path))
	fmt.Fprintln(out, t.Render())
	PrintBadLines(out, f)
}

// PrintBadLines lists the lines of f that failed to decode.
func PrintBadLines(out io.Writer, f *resultfile.File) {
	if f.NumBad == 0 {
		return
	}
	fmt.Fprintln(out, styles.Warn.Render(fmt.Sprintf("%d lines skipped:", f.NumBad)))
	for _, err := range f.BadLines {
		fmt.Fprintf(out, "   %v\n", err)
	}
	if f.NumBad > len(f.BadLines) {
		fmt.Fprintf(out, "   ... and %d more\n", f.NumBad-len(f.BadLines))
	}
}
