package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"jtlq/internal/cli"
	"jtlq/internal/csvsave"
	"jtlq/internal/dummy"
	"jtlq/internal/resultfile"
	"jtlq/internal/runner"
	"jtlq/internal/storage"
	"jtlq/internal/tui/app"
)

var (
	url      string
	method   string
	body     string
	label    string
	rate     int
	users    int
	duration int
	rampUp   int
	rampDown int
	timeout  int
	headers  []string
	outFile  string
	useTUI   bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Send load to a URL and save every sample to a results file",
	Long: `Send load to a URL, open loop (--rate) or closed loop (--users).

Samples are written with the configured save configuration, so the
saveservice.* settings pick the columns of the results file.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := runner.Config{
			URL:        url,
			Method:     method,
			Body:       body,
			Label:      label,
			TargetRPS:  rate,
			SteadyDur:  duration,
			RampUp:     rampUp,
			RampDown:   rampDown,
			TimeoutSec: timeout,
			Mode:       "rps",
			Headers:    parseHeaders(headers),
		}
		if users > 0 {
			cfg.Mode = "users"
			cfg.NumUsers = users
		}
		if runner.HasTemplate(body) {
			tmpl, err := runner.ParseBody(body)
			if err != nil {
				return err
			}
			cfg.BodyTmpl = tmpl
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		var w *csvsave.Writer
		var f *os.File
		if outFile != "" {
			saveCfg, err := saveConfig()
			if err != nil {
				return err
			}
			if f, err = os.Create(outFile); err != nil {
				return err
			}
			defer f.Close()
			if w, err = csvsave.NewWriter(f, saveCfg); err != nil {
				return err
			}
		}

		var sink runner.Sink
		if w != nil {
			sink = w
		}
		r := runner.NewRunner(cfg, sink, make(runner.StatsUpdateChan, 100))

		var runErr error
		if useTUI {
			final, err := tea.NewProgram(app.NewRunModel(ctx, r, outFile), tea.WithAltScreen()).Run()
			if err != nil {
				return fmt.Errorf("running tui: %w", err)
			}
			runErr = final.(app.RunModel).Err
		} else {
			runErr = cli.Start(ctx, r, outFile, cmd.OutOrStdout())
		}
		if runErr != nil {
			return runErr
		}
		if w == nil {
			return nil
		}
		if err := w.Flush(); err != nil {
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		return recordRun(cmd, outFile)
	},
}

// recordRun reads the results file back and saves its summary.
func recordRun(cmd *cobra.Command, path string) error {
	defaults, err := saveConfig()
	if err != nil {
		return err
	}
	rf, err := resultfile.Load(path, defaults, false)
	if err != nil {
		return err
	}
	if useTUI {
		cli.PrintSummary(cmd.OutOrStdout(), rf)
	}
	store, err := openStore()
	if err != nil {
		return err
	}
	return store.Save(storage.NewItem(path, "run", rf.Table))
}

var targetCmd = &cobra.Command{
	Use:   "target",
	Short: "Serve a local dummy target to run against",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		fmt.Fprintf(cmd.OutOrStdout(), "Dummy target on %s, endpoints: %s\n", addr, strings.Join(dummy.Endpoints, ", "))
		return dummy.Serve(ctx, dummy.ServerConfig{Addr: addr})
	},
}

func init() {
	f := runCmd.Flags()
	f.StringVarP(&url, "url", "u", "", "Target URL")
	f.StringVarP(&method, "method", "X", "GET", "HTTP Method")
	f.StringVarP(&body, "body", "b", "", "Request body; {{thread}}, {{requestID}}, {{seq}} and template functions are expanded per request")
	f.StringVarP(&label, "label", "l", "", "Sample label (default: URL path)")
	f.IntVarP(&rate, "rate", "r", 10, "Target RPS (Open Loop)")
	f.IntVarP(&users, "users", "U", 0, "Target Users (Closed Loop, overrides rate)")
	f.IntVar(&duration, "duration", 10, "Duration in seconds")
	f.IntVar(&rampUp, "ramp-up", 0, "Ramp Up duration in seconds")
	f.IntVar(&rampDown, "ramp-down", 0, "Ramp Down duration in seconds")
	f.IntVar(&timeout, "timeout", 10, "Request timeout in seconds")
	f.StringSliceVarP(&headers, "header", "H", []string{}, "HTTP Header (e.g. \"Key: Value\")")
	f.StringVarP(&outFile, "out", "o", "results.jtl", "Results file (empty to skip)")
	f.BoolVar(&useTUI, "tui", false, "Show the live dashboard")
	runCmd.MarkFlagRequired("url")

	targetCmd.Flags().String("addr", ":8080", "Listen address")
}

func parseHeaders(hs []string) map[string]string {
	out := make(map[string]string)
	for _, h := range hs {
		parts := strings.SplitN(h, ":", 2)
		if len(parts) == 2 {
			out[strings.TrimSpace(parts[0])] = strings.TrimSpace(parts[1])
		}
	}
	return out
}
