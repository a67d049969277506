package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"jtlq/internal/cli"
	"jtlq/internal/config"
	"jtlq/internal/csvsave"
	"jtlq/internal/resultfile"
	"jtlq/internal/storage"
)

var headerCmd = &cobra.Command{
	Use:   "header",
	Short: "Print the header line of the configured save configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := saveConfig()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), csvsave.HeaderLine(cfg))
		return nil
	},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect FILE",
	Short: "Show how a results file is laid out",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := saveConfig()
		if err != nil {
			return err
		}
		f, err := resultfile.Load(args[0], defaults, false)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		c := f.Config
		source := "header line"
		if !f.HasHeader {
			source = "configured defaults"
		}
		timestamps := "epoch milliseconds"
		if !c.PrintMilliseconds() && c.Formatter() != nil {
			timestamps = c.Formatter().Pattern()
		}
		fmt.Fprintf(out, "File       : %s\n", f.Path)
		fmt.Fprintf(out, "Columns    : %s (from %s)\n", strings.Join(c.Columns(), ", "), source)
		fmt.Fprintf(out, "Delimiter  : %q\n", c.Delimiter())
		fmt.Fprintf(out, "Timestamps : %s\n", timestamps)
		fmt.Fprintf(out, "Samples    : %d\n", f.Table.Total().Samples)
		fmt.Fprintf(out, "Labels     : %d\n", len(f.Table.Rows()))
		fmt.Fprintf(out, "Bad lines  : %d\n", f.NumBad)
		return nil
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary FILE...",
	Short: "Print per-label aggregate statistics of results files",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := saveConfig()
		if err != nil {
			return err
		}
		save, _ := cmd.Flags().GetBool("save")
		var store *storage.Store
		if save {
			if store, err = openStore(); err != nil {
				return err
			}
		}

		for _, path := range args {
			f, err := resultfile.Load(path, defaults, false)
			if err != nil {
				return err
			}
			cli.PrintSummary(cmd.OutOrStdout(), f)
			if store != nil {
				if err := store.Save(storage.NewItem(f.Path, "summary", f.Table)); err != nil {
					return fmt.Errorf("saving history: %w", err)
				}
			}
		}
		return nil
	},
}

var convertCmd = &cobra.Command{
	Use:   "convert IN OUT",
	Short: "Rewrite a results file with another delimiter or timestamp format",
	Long: `Rewrite a results file. "-" reads stdin or writes stdout.

The output keeps the input's columns. failureMessage and URL values are
not carried over: they are never read back from a results file.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := saveConfig()
		if err != nil {
			return err
		}
		flags := cmd.Flags()
		toDelim, _ := flags.GetString("to-delimiter")
		toFormat, _ := flags.GetString("to-timestamp-format")
		noHeader, _ := flags.GetBool("no-header")

		in, name, err := openInput(args[0])
		if err != nil {
			return err
		}
		defer in.Close()

		var toFormatter *csvsave.DateFormat
		if toFormat != "" && toFormat != "ms" {
			if toFormatter, err = csvsave.NewDateFormat(toFormat); err != nil {
				return err
			}
		}
		rd := csvsave.NewReader(in, name, defaults)

		out, err := openOutput(args[1])
		if err != nil {
			return err
		}
		// The writer is created from the input config once the first
		// sample is read, so a timestamp format detected on that line
		// carries over.
		var w *csvsave.Writer
		newWriter := func() error {
			target := rd.Config().Clone()
			target.PrintFieldNames = !noHeader
			if toDelim != "" {
				target.SetDelimiter(config.ParseDelimiter(toDelim))
			}
			switch {
			case toFormat == "ms":
				target.SetFormatter(nil)
			case toFormatter != nil:
				target.SetFormatter(toFormatter)
			}
			w, err = csvsave.NewWriter(out, target)
			return err
		}

		written, skipped := 0, 0
		for rd.Scan() {
			res, err := rd.Result()
			if err != nil {
				if defaults.Strict {
					out.Close()
					return err
				}
				slog.Warn("skipping line", "err", err)
				skipped++
				continue
			}
			if w == nil {
				if err := newWriter(); err != nil {
					out.Close()
					return err
				}
			}
			if err := w.Write(res); err != nil {
				out.Close()
				return err
			}
			written++
		}
		if err := rd.Err(); err != nil {
			out.Close()
			return err
		}
		if w == nil {
			if err := newWriter(); err != nil {
				out.Close()
				return err
			}
		}
		if err := w.Flush(); err != nil {
			out.Close()
			return err
		}
		if err := out.Close(); err != nil {
			return err
		}
		slog.Info("converted", "in", name, "out", args[1], "written", written, "skipped", skipped)
		return nil
	},
}

func init() {
	summaryCmd.Flags().Bool("save", false, "record each summary in the history")

	convertCmd.Flags().String("to-delimiter", "", "output delimiter (default: same as input)")
	convertCmd.Flags().String("to-timestamp-format", "", `output timestamps: "ms" or a date pattern (default: same as the first input sample)`)
	convertCmd.Flags().Bool("no-header", false, "do not write a header line")
}

func openInput(path string) (io.ReadCloser, string, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), "<stdin>", nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, "", err
	}
	return f, path, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

func openStore() (*storage.Store, error) {
	dir, err := storage.DefaultDir()
	if err != nil {
		return nil, err
	}
	return storage.NewStore(dir)
}
