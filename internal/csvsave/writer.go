package csvsave

import (
	"bufio"
	"fmt"
	"io"

	"jtlq/internal/sample"
)

// A Writer writes sample results as delimited lines under one config.
// A Writer is not safe for concurrent use.
type Writer struct {
	w   *bufio.Writer
	cfg *SaveConfig

	wroteHeader bool
}

// NewWriter returns a Writer that encodes results to w with cfg. cfg is
// cloned. A Strict config that fails Validate is refused.
func NewWriter(w io.Writer, cfg *SaveConfig) (*Writer, error) {
	if cfg.Strict {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("save config: %w", err)
		}
	}
	return &Writer{w: bufio.NewWriter(w), cfg: cfg.Clone()}, nil
}

// Config returns the config w encodes with.
func (w *Writer) Config() *SaveConfig {
	return w.cfg
}

// WriteHeader writes the header line if it has not been written yet.
func (w *Writer) WriteHeader() error {
	if w.wroteHeader {
		return nil
	}
	w.wroteHeader = true
	return w.writeLine(HeaderLine(w.cfg))
}

// Write writes res, preceded by the header on first use if the config
// asks for field names. With SubResults set, each nested sub-result
// follows its parent on its own line.
func (w *Writer) Write(res *sample.Result) error {
	if w.cfg.PrintFieldNames && !w.wroteHeader {
		if err := w.WriteHeader(); err != nil {
			return err
		}
	}
	if err := w.writeLine(Encode(res, w.cfg)); err != nil {
		return err
	}
	if w.cfg.SubResults {
		for _, sub := range res.SubResults {
			if err := w.Write(sub); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *Writer) writeLine(line string) error {
	if _, err := w.w.WriteString(line); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

// Flush writes buffered lines to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}
