package csvsave

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"

	"jtlq/internal/sample"
)

// A Reader reads sample results from a delimited results file.
//
// Its API is modeled on bufio.Scanner. The first line is sniffed: if it
// is a header, the Reader uses the config it describes; otherwise a
// clone of the defaults passed to NewReader is used and the first line
// is read as data.
type Reader struct {
	s        *bufio.Scanner
	fileName string
	line     int

	defaults  *SaveConfig
	cfg       *SaveConfig
	header    bool
	started   bool
	pending   string
	pendingOK bool

	res *sample.Result
	rec error // decode error for the current line
	err error // I/O error
}

// NewReader returns a Reader over r. fileName is only used in errors.
// defaults describes files without a header line; it is cloned, never
// modified.
func NewReader(r io.Reader, fileName string, defaults *SaveConfig) *Reader {
	if fileName == "" {
		fileName = "<unknown>"
	}
	if defaults == nil {
		defaults = New()
	}
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return &Reader{s: s, fileName: fileName, defaults: defaults}
}

// start consumes the first line and settles the config.
func (r *Reader) start() {
	r.started = true
	if !r.s.Scan() {
		r.cfg = r.defaults.Clone()
		return
	}
	r.line++
	first := r.s.Text()
	if c := Sniff(first, r.defaults.Delimiter()); c != nil {
		// Header lines don't say how timestamps look; keep the defaults'.
		c.printMS = r.defaults.printMS
		c.formatter = r.defaults.formatter
		c.PrintFieldNames = true
		r.cfg = c
		r.header = true
		return
	}
	slog.Info("no header line, using default save configuration", "file", r.fileName)
	r.cfg = r.defaults.Clone()
	r.pending, r.pendingOK = first, true
}

// Scan advances to the next non-blank line and reports whether there was
// one. Use Result to get the decoded sample. When Scan returns false,
// check Err for I/O errors.
func (r *Reader) Scan() bool {
	if r.err != nil {
		return false
	}
	if !r.started {
		r.start()
	}
	for {
		var text string
		if r.pendingOK {
			text, r.pendingOK = r.pending, false
		} else {
			if !r.s.Scan() {
				if err := r.s.Err(); err != nil {
					r.err = fmt.Errorf("%s:%d: %w", r.fileName, r.line, err)
				}
				return false
			}
			r.line++
			text = r.s.Text()
		}
		if text == "" {
			continue
		}
		r.res, r.rec = Decode(text, r.cfg, r.line)
		if fe, ok := r.rec.(*FieldError); ok {
			fe.FileName = r.fileName
		}
		return true
	}
}

// Result returns the sample read by the last Scan, or the *FieldError
// that line produced. Decode errors are per line: the caller may keep
// calling Scan.
func (r *Reader) Result() (*sample.Result, error) {
	return r.res, r.rec
}

// Err returns the first I/O error the Reader hit.
func (r *Reader) Err() error {
	return r.err
}

// Config returns the config the Reader decodes with. It is only settled
// after the first call to Scan.
func (r *Reader) Config() *SaveConfig {
	if !r.started {
		r.start()
	}
	return r.cfg
}

// HasHeader reports whether the file started with a header line.
func (r *Reader) HasHeader() bool {
	if !r.started {
		r.start()
	}
	return r.header
}

// Line returns the line number of the last line read.
func (r *Reader) Line() int {
	return r.line
}
