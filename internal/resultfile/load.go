// Package resultfile loads a whole results file into memory.
package resultfile

import (
	"fmt"
	"io"
	"os"

	"jtlq/internal/csvsave"
	"jtlq/internal/sample"
	"jtlq/internal/stats"
)

// MaxBadLines caps how many decode errors a File keeps.
const MaxBadLines = 100

type File struct {
	Path      string
	Config    *csvsave.SaveConfig
	HasHeader bool

	// Results is only filled when loading with keep set.
	Results []*sample.Result
	Table   *stats.Table

	BadLines []error
	NumBad   int
}

// Load reads the results file at path. "-" reads stdin.
func Load(path string, defaults *csvsave.SaveConfig, keep bool) (*File, error) {
	if path == "-" {
		return Read(os.Stdin, "<stdin>", defaults, keep)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f, path, defaults, keep)
}

// Read decodes every line of r. Lines that fail to decode are counted and
// skipped, unless defaults is Strict, where the first one is returned.
func Read(r io.Reader, name string, defaults *csvsave.SaveConfig, keep bool) (*File, error) {
	rd := csvsave.NewReader(r, name, defaults)
	out := &File{Path: name, Table: stats.NewTable()}
	for rd.Scan() {
		res, err := rd.Result()
		if err != nil {
			if defaults != nil && defaults.Strict {
				return nil, err
			}
			out.NumBad++
			if len(out.BadLines) < MaxBadLines {
				out.BadLines = append(out.BadLines, err)
			}
			continue
		}
		out.Table.Add(res)
		if keep {
			out.Results = append(out.Results, res)
		}
	}
	if err := rd.Err(); err != nil {
		return nil, fmt.Errorf("reading results: %w", err)
	}
	out.Config = rd.Config()
	out.HasHeader = rd.HasHeader()
	return out, nil
}
