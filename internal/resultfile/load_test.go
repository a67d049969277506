package resultfile

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"jtlq/internal/csvsave"
)

const results = `timeStamp,elapsed,label,success
1000,10,home,true
1010,x,home,true
1020,30,login,false
`

func TestRead(t *testing.T) {
	f, err := Read(strings.NewReader(results), "r.csv", csvsave.New(), true)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if !f.HasHeader {
		t.Error("HasHeader = false")
	}
	if len(f.Results) != 2 || f.Table.Total().Samples != 2 {
		t.Errorf("got %d results, %d samples, want 2", len(f.Results), f.Table.Total().Samples)
	}
	if f.NumBad != 1 || len(f.BadLines) != 1 {
		t.Fatalf("NumBad = %d, BadLines = %v", f.NumBad, f.BadLines)
	}
	var fe *csvsave.FieldError
	if !errors.As(f.BadLines[0], &fe) || fe.Line != 3 || fe.Field != csvsave.ColElapsed {
		t.Errorf("bad line error = %v", f.BadLines[0])
	}
}

func TestReadWithoutKeep(t *testing.T) {
	f, err := Read(strings.NewReader(results), "r.csv", csvsave.New(), false)
	if err != nil {
		t.Fatal(err)
	}
	if f.Results != nil {
		t.Errorf("Results kept: %d", len(f.Results))
	}
	if got := len(f.Table.Rows()); got != 2 {
		t.Errorf("labels = %d, want 2", got)
	}
}

func TestReadStrict(t *testing.T) {
	defaults := csvsave.New()
	defaults.Strict = true
	_, err := Read(strings.NewReader(results), "r.csv", defaults, true)
	if err == nil {
		t.Fatal("Read() with Strict accepted a bad line")
	}
	var fe *csvsave.FieldError
	if !errors.As(err, &fe) || fe.FileName != "r.csv" {
		t.Errorf("error = %v, want a FieldError for r.csv", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "r.csv")
	if err := os.WriteFile(path, []byte(results), 0644); err != nil {
		t.Fatal(err)
	}
	f, err := Load(path, nil, true)
	if err != nil {
		t.Fatal(err)
	}
	if f.Path != path || len(f.Results) != 2 {
		t.Errorf("Load() = %s with %d results", f.Path, len(f.Results))
	}
	if _, err := Load(filepath.Join(t.TempDir(), "missing.csv"), nil, true); err == nil {
		t.Error("Load() of a missing file succeeded")
	}
}
