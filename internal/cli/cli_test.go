package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"jtlq/internal/dummy"
	"jtlq/internal/resultfile"
	"jtlq/internal/runner"
	"jtlq/internal/stats"
)

const results = `timeStamp,elapsed,label,success
1000,10,home,true
2000,20,home,true
1500,40,login,false
1600,x,login,true
`

func load(t *testing.T) *resultfile.File {
	t.Helper()
	f, err := resultfile.Read(strings.NewReader(results), "r.csv", nil, false)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestSummaryRows(t *testing.T) {
	rows := SummaryRows(load(t).Table)
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want home, login, TOTAL", len(rows))
	}
	want := [][]string{
		{"home", "2", "15", "10", "10", "20", "20", "20", "0.00%", "1.96"},
		{"login", "1", "40", "40", "40", "40", "40", "40", "100.00%", "25.00"},
		{stats.TotalLabel, "3", "23", "10", "20", "40", "40", "40", "33.33%", "2.94"},
	}
	for i := range want {
		if strings.Join(rows[i], " ") != strings.Join(want[i], " ") {
			t.Errorf("row %d = %v, want %v", i, rows[i], want[i])
		}
	}
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	PrintSummary(&buf, load(t))
	out := buf.String()
	for _, want := range []string{"r.csv", "home", "login", stats.TotalLabel, "1 lines skipped", "could not parse field 'elapsed'"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		pct  float64
		want string
	}{
		{0, "[----]"},
		{0.5, "[██--]"},
		{1, "[████]"},
		{2, "[████]"},
		{-1, "[----]"},
	}
	for _, tt := range tests {
		if got := progressBar(tt.pct, 4); got != tt.want {
			t.Errorf("progressBar(%v) = %q, want %q", tt.pct, got, tt.want)
		}
	}
}

func TestStart(t *testing.T) {
	srv := httptest.NewServer(dummy.Handler(dummy.ServerConfig{Delay: 0.001}))
	defer srv.Close()

	r := runner.NewRunner(runner.Config{
		URL:        srv.URL + "/fast",
		Mode:       "users",
		NumUsers:   1,
		SteadyDur:  10,
		TimeoutSec: 5,
	}, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	var buf bytes.Buffer
	if err := Start(ctx, r, "", &buf); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "RUN RESULTS") || !strings.Contains(out, srv.URL) {
		t.Errorf("output = %q", out)
	}
}
