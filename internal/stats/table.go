package stats

import (
	"sort"

	"jtlq/internal/sample"
)

// TotalLabel names the row that aggregates every label.
const TotalLabel = "TOTAL"

// Row aggregates all samples sharing a label.
type Row struct {
	Label   string
	Samples int64
	Errors  int64
	Bytes   int64

	Elapsed *SafeHistogram
	Latency *SafeHistogram

	// First sample start and last sample end, epoch milliseconds.
	First int64
	Last  int64
}

func newRow(label string) *Row {
	return &Row{
		Label:   label,
		Elapsed: NewSafeHistogram(),
		Latency: NewSafeHistogram(),
	}
}

func (r *Row) add(res *sample.Result) {
	n := int64(res.Samples())
	if r.Samples == 0 || res.TimeStamp < r.First {
		r.First = res.TimeStamp
	}
	if end := res.TimeStamp + res.Elapsed; end > r.Last {
		r.Last = end
	}
	r.Samples += n
	r.Errors += int64(res.Errors())
	r.Bytes += int64(res.Bytes)
	r.Elapsed.RecordValues(res.Elapsed, n)
	r.Latency.RecordValues(res.Latency, n)
}

// ErrorRate is the failed share of samples, in percent.
func (r *Row) ErrorRate() float64 {
	if r.Samples == 0 {
		return 0
	}
	return float64(r.Errors) / float64(r.Samples) * 100
}

// Throughput is samples per second over the span the row covers.
func (r *Row) Throughput() float64 {
	span := r.Last - r.First
	if span <= 0 {
		return 0
	}
	return float64(r.Samples) * 1000 / float64(span)
}

// Table is a per-label summary of a results stream. It is not safe for
// concurrent use.
type Table struct {
	rows  map[string]*Row
	total *Row
}

func NewTable() *Table {
	return &Table{rows: make(map[string]*Row), total: newRow(TotalLabel)}
}

// Add counts res under its label and in the total.
func (t *Table) Add(res *sample.Result) {
	row, ok := t.rows[res.Label]
	if !ok {
		row = newRow(res.Label)
		t.rows[res.Label] = row
	}
	row.add(res)
	t.total.add(res)
}

// Rows returns the per-label rows sorted by label.
func (t *Table) Rows() []*Row {
	rows := make([]*Row, 0, len(t.rows))
	for _, r := range t.rows {
		rows = append(rows, r)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Label < rows[j].Label })
	return rows
}

// Total returns the row covering every sample.
func (t *Table) Total() *Row {
	return t.total
}
