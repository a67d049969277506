package csvsave

import (
	"strings"
	"testing"
)

func TestSniffHeaderLine(t *testing.T) {
	for _, mask := range testMasks() {
		if mask == 0 {
			continue
		}
		c := configFromMask(mask)
		header := HeaderLine(c)
		got := Sniff(header, DefaultDelimiter)
		if got == nil {
			t.Errorf("mask %#x: Sniff(%q) = nil", mask, header)
			continue
		}
		if !got.Equal(c) {
			t.Errorf("mask %#x: Sniff(%q) enables %v, want %v", mask, header, got.Columns(), c.Columns())
		}
		if got.Delimiter() != DefaultDelimiter {
			t.Errorf("mask %#x: delimiter %q, want %q", mask, got.Delimiter(), DefaultDelimiter)
		}
	}
}

func TestSniffInfersDelimiter(t *testing.T) {
	for _, delim := range []string{";", "|", "\t", ":", "é"} {
		for _, mask := range testMasks() {
			c := configFromMask(mask)
			if len(c.Columns()) < 2 {
				continue
			}
			c.SetDelimiter(delim)
			header := HeaderLine(c)
			got := Sniff(header, DefaultDelimiter)
			if got == nil {
				t.Errorf("Sniff(%q) = nil", header)
				continue
			}
			if !got.Equal(c) || got.Delimiter() != delim {
				t.Errorf("Sniff(%q) = %v split on %q, want %v split on %q",
					header, got.Columns(), got.Delimiter(), c.Columns(), delim)
			}
		}
	}
}

func TestSniffRejects(t *testing.T) {
	for _, line := range []string{
		"",
		"label,elapsed",            // out of order
		"label;elapsed",            // out of order after inference
		"elapsed,elapsed",          // duplicate
		"timeStamp,elapsed,Label",  // wrong case
		"timeStamp,elapsed,bogus",  // unknown column
		"elapsed,grpThreads",       // pair without partner
		"SampleCount",              // pair without partner
		"1000,50,Req1,true",        // data line
		"1700000000123;12;home",    // data line, inferable delimiter
		"timeStamp;elapsed,label",  // mixed delimiters
		"timeStamp, elapsed",       // padded
		"timeStamp,elapsed,label,", // trailing delimiter
	} {
		if got := Sniff(line, DefaultDelimiter); got != nil {
			t.Errorf("Sniff(%q) = %v, want nil", line, got.Columns())
		}
	}
}

func TestSniffSingleColumn(t *testing.T) {
	got := Sniff("elapsed", DefaultDelimiter)
	if got == nil {
		t.Fatal("Sniff(\"elapsed\") = nil")
	}
	if cols := got.Columns(); len(cols) != 1 || cols[0] != ColElapsed {
		t.Errorf("Columns = %v, want [elapsed]", cols)
	}
}

func TestSniffMultiCharDelimiter(t *testing.T) {
	c := New()
	c.SetElapsed(true)
	c.SetLabel(true)
	c.SetDelimiter("::")
	header := HeaderLine(c)

	// Inference only finds single characters.
	if got := Sniff(header, DefaultDelimiter); got != nil {
		t.Errorf("Sniff(%q, %q) = %v, want nil", header, DefaultDelimiter, got.Columns())
	}
	got := Sniff(header, "::")
	if got == nil || !got.Equal(c) {
		t.Fatalf("Sniff(%q, %q) = %v, want %v", header, "::", got, c.Columns())
	}
}

func TestInferDelimiter(t *testing.T) {
	type testCase struct {
		line  string
		delim string
		ok    bool
	}
	for _, test := range []testCase{
		{"a;b;c", ";", true},
		{"a|b", "|", true},
		{"a", "", false},
		{"a;b|c", "", false},
		{"a;;b", "", false},
		{"elapsedélabel", "é", true},
		{"label·elapsed", "·", true},
		{"", "", false},
		{strings.Join([]string{"timeStamp", "elapsed", "label"}, "\t"), "\t", true},
	} {
		delim, ok := inferDelimiter(test.line)
		if delim != test.delim || ok != test.ok {
			t.Errorf("inferDelimiter(%q) = %q, %v, want %q, %v", test.line, delim, ok, test.delim, test.ok)
		}
	}
}
