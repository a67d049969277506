package csvsave

import (
	"testing"
	"time"
)

func TestDateFormatFormat(t *testing.T) {
	ms := time.Date(2024, 1, 2, 12, 5, 9, 7e6, time.UTC).UnixMilli()
	type testCase struct {
		pattern, want string
		noParse       bool // too little of the date to read it back
	}
	for _, test := range []testCase{
		{"MM/dd/yy HH:mm:ss", "01/02/24 12:05:09", false},
		{"yyyy-MM-dd'T'HH:mm:ss.SSSZ", "2024-01-02T12:05:09.007+0000", false},
		{"yyyy/MM/dd HH:mm:ss,SSS ZZ", "2024/01/02 12:05:09,007 +00:00", false},
		{"EEE, d MMM yyyy h:mm:ss a", "Tue, 2 Jan 2024 12:05:09 PM", false},
		{"EEEE MMMM dd", "Tuesday January 02", true},
		{"yyyyMMdd'_'HH", "20240102_12", false},
		{"''hh'' 'o''clock'", "'12' o'clock", true},
	} {
		f, err := NewDateFormat(test.pattern)
		if err != nil {
			t.Errorf("NewDateFormat(%q): %v", test.pattern, err)
			continue
		}
		f = f.In(time.UTC)
		got := f.Format(ms)
		if got != test.want {
			t.Errorf("Format with %q = %q, want %q", test.pattern, got, test.want)
			continue
		}
		if test.noParse {
			continue
		}
		back, err := f.Parse(got)
		if err != nil {
			t.Errorf("Parse(%q) with %q: %v", got, test.pattern, err)
			continue
		}
		if f.Format(back) != got {
			t.Errorf("Parse(%q) with %q = %d, formats as %q", got, test.pattern, back, f.Format(back))
		}
	}
}

func TestDateFormatBadPattern(t *testing.T) {
	for _, pattern := range []string{
		"HH:mm:ss SSS", // fraction without separator
		"yyyy-QQ",      // unknown letter
		"HH:mm z",      // zone names cannot be parsed
		"yyyyy",
		"'unterminated",
		"yyyyMMdd'_2'HH",         // literal digits
		"yyyy-MM-dd 'Jan' HH:mm", // literal month name
		"yyyy'_'d",               // "_2" is a padded day
		"MMM'uary' d",
		"Hmm", // one-letter hour runs into minutes
	} {
		if _, err := NewDateFormat(pattern); err == nil {
			t.Errorf("NewDateFormat(%q) succeeded, want error", pattern)
		}
	}
}

func TestDateFormatRoundTrip(t *testing.T) {
	f := MustDateFormat("yyyy/MM/dd HH:mm:ss.SSS").In(time.UTC)
	const ms = 1700000000123
	text := f.Format(ms)
	if want := "2023/11/14 22:13:20.123"; text != want {
		t.Errorf("Format(%d) = %q, want %q", int64(ms), text, want)
	}
	got, err := f.Parse(text)
	if err != nil {
		t.Fatalf("Parse(%q): %v", text, err)
	}
	if got != ms {
		t.Errorf("Parse(%q) = %d, want %d", text, got, int64(ms))
	}
	if _, err := f.Parse("not a date"); err == nil {
		t.Error("Parse of garbage succeeded")
	}
}

func TestDateFormatTwoDigitYear(t *testing.T) {
	f := MustDateFormat(DefaultDatePattern).In(time.UTC)
	f.now = func() time.Time { return time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC) }

	type testCase struct {
		text string
		year int
	}
	for _, test := range []testCase{
		{"01/02/23 10:20:30", 2023},
		{"06/15/68 00:00:00", 1968},
		{"01/01/46 00:00:00", 1946},
		{"12/31/45 23:59:59", 2045},
		{"03/04/99 01:02:03", 1999},
	} {
		ms, err := f.Parse(test.text)
		if err != nil {
			t.Errorf("Parse(%q): %v", test.text, err)
			continue
		}
		if got := time.UnixMilli(ms).UTC().Year(); got != test.year {
			t.Errorf("Parse(%q) year = %d, want %d", test.text, got, test.year)
		}
	}
}
