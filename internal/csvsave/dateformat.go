package csvsave

import (
	"fmt"
	"strings"
	"time"

	"github.com/vjeantet/jodaTime"
)

// DefaultDatePattern is tried when a millisecond timestamp column turns out
// to hold formatted text.
const DefaultDatePattern = "MM/dd/yy HH:mm:ss"

// DateFormat renders and parses timestamps with a SimpleDateFormat style
// pattern such as "yyyy/MM/dd HH:mm:ss.SSS". Times use the local zone.
//
// Supported letters are y M d H h m s S a E and Z. Text in single quotes
// is literal and '' is a quote. Patterns that could not be read back
// unambiguously are rejected. Literals may not contain digits or any of
// the words Jan, Mon, MST, PM and pm. A one-letter numeric field may not
// run straight into another numeric field.
//
// Two-digit years parse into the hundred years starting 80 years ago.
type DateFormat struct {
	pattern string
	tokens  []dateToken
	joda    string
	rewrite bool
	loc     *time.Location
	now     func() time.Time
}

// dateToken is a run of one pattern letter, or literal text when letter
// is zero.
type dateToken struct {
	letter rune
	n      int
	lit    string
}

// maxRun is the longest run each supported letter allows.
var maxRun = map[rune]int{
	'y': 4, 'M': 4, 'd': 2, 'H': 2, 'h': 2, 'm': 2, 's': 2,
	'S': 3, 'a': 1, 'E': 4, 'Z': 2,
}

// NewDateFormat checks pattern and returns a DateFormat for it.
func NewDateFormat(pattern string) (*DateFormat, error) {
	tokens, err := tokenize(pattern)
	if err != nil {
		return nil, fmt.Errorf("date pattern %q: %w", pattern, err)
	}
	if err := checkTokens(tokens); err != nil {
		return nil, fmt.Errorf("date pattern %q: %w", pattern, err)
	}
	f := &DateFormat{
		pattern: pattern,
		tokens:  tokens,
		loc:     time.Local,
		now:     time.Now,
	}
	f.joda = f.build(time.Time{}, false)
	for _, tok := range tokens {
		if overridden(tok) {
			f.rewrite = true
		}
	}
	return f, nil
}

// MustDateFormat is like NewDateFormat but panics on a bad pattern.
func MustDateFormat(pattern string) *DateFormat {
	f, err := NewDateFormat(pattern)
	if err != nil {
		panic(err)
	}
	return f
}

// In returns a copy of f that formats and parses in loc. loc must be
// loadable by name, as time.UTC, time.Local and time.LoadLocation results
// are.
func (f *DateFormat) In(loc *time.Location) *DateFormat {
	f2 := *f
	f2.loc = loc
	return &f2
}

// Pattern returns the pattern f was built from.
func (f *DateFormat) Pattern() string { return f.pattern }

// Format renders ms, milliseconds since the epoch.
func (f *DateFormat) Format(ms int64) string {
	t := time.UnixMilli(ms).In(f.loc)
	p := f.joda
	if f.rewrite {
		p = f.build(t, true)
	}
	return jodaTime.Format(p, t)
}

// Parse returns the epoch milliseconds text represents.
func (f *DateFormat) Parse(text string) (int64, error) {
	t, err := jodaTime.ParseInLocation(f.joda, text, f.loc.String())
	if err != nil {
		return 0, err
	}
	for _, tok := range f.tokens {
		if tok.letter == 'y' && tok.n == 2 {
			t = f.centuryWindow(t)
			break
		}
	}
	return t.UnixMilli(), nil
}

// centuryWindow moves a two-digit year into [now-80, now+20).
func (f *DateFormat) centuryWindow(t time.Time) time.Time {
	start := f.now().Year() - 80
	year := start - start%100 + t.Year()%100
	if year < start {
		year += 100
	}
	if year == t.Year() {
		return t
	}
	return time.Date(year, t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

// overridden reports fields that Format renders itself: jodaTime prints
// noon as AM, drops offset minutes and slices short years by position.
func overridden(tok dateToken) bool {
	return tok.letter == 'a' || tok.letter == 'Z' || tok.letter == 'y' && tok.n == 2
}

// build writes the tokens back as a jodaTime pattern with every literal
// quoted. With render set, overridden fields become literals holding
// their value for t.
func (f *DateFormat) build(t time.Time, render bool) string {
	var b strings.Builder
	for _, tok := range f.tokens {
		switch {
		case tok.letter == 0:
			b.WriteString(quote(tok.lit))
		case render && overridden(tok):
			b.WriteString(quote(renderField(tok, t)))
		default:
			b.WriteString(strings.Repeat(string(tok.letter), tok.n))
		}
	}
	return b.String()
}

func renderField(tok dateToken, t time.Time) string {
	switch tok.letter {
	case 'a':
		return t.Format("PM")
	case 'Z':
		if tok.n == 2 {
			return t.Format("-07:00")
		}
		return t.Format("-0700")
	}
	return fmt.Sprintf("%02d", t.Year()%100)
}

func quote(lit string) string {
	var b strings.Builder
	for i, part := range strings.Split(lit, "'") {
		if i > 0 {
			b.WriteString("''")
		}
		if part != "" {
			b.WriteString("'" + part + "'")
		}
	}
	return b.String()
}

// tokenize splits pattern into letter runs and merged literal text.
func tokenize(pattern string) ([]dateToken, error) {
	var tokens []dateToken
	addLit := func(s string) {
		if n := len(tokens); n > 0 && tokens[n-1].letter == 0 {
			tokens[n-1].lit += s
			return
		}
		tokens = append(tokens, dateToken{lit: s})
	}
	rs := []rune(pattern)
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case r == '\'':
			if i+1 < len(rs) && rs[i+1] == '\'' {
				addLit("'")
				i += 2
				continue
			}
			j := i + 1
			for j < len(rs) && rs[j] != '\'' {
				j++
			}
			if j == len(rs) {
				return nil, fmt.Errorf("unterminated quote")
			}
			addLit(string(rs[i+1 : j]))
			i = j + 1
		case isLetter(r):
			n := 1
			for i+n < len(rs) && rs[i+n] == r {
				n++
			}
			tokens = append(tokens, dateToken{letter: r, n: n})
			i += n
		default:
			addLit(string(r))
			i++
		}
	}
	return tokens, nil
}

// checkTokens rejects fields jodaTime cannot round trip and literals that
// its parser would read as Go layout elements.
func checkTokens(tokens []dateToken) error {
	for i, tok := range tokens {
		var prev, next *dateToken
		if i > 0 {
			prev = &tokens[i-1]
		}
		if i+1 < len(tokens) {
			next = &tokens[i+1]
		}
		if tok.letter == 0 {
			if err := checkLiteral(tok.lit, prev, next); err != nil {
				return err
			}
			continue
		}
		limit, ok := maxRun[tok.letter]
		if !ok {
			return fmt.Errorf("unsupported pattern letter %q", tok.letter)
		}
		if tok.n > limit {
			return fmt.Errorf("too many %q letters", tok.letter)
		}
		if tok.letter == 'S' {
			if prev == nil || prev.letter != 0 || !strings.HasSuffix(prev.lit, ".") && !strings.HasSuffix(prev.lit, ",") {
				return fmt.Errorf("fraction of second must follow '.' or ','")
			}
		}
		if tok.n == 1 && isNumeric(tok) && next != nil && next.letter != 0 && isNumeric(*next) {
			return fmt.Errorf("one-letter %q field runs into %q", tok.letter, next.letter)
		}
	}
	return nil
}

func checkLiteral(lit string, prev, next *dateToken) error {
	if strings.ContainsAny(lit, "0123456789") {
		return fmt.Errorf("literal %q contains a digit", lit)
	}
	for _, word := range []string{"Jan", "Mon", "MST", "PM", "pm"} {
		if strings.Contains(lit, word) {
			return fmt.Errorf("literal %q contains %q", lit, word)
		}
	}
	// "_2" and "__2" are padded day layouts.
	if next != nil && strings.HasSuffix(lit, "_") && (next.letter == 'd' && next.n == 1 || next.letter == 'y' && next.n != 2) {
		return fmt.Errorf("literal %q ends in '_' before a field starting with 2", lit)
	}
	if prev != nil {
		switch {
		case prev.letter == 'M' && prev.n == 3 && strings.HasPrefix(lit, "uary"),
			prev.letter == 'E' && prev.n <= 3 && strings.HasPrefix(lit, "day"):
			return fmt.Errorf("literal %q extends the preceding name", lit)
		}
	}
	return nil
}

func isNumeric(tok dateToken) bool {
	switch tok.letter {
	case 'M':
		return tok.n <= 2
	case 'y', 'd', 'H', 'h', 'm', 's', 'S':
		return true
	}
	return false
}

func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z'
}
