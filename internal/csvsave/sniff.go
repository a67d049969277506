package csvsave

import (
	"log/slog"
	"slices"
	"strings"

	"github.com/dlclark/regexp2"
)

// headerPattern matches ASCII words joined by one repeated non-word
// character, captured as group 2.
var headerPattern = regexp2.MustCompile(`^[A-Za-z0-9_]+(([^A-Za-z0-9_])[A-Za-z0-9_]+)?(\2[A-Za-z0-9_]+)*$`, regexp2.None)

// Sniff reports whether line is a header line and, if so, returns a
// config enabling exactly the columns it names. line is first split on
// delim; if that fails, a single-character delimiter is inferred from the
// line's shape and tried instead.
//
// Every token must be a known column name and the names must appear in
// strictly increasing catalog order. A nil result means line is not a
// header: the caller should fall back to a default config and treat the
// line as data.
func Sniff(line, delim string) *SaveConfig {
	if c := sniffWith(line, delim); c != nil {
		return c
	}
	alt, ok := inferDelimiter(line)
	if !ok || alt == delim {
		return nil
	}
	c := sniffWith(line, alt)
	if c != nil {
		slog.Warn("default delimiter did not match header, using inferred delimiter",
			"default", delim, "inferred", alt)
	}
	return c
}

func sniffWith(line, delim string) *SaveConfig {
	parts := strings.Split(line, delim)
	c := New()
	c.SetDelimiter(delim)
	previous := -1
	for i, name := range parts {
		current, ok := columnIndex[name]
		if !ok {
			return nil
		}
		if current <= previous {
			slog.Warn("header column is out of order", "column", i+1, "name", name)
			return nil
		}
		previous = current
		c.set(catalog[current].flag, true)
	}
	// A paired column named without its partner is not a header we wrote.
	for i := range catalog {
		if c.enabled(catalog[i].flag) && !slices.Contains(parts, catalog[i].name) {
			return nil
		}
	}
	return c
}

// inferDelimiter returns the separator of a line made of ASCII words joined
// by one repeated non-word character.
func inferDelimiter(line string) (string, bool) {
	m, err := headerPattern.FindStringMatch(line)
	if err != nil || m == nil {
		return "", false
	}
	g := m.GroupByNumber(2)
	if g == nil || len(g.Captures) == 0 {
		return "", false
	}
	return g.String(), true
}
