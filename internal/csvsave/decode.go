package csvsave

import (
	"strings"

	"jtlq/internal/sample"
)

// Decode parses one line written under c. Tokens are split on c's
// delimiter taken literally and read in catalog order, one per enabled
// column. lineNo is only used in errors.
//
// The result is Statistical when c saves sample counts, Plain otherwise.
// The failureMessage and URL columns take up a token but are not
// restored.
//
// Decode may change c: if c is in millisecond mode and a timestamp turns
// out to be text in DefaultDatePattern, c's formatter is set to that
// pattern so following lines parse directly. This is the only change
// Decode makes to c.
//
// Any failure is a *FieldError naming the column and line; nothing is
// returned for the line.
func Decode(line string, c *SaveConfig, lineNo int) (*sample.Result, error) {
	kind := sample.Plain
	if c.SaveSampleCount() {
		kind = sample.Statistical
	}
	res := sample.New(kind)

	parts := strings.Split(line, c.Delimiter())
	next := 0
	for i := range catalog {
		col := &catalog[i]
		if !c.enabled(col.flag) {
			continue
		}
		if next >= len(parts) {
			return nil, &FieldError{Line: lineNo, Field: col.name, Err: ErrInsufficientColumns}
		}
		text := parts[next]
		next++
		if err := col.decode(res, text, c); err != nil {
			return nil, &FieldError{Line: lineNo, Field: col.name, Value: text, Err: err}
		}
	}
	return res, nil
}
