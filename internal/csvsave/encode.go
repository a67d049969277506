package csvsave

import (
	"strings"

	"jtlq/internal/sample"
)

// Encode renders res as one delimited line holding the columns c enables,
// in catalog order. Nothing is quoted and no trailing delimiter is
// written; a config with no columns encodes to "".
//
// If c has a timestamp column but neither millisecond output nor a
// formatter, the timestamp is left out of the line even though
// HeaderLine still names it. Set c.Strict and check Validate to catch
// that combination up front.
func Encode(res *sample.Result, c *SaveConfig) string {
	return strings.Join(Fields(res, c), c.Delimiter())
}

// Fields returns the values Encode would join, one per written column.
func Fields(res *sample.Result, c *SaveConfig) []string {
	fields := make([]string, 0, len(catalog))
	for i := range catalog {
		col := &catalog[i]
		if !c.enabled(col.flag) {
			continue
		}
		if text, ok := col.encode(res, c); ok {
			fields = append(fields, text)
		}
	}
	return fields
}

// HeaderLine returns the header naming the columns c enables. Paired
// columns (grpThreads/allThreads, SampleCount/ErrorCount) are always
// named together.
func HeaderLine(c *SaveConfig) string {
	return strings.Join(c.Columns(), c.Delimiter())
}
