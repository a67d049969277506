package csvsave

import (
	"log/slog"
	"strconv"
	"strings"

	"jtlq/internal/sample"
)

// Header names. These are matched verbatim when sniffing a header line.
const (
	ColTimeStamp       = "timeStamp"
	ColElapsed         = "elapsed"
	ColLabel           = "label"
	ColResponseCode    = "responseCode"
	ColResponseMessage = "responseMessage"
	ColThreadName      = "threadName"
	ColDataType        = "dataType"
	ColSuccess         = "success"
	ColFailureMessage  = "failureMessage"
	ColBytes           = "bytes"
	ColGrpThreads      = "grpThreads"
	ColAllThreads      = "allThreads"
	ColURL             = "URL"
	ColFilename        = "Filename"
	ColLatency         = "Latency"
	ColEncoding        = "Encoding"
	ColSampleCount     = "SampleCount"
	ColErrorCount      = "ErrorCount"
	ColHostname        = "Hostname"
)

// A column is one entry of the catalog. encode reports false when the
// column has nothing to write for this config; decode parses one token
// onto res.
type column struct {
	name   string
	flag   flag
	encode func(res *sample.Result, c *SaveConfig) (string, bool)
	decode func(res *sample.Result, text string, c *SaveConfig) error
}

// catalog is the column order shared by Encode, Decode, HeaderLine and
// Sniff. Columns sharing a flag are adjacent and always travel together.
var catalog = []column{
	{ColTimeStamp, flagTimestamp, encodeTimestamp, decodeTimestamp},
	{ColElapsed, flagElapsed,
		func(res *sample.Result, _ *SaveConfig) (string, bool) { return itoa64(res.Elapsed), true },
		func(res *sample.Result, text string, _ *SaveConfig) (err error) {
			res.Elapsed, err = strconv.ParseInt(text, 10, 64)
			return err
		}},
	{ColLabel, flagLabel,
		func(res *sample.Result, _ *SaveConfig) (string, bool) { return res.Label, true },
		func(res *sample.Result, text string, _ *SaveConfig) error { res.Label = text; return nil }},
	{ColResponseCode, flagResponseCode,
		func(res *sample.Result, _ *SaveConfig) (string, bool) { return res.ResponseCode, true },
		func(res *sample.Result, text string, _ *SaveConfig) error { res.ResponseCode = text; return nil }},
	{ColResponseMessage, flagResponseMessage,
		func(res *sample.Result, _ *SaveConfig) (string, bool) { return res.ResponseMessage, true },
		func(res *sample.Result, text string, _ *SaveConfig) error { res.ResponseMessage = text; return nil }},
	{ColThreadName, flagThreadName,
		func(res *sample.Result, _ *SaveConfig) (string, bool) { return res.ThreadName, true },
		func(res *sample.Result, text string, _ *SaveConfig) error { res.ThreadName = text; return nil }},
	{ColDataType, flagDataType,
		func(res *sample.Result, _ *SaveConfig) (string, bool) { return res.DataType, true },
		func(res *sample.Result, text string, _ *SaveConfig) error { res.DataType = text; return nil }},
	{ColSuccess, flagSuccess,
		func(res *sample.Result, _ *SaveConfig) (string, bool) { return strconv.FormatBool(res.Success), true },
		// Anything but "true" reads as a failure.
		func(res *sample.Result, text string, _ *SaveConfig) error {
			res.Success = strings.EqualFold(text, "true")
			return nil
		}},
	{ColFailureMessage, flagFailureMessage,
		func(res *sample.Result, _ *SaveConfig) (string, bool) { return res.FirstFailureMessage(), true },
		discard},
	{ColBytes, flagBytes,
		func(res *sample.Result, _ *SaveConfig) (string, bool) { return strconv.Itoa(res.Bytes), true },
		func(res *sample.Result, text string, _ *SaveConfig) (err error) {
			res.Bytes, err = strconv.Atoi(text)
			return err
		}},
	{ColGrpThreads, flagThreadCounts,
		func(res *sample.Result, _ *SaveConfig) (string, bool) { return strconv.Itoa(res.GroupThreads), true },
		func(res *sample.Result, text string, _ *SaveConfig) (err error) {
			res.GroupThreads, err = strconv.Atoi(text)
			return err
		}},
	{ColAllThreads, flagThreadCounts,
		func(res *sample.Result, _ *SaveConfig) (string, bool) { return strconv.Itoa(res.AllThreads), true },
		func(res *sample.Result, text string, _ *SaveConfig) (err error) {
			res.AllThreads, err = strconv.Atoi(text)
			return err
		}},
	{ColURL, flagURL,
		func(res *sample.Result, _ *SaveConfig) (string, bool) { return res.URL, true },
		discard},
	{ColFilename, flagFilename,
		func(res *sample.Result, _ *SaveConfig) (string, bool) { return res.ResultFileName, true },
		func(res *sample.Result, text string, _ *SaveConfig) error { res.ResultFileName = text; return nil }},
	{ColLatency, flagLatency,
		func(res *sample.Result, _ *SaveConfig) (string, bool) { return itoa64(res.Latency), true },
		func(res *sample.Result, text string, _ *SaveConfig) (err error) {
			res.Latency, err = strconv.ParseInt(text, 10, 64)
			return err
		}},
	{ColEncoding, flagEncoding,
		func(res *sample.Result, _ *SaveConfig) (string, bool) { return res.DataEncoding, true },
		func(res *sample.Result, text string, _ *SaveConfig) error { res.DataEncoding = text; return nil }},
	{ColSampleCount, flagSampleCount,
		func(res *sample.Result, _ *SaveConfig) (string, bool) { return strconv.Itoa(res.SampleCount), true },
		func(res *sample.Result, text string, _ *SaveConfig) (err error) {
			res.SampleCount, err = strconv.Atoi(text)
			return err
		}},
	{ColErrorCount, flagSampleCount,
		func(res *sample.Result, _ *SaveConfig) (string, bool) { return strconv.Itoa(res.ErrorCount), true },
		func(res *sample.Result, text string, _ *SaveConfig) (err error) {
			res.ErrorCount, err = strconv.Atoi(text)
			return err
		}},
	{ColHostname, flagHostname,
		func(res *sample.Result, _ *SaveConfig) (string, bool) { return res.Hostname, true },
		func(res *sample.Result, text string, _ *SaveConfig) error { res.Hostname = text; return nil }},
}

// columnIndex maps header names to catalog positions.
var columnIndex = func() map[string]int {
	m := make(map[string]int, len(catalog))
	for i, col := range catalog {
		m[col.name] = i
	}
	return m
}()

// ColumnIndex returns the catalog position of a header name.
func ColumnIndex(name string) (int, bool) {
	i, ok := columnIndex[name]
	return i, ok
}

// ColumnNames returns every known header name in catalog order.
func ColumnNames() []string {
	names := make([]string, len(catalog))
	for i, col := range catalog {
		names[i] = col.name
	}
	return names
}

// discard occupies a token slot on read without restoring anything.
// Used by failureMessage and URL.
func discard(*sample.Result, string, *SaveConfig) error { return nil }

func itoa64(v int64) string { return strconv.FormatInt(v, 10) }

func encodeTimestamp(res *sample.Result, c *SaveConfig) (string, bool) {
	switch {
	case c.printMS:
		return itoa64(res.TimeStamp), true
	case c.formatter != nil:
		return c.formatter.Format(res.TimeStamp), true
	}
	return "", false
}

func decodeTimestamp(res *sample.Result, text string, c *SaveConfig) error {
	if !c.printMS {
		if c.formatter == nil {
			return ErrNoFormatter
		}
		ts, err := c.formatter.Parse(text)
		if err != nil {
			return err
		}
		res.TimeStamp = ts
		return nil
	}
	ts, err := strconv.ParseInt(text, 10, 64)
	if err == nil {
		res.TimeStamp = ts
		return nil
	}
	def := MustDateFormat(DefaultDatePattern)
	ts, perr := def.Parse(text)
	if perr != nil {
		// Report the original failure: the column was expected to be numeric.
		return err
	}
	slog.Warn("timestamp is not in milliseconds, switching date format",
		"value", text, "format", DefaultDatePattern)
	c.SetFormatter(def)
	res.TimeStamp = ts
	return nil
}
