package csvsave

import (
	"errors"
)

// DefaultDelimiter separates fields unless a config says otherwise.
const DefaultDelimiter = ","

// ErrNoFormatter is reported when a timestamp column is enabled, the
// config is not in millisecond mode and no DateFormat is set.
var ErrNoFormatter = errors.New("timestamp is not in milliseconds and no date format is configured")

// flag indexes the boolean column switches of a SaveConfig.
type flag int

const (
	flagTimestamp flag = iota
	flagElapsed
	flagLabel
	flagResponseCode
	flagResponseMessage
	flagThreadName
	flagDataType
	flagSuccess
	flagFailureMessage
	flagBytes
	flagThreadCounts
	flagURL
	flagFilename
	flagLatency
	flagEncoding
	flagSampleCount
	flagHostname

	numFlags
)

// A SaveConfig says which columns a result stream carries and how they
// are delimited.
//
// One SaveConfig belongs to exactly one reader or writer. Decode may
// replace its formatter (see Decode), so streams that share defaults
// should Clone them first.
type SaveConfig struct {
	flags [numFlags]bool

	delimiter string
	formatter *DateFormat
	printMS   bool

	// PrintFieldNames makes a Writer emit the header line first.
	PrintFieldNames bool
	// SubResults makes a Writer emit each nested sub-result as its own row
	// after its parent.
	SubResults bool
	// Strict rejects configs whose timestamp column could never be written.
	Strict bool
}

// New returns a config with every column off, the default delimiter and
// millisecond timestamps.
func New() *SaveConfig {
	return &SaveConfig{delimiter: DefaultDelimiter, printMS: true}
}

// Clone returns a copy of c that shares no mutable state with it.
func (c *SaveConfig) Clone() *SaveConfig {
	c2 := *c
	return &c2
}

func (c *SaveConfig) enabled(f flag) bool { return c.flags[f] }

func (c *SaveConfig) set(f flag, on bool) { c.flags[f] = on }

// Equal reports whether c and o enable the same columns.
func (c *SaveConfig) Equal(o *SaveConfig) bool {
	return c.flags == o.flags
}

// Validate reports configs whose encode and decode paths disagree: a
// timestamp column with neither millisecond output nor a formatter is
// silently dropped when writing but fails every line when reading.
func (c *SaveConfig) Validate() error {
	if c.SaveTimestamp() && !c.printMS && c.formatter == nil {
		return ErrNoFormatter
	}
	return nil
}

// Delimiter returns the field separator. An unset delimiter, as in a
// zero SaveConfig, reads as DefaultDelimiter.
func (c *SaveConfig) Delimiter() string {
	if c.delimiter == "" {
		return DefaultDelimiter
	}
	return c.delimiter
}

func (c *SaveConfig) SetDelimiter(d string) { c.delimiter = d }
func (c *SaveConfig) Formatter() *DateFormat { return c.formatter }
func (c *SaveConfig) PrintMilliseconds() bool { return c.printMS }
func (c *SaveConfig) SetPrintMilliseconds(b bool) { c.printMS = b }

// SetFormatter sets the timestamp format. A non-nil formatter turns off
// millisecond output; nil turns it back on.
func (c *SaveConfig) SetFormatter(f *DateFormat) {
	c.formatter = f
	c.printMS = f == nil
}

func (c *SaveConfig) SaveTimestamp() bool { return c.enabled(flagTimestamp) }
func (c *SaveConfig) SaveElapsed() bool { return c.enabled(flagElapsed) }
func (c *SaveConfig) SaveLabel() bool { return c.enabled(flagLabel) }
func (c *SaveConfig) SaveResponseCode() bool { return c.enabled(flagResponseCode) }
func (c *SaveConfig) SaveResponseMessage() bool { return c.enabled(flagResponseMessage) }
func (c *SaveConfig) SaveThreadName() bool { return c.enabled(flagThreadName) }
func (c *SaveConfig) SaveDataType() bool { return c.enabled(flagDataType) }
func (c *SaveConfig) SaveSuccess() bool { return c.enabled(flagSuccess) }
func (c *SaveConfig) SaveFailureMessage() bool { return c.enabled(flagFailureMessage) }
func (c *SaveConfig) SaveBytes() bool { return c.enabled(flagBytes) }
func (c *SaveConfig) SaveThreadCounts() bool { return c.enabled(flagThreadCounts) }
func (c *SaveConfig) SaveURL() bool { return c.enabled(flagURL) }
func (c *SaveConfig) SaveFilename() bool { return c.enabled(flagFilename) }
func (c *SaveConfig) SaveLatency() bool { return c.enabled(flagLatency) }
func (c *SaveConfig) SaveEncoding() bool { return c.enabled(flagEncoding) }
func (c *SaveConfig) SaveSampleCount() bool { return c.enabled(flagSampleCount) }
func (c *SaveConfig) SaveHostname() bool { return c.enabled(flagHostname) }

func (c *SaveConfig) SetTimestamp(b bool) { c.set(flagTimestamp, b) }
func (c *SaveConfig) SetElapsed(b bool) { c.set(flagElapsed, b) }
func (c *SaveConfig) SetLabel(b bool) { c.set(flagLabel, b) }
func (c *SaveConfig) SetResponseCode(b bool) { c.set(flagResponseCode, b) }
func (c *SaveConfig) SetResponseMessage(b bool) { c.set(flagResponseMessage, b) }
func (c *SaveConfig) SetThreadName(b bool) { c.set(flagThreadName, b) }
func (c *SaveConfig) SetDataType(b bool) { c.set(flagDataType, b) }
func (c *SaveConfig) SetSuccess(b bool) { c.set(flagSuccess, b) }
func (c *SaveConfig) SetFailureMessage(b bool) { c.set(flagFailureMessage, b) }
func (c *SaveConfig) SetBytes(b bool) { c.set(flagBytes, b) }
func (c *SaveConfig) SetThreadCounts(b bool) { c.set(flagThreadCounts, b) }
func (c *SaveConfig) SetURL(b bool) { c.set(flagURL, b) }
func (c *SaveConfig) SetFilename(b bool) { c.set(flagFilename, b) }
func (c *SaveConfig) SetLatency(b bool) { c.set(flagLatency, b) }
func (c *SaveConfig) SetEncoding(b bool) { c.set(flagEncoding, b) }
func (c *SaveConfig) SetSampleCount(b bool) { c.set(flagSampleCount, b) }
func (c *SaveConfig) SetHostname(b bool) { c.set(flagHostname, b) }

// Columns returns the header names of the enabled columns in catalog order.
func (c *SaveConfig) Columns() []string {
	var names []string
	for _, col := range catalog {
		if c.enabled(col.flag) {
			names = append(names, col.name)
		}
	}
	return names
}
