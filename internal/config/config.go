// Package config loads jtlq settings from a config file, the environment
// and command-line flags through viper.
//
// The save-service keys mirror the JMeter property names, so a file like
//
//	saveservice:
//	  timestamp_format: "yyyy/MM/dd HH:mm:ss.SSS"
//	  default_delimiter: ";"
//	  thread_counts: true
//
// describes the columns of results files that carry no header line.
// Every key can also be set from the environment, e.g.
// JTLQ_SAVESERVICE_LATENCY=false.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"jtlq/internal/csvsave"
)

// EnvPrefix prefixes every environment variable viper consults.
const EnvPrefix = "JTLQ"

// Properties is the full set of settings.
type Properties struct {
	Save SaveProperties `mapstructure:"saveservice"`
	Log  LogProperties  `mapstructure:"log"`
}

// LogProperties selects the slog level and handler.
type LogProperties struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SaveProperties describes the default save configuration.
type SaveProperties struct {
	Timestamp       bool `mapstructure:"timestamp"`
	Time            bool `mapstructure:"time"`
	Label           bool `mapstructure:"label"`
	ResponseCode    bool `mapstructure:"response_code"`
	ResponseMessage bool `mapstructure:"response_message"`
	ThreadName      bool `mapstructure:"thread_name"`
	DataType        bool `mapstructure:"data_type"`
	Successful      bool `mapstructure:"successful"`
	FailureMessage  bool `mapstructure:"assertion_results_failure_message"`
	Bytes           bool `mapstructure:"bytes"`
	ThreadCounts    bool `mapstructure:"thread_counts"`
	URL             bool `mapstructure:"url"`
	Filename        bool `mapstructure:"filename"`
	Latency         bool `mapstructure:"latency"`
	Encoding        bool `mapstructure:"encoding"`
	SampleCount     bool `mapstructure:"sample_count"`
	Hostname        bool `mapstructure:"hostname"`

	// TimestampFormat is "ms" for epoch milliseconds or a date pattern.
	TimestampFormat string `mapstructure:"timestamp_format"`
	Delimiter       string `mapstructure:"default_delimiter"`
	PrintFieldNames bool   `mapstructure:"print_field_names"`
	SubResults      bool   `mapstructure:"subresults"`
	Strict          bool   `mapstructure:"strict"`
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	defaults := map[string]any{
		"saveservice.timestamp":                         true,
		"saveservice.time":                              true,
		"saveservice.label":                             true,
		"saveservice.response_code":                     true,
		"saveservice.response_message":                  true,
		"saveservice.thread_name":                       true,
		"saveservice.data_type":                         true,
		"saveservice.successful":                        true,
		"saveservice.assertion_results_failure_message": false,
		"saveservice.bytes":                             true,
		"saveservice.thread_counts":                     false,
		"saveservice.url":                               false,
		"saveservice.filename":                          false,
		"saveservice.latency":                           true,
		"saveservice.encoding":                          false,
		"saveservice.sample_count":                      false,
		"saveservice.hostname":                          false,
		"saveservice.timestamp_format":                  "ms",
		"saveservice.default_delimiter":                 csvsave.DefaultDelimiter,
		"saveservice.print_field_names":                 true,
		"saveservice.subresults":                        false,
		"saveservice.strict":                            false,
		"log.level":                                     "warn",
		"log.format":                                    "text",
	}
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
}

// Init points v at cfgFile, or at $HOME/.jtlq.yaml when cfgFile is empty,
// turns on environment lookups and reads the file. A missing default
// file is not an error.
func Init(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(home)
		}
		v.SetConfigType("yaml")
		v.SetConfigName(".jtlq")
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// Load decodes v into Properties.
func Load(v *viper.Viper) (*Properties, error) {
	var p Properties
	if err := v.Unmarshal(&p); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return &p, nil
}

// SaveConfig builds the csvsave config these properties describe.
func (p SaveProperties) SaveConfig() (*csvsave.SaveConfig, error) {
	c := csvsave.New()
	c.SetTimestamp(p.Timestamp)
	c.SetElapsed(p.Time)
	c.SetLabel(p.Label)
	c.SetResponseCode(p.ResponseCode)
	c.SetResponseMessage(p.ResponseMessage)
	c.SetThreadName(p.ThreadName)
	c.SetDataType(p.DataType)
	c.SetSuccess(p.Successful)
	c.SetFailureMessage(p.FailureMessage)
	c.SetBytes(p.Bytes)
	c.SetThreadCounts(p.ThreadCounts)
	c.SetURL(p.URL)
	c.SetFilename(p.Filename)
	c.SetLatency(p.Latency)
	c.SetEncoding(p.Encoding)
	c.SetSampleCount(p.SampleCount)
	c.SetHostname(p.Hostname)

	c.SetDelimiter(ParseDelimiter(p.Delimiter))
	c.PrintFieldNames = p.PrintFieldNames
	c.SubResults = p.SubResults
	c.Strict = p.Strict

	switch format := strings.TrimSpace(p.TimestampFormat); format {
	case "", "ms":
		c.SetPrintMilliseconds(true)
	default:
		f, err := csvsave.NewDateFormat(format)
		if err != nil {
			return nil, fmt.Errorf("saveservice.timestamp_format: %w", err)
		}
		c.SetFormatter(f)
	}
	if c.Strict {
		if err := c.Validate(); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ParseDelimiter expands the spellings people use for awkward
// delimiters: `\t` or "tab" for a tab. Anything else is literal.
func ParseDelimiter(s string) string {
	switch s {
	case `\t`, "tab", "TAB":
		return "\t"
	case "":
		return csvsave.DefaultDelimiter
	}
	return s
}
