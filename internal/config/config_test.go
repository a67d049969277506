package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"

	"jtlq/internal/csvsave"
)

func load(t *testing.T, cfgFile string) *Properties {
	t.Helper()
	v := viper.New()
	if err := Init(v, cfgFile); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	p, err := Load(v)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return p
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "jtlq.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	p := load(t, "")

	c, err := p.Save.SaveConfig()
	if err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}
	want := "timeStamp,elapsed,label,responseCode,responseMessage,threadName,dataType,success,bytes,Latency"
	if got := csvsave.HeaderLine(c); got != want {
		t.Errorf("HeaderLine = %q, want %q", got, want)
	}
	if !c.PrintMilliseconds() {
		t.Error("PrintMilliseconds = false, want true")
	}
	if !c.PrintFieldNames {
		t.Error("PrintFieldNames = false, want true")
	}
	if p.Log.Level != "warn" || p.Log.Format != "text" {
		t.Errorf("Log = %+v, want warn/text", p.Log)
	}
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
saveservice:
  timestamp_format: "yyyy/MM/dd HH:mm:ss"
  default_delimiter: '\t'
  response_message: false
  thread_counts: true
  hostname: true
log:
  level: debug
`)
	p := load(t, path)
	c, err := p.Save.SaveConfig()
	if err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}
	if c.Delimiter() != "\t" {
		t.Errorf("Delimiter = %q, want tab", c.Delimiter())
	}
	if c.SaveResponseMessage() || !c.SaveThreadCounts() || !c.SaveHostname() {
		t.Errorf("columns = %v", c.Columns())
	}
	if c.PrintMilliseconds() || c.Formatter() == nil || c.Formatter().Pattern() != "yyyy/MM/dd HH:mm:ss" {
		t.Errorf("timestamp format not applied: ms=%v formatter=%v", c.PrintMilliseconds(), c.Formatter())
	}
	if p.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want %q", p.Log.Level, "debug")
	}
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("JTLQ_SAVESERVICE_LATENCY", "false")
	t.Setenv("JTLQ_SAVESERVICE_SAMPLE_COUNT", "true")
	t.Setenv("JTLQ_LOG_FORMAT", "json")

	p := load(t, "")
	if p.Save.Latency {
		t.Error("Save.Latency = true, want false from env")
	}
	if !p.Save.SampleCount {
		t.Error("Save.SampleCount = false, want true from env")
	}
	if p.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want json", p.Log.Format)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	v := viper.New()
	if err := Init(v, filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Init() with a missing explicit file succeeded")
	}
}

func TestSaveConfig_BadFormat(t *testing.T) {
	p := SaveProperties{Timestamp: true, TimestampFormat: "yyyy-QQ"}
	if _, err := p.SaveConfig(); err == nil {
		t.Error("SaveConfig() with a bad pattern succeeded")
	}
}

func TestParseDelimiter(t *testing.T) {
	for in, want := range map[string]string{
		`\t`:  "\t",
		"tab": "\t",
		"":    ",",
		";":   ";",
		"|":   "|",
	} {
		if got := ParseDelimiter(in); got != want {
			t.Errorf("ParseDelimiter(%q) = %q, want %q", in, got, want)
		}
	}
}
