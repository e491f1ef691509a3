// # internal/config/config_test.go
package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	content := `
enum_spec = "registry/enum.spec"
type_map = "registry/gl.tm"
func_spec = "registry/gl.spec"
output = "out/glext.h"

[filter]
include = ["ARB_*", "EXT_*"]
exclude = ["EXT_paletted_texture"]

[watch]
debounce = "1s"
max_per_second = 4

[history]
path = "runs.db"

[metrics]
addr = ":9188"
`
	tmpfile, err := os.CreateTemp("", "config*.toml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	if _, err := tmpfile.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := tmpfile.Close(); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.EnumSpec != "registry/enum.spec" {
		t.Errorf("Expected EnumSpec registry/enum.spec, got %s", cfg.EnumSpec)
	}
	if cfg.Output != "out/glext.h" {
		t.Errorf("Expected Output out/glext.h, got %s", cfg.Output)
	}
	if len(cfg.Filter.Include) != 2 || cfg.Filter.Include[0] != "ARB_*" {
		t.Errorf("Unexpected Filter.Include: %v", cfg.Filter.Include)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("Expected debounce 1s, got %v", cfg.Watch.Debounce)
	}
	if cfg.Watch.MaxPerSecond != 4 {
		t.Errorf("Expected max_per_second 4, got %v", cfg.Watch.MaxPerSecond)
	}
	if cfg.History.Path != "runs.db" {
		t.Errorf("Expected history path runs.db, got %s", cfg.History.Path)
	}
	if cfg.Metrics.Addr != ":9188" {
		t.Errorf("Expected metrics addr :9188, got %s", cfg.Metrics.Addr)
	}
}

func TestLoadDefaults(t *testing.T) {
	content := `output = "glext.h"`
	tmpfile, err := os.CreateTemp("", "config*.toml")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpfile.Name())

	tmpfile.Write([]byte(content))
	tmpfile.Close()

	cfg, err := Load(tmpfile.Name())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.EnumSpec != "spec/gl.enums" {
		t.Errorf("Expected default EnumSpec spec/gl.enums, got %s", cfg.EnumSpec)
	}
	if cfg.Watch.Debounce != 500*time.Millisecond {
		t.Errorf("Expected default debounce 500ms, got %v", cfg.Watch.Debounce)
	}
	if cfg.Watch.MaxPerSecond != 2 {
		t.Errorf("Expected default max_per_second 2, got %v", cfg.Watch.MaxPerSecond)
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.TypeMap != "spec/gl.tm" {
		t.Errorf("Expected default TypeMap spec/gl.tm, got %s", cfg.TypeMap)
	}
	if cfg.Output != "glext.h" {
		t.Errorf("Expected default Output glext.h, got %s", cfg.Output)
	}
	if len(cfg.Watch.Exclude) == 0 {
		t.Error("Expected default watch excludes")
	}
}

func TestLoadError(t *testing.T) {
	_, err := Load("nonexistent.toml")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}

	tmpfile, _ := os.CreateTemp("", "badconfig*.toml")
	defer os.Remove(tmpfile.Name())
	tmpfile.Write([]byte("bad = toml = format"))
	tmpfile.Close()

	_, err = Load(tmpfile.Name())
	if err == nil {
		t.Error("Expected error for malformed TOML")
	}
}
