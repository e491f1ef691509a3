// # internal/config/config.go
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	EnumSpec string  `toml:"enum_spec"`
	TypeMap  string  `toml:"type_map"`
	FuncSpec string  `toml:"func_spec"`
	Output   string  `toml:"output"`
	Filter   Filter  `toml:"filter"`
	Watch    Watch   `toml:"watch"`
	History  History `toml:"history"`
	Metrics  Metrics `toml:"metrics"`
}

// Filter selects which vendor-extension categories appear in the generated
// header. Empty include means everything; exclude wins over include.
type Filter struct {
	Include []string `toml:"include"`
	Exclude []string `toml:"exclude"`
}

type Watch struct {
	Debounce time.Duration `toml:"debounce"`
	// Exclude drops editor temp files the registry directory accumulates.
	Exclude []string `toml:"exclude"`
	// MaxPerSecond caps how often a noisy editor can trigger regeneration.
	MaxPerSecond float64 `toml:"max_per_second"`
}

type History struct {
	Path string `toml:"path"`
}

type Metrics struct {
	Addr string `toml:"addr"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.EnumSpec == "" {
		cfg.EnumSpec = "spec/gl.enums"
	}
	if cfg.TypeMap == "" {
		cfg.TypeMap = "spec/gl.tm"
	}
	if cfg.FuncSpec == "" {
		cfg.FuncSpec = "spec/gl.funcs"
	}
	if cfg.Output == "" {
		cfg.Output = "glext.h"
	}
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = 500 * time.Millisecond
	}
	if len(cfg.Watch.Exclude) == 0 {
		cfg.Watch.Exclude = []string{"*.swp", "*~", ".#*"}
	}
	if cfg.Watch.MaxPerSecond == 0 {
		cfg.Watch.MaxPerSecond = 2
	}
}

// Default returns the configuration used when no config file is present.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}
