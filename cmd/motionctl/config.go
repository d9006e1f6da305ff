package main

import (
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/motion/cache"
)

// config is the file-level configuration of motionctl. Command-line flags
// override every field.
type config struct {
	LogLevel      string `yaml:"log_level"`
	CachePolicy   string `yaml:"cache_policy"`
	CacheCapacity int    `yaml:"cache_capacity"`
	Workers       int    `yaml:"workers"`
	Samples       int    `yaml:"samples"`
	Background    string `yaml:"background"`
}

func defaultConfig() config {
	return config{
		LogLevel:      "warn",
		CachePolicy:   cache.Strong.String(),
		CacheCapacity: cache.DefaultCapacity,
		Workers:       runtime.NumCPU(),
		Samples:       30,
	}
}

// loadConfig reads path over the defaults. An empty path yields the
// defaults.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.validate()
}

func (c config) validate() error {
	if _, err := c.level(); err != nil {
		return err
	}
	if _, err := cache.ParsePolicy(c.CachePolicy); err != nil {
		return err
	}
	if c.CacheCapacity < 0 {
		return fmt.Errorf("cache_capacity %d is negative", c.CacheCapacity)
	}
	if c.Samples < 1 {
		return fmt.Errorf("samples must be at least 1, got %d", c.Samples)
	}
	return nil
}

func (c config) level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("log_level %q: %w", c.LogLevel, err)
	}
	return l, nil
}

func (c config) cache() cache.Cache {
	p, _ := cache.ParsePolicy(c.CachePolicy)
	return cache.New(p, c.CacheCapacity)
}
