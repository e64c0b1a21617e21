package main

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Input encodings of a captured envelope.
const (
	formatBase64 = "base64"
	formatHex    = "hex"
	formatRaw    = "raw"
)

// Result shapes the inspector can decode.
const (
	shapeSingle = "single"
	shapeValues = "values"
	shapePage   = "page"
)

type config struct {
	LogLevel string
	Format   string
	Shape    string
	Zstd     bool
}

type fileConfig struct {
	LogLevel string `toml:"log_level"`
	Format   string `toml:"format"`
	Shape    string `toml:"shape"`
	Zstd     bool   `toml:"zstd"`
}

func defaultConfig() config {
	return config{
		LogLevel: "warn",
		Format:   formatBase64,
		Shape:    shapeValues,
	}
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config{}, fmt.Errorf("load tntmap config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return config{}, fmt.Errorf("load tntmap config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("format") {
		cfg.Format = strings.ToLower(strings.TrimSpace(raw.Format))
	}
	if meta.IsDefined("shape") {
		cfg.Shape = strings.ToLower(strings.TrimSpace(raw.Shape))
	}
	if meta.IsDefined("zstd") {
		cfg.Zstd = raw.Zstd
	}

	return cfg, cfg.validate()
}

func (c config) validate() error {
	switch c.Format {
	case formatBase64, formatHex, formatRaw:
	default:
		return fmt.Errorf("unknown format %q", c.Format)
	}
	switch c.Shape {
	case shapeSingle, shapeValues, shapePage:
	default:
		return fmt.Errorf("unknown shape %q", c.Shape)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

func (c config) logger() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.DisableStacktrace = true
	return zc.Build()
}
