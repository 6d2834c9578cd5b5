// Package config loads plotdown settings from TOML or YAML files.
//
// Every field is optional; missing fields keep the values from [Default].
// Command-line flags override file values.
//
//	# plotdown.toml
//	[log]
//	level = "debug"
//
//	[render]
//	standalone = true
//	title = "Lab notes"
//	mathjax = true
//
//	[cache]
//	enabled = true
//	max_entries = 256
//
//	[export]
//	formats = ["svg", "png"]
//	scale = 2.0
package config

import (
	"bytes"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/plotdown/pkg/cache"
	"github.com/matzehuels/plotdown/pkg/document"
	"github.com/matzehuels/plotdown/pkg/errors"
)

// Log levels accepted in [LogConfig.Level].
var validLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Config is the full plotdown configuration.
type Config struct {
	Log    LogConfig    `toml:"log" yaml:"log"`
	Render RenderConfig `toml:"render" yaml:"render"`
	Cache  CacheConfig  `toml:"cache" yaml:"cache"`
	Export ExportConfig `toml:"export" yaml:"export"`
}

// LogConfig controls the CLI logger.
type LogConfig struct {
	Level string `toml:"level" yaml:"level"`
}

// RenderConfig mirrors [document.Options].
type RenderConfig struct {
	Standalone bool   `toml:"standalone" yaml:"standalone"`
	Title      string `toml:"title" yaml:"title"`
	Stylesheet string `toml:"stylesheet" yaml:"stylesheet"`
	MathJax    bool   `toml:"mathjax" yaml:"mathjax"`
}

// CacheConfig controls render memoization.
type CacheConfig struct {
	Enabled    bool `toml:"enabled" yaml:"enabled"`
	MaxEntries int  `toml:"max_entries" yaml:"max_entries"`
}

// ExportConfig controls diagram export.
type ExportConfig struct {
	Formats []string `toml:"formats" yaml:"formats"`
	Scale   float64  `toml:"scale" yaml:"scale"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Log:    LogConfig{Level: "info"},
		Render: RenderConfig{MathJax: true},
		Cache:  CacheConfig{Enabled: true, MaxEntries: cache.DefaultMaxEntries},
		Export: ExportConfig{Formats: []string{errors.FormatSVG}, Scale: 2},
	}
}

// Load reads the file at path on top of [Default]. The format is chosen by
// extension: .toml, .yaml or .yml. Unknown keys are rejected.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		return ParseTOML(data)
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unsupported config format %q (must be .toml, .yaml or .yml)", ext)
	}
}

// ParseTOML decodes TOML data on top of [Default] and validates it.
func ParseTOML(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse TOML config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.New(errors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}
	return cfg, cfg.Validate()
}

// ParseYAML decodes YAML data on top of [Default] and validates it.
func ParseYAML(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !stderrors.Is(err, io.EOF) {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse YAML config")
	}
	return cfg, cfg.Validate()
}

// Validate checks field values.
func (c Config) Validate() error {
	if !validLevels[c.Log.Level] {
		return errors.New(errors.ErrCodeInvalidConfig, "invalid log level %q (must be one of: debug, info, warn, error)", c.Log.Level)
	}
	if c.Cache.MaxEntries < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache.max_entries must not be negative")
	}
	if c.Export.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "export.scale must not be negative")
	}
	if err := errors.ValidateFormats(c.Export.Formats); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "export.formats")
	}
	opts := c.DocumentOptions()
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "render")
	}
	return nil
}

// DocumentOptions converts the render section to [document.Options].
func (c Config) DocumentOptions() document.Options {
	return document.Options{
		Standalone: c.Render.Standalone,
		Title:      c.Render.Title,
		Stylesheet: c.Render.Stylesheet,
		MathJax:    c.Render.MathJax,
	}
}

// NewCache returns the memo cache described by the cache section.
func (c Config) NewCache() cache.Cache {
	if !c.Cache.Enabled {
		return cache.NewNullCache()
	}
	return cache.NewMemoryCache(c.Cache.MaxEntries)
}
