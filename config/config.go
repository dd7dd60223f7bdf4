// Package config loads server and processing settings from an optional
// YAML file, with sensible defaults for every field.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration so YAML strings like "90s" or "3m" parse.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	v, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("parsing duration %q: %w", s, err)
	}
	*d = Duration(v)
	return nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config holds all settings for the slidemap server and CLI.
type Config struct {
	// Addr is the listen address for the web server.
	Addr string `yaml:"addr"`

	// DataDir is the root directory for job storage.
	DataDir string `yaml:"data_dir"`

	// MaxUploadMB caps the size of uploaded presentations.
	MaxUploadMB int64 `yaml:"max_upload_mb"`

	// DisableSuppression turns off badge background relabeling.
	DisableSuppression bool `yaml:"disable_suppression"`

	// ConvertTimeout bounds external converter invocations.
	ConvertTimeout Duration `yaml:"convert_timeout"`

	// ConvertDPI is the rasterization resolution for the PDF fallback.
	ConvertDPI int `yaml:"convert_dpi"`

	// PreviewWidth is the pixel width of schematic slide previews.
	PreviewWidth int `yaml:"preview_width"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Addr:           ":8080",
		DataDir:        "data",
		MaxUploadMB:    128,
		ConvertTimeout: Duration(3 * time.Minute),
		ConvertDPI:     144,
		PreviewWidth:   1600,
	}
}

// Load reads a YAML config file and fills unset fields with defaults.
// An empty path returns Default().
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	def := Default()
	if cfg.Addr == "" {
		cfg.Addr = def.Addr
	}
	if cfg.DataDir == "" {
		cfg.DataDir = def.DataDir
	}
	if cfg.MaxUploadMB <= 0 {
		cfg.MaxUploadMB = def.MaxUploadMB
	}
	if cfg.ConvertTimeout <= 0 {
		cfg.ConvertTimeout = def.ConvertTimeout
	}
	if cfg.ConvertDPI <= 0 {
		cfg.ConvertDPI = def.ConvertDPI
	}
	if cfg.PreviewWidth <= 0 {
		cfg.PreviewWidth = def.PreviewWidth
	}
	return cfg, nil
}
