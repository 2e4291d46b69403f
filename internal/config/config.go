// Package config loads the YAML configuration of the fvec command.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"strings"

	"github.com/hupe1980/fvec"
	"github.com/hupe1980/fvec/codec"
	"github.com/hupe1980/fvec/resource"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned by Validate.
var ErrInvalid = errors.New("config: invalid")

// Config is the command configuration.
type Config struct {
	Log       LogConfig      `yaml:"log"`
	Resources ResourceConfig `yaml:"resources"`
	S3        S3Config       `yaml:"s3"`
	MinIO     MinIOConfig    `yaml:"minio"`
	// Alpha is the default exponent of alpha-norm.
	Alpha float32 `yaml:"alpha"`
	// Codec names the JSON codec for sample files and result lines.
	Codec string `yaml:"codec"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// Format is text or json.
	Format string `yaml:"format"`
}

// ResourceConfig mirrors resource.Config.
type ResourceConfig struct {
	MemoryLimitBytes   int64 `yaml:"memory_limit_bytes"`
	MaxWorkers         int64 `yaml:"max_workers"`
	IOLimitBytesPerSec int64 `yaml:"io_limit_bytes_per_sec"`
}

// S3Config configures the s3:// scheme.
type S3Config struct {
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`
}

// MinIOConfig configures the minio:// scheme. The scheme is only
// available when Endpoint is set.
type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Secure    bool   `yaml:"secure"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Log:   LogConfig{Level: "info", Format: "text"},
		Alpha: 2,
		Codec: codec.Default.Name(),
	}
}

// Load reads the YAML file at path over the defaults and validates the
// result. Unknown keys are rejected. ${VAR} references in the MinIO
// credentials are expanded from the environment.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return Parse(data)
}

// Parse is Load for in-memory YAML.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: %w", err)
	}

	cfg.MinIO.AccessKey = os.ExpandEnv(cfg.MinIO.AccessKey)
	cfg.MinIO.SecretKey = os.ExpandEnv(cfg.MinIO.SecretKey)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	if _, err := c.Log.SlogLevel(); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log.format %q (want text or json)", ErrInvalid, c.Log.Format)
	}

	r := c.Resources
	switch {
	case r.MemoryLimitBytes < 0:
		return fmt.Errorf("%w: resources.memory_limit_bytes must not be negative", ErrInvalid)
	case r.MaxWorkers < 0:
		return fmt.Errorf("%w: resources.max_workers must not be negative", ErrInvalid)
	case r.IOLimitBytesPerSec < 0:
		return fmt.Errorf("%w: resources.io_limit_bytes_per_sec must not be negative", ErrInvalid)
	}

	a := float64(c.Alpha)
	if a <= 0 || math.IsInf(a, 0) || math.IsNaN(a) {
		return fmt.Errorf("%w: alpha must be a positive finite number, got %v", ErrInvalid, c.Alpha)
	}

	if _, ok := codec.ByName(c.Codec); !ok {
		return fmt.Errorf("%w: codec %q (want json or go-json)", ErrInvalid, c.Codec)
	}

	if c.MinIO.Endpoint == "" && (c.MinIO.AccessKey != "" || c.MinIO.SecretKey != "") {
		return fmt.Errorf("%w: minio credentials without minio.endpoint", ErrInvalid)
	}
	return nil
}

// JSONCodec returns the configured codec.
func (c *Config) JSONCodec() codec.Codec {
	if cd, ok := codec.ByName(c.Codec); ok {
		return cd
	}
	return codec.Default
}

// SlogLevel parses Level.
func (c LogConfig) SlogLevel() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.Level)); err != nil {
		return 0, fmt.Errorf("%w: log.level %q", ErrInvalid, c.Level)
	}
	return l, nil
}

// NewLogger builds a logger writing to w.
func (c LogConfig) NewLogger(w io.Writer) (*fvec.Logger, error) {
	level, err := c.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}
	if strings.EqualFold(c.Format, "json") {
		return fvec.NewLogger(slog.NewJSONHandler(w, opts)), nil
	}
	return fvec.NewLogger(slog.NewTextHandler(w, opts)), nil
}

// Controller builds the resource controller.
func (c ResourceConfig) Controller() *resource.Controller {
	return resource.NewController(resource.Config{
		MemoryLimitBytes:   c.MemoryLimitBytes,
		MaxWorkers:         c.MaxWorkers,
		IOLimitBytesPerSec: c.IOLimitBytesPerSec,
	})
}
