// Package config loads wordfreq run settings from a YAML file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	StorageMemory = "memory"
	StorageBbolt  = "bbolt"
	StorageSQLite = "sqlite"
)

type Config struct {
	Input   string  `yaml:"input"`
	Output  string  `yaml:"output"`
	Chunks  int     `yaml:"chunks"`
	Storage Storage `yaml:"storage"`
	Log     Log     `yaml:"log"`
	Trace   Trace   `yaml:"trace"`
}

type Storage struct {
	// Kind is one of "memory", "bbolt" or "sqlite".
	Kind string `yaml:"kind"`
	// Path of the database file, required by bbolt and sqlite.
	Path string `yaml:"path"`
	// Partitions is the number of bbolt buckets words are spread over.
	Partitions int `yaml:"partitions"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type Trace struct {
	// Endpoint of an OTLP/HTTP collector, host:port. Empty disables export.
	Endpoint string `yaml:"endpoint"`
}

// Default returns the settings used when neither a file nor flags say
// otherwise.
func Default() Config {
	return Config{
		Output: "output.txt",
		Chunks: runtime.NumCPU(),
		Storage: Storage{
			Kind: StorageMemory,
		},
		Log: Log{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads path over Default. Unknown fields are rejected.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode reads YAML from r over Default.
func Decode(r io.Reader) (Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if len(bytes.TrimSpace(data)) == 0 {
		return cfg, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}

	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.Input) == "" {
		errs = append(errs, errors.New("input is required"))
	}
	if strings.TrimSpace(c.Output) == "" {
		errs = append(errs, errors.New("output is required"))
	}
	if c.Chunks < 1 {
		errs = append(errs, fmt.Errorf("chunks must be at least 1, got %d", c.Chunks))
	}

	switch c.Storage.Kind {
	case StorageMemory:
	case StorageBbolt, StorageSQLite:
		if strings.TrimSpace(c.Storage.Path) == "" {
			errs = append(errs, fmt.Errorf("storage path is required for %s", c.Storage.Kind))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage kind %q", c.Storage.Kind))
	}

	if _, err := c.Log.SlogLevel(); err != nil {
		errs = append(errs, err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

// SlogLevel parses Level ("debug", "info", "warn", "error").
func (l Log) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return 0, fmt.Errorf("log level: %w", err)
	}

	return level, nil
}
