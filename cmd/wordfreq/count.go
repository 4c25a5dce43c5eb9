package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/tymbaca/wordfreq/internal/config"
	"github.com/tymbaca/wordfreq/pkg/tracer"
	"github.com/tymbaca/wordfreq/wordfreq"
	"github.com/tymbaca/wordfreq/wordfreq/storage/bbolt"
	"github.com/tymbaca/wordfreq/wordfreq/storage/inmemory"
	"github.com/tymbaca/wordfreq/wordfreq/storage/sqlite"
	"github.com/urfave/cli/v2"
)

func countCommand() *cli.Command {
	return &cli.Command{
		Name:  "count",
		Usage: "count words of --input and write sorted \"word: count\" lines to --output",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML config file"},
			&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "input text file"},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "output file, parent directories are created"},
			&cli.IntFlag{Name: "chunks", Aliases: []string{"n"}, Usage: "number of chunks (and workers) to plan"},
			&cli.StringFlag{Name: "storage", Usage: "memory, bbolt or sqlite"},
			&cli.StringFlag{Name: "storage-path", Usage: "database file for bbolt and sqlite storage"},
			&cli.IntFlag{Name: "partitions", Usage: "bbolt buckets to spread words over"},
			&cli.StringFlag{Name: "trace-endpoint", Usage: "OTLP/HTTP collector host:port"},
		},
		Action: runCount,
	}
}

func runCount(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	// the file may change logging set up from the global flags
	if err := setupLogger(c.App.ErrWriter, cfg.Log.Level, cfg.Log.Format); err != nil {
		return err
	}

	shutdown, err := tracer.Init(c.Context, cfg.Trace.Endpoint)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			slog.Warn("wordfreq: trace shutdown", "err", err)
		}
	}()

	storage, closeStorage, err := openStorage(cfg.Storage)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStorage.Close(); err != nil {
			slog.Warn("wordfreq: close storage", "err", err)
		}
	}()

	slog.Info("wordfreq: counting",
		"input", cfg.Input,
		"output", cfg.Output,
		"chunks", cfg.Chunks,
		"storage", cfg.Storage.Kind,
	)

	report, err := wordfreq.New(cfg.Chunks, storage).Run(c.Context, cfg.Input, cfg.Output)
	if err != nil {
		return err
	}

	slog.Info("wordfreq: done",
		"size", humanize.Bytes(uint64(report.Size)),
		"chunks", len(report.Chunks),
		"words", humanize.Comma(int64(report.Words)),
		"tokens", humanize.Comma(int64(report.Tokens)),
		"digest", fmt.Sprintf("%016x", report.Digest),
		"elapsed", report.Elapsed,
	)

	return nil
}

// loadConfig layers defaults, the config file and explicitly set flags.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Default()
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = config.Load(path); err != nil {
			return cfg, err
		}
	}

	if c.IsSet("input") {
		cfg.Input = c.String("input")
	}
	if c.IsSet("output") {
		cfg.Output = c.String("output")
	}
	if c.IsSet("chunks") {
		cfg.Chunks = c.Int("chunks")
	}
	if c.IsSet("storage") {
		cfg.Storage.Kind = c.String("storage")
	}
	if c.IsSet("storage-path") {
		cfg.Storage.Path = c.String("storage-path")
	}
	if c.IsSet("partitions") {
		cfg.Storage.Partitions = c.Int("partitions")
	}
	if c.IsSet("trace-endpoint") {
		cfg.Trace.Endpoint = c.String("trace-endpoint")
	}
	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}
	if c.IsSet("log-format") {
		cfg.Log.Format = c.String("log-format")
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func openStorage(cfg config.Storage) (wordfreq.Storage, io.Closer, error) {
	switch cfg.Kind {
	case config.StorageMemory:
		return inmemory.New(), closerFunc(func() error { return nil }), nil
	case config.StorageBbolt:
		st, err := bbolt.New(cfg.Path, cfg.Partitions)
		if err != nil {
			return nil, nil, err
		}
		return st, st, nil
	case config.StorageSQLite:
		st, err := sqlite.New(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return st, st, nil
	default:
		return nil, nil, errors.New("unknown storage kind " + cfg.Kind)
	}
}
