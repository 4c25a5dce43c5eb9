package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/urfave/cli/v2"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := newApp(os.Stderr).RunContext(ctx, os.Args); err != nil {
		slog.Error("wordfreq: failed", "err", err)
		os.Exit(1)
	}
}

func newApp(logOut io.Writer) *cli.App {
	return &cli.App{
		Name:      "wordfreq",
		Usage:     "count word frequencies of a large text file in parallel",
		Writer:    logOut,
		ErrWriter: logOut,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "debug, info, warn or error",
				Value: "info",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "text or json",
				Value: "text",
			},
		},
		Before: func(c *cli.Context) error {
			return setupLogger(logOut, c.String("log-level"), c.String("log-format"))
		},
		Commands: []*cli.Command{
			countCommand(),
			generateCommand(),
		},
	}
}

func setupLogger(w io.Writer, level, format string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("log level: %w", err)
	}

	opts := &slog.HandlerOptions{Level: lvl}

	var handler slog.Handler
	switch format {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	case "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		return fmt.Errorf("unknown log format %q", format)
	}

	slog.SetDefault(slog.New(handler))

	return nil
}
