package main

import (
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/tymbaca/wordfreq/internal/gen"
	"github.com/urfave/cli/v2"
)

func generateCommand() *cli.Command {
	return &cli.Command{
		Name:  "generate",
		Usage: "write a synthetic text file to count",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Value: "input.txt", Usage: "file to write"},
			&cli.StringFlag{Name: "size", Value: "200KB", Usage: "minimum size, e.g. 512KiB or 3MB"},
			&cli.Uint64Flag{Name: "seed", Value: 1, Usage: "random seed"},
			&cli.Float64Flag{Name: "extra", Value: 0.3, Usage: "probability of an extra word per sentence"},
		},
		Action: func(c *cli.Context) error {
			size, err := humanize.ParseBytes(c.String("size"))
			if err != nil {
				return err
			}

			path := c.String("output")
			n, err := gen.GenerateFile(path, gen.Options{
				Size:  int64(size),
				Seed:  c.Uint64("seed"),
				Extra: c.Float64("extra"),
			})
			if err != nil {
				return err
			}

			slog.Info("wordfreq: input generated", "path", path, "size", humanize.Bytes(uint64(n)))

			return nil
		},
	}
}
