package main

import (
	"io"
	"log"
	"os"

	"github.com/pkg/errors"
	"github.com/rvkinc/presetutils/internal/icons"
	"github.com/rvkinc/presetutils/internal/logger"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	app := &cli.App{
		Name:  "listicons",
		Usage: "List the icons used in a JOSM/Vespucci preset file",
		Flags: []cli.Flag{
			&cli.PathFlag{
				Name:    "input",
				Aliases: []string{"i"},
				Usage:   "input preset file, stdin if omitted",
			},
			&cli.PathFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output file, stdout if omitted",
			},
			&cli.PathFlag{
				Name:    "map",
				Aliases: []string{"m"},
				Usage:   "also write a name=icon map to this file",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "debug logging",
			},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalln(err)
	}
}

func run(cCtx *cli.Context) error {
	lg := logger.New(cCtx.Bool("verbose"))
	defer func() { _ = lg.Sync() }()

	var in io.Reader = os.Stdin
	if path := cCtx.Path("input"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return cli.Exit(errors.Wrap(err, "open input").Error(), 2)
		}
		defer f.Close()
		in = f
	}

	var out io.Writer = os.Stdout
	if path := cCtx.Path("output"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return cli.Exit(errors.Wrap(err, "create output").Error(), 2)
		}
		defer f.Close()
		out = f
	}

	var mapw io.Writer
	if path := cCtx.Path("map"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			return cli.Exit(errors.Wrap(err, "create map").Error(), 2)
		}
		defer f.Close()
		mapw = f
	}

	n, err := icons.List(in, out, mapw, lg)
	if err != nil {
		lg.Error("listing icons failed", zap.Error(err))
		return cli.Exit("", 1)
	}
	lg.Info("icons listed", zap.Int("entries", n))
	return nil
}
