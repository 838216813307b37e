package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/rvkinc/presetutils/internal/logger"
	"github.com/rvkinc/presetutils/internal/pot"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	app := &cli.App{
		Name:  "preset2pot",
		Usage: "Extract the translatable strings of a preset file into a gettext template",
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
	name := "stdin"
	if path := cCtx.Path("input"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return cli.Exit(errors.Wrap(err, "open input").Error(), 2)
		}
		defer f.Close()
		in, name = f, filepath.Base(path)
	}

	c, err := pot.Extract(in, name)
	if err != nil {
		lg.Error("extracting strings failed", zap.Error(err))
		return cli.Exit("", 1)
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

	if err := c.Write(out, time.Now()); err != nil {
		lg.Error("writing template failed", zap.Error(err))
		return cli.Exit("", 1)
	}
	lg.Info("template written", zap.Int("messages", c.Len()))
	return nil
}
