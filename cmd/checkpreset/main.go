package main

import (
	"io"
	"log"
	"os"

	"github.com/pkg/errors"
	"github.com/rvkinc/presetutils/internal/check"
	"github.com/rvkinc/presetutils/internal/logger"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	app := &cli.App{
		Name:  "checkpreset",
		Usage: "Check a JOSM/Vespucci preset file for problems the schema does not catch",
		Flags: []cli.Flag{
			&cli.PathFlag{
				Name:    "input",
				Aliases: []string{"i"},
				Usage:   "input preset file, stdin if omitted",
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "debug logging",
			},
		},
		Action: func(cCtx *cli.Context) error {
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
				in, name = f, path
			}

			r, err := check.Check(in, lg.With(zap.String("input", name)))
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}
			if r.HasErrors() {
				return cli.Exit("", 1)
			}
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalln(err)
	}
}
