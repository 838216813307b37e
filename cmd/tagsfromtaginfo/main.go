package main

import (
	"bytes"
	"context"
	_ "embed"
	"log"
	"os"
	"os/signal"

	"github.com/pkg/errors"
	"github.com/rvkinc/presetutils/config"
	"github.com/rvkinc/presetutils/internal/fetch"
	"github.com/rvkinc/presetutils/internal/logger"
	"github.com/rvkinc/presetutils/internal/tagdump"
	"github.com/rvkinc/presetutils/internal/taginfo"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

//go:embed config.yml
var configfile []byte

func main() {
	app := &cli.App{
		Name:  "tagsfromtaginfo",
		Usage: "List the object tags in common use as a tag,count file",
		Flags: []cli.Flag{
			&cli.PathFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output file, stdout if omitted",
			},
			&cli.IntFlag{
				Name:    "minimum",
				Aliases: []string{"m"},
				Usage:   "minimum use count of a value",
			},
			&cli.BoolFlag{
				Name:    "nosubtags",
				Aliases: []string{"n"},
				Usage:   "do not list sub tags",
			},
			&cli.BoolFlag{
				Name:    "counts",
				Aliases: []string{"c"},
				Usage:   "look up the use count of every tag instead of writing 0",
			},
			&cli.PathFlag{
				Name:  "config",
				Usage: "yaml configuration replacing the built-in one",
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

	cfg, err := loadConfig(cCtx)
	if err != nil {
		return cli.Exit(err.Error(), 2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	tc := taginfo.New(cfg.TaginfoConfig, fetch.NewHTTP(cfg.FetchConfig), lg)

	var buf bytes.Buffer
	n, err := tagdump.New(cfg.TagsConfig, tc, lg).Dump(ctx, &buf)
	if err != nil {
		lg.Error("dump tags", zap.Error(err))
		return cli.Exit("", 1)
	}

	if path := cCtx.Path("output"); path != "" {
		err = os.WriteFile(path, buf.Bytes(), 0o644)
	} else {
		_, err = buf.WriteTo(os.Stdout)
	}
	if err != nil {
		lg.Error("write tags", zap.Error(err))
		return cli.Exit("", 1)
	}
	lg.Info("tags written", zap.Int("lines", n))
	return nil
}

func loadConfig(cCtx *cli.Context) (*config.Config, error) {
	file := configfile
	if path := cCtx.Path("config"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrap(err, "read config")
		}
		file = b
	}

	cfg, err := config.NewConfig(file)
	if err != nil {
		return nil, err
	}

	c := cfg.TagsConfig
	if cCtx.IsSet("minimum") {
		c.MinCount = cCtx.Int("minimum")
	}
	if cCtx.Bool("nosubtags") {
		c.SubTags = false
	}
	if cCtx.Bool("counts") {
		c.Counts = true
	}
	if c.MinCount < 1 {
		return nil, errors.New("minimum must be positive")
	}
	return cfg, nil
}
