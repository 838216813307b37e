package main

import (
	"bytes"
	"context"
	_ "embed"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rvkinc/presetutils/config"
	"github.com/rvkinc/presetutils/internal/fetch"
	"github.com/rvkinc/presetutils/internal/id"
	"github.com/rvkinc/presetutils/internal/logger"
	"github.com/rvkinc/presetutils/internal/taginfo"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

//go:embed config.yml
var configfile []byte

func main() {
	app := &cli.App{
		Name:  "id2josm",
		Usage: "Convert the iD tagging schema to a JOSM/Vespucci preset file",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "output file, stdout if omitted",
			},
			&cli.BoolFlag{
				Name:    "chunk",
				Aliases: []string{"c"},
				Usage:   "declare fields once as chunks and reference them from items",
			},
			&cli.BoolFlag{
				Name:    "notaginfo",
				Aliases: []string{"n"},
				Usage:   "do not fill missing option lists from taginfo",
			},
			&cli.BoolFlag{
				Name:    "josmonly",
				Aliases: []string{"j"},
				Usage:   "leave out Vespucci extensions",
			},
			&cli.StringFlag{
				Name:    "fieldsurl",
				Aliases: []string{"f"},
				Usage:   "iD fields.json location",
			},
			&cli.StringFlag{
				Name:    "preseturl",
				Aliases: []string{"p"},
				Usage:   "iD presets.json location",
			},
			&cli.StringFlag{
				Name:    "translationurl",
				Aliases: []string{"t"},
				Usage:   "iD translation file location",
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

	f := fetch.NewHTTP(cfg.FetchConfig)
	tc := taginfo.New(cfg.TaginfoConfig, f, lg)

	err = writeOutput(cCtx.String("output"), os.Stdout, func(w io.Writer) error {
		return id.Convert(ctx, cfg.ID2JOSMConfig, f, tc, w, lg)
	})
	if err != nil {
		lg.Error("convert", zap.Error(err))
		return cli.Exit("", 1)
	}
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

	c := cfg.ID2JOSMConfig
	if cCtx.Bool("chunk") {
		c.Chunk = true
	}
	if cCtx.Bool("notaginfo") {
		c.Taginfo = false
	}
	if cCtx.Bool("josmonly") {
		c.JOSMOnly = true
	}
	if cCtx.IsSet("fieldsurl") {
		c.FieldsURL = cCtx.String("fieldsurl")
	}
	if cCtx.IsSet("preseturl") {
		c.PresetsURL = cCtx.String("preseturl")
	}
	if cCtx.IsSet("translationurl") {
		c.TranslationsURL = cCtx.String("translationurl")
	}
	if c.FieldsURL == "" || c.PresetsURL == "" {
		return nil, errors.New("fields and presets locations are required")
	}
	return cfg, nil
}

// writeOutput runs write against a buffer that is copied to stdout, or
// against a temporary file next to path. Either way nothing is written when
// write fails.
func writeOutput(path string, stdout io.Writer, write func(io.Writer) error) error {
	if path == "" {
		var buf bytes.Buffer
		if err := write(&buf); err != nil {
			return err
		}
		_, err := buf.WriteTo(stdout)
		return errors.Wrap(err, "write output")
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrap(err, "create output")
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if err = write(tmp); err != nil {
		_ = tmp.Close()
		return err
	}
	// CreateTemp makes the file private
	if err = tmp.Chmod(0o644); err != nil {
		_ = tmp.Close()
		return errors.Wrap(err, "chmod output")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "close output")
	}
	return errors.Wrap(os.Rename(tmp.Name(), path), "rename output")
}
