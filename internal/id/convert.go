package id

import (
	"context"
	"io"

	"github.com/rvkinc/presetutils/internal/fetch"
	"go.uber.org/zap"
)

// Convert runs the whole pipeline: load the iD definitions, resolve field
// references, then write the preset document to w. source may be nil when
// c.Taginfo is off.
func Convert(ctx context.Context, c *Config, f fetch.Fetcher, source OptionSource, w io.Writer, l *zap.Logger) error {
	defs, err := Load(ctx, f, c, l)
	if err != nil {
		return err
	}

	NewResolver(defs.Presets, defs.Fields, l).Resolve()

	enricher := NewEnricher(source, c.Taginfo, l)
	return NewEmitter(c, defs, enricher, l).Emit(ctx, w)
}
