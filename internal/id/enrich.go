package id

import (
	"context"

	"github.com/rvkinc/presetutils/internal/preset"
	"go.uber.org/zap"
)

// OptionSource backfills option lists. *taginfo.Client implements it.
type OptionSource interface {
	Values(ctx context.Context, key, filter string, caseSensitive bool) ([]preset.ValueAndDescription, error)
	Keys(ctx context.Context, prefix string) ([]preset.ValueAndDescription, error)
}

type lookup int

const (
	// lookupValues asks for the values of a key
	lookupValues lookup = iota
	// lookupKeys asks for the keys below a prefix, multicombo style
	lookupKeys
)

type enrichStatus int

const (
	notResolved enrichStatus = iota
	resolvedValues
	resolvedAbsent
)

type enrichKey struct {
	lookup lookup
	key    string
	filter string
	// values differing only in case are distinct
	caseSensitive bool
}

type enrichEntry struct {
	status enrichStatus
	values []preset.ValueAndDescription
}

// Enricher supplies option lists for fields that do not carry their own.
// Results are cached for the lifetime of the Enricher, one run, so every
// (lookup, key, geometry filter) combination is fetched at most once.
type Enricher struct {
	source  OptionSource
	enabled bool
	cache   map[enrichKey]enrichEntry
	l       *zap.Logger
}

// NewEnricher returns an Enricher. With enabled false, or a nil source,
// every lookup resolves absent without any I/O.
func NewEnricher(source OptionSource, enabled bool, l *zap.Logger) *Enricher {
	return &Enricher{
		source:  source,
		enabled: enabled && source != nil,
		cache:   make(map[enrichKey]enrichEntry),
		l:       l,
	}
}

func (e *Enricher) Values(ctx context.Context, key, filter string, caseSensitive bool) ([]preset.ValueAndDescription, error) {
	return e.options(ctx, enrichKey{lookup: lookupValues, key: key, filter: filter, caseSensitive: caseSensitive})
}

func (e *Enricher) Keys(ctx context.Context, prefix string) ([]preset.ValueAndDescription, error) {
	return e.options(ctx, enrichKey{lookup: lookupKeys, key: prefix})
}

func (e *Enricher) options(ctx context.Context, k enrichKey) ([]preset.ValueAndDescription, error) {
	if !e.enabled {
		return nil, nil
	}

	entry := e.cache[k]
	switch entry.status {
	case resolvedValues:
		return entry.values, nil
	case resolvedAbsent:
		return nil, nil
	}

	var (
		values []preset.ValueAndDescription
		err    error
	)
	switch k.lookup {
	case lookupKeys:
		values, err = e.source.Keys(ctx, k.key)
	default:
		values, err = e.source.Values(ctx, k.key, k.filter, k.caseSensitive)
	}
	if err != nil {
		return nil, err
	}

	if len(values) == 0 {
		e.cache[k] = enrichEntry{status: resolvedAbsent}
		e.l.Debug("no statistics values", zap.String("key", k.key), zap.String("filter", k.filter))
		return nil, nil
	}
	e.cache[k] = enrichEntry{status: resolvedValues, values: values}
	return values, nil
}
