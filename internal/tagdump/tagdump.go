package tagdump

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/rvkinc/presetutils/internal/preset"
	"github.com/rvkinc/presetutils/internal/taginfo"
	"go.uber.org/zap"
)

type Config struct {
	MinCount int  `yaml:"min_count"`
	SubTags  bool `yaml:"sub_tags"`
	// Counts looks up the usage of every top level tag instead of writing 0.
	Counts bool `yaml:"counts"`
}

func DefaultConfig() *Config {
	return &Config{
		MinCount: 500,
		SubTags:  true,
	}
}

// Source is the part of *taginfo.Client the dump needs.
type Source interface {
	Query(ctx context.Context, q taginfo.ValuesQuery) ([]preset.ValueAndDescription, error)
	Combinations(ctx context.Context, key, filter string, minCount int) ([]preset.ValueAndDescription, error)
	TagCount(ctx context.Context, key, value string) (int, error)
}

// ObjectKeys are dumped in this order.
var ObjectKeys = []string{
	"aerialway", "aeroway", "amenity", "barrier", "boundary", "building", "craft",
	"emergency", "ford", "geological", "highway", "historic", "landuse", "leisure",
	"man_made", "military", "natural", "office", "place", "power", "public_transport",
	"railway", "shop", "tourism", "waterway", "type", "entrance", "pipeline",
	"healthcare", "playground", "attraction", "traffic_sign", "traffic_sign:forward",
	"traffic_sign:backward", "golf", "indoor", "cemetry", "building:part", "landcover",
	"advertising",
}

// values whose sub tags use a different key
var secondLevelKeys = map[string]string{
	"vending_machine": "vending",
	"stadium":         "sport",
	"pitch":           "sport",
	"sports_centre":   "sport",
}

// keys restricted to one element type
var elementFilter = map[string]string{
	"type": "relations",
}

// values that are commonly combined with their object key but do not
// describe a subtype
var notSecondLevelKeys = map[string]bool{
	"phone": true, "health": true, "census": true, "postal_code": true, "maxspeed": true,
	"designated": true, "heritage": true, "incline": true, "network": true, "level": true,
	"motorcycle": true, "bicycle": true, "snowmobile": true, "organic": true, "fireplace": true,
	"boat": true, "bar": true, "compressed_air": true, "swimming_pool": true, "taxi": true,
	"atm": true, "telephone": true, "waste_basket": true, "drinking_water": true,
	"restaurant": true, "sanitary_dump_station": true, "water_point": true, "biergarten": true,
	"bench": true, "give_way": true, "access": true, "noexit": true, "outdoor_seating": true,
	"goods": true, "second_hand": true, "atv": true, "tobacco": true, "household": true,
	"ski": true, "ice_cream": true, "vacant": true, "car": true, "fishing": true, "toilet": true,
	"shelter": true, "handrail": true, "monorail": true, "unisex": true, "private": true,
	"exit": true, "video": true, "window": true, "laundry": true, "table": true, "steps": true,
}

var objectKeySet = func() map[string]bool {
	m := make(map[string]bool, len(ObjectKeys))
	for _, k := range ObjectKeys {
		m[k] = true
	}
	return m
}()

// Dumper writes the commonly used object tags as a "tag,count" list, the
// seed of a preset statistics file.
type Dumper struct {
	config *Config
	source Source
	l      *zap.Logger
}

func New(c *Config, s Source, l *zap.Logger) *Dumper {
	if c == nil {
		c = DefaultConfig()
	}
	return &Dumper{config: c, source: s, l: l}
}

// Dump writes one line per object tag used at least MinCount times:
//
//	amenity=vending_machine,0
//	amenity=vending_machine / vending=drinks,0
//
// Object keys without any such value get a line with the bare key. Sub tags
// are listed for values that are also used as a key together with the object
// key, at a fifth of the threshold. Errors from the source end the dump.
func (d *Dumper) Dump(ctx context.Context, w io.Writer) (int, error) {
	bw := bufio.NewWriter(w)
	lines := 0
	write := func(tag string, count int) {
		fmt.Fprintf(bw, "%s,%d\n", tag, count)
		lines++
	}

	subMin := d.config.MinCount / 5
	for _, object := range ObjectKeys {
		filter := elementFilter[object]
		values, err := d.source.Query(ctx, d.query(object, filter, d.config.MinCount))
		if err != nil {
			return lines, errors.Wrapf(err, "values of %s", object)
		}
		if len(values) == 0 {
			write(object, 0)
			continue
		}

		combined, err := d.combinations(ctx, object, subMin)
		if err != nil {
			return lines, err
		}

		for _, v := range values {
			tag := object + "=" + v.Value
			count, err := d.count(ctx, object, v.Value)
			if err != nil {
				return lines, err
			}
			write(tag, count)

			subKey := v.Value
			if k, ok := secondLevelKeys[subKey]; ok {
				subKey = k
			}
			if !combined[subKey] {
				d.l.Debug("sub key not combined", zap.String("key", object), zap.String("sub_key", subKey))
				continue
			}
			if notSecondLevelKeys[subKey] || objectKeySet[subKey] {
				d.l.Debug("sub key excluded", zap.String("key", object), zap.String("sub_key", subKey))
				continue
			}
			if !d.config.SubTags {
				continue
			}

			subs, err := d.source.Query(ctx, d.query(subKey, filter, subMin))
			if err != nil {
				return lines, errors.Wrapf(err, "values of %s", subKey)
			}
			for _, sub := range subs {
				if sub.Value == "yes" || sub.Value == "no" {
					continue
				}
				write(tag+" / "+subKey+"="+sub.Value, 0)
			}
		}
	}

	return lines, errors.Wrap(bw.Flush(), "write tags")
}

func (d *Dumper) query(key, filter string, minCount int) taginfo.ValuesQuery {
	return taginfo.ValuesQuery{
		Key:            key,
		Filter:         filter,
		MinCount:       minCount,
		AllowUppercase: taginfo.CanHaveUppercase(key),
	}
}

func (d *Dumper) combinations(ctx context.Context, key string, minCount int) (map[string]bool, error) {
	combos, err := d.source.Combinations(ctx, key, "", minCount)
	if err != nil {
		return nil, errors.Wrapf(err, "combinations of %s", key)
	}
	out := make(map[string]bool, len(combos))
	for _, c := range combos {
		out[c.Value] = true
	}
	return out, nil
}

func (d *Dumper) count(ctx context.Context, key, value string) (int, error) {
	if !d.config.Counts {
		return 0, nil
	}
	n, err := d.source.TagCount(ctx, key, value)
	if err != nil {
		return 0, errors.Wrapf(err, "count of %s=%s", key, value)
	}
	return n, nil
}
