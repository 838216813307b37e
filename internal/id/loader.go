package id

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rvkinc/presetutils/internal/fetch"
	"github.com/rvkinc/presetutils/internal/preset"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// Definitions are the three loaded tables, in the order they depend on
// each other.
type Definitions struct {
	Translations *Translations
	Fields       *FieldTable
	Presets      *PresetTable
}

// Load fetches and parses translations, fields and presets, in that order.
// An empty translations URL skips localisation. Every error is fatal.
func Load(ctx context.Context, f fetch.Fetcher, c *Config, l *zap.Logger) (*Definitions, error) {
	tr := NewTranslations()
	if c.TranslationsURL != "" {
		doc, err := f.Get(ctx, c.TranslationsURL)
		if err != nil {
			return nil, errors.Wrap(err, "fetch translations")
		}
		tr, err = LoadTranslations(doc)
		if err != nil {
			return nil, err
		}
		l.Info("loaded translations", zap.String("locale", tr.Locale))
	}

	doc, err := f.Get(ctx, c.FieldsURL)
	if err != nil {
		return nil, errors.Wrap(err, "fetch fields")
	}
	fields, err := LoadFields(doc, tr, l)
	if err != nil {
		return nil, err
	}
	l.Info("loaded fields", zap.Int("count", fields.Len()))

	doc, err = f.Get(ctx, c.PresetsURL)
	if err != nil {
		return nil, errors.Wrap(err, "fetch presets")
	}
	presets, err := LoadPresets(doc, tr, l)
	if err != nil {
		return nil, err
	}
	l.Info("loaded presets", zap.Int("count", presets.Len()))

	return &Definitions{Translations: tr, Fields: fields, Presets: presets}, nil
}

// unwrap returns the definitions object of an iD data file, which is either
// the document itself or, in older releases, nested under name.
func unwrap(doc []byte, name string) (gjson.Result, error) {
	if !gjson.ValidBytes(doc) {
		return gjson.Result{}, errors.Errorf("%s: invalid json", name)
	}
	root := gjson.ParseBytes(doc)
	if !root.IsObject() {
		return gjson.Result{}, errors.Errorf("%s: top level is not an object", name)
	}
	if inner := root.Get(name); inner.IsObject() && !inner.Get("type").Exists() && !inner.Get("tags").Exists() {
		return inner, nil
	}
	return root, nil
}

// LoadFields parses an iD fields file. Fields with an unknown type are
// logged and left out.
func LoadFields(doc []byte, tr Translator, l *zap.Logger) (*FieldTable, error) {
	defs, err := unwrap(doc, "fields")
	if err != nil {
		return nil, err
	}

	t := NewFieldTable()
	type crossRef struct {
		field *Field
		ref   string
	}
	var crossRefs []crossRef

	defs.ForEach(func(k, v gjson.Result) bool {
		name := k.String()
		if !v.IsObject() {
			l.Warn("field is not an object", zap.String("field", name))
			return true
		}

		ft, err := preset.ParseFieldType(v.Get("type").String())
		if err != nil {
			l.Warn("skip field", zap.String("field", name), zap.Error(err))
			return true
		}

		f := &Field{
			Name:          name,
			Type:          ft,
			Label:         v.Get("label").String(),
			Default:       v.Get("default").String(),
			CaseSensitive: v.Get("caseSensitive").Bool(),
		}
		if f.Label == "" {
			f.Label = tr.FieldLabel(name)
		}

		if key := v.Get("key").String(); key != "" {
			f.Keys = append(f.Keys, key)
		}
		v.Get("keys").ForEach(func(_, key gjson.Result) bool {
			if s := key.String(); s != "" && !f.hasKey(s) {
				f.Keys = append(f.Keys, s)
			}
			return true
		})

		f.Options = parseOptions(name, v, tr)

		if ref := v.Get("stringsCrossReference").String(); ref != "" {
			crossRefs = append(crossRefs, crossRef{field: f, ref: ref})
		}

		if !t.add(f) {
			l.Warn("duplicate field definition", zap.String("field", name))
		}
		return true
	})

	for _, cr := range crossRefs {
		f := cr.field
		other := t.Get(referenceTarget(cr.ref))
		if other == nil {
			l.Info("dangling strings reference", zap.String("field", f.Name), zap.String("ref", cr.ref))
			continue
		}
		if len(f.Options) == 0 {
			f.Options = other.Options
		}
		if f.Label == "" {
			f.Label = other.Label
		}
	}

	return t, nil
}

// parseOptions merges the "options" value list with the descriptions from
// "strings.options" and the translation table. The translation wins.
func parseOptions(field string, v gjson.Result, tr Translator) []preset.ValueAndDescription {
	descriptions := make(map[string]string)
	var stringsOrder []string
	v.Get("strings.options").ForEach(func(k, d gjson.Result) bool {
		descriptions[k.String()] = optionTitle(d)
		stringsOrder = append(stringsOrder, k.String())
		return true
	})

	var values []string
	if list := v.Get("options"); list.IsArray() {
		list.ForEach(func(_, o gjson.Result) bool {
			values = append(values, o.String())
			return true
		})
	} else {
		values = stringsOrder
	}

	var out []preset.ValueAndDescription
	for _, value := range values {
		if value == "" {
			continue
		}
		d := tr.OptionLabel(field, value)
		if d == "" {
			d = descriptions[value]
		}
		out = append(out, preset.ValueAndDescription{Value: value, Description: d})
	}
	return out
}

func parseGeometries(v gjson.Result, onError func(error)) []preset.Geometry {
	var out []preset.Geometry
	add := func(s string) {
		g, err := preset.ParseGeometry(s)
		if err != nil {
			onError(err)
			return
		}
		out = append(out, g)
	}

	switch {
	case v.IsArray():
		v.ForEach(func(_, g gjson.Result) bool {
			add(g.String())
			return true
		})
	case v.Type == gjson.String:
		add(v.String())
	}
	return out
}

// named entity presets come from the name suggestion index and are not
// converted
var namedEntityKeys = []string{"name", "brand:wikidata"}

// LoadPresets parses an iD presets file into a table in source order.
func LoadPresets(doc []byte, tr Translator, l *zap.Logger) (*PresetTable, error) {
	defs, err := unwrap(doc, "presets")
	if err != nil {
		return nil, err
	}

	t := NewPresetTable()
	skipped := 0

	defs.ForEach(func(k, v gjson.Result) bool {
		path := k.String()
		if !v.IsObject() {
			l.Warn("preset is not an object", zap.String("preset", path))
			return true
		}

		it := &Item{
			Path:       path,
			Icon:       v.Get("icon").String(),
			Searchable: true,
			Tags:       parseTags(v.Get("tags")),
			AddTags:    parseTags(v.Get("addTags")),
			RemoveTags: parseTags(v.Get("removeTags")),
		}

		for _, key := range namedEntityKeys {
			if it.Tags.Find(key) != "" {
				skipped++
				return true
			}
		}

		if s := v.Get("searchable"); s.Exists() {
			it.Searchable = s.Bool()
		}

		it.Name = tr.PresetName(path)
		if it.Name == "" {
			it.Name = v.Get("name").String()
		}
		if it.Name == "" {
			it.Name = path
		}

		it.Geometry = parseGeometries(v.Get("geometry"), func(err error) {
			l.Info("preset geometry", zap.String("preset", path), zap.Error(err))
		})
		it.FieldNames = parseStrings(v.Get("fields"))
		it.MoreFieldNames = parseStrings(v.Get("moreFields"))

		if ref := v.Get("reference"); ref.IsObject() {
			if key := ref.Get("key").String(); key != "" {
				it.Reference = &WikiReference{Key: key, Value: ref.Get("value").String()}
			}
		}

		if !t.add(it) {
			l.Error("duplicate preset path, keeping first definition", zap.String("preset", path))
		}
		return true
	})

	if skipped > 0 {
		l.Info("skipped named entity presets", zap.Int("count", skipped))
	}

	return t, nil
}

func parseTags(v gjson.Result) preset.Tags {
	var out preset.Tags
	v.ForEach(func(k, val gjson.Result) bool {
		out = append(out, preset.Tag{Key: k.String(), Value: val.String()})
		return true
	})
	return out
}

func parseStrings(v gjson.Result) []string {
	var out []string
	v.ForEach(func(_, s gjson.Result) bool {
		if str := s.String(); str != "" {
			out = append(out, str)
		}
		return true
	})
	return out
}
