package id

import (
	"context"
	"strings"

	"github.com/rvkinc/presetutils/internal/preset"
	"go.uber.org/zap"
)

const (
	comboDelimiter       = ","
	multiselectDelimiter = ";"

	taginfoComment = "no values in fields.json, retrieved these from taginfo"
)

// widgets renders one field as preset elements. filter narrows statistics
// lookups to one element class, "" for none. A field can legitimately
// render nothing: no keys, or no options and no statistics.
func (e *Emitter) widgets(ctx context.Context, f *Field, filter string) ([]preset.Element, error) {
	switch f.Type.Shape() {
	case preset.ShapeText:
		return e.textWidgets(f), nil
	case preset.ShapeCombo:
		return e.comboWidgets(ctx, f, filter, "combo", comboDelimiter)
	case preset.ShapeMultiselect:
		return e.comboWidgets(ctx, f, filter, "multiselect", multiselectDelimiter)
	case preset.ShapeYesNo:
		return e.yesNoWidgets(f), nil
	case preset.ShapeCheck:
		return e.checkWidgets(f), nil
	case preset.ShapeChecks:
		return e.repeatedChecks(ctx, f)
	}
	return nil, nil
}

// keyLabel is the field label when the field has exactly one key. With
// several keys the label would be ambiguous.
func keyLabel(f *Field) string {
	if len(f.Keys) == 1 {
		return f.Label
	}
	return ""
}

func withText(el preset.Element, text string) preset.Element {
	if text == "" {
		return el
	}
	return el.Attr("text", text)
}

func (e *Emitter) textWidgets(f *Field) []preset.Element {
	var out []preset.Element
	for _, key := range f.Keys {
		el := withText(preset.Element{Name: "text"}.Attr("key", key), keyLabel(f))
		if f.Default != "" {
			el = el.Attr("default", f.Default)
		}
		if !e.config.JOSMOnly {
			if f.Type == preset.Localized {
				el = el.Attr("i18n", "true")
			}
			if vt := f.Type.ValueType(); vt != "" {
				el = el.Attr("value_type", vt)
			}
		}
		out = append(out, el)
	}
	return out
}

func (e *Emitter) comboWidgets(ctx context.Context, f *Field, filter, name, delimiter string) ([]preset.Element, error) {
	var out []preset.Element
	for _, key := range f.Keys {
		options := f.Options
		comment := ""
		if len(options) == 0 {
			var err error
			options, err = e.enricher.Values(ctx, key, filter, f.CaseSensitive)
			if err != nil {
				return nil, err
			}
			comment = taginfoComment
		}

		values, displays := e.joinOptions(f, key, options, delimiter)
		if len(values) == 0 {
			continue
		}

		el := withText(preset.Element{Name: name, Comment: comment}.Attr("key", key), keyLabel(f))
		el = el.Attr("values", strings.Join(values, delimiter))
		el = el.Attr("display_values", strings.Join(displays, delimiter))
		if f.Default != "" {
			el = el.Attr("default", f.Default)
		}
		out = append(out, el)
	}
	return out, nil
}

// joinOptions returns the parallel value and display value lists, leaving
// out values that contain the delimiter.
func (e *Emitter) joinOptions(f *Field, key string, options []preset.ValueAndDescription, delimiter string) ([]string, []string) {
	var values, displays []string
	for _, o := range options {
		if strings.Contains(o.Value, delimiter) {
			e.l.Warn("option value contains delimiter", zap.String("field", f.Name), zap.String("key", key), zap.String("value", o.Value))
			continue
		}
		d := o.Description
		if d == "" {
			d = o.Value
		}
		values = append(values, o.Value)
		displays = append(displays, strings.ReplaceAll(d, delimiter, " "))
	}
	return values, displays
}

func (e *Emitter) yesNoWidgets(f *Field) []preset.Element {
	var out []preset.Element
	for _, key := range f.Keys {
		el := withText(preset.Element{Name: "combo"}.Attr("key", key), keyLabel(f))
		el = el.Attr("values", "yes,no")
		if f.Default != "" {
			el = el.Attr("default", f.Default)
		}
		out = append(out, el)
	}
	return out
}

func (e *Emitter) checkWidgets(f *Field) []preset.Element {
	var out []preset.Element
	for _, key := range f.Keys {
		el := withText(preset.Element{Name: "check"}.Attr("key", key), keyLabel(f))
		out = append(out, el.Attr("disable_off", "true"))
	}
	return out
}

func check(key, text string) preset.Element {
	return withText(preset.Element{Name: "check"}.Attr("key", key), text).Attr("disable_off", "true")
}

// repeatedChecks renders one check per discrete choice: per option for
// radio groups, per key below a prefix for multicombo, per key for
// manycombo.
func (e *Emitter) repeatedChecks(ctx context.Context, f *Field) ([]preset.Element, error) {
	var out []preset.Element
	switch f.Type {
	case preset.MultiCombo:
		for _, prefix := range f.Keys {
			options := f.Options
			comment := ""
			if len(options) == 0 {
				var err error
				options, err = e.enricher.Keys(ctx, prefix)
				if err != nil {
					return nil, err
				}
				comment = taginfoComment
			}
			for i, o := range options {
				el := check(prefix+o.Value, o.Description)
				if i == 0 {
					el.Comment = comment
				}
				out = append(out, el)
			}
		}
	case preset.ManyCombo:
		descriptions := make(map[string]string, len(f.Options))
		for _, o := range f.Options {
			descriptions[o.Value] = o.Description
		}
		for _, key := range f.Keys {
			out = append(out, check(key, descriptions[key]))
		}
	default:
		for _, o := range f.Options {
			out = append(out, check(o.Value, o.Description))
		}
	}
	return out, nil
}
