package id

import (
	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// Translator looks up localized strings from an iD locale file. Every method
// returns "" when there is no translation.
type Translator interface {
	PresetName(path string) string
	FieldLabel(field string) string
	OptionLabel(field, option string) string
}

// Translations is the table built from one iD locale file.
type Translations struct {
	Locale  string
	presets map[string]string
	labels  map[string]string
	options map[string]map[string]string
}

func NewTranslations() *Translations {
	return &Translations{
		presets: make(map[string]string),
		labels:  make(map[string]string),
		options: make(map[string]map[string]string),
	}
}

func (t *Translations) PresetName(path string) string { return t.presets[path] }

func (t *Translations) FieldLabel(field string) string { return t.labels[field] }

func (t *Translations) OptionLabel(field, option string) string { return t.options[field][option] }

// LoadTranslations parses an iD locale file:
//
//	{"en": {"presets": {"presets": {path: {"name": ...}}, "fields": {name: {"label": ..., "options": {...}}}}}}
//
// Only the first locale of the document is used.
func LoadTranslations(doc []byte) (*Translations, error) {
	if !gjson.ValidBytes(doc) {
		return nil, errors.New("translations: invalid json")
	}
	root := gjson.ParseBytes(doc)
	if !root.IsObject() {
		return nil, errors.New("translations: top level is not an object")
	}

	t := NewTranslations()
	var locale gjson.Result
	root.ForEach(func(k, v gjson.Result) bool {
		t.Locale = k.String()
		locale = v
		return false
	})
	if !locale.IsObject() {
		return t, nil
	}

	locale.Get("presets.presets").ForEach(func(path, p gjson.Result) bool {
		if name := p.Get("name").String(); name != "" {
			t.presets[path.String()] = name
		}
		return true
	})

	locale.Get("presets.fields").ForEach(func(name, f gjson.Result) bool {
		field := name.String()
		if label := f.Get("label").String(); label != "" {
			t.labels[field] = label
		}
		f.Get("options").ForEach(func(option, v gjson.Result) bool {
			label := optionTitle(v)
			if label == "" {
				return true
			}
			if t.options[field] == nil {
				t.options[field] = make(map[string]string)
			}
			t.options[field][option.String()] = label
			return true
		})
		return true
	})

	return t, nil
}

// optionTitle reads an option string, which iD writes either as a plain
// string or as an object with a title.
func optionTitle(v gjson.Result) string {
	switch {
	case v.Type == gjson.String:
		return v.String()
	case v.IsObject():
		return v.Get("title").String()
	}
	return ""
}
