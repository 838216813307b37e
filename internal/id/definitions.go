package id

import (
	"strings"

	"github.com/rvkinc/presetutils/internal/preset"
)

// Field is an iD field definition. It is shared by every preset that lists
// it and never modified after loading.
type Field struct {
	Name          string
	Label         string
	Type          preset.FieldType
	Keys          []string
	Options       []preset.ValueAndDescription
	Default       string
	CaseSensitive bool
}

// usesKey reports whether any of the field keys is also a key of tags.
func (f *Field) usesKey(tags preset.Tags) bool {
	for _, k := range f.Keys {
		if preset.HasKey(tags, k) {
			return true
		}
	}
	return false
}

func (f *Field) hasKey(key string) bool {
	for _, k := range f.Keys {
		if k == key {
			return true
		}
	}
	return false
}

// FieldTable holds field definitions in source order.
type FieldTable struct {
	order  []*Field
	byName map[string]*Field
}

func NewFieldTable() *FieldTable {
	return &FieldTable{byName: make(map[string]*Field)}
}

func (t *FieldTable) add(f *Field) bool {
	if _, ok := t.byName[f.Name]; ok {
		return false
	}
	t.byName[f.Name] = f
	t.order = append(t.order, f)
	return true
}

func (t *FieldTable) Get(name string) *Field { return t.byName[name] }

func (t *FieldTable) All() []*Field { return t.order }

func (t *FieldTable) Len() int { return len(t.order) }

// WikiReference points at the OSM wiki page documenting a preset.
type WikiReference struct {
	Key   string
	Value string
}

// Page is the wiki page name, Tag:key=value or Key:key.
func (r WikiReference) Page() string {
	if r.Value == "" {
		return "Key:" + r.Key
	}
	return "Tag:" + r.Key + "=" + r.Value
}

type resolveState int

const (
	unresolved resolveState = iota
	resolving
	resolved
)

// Item is one iD preset. FieldNames and MoreFieldNames are the tokens as
// read from the source; Fields and MoreFields are filled by the resolver.
type Item struct {
	Path       string
	Name       string
	Icon       string
	Geometry   []preset.Geometry
	Tags       preset.Tags
	AddTags    preset.Tags
	RemoveTags preset.Tags
	Searchable bool
	Reference  *WikiReference

	FieldNames     []string
	MoreFieldNames []string

	Fields     []*Field
	MoreFields []*Field

	state resolveState
}

// parentPath strips the last path segment, "" for top level presets.
func parentPath(path string) string {
	i := strings.LastIndex(path, "/")
	if i <= 0 {
		return ""
	}
	return path[:i]
}

// PresetTable holds presets in source order, keyed by path.
type PresetTable struct {
	order  []*Item
	byPath map[string]*Item
}

func NewPresetTable() *PresetTable {
	return &PresetTable{byPath: make(map[string]*Item)}
}

func (t *PresetTable) add(it *Item) bool {
	if _, ok := t.byPath[it.Path]; ok {
		return false
	}
	t.byPath[it.Path] = it
	t.order = append(t.order, it)
	return true
}

func (t *PresetTable) Get(path string) *Item { return t.byPath[path] }

func (t *PresetTable) All() []*Item { return t.order }

func (t *PresetTable) Len() int { return len(t.order) }
