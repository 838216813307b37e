package id

import (
	"strings"

	"github.com/rvkinc/presetutils/internal/preset"
	"go.uber.org/zap"
)

// referenceTarget returns the preset path of a "{path}" token, or the token
// itself when it is not braced.
func referenceTarget(token string) string {
	if path, ok := referencePath(token); ok {
		return path
	}
	return token
}

func referencePath(token string) (string, bool) {
	if len(token) > 2 && strings.HasPrefix(token, "{") && strings.HasSuffix(token, "}") {
		return token[1 : len(token)-1], true
	}
	return "", false
}

// Resolver turns the field tokens of every preset into field definitions.
// It needs the complete preset table: references may point forward and
// inheritance walks up to presets defined anywhere in the file.
type Resolver struct {
	presets *PresetTable
	fields  *FieldTable
	l       *zap.Logger
}

func NewResolver(presets *PresetTable, fields *FieldTable, l *zap.Logger) *Resolver {
	return &Resolver{presets: presets, fields: fields, l: l}
}

// Resolve resolves all presets in source order.
func (r *Resolver) Resolve() {
	for _, it := range r.presets.All() {
		r.resolve(it)
	}
}

func (r *Resolver) resolve(it *Item) {
	if it.state != unresolved {
		return
	}
	it.state = resolving

	it.Fields = r.expand(it, it.FieldNames, false)
	it.MoreFields = r.expand(it, it.MoreFieldNames, true)

	if len(it.Fields) == 0 && len(it.MoreFields) == 0 {
		if parent := r.presets.Get(parentPath(it.Path)); parent != nil && parent.state != resolving {
			r.resolve(parent)
			it.Fields = copyUntilConflict(it, parent.Fields)
			it.MoreFields = copyUntilConflict(it, parent.MoreFields)
		}
	}

	it.Fields = unique(it.Fields, nil)
	it.MoreFields = unique(it.MoreFields, it.Fields)

	Dedup(it, r.l)
	it.state = resolved
}

func (r *Resolver) expand(it *Item, tokens []string, more bool) []*Field {
	var out []*Field
	for _, token := range tokens {
		path, ok := referencePath(token)
		if !ok {
			f := r.fields.Get(token)
			if f == nil {
				r.l.Info("unknown field", zap.String("preset", it.Path), zap.String("field", token))
				continue
			}
			out = append(out, f)
			continue
		}

		target := r.presets.Get(path)
		if target == nil {
			r.l.Info("dangling preset reference", zap.String("preset", it.Path), zap.String("ref", path))
			continue
		}
		if target.state == resolving {
			r.l.Warn("circular preset reference", zap.String("preset", it.Path), zap.String("ref", path))
			continue
		}
		r.resolve(target)

		src := target.Fields
		if more {
			src = target.MoreFields
		}
		out = append(out, copyUntilConflict(it, src)...)
	}
	return out
}

// copyUntilConflict copies fields from another preset up to, not including,
// the first field that uses a key of the receiving preset's own tags. The
// remaining fields are not copied even if they would not conflict.
func copyUntilConflict(it *Item, src []*Field) []*Field {
	var out []*Field
	for _, f := range src {
		if f.usesKey(it.Tags) {
			break
		}
		out = append(out, f)
	}
	return out
}

// unique drops repeated fields and fields already present in exclude,
// keeping the first occurrence.
func unique(fields, exclude []*Field) []*Field {
	seen := make(map[*Field]bool, len(fields)+len(exclude))
	for _, f := range exclude {
		seen[f] = true
	}
	out := fields[:0:0]
	for _, f := range fields {
		if seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

// Dedup removes overlap between a preset's literal tags and its fields. A
// wildcard tag whose key a field covers is dropped, the field already
// allows any value. A tag with a concrete value removes every field that
// covers its key, the fixed value wins over an editable one, even if the
// field also covers other keys. Running it again changes nothing.
func Dedup(it *Item, l *zap.Logger) {
	for _, f := range it.Fields {
		if len(f.Keys) == 0 {
			l.Warn("field without keys", zap.String("preset", it.Path), zap.String("field", f.Name))
		}
	}
	for _, f := range it.MoreFields {
		if len(f.Keys) == 0 {
			l.Warn("field without keys", zap.String("preset", it.Path), zap.String("field", f.Name))
		}
	}

	tags := it.Tags[:0:0]
	for _, tag := range it.Tags {
		var covered, moreCovered bool
		it.Fields, covered = dropCovering(it.Fields, tag.Key, tag.Value != preset.Wildcard)
		it.MoreFields, moreCovered = dropCovering(it.MoreFields, tag.Key, tag.Value != preset.Wildcard)
		if tag.Value == preset.Wildcard && (covered || moreCovered) {
			continue
		}
		tags = append(tags, tag)
	}
	it.Tags = tags
}

// dropCovering reports whether any field covers key and, when drop is set,
// removes those fields. The input slice is not modified.
func dropCovering(fields []*Field, key string, drop bool) ([]*Field, bool) {
	covered := false
	out := fields[:0:0]
	for _, f := range fields {
		if len(f.Keys) != 0 && f.hasKey(key) {
			covered = true
			if drop {
				continue
			}
		}
		out = append(out, f)
	}
	return out, covered
}
