package id

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/rvkinc/presetutils/internal/preset"
	"github.com/rvkinc/presetutils/internal/taginfo"
	"go.uber.org/zap"
)

// Emitter writes resolved presets as one JOSM/Vespucci preset document.
type Emitter struct {
	config   *Config
	defs     *Definitions
	enricher *Enricher
	l        *zap.Logger

	// chunks holds the fields declared as chunks, chunk mode only
	chunks map[*Field]bool
}

func NewEmitter(c *Config, defs *Definitions, enricher *Enricher, l *zap.Logger) *Emitter {
	return &Emitter{
		config:   c,
		defs:     defs,
		enricher: enricher,
		l:        l,
		chunks:   make(map[*Field]bool),
	}
}

// Emit writes the document. Items that fail to render are logged and left
// out; statistics lookup failures and write errors abort the run.
func (e *Emitter) Emit(ctx context.Context, w io.Writer) error {
	x := preset.NewWriter(w)
	x.Header()
	x.Open("presets", e.rootAttrs()...)

	if e.config.Chunk {
		for _, f := range e.defs.Fields.All() {
			children, err := e.safely(f.Name, func() ([]preset.Element, error) {
				return e.widgets(ctx, f, "")
			})
			if err != nil {
				return err
			}
			if len(children) == 0 {
				continue
			}
			e.chunks[f] = true
			x.Element(preset.Element{Name: "chunk", Children: children}.Attr("id", f.Name))
		}
	}

	written := 0
	for _, it := range e.defs.Presets.All() {
		it := it
		els, err := e.safely(it.Path, func() ([]preset.Element, error) {
			el, err := e.item(ctx, it)
			if err != nil {
				return nil, err
			}
			return []preset.Element{el}, nil
		})
		if err != nil {
			return err
		}
		for _, el := range els {
			x.Element(el)
			written++
		}
	}

	x.Close("presets")
	if err := x.Flush(); err != nil {
		return errors.Wrap(err, "write presets")
	}

	e.l.Info("wrote presets", zap.Int("items", written), zap.Int("chunks", len(e.chunks)))
	return nil
}

func (e *Emitter) rootAttrs() []preset.Attr {
	attrs := []preset.Attr{{Name: "xmlns", Value: preset.Namespace}}
	add := func(name, value string) {
		if value != "" {
			attrs = append(attrs, preset.Attr{Name: name, Value: value})
		}
	}
	add("author", e.config.Author)
	add("shortdescription", e.config.ShortDescription)
	add("description", e.config.Description)
	add("version", e.config.Version)
	return attrs
}

// safely builds the elements of one item or chunk. A statistics failure is
// returned and ends the run; any other error or panic only drops the
// element, so one bad definition does not cost the rest of the document.
func (e *Emitter) safely(name string, build func() ([]preset.Element, error)) (els []preset.Element, err error) {
	defer func() {
		if r := recover(); r != nil {
			e.l.Error("panic while rendering", zap.String("id", name), zap.Any("recovered", r))
			els, err = nil, nil
		}
	}()

	els, err = build()
	if err == nil {
		return els, nil
	}

	var te *taginfo.Error
	if errors.As(err, &te) {
		return nil, errors.Wrapf(err, "render %s", name)
	}
	e.l.Error("skip element", zap.String("id", name), zap.Error(err))
	return nil, nil
}

func (e *Emitter) item(ctx context.Context, it *Item) (preset.Element, error) {
	el := preset.Element{Name: "item"}.Attr("name", it.Name)
	if it.Icon != "" {
		el = el.Attr("icon", it.Icon)
	}
	if types := preset.PresetTypes(it.Geometry); len(types) > 0 {
		el = el.Attr("type", strings.Join(types, ","))
	}
	if !it.Searchable {
		el = el.Attr("deprecated", "true")
	}
	el = el.Attr("preset_name_label", "true")

	if it.Reference != nil {
		el.Children = append(el.Children, preset.Element{Name: "link"}.Attr("wiki", it.Reference.Page()))
	}
	el.Children = append(el.Children, tagElements(it)...)

	filter := preset.Filter(it.Geometry)
	fields, err := e.fieldElements(ctx, it.Fields, filter)
	if err != nil {
		return el, err
	}
	el.Children = append(el.Children, fields...)

	more, err := e.fieldElements(ctx, it.MoreFields, filter)
	if err != nil {
		return el, err
	}
	if len(more) > 0 {
		el.Children = append(el.Children, preset.Element{Name: "optional", Children: more})
	}

	return el, nil
}

// tagElements renders the literal tags merged with the addTags that are not
// already set, object keys first. Keys only coming from addTags do not take
// part in matching. Tags without a concrete value become text inputs.
func tagElements(it *Item) []preset.Element {
	tags := append(preset.Tags{}, it.Tags...)
	added := make(map[string]bool)
	for _, t := range it.AddTags {
		if !preset.HasKey(tags, t.Key) {
			tags = append(tags, t)
			added[t.Key] = true
		}
	}

	var out []preset.Element
	for _, t := range preset.PromoteObjectTags(tags) {
		el, ok := tagElement(t)
		if !ok {
			continue
		}
		if el.Name == "key" && added[t.Key] {
			el = el.Attr("match", "none")
		}
		out = append(out, el)
	}
	return out
}

func tagElement(t preset.Tag) (preset.Element, bool) {
	if t.Key == "" || strings.Contains(t.Key, preset.Wildcard) {
		return preset.Element{}, false
	}
	if t.Value == "" || strings.Contains(t.Value, preset.Wildcard) {
		return preset.Element{Name: "text"}.Attr("key", t.Key), true
	}
	return preset.Element{Name: "key"}.Attr("key", t.Key).Attr("value", t.Value), true
}

func (e *Emitter) fieldElements(ctx context.Context, fields []*Field, filter string) ([]preset.Element, error) {
	var out []preset.Element
	for _, f := range fields {
		if e.config.Chunk {
			if e.chunks[f] {
				out = append(out, preset.Element{Name: "reference"}.Attr("ref", f.Name))
			}
			continue
		}
		els, err := e.widgets(ctx, f, filter)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.Name, err)
		}
		out = append(out, els...)
	}
	return out, nil
}
