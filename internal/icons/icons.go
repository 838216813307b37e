package icons

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"

	"github.com/pkg/errors"
	"github.com/rvkinc/presetutils/internal/preset"
	"go.uber.org/zap"
)

var (
	vespucciNumbered = regexp.MustCompile(`^\$\{ICONPATH\}(.+)(_[0-9]+)\.\$\{ICONTYPE\}$`)
	vespucci         = regexp.MustCompile(`^\$\{ICONPATH\}(.+)\.\$\{ICONTYPE\}$`)
	josm             = regexp.MustCompile(`^(.*/)(.+)\.(.+)$`)
)

// Name is the bare icon name of an icon reference: the file name without
// directory, size suffix and extension. "" when the reference has no
// recognised form.
func Name(icon string) string {
	if m := vespucciNumbered.FindStringSubmatch(icon); m != nil {
		return m[1]
	}
	if m := vespucci.FindStringSubmatch(icon); m != nil {
		return m[1]
	}
	if m := josm.FindStringSubmatch(icon); m != nil {
		return m[2]
	}
	return ""
}

// elements that carry no icon
var plainElements = map[string]bool{
	"presets": true, "chunk": true, "separator": true, "label": true,
	"optional": true, "preset_link": true, "role": true, "key": true,
	"text": true, "reference": true, "combo": true, "multiselect": true,
}

type lister struct {
	out  *bufio.Writer
	mapw *bufio.Writer
	l    *zap.Logger

	// key of the enclosing combo or multiselect
	key   string
	count int
}

// List writes one line per icon use in a preset document to w:
//
//	path<TAB>name<TAB>icon
//
// path is the group path followed by the item or chunk, and for check and
// list entries the key and value. Groups and items are listed even without
// an icon. When mapw is not nil a name=icon line is written there for every
// recognised icon.
func List(r io.Reader, w, mapw io.Writer, l *zap.Logger) (int, error) {
	li := &lister{out: bufio.NewWriter(w), l: l}
	if mapw != nil {
		li.mapw = bufio.NewWriter(mapw)
	}

	if err := preset.Walk(r, li); err != nil {
		return li.count, err
	}
	if err := li.out.Flush(); err != nil {
		return li.count, errors.Wrap(err, "write icons")
	}
	if li.mapw != nil {
		if err := li.mapw.Flush(); err != nil {
			return li.count, errors.Wrap(err, "write icon map")
		}
	}
	return li.count, nil
}

func (li *lister) StartElement(s *preset.Scope, e xml.StartElement) {
	switch e.Name.Local {
	case "group":
		li.entry(s.GroupPath(), preset.AttrValue(e, "icon"))
	case "item":
		li.entry(s.GroupPath()+s.Item, preset.AttrValue(e, "icon"))
	case "combo", "multiselect":
		li.key = preset.AttrValue(e, "key")
	case "check", "list_entry":
		icon := preset.AttrValue(e, "icon")
		if icon == "" {
			return
		}
		path := s.GroupPath() + s.Owner() + "|"
		if e.Name.Local == "list_entry" {
			path += li.key + "|" + preset.AttrValue(e, "value")
		} else {
			path += preset.AttrValue(e, "key")
		}
		li.entry(path, icon)
	default:
		if !plainElements[e.Name.Local] {
			li.l.Info("unknown element", zap.String("element", e.Name.Local), zap.Int("line", s.Line))
		}
	}
}

func (li *lister) EndElement(_ *preset.Scope, e xml.EndElement) {
	switch e.Name.Local {
	case "combo", "multiselect":
		li.key = ""
	}
}

func (li *lister) entry(path, icon string) {
	name := Name(icon)
	fmt.Fprintf(li.out, "%s\t%s\t%s\n", path, name, icon)
	if li.mapw != nil && name != "" {
		fmt.Fprintf(li.mapw, "%s=%s\n", name, icon)
	}
	li.count++
}
