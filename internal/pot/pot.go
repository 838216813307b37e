package pot

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rvkinc/presetutils/internal/preset"
)

// Catalog collects the translatable strings of a preset file, grouped by
// translation context. Contexts keep the order they are first seen in;
// messages and their locations are written sorted.
type Catalog struct {
	filename string
	contexts []string
	messages map[string]map[string]map[string]bool

	// combo is the enclosing combo or multiselect, list entries take their
	// context from it
	combo *xml.StartElement
}

func NewCatalog(filename string) *Catalog {
	return &Catalog{
		filename: filename,
		messages: make(map[string]map[string]map[string]bool),
	}
}

// Extract reads a preset document into a new catalog. filename is only used
// in the location comments.
func Extract(r io.Reader, filename string) (*Catalog, error) {
	c := NewCatalog(filename)
	if err := preset.Walk(r, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) StartElement(s *preset.Scope, e xml.StartElement) {
	switch e.Name.Local {
	case "group":
		c.add(s, e, "", "name")
	case "item":
		c.add(s, e, "", "name")
		c.add(s, e, "", "name_template")
		c.combo = nil
	case "chunk":
		c.combo = nil
	case "label", "optional", "checkgroup":
		c.add(s, e, "", "text")
	case "key":
		c.add(s, e, "key", "text")
		c.add(s, e, "key", "long_text")
		c.combo = nil
	case "text", "check":
		c.add(s, e, "key", "text")
		c.add(s, e, "key", "long_text")
		c.add(s, e, "", "value_template")
		c.combo = nil
	case "role":
		c.add(s, e, "key", "text")
		c.add(s, e, "key", "long_text")
	case "combo", "multiselect":
		c.add(s, e, "key", "text")
		c.add(s, e, "key", "long_text")
		c.addList(s, e, "display_values")
		c.addList(s, e, "short_descriptions")
		combo := e.Copy()
		c.combo = &combo
	case "list_entry":
		c.add(s, e, "value", "short_description")
		c.add(s, e, "value", "display_value")
	}
}

func (c *Catalog) EndElement(*preset.Scope, xml.EndElement) {}

func (c *Catalog) context(e xml.StartElement) string {
	if e.Name.Local == "list_entry" && c.combo != nil {
		return preset.AttrValue(*c.combo, "values_context")
	}
	for _, name := range []string{"text_context", "name_context", "values_context"} {
		if v, ok := preset.LookupAttr(e, name); ok {
			return v
		}
	}
	return ""
}

func (c *Catalog) add(s *preset.Scope, e xml.StartElement, keyAttr, attr string) {
	value := preset.AttrValue(e, attr)
	if value == "" {
		return
	}
	c.put(c.context(e), value, c.location(s, e, keyAttr, attr))
}

func (c *Catalog) addList(s *preset.Scope, e xml.StartElement, attr string) {
	list, ok := preset.LookupAttr(e, attr)
	if !ok {
		return
	}
	ctx := preset.AttrValue(e, "values_context")
	loc := c.location(s, e, "key", attr)
	for _, v := range strings.Split(list, preset.Delimiter(e)) {
		if v != "" {
			c.put(ctx, v, loc)
		}
	}
}

func (c *Catalog) location(s *preset.Scope, e xml.StartElement, keyAttr, attr string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s:%d(%s:%s", c.filename, s.Line, e.Name.Local, attr)
	if n := len(s.Groups); n > 0 {
		b.WriteString("|group:" + strings.ReplaceAll(s.Groups[n-1], " ", "_"))
	}
	if s.Item != "" {
		b.WriteString("|preset:" + strings.ReplaceAll(s.Item, " ", "_"))
	}
	if keyAttr != "" {
		if key, ok := preset.LookupAttr(e, keyAttr); ok {
			b.WriteString("|" + keyAttr + ":" + key)
		}
	}
	b.WriteString(")")
	return b.String()
}

func (c *Catalog) put(ctx, msgid, loc string) {
	ids, ok := c.messages[ctx]
	if !ok {
		ids = make(map[string]map[string]bool)
		c.messages[ctx] = ids
		c.contexts = append(c.contexts, ctx)
	}
	if ids[msgid] == nil {
		ids[msgid] = make(map[string]bool)
	}
	ids[msgid][loc] = true
}

// Len is the number of distinct (context, message) pairs.
func (c *Catalog) Len() int {
	n := 0
	for _, ids := range c.messages {
		n += len(ids)
	}
	return n
}

// Write writes the catalog as a gettext template. created is written as
// the POT creation date.
func (c *Catalog) Write(w io.Writer, created time.Time) error {
	bw := bufio.NewWriter(w)

	fmt.Fprint(bw, "msgid \"\"\nmsgstr \"\"\n")
	fmt.Fprint(bw, "\"Project-Id-Version: PACKAGE VERSION\\n\"\n")
	fmt.Fprintf(bw, "\"POT-Creation-Date: %s\\n\"\n", created.Format("2006-01-02 15:04-0700"))
	fmt.Fprint(bw, "\"PO-Revision-Date: YEAR-MO-DA HO:MI+ZONE\\n\"\n")
	fmt.Fprint(bw, "\"Last-Translator: FULL NAME <EMAIL@ADDRESS>\\n\"\n")
	fmt.Fprint(bw, "\"Language-Team: LANGUAGE <LL@li.org>\\n\"\n")
	fmt.Fprint(bw, "\"MIME-Version: 1.0\\n\"\n")
	fmt.Fprint(bw, "\"Content-Type: text/plain; charset=UTF-8\\n\"\n")
	fmt.Fprint(bw, "\"Content-Transfer-Encoding: 8bit\\n\"\n\n")

	for _, ctx := range c.contexts {
		ids := c.messages[ctx]
		for _, id := range sortedKeys(ids) {
			fmt.Fprintf(bw, "#: %s\n", strings.Join(sortedKeys(ids[id]), " "))
			if ctx != "" {
				fmt.Fprintf(bw, "msgctxt %s\n", quote(ctx))
			}
			fmt.Fprintf(bw, "msgid %s\nmsgstr \"\"\n\n", quote(id))
		}
	}

	fmt.Fprint(bw, "#. Put one translator per line, in the form of NAME <EMAIL>, YEAR1, YEAR2\n")
	fmt.Fprintf(bw, "#: %s:0(None)\n", c.filename)
	fmt.Fprint(bw, "msgid \"translator-credits\"\nmsgstr \"\"\n\n")

	return errors.Wrap(bw.Flush(), "write pot")
}

func quote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)
	return `"` + r.Replace(s) + `"`
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
