package preset

import (
	"encoding/xml"
	"io"
	"strings"

	"github.com/pkg/errors"
)

// Scope is the position of the walk inside a preset document.
type Scope struct {
	// Line of the end of the current tag.
	Line   int
	Groups []string
	Item   string
	Chunk  string
}

// Owner is the enclosing item name, or the enclosing chunk id outside items.
func (s *Scope) Owner() string {
	if s.Item != "" {
		return s.Item
	}
	return s.Chunk
}

// GroupPath joins the enclosing group names outermost first, each followed
// by "|".
func (s *Scope) GroupPath() string {
	var b strings.Builder
	for _, g := range s.Groups {
		b.WriteString(g)
		b.WriteString("|")
	}
	return b.String()
}

// Handler receives the elements of a preset document in document order.
// On StartElement the scope already includes the element itself; on
// EndElement it still does.
type Handler interface {
	StartElement(s *Scope, e xml.StartElement)
	EndElement(s *Scope, e xml.EndElement)
}

// Walk reads a preset document in one forward pass. It fails only on input
// that is not well formed XML.
func Walk(r io.Reader, h Handler) error {
	dec := xml.NewDecoder(r)
	s := &Scope{}

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "parse preset")
		}
		s.Line, _ = dec.InputPos()

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "group":
				s.Groups = append(s.Groups, AttrValue(t, "name"))
			case "item":
				s.Item = AttrValue(t, "name")
			case "chunk":
				s.Chunk = AttrValue(t, "id")
			}
			h.StartElement(s, t)
		case xml.EndElement:
			h.EndElement(s, t)
			switch t.Name.Local {
			case "group":
				if len(s.Groups) > 0 {
					s.Groups = s.Groups[:len(s.Groups)-1]
				}
			case "item":
				s.Item = ""
			case "chunk":
				s.Chunk = ""
			}
		}
	}
}

// LookupAttr returns the value of the named attribute and whether it is set.
func LookupAttr(e xml.StartElement, name string) (string, bool) {
	for _, a := range e.Attr {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func AttrValue(e xml.StartElement, name string) string {
	v, _ := LookupAttr(e, name)
	return v
}

// Delimiter is the list delimiter of a combo or multiselect element.
func Delimiter(e xml.StartElement) string {
	if d := AttrValue(e, "delimiter"); d != "" {
		return d
	}
	if e.Name.Local == "multiselect" {
		return ";"
	}
	return ","
}

// SplitList splits a delimited attribute value the way preset consumers do:
// trailing empty entries are dropped, but an empty value is one entry.
func SplitList(list, delimiter string) []string {
	if list == "" {
		return []string{""}
	}
	parts := strings.Split(list, delimiter)
	for len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}
