package preset

import (
	"bufio"
	"encoding/xml"
	"io"
	"strings"
)

// Namespace of the JOSM tagging preset schema, also read by Vespucci.
const Namespace = "http://josm.openstreetmap.de/tagging-preset-1.0"

const indentUnit = "    "

type Attr struct {
	Name  string
	Value string
}

// Element is one preset XML element. Elements without children are written
// self-closing. A non-empty Comment is written on its own line before the
// element.
type Element struct {
	Name     string
	Attrs    []Attr
	Children []Element
	Comment  string
}

// Attr returns a copy of the element with one more attribute.
func (e Element) Attr(name, value string) Element {
	attrs := make([]Attr, len(e.Attrs), len(e.Attrs)+1)
	copy(attrs, e.Attrs)
	e.Attrs = append(attrs, Attr{Name: name, Value: value})
	return e
}

// Writer writes preset XML incrementally. The first write error is kept and
// returned by Flush; later writes are no-ops.
type Writer struct {
	w     *bufio.Writer
	depth int
	err   error
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

func (x *Writer) Header() {
	x.raw(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
}

// Open writes a start tag and indents following output one level deeper.
func (x *Writer) Open(name string, attrs ...Attr) {
	x.indent()
	x.startTag(name, attrs)
	x.raw(">\n")
	x.depth++
}

func (x *Writer) Close(name string) {
	x.depth--
	x.indent()
	x.raw("</" + name + ">\n")
}

func (x *Writer) Comment(text string) {
	x.indent()
	x.raw("<!-- " + strings.ReplaceAll(text, "--", "- -") + " -->\n")
}

func (x *Writer) Element(e Element) {
	if e.Comment != "" {
		x.Comment(e.Comment)
	}
	if len(e.Children) == 0 {
		x.indent()
		x.startTag(e.Name, e.Attrs)
		x.raw(" />\n")
		return
	}
	x.Open(e.Name, e.Attrs...)
	for _, c := range e.Children {
		x.Element(c)
	}
	x.Close(e.Name)
}

func (x *Writer) Flush() error {
	if x.err != nil {
		return x.err
	}
	return x.w.Flush()
}

func (x *Writer) startTag(name string, attrs []Attr) {
	x.raw("<" + name)
	for _, a := range attrs {
		x.raw(" " + a.Name + `="`)
		if x.err == nil {
			x.err = xml.EscapeText(x.w, []byte(a.Value))
		}
		x.raw(`"`)
	}
}

func (x *Writer) indent() {
	x.raw(strings.Repeat(indentUnit, x.depth))
}

func (x *Writer) raw(s string) {
	if x.err != nil {
		return
	}
	_, x.err = x.w.WriteString(s)
}
