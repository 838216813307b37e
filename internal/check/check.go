package check

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/rvkinc/presetutils/internal/preset"
	"go.uber.org/zap"
)

type Level int

const (
	Info Level = iota
	Error
)

func (l Level) String() string {
	if l == Error {
		return "error"
	}
	return "info"
}

// Finding is one problem found in a preset file. Owner is the name of the
// enclosing item or the id of the enclosing chunk, if any.
type Finding struct {
	Line    int
	Level   Level
	Owner   string
	Key     string
	Message string
}

func (f Finding) String() string {
	s := fmt.Sprintf("line %d: %s", f.Line, f.Message)
	if f.Owner != "" {
		s += fmt.Sprintf(" for %q", f.Owner)
	}
	if f.Key != "" {
		s += " key " + f.Key
	}
	return s
}

type Report struct {
	Findings []Finding
}

// HasErrors reports whether any error level finding was made.
func (r *Report) HasErrors() bool {
	for _, f := range r.Findings {
		if f.Level == Error {
			return true
		}
	}
	return false
}

// value types for which a combo is not expected to carry display values
var noDisplayValues = map[string]bool{
	"opening_hours":        true,
	"dimension_horizontal": true,
	"dimension_vertical":   true,
	"integer":              true,
}

// elements of the preset schema that need no checking
var plainElements = map[string]bool{
	"presets": true, "group": true, "item": true, "chunk": true,
	"separator": true, "label": true, "optional": true, "preset_link": true,
	"role": true, "roles": true, "key": true, "text": true,
	"checkgroup": true, "link": true, "space": true, "check": true,
	"list_entry": true,
}

type checker struct {
	l      *zap.Logger
	report *Report
	chunks map[string]bool
}

// Check reads a preset file in a single pass and reports the problems the
// schema cannot express: chunks referenced before they are defined and combo
// or multiselect fields whose display_values do not line up with values.
// Findings are logged as they are made. The error is only set when the
// input is not well formed XML.
func Check(r io.Reader, l *zap.Logger) (*Report, error) {
	c := &checker{
		l:      l,
		report: &Report{},
		chunks: make(map[string]bool),
	}

	err := preset.Walk(r, c)
	return c.report, err
}

func (c *checker) StartElement(s *preset.Scope, e xml.StartElement) {
	switch e.Name.Local {
	case "chunk":
		c.chunks[s.Chunk] = true
	case "reference":
		ref := preset.AttrValue(e, "ref")
		if !c.chunks[ref] {
			c.add(s, Error, "", fmt.Sprintf("chunk %q referenced before defined", ref))
		}
	case "combo", "multiselect":
		c.values(s, e)
	default:
		if !plainElements[e.Name.Local] {
			c.add(s, Info, "", fmt.Sprintf("unknown element %q", e.Name.Local))
		}
	}
}

func (c *checker) EndElement(*preset.Scope, xml.EndElement) {}

func (c *checker) values(s *preset.Scope, e xml.StartElement) {
	key := preset.AttrValue(e, "key")
	delimiter := preset.Delimiter(e)

	values, ok := preset.LookupAttr(e, "values")
	if !ok {
		return
	}
	displayValues, ok := preset.LookupAttr(e, "display_values")
	if !ok {
		if !noDisplayValues[preset.AttrValue(e, "value_type")] {
			c.add(s, Info, key, "missing display_values")
		}
		return
	}

	n := len(preset.SplitList(values, delimiter))
	if n == 0 || n != len(preset.SplitList(displayValues, delimiter)) {
		c.add(s, Error, key, "inconsistent display_values")
	}
}

func (c *checker) add(s *preset.Scope, level Level, key, msg string) {
	f := Finding{Line: s.Line, Level: level, Owner: s.Owner(), Key: key, Message: msg}
	c.report.Findings = append(c.report.Findings, f)

	fields := []zap.Field{zap.Int("line", f.Line), zap.String("owner", f.Owner)}
	if key != "" {
		fields = append(fields, zap.String("key", key))
	}
	if level == Error {
		c.l.Error(msg, fields...)
		return
	}
	c.l.Info(msg, fields...)
}
