package preset

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	starts []string
}

func (r *recorder) StartElement(s *Scope, e xml.StartElement) {
	r.starts = append(r.starts, e.Name.Local+"@"+s.GroupPath()+s.Owner())
}

func (r *recorder) EndElement(*Scope, xml.EndElement) {}

func TestWalkScope(t *testing.T) {
	doc := `<presets>
<chunk id="name"><text key="name" /></chunk>
<group name="Food">
<group name="Fast">
<item name="Burger"><reference ref="name" /></item>
</group>
<item name="Cafe" />
</group>
<item name="Top" />
</presets>`

	rec := &recorder{}
	require.NoError(t, Walk(strings.NewReader(doc), rec))

	assert.Equal(t, []string{
		"presets@",
		"chunk@name",
		"text@name",
		"group@Food|",
		"group@Food|Fast|",
		"item@Food|Fast|Burger",
		"reference@Food|Fast|Burger",
		"item@Food|Cafe",
		"item@Top",
	}, rec.starts)
}

type lineRecorder struct {
	lines map[string]int
}

func (r *lineRecorder) StartElement(s *Scope, e xml.StartElement) {
	r.lines[AttrValue(e, "key")] = s.Line
}

func (r *lineRecorder) EndElement(*Scope, xml.EndElement) {}

func TestWalkLines(t *testing.T) {
	doc := "<presets>\n<item name=\"x\">\n<text key=\"a\" />\n\n<check\n key=\"b\" />\n</item>\n</presets>"

	rec := &lineRecorder{lines: make(map[string]int)}
	require.NoError(t, Walk(strings.NewReader(doc), rec))

	assert.Equal(t, 3, rec.lines["a"])
	assert.Equal(t, 6, rec.lines["b"])
}

func TestWalkMalformed(t *testing.T) {
	err := Walk(strings.NewReader(`<presets><item></presets>`), &recorder{})
	assert.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{""}, SplitList("", ","))
	assert.Equal(t, []string{"a", "b"}, SplitList("a,b,,", ","))
	assert.Empty(t, SplitList(",", ","))
	assert.Equal(t, []string{"a", "", "b"}, SplitList("a,,b", ","))
}

func TestDelimiter(t *testing.T) {
	combo := xml.StartElement{Name: xml.Name{Local: "combo"}}
	multi := xml.StartElement{Name: xml.Name{Local: "multiselect"}}
	custom := xml.StartElement{Name: xml.Name{Local: "combo"}, Attr: []xml.Attr{{Name: xml.Name{Local: "delimiter"}, Value: "|"}}}

	assert.Equal(t, ",", Delimiter(combo))
	assert.Equal(t, ";", Delimiter(multi))
	assert.Equal(t, "|", Delimiter(custom))
}
