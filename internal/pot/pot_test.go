package pot

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPreset = `<presets>
<group name="Food and Drink">
<item name="Cafe">
<combo key="cuisine" text="Cuisine" values="a,b" display_values="Coffee,Tea" values_context="cuisine" />
<combo key="seats" text="Seats">
<list_entry value="1" display_value="One" />
</combo>
<text key="name" text="Name" />
<check key="wifi" text="Wifi" text_context="internet" />
</item>
<item name="Bar">
<text key="name" text="Name" />
</item>
</group>
</presets>`

func TestExtract(t *testing.T) {
	c, err := Extract(strings.NewReader(testPreset), "food.xml")
	require.NoError(t, err)

	var buf bytes.Buffer
	created := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	require.NoError(t, c.Write(&buf, created))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "msgid \"\"\nmsgstr \"\"\n"))
	assert.Contains(t, out, `"POT-Creation-Date: 2024-03-01 12:30+0000\n"`)

	assert.Contains(t, out, "#: food.xml:2(group:name|group:Food_and_Drink)\nmsgid \"Food and Drink\"\nmsgstr \"\"\n")
	assert.Contains(t, out, "#: food.xml:12(text:text|group:Food_and_Drink|preset:Bar|key:name) food.xml:8(text:text|group:Food_and_Drink|preset:Cafe|key:name)\nmsgid \"Name\"\n")
	assert.Contains(t, out, "#: food.xml:4(combo:display_values|group:Food_and_Drink|preset:Cafe|key:cuisine)\nmsgctxt \"cuisine\"\nmsgid \"Coffee\"\n")
	assert.Contains(t, out, "msgctxt \"internet\"\nmsgid \"Wifi\"\n")
	assert.Contains(t, out, "#: food.xml:6(list_entry:display_value|group:Food_and_Drink|preset:Cafe|value:1)\nmsgid \"One\"\n")
	assert.True(t, strings.HasSuffix(out, "#: food.xml:0(None)\nmsgid \"translator-credits\"\nmsgstr \"\"\n\n"))

	// the values themselves are not translatable
	assert.NotContains(t, out, `msgid "a"`)
}

func TestExtractOrder(t *testing.T) {
	c, err := Extract(strings.NewReader(testPreset), "food.xml")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, c.Write(&buf, time.Now()))
	out := buf.String()

	// contexts in first seen order, messages sorted inside a context
	assert.Less(t, strings.Index(out, `msgid "Bar"`), strings.Index(out, `msgid "Cafe"`))
	assert.Less(t, strings.Index(out, `msgid "Cafe"`), strings.Index(out, `msgctxt "cuisine"`))
	assert.Less(t, strings.Index(out, `msgid "Coffee"`), strings.Index(out, `msgid "Tea"`))
	assert.Less(t, strings.Index(out, `msgctxt "cuisine"`), strings.Index(out, `msgctxt "internet"`))
}

func TestListEntryTakesComboContext(t *testing.T) {
	doc := `<presets><item name="x">
<combo key="k" values_context="ctx"><list_entry value="v" display_value="Vee" /></combo>
</item></presets>`

	c, err := Extract(strings.NewReader(doc), "x.xml")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, c.Write(&buf, time.Now()))
	assert.Contains(t, buf.String(), "msgctxt \"ctx\"\nmsgid \"Vee\"\n")
	assert.Equal(t, 2, c.Len())
}

func TestQuote(t *testing.T) {
	assert.Equal(t, `"say \"hi\""`, quote(`say "hi"`))
	assert.Equal(t, `"a\\b\n"`, quote("a\\b\n"))
}
