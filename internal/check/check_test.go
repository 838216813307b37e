package check

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rvkinc/presetutils/internal/id"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCheckReferenceBeforeChunk(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<presets xmlns="http://josm.openstreetmap.de/tagging-preset-1.0">
    <item name="Cafe">
        <reference ref="name" />
    </item>
    <chunk id="name">
        <text key="name" />
    </chunk>
    <item name="Bar">
        <reference ref="name" />
    </item>
</presets>
`
	r, err := Check(strings.NewReader(doc), zap.NewNop())
	require.NoError(t, err)

	require.Len(t, r.Findings, 1)
	f := r.Findings[0]
	assert.Equal(t, Error, f.Level)
	assert.Equal(t, 4, f.Line)
	assert.Equal(t, "Cafe", f.Owner)
	assert.True(t, r.HasErrors())
}

func TestCheckDisplayValues(t *testing.T) {
	doc := `<presets>
<chunk id="cuisine">
<combo key="cuisine" values="a,b" display_values="A,B" />
<combo key="diet" values="a,b,c" display_values="A,B" />
</chunk>
<item name="Shop">
<multiselect key="sport" values="a;b" display_values="A;B" />
<multiselect key="payment" values="a|b" display_values="A" delimiter="|" />
<combo key="opening_hours" values="24/7" value_type="opening_hours" />
<combo key="smoking" values="yes,no" />
<combo key="fee" values="" display_values="" />
<combo key="access" values="," display_values="Yes" />
</item>
</presets>`

	r, err := Check(strings.NewReader(doc), zap.NewNop())
	require.NoError(t, err)

	require.Len(t, r.Findings, 4)

	assert.Equal(t, Finding{Line: 4, Level: Error, Owner: "cuisine", Key: "diet", Message: "inconsistent display_values"}, r.Findings[0])
	assert.Equal(t, Finding{Line: 8, Level: Error, Owner: "Shop", Key: "payment", Message: "inconsistent display_values"}, r.Findings[1])
	assert.Equal(t, Finding{Line: 10, Level: Info, Owner: "Shop", Key: "smoking", Message: "missing display_values"}, r.Findings[2])
	// an empty list still counts as one entry, a list of only delimiters as none
	assert.Equal(t, Finding{Line: 12, Level: Error, Owner: "Shop", Key: "access", Message: "inconsistent display_values"}, r.Findings[3])
}

func TestCheckEmptyValues(t *testing.T) {
	doc := `<presets><item name="Toll"><combo key="fee" values="" display_values="" /></item></presets>`

	r, err := Check(strings.NewReader(doc), zap.NewNop())
	require.NoError(t, err)
	assert.Empty(t, r.Findings)
	assert.False(t, r.HasErrors())
}

func TestCheckUnknownElement(t *testing.T) {
	doc := `<presets><item name="X"><slider key="width" /></item></presets>`

	r, err := Check(strings.NewReader(doc), zap.NewNop())
	require.NoError(t, err)

	require.Len(t, r.Findings, 1)
	assert.Equal(t, Info, r.Findings[0].Level)
	assert.Contains(t, r.Findings[0].String(), `unknown element "slider"`)
	assert.False(t, r.HasErrors())
}

func TestCheckMalformed(t *testing.T) {
	_, err := Check(strings.NewReader(`<presets><item></presets>`), zap.NewNop())
	assert.Error(t, err)
}

func TestConvertedChunksPass(t *testing.T) {
	fields := `{
      "name": {"key": "name", "type": "localized", "label": "Name"},
      "cuisine": {"key": "cuisine", "type": "semiCombo", "options": ["pizza", "sushi"]},
      "diet": {"key": "diet:", "type": "multiCombo", "options": ["vegan"]},
      "opening_hours": {"key": "opening_hours", "type": "text"}
    }`
	presets := `{
      "amenity/restaurant": {"tags": {"amenity": "restaurant"}, "geometry": ["point", "area"],
        "fields": ["name", "cuisine"], "moreFields": ["diet", "opening_hours"]}
    }`

	l := zap.NewNop()
	tr := id.NewTranslations()
	ft, err := id.LoadFields([]byte(fields), tr, l)
	require.NoError(t, err)
	pt, err := id.LoadPresets([]byte(presets), tr, l)
	require.NoError(t, err)
	id.NewResolver(pt, ft, l).Resolve()

	var buf bytes.Buffer
	defs := &id.Definitions{Translations: tr, Fields: ft, Presets: pt}
	err = id.NewEmitter(&id.Config{Chunk: true}, defs, id.NewEnricher(nil, false, l), l).Emit(context.Background(), &buf)
	require.NoError(t, err)

	r, err := Check(&buf, l)
	require.NoError(t, err)
	assert.Empty(t, r.Findings)
}
