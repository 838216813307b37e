package id

import (
	"testing"

	"github.com/rvkinc/presetutils/internal/preset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const testTranslations = `{
  "en": {
    "presets": {
      "presets": {
        "amenity/restaurant": {"name": "Restaurant (localized)"}
      },
      "fields": {
        "cuisine": {
          "label": "Cuisine (localized)",
          "options": {"italian": "Italian food", "french": {"title": "French food"}}
        }
      }
    }
  }
}`

func TestLoadTranslations(t *testing.T) {
	tr, err := LoadTranslations([]byte(testTranslations))
	require.NoError(t, err)

	assert.Equal(t, "en", tr.Locale)
	assert.Equal(t, "Restaurant (localized)", tr.PresetName("amenity/restaurant"))
	assert.Equal(t, "Cuisine (localized)", tr.FieldLabel("cuisine"))
	assert.Equal(t, "Italian food", tr.OptionLabel("cuisine", "italian"))
	assert.Equal(t, "French food", tr.OptionLabel("cuisine", "french"))
	assert.Equal(t, "", tr.OptionLabel("cuisine", "thai"))
	assert.Equal(t, "", tr.PresetName("shop"))

	_, err = LoadTranslations([]byte(`{"en":`))
	assert.Error(t, err)
}

func TestLoadFieldsFlatAndWrapped(t *testing.T) {
	flat := `{"name": {"key": "name", "type": "localized", "label": "Name"}}`
	wrapped := `{"fields": ` + flat + `}`

	for _, doc := range []string{flat, wrapped} {
		fields, err := LoadFields([]byte(doc), NewTranslations(), zap.NewNop())
		require.NoError(t, err)
		require.Equal(t, 1, fields.Len())

		f := fields.Get("name")
		require.NotNil(t, f)
		assert.Equal(t, preset.Localized, f.Type)
		assert.Equal(t, []string{"name"}, f.Keys)
		assert.Equal(t, "Name", f.Label)
	}
}

func TestLoadFieldsOptions(t *testing.T) {
	doc := `{
      "cuisine": {
        "key": "cuisine",
        "type": "semiCombo",
        "options": ["italian", "french", "thai"],
        "strings": {"options": {"italian": "Italian", "thai": "Thai"}}
      },
      "smoking": {
        "key": "smoking",
        "type": "combo",
        "strings": {"options": {"no": "No", "yes": "Yes"}}
      }
    }`
	tr, err := LoadTranslations([]byte(testTranslations))
	require.NoError(t, err)

	fields, err := LoadFields([]byte(doc), tr, zap.NewNop())
	require.NoError(t, err)

	cuisine := fields.Get("cuisine")
	assert.Equal(t, "Cuisine (localized)", cuisine.Label)
	assert.Equal(t, []preset.ValueAndDescription{
		{Value: "italian", Description: "Italian food"},
		{Value: "french", Description: "French food"},
		{Value: "thai", Description: "Thai"},
	}, cuisine.Options)

	smoking := fields.Get("smoking")
	assert.Equal(t, []preset.ValueAndDescription{
		{Value: "no", Description: "No"},
		{Value: "yes", Description: "Yes"},
	}, smoking.Options)
}

func TestLoadFieldsKeysAndCrossReference(t *testing.T) {
	doc := `{
      "address": {"type": "address", "keys": ["addr:street", "addr:housenumber", "addr:street"]},
      "building_area": {"key": "building", "type": "combo", "stringsCrossReference": "{building}"},
      "building": {"key": "building", "type": "combo", "label": "Building", "options": ["yes", "house"]},
      "future": {"key": "future", "type": "schedule"}
    }`
	core, logs := observer.New(zapcore.WarnLevel)
	fields, err := LoadFields([]byte(doc), NewTranslations(), zap.New(core))
	require.NoError(t, err)

	assert.Equal(t, 3, fields.Len())
	assert.Nil(t, fields.Get("future"))
	assert.Equal(t, 1, logs.FilterMessage("skip field").Len())

	assert.Equal(t, []string{"addr:street", "addr:housenumber"}, fields.Get("address").Keys)

	ba := fields.Get("building_area")
	assert.Equal(t, "Building", ba.Label)
	require.Len(t, ba.Options, 2)
	assert.Equal(t, "house", ba.Options[1].Value)

	names := make([]string, 0, fields.Len())
	for _, f := range fields.All() {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"address", "building_area", "building"}, names)
}

func TestLoadPresets(t *testing.T) {
	doc := `{
      "amenity/restaurant": {
        "name": "Restaurant",
        "icon": "maki-restaurant",
        "geometry": ["point", "area"],
        "tags": {"amenity": "restaurant"},
        "addTags": {"amenity": "restaurant", "cuisine": "*"},
        "fields": ["name", "cuisine"],
        "moreFields": ["{amenity}"],
        "reference": {"key": "amenity", "value": "restaurant"}
      },
      "amenity/cafe": {"tags": {"amenity": "cafe"}, "searchable": false, "geometry": ["point", "blob"]},
      "amenity/restaurant/mcdonalds": {"tags": {"amenity": "restaurant", "brand:wikidata": "Q38076"}},
      "shop/named": {"tags": {"shop": "bakery", "name": "Bakery Bob"}}
    }`
	tr, err := LoadTranslations([]byte(testTranslations))
	require.NoError(t, err)

	presets, err := LoadPresets([]byte(doc), tr, zap.NewNop())
	require.NoError(t, err)
	require.Equal(t, 2, presets.Len())
	assert.Nil(t, presets.Get("amenity/restaurant/mcdonalds"))
	assert.Nil(t, presets.Get("shop/named"))

	r := presets.Get("amenity/restaurant")
	require.NotNil(t, r)
	assert.Equal(t, "Restaurant (localized)", r.Name)
	assert.Equal(t, "maki-restaurant", r.Icon)
	assert.True(t, r.Searchable)
	assert.Equal(t, []preset.Geometry{preset.Point, preset.Area}, r.Geometry)
	assert.Equal(t, preset.Tags{{Key: "amenity", Value: "restaurant"}}, r.Tags)
	assert.Equal(t, "*", r.AddTags.Find("cuisine"))
	assert.Equal(t, []string{"name", "cuisine"}, r.FieldNames)
	assert.Equal(t, []string{"{amenity}"}, r.MoreFieldNames)
	require.NotNil(t, r.Reference)
	assert.Equal(t, "Tag:amenity=restaurant", r.Reference.Page())

	c := presets.Get("amenity/cafe")
	require.NotNil(t, c)
	assert.Equal(t, "amenity/cafe", c.Name)
	assert.False(t, c.Searchable)
	assert.Equal(t, []preset.Geometry{preset.Point}, c.Geometry)
}

func TestLoadPresetsDuplicatePathKeepsFirst(t *testing.T) {
	doc := `{"presets": {
      "shop": {"name": "Shop", "tags": {"shop": "*"}},
      "shop": {"name": "Other shop", "tags": {"shop": "yes"}}
    }}`
	core, logs := observer.New(zapcore.ErrorLevel)
	presets, err := LoadPresets([]byte(doc), NewTranslations(), zap.New(core))
	require.NoError(t, err)

	require.Equal(t, 1, presets.Len())
	assert.Equal(t, "Shop", presets.Get("shop").Name)
	assert.Equal(t, 1, logs.Len())
}

func TestLoadRejectsNonObject(t *testing.T) {
	_, err := LoadPresets([]byte(`[1, 2]`), NewTranslations(), zap.NewNop())
	assert.Error(t, err)

	_, err = LoadFields([]byte(`{"a":`), NewTranslations(), zap.NewNop())
	assert.Error(t, err)
}

func TestParentPath(t *testing.T) {
	assert.Equal(t, "amenity", parentPath("amenity/restaurant"))
	assert.Equal(t, "a/b", parentPath("a/b/c"))
	assert.Equal(t, "", parentPath("amenity"))
}
