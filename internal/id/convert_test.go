package id

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/pkg/errors"
	"github.com/rvkinc/presetutils/internal/fetch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSchemaServer(t *testing.T) *httptest.Server {
	t.Helper()

	docs := map[string]string{
		"/fields.json":  `{"fields": ` + testFieldsJSON + `}`,
		"/presets.json": `{"amenity/restaurant": {"tags": {"amenity": "restaurant"}, "geometry": ["point"], "fields": ["name", "cuisine"]}}`,
		"/en.json":      testTranslations,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		doc, ok := docs[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(doc))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestConvert(t *testing.T) {
	srv := newSchemaServer(t)
	c := &Config{
		FieldsURL:       srv.URL + "/fields.json",
		PresetsURL:      srv.URL + "/presets.json",
		TranslationsURL: srv.URL + "/en.json",
	}

	var buf bytes.Buffer
	err := Convert(context.Background(), c, fetch.NewHTTP(nil), nil, &buf, zap.NewNop())
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `<item name="Restaurant (localized)" type="node" preset_name_label="true">`)
	assert.Contains(t, out, `display_values="Italian food,French food"`)
}

func TestConvertWithoutTranslations(t *testing.T) {
	srv := newSchemaServer(t)
	c := &Config{FieldsURL: srv.URL + "/fields.json", PresetsURL: srv.URL + "/presets.json"}

	var buf bytes.Buffer
	err := Convert(context.Background(), c, fetch.NewHTTP(nil), nil, &buf, zap.NewNop())
	require.NoError(t, err)

	assert.Contains(t, buf.String(), `<item name="amenity/restaurant"`)
	assert.Contains(t, buf.String(), `display_values="Italian,French"`)
}

func TestConvertFetchFailure(t *testing.T) {
	srv := newSchemaServer(t)
	c := &Config{FieldsURL: srv.URL + "/missing.json", PresetsURL: srv.URL + "/presets.json"}

	var buf bytes.Buffer
	err := Convert(context.Background(), c, fetch.NewHTTP(nil), nil, &buf, zap.NewNop())
	require.Error(t, err)

	var se *fetch.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusNotFound, se.StatusCode)
	assert.Zero(t, buf.Len())
}
