package id

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/rvkinc/presetutils/internal/preset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSource struct {
	values map[string][]preset.ValueAndDescription
	keys   map[string][]preset.ValueAndDescription
	err    error

	valueCalls []string
	keyCalls   []string
}

func (s *fakeSource) Values(_ context.Context, key, filter string, caseSensitive bool) ([]preset.ValueAndDescription, error) {
	call := key + "|" + filter
	if caseSensitive {
		call += "|cased"
	}
	s.valueCalls = append(s.valueCalls, call)
	if s.err != nil {
		return nil, s.err
	}
	return s.values[key], nil
}

func (s *fakeSource) Keys(_ context.Context, prefix string) ([]preset.ValueAndDescription, error) {
	s.keyCalls = append(s.keyCalls, prefix)
	if s.err != nil {
		return nil, s.err
	}
	return s.keys[prefix], nil
}

func TestEnricherCachesPerKeyAndFilter(t *testing.T) {
	src := &fakeSource{values: map[string][]preset.ValueAndDescription{
		"cuisine": {{Value: "pizza", Count: 10}},
	}}
	e := NewEnricher(src, true, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		got, err := e.Values(ctx, "cuisine", "nodes", false)
		require.NoError(t, err)
		assert.Equal(t, "pizza", got[0].Value)
	}
	_, err := e.Values(ctx, "cuisine", "ways", false)
	require.NoError(t, err)

	assert.Equal(t, []string{"cuisine|nodes", "cuisine|ways"}, src.valueCalls)
}

func TestEnricherCachesPerCase(t *testing.T) {
	src := &fakeSource{values: map[string][]preset.ValueAndDescription{
		"ref": {{Value: "A1"}},
	}}
	e := NewEnricher(src, true, zap.NewNop())
	ctx := context.Background()

	_, err := e.Values(ctx, "ref", "", true)
	require.NoError(t, err)
	_, err = e.Values(ctx, "ref", "", true)
	require.NoError(t, err)
	_, err = e.Values(ctx, "ref", "", false)
	require.NoError(t, err)

	assert.Equal(t, []string{"ref||cased", "ref|"}, src.valueCalls)
}

func TestEnricherCachesAbsent(t *testing.T) {
	src := &fakeSource{}
	e := NewEnricher(src, true, zap.NewNop())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		got, err := e.Values(ctx, "fixme", "", false)
		require.NoError(t, err)
		assert.Empty(t, got)

		got, err = e.Keys(ctx, "payment:")
		require.NoError(t, err)
		assert.Empty(t, got)
	}

	assert.Len(t, src.valueCalls, 1)
	assert.Len(t, src.keyCalls, 1)
}

func TestEnricherKeysAndValuesAreSeparate(t *testing.T) {
	src := &fakeSource{
		values: map[string][]preset.ValueAndDescription{"diet:": {{Value: "x"}}},
		keys:   map[string][]preset.ValueAndDescription{"diet:": {{Value: "vegan"}}},
	}
	e := NewEnricher(src, true, zap.NewNop())

	keys, err := e.Keys(context.Background(), "diet:")
	require.NoError(t, err)
	values, err := e.Values(context.Background(), "diet:", "", false)
	require.NoError(t, err)

	assert.Equal(t, "vegan", keys[0].Value)
	assert.Equal(t, "x", values[0].Value)
}

func TestEnricherDisabled(t *testing.T) {
	src := &fakeSource{values: map[string][]preset.ValueAndDescription{"cuisine": {{Value: "pizza"}}}}
	e := NewEnricher(src, false, zap.NewNop())

	got, err := e.Values(context.Background(), "cuisine", "", false)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, src.valueCalls)

	got, err = NewEnricher(nil, true, zap.NewNop()).Keys(context.Background(), "payment:")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestEnricherErrorIsNotCached(t *testing.T) {
	src := &fakeSource{err: errors.New("boom")}
	e := NewEnricher(src, true, zap.NewNop())

	_, err := e.Values(context.Background(), "cuisine", "", false)
	assert.Error(t, err)
	_, err = e.Values(context.Background(), "cuisine", "", false)
	assert.Error(t, err)
	assert.Len(t, src.valueCalls, 2)
}
