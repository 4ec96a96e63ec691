package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStatsSource_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "category_stats.json")
	data := `{
		"books|manga|shonen manga": {
			"weight": {"mean": 300},
			"volume": {"mean": 0},
			"dimensions": {"length": {"mean": 20}, "width": {"mean": 14}, "height": {"mean": 1}}
		},
		"toys|games|cards": {"weight": {"mean": 120}}
	}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	entries, err := NewFileStatsSource(path).LoadStats(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	manga := entries["books|manga|shonen manga"]
	w, ok := manga.WeightMean()
	assert.True(t, ok)
	assert.Equal(t, 300.0, w)

	_, ok = manga.VolumeMean()
	assert.False(t, ok, "zero volume is treated as absent")

	v, ok := manga.DerivedVolume()
	assert.True(t, ok)
	assert.InDelta(t, 0.28, v, 1e-9)

	cards := entries["toys|games|cards"]
	_, ok = cards.DerivedVolume()
	assert.False(t, ok)
}

func TestFileStatsSource_MissingFileIsEmpty(t *testing.T) {
	entries, err := NewFileStatsSource(filepath.Join(t.TempDir(), "nope.json")).LoadStats(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFileStatsSource_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "category_stats.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"a|b|c": [`), 0o644))

	_, err := NewFileStatsSource(path).LoadStats(context.Background())
	assert.Error(t, err)
}

func TestDecodeEntry(t *testing.T) {
	e, err := decodeEntry("a|b|c", []byte(`{"weight":{"mean":42.5},"volume":{"mean":100}}`))
	require.NoError(t, err)
	w, _ := e.WeightMean()
	v, _ := e.VolumeMean()
	assert.Equal(t, 42.5, w)
	assert.Equal(t, 100.0, v)

	_, err = decodeEntry("a|b|c", []byte(`not json`))
	assert.Error(t, err)
}
