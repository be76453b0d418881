package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "https://www.imdb.com", cfg.IMDB.BaseURL)
	assert.Equal(t, "IT", cfg.JustWatch.Country)
	assert.Equal(t, 4, cfg.JustWatch.PageSize)
	assert.Equal(t, "watchlist", cfg.Watchlist.Dir)
	assert.Equal(t, 15, cfg.HTTP.TimeoutSeconds)
	assert.NoError(t, cfg.validate())
}

func TestLoadOverridesAndFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
justwatch:
  country: US
  language: en
watchlist:
  dir: /tmp/wl
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "US", cfg.JustWatch.Country)
	assert.Equal(t, "en", cfg.JustWatch.Language)
	assert.Equal(t, "/tmp/wl", cfg.Watchlist.Dir)
	// Untouched sections still get defaults.
	assert.Equal(t, "https://apis.justwatch.com/graphql", cfg.JustWatch.GraphQLURL)
	assert.Equal(t, 4, cfg.JustWatch.PageSize)
}

func TestLoadRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
justwatch:
  country: ITALY
`)
	require.NoError(t, os.WriteFile(path, data, 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
