package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/docnav/internal/catalog"
	"github.com/standardbeagle/docnav/internal/search"
)

func TestParseKDL_Defaults(t *testing.T) {
	cfg, err := parseKDL("")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, catalog.DefaultGirDir, cfg.Sources.GirDir)
	assert.Equal(t, catalog.DefaultGirPattern, cfg.Sources.GirPattern)
	assert.False(t, cfg.Sources.Watch)
	assert.True(t, cfg.Categorizer.Enabled)
	assert.Equal(t, "none", cfg.Categorizer.Fallback)
	assert.Equal(t, "ascending", cfg.Categorizer.Order)
	assert.Equal(t, "block", cfg.Categorizer.Insertion)
	assert.Equal(t, search.DefaultThreshold, cfg.Search.FuzzyThreshold)
	assert.Equal(t, 50, cfg.Search.MaxResults)
	assert.True(t, cfg.Search.Stemming)
	assert.Equal(t, 0, cfg.Session.MaxItems)
}

func TestParseKDL_AllSections(t *testing.T) {
	kdlContent := `
sources {
    gir_dir "/opt/gir"
    gir_pattern "Gtk-*.gir"
    watch true
}
categorizer {
    enabled false
    table "categories.toml"
    fallback "platform:other"
    order "descending"
    insertion "prepend"
}
search {
    fuzzy_threshold 0.65
    max_results 10
    stemming false
}
session {
    max_items 5000
}
`
	cfg, err := parseKDL(kdlContent)
	require.NoError(t, err)

	assert.Equal(t, "/opt/gir", cfg.Sources.GirDir)
	assert.Equal(t, "Gtk-*.gir", cfg.Sources.GirPattern)
	assert.True(t, cfg.Sources.Watch)
	assert.False(t, cfg.Categorizer.Enabled)
	assert.Equal(t, "categories.toml", cfg.Categorizer.Table)
	assert.Equal(t, "platform:other", cfg.Categorizer.Fallback)
	assert.Equal(t, "descending", cfg.Categorizer.Order)
	assert.Equal(t, "prepend", cfg.Categorizer.Insertion)
	assert.InDelta(t, 0.65, cfg.Search.FuzzyThreshold, 1e-9)
	assert.Equal(t, 10, cfg.Search.MaxResults)
	assert.False(t, cfg.Search.Stemming)
	assert.Equal(t, 5000, cfg.Session.MaxItems)
}

func TestParseKDL_IntegerThreshold(t *testing.T) {
	cfg, err := parseKDL("search {\n    fuzzy_threshold 1\n}\n")
	require.NoError(t, err)
	assert.Equal(t, 1.0, cfg.Search.FuzzyThreshold)
}

func TestParseKDL_WrongTypeKeepsDefault(t *testing.T) {
	cfg, err := parseKDL("search {\n    max_results \"many\"\n    stemming \"yes\"\n}\n")
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.Search.MaxResults)
	assert.True(t, cfg.Search.Stemming)
}

func TestParseKDL_UnknownKeysIgnored(t *testing.T) {
	cfg, err := parseKDL("index {\n    max_file_size \"10MB\"\n}\nsession {\n    ttl 5\n}\n")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestParseKDL_Invalid(t *testing.T) {
	_, err := parseKDL("sources {\n    gir_dir \"/opt\"\n")
	assert.Error(t, err)
}

func TestLoadKDL_Missing(t *testing.T) {
	cfg, err := LoadKDL(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, cfg)
}

func TestLoadKDL_RelativePaths(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
sources {
    catalog "docs/catalog.yaml"
}
categorizer {
    table "/etc/docnav/categories.toml"
}
`)

	cfg, err := LoadKDL(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, filepath.Join(dir, "docs", "catalog.yaml"), cfg.Sources.Catalog)
	assert.Equal(t, "/etc/docnav/categories.toml", cfg.Categorizer.Table)
	assert.Equal(t, catalog.DefaultGirDir, cfg.Sources.GirDir)
}

func TestLoadWithRoot_ProjectOverridesHome(t *testing.T) {
	home := t.TempDir()
	project := t.TempDir()
	t.Setenv("HOME", home)

	writeConfig(t, home, `
search {
    max_results 20
    stemming false
}
session {
    max_items 100
}
`)
	writeConfig(t, project, `
search {
    max_results 5
}
`)

	cfg, err := LoadWithRoot(project)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Search.MaxResults)
	assert.False(t, cfg.Search.Stemming)
	assert.Equal(t, 100, cfg.Session.MaxItems)
}

func TestLoadWithRoot_NoFiles(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadWithRoot(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadWithRoot_ValidationFailure(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	project := t.TempDir()
	writeConfig(t, project, "categorizer {\n    order \"sideways\"\n}\n")

	_, err := LoadWithRoot(project)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "categorizer")
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.kdl")
	require.NoError(t, os.WriteFile(path, []byte("session {\n    max_items 7\n}\n"), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Session.MaxItems)

	_, err = LoadFile(filepath.Join(dir, "missing.kdl"))
	assert.Error(t, err)
}

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644))
}
