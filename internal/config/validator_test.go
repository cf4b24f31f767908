package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/standardbeagle/docnav/internal/categorize"
	docerrors "github.com/standardbeagle/docnav/internal/errors"
)

func TestValidateAndSetDefaults(t *testing.T) {
	cfg := &Config{}

	err := NewValidator().ValidateAndSetDefaults(cfg)
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.Sources.GirDir)
	assert.NotEmpty(t, cfg.Sources.GirPattern)
	assert.Equal(t, DefaultFallback, cfg.Categorizer.Fallback)
	assert.Equal(t, DefaultOrder, cfg.Categorizer.Order)
	assert.Equal(t, DefaultInsertion, cfg.Categorizer.Insertion)
	assert.Equal(t, DefaultMaxResults, cfg.Search.MaxResults)
}

func TestValidateAndSetDefaults_CatalogOnly(t *testing.T) {
	cfg := &Config{Sources: Sources{Catalog: "catalog.yaml"}}

	require.NoError(t, ValidateConfig(cfg))
	assert.Empty(t, cfg.Sources.GirDir)
}

func TestValidateAndSetDefaults_Failures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		section string
	}{
		{"threshold above one", func(c *Config) { c.Search.FuzzyThreshold = 1.5 }, "search"},
		{"negative threshold", func(c *Config) { c.Search.FuzzyThreshold = -0.1 }, "search"},
		{"negative max results", func(c *Config) { c.Search.MaxResults = -1 }, "search"},
		{"unknown order", func(c *Config) { c.Categorizer.Order = "sideways" }, "categorizer"},
		{"unknown insertion", func(c *Config) { c.Categorizer.Insertion = "middle" }, "categorizer"},
		{"negative max items", func(c *Config) { c.Session.MaxItems = -3 }, "session"},
		{"bad pattern", func(c *Config) { c.Sources.GirPattern = "[*.gir" }, "sources"},
		{"watch without dir", func(c *Config) { c.Sources.Catalog = "c.yaml"; c.Sources.Watch = true }, "sources"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := ValidateConfig(cfg)
			require.Error(t, err)

			var cfgErr *docerrors.ConfigError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.section, cfgErr.Field)
		})
	}
}

func TestCategorizerPolicy(t *testing.T) {
	policy, err := Categorizer{Fallback: "platform:other", Order: "desc", Insertion: "prepend"}.Policy()
	require.NoError(t, err)
	assert.Equal(t, categorize.GnomePlatformPolicy(), policy)

	policy, err = Default().Categorizer.Policy()
	require.NoError(t, err)
	assert.Equal(t, categorize.DefaultPolicy(), policy)
}
