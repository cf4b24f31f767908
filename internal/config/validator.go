package config

import (
	"errors"
	"fmt"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/standardbeagle/docnav/internal/catalog"
	"github.com/standardbeagle/docnav/internal/categorize"
	docerrors "github.com/standardbeagle/docnav/internal/errors"
)

// Validator validates configuration and fills in empty settings
type Validator struct{}

// NewValidator creates a new configuration validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAndSetDefaults validates configuration and applies defaults to
// unset fields. Failures are *errors.ConfigError naming the section.
func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	v.setDefaults(cfg)

	if err := v.validateSourcesConfig(&cfg.Sources); err != nil {
		return docerrors.NewConfigError("sources", "", err)
	}
	if err := v.validateCategorizerConfig(&cfg.Categorizer); err != nil {
		return docerrors.NewConfigError("categorizer", "", err)
	}
	if err := v.validateSearchConfig(&cfg.Search); err != nil {
		return docerrors.NewConfigError("search", "", err)
	}
	if cfg.Session.MaxItems < 0 {
		return docerrors.NewConfigError("session", fmt.Sprint(cfg.Session.MaxItems),
			fmt.Errorf("max_items cannot be negative, got %d", cfg.Session.MaxItems))
	}
	return nil
}

func (v *Validator) setDefaults(cfg *Config) {
	if cfg.Sources.GirDir == "" && cfg.Sources.Catalog == "" {
		cfg.Sources.GirDir = catalog.DefaultGirDir
	}
	if cfg.Sources.GirPattern == "" {
		cfg.Sources.GirPattern = catalog.DefaultGirPattern
	}
	if cfg.Categorizer.Fallback == "" {
		cfg.Categorizer.Fallback = DefaultFallback
	}
	if cfg.Categorizer.Order == "" {
		cfg.Categorizer.Order = DefaultOrder
	}
	if cfg.Categorizer.Insertion == "" {
		cfg.Categorizer.Insertion = DefaultInsertion
	}
	if cfg.Search.MaxResults == 0 {
		cfg.Search.MaxResults = DefaultMaxResults
	}
}

func (v *Validator) validateSourcesConfig(src *Sources) error {
	if !doublestar.ValidatePattern(src.GirPattern) {
		return fmt.Errorf("invalid gir_pattern %q", src.GirPattern)
	}
	if src.Watch && src.Catalog != "" {
		return errors.New("watch requires a gir_dir source, not a catalog file")
	}
	return nil
}

func (v *Validator) validateCategorizerConfig(c *Categorizer) error {
	_, err := c.Policy()
	return err
}

func (v *Validator) validateSearchConfig(s *Search) error {
	if s.FuzzyThreshold < 0 || s.FuzzyThreshold > 1 {
		return fmt.Errorf("fuzzy_threshold must be within [0, 1], got %g", s.FuzzyThreshold)
	}
	if s.MaxResults < 0 {
		return fmt.Errorf("max_results cannot be negative, got %d", s.MaxResults)
	}
	return nil
}

// Policy translates the categorizer section into a grouping policy
func (c Categorizer) Policy() (categorize.Policy, error) {
	order, err := categorize.ParseOrder(c.Order)
	if err != nil {
		return categorize.Policy{}, err
	}
	insertion, err := categorize.ParseInsertion(c.Insertion)
	if err != nil {
		return categorize.Policy{}, err
	}
	return categorize.Policy{
		Fallback:  categorize.ParseFallback(c.Fallback),
		Order:     order,
		Insertion: insertion,
	}, nil
}

// ValidateConfig is a convenience function to validate configuration
func ValidateConfig(cfg *Config) error {
	return NewValidator().ValidateAndSetDefaults(cfg)
}
