package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/docnav/internal/catalog"
	"github.com/standardbeagle/docnav/internal/categorize"
	"github.com/standardbeagle/docnav/internal/config"
	"github.com/standardbeagle/docnav/internal/debug"
	"github.com/standardbeagle/docnav/internal/library"
	"github.com/standardbeagle/docnav/internal/search"
	"github.com/standardbeagle/docnav/internal/tree"
)

// loadConfigWithOverrides loads configuration and applies CLI flag overrides
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if c.IsSet("config") {
		cfg, err = config.LoadFile(c.String("config"))
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if dir := c.String("gir-dir"); dir != "" {
		cfg.Sources.GirDir = dir
		cfg.Sources.Catalog = ""
	}
	if path := c.String("catalog"); path != "" {
		cfg.Sources.Catalog = path
		cfg.Sources.Watch = false
	}
	if path := c.String("table"); path != "" {
		cfg.Categorizer.Table = path
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// app is one configured library plus whatever keeps it fresh
type app struct {
	cfg     *config.Config
	lib     *library.Library
	watcher *catalog.Watcher
}

func (a *app) Close() {
	if a.watcher != nil {
		if err := a.watcher.Stop(); err != nil {
			debug.Printf("watcher stop: %v\n", err)
		}
	}
	a.lib.Session().Close()
}

// newAppFromContext builds the library the CLI flags and config describe
func newAppFromContext(ctx context.Context, c *cli.Context) (*app, error) {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return nil, err
	}
	return buildApp(ctx, cfg)
}

func buildApp(ctx context.Context, cfg *config.Config) (*app, error) {
	var sessionOpts []tree.SessionOption
	if cfg.Session.MaxItems > 0 {
		sessionOpts = append(sessionOpts, tree.WithMaxItems(cfg.Session.MaxItems))
	}
	lib := library.New(tree.NewSession(sessionOpts...), library.WithSessionOptions(sessionOpts...))

	matcher := search.NewMatcher(
		search.WithThreshold(cfg.Search.FuzzyThreshold),
		search.WithStemming(cfg.Search.Stemming),
	)

	var (
		source catalog.Source
		dir    *catalog.DirSource
	)
	if cfg.Sources.Catalog != "" {
		source = &catalog.FileSource{Path: cfg.Sources.Catalog}
	} else {
		dir = catalog.NewDirSource(cfg.Sources.GirDir, cfg.Sources.GirPattern)
		source = dir
	}
	if err := lib.Register(catalog.New(source, catalog.WithMatcher(matcher))); err != nil {
		return nil, err
	}

	if cfg.Categorizer.Enabled {
		categorizer, err := newCategorizer(cfg.Categorizer)
		if err != nil {
			return nil, err
		}
		if err := lib.Register(categorizer); err != nil {
			return nil, err
		}
	}

	a := &app{cfg: cfg, lib: lib}
	if cfg.Sources.Watch && dir != nil {
		w, err := dir.Watch(ctx, func() {
			debug.Printf("gir directory changed, resetting library\n")
			lib.Reset()
		})
		if err != nil {
			return nil, fmt.Errorf("failed to watch %s: %w", dir.Dir, err)
		}
		a.watcher = w
	}
	return a, nil
}

func newCategorizer(cfg config.Categorizer) (*categorize.Categorizer, error) {
	policy, err := cfg.Policy()
	if err != nil {
		return nil, err
	}
	table := categorize.PlatformTable()
	if cfg.Table != "" {
		extra, err := categorize.LoadTable(cfg.Table)
		if err != nil {
			return nil, err
		}
		table = table.Merge(extra)
	}
	return categorize.New("platform", table, policy)
}
