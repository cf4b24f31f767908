package catalog

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/standardbeagle/docnav/internal/debug"
)

// DefaultGirDir is where distributions install .gir files
const DefaultGirDir = "/usr/share/gir-1.0"

// DefaultGirPattern selects introspection files in a directory listing
const DefaultGirPattern = "*.gir"

// Source produces a catalog. Load is the provider's only blocking call and
// must return promptly once ctx is done.
type Source interface {
	Load(ctx context.Context) (*Catalog, error)
}

// SourceFunc adapts a function to Source
type SourceFunc func(ctx context.Context) (*Catalog, error)

// Load calls f
func (f SourceFunc) Load(ctx context.Context) (*Catalog, error) { return f(ctx) }

// Static serves a fixed catalog
func Static(c *Catalog) Source {
	return SourceFunc(func(ctx context.Context) (*Catalog, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return c, nil
	})
}

// FileSource reads a YAML catalog file
type FileSource struct {
	Path string
}

// Load reads and parses the file
func (f *FileSource) Load(ctx context.Context) (*Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", f.Path, err)
	}
	c, err := ParseCatalog(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Path, err)
	}
	debug.LogProvider("catalog %s: %d namespaces\n", f.Path, len(c.Namespaces))
	return c, nil
}

// DirSource lists introspection files. Each Name-Version file becomes a
// namespace without members.
type DirSource struct {
	Dir     string
	Pattern string
}

// NewDirSource applies the defaults to empty arguments
func NewDirSource(dir, pattern string) *DirSource {
	if dir == "" {
		dir = DefaultGirDir
	}
	if pattern == "" {
		pattern = DefaultGirPattern
	}
	return &DirSource{Dir: dir, Pattern: pattern}
}

// Load lists the directory
func (d *DirSource) Load(ctx context.Context) (*Catalog, error) {
	entries, err := os.ReadDir(d.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", d.Dir, err)
	}

	c := &Catalog{}
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if e.IsDir() || !d.matches(e.Name()) {
			continue
		}
		c.Namespaces = append(c.Namespaces, namespaceFromFile(e.Name()))
	}
	c.Sort()
	debug.LogProvider("gir dir %s: %d namespaces\n", d.Dir, len(c.Namespaces))
	return c, nil
}

func (d *DirSource) matches(name string) bool {
	ok, _ := doublestar.Match(d.Pattern, name)
	return ok
}

// namespaceFromFile splits "Gtk-3.0.gir" into Gtk and 3.0. The version is
// everything after the last dash.
func namespaceFromFile(filename string) Namespace {
	short := strings.TrimSuffix(filename, filepath.Ext(filename))
	if i := strings.LastIndex(short, "-"); i > 0 {
		return Namespace{Name: short[:i], Version: short[i+1:]}
	}
	return Namespace{Name: short}
}

// names returns the namespace short names, for logs and tests
func (c *Catalog) names() []string {
	out := make([]string, len(c.Namespaces))
	for i := range c.Namespaces {
		out[i] = c.Namespaces[i].ShortName()
	}
	sort.Strings(out)
	return out
}
