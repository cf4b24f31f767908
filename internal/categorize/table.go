package categorize

import (
	"fmt"
	"os"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/pelletier/go-toml/v2"

	"github.com/standardbeagle/docnav/internal/types"
)

// Pattern maps every content identifier matching a doublestar glob to a category
type Pattern struct {
	Match    string           `toml:"match"`
	Category types.Identifier `toml:"category"`
}

// Table is a categorizer's static data: exact identifier mappings, ordered
// glob patterns consulted after the exact entries, and category titles.
type Table struct {
	Mapping  map[types.Identifier]types.Identifier
	Patterns []Pattern
	Titles   map[types.Identifier]string
}

// NewTable returns an empty table
func NewTable() *Table {
	return &Table{
		Mapping: make(map[types.Identifier]types.Identifier),
		Titles:  make(map[types.Identifier]string),
	}
}

// Lookup returns the category of a content identifier: the exact entry if
// any, else the first matching pattern.
func (t *Table) Lookup(id types.Identifier) (types.Identifier, bool) {
	if cat, ok := t.Mapping[id]; ok {
		return cat, true
	}
	for _, p := range t.Patterns {
		if ok, _ := doublestar.Match(p.Match, string(id)); ok {
			return p.Category, true
		}
	}
	return "", false
}

// Title returns the display title of a category
func (t *Table) Title(category types.Identifier) (string, bool) {
	title, ok := t.Titles[category]
	return title, ok
}

// IsCategory reports whether id is one of the table's category ids
func (t *Table) IsCategory(id types.Identifier) bool {
	_, ok := t.Titles[id]
	return ok
}

// Categories returns the category ids in sorted order
func (t *Table) Categories() []types.Identifier {
	ids := make([]types.Identifier, 0, len(t.Titles))
	for id := range t.Titles {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Merge overlays other onto t: other's exact entries and titles win, and
// its patterns are consulted before t's.
func (t *Table) Merge(other *Table) *Table {
	out := NewTable()
	for k, v := range t.Mapping {
		out.Mapping[k] = v
	}
	for k, v := range t.Titles {
		out.Titles[k] = v
	}
	if other == nil {
		out.Patterns = append(out.Patterns, t.Patterns...)
		return out
	}
	for k, v := range other.Mapping {
		out.Mapping[k] = v
	}
	for k, v := range other.Titles {
		out.Titles[k] = v
	}
	out.Patterns = append(out.Patterns, other.Patterns...)
	out.Patterns = append(out.Patterns, t.Patterns...)
	return out
}

// Validate checks the table on its own: every referenced category has a
// title, patterns compile, and no category id is itself classified by the
// table. The last rule is what keeps postprocessing idempotent.
func (t *Table) Validate() error {
	for id, cat := range t.Mapping {
		if _, ok := t.Titles[cat]; !ok {
			return fmt.Errorf("mapping %s -> %s: category has no title", id, cat)
		}
	}
	for _, p := range t.Patterns {
		if !doublestar.ValidatePattern(p.Match) {
			return fmt.Errorf("invalid pattern %q", p.Match)
		}
		if _, ok := t.Titles[p.Category]; !ok {
			return fmt.Errorf("pattern %s -> %s: category has no title", p.Match, p.Category)
		}
	}
	for cat := range t.Titles {
		if mapped, ok := t.Lookup(cat); ok {
			return fmt.Errorf("category %s is itself mapped to %s", cat, mapped)
		}
	}

	categorySchemes := make(map[string]types.Identifier)
	for cat := range t.Titles {
		categorySchemes[cat.Scheme()] = cat
	}
	for id := range t.Mapping {
		if cat, ok := categorySchemes[id.Scheme()]; ok && id.Scheme() != "" {
			return fmt.Errorf("content identifier %s shares scheme %q with category %s", id, id.Scheme(), cat)
		}
	}
	return nil
}

type tableFile struct {
	Titles   map[string]string `toml:"titles"`
	Mapping  map[string]string `toml:"mapping"`
	Patterns []Pattern         `toml:"patterns"`
}

// ParseTable decodes a TOML category table
func ParseTable(data []byte) (*Table, error) {
	var f tableFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse category table: %w", err)
	}
	t := NewTable()
	for k, v := range f.Titles {
		t.Titles[types.Identifier(k)] = v
	}
	for k, v := range f.Mapping {
		t.Mapping[types.Identifier(k)] = types.Identifier(v)
	}
	t.Patterns = f.Patterns
	return t, nil
}

// LoadTable reads a TOML category table from disk
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read category table %s: %w", path, err)
	}
	return ParseTable(data)
}
