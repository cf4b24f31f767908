// Package catalog provides introspection content (namespaces, classes and
// their members) to the tree through a pluggable Source.
package catalog

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/standardbeagle/docnav/internal/types"
)

// Scheme prefixes every identifier this package produces
const Scheme = "gir:"

// Member is a documented named entry: a property, method, signal, enum,
// flag set or global function
type Member struct {
	Name string `yaml:"name"`
	Doc  string `yaml:"doc,omitempty"`
}

// Class is an object type and its members
type Class struct {
	Name       string   `yaml:"name"`
	Doc        string   `yaml:"doc,omitempty"`
	Properties []Member `yaml:"properties,omitempty"`
	Methods    []Member `yaml:"methods,omitempty"`
	Signals    []Member `yaml:"signals,omitempty"`
}

// Namespace is one versioned introspection namespace such as Gtk-3.0
type Namespace struct {
	Name      string   `yaml:"name"`
	Version   string   `yaml:"version"`
	Doc       string   `yaml:"doc,omitempty"`
	Classes   []Class  `yaml:"classes,omitempty"`
	Enums     []Member `yaml:"enums,omitempty"`
	Flags     []Member `yaml:"flags,omitempty"`
	Functions []Member `yaml:"functions,omitempty"`
}

// ShortName is Name-Version, or Name when unversioned
func (n *Namespace) ShortName() string {
	if n.Version == "" {
		return n.Name
	}
	return n.Name + "-" + n.Version
}

// ID returns the namespace identifier, e.g. gir:Gtk-3.0
func (n *Namespace) ID() types.Identifier {
	return types.WithScheme(Scheme, n.ShortName())
}

// Catalog is everything a Source knows
type Catalog struct {
	Namespaces []Namespace `yaml:"namespaces"`
}

// ParseCatalog decodes a YAML catalog and sorts its namespaces
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	c.Sort()
	return &c, nil
}

// Validate rejects unnamed entries and namespaces listed twice
func (c *Catalog) Validate() error {
	seen := make(map[types.Identifier]bool, len(c.Namespaces))
	for i := range c.Namespaces {
		ns := &c.Namespaces[i]
		if ns.Name == "" {
			return fmt.Errorf("namespace %d has no name", i)
		}
		if seen[ns.ID()] {
			return fmt.Errorf("namespace %s listed twice", ns.ShortName())
		}
		seen[ns.ID()] = true
		for j, cls := range ns.Classes {
			if cls.Name == "" {
				return fmt.Errorf("%s: class %d has no name", ns.ShortName(), j)
			}
		}
	}
	return nil
}

// Sort orders namespaces by name then version
func (c *Catalog) Sort() {
	sort.SliceStable(c.Namespaces, func(i, j int) bool {
		a, b := c.Namespaces[i], c.Namespaces[j]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.Version < b.Version
	})
}

// Namespace finds a namespace by identifier
func (c *Catalog) Namespace(id types.Identifier) (*Namespace, bool) {
	for i := range c.Namespaces {
		if c.Namespaces[i].ID() == id {
			return &c.Namespaces[i], true
		}
	}
	return nil, false
}
