// Package categorize regroups the flat top level of the tree into
// synthetic category nodes driven by an identifier-to-category table.
package categorize

import (
	"context"
	"errors"
	"fmt"
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/standardbeagle/docnav/internal/debug"
	docerrors "github.com/standardbeagle/docnav/internal/errors"
	"github.com/standardbeagle/docnav/internal/provider"
	"github.com/standardbeagle/docnav/internal/tree"
	"github.com/standardbeagle/docnav/internal/types"
)

// CategoryIcon is the icon hint of category nodes
const CategoryIcon = "folder-symbolic"

const defaultCacheSize = 256

// Categorizer is a provider whose only job is postprocessing the root
// collection. Category members are the session's children of the
// category node, so a category reflects the latest pass.
type Categorizer struct {
	provider.Base

	name   string
	table  *Table
	policy Policy
	nodes  *lru.Cache[nodeKey, *tree.Item]
}

type nodeKey struct {
	session string
	id      types.Identifier
}

// Option configures a Categorizer
type Option func(*config)

type config struct {
	cacheSize int
}

// WithCacheSize bounds the number of category nodes kept for LoadItem
func WithCacheSize(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.cacheSize = n
		}
	}
}

// New validates table and policy and returns a categorizer
func New(name string, table *Table, policy Policy, opts ...Option) (*Categorizer, error) {
	if table == nil {
		return nil, errors.New("categorizer requires a table")
	}
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("categorizer %s: %w", name, err)
	}
	if fallback, ok := policy.Fallback.Category(); ok {
		if !table.IsCategory(fallback) {
			return nil, fmt.Errorf("categorizer %s: fallback category %s has no title", name, fallback)
		}
	}

	cfg := config{cacheSize: defaultCacheSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	nodes, err := lru.New[nodeKey, *tree.Item](cfg.cacheSize)
	if err != nil {
		return nil, err
	}

	return &Categorizer{name: name, table: table, policy: policy, nodes: nodes}, nil
}

// Name implements provider.Provider
func (c *Categorizer) Name() string { return c.name }

// Policy returns the configured policy
func (c *Categorizer) Policy() Policy { return c.policy }

// Table returns the mapping and title table
func (c *Categorizer) Table() *Table { return c.table }

// Classify returns the category a content identifier belongs to under the
// configured fallback policy
func (c *Categorizer) Classify(id types.Identifier) (types.Identifier, bool) {
	if cat, ok := c.table.Lookup(id); ok {
		return cat, true
	}
	return c.policy.Fallback.Category()
}

type group struct {
	id       types.Identifier
	item     *tree.Item
	members  []*tree.Item
	existing bool
}

// Postprocess groups the root collection. Deeper collections are left
// untouched. Classification reads a snapshot; the collection is only
// mutated once the whole plan is known, and restored if applying it fails.
func (c *Categorizer) Postprocess(coll *tree.Collection) error {
	if !coll.Path().IsEmpty() {
		return nil
	}
	s := coll.Session()
	snapshot := coll.Snapshot()

	present := make(map[types.Identifier]*tree.Item)
	for _, child := range snapshot {
		if child.Variant() == types.VariantCategory {
			present[child.Key()] = child
		}
	}

	groups := make(map[types.Identifier]*group)
	var order []*group
	for _, child := range snapshot {
		if child.Variant() == types.VariantCategory {
			continue
		}
		key := child.Key()
		if c.table.IsCategory(key) {
			debug.Invariant("content item %s collides with a category id of %s", key, c.name)
			continue
		}
		cat, ok := c.Classify(key)
		if !ok {
			continue
		}
		g, ok := groups[cat]
		if !ok {
			g = &group{id: cat}
			if it, ok := present[cat]; ok {
				g.item, g.existing = it, true
			} else {
				g.item = c.categoryItem(s, cat)
			}
			groups[cat] = g
			order = append(order, g)
		}
		g.members = append(g.members, child)
	}
	if len(order) == 0 {
		return nil
	}

	fresh := make([]*group, 0, len(order))
	for _, g := range order {
		if !g.existing {
			fresh = append(fresh, g)
		}
	}
	c.sortGroups(fresh)

	if err := c.apply(coll, snapshot, order, fresh); err != nil {
		if rerr := coll.Restore(snapshot); rerr != nil {
			return docerrors.NewMultiError([]error{err, rerr})
		}
		return err
	}
	debug.LogProvider("%s: grouped %d items into %d new categories\n", c.name, countMembers(order), len(fresh))
	return nil
}

func (c *Categorizer) sortGroups(groups []*group) {
	desc := c.policy.Order == TitleDescending
	sort.SliceStable(groups, func(i, j int) bool {
		ti, tj := groups[i].item.Title(), groups[j].item.Title()
		if ti == tj {
			return groups[i].id < groups[j].id
		}
		if desc {
			return ti > tj
		}
		return ti < tj
	})
}

func (c *Categorizer) apply(coll *tree.Collection, snapshot []*tree.Item, all, fresh []*group) error {
	matched := make(map[*tree.Item]bool)
	for _, g := range all {
		for _, m := range g.members {
			matched[m] = true
		}
	}

	// back to front so earlier positions stay valid
	for i := len(snapshot) - 1; i >= 0; i-- {
		if matched[snapshot[i]] {
			if err := coll.RemoveAt(i); err != nil {
				return err
			}
		}
	}

	for i, g := range fresh {
		var err error
		if c.policy.Insertion == PrependEach {
			err = coll.Prepend(g.item)
		} else {
			err = coll.Insert(i, g.item)
		}
		if err != nil {
			return err
		}
	}

	s := coll.Session()
	if s == nil {
		return nil
	}

	var added []types.Identifier
	items := make([]*tree.Item, len(fresh))
	for i, g := range fresh {
		items[i] = g.item
		if _, ok := s.Lookup(g.id); !ok {
			added = append(added, g.id)
		}
	}
	if accepted := s.RegisterBatch("", items); len(accepted) != len(items) {
		c.undo(s, nil, added)
		return fmt.Errorf("categorizer %s: %w", c.name, docerrors.ErrDuplicateIdentity)
	}

	// prior parents of every moved member, for undo
	moved := make(map[types.Identifier]types.Identifier)
	for _, g := range all {
		for _, m := range g.members {
			prev, ok := s.Parent(m.Key())
			if !ok {
				continue
			}
			if err := s.Reparent(m.Key(), g.id); err != nil {
				c.undo(s, moved, added)
				return err
			}
			moved[m.Key()] = prev
		}
	}
	return nil
}

// undo puts moved members back under their prior parents and drops the
// category nodes a failed pass registered
func (c *Categorizer) undo(s *tree.Session, moved map[types.Identifier]types.Identifier, added []types.Identifier) {
	for id, prev := range moved {
		if err := s.Reparent(id, prev); err != nil {
			debug.LogProvider("%s: failed to restore parent of %s: %v\n", c.name, id, err)
		}
	}
	for _, id := range added {
		if err := s.Unregister(id); err != nil && !errors.Is(err, docerrors.ErrNotFound) {
			debug.LogProvider("%s: failed to drop category %s: %v\n", c.name, id, err)
		}
	}
}

// LoadChildren lists the members a pass assigned to a category node
func (c *Categorizer) LoadChildren(ctx context.Context, path types.Path, coll *tree.Collection) error {
	if err := provider.CheckCancelled(ctx, "load_children"); err != nil {
		return err
	}
	last, ok := path.Last()
	if !ok || !c.table.IsCategory(last.ID) || coll.Session() == nil {
		return nil
	}
	return coll.Commit(ctx, coll.Session().ChildrenOf(last.ID)...)
}

// LoadItem resolves category ids to their node, building one if no pass
// has run yet. Other identifiers go to the session.
func (c *Categorizer) LoadItem(s *tree.Session, id types.Identifier) (*tree.Item, bool) {
	if !c.table.IsCategory(id) {
		if s == nil {
			return nil, false
		}
		return s.Lookup(id)
	}
	return c.categoryItem(s, id), true
}

// categoryItem returns the one node per session for a category id
func (c *Categorizer) categoryItem(s *tree.Session, id types.Identifier) *tree.Item {
	key := nodeKey{id: id}
	if s != nil {
		key.session = s.ID()
		if it, ok := s.Lookup(id); ok && it.Variant() == types.VariantCategory {
			c.nodes.Add(key, it)
			return it
		}
	}
	if it, ok := c.nodes.Get(key); ok {
		return it
	}

	title, _ := c.table.Title(id)
	it := tree.NewItem(id, title, types.VariantCategory,
		tree.WithIcon(CategoryIcon),
		tree.WithChildren(func(s *tree.Session) []*tree.Item {
			if s == nil {
				return nil
			}
			return s.ChildrenOf(id)
		}),
	)
	if prev, ok, _ := c.nodes.PeekOrAdd(key, it); ok {
		return prev
	}
	return it
}

func countMembers(groups []*group) int {
	n := 0
	for _, g := range groups {
		n += len(g.members)
	}
	return n
}
