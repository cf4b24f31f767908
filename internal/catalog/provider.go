package catalog

import (
	"context"
	"strconv"
	"sync"

	"github.com/standardbeagle/docnav/internal/debug"
	docerrors "github.com/standardbeagle/docnav/internal/errors"
	"github.com/standardbeagle/docnav/internal/provider"
	"github.com/standardbeagle/docnav/internal/search"
	"github.com/standardbeagle/docnav/internal/tree"
	"github.com/standardbeagle/docnav/internal/types"
)

// DefaultSearchLimit bounds search results when the criteria set no limit
const DefaultSearchLimit = 50

var defaultLanguages = []string{"C", "JavaScript", "Lua", "Python"}

// Provider serves a Source's catalog as tree items. The catalog is loaded
// on first use and kept until Invalidate.
type Provider struct {
	provider.Base

	name      string
	source    Source
	matcher   *search.Matcher
	languages []string

	mu     sync.RWMutex
	loaded *index
}

// index is a loaded catalog plus the flat views search and extend need
type index struct {
	catalog *Catalog
	entries []entry
	texts   []string
	docs    map[types.Identifier]string
}

type entry struct {
	id types.Identifier
	ns *Namespace
}

// Option configures a Provider
type Option func(*Provider)

// WithName overrides the provider name
func WithName(name string) Option {
	return func(p *Provider) { p.name = name }
}

// WithMatcher sets the search matcher
func WithMatcher(m *search.Matcher) Option {
	return func(p *Provider) { p.matcher = m }
}

// WithLanguages overrides the advertised languages
func WithLanguages(langs ...string) Option {
	return func(p *Provider) { p.languages = langs }
}

// New returns a provider over source
func New(source Source, opts ...Option) *Provider {
	p := &Provider{
		name:      "gir",
		source:    source,
		matcher:   search.NewMatcher(),
		languages: defaultLanguages,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name implements provider.Provider
func (p *Provider) Name() string { return p.name }

// Invalidate drops the loaded catalog; the next operation reloads it
func (p *Provider) Invalidate() {
	p.mu.Lock()
	p.loaded = nil
	p.mu.Unlock()
	debug.LogProvider("%s: catalog invalidated\n", p.name)
}

// Catalog returns the loaded catalog, loading it if needed
func (p *Provider) Catalog(ctx context.Context) (*Catalog, error) {
	idx, err := p.load(ctx, "load_catalog")
	if err != nil {
		return nil, err
	}
	return idx.catalog, nil
}

func (p *Provider) cached() *index {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loaded
}

func (p *Provider) load(ctx context.Context, op string) (*index, error) {
	if idx := p.cached(); idx != nil {
		return idx, nil
	}

	cat, err := p.source.Load(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, docerrors.Cancelled(op, ctx.Err())
		}
		return nil, docerrors.NewProviderError(p.name, op, err)
	}
	if cat == nil {
		cat = &Catalog{}
	}
	idx := buildIndex(cat)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loaded == nil {
		p.loaded = idx
	}
	return p.loaded, nil
}

// LoadChildren commits the namespaces for the root path and the children
// of the terminal node otherwise. Identifiers of other providers and
// unknown identifiers contribute nothing.
func (p *Provider) LoadChildren(ctx context.Context, path types.Path, coll *tree.Collection) error {
	if err := provider.CheckCancelled(ctx, "load_children"); err != nil {
		return err
	}
	idx, err := p.load(ctx, "load_children")
	if err != nil {
		return err
	}
	s := coll.Session()

	if path.IsEmpty() {
		items := make([]*tree.Item, 0, len(idx.catalog.Namespaces))
		for i := range idx.catalog.Namespaces {
			items = append(items, p.namespaceItem(s, &idx.catalog.Namespaces[i]))
		}
		return coll.Commit(ctx, items...)
	}

	last, _ := path.Last()
	if !last.ID.HasScheme(Scheme) {
		return nil
	}
	it, ok := p.resolve(s, idx, last.ID)
	if !ok || !it.HasChildren() {
		return nil
	}
	return coll.Commit(ctx, it.Children(s)...)
}

// LoadItem returns the session's instance, or builds the node from an
// already loaded catalog
func (p *Provider) LoadItem(s *tree.Session, id types.Identifier) (*tree.Item, bool) {
	if !id.HasScheme(Scheme) {
		return nil, false
	}
	if s != nil {
		if it, ok := s.Lookup(id); ok {
			return it, true
		}
	}
	idx := p.cached()
	if idx == nil {
		return nil, false
	}
	return p.resolve(s, idx, id)
}

// Ancestors returns the identifiers between the catalog's top level and
// id, outermost first. A namespace has no ancestors. The boolean is false
// for identifiers the catalog does not hold.
func (p *Provider) Ancestors(ctx context.Context, id types.Identifier) ([]types.Identifier, bool, error) {
	if !id.HasScheme(Scheme) {
		return nil, false, nil
	}
	idx, err := p.load(ctx, "ancestors")
	if err != nil {
		return nil, false, err
	}
	for i := range idx.catalog.Namespaces {
		ns := &idx.catalog.Namespaces[i]
		if !owns(ns, id) {
			continue
		}
		if chain, ok := ancestry(p.namespaceItem(nil, ns), id); ok {
			return chain, true, nil
		}
	}
	return nil, false, nil
}

// ExtendItem adds version and counts to namespaces and documentation to
// anything the catalog documents
func (p *Provider) ExtendItem(ctx context.Context, item *tree.Item) error {
	if err := provider.CheckCancelled(ctx, "extend_item"); err != nil {
		return err
	}
	key := item.Key()
	if !key.HasScheme(Scheme) {
		return nil
	}
	idx, err := p.load(ctx, "extend_item")
	if err != nil {
		return err
	}

	if ns, ok := idx.catalog.Namespace(key); ok {
		item.SetMetadata(types.MetaNamespace, ns.Name)
		item.SetMetadata(types.MetaVersion, ns.Version)
		item.SetMetadata(types.MetaClasses, strconv.Itoa(len(ns.Classes)))
		item.SetMetadata(types.MetaFunctions, strconv.Itoa(len(ns.Functions)))
	}
	if doc, ok := idx.docs[key]; ok {
		item.SetMetadata(types.MetaDoc, doc)
	}
	return nil
}

// Search ranks every catalog name against the query and commits the
// matching nodes, best first
func (p *Provider) Search(ctx context.Context, criteria provider.SearchCriteria, results *tree.Collection) error {
	if err := provider.CheckCancelled(ctx, "search"); err != nil {
		return err
	}
	if criteria.Text == "" {
		return nil
	}
	idx, err := p.load(ctx, "search")
	if err != nil {
		return err
	}

	limit := criteria.Limit
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	s := results.Session()
	var items []*tree.Item
	for _, hit := range p.matcher.Rank(criteria.Text, idx.texts, 0) {
		if err := ctx.Err(); err != nil {
			return docerrors.Cancelled("search", err)
		}
		it, ok := p.resolve(s, idx, idx.entries[hit.Index].id)
		if !ok || !criteria.Accepts(it.Variant()) {
			continue
		}
		items = append(items, it)
		if len(items) == limit {
			break
		}
	}
	debug.LogProvider("%s: search %q matched %d items\n", p.name, criteria.Text, len(items))
	return results.Commit(ctx, items...)
}

// SupportedLanguages implements provider.Provider
func (p *Provider) SupportedLanguages() []string {
	return append([]string(nil), p.languages...)
}
