// Package library walks the tree on behalf of views: it fans operations
// out to the registered providers, merges their results and caches the
// populated collection of every visited path.
package library

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/standardbeagle/docnav/internal/debug"
	"github.com/standardbeagle/docnav/internal/provider"
	"github.com/standardbeagle/docnav/internal/tree"
	"github.com/standardbeagle/docnav/internal/types"
)

// Invalidator is implemented by providers holding data that must be
// reloaded when the library resets
type Invalidator interface {
	Invalidate()
}

// Locator is implemented by providers that can name the ancestors of an
// identifier without the session having seen it
type Locator interface {
	Ancestors(ctx context.Context, id types.Identifier) ([]types.Identifier, bool, error)
}

// Library owns the session and the registered providers
type Library struct {
	mu          sync.RWMutex
	providers   []provider.Provider
	session     *tree.Session
	sessionOpts []tree.SessionOption
	cache       map[uint64]*tree.Collection
	generation  uint64

	flights singleflight.Group
}

// Option configures a Library
type Option func(*Library)

// WithSessionOptions applies to every session the library creates,
// including the ones Reset starts
func WithSessionOptions(opts ...tree.SessionOption) Option {
	return func(l *Library) { l.sessionOpts = append(l.sessionOpts, opts...) }
}

// New returns a library over session; a nil session starts a new one
func New(session *tree.Session, opts ...Option) *Library {
	l := &Library{cache: make(map[uint64]*tree.Collection)}
	for _, opt := range opts {
		opt(l)
	}
	if session == nil {
		session = tree.NewSession(l.sessionOpts...)
	}
	l.session = session
	return l
}

// Register adds a provider. Registration order is merge and postprocess
// order.
func (l *Library) Register(p provider.Provider) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, existing := range l.providers {
		if existing.Name() == p.Name() {
			return fmt.Errorf("provider %q already registered", p.Name())
		}
	}
	l.providers = append(l.providers, p)
	debug.LogProvider("registered provider %s\n", p.Name())
	return nil
}

// Provider returns a registered provider by name
func (l *Library) Provider(name string) (provider.Provider, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, p := range l.providers {
		if p.Name() == name {
			return p, true
		}
	}
	return nil, false
}

// Providers returns the registered providers in registration order
func (l *Library) Providers() []provider.Provider {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]provider.Provider(nil), l.providers...)
}

// Session returns the current session
func (l *Library) Session() *tree.Session {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.session
}

// state is a consistent view of what an operation works against
type state struct {
	providers  []provider.Provider
	session    *tree.Session
	generation uint64
}

func (l *Library) state() state {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return state{
		providers:  append([]provider.Provider(nil), l.providers...),
		session:    l.session,
		generation: l.generation,
	}
}

// Cached returns the populated collection of path, if any
func (l *Library) Cached(path types.Path) (*tree.Collection, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cachedLocked(path)
}

func (l *Library) cachedLocked(path types.Path) (*tree.Collection, bool) {
	coll, ok := l.cache[path.Key()]
	if !ok || !coll.Path().Equal(path) {
		return nil, false
	}
	return coll, true
}

// Reset drops every cached collection, tells invalidating providers to
// reload and starts a new session. The old session is closed.
func (l *Library) Reset() {
	l.mu.Lock()
	old := l.session
	l.session = tree.NewSession(l.sessionOpts...)
	l.cache = make(map[uint64]*tree.Collection)
	l.generation++
	providers := append([]provider.Provider(nil), l.providers...)
	l.mu.Unlock()

	for _, p := range providers {
		if inv, ok := p.(Invalidator); ok {
			inv.Invalidate()
		}
	}
	old.Close()
	debug.LogProvider("library reset, session %s\n", l.Session().ID())
}

// SupportedLanguages is the sorted union of every provider's languages
func (l *Library) SupportedLanguages() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range l.Providers() {
		for _, lang := range p.SupportedLanguages() {
			if !seen[lang] {
				seen[lang] = true
				out = append(out, lang)
			}
		}
	}
	sort.Strings(out)
	return out
}

// Lookup asks each provider in registration order, then the session
func (l *Library) Lookup(id types.Identifier) (*tree.Item, bool) {
	st := l.state()
	for _, p := range st.providers {
		if it, ok := p.LoadItem(st.session, id); ok {
			return it, true
		}
	}
	return st.session.Lookup(id)
}

// ExtendItem lets every provider enrich item in registration order. The
// first failure stops the walk.
func (l *Library) ExtendItem(ctx context.Context, item *tree.Item) error {
	for _, p := range l.Providers() {
		if err := p.ExtendItem(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

// fanOut runs fn for every provider concurrently, each into its own
// staging collection, and returns the collections and errors by index
func fanOut(ctx context.Context, st state, path types.Path, fn func(ctx context.Context, p provider.Provider, coll *tree.Collection) error) ([]*tree.Collection, []error) {
	staged := make([]*tree.Collection, len(st.providers))
	errs := make([]error, len(st.providers))

	var g errgroup.Group
	for i, p := range st.providers {
		i, p := i, p
		staged[i] = tree.NewStagingCollection(st.session, path)
		g.Go(func() error {
			errs[i] = fn(ctx, p, staged[i])
			return nil
		})
	}
	_ = g.Wait()
	return staged, errs
}

// logf reports degraded results the caller still receives
func logf(format string, args ...interface{}) {
	if debug.MCPMode {
		debug.Printf(format+"\n", args...)
		return
	}
	log.Printf(format, args...)
}
