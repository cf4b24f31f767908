// Package tree holds the navigable item model: items, the per-session
// identity cache, path reconstruction and the collections providers fill.
package tree

import (
	"sort"
	"sync"

	"github.com/standardbeagle/docnav/internal/types"
)

// ChildrenFunc lazily produces the children of a container. It runs
// synchronously, performs no I/O, and should return the session's canonical
// instance for any child already registered.
type ChildrenFunc func(s *Session) []*Item

// Item is a node of the navigable tree. Identity, display data and variant
// are fixed at construction; only metadata may change afterwards.
// The parent relation lives in the Session, keyed by identifier.
type Item struct {
	id       types.Identifier
	scheme   string
	title    string
	subtitle string
	iconName string
	variant  types.Variant
	member   types.MemberKind
	children ChildrenFunc

	mu       sync.RWMutex
	metadata map[string]string
}

// Option configures an Item at construction
type Option func(*Item)

// WithSubtitle sets the secondary display line
func WithSubtitle(subtitle string) Option {
	return func(it *Item) { it.subtitle = subtitle }
}

// WithIcon sets the icon hint
func WithIcon(icon string) Option {
	return func(it *Item) { it.iconName = icon }
}

// WithScheme records the owning provider's scheme, used to synthesize the
// identifier of nodes created with a raw local id.
func WithScheme(scheme string) Option {
	return func(it *Item) { it.scheme = scheme }
}

// WithMemberKind refines a member item
func WithMemberKind(kind types.MemberKind) Option {
	return func(it *Item) { it.member = kind }
}

// WithChildren attaches the children producer
func WithChildren(fn ChildrenFunc) Option {
	return func(it *Item) { it.children = fn }
}

// WithMetadata seeds the metadata map
func WithMetadata(md map[string]string) Option {
	return func(it *Item) {
		for k, v := range md {
			it.metadata[k] = v
		}
	}
}

// NewItem creates an item. Containers and categories without a producer
// simply report no children.
func NewItem(id types.Identifier, title string, variant types.Variant, opts ...Option) *Item {
	it := &Item{
		id:       id,
		title:    title,
		variant:  variant,
		metadata: make(map[string]string),
	}
	for _, opt := range opts {
		opt(it)
	}
	return it
}

// ID returns the identifier the item was created with
func (it *Item) ID() types.Identifier { return it.id }

// Scheme returns the owning provider's scheme prefix, if any
func (it *Item) Scheme() string { return it.scheme }

// Key is the identifier used in paths and the identity cache: the item's
// own identifier when it carries the owning scheme, otherwise the scheme
// prefix followed by the raw local id.
func (it *Item) Key() types.Identifier {
	if it.scheme == "" || it.id.HasScheme(it.scheme) {
		return it.id
	}
	return types.WithScheme(it.scheme, string(it.id))
}

func (it *Item) Title() string                { return it.title }
func (it *Item) Subtitle() string             { return it.subtitle }
func (it *Item) IconName() string             { return it.iconName }
func (it *Item) Variant() types.Variant       { return it.variant }
func (it *Item) MemberKind() types.MemberKind { return it.member }

// HasChildren reports whether the item exposes a children producer
func (it *Item) HasChildren() bool {
	return it.children != nil
}

// Children invokes the producer; leaves return nil
func (it *Item) Children(s *Session) []*Item {
	if it.children == nil {
		return nil
	}
	return it.children(s)
}

// PathElement returns the element this item contributes to a path
func (it *Item) PathElement() types.PathElement {
	return types.PathElement{ID: it.Key(), IconName: it.iconName, Title: it.title}
}

// Metadata returns one metadata value
func (it *Item) Metadata(key string) (string, bool) {
	it.mu.RLock()
	defer it.mu.RUnlock()
	v, ok := it.metadata[key]
	return v, ok
}

// SetMetadata stores one metadata value
func (it *Item) SetMetadata(key, value string) {
	it.mu.Lock()
	defer it.mu.Unlock()
	it.metadata[key] = value
}

// MetadataKeys returns the metadata keys in sorted order
func (it *Item) MetadataKeys() []string {
	it.mu.RLock()
	defer it.mu.RUnlock()
	keys := make([]string, 0, len(it.metadata))
	for k := range it.metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MetadataSnapshot returns a copy of the metadata map
func (it *Item) MetadataSnapshot() map[string]string {
	it.mu.RLock()
	defer it.mu.RUnlock()
	out := make(map[string]string, len(it.metadata))
	for k, v := range it.metadata {
		out[k] = v
	}
	return out
}

func (it *Item) String() string {
	return string(it.Key())
}
