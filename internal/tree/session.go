package tree

import (
	"container/list"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/standardbeagle/docnav/internal/debug"
	docerrors "github.com/standardbeagle/docnav/internal/errors"
	"github.com/standardbeagle/docnav/internal/types"
)

// ErrSessionClosed is returned when registering into a closed session
var ErrSessionClosed = errors.New("session closed")

// Session is the identity cache of one browsing session: an arena of items
// keyed by identifier, with each node's parent stored as a key.
// Lookups run concurrently; registrations are serialized.
type Session struct {
	id string

	mu       sync.RWMutex
	entries  map[types.Identifier]*entry
	order    *list.List // registration order, oldest first
	children map[types.Identifier]int
	maxItems int
	closed   bool
}

type entry struct {
	item   *Item
	parent types.Identifier
	elem   *list.Element
}

// SessionOption configures a Session
type SessionOption func(*Session)

// WithMaxItems bounds the arena. Beyond the bound the oldest nodes that are
// nobody's parent are evicted and later lookups of them report not-found.
// Zero means unbounded.
func WithMaxItems(n int) SessionOption {
	return func(s *Session) {
		if n > 0 {
			s.maxItems = n
		}
	}
}

// NewSession starts a session with an empty identity cache
func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		id:       uuid.NewString(),
		entries:  make(map[types.Identifier]*entry),
		order:    list.New(),
		children: make(map[types.Identifier]int),
	}
	for _, opt := range opts {
		opt(s)
	}
	debug.LogTree("session %s started\n", s.id)
	return s
}

// ID identifies the session in logs and caches
func (s *Session) ID() string { return s.id }

// Len returns the number of cached items
func (s *Session) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Close ends the session and drops every cached item
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[types.Identifier]*entry)
	s.children = make(map[types.Identifier]int)
	s.order.Init()
	s.closed = true
	debug.LogTree("session %s closed\n", s.id)
}

// Lookup returns the canonical instance for an identifier
func (s *Session) Lookup(id types.Identifier) (*Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.entries[id]; ok {
		return e.item, true
	}
	return nil, false
}

// Parent returns the parent key of a registered item. Root nodes report
// an empty identifier.
func (s *Session) Parent(id types.Identifier) (types.Identifier, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.entries[id]; ok {
		return e.parent, true
	}
	return "", false
}

// ChildrenOf returns the registered items whose parent is id, in
// registration order
func (s *Session) ChildrenOf(id types.Identifier) []*Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.children[id] == 0 {
		return nil
	}
	out := make([]*Item, 0, s.children[id])
	for el := s.order.Front(); el != nil; el = el.Next() {
		if e := s.entries[el.Value.(types.Identifier)]; e.parent == id {
			out = append(out, e.item)
		}
	}
	return out
}

// Register adds one item under parent. Registering the same instance again
// is a no-op; a different instance under a known identifier is rejected.
func (s *Session) Register(item *Item, parent types.Identifier) error {
	if item == nil {
		return errors.New("register: nil item")
	}
	if _, errs := s.register(parent, []*Item{item}); len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// RegisterBatch registers items under one parent in a single critical
// section and returns the accepted items in input order, without repeats.
// Items violating identity uniqueness are reported and skipped.
func (s *Session) RegisterBatch(parent types.Identifier, items []*Item) []*Item {
	accepted, _ := s.register(parent, items)
	return accepted
}

func (s *Session) register(parent types.Identifier, items []*Item) ([]*Item, []error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, []error{ErrSessionClosed}
	}

	var errs []error
	accepted := make([]*Item, 0, len(items))
	seen := make(map[types.Identifier]*Item, len(items))

	for _, item := range items {
		if item == nil {
			continue
		}
		key := item.Key()
		if key.IsEmpty() {
			err := docerrors.NewInvariantError("", fmt.Errorf("item %q has no identifier", item.Title()))
			debug.Invariant("%v", err)
			errs = append(errs, err)
			continue
		}
		if prior, ok := seen[key]; ok {
			if prior != item {
				errs = append(errs, s.duplicate(key))
			}
			continue
		}
		if e, ok := s.entries[key]; ok {
			if e.item != item {
				errs = append(errs, s.duplicate(key))
				continue
			}
			seen[key] = item
			accepted = append(accepted, item)
			continue
		}

		seen[key] = item
		accepted = append(accepted, item)
		e := &entry{item: item, parent: parent}
		e.elem = s.order.PushBack(key)
		s.entries[key] = e
		if parent != "" {
			s.children[parent]++
		}
	}

	s.evictLocked()
	return accepted, errs
}

func (s *Session) duplicate(key types.Identifier) error {
	err := docerrors.NewInvariantError(string(key), docerrors.ErrDuplicateIdentity)
	debug.Invariant("%v", err)
	return err
}

// Reparent moves a registered item under a new parent. The new parent must
// be registered (or empty for the root) and must not descend from the item.
func (s *Session) Reparent(id, parent types.Identifier) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return fmt.Errorf("reparent %s: %w", id, docerrors.ErrNotFound)
	}
	if parent != "" {
		if _, ok := s.entries[parent]; !ok {
			return fmt.Errorf("reparent %s under %s: %w", id, parent, docerrors.ErrNotFound)
		}
		for cur, steps := parent, 0; cur != ""; steps++ {
			if cur == id || steps > len(s.entries) {
				err := docerrors.NewInvariantError(string(id), docerrors.ErrCyclicParent)
				debug.Invariant("%v", err)
				return err
			}
			ce, ok := s.entries[cur]
			if !ok {
				break
			}
			cur = ce.parent
		}
	}

	if e.parent != "" {
		s.decChild(e.parent)
	}
	e.parent = parent
	if parent != "" {
		s.children[parent]++
	}
	return nil
}

// Unregister drops an item that parents nothing. Items that still have
// children are kept and reported.
func (s *Session) Unregister(id types.Identifier) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return fmt.Errorf("unregister %s: %w", id, docerrors.ErrNotFound)
	}
	if n := s.children[id]; n > 0 {
		return fmt.Errorf("unregister %s: still parents %d items", id, n)
	}
	if e.parent != "" {
		s.decChild(e.parent)
	}
	s.order.Remove(e.elem)
	delete(s.entries, id)
	return nil
}

func (s *Session) decChild(parent types.Identifier) {
	if n := s.children[parent] - 1; n > 0 {
		s.children[parent] = n
	} else {
		delete(s.children, parent)
	}
}

// evictLocked trims the arena to maxItems, oldest first, keeping every
// node that is still some other node's parent.
func (s *Session) evictLocked() {
	if s.maxItems <= 0 || len(s.entries) <= s.maxItems {
		return
	}
	for el := s.order.Front(); el != nil && len(s.entries) > s.maxItems; {
		next := el.Next()
		key := el.Value.(types.Identifier)
		if s.children[key] == 0 {
			e := s.entries[key]
			if e.parent != "" {
				s.decChild(e.parent)
			}
			delete(s.entries, key)
			s.order.Remove(el)
			debug.LogTree("session %s evicted %s\n", s.id, key)
		}
		el = next
	}
}
