package tree

import (
	"context"
	"fmt"
	"sync"

	"github.com/standardbeagle/docnav/internal/debug"
	docerrors "github.com/standardbeagle/docnav/internal/errors"
	"github.com/standardbeagle/docnav/internal/types"
)

// Change describes one mutation of a collection, in list-model terms:
// at Position, Removed items were dropped and Added items inserted.
type Change struct {
	Position int
	Removed  int
	Added    int
}

// Collection is the ordered set of children assembled for one path.
// It is mutable while providers load and postprocess it, and frozen once
// handed to presentation.
type Collection struct {
	session *Session
	path    types.Path
	staging bool

	mu          sync.RWMutex
	items       []*Item
	frozen      bool
	subscribers map[int]func(Change)
	nextSub     int
}

// NewCollection creates an empty collection for path whose commits register
// items in s.
func NewCollection(s *Session, path types.Path) *Collection {
	return &Collection{session: s, path: path}
}

// NewStagingCollection creates a collection whose commits only record the
// items. The library hands these to providers and registers the merged
// batch itself.
func NewStagingCollection(s *Session, path types.Path) *Collection {
	return &Collection{session: s, path: path, staging: true}
}

// Session returns the identity cache providers resolve against
func (c *Collection) Session() *Session { return c.session }

// Path returns the path of the node whose children this collection holds
func (c *Collection) Path() types.Path { return c.path }

// IsStaging reports whether commits skip registration
func (c *Collection) IsStaging() bool { return c.staging }

// Len returns the number of items
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// At returns the item at index i, or nil when out of range
func (c *Collection) At(i int) *Item {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if i < 0 || i >= len(c.items) {
		return nil
	}
	return c.items[i]
}

// Items returns a snapshot of the current contents
func (c *Collection) Items() []*Item {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Item, len(c.items))
	copy(out, c.items)
	return out
}

// Snapshot is an alias of Items used before transactional passes
func (c *Collection) Snapshot() []*Item {
	return c.Items()
}

// IndexOf returns the position of the item with the given key, or -1
func (c *Collection) IndexOf(id types.Identifier) int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.indexOfLocked(id)
}

func (c *Collection) indexOfLocked(id types.Identifier) int {
	for i, it := range c.items {
		if it.Key() == id {
			return i
		}
	}
	return -1
}

// Freeze makes the collection read-only
func (c *Collection) Freeze() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frozen = true
}

// Frozen reports whether the collection is read-only
func (c *Collection) Frozen() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.frozen
}

// Subscribe registers fn for change notifications and returns a function
// that removes it. Notifications run after the mutation, outside the lock.
func (c *Collection) Subscribe(fn func(Change)) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.subscribers == nil {
		c.subscribers = make(map[int]func(Change))
	}
	id := c.nextSub
	c.nextSub++
	c.subscribers[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subscribers, id)
	}
}

// Commit appends a batch as one unit. Cancellation is checked before
// anything changes; on a non-staging collection every item is registered
// in the session under the path's terminal identifier. Items already in
// the collection, repeated items and identity conflicts are skipped.
func (c *Collection) Commit(ctx context.Context, items ...*Item) error {
	if err := ctx.Err(); err != nil {
		return docerrors.Cancelled("commit "+c.path.String(), err)
	}

	c.mu.Lock()
	if c.frozen {
		c.mu.Unlock()
		return docerrors.ErrFrozen
	}

	fresh := make([]*Item, 0, len(items))
	seen := make(map[types.Identifier]bool, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		key := it.Key()
		if seen[key] || c.indexOfLocked(key) >= 0 {
			continue
		}
		seen[key] = true
		fresh = append(fresh, it)
	}

	accepted := fresh
	if !c.staging && c.session != nil {
		var parent types.Identifier
		if last, ok := c.path.Last(); ok {
			parent = last.ID
		}
		accepted = c.session.RegisterBatch(parent, fresh)
	}

	pos := len(c.items)
	c.items = append(c.items, accepted...)
	subs := c.subscribersLocked()
	c.mu.Unlock()

	debug.LogTree("committed %d items to %q\n", len(accepted), c.path.String())
	notify(subs, Change{Position: pos, Added: len(accepted)})
	return nil
}

// Append adds one item at the end without registering it
func (c *Collection) Append(item *Item) error {
	return c.Insert(c.Len(), item)
}

// Prepend adds one item at the front without registering it
func (c *Collection) Prepend(item *Item) error {
	return c.Insert(0, item)
}

// Insert places item at position i
func (c *Collection) Insert(i int, item *Item) error {
	c.mu.Lock()
	if c.frozen {
		c.mu.Unlock()
		return docerrors.ErrFrozen
	}
	if i < 0 || i > len(c.items) {
		c.mu.Unlock()
		return fmt.Errorf("insert position %d out of range [0,%d]", i, len(c.items))
	}
	c.items = append(c.items, nil)
	copy(c.items[i+1:], c.items[i:])
	c.items[i] = item
	subs := c.subscribersLocked()
	c.mu.Unlock()

	notify(subs, Change{Position: i, Added: 1})
	return nil
}

// RemoveAt drops the item at position i
func (c *Collection) RemoveAt(i int) error {
	c.mu.Lock()
	if c.frozen {
		c.mu.Unlock()
		return docerrors.ErrFrozen
	}
	if i < 0 || i >= len(c.items) {
		c.mu.Unlock()
		return fmt.Errorf("remove position %d out of range [0,%d)", i, len(c.items))
	}
	c.items = append(c.items[:i], c.items[i+1:]...)
	subs := c.subscribersLocked()
	c.mu.Unlock()

	notify(subs, Change{Position: i, Removed: 1})
	return nil
}

// Remove drops item by instance and reports whether it was present
func (c *Collection) Remove(item *Item) (bool, error) {
	c.mu.RLock()
	pos := -1
	for i, it := range c.items {
		if it == item {
			pos = i
			break
		}
	}
	c.mu.RUnlock()
	if pos < 0 {
		return false, nil
	}
	return true, c.RemoveAt(pos)
}

// Restore replaces the contents with a previous snapshot
func (c *Collection) Restore(items []*Item) error {
	c.mu.Lock()
	if c.frozen {
		c.mu.Unlock()
		return docerrors.ErrFrozen
	}
	removed := len(c.items)
	c.items = make([]*Item, len(items))
	copy(c.items, items)
	subs := c.subscribersLocked()
	c.mu.Unlock()

	notify(subs, Change{Position: 0, Removed: removed, Added: len(items)})
	return nil
}

// DuplicateIDs lists identifiers that occur more than once
func (c *Collection) DuplicateIDs() []types.Identifier {
	c.mu.RLock()
	defer c.mu.RUnlock()
	counts := make(map[types.Identifier]int, len(c.items))
	var dups []types.Identifier
	for _, it := range c.items {
		key := it.Key()
		counts[key]++
		if counts[key] == 2 {
			dups = append(dups, key)
		}
	}
	return dups
}

func (c *Collection) subscribersLocked() []func(Change) {
	if len(c.subscribers) == 0 {
		return nil
	}
	out := make([]func(Change), 0, len(c.subscribers))
	for i := 0; i < c.nextSub; i++ {
		if fn, ok := c.subscribers[i]; ok {
			out = append(out, fn)
		}
	}
	return out
}

func notify(subs []func(Change), ch Change) {
	for _, fn := range subs {
		fn(ch)
	}
}
