package view

import (
	"context"
	"sync"

	"github.com/standardbeagle/docnav/internal/debug"
	"github.com/standardbeagle/docnav/internal/library"
	"github.com/standardbeagle/docnav/internal/tree"
	"github.com/standardbeagle/docnav/internal/types"
)

// Navigator is a Surface that owns the current item and broadcasts its
// changes to the attached views in attach order
type Navigator struct {
	lib *library.Library
	ctx context.Context

	mu      sync.Mutex
	views   []View
	current *tree.Item
	path    types.Path

	// serializes broadcasts so every view sees changes in the same order
	notifyMu sync.Mutex
}

// NewNavigator returns a navigator positioned at the root
func NewNavigator(ctx context.Context, lib *library.Library) *Navigator {
	return &Navigator{lib: lib, ctx: ctx}
}

// Library implements Surface
func (n *Navigator) Library() *library.Library { return n.lib }

// Context implements Surface
func (n *Navigator) Context() context.Context { return n.ctx }

// Attach adds v and tells it the current item
func (n *Navigator) Attach(v View) {
	n.notifyMu.Lock()
	defer n.notifyMu.Unlock()

	n.mu.Lock()
	n.views = append(n.views, v)
	current := n.current
	n.mu.Unlock()

	v.OnAttach(n)
	v.OnCurrentItemChanged(current)
}

// Detach removes v; it reports false when v was not attached
func (n *Navigator) Detach(v View) bool {
	n.notifyMu.Lock()
	defer n.notifyMu.Unlock()

	n.mu.Lock()
	idx := -1
	for i, existing := range n.views {
		if existing == v {
			idx = i
			break
		}
	}
	if idx < 0 {
		n.mu.Unlock()
		return false
	}
	n.views = append(n.views[:idx], n.views[idx+1:]...)
	n.mu.Unlock()

	v.OnDetach(n)
	return true
}

// Close detaches every view, last attached first
func (n *Navigator) Close() {
	n.notifyMu.Lock()
	defer n.notifyMu.Unlock()

	n.mu.Lock()
	views := n.views
	n.views = nil
	n.mu.Unlock()

	for i := len(views) - 1; i >= 0; i-- {
		views[i].OnDetach(n)
	}
}

// Current returns the current item, nil at the root
func (n *Navigator) Current() *tree.Item {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// Path returns the path of the current item
func (n *Navigator) Path() types.Path {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.path
}

// SetCurrent selects item and notifies every view
func (n *Navigator) SetCurrent(item *tree.Item) {
	var path types.Path
	if item != nil {
		computed, err := tree.ComputePath(n.lib.Session(), item)
		if err == nil {
			path = computed
		}
	}
	n.set(item, path)
}

func (n *Navigator) set(item *tree.Item, path types.Path) {
	n.notifyMu.Lock()
	defer n.notifyMu.Unlock()

	n.mu.Lock()
	n.current = item
	n.path = path
	views := append([]View(nil), n.views...)
	n.mu.Unlock()

	debug.Log("VIEW", "current item %v, %d views\n", item, len(views))
	for _, v := range views {
		v.OnCurrentItemChanged(item)
	}
}

// Navigate resolves path through the library and makes its terminal
// item current. The empty path selects the root.
func (n *Navigator) Navigate(ctx context.Context, path types.Path) (*tree.Item, error) {
	item, err := n.lib.Resolve(ctx, path)
	if err != nil {
		return nil, err
	}
	n.set(item, path)
	return item, nil
}

// Up moves to the parent of the current item
func (n *Navigator) Up(ctx context.Context) (*tree.Item, error) {
	return n.Navigate(ctx, n.Path().Parent())
}
