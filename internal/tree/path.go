package tree

import (
	"github.com/standardbeagle/docnav/internal/debug"
	docerrors "github.com/standardbeagle/docnav/internal/errors"
	"github.com/standardbeagle/docnav/internal/types"
)

// ComputePath rebuilds the root-to-item path by walking parent keys in the
// session. An ancestor missing from the session (evicted, or never
// registered) ends the walk. A chain that revisits a node is reported as
// an invariant violation and yields an empty path.
func ComputePath(s *Session, item *Item) (types.Path, error) {
	if item == nil {
		return types.Path{}, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	chain := []*Item{item}
	seen := map[types.Identifier]bool{item.Key(): true}
	key := item.Key()

	for {
		e, ok := s.entries[key]
		if !ok || e.parent == "" {
			break
		}
		if seen[e.parent] {
			err := docerrors.NewInvariantError(string(e.parent), docerrors.ErrCyclicParent)
			debug.Invariant("%v", err)
			return types.Path{}, err
		}
		pe, ok := s.entries[e.parent]
		if !ok {
			break
		}
		seen[e.parent] = true
		chain = append(chain, pe.item)
		key = e.parent
	}

	path := types.Path{}
	for i := len(chain) - 1; i >= 0; i-- {
		path = path.Push(chain[i].PathElement())
	}
	return path, nil
}

// Resolve maps every element of a path back to its cached item. It stops
// at the first identifier the session does not know.
func Resolve(s *Session, path types.Path) ([]*Item, bool) {
	items := make([]*Item, 0, path.Len())
	for i := 0; i < path.Len(); i++ {
		it, ok := s.Lookup(path.Element(i).ID)
		if !ok {
			return items, false
		}
		items = append(items, it)
	}
	return items, true
}
