package library

import (
	"context"
	"strconv"

	"github.com/standardbeagle/docnav/internal/debug"
	docerrors "github.com/standardbeagle/docnav/internal/errors"
	"github.com/standardbeagle/docnav/internal/provider"
	"github.com/standardbeagle/docnav/internal/tree"
	"github.com/standardbeagle/docnav/internal/types"
)

// Populate returns the children of path. The first call loads every
// provider concurrently, merges the batches in registration order into one
// commit, postprocesses, freezes and caches the collection; later calls
// and concurrent callers share that collection.
//
// A provider failure drops that provider's batch; if every provider fails
// the call fails. Cancellation commits and caches nothing.
//
// Any path below the root is populated after the root, so the root's
// postprocess passes have registered the nodes deeper paths pass through.
func (l *Library) Populate(ctx context.Context, path types.Path) (*tree.Collection, error) {
	if !path.IsEmpty() {
		if err := l.ensureRoot(ctx); err != nil {
			return nil, err
		}
	}
	for {
		if err := provider.CheckCancelled(ctx, "populate"); err != nil {
			return nil, err
		}
		if coll, ok := l.Cached(path); ok {
			return coll, nil
		}

		st := l.state()
		key := strconv.FormatUint(st.generation, 10) + "/" + strconv.FormatUint(path.Key(), 16)
		ch := l.flights.DoChan(key, func() (interface{}, error) {
			return l.populate(ctx, st, path)
		})

		select {
		case res := <-ch:
			if res.Err != nil {
				// a shared flight cancelled by another caller is retried
				if docerrors.IsCancelled(res.Err) && ctx.Err() == nil {
					continue
				}
				return nil, res.Err
			}
			return res.Val.(*tree.Collection), nil
		case <-ctx.Done():
			return nil, docerrors.Cancelled("populate "+path.String(), ctx.Err())
		}
	}
}

// ensureRoot populates the root if it is not cached yet. Only cancellation
// is fatal; a failed root still lets the deeper path load what it can.
func (l *Library) ensureRoot(ctx context.Context) error {
	if _, ok := l.Cached(types.Path{}); ok {
		return nil
	}
	if _, err := l.Populate(ctx, types.Path{}); err != nil {
		if docerrors.IsCancelled(err) {
			return err
		}
		logf("Warning: failed to populate the root: %v", err)
	}
	return nil
}

func (l *Library) populate(ctx context.Context, st state, path types.Path) (*tree.Collection, error) {
	if coll, ok := l.Cached(path); ok {
		return coll, nil
	}

	staged, errs := fanOut(ctx, st, path, func(ctx context.Context, p provider.Provider, coll *tree.Collection) error {
		return p.LoadChildren(ctx, path, coll)
	})
	if err := ctx.Err(); err != nil {
		return nil, docerrors.Cancelled("populate "+path.String(), err)
	}

	var batch []*tree.Item
	var failures []error
	for i, err := range errs {
		if err != nil {
			if docerrors.IsCancelled(err) {
				return nil, err
			}
			logf("Warning: provider %s failed to load %q: %v", st.providers[i].Name(), path.String(), err)
			failures = append(failures, err)
			continue
		}
		batch = append(batch, staged[i].Items()...)
	}
	if len(failures) > 0 && len(failures) == len(st.providers) {
		return nil, docerrors.NewMultiError(failures)
	}

	coll := tree.NewCollection(st.session, path)
	if err := coll.Commit(ctx, batch...); err != nil {
		return nil, err
	}

	for _, p := range st.providers {
		snapshot := coll.Snapshot()
		if err := p.Postprocess(coll); err != nil {
			logf("Warning: provider %s failed to postprocess %q: %v", p.Name(), path.String(), err)
			if rerr := coll.Restore(snapshot); rerr != nil {
				logf("Warning: failed to restore %q: %v", path.String(), rerr)
			}
		}
	}
	coll.Freeze()

	l.mu.Lock()
	defer l.mu.Unlock()
	if st.generation != l.generation {
		// reset while loading; the result belongs to a closed session
		return coll, nil
	}
	if existing, ok := l.cachedLocked(path); ok {
		return existing, nil
	}
	l.cache[path.Key()] = coll
	debug.LogProvider("populated %q with %d items\n", path.String(), coll.Len())
	return coll, nil
}

// PopulateTask is the future of an asynchronous Populate
type PopulateTask struct {
	*provider.Task

	coll *tree.Collection
}

// Result waits for the populate and returns its collection
func (t *PopulateTask) Result(ctx context.Context) (*tree.Collection, error) {
	if err := t.Wait(ctx); err != nil {
		return nil, err
	}
	return t.coll, nil
}

// PopulateAsync runs Populate on its own goroutine
func (l *Library) PopulateAsync(ctx context.Context, path types.Path) *PopulateTask {
	pt := &PopulateTask{}
	pt.Task = provider.Go(ctx, func(ctx context.Context) error {
		coll, err := l.Populate(ctx, path)
		if err != nil {
			return err
		}
		pt.coll = coll
		return nil
	})
	return pt
}

// Resolve populates every prefix of path from the root down and returns
// the item the path ends at. The empty path resolves to nil.
func (l *Library) Resolve(ctx context.Context, path types.Path) (*tree.Item, error) {
	var item *tree.Item
	for i := 0; i < path.Len(); i++ {
		coll, err := l.Populate(ctx, path.Prefix(i))
		if err != nil {
			return nil, err
		}
		id := path.Element(i).ID
		idx := coll.IndexOf(id)
		if idx < 0 {
			return nil, docerrors.NewProviderError("library", "resolve", docerrors.ErrNotFound).WithTarget(string(id))
		}
		item = coll.At(idx)
	}
	return item, nil
}

// Locate finds id and the path it is reached by. An id the session has not
// seen is reached by populating down the chain a Locator provider reports,
// below wherever the session placed the chain's outermost node. Items no
// locator can place are returned with an empty path.
func (l *Library) Locate(ctx context.Context, id types.Identifier) (*tree.Item, types.Path, error) {
	if err := l.ensureRoot(ctx); err != nil {
		return nil, types.Path{}, err
	}
	if it, ok := l.Session().Lookup(id); ok {
		if path, err := tree.ComputePath(l.Session(), it); err == nil {
			return it, path, nil
		}
	}

	for _, p := range l.Providers() {
		loc, ok := p.(Locator)
		if !ok {
			continue
		}
		chain, ok, err := loc.Ancestors(ctx, id)
		if err != nil {
			if docerrors.IsCancelled(err) {
				return nil, types.Path{}, err
			}
			logf("Warning: provider %s failed to locate %s: %v", p.Name(), id, err)
			continue
		}
		if !ok {
			continue
		}
		it, path, err := l.replay(ctx, append(chain, id))
		if err != nil {
			if docerrors.IsCancelled(err) {
				return nil, types.Path{}, err
			}
			debug.LogProvider("locate %s through %s: %v\n", id, p.Name(), err)
			continue
		}
		return it, path, nil
	}

	if it, ok := l.Lookup(id); ok {
		return it, types.Path{}, nil
	}
	return nil, types.Path{}, docerrors.NewProviderError("library", "locate", docerrors.ErrNotFound).WithTarget(string(id))
}

// replay resolves chain below the position the session gives its first id
func (l *Library) replay(ctx context.Context, chain []types.Identifier) (*tree.Item, types.Path, error) {
	s := l.Session()
	top, ok := s.Lookup(chain[0])
	if !ok {
		return nil, types.Path{}, docerrors.NewProviderError("library", "locate", docerrors.ErrNotFound).WithTarget(string(chain[0]))
	}
	prefix, err := tree.ComputePath(s, top)
	if err != nil {
		return nil, types.Path{}, err
	}

	ids := make([]types.Identifier, 0, prefix.Len()+len(chain)-1)
	for _, e := range prefix.Elements() {
		ids = append(ids, e.ID)
	}
	ids = append(ids, chain[1:]...)

	it, err := l.Resolve(ctx, types.PathOf(ids...))
	if err != nil {
		return nil, types.Path{}, err
	}
	path, err := tree.ComputePath(l.Session(), it)
	if err != nil {
		return nil, types.Path{}, err
	}
	return it, path, nil
}
