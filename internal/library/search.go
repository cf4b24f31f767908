package library

import (
	"context"

	"github.com/standardbeagle/docnav/internal/debug"
	docerrors "github.com/standardbeagle/docnav/internal/errors"
	"github.com/standardbeagle/docnav/internal/provider"
	"github.com/standardbeagle/docnav/internal/tree"
	"github.com/standardbeagle/docnav/internal/types"
)

// Search runs the query on every provider concurrently. Providers that
// report cancellation are skipped, other failures are logged; the merged
// results are de-duplicated by identifier and frozen.
func (l *Library) Search(ctx context.Context, criteria provider.SearchCriteria) (*tree.Collection, error) {
	if err := provider.CheckCancelled(ctx, "search"); err != nil {
		return nil, err
	}
	st := l.state()
	staged, errs := fanOut(ctx, st, types.Path{}, func(ctx context.Context, p provider.Provider, coll *tree.Collection) error {
		return p.Search(ctx, criteria, coll)
	})
	if err := ctx.Err(); err != nil {
		return nil, docerrors.Cancelled("search", err)
	}

	var merged []*tree.Item
	for i, err := range errs {
		switch {
		case err == nil:
			merged = append(merged, staged[i].Items()...)
		case docerrors.IsCancelled(err):
			debug.LogProvider("search: provider %s cancelled\n", st.providers[i].Name())
		default:
			logf("Warning: provider %s failed to search %q: %v", st.providers[i].Name(), criteria.Text, err)
		}
	}

	results := tree.NewStagingCollection(st.session, types.Path{})
	if err := results.Commit(ctx, merged...); err != nil {
		return nil, err
	}
	if criteria.Limit > 0 {
		for results.Len() > criteria.Limit {
			if err := results.RemoveAt(results.Len() - 1); err != nil {
				return nil, err
			}
		}
	}
	results.Freeze()
	return results, nil
}
