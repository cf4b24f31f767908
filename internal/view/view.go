// Package view defines how presentation code follows the navigation: a
// View is attached to a Surface and told whenever the current item changes.
package view

import (
	"context"

	"github.com/standardbeagle/docnav/internal/library"
	"github.com/standardbeagle/docnav/internal/tree"
)

// Surface is what a view is attached to
type Surface interface {
	Library() *library.Library
	Context() context.Context
}

// View receives the lifecycle and current-item notifications of a surface.
// A nil item means nothing is selected.
type View interface {
	OnAttach(s Surface)
	OnDetach(s Surface)
	OnCurrentItemChanged(item *tree.Item)
}
