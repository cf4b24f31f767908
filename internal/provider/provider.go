// Package provider defines the contract every content source implements.
//
// All operations that may wait on an external collaborator take a
// context.Context. Success is a nil error; cancellation yields an error
// matching errors.ErrCancelled and leaves the collection and identity
// cache untouched; collaborator failures are *errors.ProviderError.
// Not-found lookups are a normal (nil, false) return.
package provider

import (
	"context"

	docerrors "github.com/standardbeagle/docnav/internal/errors"
	"github.com/standardbeagle/docnav/internal/tree"
	"github.com/standardbeagle/docnav/internal/types"
)

// Provider is a pluggable content source
type Provider interface {
	// Name identifies the provider for lookups and logs
	Name() string

	// LoadChildren appends the children of path to coll in one commit.
	// The empty path asks for the provider's top-level nodes.
	LoadChildren(ctx context.Context, path types.Path, coll *tree.Collection) error

	// Postprocess runs after every provider finished loading coll, in
	// registration order. It must not block on I/O.
	Postprocess(coll *tree.Collection) error

	// LoadItem resolves an identifier without walking from the root
	LoadItem(s *tree.Session, id types.Identifier) (*tree.Item, bool)

	// ExtendItem enriches an item's metadata; items needing nothing succeed
	ExtendItem(ctx context.Context, item *tree.Item) error

	// Search commits matching items into results
	Search(ctx context.Context, criteria SearchCriteria, results *tree.Collection) error

	// SupportedLanguages advertises the languages the content documents
	SupportedLanguages() []string
}

// SearchCriteria selects items for a keyword search
type SearchCriteria struct {
	Text     string
	Limit    int             // 0 = provider default
	Variants []types.Variant // empty = any variant
}

// Accepts reports whether v passes the variant filter
func (c SearchCriteria) Accepts(v types.Variant) bool {
	if len(c.Variants) == 0 {
		return true
	}
	for _, want := range c.Variants {
		if want == v {
			return true
		}
	}
	return false
}

// Base supplies no-op defaults. Embed it and override what the provider
// actually does.
type Base struct{}

// LoadChildren contributes nothing
func (Base) LoadChildren(ctx context.Context, _ types.Path, _ *tree.Collection) error {
	return CheckCancelled(ctx, "load_children")
}

// Postprocess leaves the collection as is
func (Base) Postprocess(*tree.Collection) error { return nil }

// LoadItem knows no identifiers
func (Base) LoadItem(*tree.Session, types.Identifier) (*tree.Item, bool) { return nil, false }

// ExtendItem adds nothing
func (Base) ExtendItem(ctx context.Context, _ *tree.Item) error {
	return CheckCancelled(ctx, "extend_item")
}

// Search finds nothing
func (Base) Search(ctx context.Context, _ SearchCriteria, _ *tree.Collection) error {
	return CheckCancelled(ctx, "search")
}

// SupportedLanguages advertises nothing
func (Base) SupportedLanguages() []string { return nil }

// CheckCancelled converts a done context into the cancelled outcome
func CheckCancelled(ctx context.Context, op string) error {
	if err := ctx.Err(); err != nil {
		return docerrors.Cancelled(op, err)
	}
	return nil
}
