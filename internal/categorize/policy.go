package categorize

import (
	"fmt"
	"strings"

	"github.com/standardbeagle/docnav/internal/types"
)

// Order is the direction categories are sorted by title before insertion
type Order int

const (
	TitleAscending Order = iota
	TitleDescending
)

func (o Order) String() string {
	if o == TitleDescending {
		return "descending"
	}
	return "ascending"
}

// ParseOrder accepts "ascending"/"asc" and "descending"/"desc"
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "ascending", "asc":
		return TitleAscending, nil
	case "descending", "desc":
		return TitleDescending, nil
	}
	return TitleAscending, fmt.Errorf("unknown category order %q", s)
}

// Insertion is how the sorted categories reach the front of the collection
type Insertion int

const (
	// InsertBlock puts the sorted categories at the front in sorted order
	InsertBlock Insertion = iota
	// PrependEach prepends categories one by one in sorted order, so the
	// last sorted category ends up first
	PrependEach
)

func (i Insertion) String() string {
	if i == PrependEach {
		return "prepend"
	}
	return "block"
}

// ParseInsertion accepts "block" and "prepend"
func ParseInsertion(s string) (Insertion, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "block":
		return InsertBlock, nil
	case "prepend", "prepend-each", "prepend_each":
		return PrependEach, nil
	}
	return InsertBlock, fmt.Errorf("unknown category insertion %q", s)
}

// Fallback decides what happens to children with no mapping entry
type Fallback struct {
	category types.Identifier
}

// NoFallback leaves unmatched children where they are
func NoFallback() Fallback { return Fallback{} }

// FallbackTo moves unmatched children into the given category
func FallbackTo(category types.Identifier) Fallback { return Fallback{category: category} }

// Category returns the fallback category, or false for NoFallback
func (f Fallback) Category() (types.Identifier, bool) {
	return f.category, f.category != ""
}

func (f Fallback) String() string {
	if f.category == "" {
		return "none"
	}
	return string(f.category)
}

// ParseFallback accepts "none" (or empty) or a category identifier
func ParseFallback(s string) Fallback {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "none") {
		return NoFallback()
	}
	return FallbackTo(types.Identifier(s))
}

// Policy is the per-categorizer configuration of the two behaviours that
// differ between categorizer variants.
type Policy struct {
	Fallback  Fallback
	Order     Order
	Insertion Insertion
}

// DefaultPolicy leaves unmatched children alone and shows categories at the
// front in ascending title order.
func DefaultPolicy() Policy {
	return Policy{Fallback: NoFallback(), Order: TitleAscending, Insertion: InsertBlock}
}

// PlatformPolicy sorts ascending and prepends each category, leaving them
// in descending title order at the front. Unmatched children stay put.
func PlatformPolicy() Policy {
	return Policy{Fallback: NoFallback(), Order: TitleAscending, Insertion: PrependEach}
}

// GnomePlatformPolicy sorts descending and prepends each category, leaving
// them in ascending title order at the front. Unmatched children go to
// "platform:other".
func GnomePlatformPolicy() Policy {
	return Policy{Fallback: FallbackTo(OtherCategory), Order: TitleDescending, Insertion: PrependEach}
}

// FrontOrder returns the order categories end up in at the front
func (p Policy) FrontOrder() Order {
	if p.Insertion == PrependEach {
		if p.Order == TitleAscending {
			return TitleDescending
		}
		return TitleAscending
	}
	return p.Order
}

func (p Policy) String() string {
	return fmt.Sprintf("fallback=%s order=%s insertion=%s", p.Fallback, p.Order, p.Insertion)
}
