package types

import (
	"encoding/json"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// PathElement is one (identifier, icon, title) step on the way from the root to a node
type PathElement struct {
	ID       Identifier `json:"id"`
	IconName string     `json:"icon,omitempty"`
	Title    string     `json:"title"`
}

// Path is the root-to-node sequence of elements identifying a tree location.
// The zero value is the empty path, which denotes the tree root.
// Paths are values: Push never modifies the receiver.
type Path struct {
	elements []PathElement
}

// NewPath builds a path from root-first elements
func NewPath(elements ...PathElement) Path {
	p := Path{}
	for _, e := range elements {
		p = p.Push(e)
	}
	return p
}

// PathOf builds a path of bare identifiers, mostly useful for lookups
// where icon and title do not matter.
func PathOf(ids ...Identifier) Path {
	elements := make([]PathElement, len(ids))
	for i, id := range ids {
		elements[i] = PathElement{ID: id}
	}
	return Path{elements: elements}
}

// ParsePath splits a comma-joined identifier list as produced by String
func ParsePath(s string) Path {
	s = strings.TrimSpace(s)
	if s == "" {
		return Path{}
	}
	parts := strings.Split(s, ",")
	ids := make([]Identifier, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			ids = append(ids, Identifier(part))
		}
	}
	return PathOf(ids...)
}

// Push returns a new path with elem appended
func (p Path) Push(elem PathElement) Path {
	elements := make([]PathElement, len(p.elements), len(p.elements)+1)
	copy(elements, p.elements)
	return Path{elements: append(elements, elem)}
}

// Len returns the number of elements
func (p Path) Len() int {
	return len(p.elements)
}

// IsEmpty reports whether the path denotes the root
func (p Path) IsEmpty() bool {
	return len(p.elements) == 0
}

// Element returns the element at index i; it panics when i is out of range
func (p Path) Element(i int) PathElement {
	return p.elements[i]
}

// Last returns the terminal element, or false on the empty path
func (p Path) Last() (PathElement, bool) {
	if len(p.elements) == 0 {
		return PathElement{}, false
	}
	return p.elements[len(p.elements)-1], true
}

// Parent returns the path without its terminal element
func (p Path) Parent() Path {
	if len(p.elements) <= 1 {
		return Path{}
	}
	return Path{elements: p.elements[: len(p.elements)-1 : len(p.elements)-1]}
}

// Prefix returns the first n elements; n is clamped to the path length
func (p Path) Prefix(n int) Path {
	if n <= 0 {
		return Path{}
	}
	if n >= len(p.elements) {
		return p
	}
	return Path{elements: p.elements[:n:n]}
}

// Elements returns a copy of the elements
func (p Path) Elements() []PathElement {
	out := make([]PathElement, len(p.elements))
	copy(out, p.elements)
	return out
}

// HasPrefix reports whether prefix is a leading subsequence of p,
// comparing identifiers only. Every path has the empty path as prefix.
func (p Path) HasPrefix(prefix Path) bool {
	if prefix.Len() > p.Len() {
		return false
	}
	for i, e := range prefix.elements {
		if p.elements[i].ID != e.ID {
			return false
		}
	}
	return true
}

// Equal reports whether both paths carry the same identifiers in order
func (p Path) Equal(other Path) bool {
	return p.Len() == other.Len() && p.HasPrefix(other)
}

// String joins the identifiers with commas, e.g. "a,b,c"
func (p Path) String() string {
	ids := make([]string, len(p.elements))
	for i, e := range p.elements {
		ids[i] = string(e.ID)
	}
	return strings.Join(ids, ",")
}

// Key returns a stable fingerprint of the identifier sequence.
// Icons and titles do not contribute.
func (p Path) Key() uint64 {
	h := xxhash.New()
	for _, e := range p.elements {
		_, _ = h.WriteString(string(e.ID))
		_, _ = h.Write([]byte{0})
	}
	return h.Sum64()
}

// MarshalJSON encodes the path as its element list
func (p Path) MarshalJSON() ([]byte, error) {
	if p.elements == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(p.elements)
}

// UnmarshalJSON decodes an element list
func (p *Path) UnmarshalJSON(data []byte) error {
	var elements []PathElement
	if err := json.Unmarshal(data, &elements); err != nil {
		return err
	}
	*p = NewPath(elements...)
	return nil
}
