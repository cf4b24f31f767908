package types

import "fmt"

// Variant is the closed set of node shapes, fixed when an item is constructed.
// Presentation code switches on it instead of inspecting concrete types.
type Variant int

const (
	VariantLeaf Variant = iota
	VariantContainer
	VariantCategory
	VariantMember
)

var variantStrings = map[Variant]string{
	VariantLeaf:      "leaf",
	VariantContainer: "container",
	VariantCategory:  "category",
	VariantMember:    "member",
}

// String returns a string representation of the variant
func (v Variant) String() string {
	if name, ok := variantStrings[v]; ok {
		return name
	}
	return "unknown"
}

// ParseVariant is the inverse of Variant.String
func ParseVariant(s string) (Variant, error) {
	for v, name := range variantStrings {
		if name == s {
			return v, nil
		}
	}
	return VariantLeaf, fmt.Errorf("unknown variant %q", s)
}

// MarshalText implements encoding.TextMarshaler
func (v Variant) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (v *Variant) UnmarshalText(text []byte) error {
	parsed, err := ParseVariant(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// MemberKind refines VariantMember so views can split members into sub-lists
type MemberKind int

const (
	MemberOther MemberKind = iota
	MemberProperty
	MemberMethod
	MemberSignal
)

var memberKindStrings = map[MemberKind]string{
	MemberOther:    "other",
	MemberProperty: "property",
	MemberMethod:   "method",
	MemberSignal:   "signal",
}

// String returns a string representation of the member kind
func (k MemberKind) String() string {
	if name, ok := memberKindStrings[k]; ok {
		return name
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler
func (k MemberKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}
