package types

import "strings"

// Identifier is an opaque, provider-scoped node identity such as "gir:Gtk-3.0".
// Equality is byte-wise string equality.
type Identifier string

// SchemeSeparator ends the scheme prefix of an identifier
const SchemeSeparator = ":"

// Scheme returns the scheme prefix including the trailing separator,
// e.g. "gir:" for "gir:Gtk-3.0". Identifiers without a separator have no scheme.
func (id Identifier) Scheme() string {
	if i := strings.Index(string(id), SchemeSeparator); i >= 0 {
		return string(id[:i+1])
	}
	return ""
}

// HasScheme reports whether the identifier starts with scheme
func (id Identifier) HasScheme(scheme string) bool {
	return scheme != "" && strings.HasPrefix(string(id), scheme)
}

// IsEmpty reports whether the identifier is unset
func (id Identifier) IsEmpty() bool {
	return id == ""
}

func (id Identifier) String() string {
	return string(id)
}

// WithScheme synthesizes an identifier from a provider scheme and a raw local id.
// A local id already carrying the scheme is returned unchanged.
func WithScheme(scheme string, local string) Identifier {
	if scheme != "" && strings.HasPrefix(local, scheme) {
		return Identifier(local)
	}
	return Identifier(scheme + local)
}
