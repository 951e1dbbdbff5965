package ktype

import (
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Bindings maps generic slot names to the concrete types inferred for them.
type Bindings map[string]*Type

// Clone returns a shallow copy.
func (b Bindings) Clone() Bindings {
	out := make(Bindings, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// Bind records slot -> t. It returns false if slot is already bound to a
// different type.
func (b Bindings) Bind(slot string, t *Type) bool {
	if existing, ok := b[slot]; ok {
		return existing.Equal(t)
	}
	b[slot] = t
	return true
}

// Merge adds every binding of other into b. It stops and returns false on the
// first conflicting slot; b may then be partially updated.
func (b Bindings) Merge(other Bindings) bool {
	for _, slot := range other.Slots() {
		if !b.Bind(slot, other[slot]) {
			return false
		}
	}
	return true
}

// Slots returns the bound slot names in sorted order.
func (b Bindings) Slots() []string {
	keys := maps.Keys(b)
	slices.Sort(keys)
	return keys
}

func (b Bindings) String() string {
	parts := make([]string, 0, len(b))
	for _, slot := range b.Slots() {
		parts = append(parts, slot+"="+b[slot].String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
