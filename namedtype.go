// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import (
	"fmt"
	"sync"
)

// NamedTypeKind distinguishes how a component of a constructed type
// participates in encoding and decoding: always present, optional, or
// optional with a default value substituted when absent (§4.5).
type NamedTypeKind uint8

const (
	Required NamedTypeKind = iota
	Optional
	Defaulted
)

// NamedType is one named, typed component of a Sequence, Set or Choice.
type NamedType struct {
	Name    string
	Type    Type
	Kind    NamedTypeKind
	Default Value // only meaningful when Kind == Defaulted
}

// NamedTypes is the ordered component table shared by SequenceType, SetType
// and ChoiceType. It is built once via [NewNamedTypes] and is immutable
// afterwards; its tag-indices are computed lazily on first use since most
// tables are built once and decoded against many times.
type NamedTypes struct {
	entries []NamedType

	once      sync.Once
	byName    map[string]int
	byTag     map[tagIdentity]int   // global: outer tag identity -> position
	nearByTag []map[tagIdentity]int // nearByTag[i]: index restricted to entries[i:]
}

// tagIdentity is the (class, number) map key used to index components by
// tag, ignoring Format per [Tag.Identity].
type tagIdentity struct {
	class  Class
	number uint32
}

func identityOf(t Tag) tagIdentity {
	class, number := t.Identity()
	return tagIdentity{class, number}
}

// NewNamedTypes builds a component table from entries, in declaration order.
// It panics if two entries share a name: that is a schema-authoring error,
// not a data error.
func NewNamedTypes(entries ...NamedType) *NamedTypes {
	byName := make(map[string]int, len(entries))
	for i, e := range entries {
		if _, dup := byName[e.Name]; dup {
			panic(&SchemaError{Msg: "duplicate component name " + e.Name})
		}
		byName[e.Name] = i
	}
	return &NamedTypes{entries: append([]NamedType(nil), entries...), byName: byName}
}

// Len returns the number of components.
func (n *NamedTypes) Len() int { return len(n.entries) }

// At returns the i'th component.
func (n *NamedTypes) At(i int) NamedType { return n.entries[i] }

// TypeAt returns the Type of the i'th component.
func (n *NamedTypes) TypeAt(i int) Type { return n.entries[i].Type }

// NameAt returns the name of the i'th component.
func (n *NamedTypes) NameAt(i int) string { return n.entries[i].Name }

// PositionOf returns the position of the component named name, or -1.
func (n *NamedTypes) PositionOf(name string) int {
	if i, ok := n.byName[name]; ok {
		return i
	}
	return -1
}

// validateNoDuplicateTags panics with a *SchemaError if two entries of
// components resolve to the same outer tag identity. SET and CHOICE must
// decode a component purely by matching tags (decodeSetBody/
// decodeChoicePayload both call PositionOfTag), unlike SEQUENCE where
// declaration order additionally disambiguates — so only those two
// constructors call this, per the "ambiguous tags in SET/CHOICE"
// SchemaError taxonomy entry (§4.2). Entries with a wildcard (zero-length)
// TagSet, e.g. ANY or an untagged CHOICE alternative, have no outer tag to
// collide on and are skipped, matching buildTagIndex's own treatment of them.
func validateNoDuplicateTags(kind string, components *NamedTypes) {
	seen := make(map[tagIdentity]string, components.Len())
	for i := 0; i < components.Len(); i++ {
		e := components.At(i)
		if e.Type.TagSet().Len() == 0 {
			continue
		}
		id := identityOf(e.Type.TagSet().Outer())
		if prev, dup := seen[id]; dup {
			panic(&SchemaError{Msg: fmt.Sprintf("%s has ambiguous tag: components %q and %q share the same tag", kind, prev, e.Name)})
		}
		seen[id] = e.Name
	}
}

func (n *NamedTypes) buildTagIndex() {
	n.once.Do(func() {
		n.byTag = make(map[tagIdentity]int, len(n.entries))
		for i, e := range n.entries {
			if e.Type.TagSet().Len() == 0 {
				// A wildcard TagSet (ANY, or an untagged CHOICE): it has no
				// outer tag of its own to index by. Such a component must be
				// resolved positionally or via an [OpenTypeMap], not by tag
				// lookup.
				continue
			}
			n.byTag[identityOf(e.Type.TagSet().Outer())] = i
		}
		// nearByTag[i] indexes the window reachable from position i: entry i
		// itself, plus every subsequent OPTIONAL/DEFAULT entry that could be
		// skipped, up to and including the next Required entry — never past
		// it, since a Required component cannot be skipped and so bounds how
		// far a search starting at i can reach (§4.5's "skip absent
		// OPTIONAL/DEFAULT components" rule). This mirrors
		// original_source/pyasn1's __buildAmbigiousTagMap, which resets its
		// accumulator to just the current type whenever it reaches a mandatory
		// (Required) field.
		n.nearByTag = make([]map[tagIdentity]int, len(n.entries)+1)
		n.nearByTag[len(n.entries)] = map[tagIdentity]int{}
		for i := len(n.entries) - 1; i >= 0; i-- {
			var m map[tagIdentity]int
			if n.entries[i].Kind == Required {
				m = make(map[tagIdentity]int, 1)
			} else {
				m = make(map[tagIdentity]int, len(n.nearByTag[i+1])+1)
				for k, v := range n.nearByTag[i+1] {
					m[k] = v
				}
			}
			if n.entries[i].Type.TagSet().Len() != 0 {
				m[identityOf(n.entries[i].Type.TagSet().Outer())] = i
			}
			n.nearByTag[i] = m
		}
	})
}

// PositionOfTag returns the position of the component whose outer tag is
// tag, considering the whole table, or -1 if none matches.
func (n *NamedTypes) PositionOfTag(tag Tag) int {
	n.buildTagIndex()
	if i, ok := n.byTag[identityOf(tag)]; ok {
		return i
	}
	return -1
}

// PositionNearTag returns the position, at or after from, of the component
// whose outer tag is tag. Used while decoding a SEQUENCE/SET to locate the
// next matching component after skipping absent OPTIONAL/DEFAULT ones.
func (n *NamedTypes) PositionNearTag(tag Tag, from int) int {
	n.buildTagIndex()
	if from < 0 {
		from = 0
	}
	if from > len(n.entries) {
		return -1
	}
	if i, ok := n.nearByTag[from][identityOf(tag)]; ok {
		return i
	}
	return -1
}
