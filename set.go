// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import (
	"fmt"
	"slices"
)

// SetType is the ASN.1 SET type (Rec. ITU-T X.680, Section 26): like
// SEQUENCE, a collection of distinctly-named, possibly differently-typed
// components, but without an intrinsic wire order. BER accepts any
// permutation of its components; CER and DER require the encoder to sort
// them and the decoder to reject permutations, see §4.5.
type SetType struct {
	typeBase
	Components *NamedTypes
}

// NewSetType creates a SetType from its component table. It panics with a
// *SchemaError if two components share an outer tag: SET decodes components
// purely by tag (see [NamedTypes.PositionOfTag]), so ambiguous tags would
// make a component unreachable or misresolved rather than merely
// order-sensitive as for SEQUENCE.
func NewSetType(components *NamedTypes) *SetType {
	validateNoDuplicateTags("SET", components)
	return &SetType{typeBase{tagSet: NewTagSet(universal(TagSet, Constructed))}, components}
}

func (t *SetType) IsSameTypeWith(other Type) bool {
	o, ok := other.(*SetType)
	if !ok || t.Components.Len() != o.Components.Len() || !t.sameTypeWith(o) {
		return false
	}
	for i := 0; i < t.Components.Len(); i++ {
		a, b := t.Components.At(i), o.Components.At(i)
		st, ok := a.Type.(interface{ IsSameTypeWith(Type) bool })
		if a.Name != b.Name || a.Kind != b.Kind || !ok || !st.IsSameTypeWith(b.Type) {
			return false
		}
	}
	return true
}

func (t *SetType) IsSuperTypeOf(other Type) bool {
	o, ok := other.(*SetType)
	if !ok || t.Components.Len() != o.Components.Len() || !t.superTypeOf(o) {
		return false
	}
	for i := 0; i < t.Components.Len(); i++ {
		a, b := t.Components.At(i), o.Components.At(i)
		st, ok := a.Type.(interface{ IsSuperTypeOf(Type) bool })
		if !ok || !st.IsSuperTypeOf(b.Type) {
			return false
		}
	}
	return true
}

// Subtype derives a new SetType from t, keeping the same component table.
func (t *SetType) Subtype(implicitTag, explicitTag *Tag, additional ...Constraint) (*SetType, error) {
	ts, err := deriveTagSet(t.tagSet, implicitTag, explicitTag)
	if err != nil {
		return nil, err
	}
	return &SetType{typeBase{tagSet: ts, constraints: t.constraints.And(additional...)}, t.Components}, nil
}

// NewValue constructs a Set with the given positional component values, in
// schema declaration order (the order is only meaningful for lookups; a
// CER/DER encoder reorders components onto the wire by tag, see
// [SetType.CanonicalOrder]).
func (t *SetType) NewValue(values ...Value) (*Set, error) {
	if len(values) != t.Components.Len() {
		return nil, &SchemaError{Msg: fmt.Sprintf("expected %d components, got %d", t.Components.Len(), len(values))}
	}
	for i, v := range values {
		comp := t.Components.At(i)
		if v == nil {
			if comp.Kind == Required {
				return nil, &SchemaError{Msg: "missing required component " + comp.Name}
			}
			continue
		}
		if !comp.Type.TagSet().IsSuperSetOf(v.TagSet()) {
			return nil, &SchemaError{Msg: "component " + comp.Name + " does not satisfy its declared type"}
		}
	}
	return &Set{valueBase{tagSet: t.tagSet, constraints: t.constraints, hasValue: true}, t, append([]Value(nil), values...)}, nil
}

// NoValue returns a schema-only Set value object.
func (t *SetType) NoValue() *Set {
	return &Set{valueBase: valueBase{tagSet: t.tagSet, constraints: t.constraints}, typ: t}
}

// CanonicalOrder returns the component positions in the order a CER/DER
// encoder must place them on the wire: every component position, ascending
// by each component's declared outer tag, per §4.5.
func (t *SetType) CanonicalOrder() []int {
	order := make([]int, t.Components.Len())
	for i := range order {
		order[i] = i
	}
	slices.SortFunc(order, func(a, b int) int {
		ta, tb := t.Components.At(a).Type.TagSet(), t.Components.At(b).Type.TagSet()
		if ta.Less(tb) {
			return -1
		}
		if tb.Less(ta) {
			return 1
		}
		return 0
	})
	return order
}

// Set is a value of [SetType].
type Set struct {
	valueBase
	typ    *SetType
	values []Value
}

// Len returns the number of components.
func (v *Set) Len() int { return len(v.values) }

// At returns the value of the i'th component (schema order), or nil if
// absent.
func (v *Set) At(i int) Value {
	if !v.hasValue {
		panic(&NoValueError{Type: "Set"})
	}
	return v.values[i]
}

// Named returns the value of the component named name, or nil if absent.
func (v *Set) Named(name string) Value {
	i := v.typ.Components.PositionOf(name)
	if i < 0 {
		panic(&SchemaError{Msg: "no such component " + name})
	}
	return v.At(i)
}

func (v *Set) String() string {
	if !v.hasValue {
		return "<no value>"
	}
	s := "SET {"
	for i, val := range v.values {
		if i > 0 {
			s += ", "
		}
		name := v.typ.Components.NameAt(i)
		if val == nil {
			s += name + ": absent"
			continue
		}
		s += fmt.Sprintf("%s: %v", name, val)
	}
	return s + "}"
}

// SetOfType is the ASN.1 SET OF type: an unordered, homogeneous collection
// of values all satisfying a single element type. CER/DER require the
// encoder to sort elements by their encoded octets and the decoder to
// verify that ordering, see §4.6.
type SetOfType struct {
	typeBase
	Element Type
}

// NewSetOfType creates a SetOfType with the given element type.
func NewSetOfType(element Type) *SetOfType {
	return &SetOfType{typeBase{tagSet: NewTagSet(universal(TagSet, Constructed))}, element}
}

func (t *SetOfType) IsSameTypeWith(other Type) bool {
	o, ok := other.(*SetOfType)
	if !ok || !t.sameTypeWith(o) {
		return false
	}
	st, ok := t.Element.(interface{ IsSameTypeWith(Type) bool })
	return ok && st.IsSameTypeWith(o.Element)
}

func (t *SetOfType) IsSuperTypeOf(other Type) bool {
	o, ok := other.(*SetOfType)
	if !ok || !t.superTypeOf(o) {
		return false
	}
	st, ok := t.Element.(interface{ IsSuperTypeOf(Type) bool })
	return ok && st.IsSuperTypeOf(o.Element)
}

// Subtype derives a new SetOfType from t.
func (t *SetOfType) Subtype(implicitTag, explicitTag *Tag, additional ...Constraint) (*SetOfType, error) {
	ts, err := deriveTagSet(t.tagSet, implicitTag, explicitTag)
	if err != nil {
		return nil, err
	}
	return &SetOfType{typeBase{tagSet: ts, constraints: t.constraints.And(additional...)}, t.Element}, nil
}

// NewValue constructs a SetOf from elements. Declaration order does not
// matter; a CER/DER encoder sorts by encoded octets when writing the value.
func (t *SetOfType) NewValue(elements ...Value) (*SetOf, error) {
	if err := t.constraints.Validate(elements); err != nil {
		return nil, err
	}
	return &SetOf{valueBase{tagSet: t.tagSet, constraints: t.constraints, hasValue: true}, t, append([]Value(nil), elements...)}, nil
}

// NoValue returns a schema-only SetOf value object.
func (t *SetOfType) NoValue() *SetOf {
	return &SetOf{valueBase: valueBase{tagSet: t.tagSet, constraints: t.constraints}, typ: t}
}

// SetOf is a value of [SetOfType].
type SetOf struct {
	valueBase
	typ      *SetOfType
	elements []Value
}

// Len returns the number of elements.
func (v *SetOf) Len() int {
	if !v.hasValue {
		panic(&NoValueError{Type: "SetOf"})
	}
	return len(v.elements)
}

// At returns the i'th element, in the order it was constructed with.
func (v *SetOf) At(i int) Value {
	if !v.hasValue {
		panic(&NoValueError{Type: "SetOf"})
	}
	return v.elements[i]
}

// Elements returns the elements of v. The returned slice must not be
// modified.
func (v *SetOf) Elements() []Value {
	if !v.hasValue {
		panic(&NoValueError{Type: "SetOf"})
	}
	return v.elements
}

func (v *SetOf) String() string {
	if !v.hasValue {
		return "<no value>"
	}
	s := "SET OF {"
	for i, e := range v.elements {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%v", e)
	}
	return s + "}"
}
