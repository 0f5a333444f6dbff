// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import "fmt"

// SequenceType is the ASN.1 SEQUENCE type (Rec. ITU-T X.680, Section 25): an
// ordered collection of distinctly-named, possibly differently-typed
// components, some of which may be OPTIONAL or DEFAULT.
type SequenceType struct {
	typeBase
	Components *NamedTypes
}

// NewSequenceType creates a SequenceType from its ordered component table.
func NewSequenceType(components *NamedTypes) *SequenceType {
	return &SequenceType{typeBase{tagSet: NewTagSet(universal(TagSequence, Constructed))}, components}
}

func (t *SequenceType) IsSameTypeWith(other Type) bool {
	o, ok := other.(*SequenceType)
	if !ok || t.Components.Len() != o.Components.Len() || !t.sameTypeWith(o) {
		return false
	}
	for i := 0; i < t.Components.Len(); i++ {
		a, b := t.Components.At(i), o.Components.At(i)
		if a.Name != b.Name || a.Kind != b.Kind || !a.Type.(interface{ IsSameTypeWith(Type) bool }).IsSameTypeWith(b.Type) {
			return false
		}
	}
	return true
}

func (t *SequenceType) IsSuperTypeOf(other Type) bool {
	o, ok := other.(*SequenceType)
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

// Subtype derives a new SequenceType from t, keeping the same component
// table.
func (t *SequenceType) Subtype(implicitTag, explicitTag *Tag, additional ...Constraint) (*SequenceType, error) {
	ts, err := deriveTagSet(t.tagSet, implicitTag, explicitTag)
	if err != nil {
		return nil, err
	}
	return &SequenceType{typeBase{tagSet: ts, constraints: t.constraints.And(additional...)}, t.Components}, nil
}

// NewValue constructs a Sequence with the given positional component values.
// Any position whose component is Optional or Defaulted may hold a nil
// Value, meaning the component is absent. Each present value's tag set must
// be accepted by its component's declared type.
func (t *SequenceType) NewValue(values ...Value) (*Sequence, error) {
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
	return &Sequence{valueBase{tagSet: t.tagSet, constraints: t.constraints, hasValue: true}, t, append([]Value(nil), values...)}, nil
}

// NoValue returns a schema-only Sequence value object.
func (t *SequenceType) NoValue() *Sequence {
	return &Sequence{valueBase: valueBase{tagSet: t.tagSet, constraints: t.constraints}, typ: t}
}

// Sequence is a value of [SequenceType].
type Sequence struct {
	valueBase
	typ    *SequenceType
	values []Value
}

// Len returns the number of components (matching the schema, including
// absent optional ones).
func (v *Sequence) Len() int { return len(v.values) }

// At returns the value of the i'th component, or nil if it is absent.
func (v *Sequence) At(i int) Value {
	if !v.hasValue {
		panic(&NoValueError{Type: "Sequence"})
	}
	return v.values[i]
}

// Named returns the value of the component named name, or nil if it is
// absent. It panics if no such component exists.
func (v *Sequence) Named(name string) Value {
	i := v.typ.Components.PositionOf(name)
	if i < 0 {
		panic(&SchemaError{Msg: "no such component " + name})
	}
	return v.At(i)
}

func (v *Sequence) String() string {
	if !v.hasValue {
		return "<no value>"
	}
	s := "SEQUENCE {"
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

// SequenceOfType is the ASN.1 SEQUENCE OF type: a homogeneous, ordered
// collection of values all satisfying a single element type.
type SequenceOfType struct {
	typeBase
	Element Type
}

// NewSequenceOfType creates a SequenceOfType with the given element type.
func NewSequenceOfType(element Type) *SequenceOfType {
	return &SequenceOfType{typeBase{tagSet: NewTagSet(universal(TagSequence, Constructed))}, element}
}

func (t *SequenceOfType) IsSameTypeWith(other Type) bool {
	o, ok := other.(*SequenceOfType)
	if !ok || !t.sameTypeWith(o) {
		return false
	}
	st, ok := t.Element.(interface{ IsSameTypeWith(Type) bool })
	return ok && st.IsSameTypeWith(o.Element)
}

func (t *SequenceOfType) IsSuperTypeOf(other Type) bool {
	o, ok := other.(*SequenceOfType)
	if !ok || !t.superTypeOf(o) {
		return false
	}
	st, ok := t.Element.(interface{ IsSuperTypeOf(Type) bool })
	return ok && st.IsSuperTypeOf(o.Element)
}

// Subtype derives a new SequenceOfType from t.
func (t *SequenceOfType) Subtype(implicitTag, explicitTag *Tag, additional ...Constraint) (*SequenceOfType, error) {
	ts, err := deriveTagSet(t.tagSet, implicitTag, explicitTag)
	if err != nil {
		return nil, err
	}
	return &SequenceOfType{typeBase{tagSet: ts, constraints: t.constraints.And(additional...)}, t.Element}, nil
}

// NewValue constructs a SequenceOf value from elements, in wire order.
func (t *SequenceOfType) NewValue(elements ...Value) (*SequenceOf, error) {
	if err := t.constraints.Validate(elements); err != nil {
		return nil, err
	}
	return &SequenceOf{valueBase{tagSet: t.tagSet, constraints: t.constraints, hasValue: true}, t, append([]Value(nil), elements...)}, nil
}

// NoValue returns a schema-only SequenceOf value object.
func (t *SequenceOfType) NoValue() *SequenceOf {
	return &SequenceOf{valueBase: valueBase{tagSet: t.tagSet, constraints: t.constraints}, typ: t}
}

// SequenceOf is a value of [SequenceOfType].
type SequenceOf struct {
	valueBase
	typ      *SequenceOfType
	elements []Value
}

// Len returns the number of elements.
func (v *SequenceOf) Len() int {
	if !v.hasValue {
		panic(&NoValueError{Type: "SequenceOf"})
	}
	return len(v.elements)
}

// At returns the i'th element, in wire order.
func (v *SequenceOf) At(i int) Value {
	if !v.hasValue {
		panic(&NoValueError{Type: "SequenceOf"})
	}
	return v.elements[i]
}

// Elements returns the elements of v, in wire order. The returned slice must
// not be modified.
func (v *SequenceOf) Elements() []Value {
	if !v.hasValue {
		panic(&NoValueError{Type: "SequenceOf"})
	}
	return v.elements
}

func (v *SequenceOf) String() string {
	if !v.hasValue {
		return "<no value>"
	}
	s := "SEQUENCE OF {"
	for i, e := range v.elements {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%v", e)
	}
	return s + "}"
}
