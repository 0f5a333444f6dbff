// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import "fmt"

// ChoiceType is the ASN.1 CHOICE type (Rec. ITU-T X.680, Section 29): a
// discriminated union over a fixed set of named alternatives. A Choice value
// carries exactly one of its alternatives at a time. When a ChoiceType is
// not itself tagged, its effective tag set on the wire is that of whichever
// alternative is selected — see §4.7.
type ChoiceType struct {
	typeBase
	Alternatives *NamedTypes
	tagged       bool
}

// NewChoiceType creates a ChoiceType from its alternatives. It panics with a
// *SchemaError if two alternatives share an outer tag: a decoder selects the
// chosen alternative purely by matching the incoming tag against the table
// (see [NamedTypes.PositionOfTag]), so ambiguous tags would make one
// alternative permanently unreachable.
func NewChoiceType(alternatives *NamedTypes) *ChoiceType {
	validateNoDuplicateTags("CHOICE", alternatives)
	return &ChoiceType{typeBase: typeBase{}, Alternatives: alternatives}
}

func (t *ChoiceType) IsSameTypeWith(other Type) bool {
	o, ok := other.(*ChoiceType)
	if !ok || t.Alternatives.Len() != o.Alternatives.Len() {
		return false
	}
	for i := 0; i < t.Alternatives.Len(); i++ {
		a, b := t.Alternatives.At(i), o.Alternatives.At(i)
		st, ok := a.Type.(interface{ IsSameTypeWith(Type) bool })
		if a.Name != b.Name || !ok || !st.IsSameTypeWith(b.Type) {
			return false
		}
	}
	return constraintsEqual(t.constraints, o.constraints)
}

func (t *ChoiceType) IsSuperTypeOf(other Type) bool {
	o, ok := other.(*ChoiceType)
	if !ok || t.Alternatives.Len() != o.Alternatives.Len() {
		return false
	}
	for i := 0; i < t.Alternatives.Len(); i++ {
		a, b := t.Alternatives.At(i), o.Alternatives.At(i)
		st, ok := a.Type.(interface{ IsSuperTypeOf(Type) bool })
		if !ok || !st.IsSuperTypeOf(b.Type) {
			return false
		}
	}
	return t.constraints.IsSuperTypeOf(o.constraints)
}

// Subtype derives a new ChoiceType from t. Only explicit tagging is
// meaningful for a CHOICE (X.680 §29.5 forbids implicit tagging of a CHOICE
// that is not itself already tagged); passing implicitTag returns an error
// unless t is already explicitly tagged.
func (t *ChoiceType) Subtype(implicitTag, explicitTag *Tag, additional ...Constraint) (*ChoiceType, error) {
	if implicitTag != nil && !t.tagged {
		return nil, &SchemaError{Msg: "cannot tag a CHOICE implicitly unless it already carries an explicit tag"}
	}
	ts := t.tagSet
	tagged := t.tagged
	var err error
	if implicitTag != nil {
		if ts, err = ts.TagImplicitly(*implicitTag); err != nil {
			return nil, err
		}
	}
	if explicitTag != nil {
		if ts, err = ts.TagExplicitly(*explicitTag); err != nil {
			return nil, err
		}
		tagged = true
	}
	return &ChoiceType{typeBase{tagSet: ts, constraints: t.constraints.And(additional...)}, t.Alternatives, tagged}, nil
}

// NewValue constructs a Choice selecting the alternative named name, holding
// payload.
func (t *ChoiceType) NewValue(name string, payload Value) (*Choice, error) {
	i := t.Alternatives.PositionOf(name)
	if i < 0 {
		return nil, &SchemaError{Msg: "no such alternative " + name}
	}
	alt := t.Alternatives.At(i)
	if !alt.Type.TagSet().IsSuperSetOf(payload.TagSet()) {
		return nil, &SchemaError{Msg: "alternative " + name + " does not accept the given value's type"}
	}
	effective := t.tagSet
	if !t.tagged {
		effective = payload.TagSet()
	}
	return &Choice{valueBase{tagSet: effective, constraints: t.constraints, hasValue: true}, t, i, payload}, nil
}

// NoValue returns a schema-only Choice value object.
func (t *ChoiceType) NoValue() *Choice {
	return &Choice{valueBase: valueBase{tagSet: t.tagSet, constraints: t.constraints}, typ: t, selected: -1}
}

// Choice is a value of [ChoiceType].
type Choice struct {
	valueBase
	typ      *ChoiceType
	selected int
	payload  Value
}

// Selected returns the name of the chosen alternative.
func (v *Choice) Selected() string {
	if !v.hasValue {
		panic(&NoValueError{Type: "Choice"})
	}
	return v.typ.Alternatives.NameAt(v.selected)
}

// Value returns the payload of the chosen alternative.
func (v *Choice) Value() Value {
	if !v.hasValue {
		panic(&NoValueError{Type: "Choice"})
	}
	return v.payload
}

func (v *Choice) String() string {
	if !v.hasValue {
		return "<no value>"
	}
	return fmt.Sprintf("%s: %v", v.Selected(), v.payload)
}
