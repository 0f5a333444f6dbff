// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

// NullType is the ASN.1 NULL type (Rec. ITU-T X.680, Section 24). It has no
// payload: every NULL value encodes to the same empty content octets.
type NullType struct {
	typeBase
}

// NewNullType creates an unconstrained NullType.
func NewNullType() *NullType {
	return &NullType{typeBase{tagSet: NewTagSet(universal(TagNull, Primitive))}}
}

func (t *NullType) IsSameTypeWith(other Type) bool {
	o, ok := other.(*NullType)
	return ok && t.sameTypeWith(o)
}

func (t *NullType) IsSuperTypeOf(other Type) bool {
	o, ok := other.(*NullType)
	return ok && t.superTypeOf(o)
}

// Subtype derives a new NullType from t.
func (t *NullType) Subtype(implicitTag, explicitTag *Tag) (*NullType, error) {
	ts, err := deriveTagSet(t.tagSet, implicitTag, explicitTag)
	if err != nil {
		return nil, err
	}
	return &NullType{typeBase{tagSet: ts, constraints: t.constraints}}, nil
}

// NewValue constructs the (only) value of t.
func (t *NullType) NewValue() *Null {
	return &Null{valueBase{tagSet: t.tagSet, constraints: t.constraints, hasValue: true}}
}

// NoValue returns a schema-only Null value object.
func (t *NullType) NoValue() *Null {
	return &Null{valueBase: valueBase{tagSet: t.tagSet, constraints: t.constraints}}
}

// Null is the single value of [NullType].
type Null struct {
	valueBase
}
