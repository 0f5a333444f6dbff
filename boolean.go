// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

// BooleanType is the ASN.1 BOOLEAN type (Rec. ITU-T X.680, Section 18).
type BooleanType struct {
	typeBase
}

// NewBooleanType creates an unconstrained BooleanType.
func NewBooleanType() *BooleanType {
	return &BooleanType{typeBase{tagSet: NewTagSet(universal(TagBoolean, Primitive))}}
}

func (t *BooleanType) IsSameTypeWith(other Type) bool {
	o, ok := other.(*BooleanType)
	return ok && t.sameTypeWith(o)
}

func (t *BooleanType) IsSuperTypeOf(other Type) bool {
	o, ok := other.(*BooleanType)
	return ok && t.superTypeOf(o)
}

// Subtype derives a new BooleanType from t.
func (t *BooleanType) Subtype(implicitTag, explicitTag *Tag, additional ...Constraint) (*BooleanType, error) {
	ts, err := deriveTagSet(t.tagSet, implicitTag, explicitTag)
	if err != nil {
		return nil, err
	}
	return &BooleanType{typeBase{tagSet: ts, constraints: t.constraints.And(additional...)}}, nil
}

// NewValue constructs a Boolean from a native Go bool.
func (t *BooleanType) NewValue(native bool) (*Boolean, error) {
	if err := t.constraints.Validate(native); err != nil {
		return nil, err
	}
	return &Boolean{valueBase{tagSet: t.tagSet, constraints: t.constraints, hasValue: true}, native}, nil
}

// NoValue returns a schema-only Boolean value object.
func (t *BooleanType) NoValue() *Boolean {
	return &Boolean{valueBase: valueBase{tagSet: t.tagSet, constraints: t.constraints}}
}

// Boolean is a value of [BooleanType].
type Boolean struct {
	valueBase
	b bool
}

// Bool returns the underlying value.
func (v *Boolean) Bool() bool {
	if !v.hasValue {
		panic(&NoValueError{Type: "Boolean"})
	}
	return v.b
}

// Clone returns a sibling Boolean, optionally substituting fields (nil keeps
// the receiver's).
func (v *Boolean) Clone(newValue *bool, newTagSet *TagSet, newConstraints *Constraints) *Boolean {
	c := *v
	if newValue != nil {
		c.b = *newValue
		c.hasValue = true
	}
	if newTagSet != nil {
		c.tagSet = *newTagSet
	}
	if newConstraints != nil {
		c.constraints = *newConstraints
	}
	return &c
}
