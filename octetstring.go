// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import "fmt"

// OctetStringType is the ASN.1 OCTET STRING type (Rec. ITU-T X.680, Section
// 23).
type OctetStringType struct {
	typeBase
}

// NewOctetStringType creates an unconstrained OctetStringType.
func NewOctetStringType() *OctetStringType {
	return &OctetStringType{typeBase{tagSet: NewTagSet(universal(TagOctetString, Primitive))}}
}

func (t *OctetStringType) IsSameTypeWith(other Type) bool {
	o, ok := other.(*OctetStringType)
	return ok && t.sameTypeWith(o)
}

func (t *OctetStringType) IsSuperTypeOf(other Type) bool {
	o, ok := other.(*OctetStringType)
	return ok && t.superTypeOf(o)
}

// Subtype derives a new OctetStringType from t.
func (t *OctetStringType) Subtype(implicitTag, explicitTag *Tag, additional ...Constraint) (*OctetStringType, error) {
	ts, err := deriveTagSet(t.tagSet, implicitTag, explicitTag)
	if err != nil {
		return nil, err
	}
	return &OctetStringType{typeBase{tagSet: ts, constraints: t.constraints.And(additional...)}}, nil
}

// NewValue constructs an OctetString from a []byte or string literal.
func (t *OctetStringType) NewValue(native any) (*OctetString, error) {
	var b []byte
	switch v := native.(type) {
	case []byte:
		b = append([]byte(nil), v...)
	case string:
		b = []byte(v)
	default:
		return nil, &SchemaError{Msg: fmt.Sprintf("unsupported native literal %T for OCTET STRING", native)}
	}
	if err := t.constraints.Validate(b); err != nil {
		return nil, err
	}
	return &OctetString{valueBase{tagSet: t.tagSet, constraints: t.constraints, hasValue: true}, b}, nil
}

// NoValue returns a schema-only OctetString value object.
func (t *OctetStringType) NoValue() *OctetString {
	return &OctetString{valueBase: valueBase{tagSet: t.tagSet, constraints: t.constraints}}
}

// OctetString is a value of [OctetStringType].
type OctetString struct {
	valueBase
	b []byte
}

// Bytes returns the underlying byte sequence. The returned slice must not be
// modified.
func (v *OctetString) Bytes() []byte {
	if !v.hasValue {
		panic(&NoValueError{Type: "OctetString"})
	}
	return v.b
}

// Len returns the number of bytes in v.
func (v *OctetString) Len() int { return len(v.b) }

// At returns the byte at index i.
func (v *OctetString) At(i int) byte { return v.b[i] }

// Concat returns a new OctetString of v's subtype with other's bytes
// appended.
func (v *OctetString) Concat(other *OctetString) *OctetString {
	c := *v
	c.b = append(append([]byte(nil), v.b...), other.b...)
	return &c
}

func (v *OctetString) String() string {
	if !v.hasValue {
		return "<no value>"
	}
	return fmt.Sprintf("% X", v.b)
}
