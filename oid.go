// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import (
	"slices"
	"strconv"
	"strings"
)

// ObjectIdentifierType is the ASN.1 OBJECT IDENTIFIER type (Rec. ITU-T X.680,
// Section 32).
type ObjectIdentifierType struct {
	typeBase
}

// NewObjectIdentifierType creates an unconstrained ObjectIdentifierType.
func NewObjectIdentifierType() *ObjectIdentifierType {
	return &ObjectIdentifierType{typeBase{tagSet: NewTagSet(universal(TagOID, Primitive))}}
}

func (t *ObjectIdentifierType) IsSameTypeWith(other Type) bool {
	o, ok := other.(*ObjectIdentifierType)
	return ok && t.sameTypeWith(o)
}

func (t *ObjectIdentifierType) IsSuperTypeOf(other Type) bool {
	o, ok := other.(*ObjectIdentifierType)
	return ok && t.superTypeOf(o)
}

// Subtype derives a new ObjectIdentifierType from t.
func (t *ObjectIdentifierType) Subtype(implicitTag, explicitTag *Tag, additional ...Constraint) (*ObjectIdentifierType, error) {
	ts, err := deriveTagSet(t.tagSet, implicitTag, explicitTag)
	if err != nil {
		return nil, err
	}
	return &ObjectIdentifierType{typeBase{tagSet: ts, constraints: t.constraints.And(additional...)}}, nil
}

// validateArcs checks the first two sub-identifiers against the rule in §3:
// the first arc must be <= 2, and when it is < 2 the second arc must be <= 39.
func validateArcs(arcs []uint64) error {
	if len(arcs) < 2 {
		return &SchemaError{Msg: "object identifier requires at least two arcs"}
	}
	if arcs[0] > 2 {
		return &SchemaError{Msg: "first object identifier arc must be 0, 1 or 2"}
	}
	if arcs[0] < 2 && arcs[1] > 39 {
		return &SchemaError{Msg: "second object identifier arc must be 0-39 when the first is 0 or 1"}
	}
	return nil
}

// prettyInOID normalises a native literal (a "1.2.3"-style string or a
// []uint64/[]uint/[]int) into a slice of arcs.
func prettyInOID(native any) ([]uint64, error) {
	switch v := native.(type) {
	case string:
		parts := strings.Split(v, ".")
		arcs := make([]uint64, len(parts))
		for i, p := range parts {
			n, err := strconv.ParseUint(p, 10, 64)
			if err != nil {
				return nil, &SchemaError{Msg: "invalid object identifier arc " + p}
			}
			arcs[i] = n
		}
		return arcs, nil
	case []uint64:
		return append([]uint64(nil), v...), nil
	case []uint:
		arcs := make([]uint64, len(v))
		for i, n := range v {
			arcs[i] = uint64(n)
		}
		return arcs, nil
	case []int:
		arcs := make([]uint64, len(v))
		for i, n := range v {
			if n < 0 {
				return nil, &SchemaError{Msg: "object identifier arcs must be non-negative"}
			}
			arcs[i] = uint64(n)
		}
		return arcs, nil
	default:
		return nil, &SchemaError{Msg: "unsupported native literal for OBJECT IDENTIFIER"}
	}
}

// NewValue constructs an ObjectIdentifier from a native literal (a
// "1.2.3"-style string or a slice of arcs).
func (t *ObjectIdentifierType) NewValue(native any) (*ObjectIdentifier, error) {
	arcs, err := prettyInOID(native)
	if err != nil {
		return nil, err
	}
	if err := validateArcs(arcs); err != nil {
		return nil, err
	}
	if err := t.constraints.Validate(arcs); err != nil {
		return nil, err
	}
	return &ObjectIdentifier{valueBase{tagSet: t.tagSet, constraints: t.constraints, hasValue: true}, arcs}, nil
}

// NoValue returns a schema-only ObjectIdentifier value object.
func (t *ObjectIdentifierType) NoValue() *ObjectIdentifier {
	return &ObjectIdentifier{valueBase: valueBase{tagSet: t.tagSet, constraints: t.constraints}}
}

// ObjectIdentifier is a value of [ObjectIdentifierType].
type ObjectIdentifier struct {
	valueBase
	arcs []uint64
}

// Arcs returns the sub-identifiers of v, most-significant first.
func (v *ObjectIdentifier) Arcs() []uint64 {
	if !v.hasValue {
		panic(&NoValueError{Type: "ObjectIdentifier"})
	}
	return v.arcs
}

// Equal reports whether v and other identify the same OID.
func (v *ObjectIdentifier) Equal(other *ObjectIdentifier) bool {
	return slices.Equal(v.arcs, other.arcs)
}

// IsPrefixOf reports whether v's arcs are a prefix of other's arcs.
func (v *ObjectIdentifier) IsPrefixOf(other *ObjectIdentifier) bool {
	if len(v.arcs) > len(other.arcs) {
		return false
	}
	return slices.Equal(v.arcs, other.arcs[:len(v.arcs)])
}

func (v *ObjectIdentifier) String() string {
	if !v.hasValue {
		return "<no value>"
	}
	var sb strings.Builder
	for i, a := range v.arcs {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(strconv.FormatUint(a, 10))
	}
	return sb.String()
}

// RelativeObjectIdentifierType is the ASN.1 RELATIVE-OID type (Rec. ITU-T
// X.680, Section 32.18): like OBJECT IDENTIFIER but interpreted relative to
// some other OID rather than from the root, so it carries no restriction on
// its first two arcs.
type RelativeObjectIdentifierType struct {
	typeBase
}

// NewRelativeObjectIdentifierType creates an unconstrained
// RelativeObjectIdentifierType.
func NewRelativeObjectIdentifierType() *RelativeObjectIdentifierType {
	return &RelativeObjectIdentifierType{typeBase{tagSet: NewTagSet(universal(TagRelativeOID, Primitive))}}
}

func (t *RelativeObjectIdentifierType) IsSameTypeWith(other Type) bool {
	o, ok := other.(*RelativeObjectIdentifierType)
	return ok && t.sameTypeWith(o)
}

func (t *RelativeObjectIdentifierType) IsSuperTypeOf(other Type) bool {
	o, ok := other.(*RelativeObjectIdentifierType)
	return ok && t.superTypeOf(o)
}

// Subtype derives a new RelativeObjectIdentifierType from t.
func (t *RelativeObjectIdentifierType) Subtype(implicitTag, explicitTag *Tag, additional ...Constraint) (*RelativeObjectIdentifierType, error) {
	ts, err := deriveTagSet(t.tagSet, implicitTag, explicitTag)
	if err != nil {
		return nil, err
	}
	return &RelativeObjectIdentifierType{typeBase{tagSet: ts, constraints: t.constraints.And(additional...)}}, nil
}

// NewValue constructs a RelativeObjectIdentifier from a native literal (a
// "1.2.3"-style string or a slice of arcs). Unlike OBJECT IDENTIFIER, an
// empty arc list and arbitrary first-arc values are permitted.
func (t *RelativeObjectIdentifierType) NewValue(native any) (*RelativeObjectIdentifier, error) {
	arcs, err := prettyInOID(native)
	if err != nil {
		return nil, err
	}
	if err := t.constraints.Validate(arcs); err != nil {
		return nil, err
	}
	return &RelativeObjectIdentifier{valueBase{tagSet: t.tagSet, constraints: t.constraints, hasValue: true}, arcs}, nil
}

// NoValue returns a schema-only RelativeObjectIdentifier value object.
func (t *RelativeObjectIdentifierType) NoValue() *RelativeObjectIdentifier {
	return &RelativeObjectIdentifier{valueBase: valueBase{tagSet: t.tagSet, constraints: t.constraints}}
}

// RelativeObjectIdentifier is a value of [RelativeObjectIdentifierType].
type RelativeObjectIdentifier struct {
	valueBase
	arcs []uint64
}

// Arcs returns the sub-identifiers of v, most-significant first.
func (v *RelativeObjectIdentifier) Arcs() []uint64 {
	if !v.hasValue {
		panic(&NoValueError{Type: "RelativeObjectIdentifier"})
	}
	return v.arcs
}

// Equal reports whether v and other identify the same relative OID.
func (v *RelativeObjectIdentifier) Equal(other *RelativeObjectIdentifier) bool {
	return slices.Equal(v.arcs, other.arcs)
}

func (v *RelativeObjectIdentifier) String() string {
	if !v.hasValue {
		return "<no value>"
	}
	var sb strings.Builder
	for i, a := range v.arcs {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(strconv.FormatUint(a, 10))
	}
	return sb.String()
}
