// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import (
	"math/big"
)

// NamedValues maps symbolic names to integer values for an INTEGER or
// ENUMERATED subtype, and back. It is used to pretty-print and to parse
// values given by name, e.g. NamedValues{"red": 0, "green": 1, "blue": 2}.
type NamedValues map[string]int64

func (nv NamedValues) nameOf(v int64) (string, bool) {
	for name, val := range nv {
		if val == v {
			return name, true
		}
	}
	return "", false
}

// IntegerType is the ASN.1 INTEGER type (Rec. ITU-T X.680, Section 19). Its
// values wrap an arbitrary-precision signed integer, optionally paired with a
// [NamedValues] table mapping symbolic names to the integers they abbreviate.
type IntegerType struct {
	typeBase
	Names NamedValues
}

// NewIntegerType creates an unconstrained IntegerType with the ASN.1 INTEGER
// base tag.
func NewIntegerType(names NamedValues) *IntegerType {
	return &IntegerType{
		typeBase: typeBase{tagSet: NewTagSet(universal(TagInteger, Primitive))},
		Names:    names,
	}
}

// IsSameTypeWith reports whether other is an IntegerType with the same tag
// set and constraints.
func (t *IntegerType) IsSameTypeWith(other Type) bool {
	o, ok := other.(*IntegerType)
	return ok && t.sameTypeWith(o)
}

// IsSuperTypeOf reports whether other is an IntegerType whose tag set and
// constraints are covered by t's.
func (t *IntegerType) IsSuperTypeOf(other Type) bool {
	o, ok := other.(*IntegerType)
	return ok && t.superTypeOf(o)
}

// Subtype derives a new IntegerType from t. See §4.4.
func (t *IntegerType) Subtype(implicitTag, explicitTag *Tag, additional ...Constraint) (*IntegerType, error) {
	ts, err := deriveTagSet(t.tagSet, implicitTag, explicitTag)
	if err != nil {
		return nil, err
	}
	return &IntegerType{
		typeBase: typeBase{tagSet: ts, constraints: t.constraints.And(additional...)},
		Names:    t.Names,
	}, nil
}

// NewValue constructs an Integer from a native literal: a Go integer,
// *big.Int, or the name of an entry in t.Names. It runs pretty_in
// (normalisation) followed by constraint validation.
func (t *IntegerType) NewValue(native any) (*Integer, error) {
	var n *big.Int
	switch v := native.(type) {
	case *big.Int:
		n = new(big.Int).Set(v)
	case int:
		n = big.NewInt(int64(v))
	case int64:
		n = big.NewInt(v)
	case string:
		val, ok := t.Names[v]
		if !ok {
			return nil, &SchemaError{Msg: "unknown named value " + v}
		}
		n = big.NewInt(val)
	default:
		return nil, &SchemaError{Msg: "unsupported native literal for INTEGER"}
	}
	if err := t.constraints.Validate(n); err != nil {
		return nil, err
	}
	return &Integer{
		valueBase: valueBase{tagSet: t.tagSet, constraints: t.constraints, hasValue: true},
		typ:       t,
		n:         n,
	}, nil
}

// NoValue returns a schema-only Integer value object: HasValue reports false
// and Int panics with [NoValueError] semantics reported via recover-free
// accessor checks.
func (t *IntegerType) NoValue() *Integer {
	return &Integer{valueBase: valueBase{tagSet: t.tagSet, constraints: t.constraints}, typ: t}
}

// Integer is a value of [IntegerType].
type Integer struct {
	valueBase
	typ *IntegerType
	n   *big.Int
}

// Int returns the underlying arbitrary-precision integer. It panics with a
// [NoValueError] if v has no value.
func (v *Integer) Int() *big.Int {
	if !v.hasValue {
		panic(&NoValueError{Type: "Integer"})
	}
	return v.n
}

// Name returns the symbolic name for v's value in its type's NamedValues
// table, if any.
func (v *Integer) Name() (string, bool) {
	if v.typ == nil || !v.n.IsInt64() {
		return "", false
	}
	return v.typ.Names.nameOf(v.n.Int64())
}

// Clone returns a sibling Integer, optionally substituting a new payload, tag
// set, or constraints (nil keeps the receiver's value for that field).
func (v *Integer) Clone(newValue *big.Int, newTagSet *TagSet, newConstraints *Constraints) *Integer {
	c := *v
	if newValue != nil {
		c.n = new(big.Int).Set(newValue)
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

// Add returns a new Integer of v's subtype holding v+other.
func (v *Integer) Add(other *Integer) *Integer {
	return v.Clone(new(big.Int).Add(v.n, other.n), nil, nil)
}

// Sub returns a new Integer of v's subtype holding v-other.
func (v *Integer) Sub(other *Integer) *Integer {
	return v.Clone(new(big.Int).Sub(v.n, other.n), nil, nil)
}

// Cmp delegates to the underlying big.Int.Cmp.
func (v *Integer) Cmp(other *Integer) int {
	return v.n.Cmp(other.n)
}

func (v *Integer) String() string {
	if !v.hasValue {
		return "<no value>"
	}
	if name, ok := v.Name(); ok {
		return name
	}
	return v.n.String()
}
