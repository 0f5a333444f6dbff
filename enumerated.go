// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import "strconv"

// EnumeratedType is the ASN.1 ENUMERATED type (Rec. ITU-T X.680, Section 20).
// Unlike INTEGER, every value of an ENUMERATED type is expected to have a
// symbolic [NamedValues] entry, though this package does not enforce that at
// construction time.
type EnumeratedType struct {
	typeBase
	Names NamedValues
}

// NewEnumeratedType creates an unconstrained EnumeratedType with the given
// name table.
func NewEnumeratedType(names NamedValues) *EnumeratedType {
	return &EnumeratedType{
		typeBase: typeBase{tagSet: NewTagSet(universal(TagEnumerated, Primitive))},
		Names:    names,
	}
}

func (t *EnumeratedType) IsSameTypeWith(other Type) bool {
	o, ok := other.(*EnumeratedType)
	return ok && t.sameTypeWith(o)
}

func (t *EnumeratedType) IsSuperTypeOf(other Type) bool {
	o, ok := other.(*EnumeratedType)
	return ok && t.superTypeOf(o)
}

// Subtype derives a new EnumeratedType from t.
func (t *EnumeratedType) Subtype(implicitTag, explicitTag *Tag, additional ...Constraint) (*EnumeratedType, error) {
	ts, err := deriveTagSet(t.tagSet, implicitTag, explicitTag)
	if err != nil {
		return nil, err
	}
	return &EnumeratedType{
		typeBase: typeBase{tagSet: ts, constraints: t.constraints.And(additional...)},
		Names:    t.Names,
	}, nil
}

// NewValue constructs an Enumerated value from an int64 or a name registered
// in t.Names.
func (t *EnumeratedType) NewValue(native any) (*Enumerated, error) {
	var n int64
	switch v := native.(type) {
	case int:
		n = int64(v)
	case int64:
		n = v
	case string:
		val, ok := t.Names[v]
		if !ok {
			return nil, &SchemaError{Msg: "unknown named value " + v}
		}
		n = val
	default:
		return nil, &SchemaError{Msg: "unsupported native literal for ENUMERATED"}
	}
	if err := t.constraints.Validate(n); err != nil {
		return nil, err
	}
	return &Enumerated{
		valueBase: valueBase{tagSet: t.tagSet, constraints: t.constraints, hasValue: true},
		typ:       t,
		n:         n,
	}, nil
}

// NoValue returns a schema-only Enumerated value object.
func (t *EnumeratedType) NoValue() *Enumerated {
	return &Enumerated{valueBase: valueBase{tagSet: t.tagSet, constraints: t.constraints}, typ: t}
}

// Enumerated is a value of [EnumeratedType].
type Enumerated struct {
	valueBase
	typ *EnumeratedType
	n   int64
}

// Int returns the underlying value.
func (v *Enumerated) Int() int64 {
	if !v.hasValue {
		panic(&NoValueError{Type: "Enumerated"})
	}
	return v.n
}

// Name returns the symbolic name for v's value, if registered.
func (v *Enumerated) Name() (string, bool) {
	if v.typ == nil {
		return "", false
	}
	return v.typ.Names.nameOf(v.n)
}

func (v *Enumerated) String() string {
	if !v.hasValue {
		return "<no value>"
	}
	if name, ok := v.Name(); ok {
		return name
	}
	return strconv.FormatInt(v.n, 10)
}
