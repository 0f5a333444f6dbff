// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import (
	"math"
	"math/big"
	"strconv"
)

// RealKind distinguishes the special sentinel values a REAL can take from a
// normal (mantissa, base, exponent) value.
type RealKind uint8

const (
	RealNormal RealKind = iota
	RealZero
	RealPositiveInfinity
	RealNegativeInfinity
	RealNaN
)

// RealType is the ASN.1 REAL type (Rec. ITU-T X.680, Section 21). A REAL
// value is either one of the special sentinels (0, +∞, −∞, NaN) or a
// (mantissa, base, exponent) triple with base ∈ {2, 10} denoting
// mantissa·base^exponent.
type RealType struct {
	typeBase
}

// NewRealType creates an unconstrained RealType.
func NewRealType() *RealType {
	return &RealType{typeBase{tagSet: NewTagSet(universal(TagReal, Primitive))}}
}

func (t *RealType) IsSameTypeWith(other Type) bool {
	o, ok := other.(*RealType)
	return ok && t.sameTypeWith(o)
}

func (t *RealType) IsSuperTypeOf(other Type) bool {
	o, ok := other.(*RealType)
	return ok && t.superTypeOf(o)
}

// Subtype derives a new RealType from t.
func (t *RealType) Subtype(implicitTag, explicitTag *Tag, additional ...Constraint) (*RealType, error) {
	ts, err := deriveTagSet(t.tagSet, implicitTag, explicitTag)
	if err != nil {
		return nil, err
	}
	return &RealType{typeBase{tagSet: ts, constraints: t.constraints.And(additional...)}}, nil
}

// NewValue constructs a Real from a float64, *big.Float, or an explicit
// (mantissa, base, exponent) triple given as [3]int64{mantissa, base,
// exponent}.
func (t *RealType) NewValue(native any) (*Real, error) {
	r, err := prettyInReal(native)
	if err != nil {
		return nil, err
	}
	if err := t.constraints.Validate(r); err != nil {
		return nil, err
	}
	r.valueBase = valueBase{tagSet: t.tagSet, constraints: t.constraints, hasValue: true}
	return r, nil
}

// NoValue returns a schema-only Real value object.
func (t *RealType) NoValue() *Real {
	return &Real{valueBase: valueBase{tagSet: t.tagSet, constraints: t.constraints}}
}

func prettyInReal(native any) (*Real, error) {
	switch v := native.(type) {
	case float64:
		return realFromFloat(v), nil
	case float32:
		return realFromFloat(float64(v)), nil
	case *big.Float:
		f, _ := v.Float64()
		return realFromFloat(f), nil
	case [3]int64:
		if v[1] != 2 && v[1] != 10 {
			return nil, &SchemaError{Msg: "REAL base must be 2 or 10"}
		}
		return &Real{Kind: RealNormal, Mantissa: big.NewInt(v[0]), Base: int(v[1]), Exponent: v[2]}, nil
	default:
		return nil, &SchemaError{Msg: "unsupported native literal for REAL"}
	}
}

// realFromFloat decomposes f into the Real sentinel/normal-form
// representation, using base 2 per the encoder default noted in §9 (Open
// Question ii).
func realFromFloat(f float64) *Real {
	switch {
	case math.IsNaN(f):
		return &Real{Kind: RealNaN}
	case math.IsInf(f, 1):
		return &Real{Kind: RealPositiveInfinity}
	case math.IsInf(f, -1):
		return &Real{Kind: RealNegativeInfinity}
	case f == 0:
		return &Real{Kind: RealZero}
	}
	mantissa, exp := math.Frexp(f) // f == mantissa * 2^exp, 0.5 <= |mantissa| < 1
	const bits = 53
	m := int64(mantissa * (1 << bits))
	e := int64(exp) - bits
	for m != 0 && m%2 == 0 {
		m /= 2
		e++
	}
	return &Real{Kind: RealNormal, Mantissa: big.NewInt(m), Base: 2, Exponent: e}
}

// Real is a value of [RealType].
type Real struct {
	valueBase
	Kind     RealKind
	Mantissa *big.Int
	Base     int
	Exponent int64
}

// Float64 converts v to a float64, respecting the special sentinel values.
func (v *Real) Float64() float64 {
	if !v.hasValue {
		panic(&NoValueError{Type: "Real"})
	}
	switch v.Kind {
	case RealZero:
		return 0
	case RealPositiveInfinity:
		return math.Inf(1)
	case RealNegativeInfinity:
		return math.Inf(-1)
	case RealNaN:
		return math.NaN()
	default:
		m := new(big.Float).SetInt(v.Mantissa)
		base := new(big.Float).SetInt64(int64(v.Base))
		exp := new(big.Float).SetFloat64(math.Pow(float64(v.Base), float64(v.Exponent)))
		_ = base
		f, _ := new(big.Float).Mul(m, exp).Float64()
		return f
	}
}

// Add returns a new Real of v's subtype holding v+other, computed via
// float64 conversion (±∞ is absorbing as required by §4.4).
func (v *Real) Add(other *Real) *Real {
	c := *v
	n := realFromFloat(v.Float64() + other.Float64())
	c.Kind, c.Mantissa, c.Base, c.Exponent = n.Kind, n.Mantissa, n.Base, n.Exponent
	return &c
}

func (v *Real) String() string {
	if !v.hasValue {
		return "<no value>"
	}
	switch v.Kind {
	case RealZero:
		return "0"
	case RealPositiveInfinity:
		return "PLUS-INFINITY"
	case RealNegativeInfinity:
		return "MINUS-INFINITY"
	case RealNaN:
		return "NOT-A-NUMBER"
	default:
		return strconv.FormatFloat(v.Float64(), 'g', -1, 64)
	}
}
