// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import (
	"strings"
)

// BitStringType is the ASN.1 BIT STRING type (Rec. ITU-T X.680, Section 22).
type BitStringType struct {
	typeBase
	Names NamedValues // optional named bit positions
}

// NewBitStringType creates an unconstrained BitStringType.
func NewBitStringType(names NamedValues) *BitStringType {
	return &BitStringType{typeBase{tagSet: NewTagSet(universal(TagBitString, Primitive))}, names}
}

func (t *BitStringType) IsSameTypeWith(other Type) bool {
	o, ok := other.(*BitStringType)
	return ok && t.sameTypeWith(o)
}

func (t *BitStringType) IsSuperTypeOf(other Type) bool {
	o, ok := other.(*BitStringType)
	return ok && t.superTypeOf(o)
}

// Subtype derives a new BitStringType from t.
func (t *BitStringType) Subtype(implicitTag, explicitTag *Tag, additional ...Constraint) (*BitStringType, error) {
	ts, err := deriveTagSet(t.tagSet, implicitTag, explicitTag)
	if err != nil {
		return nil, err
	}
	return &BitStringType{typeBase{tagSet: ts, constraints: t.constraints.And(additional...)}, t.Names}, nil
}

// bits is the normalised payload of a BIT STRING: bits packed MSB-first into
// bytes, with BitLength recording the number of significant bits.
type bits struct {
	Bytes     []byte
	BitLength int
}

// Len returns the number of bits.
func (b bits) Len() int { return b.BitLength }

// At returns the bit at index i (0 or 1). It panics if i is out of range.
func (b bits) At(i int) int {
	if i < 0 || i >= b.BitLength {
		panic("asn1: bit index out of range")
	}
	return int(b.Bytes[i/8]>>(7-uint(i%8))) & 1
}

func (b bits) String() string {
	var sb strings.Builder
	sb.Grow(b.BitLength)
	for i := 0; i < b.BitLength; i++ {
		sb.WriteByte(byte('0' + b.At(i)))
	}
	return sb.String()
}

// prettyInBitString normalises a native literal into the packed bits
// representation. Accepted literals: []bool (one entry per bit), string
// using the ASN.1 bstring notation "'1011'B", or a bits value.
func prettyInBitString(native any) (bits, error) {
	switch v := native.(type) {
	case bits:
		return v, nil
	case []bool:
		b := bits{Bytes: make([]byte, (len(v)+7)/8), BitLength: len(v)}
		for i, bit := range v {
			if bit {
				b.Bytes[i/8] |= 1 << (7 - uint(i%8))
			}
		}
		return b, nil
	case string:
		s := v
		if strings.HasSuffix(s, "'B") && strings.HasPrefix(s, "'") {
			s = s[1 : len(s)-2]
			b := bits{Bytes: make([]byte, (len(s)+7)/8), BitLength: len(s)}
			for i, c := range s {
				if c == '1' {
					b.Bytes[i/8] |= 1 << (7 - uint(i%8))
				} else if c != '0' {
					return bits{}, &SchemaError{Msg: "invalid bstring literal " + v}
				}
			}
			return b, nil
		}
		return bits{}, &SchemaError{Msg: "unsupported BIT STRING literal " + v}
	default:
		return bits{}, &SchemaError{Msg: "unsupported native literal for BIT STRING"}
	}
}

// NewValue constructs a BitString from a native literal (see
// prettyInBitString for accepted forms).
func (t *BitStringType) NewValue(native any) (*BitString, error) {
	b, err := prettyInBitString(native)
	if err != nil {
		return nil, err
	}
	if err := t.constraints.Validate(b); err != nil {
		return nil, err
	}
	return &BitString{valueBase{tagSet: t.tagSet, constraints: t.constraints, hasValue: true}, t, b}, nil
}

// NoValue returns a schema-only BitString value object.
func (t *BitStringType) NoValue() *BitString {
	return &BitString{valueBase: valueBase{tagSet: t.tagSet, constraints: t.constraints}, typ: t}
}

// NewValueFromBytes constructs a BitString from its wire representation: b
// packed MSB-first with bitLength significant bits. Codecs outside this
// package (e.g. asn1x.dev/asn1/ber) use this to rebuild a value straight from
// decoded content octets, bypassing the native-literal forms NewValue accepts.
func (t *BitStringType) NewValueFromBytes(b []byte, bitLength int) (*BitString, error) {
	v := bits{Bytes: b, BitLength: bitLength}
	if err := t.constraints.Validate(v); err != nil {
		return nil, err
	}
	return &BitString{valueBase{tagSet: t.tagSet, constraints: t.constraints, hasValue: true}, t, v}, nil
}

// BitString is a value of [BitStringType].
type BitString struct {
	valueBase
	typ *BitStringType
	b   bits
}

// Len returns the number of bits in v.
func (v *BitString) Len() int {
	if !v.hasValue {
		panic(&NoValueError{Type: "BitString"})
	}
	return v.b.Len()
}

// At returns the bit at index i.
func (v *BitString) At(i int) int {
	if !v.hasValue {
		panic(&NoValueError{Type: "BitString"})
	}
	return v.b.At(i)
}

// Bytes returns the packed, MSB-first byte representation together with the
// number of significant bits.
func (v *BitString) Bytes() ([]byte, int) {
	if !v.hasValue {
		panic(&NoValueError{Type: "BitString"})
	}
	return v.b.Bytes, v.b.BitLength
}

// NamedBit reports whether the bit registered under name is set. It returns
// false if name is not registered or the bit is absent/unset.
func (v *BitString) NamedBit(name string) bool {
	if v.typ == nil {
		return false
	}
	pos, ok := v.typ.Names[name]
	if !ok || pos < 0 || int(pos) >= v.b.BitLength {
		return false
	}
	return v.b.At(int(pos)) == 1
}

// Concat returns a new BitString of v's subtype with other's bits appended.
func (v *BitString) Concat(other *BitString) *BitString {
	total := v.b.BitLength + other.b.BitLength
	out := bits{Bytes: make([]byte, (total+7)/8), BitLength: total}
	for i := 0; i < v.b.BitLength; i++ {
		if v.b.At(i) == 1 {
			out.Bytes[i/8] |= 1 << (7 - uint(i%8))
		}
	}
	for i := 0; i < other.b.BitLength; i++ {
		if other.b.At(i) == 1 {
			j := v.b.BitLength + i
			out.Bytes[j/8] |= 1 << (7 - uint(j%8))
		}
	}
	c := *v
	c.b = out
	return &c
}

func (v *BitString) String() string {
	if !v.hasValue {
		return "<no value>"
	}
	return "'" + v.b.String() + "'B"
}

// unusedBits returns the number of unused trailing bits in the last octet, as
// used by the BER primitive BIT STRING encoding (§4.5).
func unusedBits(bitLength int) int {
	if bitLength == 0 {
		return 0
	}
	return (8 - bitLength%8) % 8
}
