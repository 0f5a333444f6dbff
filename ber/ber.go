// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ber implements encoding and decoding of [asn1x.dev/asn1] Type/Value
// pairs using the Basic, Canonical, and Distinguished Encoding Rules (BER,
// CER, DER) of [Rec. ITU-T X.690].
//
// Unlike a reflection-based codec, this package is driven entirely by the
// explicit schema objects of the asn1 package: every Encode or Decode call is
// given the [asn1.Type] it is producing or consuming, which resolves tagging,
// component order, and OPTIONAL/DEFAULT handling without struct tags. Callers
// without a schema can use [DecodeAny] to walk an encoding using only the
// UNIVERSAL class tags defined by X.680, producing native Go values and
// falling back to [RawValue] for anything else (application- or
// context-tagged data, or a construct this package does not recognize).
//
// # Dialects
//
// A [Dialect] selects which of the three encoding rules governs encoding:
//
//   - [BER] accepts any valid tag-length-value structure, including the
//     indefinite-length form, and imposes no canonical ordering on SET or
//     SET OF.
//   - [CER] writes every constructed encoding with the indefinite-length
//     form, splits OCTET STRING and character string content over 1000 octets
//     into 1000-octet segments and BIT STRING content over 1000 bits into
//     1000-bit segments, and writes SET and SET OF in canonical order as DER
//     does.
//   - [DER] forbids the indefinite-length form entirely, requires the
//     shortest possible definite length and INTEGER/ENUMERATED encoding, and
//     requires SET and SET OF to be written in canonical order.
//
// Decoding rejects the same violations the chosen dialect's encoder would
// never produce: CER and DER both reject non-minimal INTEGER/ENUMERATED
// encodings and (in [Unmarshal], whose schema tells SET from SET OF; not in
// [DecodeAny]) out-of-canonical-order SET/SET OF; CER additionally rejects
// BIT STRING/OCTET STRING/character string chunk sizes outside its 1000-unit
// rule; DER additionally rejects the indefinite-length form and constructed
// BIT STRING/OCTET STRING/character strings altogether. Under BER none of
// these checks run, accepting the full generality of the encoding. One
// canonicality rule is not enforced at decode time in any dialect: the length
// octets' own minimal-octet-count form, since
// [asn1x.dev/asn1/tlv.Header] does not retain how many length octets were
// used on the wire (see DESIGN.md).
//
// [Rec. ITU-T X.690]: https://www.itu.int/rec/T-REC-X.690
package ber

import (
	"fmt"

	"asn1x.dev/asn1"
)

// Dialect selects which ASN.1 encoding rules govern an Encode call.
type Dialect uint8

const (
	// BER is the Basic Encoding Rules: the most permissive dialect.
	BER Dialect = iota
	// CER is the Canonical Encoding Rules: definite-length chunking for long
	// string types, indefinite length everywhere else.
	CER
	// DER is the Distinguished Encoding Rules: always definite-length,
	// minimal, and with SET/SET OF in canonical order.
	DER
)

func (d Dialect) String() string {
	switch d {
	case BER:
		return "BER"
	case CER:
		return "CER"
	case DER:
		return "DER"
	default:
		return fmt.Sprintf("Dialect(%d)", uint8(d))
	}
}

// Flag is a boolean marker type. Neither Marshal, Unmarshal nor DecodeAny
// accepts or produces it.
type Flag bool

// A RawValue represents an un-decoded ASN.1 object: the concrete tag present
// on the wire together with its content octets. During decoding the syntax of
// structured elements is validated, so Bytes are guaranteed to hold a valid
// BER encoding of whatever Tag names. RawValue is only produced by
// [DecodeAny]; Marshal does not accept it.
type RawValue struct {
	Tag         asn1.Tag
	Constructed bool
	Bytes       []byte
}

// String returns a string representation of rv. The byte contents of rv are
// only included if they are short enough.
func (rv RawValue) String() string {
	constructed := "primitive"
	if rv.Constructed {
		constructed = "constructed"
	}
	if len(rv.Bytes) > 24 {
		return fmt.Sprintf("RawValue{%s (%s) {%d bytes}}", rv.Tag.String(), constructed, len(rv.Bytes))
	}
	return fmt.Sprintf("RawValue{%s (%s) {% X}}", rv.Tag.String(), constructed, rv.Bytes)
}

// UnsupportedTypeError indicates that [Marshal] or [Unmarshal] was given an
// [asn1.Type] (or, for Marshal, an [asn1.Value]) that this package does not
// know how to encode or decode.
type UnsupportedTypeError struct {
	Type asn1.Type
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("ber: unsupported type %T", e.Type)
}

// EncodeError indicates that a value failed validation or canonicality
// checks during encoding.
type EncodeError struct {
	Value asn1.Value
	Err   error
}

func (e *EncodeError) Error() string { return "ber: encode error: " + e.Err.Error() }
func (e *EncodeError) Unwrap() error { return e.Err }

// DecodeError indicates that the decoder could not make sense of the bytes
// it was given against the provided schema.
type DecodeError struct {
	Type asn1.Type
	Err  error
}

func (e *DecodeError) Error() string { return "ber: decode error: " + e.Err.Error() }
func (e *DecodeError) Unwrap() error { return e.Err }
