// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package asn1 implements a schema-aware, in-memory model of values described
// by ASN.1 (Rec. ITU-T X.680): tags and tag sets, value constraints, named
// component tables, and a family of simple and constructed value types. The
// model is encoding-rule agnostic; the codecs that translate between this
// model and BER/CER/DER octet streams live in the [asn1x.dev/asn1/ber]
// subpackage, built on top of the TLV substrate in [asn1x.dev/asn1/tlv].
package asn1

import "strconv"

// Class identifies the namespace of a [Tag]. Rec. ITU-T X.680, Section 8
// defines four classes. ClassUniversal is reserved for the types defined by
// the ASN.1 standard itself.
type Class uint8

// The four ASN.1 tag classes.
const (
	ClassUniversal Class = iota
	ClassApplication
	ClassContextSpecific
	ClassPrivate
)

// String returns a human-readable representation of c.
func (c Class) String() string {
	switch c {
	case ClassUniversal:
		return "UNIVERSAL"
	case ClassApplication:
		return "APPLICATION"
	case ClassContextSpecific:
		return "CONTEXT"
	case ClassPrivate:
		return "PRIVATE"
	default:
		return "INVALID"
	}
}

// Format indicates whether a data value encoding carries its content directly
// (Primitive) or as a sequence of nested TLVs (Constructed). Format is an
// encoding hint: it is never part of a Tag's identity (see [Tag.Identity]).
type Format uint8

// The two ASN.1 encoding formats.
const (
	Primitive Format = iota
	Constructed
)

// String returns a human-readable representation of f.
func (f Format) String() string {
	if f == Constructed {
		return "constructed"
	}
	return "primitive"
}

// MaxTagNumber is the largest tag number supported by this package.
const MaxTagNumber = 1<<32 - 2

// A Tag identifies an ASN.1 type on the wire. It is the triple (class, format,
// number) from Rec. ITU-T X.690, Section 8.1.2. Two tags are considered the
// same type identifier iff their class and number agree; Format never
// participates in that comparison, see [Tag.Identity].
type Tag struct {
	Class  Class
	Format Format
	Number uint32
}

// NewTag constructs a Tag from its three components.
func NewTag(class Class, format Format, number uint32) Tag {
	return Tag{Class: class, Format: format, Number: number}
}

// Identity reports the (class, number) pair that gives t its identity,
// disregarding Format.
func (t Tag) Identity() (Class, uint32) { return t.Class, t.Number }

// sameIdentity reports whether t and other identify the same ASN.1 type,
// ignoring Format.
func (t Tag) sameIdentity(other Tag) bool {
	return t.Class == other.Class && t.Number == other.Number
}

// Less orders tags by (class, number), the order used for DER SET component
// sorting.
func (t Tag) Less(other Tag) bool {
	if t.Class != other.Class {
		return t.Class < other.Class
	}
	return t.Number < other.Number
}

// String returns a representation of t similar to ASN.1 notation, e.g.
// "[UNIVERSAL 16]" or "[3]" for a context-specific tag.
func (t Tag) String() string {
	n := strconv.FormatUint(uint64(t.Number), 10)
	switch t.Class {
	case ClassUniversal:
		return "[UNIVERSAL " + n + "]"
	case ClassApplication:
		return "[APPLICATION " + n + "]"
	case ClassPrivate:
		return "[PRIVATE " + n + "]"
	default:
		return "[" + n + "]"
	}
}

// TagReserved is the tag number reserved in the ClassUniversal namespace for
// use by encoding rules (the end-of-contents marker). Defined in Rec. ITU-T
// X.680, Section 8, Table 1.
const TagReserved = 0

// Universal tag numbers assigned by Rec. ITU-T X.680, Section 8, Table 1.
const (
	TagBoolean          uint32 = 1
	TagInteger          uint32 = 2
	TagBitString        uint32 = 3
	TagOctetString      uint32 = 4
	TagNull             uint32 = 5
	TagOID              uint32 = 6
	TagObjectDescriptor uint32 = 7
	TagExternal         uint32 = 8
	TagReal             uint32 = 9
	TagEnumerated       uint32 = 10
	TagEmbeddedPDV      uint32 = 11
	TagUTF8String       uint32 = 12
	TagRelativeOID      uint32 = 13
	TagSequence         uint32 = 16
	TagSet              uint32 = 17
	TagNumericString    uint32 = 18
	TagPrintableString  uint32 = 19
	TagTeletexString    uint32 = 20
	TagT61String        = TagTeletexString
	TagVideotexString   uint32 = 21
	TagIA5String        uint32 = 22
	TagUTCTime          uint32 = 23
	TagGeneralizedTime  uint32 = 24
	TagGraphicString    uint32 = 25
	TagVisibleString    uint32 = 26
	TagISO646String     = TagVisibleString
	TagGeneralString    uint32 = 27
	TagUniversalString  uint32 = 28
	TagCharacterString  uint32 = 29
	TagBMPString        uint32 = 30
)

// universal builds the Tag for a UNIVERSAL type with the given number and
// format.
func universal(number uint32, format Format) Tag {
	return Tag{Class: ClassUniversal, Format: format, Number: number}
}
