// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

// stringCodec converts between a Go string (a sequence of code points) and
// the fixed octet encoding a character string type uses on the wire, as
// named in §3: US-ASCII, ISO-8859-1, UTF-8, UTF-16BE or UTF-32BE.
type stringCodec struct {
	name string
	enc  func([]byte) ([]byte, error)
	dec  func([]byte) ([]byte, error)
}

func (c stringCodec) encodeString(s string) ([]byte, error) {
	if c.enc == nil { // UTF-8 is the identity codec
		return []byte(s), nil
	}
	b, err := c.enc([]byte(s))
	if err != nil {
		return nil, &UnicodeError{Type: c.name, Msg: err.Error()}
	}
	return b, nil
}

func (c stringCodec) decodeString(b []byte) (string, error) {
	if c.dec == nil {
		if !utf8.Valid(b) {
			return "", &UnicodeError{Type: c.name, Msg: "invalid UTF-8"}
		}
		return string(b), nil
	}
	out, err := c.dec(b)
	if err != nil {
		return "", &UnicodeError{Type: c.name, Msg: err.Error()}
	}
	return string(out), nil
}

// viaEncoding adapts a golang.org/x/text [encoding.Encoding] into the
// function pair stringCodec expects.
func viaEncoding(e encoding.Encoding) (enc, dec func([]byte) ([]byte, error)) {
	return e.NewEncoder().Bytes, e.NewDecoder().Bytes
}

// asciiEncode rejects any byte outside the 7-bit US-ASCII range.
func asciiEncode(b []byte) ([]byte, error) {
	for _, c := range b {
		if c > 0x7f {
			return nil, fmt.Errorf("byte 0x%02x is not valid US-ASCII", c)
		}
	}
	return b, nil
}

var (
	codecUTF8  = stringCodec{name: "UTF8String"}
	codecASCII = stringCodec{name: "ASCII", enc: asciiEncode, dec: asciiEncode}
)

var codecLatin1, codecUTF16BE, codecUTF32BE = func() (a, b, c stringCodec) {
	latin1Enc, latin1Dec := viaEncoding(charmap.ISO8859_1)
	u16Enc, u16Dec := viaEncoding(unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM))
	u32Enc, u32Dec := viaEncoding(utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM))
	return stringCodec{name: "ISO-8859-1", enc: latin1Enc, dec: latin1Dec},
		stringCodec{name: "UTF-16BE", enc: u16Enc, dec: u16Dec},
		stringCodec{name: "UTF-32BE", enc: u32Enc, dec: u32Dec}
}()

// CharacterStringType is the common implementation backing every ASN.1
// restricted and unrestricted character string type: NumericString,
// PrintableString, TeletexString, VideotexString, IA5String,
// GraphicString, VisibleString, GeneralString, UniversalString,
// CharacterString, BMPString and UTF8String.
type CharacterStringType struct {
	typeBase
	codec stringCodec
	base  uint32
}

func newCharacterStringType(base uint32, codec stringCodec) *CharacterStringType {
	return &CharacterStringType{typeBase{tagSet: NewTagSet(universal(base, Primitive))}, codec, base}
}

// NewNumericStringType creates the NumericString type (digits and space),
// enforced via a built-in [PermittedAlphabetConstraint].
func NewNumericStringType() *CharacterStringType {
	t := newCharacterStringType(TagNumericString, codecASCII)
	t.constraints = NewConstraints(PermittedAlphabetConstraint{Alphabet: "0123456789 "})
	return t
}

// NewPrintableStringType creates the PrintableString type.
func NewPrintableStringType() *CharacterStringType {
	t := newCharacterStringType(TagPrintableString, codecASCII)
	t.constraints = NewConstraints(PermittedAlphabetConstraint{
		Alphabet: "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789 '()+,-./:=?",
	})
	return t
}

// NewIA5StringType creates the IA5String type (US-ASCII, unrestricted).
func NewIA5StringType() *CharacterStringType { return newCharacterStringType(TagIA5String, codecASCII) }

// NewVisibleStringType creates the VisibleString (ISO646String) type.
func NewVisibleStringType() *CharacterStringType {
	return newCharacterStringType(TagVisibleString, codecASCII)
}

// NewTeletexStringType creates the TeletexString (T61String) type.
func NewTeletexStringType() *CharacterStringType {
	return newCharacterStringType(TagTeletexString, codecLatin1)
}

// NewVideotexStringType creates the VideotexString type.
func NewVideotexStringType() *CharacterStringType {
	return newCharacterStringType(TagVideotexString, codecLatin1)
}

// NewGraphicStringType creates the GraphicString type.
func NewGraphicStringType() *CharacterStringType {
	return newCharacterStringType(TagGraphicString, codecLatin1)
}

// NewGeneralStringType creates the GeneralString type.
func NewGeneralStringType() *CharacterStringType {
	return newCharacterStringType(TagGeneralString, codecLatin1)
}

// NewCharacterStringType creates the (unrestricted) CHARACTER STRING type.
func NewCharacterStringType() *CharacterStringType {
	return newCharacterStringType(TagCharacterString, codecUTF8)
}

// NewUTF8StringType creates the UTF8String type.
func NewUTF8StringType() *CharacterStringType { return newCharacterStringType(TagUTF8String, codecUTF8) }

// NewBMPStringType creates the BMPString type (UTF-16BE).
func NewBMPStringType() *CharacterStringType {
	return newCharacterStringType(TagBMPString, codecUTF16BE)
}

// NewUniversalStringType creates the UniversalString type (UTF-32BE).
func NewUniversalStringType() *CharacterStringType {
	return newCharacterStringType(TagUniversalString, codecUTF32BE)
}

func (t *CharacterStringType) IsSameTypeWith(other Type) bool {
	o, ok := other.(*CharacterStringType)
	return ok && t.base == o.base && t.sameTypeWith(o)
}

func (t *CharacterStringType) IsSuperTypeOf(other Type) bool {
	o, ok := other.(*CharacterStringType)
	return ok && t.base == o.base && t.superTypeOf(o)
}

// Subtype derives a new CharacterStringType from t.
func (t *CharacterStringType) Subtype(implicitTag, explicitTag *Tag, additional ...Constraint) (*CharacterStringType, error) {
	ts, err := deriveTagSet(t.tagSet, implicitTag, explicitTag)
	if err != nil {
		return nil, err
	}
	return &CharacterStringType{typeBase{tagSet: ts, constraints: t.constraints.And(additional...)}, t.codec, t.base}, nil
}

// NewValue constructs a CharacterString from a Go string. The string must
// be encodable in the type's declared codec and satisfy its constraints
// (e.g. a permitted alphabet).
func (t *CharacterStringType) NewValue(s string) (*CharacterString, error) {
	if _, err := t.codec.encodeString(s); err != nil {
		return nil, err
	}
	if err := t.constraints.Validate(s); err != nil {
		return nil, err
	}
	return &CharacterString{valueBase{tagSet: t.tagSet, constraints: t.constraints, hasValue: true}, t, s}, nil
}

// NoValue returns a schema-only CharacterString value object.
func (t *CharacterStringType) NoValue() *CharacterString {
	return &CharacterString{valueBase: valueBase{tagSet: t.tagSet, constraints: t.constraints}, typ: t}
}

// EncodeOctets converts s to the wire octets of t's declared codec, without
// running t's constraints. Codecs outside this package (e.g. asn1x.dev/asn1/ber)
// use this to produce the content octets of a character string encoding.
func (t *CharacterStringType) EncodeOctets(s string) ([]byte, error) {
	return t.codec.encodeString(s)
}

// DecodeOctets converts wire octets b back into a Go string using t's declared
// codec, without running t's constraints.
func (t *CharacterStringType) DecodeOctets(b []byte) (string, error) {
	return t.codec.decodeString(b)
}

// CharacterString is a value of [CharacterStringType].
type CharacterString struct {
	valueBase
	typ *CharacterStringType
	s   string
}

// Value returns the Go-native string payload.
func (v *CharacterString) Value() string {
	if !v.hasValue {
		panic(&NoValueError{Type: "CharacterString"})
	}
	return v.s
}

// Len returns the number of bytes (not runes) of the underlying string.
func (v *CharacterString) Len() int { return len(v.s) }

func (v *CharacterString) String() string {
	if !v.hasValue {
		return "<no value>"
	}
	return fmt.Sprintf("%q", v.s)
}
