// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ber

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"math/big"
	"strconv"
	"strings"

	"asn1x.dev/asn1"
	"asn1x.dev/asn1/internal/vlq"
	"asn1x.dev/asn1/tlv"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

// Unmarshal decodes a single value of typ from the front of data. Under CER
// and DER, dialect additionally drives the canonicality checks described at
// §4.5: the indefinite length form, constructed primitives, non-minimal
// integers, out-of-spec CER chunk sizes, and SET/SET OF ordering are all
// rejected; under BER every one of those checks is skipped, accepting the
// full generality of the encoding.
func Unmarshal(dialect Dialect, typ asn1.Type, data []byte) (asn1.Value, []byte, error) {
	d := tlv.NewDecoder(bytes.NewReader(data))
	v, err := decodeValue(d, data, dialect, typ)
	if err != nil {
		return nil, nil, err
	}
	return v, data[d.InputOffset():], nil
}

// checkDefiniteLength rejects the indefinite length form under DER, which
// requires every length to be definite (X.690 §10.1). BER permits it freely
// and CER's own constructed chunking relies on it, so this only ever fires
// under DER. EOC markers always carry Length == 0, never LengthIndefinite, so
// it is safe to call this on every header this package reads, including the
// terminator.
func checkDefiniteLength(dialect Dialect, h tlv.Header) error {
	if dialect == DER && h.Length == tlv.LengthIndefinite {
		return fmt.Errorf("ber: indefinite length not permitted under DER (tag %s)", h.Tag)
	}
	return nil
}

// isMinimalTwosComplement reports whether b is the shortest possible
// two's-complement encoding of its value: CER and DER forbid a redundant
// leading 0x00 or 0xFF octet (X.690 §8.3.2); BER permits it.
func isMinimalTwosComplement(b []byte) bool {
	if len(b) < 2 {
		return true
	}
	if b[0] == 0x00 && b[1]&0x80 == 0 {
		return false
	}
	if b[0] == 0xFF && b[1]&0x80 != 0 {
		return false
	}
	return true
}

func decodeValue(d *tlv.Decoder, raw []byte, dialect Dialect, typ asn1.Type) (asn1.Value, error) {
	if at, ok := typ.(*asn1.AnyType); ok {
		h, val, err := d.ReadHeader()
		if err != nil {
			return nil, err
		}
		if err := checkDefiniteLength(dialect, h); err != nil {
			return nil, &DecodeError{Type: typ, Err: err}
		}
		content, err := captureContent(d, raw, h, val)
		if err != nil {
			return nil, err
		}
		return at.NewValue(h.Tag, content), nil
	}
	if ct, ok := typ.(*asn1.ChoiceType); ok && ct.TagSet().Len() == 0 {
		return decodeChoicePayload(d, raw, dialect, ct)
	}
	h, val, err := d.ReadHeader()
	if err != nil {
		return nil, err
	}
	if err := checkDefiniteLength(dialect, h); err != nil {
		return nil, &DecodeError{Type: typ, Err: err}
	}
	return decodeTagged(d, raw, dialect, typ, h, val)
}

// decodeTagged consumes the remaining layers of typ's TagSet, given that h
// (and val, if primitive) is already the header matching typ.TagSet().At(0).
func decodeTagged(d *tlv.Decoder, raw []byte, dialect Dialect, typ asn1.Type, h tlv.Header, val *tlv.Value) (asn1.Value, error) {
	ts := typ.TagSet()
	for i := 1; i < ts.Len(); i++ {
		if !h.Constructed {
			return nil, &DecodeError{Type: typ, Err: fmt.Errorf("tag %s requires constructed encoding", h.Tag)}
		}
		var err error
		h, val, err = d.ReadHeader()
		if err != nil {
			return nil, err
		}
		if err := checkDefiniteLength(dialect, h); err != nil {
			return nil, &DecodeError{Type: typ, Err: err}
		}
	}
	return decodeContent(d, raw, dialect, typ, h, val)
}

func decodeContent(d *tlv.Decoder, raw []byte, dialect Dialect, typ asn1.Type, h tlv.Header, val *tlv.Value) (asn1.Value, error) {
	switch t := typ.(type) {
	case *asn1.BooleanType:
		b, err := primitiveContent("BOOLEAN", h, val)
		if err != nil {
			return nil, err
		}
		if len(b) == 0 {
			return nil, &DecodeError{Type: t, Err: fmt.Errorf("empty BOOLEAN content")}
		}
		return t.NewValue(b[0] != 0)
	case *asn1.IntegerType:
		b, err := primitiveContent("INTEGER", h, val)
		if err != nil {
			return nil, err
		}
		if dialect != BER && !isMinimalTwosComplement(b) {
			return nil, &DecodeError{Type: t, Err: fmt.Errorf("non-minimal INTEGER encoding")}
		}
		return t.NewValue(decodeTwosComplement(b))
	case *asn1.EnumeratedType:
		b, err := primitiveContent("ENUMERATED", h, val)
		if err != nil {
			return nil, err
		}
		if dialect != BER && !isMinimalTwosComplement(b) {
			return nil, &DecodeError{Type: t, Err: fmt.Errorf("non-minimal ENUMERATED encoding")}
		}
		n := decodeTwosComplement(b)
		if !n.IsInt64() {
			return nil, &DecodeError{Type: t, Err: fmt.Errorf("ENUMERATED value out of range")}
		}
		return t.NewValue(n.Int64())
	case *asn1.NullType:
		return t.NewValue(), nil
	case *asn1.BitStringType:
		return decodeBitString(d, dialect, t, h, val)
	case *asn1.OctetStringType:
		return decodeOctetString(d, dialect, t, h, val)
	case *asn1.ObjectIdentifierType:
		b, err := primitiveContent("OBJECT IDENTIFIER", h, val)
		if err != nil {
			return nil, err
		}
		arcs, err := decodeOIDArcs(b, true)
		if err != nil {
			return nil, &DecodeError{Type: t, Err: err}
		}
		return t.NewValue(arcs)
	case *asn1.RelativeObjectIdentifierType:
		b, err := primitiveContent("RELATIVE-OID", h, val)
		if err != nil {
			return nil, err
		}
		arcs, err := decodeOIDArcs(b, false)
		if err != nil {
			return nil, &DecodeError{Type: t, Err: err}
		}
		return t.NewValue(arcs)
	case *asn1.RealType:
		b, err := primitiveContent("REAL", h, val)
		if err != nil {
			return nil, err
		}
		rv, err := decodeReal(t, b)
		if err != nil {
			return nil, &DecodeError{Type: t, Err: err}
		}
		return rv, nil
	case *asn1.CharacterStringType:
		return decodeCharacterString(d, dialect, t, h, val)
	case *asn1.TimeType:
		b, err := primitiveContent("time", h, val)
		if err != nil {
			return nil, err
		}
		return t.NewValue(string(b))
	case *asn1.SequenceType:
		return decodeSequenceBody(d, raw, dialect, t)
	case *asn1.SequenceOfType:
		return decodeSequenceOfBody(d, raw, dialect, t)
	case *asn1.SetType:
		return decodeSetBody(d, raw, dialect, t)
	case *asn1.SetOfType:
		return decodeSetOfBody(d, raw, dialect, t)
	case *asn1.ChoiceType:
		return decodeChoicePayload(d, raw, dialect, t)
	default:
		return nil, &UnsupportedTypeError{Type: typ}
	}
}

func primitiveContent(name string, h tlv.Header, val *tlv.Value) ([]byte, error) {
	if h.Constructed {
		return nil, fmt.Errorf("ber: %s must use primitive encoding", name)
	}
	return readAll(val)
}

func readAll(val *tlv.Value) ([]byte, error) {
	b := make([]byte, val.Len())
	if _, err := io.ReadFull(val, b); err != nil {
		return nil, err
	}
	return b, nil
}

// captureContent returns the content octets of the value whose header (h,
// val) was just read: for a primitive value, its content; for a constructed
// value, everything up to (and, for indefinite length, including) its
// terminator, exactly as it appears in raw.
func captureContent(d *tlv.Decoder, raw []byte, h tlv.Header, val *tlv.Value) ([]byte, error) {
	if !h.Constructed {
		return readAll(val)
	}
	start := d.InputOffset()
	if err := d.Skip(); err != nil {
		return nil, err
	}
	return append([]byte(nil), raw[start:d.InputOffset()]...), nil
}

func decodeTwosComplement(b []byte) *big.Int {
	if len(b) == 0 {
		return big.NewInt(0)
	}
	n := new(big.Int).SetBytes(b)
	if b[0]&0x80 != 0 {
		full := new(big.Int).Lsh(big.NewInt(1), uint(len(b)*8))
		n.Sub(n, full)
	}
	return n
}

func decodeBitString(d *tlv.Decoder, dialect Dialect, t *asn1.BitStringType, h tlv.Header, val *tlv.Value) (*asn1.BitString, error) {
	if !h.Constructed {
		b, err := readAll(val)
		if err != nil {
			return nil, err
		}
		if len(b) == 0 {
			return nil, &DecodeError{Type: t, Err: fmt.Errorf("empty BIT STRING content")}
		}
		if dialect == CER && (len(b)-1)*8-int(b[0]) > cerChunkBits {
			return nil, &DecodeError{Type: t, Err: fmt.Errorf("CER requires chunked encoding above %d bits", cerChunkBits)}
		}
		return t.NewValueFromBytes(b[1:], (len(b)-1)*8-int(b[0]))
	}
	if dialect == DER {
		return nil, &DecodeError{Type: t, Err: fmt.Errorf("constructed BIT STRING not permitted under DER")}
	}
	var all []byte
	total := 0
	prevUnused := 0
	pending := -1
	for {
		ch, cval, err := d.ReadHeader()
		if err != nil {
			return nil, err
		}
		if err := checkDefiniteLength(dialect, ch); err != nil {
			return nil, &DecodeError{Type: t, Err: err}
		}
		if ch.Tag == tlv.TagEndOfContents {
			break
		}
		if ch.Constructed {
			return nil, &DecodeError{Type: t, Err: fmt.Errorf("nested constructed BIT STRING chunks are not supported")}
		}
		b, err := readAll(cval)
		if err != nil {
			return nil, err
		}
		if len(b) == 0 {
			continue
		}
		if dialect == CER {
			n := (len(b)-1)*8 - int(b[0])
			if n > cerChunkBits {
				return nil, &DecodeError{Type: t, Err: fmt.Errorf("CER BIT STRING chunk exceeds %d bits", cerChunkBits)}
			}
			if pending >= 0 && pending != cerChunkBits {
				return nil, &DecodeError{Type: t, Err: fmt.Errorf("CER BIT STRING chunk is not the final one but is not exactly %d bits", cerChunkBits)}
			}
			pending = n
		}
		if prevUnused != 0 {
			return nil, &DecodeError{Type: t, Err: fmt.Errorf("BIT STRING chunk with %d unused bits is not the final chunk", prevUnused)}
		}
		prevUnused = int(b[0])
		all = append(all, b[1:]...)
		total += (len(b) - 1) * 8 - int(b[0])
	}
	return t.NewValueFromBytes(all, total)
}

func decodeOctetString(d *tlv.Decoder, dialect Dialect, t *asn1.OctetStringType, h tlv.Header, val *tlv.Value) (*asn1.OctetString, error) {
	if !h.Constructed {
		b, err := readAll(val)
		if err != nil {
			return nil, err
		}
		if dialect == CER && len(b) > cerChunkOctets {
			return nil, &DecodeError{Type: t, Err: fmt.Errorf("CER requires chunked encoding above %d octets", cerChunkOctets)}
		}
		return t.NewValue(b)
	}
	if dialect == DER {
		return nil, &DecodeError{Type: t, Err: fmt.Errorf("constructed OCTET STRING not permitted under DER")}
	}
	var all []byte
	pending := -1
	for {
		ch, cval, err := d.ReadHeader()
		if err != nil {
			return nil, err
		}
		if err := checkDefiniteLength(dialect, ch); err != nil {
			return nil, &DecodeError{Type: t, Err: err}
		}
		if ch.Tag == tlv.TagEndOfContents {
			break
		}
		if ch.Constructed {
			return nil, &DecodeError{Type: t, Err: fmt.Errorf("nested constructed OCTET STRING chunks are not supported")}
		}
		b, err := readAll(cval)
		if err != nil {
			return nil, err
		}
		if dialect == CER {
			if len(b) > cerChunkOctets {
				return nil, &DecodeError{Type: t, Err: fmt.Errorf("CER OCTET STRING chunk exceeds %d octets", cerChunkOctets)}
			}
			if pending >= 0 && pending != cerChunkOctets {
				return nil, &DecodeError{Type: t, Err: fmt.Errorf("CER OCTET STRING chunk is not the final one but is not exactly %d octets", cerChunkOctets)}
			}
			pending = len(b)
		}
		all = append(all, b...)
	}
	return t.NewValue(all)
}

func decodeCharacterString(d *tlv.Decoder, dialect Dialect, t *asn1.CharacterStringType, h tlv.Header, val *tlv.Value) (*asn1.CharacterString, error) {
	var raw []byte
	if !h.Constructed {
		b, err := readAll(val)
		if err != nil {
			return nil, err
		}
		if dialect == CER && len(b) > cerChunkOctets {
			return nil, &DecodeError{Type: t, Err: fmt.Errorf("CER requires chunked encoding above %d octets", cerChunkOctets)}
		}
		raw = b
	} else {
		if dialect == DER {
			return nil, &DecodeError{Type: t, Err: fmt.Errorf("constructed character string not permitted under DER")}
		}
		pending := -1
		for {
			ch, cval, err := d.ReadHeader()
			if err != nil {
				return nil, err
			}
			if err := checkDefiniteLength(dialect, ch); err != nil {
				return nil, &DecodeError{Type: t, Err: err}
			}
			if ch.Tag == tlv.TagEndOfContents {
				break
			}
			if ch.Constructed {
				return nil, &DecodeError{Type: t, Err: fmt.Errorf("nested constructed character string chunks are not supported")}
			}
			b, err := readAll(cval)
			if err != nil {
				return nil, err
			}
			if dialect == CER {
				if len(b) > cerChunkOctets {
					return nil, &DecodeError{Type: t, Err: fmt.Errorf("CER character string chunk exceeds %d octets", cerChunkOctets)}
				}
				if pending >= 0 && pending != cerChunkOctets {
					return nil, &DecodeError{Type: t, Err: fmt.Errorf("CER character string chunk is not the final one but is not exactly %d octets", cerChunkOctets)}
				}
				pending = len(b)
			}
			raw = append(raw, b...)
		}
	}
	s, err := t.DecodeOctets(raw)
	if err != nil {
		return nil, &DecodeError{Type: t, Err: err}
	}
	return t.NewValue(s)
}

func decodeSequenceBody(d *tlv.Decoder, raw []byte, dialect Dialect, st *asn1.SequenceType) (*asn1.Sequence, error) {
	n := st.Components.Len()
	values := make([]asn1.Value, n)
	pos := 0
	for {
		h, val, err := d.ReadHeader()
		if err != nil {
			return nil, err
		}
		if err := checkDefiniteLength(dialect, h); err != nil {
			return nil, &DecodeError{Type: st, Err: err}
		}
		if h.Tag == tlv.TagEndOfContents {
			break
		}
		i := st.Components.PositionNearTag(h.Tag, pos)
		if i < 0 {
			return nil, &DecodeError{Type: st, Err: fmt.Errorf("unexpected component with tag %s", h.Tag)}
		}
		for pos < i {
			if err := fillAbsent(st.Components, pos, values); err != nil {
				return nil, &DecodeError{Type: st, Err: err}
			}
			pos++
		}
		v, err := decodeTagged(d, raw, dialect, st.Components.TypeAt(i), h, val)
		if err != nil {
			return nil, err
		}
		values[pos] = v
		pos++
	}
	for pos < n {
		if err := fillAbsent(st.Components, pos, values); err != nil {
			return nil, &DecodeError{Type: st, Err: err}
		}
		pos++
	}
	v, err := st.NewValue(values...)
	if err != nil {
		return nil, &DecodeError{Type: st, Err: err}
	}
	return v, nil
}

func fillAbsent(components *asn1.NamedTypes, pos int, values []asn1.Value) error {
	comp := components.At(pos)
	if comp.Kind == asn1.Required {
		return fmt.Errorf("missing required component %q", comp.Name)
	}
	if comp.Kind == asn1.Defaulted {
		values[pos] = comp.Default
	}
	return nil
}

func decodeSequenceOfBody(d *tlv.Decoder, raw []byte, dialect Dialect, st *asn1.SequenceOfType) (*asn1.SequenceOf, error) {
	var elements []asn1.Value
	for {
		h, val, err := d.ReadHeader()
		if err != nil {
			return nil, err
		}
		if err := checkDefiniteLength(dialect, h); err != nil {
			return nil, &DecodeError{Type: st, Err: err}
		}
		if h.Tag == tlv.TagEndOfContents {
			break
		}
		v, err := decodeTagged(d, raw, dialect, st.Element, h, val)
		if err != nil {
			return nil, err
		}
		elements = append(elements, v)
	}
	v, err := st.NewValue(elements...)
	if err != nil {
		return nil, &DecodeError{Type: st, Err: err}
	}
	return v, nil
}

// decodeSetBody accepts components in any order under BER, matching its full
// generality. Under CER and DER it additionally requires components to
// appear on the wire in ascending tag order (the same order
// [asn1.SetType.CanonicalOrder] makes the encoder write them in, §4.5) and
// rejects any permutation of that order.
func decodeSetBody(d *tlv.Decoder, raw []byte, dialect Dialect, st *asn1.SetType) (*asn1.Set, error) {
	n := st.Components.Len()
	values := make([]asn1.Value, n)
	seen := make([]bool, n)
	var wireOrder []int
	for {
		h, val, err := d.ReadHeader()
		if err != nil {
			return nil, err
		}
		if err := checkDefiniteLength(dialect, h); err != nil {
			return nil, &DecodeError{Type: st, Err: err}
		}
		if h.Tag == tlv.TagEndOfContents {
			break
		}
		i := st.Components.PositionOfTag(h.Tag)
		if i < 0 || seen[i] {
			return nil, &DecodeError{Type: st, Err: fmt.Errorf("unexpected component with tag %s", h.Tag)}
		}
		seen[i] = true
		wireOrder = append(wireOrder, i)
		v, err := decodeTagged(d, raw, dialect, st.Components.TypeAt(i), h, val)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	if dialect != BER {
		want := make([]int, 0, len(wireOrder))
		for _, i := range st.CanonicalOrder() {
			if seen[i] {
				want = append(want, i)
			}
		}
		for k, i := range wireOrder {
			if want[k] != i {
				return nil, &DecodeError{Type: st, Err: fmt.Errorf("SET components not in canonical tag order under %s", dialect)}
			}
		}
	}
	for i := 0; i < n; i++ {
		if seen[i] {
			continue
		}
		if err := fillAbsent(st.Components, i, values); err != nil {
			return nil, &DecodeError{Type: st, Err: err}
		}
	}
	v, err := st.NewValue(values...)
	if err != nil {
		return nil, &DecodeError{Type: st, Err: err}
	}
	return v, nil
}

// decodeSetOfBody accepts elements in any order under BER. Under CER and DER
// it additionally requires elements to appear on the wire sorted ascending by
// their own complete encoding (the same order the encoder sorts
// [asn1.SetOfType] elements into, §4.6) and rejects any other order.
func decodeSetOfBody(d *tlv.Decoder, raw []byte, dialect Dialect, st *asn1.SetOfType) (*asn1.SetOf, error) {
	var elements []asn1.Value
	var prevEncoding []byte
	for {
		start := d.InputOffset()
		h, val, err := d.ReadHeader()
		if err != nil {
			return nil, err
		}
		if err := checkDefiniteLength(dialect, h); err != nil {
			return nil, &DecodeError{Type: st, Err: err}
		}
		if h.Tag == tlv.TagEndOfContents {
			break
		}
		v, err := decodeTagged(d, raw, dialect, st.Element, h, val)
		if err != nil {
			return nil, err
		}
		if dialect != BER {
			encoding := raw[start:d.InputOffset()]
			if prevEncoding != nil && bytes.Compare(encoding, prevEncoding) < 0 {
				return nil, &DecodeError{Type: st, Err: fmt.Errorf("SET OF elements not in canonical (lexicographic) order under %s", dialect)}
			}
			prevEncoding = encoding
		}
		elements = append(elements, v)
	}
	v, err := st.NewValue(elements...)
	if err != nil {
		return nil, &DecodeError{Type: st, Err: err}
	}
	return v, nil
}

// decodeChoicePayload reads the next header as the selected alternative's own
// outer tag. It is used both when a CHOICE is untagged (the alternative's tag
// is the first thing on the wire) and when it is explicitly tagged (the
// wrapper's header was already consumed by decodeTagged, and this reads the
// alternative nested inside it).
func decodeChoicePayload(d *tlv.Decoder, raw []byte, dialect Dialect, ct *asn1.ChoiceType) (*asn1.Choice, error) {
	h, val, err := d.ReadHeader()
	if err != nil {
		return nil, err
	}
	if err := checkDefiniteLength(dialect, h); err != nil {
		return nil, &DecodeError{Type: ct, Err: err}
	}
	i := ct.Alternatives.PositionOfTag(h.Tag)
	if i < 0 {
		return nil, &DecodeError{Type: ct, Err: fmt.Errorf("no alternative matches tag %s", h.Tag)}
	}
	payload, err := decodeTagged(d, raw, dialect, ct.Alternatives.TypeAt(i), h, val)
	if err != nil {
		return nil, err
	}
	v, err := ct.NewValue(ct.Alternatives.NameAt(i), payload)
	if err != nil {
		return nil, &DecodeError{Type: ct, Err: err}
	}
	return v, nil
}

func decodeOIDArcs(b []byte, combineFirstTwo bool) ([]uint64, error) {
	r := bytes.NewReader(b)
	var arcs []uint64
	for r.Len() > 0 {
		v, err := vlq.ReadMinimal[uint64](r)
		if err != nil {
			return nil, err
		}
		arcs = append(arcs, v)
	}
	if !combineFirstTwo {
		return arcs, nil
	}
	if len(arcs) == 0 {
		return nil, fmt.Errorf("empty object identifier")
	}
	first := arcs[0]
	var x, y uint64
	switch {
	case first < 40:
		x, y = 0, first
	case first < 80:
		x, y = 1, first-40
	default:
		x, y = 2, first-80
	}
	return append([]uint64{x, y}, arcs[1:]...), nil
}

func arcsString(arcs []uint64) string {
	var sb strings.Builder
	for i, a := range arcs {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(strconv.FormatUint(a, 10))
	}
	return sb.String()
}

// decodeBinaryRealParts parses the mantissa/exponent of the binary-form REAL
// encoding (X.690 §8.5.7). b[0] must have its top (binary-form) bit set; a
// base other than 2 is rejected with an error.
func decodeBinaryRealParts(b []byte) (*big.Int, int64, error) {
	first := b[0]
	if first&0x30 != 0 {
		return nil, 0, fmt.Errorf("ber: only binary REAL base 2 is supported for decoding")
	}
	sign := int64(1)
	if first&0x40 != 0 {
		sign = -1
	}
	scaleFactor := uint((first >> 2) & 0x03)
	i := 1
	var expLen int
	switch first & 0x03 {
	case 0:
		expLen = 1
	case 1:
		expLen = 2
	case 2:
		expLen = 3
	default:
		if i >= len(b) {
			return nil, 0, fmt.Errorf("ber: truncated REAL")
		}
		expLen = int(b[i])
		i++
	}
	if i+expLen > len(b) {
		return nil, 0, fmt.Errorf("ber: truncated REAL exponent")
	}
	expBig := decodeTwosComplement(b[i : i+expLen])
	if !expBig.IsInt64() {
		return nil, 0, fmt.Errorf("ber: REAL exponent too large")
	}
	i += expLen
	mantissa := new(big.Int).SetBytes(b[i:])
	mantissa.Lsh(mantissa, scaleFactor)
	mantissa.Mul(mantissa, big.NewInt(sign))
	return mantissa, expBig.Int64(), nil
}

func decodeReal(t *asn1.RealType, b []byte) (*asn1.Real, error) {
	if len(b) == 0 || b[0] == 0x00 {
		return t.NewValue(0.0)
	}
	switch b[0] {
	case 0x40:
		return t.NewValue(math.Inf(1))
	case 0x41:
		return t.NewValue(math.Inf(-1))
	case 0x42:
		return t.NewValue(math.NaN())
	}
	if b[0]&0x80 == 0 {
		return nil, fmt.Errorf("ber: decimal/character REAL encoding not supported")
	}
	mantissa, exponent, err := decodeBinaryRealParts(b)
	if err != nil {
		return nil, err
	}
	if !mantissa.IsInt64() {
		return nil, fmt.Errorf("ber: REAL mantissa too large to decode exactly")
	}
	return t.NewValue([3]int64{mantissa.Int64(), 2, exponent})
}

// DecodeAny walks a single encoded value at the front of data without a
// schema, using only the UNIVERSAL class tags defined by X.680 to produce
// native Go values (bool, *big.Int, string, []byte, float64, nil,
// [RawBitString] for BIT STRING, []any for SEQUENCE/SET). Anything else — application/context/private tags, or a
// UNIVERSAL construct this package does not know how to interpret outside a
// schema — decodes to a [RawValue].
func DecodeAny(dialect Dialect, data []byte) (any, []byte, error) {
	d := tlv.NewDecoder(bytes.NewReader(data))
	v, err := decodeUntypedValue(d, data, dialect)
	if err != nil {
		return nil, nil, err
	}
	return v, data[d.InputOffset():], nil
}

func decodeUntypedValue(d *tlv.Decoder, raw []byte, dialect Dialect) (any, error) {
	h, val, err := d.ReadHeader()
	if err != nil {
		return nil, err
	}
	if err := checkDefiniteLength(dialect, h); err != nil {
		return nil, err
	}
	return decodeUntypedContent(d, raw, dialect, h, val)
}

func decodeUntypedContent(d *tlv.Decoder, raw []byte, dialect Dialect, h tlv.Header, val *tlv.Value) (any, error) {
	if h.Tag.Class != asn1.ClassUniversal {
		content, err := captureContent(d, raw, h, val)
		if err != nil {
			return nil, err
		}
		return RawValue{Tag: h.Tag, Constructed: h.Constructed, Bytes: content}, nil
	}
	switch h.Tag.Number {
	case asn1.TagBoolean:
		b, err := primitiveContent("BOOLEAN", h, val)
		if err != nil {
			return nil, err
		}
		return len(b) > 0 && b[0] != 0, nil
	case asn1.TagInteger, asn1.TagEnumerated:
		b, err := primitiveContent("INTEGER", h, val)
		if err != nil {
			return nil, err
		}
		if dialect != BER && !isMinimalTwosComplement(b) {
			return nil, fmt.Errorf("ber: non-minimal INTEGER encoding")
		}
		return decodeTwosComplement(b), nil
	case asn1.TagNull:
		return nil, nil
	case asn1.TagBitString:
		bs, err := decodeUntypedBitString(d, dialect, h, val)
		if err != nil {
			return nil, err
		}
		return bs, nil
	case asn1.TagOctetString:
		return decodeUntypedOctetString(d, dialect, h, val)
	case asn1.TagOID:
		b, err := primitiveContent("OBJECT IDENTIFIER", h, val)
		if err != nil {
			return nil, err
		}
		arcs, err := decodeOIDArcs(b, true)
		if err != nil {
			return nil, err
		}
		return arcsString(arcs), nil
	case asn1.TagRelativeOID:
		b, err := primitiveContent("RELATIVE-OID", h, val)
		if err != nil {
			return nil, err
		}
		arcs, err := decodeOIDArcs(b, false)
		if err != nil {
			return nil, err
		}
		return arcsString(arcs), nil
	case asn1.TagReal:
		b, err := primitiveContent("REAL", h, val)
		if err != nil {
			return nil, err
		}
		return decodeUntypedReal(b)
	case asn1.TagUTCTime, asn1.TagGeneralizedTime:
		b, err := primitiveContent("time", h, val)
		if err != nil {
			return nil, err
		}
		return string(b), nil
	case asn1.TagBMPString:
		raw2, err := decodeUntypedOctetString(d, dialect, h, val)
		if err != nil {
			return nil, err
		}
		return decodeUTF16BE(raw2)
	case asn1.TagUniversalString:
		raw2, err := decodeUntypedOctetString(d, dialect, h, val)
		if err != nil {
			return nil, err
		}
		return decodeUTF32BE(raw2)
	case asn1.TagTeletexString, asn1.TagVideotexString, asn1.TagGraphicString, asn1.TagGeneralString:
		raw2, err := decodeUntypedOctetString(d, dialect, h, val)
		if err != nil {
			return nil, err
		}
		return decodeLatin1(raw2)
	case asn1.TagUTF8String, asn1.TagNumericString, asn1.TagPrintableString, asn1.TagIA5String, asn1.TagVisibleString, asn1.TagCharacterString:
		raw2, err := decodeUntypedOctetString(d, dialect, h, val)
		if err != nil {
			return nil, err
		}
		return string(raw2), nil
	case asn1.TagSequence, asn1.TagSet:
		var elems []any
		for {
			ch, cval, err := d.ReadHeader()
			if err != nil {
				return nil, err
			}
			if err := checkDefiniteLength(dialect, ch); err != nil {
				return nil, err
			}
			if ch.Tag == tlv.TagEndOfContents {
				break
			}
			e, err := decodeUntypedContent(d, raw, dialect, ch, cval)
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
		}
		return elems, nil
	default:
		content, err := captureContent(d, raw, h, val)
		if err != nil {
			return nil, err
		}
		return RawValue{Tag: h.Tag, Constructed: h.Constructed, Bytes: content}, nil
	}
}

func decodeUntypedBitString(d *tlv.Decoder, dialect Dialect, h tlv.Header, val *tlv.Value) (RawBitString, error) {
	if !h.Constructed {
		b, err := readAll(val)
		if err != nil {
			return RawBitString{}, err
		}
		if len(b) == 0 {
			return RawBitString{}, fmt.Errorf("ber: empty BIT STRING content")
		}
		if dialect == CER && (len(b)-1)*8-int(b[0]) > cerChunkBits {
			return RawBitString{}, fmt.Errorf("ber: CER requires chunked encoding above %d bits", cerChunkBits)
		}
		return RawBitString{Bytes: b[1:], BitLength: (len(b)-1)*8 - int(b[0])}, nil
	}
	if dialect == DER {
		return RawBitString{}, fmt.Errorf("ber: constructed BIT STRING not permitted under DER")
	}
	var all []byte
	total := 0
	prevUnused := 0
	pending := -1
	for {
		ch, cval, err := d.ReadHeader()
		if err != nil {
			return RawBitString{}, err
		}
		if err := checkDefiniteLength(dialect, ch); err != nil {
			return RawBitString{}, err
		}
		if ch.Tag == tlv.TagEndOfContents {
			break
		}
		b, err := readAll(cval)
		if err != nil {
			return RawBitString{}, err
		}
		if len(b) == 0 {
			continue
		}
		if dialect == CER {
			n := (len(b)-1)*8 - int(b[0])
			if n > cerChunkBits {
				return RawBitString{}, fmt.Errorf("ber: CER BIT STRING chunk exceeds %d bits", cerChunkBits)
			}
			if pending >= 0 && pending != cerChunkBits {
				return RawBitString{}, fmt.Errorf("ber: CER BIT STRING chunk is not the final one but is not exactly %d bits", cerChunkBits)
			}
			pending = n
		}
		if prevUnused != 0 {
			return RawBitString{}, fmt.Errorf("ber: BIT STRING chunk with %d unused bits is not the final chunk", prevUnused)
		}
		prevUnused = int(b[0])
		all = append(all, b[1:]...)
		total += (len(b) - 1) * 8 - int(b[0])
	}
	return RawBitString{Bytes: all, BitLength: total}, nil
}

func decodeUntypedOctetString(d *tlv.Decoder, dialect Dialect, h tlv.Header, val *tlv.Value) ([]byte, error) {
	if !h.Constructed {
		b, err := readAll(val)
		if err != nil {
			return nil, err
		}
		if dialect == CER && len(b) > cerChunkOctets {
			return nil, fmt.Errorf("ber: CER requires chunked encoding above %d octets", cerChunkOctets)
		}
		return b, nil
	}
	if dialect == DER {
		return nil, fmt.Errorf("ber: constructed OCTET STRING not permitted under DER")
	}
	var all []byte
	pending := -1
	for {
		ch, cval, err := d.ReadHeader()
		if err != nil {
			return nil, err
		}
		if err := checkDefiniteLength(dialect, ch); err != nil {
			return nil, err
		}
		if ch.Tag == tlv.TagEndOfContents {
			break
		}
		b, err := readAll(cval)
		if err != nil {
			return nil, err
		}
		if dialect == CER {
			if len(b) > cerChunkOctets {
				return nil, fmt.Errorf("ber: CER OCTET STRING chunk exceeds %d octets", cerChunkOctets)
			}
			if pending >= 0 && pending != cerChunkOctets {
				return nil, fmt.Errorf("ber: CER OCTET STRING chunk is not the final one but is not exactly %d octets", cerChunkOctets)
			}
			pending = len(b)
		}
		all = append(all, b...)
	}
	return all, nil
}

func decodeUntypedReal(b []byte) (any, error) {
	if len(b) == 0 || b[0] == 0x00 {
		return 0.0, nil
	}
	switch b[0] {
	case 0x40:
		return math.Inf(1), nil
	case 0x41:
		return math.Inf(-1), nil
	case 0x42:
		return math.NaN(), nil
	}
	if b[0]&0x80 == 0 {
		return nil, fmt.Errorf("ber: decimal/character REAL encoding not supported")
	}
	mantissa, exponent, err := decodeBinaryRealParts(b)
	if err != nil {
		return nil, err
	}
	f := new(big.Float).SetInt(mantissa)
	shift := new(big.Float).SetInt(new(big.Int).Lsh(big.NewInt(1), uint(absInt64(exponent))))
	if exponent >= 0 {
		f.Mul(f, shift)
	} else {
		f.Quo(f, shift)
	}
	out, _ := f.Float64()
	return out, nil
}

func absInt64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

func decodeUTF16BE(b []byte) (string, error) {
	out, err := unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder().Bytes(b)
	if err != nil {
		return "", &UnicodeError{Type: "UTF-16BE", Msg: err.Error()}
	}
	return string(out), nil
}

func decodeUTF32BE(b []byte) (string, error) {
	out, err := utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM).NewDecoder().Bytes(b)
	if err != nil {
		return "", &UnicodeError{Type: "UTF-32BE", Msg: err.Error()}
	}
	return string(out), nil
}

func decodeLatin1(b []byte) (string, error) {
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(b)
	if err != nil {
		return "", &UnicodeError{Type: "ISO-8859-1", Msg: err.Error()}
	}
	return string(out), nil
}

// RawBitString is the untyped (schemaless) decoding of a BIT STRING: bits
// packed MSB-first into Bytes, with BitLength significant bits.
type RawBitString struct {
	Bytes     []byte
	BitLength int
}

// UnicodeError indicates that a character string's content octets could not
// be interpreted under its codec.
type UnicodeError struct {
	Type string
	Msg  string
}

func (e *UnicodeError) Error() string { return "ber: " + e.Type + ": " + e.Msg }
