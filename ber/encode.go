// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ber

import (
	"bytes"
	"fmt"
	"math/big"
	"sort"

	"asn1x.dev/asn1"
	"asn1x.dev/asn1/internal/vlq"
	"asn1x.dev/asn1/tlv"
)

// cerChunkOctets is the CER threshold (in content octets) above which OCTET
// STRING and character string content must be split into definite-length
// segments wrapped in a constructed, indefinite-length value (Rec. ITU-T
// X.690, clause 9.2).
const cerChunkOctets = 1000

// cerChunkBits is the CER threshold (in payload bits) above which a BIT
// STRING must be split the same way.
const cerChunkBits = 1000

// Marshal encodes val against typ using dialect and returns the complete
// wire encoding, including typ's full tag set.
func Marshal(dialect Dialect, typ asn1.Type, val asn1.Value) ([]byte, error) {
	if !val.HasValue() {
		return nil, &EncodeError{Value: val, Err: fmt.Errorf("value has no payload")}
	}
	if av, ok := val.(*asn1.Any); ok {
		return wrapTagSet(dialect, asn1.NewTagSet(av.Tag()), av.Tag().Format == asn1.Constructed, av.Bytes())
	}
	constructed, content, err := encodeContent(dialect, typ, val)
	if err != nil {
		return nil, err
	}
	return wrapTagSet(dialect, val.TagSet(), constructed, content)
}

// wrapTagSet lays down one TLV header per tag in ts, outermost first, each
// wrapping the previous layer's complete encoding. The innermost (base tag)
// layer's Constructed-ness is given explicitly by baseConstructed, since it
// may not match its own tag's Format (e.g. a chunked CER string encodes with
// the constructed form although its base tag is nominally primitive).
func wrapTagSet(dialect Dialect, ts asn1.TagSet, baseConstructed bool, content []byte) ([]byte, error) {
	body := content
	for i := ts.Len() - 1; i >= 0; i-- {
		tag := ts.At(i)
		constructed := tag.Format == asn1.Constructed
		if i == ts.Len()-1 {
			constructed = baseConstructed
		}
		length := len(body)
		if dialect == CER && constructed {
			length = tlv.LengthIndefinite
		}
		wrapped, err := writeTLV(tag, constructed, length, body)
		if err != nil {
			return nil, err
		}
		body = wrapped
	}
	return body, nil
}

// writeTLV encodes a single TLV (tag, length, content) using the tlv
// package, appending the end-of-contents marker when length is indefinite.
func writeTLV(tag asn1.Tag, constructed bool, length int, content []byte) ([]byte, error) {
	var buf bytes.Buffer
	enc := tlv.NewEncoder(&buf)
	w, err := enc.WriteHeader(tlv.Header{Tag: tag, Constructed: constructed, Length: length})
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(content); err != nil {
		return nil, err
	}
	if length == tlv.LengthIndefinite {
		if _, err := enc.WriteHeader(tlv.EndOfContents); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// encodeContent produces the base-tag content octets for val (excluding any
// tag/length framing) and reports whether that base tag uses the constructed
// encoding.
func encodeContent(dialect Dialect, typ asn1.Type, val asn1.Value) (constructed bool, content []byte, err error) {
	switch v := val.(type) {
	case *asn1.Boolean:
		b := byte(0x00)
		if v.Bool() {
			b = 0xff
		}
		return false, []byte{b}, nil

	case *asn1.Integer:
		return false, encodeTwosComplement(v.Int()), nil

	case *asn1.Enumerated:
		return false, encodeTwosComplement(big.NewInt(v.Int())), nil

	case *asn1.Null:
		return false, nil, nil

	case *asn1.BitString:
		return encodeBitString(dialect, v)

	case *asn1.OctetString:
		return encodeChunkable(dialect, v.Bytes(), asn1.TagOctetString)

	case *asn1.ObjectIdentifier:
		b, err := encodeOIDArcs(v.Arcs(), true)
		if err != nil {
			return false, nil, &EncodeError{Value: val, Err: err}
		}
		return false, b, nil

	case *asn1.RelativeObjectIdentifier:
		b, err := encodeOIDArcs(v.Arcs(), false)
		if err != nil {
			return false, nil, &EncodeError{Value: val, Err: err}
		}
		return false, b, nil

	case *asn1.Real:
		b, err := encodeReal(v)
		if err != nil {
			return false, nil, &EncodeError{Value: val, Err: err}
		}
		return false, b, nil

	case *asn1.CharacterString:
		ct, ok := typ.(*asn1.CharacterStringType)
		if !ok {
			return false, nil, &UnsupportedTypeError{Type: typ}
		}
		b, err := ct.EncodeOctets(v.Value())
		if err != nil {
			return false, nil, &EncodeError{Value: val, Err: err}
		}
		return encodeChunkable(dialect, b, ct.TagSet().BaseTag().Number)

	case *asn1.Time:
		if dialect != BER {
			if err := asn1.ValidateCanonicalTime(v.Kind, v.Raw()); err != nil {
				return false, nil, &EncodeError{Value: val, Err: err}
			}
		}
		return false, []byte(v.Raw()), nil

	case *asn1.Sequence:
		st, ok := typ.(*asn1.SequenceType)
		if !ok {
			return false, nil, &UnsupportedTypeError{Type: typ}
		}
		b, err := encodeComponents(dialect, st.Components, sequentialOrder(v.Len()), v.At)
		return true, b, err

	case *asn1.SequenceOf:
		st, ok := typ.(*asn1.SequenceOfType)
		if !ok {
			return false, nil, &UnsupportedTypeError{Type: typ}
		}
		var buf bytes.Buffer
		for i := 0; i < v.Len(); i++ {
			b, err := Marshal(dialect, st.Element, v.At(i))
			if err != nil {
				return false, nil, err
			}
			buf.Write(b)
		}
		return true, buf.Bytes(), nil

	case *asn1.Set:
		st, ok := typ.(*asn1.SetType)
		if !ok {
			return false, nil, &UnsupportedTypeError{Type: typ}
		}
		order := sequentialOrder(v.Len())
		if dialect != BER {
			order = st.CanonicalOrder()
		}
		b, err := encodeComponents(dialect, st.Components, order, v.At)
		return true, b, err

	case *asn1.SetOf:
		st, ok := typ.(*asn1.SetOfType)
		if !ok {
			return false, nil, &UnsupportedTypeError{Type: typ}
		}
		encoded := make([][]byte, v.Len())
		for i := 0; i < v.Len(); i++ {
			b, err := Marshal(dialect, st.Element, v.At(i))
			if err != nil {
				return false, nil, err
			}
			encoded[i] = b
		}
		if dialect != BER {
			sort.Slice(encoded, func(i, j int) bool { return bytes.Compare(encoded[i], encoded[j]) < 0 })
		}
		var buf bytes.Buffer
		for _, b := range encoded {
			buf.Write(b)
		}
		return true, buf.Bytes(), nil

	case *asn1.Choice:
		ct, ok := typ.(*asn1.ChoiceType)
		if !ok {
			return false, nil, &UnsupportedTypeError{Type: typ}
		}
		i := ct.Alternatives.PositionOf(v.Selected())
		if i < 0 {
			return false, nil, &EncodeError{Value: val, Err: fmt.Errorf("no such alternative %q", v.Selected())}
		}
		altType := ct.Alternatives.TypeAt(i)
		if ct.TagSet().Len() == 0 {
			// Untagged CHOICE: the value's TagSet is the alternative's own
			// TagSet, so wrapTagSet already applies the alternative's tags.
			// Only its deepest content belongs here.
			return encodeContent(dialect, altType, v.Value())
		}
		// Explicitly tagged CHOICE: the value's TagSet is just the wrapper
		// tag, not the alternative's. The wrapper's content is therefore the
		// alternative's complete encoding, tag and all.
		b, err := Marshal(dialect, altType, v.Value())
		if err != nil {
			return false, nil, err
		}
		return true, b, nil

	default:
		return false, nil, &UnsupportedTypeError{Type: typ}
	}
}

// sequentialOrder returns [0, 1, ..., n-1], the declaration order used for
// SEQUENCE always, and for SET under BER.
func sequentialOrder(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}

// encodeComponents writes the present components of a SEQUENCE or SET, in
// the given order, omitting absent OPTIONAL components and any DEFAULTed
// component whose value matches its declared default.
func encodeComponents(dialect Dialect, components *asn1.NamedTypes, order []int, get func(int) asn1.Value) ([]byte, error) {
	var buf bytes.Buffer
	for _, i := range order {
		comp := components.At(i)
		val := get(i)
		if val == nil {
			continue
		}
		if comp.Kind == asn1.Defaulted && comp.Default != nil {
			same, err := equalEncoding(dialect, comp.Type, val, comp.Default)
			if err != nil {
				return nil, err
			}
			if same {
				continue
			}
		}
		b, err := Marshal(dialect, comp.Type, val)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	return buf.Bytes(), nil
}

func equalEncoding(dialect Dialect, typ asn1.Type, a, b asn1.Value) (bool, error) {
	ab, err := Marshal(dialect, typ, a)
	if err != nil {
		return false, err
	}
	bb, err := Marshal(dialect, typ, b)
	if err != nil {
		return false, err
	}
	return bytes.Equal(ab, bb), nil
}

// encodeTwosComplement returns the shortest two's-complement encoding of n,
// canonical for both BER and DER: the content for 0 is a single 0x00 octet.
func encodeTwosComplement(n *big.Int) []byte {
	if n.Sign() == 0 {
		return []byte{0x00}
	}
	if n.Sign() > 0 {
		b := n.Bytes()
		if b[0]&0x80 != 0 {
			b = append([]byte{0x00}, b...)
		}
		return b
	}
	// Negative: encode abs(n)-1, complement every byte, left-pad with 0xff if
	// the top bit of the result isn't already set.
	abs := new(big.Int).Neg(n)
	abs.Sub(abs, big.NewInt(1))
	b := abs.Bytes()
	for i := range b {
		b[i] = ^b[i]
	}
	if len(b) == 0 || b[0]&0x80 == 0 {
		b = append([]byte{0xff}, b...)
	}
	return b
}

func encodeBitString(dialect Dialect, v *asn1.BitString) (bool, []byte, error) {
	raw, bitLen := v.Bytes()
	if dialect != CER || bitLen <= cerChunkBits {
		unused := 0
		if bitLen%8 != 0 {
			unused = 8 - bitLen%8
		}
		return false, append([]byte{byte(unused)}, raw...), nil
	}
	var buf bytes.Buffer
	for start := 0; start < bitLen; start += cerChunkBits {
		end := start + cerChunkBits
		if end > bitLen {
			end = bitLen
		}
		seg := sliceBits(raw, start, end)
		segLen := end - start
		unused := 0
		if segLen%8 != 0 {
			unused = 8 - segLen%8
		}
		content := append([]byte{byte(unused)}, seg...)
		b, err := writeTLV(asn1.NewTag(asn1.ClassUniversal, asn1.Primitive, asn1.TagBitString), false, len(content), content)
		if err != nil {
			return false, nil, err
		}
		buf.Write(b)
	}
	return true, buf.Bytes(), nil
}

// sliceBits extracts the [start,end) bit range of a MSB-first packed byte
// slice into its own MSB-first packed byte slice.
func sliceBits(b []byte, start, end int) []byte {
	n := end - start
	out := make([]byte, (n+7)/8)
	for i := 0; i < n; i++ {
		bit := (b[(start+i)/8] >> (7 - uint((start+i)%8))) & 1
		if bit == 1 {
			out[i/8] |= 1 << (7 - uint(i%8))
		}
	}
	return out
}

// encodeChunkable encodes OCTET STRING-shaped content (including every
// character string type), applying CER's 1000-octet constructed chunking
// when required.
func encodeChunkable(dialect Dialect, b []byte, tagNumber uint32) (bool, []byte, error) {
	if dialect != CER || len(b) <= cerChunkOctets {
		return false, b, nil
	}
	var buf bytes.Buffer
	for start := 0; start < len(b); start += cerChunkOctets {
		end := start + cerChunkOctets
		if end > len(b) {
			end = len(b)
		}
		seg := b[start:end]
		enc, err := writeTLV(asn1.NewTag(asn1.ClassUniversal, asn1.Primitive, tagNumber), false, len(seg), seg)
		if err != nil {
			return false, nil, err
		}
		buf.Write(enc)
	}
	return true, buf.Bytes(), nil
}

// byteWriter adapts a *bytes.Buffer to io.ByteWriter for vlq.Write, which
// works with arbitrary unsigned integer widths.
type byteWriter struct{ buf *bytes.Buffer }

func (w *byteWriter) WriteByte(b byte) error { return w.buf.WriteByte(b) }

// encodeOIDArcs writes the VLQ (base-128) encoding of an OBJECT IDENTIFIER's
// or RELATIVE-OID's arcs. When combineFirstTwo is set, the first two arcs are
// folded into a single sub-identifier (40*X + Y) per X.690 clause 8.19.
func encodeOIDArcs(arcs []uint64, combineFirstTwo bool) ([]byte, error) {
	var buf bytes.Buffer
	w := &byteWriter{&buf}
	rest := arcs
	if combineFirstTwo {
		if len(arcs) < 2 {
			return nil, fmt.Errorf("object identifier requires at least two arcs")
		}
		if _, err := vlq.Write[uint64](w, 40*arcs[0]+arcs[1]); err != nil {
			return nil, err
		}
		rest = arcs[2:]
	}
	for _, a := range rest {
		if _, err := vlq.Write[uint64](w, a); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// encodeReal encodes a REAL value per Rec. ITU-T X.680 clause 21 using the
// base-2 binary form for normal values and the reserved first-octet codes
// for the special values.
func encodeReal(v *asn1.Real) ([]byte, error) {
	switch v.Kind {
	case asn1.RealZero:
		return nil, nil
	case asn1.RealPositiveInfinity:
		return []byte{0x40}, nil
	case asn1.RealNegativeInfinity:
		return []byte{0x41}, nil
	case asn1.RealNaN:
		return []byte{0x42}, nil
	}
	if v.Base != 2 {
		return nil, fmt.Errorf("ber: only base-2 REAL values can be encoded, got base %d", v.Base)
	}
	mantissa := new(big.Int).Set(v.Mantissa)
	neg := mantissa.Sign() < 0
	if neg {
		mantissa.Neg(mantissa)
	}
	mBytes := mantissa.Bytes()
	if len(mBytes) == 0 {
		mBytes = []byte{0}
	}
	// First octet: 1 S bb ff ee -- binary form, base 2 (bb=00), scaling 0.
	first := byte(0x80)
	if neg {
		first |= 0x40
	}
	expBytes := encodeTwosComplement(big.NewInt(v.Exponent))
	var lenOctet byte
	switch {
	case len(expBytes) == 1:
		lenOctet = 0x00
	case len(expBytes) == 2:
		lenOctet = 0x01
	case len(expBytes) == 3:
		lenOctet = 0x02
	default:
		lenOctet = 0x03
	}
	out := []byte{first | lenOctet}
	if lenOctet == 0x03 {
		out = append(out, byte(len(expBytes)))
	}
	out = append(out, expBytes...)
	out = append(out, mBytes...)
	return out, nil
}
