// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ber

import (
	"bytes"
	"math/big"
	"testing"

	"asn1x.dev/asn1"
)

// TestScenarios exercises the concrete end-to-end hex scenarios from §8 of
// the design: known-good wire forms for each dialect, checked both ways.

func TestScenario_S1_IntegerZero(t *testing.T) {
	typ := asn1.NewIntegerType(nil)
	val, err := typ.NewValue(0)
	if err != nil {
		t.Fatalf("NewValue: %v", err)
	}
	got, err := Marshal(DER, typ, val)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := []byte{0x02, 0x01, 0x00}
	if !bytes.Equal(got, want) {
		t.Errorf("Marshal() = % X, want % X", got, want)
	}
	dv, rest, err := Unmarshal(DER, typ, got)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(rest) != 0 {
		t.Errorf("remainder = % X, want empty", rest)
	}
	if dv.(*asn1.Integer).Int().Sign() != 0 {
		t.Errorf("decoded Integer = %v, want 0", dv.(*asn1.Integer).Int())
	}
}

func TestScenario_S2_IntegerMinusOne(t *testing.T) {
	want := []byte{0x02, 0x01, 0xFF}
	v, rest, err := DecodeAny(DER, want)
	if err != nil {
		t.Fatalf("DecodeAny: %v", err)
	}
	if len(rest) != 0 {
		t.Errorf("remainder = % X, want empty", rest)
	}
	n, ok := v.(*big.Int)
	if !ok || n.Int64() != -1 {
		t.Errorf("DecodeAny() = %v, want -1", v)
	}

	typ := asn1.NewIntegerType(nil)
	val, err := typ.NewValue(-1)
	if err != nil {
		t.Fatalf("NewValue: %v", err)
	}
	got, err := Marshal(DER, typ, val)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Errorf("Marshal() = % X, want % X", got, want)
	}
}

func TestScenario_S3_OIDNonMinimalRejected(t *testing.T) {
	typ := asn1.NewObjectIdentifierType()
	val, err := typ.NewValue("1.3.6.0.1048574")
	if err != nil {
		t.Fatalf("NewValue: %v", err)
	}
	got, err := Marshal(DER, typ, val)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := []byte{0x06, 0x06, 0x2B, 0x06, 0x00, 0xBF, 0xFF, 0x7E}
	if !bytes.Equal(got, want) {
		t.Errorf("Marshal() = % X, want % X", got, want)
	}

	nonMinimal := []byte{0x06, 0x06, 0x2B, 0x06, 0x00, 0xC0, 0x7F, 0x7E}
	if _, _, err := Unmarshal(DER, typ, nonMinimal); err == nil {
		t.Errorf("Unmarshal(non-minimal OID) succeeded, want error")
	}
}

func TestScenario_S4_BitStringChunking(t *testing.T) {
	typ := asn1.NewBitStringType(nil)
	val, err := typ.NewValue([]bool{true, false, true, false, true, false, false, true, true, false, false, false, true, false, true})
	if err != nil {
		t.Fatalf("NewValue: %v", err)
	}
	got, err := Marshal(DER, typ, val)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := []byte{0x03, 0x03, 0x01, 0xA9, 0x8A}
	if !bytes.Equal(got, want) {
		t.Errorf("Marshal() = % X, want % X", got, want)
	}

	// CER: 1001 set bits must chunk into a 1000-bit segment plus a 1-bit tail.
	bits := make([]bool, 1001)
	for i := range bits {
		bits[i] = true
	}
	long, err := typ.NewValue(bits)
	if err != nil {
		t.Fatalf("NewValue(long): %v", err)
	}
	cerEncoded, err := Marshal(CER, typ, long)
	if err != nil {
		t.Fatalf("Marshal(CER): %v", err)
	}
	if cerEncoded[0] != 0x23 { // constructed BIT STRING
		t.Errorf("CER encoding tag byte = %#x, want 0x23 (constructed)", cerEncoded[0])
	}
	dv, rest, err := Unmarshal(CER, typ, cerEncoded)
	if err != nil {
		t.Fatalf("Unmarshal(CER): %v", err)
	}
	if len(rest) != 0 {
		t.Errorf("remainder = % X, want empty", rest)
	}
	bs := dv.(*asn1.BitString)
	if bs.Len() != 1001 {
		t.Errorf("decoded BitString length = %d, want 1001", bs.Len())
	}
	for i := 0; i < bs.Len(); i++ {
		if bs.At(i) != 1 {
			t.Fatalf("decoded BitString bit %d = %d, want 1", i, bs.At(i))
		}
	}
}

func TestScenario_S5_SequenceOptionalDefault(t *testing.T) {
	components := asn1.NewNamedTypes(
		asn1.NamedType{Name: "flag", Type: asn1.NewNullType(), Kind: asn1.Required},
		asn1.NamedType{Name: "data", Type: asn1.NewOctetStringType(), Kind: asn1.Optional},
		asn1.NamedType{Name: "count", Type: asn1.NewIntegerType(nil), Kind: asn1.Defaulted, Default: mustIntValue(33)},
	)
	typ := asn1.NewSequenceType(components)

	data, err := asn1.NewOctetStringType().NewValue("quick brown")
	if err != nil {
		t.Fatalf("NewValue(data): %v", err)
	}
	count, err := asn1.NewIntegerType(nil).NewValue(1)
	if err != nil {
		t.Fatalf("NewValue(count): %v", err)
	}
	val, err := typ.NewValue(asn1.NewNullType().NewValue(), data, count)
	if err != nil {
		t.Fatalf("NewValue(seq): %v", err)
	}

	got, err := Marshal(BER, typ, val)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := []byte{
		0x30, 0x12,
		0x05, 0x00,
		0x04, 0x0B, 0x71, 0x75, 0x69, 0x63, 0x6B, 0x20, 0x62, 0x72, 0x6F, 0x77, 0x6E,
		0x02, 0x01, 0x01,
	}
	if !bytes.Equal(got, want) {
		t.Errorf("Marshal(BER-def) = % X, want % X", got, want)
	}

	dv, rest, err := Unmarshal(BER, typ, got)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(rest) != 0 {
		t.Errorf("remainder = % X, want empty", rest)
	}
	seq := dv.(*asn1.Sequence)
	if got := seq.Named("count").(*asn1.Integer).Int().Int64(); got != 1 {
		t.Errorf("count = %d, want 1", got)
	}

	// Omitting the OPTIONAL field entirely: DEFAULT must be filled in.
	partial, err := typ.NewValue(asn1.NewNullType().NewValue(), nil, nil)
	if err != nil {
		t.Fatalf("NewValue(partial): %v", err)
	}
	encoded, err := Marshal(BER, typ, partial)
	if err != nil {
		t.Fatalf("Marshal(partial): %v", err)
	}
	dv2, _, err := Unmarshal(BER, typ, encoded)
	if err != nil {
		t.Fatalf("Unmarshal(partial): %v", err)
	}
	seq2 := dv2.(*asn1.Sequence)
	if seq2.Named("data") != nil {
		t.Errorf("data = %v, want absent (nil)", seq2.Named("data"))
	}
	if got := seq2.Named("count").(*asn1.Integer).Int().Int64(); got != 33 {
		t.Errorf("count (defaulted) = %d, want 33", got)
	}
}

func mustIntValue(n int64) asn1.Value {
	v, err := asn1.NewIntegerType(nil).NewValue(n)
	if err != nil {
		panic(err)
	}
	return v
}

func TestScenario_S6_ChoiceBareAlternative(t *testing.T) {
	alts := asn1.NewNamedTypes(
		asn1.NamedType{Name: "name", Type: asn1.NewOctetStringType()},
		asn1.NamedType{Name: "id", Type: asn1.NewIntegerType(nil)},
	)
	typ := asn1.NewChoiceType(alts)

	id, err := asn1.NewIntegerType(nil).NewValue(1)
	if err != nil {
		t.Fatalf("NewValue(id): %v", err)
	}
	val, err := typ.NewValue("id", id)
	if err != nil {
		t.Fatalf("NewValue(choice): %v", err)
	}

	got, err := Marshal(BER, typ, val)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := []byte{0x02, 0x01, 0x01}
	if !bytes.Equal(got, want) {
		t.Errorf("Marshal() = % X, want % X", got, want)
	}

	dv, rest, err := Unmarshal(BER, typ, got)
	if err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if len(rest) != 0 {
		t.Errorf("remainder = % X, want empty", rest)
	}
	ch := dv.(*asn1.Choice)
	if ch.Selected() != "id" {
		t.Errorf("Selected() = %q, want %q", ch.Selected(), "id")
	}
}

func TestScenario_S7_UTCTimeDER(t *testing.T) {
	typ := asn1.NewUTCTimeType()
	val, err := typ.NewValue("170801120112Z")
	if err != nil {
		t.Fatalf("NewValue: %v", err)
	}
	got, err := Marshal(DER, typ, val)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := []byte{
		0x17, 0x0D,
		0x31, 0x37, 0x30, 0x38, 0x30, 0x31, 0x31, 0x32, 0x30, 0x31, 0x31, 0x32, 0x5A,
	}
	if !bytes.Equal(got, want) {
		t.Errorf("Marshal() = % X, want % X", got, want)
	}

	if err := asn1.ValidateCanonicalTime(asn1.UTCTimeKind, "1708011201Z"); err == nil {
		t.Errorf("ValidateCanonicalTime(missing seconds) succeeded, want error")
	}
	if err := asn1.ValidateCanonicalTime(asn1.UTCTimeKind, "170801120112+0100"); err == nil {
		t.Errorf("ValidateCanonicalTime(non-Z zone) succeeded, want error")
	}
}
