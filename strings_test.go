// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import "testing"

func TestCharacterStringType_NewValue(t *testing.T) {
	typ := NewUTF8StringType()
	v, err := typ.NewValue("hello, 世界")
	if err != nil {
		t.Fatalf("NewValue: %v", err)
	}
	if got := v.Value(); got != "hello, 世界" {
		t.Errorf("Value() = %q, want %q", got, "hello, 世界")
	}
}

func TestNumericStringType_Alphabet(t *testing.T) {
	typ := NewNumericStringType()
	if _, err := typ.NewValue("123 456"); err != nil {
		t.Errorf("NewValue(digits and space): %v", err)
	}
	if _, err := typ.NewValue("12a"); err == nil {
		t.Errorf("NewValue(letter) succeeded, want error")
	}
}

func TestPrintableStringType_Alphabet(t *testing.T) {
	typ := NewPrintableStringType()
	if _, err := typ.NewValue("Hello, World (1)"); err != nil {
		t.Errorf("NewValue(printable): %v", err)
	}
	if _, err := typ.NewValue("has_underscore"); err == nil {
		t.Errorf("NewValue(underscore) succeeded, want error (not in PrintableString alphabet)")
	}
}

func TestIA5StringType_RejectsNonASCII(t *testing.T) {
	typ := NewIA5StringType()
	if _, err := typ.NewValue("plain ascii"); err != nil {
		t.Errorf("NewValue(ascii): %v", err)
	}
	if _, err := typ.NewValue("café"); err == nil {
		t.Errorf("NewValue(non-ASCII) succeeded, want error")
	}
}

func TestCharacterStringType_EncodeDecodeOctets(t *testing.T) {
	typ := NewBMPStringType()
	octets, err := typ.EncodeOctets("AB")
	if err != nil {
		t.Fatalf("EncodeOctets: %v", err)
	}
	// UTF-16BE: 'A' = 0x0041, 'B' = 0x0042.
	want := []byte{0x00, 0x41, 0x00, 0x42}
	if len(octets) != len(want) {
		t.Fatalf("EncodeOctets() = % X, want % X", octets, want)
	}
	for i := range want {
		if octets[i] != want[i] {
			t.Errorf("EncodeOctets()[%d] = %#x, want %#x", i, octets[i], want[i])
		}
	}

	back, err := typ.DecodeOctets(octets)
	if err != nil {
		t.Fatalf("DecodeOctets: %v", err)
	}
	if back != "AB" {
		t.Errorf("DecodeOctets() = %q, want %q", back, "AB")
	}
}

func TestUniversalStringType_EncodeDecodeOctets(t *testing.T) {
	typ := NewUniversalStringType()
	octets, err := typ.EncodeOctets("A")
	if err != nil {
		t.Fatalf("EncodeOctets: %v", err)
	}
	want := []byte{0x00, 0x00, 0x00, 0x41}
	if len(octets) != len(want) {
		t.Fatalf("EncodeOctets() = % X, want % X", octets, want)
	}
	back, err := typ.DecodeOctets(octets)
	if err != nil {
		t.Fatalf("DecodeOctets: %v", err)
	}
	if back != "A" {
		t.Errorf("DecodeOctets() = %q, want %q", back, "A")
	}
}

func TestTeletexStringType_Latin1(t *testing.T) {
	typ := NewTeletexStringType()
	octets, err := typ.EncodeOctets("café")
	if err != nil {
		t.Fatalf("EncodeOctets: %v", err)
	}
	want := []byte{'c', 'a', 'f', 0xe9}
	if len(octets) != len(want) {
		t.Fatalf("EncodeOctets() = % X, want % X", octets, want)
	}
	for i := range want {
		if octets[i] != want[i] {
			t.Errorf("EncodeOctets()[%d] = %#x, want %#x", i, octets[i], want[i])
		}
	}
	back, err := typ.DecodeOctets(octets)
	if err != nil {
		t.Fatalf("DecodeOctets: %v", err)
	}
	if back != "café" {
		t.Errorf("DecodeOctets() = %q, want %q", back, "café")
	}
}

func TestCharacterStringType_NoValue(t *testing.T) {
	typ := NewUTF8StringType()
	v := typ.NoValue()
	if v.HasValue() {
		t.Errorf("HasValue() = true, want false")
	}
	if got := v.String(); got != "<no value>" {
		t.Errorf("String() = %q, want %q", got, "<no value>")
	}
	defer func() {
		if recover() == nil {
			t.Errorf("Value() on no-value CharacterString did not panic")
		}
	}()
	v.Value()
}

func TestCharacterStringType_IsSameTypeWith_DistinguishesBase(t *testing.T) {
	utf8 := NewUTF8StringType()
	ia5 := NewIA5StringType()
	if utf8.IsSameTypeWith(ia5) {
		t.Errorf("IsSameTypeWith(different base tag) = true, want false")
	}
}
