// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import "testing"

func TestBitStringType_NewValue_Bools(t *testing.T) {
	typ := NewBitStringType(nil)
	v, err := typ.NewValue([]bool{true, false, true, true})
	if err != nil {
		t.Fatalf("NewValue: %v", err)
	}
	if got := v.Len(); got != 4 {
		t.Errorf("Len() = %d, want 4", got)
	}
	want := []int{1, 0, 1, 1}
	for i, w := range want {
		if got := v.At(i); got != w {
			t.Errorf("At(%d) = %d, want %d", i, got, w)
		}
	}
	if got := v.String(); got != "'1011'B" {
		t.Errorf("String() = %q, want %q", got, "'1011'B")
	}
}

func TestBitStringType_NewValue_BstringLiteral(t *testing.T) {
	typ := NewBitStringType(nil)
	v, err := typ.NewValue("'1011'B")
	if err != nil {
		t.Fatalf("NewValue: %v", err)
	}
	if v.Len() != 4 || v.At(0) != 1 || v.At(1) != 0 {
		t.Errorf("NewValue(bstring literal) decoded incorrectly: len=%d", v.Len())
	}

	if _, err := typ.NewValue("'102'B"); err == nil {
		t.Errorf("NewValue(invalid bstring literal) succeeded, want error")
	}
	if _, err := typ.NewValue("not a bstring"); err == nil {
		t.Errorf("NewValue(unsupported string literal) succeeded, want error")
	}
}

func TestBitStringType_NewValueFromBytes(t *testing.T) {
	typ := NewBitStringType(nil)
	v, err := typ.NewValueFromBytes([]byte{0xA9, 0x80}, 9)
	if err != nil {
		t.Fatalf("NewValueFromBytes: %v", err)
	}
	if got := v.Len(); got != 9 {
		t.Errorf("Len() = %d, want 9", got)
	}
	b, n := v.Bytes()
	if n != 9 || len(b) != 2 {
		t.Errorf("Bytes() = %v, %d, want len 2, bitLength 9", b, n)
	}
}

func TestBitString_NamedBit(t *testing.T) {
	typ := NewBitStringType(NamedValues{"urgent": 0, "confidential": 2})
	v, err := typ.NewValue([]bool{true, false, true})
	if err != nil {
		t.Fatalf("NewValue: %v", err)
	}
	if !v.NamedBit("urgent") {
		t.Errorf("NamedBit(\"urgent\") = false, want true")
	}
	if v.NamedBit("confidential") != true {
		t.Errorf("NamedBit(\"confidential\") = false, want true")
	}
	if v.NamedBit("unknown") {
		t.Errorf("NamedBit(\"unknown\") = true, want false")
	}
}

func TestBitString_Concat(t *testing.T) {
	typ := NewBitStringType(nil)
	a, _ := typ.NewValue([]bool{true, false})
	b, _ := typ.NewValue([]bool{false, true, true})
	c := a.Concat(b)
	if got := c.Len(); got != 5 {
		t.Errorf("Concat().Len() = %d, want 5", got)
	}
	want := []int{1, 0, 0, 1, 1}
	for i, w := range want {
		if got := c.At(i); got != w {
			t.Errorf("Concat().At(%d) = %d, want %d", i, got, w)
		}
	}
}

func TestBitStringType_NoValue(t *testing.T) {
	typ := NewBitStringType(nil)
	v := typ.NoValue()
	if v.HasValue() {
		t.Errorf("HasValue() = true, want false")
	}
	if got := v.String(); got != "<no value>" {
		t.Errorf("String() = %q, want %q", got, "<no value>")
	}
	defer func() {
		if recover() == nil {
			t.Errorf("Len() on no-value BitString did not panic")
		}
	}()
	v.Len()
}

func TestUnusedBits(t *testing.T) {
	tests := []struct {
		bitLength int
		want      int
	}{
		{0, 0},
		{8, 0},
		{9, 7},
		{15, 1},
		{16, 0},
	}
	for _, tc := range tests {
		if got := unusedBits(tc.bitLength); got != tc.want {
			t.Errorf("unusedBits(%d) = %d, want %d", tc.bitLength, got, tc.want)
		}
	}
}
