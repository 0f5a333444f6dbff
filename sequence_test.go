// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import "testing"

func testPersonComponents() *NamedTypes {
	return NewNamedTypes(
		NamedType{Name: "name", Type: NewOctetStringType(), Kind: Required},
		NamedType{Name: "age", Type: NewIntegerType(nil), Kind: Optional},
	)
}

func TestSequenceType_NewValue(t *testing.T) {
	typ := NewSequenceType(testPersonComponents())
	name, _ := NewOctetStringType().NewValue("Alice")
	age, _ := NewIntegerType(nil).NewValue(30)

	seq, err := typ.NewValue(name, age)
	if err != nil {
		t.Fatalf("NewValue: %v", err)
	}
	if seq.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", seq.Len())
	}
	if got := seq.Named("name").(*OctetString).Bytes(); string(got) != "Alice" {
		t.Errorf("Named(\"name\") = %q, want %q", got, "Alice")
	}
	if got := seq.Named("age").(*Integer).Int().Int64(); got != 30 {
		t.Errorf("Named(\"age\") = %d, want 30", got)
	}
}

func TestSequenceType_NewValue_OptionalAbsent(t *testing.T) {
	typ := NewSequenceType(testPersonComponents())
	name, _ := NewOctetStringType().NewValue("Bob")

	seq, err := typ.NewValue(name, nil)
	if err != nil {
		t.Fatalf("NewValue(optional absent): %v", err)
	}
	if seq.Named("age") != nil {
		t.Errorf("Named(\"age\") = %v, want nil (absent)", seq.Named("age"))
	}
}

func TestSequenceType_NewValue_MissingRequired(t *testing.T) {
	typ := NewSequenceType(testPersonComponents())
	if _, err := typ.NewValue(nil, nil); err == nil {
		t.Errorf("NewValue(missing required) succeeded, want error")
	}
}

func TestSequenceType_NewValue_WrongArity(t *testing.T) {
	typ := NewSequenceType(testPersonComponents())
	name, _ := NewOctetStringType().NewValue("Carl")
	if _, err := typ.NewValue(name); err == nil {
		t.Errorf("NewValue(too few values) succeeded, want error")
	}
}

func TestSequenceType_NewValue_TypeMismatch(t *testing.T) {
	typ := NewSequenceType(testPersonComponents())
	wrongType, _ := NewIntegerType(nil).NewValue(1)
	if _, err := typ.NewValue(wrongType, nil); err == nil {
		t.Errorf("NewValue(wrong component type) succeeded, want error")
	}
}

func TestSequence_Named_Unknown(t *testing.T) {
	typ := NewSequenceType(testPersonComponents())
	name, _ := NewOctetStringType().NewValue("Dana")
	seq, err := typ.NewValue(name, nil)
	if err != nil {
		t.Fatalf("NewValue: %v", err)
	}
	defer func() {
		if recover() == nil {
			t.Errorf("Named(unknown) did not panic")
		}
	}()
	seq.Named("unknown")
}

func TestSequenceType_IsSameTypeWith(t *testing.T) {
	a := NewSequenceType(testPersonComponents())
	b := NewSequenceType(testPersonComponents())
	if !a.IsSameTypeWith(b) {
		t.Errorf("IsSameTypeWith(structurally equal) = false, want true")
	}

	different := NewSequenceType(NewNamedTypes(
		NamedType{Name: "name", Type: NewOctetStringType(), Kind: Required},
	))
	if a.IsSameTypeWith(different) {
		t.Errorf("IsSameTypeWith(different arity) = true, want false")
	}
}

func TestSequenceOfType_NewValue(t *testing.T) {
	typ := NewSequenceOfType(NewIntegerType(nil))
	one, _ := NewIntegerType(nil).NewValue(1)
	two, _ := NewIntegerType(nil).NewValue(2)

	seqOf, err := typ.NewValue(one, two)
	if err != nil {
		t.Fatalf("NewValue: %v", err)
	}
	if got := seqOf.Len(); got != 2 {
		t.Fatalf("Len() = %d, want 2", got)
	}
	if got := seqOf.At(0).(*Integer).Int().Int64(); got != 1 {
		t.Errorf("At(0) = %d, want 1", got)
	}
	if got := len(seqOf.Elements()); got != 2 {
		t.Errorf("Elements() length = %d, want 2", got)
	}
}

func TestSequenceOfType_IsSameTypeWith(t *testing.T) {
	a := NewSequenceOfType(NewIntegerType(nil))
	b := NewSequenceOfType(NewIntegerType(nil))
	if !a.IsSameTypeWith(b) {
		t.Errorf("IsSameTypeWith(same element type) = false, want true")
	}
	c := NewSequenceOfType(NewOctetStringType())
	if a.IsSameTypeWith(c) {
		t.Errorf("IsSameTypeWith(different element type) = true, want false")
	}
}

func TestSequenceOfType_NoValue(t *testing.T) {
	typ := NewSequenceOfType(NewIntegerType(nil))
	v := typ.NoValue()
	if v.HasValue() {
		t.Errorf("HasValue() = true, want false")
	}
	defer func() {
		if recover() == nil {
			t.Errorf("Len() on no-value SequenceOf did not panic")
		}
	}()
	v.Len()
}
