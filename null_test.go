// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import "testing"

func TestNullType(t *testing.T) {
	typ := NewNullType()
	v := typ.NewValue()
	if !v.HasValue() {
		t.Errorf("HasValue() = false, want true")
	}

	none := typ.NoValue()
	if none.HasValue() {
		t.Errorf("NoValue().HasValue() = true, want false")
	}

	if !typ.IsSameTypeWith(NewNullType()) {
		t.Errorf("IsSameTypeWith(equivalent NullType) = false, want true")
	}
}

func TestNullType_Subtype(t *testing.T) {
	typ := NewNullType()
	implicit := NewTag(ClassContextSpecific, Primitive, 2)
	sub, err := typ.Subtype(&implicit, nil)
	if err != nil {
		t.Fatalf("Subtype: %v", err)
	}
	if sub.TagSet().Outer() != implicit {
		t.Errorf("Subtype().TagSet().Outer() = %v, want %v", sub.TagSet().Outer(), implicit)
	}
}
