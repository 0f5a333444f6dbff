// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import "testing"

func TestSingleValueConstraint(t *testing.T) {
	c := SingleValueConstraint{Values: []any{int64(1), int64(2), int64(3)}}
	if err := c.Validate(int64(2)); err != nil {
		t.Errorf("Validate(2) = %v, want nil", err)
	}
	if err := c.Validate(int64(4)); err == nil {
		t.Errorf("Validate(4) succeeded, want error")
	}
}

func TestRangeConstraint(t *testing.T) {
	c := RangeConstraint[int64]{Min: 0, Max: 10}
	if err := c.Validate(int64(5)); err != nil {
		t.Errorf("Validate(5) = %v, want nil", err)
	}
	if err := c.Validate(int64(0)); err != nil {
		t.Errorf("Validate(0) = %v, want nil (inclusive bound)", err)
	}
	if err := c.Validate(int64(10)); err != nil {
		t.Errorf("Validate(10) = %v, want nil (inclusive bound)", err)
	}
	if err := c.Validate(int64(11)); err == nil {
		t.Errorf("Validate(11) succeeded, want error")
	}
	if err := c.Validate(int64(-1)); err == nil {
		t.Errorf("Validate(-1) succeeded, want error")
	}
	if err := c.Validate("wrong type"); err == nil {
		t.Errorf("Validate(wrong type) succeeded, want error")
	}
}

func TestSizeConstraint(t *testing.T) {
	c := SizeConstraint{Min: 1, Max: 3}
	if err := c.Validate("ab"); err != nil {
		t.Errorf("Validate(\"ab\") = %v, want nil", err)
	}
	if err := c.Validate(""); err == nil {
		t.Errorf("Validate(\"\") succeeded, want error")
	}
	if err := c.Validate("toolong"); err == nil {
		t.Errorf("Validate(\"toolong\") succeeded, want error")
	}
	if err := c.Validate([]byte{1, 2}); err != nil {
		t.Errorf("Validate([]byte) = %v, want nil", err)
	}
	if err := c.Validate(42); err == nil {
		t.Errorf("Validate(42) succeeded, want error (no defined size)")
	}
}

func TestPermittedAlphabetConstraint(t *testing.T) {
	c := PermittedAlphabetConstraint{Alphabet: "0123456789"}
	if err := c.Validate("12345"); err != nil {
		t.Errorf("Validate(\"12345\") = %v, want nil", err)
	}
	if err := c.Validate("123a5"); err == nil {
		t.Errorf("Validate(\"123a5\") succeeded, want error")
	}
}

func TestIntersection(t *testing.T) {
	c := Intersection{Members: []Constraint{
		RangeConstraint[int64]{Min: 0, Max: 100},
		SingleValueConstraint{Values: []any{int64(5), int64(10)}},
	}}
	if err := c.Validate(int64(5)); err != nil {
		t.Errorf("Validate(5) = %v, want nil", err)
	}
	if err := c.Validate(int64(50)); err == nil {
		t.Errorf("Validate(50) succeeded, want error (not in single-value set)")
	}
}

func TestUnion(t *testing.T) {
	c := Union{Members: []Constraint{
		RangeConstraint[int64]{Min: 0, Max: 5},
		RangeConstraint[int64]{Min: 95, Max: 100},
	}}
	if err := c.Validate(int64(3)); err != nil {
		t.Errorf("Validate(3) = %v, want nil", err)
	}
	if err := c.Validate(int64(97)); err != nil {
		t.Errorf("Validate(97) = %v, want nil", err)
	}
	if err := c.Validate(int64(50)); err == nil {
		t.Errorf("Validate(50) succeeded, want error")
	}
}

func TestNot(t *testing.T) {
	c := Not{Constraint: SingleValueConstraint{Values: []any{int64(0)}}}
	if err := c.Validate(int64(1)); err != nil {
		t.Errorf("Validate(1) = %v, want nil", err)
	}
	if err := c.Validate(int64(0)); err == nil {
		t.Errorf("Validate(0) succeeded, want error")
	}
}

func TestConstraints_Has_IsSuperTypeOf(t *testing.T) {
	size := SizeConstraint{Min: 1, Max: 10}
	rng := RangeConstraint[int64]{Min: 0, Max: 9}

	cs := NewConstraints(size, rng)
	if !cs.Has(SizeConstraint{Min: 1, Max: 10}) {
		t.Errorf("Has(equivalent SizeConstraint) = false, want true")
	}
	if cs.Has(SizeConstraint{Min: 1, Max: 11}) {
		t.Errorf("Has(different SizeConstraint) = true, want false")
	}

	var empty Constraints
	if !empty.IsSuperTypeOf(cs) {
		t.Errorf("empty.IsSuperTypeOf(cs) = false, want true")
	}
	if cs.IsSuperTypeOf(empty) {
		t.Errorf("cs.IsSuperTypeOf(empty) = true, want false")
	}
	if !cs.IsSuperTypeOf(cs.And(SizeConstraint{Min: 2, Max: 5})) {
		t.Errorf("cs.IsSuperTypeOf(cs plus extra constraint) = false, want true")
	}
}

func TestConstraints_Validate_ShortCircuits(t *testing.T) {
	cs := NewConstraints(
		RangeConstraint[int64]{Min: 0, Max: 10},
		SingleValueConstraint{Values: []any{int64(1)}},
	)
	if err := cs.Validate(int64(1)); err != nil {
		t.Errorf("Validate(1) = %v, want nil", err)
	}
	if err := cs.Validate(int64(2)); err == nil {
		t.Errorf("Validate(2) succeeded, want error")
	}
	if err := cs.Validate(int64(200)); err == nil {
		t.Errorf("Validate(200) succeeded, want error from first constraint")
	}
}
