// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import (
	"fmt"
	"math/big"
	"sort"
)

// sizer is implemented by values that have a well-defined length for the
// purpose of a [SizeConstraint], e.g. [BitString], [OctetString] and the
// character string types.
type sizer interface {
	Len() int
}

// Constraint is a predicate over values, as described in Rec. ITU-T X.680,
// Section 51. A Constraint is evaluated at value construction time (via
// [Type.NewValue]) and, depending on the codec, again during decoding.
//
// Constraints compose by value: [Intersection] and [Union] build new
// Constraints out of others. A Constraint additionally participates in
// structural comparison through its key method, which allows
// [Constraints.Has] and [Constraints.IsSuperTypeOf] to work without deep
// reflection.
type Constraint interface {
	// Validate returns a *ConstraintViolation if value does not satisfy the
	// constraint, nil otherwise.
	Validate(value any) error
	// key returns a comparable representation of the constraint used for
	// structural equality checks (see Constraints.Has).
	key() any
}

// Constraints is an ordered list of [Constraint] values that, together, must
// all be satisfied (it behaves like an implicit [Intersection]). The zero
// value is the trivial constraint that accepts everything.
type Constraints struct {
	items []Constraint
}

// NewConstraints builds a Constraints value from the given constraints.
func NewConstraints(cs ...Constraint) Constraints {
	return Constraints{items: cs}
}

// Validate checks value against every constraint in cs, short-circuiting on
// the first failure, in order — this is the "intersection" semantics
// described in §4.2.
func (cs Constraints) Validate(value any) error {
	for _, c := range cs.items {
		if err := c.Validate(value); err != nil {
			return err
		}
	}
	return nil
}

// Has reports whether cs contains a constraint structurally equal to c,
// determined by comparing c.key() against every member's key. This is what
// makes [Constraints.IsSuperTypeOf] decidable without deep value comparison.
func (cs Constraints) Has(c Constraint) bool {
	k := c.key()
	for _, item := range cs.items {
		if item.key() == k {
			return true
		}
	}
	return false
}

// IsSuperTypeOf reports whether cs is satisfied by every value that
// satisfies other — approximated structurally: cs is a super-type of other
// iff every constraint in cs also appears (by key) in other. An empty cs is a
// super-type of anything.
func (cs Constraints) IsSuperTypeOf(other Constraints) bool {
	for _, c := range cs.items {
		if !other.Has(c) {
			return false
		}
	}
	return true
}

// And returns a new Constraints with additional appended. This is used by
// [Type.Subtype] to intersect a parent's constraints with new ones.
func (cs Constraints) And(additional ...Constraint) Constraints {
	items := make([]Constraint, 0, len(cs.items)+len(additional))
	items = append(items, cs.items...)
	items = append(items, additional...)
	return Constraints{items: items}
}

// constraintKey is a small helper allowing constraint implementations to
// build a comparable key out of named fields.
type constraintKey struct {
	Kind string
	A, B any
}

//region SingleValueConstraint

// SingleValueConstraint requires the value to equal exactly one member of a
// fixed set (comparison via ==).
type SingleValueConstraint struct {
	Values []any
}

func (c SingleValueConstraint) Validate(value any) error {
	for _, v := range c.Values {
		if v == value {
			return nil
		}
	}
	return &ConstraintViolation{Constraint: c, Value: value, Msg: fmt.Sprintf("%v is not a permitted value", value)}
}

func (c SingleValueConstraint) key() any {
	return constraintKey{Kind: "single-value", A: fmt.Sprint(c.Values)}
}

//endregion

//region RangeConstraint

// Ordered is the set of Go types a [RangeConstraint] can be applied to.
type Ordered interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64
}

// RangeConstraint requires a numeric value to lie within [Min, Max]
// (inclusive on both ends), as used for ASN.1 INTEGER subtype value ranges.
type RangeConstraint[T Ordered] struct {
	Min, Max T
}

func (c RangeConstraint[T]) Validate(value any) error {
	if v, ok := value.(T); ok {
		if v < c.Min || v > c.Max {
			return &ConstraintViolation{Constraint: c, Value: value, Msg: fmt.Sprintf("%v outside range [%v, %v]", v, c.Min, c.Max)}
		}
		return nil
	}
	// INTEGER values carry arbitrary precision as *big.Int rather than T, so
	// a RangeConstraint on an INTEGER subtype is compared via big.Float
	// rather than by asserting to T directly.
	if bi, ok := value.(*big.Int); ok {
		v := new(big.Float).SetInt(bi)
		min := big.NewFloat(float64(c.Min))
		max := big.NewFloat(float64(c.Max))
		if v.Cmp(min) < 0 || v.Cmp(max) > 0 {
			return &ConstraintViolation{Constraint: c, Value: value, Msg: fmt.Sprintf("%v outside range [%v, %v]", bi, c.Min, c.Max)}
		}
		return nil
	}
	return &ConstraintViolation{Constraint: c, Value: value, Msg: "value has the wrong type for range check"}
}

func (c RangeConstraint[T]) key() any {
	return constraintKey{Kind: "range", A: c.Min, B: c.Max}
}

//endregion

//region SizeConstraint

// SizeConstraint requires len(value) (for a type implementing [sizer], or a
// Go string/[]byte) to lie within [Min, Max].
type SizeConstraint struct {
	Min, Max int
}

func (c SizeConstraint) Validate(value any) error {
	var n int
	switch v := value.(type) {
	case sizer:
		n = v.Len()
	case string:
		n = len(v)
	case []byte:
		n = len(v)
	default:
		return &ConstraintViolation{Constraint: c, Value: value, Msg: "value has no defined size"}
	}
	if n < c.Min || n > c.Max {
		return &ConstraintViolation{Constraint: c, Value: value, Msg: fmt.Sprintf("size %d outside range [%d, %d]", n, c.Min, c.Max)}
	}
	return nil
}

func (c SizeConstraint) key() any {
	return constraintKey{Kind: "size", A: c.Min, B: c.Max}
}

//endregion

//region PermittedAlphabetConstraint

// PermittedAlphabetConstraint requires every rune of a string-like value to be
// a member of Alphabet, as used for restricted character string subtypes
// (e.g. NumericString, PrintableString).
type PermittedAlphabetConstraint struct {
	Alphabet string
}

func (c PermittedAlphabetConstraint) Validate(value any) error {
	s, ok := value.(string)
	if !ok {
		return &ConstraintViolation{Constraint: c, Value: value, Msg: "value is not a string"}
	}
	for _, r := range s {
		found := false
		for _, a := range c.Alphabet {
			if a == r {
				found = true
				break
			}
		}
		if !found {
			return &ConstraintViolation{Constraint: c, Value: value, Msg: fmt.Sprintf("character %q is not in the permitted alphabet", r)}
		}
	}
	return nil
}

func (c PermittedAlphabetConstraint) key() any {
	alphabet := []rune(c.Alphabet)
	sort.Slice(alphabet, func(i, j int) bool { return alphabet[i] < alphabet[j] })
	return constraintKey{Kind: "permitted-alphabet", A: string(alphabet)}
}

//endregion

//region Intersection / Union / Not

// Intersection is a Constraint that is satisfied only if every one of its
// members is satisfied. It evaluates members in order and stops at the first
// failure (short-circuiting), as required by §4.2.
type Intersection struct {
	Members []Constraint
}

func (c Intersection) Validate(value any) error {
	for _, m := range c.Members {
		if err := m.Validate(value); err != nil {
			return err
		}
	}
	return nil
}

func (c Intersection) key() any {
	keys := make([]any, len(c.Members))
	for i, m := range c.Members {
		keys[i] = m.key()
	}
	return constraintKey{Kind: "intersection", A: fmt.Sprint(keys)}
}

// Union is a Constraint that is satisfied if at least one of its members is
// satisfied. A Union with no members accepts every value.
type Union struct {
	Members []Constraint
}

func (c Union) Validate(value any) error {
	if len(c.Members) == 0 {
		return nil
	}
	var firstErr error
	for _, m := range c.Members {
		if err := m.Validate(value); err == nil {
			return nil
		} else if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (c Union) key() any {
	keys := make([]any, len(c.Members))
	for i, m := range c.Members {
		keys[i] = m.key()
	}
	return constraintKey{Kind: "union", A: fmt.Sprint(keys)}
}

// Not negates a Constraint: it is satisfied iff the wrapped constraint is
// not.
type Not struct {
	Constraint Constraint
}

func (c Not) Validate(value any) error {
	if err := c.Constraint.Validate(value); err == nil {
		return &ConstraintViolation{Constraint: c, Value: value, Msg: "value satisfies an excluded constraint"}
	}
	return nil
}

func (c Not) key() any {
	return constraintKey{Kind: "not", A: c.Constraint.key()}
}

//endregion
