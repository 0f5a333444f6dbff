// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

// Type is an immutable blueprint describing an ASN.1 type: its [TagSet] and
// its [Constraints]. Every concrete type in this package (Boolean, Integer,
// Sequence, Choice, ...) implements Type. New Type values are derived from
// existing ones via each concrete type's Subtype method, which applies
// implicit/explicit tagging and intersects constraints — see §4.4.
type Type interface {
	// TagSet returns the tag set that identifies values of this type on the
	// wire.
	TagSet() TagSet
	// Constraints returns the constraints every value of this type must
	// satisfy.
	Constraints() Constraints
}

// Value is implemented by every ASN.1 value object produced by this package:
// the simple types (Boolean, Integer, BitString, OctetString, Null,
// ObjectIdentifier, Real, Enumerated, the character and time string types)
// and the constructed types (SequenceOf, SetOf, Sequence, Set, Choice, Any).
//
// A Value constructed purely from a schema — via a Type's zero value or an
// explicit "no value" constructor — reports HasValue() == false. Reading the
// payload of such a value fails with [NoValueError]; only tag/constraint
// introspection is legal on it. This is the "no-value sentinel" from §3.
type Value interface {
	TagSet() TagSet
	Constraints() Constraints
	// HasValue reports whether v carries an actual payload, as opposed to
	// being an uninitialised, schema-only placeholder.
	HasValue() bool
}

// typeBase is embedded by every concrete Type implementation. It stores the
// TagSet and Constraints shared by all of them and provides the structural
// comparison operations from §4.4.
type typeBase struct {
	tagSet      TagSet
	constraints Constraints
}

func (t typeBase) TagSet() TagSet             { return t.tagSet }
func (t typeBase) Constraints() Constraints   { return t.constraints }

// sameTypeWith reports whether t and other have identical tag sets and
// structurally equal constraint sets. Concrete types expose this via their
// own IsSameTypeWith method (which also checks type-specific metadata such as
// a Sequence's component table).
func (t typeBase) sameTypeWith(other Type) bool {
	return t.tagSet.Equal(other.TagSet()) && constraintsEqual(t.constraints, other.Constraints())
}

// superTypeOf reports whether t's tag set is a super-set of other's and t's
// constraints are satisfied by anything satisfying other's — the
// type-generic half of [4].IsSuperTypeOf; concrete types may add further
// structural checks (e.g. SequenceOf requires the element type to also be a
// super-type).
func (t typeBase) superTypeOf(other Type) bool {
	return t.tagSet.IsSuperSetOf(other.TagSet()) && t.constraints.IsSuperTypeOf(other.Constraints())
}

// constraintsEqual reports whether a and b contain the same constraints
// (mutual structural super-type-ness).
func constraintsEqual(a, b Constraints) bool {
	return a.IsSuperTypeOf(b) && b.IsSuperTypeOf(a)
}

// valueBase is embedded by every concrete Value implementation.
type valueBase struct {
	tagSet      TagSet
	constraints Constraints
	hasValue    bool
}

func (v valueBase) TagSet() TagSet           { return v.tagSet }
func (v valueBase) Constraints() Constraints { return v.constraints }
func (v valueBase) HasValue() bool           { return v.hasValue }

// deriveTagSet applies implicit tagging (if implicitTag != nil) and then
// explicit tagging (if explicitTag != nil) to base, as used by every
// Subtype implementation in this package.
func deriveTagSet(base TagSet, implicitTag, explicitTag *Tag) (TagSet, error) {
	ts := base
	var err error
	if implicitTag != nil {
		if ts, err = ts.TagImplicitly(*implicitTag); err != nil {
			return TagSet{}, err
		}
	}
	if explicitTag != nil {
		if ts, err = ts.TagExplicitly(*explicitTag); err != nil {
			return TagSet{}, err
		}
	}
	return ts, nil
}
