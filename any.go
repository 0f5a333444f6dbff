// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import "fmt"

// AnyType is the ASN.1 ANY type: a value whose concrete tag and contents are
// not constrained by the schema at this position. [AnyType.TagSet] returns
// the empty, wildcard TagSet, which [TagSet.IsSuperSetOf] reports as a
// super-set of every other TagSet — callers must not call Outer or BaseTag
// on it. The concrete tag actually present on the wire is preserved on the
// decoded [Any] value itself.
type AnyType struct {
	typeBase
}

// NewAnyType creates the (unconstrained) ANY type.
func NewAnyType() *AnyType {
	return &AnyType{typeBase{}}
}

func (t *AnyType) IsSameTypeWith(other Type) bool {
	_, ok := other.(*AnyType)
	return ok
}

func (t *AnyType) IsSuperTypeOf(other Type) bool {
	_, ok := other.(*AnyType)
	return ok
}

// NewValue wraps the raw, already-encoded TLV content octets of a value
// under tag, as produced by the open-type resolution described in §9. bytes
// holds the content octets only (not the tag/length header).
func (t *AnyType) NewValue(tag Tag, bytes []byte) *Any {
	return &Any{valueBase{tagSet: t.tagSet, hasValue: true}, tag, append([]byte(nil), bytes...)}
}

// NoValue returns a schema-only Any value object.
func (t *AnyType) NoValue() *Any {
	return &Any{valueBase: valueBase{tagSet: t.tagSet}}
}

// Any is a value of [AnyType]: an opaque TLV payload, tagged as it appeared
// on the wire (or as given to [AnyType.NewValue]).
type Any struct {
	valueBase
	tag   Tag
	bytes []byte
}

// Tag returns the concrete tag this value carries, overriding the schema's
// wildcard TagSet.
func (v *Any) Tag() Tag {
	if !v.hasValue {
		panic(&NoValueError{Type: "Any"})
	}
	return v.tag
}

// Bytes returns the raw content octets. The returned slice must not be
// modified.
func (v *Any) Bytes() []byte {
	if !v.hasValue {
		panic(&NoValueError{Type: "Any"})
	}
	return v.bytes
}

func (v *Any) String() string {
	if !v.hasValue {
		return "<no value>"
	}
	return fmt.Sprintf("ANY %s % X", v.tag, v.bytes)
}

// OpenTypeMap resolves an ANY value into a concrete [Type] based on the
// value of a discriminator component elsewhere in the same SEQUENCE or SET,
// the "open type" binding pattern from §9 (e.g. an AttributeTypeAndValue
// whose "type" OBJECT IDENTIFIER selects the Type of its "value" ANY).
// Bindings are keyed by a string discriminator, most commonly the string
// form of an [ObjectIdentifier].
type OpenTypeMap struct {
	byDiscriminator map[string]Type
	fallback        Type
}

// NewOpenTypeMap creates an empty OpenTypeMap. Entries are added with
// [OpenTypeMap.Bind]; lookups that miss fall back to the ANY type itself,
// unless [OpenTypeMap.Fallback] sets something else.
func NewOpenTypeMap() *OpenTypeMap {
	return &OpenTypeMap{byDiscriminator: make(map[string]Type)}
}

// Bind registers typ as the concrete Type to use when the discriminator
// equals key.
func (m *OpenTypeMap) Bind(key string, typ Type) *OpenTypeMap {
	m.byDiscriminator[key] = typ
	return m
}

// Fallback sets the Type returned by Resolve for a discriminator with no
// registered binding. Without a fallback, unresolved discriminators resolve
// to plain ANY.
func (m *OpenTypeMap) Fallback(typ Type) *OpenTypeMap {
	m.fallback = typ
	return m
}

// Resolve returns the Type bound to key, the configured fallback if key is
// unbound, or plain ANY if neither applies.
func (m *OpenTypeMap) Resolve(key string) Type {
	if typ, ok := m.byDiscriminator[key]; ok {
		return typ
	}
	if m.fallback != nil {
		return m.fallback
	}
	return NewAnyType()
}
