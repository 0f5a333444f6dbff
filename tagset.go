// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import "strings"

// A TagSet is the ordered sequence of [Tag] values induced by applying
// explicit and implicit tagging to a type's intrinsic (base) tag. tags[0] is
// the outermost tag — the one that actually appears first on the wire — and
// the last element is always the immutable base tag. A freshly constructed
// TagSet (via [NewTagSet]) holds exactly the base tag.
//
// TagSet is immutable; [TagSet.TagExplicitly] and [TagSet.TagImplicitly]
// return new values.
type TagSet struct {
	tags []Tag
}

// NewTagSet creates a TagSet consisting only of the given base tag. The base
// tag captures a type's intrinsic, universal root and can never be removed by
// subsequent tagging operations.
func NewTagSet(base Tag) TagSet {
	return TagSet{tags: []Tag{base}}
}

// BaseTag returns the immutable base tag of ts, i.e. the type's intrinsic
// universal root. It is used for codec lookup when the outer tags are not
// UNIVERSAL.
func (ts TagSet) BaseTag() Tag {
	return ts.tags[len(ts.tags)-1]
}

// Outer returns the outermost tag of ts, the tag that is matched against the
// wire first. For an untagged TagSet this is the same as [TagSet.BaseTag].
func (ts TagSet) Outer() Tag {
	return ts.tags[0]
}

// Len returns the number of tags in ts, i.e. 1 plus the number of explicit
// tagging operations applied since [NewTagSet].
func (ts TagSet) Len() int { return len(ts.tags) }

// At returns the tag at position i, where i=0 is the outermost tag and
// i=Len()-1 is the base tag.
func (ts TagSet) At(i int) Tag { return ts.tags[i] }

// TagExplicitly returns a new TagSet with t prepended as a new outermost tag.
// Explicit tagging always wraps the existing encoding in an additional
// constructed TLV, so t's Format is forced to [Constructed] regardless of what
// was passed in. Tagging explicitly with a UNIVERSAL-class tag is invalid
// ASN.1 and returns an error.
func (ts TagSet) TagExplicitly(t Tag) (TagSet, error) {
	if t.Class == ClassUniversal {
		return TagSet{}, &SchemaError{Msg: "cannot tag explicitly with a UNIVERSAL class tag"}
	}
	t.Format = Constructed
	tags := make([]Tag, 0, len(ts.tags)+1)
	tags = append(tags, t)
	tags = append(tags, ts.tags...)
	return TagSet{tags: tags}, nil
}

// TagImplicitly returns a new TagSet with the outermost tag of ts replaced by
// t. The Format of the replaced tag is preserved on t, as implicit tagging
// does not change whether the underlying encoding is primitive or
// constructed.
func (ts TagSet) TagImplicitly(t Tag) (TagSet, error) {
	if t.Class == ClassUniversal {
		return TagSet{}, &SchemaError{Msg: "cannot tag implicitly with a UNIVERSAL class tag"}
	}
	t.Format = ts.tags[0].Format
	tags := make([]Tag, len(ts.tags))
	copy(tags, ts.tags)
	tags[0] = t
	return TagSet{tags: tags}, nil
}

// IsSuperSetOf reports whether ts is a super-set of other, meaning other was
// derived from ts (or an identical TagSet) by prepending zero or more
// additional outer tags. Equivalently, ts's tag sequence equals the tail
// (the base-tag-ward suffix) of other's tag sequence. Format is ignored by
// this comparison, matching [Tag.Identity].
func (ts TagSet) IsSuperSetOf(other TagSet) bool {
	if len(ts.tags) == 0 {
		// The wildcard TagSet used by ANY: it accepts whatever tag appears on
		// the wire.
		return true
	}
	if len(ts.tags) > len(other.tags) {
		return false
	}
	offset := len(other.tags) - len(ts.tags)
	for i, t := range ts.tags {
		if !t.sameIdentity(other.tags[offset+i]) {
			return false
		}
	}
	return true
}

// Equal reports whether ts and other consist of the same tags (by identity,
// ignoring Format) in the same order.
func (ts TagSet) Equal(other TagSet) bool {
	if len(ts.tags) != len(other.tags) {
		return false
	}
	for i, t := range ts.tags {
		if !t.sameIdentity(other.tags[i]) {
			return false
		}
	}
	return true
}

// Less orders ts before other using the outermost tag's (class, number), the
// rule used for DER SET component ordering.
func (ts TagSet) Less(other TagSet) bool {
	return ts.Outer().Less(other.Outer())
}

// String returns a representation similar to ASN.1 notation, outermost tag
// first, e.g. "[2] [UNIVERSAL 16]".
func (ts TagSet) String() string {
	var sb strings.Builder
	for i, t := range ts.tags {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(t.String())
	}
	return sb.String()
}
