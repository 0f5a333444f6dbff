// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import (
	"regexp"
	"strconv"
	"strings"
	gotime "time"
)

// TimeKind distinguishes the two ASN.1 time string types.
type TimeKind uint8

const (
	// UTCTimeKind is the ASN.1 UTCTime type: "YYMMDDHHMM[SS][Z|±hhmm]".
	UTCTimeKind TimeKind = iota
	// GeneralizedTimeKind is the ASN.1 GeneralizedTime type:
	// "YYYYMMDDHHMM[SS][.fff][Z|±hhmm]".
	GeneralizedTimeKind
)

// TimeType is the common implementation backing the ASN.1 UTCTime and
// GeneralizedTime types (Rec. ITU-T X.680, Sections 46-47). Both are visible
// strings with the syntactic contract described in §6.
type TimeType struct {
	typeBase
	Kind TimeKind
}

// NewUTCTimeType creates the UTCTime type.
func NewUTCTimeType() *TimeType {
	return &TimeType{typeBase{tagSet: NewTagSet(universal(TagUTCTime, Primitive))}, UTCTimeKind}
}

// NewGeneralizedTimeType creates the GeneralizedTime type.
func NewGeneralizedTimeType() *TimeType {
	return &TimeType{typeBase{tagSet: NewTagSet(universal(TagGeneralizedTime, Primitive))}, GeneralizedTimeKind}
}

func (t *TimeType) IsSameTypeWith(other Type) bool {
	o, ok := other.(*TimeType)
	return ok && t.Kind == o.Kind && t.sameTypeWith(o)
}

func (t *TimeType) IsSuperTypeOf(other Type) bool {
	o, ok := other.(*TimeType)
	return ok && t.Kind == o.Kind && t.superTypeOf(o)
}

// Subtype derives a new TimeType from t.
func (t *TimeType) Subtype(implicitTag, explicitTag *Tag, additional ...Constraint) (*TimeType, error) {
	ts, err := deriveTagSet(t.tagSet, implicitTag, explicitTag)
	if err != nil {
		return nil, err
	}
	return &TimeType{typeBase{tagSet: ts, constraints: t.constraints.And(additional...)}, t.Kind}, nil
}

var (
	utcTimePattern = regexp.MustCompile(`^(\d{2})(\d{2})(\d{2})(\d{2})(\d{2})(\d{2})?(Z|[+-]\d{4})?$`)
	genTimePattern = regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})(\d{2})(\d{2})(\d{2})?(\.\d+)?(Z|[+-]\d{4})?$`)
)

// NewValue constructs a Time from a raw ASN.1 time string (BER laxity
// applies; see [ValidateCanonicalTime] for CER/DER strictness).
func (t *TimeType) NewValue(raw string) (*Time, error) {
	gt, err := parseTime(t.Kind, raw)
	if err != nil {
		return nil, err
	}
	if err := t.constraints.Validate(raw); err != nil {
		return nil, err
	}
	gt.valueBase = valueBase{tagSet: t.tagSet, constraints: t.constraints, hasValue: true}
	return gt, nil
}

// NoValue returns a schema-only Time value object.
func (t *TimeType) NoValue() *Time {
	return &Time{valueBase: valueBase{tagSet: t.tagSet, constraints: t.constraints}, Kind: t.Kind}
}

// Time is a value of [TimeType].
type Time struct {
	valueBase
	Kind TimeKind
	raw  string
	t    gotime.Time
	isZ  bool
}

// Raw returns the exact ASN.1 time string v was constructed from.
func (v *Time) Raw() string {
	if !v.hasValue {
		panic(&NoValueError{Type: "Time"})
	}
	return v.raw
}

// Time converts v to a [time.Time].
func (v *Time) Time() gotime.Time {
	if !v.hasValue {
		panic(&NoValueError{Type: "Time"})
	}
	return v.t
}

func (v *Time) String() string {
	if !v.hasValue {
		return "<no value>"
	}
	return v.raw
}

func parseTime(kind TimeKind, raw string) (*Time, error) {
	var (
		m                []string
		year, month, day int
		hour, min, sec   int
		hasFrac          bool
		fracDigits       string
		zone             string
	)
	if kind == UTCTimeKind {
		m = utcTimePattern.FindStringSubmatch(raw)
		if m == nil {
			return nil, &SchemaError{Msg: "malformed UTCTime " + raw}
		}
		yy, _ := strconv.Atoi(m[1])
		yearBase := 1900
		if yy < 50 {
			yearBase = 2000
		}
		year = yearBase + yy
		month, _ = strconv.Atoi(m[2])
		day, _ = strconv.Atoi(m[3])
		hour, _ = strconv.Atoi(m[4])
		min, _ = strconv.Atoi(m[5])
		if m[6] != "" {
			sec, _ = strconv.Atoi(m[6])
		}
		zone = m[7]
	} else {
		m = genTimePattern.FindStringSubmatch(raw)
		if m == nil {
			return nil, &SchemaError{Msg: "malformed GeneralizedTime " + raw}
		}
		year, _ = strconv.Atoi(m[1])
		month, _ = strconv.Atoi(m[2])
		day, _ = strconv.Atoi(m[3])
		hour, _ = strconv.Atoi(m[4])
		min, _ = strconv.Atoi(m[5])
		if m[6] != "" {
			sec, _ = strconv.Atoi(m[6])
		}
		if m[7] != "" {
			hasFrac = true
			fracDigits = strings.TrimPrefix(m[7], ".")
		}
		zone = m[8]
	}

	loc := gotime.UTC
	isZ := zone == "Z"
	if zone != "" && zone != "Z" {
		sign := 1
		if zone[0] == '-' {
			sign = -1
		}
		offH, _ := strconv.Atoi(zone[1:3])
		offM, _ := strconv.Atoi(zone[3:5])
		loc = gotime.FixedZone(zone, sign*(offH*3600+offM*60))
	}

	var nsec int
	if hasFrac {
		digits := fracDigits
		for len(digits) < 9 {
			digits += "0"
		}
		n, _ := strconv.Atoi(digits[:9])
		nsec = n
	}

	t := gotime.Date(year, gotime.Month(month), day, hour, min, sec, nsec, loc)
	return &Time{Kind: kind, raw: raw, t: t, isZ: isZ}, nil
}

// ValidateCanonicalTime enforces the CER/DER syntactic restrictions from §6
// on a raw ASN.1 time string: seconds are mandatory; for GeneralizedTime a
// fractional part (if present) must use '.' and must not end in a zero
// digit; the time zone must be present and must be 'Z'.
func ValidateCanonicalTime(kind TimeKind, raw string) error {
	if kind == UTCTimeKind {
		m := utcTimePattern.FindStringSubmatch(raw)
		if m == nil {
			return &SchemaError{Msg: "malformed UTCTime " + raw}
		}
		if m[6] == "" {
			return &SchemaError{Msg: "UTCTime seconds are mandatory under CER/DER"}
		}
		if m[7] != "Z" {
			return &SchemaError{Msg: "UTCTime must use a 'Z' time zone under CER/DER"}
		}
		return nil
	}
	m := genTimePattern.FindStringSubmatch(raw)
	if m == nil {
		return &SchemaError{Msg: "malformed GeneralizedTime " + raw}
	}
	if m[6] == "" {
		return &SchemaError{Msg: "GeneralizedTime seconds are mandatory under CER/DER"}
	}
	if m[7] != "" {
		frac := strings.TrimPrefix(m[7], ".")
		if strings.HasSuffix(frac, "0") {
			return &SchemaError{Msg: "GeneralizedTime fraction must not end in zero under CER/DER"}
		}
	}
	if m[8] != "Z" {
		return &SchemaError{Msg: "GeneralizedTime must use a 'Z' time zone under CER/DER"}
	}
	return nil
}
