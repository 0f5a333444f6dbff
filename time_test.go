// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package asn1

import "testing"

func TestTimeType_NewValue_UTCTime(t *testing.T) {
	typ := NewUTCTimeType()
	v, err := typ.NewValue("170801120112Z")
	if err != nil {
		t.Fatalf("NewValue: %v", err)
	}
	tt := v.Time()
	if tt.Year() != 2017 || tt.Month() != 8 || tt.Day() != 1 {
		t.Errorf("Time() = %v, want 2017-08-01", tt)
	}
	if tt.Hour() != 12 || tt.Minute() != 1 || tt.Second() != 12 {
		t.Errorf("Time() = %v, want 12:01:12", tt)
	}
}

func TestTimeType_UTCTime_PivotYear(t *testing.T) {
	typ := NewUTCTimeType()
	// YY < 50 maps to 20YY, YY >= 50 maps to 19YY.
	future, err := typ.NewValue("490101000000Z")
	if err != nil {
		t.Fatalf("NewValue: %v", err)
	}
	if future.Time().Year() != 2049 {
		t.Errorf("Time().Year() = %d, want 2049", future.Time().Year())
	}

	past, err := typ.NewValue("500101000000Z")
	if err != nil {
		t.Fatalf("NewValue: %v", err)
	}
	if past.Time().Year() != 1950 {
		t.Errorf("Time().Year() = %d, want 1950", past.Time().Year())
	}
}

func TestTimeType_NewValue_LenientSeconds(t *testing.T) {
	typ := NewUTCTimeType()
	// Construction is lenient: seconds may be omitted (strictness is only
	// enforced by ValidateCanonicalTime, for CER/DER encoding).
	v, err := typ.NewValue("1708011201Z")
	if err != nil {
		t.Fatalf("NewValue(no seconds): %v", err)
	}
	if v.Time().Second() != 0 {
		t.Errorf("Time().Second() = %d, want 0", v.Time().Second())
	}
}

func TestTimeType_NewValue_GeneralizedTime(t *testing.T) {
	typ := NewGeneralizedTimeType()
	v, err := typ.NewValue("20170801120112.5Z")
	if err != nil {
		t.Fatalf("NewValue: %v", err)
	}
	tt := v.Time()
	if tt.Year() != 2017 || tt.Nanosecond() != 500000000 {
		t.Errorf("Time() = %v, want year 2017 with .5s fraction", tt)
	}
}

func TestTimeType_NewValue_Offset(t *testing.T) {
	typ := NewUTCTimeType()
	v, err := typ.NewValue("170801120112+0130")
	if err != nil {
		t.Fatalf("NewValue: %v", err)
	}
	_, offset := v.Time().Zone()
	if offset != 90*60 {
		t.Errorf("Zone() offset = %d, want %d", offset, 90*60)
	}
}

func TestTimeType_NewValue_Malformed(t *testing.T) {
	typ := NewUTCTimeType()
	if _, err := typ.NewValue("not a time"); err == nil {
		t.Errorf("NewValue(malformed) succeeded, want error")
	}
}

func TestValidateCanonicalTime_UTCTime(t *testing.T) {
	if err := ValidateCanonicalTime(UTCTimeKind, "170801120112Z"); err != nil {
		t.Errorf("ValidateCanonicalTime(valid) = %v, want nil", err)
	}
	if err := ValidateCanonicalTime(UTCTimeKind, "1708011201Z"); err == nil {
		t.Errorf("ValidateCanonicalTime(missing seconds) succeeded, want error")
	}
	if err := ValidateCanonicalTime(UTCTimeKind, "170801120112+0100"); err == nil {
		t.Errorf("ValidateCanonicalTime(non-Z zone) succeeded, want error")
	}
}

func TestValidateCanonicalTime_GeneralizedTime(t *testing.T) {
	if err := ValidateCanonicalTime(GeneralizedTimeKind, "20170801120112Z"); err != nil {
		t.Errorf("ValidateCanonicalTime(valid) = %v, want nil", err)
	}
	if err := ValidateCanonicalTime(GeneralizedTimeKind, "20170801120112.50Z"); err == nil {
		t.Errorf("ValidateCanonicalTime(fraction ending in zero) succeeded, want error")
	}
	if err := ValidateCanonicalTime(GeneralizedTimeKind, "201708011201Z"); err == nil {
		t.Errorf("ValidateCanonicalTime(missing seconds) succeeded, want error")
	}
	if err := ValidateCanonicalTime(GeneralizedTimeKind, "20170801120112.5"); err == nil {
		t.Errorf("ValidateCanonicalTime(no zone) succeeded, want error")
	}
}

func TestTimeType_NoValue(t *testing.T) {
	typ := NewUTCTimeType()
	v := typ.NoValue()
	if v.HasValue() {
		t.Errorf("HasValue() = true, want false")
	}
	if got := v.String(); got != "<no value>" {
		t.Errorf("String() = %q, want %q", got, "<no value>")
	}
	defer func() {
		if recover() == nil {
			t.Errorf("Raw() on no-value Time did not panic")
		}
	}()
	v.Raw()
}
