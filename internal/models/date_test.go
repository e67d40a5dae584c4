package models

import (
	"encoding/json"
	"testing"
	"time"
)

// TestParseDateRoundTrip verifies wire-format parsing and formatting agree.
func TestParseDateRoundTrip(t *testing.T) {
	d, err := ParseDate("2026-02-28")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := d.String(); got != "2026-02-28" {
		t.Errorf("String() = %q, want 2026-02-28", got)
	}
}

func TestParseDateInvalid(t *testing.T) {
	if _, err := ParseDate("28/02/2026"); err == nil {
		t.Error("expected error for non-ISO date")
	}
}

// TestAddDaysMonthBoundary verifies calendar-safe day arithmetic.
func TestAddDaysMonthBoundary(t *testing.T) {
	d := NewDate(2026, time.January, 31)
	if got := d.AddDays(1).String(); got != "2026-02-01" {
		t.Errorf("Jan 31 + 1 = %s, want 2026-02-01", got)
	}
	if got := d.AddDays(-31).String(); got != "2025-12-31" {
		t.Errorf("Jan 31 - 31 = %s, want 2025-12-31", got)
	}
}

func TestDaysSince(t *testing.T) {
	a := NewDate(2026, time.March, 1)
	b := NewDate(2026, time.February, 22)
	if got := a.DaysSince(b); got != 7 {
		t.Errorf("DaysSince = %d, want 7", got)
	}
	if got := b.DaysSince(a); got != -7 {
		t.Errorf("reverse DaysSince = %d, want -7", got)
	}
}

func TestDatesBetween(t *testing.T) {
	start := NewDate(2026, time.August, 29)
	end := NewDate(2026, time.September, 2)
	dates := DatesBetween(start, end)
	if len(dates) != 5 {
		t.Fatalf("len = %d, want 5", len(dates))
	}
	if dates[0] != start || dates[4] != end {
		t.Errorf("endpoints = %s..%s, want %s..%s", dates[0], dates[4], start, end)
	}
	if got := DatesBetween(end, start); got != nil {
		t.Errorf("reversed range = %v, want nil", got)
	}
}

// TestDateJSONValue verifies a Date struct field encodes in wire format and
// decodes from it — the embedded time.Time marshaler must not leak through.
func TestDateJSONValue(t *testing.T) {
	type body struct {
		Start Date `json:"start"`
	}
	data, err := json.Marshal(body{Start: NewDate(2026, time.August, 30)})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"start":"2026-08-30"}` {
		t.Errorf("encoded = %s, want {\"start\":\"2026-08-30\"}", data)
	}

	var back body
	if err := json.Unmarshal([]byte(`{"start":"2026-08-01"}`), &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Start != NewDate(2026, time.August, 1) {
		t.Errorf("decoded = %s, want 2026-08-01", back.Start)
	}

	if err := json.Unmarshal([]byte(`{"start":"08/01/2026"}`), &back); err == nil {
		t.Error("expected error for non-ISO date value")
	}
}

// TestDateJSONMapKey verifies Date works as both a JSON value and a map key,
// which the sparse per-day maps depend on.
func TestDateJSONMapKey(t *testing.T) {
	m := map[Date]float64{NewDate(2026, time.August, 30): 82.4}
	data, err := json.Marshal(m)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(data) != `{"2026-08-30":82.4}` {
		t.Errorf("encoded = %s", data)
	}

	var back map[Date]float64
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back[NewDate(2026, time.August, 30)] != 82.4 {
		t.Errorf("round trip lost value: %v", back)
	}
}
