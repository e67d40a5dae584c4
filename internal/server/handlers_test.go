package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/meltforce/kcalm/internal/models"
	"github.com/meltforce/kcalm/internal/recalc"
)

func floatPtr(v float64) *float64 { return &v }

// TestParseDateRangeExplicit verifies start/end query parameters are parsed.
func TestParseDateRangeExplicit(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/days?start=2026-03-01&end=2026-03-10", nil)
	start, end, err := parseDateRange(req)
	if err != nil {
		t.Fatalf("parseDateRange: %v", err)
	}
	if start.String() != "2026-03-01" || end.String() != "2026-03-10" {
		t.Errorf("range = %s..%s, want 2026-03-01..2026-03-10", start, end)
	}
}

// TestParseDateRangeDefault verifies the default window is the last 7 days.
func TestParseDateRangeDefault(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/days", nil)
	start, end, err := parseDateRange(req)
	if err != nil {
		t.Fatalf("parseDateRange: %v", err)
	}
	if got := end.DaysSince(start); got != 6 {
		t.Errorf("window spans %d days since start, want 6", got)
	}
}

// TestParseDateRangeInverted verifies end before start is rejected.
func TestParseDateRangeInverted(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/days?start=2026-03-10&end=2026-03-01", nil)
	if _, _, err := parseDateRange(req); err == nil {
		t.Error("expected error for inverted range")
	}
}

// TestEarliestEntryDate verifies the earliest date is found across all
// sections of an ingest batch.
func TestEarliestEntryDate(t *testing.T) {
	data := models.IngestData{
		Weight: []models.WeightEntry{
			{Date: models.NewDate(2026, time.March, 5), Kg: 90},
		},
		FoodLog: []models.EnergyEntry{
			{Date: models.NewDate(2026, time.March, 2), Kcal: 2000},
		},
		Biometrics: []models.BiometricEntry{
			{Date: models.NewDate(2026, time.March, 8), Kind: models.KindHeight, Value: floatPtr(180)},
		},
	}
	earliest, ok := earliestEntryDate(data)
	if !ok {
		t.Fatal("expected a date")
	}
	if earliest.String() != "2026-03-02" {
		t.Errorf("earliest = %s, want 2026-03-02", earliest)
	}
}

// TestEarliestEntryDateEmpty verifies an empty batch reports no date.
func TestEarliestEntryDateEmpty(t *testing.T) {
	if _, ok := earliestEntryDate(models.IngestData{}); ok {
		t.Error("expected no date for an empty batch")
	}
}

// TestApplyDayEditBiometrics verifies body attributes land on the record
// dated with the edit day.
func TestApplyDayEditBiometrics(t *testing.T) {
	date := models.NewDate(2026, time.March, 5)
	day := models.NewDayRecord(date)
	sex := models.SexFemale
	edit := dayEdit{
		HeightCm: floatPtr(165),
		Sex:      &sex,
		AgeYears: floatPtr(31),
	}
	if err := applyDayEdit(day, date, edit, models.MaintenanceAdaptive, true, 7); err != nil {
		t.Fatalf("applyDayEdit: %v", err)
	}
	if day.HeightCm == nil || day.HeightCm.Value != 165 {
		t.Errorf("height = %+v, want 165", day.HeightCm)
	}
	if day.HeightCm.Date == nil || !day.HeightCm.Date.Equal(date.Time) {
		t.Errorf("height date = %v, want %s", day.HeightCm.Date, date)
	}
	if day.Sex == nil || *day.Sex != models.SexFemale {
		t.Errorf("sex = %v, want female", day.Sex)
	}
}

// TestApplyDayEditMaintenanceOverrides verifies per-day mode, interval and
// user-entered delta overrides are stored on the record.
func TestApplyDayEditMaintenanceOverrides(t *testing.T) {
	date := models.NewDate(2026, time.March, 5)
	day := models.NewDayRecord(date)
	mode := models.MaintenanceEstimated
	two := 2
	unit := models.UnitWeek
	edit := dayEdit{
		Maintenance: &maintenanceEdit{
			Mode:          &mode,
			IntervalValue: &two,
			IntervalUnit:  &unit,
			DeltaKg:       floatPtr(-0.5),
		},
	}
	if err := applyDayEdit(day, date, edit, models.MaintenanceAdaptive, true, 7); err != nil {
		t.Fatalf("applyDayEdit: %v", err)
	}
	m := day.Maintenance
	if m == nil {
		t.Fatal("maintenance not initialised")
	}
	if m.Mode != models.MaintenanceEstimated {
		t.Errorf("mode = %s, want estimated", m.Mode)
	}
	if m.Adaptive.Interval.Value != 2 || m.Adaptive.Interval.Unit != models.UnitWeek {
		t.Errorf("interval = %+v, want 2 weeks", m.Adaptive.Interval)
	}
	if m.Adaptive.WeightChange.Mode != models.WeightChangeUserEntered {
		t.Errorf("weight change mode = %s, want user_entered", m.Adaptive.WeightChange.Mode)
	}
	if m.Adaptive.WeightChange.Delta == nil || *m.Adaptive.WeightChange.Delta != -0.5 {
		t.Errorf("delta = %v, want -0.5", m.Adaptive.WeightChange.Delta)
	}
}

// TestApplyDayEditRejectsBadInterval verifies an invalid interval override
// fails the edit.
func TestApplyDayEditRejectsBadInterval(t *testing.T) {
	date := models.NewDate(2026, time.March, 5)
	day := models.NewDayRecord(date)
	zero := 0
	unit := models.UnitDay
	edit := dayEdit{Maintenance: &maintenanceEdit{IntervalValue: &zero, IntervalUnit: &unit}}
	if err := applyDayEdit(day, date, edit, models.MaintenanceAdaptive, true, 7); err == nil {
		t.Error("expected error for zero interval")
	}
}

// TestApplyDayEditDietarySlots verifies user-entered intake slots are stored
// on the record's dietary window and out-of-range indices are rejected.
func TestApplyDayEditDietarySlots(t *testing.T) {
	date := models.NewDate(2026, time.March, 5)
	day := models.NewDayRecord(date)
	edit := dayEdit{Maintenance: &maintenanceEdit{
		DietarySlotsKcal: map[int]float64{0: 2200, 3: 1900},
	}}
	if err := applyDayEdit(day, date, edit, models.MaintenanceAdaptive, true, 7); err != nil {
		t.Fatalf("applyDayEdit: %v", err)
	}
	series := day.Maintenance.Adaptive.DietaryEnergy
	if series.NumberOfDays != 7 {
		t.Errorf("number of days = %d, want 7", series.NumberOfDays)
	}
	slot := series.Slots[3]
	if slot.Type != models.DietarySlotUserEntered || slot.Kcal == nil || *slot.Kcal != 1900 {
		t.Errorf("slot 3 = %+v, want user_entered 1900", slot)
	}

	bad := dayEdit{Maintenance: &maintenanceEdit{DietarySlotsKcal: map[int]float64{9: 1000}}}
	if err := applyDayEdit(day, date, bad, models.MaintenanceAdaptive, true, 7); err == nil {
		t.Error("expected error for out-of-range slot index")
	}
}

// TestMaintenanceViewConvertsUnits verifies kJ display conversion and the
// fallback flag.
func TestMaintenanceViewConvertsUnits(t *testing.T) {
	s := &Server{units: Units{Weight: models.WeightKg, Energy: models.EnergyKJ}}
	date := models.NewDate(2026, time.March, 5)
	reason := models.ReasonInsufficientWeightData
	m := &models.Maintenance{
		Mode:                  models.MaintenanceAdaptive,
		UseEstimateAsFallback: true,
		Kcal:                  floatPtr(2000),
	}
	m.Estimate.Kcal = floatPtr(2000)
	m.Adaptive.Reason = &reason

	resp := s.maintenanceView(date, m)
	if resp.Value == nil || *resp.Value != 2000*models.KJPerKcal {
		t.Errorf("value = %v, want %v", resp.Value, 2000*models.KJPerKcal)
	}
	if resp.Unit != models.EnergyKJ {
		t.Errorf("unit = %s, want kj", resp.Unit)
	}
	if !resp.UsedFallback {
		t.Error("expected used_fallback when adaptive is unresolved and kcal comes from the estimate")
	}
	if resp.ReasonDescription != reason.Description() {
		t.Errorf("reason description = %q", resp.ReasonDescription)
	}
}

// TestHandleSettings verifies the effective settings are exposed.
func TestHandleSettings(t *testing.T) {
	s := &Server{settings: recalc.DefaultSettings(), units: Units{Weight: models.WeightLb, Energy: models.EnergyKcal}}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/settings", nil)
	rec := httptest.NewRecorder()

	s.handleSettings(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got map[string]any
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if got["mode"] != "adaptive" {
		t.Errorf("mode = %v, want adaptive", got["mode"])
	}
	if got["dietary_days"] != float64(7) {
		t.Errorf("dietary_days = %v, want 7", got["dietary_days"])
	}
}

// TestHandleGetDayBadDate verifies a malformed date path parameter is a 400.
func TestHandleGetDayBadDate(t *testing.T) {
	s := &Server{}
	req := httptest.NewRequest(http.MethodGet, "/api/v1/days/not-a-date", nil)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("date", "not-a-date")
	req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	rec := httptest.NewRecorder()

	s.handleGetDay(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
