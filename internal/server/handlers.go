package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/meltforce/kcalm/internal/models"
	"github.com/meltforce/kcalm/internal/storage"
)

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var payload models.IngestPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	ctx := r.Context()
	data := payload.Data
	result := models.IngestResult{BatchID: uuid.NewString()}

	var err error
	result.WeightUpserted, err = s.db.UpsertWeightSamples(ctx, storage.DefaultUserID, data.Weight)
	if err != nil {
		s.ingestError(w, err)
		return
	}
	result.DietaryUpserted, err = s.db.UpsertEnergyTotals(ctx, storage.DefaultUserID, "dietary_energy", data.DietaryEnergy)
	if err != nil {
		s.ingestError(w, err)
		return
	}
	result.FoodLogUpserted, err = s.db.UpsertEnergyTotals(ctx, storage.DefaultUserID, "food_log", data.FoodLog)
	if err != nil {
		s.ingestError(w, err)
		return
	}

	for _, b := range data.Biometrics {
		if err := s.applyBiometric(ctx, b); err != nil {
			s.ingestError(w, err)
			return
		}
		result.BiometricsApplied++
	}

	earliest, ok := earliestEntryDate(data)
	if !ok {
		result.Message = "empty batch"
		writeJSON(w, http.StatusOK, result)
		return
	}

	end := models.Today()
	if end.Before(earliest.Time) {
		end = earliest
	}
	pass, err := s.engine.Run(ctx, s.settings, earliest, end)
	if err != nil {
		s.log.Error("post-ingest recalculation failed", "error", err)
		result.Message = "ingested, recalculation failed: " + err.Error()
		writeJSON(w, http.StatusOK, result)
		return
	}
	result.RecalculatedFrom = &earliest
	result.DaysDirty = pass.Dirty
	if pass.Cancelled {
		result.Message = "recalculation cancelled mid-pass"
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) ingestError(w http.ResponseWriter, err error) {
	s.log.Error("ingest error", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
}

// applyBiometric routes one entry: energy and goal kinds go to the biometrics
// table, body attributes go onto the day record itself.
func (s *Server) applyBiometric(ctx context.Context, b models.BiometricEntry) error {
	switch b.Kind {
	case models.KindRestingEnergy, models.KindActiveEnergy, models.KindGoalWeight:
		if b.Value == nil {
			return fmt.Errorf("biometric %s on %s has no value", b.Kind, b.Date)
		}
		return s.db.UpsertBiometric(ctx, storage.DefaultUserID, b.Date, b.Kind, *b.Value)
	}

	day, err := s.db.FetchDayRecord(ctx, storage.DefaultUserID, b.Date)
	if err != nil {
		return err
	}
	if day == nil {
		day = models.NewDayRecord(b.Date)
	}
	switch b.Kind {
	case models.KindHeight:
		if b.Value != nil {
			day.HeightCm = &models.DatedQuantity{Value: *b.Value, Date: &b.Date}
		}
	case models.KindLeanBodyMass:
		if b.Value != nil {
			day.LeanBodyMassKg = &models.DatedQuantity{Value: *b.Value, Date: &b.Date}
		}
	case models.KindFatPercent:
		if b.Value != nil {
			day.FatPercent = &models.DatedQuantity{Value: *b.Value, Date: &b.Date}
		}
	case models.KindAge:
		day.AgeYears = b.Value
	case models.KindSex:
		day.Sex = b.Sex
	default:
		return fmt.Errorf("unknown biometric kind %q", b.Kind)
	}
	return s.db.SaveDayRecord(ctx, day)
}

func earliestEntryDate(data models.IngestData) (models.Date, bool) {
	var earliest models.Date
	consider := func(d models.Date) {
		if earliest.IsZero() || d.Before(earliest.Time) {
			earliest = d
		}
	}
	for _, e := range data.Weight {
		consider(e.Date)
	}
	for _, e := range data.DietaryEnergy {
		consider(e.Date)
	}
	for _, e := range data.FoodLog {
		consider(e.Date)
	}
	for _, e := range data.Biometrics {
		consider(e.Date)
	}
	return earliest, !earliest.IsZero()
}

func (s *Server) handleListDays(w http.ResponseWriter, r *http.Request) {
	start, end, err := parseDateRange(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	records, err := s.db.ListDayRecords(r.Context(), start, end)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	days := make([]*models.DayRecord, 0, len(records))
	for _, day := range records {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Date.Before(days[j].Date.Time) })
	writeJSON(w, http.StatusOK, days)
}

func (s *Server) handleGetDay(w http.ResponseWriter, r *http.Request) {
	date, err := models.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date: " + err.Error()})
		return
	}

	day, err := s.db.FetchDayRecord(r.Context(), storage.DefaultUserID, date)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if day == nil {
		// Days exist lazily: an unstored date reads as an empty record.
		day = models.NewDayRecord(date)
	}
	writeJSON(w, http.StatusOK, day)
}

// dayEdit is the partial-update body for PUT /days/{date}. Absent fields are
// left alone. Weights are stored as samples so the resolver sees them.
type dayEdit struct {
	WeightKg       *float64                `json:"weight_kg,omitempty"`
	HeightCm       *float64                `json:"height_cm,omitempty"`
	LeanBodyMassKg *float64                `json:"lean_body_mass_kg,omitempty"`
	FatPercent     *float64                `json:"fat_percent,omitempty"`
	Sex            *models.Sex             `json:"sex,omitempty"`
	AgeYears       *float64                `json:"age_years,omitempty"`
	Maintenance    *maintenanceEdit        `json:"maintenance,omitempty"`
}

// maintenanceEdit overrides how this one day resolves its maintenance. The
// overrides persist on the record and survive later recalculation passes.
type maintenanceEdit struct {
	Mode                  *models.MaintenanceMode `json:"mode,omitempty"`
	UseEstimateAsFallback *bool                   `json:"use_estimate_as_fallback,omitempty"`
	IntervalValue         *int                    `json:"interval_value,omitempty"`
	IntervalUnit          *models.IntervalUnit    `json:"interval_unit,omitempty"`
	DeltaKg               *float64                `json:"delta_kg,omitempty"`
	DietarySlotsKcal      map[int]float64         `json:"dietary_slots_kcal,omitempty"`
}

type dayEditResponse struct {
	Day    *models.DayRecord `json:"day"`
	Recalc recalcSummary     `json:"recalc"`
}

type recalcSummary struct {
	Processed int  `json:"processed"`
	Dirty     int  `json:"dirty"`
	Cancelled bool `json:"cancelled"`
}

func (s *Server) handleEditDay(w http.ResponseWriter, r *http.Request) {
	date, err := models.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date: " + err.Error()})
		return
	}

	var edit dayEdit
	if err := json.NewDecoder(r.Body).Decode(&edit); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
		return
	}

	ctx := r.Context()
	if edit.WeightKg != nil {
		entry := models.WeightEntry{Date: date, Kg: *edit.WeightKg, Source: models.WeightSourceManualEntry}
		if _, err := s.db.UpsertWeightSamples(ctx, storage.DefaultUserID, []models.WeightEntry{entry}); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
	}

	day, err := s.db.FetchDayRecord(ctx, storage.DefaultUserID, date)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if day == nil {
		day = models.NewDayRecord(date)
	}
	if err := applyDayEdit(day, date, edit, s.settings.Mode, s.settings.UseEstimateAsFallback, s.settings.DietaryDays); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if err := s.db.SaveDayRecord(ctx, day); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	// An edit on day D can change every later day's derived state.
	end := models.Today()
	if end.Before(date.Time) {
		end = date
	}
	pass, err := s.engine.Run(ctx, s.settings, date, end)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	day, err = s.db.FetchDayRecord(ctx, storage.DefaultUserID, date)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, dayEditResponse{
		Day:    day,
		Recalc: recalcSummary{Processed: pass.Processed, Dirty: pass.Dirty, Cancelled: pass.Cancelled},
	})
}

func applyDayEdit(day *models.DayRecord, date models.Date, edit dayEdit, defaultMode models.MaintenanceMode, defaultFallback bool, dietaryDays int) error {
	if edit.HeightCm != nil {
		day.HeightCm = &models.DatedQuantity{Value: *edit.HeightCm, Date: &date}
	}
	if edit.LeanBodyMassKg != nil {
		day.LeanBodyMassKg = &models.DatedQuantity{Value: *edit.LeanBodyMassKg, Date: &date}
	}
	if edit.FatPercent != nil {
		day.FatPercent = &models.DatedQuantity{Value: *edit.FatPercent, Date: &date}
	}
	if edit.Sex != nil {
		day.Sex = edit.Sex
	}
	if edit.AgeYears != nil {
		day.AgeYears = edit.AgeYears
	}

	me := edit.Maintenance
	if me == nil {
		return nil
	}
	if day.Maintenance == nil {
		day.Maintenance = &models.Maintenance{Mode: defaultMode, UseEstimateAsFallback: defaultFallback}
	}
	m := day.Maintenance
	if me.Mode != nil {
		if *me.Mode != models.MaintenanceAdaptive && *me.Mode != models.MaintenanceEstimated {
			return fmt.Errorf("unknown maintenance mode %q", *me.Mode)
		}
		m.Mode = *me.Mode
	}
	if me.UseEstimateAsFallback != nil {
		m.UseEstimateAsFallback = *me.UseEstimateAsFallback
	}
	if me.IntervalValue != nil || me.IntervalUnit != nil {
		interval := m.Adaptive.Interval
		if me.IntervalValue != nil {
			interval.Value = *me.IntervalValue
		}
		if me.IntervalUnit != nil {
			interval.Unit = *me.IntervalUnit
		}
		if err := interval.Validate(); err != nil {
			return err
		}
		m.Adaptive.Interval = interval
	}
	if me.DeltaKg != nil {
		m.Adaptive.WeightChange.Mode = models.WeightChangeUserEntered
		m.Adaptive.WeightChange.Delta = me.DeltaKg
	}
	if len(me.DietarySlotsKcal) > 0 {
		series := &m.Adaptive.DietaryEnergy
		if series.NumberOfDays == 0 {
			series.NumberOfDays = dietaryDays
		}
		if series.Slots == nil {
			series.Slots = make(map[int]models.DietaryEnergySlot)
		}
		for idx, kcal := range me.DietarySlotsKcal {
			if idx < 0 || idx >= series.NumberOfDays {
				return fmt.Errorf("dietary slot %d out of range [0,%d)", idx, series.NumberOfDays)
			}
			v := kcal
			series.Slots[idx] = models.DietaryEnergySlot{Type: models.DietarySlotUserEntered, Kcal: &v}
		}
	}
	return nil
}

type recalcRequest struct {
	Start *models.Date `json:"start,omitempty"`
	End   *models.Date `json:"end,omitempty"`
}

func (s *Server) handleRecalculate(w http.ResponseWriter, r *http.Request) {
	var req recalcRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON: " + err.Error()})
			return
		}
	}

	ctx := r.Context()
	var start models.Date
	if req.Start != nil {
		start = *req.Start
	} else {
		earliest, ok, err := s.db.EarliestDayDate(ctx)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		if !ok {
			writeJSON(w, http.StatusOK, map[string]string{"message": "no data to recalculate"})
			return
		}
		start = earliest
	}
	end := models.Today()
	if req.End != nil {
		end = *req.End
	}
	if end.Before(start.Time) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("end %s before start %s", end, start)})
		return
	}

	result, err := s.engine.Run(ctx, s.settings, start, end)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// maintenanceResponse is the display view of one day's resolved maintenance,
// converted into the configured energy unit.
type maintenanceResponse struct {
	Date              models.Date            `json:"date"`
	Mode              models.MaintenanceMode `json:"mode"`
	Value             *float64               `json:"value,omitempty"`
	Unit              models.EnergyUnit      `json:"unit"`
	AdaptiveValue     *float64               `json:"adaptive_value,omitempty"`
	EstimatedValue    *float64               `json:"estimated_value,omitempty"`
	UsedFallback      bool                   `json:"used_fallback"`
	Reason            *models.Reason         `json:"reason,omitempty"`
	ReasonDescription string                 `json:"reason_description,omitempty"`
}

func (s *Server) handleGetMaintenance(w http.ResponseWriter, r *http.Request) {
	date, err := models.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid date: " + err.Error()})
		return
	}

	day, err := s.db.FetchDayRecord(r.Context(), storage.DefaultUserID, date)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if day == nil || day.Maintenance == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no maintenance resolved for " + date.String()})
		return
	}

	writeJSON(w, http.StatusOK, s.maintenanceView(date, day.Maintenance))
}

func (s *Server) maintenanceView(date models.Date, m *models.Maintenance) maintenanceResponse {
	resp := maintenanceResponse{
		Date:           date,
		Mode:           m.Mode,
		Unit:           s.units.Energy,
		Value:          s.convertEnergy(m.Kcal),
		AdaptiveValue:  s.convertEnergy(m.Adaptive.Kcal),
		EstimatedValue: s.convertEnergy(m.Estimate.Kcal),
	}
	if m.Mode == models.MaintenanceAdaptive && m.Adaptive.Kcal == nil && m.Kcal != nil {
		resp.UsedFallback = true
	}
	if m.Adaptive.Reason != nil {
		resp.Reason = m.Adaptive.Reason
		resp.ReasonDescription = m.Adaptive.Reason.Description()
	}
	return resp
}

func (s *Server) convertEnergy(kcal *float64) *float64 {
	if kcal == nil {
		return nil
	}
	v := s.units.Energy.FromKcal(*kcal)
	return &v
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"mode":                     s.settings.Mode,
		"use_estimate_as_fallback": s.settings.UseEstimateAsFallback,
		"interval":                 s.settings.Interval,
		"dietary_days":             s.settings.DietaryDays,
		"min_adaptive_kcal":        s.settings.MinimumAdaptiveKcal,
		"resting_equation":         s.settings.RestingEquation,
		"activity_level":           s.settings.ActivityLevel,
		"units": map[string]any{
			"weight": s.units.Weight,
			"energy": s.units.Energy,
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func parseDateRange(r *http.Request) (start, end models.Date, err error) {
	startStr := r.URL.Query().Get("start")
	endStr := r.URL.Query().Get("end")

	if startStr == "" {
		// Default: last 7 days
		end = models.Today()
		start = end.AddDays(-6)
		return
	}

	start, err = models.ParseDate(startStr)
	if err != nil {
		return models.Date{}, models.Date{}, err
	}
	if endStr == "" {
		end = models.Today()
	} else {
		end, err = models.ParseDate(endStr)
		if err != nil {
			return models.Date{}, models.Date{}, err
		}
	}
	if end.Before(start.Time) {
		return models.Date{}, models.Date{}, fmt.Errorf("end %s before start %s", end, start)
	}
	return
}
