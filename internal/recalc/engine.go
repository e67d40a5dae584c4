// Package recalc re-derives day records across a date range: per-day weight
// and dietary resolution, maintenance recomputation, and carried-forward
// replacements for missing attributes. One pass owns its range exclusively;
// callers serialize edits against passes at a higher level.
package recalc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/meltforce/kcalm/internal/maintenance"
	"github.com/meltforce/kcalm/internal/models"
	"github.com/meltforce/kcalm/internal/resolve"
)

// DayStore is the persistent keyed store of day records. Writes are
// idempotent: saving an unchanged record is observably a no-op.
type DayStore interface {
	// ListDayRecords returns the stored records with dates in [start, end].
	// Dates without a record are simply absent from the map.
	ListDayRecords(ctx context.Context, start, end models.Date) (map[models.Date]*models.DayRecord, error)

	// SaveDayRecord upserts one record.
	SaveDayRecord(ctx context.Context, day *models.DayRecord) error

	// LatestKnownBefore returns, for each tracked attribute, the most recent
	// value on any record strictly before the date.
	LatestKnownBefore(ctx context.Context, date models.Date) (map[models.HealthKind]models.KnownValue, error)
}

// Settings is the per-pass configuration snapshot. It is read once at pass
// start and never re-read mid-pass.
type Settings struct {
	Mode                  models.MaintenanceMode
	UseEstimateAsFallback bool
	Interval              models.Interval
	DietaryDays           int
	MinimumAdaptiveKcal   float64
	RestingEquation       maintenance.Equation
	ActivityLevel         maintenance.ActivityLevel
}

// DefaultSettings are the out-of-the-box resolution choices.
func DefaultSettings() Settings {
	return Settings{
		Mode:                  models.MaintenanceAdaptive,
		UseEstimateAsFallback: true,
		Interval:              models.Interval{Value: 1, Unit: models.UnitWeek},
		DietaryDays:           models.DefaultDietaryDays,
		MinimumAdaptiveKcal:   maintenance.DefaultMinimumAdaptiveKcal,
		RestingEquation:       maintenance.EquationMifflinStJeor,
		ActivityLevel:         maintenance.ActivitySedentary,
	}
}

// Result summarizes one recalculation pass. Cancelled means the pass stopped
// at a day boundary before finishing; days already processed were persisted,
// the latest-known map was discarded.
type Result struct {
	Processed  int           `json:"processed"`
	Dirty      int           `json:"dirty"`
	DirtyDates []models.Date `json:"dirty_dates,omitempty"`
	Cancelled  bool          `json:"cancelled"`
}

// Engine drives recalculation passes.
type Engine struct {
	store        DayStore
	measurements resolve.Measurements
	log          *slog.Logger
}

// New creates an engine over a day store and a measurement provider.
func New(store DayStore, measurements resolve.Measurements, log *slog.Logger) *Engine {
	return &Engine{store: store, measurements: measurements, log: log}
}

// Run processes every date in [start, end] in ascending order: refresh the
// day's weight and dietary windows, recompute maintenance, resolve
// replacements from the forward-threaded latest-known map, and persist the
// day only when its derived state changed.
//
// Cancellation is checked between days; a cancelled pass returns a Result
// with Cancelled set and no error. A structural store failure aborts the
// whole pass — skipping a day would leave the latest-known map behind truth
// for every later day.
func (e *Engine) Run(ctx context.Context, settings Settings, start, end models.Date) (Result, error) {
	var res Result
	if end.Before(start.Time) {
		return res, fmt.Errorf("invalid range: %s after %s", start, end)
	}

	records, err := e.store.ListDayRecords(ctx, start, end)
	if err != nil {
		return res, fmt.Errorf("listing day records: %w", err)
	}

	// One linear seed scan so the first in-range day still sees pre-range
	// history; from here the map is only ever threaded forward.
	latest, err := e.store.LatestKnownBefore(ctx, start)
	if err != nil {
		return res, fmt.Errorf("seeding latest-known values: %w", err)
	}
	if latest == nil {
		latest = make(map[models.HealthKind]models.KnownValue)
	}

	for _, date := range models.DatesBetween(start, end) {
		if ctx.Err() != nil {
			res.Cancelled = true
			e.log.Info("recalculation cancelled", "at", date, "processed", res.Processed)
			return res, nil
		}

		day, ok := records[date]
		if !ok {
			day = models.NewDayRecord(date)
		}

		before, err := json.Marshal(day)
		if err != nil {
			return res, fmt.Errorf("snapshotting day %s: %w", date, err)
		}

		e.deriveDay(ctx, settings, day, latest)
		day.Replacements = ReplacementsFor(day, latest)
		UpdateLatestKnown(latest, day)
		res.Processed++

		after, err := json.Marshal(day)
		if err != nil {
			return res, fmt.Errorf("encoding day %s: %w", date, err)
		}
		if bytes.Equal(before, after) {
			continue
		}
		if err := e.store.SaveDayRecord(ctx, day); err != nil {
			return res, fmt.Errorf("saving day %s: %w", date, err)
		}
		res.Dirty++
		res.DirtyDates = append(res.DirtyDates, date)
	}

	e.log.Info("recalculation complete",
		"start", start, "end", end,
		"processed", res.Processed, "dirty", res.Dirty)
	return res, nil
}

// deriveDay refreshes one day's derived state in place. Day-level overrides
// (mode, fallback flag, interval, user-entered values) stored on the
// previous maintenance survive; everything derived is rebuilt.
func (e *Engine) deriveDay(ctx context.Context, s Settings, day *models.DayRecord, latest map[models.HealthKind]models.KnownValue) {
	mode := s.Mode
	fallback := s.UseEstimateAsFallback
	interval := s.Interval
	var prevSeries models.DietaryEnergySeries

	prev := day.Maintenance
	if prev != nil {
		if prev.Mode != "" {
			mode = prev.Mode
		}
		fallback = prev.UseEstimateAsFallback
		if prev.Adaptive.Interval.Validate() == nil {
			interval = prev.Adaptive.Interval
		}
		prevSeries = prev.Adaptive.DietaryEnergy
	}

	current := resolve.WeightOn(ctx, e.measurements, day.Date, &interval, e.log)
	previous := resolve.WeightOn(ctx, e.measurements, day.Date.AddDays(-interval.NumberOfDays()), &interval, e.log)

	change := models.WeightChange{
		Mode:     models.WeightChangeUsingWeights,
		Current:  current,
		Previous: previous,
	}
	if prev != nil && prev.Adaptive.WeightChange.Mode == models.WeightChangeUserEntered {
		change = prev.Adaptive.WeightChange
	}
	change.Recompute()

	day.Weight = &current

	dietary := resolve.DietaryEnergyOn(ctx, e.measurements, day.Date, prevSeries, s.DietaryDays, e.log)

	adaptive := maintenance.ResolveAdaptive(models.AdaptiveMaintenance{
		Interval:      interval,
		WeightChange:  change,
		DietaryEnergy: dietary,
	}, s.MinimumAdaptiveKcal)

	estimate := maintenance.ResolveEstimate(e.estimateInput(ctx, s, day, latest, prev))

	m := maintenance.Recompute(models.Maintenance{
		Mode:                  mode,
		Adaptive:              adaptive,
		Estimate:              estimate,
		UseEstimateAsFallback: fallback,
	})
	day.Maintenance = &m
}

// estimateInput assembles the estimated calculator's inputs: the day's own
// biometrics first, then carried-forward values from the latest-known map,
// then measured energy from the provider when a source asks for it.
func (e *Engine) estimateInput(ctx context.Context, s Settings, day *models.DayRecord, latest map[models.HealthKind]models.KnownValue, prev *models.Maintenance) maintenance.EstimateInput {
	in := maintenance.EstimateInput{
		RestingSource: models.RestingFromEquation,
		ActiveSource:  models.ActiveFromMultiplier,
		Equation:      s.RestingEquation,
		ActivityLevel: s.ActivityLevel,
	}
	if prev != nil {
		if prev.Estimate.RestingSource != "" {
			in.RestingSource = prev.Estimate.RestingSource
		}
		if prev.Estimate.ActiveSource != "" {
			in.ActiveSource = prev.Estimate.ActiveSource
		}
		if in.RestingSource == models.RestingFromUserEntry {
			in.RestingEnteredKcal = prev.Estimate.RestingKcal
		}
		if in.ActiveSource == models.ActiveFromUserEntry {
			in.ActiveEnteredKcal = prev.Estimate.ActiveKcal
		}
	}

	carry := func(own *float64, kind models.HealthKind) *float64 {
		if own != nil {
			return own
		}
		if v, ok := latest[kind]; ok {
			return v.Quantity
		}
		return nil
	}
	quantity := func(q *models.DatedQuantity, kind models.HealthKind) *float64 {
		if q != nil {
			return &q.Value
		}
		if v, ok := latest[kind]; ok {
			return v.Quantity
		}
		return nil
	}

	var weight *float64
	if day.Weight != nil {
		weight = day.Weight.Value
	}
	in.Profile = maintenance.Profile{
		Sex:            day.Sex,
		AgeYears:       carry(day.AgeYears, models.KindAge),
		WeightKg:       carry(weight, models.KindWeight),
		HeightCm:       quantity(day.HeightCm, models.KindHeight),
		LeanBodyMassKg: quantity(day.LeanBodyMassKg, models.KindLeanBodyMass),
	}
	if in.Profile.Sex == nil {
		if v, ok := latest[models.KindSex]; ok {
			in.Profile.Sex = v.Sex
		}
	}

	if in.RestingSource == models.RestingFromMeasurement {
		in.RestingMeasuredKcal = e.fetchBiometric(ctx, models.KindRestingEnergy, day.Date)
	}
	if in.ActiveSource == models.ActiveFromMeasurement {
		in.ActiveMeasuredKcal = e.fetchBiometric(ctx, models.KindActiveEnergy, day.Date)
	}
	return in
}

// fetchBiometric maps provider failure to absence.
func (e *Engine) fetchBiometric(ctx context.Context, kind models.HealthKind, date models.Date) *float64 {
	v, err := e.measurements.FetchBiometric(ctx, kind, date)
	if err != nil {
		e.log.Warn("biometric fetch failed, treating as absent", "kind", kind, "date", date, "error", err)
		return nil
	}
	return v
}
