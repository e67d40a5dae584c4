// Package resolve turns raw dated samples from a measurement provider into
// the per-day representative values the maintenance engine consumes: a
// weight sample (direct or moving average) and a gap-filled dietary energy
// series.
package resolve

import (
	"context"

	"github.com/meltforce/kcalm/internal/models"
)

// Measurements is the external measurement provider. Implementations return
// only the dates they have data for; a missing date is absence, not an
// error. Callers treat a failed fetch as "no data for this source" — the
// resolvers log and continue rather than failing the day.
type Measurements interface {
	// FetchWeightSamples returns the daily-representative weight (kg) for
	// each date in [start, end] that has one.
	FetchWeightSamples(ctx context.Context, start, end models.Date) (map[models.Date]float64, error)

	// FetchDietaryEnergyTotals returns measured intake totals (kcal) for the
	// requested dates.
	FetchDietaryEnergyTotals(ctx context.Context, dates []models.Date) (map[models.Date]float64, error)

	// FetchLoggedEnergy returns user-logged intake (kcal) for the requested
	// dates.
	FetchLoggedEnergy(ctx context.Context, dates []models.Date) (map[models.Date]float64, error)

	// FetchBiometric returns the value of a numeric biometric kind on a
	// date, or nil when unset.
	FetchBiometric(ctx context.Context, kind models.HealthKind, date models.Date) (*float64, error)
}
