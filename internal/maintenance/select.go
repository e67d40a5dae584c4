package maintenance

import "github.com/meltforce/kcalm/internal/models"

// Recompute applies the selection rule and returns the maintenance with its
// Kcal re-derived. Estimated mode always takes the estimate; adaptive mode
// takes the adaptive value when present, falling back to the estimate only
// when the fallback flag is set. Callers invoke this after any change to
// mode, flag, or either component — the result is never cached apart from
// its inputs.
func Recompute(m models.Maintenance) models.Maintenance {
	switch {
	case m.Mode == models.MaintenanceEstimated:
		m.Kcal = m.Estimate.Kcal
	case m.Adaptive.Kcal != nil:
		m.Kcal = m.Adaptive.Kcal
	case m.UseEstimateAsFallback:
		m.Kcal = m.Estimate.Kcal
	default:
		m.Kcal = nil
	}
	return m
}
