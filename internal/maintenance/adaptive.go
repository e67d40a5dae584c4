package maintenance

import "github.com/meltforce/kcalm/internal/models"

// ResolveAdaptive re-derives the adaptive kcal figure from the weight change
// and dietary series already attached to a. It sets Kcal and Reason and
// returns the updated value; a itself is not mutated.
//
// Formula: the intake that would have kept weight flat over the interval is
// total intake minus the caloric equivalent of the observed weight delta,
// spread back over the interval's days.
func ResolveAdaptive(a models.AdaptiveMaintenance, minKcal float64) models.AdaptiveMaintenance {
	a.Kcal = nil
	a.Reason = nil

	delta := a.WeightChange.Delta
	avg := a.DietaryEnergy.Average()

	switch {
	case delta == nil && avg == nil:
		a.Reason = reasonPtr(models.ReasonInsufficientData)
		return a
	case delta == nil:
		a.Reason = reasonPtr(models.ReasonInsufficientWeightData)
		return a
	case avg == nil:
		a.Reason = reasonPtr(models.ReasonInsufficientNutritionData)
		return a
	}

	days := float64(a.Interval.NumberOfDays())
	if days <= 0 {
		a.Reason = reasonPtr(models.ReasonInsufficientData)
		return a
	}

	totalKcal := *avg * days
	equivalent := EnergyEquivalentKcal(*delta)
	kcal := (totalKcal - equivalent) / days

	if kcal < minKcal {
		a.Reason = reasonPtr(models.ReasonBelowPlausibilityFloor)
		return a
	}

	a.Kcal = &kcal
	return a
}

func reasonPtr(r models.Reason) *models.Reason { return &r }
