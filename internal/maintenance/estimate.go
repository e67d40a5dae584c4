package maintenance

import "github.com/meltforce/kcalm/internal/models"

// Equation selects the resting-energy formula.
type Equation string

const (
	EquationMifflinStJeor  Equation = "mifflin_st_jeor"
	EquationHarrisBenedict Equation = "harris_benedict"
	EquationKatchMcArdle   Equation = "katch_mcardle"
	EquationCunningham     Equation = "cunningham"
)

// ActivityLevel scales resting energy into total daily energy.
type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very_active"
)

// activityMultipliers maps activity levels to their TDEE multiplier. Single
// source of truth — also used for config validation.
var activityMultipliers = map[ActivityLevel]float64{
	ActivitySedentary:  1.2,
	ActivityLight:      1.375,
	ActivityModerate:   1.55,
	ActivityActive:     1.725,
	ActivityVeryActive: 1.9,
}

// ValidActivityLevel reports whether the level has a known multiplier.
func ValidActivityLevel(level ActivityLevel) bool {
	_, ok := activityMultipliers[level]
	return ok
}

// ValidEquation reports whether the equation is known.
func ValidEquation(eq Equation) bool {
	switch eq {
	case EquationMifflinStJeor, EquationHarrisBenedict, EquationKatchMcArdle, EquationCunningham:
		return true
	}
	return false
}

// Profile carries the biometric parameters the equations draw from. Any
// field may be nil; an equation missing a required parameter yields nil, no
// partial or extrapolated results.
type Profile struct {
	Sex            *models.Sex
	AgeYears       *float64
	WeightKg       *float64
	HeightCm       *float64
	LeanBodyMassKg *float64
}

// RestingEnergyKcal computes resting energy from the profile via the chosen
// equation, or nil when a required parameter is absent.
func RestingEnergyKcal(eq Equation, p Profile) *float64 {
	switch eq {
	case EquationMifflinStJeor:
		if p.Sex == nil || p.AgeYears == nil || p.WeightKg == nil || p.HeightCm == nil {
			return nil
		}
		kcal := 10**p.WeightKg + 6.25**p.HeightCm - 5**p.AgeYears
		if *p.Sex == models.SexMale {
			kcal += 5
		} else {
			kcal -= 161
		}
		return &kcal

	case EquationHarrisBenedict:
		if p.Sex == nil || p.AgeYears == nil || p.WeightKg == nil || p.HeightCm == nil {
			return nil
		}
		var kcal float64
		if *p.Sex == models.SexMale {
			kcal = 88.362 + 13.397**p.WeightKg + 4.799**p.HeightCm - 5.677**p.AgeYears
		} else {
			kcal = 447.593 + 9.247**p.WeightKg + 3.098**p.HeightCm - 4.330**p.AgeYears
		}
		return &kcal

	case EquationKatchMcArdle:
		if p.LeanBodyMassKg == nil {
			return nil
		}
		kcal := 370 + 21.6**p.LeanBodyMassKg
		return &kcal

	case EquationCunningham:
		if p.LeanBodyMassKg == nil {
			return nil
		}
		kcal := 500 + 22**p.LeanBodyMassKg
		return &kcal
	}
	return nil
}

// ActiveEnergyKcal derives active energy by applying the activity-level
// multiplier to resting energy. Nil when either input is unavailable.
func ActiveEnergyKcal(level ActivityLevel, restingKcal *float64) *float64 {
	mult, ok := activityMultipliers[level]
	if !ok || restingKcal == nil {
		return nil
	}
	kcal := *restingKcal * (mult - 1)
	return &kcal
}

// EstimateInput gathers everything the estimated calculator may consume.
// Measured values come from the external measurement provider; entered
// values from the user.
type EstimateInput struct {
	RestingSource models.RestingEnergySource
	ActiveSource  models.ActiveEnergySource

	Equation      Equation
	ActivityLevel ActivityLevel
	Profile       Profile

	RestingMeasuredKcal *float64
	RestingEnteredKcal  *float64
	ActiveMeasuredKcal  *float64
	ActiveEnteredKcal   *float64
}

// ResolveEstimate computes the estimated maintenance from its configured
// sources. Kcal is resting + active iff both components resolve.
func ResolveEstimate(in EstimateInput) models.EstimatedMaintenance {
	est := models.EstimatedMaintenance{
		RestingSource: in.RestingSource,
		ActiveSource:  in.ActiveSource,
	}

	switch in.RestingSource {
	case models.RestingFromMeasurement:
		est.RestingKcal = in.RestingMeasuredKcal
	case models.RestingFromUserEntry:
		est.RestingKcal = in.RestingEnteredKcal
	default:
		est.RestingKcal = RestingEnergyKcal(in.Equation, in.Profile)
	}

	switch in.ActiveSource {
	case models.ActiveFromMeasurement:
		est.ActiveKcal = in.ActiveMeasuredKcal
	case models.ActiveFromUserEntry:
		est.ActiveKcal = in.ActiveEnteredKcal
	default:
		est.ActiveKcal = ActiveEnergyKcal(in.ActivityLevel, est.RestingKcal)
	}

	if est.RestingKcal != nil && est.ActiveKcal != nil {
		kcal := *est.RestingKcal + *est.ActiveKcal
		est.Kcal = &kcal
	}
	return est
}
