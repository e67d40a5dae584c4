// Package maintenance resolves a person's daily maintenance energy from
// either observed energy balance (adaptive) or biometric equations
// (estimated). All resolution is explicit and pure: callers re-run the
// Resolve functions after any input change, nothing recomputes on write.
package maintenance

import "github.com/meltforce/kcalm/internal/models"

// KcalPerPoundBodyMass is the fixed physiological energy equivalence of one
// pound of body-mass change.
const KcalPerPoundBodyMass = 3500

// DefaultMinimumAdaptiveKcal is the sanity floor for adaptive results. An
// energy-balance figure below any plausible basal rate means the inputs are
// lying (a scale swap, a half-logged week) and the result is discarded.
const DefaultMinimumAdaptiveKcal = 1000

// EnergyEquivalentKcal converts a weight delta in kg into its caloric
// equivalent. Weight loss yields a negative value.
func EnergyEquivalentKcal(deltaKg float64) float64 {
	return KcalPerPoundBodyMass * deltaKg / models.KgPerPound
}
