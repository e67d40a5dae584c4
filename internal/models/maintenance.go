package models

// MaintenanceMode selects how the daily maintenance figure is resolved.
type MaintenanceMode string

const (
	MaintenanceAdaptive  MaintenanceMode = "adaptive"
	MaintenanceEstimated MaintenanceMode = "estimated"
)

// Reason classifies why a maintenance value could not be resolved. These are
// conditions for display and diagnostics, not failures: resolution falls back
// per the selection rules and never aborts a day.
type Reason string

const (
	ReasonInsufficientWeightData    Reason = "insufficient_weight_data"
	ReasonInsufficientNutritionData Reason = "insufficient_nutrition_data"
	ReasonInsufficientData          Reason = "insufficient_data"
	ReasonBelowPlausibilityFloor    Reason = "below_plausibility_floor"
)

// Description returns the user-facing text for a reason.
func (r Reason) Description() string {
	switch r {
	case ReasonInsufficientWeightData:
		return "insufficient weight data"
	case ReasonInsufficientNutritionData:
		return "insufficient nutrition data"
	case ReasonInsufficientData:
		return "insufficient weight and nutrition data"
	case ReasonBelowPlausibilityFloor:
		return "calculated value below plausible minimum"
	default:
		return string(r)
	}
}

// AdaptiveMaintenance is the energy-balance estimate: weight change over an
// interval combined with average dietary intake. Kcal and Reason are derived;
// callers recompute them through the maintenance package after any input
// change.
type AdaptiveMaintenance struct {
	Interval      Interval            `json:"interval"`
	WeightChange  WeightChange        `json:"weight_change"`
	DietaryEnergy DietaryEnergySeries `json:"dietary_energy"`
	Kcal          *float64            `json:"kcal,omitempty"`
	Reason        *Reason             `json:"reason,omitempty"`
}

// RestingEnergySource says where the resting component of the estimate comes
// from.
type RestingEnergySource string

const (
	RestingFromEquation    RestingEnergySource = "equation"
	RestingFromMeasurement RestingEnergySource = "measured"
	RestingFromUserEntry   RestingEnergySource = "user_entered"
)

// ActiveEnergySource says where the active component of the estimate comes
// from.
type ActiveEnergySource string

const (
	ActiveFromMultiplier  ActiveEnergySource = "activity_multiplier"
	ActiveFromMeasurement ActiveEnergySource = "measured"
	ActiveFromUserEntry   ActiveEnergySource = "user_entered"
)

// EstimatedMaintenance is the equation-based estimate that does not depend on
// weight-change history. Kcal = resting + active iff both resolved.
type EstimatedMaintenance struct {
	RestingSource RestingEnergySource `json:"resting_source"`
	ActiveSource  ActiveEnergySource  `json:"active_source"`
	RestingKcal   *float64            `json:"resting_kcal,omitempty"`
	ActiveKcal    *float64            `json:"active_kcal,omitempty"`
	Kcal          *float64            `json:"kcal,omitempty"`
}

// Maintenance is a day's resolved maintenance energy. Kcal follows the
// configured mode, with optional fallback from adaptive to estimated. Reason
// explains an unresolved or floored adaptive value.
type Maintenance struct {
	Mode                  MaintenanceMode      `json:"mode"`
	Adaptive              AdaptiveMaintenance  `json:"adaptive"`
	Estimate              EstimatedMaintenance `json:"estimate"`
	UseEstimateAsFallback bool                 `json:"use_estimate_as_fallback"`
	Kcal                  *float64             `json:"kcal,omitempty"`
}
