package models

// Conversion factors for display units. Storage is always kg and kcal.
const (
	KgPerPound = 0.453592
	KJPerKcal  = 4.184
)

// WeightUnit is a display unit for body weight.
type WeightUnit string

const (
	WeightKg WeightUnit = "kg"
	WeightLb WeightUnit = "lb"
)

// EnergyUnit is a display unit for dietary energy.
type EnergyUnit string

const (
	EnergyKcal EnergyUnit = "kcal"
	EnergyKJ   EnergyUnit = "kj"
)

// FromKg converts a stored kg value into the display unit.
func (u WeightUnit) FromKg(kg float64) float64 {
	if u == WeightLb {
		return kg / KgPerPound
	}
	return kg
}

// ToKg converts a display-unit value into stored kg.
func (u WeightUnit) ToKg(v float64) float64 {
	if u == WeightLb {
		return v * KgPerPound
	}
	return v
}

// FromKcal converts a stored kcal value into the display unit.
func (u EnergyUnit) FromKcal(kcal float64) float64 {
	if u == EnergyKJ {
		return kcal * KJPerKcal
	}
	return kcal
}
