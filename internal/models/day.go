package models

// Sex is the biological sex used by the resting-energy equations.
type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

// HealthKind identifies a tracked health attribute on a day record.
type HealthKind string

const (
	KindWeight        HealthKind = "weight"
	KindHeight        HealthKind = "height"
	KindLeanBodyMass  HealthKind = "lean_body_mass"
	KindFatPercent    HealthKind = "fat_percent"
	KindSex           HealthKind = "sex"
	KindAge           HealthKind = "age"
	KindRestingEnergy HealthKind = "resting_energy"
	KindActiveEnergy  HealthKind = "active_energy"
	KindGoalWeight    HealthKind = "goal_weight"
)

// TrackedKinds are the attributes the replacement resolver carries forward
// across days.
var TrackedKinds = []HealthKind{
	KindWeight, KindHeight, KindLeanBodyMass, KindFatPercent, KindSex, KindAge,
}

// KnownValue is an attribute value tagged with the date it was observed on.
// Quantity covers numeric kinds; Sex is set only for KindSex.
type KnownValue struct {
	Date     Date     `json:"date"`
	Quantity *float64 `json:"quantity,omitempty"`
	Sex      *Sex     `json:"sex,omitempty"`
}

// Replacements maps each attribute kind that is unset on a day to the most
// recent earlier day's value. Advisory only: it never overwrites the day's
// actual fields, and it is rebuilt on every recalculation pass.
type Replacements map[HealthKind]KnownValue

// DayRecord is one calendar date's full health snapshot. Created lazily when
// first referenced, keyed uniquely by Date, mutated by the recalculation
// engine or by direct user edits.
type DayRecord struct {
	Date           Date           `json:"date"`
	Weight         *WeightSample  `json:"weight,omitempty"`
	HeightCm       *DatedQuantity `json:"height_cm,omitempty"`
	LeanBodyMassKg *DatedQuantity `json:"lean_body_mass_kg,omitempty"`
	FatPercent     *DatedQuantity `json:"fat_percent,omitempty"`
	Sex            *Sex           `json:"sex,omitempty"`
	AgeYears       *float64       `json:"age_years,omitempty"`
	Maintenance    *Maintenance   `json:"maintenance,omitempty"`
	Replacements   Replacements   `json:"replacements,omitempty"`
}

// NewDayRecord returns an empty record for a date.
func NewDayRecord(date Date) *DayRecord {
	return &DayRecord{Date: date}
}

// KnownValues returns the attributes actually set on this day, each tagged
// with this day's date. Weight counts only when the sample carries a value.
func (d *DayRecord) KnownValues() map[HealthKind]KnownValue {
	known := make(map[HealthKind]KnownValue)
	set := func(kind HealthKind, v float64) {
		val := v
		known[kind] = KnownValue{Date: d.Date, Quantity: &val}
	}
	if d.Weight != nil && d.Weight.Value != nil {
		set(KindWeight, *d.Weight.Value)
	}
	if d.HeightCm != nil {
		set(KindHeight, d.HeightCm.Value)
	}
	if d.LeanBodyMassKg != nil {
		set(KindLeanBodyMass, d.LeanBodyMassKg.Value)
	}
	if d.FatPercent != nil {
		set(KindFatPercent, d.FatPercent.Value)
	}
	if d.AgeYears != nil {
		set(KindAge, *d.AgeYears)
	}
	if d.Sex != nil {
		sex := *d.Sex
		known[KindSex] = KnownValue{Date: d.Date, Sex: &sex}
	}
	return known
}

// Has reports whether the attribute is set on this day.
func (d *DayRecord) Has(kind HealthKind) bool {
	_, ok := d.KnownValues()[kind]
	return ok
}

// ScanForLatest walks day records ordered most recent first and returns the
// first occurrence of each requested kind. Scanning stops per-kind as soon as
// a value is found; different kinds may resolve to different source dates.
func ScanForLatest(days []*DayRecord, kinds []HealthKind) map[HealthKind]KnownValue {
	found := make(map[HealthKind]KnownValue)
	for _, day := range days {
		known := day.KnownValues()
		for _, kind := range kinds {
			if _, done := found[kind]; done {
				continue
			}
			if v, ok := known[kind]; ok {
				found[kind] = v
			}
		}
		if len(found) == len(kinds) {
			break
		}
	}
	return found
}
