package models

// DietarySlotType says where one day's energy-intake value came from.
type DietarySlotType string

const (
	DietarySlotLogged         DietarySlotType = "logged"
	DietarySlotHealthKitTotal DietarySlotType = "healthkit_total"
	DietarySlotAverage        DietarySlotType = "average"
	DietarySlotUserEntered    DietarySlotType = "user_entered"
)

// DietaryEnergySlot is one day's dietary energy intake in kcal. Kcal is nil
// when nothing was observed for that day.
type DietaryEnergySlot struct {
	Type DietarySlotType `json:"type"`
	Kcal *float64        `json:"kcal,omitempty"`
}

// DietaryEnergySeries is a fixed-size window of daily energy intake ending on
// a reference date. Slots are keyed by daysAgo: 0 = reference date, up to
// NumberOfDays-1. After Fill, every index holds a slot; unobserved days carry
// the average of the observed ones.
type DietaryEnergySeries struct {
	NumberOfDays int                       `json:"number_of_days"`
	Slots        map[int]DietaryEnergySlot `json:"slots"`
}

// DefaultDietaryDays is the default window length for the intake series.
const DefaultDietaryDays = 7

// NewDietaryEnergySeries returns an empty series of n slots.
func NewDietaryEnergySeries(n int) DietaryEnergySeries {
	if n < 1 {
		n = DefaultDietaryDays
	}
	return DietaryEnergySeries{
		NumberOfDays: n,
		Slots:        make(map[int]DietaryEnergySlot, n),
	}
}

// observedMean is the arithmetic mean over slots that carry a directly
// observed value (every type except average). ok is false when no such slot
// has a value.
// Summation walks indices in order so repeated fills over identical inputs
// reproduce bit-identical results.
func (s DietaryEnergySeries) observedMean() (float64, bool) {
	var sum float64
	var count int
	for i := 0; i < s.NumberOfDays; i++ {
		slot, ok := s.Slots[i]
		if !ok || slot.Type == DietarySlotAverage || slot.Kcal == nil {
			continue
		}
		sum += *slot.Kcal
		count++
	}
	if count == 0 {
		return 0, false
	}
	return sum / float64(count), true
}

// Fill applies the fill rule: every index without a directly observed value
// becomes an average slot holding the mean of the observed slots. Existing
// average slots are recomputed from the current observed values, so refining
// inputs deterministically refines the fill. No-op when nothing is observed.
func (s *DietaryEnergySeries) Fill() {
	mean, ok := s.observedMean()
	if !ok {
		return
	}
	for i := 0; i < s.NumberOfDays; i++ {
		slot, present := s.Slots[i]
		if !present || slot.Kcal == nil || slot.Type == DietarySlotAverage {
			v := mean
			s.Slots[i] = DietaryEnergySlot{Type: DietarySlotAverage, Kcal: &v}
		}
	}
}

// Average is the mean daily intake of the filled series, nil when the series
// holds no values at all.
func (s DietaryEnergySeries) Average() *float64 {
	var sum float64
	var count int
	for i := 0; i < s.NumberOfDays; i++ {
		slot, ok := s.Slots[i]
		if !ok || slot.Kcal == nil {
			continue
		}
		sum += *slot.Kcal
		count++
	}
	if count == 0 {
		return nil
	}
	mean := sum / float64(count)
	return &mean
}
