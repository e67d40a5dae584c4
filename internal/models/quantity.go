package models

import "fmt"

// DatedQuantity is a scalar measurement with an optional observation date.
// A nil Date means the value was entered by hand without a timestamp.
type DatedQuantity struct {
	Value float64 `json:"value"`
	Date  *Date   `json:"date,omitempty"`
}

// IntervalUnit is the calendar unit of a lookback window.
type IntervalUnit string

const (
	UnitDay   IntervalUnit = "day"
	UnitWeek  IntervalUnit = "week"
	UnitMonth IntervalUnit = "month"
)

// Interval is a lookback window of N units ending on some reference date.
type Interval struct {
	Value int          `json:"value"`
	Unit  IntervalUnit `json:"unit"`
}

// Validate checks the interval invariants: value >= 1 and a known unit.
func (i Interval) Validate() error {
	if i.Value < 1 {
		return fmt.Errorf("interval value must be >= 1, got %d", i.Value)
	}
	switch i.Unit {
	case UnitDay, UnitWeek, UnitMonth:
		return nil
	default:
		return fmt.Errorf("unknown interval unit %q", i.Unit)
	}
}

// NumberOfDays returns the window length in days. Months count as 30 days;
// moving averages over calendar-exact months are not meaningful at day
// resolution.
func (i Interval) NumberOfDays() int {
	switch i.Unit {
	case UnitWeek:
		return i.Value * 7
	case UnitMonth:
		return i.Value * 30
	default:
		return i.Value
	}
}

// StartDate returns the first date of the window ending on endingOn.
func (i Interval) StartDate(endingOn Date) Date {
	return endingOn.AddDays(-i.NumberOfDays() + 1)
}

func (i Interval) String() string {
	unit := string(i.Unit)
	if i.Value != 1 {
		unit += "s"
	}
	return fmt.Sprintf("%d %s", i.Value, unit)
}
