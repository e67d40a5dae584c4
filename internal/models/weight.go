package models

// WeightSource says where a day's representative weight came from.
type WeightSource string

const (
	WeightSourceDailyAverage  WeightSource = "healthkit_daily_average"
	WeightSourceManualEntry   WeightSource = "manual_entry"
	WeightSourceMovingAverage WeightSource = "moving_average"
)

// MovingAverageData is owned exclusively by the moving-average variant of
// WeightSample: the window and the sparse raw samples that fed the average,
// keyed by daysAgo (0 = reference date).
type MovingAverageData struct {
	Interval Interval              `json:"interval"`
	Points   map[int]DatedQuantity `json:"points,omitempty"`
}

// WeightSample is the weight attributed to one reference date, in kilograms.
// Value is nil iff no underlying sample contributed. MovingAverage is non-nil
// iff Source == WeightSourceMovingAverage.
type WeightSample struct {
	Source        WeightSource       `json:"source"`
	Value         *float64           `json:"value,omitempty"`
	MovingAverage *MovingAverageData `json:"moving_average,omitempty"`
}

// DirectWeightSample builds a single-day sample from an optional quantity.
func DirectWeightSample(source WeightSource, q *DatedQuantity) WeightSample {
	s := WeightSample{Source: source}
	if q != nil {
		v := q.Value
		s.Value = &v
	}
	return s
}

// MovingAverageWeightSample builds a sample averaging the populated points of
// a lookback window. Value stays nil when no point is populated.
func MovingAverageWeightSample(interval Interval, points map[int]DatedQuantity) WeightSample {
	s := WeightSample{
		Source:        WeightSourceMovingAverage,
		MovingAverage: &MovingAverageData{Interval: interval, Points: points},
	}
	if len(points) == 0 {
		return s
	}
	// Walk daysAgo in order so repeated resolution over identical inputs
	// reproduces bit-identical averages.
	var sum float64
	for daysAgo := 0; daysAgo < interval.NumberOfDays(); daysAgo++ {
		if q, ok := points[daysAgo]; ok {
			sum += q.Value
		}
	}
	mean := sum / float64(len(points))
	s.Value = &mean
	return s
}

// WeightChangeMode says whether the delta is derived from two samples or was
// entered directly by the user.
type WeightChangeMode string

const (
	WeightChangeUsingWeights WeightChangeMode = "using_weights"
	WeightChangeUserEntered  WeightChangeMode = "user_entered"
)

// WeightChange is the weight delta between the current and previous period,
// in kilograms. Delta is derived, never authoritative: Recompute must be
// called after Current or Previous change.
type WeightChange struct {
	Mode     WeightChangeMode `json:"mode"`
	Current  WeightSample     `json:"current"`
	Previous WeightSample     `json:"previous"`
	Delta    *float64         `json:"delta,omitempty"`
}

// Recompute re-derives Delta from Current and Previous. A user-entered delta
// is left untouched. Delta is nil unless both sample values are present.
func (c *WeightChange) Recompute() {
	if c.Mode == WeightChangeUserEntered {
		return
	}
	if c.Current.Value == nil || c.Previous.Value == nil {
		c.Delta = nil
		return
	}
	delta := *c.Current.Value - *c.Previous.Value
	c.Delta = &delta
}
