package models

import (
	"math"
	"testing"
	"time"
)

func floatPtr(f float64) *float64 { return &f }

func TestMovingAverageWeightSample(t *testing.T) {
	interval := Interval{Value: 1, Unit: UnitWeek}
	d := NewDate(2026, time.August, 30)
	points := map[int]DatedQuantity{
		0: {Value: 92.0, Date: &d},
		3: {Value: 93.0},
		6: {Value: 94.0},
	}

	s := MovingAverageWeightSample(interval, points)
	if s.Source != WeightSourceMovingAverage {
		t.Errorf("source = %q", s.Source)
	}
	if s.MovingAverage == nil {
		t.Fatal("moving average data missing")
	}
	if s.Value == nil || math.Abs(*s.Value-93.0) > 1e-9 {
		t.Errorf("value = %v, want 93.0", s.Value)
	}
}

// TestMovingAverageEmpty verifies the invariant: value is nil iff no sample
// contributed.
func TestMovingAverageEmpty(t *testing.T) {
	s := MovingAverageWeightSample(Interval{Value: 1, Unit: UnitWeek}, nil)
	if s.Value != nil {
		t.Errorf("value = %v, want nil for empty window", *s.Value)
	}
}

func TestDirectWeightSample(t *testing.T) {
	s := DirectWeightSample(WeightSourceManualEntry, &DatedQuantity{Value: 81.2})
	if s.Value == nil || *s.Value != 81.2 {
		t.Errorf("value = %v, want 81.2", s.Value)
	}
	empty := DirectWeightSample(WeightSourceDailyAverage, nil)
	if empty.Value != nil {
		t.Error("expected nil value for absent quantity")
	}
}

// TestWeightChangeDelta verifies the delta sign convention: losing weight
// yields a negative delta.
func TestWeightChangeDelta(t *testing.T) {
	c := WeightChange{
		Mode:     WeightChangeUsingWeights,
		Current:  WeightSample{Source: WeightSourceMovingAverage, Value: floatPtr(92.0)},
		Previous: WeightSample{Source: WeightSourceMovingAverage, Value: floatPtr(95.0)},
	}
	c.Recompute()
	if c.Delta == nil || math.Abs(*c.Delta-(-3.0)) > 1e-9 {
		t.Errorf("delta = %v, want -3.0", c.Delta)
	}
}

func TestWeightChangeMissingSample(t *testing.T) {
	c := WeightChange{
		Mode:    WeightChangeUsingWeights,
		Current: WeightSample{Value: floatPtr(92.0)},
		Delta:   floatPtr(1.0), // stale derived value from a prior state
	}
	c.Recompute()
	if c.Delta != nil {
		t.Errorf("delta = %v, want nil when previous sample absent", *c.Delta)
	}
}

func TestWeightChangeUserEnteredPreserved(t *testing.T) {
	c := WeightChange{Mode: WeightChangeUserEntered, Delta: floatPtr(-1.5)}
	c.Recompute()
	if c.Delta == nil || *c.Delta != -1.5 {
		t.Errorf("delta = %v, want user-entered -1.5 preserved", c.Delta)
	}
}
