package resolve

import (
	"context"
	"log/slog"

	"github.com/meltforce/kcalm/internal/models"
)

// WeightOn produces the representative weight sample for a date. With a nil
// interval it is the single daily value; with an interval it is a moving
// average over the populated days of the window ending on date. Pure apart
// from the fetch: callers persist the result.
//
// A provider failure is absence, not an error: the sample comes back empty
// and the condition is logged.
func WeightOn(ctx context.Context, m Measurements, date models.Date, interval *models.Interval, log *slog.Logger) models.WeightSample {
	if interval == nil {
		samples, err := m.FetchWeightSamples(ctx, date, date)
		if err != nil {
			log.Warn("weight fetch failed, treating as absent", "date", date, "error", err)
			return models.DirectWeightSample(models.WeightSourceDailyAverage, nil)
		}
		if kg, ok := samples[date]; ok {
			return models.DirectWeightSample(models.WeightSourceDailyAverage, &models.DatedQuantity{Value: kg, Date: &date})
		}
		return models.DirectWeightSample(models.WeightSourceDailyAverage, nil)
	}

	start := interval.StartDate(date)
	samples, err := m.FetchWeightSamples(ctx, start, date)
	if err != nil {
		log.Warn("weight window fetch failed, treating as absent",
			"date", date, "interval", interval.String(), "error", err)
		return models.MovingAverageWeightSample(*interval, nil)
	}

	points := make(map[int]models.DatedQuantity)
	for daysAgo := 0; daysAgo < interval.NumberOfDays(); daysAgo++ {
		d := date.AddDays(-daysAgo)
		if kg, ok := samples[d]; ok {
			sampleDate := d
			points[daysAgo] = models.DatedQuantity{Value: kg, Date: &sampleDate}
		}
	}
	return models.MovingAverageWeightSample(*interval, points)
}
