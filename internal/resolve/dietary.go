package resolve

import (
	"context"
	"log/slog"

	"github.com/meltforce/kcalm/internal/models"
)

// DietaryEnergyOn populates the n-slot intake series ending on date and
// applies the fill rule. Slot acquisition depends on the slot's current
// type: user-entered and average values are kept as stored, logged values
// are re-queried from the food log, and everything else (including slots
// never seen before) is re-queried from the measurement totals.
//
// prev is the day's previously stored series, used to preserve slot types
// and user-entered values across passes. Pass a zero series on first
// resolution.
func DietaryEnergyOn(ctx context.Context, m Measurements, date models.Date, prev models.DietaryEnergySeries, n int, log *slog.Logger) models.DietaryEnergySeries {
	series := models.NewDietaryEnergySeries(n)

	var loggedDates, measuredDates []models.Date
	for i := 0; i < series.NumberOfDays; i++ {
		d := date.AddDays(-i)
		switch slot, ok := prevSlot(prev, i); {
		case ok && slot.Type == models.DietarySlotUserEntered:
			series.Slots[i] = slot
		case ok && slot.Type == models.DietarySlotAverage:
			series.Slots[i] = slot
		case ok && slot.Type == models.DietarySlotLogged:
			loggedDates = append(loggedDates, d)
		default:
			measuredDates = append(measuredDates, d)
		}
	}

	logged := fetchEnergy(ctx, m.FetchLoggedEnergy, loggedDates, "food log", log)
	measured := fetchEnergy(ctx, m.FetchDietaryEnergyTotals, measuredDates, "dietary totals", log)

	for i := 0; i < series.NumberOfDays; i++ {
		if _, done := series.Slots[i]; done {
			continue
		}
		d := date.AddDays(-i)
		if kcal, ok := logged[d]; ok {
			v := kcal
			series.Slots[i] = models.DietaryEnergySlot{Type: models.DietarySlotLogged, Kcal: &v}
			continue
		}
		if kcal, ok := measured[d]; ok {
			v := kcal
			series.Slots[i] = models.DietaryEnergySlot{Type: models.DietarySlotHealthKitTotal, Kcal: &v}
		}
	}

	series.Fill()
	return series
}

func prevSlot(prev models.DietaryEnergySeries, i int) (models.DietaryEnergySlot, bool) {
	if prev.Slots == nil {
		return models.DietaryEnergySlot{}, false
	}
	slot, ok := prev.Slots[i]
	return slot, ok
}

// fetchEnergy wraps a per-source fetch, mapping failure to absence.
func fetchEnergy(ctx context.Context, fetch func(context.Context, []models.Date) (map[models.Date]float64, error), dates []models.Date, source string, log *slog.Logger) map[models.Date]float64 {
	if len(dates) == 0 {
		return nil
	}
	values, err := fetch(ctx, dates)
	if err != nil {
		log.Warn("energy fetch failed, treating as absent", "source", source, "error", err)
		return nil
	}
	return values
}
