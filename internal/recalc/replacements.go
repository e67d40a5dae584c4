package recalc

import "github.com/meltforce/kcalm/internal/models"

// ReplacementsFor builds the advisory replacements for a day from the
// running latest-known map: every tracked attribute unset on the day but
// present in the map resolves to the map's value. The day itself is not
// touched; an attribute with no prior value simply has no replacement.
func ReplacementsFor(day *models.DayRecord, latest map[models.HealthKind]models.KnownValue) models.Replacements {
	known := day.KnownValues()
	var repl models.Replacements
	for _, kind := range models.TrackedKinds {
		if _, set := known[kind]; set {
			continue
		}
		if v, ok := latest[kind]; ok {
			if repl == nil {
				repl = make(models.Replacements)
			}
			repl[kind] = v
		}
	}
	return repl
}

// UpdateLatestKnown folds a processed day's set attributes into the running
// map. Called once per day, after that day's derivation, so later days see
// it without re-scanning.
func UpdateLatestKnown(latest map[models.HealthKind]models.KnownValue, day *models.DayRecord) {
	for kind, v := range day.KnownValues() {
		latest[kind] = v
	}
}

// ReplacementsByBackwardScan resolves a single day's replacements directly
// against prior days ordered most recent first. This is the standalone form
// of the resolver for callers outside a recalculation pass; inside a pass
// the forward-threaded map serves instead.
func ReplacementsByBackwardScan(day *models.DayRecord, prior []*models.DayRecord) models.Replacements {
	known := day.KnownValues()
	var missing []models.HealthKind
	for _, kind := range models.TrackedKinds {
		if _, set := known[kind]; !set {
			missing = append(missing, kind)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	found := models.ScanForLatest(prior, missing)
	if len(found) == 0 {
		return nil
	}
	return models.Replacements(found)
}
