package models

// IngestPayload is the top-level body for the sample ingest endpoint.
type IngestPayload struct {
	Data IngestData `json:"data"`
}

// IngestData carries batches of dated samples. Weights arrive as one daily
// representative per date (the exporter aggregates raw samples before
// sending). FoodLog entries are user-logged intake as opposed to measured
// DietaryEnergy totals.
type IngestData struct {
	Weight        []WeightEntry    `json:"weight,omitempty"`
	DietaryEnergy []EnergyEntry    `json:"dietary_energy,omitempty"`
	FoodLog       []EnergyEntry    `json:"food_log,omitempty"`
	Biometrics    []BiometricEntry `json:"biometrics,omitempty"`
}

// WeightEntry is one day's representative weight in kg.
type WeightEntry struct {
	Date   Date         `json:"date"`
	Kg     float64      `json:"kg"`
	Source WeightSource `json:"source,omitempty"`
}

// EnergyEntry is one day's energy total in kcal.
type EnergyEntry struct {
	Date Date    `json:"date"`
	Kcal float64 `json:"kcal"`
}

// BiometricEntry sets one biometric attribute on a date. Value covers numeric
// kinds; Sex is set only for KindSex.
type BiometricEntry struct {
	Date  Date       `json:"date"`
	Kind  HealthKind `json:"kind"`
	Value *float64   `json:"value,omitempty"`
	Sex   *Sex       `json:"sex,omitempty"`
}

// IngestResult summarizes one ingest batch.
type IngestResult struct {
	BatchID           string `json:"batch_id"`
	WeightUpserted    int64  `json:"weight_upserted"`
	DietaryUpserted   int64  `json:"dietary_upserted"`
	FoodLogUpserted   int64  `json:"food_log_upserted"`
	BiometricsApplied int    `json:"biometrics_applied"`
	RecalculatedFrom  *Date  `json:"recalculated_from,omitempty"`
	DaysDirty         int    `json:"days_dirty"`
	Message           string `json:"message,omitempty"`
}
