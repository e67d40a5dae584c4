package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/meltforce/kcalm/internal/models"
)

// DefaultUserID scopes all rows until multi-user support lands.
const DefaultUserID = 1

// UpsertWeightSamples batch-upserts daily representative weights. The write
// is idempotent: re-sending the same values is a no-op.
func (db *DB) UpsertWeightSamples(ctx context.Context, userID int, entries []models.WeightEntry) (int64, error) {
	if len(entries) == 0 {
		return 0, nil
	}

	query := `INSERT INTO weight_samples (user_id, date, kg, source) VALUES `
	args := make([]any, 0, len(entries)*4)
	values := make([]string, 0, len(entries))
	for i, e := range entries {
		base := i * 4
		values = append(values, fmt.Sprintf("($%d,$%d,$%d,$%d)", base+1, base+2, base+3, base+4))
		source := e.Source
		if source == "" {
			source = models.WeightSourceDailyAverage
		}
		args = append(args, userID, e.Date.Time, e.Kg, string(source))
	}
	query += strings.Join(values, ",") +
		` ON CONFLICT (user_id, date) DO UPDATE SET kg = EXCLUDED.kg, source = EXCLUDED.source`

	tag, err := db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("upserting weight samples: %w", err)
	}
	return tag.RowsAffected(), nil
}

// UpsertEnergyTotals batch-upserts daily kcal totals into the named table
// (dietary_energy for measured totals, food_log for logged intake).
func (db *DB) UpsertEnergyTotals(ctx context.Context, userID int, table string, entries []models.EnergyEntry) (int64, error) {
	if len(entries) == 0 {
		return 0, nil
	}
	if table != "dietary_energy" && table != "food_log" {
		return 0, fmt.Errorf("unknown energy table %q", table)
	}

	query := `INSERT INTO ` + table + ` (user_id, date, kcal) VALUES `
	args := make([]any, 0, len(entries)*3)
	values := make([]string, 0, len(entries))
	for i, e := range entries {
		base := i * 3
		values = append(values, fmt.Sprintf("($%d,$%d,$%d)", base+1, base+2, base+3))
		args = append(args, userID, e.Date.Time, e.Kcal)
	}
	query += strings.Join(values, ",") +
		` ON CONFLICT (user_id, date) DO UPDATE SET kcal = EXCLUDED.kcal`

	tag, err := db.Pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("upserting %s: %w", table, err)
	}
	return tag.RowsAffected(), nil
}

// UpsertBiometric stores one numeric biometric sample (resting/active energy,
// goal weight) for a date.
func (db *DB) UpsertBiometric(ctx context.Context, userID int, date models.Date, kind models.HealthKind, value float64) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO biometrics (user_id, date, kind, value) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id, date, kind) DO UPDATE SET value = EXCLUDED.value`,
		userID, date.Time, string(kind), value)
	if err != nil {
		return fmt.Errorf("upserting biometric %s: %w", kind, err)
	}
	return nil
}

// FetchWeightSamples returns the daily representative weight for each date in
// [start, end] that has one. Implements resolve.Measurements.
func (db *DB) FetchWeightSamples(ctx context.Context, start, end models.Date) (map[models.Date]float64, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT date, kg FROM weight_samples
		 WHERE user_id = $1 AND date >= $2 AND date <= $3`,
		DefaultUserID, start.Time, end.Time)
	if err != nil {
		return nil, fmt.Errorf("querying weight samples: %w", err)
	}
	defer rows.Close()
	return scanDateValues(rows)
}

// FetchDietaryEnergyTotals returns measured intake totals for the requested
// dates. Implements resolve.Measurements.
func (db *DB) FetchDietaryEnergyTotals(ctx context.Context, dates []models.Date) (map[models.Date]float64, error) {
	return db.fetchEnergyFor(ctx, "dietary_energy", dates)
}

// FetchLoggedEnergy returns user-logged intake for the requested dates.
// Implements resolve.Measurements.
func (db *DB) FetchLoggedEnergy(ctx context.Context, dates []models.Date) (map[models.Date]float64, error) {
	return db.fetchEnergyFor(ctx, "food_log", dates)
}

func (db *DB) fetchEnergyFor(ctx context.Context, table string, dates []models.Date) (map[models.Date]float64, error) {
	if len(dates) == 0 {
		return nil, nil
	}
	days := make([]any, 0, len(dates))
	holes := make([]string, 0, len(dates))
	for i, d := range dates {
		holes = append(holes, fmt.Sprintf("$%d", i+2))
		days = append(days, d.Time)
	}
	query := `SELECT date, kcal FROM ` + table +
		` WHERE user_id = $1 AND date IN (` + strings.Join(holes, ",") + `)`

	rows, err := db.Pool.Query(ctx, query, append([]any{DefaultUserID}, days...)...)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", table, err)
	}
	defer rows.Close()
	return scanDateValues(rows)
}

func scanDateValues(rows pgx.Rows) (map[models.Date]float64, error) {
	out := make(map[models.Date]float64)
	for rows.Next() {
		var (
			d time.Time
			v float64
		)
		if err := rows.Scan(&d, &v); err != nil {
			return nil, fmt.Errorf("scanning dated value: %w", err)
		}
		out[models.DateOf(d)] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading dated values: %w", err)
	}
	return out, nil
}

// FetchBiometric returns the value of a numeric biometric kind on a date, or
// nil when unset. Implements resolve.Measurements.
func (db *DB) FetchBiometric(ctx context.Context, kind models.HealthKind, date models.Date) (*float64, error) {
	var value float64
	err := db.Pool.QueryRow(ctx,
		`SELECT value FROM biometrics WHERE user_id = $1 AND date = $2 AND kind = $3`,
		DefaultUserID, date.Time, string(kind)).Scan(&value)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying biometric %s: %w", kind, err)
	}
	return &value, nil
}
