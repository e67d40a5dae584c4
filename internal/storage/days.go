package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/meltforce/kcalm/internal/models"
)

// FetchDayRecord returns the stored record for a date, or nil when absent.
func (db *DB) FetchDayRecord(ctx context.Context, userID int, date models.Date) (*models.DayRecord, error) {
	var raw []byte
	err := db.Pool.QueryRow(ctx,
		`SELECT record FROM day_records WHERE user_id = $1 AND date = $2`,
		userID, date.Time).Scan(&raw)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying day record %s: %w", date, err)
	}
	return decodeDayRecord(raw)
}

// SaveDayRecord upserts one record as its JSON encoding. Writing the same
// derived state twice is observably a no-op.
func (db *DB) SaveDayRecord(ctx context.Context, day *models.DayRecord) error {
	raw, err := json.Marshal(day)
	if err != nil {
		return fmt.Errorf("encoding day record %s: %w", day.Date, err)
	}
	_, err = db.Pool.Exec(ctx,
		`INSERT INTO day_records (user_id, date, record, updated_at) VALUES ($1, $2, $3, now())
		 ON CONFLICT (user_id, date) DO UPDATE SET record = EXCLUDED.record, updated_at = now()`,
		DefaultUserID, day.Date.Time, raw)
	if err != nil {
		return fmt.Errorf("saving day record %s: %w", day.Date, err)
	}
	return nil
}

// ListDayRecords returns the stored records with dates in [start, end],
// keyed by date. Implements recalc.DayStore.
func (db *DB) ListDayRecords(ctx context.Context, start, end models.Date) (map[models.Date]*models.DayRecord, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT record FROM day_records
		 WHERE user_id = $1 AND date >= $2 AND date <= $3
		 ORDER BY date ASC`,
		DefaultUserID, start.Time, end.Time)
	if err != nil {
		return nil, fmt.Errorf("listing day records: %w", err)
	}
	defer rows.Close()

	records := make(map[models.Date]*models.DayRecord)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scanning day record: %w", err)
		}
		day, err := decodeDayRecord(raw)
		if err != nil {
			return nil, err
		}
		records[day.Date] = day
	}
	return records, rows.Err()
}

// EarliestDayDate returns the first date with any stored data (day record or
// raw sample), or ok=false on an empty log.
func (db *DB) EarliestDayDate(ctx context.Context) (models.Date, bool, error) {
	var earliest *time.Time
	err := db.Pool.QueryRow(ctx,
		`SELECT LEAST(
			(SELECT MIN(date) FROM day_records WHERE user_id = $1),
			(SELECT MIN(date) FROM weight_samples WHERE user_id = $1),
			(SELECT MIN(date) FROM dietary_energy WHERE user_id = $1),
			(SELECT MIN(date) FROM food_log WHERE user_id = $1)
		)`, DefaultUserID).Scan(&earliest)
	if err != nil {
		return models.Date{}, false, fmt.Errorf("querying earliest date: %w", err)
	}
	if earliest == nil {
		return models.Date{}, false, nil
	}
	return models.DateOf(*earliest), true, nil
}

// LatestKnownBefore returns, for each tracked attribute, its most recent
// value on any record strictly before the date. One descending scan, cut off
// as soon as every kind is found. Implements recalc.DayStore.
func (db *DB) LatestKnownBefore(ctx context.Context, date models.Date) (map[models.HealthKind]models.KnownValue, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT record FROM day_records
		 WHERE user_id = $1 AND date < $2
		 ORDER BY date DESC`,
		DefaultUserID, date.Time)
	if err != nil {
		return nil, fmt.Errorf("querying prior day records: %w", err)
	}
	defer rows.Close()

	found := make(map[models.HealthKind]models.KnownValue)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scanning prior day record: %w", err)
		}
		day, err := decodeDayRecord(raw)
		if err != nil {
			return nil, err
		}
		for kind, v := range day.KnownValues() {
			if _, done := found[kind]; !done {
				found[kind] = v
			}
		}
		if len(found) == len(models.TrackedKinds) {
			break
		}
	}
	return found, rows.Err()
}

func decodeDayRecord(raw []byte) (*models.DayRecord, error) {
	var day models.DayRecord
	if err := json.Unmarshal(raw, &day); err != nil {
		return nil, fmt.Errorf("decoding day record: %w", err)
	}
	return &day, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
