package mcp

import (
	"context"

	"github.com/meltforce/kcalm/internal/models"
	"github.com/meltforce/kcalm/internal/storage"
)

// DataSource abstracts the data layer for MCP tools.
type DataSource interface {
	FetchDayRecord(ctx context.Context, userID int, date models.Date) (*models.DayRecord, error)
	ListDayRecords(ctx context.Context, start, end models.Date) (map[models.Date]*models.DayRecord, error)
	FetchWeightSamples(ctx context.Context, start, end models.Date) (map[models.Date]float64, error)
	UpsertWeightSamples(ctx context.Context, userID int, entries []models.WeightEntry) (int64, error)
	UpsertEnergyTotals(ctx context.Context, userID int, table string, entries []models.EnergyEntry) (int64, error)
	EarliestDayDate(ctx context.Context) (models.Date, bool, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)
