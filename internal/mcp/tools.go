package mcp

import (
	"context"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/meltforce/kcalm/internal/models"
	"github.com/meltforce/kcalm/internal/storage"
)

// defaultDateRange returns start/end defaulting to the last n days ending
// today.
func defaultDateRange(startStr, endStr string, n int) (models.Date, models.Date, error) {
	var start, end models.Date
	var err error

	if endStr != "" {
		end, err = models.ParseDate(endStr)
		if err != nil {
			return models.Date{}, models.Date{}, err
		}
	} else {
		end = models.Today()
	}

	if startStr != "" {
		start, err = models.ParseDate(startStr)
		if err != nil {
			return models.Date{}, models.Date{}, err
		}
	} else {
		start = end.AddDays(-(n - 1))
	}

	return start, end, nil
}

// --- Tool definitions ---

var toolGetDay = mcp.NewTool("get_day",
	mcp.WithDescription("Retrieve one day's full record: weight sample, body attributes, dietary window, resolved maintenance, and carried-forward replacements."),
	mcp.WithString("date", mcp.Required(), mcp.Description("Day to fetch (YYYY-MM-DD)")),
)

var toolGetMaintenance = mcp.NewTool("get_maintenance",
	mcp.WithDescription("Get the resolved maintenance calories for a day, with the adaptive and estimated components and the reason when unresolved."),
	mcp.WithString("date", mcp.Required(), mcp.Description("Day to fetch (YYYY-MM-DD)")),
)

var toolGetWeightTrend = mcp.NewTool("get_weight_trend",
	mcp.WithDescription("Daily representative weights over a date range, with the net change from first to last sample."),
	mcp.WithString("start", mcp.Description("Start date (YYYY-MM-DD). Defaults to 30 days before end.")),
	mcp.WithString("end", mcp.Description("End date (YYYY-MM-DD). Defaults to today.")),
)

var toolLogDay = mcp.NewTool("log_day",
	mcp.WithDescription("Log a weight and/or food intake for a day, then recalculate every affected day. Weight is kg, intake is kcal."),
	mcp.WithString("date", mcp.Required(), mcp.Description("Day to log (YYYY-MM-DD)")),
	mcp.WithNumber("weight_kg", mcp.Description("Body weight in kg")),
	mcp.WithNumber("kcal", mcp.Description("Logged food intake in kcal")),
)

var toolRecalculate = mcp.NewTool("recalculate",
	mcp.WithDescription("Re-derive day records over a date range. Defaults to the whole history up to today."),
	mcp.WithString("start", mcp.Description("Start date (YYYY-MM-DD). Defaults to the earliest stored date.")),
	mcp.WithString("end", mcp.Description("End date (YYYY-MM-DD). Defaults to today.")),
)

// trendPoints builds the sorted trend series for dates in [start, end] that
// have a sample. TrendKg is the mean of samples in the window ending on each
// date.
func trendPoints(samples map[models.Date]float64, start, end models.Date, window int) []trendPoint {
	points := make([]trendPoint, 0, len(samples))
	for date, kg := range samples {
		if date.Before(start.Time) {
			continue
		}
		sum, n := 0.0, 0
		for back := 0; back < window; back++ {
			if v, ok := samples[date.AddDays(-back)]; ok {
				sum += v
				n++
			}
		}
		points = append(points, trendPoint{Date: date, Kg: kg, TrendKg: sum / float64(n)})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date.Time) })
	return points
}

// --- Tool handlers ---

func (h *handlers) getDay(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dateStr, err := req.RequireString("date")
	if err != nil {
		return mcp.NewToolResultError("date parameter is required"), nil
	}
	date, err := models.ParseDate(dateStr)
	if err != nil {
		return mcp.NewToolResultError("invalid date: " + err.Error()), nil
	}

	day, err := h.ds.FetchDayRecord(ctx, storage.DefaultUserID, date)
	if err != nil {
		h.log.Error("mcp get_day", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if day == nil {
		day = models.NewDayRecord(date)
	}

	result, err := mcp.NewToolResultJSON(day)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getMaintenance(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dateStr, err := req.RequireString("date")
	if err != nil {
		return mcp.NewToolResultError("date parameter is required"), nil
	}
	date, err := models.ParseDate(dateStr)
	if err != nil {
		return mcp.NewToolResultError("invalid date: " + err.Error()), nil
	}

	day, err := h.ds.FetchDayRecord(ctx, storage.DefaultUserID, date)
	if err != nil {
		h.log.Error("mcp get_maintenance", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if day == nil || day.Maintenance == nil {
		return mcp.NewToolResultError("no maintenance resolved for " + date.String()), nil
	}

	m := day.Maintenance
	out := map[string]any{
		"date":           date,
		"mode":           m.Mode,
		"kcal":           m.Kcal,
		"adaptive_kcal":  m.Adaptive.Kcal,
		"estimated_kcal": m.Estimate.Kcal,
	}
	if m.Adaptive.Reason != nil {
		out["reason"] = *m.Adaptive.Reason
		out["reason_description"] = m.Adaptive.Reason.Description()
	}

	result, err := mcp.NewToolResultJSON(out)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

type trendPoint struct {
	Date    models.Date `json:"date"`
	Kg      float64     `json:"kg"`
	TrendKg float64     `json:"trend_kg"`
}

func (h *handlers) getWeightTrend(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, end, err := defaultDateRange(req.GetString("start", ""), req.GetString("end", ""), 30)
	if err != nil {
		return mcp.NewToolResultError("invalid date format: " + err.Error()), nil
	}

	// Fetch one smoothing window before the range so the first points have a
	// full lookback.
	window := h.settings.Interval.NumberOfDays()
	samples, err := h.ds.FetchWeightSamples(ctx, start.AddDays(-(window-1)), end)
	if err != nil {
		h.log.Error("mcp get_weight_trend", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	points := trendPoints(samples, start, end, window)

	out := map[string]any{
		"start":       start,
		"end":         end,
		"window_days": window,
		"points":      points,
	}
	if len(points) >= 2 {
		out["delta_kg"] = points[len(points)-1].TrendKg - points[0].TrendKg
	}

	result, err := mcp.NewToolResultJSON(out)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) logDay(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dateStr, err := req.RequireString("date")
	if err != nil {
		return mcp.NewToolResultError("date parameter is required"), nil
	}
	date, err := models.ParseDate(dateStr)
	if err != nil {
		return mcp.NewToolResultError("invalid date: " + err.Error()), nil
	}

	args := req.GetArguments()
	weightKg, hasWeight := args["weight_kg"].(float64)
	kcal, hasKcal := args["kcal"].(float64)
	if !hasWeight && !hasKcal {
		return mcp.NewToolResultError("nothing to log: supply weight_kg and/or kcal"), nil
	}

	if hasWeight {
		entry := models.WeightEntry{Date: date, Kg: weightKg, Source: models.WeightSourceManualEntry}
		if _, err := h.ds.UpsertWeightSamples(ctx, storage.DefaultUserID, []models.WeightEntry{entry}); err != nil {
			h.log.Error("mcp log_day weight", "error", err)
			return mcp.NewToolResultError("storing weight failed: " + err.Error()), nil
		}
	}
	if hasKcal {
		entry := models.EnergyEntry{Date: date, Kcal: kcal}
		if _, err := h.ds.UpsertEnergyTotals(ctx, storage.DefaultUserID, "food_log", []models.EnergyEntry{entry}); err != nil {
			h.log.Error("mcp log_day kcal", "error", err)
			return mcp.NewToolResultError("storing intake failed: " + err.Error()), nil
		}
	}

	end := models.Today()
	if end.Before(date.Time) {
		end = date
	}
	pass, err := h.engine.Run(ctx, h.settings, date, end)
	if err != nil {
		h.log.Error("mcp log_day recalculation", "error", err)
		return mcp.NewToolResultError("logged, recalculation failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"date":      date,
		"processed": pass.Processed,
		"dirty":     pass.Dirty,
		"cancelled": pass.Cancelled,
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) recalculate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	startStr := req.GetString("start", "")
	endStr := req.GetString("end", "")

	var start models.Date
	var err error
	if startStr != "" {
		start, err = models.ParseDate(startStr)
		if err != nil {
			return mcp.NewToolResultError("invalid start date: " + err.Error()), nil
		}
	} else {
		earliest, ok, err := h.ds.EarliestDayDate(ctx)
		if err != nil {
			h.log.Error("mcp recalculate", "error", err)
			return mcp.NewToolResultError("query failed: " + err.Error()), nil
		}
		if !ok {
			return mcp.NewToolResultError("no data to recalculate"), nil
		}
		start = earliest
	}

	end := models.Today()
	if endStr != "" {
		end, err = models.ParseDate(endStr)
		if err != nil {
			return mcp.NewToolResultError("invalid end date: " + err.Error()), nil
		}
	}

	pass, err := h.engine.Run(ctx, h.settings, start, end)
	if err != nil {
		h.log.Error("mcp recalculate", "error", err)
		return mcp.NewToolResultError("recalculation failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(pass)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}
