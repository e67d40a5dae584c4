package mcp

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/meltforce/kcalm/internal/models"
	"github.com/meltforce/kcalm/internal/storage"
)

func (h *handlers) dailySummary(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	today := models.Today()

	day, err := h.ds.FetchDayRecord(ctx, storage.DefaultUserID, today)
	if err != nil {
		return nil, err
	}
	if day == nil {
		day = models.NewDayRecord(today)
	}

	samples, err := h.ds.FetchWeightSamples(ctx, today.AddDays(-29), today)
	if err != nil {
		h.log.Warn("daily_summary: weight trend failed", "error", err)
	}

	summary := map[string]any{
		"date":         today,
		"day":          day,
		"weight_trend": samples,
	}

	data, err := json.Marshal(summary)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
