package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/meltforce/kcalm/internal/recalc"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, engine *recalc.Engine, settings recalc.Settings, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("kcalm", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("kcalm maintenance-energy server. Query day records, resolved maintenance calories, and weight trends; log weight and intake; trigger recalculation. Weights are kg, energy is kcal."),
	)

	h := &handlers{ds: ds, engine: engine, settings: settings, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetDay, Handler: h.getDay},
		server.ServerTool{Tool: toolGetMaintenance, Handler: h.getMaintenance},
		server.ServerTool{Tool: toolGetWeightTrend, Handler: h.getWeightTrend},
		server.ServerTool{Tool: toolLogDay, Handler: h.logDay},
		server.ServerTool{Tool: toolRecalculate, Handler: h.recalculate},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resDailySummary, Handler: h.dailySummary},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds       DataSource
	engine   *recalc.Engine
	settings recalc.Settings
	log      *slog.Logger
}

// --- Resource definitions ---

var resDailySummary = mcp.NewResource(
	"kcalm://daily_summary",
	"Daily Summary",
	mcp.WithResourceDescription("Today's day record with resolved maintenance and the weight trend over the last 30 days"),
	mcp.WithMIMEType("application/json"),
)
