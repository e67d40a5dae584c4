package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meltforce/kcalm/internal/models"
	"github.com/meltforce/kcalm/internal/recalc"
	"github.com/meltforce/kcalm/internal/resolve"
	"github.com/meltforce/kcalm/internal/storage"
)

// Compile-time checks: the storage layer backs both engine interfaces.
var (
	_ recalc.DayStore      = (*storage.DB)(nil)
	_ resolve.Measurements = (*storage.DB)(nil)
)

// Units are the display units applied to API responses. Storage stays kg and
// kcal regardless.
type Units struct {
	Weight models.WeightUnit
	Energy models.EnergyUnit
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	db       *storage.DB
	engine   *recalc.Engine
	settings recalc.Settings
	units    Units
	log      *slog.Logger
	apiKey   string
	router   chi.Router
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, engine *recalc.Engine, settings recalc.Settings, units Units, apiKey string, log *slog.Logger) *Server {
	if units.Weight == "" {
		units.Weight = models.WeightKg
	}
	if units.Energy == "" {
		units.Energy = models.EnergyKcal
	}
	s := &Server{
		db:       db,
		engine:   engine,
		settings: settings,
		units:    units,
		log:      log,
		apiKey:   apiKey,
		router:   chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Mount attaches an extra handler subtree, e.g. the MCP endpoint.
func (s *Server) Mount(pattern string, h http.Handler) {
	s.router.Mount(pattern, h)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Mutating endpoints (API key required)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/api/v1/ingest", s.handleIngest)
		r.Put("/api/v1/days/{date}", s.handleEditDay)
		r.Post("/api/v1/recalculate", s.handleRecalculate)
	})

	// Read endpoints (no auth — tsnet handles access)
	s.router.Get("/api/v1/days", s.handleListDays)
	s.router.Get("/api/v1/days/{date}", s.handleGetDay)
	s.router.Get("/api/v1/maintenance/{date}", s.handleGetMaintenance)
	s.router.Get("/api/v1/settings", s.handleSettings)
}
