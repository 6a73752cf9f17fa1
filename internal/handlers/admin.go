package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"teamfit-tracker/internal/database"
	"teamfit-tracker/internal/recompute"
)

// AdminHandler serves administrative endpoints
type AdminHandler struct {
	db     *database.DB
	driver *recompute.Driver
	logger *slog.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(db *database.DB, driver *recompute.Driver) *AdminHandler {
	return &AdminHandler{
		db:     db,
		driver: driver,
		logger: slog.Default(),
	}
}

// Routes returns the admin sub-router
func (h *AdminHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/rebuild", h.Rebuild)
	r.Get("/status", h.Status)
	return r
}

// Rebuild handles POST /api/admin/rebuild. It schedules a full recomputation
// and returns immediately; repeated invocations coalesce into one run.
func (h *AdminHandler) Rebuild(w http.ResponseWriter, r *http.Request) {
	h.logger.Info("Full leaderboard rebuild requested")
	h.driver.TriggerFull()

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "scheduled"})
}

// Status handles GET /api/admin/status
func (h *AdminHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"state":          h.driver.State(),
		"completed_runs": h.driver.CompletedRuns(),
	})
}
