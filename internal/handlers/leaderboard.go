package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"teamfit-tracker/internal/database"
)

// LeaderboardHandler serves the read-only leaderboard API
type LeaderboardHandler struct {
	db     *database.DB
	logger *slog.Logger
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(db *database.DB) *LeaderboardHandler {
	return &LeaderboardHandler{
		db:     db,
		logger: slog.Default(),
	}
}

// Routes returns the leaderboard sub-router
func (h *LeaderboardHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Get)
	r.Get("/individual", h.Individual)
	r.Get("/team", h.Team)
	return r
}

// Get handles GET /api/leaderboard?scope=&team=
func (h *LeaderboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	scope := database.Scope(r.URL.Query().Get("scope"))
	if scope == "" {
		scope = database.ScopeIndividual
	}
	if !scope.Valid() {
		writeError(w, http.StatusBadRequest, "scope must be 'individual' or 'team'")
		return
	}

	h.respond(w, scope, r.URL.Query().Get("team"))
}

// Individual handles GET /api/leaderboard/individual
func (h *LeaderboardHandler) Individual(w http.ResponseWriter, r *http.Request) {
	h.respond(w, database.ScopeIndividual, r.URL.Query().Get("team"))
}

// Team handles GET /api/leaderboard/team
func (h *LeaderboardHandler) Team(w http.ResponseWriter, r *http.Request) {
	h.respond(w, database.ScopeTeam, "")
}

func (h *LeaderboardHandler) respond(w http.ResponseWriter, scope database.Scope, team string) {
	entries, err := h.db.GetLeaderboard(scope, team)
	if err != nil {
		h.logger.Error("Failed to get leaderboard", "scope", scope, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get leaderboard")
		return
	}
	if entries == nil {
		entries = []*database.LeaderboardEntry{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"scope":   scope,
		"entries": entries,
		"count":   len(entries),
	})
}
