package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"teamfit-tracker/internal/database"
	"teamfit-tracker/internal/recompute"
)

// TeamsHandler serves the team CRUD API
type TeamsHandler struct {
	db     *database.DB
	driver *recompute.Driver
	logger *slog.Logger
}

// NewTeamsHandler creates a new teams handler
func NewTeamsHandler(db *database.DB, driver *recompute.Driver) *TeamsHandler {
	return &TeamsHandler{
		db:     db,
		driver: driver,
		logger: slog.Default(),
	}
}

// Routes returns the team sub-router
func (h *TeamsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Get("/{id}/members", h.Members)
	return r
}

type teamRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Create handles POST /api/teams
func (h *TeamsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req teamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	existing, err := h.db.GetTeamByName(req.Name)
	if err != nil {
		h.logger.Error("Failed to check team name", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create team")
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, "a team with this name already exists")
		return
	}

	t := &database.Team{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
	}
	if err := h.db.CreateTeam(t); err != nil {
		h.logger.Error("Failed to create team", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create team")
		return
	}

	// Participants may already reference this team name
	h.driver.TriggerFull()

	writeJSON(w, http.StatusCreated, t)
}

// List handles GET /api/teams with search/ordering filters
func (h *TeamsHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	orderBy, asc := parseOrdering(query.Get("ordering"))

	teams, err := h.db.ListTeams(database.TeamFilter{
		Search:  query.Get("search"),
		OrderBy: orderBy,
		Asc:     asc,
	})
	if err != nil {
		h.logger.Error("Failed to list teams", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list teams")
		return
	}
	if teams == nil {
		teams = []*database.Team{}
	}

	writeJSON(w, http.StatusOK, teams)
}

// Get handles GET /api/teams/{id}
func (h *TeamsHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.db.GetTeam(chi.URLParam(r, "id"))
	if err != nil {
		h.logger.Error("Failed to get team", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get team")
		return
	}
	if t == nil {
		writeError(w, http.StatusNotFound, "team not found")
		return
	}

	writeJSON(w, http.StatusOK, t)
}

// Update handles PUT /api/teams/{id}
func (h *TeamsHandler) Update(w http.ResponseWriter, r *http.Request) {
	t, err := h.db.GetTeam(chi.URLParam(r, "id"))
	if err != nil {
		h.logger.Error("Failed to get team", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update team")
		return
	}
	if t == nil {
		writeError(w, http.StatusNotFound, "team not found")
		return
	}

	var req teamRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	renamed := t.Name != req.Name
	t.Name = req.Name
	t.Description = req.Description

	if err := h.db.UpdateTeam(t); err != nil {
		h.logger.Error("Failed to update team", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update team")
		return
	}

	if renamed {
		// Members still reference the old name; their points now dangle
		h.driver.TriggerFull()
	}

	writeJSON(w, http.StatusOK, t)
}

// Delete handles DELETE /api/teams/{id}
func (h *TeamsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	t, err := h.db.GetTeam(chi.URLParam(r, "id"))
	if err != nil {
		h.logger.Error("Failed to get team", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete team")
		return
	}
	if t == nil {
		writeError(w, http.StatusNotFound, "team not found")
		return
	}

	if err := h.db.DeleteTeam(t.ID); err != nil {
		h.logger.Error("Failed to delete team", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete team")
		return
	}

	h.driver.TriggerFull()

	w.WriteHeader(http.StatusNoContent)
}

// Members handles GET /api/teams/{id}/members
func (h *TeamsHandler) Members(w http.ResponseWriter, r *http.Request) {
	t, err := h.db.GetTeam(chi.URLParam(r, "id"))
	if err != nil {
		h.logger.Error("Failed to get team", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get team members")
		return
	}
	if t == nil {
		writeError(w, http.StatusNotFound, "team not found")
		return
	}

	members, err := h.db.ListParticipants(database.ParticipantFilter{Team: t.Name})
	if err != nil {
		h.logger.Error("Failed to list team members", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get team members")
		return
	}
	if members == nil {
		members = []*database.Participant{}
	}

	writeJSON(w, http.StatusOK, members)
}
