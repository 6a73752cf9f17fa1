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

// ParticipantsHandler serves the participant CRUD API
type ParticipantsHandler struct {
	db     *database.DB
	driver *recompute.Driver
	logger *slog.Logger
}

// NewParticipantsHandler creates a new participants handler
func NewParticipantsHandler(db *database.DB, driver *recompute.Driver) *ParticipantsHandler {
	return &ParticipantsHandler{
		db:     db,
		driver: driver,
		logger: slog.Default(),
	}
}

// Routes returns the participant sub-router
func (h *ParticipantsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/by-team", h.ByTeam)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	return r
}

type participantRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Team     string `json:"team"`
	JoinedAt int64  `json:"joined_at"`
}

func (pr *participantRequest) validate() string {
	if strings.TrimSpace(pr.Name) == "" {
		return "name is required"
	}
	if strings.TrimSpace(pr.Email) == "" || !strings.Contains(pr.Email, "@") {
		return "a valid email is required"
	}
	return ""
}

// Create handles POST /api/users
func (h *ParticipantsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req participantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	existing, err := h.db.GetParticipantByEmail(req.Email)
	if err != nil {
		h.logger.Error("Failed to check participant email", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create participant")
		return
	}
	if existing != nil {
		writeError(w, http.StatusConflict, "a participant with this email already exists")
		return
	}

	p := &database.Participant{
		ID:       uuid.NewString(),
		Name:     req.Name,
		Email:    req.Email,
		Team:     req.Team,
		JoinedAt: req.JoinedAt,
	}
	if err := h.db.CreateParticipant(p); err != nil {
		h.logger.Error("Failed to create participant", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create participant")
		return
	}

	// The new participant may adopt orphan ledger entries under this email
	h.driver.TriggerParticipants(p.Email)

	writeJSON(w, http.StatusCreated, p)
}

// List handles GET /api/users with team/search/ordering filters
func (h *ParticipantsHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	orderBy, asc := parseOrdering(query.Get("ordering"))

	participants, err := h.db.ListParticipants(database.ParticipantFilter{
		Team:    query.Get("team"),
		Search:  query.Get("search"),
		OrderBy: orderBy,
		Asc:     asc,
	})
	if err != nil {
		h.logger.Error("Failed to list participants", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list participants")
		return
	}
	if participants == nil {
		participants = []*database.Participant{}
	}

	writeJSON(w, http.StatusOK, participants)
}

// ByTeam handles GET /api/users/by-team?team=
func (h *ParticipantsHandler) ByTeam(w http.ResponseWriter, r *http.Request) {
	participants, err := h.db.ListParticipants(database.ParticipantFilter{
		Team: r.URL.Query().Get("team"),
	})
	if err != nil {
		h.logger.Error("Failed to list participants by team", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list participants")
		return
	}
	if participants == nil {
		participants = []*database.Participant{}
	}

	writeJSON(w, http.StatusOK, participants)
}

// Get handles GET /api/users/{id}
func (h *ParticipantsHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.db.GetParticipant(chi.URLParam(r, "id"))
	if err != nil {
		h.logger.Error("Failed to get participant", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get participant")
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "participant not found")
		return
	}

	writeJSON(w, http.StatusOK, p)
}

// Update handles PUT /api/users/{id}
func (h *ParticipantsHandler) Update(w http.ResponseWriter, r *http.Request) {
	p, err := h.db.GetParticipant(chi.URLParam(r, "id"))
	if err != nil {
		h.logger.Error("Failed to get participant", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update participant")
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "participant not found")
		return
	}

	var req participantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	oldEmail := p.Email
	p.Name = req.Name
	p.Email = req.Email
	p.Team = req.Team
	if req.JoinedAt != 0 {
		p.JoinedAt = req.JoinedAt
	}

	if err := h.db.UpdateParticipant(p); err != nil {
		h.logger.Error("Failed to update participant", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update participant")
		return
	}

	// Identity or team changes shift totals on both sides of the change
	h.driver.TriggerParticipants(oldEmail, p.Email)

	writeJSON(w, http.StatusOK, p)
}

// Delete handles DELETE /api/users/{id}
func (h *ParticipantsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, err := h.db.GetParticipant(chi.URLParam(r, "id"))
	if err != nil {
		h.logger.Error("Failed to get participant", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete participant")
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "participant not found")
		return
	}

	if err := h.db.DeleteParticipant(p.ID); err != nil {
		h.logger.Error("Failed to delete participant", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete participant")
		return
	}

	h.driver.TriggerParticipants(p.Email)

	w.WriteHeader(http.StatusNoContent)
}
