package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"teamfit-tracker/internal/database"
	"teamfit-tracker/internal/metrics"
	"teamfit-tracker/internal/recompute"
)

// ActivitiesHandler serves the activity ledger API. Every successful write
// hands the affected participant identity to the recomputation driver.
type ActivitiesHandler struct {
	db     *database.DB
	driver *recompute.Driver
	logger *slog.Logger
}

// NewActivitiesHandler creates a new activities handler
func NewActivitiesHandler(db *database.DB, driver *recompute.Driver) *ActivitiesHandler {
	return &ActivitiesHandler{
		db:     db,
		driver: driver,
		logger: slog.Default(),
	}
}

// Routes returns the activity sub-router
func (h *ActivitiesHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/recent", h.Recent)
	r.Get("/{id}", h.Get)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	return r
}

type activityRequest struct {
	UserEmail    string   `json:"user_email"`
	UserName     string   `json:"user_name"`
	ActivityType string   `json:"activity_type"`
	Duration     int      `json:"duration"`
	Distance     *float64 `json:"distance"`
	Calories     int      `json:"calories"`
	Points       int      `json:"points"`
	Date         int64    `json:"date"`
	Notes        string   `json:"notes"`
}

// validate rejects malformed records before they can reach the aggregation
// pipeline
func (ar *activityRequest) validate() string {
	if strings.TrimSpace(ar.UserEmail) == "" {
		return "user_email is required"
	}
	if strings.TrimSpace(ar.ActivityType) == "" {
		return "activity_type is required"
	}
	if ar.Duration <= 0 {
		return "duration must be a positive number of minutes"
	}
	if ar.Points < 0 {
		return "points must not be negative"
	}
	if ar.Calories < 0 {
		return "calories must not be negative"
	}
	if ar.Distance != nil && *ar.Distance < 0 {
		return "distance must not be negative"
	}
	return ""
}

// apply copies the request onto a ledger entry, filling the denormalized
// participant name from the participant record when the caller omitted it
func (h *ActivitiesHandler) apply(a *database.Activity, req *activityRequest) {
	a.UserEmail = req.UserEmail
	a.UserName = req.UserName
	a.ActivityType = req.ActivityType
	a.Duration = req.Duration
	a.Distance = req.Distance
	a.Calories = req.Calories
	a.Points = req.Points
	a.Date = req.Date
	a.Notes = req.Notes

	if a.UserName == "" {
		if p, err := h.db.GetParticipantByEmail(a.UserEmail); err == nil && p != nil {
			a.UserName = p.Name
		}
	}
}

// Create handles POST /api/activities
func (h *ActivitiesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req activityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	a := &database.Activity{ID: uuid.NewString()}
	h.apply(a, &req)

	if err := h.db.CreateActivity(a); err != nil {
		h.logger.Error("Failed to create activity", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create activity")
		return
	}

	metrics.LedgerWritesTotal.WithLabelValues(metrics.LedgerOpCreate).Inc()
	h.driver.TriggerParticipants(a.UserEmail)

	writeJSON(w, http.StatusCreated, a)
}

// List handles GET /api/activities with email/type/search/ordering filters
// and limit/offset pagination
func (h *ActivitiesHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	orderBy, asc := parseOrdering(query.Get("ordering"))

	limit, offset := 0, 0
	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			writeError(w, http.StatusBadRequest, "invalid limit parameter")
			return
		}
		limit = v
	}
	if s := query.Get("offset"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			writeError(w, http.StatusBadRequest, "invalid offset parameter")
			return
		}
		offset = v
	}

	activities, err := h.db.ListActivities(database.ActivityFilter{
		UserEmail:    query.Get("email"),
		ActivityType: query.Get("type"),
		Search:       query.Get("search"),
		OrderBy:      orderBy,
		Asc:          asc,
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		h.logger.Error("Failed to list activities", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list activities")
		return
	}
	if activities == nil {
		activities = []*database.Activity{}
	}

	writeJSON(w, http.StatusOK, activities)
}

// Recent handles GET /api/activities/recent?limit=
func (h *ActivitiesHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := 10
	if s := r.URL.Query().Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 || v > 100 {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = v
	}

	activities, err := h.db.ListActivities(database.ActivityFilter{Limit: limit})
	if err != nil {
		h.logger.Error("Failed to list recent activities", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list activities")
		return
	}
	if activities == nil {
		activities = []*database.Activity{}
	}

	writeJSON(w, http.StatusOK, activities)
}

// Get handles GET /api/activities/{id}
func (h *ActivitiesHandler) Get(w http.ResponseWriter, r *http.Request) {
	a, err := h.db.GetActivity(chi.URLParam(r, "id"))
	if err != nil {
		h.logger.Error("Failed to get activity", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get activity")
		return
	}
	if a == nil {
		writeError(w, http.StatusNotFound, "activity not found")
		return
	}

	writeJSON(w, http.StatusOK, a)
}

// Update handles PUT /api/activities/{id}
func (h *ActivitiesHandler) Update(w http.ResponseWriter, r *http.Request) {
	a, err := h.db.GetActivity(chi.URLParam(r, "id"))
	if err != nil {
		h.logger.Error("Failed to get activity", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update activity")
		return
	}
	if a == nil {
		writeError(w, http.StatusNotFound, "activity not found")
		return
	}

	var req activityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if msg := req.validate(); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	oldEmail := a.UserEmail
	h.apply(a, &req)

	if err := h.db.UpdateActivity(a); err != nil {
		h.logger.Error("Failed to update activity", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update activity")
		return
	}

	metrics.LedgerWritesTotal.WithLabelValues(metrics.LedgerOpUpdate).Inc()
	// Reattributed events change both the old and the new identity's totals
	h.driver.TriggerParticipants(oldEmail, a.UserEmail)

	writeJSON(w, http.StatusOK, a)
}

// Delete handles DELETE /api/activities/{id}
func (h *ActivitiesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	a, err := h.db.GetActivity(chi.URLParam(r, "id"))
	if err != nil {
		h.logger.Error("Failed to get activity", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete activity")
		return
	}
	if a == nil {
		writeError(w, http.StatusNotFound, "activity not found")
		return
	}

	if err := h.db.DeleteActivity(a.ID); err != nil {
		h.logger.Error("Failed to delete activity", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete activity")
		return
	}

	metrics.LedgerWritesTotal.WithLabelValues(metrics.LedgerOpDelete).Inc()
	h.driver.TriggerParticipants(a.UserEmail)

	w.WriteHeader(http.StatusNoContent)
}
