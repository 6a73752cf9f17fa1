package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"teamfit-tracker/internal/database"
)

// WorkoutsHandler serves the read-only workout suggestion catalog
type WorkoutsHandler struct {
	db     *database.DB
	logger *slog.Logger
}

// NewWorkoutsHandler creates a new workouts handler
func NewWorkoutsHandler(db *database.DB) *WorkoutsHandler {
	return &WorkoutsHandler{
		db:     db,
		logger: slog.Default(),
	}
}

// Routes returns the workout sub-router
func (h *WorkoutsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	return r
}

// List handles GET /api/workouts with difficulty/category/search filters
func (h *WorkoutsHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	workouts, err := h.db.ListWorkouts(database.WorkoutFilter{
		Difficulty: query.Get("difficulty"),
		Category:   query.Get("category"),
		Search:     query.Get("search"),
	})
	if err != nil {
		h.logger.Error("Failed to list workouts", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list workouts")
		return
	}
	if workouts == nil {
		workouts = []*database.Workout{}
	}

	writeJSON(w, http.StatusOK, workouts)
}

// Get handles GET /api/workouts/{id}
func (h *WorkoutsHandler) Get(w http.ResponseWriter, r *http.Request) {
	workout, err := h.db.GetWorkout(chi.URLParam(r, "id"))
	if err != nil {
		h.logger.Error("Failed to get workout", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get workout")
		return
	}
	if workout == nil {
		writeError(w, http.StatusNotFound, "workout not found")
		return
	}

	writeJSON(w, http.StatusOK, workout)
}
