package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"teamfit-tracker/internal/database"
	"teamfit-tracker/internal/middleware"
	"teamfit-tracker/internal/recompute"
)

// NewRouter assembles the API router. The rate limiter may be nil, in which
// case write endpoints are unthrottled (used by tests).
func NewRouter(db *database.DB, driver *recompute.Driver, limiter *middleware.RateLimiter) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(middleware.Metrics)
	if limiter != nil {
		r.Use(limiter.Middleware)
	}

	r.Route("/api", func(r chi.Router) {
		r.Mount("/users", NewParticipantsHandler(db, driver).Routes())
		r.Mount("/teams", NewTeamsHandler(db, driver).Routes())
		r.Mount("/activities", NewActivitiesHandler(db, driver).Routes())
		r.Mount("/leaderboard", NewLeaderboardHandler(db).Routes())
		r.Mount("/workouts", NewWorkoutsHandler(db).Routes())
		r.Mount("/admin", NewAdminHandler(db, driver).Routes())
	})

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if err := db.Health(); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
