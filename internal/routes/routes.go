package routes

import (
	"net/http"

	"github.com/lifedash/questlog/internal/app"
	"github.com/lifedash/questlog/internal/handler"
	"github.com/lifedash/questlog/internal/middleware"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(app.DB)
	goal := handler.NewGoalHandler(app.GoalService)
	activity := handler.NewActivityHandler(app.ActivityService, app.Hub)

	// API middleware - auth first so the rate limiter can key by user
	protected := func(h http.HandlerFunc) http.Handler {
		return middleware.Chain(h,
			middleware.APIAuth(app.AuthService, app.UserService),
			middleware.RateLimit(app.RateLimiter),
		)
	}

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /health", health.Health)

	// ============================================================================
	// PROTECTED ROUTES (/api/*)
	// ============================================================================

	// Goals
	mux.Handle("GET /api/goals", protected(goal.List))
	mux.Handle("POST /api/goals", protected(goal.Create))
	mux.Handle("DELETE /api/goals/{id}", protected(goal.Delete))
	mux.Handle("GET /api/goals/{id}/history", protected(goal.History))
	mux.Handle("POST /api/goals/{id}/history", protected(goal.SetProgress))

	// Activities
	mux.Handle("GET /api/activities/feed", protected(activity.Feed))
	mux.Handle("GET /api/activities/stream", protected(activity.Stream))
	mux.Handle("POST /api/activities", protected(activity.Create))

	// ============================================================================
	// FALLBACK
	// ============================================================================

	mux.HandleFunc("/{path...}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not found"}` + "\n"))
	})

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.Recover,
		middleware.RequestLogging,
	)

	return handler
}
