package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/templui/ahorros/internal/app"
	"github.com/templui/ahorros/internal/handler"
	"github.com/templui/ahorros/internal/middleware"
)

func SetupRoutes(ctx context.Context, app *app.App) http.Handler {
	// Handlers
	auth := handler.NewAuthHandler(app.AuthService, app.Cfg)
	goal := handler.NewGoalHandler(app.GoalService, app.ShareService)
	contribution := handler.NewContributionHandler(app.ContributionService)
	settings := handler.NewSettingsHandler(app.SettingsService, app.SummaryService)
	stream := handler.NewStreamHandler(app.Services())

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	// ============================================================================
	// AUTH (rate limited: 5 requests per 15 minutes per IP)
	// ============================================================================

	rateLimit := middleware.RateLimit(middleware.NewRateLimiter(ctx, 5, 15*time.Minute))

	mux.HandleFunc("GET /auth/google", rateLimit(auth.GoogleAuth))
	mux.HandleFunc("GET /auth/google/callback", rateLimit(auth.GoogleCallback))
	mux.HandleFunc("POST /auth/logout", auth.Logout)
	if app.Cfg.IsDevelopment() {
		mux.HandleFunc("POST /auth/dev", rateLimit(auth.DevSignIn))
	}

	// ============================================================================
	// API (/api/*)
	// ============================================================================

	mux.HandleFunc("GET /api/me", middleware.RequireAuth(auth.Me))

	// Goals
	mux.HandleFunc("GET /api/goals", middleware.RequireAuth(goal.List))
	mux.HandleFunc("POST /api/goals", middleware.RequireAuth(goal.Create))
	mux.HandleFunc("GET /api/goals/{id}", middleware.RequireAuth(goal.Show))
	mux.HandleFunc("PATCH /api/goals/{id}", middleware.RequireAuth(goal.Update))
	mux.HandleFunc("DELETE /api/goals/{id}", middleware.RequireAuth(goal.Delete))
	mux.HandleFunc("PUT /api/goals/{id}/shares/{email}", middleware.RequireAuth(goal.Grant))
	mux.HandleFunc("DELETE /api/goals/{id}/shares/{email}", middleware.RequireAuth(goal.Revoke))

	// Contributions
	mux.HandleFunc("GET /api/contributions", middleware.RequireAuth(contribution.List))
	mux.HandleFunc("POST /api/contributions", middleware.RequireAuth(contribution.Create))
	mux.HandleFunc("PATCH /api/contributions/{id}", middleware.RequireAuth(contribution.Update))
	mux.HandleFunc("DELETE /api/contributions/{id}", middleware.RequireAuth(contribution.Delete))

	// Settings & summary
	mux.HandleFunc("GET /api/settings", middleware.RequireAuth(settings.Show))
	mux.HandleFunc("PUT /api/settings", middleware.RequireAuth(settings.Update))
	mux.HandleFunc("GET /api/summary", middleware.RequireAuth(settings.Summary))

	// Live updates
	mux.HandleFunc("GET /api/stream", middleware.RequireAuth(stream.Stream))

	// The local backend has exactly one user and no sign-in
	identity := middleware.AuthMiddleware(app.AuthService)
	if app.IsLocal() {
		identity = middleware.LocalPrincipal(app.LocalPrincipal)
	}

	// Global middleware - executed in order (top to bottom)
	handler := middleware.Chain(
		mux,
		middleware.Config(app.Cfg),
		middleware.RequestLogging,
		identity,
	)

	return handler
}
