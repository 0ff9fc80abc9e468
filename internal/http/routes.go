// Package httpx wires HTTP routes to the service layer. The name avoids
// clashing with net/http.
package httpx

import (
	"log/slog"
	"net/http"

	"github.com/inkwell-ai/inkwell-api/internal/service"
)

// RouterServices groups the services the router depends on.
type RouterServices struct {
	Jobs   *service.JobService
	Auth   *service.AuthService
	Logger *slog.Logger
}

// NewRouter builds the API handler with logging and panic recovery applied
// to every route.
func NewRouter(services RouterServices) http.Handler {
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", healthHandler)
	mux.HandleFunc("HEAD /healthz", healthHandler)

	registerAuthRoutes(mux, services.Auth)
	registerContentRoutes(mux, services)

	var handler http.Handler = mux
	handler = Recover(logger)(handler)
	handler = Logging(logger)(handler)
	return handler
}

func registerAuthRoutes(mux *http.ServeMux, svc *service.AuthService) {
	h := &authHandler{Svc: svc}

	mux.HandleFunc("POST /api/auth/register", h.Register)
	mux.HandleFunc("POST /api/auth/login", h.Login)
	mux.HandleFunc("POST /api/auth/forgot-password", h.ForgotPassword)
	mux.HandleFunc("POST /api/auth/reset-password/{resetToken}", h.ResetPassword)
	mux.HandleFunc("POST /api/auth/logout", h.Logout)
}

func registerContentRoutes(mux *http.ServeMux, services RouterServices) {
	h := &contentHandler{Svc: services.Jobs}
	requireAuth := RequireAuth(services.Auth)

	mux.Handle("POST /api/blog/analyze", requireAuth(http.HandlerFunc(h.Analyze)))
	mux.Handle("POST /api/blog/generate", requireAuth(http.HandlerFunc(h.Generate)))

	// Polling is open: the job id itself is the capability.
	mux.HandleFunc("GET /api/blog/status/{jobID}", h.Status)
}
