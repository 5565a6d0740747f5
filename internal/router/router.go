package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"sitechat-backend/internal/handlers"
	"sitechat-backend/internal/middleware"
)

// New builds the HTTP routes. chatLimiter may be nil, in which case
// /api/chat is not rate limited. When trustProxyHeaders is false the client
// address is always the socket peer, so forwarded headers cannot pick a
// rate limit bucket.
func New(
	chatHandler *handlers.ChatHandler,
	catalogHandler *handlers.CatalogHandler,
	healthHandler *handlers.HealthHandler,
	metricsHandler http.Handler,
	chatLimiter *middleware.RateLimiter,
	frontendURL string,
	trustProxyHeaders bool,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	if trustProxyHeaders {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	r.Get("/health", healthHandler.Health)
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/models", catalogHandler.List)

		r.Group(func(r chi.Router) {
			if chatLimiter != nil {
				r.Use(chatLimiter.Middleware)
			}
			r.Post("/chat", chatHandler.Chat)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error":"Not found"}`))
	})

	return r
}
