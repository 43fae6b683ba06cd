package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"smolquery/internal/middleware"
)

// RouterConfig holds the router-level settings.
type RouterConfig struct {
	RateLimitRPS   float64
	RateLimitBurst int
	AllowedOrigins []string
}

// NewRouter assembles the chi router: recovery, request ids, rate limiting,
// CORS, the /v1 API, and an optional UI handler mounted at the root.
func NewRouter(h *Handler, ui http.Handler, cfg RouterConfig) http.Handler {
	if cfg.RateLimitRPS <= 0 {
		cfg.RateLimitRPS = 100
	}
	if cfg.RateLimitBurst <= 0 {
		cfg.RateLimitBurst = 200
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.RateLimiter(middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimitRPS,
		Burst:             cfg.RateLimitBurst,
	}))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
	}))

	r.Route("/v1", func(r chi.Router) {
		r.Post("/query", h.ExecuteQuery)
		r.Get("/schema", h.GetSchema)
		r.Get("/history", h.GetHistory)
		r.Route("/auth", func(r chi.Router) {
			r.Post("/dev", h.DevSignIn)
			r.Post("/signout", h.SignOut)
			r.Get("/session", h.GetSession)
		})
	})

	r.Get("/auth/login", h.OAuthLogin)
	r.Get("/auth/callback", h.OAuthCallback)

	if ui != nil {
		r.Mount("/", ui)
	}

	return r
}
