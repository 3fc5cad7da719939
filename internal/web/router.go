package web

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/gasfinder/gasfinder/internal/web/middleware"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Handler *Handler
	Logger  zerolog.Logger
	Metrics *middleware.Metrics
}

// NewRouter creates the chi router with all page routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware - order matters
	r.Use(middleware.RequestID)
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
	}
	r.Use(middleware.Logger(cfg.Logger))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimiddleware.RealIP)

	formRateLimit := middleware.RateLimitByIP(middleware.FormRateLimit)
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)

	h := cfg.Handler

	r.Group(func(r chi.Router) {
		r.Use(standardRateLimit)
		r.Get("/", h.Index)
		r.Post("/retry", h.Retry)
		r.Post("/stations/{id}/chat", h.JoinChat)
		r.Post("/modal/close", h.CloseModal)
		r.Post("/seller/open", h.OpenSeller)
	})

	r.Group(func(r chi.Router) {
		r.Use(formRateLimit)
		r.Post("/signup", h.SignUp)
		r.Post("/seller", h.RegisterSeller)
	})

	r.Get("/healthz", h.Healthz)
	r.Handle("/static/*", StaticHandler())

	return r
}
