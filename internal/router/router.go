package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/saulo-duarte/proposals-lambda/docs"

	"github.com/saulo-duarte/proposals-lambda/internal/auth"
	"github.com/saulo-duarte/proposals-lambda/internal/config"
	"github.com/saulo-duarte/proposals-lambda/internal/middlewares"
	"github.com/saulo-duarte/proposals-lambda/internal/proposal"
	"github.com/saulo-duarte/proposals-lambda/internal/user"
)

type RouterConfig struct {
	UserHandler     *user.Handler
	ProposalHandler *proposal.Handler
	AuthHandler     *auth.Handler
	MetricsHandler  http.Handler
	AllowedOrigins  []string
}

func New(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewares.CorsMiddleware(cfg.AllowedOrigins))

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		config.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	r.Route("/auth", func(r chi.Router) {
		r.Post("/logout", cfg.AuthHandler.Logout)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.AuthMiddleware)

		r.Mount("/users", user.Routes(cfg.UserHandler))
		r.Mount("/proposals", proposal.Routes(cfg.ProposalHandler))
	})
	return r
}
