package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/elysian/account-api/internal/application/account"
	"github.com/elysian/account-api/internal/config"
	"github.com/elysian/account-api/internal/transport/http/handler"
)

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	accountSvc := account.NewService(account.ServiceDeps{
		UserRepo:     deps.UserRepo,
		CodeRepo:     deps.CodeRepo,
		Mailer:       deps.Mailer,
		GoogleTokens: deps.GoogleTokens,
	})

	healthH := handler.NewHealthHandler()
	accountH := handler.NewAccountHandler(accountSvc)
	federatedH := handler.NewFederatedHandler(accountSvc)
	staticH := handler.NewStaticHandler(deps.StaticDir)

	r.Route("/api", func(r chi.Router) {
		r.Get("/test", healthH.Test)
		r.Post("/register", accountH.Register)
		r.Post("/login", accountH.Login)
		r.Post("/send_verification_code", accountH.SendVerificationCode)
		r.Post("/verify_code", accountH.VerifyCode)
		r.Post("/forgot_password", accountH.ForgotPassword)
		r.Post("/google_login", federatedH.GoogleLogin)
		r.Post("/facebook_login", federatedH.FacebookLogin)
	})

	// Everything else is the SPA.
	r.Get("/*", staticH.Serve)

	return r
}
