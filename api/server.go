// Package api exposes the messenger over REST and a websocket push
// channel, mirroring the delivery engine's inbound events one-to-one.
package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"daneth-messenger/auth"
	"daneth-messenger/contract"
	"daneth-messenger/services"
)

type Server struct {
	log                  *slog.Logger
	authService          services.IAuthService
	messenger            services.IMessengerService
	registry             contract.IRegistry
	issuer               auth.TokenIssuer
	adminKey             string
	connectionBufferSize int
	historyLimit         int
}

func NewServer(log *slog.Logger, authService services.IAuthService,
	messenger services.IMessengerService, registry contract.IRegistry,
	issuer auth.TokenIssuer, adminKey string,
	connectionBufferSize, historyLimit int) *Server {
	return &Server{
		log:                  log,
		authService:          authService,
		messenger:            messenger,
		registry:             registry,
		issuer:               issuer,
		adminKey:             adminKey,
		connectionBufferSize: connectionBufferSize,
		historyLimit:         historyLimit,
	}
}

func (s *Server) Routes() chi.Router {
	authMiddleware := auth.NewMiddleware(s.issuer)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Post("/login", s.handleLogin)

		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Require)
			r.Get("/me", s.handleMe)
			r.Get("/users", s.handleUsers)
			r.Get("/messages", s.handleHistory)
			r.Post("/messages", s.handlePostMessage)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.requireAdminKey)
			r.Post("/admin/create-user", s.handleCreateUser)
			r.Post("/admin/reset-password", s.handleResetPassword)
		})
	})

	r.Get("/ws", s.handleSocket)
	return r
}

// requireAdminKey guards provisioning routes with the shared operator
// key, independent of JWT sessions.
func (s *Server) requireAdminKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-admin-key") != s.adminKey {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}
