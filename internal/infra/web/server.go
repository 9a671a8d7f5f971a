// File: internal/infra/web/server.go
package web

import (
	"context"
	"crypto/subtle"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"propfirm-web/internal/usecase"
)

// LoginLimiter throttles password attempts per source address.
type LoginLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// Server is the staff-only email console plus the customer directory. It
// listens on its own port, separate from the public site API.
type Server struct {
	templateUC usecase.TemplateUseCase
	userUC     usecase.UserUseCase
	orderUC    usecase.OrderUseCase
	auth       *AuthManager
	password   string
	limiter    LoginLimiter
	log        *zerolog.Logger
}

func NewServer(
	templateUC usecase.TemplateUseCase,
	userUC usecase.UserUseCase,
	orderUC usecase.OrderUseCase,
	auth *AuthManager,
	password string,
	limiter LoginLimiter,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		templateUC: templateUC,
		userUC:     userUC,
		orderUC:    orderUC,
		auth:       auth,
		password:   password,
		limiter:    limiter,
		log:        logger,
	}
}

// RegisterRoutes sets up the routing for the admin console API.
func (s *Server) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("/admin/login", loginHandler(s))
	mux.Handle("/admin/logout", s.authMiddleware(logoutHandler(s)))

	templates := s.authMiddleware(s.templatesRouter())
	mux.Handle("/admin/templates", templates)
	mux.Handle("/admin/templates/", templates)

	mux.Handle("/admin/bulk/progress", s.authMiddleware(progressHandler(s.templateUC)))
	mux.Handle("/admin/customers", s.authMiddleware(customersHandler(s.userUC)))
	mux.Handle("/admin/orders", s.authMiddleware(ordersHandler(s.orderUC)))
}

// authMiddleware requires a valid console session on every admin route.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.password == "" {
			s.log.Error().Msg("admin password is not configured")
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		if _, err := s.auth.ParseFromRequest(r); err != nil {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) passwordMatches(candidate string) bool {
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(s.password)) == 1
}
