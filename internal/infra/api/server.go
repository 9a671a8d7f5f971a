// File: internal/infra/api/server.go
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"propfirm-web/internal/domain/model"
	"propfirm-web/internal/domain/ports/repository"
	"propfirm-web/internal/usecase"
)

// PriceSource reads the latest cached crypto snapshot.
type PriceSource interface {
	Latest(ctx context.Context) (*model.PriceSnapshot, error)
}

// Server is the public site API. Everything the browser pages call lives
// here; the admin console has its own server on a separate port.
type Server struct {
	pricingUC  usecase.PricingUseCase
	funnelUC   usecase.FunnelUseCase
	checkoutUC usecase.CheckoutUseCase
	pollUC     usecase.PollUseCase
	userUC     usecase.UserUseCase
	prices     PriceSource
	sessions   repository.SessionStore

	identity   *Identity
	webhookKey string
	origins    []string
	log        *zerolog.Logger
}

func NewServer(
	pricingUC usecase.PricingUseCase,
	funnelUC usecase.FunnelUseCase,
	checkoutUC usecase.CheckoutUseCase,
	pollUC usecase.PollUseCase,
	userUC usecase.UserUseCase,
	prices PriceSource,
	sessions repository.SessionStore,
	identity *Identity,
	webhookKey string,
	origins []string,
	logger *zerolog.Logger,
) *Server {
	return &Server{
		pricingUC:  pricingUC,
		funnelUC:   funnelUC,
		checkoutUC: checkoutUC,
		pollUC:     pollUC,
		userUC:     userUC,
		prices:     prices,
		sessions:   sessions,
		identity:   identity,
		webhookKey: webhookKey,
		origins:    origins,
		log:        logger,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(TraceID(s.log))
	r.Use(SessionID())
	r.Use(RequestLog(s.log))
	r.Use(Recover(s.log))
	r.Use(Timeout(30 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/plans", s.handlePlans)
		r.Get("/plans/{plan}/pricing", s.handlePricing)
		r.Post("/checkout/select", s.handleCheckoutSelect)

		r.Route("/funnel", func(r chi.Router) {
			r.Post("/", s.handleFunnelStart)
			r.Post("/answer", s.handleFunnelAnswer)
			r.Post("/contact", s.handleFunnelContact)
			r.Post("/advance", s.handleFunnelAdvance)
			r.Get("/result", s.handleFunnelResult)
		})

		r.Post("/checkout", s.handleCheckout)
		r.Post("/payment/webhook", s.handleWebhook)
		r.Get("/prices", s.handlePrices)

		r.Route("/polls", func(r chi.Router) {
			r.Get("/", s.handleListPolls)
			r.With(s.RequireUser).Post("/", s.handleCreatePoll)
			r.With(s.RequireUser).Post("/{id}/vote", s.handleVote)
			r.Get("/{id}/comments", s.handleListComments)
			r.With(s.RequireUser).Post("/{id}/comments", s.handleCreateComment)
		})

		r.With(s.RequireUser).Get("/me", s.handleMe)
		r.With(s.RequireUser).Put("/me/username", s.handleClaimUsername)
	})

	return r
}
