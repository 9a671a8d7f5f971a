// File: internal/infra/api/handlers.go
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"propfirm-web/internal/domain"
	"propfirm-web/internal/domain/model"
	"propfirm-web/internal/domain/ports/repository"
	"propfirm-web/internal/usecase"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeDomainError maps domain sentinels onto HTTP statuses. Anything
// unrecognized is a 500 with a generic body.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrFunnelExpired):
		http.Error(w, "quiz session expired", http.StatusGone)
	case errors.Is(err, domain.ErrInvalidArgument),
		errors.Is(err, domain.ErrInvalidUsername),
		errors.Is(err, domain.ErrSizeNotOffered):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, domain.ErrUsernameRequired):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, domain.ErrAlreadyExists),
		errors.Is(err, domain.ErrUsernameSet),
		errors.Is(err, domain.ErrStepNotPassable),
		errors.Is(err, domain.ErrNoRecommendation):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// ----- pricing -----

func (s *Server) handlePlans(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Plans []*model.ChallengePlan `json:"plans"`
	}{Plans: s.pricingUC.Plans()})
}

func (s *Server) handlePricing(w http.ResponseWriter, r *http.Request) {
	kind := model.ChallengeKind(chi.URLParam(r, "plan"))
	size := r.URL.Query().Get("size")

	res, err := s.pricingUC.Resolve(kind, size)
	if err != nil {
		if errors.Is(err, domain.ErrSizeNotOffered) {
			// Offered=false renders as a dash in the table, never an error.
			writeJSON(w, http.StatusOK, struct {
				Offered bool `json:"offered"`
			}{Offered: false})
			return
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Offered bool                      `json:"offered"`
		Pricing usecase.PricingResolution `json:"pricing"`
	}{Offered: true, Pricing: res})
}

func (s *Server) handleCheckoutSelect(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Challenge model.ChallengeKind `json:"challenge"`
		Size      string              `json:"size"`
		PromoCode string              `json:"promo_code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	route, err := s.pricingUC.SelectForCheckout(r.Context(), SessionFromContext(r.Context()), req.Challenge, req.Size, req.PromoCode)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Redirect string `json:"redirect"`
	}{Redirect: route})
}

// ----- funnel -----

func funnelView(state *model.FunnelState) any {
	step := state.CurrentStep()
	return struct {
		Step     int             `json:"step"`
		Kind     model.StepKind  `json:"kind"`
		Question string          `json:"question,omitempty"`
		Done     bool            `json:"done"`
		State    *model.FunnelState `json:"state"`
	}{
		Step:     state.Step,
		Kind:     step.Kind,
		Question: step.QuestionID,
		Done:     state.Done(),
		State:    state,
	}
}

func (s *Server) handleFunnelStart(w http.ResponseWriter, r *http.Request) {
	state, err := s.funnelUC.Start(r.Context(), SessionFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, funnelView(state))
}

func (s *Server) handleFunnelAnswer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		QuestionID string   `json:"question_id"`
		Values     []string `json:"values"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	state, err := s.funnelUC.Answer(r.Context(), SessionFromContext(r.Context()), req.QuestionID, req.Values...)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, funnelView(state))
}

func (s *Server) handleFunnelContact(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
		Email     string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	state, err := s.funnelUC.SetContact(r.Context(), SessionFromContext(r.Context()), req.FirstName, req.LastName, req.Email)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, funnelView(state))
}

func (s *Server) handleFunnelAdvance(w http.ResponseWriter, r *http.Request) {
	state, advanced, err := s.funnelUC.Advance(r.Context(), SessionFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	resp := struct {
		Advanced bool `json:"advanced"`
		View     any  `json:"view"`
	}{Advanced: advanced, View: funnelView(state)}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFunnelResult(w http.ResponseWriter, r *http.Request) {
	state, err := s.funnelUC.Result(r.Context(), SessionFromContext(r.Context()))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Tier            model.RiskTier `json:"tier"`
		Score           int            `json:"score"`
		HighRisk        bool           `json:"high_risk"`
		RecommendedSize string         `json:"recommended_size"`
	}{Tier: state.Tier, Score: state.Score, HighRisk: state.HighRisk, RecommendedSize: state.RecommendedSize})
}

// ----- checkout -----

type checkoutRequest struct {
	Kind        string              `json:"kind"` // funnel | promo | activation | reset
	Challenge   model.ChallengeKind `json:"challenge"`
	AccountSize string              `json:"account_size"`
	Platform    string              `json:"platform"`
	PromoCode   string              `json:"promo_code"`
	CampaignTag string              `json:"campaign_tag"`
	AmountCents int64               `json:"amount_cents"`
	Form        model.ContactForm   `json:"form"`
	SuccessPath string              `json:"success_path"`
}

func (s *Server) handleCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	sid := SessionFromContext(r.Context())
	var payload usecase.CheckoutPayload
	switch req.Kind {
	case "funnel":
		state, err := s.funnelUC.Result(r.Context(), sid)
		if err != nil {
			writeDomainError(w, err)
			return
		}
		payload = usecase.FunnelLeadPayload{State: state, Platform: req.Platform}
	case "promo":
		s.fillFromSession(r, &req)
		payload = usecase.PromoSelectionPayload{
			Challenge:   req.Challenge,
			AccountSize: req.AccountSize,
			Platform:    req.Platform,
			PromoCode:   req.PromoCode,
			Form:        req.Form,
			SuccessPath: req.SuccessPath,
		}
	case "activation":
		payload = usecase.ActivationFormPayload{
			Challenge:   req.Challenge,
			AccountSize: req.AccountSize,
			Platform:    req.Platform,
			CampaignTag: req.CampaignTag,
			Form:        req.Form,
			SuccessPath: req.SuccessPath,
		}
	case "reset":
		payload = usecase.ResetFormPayload{
			Challenge:   req.Challenge,
			AccountSize: req.AccountSize,
			Platform:    req.Platform,
			AmountCents: req.AmountCents,
			Form:        req.Form,
			SuccessPath: req.SuccessPath,
		}
	default:
		http.Error(w, "unknown checkout kind", http.StatusBadRequest)
		return
	}

	order, hostedURL, err := s.checkoutUC.Checkout(r.Context(), payload)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if req.Kind == "reset" {
		// The confirmation page reads this key after the redirect.
		if err := s.sessions.Set(r.Context(), sid, repository.SessionKeyResetResult, order.ID); err != nil {
			s.log.Warn().Err(err).Msg("reset result session write failed")
		}
	}

	writeJSON(w, http.StatusCreated, struct {
		OrderID   string `json:"order_id"`
		HostedURL string `json:"hosted_url"`
	}{OrderID: order.ID, HostedURL: hostedURL})
}

// fillFromSession backfills a promo checkout from the cross-page channel when
// the request body left the selection fields empty.
func (s *Server) fillFromSession(r *http.Request, req *checkoutRequest) {
	sid := SessionFromContext(r.Context())
	if req.Challenge == "" {
		if v, err := s.sessions.Get(r.Context(), sid, repository.SessionKeyChallengeType); err == nil && v != "" {
			req.Challenge = model.ChallengeKind(v)
		}
	}
	if req.AccountSize == "" {
		if v, err := s.sessions.Get(r.Context(), sid, repository.SessionKeyChallengeAmount); err == nil && v != "" {
			req.AccountSize = v
		}
	}
	if req.PromoCode == "" {
		if v, err := s.sessions.Get(r.Context(), sid, repository.SessionKeyPromoCode); err == nil && v != "" {
			req.PromoCode = v
		}
	}
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	if s.webhookKey != "" && r.Header.Get("X-Webhook-Key") != s.webhookKey {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	var req struct {
		ChargeID string `json:"charge_id"`
		Status   string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	order, err := s.checkoutUC.ConfirmWebhook(r.Context(), req.ChargeID, req.Status)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		OrderID string            `json:"order_id"`
		Status  model.OrderStatus `json:"status"`
	}{OrderID: order.ID, Status: order.Status})
}

// ----- prices -----

func (s *Server) handlePrices(w http.ResponseWriter, r *http.Request) {
	snap, err := s.prices.Latest(r.Context())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, "prices not yet available", http.StatusServiceUnavailable)
			return
		}
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// ----- community -----

func (s *Server) handleListPolls(w http.ResponseWriter, r *http.Request) {
	polls, err := s.pollUC.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Polls []*model.Poll `json:"polls"`
	}{Polls: polls})
}

func (s *Server) handleCreatePoll(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	u := UserFromContext(r.Context())
	poll, err := s.pollUC.Create(r.Context(), u.ID, req.Title, req.Description)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, poll)
}

func (s *Server) handleVote(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Choice model.VoteChoice `json:"choice"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	u := UserFromContext(r.Context())
	poll, err := s.pollUC.Vote(r.Context(), chi.URLParam(r, "id"), u.ID, req.Choice)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, poll)
}

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := s.pollUC.Comments(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Comments []*model.Comment `json:"comments"`
	}{Comments: comments})
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	u := UserFromContext(r.Context())
	comment, err := s.pollUC.Comment(r.Context(), chi.URLParam(r, "id"), u.ID, req.Text)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

// ----- identity -----

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, UserFromContext(r.Context()))
}

func (s *Server) handleClaimUsername(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	u := UserFromContext(r.Context())
	updated, err := s.userUC.ClaimUsername(r.Context(), u.ID, req.Username)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}
