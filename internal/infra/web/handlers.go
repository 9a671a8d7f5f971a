// File: internal/infra/web/handlers.go
package web

import (
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"propfirm-web/internal/domain"
	"propfirm-web/internal/infra/redis"
	"propfirm-web/internal/usecase"
)

// Login exchanges the console password for a session cookie.
func loginHandler(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req struct {
			Password string `json:"password"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if s.limiter != nil {
			host := r.RemoteAddr
			if h, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
				host = h
			}
			ok, err := s.limiter.Allow(r.Context(), redis.LoginKey(host), 5, time.Minute)
			if err == nil && !ok {
				http.Error(w, "Too many attempts", http.StatusTooManyRequests)
				return
			}
		}
		if !s.passwordMatches(req.Password) {
			s.log.Warn().Str("remote", r.RemoteAddr).Msg("admin login rejected")
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		token, err := s.auth.Mint(w)
		if err != nil {
			http.Error(w, "Failed to create session", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(struct {
			Token string `json:"token"`
		}{Token: token})
	}
}

func logoutHandler(s *Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.auth.Clear(w)
		w.WriteHeader(http.StatusNoContent)
	}
}

type templateRequest struct {
	Name      string   `json:"name"`
	Subject   string   `json:"subject"`
	Body      string   `json:"body"`
	Variables []string `json:"variables"`
	Bulk      bool     `json:"bulk"`
}

// templatesRouter dispatches /admin/templates and its subpaths.
func (s *Server) templatesRouter() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/admin/templates")
		rest = strings.Trim(rest, "/")

		if rest == "" {
			switch r.Method {
			case http.MethodGet:
				s.listTemplates(w, r)
			case http.MethodPost:
				s.createTemplate(w, r)
			default:
				http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			}
			return
		}

		parts := strings.SplitN(rest, "/", 2)
		id, err := strconv.Atoi(parts[0])
		if err != nil {
			http.Error(w, "Invalid template id", http.StatusBadRequest)
			return
		}

		action := ""
		if len(parts) == 2 {
			action = parts[1]
		}
		switch {
		case action == "" && r.Method == http.MethodGet:
			s.getTemplate(w, r, id)
		case action == "" && r.Method == http.MethodPut:
			s.updateTemplate(w, r, id)
		case action == "preview" && r.Method == http.MethodPost:
			s.previewTemplate(w, r, id)
		case action == "send" && r.Method == http.MethodPost:
			s.sendTemplate(w, r, id)
		case action == "bulk-send" && r.Method == http.MethodPost:
			s.bulkSendTemplate(w, r, id)
		default:
			http.Error(w, "Not found", http.StatusNotFound)
		}
	})
}

func (s *Server) listTemplates(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.templateUC.List())
}

func (s *Server) createTemplate(w http.ResponseWriter, r *http.Request) {
	var req templateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	tpl := s.templateUC.Create(req.Name, req.Subject, req.Body, req.Variables, req.Bulk)
	writeJSON(w, http.StatusCreated, tpl)
}

func (s *Server) getTemplate(w http.ResponseWriter, _ *http.Request, id int) {
	tpl, err := s.templateUC.Get(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tpl)
}

func (s *Server) updateTemplate(w http.ResponseWriter, r *http.Request, id int) {
	var req templateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	tpl, err := s.templateUC.Update(id, req.Name, req.Subject, req.Body, req.Variables, req.Bulk)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tpl)
}

func (s *Server) previewTemplate(w http.ResponseWriter, r *http.Request, id int) {
	var req struct {
		Vars map[string]string `json:"vars"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	subject, body, err := s.templateUC.RenderPreview(id, req.Vars)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, struct {
		Subject string `json:"subject"`
		Body    string `json:"body"`
	}{Subject: subject, Body: body})
}

func (s *Server) sendTemplate(w http.ResponseWriter, r *http.Request, id int) {
	var req struct {
		To   string            `json:"to"`
		Vars map[string]string `json:"vars"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := s.templateUC.SendSingle(r.Context(), id, req.To, req.Vars); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (s *Server) bulkSendTemplate(w http.ResponseWriter, r *http.Request, id int) {
	var req struct {
		CampaignTag string              `json:"campaign_tag"`
		Recipients  []usecase.Recipient `json:"recipients"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	recipients := req.Recipients
	if req.CampaignTag != "" {
		fromOrders, err := s.templateUC.CampaignRecipients(r.Context(), req.CampaignTag)
		if err != nil {
			writeError(w, err)
			return
		}
		for _, rec := range fromOrders {
			recipients, _ = usecase.AppendRecipient(recipients, rec)
		}
	}
	if len(recipients) == 0 {
		http.Error(w, "No recipients", http.StatusBadRequest)
		return
	}

	if err := s.templateUC.StartBulk(id, recipients); err != nil {
		if errors.Is(err, usecase.ErrBulkRunActive) {
			http.Error(w, "A bulk send is already running", http.StatusConflict)
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, struct {
		Queued int `json:"queued"`
	}{Queued: len(recipients)})
}

func progressHandler(templateUC usecase.TemplateUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, templateUC.Progress())
	}
}

func customersHandler(userUC usecase.UserUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if limit <= 0 || limit > 200 {
			limit = 50
		}

		users, err := userUC.List(ctx, offset, limit)
		if err != nil {
			http.Error(w, "Failed to list customers", http.StatusInternalServerError)
			return
		}
		total, err := userUC.Count(ctx)
		if err != nil {
			http.Error(w, "Failed to count customers", http.StatusInternalServerError)
			return
		}

		writeJSON(w, http.StatusOK, struct {
			Total     int `json:"total"`
			Customers any `json:"customers"`
		}{Total: total, Customers: users})
	}
}

func ordersHandler(orderUC usecase.OrderUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if tag := r.URL.Query().Get("campaign"); tag != "" {
			orders, err := orderUC.ByCampaign(ctx, tag)
			if err != nil {
				http.Error(w, "Failed to list orders", http.StatusInternalServerError)
				return
			}
			writeJSON(w, http.StatusOK, orders)
			return
		}

		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		orders, err := orderUC.Recent(ctx, limit)
		if err != nil {
			http.Error(w, "Failed to list orders", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, orders)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "Not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrInvalidArgument):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "Internal error", http.StatusInternalServerError)
	}
}
