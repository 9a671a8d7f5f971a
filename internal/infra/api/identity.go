// File: internal/infra/api/identity.go
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"propfirm-web/internal/domain/model"
	"propfirm-web/internal/infra/logging"
)

// IdentityClaims is the token shape issued by the authentication
// collaborator: subject is the uid, email travels alongside.
type IdentityClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type Identity struct {
	secret []byte
}

func NewIdentity(secret string) *Identity {
	return &Identity{secret: []byte(secret)}
}

func (i *Identity) Parse(r *http.Request) (*IdentityClaims, error) {
	hdr := r.Header.Get("Authorization")
	if hdr == "" || !strings.HasPrefix(strings.ToLower(hdr), "bearer ") {
		return nil, errors.New("missing token")
	}
	claims := &IdentityClaims{}
	tkn, err := jwt.ParseWithClaims(strings.TrimSpace(hdr[7:]), claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return i.secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return nil, errors.New("token missing subject")
	}
	return claims, nil
}

const ctxKeyUser ctxKey = "user"

// UserFromContext returns the account attached by RequireUser.
func UserFromContext(ctx context.Context) *model.User {
	u, _ := ctx.Value(ctxKeyUser).(*model.User)
	return u
}

// RequireUser gates a route behind a valid identity token, upserting the
// account so handlers always see a current row.
func (s *Server) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := s.identity.Parse(r)
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		u, err := s.userUC.RegisterOrFetch(r.Context(), claims.Subject, claims.Email)
		if err != nil {
			s.log.Error().Err(err).Msg("identity upsert failed")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		ctx := context.WithValue(logging.WithUserID(r.Context(), u.ID), ctxKeyUser, u)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
