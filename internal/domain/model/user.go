package model

import (
	"time"

	"propfirm-web/internal/domain"
)

// User is a site account keyed by the authentication collaborator's uid.
// Username is the community display name; it is empty until the one-time
// claim step and never changes afterwards.
type User struct {
	ID            string     `json:"id"` // auth uid
	Email         string     `json:"email"`
	Username      string     `json:"username,omitempty"`
	UsernameSetAt *time.Time `json:"username_set_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	LastSeenAt    time.Time  `json:"last_seen_at"`
}

func NewUser(id, email string) (*User, error) {
	if id == "" || email == "" {
		return nil, domain.ErrInvalidArgument
	}
	now := time.Now()
	return &User{ID: id, Email: email, CreatedAt: now, LastSeenAt: now}, nil
}

func (u *User) IsZero() bool { return u == nil || u.ID == "" }

// HasUsername gates all poll interactions.
func (u *User) HasUsername() bool { return u != nil && u.Username != "" }

func (u *User) Touch() { u.LastSeenAt = time.Now() }
