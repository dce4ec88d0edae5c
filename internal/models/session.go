// internal/models/session.go
package models

import "time"

// Session is the browsing session that scopes all wizard state.
type Session struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"createdAt"`
	ExpiresAt    time.Time `json:"expiresAt"`
	LastActivity time.Time `json:"lastActivity"`
}

func NewSession(id string, now time.Time, ttl time.Duration) Session {
	return Session{ID: id, CreatedAt: now, LastActivity: now, ExpiresAt: now.Add(ttl)}
}

// IsExpired reports whether the session had expired at now.
func (s *Session) IsExpired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

// Touch slides the expiry window forward from now.
func (s *Session) Touch(now time.Time, ttl time.Duration) {
	s.LastActivity = now
	s.ExpiresAt = now.Add(ttl)
}
