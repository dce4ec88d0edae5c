// internal/models/notification.go
package models

// Notification records one pass delivery attempt.
type Notification struct {
	ID        string `json:"id"`
	PassKey   string `json:"passKey"`
	Channel   string `json:"channel"` // "email", "sms"
	Recipient string `json:"recipient"`
	Status    string `json:"status"` // "sent", "failed", "disabled"
	SentAt    string `json:"sentAt"`
}
