// internal/models/pass.go
package models

import (
	"time"

	"visitor-registration/internal/taxonomy"
)

// PassContext is what the pass step renders after a successful registration.
type PassContext struct {
	Category       taxonomy.Category      `json:"category"`
	VisitorType    taxonomy.VisitorType   `json:"visitorType"`
	Visitors       []VisitorRecord        `json:"visitors"`
	CompanyName    string                 `json:"companyName,omitempty"`
	PurposeOfVisit string                 `json:"purposeOfVisit,omitempty"`
	Confirmation   map[string]interface{} `json:"confirmation,omitempty"`
}

// Pass is the terminal artifact of the wizard.
type Pass struct {
	Key       string      `json:"passKey"`
	Context   PassContext `json:"context"`
	IssuedAt  time.Time   `json:"issuedAt"`
	Delivered []string    `json:"delivered,omitempty"`
}

// VisitorCount is the number of visitors shown on the pass.
func (p *Pass) VisitorCount() int {
	return len(p.Context.Visitors)
}
