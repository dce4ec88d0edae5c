// internal/models/wizard.go
package models

import (
	"time"

	"visitor-registration/internal/taxonomy"
)

// Step is the wizard step pointer.
type Step string

const (
	StepIdentity          Step = "identity"
	StepCategorySelect    Step = "category_select"
	StepVisitorTypeSelect Step = "visitor_type_select"
	StepFormFill          Step = "form_fill"
	StepPassIssued        Step = "pass_issued"
)

// WizardState is the in-progress registration draft of one session.
type WizardState struct {
	Step        Step                 `json:"step"`
	Category    taxonomy.Category    `json:"category,omitempty"`
	VisitorType taxonomy.VisitorType `json:"visitorType,omitempty"`

	Visitors        []VisitorRecord `json:"visitors"`
	DeliveryPartner VisitorRecord   `json:"deliveryPartner"`
	GroupContact    string          `json:"groupContact,omitempty"`

	CompanyName    string `json:"companyName,omitempty"`
	CompanyAddress string `json:"companyAddress,omitempty"`
	Country        string `json:"country,omitempty"`
	PurposeOfVisit string `json:"purposeOfVisit,omitempty"`

	StartDate string `json:"startDate,omitempty"`
	StartTime string `json:"startTime,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
	EndTime   string `json:"endTime,omitempty"`

	TeamCaptain  string `json:"teamCaptain,omitempty"`
	SportsType   string `json:"sportsType,omitempty"`
	Deliverables string `json:"deliverables,omitempty"`
	DeliveryDate string `json:"deliveryDate,omitempty"`

	UploadedDocumentRef string `json:"uploadedDocumentRef,omitempty"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// NewWizardState returns an empty draft positioned on the identity step.
func NewWizardState() *WizardState {
	return &WizardState{
		Step:     StepIdentity,
		Visitors: []VisitorRecord{},
	}
}

// Clone returns a deep copy of the draft.
func (s *WizardState) Clone() *WizardState {
	if s == nil {
		return nil
	}
	out := *s
	out.Visitors = make([]VisitorRecord, len(s.Visitors))
	copy(out.Visitors, s.Visitors)
	return &out
}

// ResetForm clears every form field while keeping the step selections.
func (s *WizardState) ResetForm() {
	category, visitorType, step := s.Category, s.VisitorType, s.Step
	*s = WizardState{
		Step:        step,
		Category:    category,
		VisitorType: visitorType,
		Visitors:    []VisitorRecord{},
	}
}
