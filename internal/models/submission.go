// internal/models/submission.go
package models

// VisitorMetadata is nested under metadata_json on a shaped visitor entry.
type VisitorMetadata struct {
	Purpose string `json:"purpose"`
}

// SubmissionVisitor is one shaped visitor entry of the registration payload.
type SubmissionVisitor struct {
	VisitorName         string           `json:"visitor_name"`
	VisitorGender       string           `json:"visitor_gender"`
	VisitorRelationship string           `json:"visitor_relationship,omitempty"`
	MetadataJSON        *VisitorMetadata `json:"metadata_json,omitempty"`
}

// SubmissionPayload is the exact body POSTed to the registration endpoint.
type SubmissionPayload struct {
	Category  string              `json:"category"`
	EmpID     int64               `json:"emp_id"`
	VisitDate string              `json:"visit_date"`
	Visitors  []SubmissionVisitor `json:"visitors"`
}
