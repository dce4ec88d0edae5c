// pkg/registry/schema.go
package registry

import "visitor-registration/internal/schema"

// FormRegistry is the exported set of resolved forms, one entry per
// (category, visitor type) pair of the taxonomy.
type FormRegistry struct {
	Version     string      `json:"version"`
	LastUpdated string      `json:"lastUpdated"`
	Forms       []FormEntry `json:"forms"`
}

type FormEntry struct {
	ID          string            `json:"id"`
	Category    string            `json:"category"`
	VisitorType string            `json:"visitorType"`
	Spec        *schema.FieldSpec `json:"spec"`
}
