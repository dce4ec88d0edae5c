// internal/models/visitor.go
package models

import "strings"

// Gender is the optional gender selection on a visitor row.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderOther  Gender = "Other"
)

// IsValid reports whether g is unset or one of the selectable values.
func (g Gender) IsValid() bool {
	switch g {
	case "", GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// VisitorRecord is the per-person data unit of a registration.
type VisitorRecord struct {
	Name         string `json:"name"`
	Age          string `json:"age,omitempty"`
	Gender       Gender `json:"gender,omitempty"`
	Contact      string `json:"contact,omitempty"`
	Relationship string `json:"relationship,omitempty"`
}

// HasName reports whether the record carries a non-blank name.
func (v VisitorRecord) HasName() bool {
	return strings.TrimSpace(v.Name) != ""
}

// IsEmpty reports whether every field of the record is blank.
func (v VisitorRecord) IsEmpty() bool {
	return !v.HasName() &&
		strings.TrimSpace(v.Age) == "" &&
		v.Gender == "" &&
		strings.TrimSpace(v.Contact) == "" &&
		strings.TrimSpace(v.Relationship) == ""
}
