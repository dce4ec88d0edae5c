// internal/models/identity.go
package models

import (
	"encoding/json"
	"strconv"
	"strings"
)

// EmployeeProfile is the employee payload returned by the verification
// endpoint. ID arrives either as a JSON number or a numeric string.
type EmployeeProfile struct {
	ID       json.RawMessage        `json:"id,omitempty"`
	EmpID    string                 `json:"emp_id,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// NumericID extracts the integer id of the profile.
func (p *EmployeeProfile) NumericID() (int64, bool) {
	if p == nil || len(p.ID) == 0 {
		return 0, false
	}
	raw := strings.TrimSpace(string(p.ID))
	if raw == "null" {
		return 0, false
	}
	var s string
	if err := json.Unmarshal(p.ID, &s); err == nil {
		raw = strings.TrimSpace(s)
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Email returns the employee email carried in the profile metadata, if any.
func (p *EmployeeProfile) Email() string {
	if p == nil || p.Metadata == nil {
		return ""
	}
	email, _ := p.Metadata["email"].(string)
	return strings.TrimSpace(email)
}

// EmployeeIdentity is the verified identity of the registering employee.
// NumericID is zero until ResolveNumericID succeeds.
type EmployeeIdentity struct {
	EmployeeID string           `json:"employeeId"`
	NumericID  int64            `json:"numericId"`
	Profile    *EmployeeProfile `json:"profile,omitempty"`
}

// ResolveNumericID returns the integer id used as emp_id on submission: the
// profile id when present, otherwise the identifier itself when it is numeric.
func (e *EmployeeIdentity) ResolveNumericID() (int64, bool) {
	if e == nil {
		return 0, false
	}
	if n, ok := e.Profile.NumericID(); ok {
		return n, true
	}
	n, err := strconv.ParseInt(strings.TrimSpace(e.EmployeeID), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}
