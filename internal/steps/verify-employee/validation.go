package verifyemployee

import "visitor-registration/internal/common/validation"

// GetInputSchema describes the identity step request body. Blank identifiers
// pass here and are rejected by the service with EMPTY_IDENTIFIER.
func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"employeeId"},
		Properties: map[string]validation.Property{
			"employeeId": {
				Type:        "string",
				Description: "Employee identifier to verify",
				MaxLength:   validation.IntPtr(64),
			},
		},
		AdditionalProperties: false,
	}
}
